package world

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/entity"
	"github.com/l1jgo/spawnpool/internal/scripting"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrVetoed          = errors.New("spawn vetoed by script")
)

// Factory builds NPCs from templates. It satisfies spawn.Factory.
type Factory struct {
	world     *State
	templates *data.TemplateTable
	scripts   *scripting.Engine // optional
	log       *zap.Logger
}

func NewFactory(ws *State, templates *data.TemplateTable, scripts *scripting.Engine, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Factory{world: ws, templates: templates, scripts: scripts, log: log}
}

// Create builds a hidden NPC at p. It does not enter the world until
// FinishSpawn.
func (f *Factory) Create(tpl entity.TemplateID, p entity.Placement) (entity.Entity, error) {
	t := f.templates.Get(tpl)
	if t == nil {
		return nil, fmt.Errorf("create %q: %w", tpl, ErrUnknownTemplate)
	}
	hp := t.HP
	if f.scripts != nil {
		v := f.scripts.OnSpawn(scripting.SpawnContext{
			Template: string(t.ID),
			MapID:    p.MapID,
			X:        p.X,
			Y:        p.Y,
			HP:       t.HP,
		})
		if !v.Allow {
			return nil, fmt.Errorf("create %q at %s: %w", tpl, p, ErrVetoed)
		}
		hp = v.HP
	}

	n := &Npc{
		ID:       NextNpcID(),
		Template: t,
		world:    f.world,
		factory:  f,
	}
	n.reset(hp)
	n.SetHidden(true)
	n.Place(p)
	return n, nil
}

// FinishSpawn enters the NPC into the world and activates it. If the tile is
// taken the NPC is destroyed, which fails the request.
func (f *Factory) FinishSpawn(e entity.Entity, p entity.Placement) {
	n, ok := e.(*Npc)
	if !ok {
		f.log.DPanic("finish spawn of foreign entity", zap.String("template", string(e.TemplateID())))
		e.Destroy()
		return
	}
	n.Place(p)
	if !f.world.Enter(n) {
		f.log.Debug("spawn tile occupied",
			zap.Int32("npc", n.ID),
			zap.Object("placement", p),
		)
		n.Destroy()
		return
	}
	entity.Activate(n)
}

// recycle reruns the spawn hook for an NPC coming back from the pool.
func (f *Factory) recycle(n *Npc) {
	if f.scripts == nil {
		return
	}
	v := f.scripts.OnSpawn(scripting.SpawnContext{
		Template: string(n.Template.ID),
		MapID:    n.MapID,
		X:        n.X,
		Y:        n.Y,
		HP:       n.HP,
		Recycled: true,
	})
	if !v.Allow {
		f.log.Debug("recycled spawn vetoed", zap.Int32("npc", n.ID))
		n.Destroy()
		return
	}
	n.HP, n.MaxHP = v.HP, v.HP
}
