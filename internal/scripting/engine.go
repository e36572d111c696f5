package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for spawn hooks.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

func newEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	return &Engine{vm: vm, log: log}
}

// NewEngine creates a Lua engine and loads every script in scriptsDir and
// its spawn/ subdirectory. A missing directory loads nothing.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	for _, dir := range []string{scriptsDir, filepath.Join(scriptsDir, "spawn")} {
		if err := e.loadDir(dir); err != nil {
			e.vm.Close()
			return nil, fmt.Errorf("load scripts: %w", err)
		}
	}
	return e, nil
}

// NewEngineFromString creates an engine from a single chunk of Lua source.
func NewEngineFromString(src string, log *zap.Logger) (*Engine, error) {
	e := newEngine(log)
	if err := e.vm.DoString(src); err != nil {
		e.vm.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() { e.vm.Close() }

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// HasHook reports whether a global Lua function named name is defined.
func (e *Engine) HasHook(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LFunction)
	return ok
}

// SpawnContext holds pre-packed data for the on_spawn hook.
type SpawnContext struct {
	Template string
	MapID    int16
	X        int32
	Y        int32
	HP       int32
	Recycled bool
}

// SpawnVerdict is what on_spawn decided. HP is the (possibly adjusted) hit
// points the NPC spawns with.
type SpawnVerdict struct {
	Allow bool
	HP    int32
}

// OnSpawn calls the Lua on_spawn(ctx) function. It may return nothing or
// true to allow, false to veto, or a table {allow = bool, hp = number}.
// A missing function or a script error allows the spawn unchanged.
func (e *Engine) OnSpawn(ctx SpawnContext) SpawnVerdict {
	verdict := SpawnVerdict{Allow: true, HP: ctx.HP}

	fn := e.vm.GetGlobal("on_spawn")
	if fn == lua.LNil {
		return verdict
	}

	t := e.vm.NewTable()
	t.RawSetString("template", lua.LString(ctx.Template))
	t.RawSetString("map_id", lua.LNumber(ctx.MapID))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("hp", lua.LNumber(ctx.HP))
	t.RawSetString("recycled", lua.LBool(ctx.Recycled))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_spawn error", zap.String("template", ctx.Template), zap.Error(err))
		return verdict
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch v := result.(type) {
	case lua.LBool:
		verdict.Allow = bool(v)
	case *lua.LTable:
		if allow := v.RawGetString("allow"); allow != lua.LNil {
			verdict.Allow = lua.LVAsBool(allow)
		}
		if hp, ok := v.RawGetString("hp").(lua.LNumber); ok {
			verdict.HP = int32(hp)
		}
	case *lua.LNilType:
	default:
		e.log.Warn("lua on_spawn returned unexpected value", zap.String("type", result.Type().String()))
	}
	return verdict
}
