package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const spawnScript = `
function on_spawn(ctx)
  if ctx.template == "boss" and ctx.map_id ~= 4 then
    return false
  end
  if ctx.template == "goblin" then
    return { hp = ctx.hp * 2 }
  end
  if ctx.template == "ghost" then
    return { allow = ctx.recycled }
  end
end
`

func TestOnSpawnVerdicts(t *testing.T) {
	e, err := NewEngineFromString(spawnScript, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.True(t, e.HasHook("on_spawn"))

	v := e.OnSpawn(SpawnContext{Template: "goblin", HP: 40})
	assert.Equal(t, SpawnVerdict{Allow: true, HP: 80}, v)

	v = e.OnSpawn(SpawnContext{Template: "boss", MapID: 1, HP: 500})
	assert.False(t, v.Allow)

	v = e.OnSpawn(SpawnContext{Template: "boss", MapID: 4, HP: 500})
	assert.Equal(t, SpawnVerdict{Allow: true, HP: 500}, v)

	assert.False(t, e.OnSpawn(SpawnContext{Template: "ghost"}).Allow)
	assert.True(t, e.OnSpawn(SpawnContext{Template: "ghost", Recycled: true}).Allow)
}

func TestOnSpawnWithoutHookAllows(t *testing.T) {
	e, err := NewEngineFromString(`x = 1`, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.HasHook("on_spawn"))
	assert.Equal(t, SpawnVerdict{Allow: true, HP: 7}, e.OnSpawn(SpawnContext{HP: 7}))
}

func TestOnSpawnScriptErrorAllows(t *testing.T) {
	e, err := NewEngineFromString(`function on_spawn(ctx) error("boom") end`, nil)
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, SpawnVerdict{Allow: true, HP: 3}, e.OnSpawn(SpawnContext{HP: 3}))
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "spawn"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "spawn", "hooks.lua"), []byte(spawnScript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("not lua"), 0o644))

	e, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer e.Close()
	assert.True(t, e.HasHook("on_spawn"))

	missing, err := NewEngine(filepath.Join(dir, "absent"), nil)
	require.NoError(t, err)
	missing.Close()
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	_, err := NewEngineFromString(`function (`, nil)
	assert.Error(t, err)
}
