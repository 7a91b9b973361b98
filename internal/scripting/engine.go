package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/reaper/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// scriptDirs are loaded in order; later files may override earlier globals.
var scriptDirs = []string{"core", "death", "world"}

// Engine wraps a single gopher-lua VM for game logic execution.
// Single-goroutine access only (game loop). Reload swaps the VM in place.
type Engine struct {
	vm         *lua.LState
	scriptsDir string
	log        *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given directory.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	e := &Engine{scriptsDir: scriptsDir, log: log}
	vm, err := e.newVM()
	if err != nil {
		return nil, err
	}
	e.vm = vm
	return e, nil
}

func (e *Engine) newVM() (*lua.LState, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	// Set API version global
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	for _, sub := range scriptDirs {
		p := filepath.Join(e.scriptsDir, sub)
		if err := e.loadDir(vm, p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load %s scripts: %w", sub, err)
		}
	}
	return vm, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(vm *lua.LState, dir string) error {
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
		if err := vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Reload rebuilds the VM from disk. On failure the running VM is kept.
func (e *Engine) Reload() error {
	vm, err := e.newVM()
	if err != nil {
		return err
	}
	old := e.vm
	e.vm = vm
	old.Close()
	return nil
}

// Dirs returns every directory the engine loads scripts from.
func (e *Engine) Dirs() []string {
	out := []string{e.scriptsDir}
	for _, sub := range scriptDirs {
		out = append(out, filepath.Join(e.scriptsDir, sub))
	}
	return out
}

// ==================== Death hooks ====================

// RespawnLocation is a player respawn point chosen by script.
type RespawnLocation struct {
	X   int
	Y   int
	Map int
}

// GetRespawnLocation calls Lua get_respawn_location(map_id).
// Returns nil when the function is missing or returns nil.
func (e *Engine) GetRespawnLocation(mapID int) *RespawnLocation {
	fn := e.vm.GetGlobal("get_respawn_location")
	if fn == lua.LNil {
		return nil
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LNumber(mapID)); err != nil {
		e.log.Error("lua get_respawn_location error", zap.Error(err))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return nil
	}

	return &RespawnLocation{
		X:   lInt(rt, "x"),
		Y:   lInt(rt, "y"),
		Map: lInt(rt, "map"),
	}
}

// RespawnLocation adapts GetRespawnLocation for the death resolver.
func (e *Engine) RespawnLocation(mapID int16) (world.Location, bool) {
	loc := e.GetRespawnLocation(int(mapID))
	if loc == nil {
		return world.Location{}, false
	}
	return world.NewLocation(int32(loc.X), int32(loc.Y), int16(loc.Map)), true
}

// MobDeathContext is handed to the on_mob_death hook.
type MobDeathContext struct {
	Victim     string
	Killer     string
	Category   string
	TemplateID int
	MapID      int
	X, Y       int
}

// OnMobDeath calls Lua on_mob_death(ctx) if defined and returns the
// announcement it produced ("" = none).
func (e *Engine) OnMobDeath(ctx MobDeathContext) string {
	fn := e.vm.GetGlobal("on_mob_death")
	if fn == lua.LNil {
		return ""
	}

	t := e.vm.NewTable()
	t.RawSetString("victim", lua.LString(ctx.Victim))
	t.RawSetString("killer", lua.LString(ctx.Killer))
	t.RawSetString("category", lua.LString(ctx.Category))
	t.RawSetString("template_id", lua.LNumber(ctx.TemplateID))
	t.RawSetString("map", lua.LNumber(ctx.MapID))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua on_mob_death error", zap.Error(err))
		return ""
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)
	if s, ok := result.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// ==================== Helpers ====================

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
