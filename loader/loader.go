// Package loader compiles Lua content files into engine definitions.
// The Lua VM is discarded after loading; no Lua runs during play.
package loader

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/towercore/engine/state"
	lua "github.com/yuin/gopher-lua"
)

//go:embed content/*.lua
var defaultContent embed.FS

// collector accumulates Lua definitions during file execution.
type collector struct {
	game    *lua.LTable
	classes []rawNamed
	species []string
	party   *lua.LTable
	lore    *lua.LTable
	perks   []rawNamed
}

// rawNamed is a curried constructor call: Name "id" { ... }.
type rawNamed struct {
	id    string
	table *lua.LTable
}

// Load reads all .lua files from dir, compiles and validates them.
func Load(dir string) (*state.Defs, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}
	return LoadFS(os.DirFS(dir))
}

// LoadDefault compiles the built-in tower content.
func LoadDefault() (*state.Defs, error) {
	sub, err := fs.Sub(defaultContent, "content")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub)
}

// LoadFS loads every top-level .lua file in fsys, game.lua first.
func LoadFS(fsys fs.FS) (*state.Defs, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found")
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		fn, err := L.Load(bytes.NewReader(src), f)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, err
	}
	if err := validate(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring", "require", "module",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// sortedLuaFiles puts game.lua first and sorts the rest.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
