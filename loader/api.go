package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers the content constructors as globals.
func registerAPI(L *lua.LState, coll *collector) {
	// Game { title = "...", founder = "...", recipes = 30, ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Class "Warrior" { power = 10, ... }
	L.SetGlobal("Class", curried(L, func(raw rawNamed) {
		coll.classes = append(coll.classes, raw)
	}))

	// Perk "loot_boost_10" { name = "...", price_sats = 5000, ... }
	L.SetGlobal("Perk", curried(L, func(raw rawNamed) {
		coll.perks = append(coll.perks, raw)
	}))

	// Species { "Goblin", "Orc", ... } appends to the monster pool.
	L.SetGlobal("Species", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		for i := 1; i <= tbl.MaxN(); i++ {
			if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
				coll.species = append(coll.species, string(s))
			}
		}
		return 0
	}))

	// Party { { name = "Luna", primary = "Mage", secondary = "Artificer" }, ... }
	L.SetGlobal("Party", L.NewFunction(func(L *lua.LState) int {
		coll.party = L.CheckTable(1)
		return 0
	}))

	// Lore { themes = {...}, adjectives = {...} }
	L.SetGlobal("Lore", L.NewFunction(func(L *lua.LState) int {
		coll.lore = L.CheckTable(1)
		return 0
	}))
}

// curried builds Name("id") { ... } constructors.
func curried(L *lua.LState, add func(rawNamed)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(rawNamed{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	})
}
