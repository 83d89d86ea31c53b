package loader

import (
	"fmt"
	"sort"

	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
	lua "github.com/yuin/gopher-lua"
)

// Defaults for Game{} counts left unset.
const (
	DefaultRecipeCount   = 30
	DefaultShopSize      = 50
	DefaultMaterialCount = 12
)

// statKeys maps Lua field names to stat setters.
var statKeys = []struct {
	key string
	set func(*types.Stats, float64)
}{
	{"power", func(s *types.Stats, v float64) { s.Power = v }},
	{"defense", func(s *types.Stats, v float64) { s.Defense = v }},
	{"vitality", func(s *types.Stats, v float64) { s.Vitality = v }},
	{"crit_rate", func(s *types.Stats, v float64) { s.CritRate = v }},
	{"crit_damage", func(s *types.Stats, v float64) { s.CritDamage = v }},
	{"haste", func(s *types.Stats, v float64) { s.Haste = v }},
	{"magic", func(s *types.Stats, v float64) { s.Magic = v }},
	{"stun_chance", func(s *types.Stats, v float64) { s.StunChance = v }},
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a numeric field and whether it was present.
func getNumber(tbl *lua.LTable, key string) (float64, bool) {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n), true
	}
	return 0, false
}

// getInt returns an int field, or def if missing.
func getInt(tbl *lua.LTable, key string, def int) int {
	if n, ok := getNumber(tbl, key); ok {
		return int(n)
	}
	return def
}

// getStrings returns the array part of a table field as strings.
func getStrings(tbl *lua.LTable, key string) []string {
	t, ok := tbl.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= t.MaxN(); i++ {
		if s, ok := t.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// compile converts collected Lua data into Defs. Malformed class and perk
// tables are reported together in a ValidationError.
func compile(coll *collector) (*state.Defs, error) {
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	ve := &ValidationError{}

	defs := &state.Defs{
		Title:         getString(coll.game, "title"),
		Version:       getString(coll.game, "version"),
		Intro:         getString(coll.game, "intro"),
		Founder:       getString(coll.game, "founder"),
		RecipeCount:   getInt(coll.game, "recipes", DefaultRecipeCount),
		ShopSize:      getInt(coll.game, "shop", DefaultShopSize),
		MaterialCount: getInt(coll.game, "materials", DefaultMaterialCount),
		Classes:       map[types.ClassName]types.Stats{},
		Species:       coll.species,
		Perks:         map[string]state.Perk{},
	}

	for _, raw := range coll.classes {
		name := types.ClassName(raw.id)
		if _, dup := defs.Classes[name]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q defined twice", raw.id))
			continue
		}
		stats, missing := compileStats(raw.table)
		if len(missing) > 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("class %q is missing %v", raw.id, missing))
		}
		defs.Classes[name] = stats
	}

	if coll.party != nil {
		for i := 1; i <= coll.party.MaxN(); i++ {
			t, ok := coll.party.RawGetInt(i).(*lua.LTable)
			if !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf("party entry %d is not a table", i))
				continue
			}
			defs.Party = append(defs.Party, state.HeroTemplate{
				Name:      getString(t, "name"),
				Primary:   types.ClassName(getString(t, "primary")),
				Secondary: types.ClassName(getString(t, "secondary")),
			})
		}
	}

	if coll.lore != nil {
		defs.LoreThemes = getStrings(coll.lore, "themes")
		defs.LoreAdjectives = getStrings(coll.lore, "adjectives")
	}

	for _, raw := range coll.perks {
		if _, dup := defs.Perks[raw.id]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("perk %q defined twice", raw.id))
			continue
		}
		boost, _ := getNumber(raw.table, "drop_boost")
		defs.Perks[raw.id] = state.Perk{
			ID:          raw.id,
			Name:        getString(raw.table, "name"),
			PriceSats:   getInt(raw.table, "price_sats", 0),
			DropBoost:   boost,
			Description: getString(raw.table, "description"),
		}
	}

	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return defs, nil
}

// compileStats reads the eight stat fields, returning any that are absent.
func compileStats(tbl *lua.LTable) (types.Stats, []string) {
	var stats types.Stats
	var missing []string
	for _, k := range statKeys {
		v, ok := getNumber(tbl, k.key)
		if !ok {
			missing = append(missing, k.key)
			continue
		}
		k.set(&stats, v)
	}
	sort.Strings(missing)
	return stats, missing
}
