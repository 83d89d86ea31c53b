package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// RenameHero changes a hero's display name.
func (e *Engine) RenameHero(heroID, name string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		i := state.FindHero(s, heroID)
		name = strings.TrimSpace(name)
		if i < 0 || name == "" {
			reject(res, "Rename needs a hero and a new name.")
			return
		}
		old := s.Heroes[i].Name
		s.Heroes[i].Name = name
		res.Output = append(res.Output, fmt.Sprintf("%s is now known as %s.", old, name))
	})
}

// SetRow moves a hero to the front or back row.
func (e *Engine) SetRow(heroID string, row types.Row) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		i := state.FindHero(s, heroID)
		if i < 0 {
			reject(res, "No such hero.")
			return
		}
		if row != types.RowFront && row != types.RowBack {
			reject(res, "Row must be Front or Back.")
			return
		}
		s.Heroes[i].Row = row
		res.Output = append(res.Output, fmt.Sprintf("%s moves to the %s row.", s.Heroes[i].Name, strings.ToLower(string(row))))
	})
}

// SetHeroClasses changes a hero's class tags. Base stats were fixed when the
// hero was created and stay as they are. Refused while a battle is in progress.
func (e *Engine) SetHeroClasses(heroID string, primary, secondary types.ClassName) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		if s.Tower.InBattle {
			reject(res, "Classes cannot change mid-battle.")
			return
		}
		i := state.FindHero(s, heroID)
		if i < 0 {
			reject(res, "No such hero.")
			return
		}
		_, okP := e.Defs.Classes[primary]
		_, okS := e.Defs.Classes[secondary]
		if !okP || !okS {
			reject(res, "Unknown class.")
			return
		}

		h := &s.Heroes[i]
		h.ClassPrimary = primary
		h.ClassSecondary = secondary
		res.Output = append(res.Output, fmt.Sprintf("%s is now a %s / %s.", h.Name, primary, secondary))
	})
}

// GrantPerk records a premium perk as owned. Payment happens elsewhere;
// this is bookkeeping only.
func (e *Engine) GrantPerk(perkID string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		p, ok := e.Defs.Perks[perkID]
		if !ok {
			reject(res, "Unknown perk %q.", perkID)
			return
		}
		if state.HasPerk(s, perkID) {
			reject(res, "You already own %s.", p.Name)
			return
		}
		s.Premium.OwnedPerks = append(s.Premium.OwnedPerks, perkID)
		res.Output = append(res.Output, fmt.Sprintf("Perk unlocked: %s.", p.Name))
	})
}

// FloorLore returns the flavour line for the current floor.
func (e *Engine) FloorLore() string {
	e.mu.Lock()
	floor := e.state.UI.Floor
	e.mu.Unlock()
	return Lore(e.Defs, floor)
}

// Lore is the flavour line for a floor: a theme and an adjective chosen by
// fixed strides through the content lists.
func Lore(defs *state.Defs, floor int) string {
	if len(defs.LoreThemes) == 0 || len(defs.LoreAdjectives) == 0 {
		return fmt.Sprintf("Floor %d is silent.", floor)
	}
	theme := defs.LoreThemes[(floor*7)%len(defs.LoreThemes)]
	adj := defs.LoreAdjectives[(floor*13)%len(defs.LoreAdjectives)]
	return fmt.Sprintf("Floor %d echoes with %s %s currents.", floor, strings.ToLower(adj), strings.ToLower(theme))
}
