package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/towercore/engine/resolve"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// describeStatus summarizes progression and the current encounter.
func describeStatus(s *types.State) []string {
	lines := []string{fmt.Sprintf("Floor %d  Gold %d  Revive Potions %d",
		s.UI.Floor, s.UI.Gold, s.Inventory.Potions.Revive)}
	if s.Tower.InBattle && len(s.Tower.Monsters) > 0 {
		m := s.Tower.Monsters[0]
		lines = append(lines, fmt.Sprintf("Turn %d vs %s (level %d): %d/%d HP", s.Tower.Turn, m.Name, m.Level, max(0, m.HP), m.MaxHP))
	} else {
		lines = append(lines, "No battle in progress.")
	}
	return lines
}

// describeParty lists heroes with their effective stats and equipment.
func (e *Engine) describeParty(s *types.State) []string {
	var lines []string
	for i, h := range s.Heroes {
		st := e.heroStats(s, i)
		row := h.Row
		if row == "" {
			row = types.RowFront
		}
		lines = append(lines, fmt.Sprintf("%d. %s  %s/%s  [%s]  HP %d/%d",
			i+1, h.Name, h.ClassPrimary, h.ClassSecondary, row, h.CurrentHP, state.MaxHP(&h)))
		lines = append(lines, "   "+FormatStats(st))

		var worn []string
		for _, slot := range types.GearSlots {
			id := h.Equipment[slot]
			if id == "" {
				continue
			}
			if gi := state.FindGear(s, id); gi >= 0 {
				worn = append(worn, fmt.Sprintf("%s: %s", slot, s.Inventory.Gear[gi].Name))
			}
		}
		if len(worn) > 0 {
			lines = append(lines, "   "+strings.Join(worn, ", "))
		}
	}
	if len(lines) == 0 {
		lines = append(lines, "Your party is empty.")
	}
	return lines
}

// FormatStats renders a stat block on one line.
func FormatStats(st types.Stats) string {
	return fmt.Sprintf("PWR %g  DEF %g  VIT %g  CRIT %g%%/%g%%  HASTE %g  MAG %g  STUN %g%%",
		st.Power, st.Defense, st.Vitality, st.CritRate, st.CritDamage, st.Haste, st.Magic, st.StunChance)
}

func describeGear(s *types.State) []string {
	if len(s.Inventory.Gear) == 0 {
		return []string{"You have no gear."}
	}
	lines := make([]string, 0, len(s.Inventory.Gear))
	for i, g := range s.Inventory.Gear {
		line := fmt.Sprintf("%d. %s (%s)%s", i+1, g.Name, g.Slot, describeSockets(g))
		if owner := state.EquippedBy(s, g.ID); owner != "" {
			line += " - worn by " + s.Heroes[state.FindHero(s, owner)].Name
		}
		lines = append(lines, line)
	}
	return lines
}

func describeSockets(g types.Gear) string {
	if len(g.Sockets) == 0 {
		return ""
	}
	parts := make([]string, len(g.Sockets))
	for i, sock := range g.Sockets {
		switch {
		case sock.GemID == "":
			parts[i] = "empty"
		case sock.Gem != nil:
			parts[i] = sock.Gem.Name
		default:
			parts[i] = "gem"
		}
	}
	return " [" + strings.Join(parts, " | ") + "]"
}

func describeGems(s *types.State) []string {
	if len(s.Inventory.Gems) == 0 {
		return []string{"You have no loose gems."}
	}
	lines := make([]string, 0, len(s.Inventory.Gems))
	for i, g := range s.Inventory.Gems {
		lines = append(lines, fmt.Sprintf("%d. %s (%s %s, %d)", i+1, g.Name, g.Rarity, g.Type, g.Value))
	}
	return lines
}

func describeMaterials(s *types.State) []string {
	if len(s.Inventory.Materials) == 0 {
		return []string{"You have no materials."}
	}
	lines := make([]string, 0, len(s.Inventory.Materials))
	for _, m := range s.Inventory.Materials {
		lines = append(lines, fmt.Sprintf("%s (%s) x%d", m.Name, m.Rarity, m.Qty))
	}
	return lines
}

func describeRecipes(s *types.State) []string {
	if len(s.Recipes) == 0 {
		return []string{"Your recipe book is empty."}
	}
	lines := make([]string, 0, len(s.Recipes))
	for i, r := range s.Recipes {
		var needs []string
		for _, in := range r.Inputs {
			have := 0
			if mi := state.FindMaterial(s, in.MaterialID); mi >= 0 {
				have = s.Inventory.Materials[mi].Qty
			}
			needs = append(needs, fmt.Sprintf("%d/%d %s", have, in.Qty, materialLabel(s, in.MaterialID)))
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %s -> %s", i+1, r.Name, strings.Join(needs, ", "), describeOutput(r.Output)))
	}
	return lines
}

func materialLabel(s *types.State, id string) string {
	if mi := state.FindMaterial(s, id); mi >= 0 {
		return s.Inventory.Materials[mi].Name
	}
	return id
}

func describeOutput(o types.RecipeOutput) string {
	switch o.Kind {
	case types.KindGear:
		return fmt.Sprintf("%s %s", o.Rarity, o.Slot)
	case types.KindGem:
		return fmt.Sprintf("%s %s Gem", o.Rarity, o.GemType)
	case types.KindPotion:
		return "Revive Potion"
	}
	return string(o.Kind)
}

func describeShop(s *types.State) []string {
	if len(s.Shop.Items) == 0 {
		return []string{"The shop is sold out. Try reroll."}
	}
	lines := make([]string, 0, len(s.Shop.Items)+1)
	lines = append(lines, fmt.Sprintf("You have %d gold.", s.UI.Gold))
	for i, it := range s.Shop.Items {
		lines = append(lines, fmt.Sprintf("%d. %s  %dg", i+1, resolve.ShopItemName(it), it.Price))
	}
	return lines
}

func describeLog(s *types.State) []string {
	if len(s.Tower.BattleLog) == 0 {
		return []string{"The battle log is empty."}
	}
	lines := make([]string, 0, len(s.Tower.BattleLog))
	for _, ev := range s.Tower.BattleLog {
		lines = append(lines, fmt.Sprintf("[T%d] %s", ev.Turn, ev.Text))
	}
	return lines
}

func (e *Engine) describePerks(s *types.State) []string {
	ids := make([]string, 0, len(e.Defs.Perks))
	for id := range e.Defs.Perks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		p := e.Defs.Perks[id]
		owned := ""
		if state.HasPerk(s, id) {
			owned = " (owned)"
		}
		lines = append(lines, fmt.Sprintf("%s: %s, %d sats%s", id, p.Name, p.PriceSats, owned))
	}
	if len(lines) == 0 {
		lines = append(lines, "No perks are on offer.")
	}
	return lines
}
