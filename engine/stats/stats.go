// Package stats aggregates a hero's base stats, equipped gear and socketed
// gems into an effective stat block.
package stats

import (
	"math"

	"github.com/nathoo/towercore/types"
)

// StunCap is the most stun chance gems can add, in percent.
const StunCap = 50

// Founder bonus, granted to roster slot 0 when the founder is playing.
const (
	FounderCritRate   = 100
	FounderCritDamage = 100
)

// Inventory resolves gear and gem IDs. Socketed gems must be resolvable even
// though they are no longer in the shared gem collection.
type Inventory interface {
	Gear(id string) (types.Gear, bool)
	Gem(id string) (types.Gem, bool)
}

// Add returns the field-wise sum of two stat blocks.
func Add(a, b types.Stats) types.Stats {
	return types.Stats{
		Power:      a.Power + b.Power,
		Defense:    a.Defense + b.Defense,
		Vitality:   a.Vitality + b.Vitality,
		CritRate:   a.CritRate + b.CritRate,
		CritDamage: a.CritDamage + b.CritDamage,
		Haste:      a.Haste + b.Haste,
		Magic:      a.Magic + b.Magic,
		StunChance: a.StunChance + b.StunChance,
	}
}

// FromGear returns the flat bonus of one gear item: its rarity value goes to
// Power for the weapon slot and to Defense for every other slot.
func FromGear(g types.Gear) types.Stats {
	v := float64(types.RarityValue[g.Rarity])
	if g.Slot == types.SlotSword {
		return types.Stats{Power: v}
	}
	return types.Stats{Defense: v}
}

// FromGem returns the bonus of a single gem.
func FromGem(g types.Gem) types.Stats {
	v := float64(g.Value)
	switch g.Type {
	case types.GemPower:
		return types.Stats{Power: v}
	case types.GemDefense:
		return types.Stats{Defense: v}
	case types.GemVitality:
		return types.Stats{Vitality: v}
	case types.GemCrit:
		return types.Stats{CritRate: v / 2, CritDamage: v * 2}
	case types.GemStun:
		return types.Stats{StunChance: math.Min(StunCap, v/2)}
	case types.GemHaste:
		return types.Stats{Haste: v}
	case types.GemMagic:
		return types.Stats{Magic: v}
	default:
		return types.Stats{}
	}
}

// Compute returns the hero's effective stats. It is a pure function of the
// hero and the inventory; founder applies the one-off founder bonus and is
// only ever true for the first roster slot.
func Compute(hero types.Hero, inv Inventory, founder bool) types.Stats {
	s := hero.Stats
	gemStun := 0.0

	for _, slot := range types.GearSlots {
		id, ok := hero.Equipment[slot]
		if !ok || id == "" {
			continue
		}
		gear, ok := inv.Gear(id)
		if !ok {
			continue
		}
		s = Add(s, FromGear(gear))
		for _, gemID := range gear.SocketedGems {
			gem, ok := inv.Gem(gemID)
			if !ok {
				continue
			}
			bonus := FromGem(gem)
			gemStun += bonus.StunChance
			bonus.StunChance = 0
			s = Add(s, bonus)
		}
	}

	s.StunChance += math.Min(StunCap, gemStun)

	if founder {
		s.CritRate += FounderCritRate
		s.CritDamage += FounderCritDamage
	}
	return s
}
