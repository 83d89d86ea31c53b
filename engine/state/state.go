// Package state manages the mutable game state: construction from content
// definitions, lookups by ID, and deep copies for copy-on-write updates.
package state

import (
	"fmt"
	"math"

	"github.com/nathoo/towercore/types"
)

// Perk is a premium perk definition.
type Perk struct {
	ID          string
	Name        string
	PriceSats   int
	DropBoost   float64 // added to the loot drop chance while owned
	Description string
}

// HeroTemplate describes one member of the starting party.
type HeroTemplate struct {
	Name      string
	Primary   types.ClassName
	Secondary types.ClassName
}

// Defs holds the immutable content definitions loaded from Lua.
type Defs struct {
	Title   string
	Version string
	Intro   string

	Classes map[types.ClassName]types.Stats
	Species []string
	Party   []HeroTemplate

	// Founder is the username that earns the first roster slot a flat
	// +100 critRate / +100 critDamage bonus. A one-off content rule.
	Founder string

	LoreThemes     []string
	LoreAdjectives []string

	Perks map[string]Perk

	RecipeCount   int
	ShopSize      int
	MaterialCount int
}

// NewState creates a fresh, uninitialized game state.
func NewState(defs *Defs) *types.State {
	return &types.State{
		UI: types.UI{
			ActivePanel: types.PanelParty,
			Floor:       1,
			AutoPlay:    true,
		},
		Heroes: []types.Hero{},
		Inventory: types.Inventory{
			Gear:      []types.Gear{},
			Gems:      []types.Gem{},
			Materials: []types.Material{},
		},
		Recipes: []types.Recipe{},
		Shop:    types.Shop{Items: []types.ShopItem{}},
		Tower: types.Tower{
			Monsters:  []types.Monster{},
			BattleLog: []types.BattleEvent{},
			Turn:      1,
		},
		Premium: types.Premium{OwnedPerks: []string{}},
	}
}

// BaseStats blends two class templates into a hero's base stat block:
// round((a+b) * 0.55) per field. Unknown classes contribute zeros.
func BaseStats(defs *Defs, primary, secondary types.ClassName) types.Stats {
	a := defs.Classes[primary]
	b := defs.Classes[secondary]
	blend := func(x, y float64) float64 {
		return math.Round((x + y) * 0.55)
	}
	return types.Stats{
		Power:      blend(a.Power, b.Power),
		Defense:    blend(a.Defense, b.Defense),
		Vitality:   blend(a.Vitality, b.Vitality),
		CritRate:   blend(a.CritRate, b.CritRate),
		CritDamage: blend(a.CritDamage, b.CritDamage),
		Haste:      blend(a.Haste, b.Haste),
		Magic:      blend(a.Magic, b.Magic),
		StunChance: blend(a.StunChance, b.StunChance),
	}
}

// PartyTemplate returns the template for roster slot i. Slots the content
// does not define become "Hero N", Warrior/Ranger.
func PartyTemplate(defs *Defs, i int) HeroTemplate {
	if i < len(defs.Party) {
		return defs.Party[i]
	}
	return HeroTemplate{
		Name:      fmt.Sprintf("Hero %d", i+1),
		Primary:   types.Warrior,
		Secondary: types.Ranger,
	}
}

// MaxHP returns a hero's full health: base vitality.
func MaxHP(h *types.Hero) int {
	return int(h.Stats.Vitality)
}

// FindHero returns the index of the hero with the given ID, or -1.
func FindHero(s *types.State, id string) int {
	for i := range s.Heroes {
		if s.Heroes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindGear returns the index of the gear item with the given ID, or -1.
func FindGear(s *types.State, id string) int {
	for i := range s.Inventory.Gear {
		if s.Inventory.Gear[i].ID == id {
			return i
		}
	}
	return -1
}

// FindGem returns the index of the inventory gem with the given ID, or -1.
// Socketed gems are not in the inventory.
func FindGem(s *types.State, id string) int {
	for i := range s.Inventory.Gems {
		if s.Inventory.Gems[i].ID == id {
			return i
		}
	}
	return -1
}

// FindMaterial returns the index of the material stack with the given ID, or -1.
func FindMaterial(s *types.State, id string) int {
	for i := range s.Inventory.Materials {
		if s.Inventory.Materials[i].ID == id {
			return i
		}
	}
	return -1
}

// FindRecipe returns the index of the recipe with the given ID, or -1.
func FindRecipe(s *types.State, id string) int {
	for i := range s.Recipes {
		if s.Recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// FindShopItem returns the index of the shop entry with the given ID, or -1.
func FindShopItem(s *types.State, id string) int {
	for i := range s.Shop.Items {
		if s.Shop.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// SocketedGem returns a gem currently held in any gear socket.
func SocketedGem(s *types.State, gemID string) (types.Gem, bool) {
	for _, g := range s.Inventory.Gear {
		for _, sock := range g.Sockets {
			if sock.GemID == gemID && sock.Gem != nil {
				return *sock.Gem, true
			}
		}
	}
	return types.Gem{}, false
}

// EquippedBy returns the ID of the hero wearing the gear, or "".
func EquippedBy(s *types.State, gearID string) string {
	for _, h := range s.Heroes {
		for _, id := range h.Equipment {
			if id == gearID {
				return h.ID
			}
		}
	}
	return ""
}

// AliveHeroes returns the indexes of heroes with HP above zero, in roster order.
func AliveHeroes(s *types.State) []int {
	var alive []int
	for i := range s.Heroes {
		if s.Heroes[i].CurrentHP > 0 {
			alive = append(alive, i)
		}
	}
	return alive
}

// HasPerk reports whether the player owns the perk.
func HasPerk(s *types.State, perkID string) bool {
	for _, id := range s.Premium.OwnedPerks {
		if id == perkID {
			return true
		}
	}
	return false
}

// DropBoost sums the drop-chance bonuses of every owned perk.
func DropBoost(s *types.State, defs *Defs) float64 {
	boost := 0.0
	for _, id := range s.Premium.OwnedPerks {
		if p, ok := defs.Perks[id]; ok {
			boost += p.DropBoost
		}
	}
	return boost
}

// IsFounder reports whether the current username earns the founder bonus.
func IsFounder(s *types.State, defs *Defs) bool {
	return defs.Founder != "" && s.UI.Username == defs.Founder
}

// Clone returns a deep copy of the state. Engine operations mutate a clone
// and commit it on return, so readers never observe a half-applied step.
func Clone(s *types.State) *types.State {
	c := *s

	c.Heroes = make([]types.Hero, len(s.Heroes))
	for i, h := range s.Heroes {
		h.Equipment = cloneEquipment(h.Equipment)
		c.Heroes[i] = h
	}

	c.Inventory.Gear = make([]types.Gear, len(s.Inventory.Gear))
	for i, g := range s.Inventory.Gear {
		c.Inventory.Gear[i] = CloneGear(g)
	}
	c.Inventory.Gems = append([]types.Gem{}, s.Inventory.Gems...)
	c.Inventory.Materials = append([]types.Material{}, s.Inventory.Materials...)

	c.Recipes = make([]types.Recipe, len(s.Recipes))
	for i, r := range s.Recipes {
		r.Inputs = append([]types.RecipeInput{}, r.Inputs...)
		c.Recipes[i] = r
	}

	c.Shop.Items = make([]types.ShopItem, len(s.Shop.Items))
	for i, it := range s.Shop.Items {
		if it.Gear != nil {
			g := CloneGear(*it.Gear)
			it.Gear = &g
		}
		if it.Gem != nil {
			g := *it.Gem
			it.Gem = &g
		}
		if it.Material != nil {
			m := *it.Material
			it.Material = &m
		}
		c.Shop.Items[i] = it
	}

	c.Tower.Monsters = append([]types.Monster{}, s.Tower.Monsters...)
	c.Tower.BattleLog = append([]types.BattleEvent{}, s.Tower.BattleLog...)
	c.Premium.OwnedPerks = append([]string{}, s.Premium.OwnedPerks...)

	return &c
}

// CloneGear deep-copies a gear item.
func CloneGear(g types.Gear) types.Gear {
	sockets := make([]types.Socket, len(g.Sockets))
	for i, sock := range g.Sockets {
		if sock.Gem != nil {
			gem := *sock.Gem
			sock.Gem = &gem
		}
		sockets[i] = sock
	}
	g.Sockets = sockets
	g.SocketedGems = append([]string{}, g.SocketedGems...)
	return g
}

func cloneEquipment(m map[types.GearSlot]string) map[types.GearSlot]string {
	out := make(map[types.GearSlot]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
