// Package loot synthesizes gear, gems, shop inventories, battle drops and
// recipe books from weighted random draws.
package loot

import (
	"fmt"

	"github.com/nathoo/towercore/types"
)

// Rand is the random source loot draws from. *engine.RNG satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// IDFunc mints a fresh entity identity.
type IDFunc func() string

// Threshold maps draws strictly above Above to Rarity.
type Threshold struct {
	Rarity types.Rarity
	Above  float64
}

// RarityTable is a list of cumulative thresholds checked from the highest
// rarity down, with a floor rarity for everything below.
type RarityTable struct {
	Name       string
	Thresholds []Threshold
	Floor      types.Rarity
}

// Pick maps a uniform [0,1) draw to a rarity.
func (t RarityTable) Pick(draw float64) types.Rarity {
	for _, th := range t.Thresholds {
		if draw > th.Above {
			return th.Rarity
		}
	}
	return t.Floor
}

// Rarity tables per call site.
var (
	DropTable = RarityTable{
		Name: "drop",
		Thresholds: []Threshold{
			{types.Mythic, 0.98},
			{types.Legendary, 0.90},
			{types.Epic, 0.70},
			{types.Rare, 0.40},
		},
		Floor: types.Common,
	}

	ShopGearTable = RarityTable{
		Name: "shop-gear",
		Thresholds: []Threshold{
			{types.Mythic, 0.98},
			{types.Legendary, 0.92},
			{types.Epic, 0.78},
			{types.Rare, 0.55},
		},
		Floor: types.Common,
	}

	// Gems never roll Mythic in the shop.
	ShopGemTable = RarityTable{
		Name: "shop-gem",
		Thresholds: []Threshold{
			{types.Legendary, 0.95},
			{types.Epic, 0.80},
			{types.Rare, 0.50},
		},
		Floor: types.Common,
	}
)

// RollRarity draws once from rng and maps the draw through the table.
func RollRarity(rng Rand, table RarityTable) types.Rarity {
	return table.Pick(rng.Float64())
}

// SocketCount is the socket formula for generated gear:
// clamp(0, 4, floor(rarityValue/25)).
func SocketCount(r types.Rarity) int {
	n := types.RarityValue[r] / 25
	if n < 0 {
		return 0
	}
	if n > 4 {
		return 4
	}
	return n
}

// StarterSockets is the fixed per-rarity socket table used for starter gear:
// Common 0, Rare 1, Epic 2, Legendary 3, Mythic 4.
func StarterSockets(r types.Rarity) int {
	for i, rr := range types.Rarities {
		if rr == r {
			return i
		}
	}
	return 0
}

// NewGear builds a gear item with empty sockets.
func NewGear(id string, rarity types.Rarity, slot types.GearSlot, sockets int) types.Gear {
	return types.Gear{
		ID:           id,
		Name:         fmt.Sprintf("%s %s", rarity, slot),
		Slot:         slot,
		Rarity:       rarity,
		Base:         types.RarityValue[rarity],
		Sockets:      make([]types.Socket, sockets),
		SocketedGems: []string{},
	}
}

// GenerateGear creates a new gear item using the rarity socket formula.
func GenerateGear(id string, rarity types.Rarity, slot types.GearSlot) types.Gear {
	return NewGear(id, rarity, slot, SocketCount(rarity))
}

// GenerateGem creates a new gem whose value is the rarity value.
func GenerateGem(id string, rarity types.Rarity, gemType types.GemType) types.Gem {
	return types.Gem{
		ID:     id,
		Name:   fmt.Sprintf("%s %s Gem", rarity, gemType),
		Type:   gemType,
		Rarity: rarity,
		Value:  types.RarityValue[rarity],
	}
}

// RandomSlot picks a gear slot uniformly.
func RandomSlot(rng Rand) types.GearSlot {
	return types.GearSlots[rng.Intn(len(types.GearSlots))]
}

// RandomGemType picks a gem type uniformly.
func RandomGemType(rng Rand) types.GemType {
	return types.GemTypes[rng.Intn(len(types.GemTypes))]
}
