package loot

import (
	"fmt"

	"github.com/nathoo/towercore/types"
)

// Shop pricing.
const (
	GearBasePrice   = 20
	GearMultiplier  = 3
	GemBasePrice    = 10
	GemMultiplier   = 2
	MaterialUnit    = 5
	PotionPrice     = 30
	DefaultShopSize = 50
)

// shopKind maps one uniform draw to an entry kind:
// gear 40%, gem 30%, material 20%, potion 10%.
func shopKind(draw float64) types.OutputKind {
	switch {
	case draw < 0.4:
		return types.KindGear
	case draw < 0.7:
		return types.KindGem
	case draw < 0.9:
		return types.KindMaterial
	default:
		return types.KindPotion
	}
}

// MaterialName is the display name of a material stack ID like "mat-3".
func MaterialName(id string) string {
	var n int
	if _, err := fmt.Sscanf(id, "mat-%d", &n); err == nil {
		return fmt.Sprintf("Material %d", n)
	}
	return id
}

// RollShop rolls n independent shop entries. materialCount bounds the
// material IDs offered (mat-1 .. mat-materialCount).
func RollShop(rng Rand, newID IDFunc, n, materialCount int) []types.ShopItem {
	if materialCount < 1 {
		materialCount = 1
	}
	items := make([]types.ShopItem, 0, n)
	for i := 0; i < n; i++ {
		item := types.ShopItem{ID: newID(), Kind: shopKind(rng.Float64())}

		switch item.Kind {
		case types.KindGear:
			// Rarity takes its own draw; reusing the kind draw would pin shop gear to Common.
			rarity := RollRarity(rng, ShopGearTable)
			g := GenerateGear(newID(), rarity, RandomSlot(rng))
			item.Gear = &g
			item.Price = GearBasePrice + types.RarityValue[rarity]*GearMultiplier

		case types.KindGem:
			gemType := RandomGemType(rng)
			// Own draw here too, so gems can reach the upper rarities.
			rarity := RollRarity(rng, ShopGemTable)
			g := GenerateGem(newID(), rarity, gemType)
			item.Gem = &g
			item.Price = GemBasePrice + types.RarityValue[rarity]*GemMultiplier

		case types.KindMaterial:
			id := fmt.Sprintf("mat-%d", 1+rng.Intn(materialCount))
			qty := 1 + rng.Intn(5)
			item.Material = &types.Material{ID: id, Name: MaterialName(id), Rarity: types.Common, Qty: qty}
			item.Price = MaterialUnit * qty

		case types.KindPotion:
			item.Price = PotionPrice
		}

		items = append(items, item)
	}
	return items
}
