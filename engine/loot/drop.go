package loot

import (
	"fmt"

	"github.com/nathoo/towercore/types"
)

// Drop tuning.
const (
	BaseGold      = 10
	GoldSpread    = 15
	BossGoldBonus = 50
	DropChance    = 0.7 // bosses do not raise this
)

// Drop is the outcome of one loot roll. At most one of Gear and Gem is set.
type Drop struct {
	Gold int
	Gear *types.Gear
	Gem  *types.Gem
}

// RollDrop awards gold and, with probability DropChance+boost, one item
// (50/50 gear or gem) rolled on DropTable.
func RollDrop(rng Rand, newID IDFunc, isBoss bool, boost float64) Drop {
	d := Drop{Gold: BaseGold + rng.Intn(GoldSpread)}
	if isBoss {
		d.Gold += BossGoldBonus
	}

	if rng.Float64() >= DropChance+boost {
		return d
	}

	rarity := RollRarity(rng, DropTable)
	if rng.Float64() < 0.5 {
		g := GenerateGear(newID(), rarity, RandomSlot(rng))
		d.Gear = &g
	} else {
		g := GenerateGem(newID(), rarity, RandomGemType(rng))
		d.Gem = &g
	}
	return d
}

// recipeSlots is the slot rotation used when generating gear recipes.
var recipeSlots = []types.GearSlot{
	types.SlotSword, types.SlotHead, types.SlotChest, types.SlotGreaves,
	types.SlotBoots, types.SlotAmulet, types.SlotRing, types.SlotShield,
}

// GenerateRecipes builds the recipe book. The first recipe is always Mythic;
// the rest are uniform over Rare..Mythic. Each recipe takes one material,
// mat-(i%10+1), in quantity 2 + rarity index.
func GenerateRecipes(rng Rand, newID IDFunc, n int) []types.Recipe {
	recipes := make([]types.Recipe, 0, n)
	for i := 0; i < n; i++ {
		rarityIdx := 4
		if i != 0 {
			rarityIdx = rng.Intn(4) + 1
		}
		rarity := types.Rarities[rarityIdx]

		out := types.RecipeOutput{Kind: types.KindGem, Rarity: rarity}
		label := "Gem"
		if rng.Float64() < 0.5 {
			out.Kind = types.KindGear
			label = "Gear"
		}
		if out.Kind == types.KindGear {
			out.Slot = recipeSlots[i%len(recipeSlots)]
		} else {
			out.GemType = types.GemTypes[i%len(types.GemTypes)]
		}

		recipes = append(recipes, types.Recipe{
			ID:     newID(),
			Name:   fmt.Sprintf("%s %s Recipe %d", rarity, label, i+1),
			Rarity: rarity,
			Inputs: []types.RecipeInput{
				{MaterialID: fmt.Sprintf("mat-%d", i%10+1), Qty: 2 + rarityIdx},
			},
			Output: out,
		})
	}
	return recipes
}
