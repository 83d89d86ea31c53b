// Package craft validates and consumes recipe inputs and produces the
// crafted output.
package craft

import (
	"errors"

	"github.com/nathoo/towercore/engine/loot"
	"github.com/nathoo/towercore/types"
)

// ErrInsufficientMaterials is returned when any input stack is missing or short.
var ErrInsufficientMaterials = errors.New("insufficient materials")

// Outcome is what one successful craft produced. Exactly one field is set
// (Potions is 1 for a potion).
type Outcome struct {
	Gear    *types.Gear
	Gem     *types.Gem
	Potions int
}

// Check reports whether every input of the recipe is covered by materials.
// Inputs naming the same material draw on one stack, so their quantities
// are summed first.
func Check(recipe types.Recipe, materials []types.Material) error {
	need := make(map[string]int, len(recipe.Inputs))
	for _, in := range recipe.Inputs {
		need[in.MaterialID] += in.Qty
	}
	for id, qty := range need {
		i := find(materials, id)
		if i < 0 || materials[i].Qty < qty {
			return ErrInsufficientMaterials
		}
	}
	return nil
}

// Craft consumes the recipe inputs from inv and adds the output to it.
// If any input is insufficient, inv is left untouched and
// ErrInsufficientMaterials is returned.
func Craft(recipe types.Recipe, inv *types.Inventory, newID loot.IDFunc) (Outcome, error) {
	if err := Check(recipe, inv.Materials); err != nil {
		return Outcome{}, err
	}

	for _, in := range recipe.Inputs {
		i := find(inv.Materials, in.MaterialID)
		inv.Materials[i].Qty -= in.Qty
	}

	var out Outcome
	switch recipe.Output.Kind {
	case types.KindGear:
		g := loot.GenerateGear(newID(), recipe.Output.Rarity, recipe.Output.Slot)
		inv.Gear = append(inv.Gear, g)
		out.Gear = &g
	case types.KindGem:
		g := loot.GenerateGem(newID(), recipe.Output.Rarity, recipe.Output.GemType)
		inv.Gems = append(inv.Gems, g)
		out.Gem = &g
	case types.KindPotion:
		inv.Potions.Revive++
		out.Potions = 1
	}
	return out, nil
}

func find(materials []types.Material, id string) int {
	for i := range materials {
		if materials[i].ID == id {
			return i
		}
	}
	return -1
}
