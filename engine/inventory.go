package engine

import (
	"errors"
	"fmt"

	"github.com/nathoo/towercore/engine/craft"
	"github.com/nathoo/towercore/engine/events"
	"github.com/nathoo/towercore/engine/loot"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// Replacement for a socketed gem whose attributes were not retained.
const recoveredGemName = "Recovered Gem"

// EquipGear puts a gear item in the hero's matching slot. The gear stays in
// the inventory; equipment only records its id. Gear worn by another hero
// is refused.
func (e *Engine) EquipGear(heroID, gearID string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		hi := state.FindHero(s, heroID)
		gi := state.FindGear(s, gearID)
		if hi < 0 || gi < 0 {
			reject(res, "No such hero or gear.")
			return
		}
		hero := &s.Heroes[hi]
		gear := s.Inventory.Gear[gi]

		if owner := state.EquippedBy(s, gearID); owner != "" && owner != hero.ID {
			reject(res, "%s is already equipped by someone else.", gear.Name)
			return
		}
		hero.Equipment[gear.Slot] = gearID
		res.Output = append(res.Output, fmt.Sprintf("%s equips %s.", hero.Name, gear.Name))
	})
}

// UnequipGear clears a hero's slot.
func (e *Engine) UnequipGear(heroID string, slot types.GearSlot) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		hi := state.FindHero(s, heroID)
		if hi < 0 {
			reject(res, "No such hero.")
			return
		}
		hero := &s.Heroes[hi]
		if hero.Equipment[slot] == "" {
			reject(res, "%s has nothing in the %s slot.", hero.Name, slot)
			return
		}
		delete(hero.Equipment, slot)
		res.Output = append(res.Output, fmt.Sprintf("%s unequips the %s slot.", hero.Name, slot))
	})
}

// SocketGem moves a gem from the gem collection into an empty socket.
func (e *Engine) SocketGem(gearID, gemID string, idx int) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		gi := state.FindGear(s, gearID)
		mi := state.FindGem(s, gemID)
		if gi < 0 || mi < 0 {
			reject(res, "No such gear or gem.")
			return
		}
		gear := &s.Inventory.Gear[gi]
		if idx < 0 || idx >= len(gear.Sockets) {
			reject(res, "%s has no socket %d.", gear.Name, idx+1)
			return
		}
		if gear.Sockets[idx].GemID != "" {
			reject(res, "Socket %d of %s is occupied.", idx+1, gear.Name)
			return
		}

		gem := s.Inventory.Gems[mi]
		gear.Sockets[idx] = types.Socket{GemID: gem.ID, Gem: &gem}
		gear.SocketedGems = append(gear.SocketedGems, gem.ID)
		s.Inventory.Gems = append(s.Inventory.Gems[:mi], s.Inventory.Gems[mi+1:]...)
		res.Output = append(res.Output, fmt.Sprintf("%s set into %s.", gem.Name, gear.Name))
	})
}

// UnsocketGem returns the gem in a socket to the gem collection.
func (e *Engine) UnsocketGem(gearID string, idx int) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		gi := state.FindGear(s, gearID)
		if gi < 0 {
			reject(res, "No such gear.")
			return
		}
		gear := &s.Inventory.Gear[gi]
		if idx < 0 || idx >= len(gear.Sockets) || gear.Sockets[idx].GemID == "" {
			reject(res, "Socket %d of %s is empty.", idx+1, gear.Name)
			return
		}

		sock := gear.Sockets[idx]
		gear.Sockets[idx] = types.Socket{}
		kept := gear.SocketedGems[:0]
		for _, id := range gear.SocketedGems {
			if id != sock.GemID {
				kept = append(kept, id)
			}
		}
		gear.SocketedGems = kept

		var gem types.Gem
		if sock.Gem != nil {
			gem = *sock.Gem
		} else {
			gem = types.Gem{
				ID:     sock.GemID,
				Name:   recoveredGemName,
				Type:   types.GemPower,
				Rarity: types.Rare,
				Value:  types.RarityValue[types.Rare],
			}
		}
		s.Inventory.Gems = append(s.Inventory.Gems, gem)
		res.Output = append(res.Output, fmt.Sprintf("%s removed from %s.", gem.Name, gear.Name))
	})
}

// CraftRecipe consumes a recipe's inputs and adds its output.
func (e *Engine) CraftRecipe(recipeID string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		ri := state.FindRecipe(s, recipeID)
		if ri < 0 {
			reject(res, "No such recipe.")
			return
		}
		recipe := s.Recipes[ri]

		out, err := craft.Craft(recipe, &s.Inventory, e.NewID)
		if errors.Is(err, craft.ErrInsufficientMaterials) {
			reject(res, "Not enough materials for %s.", recipe.Name)
			return
		}

		var made string
		switch {
		case out.Gear != nil:
			made = out.Gear.Name
		case out.Gem != nil:
			made = out.Gem.Name
		default:
			made = "a Revive Potion"
		}
		res.Output = append(res.Output, fmt.Sprintf("Crafted %s.", made))
		res.Events = append(res.Events, events.New(events.Crafted, "recipe", recipe.ID, "kind", string(recipe.Output.Kind)))
	})
}

// RerollShop replaces the shop with a fresh roll.
func (e *Engine) RerollShop() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		e.rerollShop(s)
		res.Output = append(res.Output, fmt.Sprintf("The shop restocks %d items.", len(s.Shop.Items)))
	})
}

func (e *Engine) rerollShop(s *types.State) {
	size := e.Defs.ShopSize
	if size <= 0 {
		size = loot.DefaultShopSize
	}
	s.Shop.Items = loot.RollShop(e.RNG, e.NewID, size, e.Defs.MaterialCount)
}

// BuyShopItem pays for a shop entry and moves its payload into the
// inventory. Materials merge into an existing stack. Each entry sells once.
func (e *Engine) BuyShopItem(itemID string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		i := state.FindShopItem(s, itemID)
		if i < 0 {
			reject(res, "No such shop item.")
			return
		}
		item := s.Shop.Items[i]
		if !hasPayload(item) {
			reject(res, "That shop item is damaged and cannot be sold.")
			return
		}
		if item.Price > s.UI.Gold {
			reject(res, "You need %d gold but have %d.", item.Price, s.UI.Gold)
			return
		}

		s.UI.Gold -= item.Price
		name := "Revive Potion"
		switch item.Kind {
		case types.KindGear:
			s.Inventory.Gear = append(s.Inventory.Gear, state.CloneGear(*item.Gear))
			name = item.Gear.Name
		case types.KindGem:
			s.Inventory.Gems = append(s.Inventory.Gems, *item.Gem)
			name = item.Gem.Name
		case types.KindMaterial:
			m := *item.Material
			if mi := state.FindMaterial(s, m.ID); mi >= 0 {
				s.Inventory.Materials[mi].Qty += m.Qty
			} else {
				s.Inventory.Materials = append(s.Inventory.Materials, m)
			}
			name = fmt.Sprintf("%d x %s", m.Qty, m.Name)
		case types.KindPotion:
			s.Inventory.Potions.Revive++
		}
		s.Shop.Items = append(s.Shop.Items[:i], s.Shop.Items[i+1:]...)

		res.Output = append(res.Output, fmt.Sprintf("Bought %s for %d gold.", name, item.Price))
		res.Events = append(res.Events, events.New(events.Purchased, "item", item.ID, "price", item.Price))
	})
}

func hasPayload(item types.ShopItem) bool {
	switch item.Kind {
	case types.KindGear:
		return item.Gear != nil
	case types.KindGem:
		return item.Gem != nil
	case types.KindMaterial:
		return item.Material != nil
	case types.KindPotion:
		return true
	}
	return false
}
