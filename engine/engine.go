// Package engine is the progression store: the only mutation surface over the
// game state. Every operation works on a private copy of the state and
// commits it on return, so readers never observe a half-applied step.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/towercore/engine/events"
	"github.com/nathoo/towercore/engine/loot"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// Engine holds the content definitions, the committed state and the RNG.
// Operations are serialized by a mutex so a background auto-play driver and
// a player can share one engine.
type Engine struct {
	Defs *state.Defs
	RNG  *RNG

	// NewID mints entity identities. Tests replace it for stable ids.
	NewID func() string
	// Now stamps battle log entries.
	Now func() time.Time

	// Handlers receive the events of every operation once, after it ran.
	Handlers []events.Handler

	mu    sync.Mutex
	state *types.State
}

// New creates an engine over a fresh, uninitialized state.
func New(defs *state.Defs, seed int64) *Engine {
	s := state.NewState(defs)
	s.RNGSeed = seed
	return &Engine{
		Defs:     defs,
		RNG:      NewRNG(seed),
		NewID:    uuid.NewString,
		Now:      time.Now,
		Handlers: events.AnalyticsHandlers(),
		state:    s,
	}
}

// Snapshot returns a deep copy of the committed state.
func (e *Engine) Snapshot() *types.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return state.Clone(e.state)
}

// Load replaces the committed state, e.g. from a save, and restores the RNG
// to the saved seed and stream position.
func (e *Engine) Load(s *types.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state.Clone(s)
	e.RNG = RestoreRNG(s.RNGSeed, s.RNGPosition)
}

// apply runs one operation against a copy of the state, dispatches its
// events and commits the copy.
func (e *Engine) apply(op func(s *types.State, res *types.Result)) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	var res types.Result
	s := state.Clone(e.state)
	op(s, &res)
	events.Dispatch(res.Events, s, e.Handlers)
	s.RNGSeed = e.RNG.Seed()
	s.RNGPosition = e.RNG.Position()
	e.state = s
	return res
}

func reject(res *types.Result, format string, args ...any) {
	res.Output = append(res.Output, fmt.Sprintf(format, args...))
}

// Revive potion recipe added to every recipe book.
const (
	reviveRecipeName     = "Revive Potion"
	reviveRecipeMaterial = "mat-11"
	reviveRecipeQty      = 3
)

// Initialize seeds a new game: recipe book, material stacks, the default
// party, starter gear and gems, and the first shop roll. Collections that
// already hold entries are left alone. Calling it twice is a no-op.
func (e *Engine) Initialize() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		if s.Initialized {
			reject(res, "The tower is already open.")
			return
		}

		if len(s.Recipes) == 0 {
			s.Recipes = loot.GenerateRecipes(e.RNG, e.NewID, e.Defs.RecipeCount)
			s.Recipes = append(s.Recipes, types.Recipe{
				ID:     e.NewID(),
				Name:   reviveRecipeName,
				Rarity: types.Rare,
				Inputs: []types.RecipeInput{{MaterialID: reviveRecipeMaterial, Qty: reviveRecipeQty}},
				Output: types.RecipeOutput{Kind: types.KindPotion},
			})
		}

		if len(s.Inventory.Materials) == 0 {
			for i := 1; i <= e.Defs.MaterialCount; i++ {
				rarity := types.Common
				switch {
				case i%5 == 0:
					rarity = types.Legendary
				case i%7 == 0:
					rarity = types.Epic
				}
				id := fmt.Sprintf("mat-%d", i)
				s.Inventory.Materials = append(s.Inventory.Materials, types.Material{
					ID: id, Name: loot.MaterialName(id), Rarity: rarity, Qty: 10,
				})
			}
		}

		if len(s.Heroes) == 0 {
			for i := 0; i < types.PartySize; i++ {
				tmpl := state.PartyTemplate(e.Defs, i)
				base := state.BaseStats(e.Defs, tmpl.Primary, tmpl.Secondary)
				s.Heroes = append(s.Heroes, types.Hero{
					ID:             e.NewID(),
					Name:           tmpl.Name,
					ClassPrimary:   tmpl.Primary,
					ClassSecondary: tmpl.Secondary,
					Level:          1,
					Stats:          base,
					CurrentHP:      int(base.Vitality),
					Equipment:      map[types.GearSlot]string{},
					Row:            types.RowFront,
				})
			}
		}

		for _, slot := range []types.GearSlot{
			types.SlotSword, types.SlotHead, types.SlotChest, types.SlotGreaves,
			types.SlotBoots, types.SlotAmulet, types.SlotRing, types.SlotShield,
		} {
			rarity := types.Common
			if slot == types.SlotSword {
				rarity = types.Rare
			}
			s.Inventory.Gear = append(s.Inventory.Gear,
				loot.NewGear(e.NewID(), rarity, slot, loot.StarterSockets(rarity)))
		}

		for _, g := range []struct {
			name string
			typ  types.GemType
		}{
			{"Power Shard", types.GemPower},
			{"Crit Crystal", types.GemCrit},
			{"Stun Prism", types.GemStun},
		} {
			s.Inventory.Gems = append(s.Inventory.Gems, types.Gem{
				ID: e.NewID(), Name: g.name, Type: g.typ, Rarity: types.Rare,
				Value: types.RarityValue[types.Rare],
			})
		}

		e.rerollShop(s)
		s.Initialized = true
		res.Output = append(res.Output, fmt.Sprintf("Welcome to %s. Your party stands before Floor %d.", e.Defs.Title, s.UI.Floor))
	})
}

// SetActivePanel records the panel the player is looking at.
func (e *Engine) SetActivePanel(p types.Panel) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		for _, known := range types.Panels {
			if known == p {
				s.UI.ActivePanel = p
				return
			}
		}
		reject(res, "Unknown panel %q.", p)
	})
}

// SetUsername sets the player's display name.
func (e *Engine) SetUsername(name string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		name = strings.TrimSpace(name)
		if name == "" {
			reject(res, "A name cannot be empty.")
			return
		}
		s.UI.Username = name
		res.Output = append(res.Output, fmt.Sprintf("Welcome, %s.", name))
	})
}

// ToggleAutoPlay flips the auto-play preference.
func (e *Engine) ToggleAutoPlay() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		s.UI.AutoPlay = !s.UI.AutoPlay
		if s.UI.AutoPlay {
			res.Output = append(res.Output, "Auto-play on.")
		} else {
			res.Output = append(res.Output, "Auto-play off.")
		}
	})
}

// UploadAvatar stores a portrait reference for a hero.
func (e *Engine) UploadAvatar(heroID, url string) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		i := state.FindHero(s, heroID)
		if i < 0 {
			reject(res, "No such hero.")
			return
		}
		s.Heroes[i].AvatarURL = url
	})
}

// StartBattle spawns the monster for the current floor.
func (e *Engine) StartBattle() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		e.startBattle(s, res)
	})
}

// NextTurn resolves one combat turn.
func (e *Engine) NextTurn() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		e.nextTurn(s, res)
	})
}

// ManualAttack starts a battle when idle and otherwise resolves a turn.
// Auto-play drives the game through this operation.
func (e *Engine) ManualAttack() types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		if !s.Tower.InBattle {
			e.startBattle(s, res)
			return
		}
		e.nextTurn(s, res)
	})
}

// GenerateLoot awards one loot roll outside combat.
func (e *Engine) GenerateLoot(isBoss bool) types.Result {
	return e.apply(func(s *types.State, res *types.Result) {
		e.generateLoot(s, res, isBoss)
	})
}

// generateLoot awards gold and possibly one item.
func (e *Engine) generateLoot(s *types.State, res *types.Result, isBoss bool) {
	d := loot.RollDrop(e.RNG, e.NewID, isBoss, state.DropBoost(s, e.Defs))

	s.UI.Gold += d.Gold
	res.Output = append(res.Output, fmt.Sprintf("You find %d gold.", d.Gold))
	res.Events = append(res.Events, events.New(events.LootGold, "amount", d.Gold, "boss", isBoss))

	switch {
	case d.Gear != nil:
		s.Inventory.Gear = append(s.Inventory.Gear, *d.Gear)
		res.Output = append(res.Output, fmt.Sprintf("Loot: %s.", d.Gear.Name))
		res.Events = append(res.Events, events.New(events.LootItem, "kind", string(types.KindGear), "id", d.Gear.ID))
	case d.Gem != nil:
		s.Inventory.Gems = append(s.Inventory.Gems, *d.Gem)
		res.Output = append(res.Output, fmt.Sprintf("Loot: %s.", d.Gem.Name))
		res.Events = append(res.Events, events.New(events.LootItem, "kind", string(types.KindGem), "id", d.Gem.ID))
	}
}
