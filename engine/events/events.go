// Package events implements single-pass dispatch of engine events to
// registered handlers. Handlers may update state but never emit events.
package events

import "github.com/nathoo/towercore/types"

// Event types emitted by the engine.
const (
	BattleStarted   = "battle_started"
	HeroHit         = "hero_hit"
	MonsterStunned  = "monster_stunned"
	MonsterHit      = "monster_hit"
	HeroRevived     = "hero_revived"
	HeroDown        = "hero_down"
	MonsterDefeated = "monster_defeated"
	PartyWiped      = "party_wiped"
	FloorAdvanced   = "floor_advanced"
	TurnEnded       = "turn_ended"
	LootGold        = "loot_gold"
	LootItem        = "loot_item"
	Crafted         = "crafted"
	Purchased       = "purchased"
)

// Handler reacts to one event type.
type Handler struct {
	EventType string // empty matches every event
	Handle    func(evt types.Event, s *types.State)
}

// Dispatch runs handlers against the emitted events. Single pass: handlers
// receive each event once, in emission order, and cannot emit more.
func Dispatch(evts []types.Event, s *types.State, handlers []Handler) {
	for _, evt := range evts {
		for _, h := range handlers {
			if h.EventType != "" && h.EventType != evt.Type {
				continue
			}
			h.Handle(evt, s)
		}
	}
}

// New builds an event with optional key/value data pairs.
func New(eventType string, kv ...any) types.Event {
	evt := types.Event{Type: eventType, Data: map[string]any{}}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			evt.Data[k] = kv[i+1]
		}
	}
	return evt
}

// Int reads an int field from event data, or 0.
func Int(evt types.Event, key string) int {
	if v, ok := evt.Data[key].(int); ok {
		return v
	}
	return 0
}
