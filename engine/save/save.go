// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// FormatVersion is bumped when the document layout changes incompatibly.
const FormatVersion = 1

// ErrFormat is returned for documents written by an unknown format version.
var ErrFormat = errors.New("unsupported save format")

// SaveData is the JSON-serializable save format. The RNG seed and stream
// position travel inside State.
type SaveData struct {
	Format  int          `json:"format"`
	Version string       `json:"version"`
	Game    string       `json:"game"`
	SavedAt time.Time    `json:"saved_at"`
	State   *types.State `json:"state"`
}

// Save serializes game state to JSON bytes.
func Save(s *types.State, defs *state.Defs, now time.Time) ([]byte, error) {
	data := SaveData{
		Format:  FormatVersion,
		Version: defs.Version,
		Game:    defs.Title,
		SavedAt: now.UTC(),
		State:   s,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding save: %w", err)
	}
	return out, nil
}

// Load deserializes JSON bytes into SaveData. Collections missing from the
// document come back empty, never nil.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, fmt.Errorf("decoding save: %w", err)
	}
	if sd.Format != FormatVersion {
		return nil, fmt.Errorf("%w: %d", ErrFormat, sd.Format)
	}
	if sd.State == nil {
		return nil, errors.New("decoding save: missing state")
	}
	normalize(sd.State)
	return &sd, nil
}

func normalize(s *types.State) {
	if s.Heroes == nil {
		s.Heroes = []types.Hero{}
	}
	for i := range s.Heroes {
		if s.Heroes[i].Equipment == nil {
			s.Heroes[i].Equipment = map[types.GearSlot]string{}
		}
	}
	if s.Inventory.Gear == nil {
		s.Inventory.Gear = []types.Gear{}
	}
	for i := range s.Inventory.Gear {
		g := &s.Inventory.Gear[i]
		if g.Sockets == nil {
			g.Sockets = []types.Socket{}
		}
		if g.SocketedGems == nil {
			g.SocketedGems = []string{}
		}
	}
	if s.Inventory.Gems == nil {
		s.Inventory.Gems = []types.Gem{}
	}
	if s.Inventory.Materials == nil {
		s.Inventory.Materials = []types.Material{}
	}
	if s.Recipes == nil {
		s.Recipes = []types.Recipe{}
	}
	if s.Shop.Items == nil {
		s.Shop.Items = []types.ShopItem{}
	}
	if s.Tower.Monsters == nil {
		s.Tower.Monsters = []types.Monster{}
	}
	if s.Tower.BattleLog == nil {
		s.Tower.BattleLog = []types.BattleEvent{}
	}
	if s.Premium.OwnedPerks == nil {
		s.Premium.OwnedPerks = []string{}
	}
}
