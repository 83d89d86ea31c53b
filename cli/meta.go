package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/save"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/storage"
	"github.com/nathoo/towercore/types"
)

// Meta handles slash commands shared by the plain CLI and the TUI.
type Meta struct {
	Engine *engine.Engine
	Defs   *state.Defs
	Store  storage.Store
	Trace  bool
	Now    func() time.Time
}

// Handle runs one meta command. It returns output lines and whether the
// front end should exit.
func (m *Meta) Handle(ctx context.Context, input string) ([]string, bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil, false
	}
	cmd := parts[0]
	arg := storage.DefaultSlot
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true
	case "/save":
		return m.save(ctx, arg), false
	case "/load":
		return m.load(ctx, arg), false
	case "/slots":
		return m.slots(ctx), false
	case "/help":
		return Help(), false
	case "/state":
		return m.state(), false
	case "/trace":
		m.Trace = !m.Trace
		if m.Trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false
	}
	return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
}

func (m *Meta) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Meta) save(ctx context.Context, name string) []string {
	if m.Store == nil {
		return []string{"Save failed: no save store configured"}
	}
	s := m.Engine.Snapshot()
	at := m.now()
	data, err := save.Save(s, m.Defs, at)
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	if err := m.Store.Save(ctx, storage.Slot{Name: name, Floor: s.UI.Floor, SavedAt: at}, data); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}
	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Meta) load(ctx context.Context, name string) []string {
	if m.Store == nil {
		return []string{"Load failed: no save store configured"}
	}
	data, err := m.Store.Load(ctx, name)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{fmt.Sprintf("No save named %s.", name)}
	}
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	sd, err := save.Load(data)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}
	m.Engine.Load(sd.State)
	return []string{fmt.Sprintf("Game loaded from %s (floor %d).", name, sd.State.UI.Floor)}
}

func (m *Meta) slots(ctx context.Context) []string {
	if m.Store == nil {
		return []string{"No save store configured."}
	}
	slots, err := m.Store.List(ctx)
	if err != nil {
		return []string{fmt.Sprintf("Listing saves failed: %v", err)}
	}
	if len(slots) == 0 {
		return []string{"No saved games."}
	}
	lines := make([]string, 0, len(slots))
	for _, sl := range slots {
		lines = append(lines, fmt.Sprintf("%s  floor %d  %s", sl.Name, sl.Floor, sl.SavedAt.Local().Format(time.DateTime)))
	}
	return lines
}

func (m *Meta) state() []string {
	s := m.Engine.Snapshot()
	a := s.Analytics
	return []string{
		fmt.Sprintf("Floor: %d  Gold: %d  Turn: %d  In battle: %v", s.UI.Floor, s.UI.Gold, s.Tower.Turn, s.Tower.InBattle),
		fmt.Sprintf("Player: %q  Panel: %s  Auto-play: %v", s.UI.Username, s.UI.ActivePanel, s.UI.AutoPlay),
		fmt.Sprintf("Gear: %d  Gems: %d  Materials: %d  Shop: %d", len(s.Inventory.Gear), len(s.Inventory.Gems), len(s.Inventory.Materials), len(s.Shop.Items)),
		fmt.Sprintf("Fight: %d turns, %d damage, %.1f avg  Floors cleared: %d", a.TurnsThisFight, a.DamageThisFight, a.DPSAvg, a.FloorsCleared),
		fmt.Sprintf("RNG: seed %d, position %d", s.RNGSeed, s.RNGPosition),
	}
}

// FormatTrace renders the events of a result, one per line, with their
// data sorted by key.
func FormatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var kv []string
		for _, k := range keys {
			kv = append(kv, fmt.Sprintf("%s=%v", k, e.Data[k]))
		}
		line := "[trace]   " + e.Type
		if len(kv) > 0 {
			line += " " + strings.Join(kv, " ")
		}
		lines = append(lines, line)
	}
	return lines
}

// Help lists meta and game commands.
func Help() []string {
	return []string{
		"System:",
		"  /save [slot]  - Save game (default: quicksave)",
		"  /load [slot]  - Load game (default: quicksave)",
		"  /slots        - List saved games",
		"  /quit         - Exit game",
		"  /help         - Show this help",
		"  /state        - Debug: dump current state",
		"  /trace        - Toggle event trace output",
		"",
		"Battle:",
		"  attack (a)                 - Start a battle or fight one turn",
		"  start / turn               - Start a battle / fight one turn",
		"  auto                       - Toggle auto-play",
		"  status, log, lore          - Floor, gold and the current fight",
		"",
		"Party and gear:",
		"  party, gear, gems          - List heroes, gear, loose gems",
		"  equip <hero> <gear>        - Equip gear (by number, name or id)",
		"  unequip <hero> <slot>      - Remove gear from a slot",
		"  socket <gear> <gem> <n>    - Put a gem in socket n",
		"  unsocket <gear> <n>        - Take the gem out of socket n",
		"  rename <hero> <name>, row <hero> front|back",
		"  class <hero> <primary> <secondary>, avatar <hero> <url>",
		"",
		"Economy:",
		"  materials, recipes, shop   - List stock",
		"  craft <recipe>, buy <item> - Craft or buy",
		"  reroll                     - Restock the shop",
		"  perks, perk <id>           - List or grant premium perks",
		"",
		"Settings: name <username>, panel <name>",
		"again (g) repeats your last command.",
	}
}
