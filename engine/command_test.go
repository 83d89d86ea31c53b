package engine

import (
	"testing"

	"github.com/nathoo/towercore/types"
)

func TestStep_EmptyInput(t *testing.T) {
	e := testEngine(t)
	res := e.Step("   ")
	if !outputContains(res.Output, "What do you want to do?") {
		t.Errorf("output = %v", res.Output)
	}
}

func TestStep_NotInitialized(t *testing.T) {
	e := New(testDefs(), 1)
	res := e.Step("attack")
	if !outputContains(res.Output, "not open") {
		t.Errorf("output = %v", res.Output)
	}
	if e.Snapshot().Tower.InBattle {
		t.Error("command ran before initialization")
	}
}

func TestStep_UnknownVerb(t *testing.T) {
	e := testEngine(t)
	res := e.Step("dance")
	if !outputContains(res.Output, `I don't know how to "dance"`) {
		t.Errorf("output = %v", res.Output)
	}
}

func TestStep_Usage(t *testing.T) {
	e := testEngine(t)
	tests := map[string]string{
		"equip 1":    "Usage: equip",
		"socket 1 1": "Usage: socket",
		"class 1 m":  "Usage: class",
		"buy":        "Usage: buy",
	}
	for input, want := range tests {
		if res := e.Step(input); !outputContains(res.Output, want) {
			t.Errorf("Step(%q) = %v, want %q", input, res.Output, want)
		}
	}
}

func TestStep_AttackAliases(t *testing.T) {
	e := testEngine(t)
	e.Step("hit")
	if !e.Snapshot().Tower.InBattle {
		t.Fatal("hit should start a battle")
	}
	if res := e.Step("a"); !outputContains(res.Output, "hits") {
		t.Errorf("a should fight a turn, got %v", res.Output)
	}
}

func TestStep_EquipByNameAndIndex(t *testing.T) {
	e := testEngine(t)

	res := e.Step("equip luna 1")
	if !outputContains(res.Output, "Luna equips Rare Sword.") {
		t.Fatalf("output = %v", res.Output)
	}
	if res := e.Step("equip #2 sword"); !outputContains(res.Output, "already equipped") {
		t.Errorf("second hero equipped a worn sword: %v", res.Output)
	}

	e.Step("unequip luna SWORD")
	if id := e.Snapshot().Heroes[0].Equipment[types.SlotSword]; id != "" {
		t.Errorf("unequip by lowercase slot failed, still %q", id)
	}
}

func TestStep_SocketNumbersAreOneBased(t *testing.T) {
	e := testEngine(t)

	e.Step("socket 1 1 into slot 1")
	s := e.Snapshot()
	if len(s.Inventory.Gear[0].SocketedGems) != 1 {
		t.Fatalf("socket failed, gems = %v", s.Inventory.Gear[0].SocketedGems)
	}

	e.Step("unsocket 1 #1")
	if len(e.Snapshot().Inventory.Gear[0].SocketedGems) != 0 {
		t.Error("unsocket failed")
	}

	if res := e.Step("socket 1 1 x"); !outputContains(res.Output, "Usage: socket") {
		t.Errorf("non-numeric socket accepted: %v", res.Output)
	}
}

func TestStep_ResolveErrors(t *testing.T) {
	e := testEngine(t)
	if res := e.Step("equip hero 1"); !outputContains(res.Output, "which hero") {
		t.Errorf("ambiguous hero: %v", res.Output)
	}
	if res := e.Step("craft #99"); !outputContains(res.Output, "no recipe matches") {
		t.Errorf("missing recipe: %v", res.Output)
	}
}

func TestStep_CraftAndBuy(t *testing.T) {
	e := testEngine(t)

	if res := e.Step("craft revive potion"); !outputContains(res.Output, "Crafted a Revive Potion") {
		t.Errorf("craft by name: %v", res.Output)
	}
	if res := e.Step("buy 1"); !outputContains(res.Output, "You need") {
		t.Errorf("buy without gold: %v", res.Output)
	}
}

func TestStep_PartyCommands(t *testing.T) {
	e := testEngine(t)

	e.Step("rename 2 Bram the Bold")
	e.Step("row bram back")
	e.Step("class bram warrior MAGE")
	e.Step("avatar bram https://example.com/bram.png")

	h := e.Snapshot().Heroes[1]
	if h.Name != "Bram the Bold" {
		t.Errorf("name = %q", h.Name)
	}
	if h.Row != types.RowBack {
		t.Errorf("row = %q", h.Row)
	}
	if h.ClassPrimary != types.Warrior || h.ClassSecondary != types.Mage {
		t.Errorf("classes = %s/%s", h.ClassPrimary, h.ClassSecondary)
	}
	if h.AvatarURL != "https://example.com/bram.png" {
		t.Errorf("avatar = %q", h.AvatarURL)
	}
}

func TestStep_Settings(t *testing.T) {
	e := testEngine(t)

	e.Step("name Luna")
	e.Step("panel SHOP")
	e.Step("auto")

	s := e.Snapshot()
	if s.UI.Username != "Luna" || s.UI.ActivePanel != types.PanelShop || s.UI.AutoPlay {
		t.Errorf("ui = %+v", s.UI)
	}
}

func TestStep_Views(t *testing.T) {
	e := testEngine(t)
	e.Step("equip luna sword")

	tests := []struct {
		input string
		want  string
	}{
		{"party", "1. Luna  Mage/Artificer  [Front]  HP 10/10"},
		{"party", "Sword: Rare Sword"},
		{"gear", "1. Rare Sword (Sword) [empty] - worn by Luna"},
		{"gems", "1. Power Shard (Rare Power, 10)"},
		{"materials", "Material 5 (Legendary) x10"},
		{"recipes", "Revive Potion: 10/3 Material 11 -> Revive Potion"},
		{"shop", "You have 0 gold."},
		{"log", "The battle log is empty."},
		{"status", "Floor 1  Gold 0  Revive Potions 0"},
		{"perks", "loot_boost_10: Loot Boost, 5000 sats"},
		{"lore", "Floor 1 echoes with"},
	}
	for _, tt := range tests {
		if res := e.Step(tt.input); !outputContains(res.Output, tt.want) {
			t.Errorf("Step(%q) = %v, want line containing %q", tt.input, res.Output, tt.want)
		}
	}

	before := e.Snapshot()
	e.Step("party")
	e.Step("shop")
	if after := e.Snapshot(); after.RNGPosition != before.RNGPosition || after.UI != before.UI {
		t.Error("views changed state")
	}
}

func TestStep_Loot(t *testing.T) {
	e := testEngine(t)
	e.Step("loot boss")
	if g := e.Snapshot().UI.Gold; g < 60 {
		t.Errorf("boss loot gold = %d", g)
	}
}
