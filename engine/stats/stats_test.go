package stats

import (
	"testing"

	"github.com/nathoo/towercore/types"
)

// mapInventory resolves gear and gems from maps.
type mapInventory struct {
	gear map[string]types.Gear
	gems map[string]types.Gem
}

func (m mapInventory) Gear(id string) (types.Gear, bool) {
	g, ok := m.gear[id]
	return g, ok
}

func (m mapInventory) Gem(id string) (types.Gem, bool) {
	g, ok := m.gems[id]
	return g, ok
}

func baseHero() types.Hero {
	return types.Hero{
		ID:   "h1",
		Name: "Hero",
		Stats: types.Stats{
			Power: 10, Defense: 10, Vitality: 12,
			CritRate: 5, CritDamage: 50, Haste: 5, StunChance: 5,
		},
		Equipment: map[types.GearSlot]string{},
	}
}

func TestCompute_NoGear(t *testing.T) {
	h := baseHero()
	got := Compute(h, mapInventory{}, false)
	if got != h.Stats {
		t.Errorf("expected base stats %+v, got %+v", h.Stats, got)
	}
}

func TestCompute_GearBaseValues(t *testing.T) {
	h := baseHero()
	h.Equipment[types.SlotSword] = "sword"
	h.Equipment[types.SlotHead] = "helm"
	inv := mapInventory{gear: map[string]types.Gear{
		"sword": {ID: "sword", Slot: types.SlotSword, Rarity: types.Rare},
		"helm":  {ID: "helm", Slot: types.SlotHead, Rarity: types.Epic},
	}}

	got := Compute(h, inv, false)
	if got.Power != 20 {
		t.Errorf("power = %v, want 20 (10 + Rare sword 10)", got.Power)
	}
	if got.Defense != 35 {
		t.Errorf("defense = %v, want 35 (10 + Epic helm 25)", got.Defense)
	}
}

func TestCompute_GemMapping(t *testing.T) {
	tests := []struct {
		gem   types.GemType
		value int
		check func(types.Stats) bool
	}{
		{types.GemPower, 10, func(s types.Stats) bool { return s.Power == 10 }},
		{types.GemDefense, 10, func(s types.Stats) bool { return s.Defense == 10 }},
		{types.GemVitality, 10, func(s types.Stats) bool { return s.Vitality == 10 }},
		{types.GemHaste, 10, func(s types.Stats) bool { return s.Haste == 10 }},
		{types.GemMagic, 10, func(s types.Stats) bool { return s.Magic == 10 }},
		{types.GemCrit, 5, func(s types.Stats) bool { return s.CritRate == 2.5 && s.CritDamage == 10 }},
		{types.GemStun, 25, func(s types.Stats) bool { return s.StunChance == 12.5 }},
		{types.GemStun, 200, func(s types.Stats) bool { return s.StunChance == 50 }},
	}
	for _, tt := range tests {
		got := FromGem(types.Gem{Type: tt.gem, Value: tt.value})
		if !tt.check(got) {
			t.Errorf("FromGem(%s, %d) = %+v", tt.gem, tt.value, got)
		}
	}
}

func TestCompute_SocketedGems(t *testing.T) {
	h := baseHero()
	h.Equipment[types.SlotRing] = "ring"
	inv := mapInventory{
		gear: map[string]types.Gear{
			"ring": {
				ID: "ring", Slot: types.SlotRing, Rarity: types.Legendary,
				Sockets:      []types.Socket{{GemID: "crit"}, {GemID: "magic"}},
				SocketedGems: []string{"crit", "magic"},
			},
		},
		gems: map[string]types.Gem{
			"crit":  {ID: "crit", Type: types.GemCrit, Value: 10},
			"magic": {ID: "magic", Type: types.GemMagic, Value: 50},
		},
	}

	got := Compute(h, inv, false)
	if got.Defense != 60 {
		t.Errorf("defense = %v, want 60", got.Defense)
	}
	if got.CritRate != 10 || got.CritDamage != 70 {
		t.Errorf("crit = %v/%v, want 10/70", got.CritRate, got.CritDamage)
	}
	if got.Magic != 50 {
		t.Errorf("magic = %v, want 50", got.Magic)
	}
}

func TestCompute_StunCap(t *testing.T) {
	h := baseHero()
	gear := map[string]types.Gear{}
	gems := map[string]types.Gem{}
	for _, slot := range types.GearSlots {
		gid := string(slot)
		var sockets []types.Socket
		var socketed []string
		for j := 0; j < 4; j++ {
			id := gid + "-stun-" + string(rune('a'+j))
			gems[id] = types.Gem{ID: id, Type: types.GemStun, Value: 100}
			sockets = append(sockets, types.Socket{GemID: id})
			socketed = append(socketed, id)
		}
		gear[gid] = types.Gear{ID: gid, Slot: slot, Rarity: types.Mythic, Sockets: sockets, SocketedGems: socketed}
		h.Equipment[slot] = gid
	}

	got := Compute(h, mapInventory{gear: gear, gems: gems}, false)
	if got.StunChance != h.Stats.StunChance+StunCap {
		t.Errorf("stun = %v, want base %v + cap %d", got.StunChance, h.Stats.StunChance, StunCap)
	}
}

func TestCompute_Founder(t *testing.T) {
	h := baseHero()
	got := Compute(h, mapInventory{}, true)
	if got.CritRate != 105 || got.CritDamage != 150 {
		t.Errorf("founder crit = %v/%v, want 105/150", got.CritRate, got.CritDamage)
	}
}

func TestCompute_PureAndDeterministic(t *testing.T) {
	h := baseHero()
	h.Equipment[types.SlotSword] = "sword"
	inv := mapInventory{
		gear: map[string]types.Gear{"sword": {
			ID: "sword", Slot: types.SlotSword, Rarity: types.Epic,
			Sockets: []types.Socket{{GemID: "p"}}, SocketedGems: []string{"p"},
		}},
		gems: map[string]types.Gem{"p": {ID: "p", Type: types.GemPower, Value: 25}},
	}
	before := h.Stats

	first := Compute(h, inv, false)
	for i := 0; i < 10; i++ {
		if got := Compute(h, inv, false); got != first {
			t.Fatalf("call %d: %+v != %+v", i, got, first)
		}
	}
	if h.Stats != before {
		t.Error("Compute mutated hero base stats")
	}
}

func TestCompute_MissingReferencesIgnored(t *testing.T) {
	h := baseHero()
	h.Equipment[types.SlotBoots] = "gone"
	if got := Compute(h, mapInventory{}, false); got != h.Stats {
		t.Errorf("unknown gear should contribute nothing, got %+v", got)
	}
}
