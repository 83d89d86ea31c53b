package engine

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/types"
)

// testDefs mirrors the built-in content closely enough for the rules
// under test: four classes, one species, the founder rule and one perk.
func testDefs() *state.Defs {
	return &state.Defs{
		Title:   "Test Tower",
		Version: "1.0",
		Classes: map[types.ClassName]types.Stats{
			types.Warrior:   {Power: 10, Defense: 10, Vitality: 12, CritRate: 5, CritDamage: 50, Haste: 5, StunChance: 5},
			types.Ranger:    {Power: 11, Defense: 8, Vitality: 9, CritRate: 10, CritDamage: 75, Haste: 10, StunChance: 5},
			types.Mage:      {Power: 6, Defense: 6, Vitality: 8, CritRate: 8, CritDamage: 75, Haste: 6, Magic: 14, StunChance: 3},
			types.Artificer: {Power: 8, Defense: 8, Vitality: 10, CritRate: 7, CritDamage: 70, Haste: 8, Magic: 8, StunChance: 6},
		},
		Species: []string{"Goblin"},
		Party: []state.HeroTemplate{
			{Name: "Luna", Primary: types.Mage, Secondary: types.Artificer},
		},
		Founder:        "Luna",
		LoreThemes:     []string{"Shadow", "Frost", "Ember", "Gale", "Mycelium", "Aether", "Obsidian"},
		LoreAdjectives: []string{"Whispering", "Forgotten", "Restless", "Ancient", "Shifting", "Hollow", "Singing"},
		Perks: map[string]state.Perk{
			"loot_boost_10": {ID: "loot_boost_10", Name: "Loot Boost", PriceSats: 5000, DropBoost: 0.10},
		},
		RecipeCount:   30,
		ShopSize:      50,
		MaterialCount: 12,
	}
}

func counterIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%04d", n)
	}
}

// testEngine returns an initialized engine with stable ids and clock.
func testEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(testDefs(), 7)
	e.NewID = counterIDs()
	e.Now = func() time.Time { return time.Unix(0, 0) }
	e.Initialize()
	return e
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestInitialize(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()

	if !s.Initialized {
		t.Fatal("state not marked initialized")
	}
	if len(s.Heroes) != types.PartySize {
		t.Fatalf("heroes = %d, want %d", len(s.Heroes), types.PartySize)
	}
	luna := s.Heroes[0]
	if luna.Name != "Luna" || luna.ClassPrimary != types.Mage || luna.ClassSecondary != types.Artificer {
		t.Errorf("hero 0 = %s %s/%s", luna.Name, luna.ClassPrimary, luna.ClassSecondary)
	}
	// round((6+8)*0.55) = 8, round((8+10)*0.55) = 10
	if luna.Stats.Power != 8 || luna.Stats.Vitality != 10 || luna.CurrentHP != 10 {
		t.Errorf("luna stats = %+v hp %d", luna.Stats, luna.CurrentHP)
	}
	if s.Heroes[3].Name != "Hero 4" || s.Heroes[3].ClassPrimary != types.Warrior {
		t.Errorf("hero 3 = %s %s", s.Heroes[3].Name, s.Heroes[3].ClassPrimary)
	}

	if len(s.Inventory.Materials) != 12 {
		t.Fatalf("materials = %d, want 12", len(s.Inventory.Materials))
	}
	wantRarity := map[string]types.Rarity{"mat-1": types.Common, "mat-5": types.Legendary, "mat-7": types.Epic, "mat-10": types.Legendary}
	for _, m := range s.Inventory.Materials {
		if r, ok := wantRarity[m.ID]; ok && m.Rarity != r {
			t.Errorf("%s rarity = %s, want %s", m.ID, m.Rarity, r)
		}
		if m.Qty != 10 {
			t.Errorf("%s qty = %d, want 10", m.ID, m.Qty)
		}
	}

	if len(s.Inventory.Gear) != 8 {
		t.Fatalf("starter gear = %d, want 8", len(s.Inventory.Gear))
	}
	sword := s.Inventory.Gear[0]
	if sword.Slot != types.SlotSword || sword.Rarity != types.Rare || len(sword.Sockets) != 1 {
		t.Errorf("starter sword = %+v", sword)
	}
	if len(s.Inventory.Gems) != 3 || s.Inventory.Gems[0].Name != "Power Shard" {
		t.Errorf("starter gems = %+v", s.Inventory.Gems)
	}
	if len(s.Recipes) != 31 || s.Recipes[30].Output.Kind != types.KindPotion {
		t.Errorf("recipes = %d, last kind %s", len(s.Recipes), s.Recipes[len(s.Recipes)-1].Output.Kind)
	}
	if len(s.Shop.Items) != 50 {
		t.Errorf("shop = %d items, want 50", len(s.Shop.Items))
	}
}

func TestInitialize_Twice(t *testing.T) {
	e := testEngine(t)
	before := e.Snapshot()

	res := e.Initialize()
	after := e.Snapshot()

	if !outputContains(res.Output, "already") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
	if len(after.Inventory.Gear) != len(before.Inventory.Gear) || len(after.Recipes) != len(before.Recipes) {
		t.Error("second Initialize added content")
	}
}

func TestSettings(t *testing.T) {
	e := testEngine(t)

	e.SetActivePanel(types.PanelShop)
	if e.Snapshot().UI.ActivePanel != types.PanelShop {
		t.Error("panel not set")
	}
	res := e.SetActivePanel("attic")
	if !outputContains(res.Output, "Unknown panel") || e.Snapshot().UI.ActivePanel != types.PanelShop {
		t.Error("unknown panel should be refused")
	}

	e.SetUsername("  Mira ")
	if e.Snapshot().UI.Username != "Mira" {
		t.Errorf("username = %q", e.Snapshot().UI.Username)
	}
	e.SetUsername("   ")
	if e.Snapshot().UI.Username != "Mira" {
		t.Error("blank username should be refused")
	}

	auto := e.Snapshot().UI.AutoPlay
	e.ToggleAutoPlay()
	if e.Snapshot().UI.AutoPlay == auto {
		t.Error("autoplay not toggled")
	}

	id := e.Snapshot().Heroes[1].ID
	e.UploadAvatar(id, "https://example.com/a.png")
	if e.Snapshot().Heroes[1].AvatarURL != "https://example.com/a.png" {
		t.Error("avatar not stored")
	}
	res = e.UploadAvatar("nobody", "x")
	if !outputContains(res.Output, "No such hero") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
}

func TestFounderBonus(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	baseCrit := e.heroStats(s, 0).CritRate

	e.SetUsername("Luna")
	s = e.Snapshot()
	if got := e.heroStats(s, 0).CritRate; got != baseCrit+100 {
		t.Errorf("founder crit = %v, want %v", got, baseCrit+100)
	}
	if got := e.heroStats(s, 1); got.CritRate != s.Heroes[1].Stats.CritRate {
		t.Error("founder bonus must only apply to the first roster slot")
	}
}

func TestEquipGear(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	luna, hero2 := s.Heroes[0].ID, s.Heroes[1].ID
	sword := s.Inventory.Gear[0]

	e.EquipGear(luna, sword.ID)
	s = e.Snapshot()
	if s.Heroes[0].Equipment[types.SlotSword] != sword.ID {
		t.Fatal("sword not equipped")
	}
	if state.FindGear(s, sword.ID) < 0 {
		t.Error("equipping must not remove gear from the inventory")
	}
	if got := e.heroStats(s, 0).Power; got != s.Heroes[0].Stats.Power+10 {
		t.Errorf("power with Rare sword = %v", got)
	}

	res := e.EquipGear(hero2, sword.ID)
	if !outputContains(res.Output, "already equipped") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
	if e.Snapshot().Heroes[1].Equipment[types.SlotSword] != "" {
		t.Error("gear equipped by two heroes")
	}

	res = e.EquipGear(luna, "missing")
	if !outputContains(res.Output, "No such") {
		t.Errorf("expected refusal, got %v", res.Output)
	}

	e.UnequipGear(luna, types.SlotSword)
	if _, ok := e.Snapshot().Heroes[0].Equipment[types.SlotSword]; ok {
		t.Error("sword still equipped")
	}
	res = e.UnequipGear(luna, types.SlotSword)
	if !outputContains(res.Output, "nothing") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
}

func TestSocketExclusivity(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	s.Inventory.Gear = append(s.Inventory.Gear, types.Gear{
		ID: "mythic", Name: "Mythic Ring", Slot: types.SlotRing, Rarity: types.Mythic,
		Sockets: make([]types.Socket, 4), SocketedGems: []string{},
	})
	e.Load(s)

	sword := s.Inventory.Gear[0].ID
	gem := s.Inventory.Gems[0]

	e.SocketGem(sword, gem.ID, 0)
	s = e.Snapshot()
	if state.FindGem(s, gem.ID) >= 0 {
		t.Fatal("socketed gem still in the gem collection")
	}
	if got := s.Inventory.Gear[0].SocketedGems; len(got) != 1 || got[0] != gem.ID {
		t.Errorf("socketedGems = %v", got)
	}

	res := e.SocketGem("mythic", gem.ID, 0)
	if !outputContains(res.Output, "No such") {
		t.Errorf("expected refusal for an already socketed gem, got %v", res.Output)
	}
	if e.Snapshot().Inventory.Gear[8].Sockets[0].GemID != "" {
		t.Error("gem socketed twice")
	}

	other := s.Inventory.Gems[0].ID
	res = e.SocketGem(sword, other, 0)
	if !outputContains(res.Output, "occupied") {
		t.Errorf("expected occupied refusal, got %v", res.Output)
	}
	res = e.SocketGem(sword, other, 1)
	if !outputContains(res.Output, "no socket 2") {
		t.Errorf("expected range refusal, got %v", res.Output)
	}

	e.UnsocketGem(sword, 0)
	s = e.Snapshot()
	back := s.Inventory.Gems[len(s.Inventory.Gems)-1]
	if back != gem {
		t.Errorf("unsocketed gem = %+v, want %+v", back, gem)
	}
	if len(s.Inventory.Gear[0].SocketedGems) != 0 || s.Inventory.Gear[0].Sockets[0].GemID != "" {
		t.Error("socket not cleared")
	}

	res = e.UnsocketGem(sword, 0)
	if !outputContains(res.Output, "empty") {
		t.Errorf("expected empty refusal, got %v", res.Output)
	}
}

func TestSocketedGemCountsTowardStats(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	luna := s.Heroes[0].ID
	sword := s.Inventory.Gear[0].ID
	shard := s.Inventory.Gems[0].ID // Power, value 10

	e.EquipGear(luna, sword)
	e.SocketGem(sword, shard, 0)

	s = e.Snapshot()
	if got, want := e.heroStats(s, 0).Power, s.Heroes[0].Stats.Power+20; got != want {
		t.Errorf("power = %v, want %v (sword 10 + shard 10)", got, want)
	}
}

func TestUnsocket_RecoveredGem(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	s.Inventory.Gear[0].Sockets[0] = types.Socket{GemID: "lost"}
	s.Inventory.Gear[0].SocketedGems = []string{"lost"}
	e.Load(s)

	e.UnsocketGem(s.Inventory.Gear[0].ID, 0)
	s = e.Snapshot()
	got := s.Inventory.Gems[len(s.Inventory.Gems)-1]
	want := types.Gem{ID: "lost", Name: "Recovered Gem", Type: types.GemPower, Rarity: types.Rare, Value: 10}
	if got != want {
		t.Errorf("recovered gem = %+v, want %+v", got, want)
	}
}

func TestCraftRecipe(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	revive := s.Recipes[len(s.Recipes)-1]

	res := e.CraftRecipe(revive.ID)
	s = e.Snapshot()
	if !outputContains(res.Output, "Crafted a Revive Potion") || s.Inventory.Potions.Revive != 1 {
		t.Errorf("revive craft: %v, potions %d", res.Output, s.Inventory.Potions.Revive)
	}
	if m := s.Inventory.Materials[state.FindMaterial(s, "mat-11")]; m.Qty != 7 {
		t.Errorf("mat-11 qty = %d, want 7", m.Qty)
	}

	res = e.CraftRecipe("nope")
	if !outputContains(res.Output, "No such recipe") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
}

func TestCraftRecipe_InsufficientIsAtomic(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	s.Recipes = append(s.Recipes, types.Recipe{
		ID: "greedy", Name: "Greedy",
		Inputs: []types.RecipeInput{{MaterialID: "mat-1", Qty: 1}, {MaterialID: "mat-2", Qty: 11}},
		Output: types.RecipeOutput{Kind: types.KindGem, GemType: types.GemPower, Rarity: types.Mythic},
	})
	e.Load(s)
	before := e.Snapshot()

	res := e.CraftRecipe("greedy")
	after := e.Snapshot()

	if !outputContains(res.Output, "Not enough materials") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
	if !reflect.DeepEqual(before.Inventory, after.Inventory) {
		t.Error("failed craft changed the inventory")
	}
}

func TestBuyShopItem_AboveGoldIsNoop(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	s.UI.Gold = 4
	e.Load(s)
	before := e.Snapshot()

	res := e.BuyShopItem(before.Shop.Items[0].ID)
	after := e.Snapshot()

	if !outputContains(res.Output, "You need") {
		t.Errorf("expected refusal, got %v", res.Output)
	}
	if after.UI.Gold != 4 {
		t.Errorf("gold = %d, want 4", after.UI.Gold)
	}
	if !reflect.DeepEqual(before.Inventory, after.Inventory) || !reflect.DeepEqual(before.Shop, after.Shop) {
		t.Error("refused purchase changed inventory or shop")
	}
}

func TestBuyShopItem(t *testing.T) {
	e := testEngine(t)
	s := e.Snapshot()
	s.UI.Gold = 100
	s.Shop.Items = []types.ShopItem{
		{ID: "mats", Kind: types.KindMaterial, Price: 15, Material: &types.Material{ID: "mat-1", Name: "Material 1", Rarity: types.Common, Qty: 3}},
		{ID: "new-mats", Kind: types.KindMaterial, Price: 5, Material: &types.Material{ID: "mat-40", Name: "Material 40", Rarity: types.Common, Qty: 1}},
		{ID: "potion", Kind: types.KindPotion, Price: 30},
		{ID: "gem", Kind: types.KindGem, Price: 20, Gem: &types.Gem{ID: "shop-gem", Name: "Common Haste Gem", Type: types.GemHaste, Rarity: types.Common, Value: 5}},
		{ID: "broken", Kind: types.KindGear, Price: 1},
	}
	e.Load(s)

	e.BuyShopItem("mats")
	e.BuyShopItem("new-mats")
	e.BuyShopItem("potion")
	e.BuyShopItem("gem")
	res := e.BuyShopItem("broken")
	s = e.Snapshot()

	if s.UI.Gold != 30 {
		t.Errorf("gold = %d, want 30", s.UI.Gold)
	}
	if m := s.Inventory.Materials[state.FindMaterial(s, "mat-1")]; m.Qty != 13 {
		t.Errorf("merged mat-1 qty = %d, want 13", m.Qty)
	}
	if state.FindMaterial(s, "mat-40") < 0 {
		t.Error("new material stack not added")
	}
	if s.Inventory.Potions.Revive != 1 {
		t.Errorf("potions = %d, want 1", s.Inventory.Potions.Revive)
	}
	if state.FindGem(s, "shop-gem") < 0 {
		t.Error("bought gem missing")
	}
	if len(s.Shop.Items) != 1 || s.Shop.Items[0].ID != "broken" {
		t.Errorf("shop after purchases = %+v", s.Shop.Items)
	}
	if !outputContains(res.Output, "damaged") {
		t.Errorf("payload-less item should be refused, got %v", res.Output)
	}

	res = e.BuyShopItem("mats")
	if !outputContains(res.Output, "No such shop item") {
		t.Errorf("entries are single use, got %v", res.Output)
	}
}

func TestRerollShop(t *testing.T) {
	e := testEngine(t)
	before := e.Snapshot().Shop.Items[0].ID

	e.RerollShop()
	s := e.Snapshot()
	if len(s.Shop.Items) != 50 || s.Shop.Items[0].ID == before {
		t.Error("shop not rerolled")
	}
}

func TestGenerateLoot(t *testing.T) {
	e := testEngine(t)
	res := e.GenerateLoot(true)
	s := e.Snapshot()
	if s.UI.Gold < 60 || s.UI.Gold >= 75 {
		t.Errorf("boss loot gold = %d", s.UI.Gold)
	}
	if !outputContains(res.Output, "gold") {
		t.Errorf("output = %v", res.Output)
	}
}

func TestPartyOperations(t *testing.T) {
	e := testEngine(t)
	before := e.Snapshot().Heroes[1]
	id := before.ID

	e.RenameHero(id, "Bram")
	e.SetRow(id, types.RowBack)
	e.SetHeroClasses(id, types.Mage, types.Mage)

	h := e.Snapshot().Heroes[1]
	if h.Name != "Bram" || h.Row != types.RowBack {
		t.Errorf("hero = %s [%s]", h.Name, h.Row)
	}
	if h.ClassPrimary != types.Mage || h.ClassSecondary != types.Mage {
		t.Errorf("classes = %s/%s", h.ClassPrimary, h.ClassSecondary)
	}
	if h.Stats != before.Stats || h.CurrentHP != before.CurrentHP {
		t.Errorf("class change touched stats: %+v hp %d, was %+v hp %d",
			h.Stats, h.CurrentHP, before.Stats, before.CurrentHP)
	}

	if res := e.SetRow(id, "Middle"); !outputContains(res.Output, "Front or Back") {
		t.Errorf("bad row accepted: %v", res.Output)
	}
	if res := e.SetHeroClasses(id, "Druid", types.Mage); !outputContains(res.Output, "Unknown class") {
		t.Errorf("unknown class accepted: %v", res.Output)
	}

	e.StartBattle()
	res := e.SetHeroClasses(id, types.Warrior, types.Warrior)
	if !outputContains(res.Output, "mid-battle") || e.Snapshot().Heroes[1].ClassPrimary != types.Mage {
		t.Errorf("class change allowed in battle: %v", res.Output)
	}
}

func TestGrantPerk(t *testing.T) {
	e := testEngine(t)

	e.GrantPerk("loot_boost_10")
	s := e.Snapshot()
	if !state.HasPerk(s, "loot_boost_10") || state.DropBoost(s, e.Defs) != 0.10 {
		t.Error("perk not granted")
	}
	if res := e.GrantPerk("loot_boost_10"); !outputContains(res.Output, "already own") {
		t.Errorf("duplicate perk: %v", res.Output)
	}
	if res := e.GrantPerk("vip"); !outputContains(res.Output, "Unknown perk") {
		t.Errorf("unknown perk: %v", res.Output)
	}
}

func TestFloorLore(t *testing.T) {
	e := testEngine(t)
	if got, want := e.FloorLore(), "Floor 1 echoes with singing shadow currents."; got != want {
		t.Errorf("lore = %q, want %q", got, want)
	}
	if got, want := Lore(e.Defs, 2), "Floor 2 echoes with hollow shadow currents."; got != want {
		t.Errorf("lore = %q, want %q", got, want)
	}
	if got := Lore(&state.Defs{}, 3); got != "Floor 3 is silent." {
		t.Errorf("empty lore = %q", got)
	}
}

func TestManualAttack_StartsThenFights(t *testing.T) {
	e := testEngine(t)

	e.ManualAttack()
	if !e.Snapshot().Tower.InBattle {
		t.Fatal("first ManualAttack should start a battle")
	}
	res := e.ManualAttack()
	if !outputContains(res.Output, "hits") {
		t.Errorf("second ManualAttack should fight, got %v", res.Output)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	e := testEngine(t)
	snap := e.Snapshot()
	snap.UI.Gold = 9999
	snap.Heroes[0].Equipment[types.SlotHead] = "hacked"

	e.ManualAttack()
	s := e.Snapshot()
	if s.UI.Gold == 9999 || s.Heroes[0].Equipment[types.SlotHead] == "hacked" {
		t.Error("snapshot mutation leaked into the engine")
	}
	if snap.Tower.InBattle {
		t.Error("engine operation leaked into an earlier snapshot")
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() *types.State {
		e := testEngine(t)
		for i := 0; i < 40; i++ {
			e.ManualAttack()
		}
		return e.Snapshot()
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and ids produced different states")
	}
}

func TestLoadRestoresRNG(t *testing.T) {
	e := testEngine(t)
	for i := 0; i < 5; i++ {
		e.ManualAttack()
	}
	saved := e.Snapshot()

	e.ManualAttack()
	e.ManualAttack()
	want := e.Snapshot()

	e.Load(saved)
	e.ManualAttack()
	e.ManualAttack()
	got := e.Snapshot()

	if got.UI != want.UI || got.Tower.Turn != want.Tower.Turn || got.Tower.InBattle != want.Tower.InBattle {
		t.Errorf("replay after load diverged: got %+v turn %d, want %+v turn %d", got.UI, got.Tower.Turn, want.UI, want.Tower.Turn)
	}
	for i := range want.Heroes {
		if got.Heroes[i].CurrentHP != want.Heroes[i].CurrentHP {
			t.Errorf("hero %d hp = %d, want %d", i, got.Heroes[i].CurrentHP, want.Heroes[i].CurrentHP)
		}
	}
	if got.RNGPosition != want.RNGPosition {
		t.Errorf("rng position = %d, want %d", got.RNGPosition, want.RNGPosition)
	}
}

func TestConcurrentOperations(t *testing.T) {
	e := testEngine(t)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				e.ManualAttack()
				e.Snapshot()
			}
		}()
	}
	wg.Wait()

	s := e.Snapshot()
	if s.UI.Floor < 1 || s.UI.Gold < 0 {
		t.Errorf("invariants broken: floor %d gold %d", s.UI.Floor, s.UI.Gold)
	}
}
