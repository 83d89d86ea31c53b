// Package types defines the shared data structures for the Tower Core engine.
// This package contains only type definitions and fixed tables, no game logic.
package types

import "time"

// Rarity is the closed, ordered rarity scale shared by gear, gems, materials
// and recipes.
type Rarity string

const (
	Common    Rarity = "Common"
	Rare      Rarity = "Rare"
	Epic      Rarity = "Epic"
	Legendary Rarity = "Legendary"
	Mythic    Rarity = "Mythic"
)

// Rarities lists every rarity from lowest to highest.
var Rarities = []Rarity{Common, Rare, Epic, Legendary, Mythic}

// RarityValue maps a rarity to the numeric weight that drives stat magnitude,
// price and socket count.
var RarityValue = map[Rarity]int{
	Common:    5,
	Rare:      10,
	Epic:      25,
	Legendary: 50,
	Mythic:    100,
}

// GearSlot is one of the eight equipment slots.
type GearSlot string

const (
	SlotHead    GearSlot = "Head"
	SlotChest   GearSlot = "Chest"
	SlotGreaves GearSlot = "Greaves"
	SlotBoots   GearSlot = "Boots"
	SlotAmulet  GearSlot = "Amulet"
	SlotRing    GearSlot = "Ring"
	SlotSword   GearSlot = "Sword" // the weapon slot
	SlotShield  GearSlot = "Shield"
)

// GearSlots lists the slots in display order.
var GearSlots = []GearSlot{SlotHead, SlotChest, SlotGreaves, SlotBoots, SlotAmulet, SlotRing, SlotSword, SlotShield}

// GemType is one of the seven stat-affecting gem kinds.
type GemType string

const (
	GemPower    GemType = "Power"
	GemDefense  GemType = "Defense"
	GemVitality GemType = "Vitality"
	GemCrit     GemType = "Crit"
	GemStun     GemType = "Stun"
	GemHaste    GemType = "Haste"
	GemMagic    GemType = "Magic"
)

// GemTypes lists every gem type.
var GemTypes = []GemType{GemPower, GemDefense, GemVitality, GemCrit, GemStun, GemHaste, GemMagic}

// ClassName is a hero class. Each class has a base stat template.
type ClassName string

const (
	Warrior   ClassName = "Warrior"
	Monk      ClassName = "Monk"
	Paladin   ClassName = "Paladin"
	Cleric    ClassName = "Cleric"
	Ranger    ClassName = "Ranger"
	Mage      ClassName = "Mage"
	Wizard    ClassName = "Wizard"
	Warlock   ClassName = "Warlock"
	Beaver    ClassName = "Beaver"
	Bard      ClassName = "Bard"
	Artificer ClassName = "Artificer"
)

// ClassNames lists every class.
var ClassNames = []ClassName{Warrior, Monk, Paladin, Cleric, Ranger, Mage, Wizard, Warlock, Beaver, Bard, Artificer}

// Row is a hero's formation row. Reserved for future modifiers.
type Row string

const (
	RowFront Row = "Front"
	RowBack  Row = "Back"
)

// Panel names the UI panel the player is looking at.
type Panel string

const (
	PanelTower    Panel = "tower"
	PanelParty    Panel = "party"
	PanelGear     Panel = "gear"
	PanelForge    Panel = "forge"
	PanelShop     Panel = "shop"
	PanelSettings Panel = "settings"
)

// Panels lists every panel.
var Panels = []Panel{PanelTower, PanelParty, PanelGear, PanelForge, PanelShop, PanelSettings}

// PartySize is the fixed number of heroes on the roster.
const PartySize = 4

// Stats is a block of named numeric attributes. CritRate, CritDamage and
// StunChance are percentages and are only clamped when rolled.
type Stats struct {
	Power      float64 `json:"power"`
	Defense    float64 `json:"defense"`
	Vitality   float64 `json:"vitality"`
	CritRate   float64 `json:"critRate"`
	CritDamage float64 `json:"critDamage"`
	Haste      float64 `json:"haste"`
	Magic      float64 `json:"magic"`
	StunChance float64 `json:"stunChance"`
}

// Hero is one member of the party.
type Hero struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	ClassPrimary   ClassName           `json:"classPrimary"`
	ClassSecondary ClassName           `json:"classSecondary"`
	Level          int                 `json:"level"`
	Experience     int                 `json:"experience"`
	Stats          Stats               `json:"stats"`
	CurrentHP      int                 `json:"currentHp"`
	Equipment      map[GearSlot]string `json:"equipment"` // slot → gear ID
	Row            Row                 `json:"row,omitempty"`
	AvatarURL      string              `json:"avatarUrl,omitempty"`
}

// Socket is a slot on a gear item that may hold one gem. The socketed gem's
// attributes travel with the socket while it is out of the gem collection.
type Socket struct {
	GemID string `json:"id,omitempty"` // empty when the socket is free
	Gem   *Gem   `json:"gem,omitempty"`
}

// Gear is an equippable item.
type Gear struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Slot         GearSlot `json:"slot"`
	Rarity       Rarity   `json:"rarity"`
	Base         int      `json:"base"`
	Sockets      []Socket `json:"sockets"`
	SocketedGems []string `json:"socketedGems"`
}

// Gem is a socketable stat bonus.
type Gem struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Type   GemType `json:"type"`
	Rarity Rarity  `json:"rarity"`
	Value  int     `json:"value"`
}

// Material is a fungible crafting stack keyed by ID.
type Material struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Rarity Rarity `json:"rarity"`
	Qty    int    `json:"qty"`
}

// RecipeInput is one required material stack.
type RecipeInput struct {
	MaterialID string `json:"materialId"`
	Qty        int    `json:"qty"`
}

// OutputKind tags what a recipe or shop entry produces.
type OutputKind string

const (
	KindGear     OutputKind = "gear"
	KindGem      OutputKind = "gem"
	KindMaterial OutputKind = "material"
	KindPotion   OutputKind = "potion"
)

// RecipeOutput describes the single item a recipe produces.
type RecipeOutput struct {
	Kind    OutputKind `json:"type"`
	Slot    GearSlot   `json:"slot,omitempty"`    // gear only
	GemType GemType    `json:"gemType,omitempty"` // gem only
	Rarity  Rarity     `json:"rarity,omitempty"`
}

// Recipe is an immutable crafting formula.
type Recipe struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Rarity Rarity        `json:"rarity"`
	Inputs []RecipeInput `json:"inputs"`
	Output RecipeOutput  `json:"output"`
}

// Potions counts consumables.
type Potions struct {
	Revive int `json:"revive"`
}

// Inventory holds every owned item collection.
type Inventory struct {
	Gear      []Gear     `json:"gear"`
	Gems      []Gem      `json:"gems"`
	Materials []Material `json:"materials"`
	Potions   Potions    `json:"potions"`
}

// Monster is the current opponent. It exists only while a battle is active.
type Monster struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Stats  Stats  `json:"stats"`
	HP     int    `json:"hp"`
	MaxHP  int    `json:"maxHp"`
	IsBoss bool   `json:"isBoss,omitempty"`
}

// BattleEvent is one line of the battle log.
type BattleEvent struct {
	ID   string    `json:"id"`
	Turn int       `json:"turn"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Tower holds the encounter state.
type Tower struct {
	Monsters  []Monster     `json:"monsters"`
	BattleLog []BattleEvent `json:"battleLog"`
	Turn      int           `json:"turn"`
	InBattle  bool          `json:"inBattle"`
}

// ShopItem is a purchasable entry. Exactly one payload field is set for
// gear, gem and material entries; potions carry no payload.
type ShopItem struct {
	ID       string     `json:"id"`
	Kind     OutputKind `json:"kind"`
	Price    int        `json:"price"`
	Gear     *Gear      `json:"gear,omitempty"`
	Gem      *Gem       `json:"gem,omitempty"`
	Material *Material  `json:"material,omitempty"`
}

// Shop is the current rolled inventory.
type Shop struct {
	Items []ShopItem `json:"items"`
}

// UI holds player-facing progression and preferences.
type UI struct {
	Username    string `json:"username"`
	ActivePanel Panel  `json:"activePanel"`
	Floor       int    `json:"floor"`
	AutoPlay    bool   `json:"autoPlay"`
	Gold        int    `json:"gold"`
}

// Premium tracks perks granted outside the engine.
type Premium struct {
	OwnedPerks []string `json:"ownedPerks"`
}

// Analytics summarizes combat for display.
type Analytics struct {
	TurnsThisFight  int     `json:"turnsThisFight"`
	DamageThisFight int     `json:"damageThisFight"`
	DPSAvg          float64 `json:"dpsAvg"`
	FloorsCleared   int     `json:"floorsCleared"`
}

// State is the complete mutable game state.
type State struct {
	UI          UI        `json:"ui"`
	Heroes      []Hero    `json:"heroes"`
	Inventory   Inventory `json:"inventory"`
	Recipes     []Recipe  `json:"recipes"`
	Shop        Shop      `json:"shop"`
	Tower       Tower     `json:"tower"`
	Premium     Premium   `json:"premium"`
	Analytics   Analytics `json:"analytics"`
	Initialized bool      `json:"initialized"`
	RNGSeed     int64     `json:"rngSeed"`
	RNGPosition int64     `json:"rngPosition"`
}

// Event is emitted by engine operations and dispatched to listeners.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine operation.
type Result struct {
	Events []Event
	Output []string
}

// Intent is a parsed player command: a canonical verb, its whitespace-split
// arguments, and the raw text after the verb.
type Intent struct {
	Verb string
	Args []string
	Text string
}
