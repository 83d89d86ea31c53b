package engine

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/towercore/engine/parser"
	"github.com/nathoo/towercore/engine/resolve"
	"github.com/nathoo/towercore/types"
)

// Usage lines for commands that take arguments.
var usage = map[string]string{
	"equip":    "Usage: equip <hero> <gear>",
	"unequip":  "Usage: unequip <hero> <slot>",
	"socket":   "Usage: socket <gear> <gem> <socket number>",
	"unsocket": "Usage: unsocket <gear> <socket number>",
	"craft":    "Usage: craft <recipe>",
	"buy":      "Usage: buy <shop item>",
	"name":     "Usage: name <username>",
	"rename":   "Usage: rename <hero> <new name>",
	"row":      "Usage: row <hero> front|back",
	"class":    "Usage: class <hero> <primary> <secondary>",
	"avatar":   "Usage: avatar <hero> <url>",
	"panel":    "Usage: panel tower|party|gear|forge|shop|settings",
	"perk":     "Usage: perk <perk id>",
}

// title canonicalizes player input like "sword" or "WARRIOR" to the
// enumeration spelling. A Caser holds state, so one is built per call.
func title(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}

// Step parses one player command and runs the matching operation. Views
// render from a snapshot and change nothing.
func (e *Engine) Step(input string) types.Result {
	intent := parser.Parse(input)
	if intent.Verb == "" {
		return output("What do you want to do?")
	}

	s := e.Snapshot()
	if !s.Initialized {
		return output("The tower is not open yet.")
	}

	args := intent.Args
	if n := minArgs(intent.Verb); len(args) < n {
		return output(usage[intent.Verb])
	}

	switch intent.Verb {
	// Combat.
	case "attack":
		return e.ManualAttack()
	case "start":
		return e.StartBattle()
	case "turn":
		return e.NextTurn()
	case "loot":
		return e.GenerateLoot(len(args) > 0 && strings.EqualFold(args[0], "boss"))

	// Equipment.
	case "equip":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		gearID, err := resolve.Gear(s, strings.Join(args[1:], " "))
		if err != nil {
			return output(err.Error())
		}
		return e.EquipGear(heroID, gearID)
	case "unequip":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		return e.UnequipGear(heroID, types.GearSlot(title(args[1])))
	case "socket":
		gearID, err := resolve.Gear(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		gemID, err := resolve.Gem(s, args[1])
		if err != nil {
			return output(err.Error())
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(args[2], "#"))
		if err != nil {
			return output(usage["socket"])
		}
		return e.SocketGem(gearID, gemID, idx-1)
	case "unsocket":
		gearID, err := resolve.Gear(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		idx, err := strconv.Atoi(strings.TrimPrefix(args[1], "#"))
		if err != nil {
			return output(usage["unsocket"])
		}
		return e.UnsocketGem(gearID, idx-1)

	// Economy.
	case "craft":
		id, err := resolve.Recipe(s, strings.Join(args, " "))
		if err != nil {
			return output(err.Error())
		}
		return e.CraftRecipe(id)
	case "buy":
		id, err := resolve.ShopItem(s, strings.Join(args, " "))
		if err != nil {
			return output(err.Error())
		}
		return e.BuyShopItem(id)
	case "reroll":
		return e.RerollShop()
	case "perk":
		return e.GrantPerk(strings.ToLower(args[0]))

	// Party.
	case "rename":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		return e.RenameHero(heroID, parser.After(intent.Text, 1))
	case "row":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		return e.SetRow(heroID, types.Row(title(args[1])))
	case "class":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		return e.SetHeroClasses(heroID, types.ClassName(title(args[1])), types.ClassName(title(args[2])))
	case "avatar":
		heroID, err := resolve.Hero(s, args[0])
		if err != nil {
			return output(err.Error())
		}
		return e.UploadAvatar(heroID, parser.After(intent.Text, 1))

	// Settings.
	case "name":
		return e.SetUsername(intent.Text)
	case "panel":
		return e.SetActivePanel(types.Panel(strings.ToLower(args[0])))
	case "auto":
		return e.ToggleAutoPlay()

	// Views.
	case "party":
		return output(e.describeParty(s)...)
	case "gear":
		return output(describeGear(s)...)
	case "gems":
		return output(describeGems(s)...)
	case "materials":
		return output(describeMaterials(s)...)
	case "recipes":
		return output(describeRecipes(s)...)
	case "shop":
		return output(describeShop(s)...)
	case "log":
		return output(describeLog(s)...)
	case "status":
		return output(describeStatus(s)...)
	case "perks":
		return output(e.describePerks(s)...)
	case "lore":
		return output(Lore(e.Defs, s.UI.Floor))
	}

	return output("I don't know how to \"" + intent.Verb + "\". Type /help for commands.")
}

func minArgs(verb string) int {
	switch verb {
	case "craft", "buy", "name", "panel", "perk":
		return 1
	case "equip", "unequip", "unsocket", "rename", "row", "avatar":
		return 2
	case "socket", "class":
		return 3
	}
	return 0
}

func output(lines ...string) types.Result {
	return types.Result{Output: lines}
}
