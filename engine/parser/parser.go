// Package parser converts command strings into Intent structs.
// Intentionally dumb: no NLP, just verb aliases and filler stripping.
package parser

import (
	"strings"

	"github.com/nathoo/towercore/types"
)

var verbAliases = map[string]string{
	// Combat
	"a":      "attack",
	"hit":    "attack",
	"fight":  "attack",
	"strike": "attack",
	"climb":  "start",
	"begin":  "start",
	"next":   "turn",
	"step":   "turn",

	// Equipment
	"wear":   "equip",
	"wield":  "equip",
	"remove": "unequip",
	"strip":  "unequip",
	"set":    "socket",
	"pry":    "unsocket",

	// Economy
	"forge":    "craft",
	"make":     "craft",
	"purchase": "buy",
	"restock":  "reroll",

	// Views
	"heroes":    "party",
	"p":         "party",
	"inv":       "gear",
	"i":         "gear",
	"inventory": "gear",
	"mats":      "materials",
	"book":      "recipes",
	"store":     "shop",
	"history":   "log",

	// Settings
	"username": "name",
	"autoplay": "auto",
	"portrait": "avatar",
}

// Words dropped from argument lists ("equip the sword to luna").
var fillers = map[string]bool{
	"the": true, "a": true, "an": true,
	"to": true, "on": true, "into": true, "in": true,
	"from": true, "at": true, "with": true, "slot": true, "socket": true,
}

// Parse converts a raw command string into an Intent. The verb is
// lowercased and canonicalized; arguments keep their case.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	fields := strings.Fields(input)
	verb := strings.ToLower(fields[0])
	if alias, ok := verbAliases[verb]; ok {
		verb = alias
	}

	text := strings.TrimSpace(input[len(fields[0]):])

	return types.Intent{
		Verb: verb,
		Args: stripFillers(fields[1:]),
		Text: text,
	}
}

// stripFillers removes filler words from the argument list.
func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}

// After returns the raw text following the first n whitespace-separated
// words of text. Used for free-form arguments such as names and URLs.
func After(text string, n int) string {
	rest := strings.TrimSpace(text)
	for i := 0; i < n && rest != ""; i++ {
		idx := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if idx < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[idx:])
	}
	return rest
}
