package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusAuto = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleCrit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleDanger = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindCrit
	kindDanger
	kindReward
	kindSystem
	kindError
	kindTrace
)

var errorPrefixes = []string{
	"No such", "Not enough", "You need", "Usage:", "I don't know",
	"Unknown", "which ", "no ", "That shop item", "A battle is already",
	"There is no battle", "Classes cannot", "You already own",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.Contains(line, "(CRIT)"):
		return kindCrit
	case strings.HasSuffix(line, "is down!"),
		strings.HasPrefix(line, "The party is wiped out"),
		strings.Contains(line, " strikes "):
		return kindDanger
	case strings.HasSuffix(line, "defeated!"),
		strings.HasPrefix(line, "You find"),
		strings.HasPrefix(line, "Loot:"),
		strings.HasPrefix(line, "Crafted"),
		strings.HasPrefix(line, "Bought"),
		strings.HasPrefix(line, "A Revive Potion is consumed"):
		return kindReward
	}
	for _, p := range errorPrefixes {
		if strings.HasPrefix(line, p) {
			return kindError
		}
	}
	return kindNarrative
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindCrit:
		return styleCrit.Render(line)
	case kindDanger:
		return styleDanger.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
