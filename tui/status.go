package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// renderStatusBar produces a full-width inverted status line showing the
// floor, gold, active panel and the current fight.
func (m Model) renderStatusBar() string {
	s := m.engine.Snapshot()

	panel := cases.Title(language.English).String(string(s.UI.ActivePanel))
	left := fmt.Sprintf(" %s | Floor %d | Gold %d | %s", m.defs.Title, s.UI.Floor, s.UI.Gold, panel)

	fight := "Idle"
	if s.Tower.InBattle && len(s.Tower.Monsters) > 0 {
		mon := s.Tower.Monsters[0]
		fight = fmt.Sprintf("T:%d", s.Tower.Turn)
		candidate := fmt.Sprintf("%s %d/%d | T:%d", mon.Name, max(0, mon.HP), mon.MaxHP, s.Tower.Turn)
		if lipgloss.Width(left)+lipgloss.Width(candidate)+8 < m.width {
			fight = candidate
		}
	}
	right := fight + " "
	auto := ""
	if s.UI.AutoPlay {
		auto = "AUTO "
		right = fight + " | "
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - lipgloss.Width(auto)
	if gap < 0 {
		gap = 0
	}

	bar := styleStatusBar.Render(left + strings.Repeat(" ", gap) + right)
	if auto != "" {
		bar += styleStatusAuto.Render(auto)
	}
	return bar
}
