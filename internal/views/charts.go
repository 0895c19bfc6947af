package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders percentages (0-100) as one block rune each.
func Sparkline(values []int) string {
	var b strings.Builder
	for _, v := range values {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		b.WriteRune(sparkRunes[v*(len(sparkRunes)-1)/100])
	}
	return b.String()
}

// Bar renders value relative to max as a fixed-width horizontal bar.
func Bar(value, max, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if max > 0 && value > 0 {
		filled = value * width / max
		if filled == 0 {
			filled = 1
		}
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// heat picks a colour for a day's completion percentage.
func heat(percent, due int) lipgloss.Style {
	switch {
	case due == 0:
		return mutedStyle
	case percent >= 100:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10"))
	case percent >= 50:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	case percent > 0:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}
}
