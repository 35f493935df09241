package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// styles is the set of lipgloss styles derived from a theme.
type styles struct {
	title   lipgloss.Style
	panel   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	muted   lipgloss.Style
	running lipgloss.Style
	notice  lipgloss.Style
	graph   lipgloss.Style
	key     lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title: lipgloss.NewStyle().Bold(true).Foreground(t.Title).MarginBottom(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Border).
			Padding(1, 2).
			Width(panelWidth),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(13),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:   lipgloss.NewStyle().Foreground(t.Muted),
		running: lipgloss.NewStyle().Foreground(t.Running).Bold(true),
		notice:  lipgloss.NewStyle().Foreground(t.Notice).Bold(true),
		graph:   lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		key:     lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
	}
}

// ProgressBar renders a filled bar for a fraction in [0, 1].
func ProgressBar(fraction float64, width int, st lipgloss.Style) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return st.Render(strings.Repeat("█", filled) + strings.Repeat("░", width-filled))
}

// keyHints renders "key action" pairs on one line.
func keyHints(st styles, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(st.key.Render(pairs[i]) + st.muted.Render(" "+pairs[i+1]))
	}
	return b.String()
}

// HexColor formats a packed 0xRRGGBB colour as #rrggbb.
func HexColor(c uint32) string {
	return fmt.Sprintf("#%06x", c&0xffffff)
}
