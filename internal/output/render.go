package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	goodStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	badStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorBorder)
)

// table is a bordered text table; numeric columns are right aligned.
type table struct {
	Title   string
	Headers []string
	Rows    [][]string
	// LeftCols is the number of leading columns aligned left.
	LeftCols int
}

func renderTitle(title string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Width(60).
		Align(lipgloss.Center).
		Padding(0, 1)
	return box.Render(titleStyle.Render(title))
}

func renderTable(t table) string {
	numCols := len(t.Headers)
	if numCols == 0 {
		return ""
	}
	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(dimStyle.Render(left))
		for i, w := range widths {
			b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
			if i < numCols-1 {
				b.WriteString(dimStyle.Render(mid))
			}
		}
		b.WriteString(dimStyle.Render(right))
		b.WriteString("\n")
	}
	line := func(cells []string, style lipgloss.Style) {
		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			format := " %*s "
			if i < t.LeftCols {
				format = " %-*s "
			}
			b.WriteString(style.Render(fmt.Sprintf(format, widths[i], cell)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	line(t.Headers, headerStyle)
	rule("├", "┼", "┤")
	plain := lipgloss.NewStyle()
	for _, row := range t.Rows {
		line(row, plain)
	}
	rule("╰", "┴", "╯")
	return b.String()
}

// renderPairs renders aligned "label  value" lines.
func renderPairs(pairs [][2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("  ")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, p[0])))
		b.WriteString("  ")
		b.WriteString(p[1])
		b.WriteString("\n")
	}
	return b.String()
}
