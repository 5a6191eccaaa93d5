package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/eringen/pubadmin/table"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	panelWidth    = 44
	minTableWidth = 60
)

var (
	colorCyan = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#00ffff"}
	colorGray = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	colorBlue = lipgloss.AdaptiveColor{Light: "#00008b", Dark: "#5f87ff"}
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGray)

	styleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	styleSubtle = lipgloss.NewStyle().
			Foreground(colorGray)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(0, 1)
)

// columnWidths maps CSS widths from the column list to terminal cells.
func columnWidths(headers []table.Header, total int) []int {
	widths := make([]int, len(headers))
	fixed, flexible := 0, 0
	for i, h := range headers {
		switch h.Width {
		case "200px":
			widths[i] = 26
		case "80px":
			widths[i] = 8
		default:
			flexible++
			continue
		}
		fixed += widths[i]
	}
	if flexible > 0 {
		w := max((total-fixed)/flexible, 8)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = w
			}
		}
	}
	return widths
}

func cell(s string, w int) string {
	return lipgloss.NewStyle().Width(w).MaxWidth(w).Render(s)
}

// View renders the blog list.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Data List"))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	tableWidth := m.width
	_, panelOpen := m.page.Panel()
	if panelOpen && m.width-panelWidth >= minTableWidth {
		tableWidth = m.width - panelWidth
	}
	body := m.renderTable(tableWidth)
	if panelOpen {
		if tableWidth < m.width {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderPanel())
		} else {
			body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderPanel())
		}
	}
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(styleSubtle.Render("/ search • ←/→ page • home/end first/last • s size • ↑/↓ select • enter view • e edit • d delete • esc close • q quit"))
	return b.String()
}

func (m *Model) renderTable(width int) string {
	t := m.page.Table()
	body := t.Body()
	widths := columnWidths(body.Headers, width-len(body.Headers))

	var lines []string
	var head []string
	for i, h := range body.Headers {
		head = append(head, styleHeader.Render(cell(h.Label, widths[i])))
	}
	lines = append(lines, strings.Join(head, " "))

	switch body.State {
	case table.BodyLoading:
		lines = append(lines, styleSubtle.Render("Loading..."))
	case table.BodyEmpty:
		lines = append(lines, body.Message)
	default:
		for _, row := range body.Rows {
			var cells []string
			for i, c := range row.Cells {
				cells = append(cells, cell(c, widths[i]))
			}
			if len(row.Actions) > 0 {
				var names []string
				for _, a := range row.Actions {
					names = append(names, a.String())
				}
				cells = append(cells, cell(strings.Join(names, " "), widths[len(widths)-1]))
			}
			line := strings.Join(cells, " ")
			if row.Index == m.cursor {
				line = styleSelected.Render(line)
			}
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	f := m.page.Table().Footer()
	control := func(label string, enabled bool) string {
		if enabled {
			return "[" + label + "]"
		}
		return styleSubtle.Render("[" + label + "]")
	}
	return strings.Join([]string{
		control("First Page", f.CanPrev),
		control("Previous", f.CanPrev),
		f.Label,
		control("Next", f.CanNext),
		control("Last Page", f.CanNext),
		styleSubtle.Render("rows per page: " + itoa(f.PageSize)),
	}, " ")
}

func (m *Model) resizePanel() {
	m.panel.Width = panelWidth - 4
	m.panel.Height = max(m.height-8, 5)
	m.updatePanel()
}

func (m *Model) updatePanel() {
	d, ok := m.page.Panel()
	if !ok {
		return
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(d.Title))
	b.WriteString("\n")
	b.WriteString("Author: " + d.Author + "\n")
	b.WriteString("Status: " + d.Status + "\n")
	if d.Thumbnail != "" {
		b.WriteString(styleSubtle.Render(d.Thumbnail) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(m.panel.Width).Render(d.ContentText))
	m.panel.SetContent(b.String())
	m.panel.GotoTop()
}

func (m *Model) renderPanel() string {
	return stylePanel.Width(panelWidth - 2).Render(m.panel.View() + "\n" + styleSubtle.Render("esc: close"))
}
