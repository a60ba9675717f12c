package cli

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/foliokit/folio/pkg/typeset"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// NodeListModel - Interactive node browser
// =============================================================================

// NodeListModel is the bubbletea model for browsing the identity-tagged
// nodes of a typeset document. The f key cycles an element-name filter
// through the elements present in the document.
type NodeListModel struct {
	Nodes    []typeset.Match
	Elements []string // unique element names, sorted
	Filter   int      // index into Elements, -1 shows everything
	Visible  []typeset.Match
	Cursor   int
	Height   int
	Offset   int
}

// NewNodeListModel creates a node list model over an introspection index.
func NewNodeListModel(nodes []typeset.Match) NodeListModel {
	seen := make(map[string]struct{})
	var elements []string
	for _, m := range nodes {
		elem := m.Content.Elem()
		if _, ok := seen[elem]; !ok {
			seen[elem] = struct{}{}
			elements = append(elements, elem)
		}
	}
	sort.Strings(elements)

	return NodeListModel{
		Nodes:    nodes,
		Elements: elements,
		Filter:   -1,
		Visible:  nodes,
		Height:   15,
	}
}

func (m NodeListModel) Init() tea.Cmd {
	return nil
}

func (m NodeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "f":
			m.Filter++
			if m.Filter >= len(m.Elements) {
				m.Filter = -1
			}
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// applyFilter rebuilds the visible slice for the current filter and
// resets the viewport.
func (m *NodeListModel) applyFilter() {
	m.Cursor = 0
	m.Offset = 0
	if m.Filter < 0 {
		m.Visible = m.Nodes
		return
	}
	elem := m.Elements[m.Filter]
	visible := make([]typeset.Match, 0, len(m.Nodes))
	for _, match := range m.Nodes {
		if match.Content.Elem() == elem {
			visible = append(visible, match)
		}
	}
	m.Visible = visible
}

// filterName returns the display name of the current filter.
func (m NodeListModel) filterName() string {
	if m.Filter < 0 {
		return "all"
	}
	return m.Elements[m.Filter]
}

func (m NodeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Document Nodes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  f filter  q quit"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("filter: ") + StyleHighlight.Render(m.filterName()))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Visible) {
		end = len(m.Visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		match := m.Visible[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, matchRow(match)...))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Element", "Label", "Page", "Position").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Visible))))

	return b.String()
}

// matchRow formats one index entry as table cells.
func matchRow(m typeset.Match) []string {
	label := m.Content.Label()
	if label == "" {
		label = "—"
	}
	page := "—"
	position := "—"
	if loc, ok := m.Content.Location(); ok {
		page = fmt.Sprintf("%d", loc.Page)
		position = fmt.Sprintf("(%.1f, %.1f)", loc.Pos.X, loc.Pos.Y)
	}
	return []string{m.Content.Elem(), label, page, position}
}
