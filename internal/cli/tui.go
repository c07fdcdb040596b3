package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/datacanvas/pkg/value"
)

const summaryWidth = 48

// =============================================================================
// RecordListModel - Interactive record selection
// =============================================================================

// RecordListModel lets the user choose which records to render.
type RecordListModel struct {
	Records  []value.Value
	Cursor   int
	Offset   int
	Height   int
	Picked   map[int]bool
	Done     bool
	Canceled bool
}

// NewRecordListModel starts with every record picked.
func NewRecordListModel(records []value.Value) RecordListModel {
	picked := make(map[int]bool, len(records))
	for i := range records {
		picked[i] = true
	}
	return RecordListModel{Records: records, Height: 15, Picked: picked}
}

func (m RecordListModel) Init() tea.Cmd {
	return nil
}

func (m RecordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Records)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Records) > 0 {
				m.Picked[m.Cursor] = !m.Picked[m.Cursor]
			}
		case "a":
			all := len(m.Selection()) != len(m.Records)
			for i := range m.Records {
				m.Picked[i] = all
			}
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

// Selection returns the picked records in input order.
func (m RecordListModel) Selection() []value.Value {
	var out []value.Value
	for i, r := range m.Records {
		if m.Picked[i] {
			out = append(out, r)
		}
	}
	return out
}

func (m RecordListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Records"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  space toggle  a all  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Records))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Picked[i] {
			check = "[x]"
		}
		r := m.Records[i]
		rows = append(rows, []string{cursor, check, fmt.Sprint(i), r.Kind().String(), recordSummary(r)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "#", "Kind", "Summary").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			base := lipgloss.NewStyle()
			switch {
			case idx == m.Cursor && m.Picked[idx]:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorGray).Bold(true)
			case m.Picked[idx]:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorDim)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] %d picked", m.Cursor+1, len(m.Records), len(m.Selection()))))

	return b.String()
}

// recordSummary previews a record: the leading primitive members of an
// object, the length of an array, or the value itself.
func recordSummary(v value.Value) string {
	var s string
	switch v.Kind() {
	case value.Object:
		var parts []string
		for _, m := range v.Members() {
			if m.Value.IsNested() {
				parts = append(parts, fmt.Sprintf("%s={%d}", m.Key, m.Value.Len()))
			} else {
				parts = append(parts, m.Key+"="+m.Value.Quoted())
			}
			if len(parts) == 3 {
				break
			}
		}
		s = strings.Join(parts, " ")
	case value.Array:
		s = fmt.Sprintf("%d items", v.Len())
	default:
		s = v.Quoted()
	}
	if r := []rune(s); len(r) > summaryWidth {
		s = string(r[:summaryWidth-1]) + "…"
	}
	return s
}
