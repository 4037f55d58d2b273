// Package tui provides the Bubble Tea live frequency explorer.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ivan-guerra/ccount/internal/freq"
	"github.com/ivan-guerra/ccount/internal/model"
	"github.com/ivan-guerra/ccount/internal/report"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea live explorer UI.
type Model struct {
	opts model.Options

	input     textinput.Model
	freqTable table.Model

	entries  []model.Entry
	total    int
	distinct int
	errMsg   string

	tableFocused bool

	width  int
	height int
}

// NewModel constructs a live explorer model.
func NewModel(opts model.Options) *Model {
	input := textinput.New()
	input.Prompt = "Text: "
	input.Placeholder = "type to analyze"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	m := &Model{
		opts:  opts,
		input: input,
	}
	m.freqTable = table.New(
		table.WithColumns(freqColumns()),
		table.WithHeight(1),
	)
	m.freqTable.SetStyles(freqTableStyles())
	m.recompute()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.input.Focus()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.toggleFocus()
			return m, nil
		case tea.KeyCtrlS:
			m.toggleSort()
			return m, nil
		case tea.KeyCtrlW:
			m.opts.IncludeWhitespace = !m.opts.IncludeWhitespace
			m.recompute()
			return m, nil
		}
		if m.tableFocused {
			var cmd tea.Cmd
			m.freqTable, cmd = m.freqTable.Update(msg)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.recompute()
		return m, cmd
	default:
		if !m.tableFocused {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	sections := []string{
		titleStyle.Render("ccount explorer"),
		m.input.View(),
		m.renderStatus(),
		m.freqTable.View(),
		footerStyle.Render("tab: focus table  ctrl+s: sort  ctrl+w: whitespace  esc: quit"),
	}
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) toggleFocus() {
	m.tableFocused = !m.tableFocused
	if m.tableFocused {
		m.input.Blur()
		m.freqTable.Focus()
		return
	}
	m.freqTable.Blur()
	m.input.Focus()
}

func (m *Model) toggleSort() {
	if m.opts.SortBy == model.SortByChar {
		m.opts.SortBy = model.SortByCount
	} else {
		m.opts.SortBy = model.SortByChar
	}
	m.recompute()
}

func (m *Model) recompute() {
	counts, err := freq.CountString(m.input.Value(), m.opts.IncludeWhitespace)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	entries, err := freq.Analyze(counts, m.opts)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.entries = entries
	m.total = freq.Total(counts)
	m.distinct = len(counts)
	m.freqTable.SetRows(freqRows(entries))
}

func (m *Model) renderStatus() string {
	status := fmt.Sprintf("Total %d  Distinct %d  Sort %s", m.total, m.distinct, m.opts.SortBy)
	if m.opts.IncludeWhitespace {
		status += "  (whitespace counted)"
	}
	return statusStyle.Render(status)
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	promptWidth := lipgloss.Width(m.input.Prompt)
	m.input.Width = maxInt(10, m.width-promptWidth-2)
	m.freqTable.SetWidth(m.width)
	// Title, input, status, footer, and table header take five rows.
	m.freqTable.SetHeight(maxInt(1, m.height-5))
}

func freqColumns() []table.Column {
	return []table.Column{
		{Title: "Char", Width: 9},
		{Title: "Count", Width: 7},
		{Title: "Share", Width: 8},
	}
}

func freqRows(entries []model.Entry) []table.Row {
	rows := make([]table.Row, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, table.Row{
			report.CharLabel(entry.Char),
			fmt.Sprintf("%d", entry.Count),
			fmt.Sprintf("%.2f%%", entry.Percent),
		})
	}
	return rows
}

func freqTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
