package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/graphrank/pkg/session"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// submissionRow is one graph as shown by inspect.
type submissionRow struct {
	session.Submission
	InTopK bool // retained at end of stream
}

// newSubmissionRows marks which submissions survived in the final ranking.
func newSubmissionRows(subs []session.Submission, top []uint64) []submissionRow {
	retained := make(map[uint64]bool, len(top))
	for _, idx := range top {
		retained[idx] = true
	}
	rows := make([]submissionRow, len(subs))
	for i, s := range subs {
		rows[i] = submissionRow{Submission: s, InTopK: retained[s.Index]}
	}
	return rows
}

// =============================================================================
// SubmissionListModel - Interactive submission browser
// =============================================================================

// SubmissionListModel is the bubbletea model for browsing ranked submissions.
type SubmissionListModel struct {
	all     []submissionRow
	visible []submissionRow
	K       int
	TopOnly bool
	Cursor  int
	Height  int
	Offset  int
}

// NewSubmissionListModel creates a new submission list model.
func NewSubmissionListModel(rows []submissionRow, k int) SubmissionListModel {
	m := SubmissionListModel{all: rows, K: k, Height: 15}
	m.filter()
	return m
}

func (m *SubmissionListModel) filter() {
	m.visible = m.all
	if m.TopOnly {
		m.visible = nil
		for _, r := range m.all {
			if r.InTopK {
				m.visible = append(m.visible, r)
			}
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m SubmissionListModel) Init() tea.Cmd {
	return nil
}

func (m SubmissionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.Height)
		case "pgdown", " ":
			m.move(m.Height)
		case "home", "g":
			m.move(-len(m.visible))
		case "end", "G":
			m.move(len(m.visible))
		case "t":
			m.TopOnly = !m.TopOnly
			m.filter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		m.move(0)
	}
	return m, nil
}

// move shifts the cursor by delta, clamped, and scrolls to keep it visible.
func (m *SubmissionListModel) move(delta int) {
	if len(m.visible) == 0 {
		m.Cursor, m.Offset = 0, 0
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), len(m.visible)-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m SubmissionListModel) View() string {
	var b strings.Builder

	title := "Submissions"
	if m.TopOnly {
		title = fmt.Sprintf("Top %d", m.K)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  t top-K only  q quit"))
	b.WriteString("\n\n")

	if len(m.visible) == 0 {
		b.WriteString(listDimStyle.Render("  no graphs"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.visible))
	page := m.visible[m.Offset:end]
	b.WriteString(submissionTable(page, m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.visible))))

	return b.String()
}

// submissionTable renders rows; cursor is the highlighted row or -1.
func submissionTable(page []submissionRow, cursor int) *table.Table {
	rows := make([][]string, len(page))
	for i, r := range page {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		top := ""
		if r.InTopK {
			top = iconTop
		}
		cached := ""
		if r.Cached {
			cached = "cached"
		}
		rows[i] = []string{
			marker,
			strconv.FormatUint(r.Index, 10),
			strconv.FormatUint(r.Fitness, 10),
			r.Change.Outcome.String(),
			top,
			cached,
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Index", "Fitness", "On arrival", "Top-K", "Cache").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(page) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 5 {
				base = base.Foreground(colorDim)
			}
			switch {
			case row == cursor && page[row].InTopK:
				return base.Foreground(colorGreen).Bold(true)
			case row == cursor:
				return base.Bold(true)
			case page[row].InTopK:
				return base.Foreground(colorGreen)
			}
			return base.Foreground(colorGray)
		})
}
