package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphrank/pkg/ranking"
	"github.com/matzehuels/graphrank/pkg/session"
)

func sampleRows() []submissionRow {
	subs := []session.Submission{
		{Index: 0, Fitness: 2, Change: ranking.Change{Outcome: ranking.Added}},
		{Index: 1, Fitness: 10, Change: ranking.Change{Outcome: ranking.Added}},
		{Index: 2, Fitness: 1, Cached: true, Change: ranking.Change{Outcome: ranking.Replaced}},
	}
	return newSubmissionRows(subs, []uint64{0, 2})
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next
}

func TestNewSubmissionRows(t *testing.T) {
	rows := sampleRows()
	want := []bool{true, false, true}
	for i, r := range rows {
		if r.InTopK != want[i] {
			t.Errorf("row %d InTopK = %v, want %v", i, r.InTopK, want[i])
		}
	}
}

func TestSubmissionListNavigation(t *testing.T) {
	var m tea.Model = NewSubmissionListModel(sampleRows(), 2)

	m = press(m, "down")
	m = press(m, "down")
	m = press(m, "down") // clamped
	if got := m.(SubmissionListModel).Cursor; got != 2 {
		t.Errorf("Cursor = %d, want 2", got)
	}

	m = press(m, "up")
	if got := m.(SubmissionListModel).Cursor; got != 1 {
		t.Errorf("Cursor = %d, want 1", got)
	}
}

func TestSubmissionListTopOnly(t *testing.T) {
	var m tea.Model = NewSubmissionListModel(sampleRows(), 2)
	m = press(m, "t")

	sm := m.(SubmissionListModel)
	if !sm.TopOnly || len(sm.visible) != 2 {
		t.Fatalf("TopOnly = %v, visible = %d; want true, 2", sm.TopOnly, len(sm.visible))
	}
	if !strings.Contains(sm.View(), "Top 2") {
		t.Error("view title should switch to Top 2")
	}

	m = press(m, "t")
	if len(m.(SubmissionListModel).visible) != 3 {
		t.Error("toggling again should show all rows")
	}
}

func TestSubmissionListWindowSize(t *testing.T) {
	var m tea.Model = NewSubmissionListModel(sampleRows(), 2)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 3})
	if got := m.(SubmissionListModel).Height; got != 5 {
		t.Errorf("Height = %d, want minimum 5", got)
	}
}

func TestSubmissionListQuit(t *testing.T) {
	m := NewSubmissionListModel(sampleRows(), 2)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestSubmissionListEmpty(t *testing.T) {
	m := NewSubmissionListModel(nil, 2)
	if !strings.Contains(m.View(), "no graphs") {
		t.Error("empty model should say there are no graphs")
	}
}

func TestSubmissionTable(t *testing.T) {
	out := submissionTable(sampleRows(), 0).Render()
	for _, want := range []string{"Index", "replaced", "cached", iconTop, "▸"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
