package previewui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/menureport/internal/generator"
	"github.com/verte-zerg/menureport/internal/model"
)

func newTestModel(history []model.ExportRecord) *Model {
	data := generator.New(9).Analytics(30, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	m := NewModel("Test Cafe", data, model.DefaultExportOptions(), history)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestViewShowsTabsAndCards(t *testing.T) {
	m := newTestModel(nil)
	view := m.View()
	for _, want := range []string{"Overview", "Items", "Categories", "History", "Test Cafe", "Total Views"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view", want)
		}
	}
	if got := len(strings.Split(view, "\n")); got != 40 {
		t.Fatalf("expected view to fill 40 rows, got %d", got)
	}
}

func TestTabNavigationWraps(t *testing.T) {
	m := newTestModel(nil)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.ActiveTab() != "Items" {
		t.Fatalf("expected Items, got %s", m.ActiveTab())
	}
	if !strings.Contains(m.View(), "Margherita Pizza") {
		t.Fatalf("expected top item in items table")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if m.ActiveTab() != "History" {
		t.Fatalf("expected wrap to History, got %s", m.ActiveTab())
	}
	if !strings.Contains(m.View(), "No exports recorded yet.") {
		t.Fatalf("expected empty history message")
	}
}

func TestHistoryTab(t *testing.T) {
	m := newTestModel([]model.ExportRecord{{
		CreatedAt: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC),
		Subject:   "Test Cafe",
		Format:    model.FormatPDF,
		Filename:  "analytics-report-test-cafe-2026-10-17.pdf",
		Pages:     3,
	}})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if !strings.Contains(m.View(), "analytics-report-test-cafe") {
		t.Fatalf("expected history row in view")
	}
}

func TestQuit(t *testing.T) {
	m := newTestModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
