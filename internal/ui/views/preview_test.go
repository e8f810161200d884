package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestPreviewRendersAnnotations(t *testing.T) {
	view := NewPreviewView()
	view.SetSize(100, 30)
	view.SetDocument("/work/notes.md", "Fixes VSO12 and VSO99", map[int]string{12: "[Done] Crash on save"})
	view.Activate()

	got := view.View()
	for _, want := range []string{"Preview: notes.md", "VSO12", "[Done] Crash on save", "VSO99"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestPreviewInactive(t *testing.T) {
	view := NewPreviewView()
	view.SetDocument("/work/notes.md", "VSO1", nil)

	if view.IsActive() {
		t.Fatal("preview should start inactive")
	}
	if view.View() != "" {
		t.Error("inactive preview should render nothing")
	}
	if cmd := view.Update(tea.KeyMsg{Type: tea.KeyDown}); cmd != nil {
		t.Error("inactive preview should ignore input")
	}

	view.Activate()
	view.Deactivate()
	if view.IsActive() {
		t.Error("Deactivate should close the preview")
	}
}

func TestPreviewWithoutDocument(t *testing.T) {
	view := NewPreviewView()
	view.SetSize(100, 30)
	view.Activate()

	if got := view.View(); !strings.Contains(got, "No document open") {
		t.Errorf("View() = %q, want the no-document placeholder", got)
	}
}
