package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeKeys(m PromptModel, s string) PromptModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(PromptModel)
	}
	return m
}

func press(m PromptModel, k tea.KeyType) (PromptModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(PromptModel), cmd
}

func rectPrompt() PromptModel {
	return newPromptModel("Rectangle",
		promptField{Label: "P1 (x,y)", Validate: validatePoint2},
		promptField{Label: "P2 (x,y)", Validate: validatePoint2},
		promptField{Label: "Width", Validate: validatePositive("width")},
	)
}

func TestPromptFillsForm(t *testing.T) {
	m := rectPrompt()

	m = typeKeys(m, "0,0")
	m, _ = press(m, tea.KeyEnter)
	m = typeKeys(m, "10,0")
	m, _ = press(m, tea.KeyEnter)
	m = typeKeys(m, "4")
	m, cmd := press(m, tea.KeyEnter)

	if !m.Done || cmd == nil {
		t.Fatalf("form not finished: done=%v cmd=%v", m.Done, cmd)
	}
	got := m.Values()
	want := []string{"0,0", "10,0", "4"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPromptRejectsInvalidField(t *testing.T) {
	m := rectPrompt()

	m = typeKeys(m, "0;0")
	m, _ = press(m, tea.KeyEnter)
	if m.Err == nil || m.Cursor != 0 {
		t.Fatalf("invalid point accepted: err=%v cursor=%d", m.Err, m.Cursor)
	}
	if !strings.Contains(m.View(), m.Err.Error()) {
		t.Error("view does not show the validation error")
	}

	m, _ = press(m, tea.KeyBackspace)
	m, _ = press(m, tea.KeyBackspace)
	m = typeKeys(m, ",0")
	m, _ = press(m, tea.KeyEnter)
	if m.Err != nil || m.Cursor != 1 {
		t.Errorf("corrected point rejected: err=%v cursor=%d", m.Err, m.Cursor)
	}
}

func TestPromptNavigation(t *testing.T) {
	m := rectPrompt()

	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	m, _ = press(m, tea.KeyTab)
	if m.Cursor != 0 {
		t.Errorf("tab did not wrap: cursor = %d", m.Cursor)
	}
	m, _ = press(m, tea.KeyShiftTab)
	if m.Cursor != 2 {
		t.Errorf("shift+tab did not wrap: cursor = %d", m.Cursor)
	}
}

func TestPromptCancel(t *testing.T) {
	m, cmd := press(rectPrompt(), tea.KeyEsc)
	if !m.Cancelled || m.Done || cmd == nil {
		t.Errorf("esc: cancelled=%v done=%v cmd=%v", m.Cancelled, m.Done, cmd)
	}
}

func TestPromptUpdateDoesNotMutatePrevious(t *testing.T) {
	m := rectPrompt()
	next := typeKeys(m, "1")
	if m.Fields[0].Value != "" {
		t.Errorf("previous model mutated: %q", m.Fields[0].Value)
	}
	if next.Fields[0].Value != "1" {
		t.Errorf("next value = %q, want 1", next.Fields[0].Value)
	}
}
