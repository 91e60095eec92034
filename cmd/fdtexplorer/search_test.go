package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeSearch(m Model, query string) Model {
	m = sendRune(m, '/')
	for _, r := range query {
		m = sendRune(m, r)
	}
	return sendKey(m, tea.KeyEnter)
}

func TestSearch_ExpandsAndJumps(t *testing.T) {
	m := newTestModel(t)

	// uart@10000000 sits under the collapsed soc node.
	if len(m.Rows()) != 4 {
		t.Fatalf("precondition: rows = %d, want 4", len(m.Rows()))
	}

	m = typeSearch(m, "uart")

	if got := m.Rows()[m.Cursor()].node.Name; got != "uart@10000000" {
		t.Errorf("cursor on %q after search, want uart@10000000", got)
	}
	if len(m.Rows()) != 6 {
		t.Errorf("rows = %d after search, want 6 (soc expanded)", len(m.Rows()))
	}
	if !strings.Contains(m.statusMessage, "match 1 of 1") {
		t.Errorf("statusMessage = %q", m.statusMessage)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	m := newTestModel(t)

	m = typeSearch(m, "UART")
	if got := m.Rows()[m.Cursor()].node.Name; got != "uart@10000000" {
		t.Errorf("cursor on %q after search, want uart@10000000", got)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	m := newTestModel(t)

	before := m.Cursor()
	m = typeSearch(m, "bogus")

	if m.Cursor() != before {
		t.Errorf("cursor moved on failed search")
	}
	if !strings.Contains(m.statusMessage, "no matches") {
		t.Errorf("statusMessage = %q", m.statusMessage)
	}
}

func TestSearch_CycleMatches(t *testing.T) {
	m := newTestModel(t)

	// Three matches for "@": memory@80000000, uart@10000000, spi@0.
	m = typeSearch(m, "@")
	if len(m.matches) != 3 {
		t.Fatalf("matches = %d, want 3", len(m.matches))
	}
	first := m.Cursor()

	m = sendRune(m, 'n')
	second := m.Cursor()
	if second == first {
		t.Error("n did not advance to next match")
	}

	m = sendRune(m, 'n')
	m = sendRune(m, 'n')
	if m.Cursor() != first {
		t.Errorf("cycling wrapped to %d, want %d", m.Cursor(), first)
	}

	m = sendRune(m, 'N')
	if m.Cursor() == first {
		t.Error("N did not step back")
	}
}

func TestSearch_EscCancels(t *testing.T) {
	m := newTestModel(t)

	m = sendRune(m, '/')
	m = sendRune(m, 'u')
	if m.inputMode != SearchMode {
		t.Fatal("not in search mode after /")
	}

	m = sendKey(m, tea.KeyEsc)
	if m.inputMode != NormalMode {
		t.Error("esc did not leave search mode")
	}
	if m.inputBuffer != "" {
		t.Errorf("inputBuffer = %q after cancel", m.inputBuffer)
	}
	if len(m.matches) != 0 {
		t.Errorf("cancelled search produced matches")
	}
}

func TestSearch_PromptShownInStatus(t *testing.T) {
	m := newTestModel(t)

	m = sendRune(m, '/')
	m = sendRune(m, 'u')
	m = sendRune(m, 'a')
	if !strings.Contains(m.View(), "/ua") {
		t.Errorf("search prompt not rendered")
	}
}

func TestSearch_BackspaceEdits(t *testing.T) {
	m := newTestModel(t)

	m = sendRune(m, '/')
	m = sendRune(m, 'u')
	m = sendRune(m, 'x')
	m = sendKey(m, tea.KeyBackspace)
	if m.inputBuffer != "u" {
		t.Errorf("inputBuffer = %q, want u", m.inputBuffer)
	}
}
