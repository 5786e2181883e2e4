package prompt

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keys(m tea.Model, msgs ...tea.KeyMsg) tea.Model {
	for _, k := range msgs {
		m, _ = m.Update(k)
	}
	return m
}

var (
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectModel(t *testing.T) {
	m := keys(&selectModel{title: "Pick", options: []string{"a", "b", "c"}}, down, down, down, up).(*selectModel)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
	if !strings.Contains(m.View(), "> b") {
		t.Errorf("view does not mark the cursor:\n%s", m.View())
	}

	_, cmd := m.Update(enter)
	if cmd == nil {
		t.Fatal("enter should quit")
	}

	m = keys(&selectModel{options: []string{"a"}}, esc).(*selectModel)
	if !m.aborted {
		t.Fatal("esc should abort")
	}
}

func TestSelectModelPages(t *testing.T) {
	opts := make([]string, 15)
	for i := range opts {
		opts[i] = string(rune('a' + i))
	}
	m := &selectModel{options: opts}
	for i := 0; i < 12; i++ {
		m.Update(down)
	}
	view := m.View()
	if strings.Contains(view, "  a\n") || !strings.Contains(view, "> m") {
		t.Errorf("view should scroll to the cursor:\n%s", view)
	}
}

func TestInputModel(t *testing.T) {
	m := keys(&inputModel{prompt: "Name?", def: "Pedro"}, runes("An"), tea.KeyMsg{Type: tea.KeySpace}, runes("x"),
		tea.KeyMsg{Type: tea.KeyBackspace}, runes("B")).(*inputModel)
	if got := m.answer(); got != "An B" {
		t.Fatalf("answer = %q", got)
	}

	empty := &inputModel{def: "Pedro"}
	if empty.answer() != "Pedro" {
		t.Fatalf("empty answer should use the default")
	}
}

func TestInputModelCheck(t *testing.T) {
	m := &inputModel{prompt: "How much?", check: func(s string) error {
		if s != "5" {
			return errBad
		}
		return nil
	}}
	m.Update(runes("x"))
	if _, cmd := m.Update(enter); cmd != nil {
		t.Fatal("invalid input should not quit")
	}
	if !strings.Contains(m.View(), "bad") {
		t.Errorf("view should show the problem:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(runes("5"))
	if _, cmd := m.Update(enter); cmd == nil {
		t.Fatal("valid input should quit")
	}
}

type badErr struct{}

func (badErr) Error() string { return "bad" }

var errBad = badErr{}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want bool
	}{
		{"enter keeps yes", []tea.KeyMsg{enter}, true},
		{"n", []tea.KeyMsg{runes("n")}, false},
		{"toggle", []tea.KeyMsg{{Type: tea.KeyTab}, enter}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := keys(&confirmModel{yes: true}, tt.keys...).(*confirmModel)
			if m.yes != tt.want {
				t.Fatalf("yes = %v, want %v", m.yes, tt.want)
			}
		})
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTable(&buf, []string{"Item", "Value"}, [][]string{
		{"Transaction Category", "Food"},
		{"Outgoing Amount", "30.00"},
	})
	if err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if strings.Index(lines[0], "Value") != strings.Index(lines[2], "Food") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestScript(t *testing.T) {
	s := NewScript(1, "Income", "typed", "", 2.5, 3, true)

	if i, _ := s.Select("first", []string{"a", "b"}); i != 1 {
		t.Errorf("index answer = %d", i)
	}
	if i, _ := s.Select("second", []string{"Expense", "Income"}); i != 1 {
		t.Errorf("text answer = %d", i)
	}
	if v, _ := s.Ask("q", "def"); v != "typed" {
		t.Errorf("Ask = %q", v)
	}
	if v, _ := s.Ask("q", "def"); v != "def" {
		t.Errorf("empty Ask = %q, want default", v)
	}
	if v, _ := s.AskFloat("f", 0); v != 2.5 {
		t.Errorf("AskFloat = %v", v)
	}
	if v, _ := s.AskFloat("f", 0); v != 3 {
		t.Errorf("AskFloat int = %v", v)
	}
	if v, _ := s.Confirm("ok?"); !v {
		t.Errorf("Confirm = false")
	}
	if _, err := s.Confirm("more?"); err == nil {
		t.Errorf("exhausted script should fail")
	}
	if s.Remaining() != 0 || len(s.Titles) != 8 {
		t.Errorf("remaining %d, titles %v", s.Remaining(), s.Titles)
	}
}
