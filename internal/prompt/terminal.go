package prompt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"moneytracker/internal/core"
)

const pageSize = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	hintStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeBox   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(0, 1)
	failBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("9")).Padding(0, 1)
)

// Terminal runs one bubbletea program per prompt.
type Terminal struct {
	in  io.Reader
	out io.Writer
}

var _ Surface = (*Terminal)(nil)

// NewTerminal returns a surface on stdin and stdout when in or out are nil.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Terminal{in: in, out: out}
}

func (t *Terminal) run(m tea.Model) (tea.Model, error) {
	final, err := tea.NewProgram(m, tea.WithInput(t.in), tea.WithOutput(t.out)).Run()
	if err != nil {
		return nil, fmt.Errorf("run prompt: %w", err)
	}
	return final, nil
}

func (t *Terminal) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("select %q: no options", title)
	}
	final, err := t.run(&selectModel{title: title, options: options})
	if err != nil {
		return 0, err
	}
	m := final.(*selectModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return m.cursor, nil
}

func (t *Terminal) Ask(prompt, def string) (string, error) {
	final, err := t.run(&inputModel{prompt: prompt, def: def})
	if err != nil {
		return "", err
	}
	m := final.(*inputModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.answer(), nil
}

func (t *Terminal) AskFloat(prompt string, def float64) (float64, error) {
	m := &inputModel{prompt: prompt, def: core.FormatAmount(def), check: func(s string) error {
		_, err := core.ParseAmount(s)
		return err
	}}
	final, err := t.run(m)
	if err != nil {
		return 0, err
	}
	m = final.(*inputModel)
	if m.aborted {
		return 0, ErrAborted
	}
	return core.ParseAmount(m.answer())
}

func (t *Terminal) Confirm(prompt string) (bool, error) {
	final, err := t.run(&confirmModel{prompt: prompt, yes: true})
	if err != nil {
		return false, err
	}
	m := final.(*confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.yes, nil
}

// Table writes rows aligned under headers.
func (t *Terminal) Table(headers []string, rows [][]string) error {
	return WriteTable(t.out, headers, rows)
}

func (t *Terminal) Notice(msg string) {
	fmt.Fprintln(t.out, noticeBox.Render(msg))
}

func (t *Terminal) Fail(msg string) {
	fmt.Fprintln(t.out, failBox.Render(errorStyle.Render("Error")+"\n"+msg))
}

// WriteTable renders a plain aligned table, as used by the non-interactive commands.
func WriteTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	rule := make([]string, len(headers))
	for i, h := range headers {
		rule[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(rule, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

type selectModel struct {
	title   string
	options []string
	cursor  int
	aborted bool
}

func (m *selectModel) Init() tea.Cmd { return nil }

func (m *selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "enter":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.options) - 1
	}
	return m, nil
}

func (m *selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")

	start := 0
	if m.cursor >= pageSize {
		start = m.cursor - pageSize + 1
	}
	end := min(start+pageSize, len(m.options))
	for i := start; i < end; i++ {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+m.options[i]) + "\n")
		} else {
			b.WriteString("  " + m.options[i] + "\n")
		}
	}
	if len(m.options) > pageSize {
		b.WriteString(hintStyle.Render("(move up and down to reveal more choices)") + "\n")
	}
	return b.String()
}

type inputModel struct {
	prompt  string
	def     string
	value   []rune
	check   func(string) error
	problem string
	aborted bool
}

func (m *inputModel) answer() string {
	if s := strings.TrimSpace(string(m.value)); s != "" {
		return s
	}
	return m.def
}

func (m *inputModel) Init() tea.Cmd { return nil }

func (m *inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		if m.check != nil {
			if err := m.check(m.answer()); err != nil {
				m.problem = err.Error()
				return m, nil
			}
		}
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.value) > 0 {
			m.value = m.value[:len(m.value)-1]
		}
	case tea.KeySpace:
		m.value = append(m.value, ' ')
	case tea.KeyRunes:
		m.value = append(m.value, key.Runes...)
	}
	m.problem = ""
	return m, nil
}

func (m *inputModel) View() string {
	line := titleStyle.Render(m.prompt) + " "
	if m.def != "" {
		line += hintStyle.Render("(" + m.def + ") ")
	}
	line += string(m.value) + "\n"
	if m.problem != "" {
		line += errorStyle.Render(m.problem) + "\n"
	}
	return line
}

type confirmModel struct {
	prompt  string
	yes     bool
	aborted bool
}

func (m *confirmModel) Init() tea.Cmd { return nil }

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y":
		m.yes = true
		return m, tea.Quit
	case "n":
		m.yes = false
		return m, tea.Quit
	case "enter":
		return m, tea.Quit
	case "left", "right", "tab":
		m.yes = !m.yes
	}
	return m, nil
}

func (m *confirmModel) View() string {
	choice := "[y/N]"
	if m.yes {
		choice = "[Y/n]"
	}
	return titleStyle.Render(m.prompt) + " " + hintStyle.Render(choice) + "\n"
}
