package prompt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrScriptExhausted is returned when a Script runs out of answers.
var ErrScriptExhausted = errors.New("script has no more answers")

// Script is a Surface that replays canned answers and records what was shown.
// Select accepts an int index or the option text; Ask a string; AskFloat a
// float64; Confirm a bool. An error answer is returned by whichever prompt
// consumes it.
type Script struct {
	mu      sync.Mutex
	answers []any
	Titles  []string
	Options [][]string
	Tables  [][][]string
	Notices []string
	Fails   []string
}

var _ Surface = (*Script)(nil)

func NewScript(answers ...any) *Script {
	return &Script{answers: answers}
}

// Remaining reports how many answers have not been consumed.
func (s *Script) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

func (s *Script) next(prompt string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Titles = append(s.Titles, prompt)
	if len(s.answers) == 0 {
		return nil, fmt.Errorf("%q: %w", prompt, ErrScriptExhausted)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if err, ok := a.(error); ok {
		return nil, err
	}
	return a, nil
}

func (s *Script) Select(title string, options []string) (int, error) {
	s.mu.Lock()
	s.Options = append(s.Options, options)
	s.mu.Unlock()

	a, err := s.next(title)
	if err != nil {
		return 0, err
	}
	switch v := a.(type) {
	case int:
		if v < 0 || v >= len(options) {
			return 0, fmt.Errorf("%q: index %d out of range", title, v)
		}
		return v, nil
	case string:
		for i, o := range options {
			if o == v {
				return i, nil
			}
		}
		for i, o := range options {
			if strings.Contains(o, v) {
				return i, nil
			}
		}
		return 0, fmt.Errorf("%q: no option matches %q in %v", title, v, options)
	}
	return 0, fmt.Errorf("%q: want option, scripted %T", title, a)
}

func (s *Script) Ask(prompt, def string) (string, error) {
	a, err := s.next(prompt)
	if err != nil {
		return "", err
	}
	v, ok := a.(string)
	if !ok {
		return "", fmt.Errorf("%q: want string, scripted %T", prompt, a)
	}
	if v == "" {
		return def, nil
	}
	return v, nil
}

func (s *Script) AskFloat(prompt string, def float64) (float64, error) {
	a, err := s.next(prompt)
	if err != nil {
		return 0, err
	}
	switch v := a.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("%q: want number, scripted %T", prompt, a)
}

func (s *Script) Confirm(prompt string) (bool, error) {
	a, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	v, ok := a.(bool)
	if !ok {
		return false, fmt.Errorf("%q: want bool, scripted %T", prompt, a)
	}
	return v, nil
}

func (s *Script) Table(headers []string, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Tables = append(s.Tables, append([][]string{headers}, rows...))
	return nil
}

func (s *Script) Notice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Notices = append(s.Notices, msg)
}

func (s *Script) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Fails = append(s.Fails, msg)
}
