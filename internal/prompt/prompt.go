// Package prompt is the interactive surface the menus talk to: choices,
// questions, tables and message boxes.
package prompt

import "errors"

// ErrAborted is returned when the user cancels a prompt (Ctrl+C or Esc).
var ErrAborted = errors.New("prompt aborted")

// Surface shows prompts and collects answers. Implementations block until
// the user answers.
type Surface interface {
	// Select returns the index of the chosen option.
	Select(title string, options []string) (int, error)
	// Ask returns the typed text, or def when the answer is empty.
	Ask(prompt, def string) (string, error)
	// AskFloat keeps asking until the answer is a valid non-negative amount.
	AskFloat(prompt string, def float64) (float64, error)
	Confirm(prompt string) (bool, error)
	Table(headers []string, rows [][]string) error
	Notice(msg string)
	Fail(msg string)
}
