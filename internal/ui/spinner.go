package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner wraps the spinner library for consistent styling. It draws on
// stderr so structured output on stdout stays clean, and stays silent when
// stderr is not a terminal.
type Spinner struct {
	s       *spinner.Spinner
	enabled bool
}

// NewSpinner creates a new spinner with the given message.
func NewSpinner(message string) *Spinner {
	charSet := spinner.CharSets[14] // ⣾⣽⣻⢿⡿⣟⣯⣷
	if !UseUnicode {
		charSet = spinner.CharSets[9] // |/-\
	}

	s := spinner.New(charSet, 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message

	if UseColors {
		_ = s.Color("cyan") //nolint:errcheck
	}

	fd := os.Stderr.Fd()
	return &Spinner{s: s, enabled: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// Start starts the spinner.
func (sp *Spinner) Start() {
	if sp.enabled {
		sp.s.Start()
	}
}

// Stop stops the spinner.
func (sp *Spinner) Stop() {
	if sp.enabled {
		sp.s.Stop()
	}
}

// UpdateMessage updates the spinner message.
func (sp *Spinner) UpdateMessage(message string) {
	sp.s.Lock()
	sp.s.Suffix = " " + message
	sp.s.Unlock()
}

// Spin runs fn with a spinner and returns its result.
func Spin[T any](message string, fn func() (T, error)) (T, error) {
	sp := NewSpinner(message)
	sp.Start()
	defer sp.Stop()
	return fn()
}
