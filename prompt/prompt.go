// Package prompt abstracts interactive terminal input so walker logic can
// be driven by a scripted double in tests.
package prompt

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Prompter gathers a single user decision per call. Implementations block
// until the user answers.
type Prompter interface {
	// Select shows title and options and returns the chosen index.
	Select(title string, options []string) (int, error)
	// Input asks for a free-form line.
	Input(title, placeholder string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(title string) (bool, error)
}

// Terminal is the production Prompter, rendering huh forms on the tty.
type Terminal struct{}

// New returns a terminal-backed prompter.
func New() *Terminal {
	return &Terminal{}
}

func (t *Terminal) Select(title string, options []string) (int, error) {
	opts := make([]huh.Option[int], 0, len(options))
	for i, o := range options {
		opts = append(opts, huh.NewOption(o, i))
	}
	var choice int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title(title).
				Options(opts...).
				Value(&choice),
		),
	).WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		return 0, fmt.Errorf("select prompt failed: %w", err)
	}
	return choice, nil
}

func (t *Terminal) Input(title, placeholder string) (string, error) {
	var value string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder(placeholder).
				Value(&value),
		),
	).WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("input prompt failed: %w", err)
	}
	return value, nil
}

func (t *Terminal) Confirm(title string) (bool, error) {
	var value bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Value(&value),
		),
	).WithTheme(huh.ThemeCharm())
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}
	return value, nil
}
