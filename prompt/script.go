package prompt

import "fmt"

// Script is a Prompter that replays canned answers in order. Tests build
// one per scenario; running out of answers is a test bug and fails loudly.
type Script struct {
	Selections []int
	Inputs     []string
	Confirms   []bool

	selectIdx  int
	inputIdx   int
	confirmIdx int
}

func (s *Script) Select(title string, options []string) (int, error) {
	if s.selectIdx >= len(s.Selections) {
		return 0, fmt.Errorf("scripted prompter has no answer for select %q", title)
	}
	choice := s.Selections[s.selectIdx]
	s.selectIdx++
	if choice < 0 || choice >= len(options) {
		return 0, fmt.Errorf("scripted choice %d out of range for select %q (%d options)",
			choice, title, len(options))
	}
	return choice, nil
}

func (s *Script) Input(title, placeholder string) (string, error) {
	if s.inputIdx >= len(s.Inputs) {
		return "", fmt.Errorf("scripted prompter has no answer for input %q", title)
	}
	value := s.Inputs[s.inputIdx]
	s.inputIdx++
	return value, nil
}

func (s *Script) Confirm(title string) (bool, error) {
	if s.confirmIdx >= len(s.Confirms) {
		return false, fmt.Errorf("scripted prompter has no answer for confirm %q", title)
	}
	value := s.Confirms[s.confirmIdx]
	s.confirmIdx++
	return value, nil
}
