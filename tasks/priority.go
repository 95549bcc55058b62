package tasks

import "github.com/kastheco/doist/color"

// Priority is the task priority scale as the API encodes it: 1 is unset
// and 4 is the most urgent (the web app shows the reverse numbering).
type Priority int

const (
	PriorityNone   Priority = 1
	PriorityLow    Priority = 2
	PriorityMedium Priority = 3
	PriorityHigh   Priority = 4
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "None"
	}
}

// Colored renders the priority name in its conventional color.
func (p Priority) Colored() string {
	switch p {
	case PriorityLow:
		return color.Blue(p.String())
	case PriorityMedium:
		return color.Yellow(p.String())
	case PriorityHigh:
		return color.Red(p.String())
	default:
		return p.String()
	}
}
