// Package tasks holds the task model, the sort engine, the per-operation
// filters, and the interactive walker steps that drive batch operations.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/kastheco/doist/color"
	"github.com/kastheco/doist/config"
)

// Task is a Todoist task. Tasks are owned transiently: read from the
// gateway, optionally mutated, never cached across runs.
type Task struct {
	ID          string    `json:"id"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	Due         *Due      `json:"due,omitempty"`
	Duration    *Duration `json:"duration,omitempty"`
	ProjectID   string    `json:"project_id"`
	ParentID    *string   `json:"parent_id,omitempty"`
	Labels      []string  `json:"labels,omitempty"`
}

// Due is a task's due date. Date is either a plain date ("2025-08-29") or a
// local datetime ("2025-08-29T09:00:00").
type Due struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
	Human       string `json:"string,omitempty"`
}

// Duration is an assigned timebox.
type Duration struct {
	Amount int    `json:"amount"`
	Unit   string `json:"unit"`
}

// URL returns the task's web app location.
func (t Task) URL() string {
	return fmt.Sprintf("https://app.todoist.com/app/task/%s", t.ID)
}

const (
	dateFormat     = "2006-01-02"
	datetimeFormat = "2006-01-02T15:04:05"
)

// DueTime parses the task's due date in the config timezone. The second
// return is false when the task has no due date.
func (t Task) DueTime(cfg *config.Config) (time.Time, bool, error) {
	if t.Due == nil || t.Due.Date == "" {
		return time.Time{}, false, nil
	}
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}
	if strings.Contains(t.Due.Date, "T") {
		parsed, err := time.ParseInLocation(datetimeFormat, strings.TrimSuffix(t.Due.Date, "Z"), loc)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("failed to parse due datetime %q: %w", t.Due.Date, err)
		}
		return parsed, true, nil
	}
	parsed, err := time.ParseInLocation(dateFormat, t.Due.Date, loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to parse due date %q: %w", t.Due.Date, err)
	}
	return parsed, true, nil
}

// FmtList renders the one-line form used by the view operation.
func (t Task) FmtList() string {
	var b strings.Builder
	b.WriteString("- ")
	b.WriteString(t.Content)
	var extras []string
	if t.Priority != PriorityNone {
		extras = append(extras, t.Priority.Colored())
	}
	if t.Due != nil {
		extras = append(extras, t.Due.Date)
	}
	if t.Duration != nil {
		extras = append(extras, fmt.Sprintf("%d %s", t.Duration.Amount, t.Duration.Unit))
	}
	if len(extras) > 0 {
		b.WriteString("\n  ")
		b.WriteString(color.Muted(strings.Join(extras, " | ")))
	}
	return b.String()
}

// FmtFull renders the multi-line form shown by the interactive walker.
// remaining is the count of tasks left in the run including this one.
func (t Task) FmtFull(projectName string, remaining int) string {
	var b strings.Builder
	b.WriteString(color.Bold(t.Content))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(t.Description)
		b.WriteString("\n")
	}
	if projectName != "" {
		b.WriteString(fmt.Sprintf("Project: %s\n", projectName))
	}
	if t.Due != nil {
		due := t.Due.Date
		if t.Due.IsRecurring && t.Due.Human != "" {
			due = fmt.Sprintf("%s (%s)", due, t.Due.Human)
		}
		b.WriteString(fmt.Sprintf("Due: %s\n", due))
	}
	if t.Priority != PriorityNone {
		b.WriteString(fmt.Sprintf("Priority: %s\n", t.Priority.Colored()))
	}
	if len(t.Labels) > 0 {
		b.WriteString(fmt.Sprintf("Labels: %s\n", strings.Join(t.Labels, ", ")))
	}
	b.WriteString(color.Muted(fmt.Sprintf("%d task(s) remaining", remaining)))
	return b.String()
}
