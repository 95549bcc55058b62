package tasks

import (
	"time"

	"github.com/kastheco/doist/config"
)

// FilterUnprioritized keeps only tasks whose priority is unset.
func FilterUnprioritized(ts []Task) []Task {
	var kept []Task
	for _, t := range ts {
		if t.Priority == PriorityNone {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterNoDuration keeps only tasks without an assigned duration.
func FilterNoDuration(ts []Task) []Task {
	var kept []Task
	for _, t := range ts {
		if t.Duration == nil {
			kept = append(kept, t)
		}
	}
	return kept
}

// FilterNotInFuture keeps tasks that are not scheduled beyond today in the
// config timezone. Undated tasks are kept.
func FilterNotInFuture(ts []Task, cfg *config.Config) ([]Task, error) {
	endOfToday, err := endOfToday(cfg)
	if err != nil {
		return nil, err
	}
	var kept []Task
	for _, t := range ts {
		due, ok, err := t.DueTime(cfg)
		if err != nil {
			return nil, err
		}
		if !ok || !due.After(endOfToday) {
			kept = append(kept, t)
		}
	}
	return kept, nil
}

func endOfToday(cfg *config.Config) (time.Time, error) {
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}
	now := time.Now().In(loc)
	y, m, d := now.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, loc), nil
}

// RejectParentTasks excludes tasks that other tasks in the same set
// reference as their parent. Parents are deferred until their subtasks are
// dealt with, so they never enter the walk.
func RejectParentTasks(ts []Task) []Task {
	parents := make(map[string]bool)
	for _, t := range ts {
		if t.ParentID != nil {
			parents[*t.ParentID] = true
		}
	}
	var kept []Task
	for _, t := range ts {
		if !parents[t.ID] {
			kept = append(kept, t)
		}
	}
	return kept
}
