package tasks

import (
	"fmt"
	"sort"
	"time"

	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/log"
)

// SortOrder selects the comparison key for ordering a task sequence.
type SortOrder int

const (
	// SortValue orders by a computed urgency score, most valuable first.
	SortValue SortOrder = iota
	// SortDatetime orders by due date, earliest first; undated tasks last.
	SortDatetime
	// SortPriority orders by priority, highest first.
	SortPriority
)

// ParseSortOrder maps a CLI flag value to a SortOrder.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "value":
		return SortValue, nil
	case "datetime":
		return SortDatetime, nil
	case "priority":
		return SortPriority, nil
	default:
		return SortValue, fmt.Errorf("unknown sort order %q (expected value, datetime or priority)", s)
	}
}

func (s SortOrder) String() string {
	switch s {
	case SortDatetime:
		return "datetime"
	case SortPriority:
		return "priority"
	default:
		return "value"
	}
}

// Sort returns the tasks ordered by the given key. The sort is stable and
// the input slice is not modified.
func Sort(ts []Task, cfg *config.Config, order SortOrder) []Task {
	sorted := make([]Task, len(ts))
	copy(sorted, ts)

	switch order {
	case SortDatetime:
		sort.SliceStable(sorted, func(i, j int) bool {
			di, okI := dueOrZero(sorted[i], cfg)
			dj, okJ := dueOrZero(sorted[j], cfg)
			if okI != okJ {
				return okI
			}
			return di.Before(dj)
		})
	case SortPriority:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority > sorted[j].Priority
		})
	default:
		now := time.Now()
		sort.SliceStable(sorted, func(i, j int) bool {
			return value(sorted[i], cfg, now) > value(sorted[j], cfg, now)
		})
	}
	return sorted
}

func dueOrZero(t Task, cfg *config.Config) (time.Time, bool) {
	due, ok, err := t.DueTime(cfg)
	if err != nil {
		log.WarningLog.Printf("failed to parse due date for task %s: %v", t.ID, err)
		return time.Time{}, false
	}
	return due, ok
}

// value computes the urgency score behind the default sort: priority
// dominates, with bonuses for being due today or overdue so stale dated
// work floats above fresh undated work.
func value(t Task, cfg *config.Config, now time.Time) int {
	score := int(t.Priority) * 10
	due, ok, err := t.DueTime(cfg)
	if err != nil {
		log.WarningLog.Printf("failed to parse due date for task %s: %v", t.ID, err)
		return score
	}
	if !ok {
		return score
	}
	switch {
	case due.Before(now.Truncate(24 * time.Hour)):
		score += 150
	case due.Before(now.Add(24 * time.Hour)):
		score += 100
	}
	if t.Due.IsRecurring {
		score += 5
	}
	return score
}
