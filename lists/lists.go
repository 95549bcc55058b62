// Package lists implements the batch operations: each one is a full
// fetch → filter → sort → walk → join pipeline over a project or filter
// selection.
package lists

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kastheco/doist/color"
	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/prompt"
	"github.com/kastheco/doist/tasks"
	"github.com/kastheco/doist/todoist"
)

const exitedMessage = "Exited"

// fetchFlat resolves a flag to a single task sequence. Filter results are
// flattened across groups; grouping only matters for view.
func fetchFlat(client *todoist.Client, cfg *config.Config, flag Flag) ([]tasks.Task, error) {
	switch f := flag.(type) {
	case ProjectFlag:
		return client.AllTasksByProject(cfg, f.Project)
	case FilterFlag:
		groups, err := client.AllTasksByFilter(cfg, f.Query)
		if err != nil {
			return nil, err
		}
		var all []tasks.Task
		for _, g := range groups {
			all = append(all, g.Tasks...)
		}
		return all, nil
	default:
		return nil, fmt.Errorf("unknown flag type %T", flag)
	}
}

// View lists every task for the selection, one titled section per group.
func View(client *todoist.Client, cfg *config.Config, flag Flag, sort tasks.SortOrder) (string, error) {
	var groups []todoist.TaskGroup
	switch f := flag.(type) {
	case ProjectFlag:
		ts, err := client.AllTasksByProject(cfg, f.Project)
		if err != nil {
			return "", err
		}
		groups = []todoist.TaskGroup{{Query: f.Project.Name, Tasks: ts}}
	case FilterFlag:
		var err error
		groups, err = client.AllTasksByFilter(cfg, f.Query)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unknown flag type %T", flag)
	}

	total := 0
	for _, group := range groups {
		total += len(group.Tasks)
	}
	if total == 0 {
		return color.Green(fmt.Sprintf("No tasks for %s", flag)), nil
	}

	var buffer strings.Builder
	for _, group := range groups {
		buffer.WriteString("\n")
		buffer.WriteString(color.Green(fmt.Sprintf("Tasks for %s", group.Query)))
		buffer.WriteString("\n")
		for _, task := range tasks.Sort(group.Tasks, cfg, sort) {
			buffer.WriteString("\n")
			buffer.WriteString(task.FmtList())
		}
	}
	return buffer.String(), nil
}

// Prioritize walks every unprioritized task in the selection, asking for a
// priority for each and dispatching the updates.
func Prioritize(client *todoist.Client, cfg *config.Config, pr prompt.Prompter,
	flag Flag, sort tasks.SortOrder) (string, error) {

	fetched, err := fetchFlat(client, cfg, flag)
	if err != nil {
		return "", err
	}
	ts := tasks.FilterUnprioritized(fetched)
	if len(ts) == 0 {
		return color.Green(fmt.Sprintf("No tasks for %s", flag)), nil
	}

	var handles []*tasks.Handle
	for _, task := range tasks.Sort(ts, cfg, sort) {
		fmt.Println()
		handle, err := tasks.SetPriority(client, cfg, pr, task, true)
		if err != nil {
			return "", err
		}
		handles = append(handles, handle)
	}
	joinAll(handles)
	return color.Green(fmt.Sprintf("Successfully prioritized %s", flag)), nil
}

// Timebox walks every task in the selection that has no duration yet.
func Timebox(client *todoist.Client, cfg *config.Config, pr prompt.Prompter,
	flag Flag, sort tasks.SortOrder) (string, error) {

	fetched, err := fetchFlat(client, cfg, flag)
	if err != nil {
		return "", err
	}
	ts := tasks.FilterNoDuration(fetched)
	if len(ts) == 0 {
		return color.Green(fmt.Sprintf("No tasks for %s", flag)), nil
	}

	ts = tasks.Sort(ts, cfg, sort)
	remaining := len(ts)
	var handles []*tasks.Handle
	for _, task := range ts {
		fresh, err := cfg.Reload()
		if err != nil {
			return "", err
		}
		fmt.Println()
		handle, err := tasks.Timebox(client, fresh, pr, task, &remaining)
		if err != nil {
			return "", err
		}
		if handle == nil {
			return color.Green(exitedMessage), nil
		}
		handles = append(handles, handle)
	}
	joinAll(handles)
	return color.Green(fmt.Sprintf("Successfully timeboxed %s", flag)), nil
}

// Process fetches the selection's actionable tasks (due now, not parents of
// other selected tasks), loads their comments concurrently, then walks them
// one at a time for completion.
func Process(client *todoist.Client, cfg *config.Config, pr prompt.Prompter,
	flag Flag, sort tasks.SortOrder) (string, error) {

	fetched, err := fetchFlat(client, cfg, flag)
	if err != nil {
		return "", err
	}
	ts, err := tasks.FilterNotInFuture(fetched, cfg)
	if err != nil {
		return "", err
	}
	ts = tasks.RejectParentTasks(ts)
	if len(ts) == 0 {
		return color.Green(fmt.Sprintf("No tasks for %s", flag)), nil
	}

	_, withProject := flag.(FilterFlag)

	ts = tasks.Sort(ts, cfg, sort)
	remaining := len(ts)
	results := fetchCommentsForTasks(client, cfg, ts)

	var handles []*tasks.Handle
	for _, result := range results {
		if result.panicked != nil {
			log.ErrorLog.Printf("comment fetch for task %s did not complete: %v",
				result.task.ID, result.panicked)
			fmt.Printf("Could not load task %q, skipping\n", result.task.Content)
			remaining--
			continue
		}

		cmts := result.comments
		showProject := withProject
		if result.err != nil {
			source, message := errorParts(result.err)
			fmt.Printf("Could not fetch comments from %s: %s\n", source, message)
			cmts = nil
			showProject = false
		}

		fresh, err := cfg.Reload()
		if err != nil {
			return "", err
		}
		fmt.Println()
		handle, err := tasks.Process(client, fresh, pr, cmts, result.task, &remaining, showProject)
		if err != nil {
			return "", err
		}
		if handle == nil {
			return color.Green(exitedMessage), nil
		}
		handles = append(handles, handle)
	}
	joinAll(handles)
	return color.Green(fmt.Sprintf("Successfully processed %s", flag)), nil
}

// Label applies one of the given labels to every task in the selection.
func Label(client *todoist.Client, cfg *config.Config, pr prompt.Prompter,
	flag Flag, labels []string, sort tasks.SortOrder) (string, error) {

	ts, err := fetchFlat(client, cfg, flag)
	if err != nil {
		return "", err
	}
	if len(ts) == 0 {
		return color.Green(fmt.Sprintf("No tasks for %s", flag)), nil
	}

	var handles []*tasks.Handle
	for _, task := range tasks.Sort(ts, cfg, sort) {
		fmt.Println()
		handle, err := tasks.Label(client, cfg, pr, task, labels)
		if err != nil {
			return "", err
		}
		handles = append(handles, handle)
	}
	joinAll(handles)
	return color.Green(fmt.Sprintf("Successfully labeled %s", flag)), nil
}

// Import quick-creates one task per non-empty line of the file, in file
// order. Creation is sequential so the remote side sees the same order; the
// first failure aborts the whole import.
func Import(client *todoist.Client, cfg *config.Config, filePath string) (string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read import file: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		if err := client.QuickCreate(cfg, line); err != nil {
			return "", err
		}
	}
	return "✓", nil
}

// joinAll waits for every dispatched mutation before the operation reports
// success. Individual failures were already logged at dispatch; they are
// deliberately not aggregated into the result.
func joinAll(handles []*tasks.Handle) {
	for _, h := range handles {
		_ = h.Wait()
	}
}

func errorParts(err error) (string, string) {
	var reqErr *todoist.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Source, reqErr.Message
	}
	return "unknown", err.Error()
}
