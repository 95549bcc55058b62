package tasks

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/glamour"

	"github.com/kastheco/doist/comments"
	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/prompt"
)

// API is the slice of the remote gateway the walker dispatches mutations
// through. Every method starts the remote call immediately and returns a
// handle to it.
type API interface {
	SetTaskPriority(cfg *config.Config, task Task, p Priority) *Handle
	SetTaskDuration(cfg *config.Config, task Task, minutes int) *Handle
	AddTaskLabel(cfg *config.Config, task Task, label string) *Handle
	CloseTask(cfg *config.Config, task Task) *Handle
	DeleteTask(cfg *config.Config, task Task) *Handle
}

// SetPriority walks the user through assigning a priority to one task and
// dispatches the update. When display is false the task is assumed to be
// already on screen.
func SetPriority(api API, cfg *config.Config, pr prompt.Prompter, task Task, display bool) (*Handle, error) {
	if display {
		fmt.Println(task.FmtFull("", 0))
	}
	options := []string{
		PriorityLow.String(),
		PriorityMedium.String(),
		PriorityHigh.String(),
		PriorityNone.String(),
	}
	choice, err := pr.Select(fmt.Sprintf("Priority for %q", task.Content), options)
	if err != nil {
		return nil, err
	}
	priorities := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityNone}
	return api.SetTaskPriority(cfg, task, priorities[choice]), nil
}

// Timebox elicits a duration for one task. A nil handle with a nil error
// means the user chose to quit the whole run.
func Timebox(api API, cfg *config.Config, pr prompt.Prompter, task Task, remaining *int) (*Handle, error) {
	fmt.Println(task.FmtFull("", *remaining))

	choice, err := pr.Select("Timebox", []string{"Set duration", "Skip", "Quit"})
	if err != nil {
		return nil, err
	}
	switch choice {
	case 0:
		minutes, err := askMinutes(pr)
		if err != nil {
			return nil, err
		}
		*remaining--
		return api.SetTaskDuration(cfg, task, minutes), nil
	case 1:
		*remaining--
		return Completed(nil), nil
	default:
		return nil, nil
	}
}

func askMinutes(pr prompt.Prompter) (int, error) {
	for {
		raw, err := pr.Input("Duration in minutes", "30")
		if err != nil {
			return 0, err
		}
		minutes, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || minutes <= 0 {
			fmt.Println("Please enter a positive number of minutes")
			continue
		}
		return minutes, nil
	}
}

// Process shows one task with its comments and performs a single
// user-driven action on it. A nil handle with a nil error means the user
// chose to quit the whole run.
func Process(api API, cfg *config.Config, pr prompt.Prompter, cmts []comments.Comment,
	task Task, remaining *int, withProject bool) (*Handle, error) {

	projectName := ""
	if withProject {
		for _, p := range cfg.Projects {
			if p.ID == task.ProjectID {
				projectName = p.Name
				break
			}
		}
	}
	fmt.Println(task.FmtFull(projectName, *remaining))
	printComments(cmts)

	for {
		choice, err := pr.Select("Process", []string{"Complete", "Delete", "Copy URL", "Skip", "Quit"})
		if err != nil {
			return nil, err
		}
		switch choice {
		case 0:
			*remaining--
			return api.CloseTask(cfg, task), nil
		case 1:
			*remaining--
			return api.DeleteTask(cfg, task), nil
		case 2:
			if err := clipboard.WriteAll(task.URL()); err != nil {
				fmt.Printf("Could not copy to clipboard: %v\n", err)
			}
			// Stay on this task and ask again.
		case 3:
			*remaining--
			return Completed(nil), nil
		default:
			return nil, nil
		}
	}
}

func printComments(cmts []comments.Comment) {
	if len(cmts) == 0 {
		return
	}
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
	if err != nil {
		log.WarningLog.Printf("failed to build markdown renderer: %v", err)
		renderer = nil
	}
	fmt.Printf("Comments (%d):\n", len(cmts))
	for _, c := range cmts {
		body := c.Content
		if renderer != nil {
			if rendered, err := renderer.Render(c.Content); err == nil {
				body = strings.TrimRight(rendered, "\n")
			}
		}
		fmt.Println(body)
	}
}

// Label applies one of the given labels to a task and dispatches the
// update. With a single label no prompt is shown.
func Label(api API, cfg *config.Config, pr prompt.Prompter, task Task, labels []string) (*Handle, error) {
	fmt.Println(task.FmtFull("", 0))
	label := labels[0]
	if len(labels) > 1 {
		choice, err := pr.Select(fmt.Sprintf("Label for %q", task.Content), labels)
		if err != nil {
			return nil, err
		}
		label = labels[choice]
	}
	return api.AddTaskLabel(cfg, task, label), nil
}
