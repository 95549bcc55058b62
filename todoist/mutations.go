package todoist

import (
	"net/http"

	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/tasks"
)

// The mutation methods below implement tasks.API. Each one starts the
// remote call on its own goroutine at call time and returns the handle;
// callers collect handles during the walk and join them at the end of the
// run. A post-dispatch failure is logged, never surfaced as an operation
// failure.

// SetTaskPriority updates a task's priority.
func (c *Client) SetTaskPriority(cfg *config.Config, task tasks.Task, p tasks.Priority) *tasks.Handle {
	return c.dispatch(cfg, "/api/v1/tasks/"+task.ID, map[string]any{"priority": int(p)})
}

// SetTaskDuration assigns a duration in minutes.
func (c *Client) SetTaskDuration(cfg *config.Config, task tasks.Task, minutes int) *tasks.Handle {
	return c.dispatch(cfg, "/api/v1/tasks/"+task.ID, map[string]any{
		"duration":      minutes,
		"duration_unit": "minute",
	})
}

// AddTaskLabel appends a label to the task's label set.
func (c *Client) AddTaskLabel(cfg *config.Config, task tasks.Task, label string) *tasks.Handle {
	labels := make([]string, 0, len(task.Labels)+1)
	labels = append(labels, task.Labels...)
	labels = append(labels, label)
	return c.dispatch(cfg, "/api/v1/tasks/"+task.ID, map[string]any{"labels": labels})
}

// CloseTask completes a task.
func (c *Client) CloseTask(cfg *config.Config, task tasks.Task) *tasks.Handle {
	return c.dispatch(cfg, "/api/v1/tasks/"+task.ID+"/close", struct{}{})
}

// DeleteTask permanently removes a task.
func (c *Client) DeleteTask(cfg *config.Config, task tasks.Task) *tasks.Handle {
	return tasks.Dispatch(func() error {
		_, err := c.do(cfg, http.MethodDelete, "/api/v1/tasks/"+task.ID, nil)
		if err != nil {
			log.ErrorLog.Printf("task mutation failed: %v", err)
		}
		return err
	})
}

func (c *Client) dispatch(cfg *config.Config, path string, payload any) *tasks.Handle {
	return tasks.Dispatch(func() error {
		_, err := c.do(cfg, http.MethodPost, path, payload)
		if err != nil {
			log.ErrorLog.Printf("task mutation failed: %v", err)
		}
		return err
	})
}
