package lists

import (
	"fmt"
	"sync"

	"github.com/kastheco/doist/comments"
	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/tasks"
	"github.com/kastheco/doist/todoist"
)

// commentResult is one task's comment fetch outcome. Exactly one of the
// three shapes holds: comments on success, err when the gateway call
// failed, panicked when the fetch goroutine itself died.
type commentResult struct {
	task     tasks.Task
	comments []comments.Comment
	err      error
	panicked error
}

// fetchCommentsForTasks issues one comment fetch per task, all concurrently,
// and waits for every one to settle. The result slice preserves input order
// no matter how the fetches complete, and one task's failure never cancels
// its siblings.
func fetchCommentsForTasks(client *todoist.Client, cfg *config.Config, ts []tasks.Task) []commentResult {
	results := make([]commentResult, len(ts))

	var wg sync.WaitGroup
	for i, task := range ts {
		wg.Add(1)
		go func(i int, task tasks.Task) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i] = commentResult{task: task, panicked: fmt.Errorf("panic: %v", r)}
				}
			}()
			cmts, err := client.AllComments(cfg, task)
			results[i] = commentResult{task: task, comments: cmts, err: err}
		}(i, task)
	}
	wg.Wait()

	return results
}
