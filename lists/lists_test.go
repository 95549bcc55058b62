package lists

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/log"
	"github.com/kastheco/doist/prompt"
	"github.com/kastheco/doist/tasks"
	"github.com/kastheco/doist/todoist"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	log.Initialize(false)
	code := m.Run()
	log.Close()
	os.Exit(code)
}

// apiRecorder is an httptest handler standing in for the Todoist API. It
// serves canned task/comment listings and records every mutation request.
type apiRecorder struct {
	mu sync.Mutex

	tasks    []tasks.Task
	comments []map[string]any

	listCalls    int
	commentCalls int
	mutations    []string
	quickTexts   []string
}

func (a *apiRecorder) handler(t *testing.T) http.Handler {
	writePage := func(w http.ResponseWriter, results any) {
		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode(map[string]any{
			"results":     results,
			"next_cursor": nil,
		})
		require.NoError(t, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/tasks/", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		if r.Method == http.MethodGet {
			a.listCalls++
			writePage(w, a.tasks)
			return
		}
		a.mutations = append(a.mutations, r.Method+" "+r.URL.Path)
		fmt.Fprint(w, `{}`)
	})
	mux.HandleFunc("/api/v1/tasks/filter", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.listCalls++
		writePage(w, a.tasks)
	})
	mux.HandleFunc("/api/v1/comments/", func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.commentCalls++
		writePage(w, a.comments)
	})
	mux.HandleFunc("/api/v1/tasks/quick", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		a.mu.Lock()
		defer a.mu.Unlock()
		a.quickTexts = append(a.quickTexts, payload["text"])
		fmt.Fprint(w, `{"id": "new"}`)
	})
	return mux
}

func (a *apiRecorder) mutationList() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.mutations))
	copy(out, a.mutations)
	return out
}

// testSetup stands up the fake API and a file-backed config pointing at it.
func testSetup(t *testing.T, rec *apiRecorder) (*todoist.Client, *config.Config) {
	t.Helper()
	server := httptest.NewServer(rec.handler(t))
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), config.ConfigFileName)
	content := fmt.Sprintf(`
token = "test-token"
timezone = "UTC"
base_url = %q

[[projects]]
id = "123"
name = "myproject"
`, server.URL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	return todoist.NewClient(), cfg
}

func myproject(cfg *config.Config) ProjectFlag {
	return ProjectFlag{Project: cfg.Projects[0]}
}

func todayTask() tasks.Task {
	return tasks.Task{ID: "6Xqhv4cwxgjwG9w8", Content: "TEST", Priority: tasks.PriorityNone, ProjectID: "123"}
}

func TestFlagString(t *testing.T) {
	assert.Equal(t, "'today'", FilterFlag{Query: "today"}.String())

	rec := &apiRecorder{}
	_, cfg := testSetup(t, rec)
	assert.Equal(t, "myproject\nhttps://app.todoist.com/app/project/123",
		myproject(cfg).String())
}

func TestView(t *testing.T) {
	t.Run("filter groups carry their query as title", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}}
		client, cfg := testSetup(t, rec)

		out, err := View(client, cfg, FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Contains(t, out, "Tasks for today")
		assert.Contains(t, out, "- TEST")
	})

	t.Run("project listing is titled by project name", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}}
		client, cfg := testSetup(t, rec)

		out, err := View(client, cfg, myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Contains(t, out, "Tasks for myproject")
	})

	t.Run("no tasks at all short-circuits", func(t *testing.T) {
		rec := &apiRecorder{}
		client, cfg := testSetup(t, rec)

		out, err := View(client, cfg, FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "No tasks for 'today'", out)
	})
}

func TestPrioritize(t *testing.T) {
	t.Run("walks unprioritized tasks and reports success", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}}
		client, cfg := testSetup(t, rec)

		// Options are Low, Medium, High, None.
		out, err := Prioritize(client, cfg, &prompt.Script{Selections: []int{0}},
			FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "Successfully prioritized 'today'", out)
		assert.Equal(t, []string{"POST /api/v1/tasks/6Xqhv4cwxgjwG9w8"}, rec.mutationList())
	})

	t.Run("already prioritized set is empty", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{
			{ID: "t1", Content: "TEST", Priority: tasks.PriorityHigh, ProjectID: "123"},
		}}
		client, cfg := testSetup(t, rec)

		out, err := Prioritize(client, cfg, &prompt.Script{}, myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "No tasks for myproject\nhttps://app.todoist.com/app/project/123", out)
		assert.Empty(t, rec.mutationList())
	})
}

func TestTimebox(t *testing.T) {
	t.Run("assigns durations and reports success", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}}
		client, cfg := testSetup(t, rec)

		out, err := Timebox(client, cfg,
			&prompt.Script{Selections: []int{0}, Inputs: []string{"25"}},
			myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Contains(t, out, "Successfully timeboxed")
		assert.Equal(t, []string{"POST /api/v1/tasks/6Xqhv4cwxgjwG9w8"}, rec.mutationList())
	})

	t.Run("tasks with durations are skipped entirely", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{
			{ID: "t1", Content: "TEST", ProjectID: "123",
				Duration: &tasks.Duration{Amount: 30, Unit: "minute"}},
		}}
		client, cfg := testSetup(t, rec)

		out, err := Timebox(client, cfg, &prompt.Script{}, myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "No tasks for myproject\nhttps://app.todoist.com/app/project/123", out)
	})

	t.Run("quit at the first task aborts the rest of the walk", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{
			todayTask(),
			{ID: "second", Content: "LATER", Priority: tasks.PriorityNone, ProjectID: "123"},
		}}
		client, cfg := testSetup(t, rec)

		// A single scripted answer: the prompter fails loudly if a second
		// task is ever presented.
		out, err := Timebox(client, cfg, &prompt.Script{Selections: []int{2}},
			myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "Exited", out)
		assert.Empty(t, rec.mutationList())
	})
}

func TestProcess(t *testing.T) {
	comment := map[string]any{"id": "c1", "task_id": "6Xqhv4cwxgjwG9w8", "content": "a note"}

	t.Run("filter selector completes a task", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}, comments: []map[string]any{comment}}
		client, cfg := testSetup(t, rec)

		out, err := Process(client, cfg, &prompt.Script{Selections: []int{0}},
			FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "Successfully processed 'today'", out)
		assert.Equal(t, []string{"POST /api/v1/tasks/6Xqhv4cwxgjwG9w8/close"}, rec.mutationList())
		assert.Equal(t, 1, rec.commentCalls)
	})

	t.Run("project selector renders the project display form", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}, comments: []map[string]any{comment}}
		client, cfg := testSetup(t, rec)

		out, err := Process(client, cfg, &prompt.Script{Selections: []int{0}},
			myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t,
			"Successfully processed myproject\nhttps://app.todoist.com/app/project/123", out)
	})

	t.Run("empty set issues no comment fetches", func(t *testing.T) {
		rec := &apiRecorder{}
		client, cfg := testSetup(t, rec)

		out, err := Process(client, cfg, &prompt.Script{},
			FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "No tasks for 'today'", out)
		assert.Equal(t, 0, rec.commentCalls)
		assert.Empty(t, rec.mutationList())
	})

	t.Run("parent of a selected task is never walked", func(t *testing.T) {
		parentID := "parent"
		rec := &apiRecorder{tasks: []tasks.Task{
			{ID: "parent", Content: "PARENT", ProjectID: "123"},
			{ID: "child", Content: "CHILD", ProjectID: "123", ParentID: &parentID},
		}, comments: []map[string]any{}}
		client, cfg := testSetup(t, rec)

		out, err := Process(client, cfg, &prompt.Script{Selections: []int{0}},
			myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Contains(t, out, "Successfully processed")
		assert.Equal(t, []string{"POST /api/v1/tasks/child/close"}, rec.mutationList())
		assert.Equal(t, 1, rec.commentCalls)
	})

	t.Run("future tasks are excluded", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{
			{ID: "later", Content: "LATER", ProjectID: "123",
				Due: &tasks.Due{Date: "2099-01-01"}},
		}}
		client, cfg := testSetup(t, rec)

		out, err := Process(client, cfg, &prompt.Script{}, myproject(cfg), tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t,
			"No tasks for myproject\nhttps://app.todoist.com/app/project/123", out)
	})

	t.Run("comment fetch failure does not abort the task", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{todayTask()}}
		inner := rec.handler(t)
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/v1/comments/" {
				http.Error(w, "comments unavailable", http.StatusInternalServerError)
				return
			}
			inner.ServeHTTP(w, r)
		}))
		t.Cleanup(failing.Close)

		path := filepath.Join(t.TempDir(), config.ConfigFileName)
		content := fmt.Sprintf("token = \"t\"\ntimezone = \"UTC\"\nbase_url = %q\n", failing.URL)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		cfg, err := config.Load(path)
		require.NoError(t, err)

		out, err := Process(todoist.NewClient(), cfg, &prompt.Script{Selections: []int{0}},
			FilterFlag{Query: "today"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "Successfully processed 'today'", out)
		assert.Equal(t, []string{"POST /api/v1/tasks/6Xqhv4cwxgjwG9w8/close"}, rec.mutationList())
	})
}

func TestLabel(t *testing.T) {
	t.Run("labels every task in the selection", func(t *testing.T) {
		rec := &apiRecorder{tasks: []tasks.Task{
			{ID: "t1", Content: "A", ProjectID: "123"},
			{ID: "t2", Content: "B", ProjectID: "123"},
		}}
		client, cfg := testSetup(t, rec)

		out, err := Label(client, cfg, &prompt.Script{}, FilterFlag{Query: "today"},
			[]string{"thing"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "Successfully labeled 'today'", out)
		assert.ElementsMatch(t, []string{
			"POST /api/v1/tasks/t1",
			"POST /api/v1/tasks/t2",
		}, rec.mutationList())
	})

	t.Run("empty selection short-circuits", func(t *testing.T) {
		rec := &apiRecorder{}
		client, cfg := testSetup(t, rec)

		out, err := Label(client, cfg, &prompt.Script{}, FilterFlag{Query: "today"},
			[]string{"thing"}, tasks.SortValue)
		require.NoError(t, err)
		assert.Equal(t, "No tasks for 'today'", out)
		assert.Empty(t, rec.mutationList())
	})
}

func TestImport(t *testing.T) {
	t.Run("creates one task per non-empty line in file order", func(t *testing.T) {
		rec := &apiRecorder{}
		client, cfg := testSetup(t, rec)

		var lines []string
		var expected []string
		for i := 1; i <= 14; i++ {
			line := fmt.Sprintf("task number %d", i)
			lines = append(lines, line, "")
			expected = append(expected, line)
		}
		path := filepath.Join(t.TempDir(), "import_tasks.txt")
		require.NoError(t, os.WriteFile(path,
			[]byte("\n"+strings.Join(lines, "\n")+"\n\n"), 0644))

		out, err := Import(client, cfg, path)
		require.NoError(t, err)
		assert.Equal(t, "✓", out)
		assert.Equal(t, expected, rec.quickTexts)
	})

	t.Run("missing file errors", func(t *testing.T) {
		rec := &apiRecorder{}
		client, cfg := testSetup(t, rec)

		_, err := Import(client, cfg, filepath.Join(t.TempDir(), "nope.txt"))
		assert.Error(t, err)
	})

	t.Run("gateway failure aborts the import", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusInternalServerError)
		}))
		t.Cleanup(failing.Close)

		cfg := config.DefaultConfig()
		cfg.BaseURL = failing.URL

		path := filepath.Join(t.TempDir(), "import_tasks.txt")
		require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n"), 0644))

		_, err := Import(todoist.NewClient(), cfg, path)
		assert.Error(t, err)
	})
}
