// Package todoist is the remote gateway: an HTTP client for the Todoist v1
// REST API. List operations assemble paginated results internally;
// mutations are dispatched asynchronously and hand back a tasks.Handle.
package todoist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kastheco/doist/comments"
	"github.com/kastheco/doist/config"
	"github.com/kastheco/doist/projects"
	"github.com/kastheco/doist/tasks"
)

const pageLimit = 200

// Client talks to the Todoist API. Methods take the config per call so a
// mid-run config reload (fresh token or base URL) takes effect immediately.
type Client struct {
	http *http.Client
}

// NewClient returns a gateway client with a request timeout. The rest of
// the program models no deadlines; they all live here.
func NewClient() *Client {
	return &Client{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

// TaskGroup is one named partition of a filter's results.
type TaskGroup struct {
	Query string
	Tasks []tasks.Task
}

type pagedResponse struct {
	Results    json.RawMessage `json:"results"`
	NextCursor *string         `json:"next_cursor"`
}

// decodeResults unmarshals a page's results into out, tolerating a missing
// or null results field.
func decodeResults(page pagedResponse, out any) error {
	if len(page.Results) == 0 {
		return nil
	}
	return json.Unmarshal(page.Results, out)
}

// AllTasksByProject fetches every task in a project, following pagination
// cursors until the listing is complete.
func (c *Client) AllTasksByProject(cfg *config.Config, project projects.Project) ([]tasks.Task, error) {
	query := url.Values{}
	query.Set("project_id", project.ID)
	return c.allTasks(cfg, "/api/v1/tasks/", query)
}

// AllTasksByFilter fetches tasks matching a filter query. A comma in the
// filter splits it into separate subqueries, each fetched on its own and
// returned as a named group.
func (c *Client) AllTasksByFilter(cfg *config.Config, filter string) ([]TaskGroup, error) {
	var groups []TaskGroup
	for _, sub := range strings.Split(filter, ",") {
		sub = strings.TrimSpace(sub)
		if sub == "" {
			continue
		}
		query := url.Values{}
		query.Set("query", sub)
		ts, err := c.allTasks(cfg, "/api/v1/tasks/filter", query)
		if err != nil {
			return nil, err
		}
		groups = append(groups, TaskGroup{Query: sub, Tasks: ts})
	}
	return groups, nil
}

func (c *Client) allTasks(cfg *config.Config, path string, query url.Values) ([]tasks.Task, error) {
	var all []tasks.Task
	cursor := ""
	for {
		q := url.Values{}
		for k, vs := range query {
			q[k] = vs
		}
		q.Set("limit", fmt.Sprint(pageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}
		body, err := c.get(cfg, path+"?"+q.Encode())
		if err != nil {
			return nil, err
		}
		var page pagedResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, requestErrorf("failed to decode task listing: %v", err)
		}
		var ts []tasks.Task
		if err := decodeResults(page, &ts); err != nil {
			return nil, requestErrorf("failed to decode tasks: %v", err)
		}
		all = append(all, ts...)
		if page.NextCursor == nil || *page.NextCursor == "" {
			return all, nil
		}
		cursor = *page.NextCursor
	}
}

// AllComments fetches every comment on a task.
func (c *Client) AllComments(cfg *config.Config, task tasks.Task) ([]comments.Comment, error) {
	query := url.Values{}
	query.Set("task_id", task.ID)
	query.Set("limit", fmt.Sprint(pageLimit))
	body, err := c.get(cfg, "/api/v1/comments/?"+query.Encode())
	if err != nil {
		return nil, err
	}
	var page pagedResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, requestErrorf("failed to decode comment listing: %v", err)
	}
	var cmts []comments.Comment
	if err := decodeResults(page, &cmts); err != nil {
		return nil, requestErrorf("failed to decode comments: %v", err)
	}
	return cmts, nil
}

// Projects fetches the full project list, for `doist sync`.
func (c *Client) Projects(cfg *config.Config) ([]projects.Project, error) {
	body, err := c.get(cfg, fmt.Sprintf("/api/v1/projects?limit=%d", pageLimit))
	if err != nil {
		return nil, err
	}
	var page pagedResponse
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, requestErrorf("failed to decode project listing: %v", err)
	}
	var ps []projects.Project
	if err := decodeResults(page, &ps); err != nil {
		return nil, requestErrorf("failed to decode projects: %v", err)
	}
	return ps, nil
}

// QuickCreate creates a task from a free-text line using the quick-add
// endpoint, which parses dates and projects out of the text remotely.
func (c *Client) QuickCreate(cfg *config.Config, text string) error {
	_, err := c.do(cfg, http.MethodPost, "/api/v1/tasks/quick", map[string]any{"text": text})
	return err
}

func (c *Client) get(cfg *config.Config, path string) ([]byte, error) {
	return c.do(cfg, http.MethodGet, path, nil)
}

func (c *Client) do(cfg *config.Config, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, requestErrorf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, cfg.APIBase()+path, reqBody)
	if err != nil {
		return nil, requestErrorf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.Token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, requestErrorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestErrorf("failed to read response: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestErrorf("%s %s returned %d: %s", method, path, resp.StatusCode,
			strings.TrimSpace(string(body)))
	}
	return body, nil
}
