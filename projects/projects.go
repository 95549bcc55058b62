// Package projects holds the project model shared by the gateway and the
// config-level project cache.
package projects

import "fmt"

// Project is a Todoist project as returned by the API and cached in config.
type Project struct {
	ID             string `json:"id" toml:"id"`
	Name           string `json:"name" toml:"name"`
	IsInboxProject bool   `json:"is_inbox_project,omitempty" toml:"is_inbox_project,omitempty"`
}

// URL returns the project's web app location.
func (p Project) URL() string {
	return fmt.Sprintf("https://app.todoist.com/app/project/%s", p.ID)
}

// String renders the project's user-facing display form: its name followed
// by the web URL on the next line.
func (p Project) String() string {
	return fmt.Sprintf("%s\n%s", p.Name, p.URL())
}
