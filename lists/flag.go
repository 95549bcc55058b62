package lists

import (
	"fmt"

	"github.com/kastheco/doist/projects"
)

// Flag selects which remote tasks a batch operation runs over: a project or
// a saved filter query. The two cases are dispatched exhaustively wherever
// the fetch shape or label rendering differs.
type Flag interface {
	fmt.Stringer
	isFlag()
}

// ProjectFlag selects every task in one project.
type ProjectFlag struct {
	Project projects.Project
}

func (ProjectFlag) isFlag() {}

func (f ProjectFlag) String() string {
	return f.Project.String()
}

// FilterFlag selects tasks matching a filter query string.
type FilterFlag struct {
	Query string
}

func (FilterFlag) isFlag() {}

func (f FilterFlag) String() string {
	return fmt.Sprintf("'%s'", f.Query)
}
