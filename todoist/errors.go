package todoist

import "fmt"

// RequestError is a failed gateway call. Source names the failing system so
// diagnostics can say where the problem came from.
type RequestError struct {
	Source  string
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func requestErrorf(format string, args ...any) *RequestError {
	return &RequestError{
		Source:  "todoist",
		Message: fmt.Sprintf(format, args...),
	}
}
