package tasks

// Handle is a remote mutation already in flight. The goroutine behind it is
// started at dispatch time; Wait blocks until it finishes and reports its
// error, at most once per handle.
type Handle struct {
	done chan error
}

// Dispatch runs fn on its own goroutine and returns a handle to it.
func Dispatch(fn func() error) *Handle {
	h := &Handle{done: make(chan error, 1)}
	go func() {
		h.done <- fn()
	}()
	return h
}

// Completed returns an already-finished handle carrying err. Used for
// walker actions that need no remote call, and by tests.
func Completed(err error) *Handle {
	h := &Handle{done: make(chan error, 1)}
	h.done <- err
	return h
}

// Wait blocks until the mutation has finished. Calling Wait a second time
// returns nil.
func (h *Handle) Wait() error {
	err, ok := <-h.done
	if ok {
		close(h.done)
	}
	return err
}
