package closer

import (
	"errors"
	"sync"
)

var (
	closers []func() error
	mu      sync.Mutex
)

func Add(closer func() error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, closer)
}

// CloseAll runs the registered closers in reverse order and forgets them.
func CloseAll() error {
	mu.Lock()
	fns := closers
	closers = nil
	mu.Unlock()

	var errs []error
	for i := len(fns) - 1; i >= 0; i-- {
		if err := fns[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
