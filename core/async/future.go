// Package async models platform calls that are issued from the dispatch path but never awaited by it.
package async

import "sync"

// Future is the eventual result of one platform call.
type Future struct {
	done chan struct{}
	err  error

	mu       sync.Mutex
	handlers []func(error)
}

// Go runs fn on its own goroutine and returns its Future.
func Go(fn func() error) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		f.complete(fn())
	}()
	return f
}

// Completed returns a Future that has already finished with err.
func Completed(err error) *Future {
	f := &Future{done: make(chan struct{})}
	f.complete(err)
	return f
}

func (f *Future) complete(err error) {
	f.mu.Lock()
	f.err = err
	close(f.done)
	handlers := f.handlers
	f.handlers = nil
	f.mu.Unlock()

	if err == nil {
		return
	}
	for _, h := range handlers {
		h(err)
	}
}

// Done is closed once the call has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call finishes and returns its error.
func (f *Future) Wait() error {
	<-f.done
	return f.err
}

// OnFailure registers fn to run with the call's error if it fails. If the call already failed fn runs
// immediately on the calling goroutine.
func (f *Future) OnFailure(fn func(error)) *Future {
	f.mu.Lock()
	select {
	case <-f.done:
		err := f.err
		f.mu.Unlock()
		if err != nil {
			fn(err)
		}
		return f
	default:
	}
	f.handlers = append(f.handlers, fn)
	f.mu.Unlock()
	return f
}

// Discard marks the result as deliberately ignored. It never blocks.
func (f *Future) Discard() {}
