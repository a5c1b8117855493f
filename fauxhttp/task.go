package fauxhttp

import (
	"context"
	"fmt"
	"sync"
)

// Task is the completion handle of an async call without a value
type Task struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func (t *Task) complete(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Done is closed when the task completes
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err returns the task's error. It is nil until the task completes.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx is done
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Future is the completion handle of an async call producing a T
type Future[T any] struct {
	*Task
	value T

	// release frees a value nobody will receive
	release func(T)
}

// Await blocks until the value is available or ctx is done. When ctx ends
// first, a value that arrives later is passed to the future's release
// func, so a future with one must be awaited by a single caller.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	var zero T

	select {
	case <-f.done:
		if f.err != nil {
			return zero, f.err
		}
		return f.value, nil
	case <-ctx.Done():
		if f.release != nil {
			go func() {
				<-f.done
				if f.err == nil {
					f.release(f.value)
				}
			}()
		}
		return zero, ctx.Err()
	}
}

// Run executes fn on its own goroutine
func Run(fn func() error) *Task {
	t := newTask()
	go func() {
		defer recoverInto(t)
		t.complete(fn())
	}()
	return t
}

// Go executes fn on its own goroutine and captures its value
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{Task: newTask()}
	go func() {
		defer recoverInto(f.Task)
		v, err := fn()
		if err == nil {
			f.value = v
		}
		f.complete(err)
	}()
	return f
}

// Completed returns a future that already holds v
func Completed[T any](v T) *Future[T] {
	f := &Future[T]{Task: newTask(), value: v}
	f.complete(nil)
	return f
}

// Failed returns a future that already failed with err
func Failed[T any](err error) *Future[T] {
	f := &Future[T]{Task: newTask()}
	f.complete(err)
	return f
}

func recoverInto(t *Task) {
	if r := recover(); r != nil {
		t.complete(fmt.Errorf("async call panicked: %v", r))
	}
}
