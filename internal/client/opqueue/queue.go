// Package opqueue serialises mutations per logical resource. While an
// operation for a key is in flight, later callers for the same key do not
// start a second execution: they wait and receive the in-flight outcome.
package opqueue

import (
	"context"
	"fmt"
	"sync"
)

// Key builds the "<verb>-<resource>-<id>" identity of an operation.
func Key(verb, resource, id string) string {
	return verb + "-" + resource + "-" + id
}

// PanicError is delivered to waiters when the leading execution panicked.
type PanicError struct {
	Key   string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("operation %s panicked: %v", e.Key, e.Value)
}

type outcome struct {
	val any
	err error
}

type call struct {
	waiters []chan outcome
}

// Queue holds the pending set and the FIFO waiter lists. The zero value is
// ready to use.
type Queue struct {
	mu      sync.Mutex
	pending map[string]*call

	// OnJoin, if set, is invoked whenever a caller joins an in-flight key.
	OnJoin func(key string)
}

// New returns an empty Queue.
func New() *Queue {
	return &Queue{pending: make(map[string]*call)}
}

// Run executes fn for key unless an execution for key is already in flight,
// in which case it waits for that execution and returns its error.
func (q *Queue) Run(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	_, err := q.do(ctx, key, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	return err
}

// Do is Run for operations with a result; every caller for the key gets the
// same value.
func Do[T any](ctx context.Context, q *Queue, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, err := q.do(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	out, _ := v.(T)
	return out, err
}

func (q *Queue) do(ctx context.Context, key string, fn func(ctx context.Context) (any, error)) (any, error) {
	q.mu.Lock()
	if q.pending == nil {
		q.pending = make(map[string]*call)
	}
	if c, ok := q.pending[key]; ok {
		ch := make(chan outcome, 1)
		c.waiters = append(c.waiters, ch)
		q.mu.Unlock()

		if q.OnJoin != nil {
			q.OnJoin(key)
		}

		select {
		case o := <-ch:
			return o.val, o.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c := &call{}
	q.pending[key] = c
	q.mu.Unlock()

	var o outcome
	settled := false
	defer func() {
		if settled {
			q.settle(key, c, o)
			return
		}
		r := recover()
		q.settle(key, c, outcome{err: &PanicError{Key: key, Value: r}})
		if r != nil {
			panic(r)
		}
	}()

	// The shared execution belongs to every waiter, not just the caller that
	// started it.
	o.val, o.err = fn(context.WithoutCancel(ctx))
	settled = true
	return o.val, o.err
}

// settle removes key from the pending set and resolves its waiters in
// arrival order with the same outcome.
func (q *Queue) settle(key string, c *call, o outcome) {
	q.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	delete(q.pending, key)
	q.mu.Unlock()

	for _, ch := range waiters {
		ch <- o
	}
}

// Pending reports whether an execution for key is in flight.
func (q *Queue) Pending(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	_, ok := q.pending[key]
	return ok
}

// Waiters returns how many callers are waiting on key.
func (q *Queue) Waiters(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if c, ok := q.pending[key]; ok {
		return len(c.waiters)
	}
	return 0
}

// Len returns the number of keys in flight.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
