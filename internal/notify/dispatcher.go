// Package notify runs fire-and-forget follow-ups (milestone checks, direct
// messages, backend sync) on a bounded worker pool.
//
// Delivery is at-most-once: a task is dropped when the queue is full or the
// dispatcher is stopped, and a failing task is logged and never retried.
package notify

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultTaskTimeout bounds a single task so a hung remote call cannot pin a worker.
const DefaultTaskTimeout = 30 * time.Second

type task struct {
	name string
	fn   func(ctx context.Context) error
}

// Dispatcher is a fixed-size pool of workers fed by a bounded queue.
type Dispatcher struct {
	queue       chan task
	workers     int
	taskTimeout time.Duration

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a dispatcher. Workers are not running until Start is called;
// tasks submitted before that wait in the queue.
func New(workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		queue:       make(chan task, queueSize),
		workers:     workers,
		taskTimeout: DefaultTaskTimeout,
		stopCh:      make(chan struct{}),
	}
}

// Start launches the workers. They stop when ctx is cancelled or Stop is called.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	log.WithFields(log.Fields{
		"workers": d.workers,
		"queue":   cap(d.queue),
	}).Info("Dispatcher started")
}

// Stop signals the workers and waits for in-flight tasks to finish.
// Queued tasks that have not started are dropped.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
}

// Go enqueues fn without blocking. It reports false when the task was dropped.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) bool {
	select {
	case <-d.stopCh:
		log.WithField("task", name).Debug("dispatcher stopped, task dropped")
		return false
	default:
	}

	select {
	case d.queue <- task{name: name, fn: fn}:
		return true
	default:
		log.WithFields(log.Fields{
			"task":  name,
			"queue": cap(d.queue),
		}).Warn("dispatch queue full, task dropped")
		return false
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case t := <-d.queue:
			d.run(ctx, id, t)
		}
	}
}

func (d *Dispatcher) run(ctx context.Context, worker int, t task) {
	logger := log.WithFields(log.Fields{
		"component": "dispatcher",
		"task":      t.name,
		"worker":    worker,
	})
	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(log.Fields{
				"panic": fmt.Sprintf("%v", r),
				"stack": string(debug.Stack()),
			}).Error("task panicked, recovered")
		}
	}()

	taskCtx, cancel := context.WithTimeout(ctx, d.taskTimeout)
	defer cancel()

	if err := t.fn(taskCtx); err != nil {
		logger.WithError(err).Warn("task failed")
		return
	}
	logger.Debug("task done")
}
