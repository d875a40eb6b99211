// Package parallel provides the worker pool used to fan per-bus fault
// evaluations out across CPUs. Tasks are independent; the pool imposes no
// ordering.
package parallel

import (
	"fmt"
	"math"
	"sync"

	"github.com/pwrsyspro/gridcalc/pkg/logging"
)

// MaxWorkers bounds the pool size so the queue buffer cannot overflow.
const MaxWorkers = math.MaxInt / 2

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// WorkerPool runs submitted tasks on a fixed set of goroutines. A panicking
// task is recovered and logged; it never takes a worker down with it.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // guards taskQueue against close during Submit
	closed    bool
}

// NewWorkerPool starts a pool with the given number of workers. Counts
// below one are raised to one.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}
	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logging.ErrorLog("worker recovered from task panic",
						logging.Any("panic", r))
				}
			}()
			task()
		}()
	}
}

// Submit queues a task. It returns false if the pool is already closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and blocks until queued work drains.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait is an alias for Close for call sites that read better as a barrier.
func (wp *WorkerPool) Wait() {
	wp.Close()
}

// Workers returns the configured worker count.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}
