package queue

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/todo-notify/todo-api/internal/core/ports"
	"github.com/todo-notify/todo-api/internal/metrics"
)

const (
	defaultWorkers     = 4
	defaultQueueSize   = 256
	defaultTaskTimeout = 30 * time.Second
)

// Config sizes the pool.
type Config struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

type job struct {
	name string
	task ports.Task
}

// Pool runs detached tasks on a fixed set of workers. Tasks are routed by
// consistent hashing on their key, so tasks sharing a key run in order.
// Task errors and panics are logged; nothing is reported back to the
// submitter.
type Pool struct {
	workers     []chan job
	taskTimeout time.Duration
	log         zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	base   context.Context
	cancel context.CancelFunc
}

// NewPool creates a Pool; zero config values fall back to defaults.
func NewPool(cfg Config, log zerolog.Logger) *Pool {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = defaultTaskTimeout
	}

	p := &Pool{
		workers:     make([]chan job, cfg.Workers),
		taskTimeout: cfg.TaskTimeout,
		log:         log,
	}
	perWorker := cfg.QueueSize / cfg.Workers
	if perWorker < 1 {
		perWorker = 1
	}
	for i := range p.workers {
		p.workers[i] = make(chan job, perWorker)
	}
	return p
}

// Start launches the workers. Tasks run under ctx, which should outlive
// individual requests; cancelling it aborts in-flight tasks.
func (p *Pool) Start(ctx context.Context) {
	p.base, p.cancel = context.WithCancel(ctx)
	for i, ch := range p.workers {
		p.wg.Add(1)
		go p.runWorker(i, ch)
	}
}

// Submit enqueues a task without blocking. It returns false when the worker
// responsible for key is full or the pool is shutting down.
func (p *Pool) Submit(key, name string, task ports.Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		metrics.TasksTotal.WithLabelValues(name, "dropped").Inc()
		return false
	}

	select {
	case p.workers[p.shardIndex(key)] <- job{name: name, task: task}:
		metrics.TaskQueueDepth.Inc()
		return true
	default:
		metrics.TasksTotal.WithLabelValues(name, "dropped").Inc()
		return false
	}
}

// Shutdown stops intake and waits for queued tasks to finish. If ctx expires
// first, in-flight tasks are cancelled and ctx's error is returned.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		for _, ch := range p.workers {
			close(ch)
		}
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		if p.cancel != nil {
			p.cancel()
		}
		return nil
	case <-ctx.Done():
		if p.cancel != nil {
			p.cancel()
		}
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (p *Pool) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(p.workers)))
}

func (p *Pool) runWorker(id int, ch <-chan job) {
	defer p.wg.Done()
	for j := range ch {
		metrics.TaskQueueDepth.Dec()
		p.execute(id, j)
	}
}

func (p *Pool) execute(id int, j job) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.TasksTotal.WithLabelValues(j.name, "panic").Inc()
			p.log.Error().
				Str("task", j.name).
				Int("worker_id", id).
				Str("panic", fmt.Sprint(r)).
				Msg("background task panicked")
		}
	}()

	ctx, cancel := context.WithTimeout(p.base, p.taskTimeout)
	defer cancel()

	if err := j.task(ctx); err != nil {
		metrics.TasksTotal.WithLabelValues(j.name, "error").Inc()
		p.log.Warn().Err(err).
			Str("task", j.name).
			Int("worker_id", id).
			Dur("elapsed", time.Since(start)).
			Msg("background task failed")
		return
	}
	metrics.TasksTotal.WithLabelValues(j.name, "ok").Inc()
}
