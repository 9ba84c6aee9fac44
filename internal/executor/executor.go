// Package executor runs the single-consumer work queue: a mutex-guarded
// FIFO of pending requests drained by one long-lived goroutine that drives
// the full per-request pipeline.
package executor

import (
	"context"
	"sync"
	"time"

	"webgwas/domain/gwas"
	"webgwas/internal/logging"
)

// Pipeline runs the evaluator → solver → kernel → packager chain for one
// request and reports the final status. Implementations must be safe to
// call sequentially from a single goroutine; the executor never calls it
// concurrently.
type Pipeline interface {
	Run(ctx context.Context, req gwas.Request) (gwas.Result, error)
}

// defaultPollInterval is used when a caller passes a non-positive interval.
const defaultPollInterval = 10 * time.Millisecond

// ResultStore is the shared, lock-protected results map handlers poll and
// the executor writes to at each status transition.
type ResultStore struct {
	mu      sync.Mutex
	results map[gwas.RequestID]gwas.Result
}

func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[gwas.RequestID]gwas.Result)}
}

func (s *ResultStore) Put(result gwas.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.RequestID] = result
}

func (s *ResultStore) Get(id gwas.RequestID) (gwas.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[id]
	return r, ok
}

// Queue is a mutex-guarded FIFO of pending requests. Priority is not used;
// any priority-free ordering satisfies the contract.
type Queue struct {
	mu      sync.Mutex
	pending []gwas.Request
}

func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends req and immediately records a Queued result.
func (q *Queue) Enqueue(req gwas.Request, store *ResultStore) {
	q.mu.Lock()
	q.pending = append(q.pending, req)
	q.mu.Unlock()

	store.Put(gwas.Result{RequestID: req.ID, Status: gwas.StatusQueued})
}

// pop removes and returns the oldest pending request, if any.
func (q *Queue) pop() (gwas.Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return gwas.Request{}, false
	}
	req := q.pending[0]
	q.pending = q.pending[1:]
	return req, true
}

// Executor drains Queue strictly sequentially: at most one pipeline run is
// ever in flight. Parallelism inside a single pipeline (the kernel's tile
// workers) is invisible here.
type Executor struct {
	queue        *Queue
	store        *ResultStore
	pipeline     Pipeline
	pollInterval time.Duration
	log          *logging.Logger
}

func New(queue *Queue, store *ResultStore, pipeline Pipeline, pollInterval time.Duration, log *logging.Logger) *Executor {
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	return &Executor{queue: queue, store: store, pipeline: pipeline, pollInterval: pollInterval, log: log}
}

// Run blocks, processing requests one at a time until ctx is cancelled.
func (e *Executor) Run(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		req, ok := e.queue.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			continue
		}

		e.process(ctx, req)
	}
}

// process runs the pipeline for one dequeued request. The Queued→Uploading
// transition happens inside the pipeline itself, as soon as the kernel has
// returned its rows and before results.tsv is written, packaged and
// uploaded; this only records the terminal Done/Error outcome.
func (e *Executor) process(ctx context.Context, req gwas.Request) {
	result, err := e.pipeline.Run(ctx, req)
	if err != nil {
		e.log.Warn("request %s failed: %v", req.ID, err)
		e.store.Put(gwas.Result{RequestID: req.ID, Status: gwas.StatusError, ErrorMessage: err.Error()})
		return
	}

	e.store.Put(result)
}
