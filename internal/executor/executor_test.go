package executor

import (
	"context"
	"testing"
	"time"

	"webgwas/domain/gwas"
	"webgwas/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePipeline struct {
	runs chan gwas.Request
	fail bool
}

func (f *fakePipeline) Run(ctx context.Context, req gwas.Request) (gwas.Result, error) {
	f.runs <- req
	if f.fail {
		return gwas.Result{}, assertionError{}
	}
	return gwas.Result{RequestID: req.ID, Status: gwas.StatusDone, URL: "file://done"}, nil
}

type assertionError struct{}

func (assertionError) Error() string { return "pipeline failed" }

func TestExecutor_ProcessesOneRequestAtATimeInFIFOOrder(t *testing.T) {
	queue := NewQueue()
	results := NewResultStore()
	pipeline := &fakePipeline{runs: make(chan gwas.Request, 4)}
	exec := New(queue, results, pipeline, time.Millisecond, logging.New(logging.LevelError))

	first := gwas.Request{ID: gwas.NewRequestID()}
	second := gwas.Request{ID: gwas.NewRequestID()}
	queue.Enqueue(first, results)
	queue.Enqueue(second, results)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go exec.Run(ctx)

	gotFirst := <-pipeline.runs
	gotSecond := <-pipeline.runs
	assert.Equal(t, first.ID, gotFirst.ID)
	assert.Equal(t, second.ID, gotSecond.ID)

	time.Sleep(20 * time.Millisecond)
	result, ok := results.Get(second.ID)
	require.True(t, ok)
	assert.Equal(t, gwas.StatusDone, result.Status)
}

func TestExecutor_PipelineErrorSetsErrorStatus(t *testing.T) {
	queue := NewQueue()
	results := NewResultStore()
	pipeline := &fakePipeline{runs: make(chan gwas.Request, 1), fail: true}
	exec := New(queue, results, pipeline, time.Millisecond, logging.New(logging.LevelError))

	req := gwas.Request{ID: gwas.NewRequestID()}
	queue.Enqueue(req, results)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	go exec.Run(ctx)

	<-pipeline.runs
	time.Sleep(20 * time.Millisecond)

	result, ok := results.Get(req.ID)
	require.True(t, ok)
	assert.Equal(t, gwas.StatusError, result.Status)
}

func TestQueue_EnqueueRecordsQueuedStatus(t *testing.T) {
	queue := NewQueue()
	results := NewResultStore()
	req := gwas.Request{ID: gwas.NewRequestID()}

	queue.Enqueue(req, results)

	result, ok := results.Get(req.ID)
	require.True(t, ok)
	assert.Equal(t, gwas.StatusQueued, result.Status)
}
