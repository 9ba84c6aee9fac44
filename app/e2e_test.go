package app

import (
	"context"
	"testing"
	"time"

	"webgwas/adapters/objectstore"
	"webgwas/domain/gwas"
	"webgwas/internal/executor"
	"webgwas/internal/logging"
	"webgwas/internal/packager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEndToEnd_TwoEnqueuesProcessFIFOAndBothReachDone drives the full
// pipeline through the real executor: two requests enqueued back to back
// both reach Done with distinct download URLs.
func TestEndToEnd_TwoEnqueuesProcessFIFOAndBothReachDone(t *testing.T) {
	svc := newTestService(t)
	store := objectstore.NewNoopStore()
	pkg := packager.New(store, t.TempDir(), "results", false)
	svc.packager = pkg

	exec := executor.New(svc.queue, svc.results, svc, time.Millisecond, logging.New(logging.LevelError))

	validA, err := svc.Validate(context.Background(), 1, "`AGE` root")
	require.NoError(t, err)
	require.True(t, validA.IsValid, validA.Message)

	validB, err := svc.Validate(context.Background(), 1, "`AGE` `BMI` add root")
	require.NoError(t, err)
	require.True(t, validB.IsValid, validB.Message)

	idA := svc.Submit(1, validA.ValidNodes)
	idB := svc.Submit(1, validB.ValidNodes)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go exec.Run(ctx)

	done := func(id gwas.RequestID) func() bool {
		return func() bool {
			result, ok := svc.GetResult(id)
			return ok && result.Status == gwas.StatusDone
		}
	}
	require.Eventually(t, done(idA), 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, done(idB), 2*time.Second, 5*time.Millisecond)

	resultA, _ := svc.GetResult(idA)
	resultB, _ := svc.GetResult(idB)
	assert.NotEmpty(t, resultA.URL)
	assert.NotEmpty(t, resultB.URL)
	assert.NotEqual(t, resultA.URL, resultB.URL)
}
