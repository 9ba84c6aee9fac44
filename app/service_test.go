package app

import (
	"context"
	"testing"

	"webgwas/adapters/objectstore"
	"webgwas/domain/gwas"
	"webgwas/domain/gwas/testfixture"
	"webgwas/internal/executor"
	"webgwas/internal/gwasvalidate"
	"webgwas/internal/logging"
	"webgwas/internal/packager"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedLoader struct {
	cohort *gwas.CohortData
}

func (f *fixedLoader) Load(ctx context.Context, cohortID int) (*gwas.CohortData, error) {
	return f.cohort, nil
}

func (f *fixedLoader) ListCohorts(ctx context.Context) ([]gwas.Cohort, error) {
	return []gwas.Cohort{f.cohort.Cohort}, nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	cohort := testfixture.SimpleCohort()
	loader := &fixedLoader{cohort: cohort}
	queue := executor.NewQueue()
	results := executor.NewResultStore()
	pkg := packager.New(objectstore.NewNoopStore(), t.TempDir(), "results", true)
	return NewService(loader, queue, results, pkg, 4, logging.New(logging.LevelError))
}

func TestService_ValidateAndSubmitThenRunProducesDoneResult(t *testing.T) {
	svc := newTestService(t)

	valid, err := svc.Validate(context.Background(), 1, "`AGE` `BMI` add root")
	require.NoError(t, err)
	require.True(t, valid.IsValid, valid.Message)

	req := gwas.Request{ID: gwas.NewRequestID(), CohortID: 1, Nodes: valid.ValidNodes}
	result, err := svc.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, gwas.StatusDone, result.Status)
}

func TestService_RunSurfacesEvaluatorErrorsAsErrorStatus(t *testing.T) {
	svc := newTestService(t)

	req := gwas.Request{
		ID:       gwas.NewRequestID(),
		CohortID: 1,
		Nodes: []gwas.Node{
			gwas.FeatureNode(gwas.Feature{Code: "NOPE"}),
			gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
		},
	}

	result, err := svc.Run(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, gwas.StatusError, result.Status)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestService_SubmitEnqueuesAndGetResultReportsQueued(t *testing.T) {
	svc := newTestService(t)

	valid := gwasvalidate.Validate("`AGE` root", testfixture.SimpleCohort())
	require.True(t, valid.IsValid)

	id := svc.Submit(1, valid.ValidNodes)

	result, ok := svc.GetResult(id)
	require.True(t, ok)
	assert.Equal(t, gwas.StatusQueued, result.Status)
}
