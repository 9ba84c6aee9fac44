// Package app wires the validator, evaluator, solver, indirect-GWAS
// kernel, packager, and executor into the request-processing pipeline.
package app

import (
	"context"
	"time"

	"webgwas/domain/gwas"
	"webgwas/internal/errors"
	"webgwas/internal/executor"
	"webgwas/internal/gwaseval"
	"webgwas/internal/gwasvalidate"
	"webgwas/internal/igwas"
	"webgwas/internal/logging"
	"webgwas/internal/packager"
	"webgwas/internal/projection"
	"webgwas/ports"
)

// Service is the single front door used by both the validation path
// (synchronous) and the executor (asynchronous, one request at a time).
type Service struct {
	cohorts   ports.CohortLoader
	queue     *executor.Queue
	results   *executor.ResultStore
	packager  *packager.Packager
	tileCount int
	log       *logging.Logger
}

func NewService(cohorts ports.CohortLoader, queue *executor.Queue, results *executor.ResultStore, pkg *packager.Packager, tileCount int, log *logging.Logger) *Service {
	return &Service{cohorts: cohorts, queue: queue, results: results, packager: pkg, tileCount: tileCount, log: log}
}

// ListCohorts returns the metadata of every mounted cohort.
func (s *Service) ListCohorts(ctx context.Context) ([]gwas.Cohort, error) {
	return s.cohorts.ListCohorts(ctx)
}

// Validate resolves a cohort and type-checks expression against it,
// returning the synchronous ValidPhenotype outcome.
func (s *Service) Validate(ctx context.Context, cohortID int, expression string) (gwas.ValidPhenotype, error) {
	cohort, err := s.cohorts.Load(ctx, cohortID)
	if err != nil {
		return gwas.ValidPhenotype{}, err
	}
	return gwasvalidate.Validate(expression, cohort), nil
}

// Submit enqueues a validated node list against a cohort and returns the
// opaque request id the caller should poll on.
func (s *Service) Submit(cohortID int, nodes []gwas.Node) gwas.RequestID {
	req := gwas.Request{
		ID:          gwas.NewRequestID(),
		ArrivalTime: submittedAt(),
		Nodes:       nodes,
		CohortID:    cohortID,
	}
	s.queue.Enqueue(req, s.results)
	return req.ID
}

// submittedAt exists so a single call site can be swapped for an injected
// clock in tests; production always uses wall time.
func submittedAt() time.Time { return time.Now() }

// GetResult returns the current status/result for a request id.
func (s *Service) GetResult(id gwas.RequestID) (gwas.Result, bool) {
	return s.results.Get(id)
}

// Run implements executor.Pipeline: evaluator → solver → kernel → packager.
func (s *Service) Run(ctx context.Context, req gwas.Request) (gwas.Result, error) {
	cohort, err := s.cohorts.Load(ctx, req.CohortID)
	if err != nil {
		return errored(req.ID, err), nil
	}

	y, err := gwaseval.Evaluate(req.Nodes, cohort)
	if err != nil {
		return errored(req.ID, err), nil
	}

	proj, err := projection.Solve(req.Nodes, y, cohort)
	if err != nil {
		return errored(req.ID, err), nil
	}

	if cohort.GWAS.Empty() {
		return errored(req.ID, errors.InvalidInput("cohort has no summary statistics table")), nil
	}

	rows, err := igwas.Run(cohort.GWAS, cohort.FeatureNames, igwas.Params{
		Beta:       proj.Beta,
		Covariance: cohort.Covariance,
		VarProj:    proj.Variance,
		NumCovar:   cohort.Cohort.NumCovar,
		TileCount:  s.tileCount,
	})
	if err != nil {
		return errored(req.ID, err), nil
	}

	s.results.Put(gwas.Result{RequestID: req.ID, Status: gwas.StatusUploading})

	meta := gwas.RequestMetadata{
		RequestID:           req.ID,
		PhenotypeDefinition: gwasvalidate.Canonicalize(req.Nodes),
		CohortName:          cohort.Cohort.Name,
		FeatureSampleCount:  cohort.NumSamples(),
	}

	url, err := s.packager.Package(ctx, meta, rows)
	if err != nil {
		return errored(req.ID, err), nil
	}

	return gwas.Result{RequestID: req.ID, Status: gwas.StatusDone, URL: url}, nil
}

func errored(id gwas.RequestID, err error) gwas.Result {
	return gwas.Result{RequestID: id, Status: gwas.StatusError, ErrorMessage: err.Error()}
}
