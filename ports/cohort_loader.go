package ports

import (
	"context"

	"webgwas/domain/gwas"
)

// CohortLoader mounts a cohort's feature matrix, pseudoinverse, summary
// statistics, and covariance matrix into memory. Implementations own the
// on-disk or remote representation; callers never see it.
type CohortLoader interface {
	Load(ctx context.Context, cohortID int) (*gwas.CohortData, error)
	ListCohorts(ctx context.Context) ([]gwas.Cohort, error)
}
