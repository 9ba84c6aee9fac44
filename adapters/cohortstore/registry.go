package cohortstore

import (
	"context"

	"webgwas/domain/gwas"
	"webgwas/internal/errors"
	"webgwas/ports"
)

// Registry holds every mounted cohort in memory. It is built once at
// startup by MountAll and never mutated afterwards, so the hot-path
// lookup needs no lock.
type Registry struct {
	byID    map[int]*gwas.CohortData
	cohorts []gwas.Cohort
}

// MountAll loads every cohort the underlying loader knows about and
// returns an immutable in-memory registry. Any load failure is fatal to
// the mount; callers are expected to abort process initialization.
func MountAll(ctx context.Context, loader ports.CohortLoader) (*Registry, error) {
	cohorts, err := loader.ListCohorts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing cohorts at mount")
	}

	byID := make(map[int]*gwas.CohortData, len(cohorts))
	for _, cohort := range cohorts {
		data, err := loader.Load(ctx, cohort.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "mounting cohort %d", cohort.ID)
		}
		byID[cohort.ID] = data
	}

	return &Registry{byID: byID, cohorts: cohorts}, nil
}

// Load returns the mounted cohort by id.
func (r *Registry) Load(ctx context.Context, cohortID int) (*gwas.CohortData, error) {
	data, ok := r.byID[cohortID]
	if !ok {
		return nil, errors.UnknownCohort(cohortID)
	}
	return data, nil
}

// ListCohorts returns the mounted cohort metadata in mount order.
func (r *Registry) ListCohorts(ctx context.Context) ([]gwas.Cohort, error) {
	out := make([]gwas.Cohort, len(r.cohorts))
	copy(out, r.cohorts)
	return out, nil
}
