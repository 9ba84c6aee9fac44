// Package cohortstore loads mounted cohorts from the local filesystem.
//
// Cohorts are persisted as a single gob-encoded file per cohort under
// RootDirectory/cohorts/<id>.gob. gonum's mat.Dense already implements
// GobEncode/GobDecode, so the feature matrix, pseudoinverse, and
// covariance matrix round-trip without a bespoke codec.
package cohortstore

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"webgwas/domain/gwas"
	"webgwas/internal/errors"

	"gonum.org/v1/gonum/mat"
)

// record is the on-disk representation of one cohort. Field names are
// exported so gob can see them; it otherwise mirrors gwas.CohortData.
type record struct {
	Cohort       gwas.Cohort
	FeatureNames []string
	FeatureMeta  map[string]gwas.Feature
	Features     *mat.Dense
	LeftInverse  *mat.Dense
	Covariance   *mat.Dense
	GWASVariants []gwas.VariantStats
}

// Store implements ports.CohortLoader by reading gob files from a root
// directory laid out as:
//
//	<root>/cohorts/<id>.gob
type Store struct {
	rootDirectory string
}

// New returns a Store rooted at rootDirectory. It does not validate the
// directory exists; Load and ListCohorts surface that failure lazily.
func New(rootDirectory string) *Store {
	return &Store{rootDirectory: rootDirectory}
}

func (s *Store) cohortPath(id int) string {
	return filepath.Join(s.rootDirectory, "cohorts", fmt.Sprintf("%d.gob", id))
}

// Load reads and decodes one cohort's record, then reassembles it into the
// shape the rest of the pipeline operates on (domain gwas.CohortData),
// rebuilding the FeatureByCode index and the GWAS lookup table.
func (s *Store) Load(ctx context.Context, cohortID int) (*gwas.CohortData, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	f, err := os.Open(s.cohortPath(cohortID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.UnknownCohort(cohortID)
		}
		return nil, errors.Wrapf(err, "opening cohort %d", cohortID)
	}
	defer f.Close()

	var rec record
	if err := gob.NewDecoder(f).Decode(&rec); err != nil {
		return nil, errors.Wrapf(err, "decoding cohort %d", cohortID)
	}

	if len(rec.FeatureNames) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("cohort %d has an empty feature set", cohortID))
	}

	byCode := make(map[string]int, len(rec.FeatureNames))
	for i, code := range rec.FeatureNames {
		byCode[code] = i
	}

	return &gwas.CohortData{
		Cohort:        rec.Cohort,
		Features:      rec.Features,
		FeatureNames:  rec.FeatureNames,
		FeatureByCode: byCode,
		FeatureMeta:   rec.FeatureMeta,
		LeftInverse:   rec.LeftInverse,
		Covariance:    rec.Covariance,
		GWAS:          &gwas.GWASTable{Variants: rec.GWASVariants},
	}, nil
}

// ListCohorts scans the cohorts directory and decodes each record's
// metadata header. This re-reads full files; fine for the small, rarely
// changing cohort counts this service targets.
func (s *Store) ListCohorts(ctx context.Context) ([]gwas.Cohort, error) {
	dir := filepath.Join(s.rootDirectory, "cohorts")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing cohorts directory")
	}

	cohorts := make([]gwas.Cohort, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".gob" {
			continue
		}
		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "opening %s", entry.Name())
		}
		var rec record
		decodeErr := gob.NewDecoder(f).Decode(&rec)
		f.Close()
		if decodeErr != nil {
			return nil, errors.Wrapf(decodeErr, "decoding %s", entry.Name())
		}
		cohorts = append(cohorts, rec.Cohort)
	}
	return cohorts, nil
}

// Save writes a cohort record, used by fixtures and tests to populate a
// scratch RootDirectory without a full offline-preprocessing pipeline.
func Save(rootDirectory string, data *gwas.CohortData) error {
	dir := filepath.Join(rootDirectory, "cohorts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating cohorts directory")
	}

	rec := record{
		Cohort:       data.Cohort,
		FeatureNames: data.FeatureNames,
		FeatureMeta:  data.FeatureMeta,
		Features:     data.Features,
		LeftInverse:  data.LeftInverse,
		Covariance:   data.Covariance,
	}
	if data.GWAS != nil {
		rec.GWASVariants = data.GWAS.Variants
	}

	path := filepath.Join(dir, fmt.Sprintf("%d.gob", data.Cohort.ID))
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	defer f.Close()

	if err := gob.NewEncoder(f).Encode(rec); err != nil {
		return errors.Wrapf(err, "encoding cohort %d", data.Cohort.ID)
	}
	return nil
}
