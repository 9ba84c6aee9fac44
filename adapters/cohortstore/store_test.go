package cohortstore

import (
	"context"
	"testing"

	"webgwas/domain/gwas"
	"webgwas/domain/gwas/testfixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	original := testfixture.SimpleCohort()

	require.NoError(t, Save(dir, original))

	store := New(dir)
	loaded, err := store.Load(context.Background(), original.Cohort.ID)
	require.NoError(t, err)

	assert.Equal(t, original.Cohort, loaded.Cohort)
	assert.Equal(t, original.FeatureNames, loaded.FeatureNames)
	assert.Equal(t, original.NumSamples(), loaded.NumSamples())

	col, ok := loaded.Column("AGE")
	require.True(t, ok)
	assert.Equal(t, []float64{20, 30, 40, 50}, col)
}

func TestLoad_UnknownCohortErrors(t *testing.T) {
	store := New(t.TempDir())
	_, err := store.Load(context.Background(), 999)
	require.Error(t, err)
}

func TestLoad_EmptyFeatureSetErrors(t *testing.T) {
	dir := t.TempDir()
	cohort := testfixture.SimpleCohort()
	cohort.Cohort.ID = 2
	cohort.FeatureNames = nil
	cohort.FeatureMeta = map[string]gwas.Feature{}

	require.NoError(t, Save(dir, cohort))

	store := New(dir)
	_, err := store.Load(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty feature set")
}

func TestListCohorts_ReturnsAllSaved(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, testfixture.SimpleCohort()))

	store := New(dir)
	cohorts, err := store.ListCohorts(context.Background())
	require.NoError(t, err)
	require.Len(t, cohorts, 1)
	assert.Equal(t, "Demo Cohort", cohorts[0].Name)
}
