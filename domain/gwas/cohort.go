package gwas

import "gonum.org/v1/gonum/mat"

// FeatureStat is one (variant, feature) row of the long GWAS summary-statistics
// table.
type FeatureStat struct {
	Beta       float64
	StdError   float64
	SampleSize int
}

// VariantStats collects every feature's summary statistics for one variant,
// keyed by feature code. Input variant order is carried by the position in
// GWASTable.Variants, not by a field here.
type VariantStats struct {
	VariantID string
	ByFeature map[string]FeatureStat
}

// GWASTable is the per-variant, per-feature summary statistics table,
// preserving the input variant order.
type GWASTable struct {
	Variants []VariantStats
}

// Empty reports whether the table carries no variants.
func (t *GWASTable) Empty() bool { return t == nil || len(t.Variants) == 0 }

// CohortData is the in-memory, immutable-after-load representation of one
// mounted cohort.
type CohortData struct {
	Cohort Cohort

	// Features is the dense N x F feature matrix; column order matches
	// FeatureNames.
	Features *mat.Dense
	// FeatureNames is the ordered sequence of feature codes matching
	// Features' columns.
	FeatureNames []string
	// FeatureByCode indexes FeatureNames for O(1) column lookup.
	FeatureByCode map[string]int
	// FeatureMeta carries the full Feature record per code, used by the
	// validator/type-checker.
	FeatureMeta map[string]Feature

	// LeftInverse is the (F+1) x N Moore-Penrose left pseudoinverse of
	// [features | 1], held (and stored by the cohort loader) in this
	// orientation so β = LeftInverse·y is a single matrix-vector product
	// with no transpose at load or request time.
	LeftInverse *mat.Dense

	GWAS *GWASTable

	// Covariance is the F x F phenotypic covariance among features, row/col
	// order matching FeatureNames.
	Covariance *mat.Dense
}

// NumFeatures returns F, the feature count.
func (c *CohortData) NumFeatures() int {
	return len(c.FeatureNames)
}

// NumSamples returns N, the sample count.
func (c *CohortData) NumSamples() int {
	if c.Features == nil {
		return 0
	}
	n, _ := c.Features.Dims()
	return n
}

// Column returns the N-length column for a feature code.
func (c *CohortData) Column(code string) ([]float64, bool) {
	idx, ok := c.FeatureByCode[code]
	if !ok {
		return nil, false
	}
	n := c.NumSamples()
	col := make([]float64, n)
	mat.Col(col, idx, c.Features)
	return col, true
}
