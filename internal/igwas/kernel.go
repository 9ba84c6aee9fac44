// Package igwas implements the indirect-GWAS kernel: deriving per-variant
// association statistics for a synthesized phenotype from per-feature
// summary statistics, without ever touching genotype dosages.
package igwas

import (
	"fmt"
	"math"

	"webgwas/domain/gwas"
	"webgwas/internal/errors"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// varianceFloor keeps residual variance away from zero when floating-point
// loss would otherwise drive it slightly negative.
const varianceFloor = 1e-12

// largeDoFNormalApprox is the degrees-of-freedom threshold above which the
// normal distribution is used in place of Student's t.
const largeDoFNormalApprox = 300

// DefaultTileCount is the worker-pool size used when a caller does not
// override it.
const DefaultTileCount = 16

// Row is one line of kernel output for a single variant.
type Row struct {
	VariantID  string
	Beta       float64
	StdError   float64
	TStat      float64
	PValue     float64
	SampleSize int
}

// Params bundles the scalar inputs the kernel needs beyond the per-variant
// summary statistics table.
type Params struct {
	Beta       []float64 // aligned to cohort.FeatureNames
	Covariance *mat.Dense
	VarProj    float64
	NumCovar   int
	TileCount  int
}

// Run transforms table into per-variant Rows for the projection described
// by params, using tileCount (or DefaultTileCount) goroutines, and returns
// rows in the table's original variant order.
func Run(table *gwas.GWASTable, featureNames []string, params Params) ([]Row, error) {
	if table.Empty() {
		return nil, errors.InvalidInput("indirect gwas: empty summary statistics table")
	}
	if len(params.Beta) != len(featureNames) {
		return nil, errors.InvalidInput(fmt.Sprintf(
			"indirect gwas: beta has %d entries, expected %d features", len(params.Beta), len(featureNames)))
	}

	if isAllZero(params.Beta) {
		return allZeroBetaRows(table, featureNames), nil
	}

	if params.VarProj <= 0 {
		return nil, errors.NumericalDegeneracy("indirect gwas: projection variance must be positive")
	}

	tileCount := params.TileCount
	if tileCount <= 0 {
		tileCount = DefaultTileCount
	}
	if tileCount > len(table.Variants) {
		tileCount = len(table.Variants)
	}
	if tileCount < 1 {
		tileCount = 1
	}

	featureVariance := diagonal(params.Covariance)

	tiles := splitTiles(len(table.Variants), tileCount)
	type tileResult struct {
		index int
		rows  []Row
		err   error
	}

	results := make(chan tileResult, len(tiles))
	for i, tile := range tiles {
		go func(index int, lo, hi int) {
			rows := make([]Row, 0, hi-lo)
			for _, variant := range table.Variants[lo:hi] {
				row, err := computeVariant(variant, featureNames, params, featureVariance)
				if err != nil {
					results <- tileResult{index: index, err: err}
					return
				}
				rows = append(rows, row)
			}
			results <- tileResult{index: index, rows: rows}
		}(i, tile.lo, tile.hi)
	}

	ordered := make([][]Row, len(tiles))
	for range tiles {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		ordered[res.index] = res.rows
	}

	out := make([]Row, 0, len(table.Variants))
	for _, rows := range ordered {
		out = append(out, rows...)
	}
	return out, nil
}

func isAllZero(beta []float64) bool {
	for _, b := range beta {
		if b != 0 {
			return false
		}
	}
	return true
}

// allZeroBetaRows handles the documented all-zero β edge case directly:
// the projected effect is trivially zero for every variant and the
// remaining statistics are undefined rather than fatal.
func allZeroBetaRows(table *gwas.GWASTable, featureNames []string) []Row {
	rows := make([]Row, len(table.Variants))
	for i, variant := range table.Variants {
		sampleSize := -1
		for _, name := range featureNames {
			if stat, ok := variant.ByFeature[name]; ok {
				if sampleSize == -1 || stat.SampleSize < sampleSize {
					sampleSize = stat.SampleSize
				}
			}
		}
		rows[i] = Row{
			VariantID:  variant.VariantID,
			Beta:       0,
			StdError:   math.NaN(),
			TStat:      math.NaN(),
			PValue:     math.NaN(),
			SampleSize: sampleSize,
		}
	}
	return rows
}

type tileBounds struct{ lo, hi int }

func splitTiles(n, tileCount int) []tileBounds {
	tiles := make([]tileBounds, 0, tileCount)
	base := n / tileCount
	rem := n % tileCount
	lo := 0
	for i := 0; i < tileCount; i++ {
		size := base
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		tiles = append(tiles, tileBounds{lo: lo, hi: lo + size})
		lo += size
	}
	return tiles
}

func diagonal(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	d := make([]float64, r)
	for i := 0; i < r; i++ {
		d[i] = m.At(i, i)
	}
	return d
}

func computeVariant(variant gwas.VariantStats, featureNames []string, params Params, featureVariance []float64) (Row, error) {
	betaG := make([]float64, len(featureNames))
	sampleSize := -1
	var seCount int
	var varGSum float64

	for i, name := range featureNames {
		stat, ok := variant.ByFeature[name]
		if !ok {
			return Row{}, errors.InvalidInput(fmt.Sprintf(
				"indirect gwas: variant %s missing feature %s", variant.VariantID, name))
		}
		betaG[i] = stat.Beta

		if sampleSize == -1 || stat.SampleSize < sampleSize {
			sampleSize = stat.SampleSize
		}

		if stat.StdError != 0 {
			dof := float64(stat.SampleSize - params.NumCovar - 1)
			if dof > 0 {
				varG := stat.StdError * stat.StdError * dof * featureVariance[i]
				varGSum += varG
				seCount++
			}
		}
	}

	bHat := dotProduct(params.Beta, betaG)

	if seCount == 0 {
		// No feature carried a usable standard error for this variant; this
		// is a degeneracy in the inputs themselves, distinct from an
		// all-zero β.
		return Row{VariantID: variant.VariantID, Beta: bHat, StdError: math.NaN(), TStat: math.NaN(), PValue: math.NaN(), SampleSize: sampleSize}, nil
	}

	varG := varGSum / float64(seCount)
	dof := sampleSize - params.NumCovar - 1
	if dof <= 0 || varG <= 0 {
		return Row{VariantID: variant.VariantID, Beta: bHat, StdError: math.NaN(), TStat: math.NaN(), PValue: math.NaN(), SampleSize: sampleSize}, nil
	}

	varResid := params.VarProj - (bHat*bHat*varG)/params.VarProj
	if varResid < varianceFloor {
		varResid = varianceFloor
	}

	seG := math.Sqrt(varResid / (float64(dof) * varG))

	var tStat, pValue float64
	if seG == 0 || math.IsNaN(seG) {
		tStat, pValue = math.NaN(), math.NaN()
	} else {
		tStat = bHat / seG
		pValue = twoSidedPValue(tStat, dof)
	}

	return Row{
		VariantID:  variant.VariantID,
		Beta:       bHat,
		StdError:   seG,
		TStat:      tStat,
		PValue:     pValue,
		SampleSize: sampleSize,
	}, nil
}

func dotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// twoSidedPValue uses Student's t for small degrees of freedom and the
// normal approximation above largeDoFNormalApprox.
func twoSidedPValue(tStat float64, dof int) float64 {
	abs := math.Abs(tStat)
	if dof > largeDoFNormalApprox {
		return 2 * (1 - distuv.UnitNormal.CDF(abs))
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(dof)}
	return 2 * (1 - tDist.CDF(abs))
}
