// Package projection solves the least-squares coefficient vector for a
// synthesized phenotype against a cohort's cached pseudoinverse.
package projection

import (
	"webgwas/domain/gwas"
	"webgwas/internal/errors"

	"gonum.org/v1/gonum/mat"
)

// Solve computes β = L·y via the cohort's cached left pseudoinverse,
// drops the trailing intercept term, and returns a Projection aligned to
// the cohort's feature ordering.
//
// When nodes is a single bare Feature reference (no Operator, no
// Constant), the least-squares solve is skipped entirely: β is the unit
// vector selecting that feature, already in cohort order.
func Solve(nodes []gwas.Node, y []float64, cohort *gwas.CohortData) (*gwas.Projection, error) {
	if proj, ok := fastPathSingleFeature(nodes, cohort); ok {
		return proj, nil
	}

	f := cohort.NumFeatures()
	rows, cols := cohort.LeftInverse.Dims()
	if cols != len(y) {
		return nil, errors.InternalError("pseudoinverse column count does not match phenotype length")
	}
	if rows != f+1 {
		return nil, errors.InternalError("pseudoinverse row count does not match feature count + 1")
	}

	yVec := mat.NewVecDense(len(y), y)
	var full mat.VecDense
	full.MulVec(cohort.LeftInverse, yVec)

	beta := make([]float64, f)
	for i := 0; i < f; i++ {
		beta[i] = full.AtVec(i)
	}

	return &gwas.Projection{
		FeatureNames: cohort.FeatureNames,
		Beta:         beta,
		Variance:     Variance(beta, cohort.Covariance),
	}, nil
}

// fastPathSingleFeature recognizes `FEATURE` and `FEATURE root` as the same
// single-feature expression; ValidNodes always carries the trailing Root
// wrapper node (identity), so it is not itself an Operator for this check.
func fastPathSingleFeature(nodes []gwas.Node, cohort *gwas.CohortData) (*gwas.Projection, bool) {
	core := nodes
	if len(core) > 0 {
		last := core[len(core)-1]
		if last.Kind == gwas.NodeKindOperator && last.Operator.Tag == gwas.OpRoot {
			core = core[:len(core)-1]
		}
	}
	if len(core) != 1 || core[0].Kind != gwas.NodeKindFeature {
		return nil, false
	}
	idx, ok := cohort.FeatureByCode[core[0].Feature.Code]
	if !ok {
		return nil, false
	}
	beta := make([]float64, cohort.NumFeatures())
	beta[idx] = 1.0
	return &gwas.Projection{
		FeatureNames: cohort.FeatureNames,
		Beta:         beta,
		Variance:     Variance(beta, cohort.Covariance),
	}, true
}

// Variance computes var_proj = βᵀ cov β, the scalar projection variance
// the indirect-GWAS kernel treats as precomputed input.
func Variance(beta []float64, cov *mat.Dense) float64 {
	b := mat.NewVecDense(len(beta), beta)
	var cb mat.VecDense
	cb.MulVec(cov, b)
	return mat.Dot(b, &cb)
}
