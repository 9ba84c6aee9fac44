// Package testfixture builds small, fully in-memory CohortData instances
// for tests across the pipeline packages.
package testfixture

import (
	"webgwas/domain/gwas"

	"gonum.org/v1/gonum/mat"
)

// SimpleCohort returns a cohort with two real features ("AGE", "BMI") and
// one boolean feature ("SEX"), four samples, an SVD-computed pseudoinverse
// of [features | 1], a fixed symmetric 3x3 covariance matrix, and a two-variant
// GWAS summary statistics table.
func SimpleCohort() *gwas.CohortData {
	featureNames := []string{"AGE", "BMI", "SEX"}

	features := mat.NewDense(4, 3, []float64{
		20, 22.0, 0,
		30, 24.5, 1,
		40, 27.0, 0,
		50, 30.5, 1,
	})

	leftInverse := mat.NewDense(4, 4, make([]float64, 16))
	var design mat.Dense
	design.Augment(features, onesColumn(4))
	pseudoInverse(&design, leftInverse)

	covariance := mat.NewDense(3, 3, []float64{
		100, 10, 0.5,
		10, 14, 0.3,
		0.5, 0.3, 0.25,
	})

	featureByCode := map[string]int{"AGE": 0, "BMI": 1, "SEX": 2}
	featureMeta := map[string]gwas.Feature{
		"AGE": {ID: 1, Code: "AGE", Name: "Age", NodeType: gwas.NodeReal, SampleSize: 4, CohortID: 1},
		"BMI": {ID: 2, Code: "BMI", Name: "Body mass index", NodeType: gwas.NodeReal, SampleSize: 4, CohortID: 1},
		"SEX": {ID: 3, Code: "SEX", Name: "Sex", NodeType: gwas.NodeBool, SampleSize: 4, CohortID: 1},
	}

	gwasTable := &gwas.GWASTable{
		Variants: []gwas.VariantStats{
			{
				VariantID: "rs1",
				ByFeature: map[string]gwas.FeatureStat{
					"AGE": {Beta: 0.5, StdError: 0.1, SampleSize: 4},
					"BMI": {Beta: 0.2, StdError: 0.05, SampleSize: 4},
					"SEX": {Beta: 0.1, StdError: 0.2, SampleSize: 4},
				},
			},
			{
				VariantID: "rs2",
				ByFeature: map[string]gwas.FeatureStat{
					"AGE": {Beta: -0.3, StdError: 0.08, SampleSize: 4},
					"BMI": {Beta: 0.4, StdError: 0.06, SampleSize: 4},
					"SEX": {Beta: 0.0, StdError: 0.15, SampleSize: 4},
				},
			},
		},
	}

	return &gwas.CohortData{
		Cohort:        gwas.Cohort{ID: 1, Name: "Demo Cohort", NormalizedName: "demo_cohort", NumCovar: 1},
		Features:      features,
		FeatureNames:  featureNames,
		FeatureByCode: featureByCode,
		FeatureMeta:   featureMeta,
		LeftInverse:   leftInverse,
		Covariance:    covariance,
		GWAS:          gwasTable,
	}
}

func onesColumn(n int) *mat.Dense {
	col := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		col.Set(i, 0, 1.0)
	}
	return col
}

// pseudoInverse fills dst with the Moore-Penrose left pseudoinverse of a
// via its SVD, transposed so dst has shape (cols(a)) x (rows(a)).
func pseudoInverse(a *mat.Dense, dst *mat.Dense) {
	var svd mat.SVD
	svd.Factorize(a, mat.SVDThin)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	values := svd.Values(nil)

	r, c := a.Dims()
	sInv := mat.NewDense(c, r, nil)
	for i, s := range values {
		if s > 1e-10 {
			sInv.Set(i, i, 1/s)
		}
	}

	var vsInv, result mat.Dense
	vsInv.Mul(&v, sInv)
	result.Mul(&vsInv, u.T())
	dst.Copy(&result)
}
