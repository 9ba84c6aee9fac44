package gwas

import "gonum.org/v1/gonum/mat"

// Projection is a synthetic phenotype defined as a linear combination of a
// cohort's features: y ≈ Σ Beta[i]·feature FeatureNames[i] (plus the dropped intercept term).
// Beta is produced by the least-squares solver and consumed by the
// indirect-GWAS kernel.
type Projection struct {
	FeatureNames []string
	Beta         []float64
	Variance     float64
}

// NumFeatures returns the number of features the projection was fit over.
func (p *Projection) NumFeatures() int { return len(p.Beta) }

// Dot computes the fitted projection value for one sample's feature row.
func (p *Projection) Dot(row []float64) float64 {
	var sum float64
	for i, b := range p.Beta {
		sum += b * row[i]
	}
	return sum
}

// Vector returns Beta as a gonum vector for use in matrix arithmetic.
func (p *Projection) Vector() *mat.VecDense {
	return mat.NewVecDense(len(p.Beta), append([]float64(nil), p.Beta...))
}
