package gwaseval

import (
	"testing"

	"webgwas/domain/gwas"
	"webgwas/domain/gwas/testfixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes(ns ...gwas.Node) []gwas.Node { return ns }

func TestEvaluate_SingleFeature(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	feat := cohort.FeatureMeta["AGE"]

	out, err := Evaluate(nodes(gwas.FeatureNode(feat), gwas.OperatorNode(gwas.Operators[gwas.OpRoot])), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{20, 30, 40, 50}, out)
}

func TestEvaluate_Add(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	age := cohort.FeatureMeta["AGE"]
	bmi := cohort.FeatureMeta["BMI"]

	out, err := Evaluate(nodes(
		gwas.FeatureNode(age),
		gwas.FeatureNode(bmi),
		gwas.OperatorNode(gwas.Operators[gwas.OpAdd]),
		gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
	), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{42.0, 54.5, 67.0, 80.5}, out)
}

func TestEvaluate_ConstantBroadcast(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	age := cohort.FeatureMeta["AGE"]

	out, err := Evaluate(nodes(
		gwas.FeatureNode(age),
		gwas.ConstantNode(2),
		gwas.OperatorNode(gwas.Operators[gwas.OpMul]),
		gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
	), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{40, 60, 80, 100}, out)
}

func TestEvaluate_ComparisonProducesZeroOne(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	age := cohort.FeatureMeta["AGE"]

	out, err := Evaluate(nodes(
		gwas.FeatureNode(age),
		gwas.ConstantNode(30),
		gwas.OperatorNode(gwas.Operators[gwas.OpGt]),
		gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
	), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 1, 1}, out)
}

func TestEvaluate_NotFlipsZeroOne(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	sex := cohort.FeatureMeta["SEX"]

	out, err := Evaluate(nodes(
		gwas.FeatureNode(sex),
		gwas.OperatorNode(gwas.Operators[gwas.OpNot]),
		gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
	), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1, 0}, out)
}

func TestEvaluate_AndClampsNonBooleanLanes(t *testing.T) {
	cohort := testfixture.SimpleCohort()
	age := cohort.FeatureMeta["AGE"]
	sex := cohort.FeatureMeta["SEX"]

	// AGE carries non-{0,1} values; And must clamp to value != 0 rather
	// than assuming the type checker already enforced {0,1}.
	out, err := Evaluate(nodes(
		gwas.FeatureNode(age),
		gwas.FeatureNode(sex),
		gwas.OperatorNode(gwas.Operators[gwas.OpAnd]),
		gwas.OperatorNode(gwas.Operators[gwas.OpRoot]),
	), cohort)

	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 1}, out)
}

func TestEvaluate_UnknownFeatureCode(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	_, err := Evaluate(nodes(gwas.FeatureNode(gwas.Feature{Code: "NOPE"})), cohort)

	require.Error(t, err)
}
