package gwasvalidate

import (
	"testing"

	"webgwas/domain/gwas/testfixture"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SingleFeature(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`AGE` root", cohort)

	require.True(t, result.IsValid, result.Message)
	assert.Equal(t, "`AGE` root", result.PhenotypeDefinition)
	require.Len(t, result.ValidNodes, 2)
}

func TestValidate_ArithmeticExpression(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`AGE` `BMI` add root", cohort)

	require.True(t, result.IsValid, result.Message)
	assert.Len(t, result.ValidNodes, 4)
}

func TestValidate_BoolOperandsForAnd(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	// SEX is Bool; And's declared input type is Bool so this should type-check.
	result := Validate("`SEX` `SEX` and root", cohort)

	require.True(t, result.IsValid, result.Message)
}

func TestValidate_UnknownFeature(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`NOPE` root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "unknown feature code")
}

func TestValidate_UnknownToken(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("whatever root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "unrecognized token")
}

func TestValidate_ArityMismatch(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`AGE` add root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "stack underflow")
}

func TestValidate_TypeMismatch(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	// Not expects a Bool operand; AGE is Real.
	result := Validate("`AGE` not root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "type mismatch")
}

func TestValidate_MissingRoot(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`AGE`", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "root")
}

func TestValidate_LeftoverStack(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("`AGE` `BMI` root", cohort)

	assert.False(t, result.IsValid)
}

func TestValidate_UnaryOperatorWithExtraOperandLeavesStack(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	// Not consumes one operand, so the second SEX is left behind and the
	// final stack holds two values.
	result := Validate("`SEX` `SEX` not root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "stack")
}

func TestValidate_ConstantOnlyExpressionRejected(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	result := Validate("5.0 root", cohort)

	assert.False(t, result.IsValid)
	assert.Contains(t, result.Message, "at least one feature")
}

func TestCanonicalize_RoundTrip(t *testing.T) {
	cohort := testfixture.SimpleCohort()

	first := Validate("`AGE` `BMI` add root", cohort)
	require.True(t, first.IsValid)

	second := Validate(first.PhenotypeDefinition, cohort)
	require.True(t, second.IsValid)
	assert.Equal(t, first.PhenotypeDefinition, second.PhenotypeDefinition)
}
