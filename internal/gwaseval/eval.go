// Package gwaseval evaluates a validated expression node list against a
// cohort's feature matrix, producing the synthesized phenotype column.
package gwaseval

import (
	"webgwas/domain/gwas"
	"webgwas/internal/errors"
)

// Evaluate reduces nodes to a length-N column vector. Booleans are
// materialized as 0.0/1.0 throughout. Each referenced feature column is
// copied out of the row-major feature matrix by CohortData.Column, and
// constants and operator results are fresh allocations as well.
func Evaluate(nodes []gwas.Node, cohort *gwas.CohortData) ([]float64, error) {
	n := cohort.NumSamples()
	var stack [][]float64

	for _, node := range nodes {
		switch node.Kind {
		case gwas.NodeKindFeature:
			col, ok := cohort.Column(node.Feature.Code)
			if !ok {
				return nil, errors.UnknownFeature(node.Feature.Code)
			}
			stack = append(stack, col)
		case gwas.NodeKindConstant:
			stack = append(stack, broadcast(node.Constant.Value, n))
		case gwas.NodeKindOperator:
			op := node.Operator
			if len(stack) < op.Arity {
				return nil, errors.InternalError("evaluator stack underflow")
			}
			operands := stack[len(stack)-op.Arity:]
			stack = stack[:len(stack)-op.Arity]

			result, err := applyOperator(op.Tag, operands)
			if err != nil {
				return nil, err
			}
			stack = append(stack, result)
		}
	}

	if len(stack) != 1 {
		return nil, errors.InternalError("evaluator left more than one value on the stack")
	}
	return stack[0], nil
}

func broadcast(value float64, n int) []float64 {
	col := make([]float64, n)
	for i := range col {
		col[i] = value
	}
	return col
}

func applyOperator(tag gwas.OperatorTag, operands [][]float64) ([]float64, error) {
	switch tag {
	case gwas.OpRoot:
		return operands[0], nil
	case gwas.OpAdd:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return a + b }), nil
	case gwas.OpSub:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return a - b }), nil
	case gwas.OpMul:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return a * b }), nil
	case gwas.OpDiv:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return a / b }), nil
	case gwas.OpGt:
		return zipWith(operands[0], operands[1], boolOp(func(a, b float64) bool { return a > b })), nil
	case gwas.OpGe:
		return zipWith(operands[0], operands[1], boolOp(func(a, b float64) bool { return a >= b })), nil
	case gwas.OpLt:
		return zipWith(operands[0], operands[1], boolOp(func(a, b float64) bool { return a < b })), nil
	case gwas.OpLe:
		return zipWith(operands[0], operands[1], boolOp(func(a, b float64) bool { return a <= b })), nil
	case gwas.OpEq:
		return zipWith(operands[0], operands[1], boolOp(func(a, b float64) bool { return a == b })), nil
	case gwas.OpAnd:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return boolToFloat(truthy(a) && truthy(b)) }), nil
	case gwas.OpOr:
		return zipWith(operands[0], operands[1], func(a, b float64) float64 { return boolToFloat(truthy(a) || truthy(b)) }), nil
	case gwas.OpNot:
		return mapOp(operands[0], func(a float64) float64 { return 1.0 - a }), nil
	default:
		return nil, errors.InternalError("unhandled operator tag " + string(tag))
	}
}

// truthy clamps a boolean-lane value that bypassed the type checker to
// the documented `value != 0` policy.
func truthy(v float64) bool { return v != 0 }

func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

func boolOp(cmp func(a, b float64) bool) func(a, b float64) float64 {
	return func(a, b float64) float64 { return boolToFloat(cmp(a, b)) }
}

func zipWith(a, b []float64, f func(a, b float64) float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = f(a[i], b[i])
	}
	return out
}

func mapOp(a []float64, f func(float64) float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = f(v)
	}
	return out
}
