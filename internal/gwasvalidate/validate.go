// Package gwasvalidate parses a reverse-Polish phenotype expression and
// type-checks it against a cohort's feature set.
package gwasvalidate

import (
	"fmt"
	"strconv"
	"strings"

	"webgwas/domain/gwas"
)

// Validate parses and type-checks expression against cohort, returning a
// ValidPhenotype with is_valid=false and a diagnostic message on any
// failure (naming the offending token position when a single token is at
// fault; end-of-input checks name none), instead of an error — matching
// the contract's synchronous, always-returns-a-result shape.
func Validate(expression string, cohort *gwas.CohortData) gwas.ValidPhenotype {
	tokens := strings.Fields(expression)
	parsing, err := parse(tokens)
	if err != nil {
		return invalid(err.Error())
	}

	nodes, err := resolve(parsing, cohort)
	if err != nil {
		return invalid(err.Error())
	}

	if err := typeCheck(nodes); err != nil {
		return invalid(err.Error())
	}

	return gwas.ValidPhenotype{
		IsValid:             true,
		PhenotypeDefinition: Canonicalize(nodes),
		ValidNodes:          nodes,
	}
}

func invalid(message string) gwas.ValidPhenotype {
	return gwas.ValidPhenotype{IsValid: false, Message: message}
}

// parse turns raw tokens into ParsingNodes: `CODE` (backtick-quoted) for
// features, bare operator symbols in any letter case for operators, everything else attempted
// as a float constant.
func parse(tokens []string) ([]gwas.ParsingNode, error) {
	nodes := make([]gwas.ParsingNode, 0, len(tokens))
	for i, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "`") && strings.HasSuffix(tok, "`") && len(tok) >= 2:
			code := strings.Trim(tok, "`")
			nodes = append(nodes, gwas.ParsingNode{Kind: gwas.NodeKindFeature, FeatureCode: code})
		case isOperatorToken(tok):
			op, _ := gwas.ParseOperatorTag(strings.ToUpper(tok))
			nodes = append(nodes, gwas.ParsingNode{Kind: gwas.NodeKindOperator, Operator: op})
		default:
			value, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("token %d (%q): unrecognized token", i, tok)
			}
			nodes = append(nodes, gwas.ParsingNode{Kind: gwas.NodeKindConstant, Constant: gwas.Constant{Value: value}})
		}
	}
	return nodes, nil
}

func isOperatorToken(tok string) bool {
	_, ok := gwas.ParseOperatorTag(strings.ToUpper(tok))
	return ok
}

// resolve replaces each feature-code ParsingNode with the cohort's full
// Feature record, failing if the code is unknown.
func resolve(parsing []gwas.ParsingNode, cohort *gwas.CohortData) ([]gwas.Node, error) {
	nodes := make([]gwas.Node, len(parsing))
	for i, p := range parsing {
		switch p.Kind {
		case gwas.NodeKindFeature:
			feat, ok := cohort.FeatureMeta[p.FeatureCode]
			if !ok {
				return nil, fmt.Errorf("token %d (`%s`): unknown feature code in cohort", i, p.FeatureCode)
			}
			nodes[i] = gwas.FeatureNode(feat)
		case gwas.NodeKindOperator:
			nodes[i] = gwas.OperatorNode(p.Operator)
		case gwas.NodeKindConstant:
			nodes[i] = gwas.ConstantNode(p.Constant.Value)
		}
	}
	return nodes, nil
}

// typeCheck walks nodes as a stack machine, enforcing operator arity and
// type unification.
func typeCheck(nodes []gwas.Node) error {
	var stack []gwas.NodeType

	for i, n := range nodes {
		switch n.Kind {
		case gwas.NodeKindFeature:
			stack = append(stack, n.Feature.NodeType)
		case gwas.NodeKindConstant:
			stack = append(stack, gwas.NodeReal)
		case gwas.NodeKindOperator:
			op := n.Operator
			if len(stack) < op.Arity {
				return fmt.Errorf("token %d (%s): stack underflow, need %d operands, have %d", i, op.Tag, op.Arity, len(stack))
			}
			operands := stack[len(stack)-op.Arity:]
			for _, operand := range operands {
				if !operand.Unifies(op.InputType) {
					return fmt.Errorf("token %d (%s): type mismatch, expected %s, got %s", i, op.Tag, op.InputType, operand)
				}
			}
			stack = stack[:len(stack)-op.Arity]

			out := op.OutputType
			if out == gwas.NodeAny {
				out = operands[0]
			}
			stack = append(stack, out)

			if op.Tag == gwas.OpRoot && i != len(nodes)-1 {
				return fmt.Errorf("token %d (ROOT): root must be the final node", i)
			}
		}
	}

	if len(stack) != 1 {
		return fmt.Errorf("expression leaves %d values on the stack, expected exactly 1", len(stack))
	}
	final := stack[0]
	if final != gwas.NodeBool && final != gwas.NodeReal {
		return fmt.Errorf("expression result has unresolved type %s", final)
	}
	if len(nodes) == 0 || nodes[len(nodes)-1].Kind != gwas.NodeKindOperator || nodes[len(nodes)-1].Operator.Tag != gwas.OpRoot {
		return fmt.Errorf("expression must be wrapped in a final root operator")
	}
	if !hasFeature(nodes) {
		return fmt.Errorf("expression must reference at least one feature, not just constants")
	}
	return nil
}

func hasFeature(nodes []gwas.Node) bool {
	for _, n := range nodes {
		if n.Kind == gwas.NodeKindFeature {
			return true
		}
	}
	return false
}

// Canonicalize re-serializes a validated node list into the same
// reverse-Polish textual form Validate accepts, so stored PhenotypeDefinition
// strings round-trip through Validate unchanged.
func Canonicalize(nodes []gwas.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		switch n.Kind {
		case gwas.NodeKindFeature:
			parts[i] = "`" + n.Feature.Code + "`"
		case gwas.NodeKindOperator:
			parts[i] = strings.ToLower(string(n.Operator.Tag))
		case gwas.NodeKindConstant:
			parts[i] = strconv.FormatFloat(n.Constant.Value, 'g', -1, 64)
		}
	}
	return strings.Join(parts, " ")
}
