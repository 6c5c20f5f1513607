package parser

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// ChainedExpr is a flat run of operands separated by binary operators, as
// produced by the parser before precedence is applied. Unchain converts it
// into a BinaryExpr tree.
type ChainedExpr struct {
	ExprBase
	Children  []Expr
	Operators []string

	// Expression after operators have been taken into account
	UnchainedExpr Expr
}

func (c *ChainedExpr) String() string {
	// Basic, doesn't handle precedence for parentheses
	return fmt.Sprintf("(%s)", strings.Join(gfn.Map(c.Children, func(e Expr) string { return e.String() }), ", "))
}

type Associativity int

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

type Precedencer interface {
	PrecedenceFor(operator string) int
	AssociativityFor(operator string) Associativity
}

// formulaPrecedencer encodes the formula grammar's three binary precedence
// levels: comparisons bind loosest, then additive, then multiplicative.
type formulaPrecedencer struct{}

func (fp *formulaPrecedencer) PrecedenceFor(operator string) int {
	switch operator {
	case "*", "/":
		return 3
	case "+", "-":
		return 2
	case "==", "!=", "<", "<=", ">", ">=":
		return 1
	default:
		return 0
	}
}

func (fp *formulaPrecedencer) AssociativityFor(operator string) Associativity {
	// All formula binary operators associate to the left.
	return AssocLeft
}

// Unchain converts the ChainedExpr into a tree of BinaryExpr nodes,
// respecting operator precedence and associativity provided by the Precedencer.
// The result is stored in c.UnchainedExpr.
func (c *ChainedExpr) Unchain(preceder Precedencer) {
	if c == nil {
		return
	}
	if len(c.Children) == 0 {
		c.UnchainedExpr = nil
		return
	}

	if len(c.Operators) == 0 {
		if len(c.Children) == 1 {
			c.UnchainedExpr = c.Children[0]
		} else {
			// Malformed: multiple children, no operators. Parser should catch this.
			c.UnchainedExpr = nil
		}
		return
	}

	// A valid chain must have one more child than operators.
	if len(c.Children) != len(c.Operators)+1 {
		c.UnchainedExpr = nil
		return
	}

	p := preceder
	if p == nil {
		p = &formulaPrecedencer{}
	}

	childIdx := 0
	opIdx := 0

	// Start parsing with the lowest possible precedence (0).
	c.UnchainedExpr = c.parseExpressionRecursive(p, &childIdx, &opIdx, 0)
}

// parseExpressionRecursive implements the core precedence climbing logic.
// It consumes operands and operators from the ChainedExpr's lists,
// starting from the current *childIdx and *opIdx.
// It only processes operators whose precedence is >= minPrecedence.
func (c *ChainedExpr) parseExpressionRecursive(p Precedencer, childIdx *int, opIdx *int, minPrecedence int) Expr {
	if *childIdx >= len(c.Children) {
		return nil // Expected an operand, but ran out of children.
	}

	lhs := c.Children[*childIdx]
	if lhs == nil {
		return nil
	}
	*childIdx++ // Consume the lhs operand.

	for {
		if *opIdx >= len(c.Operators) {
			break
		}

		currentOp := c.Operators[*opIdx]
		opPrec := p.PrecedenceFor(currentOp)
		opAssoc := p.AssociativityFor(currentOp)

		// Operators below the current binding level belong to an outer call.
		if opPrec < minPrecedence {
			break
		}

		*opIdx++ // Consume the operator.

		var nextMinRecursivePrecedence int
		switch opAssoc {
		case AssocLeft, AssocNone:
			// Left-associative (and non-associative) operators require the RHS
			// to bind strictly tighter.
			nextMinRecursivePrecedence = opPrec + 1
		case AssocRight:
			nextMinRecursivePrecedence = opPrec
		default:
			c.UnchainedExpr = nil
			return nil
		}

		if *childIdx >= len(c.Children) {
			c.UnchainedExpr = nil // Operator exists, but no RHS operand.
			return nil
		}

		rhs := c.parseExpressionRecursive(p, childIdx, opIdx, nextMinRecursivePrecedence)
		if rhs == nil {
			c.UnchainedExpr = nil
			return nil
		}

		newExpr := &BinaryExpr{
			Left:     lhs,
			Operator: currentOp,
			Right:    rhs,
		}
		newExpr.NodeInfo = NodeInfo{StartPos: newExpr.Left.Pos(), StopPos: newExpr.Right.End()}

		lhs = newExpr // The new binary expression becomes the lhs for the next iteration.
	}
	return lhs
}
