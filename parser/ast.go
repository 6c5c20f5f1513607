package parser

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// NodeInfo carries source positions (byte offsets) for a node.
type NodeInfo struct {
	StartPos int
	StopPos  int
}

func newNodeInfo(start, stop int) NodeInfo {
	return NodeInfo{StartPos: start, StopPos: stop}
}

func (n *NodeInfo) Pos() int { return n.StartPos }
func (n *NodeInfo) End() int { return n.StopPos }

// Node is anything with a source span.
type Node interface {
	Pos() int
	End() int
	String() string
}

// TokenNode wraps a raw token (operator, punctuation) with its span.
type TokenNode struct {
	NodeInfo
	Text string
}

func (t *TokenNode) String() string { return t.Text }

// Expr represents an expression node in a formula tree.
type Expr interface {
	Node
	exprNode() // Marker method for expressions
}

type ExprBase struct {
	NodeInfo
}

func (e *ExprBase) exprNode() {}

// LiteralExpr represents a numeric literal.
type LiteralExpr struct {
	ExprBase
	Value float64
	Text  string // raw lexeme, kept for round-trip fidelity
}

func (l *LiteralExpr) String() string {
	if l.Text != "" {
		return l.Text
	}
	return strconv.FormatFloat(l.Value, 'g', -1, 64)
}

// IdentifierExpr represents a field, parameter, material or function name.
type IdentifierExpr struct {
	ExprBase
	Name string
}

func (i *IdentifierExpr) String() string { return i.Name }

// MemberAccessExpr represents `receiver.member` (material properties,
// material-field properties and `out.<name>` output references).
type MemberAccessExpr struct {
	ExprBase
	Receiver Expr
	Member   *IdentifierExpr
}

func (m *MemberAccessExpr) String() string { return fmt.Sprintf("%s.%s", m.Receiver, m.Member) }

// UnaryExpr represents `operator operand` (only unary minus in formulas).
type UnaryExpr struct {
	ExprBase
	Operator string
	Right    Expr
}

func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Operator, u.Right) }

// BinaryExpr represents `left operator right`.
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string // "+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">="
	Right    Expr
}

func (b *BinaryExpr) String() string {
	leftStr := "nil"
	if b.Left != nil {
		leftStr = b.Left.String()
	}
	rightStr := "nil"
	if b.Right != nil {
		rightStr = b.Right.String()
	}
	return fmt.Sprintf("(%s %s %s)", leftStr, b.Operator, rightStr)
}

// CallExpr represents `function(arg1, arg2, ...)` — built-in math functions
// and user-defined shared functions.
type CallExpr struct {
	ExprBase
	Function Expr // IdentifierExpr in valid formulas
	Args     []Expr
}

func (c *CallExpr) String() string {
	argsStr := gfn.Map(c.Args, func(a Expr) string { return a.String() })
	return fmt.Sprintf("%s(%s)", c.Function, strings.Join(argsStr, ", "))
}
