package parser

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Parser is a hand-written LL parser for the formula grammar. A formula is a
// single expression; Parse fails if tokens remain after it.
type Parser struct {
	lexer            *Lexer
	peekedTokenValue *TokenValue
	peekedToken      int

	PanicOnError bool
}

func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// Parse reads a complete formula expression and returns its AST with
// operator precedence already applied.
func (p *Parser) Parse() (Expr, error) {
	expr, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	if peeked := p.PeekToken(); peeked != eof {
		return nil, p.Errorf("unexpected token after expression: %s (%s)",
			TokenString(peeked), p.lexer.Text())
	}
	if p.lexer.lastError != nil {
		return nil, p.lexer.lastError
	}
	return expr, nil
}

func (p *Parser) Errorf(format string, args ...any) error {
	s := fmt.Sprintf(format, args...)
	p.lexer.Error(s)
	if p.PanicOnError {
		panic(p.lexer.lastError)
	}
	return p.lexer.lastError
}

func (p *Parser) Advance() int {
	p.PeekToken()
	last := p.peekedToken
	p.peekedTokenValue = nil
	p.peekedToken = -1
	return last
}

func (p *Parser) PeekToken() int {
	if p.peekedTokenValue == nil {
		p.peekedTokenValue = &TokenValue{}
		p.peekedToken = p.lexer.Lex(p.peekedTokenValue)
	}
	return p.peekedToken
}

// Expect checks if the current peeked token is one of the expected tokens.
// It does NOT advance.
func (p *Parser) Expect(tokensIn ...int) (foundToken int, err error) {
	peekedToken := p.PeekToken()
	for _, tok := range tokensIn {
		if tok == peekedToken {
			return tok, nil
		}
	}
	expectedStrings := gfn.Map(tokensIn, func(t int) string { return TokenString(t) })
	var errMsg string
	if len(tokensIn) == 1 {
		errMsg = fmt.Sprintf("expected %s, found: %s", TokenString(tokensIn[0]), TokenString(peekedToken))
	} else {
		errMsg = fmt.Sprintf("expected one of: [%s], found: %s", strings.Join(expectedStrings, ", "), TokenString(peekedToken))
	}
	if p.lexer.Text() != "" {
		errMsg = fmt.Sprintf("%s (%s)", errMsg, p.lexer.Text())
	}
	return -1, p.Errorf("%s", errMsg)
}

// AdvanceIf expects one of the given tokens and advances if found.
// Returns the matched token type and its semantic value.
func (p *Parser) AdvanceIf(tokensIn ...int) (foundToken int, tokenValue *TokenValue, err error) {
	if _, err = p.Expect(tokensIn...); err != nil {
		return -1, nil, err
	}
	foundToken = p.peekedToken
	tokenValue = p.peekedTokenValue
	p.Advance()
	return
}

func (p *Parser) ParseIdentifier() (out *IdentifierExpr, err error) {
	if _, err = p.Expect(IDENTIFIER); err != nil {
		return nil, err
	}
	tokenVal := p.peekedTokenValue
	p.Advance() // Consume IDENTIFIER
	return tokenVal.ident, nil
}

func (p *Parser) ParseExpression() (Expr, error) {
	return p.ParseChainedExpr()
}

// ChainedExpr : UnaryExpr ( BINARY_OP UnaryExpr ) *
// Operands and operators are collected flat; precedence is sorted out by Unchain.
func (p *Parser) ParseChainedExpr() (Expr, error) {
	left, err := p.ParseUnaryExpr()
	if err != nil {
		return nil, err
	}
	out := &ChainedExpr{Children: []Expr{left}}

	for {
		currentPeekedToken := p.PeekToken()
		if !binaryOpTokens[currentPeekedToken] {
			break
		}
		opToken := currentPeekedToken
		opTokenVal := p.peekedTokenValue // Capture semantic value of operator before advancing
		p.Advance()                      // Consume the operator

		next, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, p.Errorf("expected expression after operator '%s', found %s (%s)",
				TokenString(opToken), TokenString(p.PeekToken()), p.lexer.Text())
		}
		out.Children = append(out.Children, next)
		out.Operators = append(out.Operators, opTokenVal.node.Text)
	}

	if len(out.Children) == 1 {
		return out.Children[0], nil
	}
	out.NodeInfo = NodeInfo{StartPos: out.Children[0].Pos(), StopPos: out.Children[len(out.Children)-1].End()}
	out.Unchain(&formulaPrecedencer{})
	if out.UnchainedExpr == nil {
		return nil, p.Errorf("malformed operator chain")
	}
	return out.UnchainedExpr, nil
}

// UnaryExpr : MINUS UnaryExpr | PrimaryExpr
func (p *Parser) ParseUnaryExpr() (Expr, error) {
	peeked := p.PeekToken()
	if peeked == MINUS {
		opTokenVal := p.peekedTokenValue
		p.Advance() // Consume operator

		// Recursively call ParseUnaryExpr for right-associativity
		operand, err := p.ParseUnaryExpr()
		if err != nil {
			return nil, p.Errorf("expected expression after unary '-', found %s (%s)",
				TokenString(p.PeekToken()), p.lexer.Text())
		}
		return &UnaryExpr{
			ExprBase: ExprBase{NodeInfo: newNodeInfo(opTokenVal.node.Pos(), operand.End())},
			Operator: "-",
			Right:    operand,
		}, nil
	}
	return p.ParsePrimaryExpr()
}

// PrimaryExpr: NUMBER_LITERAL | IDENTIFIER | LPAREN Expression RPAREN | PrimaryExpr PostfixOps
// PostfixOps: DOT IDENTIFIER | LPAREN ArgListOpt RPAREN
func (p *Parser) ParsePrimaryExpr() (expr Expr, err error) {
	peeked := p.PeekToken()

	switch peeked {
	case NUMBER_LITERAL:
		tokenVal := p.peekedTokenValue
		p.Advance()
		expr = tokenVal.expr

	case IDENTIFIER:
		expr, err = p.ParseIdentifier()
		if err != nil {
			return nil, err
		}

	case LPAREN:
		p.Advance() // Consume LPAREN
		innerExpr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		if _, _, err = p.AdvanceIf(RPAREN); err != nil {
			return nil, p.Errorf("expected ')' to close parenthesized expression, found %s (%s)",
				TokenString(p.PeekToken()), p.lexer.Text())
		}
		expr = innerExpr

	default:
		return nil, p.Errorf("unexpected token at start of expression: %s (%s)",
			TokenString(peeked), p.lexer.Text())
	}

	// Postfix operators: member access ('.') or function call ('(').
	for {
		peekedSuffix := p.PeekToken()
		if peekedSuffix == DOT {
			p.Advance() // Consume DOT

			memberIdent, err := p.ParseIdentifier()
			if err != nil {
				return nil, p.Errorf("expected identifier after '.', found %s (%s)",
					TokenString(p.PeekToken()), p.lexer.Text())
			}
			expr = &MemberAccessExpr{
				ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), memberIdent.End())},
				Receiver: expr,
				Member:   memberIdent,
			}
		} else if peekedSuffix == LPAREN {
			args, endPos, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			expr = &CallExpr{
				ExprBase: ExprBase{NodeInfo: newNodeInfo(expr.Pos(), endPos)},
				Function: expr,
				Args:     args,
			}
		} else {
			break
		}
	}
	return expr, nil
}

// parseCallArgs consumes LPAREN ( Expression ( COMMA Expression )* )? RPAREN
// and returns the argument list plus the byte offset just past the ')'.
func (p *Parser) parseCallArgs() (args []Expr, endPos int, err error) {
	if _, _, err = p.AdvanceIf(LPAREN); err != nil {
		return nil, 0, err
	}

	if p.PeekToken() != RPAREN {
		for {
			arg, err := p.ParseExpression()
			if err != nil {
				return nil, 0, err
			}
			args = append(args, arg)
			if p.PeekToken() != COMMA {
				break
			}
			p.Advance() // Consume COMMA
		}
	}

	_, rparenVal, err := p.AdvanceIf(RPAREN)
	if err != nil {
		return nil, 0, p.Errorf("expected ')' to close argument list, found %s (%s)",
			TokenString(p.PeekToken()), p.lexer.Text())
	}
	return args, rparenVal.node.End(), nil
}

// ParseFormula is the package entry point: it lexes and parses a formula
// string into an expression tree.
func ParseFormula(input string) (Expr, error) {
	lexer := NewLexer(strings.NewReader(input))
	parser := NewParser(lexer)
	return parser.Parse()
}
