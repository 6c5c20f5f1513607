package parser

// Token kinds produced by the Lexer. eof (0) terminates the stream.
const (
	IDENTIFIER = iota + 1
	NUMBER_LITERAL
	LPAREN
	RPAREN
	COMMA
	DOT
	PLUS
	MINUS
	MUL
	DIV
	EQ
	NEQ
	LT
	LTE
	GT
	GTE
)

var tokenNames = map[int]string{
	eof:            "EOF",
	IDENTIFIER:     "IDENTIFIER",
	NUMBER_LITERAL: "NUMBER",
	LPAREN:         "'('",
	RPAREN:         "')'",
	COMMA:          "','",
	DOT:            "'.'",
	PLUS:           "'+'",
	MINUS:          "'-'",
	MUL:            "'*'",
	DIV:            "'/'",
	EQ:             "'=='",
	NEQ:            "'!='",
	LT:             "'<'",
	LTE:            "'<='",
	GT:             "'>'",
	GTE:            "'>='",
}

// TokenString names a token kind for error messages.
func TokenString(tok int) string {
	if s, ok := tokenNames[tok]; ok {
		return s
	}
	return "UNKNOWN"
}

// binaryOpTokens is the set of tokens ParseChainedExpr collects into a flat
// operator chain before precedence resolution.
var binaryOpTokens = map[int]bool{
	PLUS: true, MINUS: true, MUL: true, DIV: true,
	EQ: true, NEQ: true, LT: true, LTE: true, GT: true, GTE: true,
}

// TokenValue is the semantic value the lexer fills in for each token.
type TokenValue struct {
	expr  Expr            // literal expressions
	ident *IdentifierExpr // identifiers
	node  *TokenNode      // operators and punctuation
	sval  string          // raw operator text
}
