package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"unicode"
)

// Ensure EOF is defined
const eof = 0

// Lexer tokenizes a single formula string: identifiers, numeric literals,
// arithmetic/comparison operators, parens, commas and dots.
type Lexer struct {
	lookaheadRunes  []rune
	lookaheadWidths []int
	reader          *bufio.Reader
	buf             bytes.Buffer // Temporary buffer for scanned text
	pos             int          // Current byte offset from the beginning of the input
	lastError       error

	// Position tracking for the current token
	tokenStartPos  int    // Byte offset where the current token started
	tokenStartLine int    // Line number (1-based) where the current token started
	tokenStartCol  int    // Column number (rune-based, 1-based) where the current token started
	tokenText      string // Raw text of the current token

	// Current line and column (rune-based) in the input
	line int
	col  int
}

// NewLexer creates a new lexer instance
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		pos:    0,
		line:   1,
		col:    1,
	}
}

// Error records a lexing/parsing error with position context.
func (l *Lexer) Error(s string) {
	l.lastError = fmt.Errorf("error at line %d, col %d near '%s': %s", l.tokenStartLine, l.tokenStartCol, l.tokenText, s)
}

// Pos returns the start byte offset of the most recently lexed token.
func (l *Lexer) Pos() int {
	return l.tokenStartPos
}

// End returns the end byte offset (current position) after lexing the most recent token.
func (l *Lexer) End() int {
	return l.pos
}

// Text returns the raw text of the most recently lexed token.
func (l *Lexer) Text() string {
	return l.tokenText
}

// Position returns the line and column where the current token started.
func (l *Lexer) Position() (line, col int) {
	return l.tokenStartLine, l.tokenStartCol
}

// --- Rune Reading Helpers (with line/col tracking) ---
func (l *Lexer) read() (r rune, width int) {
	if l.peek() == eof {
		return eof, 0
	}
	r, width = l.lookaheadRunes[0], l.lookaheadWidths[0]
	l.lookaheadRunes, l.lookaheadWidths = l.lookaheadRunes[1:], l.lookaheadWidths[1:]
	l.updatePosition(r, width)
	return r, width
}

func (l *Lexer) updatePosition(r rune, width int) {
	l.pos += width
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) peekN(nthchar int) rune {
	if nthchar <= len(l.lookaheadRunes) {
		l.ensureLookAhead(nthchar + 1)
	}
	if nthchar >= len(l.lookaheadRunes) {
		return eof
	}
	return l.lookaheadRunes[nthchar]
}

func (l *Lexer) peek() rune {
	if len(l.lookaheadRunes) == 0 {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			return eof
		}
		l.lookaheadRunes = []rune{r}
		l.lookaheadWidths = []int{width}
	}
	return l.lookaheadRunes[0]
}

func (l *Lexer) ensureLookAhead(numchars int) (numread int) {
	for len(l.lookaheadRunes) <= numchars {
		r, width, err := l.reader.ReadRune()
		if err != nil {
			return len(l.lookaheadRunes)
		}
		l.lookaheadRunes = append(l.lookaheadRunes, r)
		l.lookaheadWidths = append(l.lookaheadWidths, width)
		numread += width
	}
	return len(l.lookaheadRunes)
}

// --- Scanning Functions ---
func (l *Lexer) skipWhitespace() bool {
	for {
		firstChar := l.peek()
		if firstChar == eof {
			return true
		}
		if unicode.IsSpace(firstChar) {
			// consume it
			l.read()
		} else {
			return false
		}
	}
}

func (l *Lexer) scanIdentifier() string {
	l.buf.Reset()
	for r := l.peek(); r != eof && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'); r = l.peek() {
		l.read()
		l.buf.WriteRune(r)
	}
	return l.buf.String()
}

func (l *Lexer) scanNumber() string {
	l.buf.Reset()
	hasDecimal := false
	for r := l.peek(); r != eof; r = l.peek() {
		if unicode.IsDigit(r) {
			l.read() // consume it
			l.buf.WriteRune(r)
		} else if r == '.' && !hasDecimal {
			if !unicode.IsDigit(l.peekN(1)) {
				break
			}
			l.read() // consume it
			hasDecimal = true
			l.buf.WriteRune(r)
		} else {
			break
		}
	}
	return l.buf.String()
}

// Lex scans the next token, filling lval with its semantic value.
func (l *Lexer) Lex(lval *TokenValue) int {
	if l.skipWhitespace() {
		return eof
	}

	l.tokenStartPos = l.pos
	l.tokenStartLine = l.line
	l.tokenStartCol = l.col
	l.tokenText = "" // Reset for current token

	r := l.peek()
	if r == eof {
		return eof
	}

	startPosSnapshot := l.tokenStartPos

	if unicode.IsLetter(r) || r == '_' {
		text := l.scanIdentifier()
		l.tokenText = text
		lval.ident = &IdentifierExpr{
			ExprBase: ExprBase{NodeInfo: newNodeInfo(startPosSnapshot, l.pos)},
			Name:     text,
		}
		return IDENTIFIER
	}

	if unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(l.peekN(1))) {
		text := l.scanNumber()
		l.tokenText = text
		val, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.Error(fmt.Sprintf("invalid number: %s", text))
		}
		lval.expr = &LiteralExpr{
			ExprBase: ExprBase{NodeInfo: newNodeInfo(startPosSnapshot, l.pos)},
			Value:    val,
			Text:     text,
		}
		return NUMBER_LITERAL
	}

	// Operators and punctuation - default to single character token text
	l.tokenText = string(r)

	emit := func(tok int, text string) int {
		l.tokenText = text
		lval.sval = text
		lval.node = &TokenNode{NodeInfo: newNodeInfo(startPosSnapshot, l.pos), Text: text}
		return tok
	}

	switch r {
	case '(', ')', ',', '.', '+', '-', '*', '/':
		l.read()
		return emit(map[rune]int{
			'(': LPAREN,
			')': RPAREN,
			',': COMMA,
			'.': DOT,
			'+': PLUS,
			'-': MINUS,
			'*': MUL,
			'/': DIV,
		}[r], string(r))
	case '=':
		l.read()
		if l.peek() == '=' {
			l.read()
			return emit(EQ, "==")
		}
		l.Error("expected '==' (single '=' is not a formula operator)")
		return eof
	case '!':
		l.read()
		if l.peek() == '=' {
			l.read()
			return emit(NEQ, "!=")
		}
		l.Error("expected '!=' (single '!' is not a formula operator)")
		return eof
	case '<':
		l.read()
		if l.peek() == '=' {
			l.read()
			return emit(LTE, "<=")
		}
		return emit(LT, "<")
	case '>':
		l.read()
		if l.peek() == '=' {
			l.read()
			return emit(GTE, ">=")
		}
		return emit(GT, ">")
	}

	l.Error(fmt.Sprintf("unexpected character '%c'", r))
	return eof // Indicate an error that should halt parsing
}
