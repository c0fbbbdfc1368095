package easybite

import (
	"fmt"
	"strconv"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota
	ILLEGAL

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LSQUARE   // "["
	RSQUARE   // "]"
	LCURLY    // "{"
	RCURLY    // "}"
	COLON     // ":"
	COMMA     // ","
	PERIOD    // "."
	SEMICOLON // ";"

	// Operators
	PLUS
	MINUS
	MULT
	DIV
	POW // "^"
	EQ  // "=="
	NEQ // "!="
	LESS
	LESS_EQ
	GREATER
	GREATER_EQ

	// Literals & identifiers
	ID
	STRING
	NUMBER
	BOOLEAN
	NULL

	// Keywords
	DECLARE
	SET
	TO
	SHOW
	SHOWLINE
	INPUT
	IF
	THEN
	ELSE
	ELSE_IF
	END_IF
	CHOOSE
	WHEN
	OTHERWISE
	END_CHOOSE
	TRY
	CAPTURE
	WHILE
	REPEAT
	TIMES
	END_REPEAT
	FOR
	FOREACH
	END_FOREACH
	END_FOR
	FROM
	STEP
	BY
	GENERATE
	STOP
	ITERATE
	IN
	OVER
	END_ITERATE
	FUNCTION
	RETURN
	END_FUNCTION
	CLASS
	INHERIT
	END_CLASS
	METHOD
	END_METHOD
	INIT
	END_INIT
	THIS
	PARENT
	NEW
	SECRET
	PUBLIC
	SKIP
	EXIT
	IMPORT
	AND
	OR
	NOT
	REMIND
	IS
	IS_IN
	IS_NOT
	RAISE
	ERROR
	AS
	INC
	DEC
	AWAIT
	ASYNC
	BYTEARRAY
	CALLBACK
)

// endMark is internal to the lexer: the bare word "end" is never a token of
// its own, it only opens a two-word terminator such as "end if".
const endMark TokenType = -1

var tokenNames = map[TokenType]string{
	EOF:          "end of input",
	ILLEGAL:      "illegal token",
	LROUND:       "'('",
	RROUND:       "')'",
	LSQUARE:      "'['",
	RSQUARE:      "']'",
	LCURLY:       "'{'",
	RCURLY:       "'}'",
	COLON:        "':'",
	COMMA:        "','",
	PERIOD:       "'.'",
	SEMICOLON:    "';'",
	PLUS:         "'+'",
	MINUS:        "'-'",
	MULT:         "'*'",
	DIV:          "'/'",
	POW:          "'^'",
	EQ:           "'=='",
	NEQ:          "'!='",
	LESS:         "'<'",
	LESS_EQ:      "'<='",
	GREATER:      "'>'",
	GREATER_EQ:   "'>='",
	ID:           "identifier",
	STRING:       "string literal",
	NUMBER:       "number literal",
	BOOLEAN:      "boolean literal",
	NULL:         "'null'",
	DECLARE:      "'declare'",
	SET:          "'set'",
	TO:           "'to'",
	SHOW:         "'show'",
	SHOWLINE:     "'showline'",
	INPUT:        "'input'",
	IF:           "'if'",
	THEN:         "'then'",
	ELSE:         "'else'",
	ELSE_IF:      "'else if'",
	END_IF:       "'end if'",
	CHOOSE:       "'choose'",
	WHEN:         "'when'",
	OTHERWISE:    "'otherwise'",
	END_CHOOSE:   "'end choose'",
	TRY:          "'try'",
	CAPTURE:      "'capture'",
	WHILE:        "'while'",
	REPEAT:       "'repeat'",
	TIMES:        "'times'",
	END_REPEAT:   "'end repeat'",
	FOR:          "'for'",
	FOREACH:      "'foreach'",
	END_FOREACH:  "'end foreach'",
	END_FOR:      "'end for'",
	FROM:         "'from'",
	STEP:         "'step'",
	BY:           "'by'",
	GENERATE:     "'generate'",
	STOP:         "'stop'",
	ITERATE:      "'iterate'",
	IN:           "'in'",
	OVER:         "'over'",
	END_ITERATE:  "'end iterate'",
	FUNCTION:     "'function'",
	RETURN:       "'return'",
	END_FUNCTION: "'end function'",
	CLASS:        "'class'",
	INHERIT:      "'inherit'",
	END_CLASS:    "'end class'",
	METHOD:       "'method'",
	END_METHOD:   "'end method'",
	INIT:         "'init'",
	END_INIT:     "'end init'",
	THIS:         "'this'",
	PARENT:       "'parent'",
	NEW:          "'new'",
	SECRET:       "'secret'",
	PUBLIC:       "'public'",
	SKIP:         "'skip'",
	EXIT:         "'exit'",
	IMPORT:       "'import'",
	AND:          "'and'",
	OR:           "'or'",
	NOT:          "'not'",
	REMIND:       "'remind'",
	IS:           "'is'",
	IS_IN:        "'is in'",
	IS_NOT:       "'is not'",
	RAISE:        "'raise'",
	ERROR:        "'error'",
	AS:           "'as'",
	INC:          "'inc'",
	DEC:          "'dec'",
	AWAIT:        "'await'",
	ASYNC:        "'async'",
	BYTEARRAY:    "'bytearray'",
	CALLBACK:     "'callback'",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token with optional literal value.
type Token struct {
	Type    TokenType
	Lexeme  string      // raw text slice
	Literal interface{} // parsed value for literals
	Line    int         // 1-based
	Col     int         // 0-based
}

var keywords = map[string]TokenType{
	"declare":   DECLARE,
	"set":       SET,
	"to":        TO,
	"show":      SHOW,
	"showline":  SHOWLINE,
	"input":     INPUT,
	"if":        IF,
	"then":      THEN,
	"else":      ELSE,
	"choose":    CHOOSE,
	"when":      WHEN,
	"otherwise": OTHERWISE,
	"try":       TRY,
	"capture":   CAPTURE,
	"while":     WHILE,
	"repeat":    REPEAT,
	"times":     TIMES,
	"for":       FOR,
	"foreach":   FOREACH,
	"from":      FROM,
	"step":      STEP,
	"by":        BY,
	"generate":  GENERATE,
	"stop":      STOP,
	"iterate":   ITERATE,
	"in":        IN,
	"over":      OVER,
	"function":  FUNCTION,
	"return":    RETURN,
	"class":     CLASS,
	"inherit":   INHERIT,
	"method":    METHOD,
	"init":      INIT,
	"this":      THIS,
	"parent":    PARENT,
	"new":       NEW,
	"secret":    SECRET,
	"public":    PUBLIC,
	"skip":      SKIP,
	"exit":      EXIT,
	"import":    IMPORT,
	"and":       AND,
	"or":        OR,
	"not":       NOT,
	"remind":    REMIND,
	"is":        IS,
	"raise":     RAISE,
	"error":     ERROR,
	"as":        AS,
	"inc":       INC,
	"dec":       DEC,
	"await":     AWAIT,
	"async":     ASYNC,
	"bytearray": BYTEARRAY,
	"callback":  CALLBACK,
	"true":      BOOLEAN,
	"false":     BOOLEAN,
	"null":      NULL,
}

// multiword maps a leading keyword to the second words it may combine with
// and the fused token type. "end if" and friends arrive as two words on one
// line and are fused here so the parser never has to look behind itself.
var multiword = map[TokenType]map[string]TokenType{
	endMark: {
		"if":       END_IF,
		"choose":   END_CHOOSE,
		"repeat":   END_REPEAT,
		"for":      END_FOR,
		"foreach":  END_FOREACH,
		"iterate":  END_ITERATE,
		"function": END_FUNCTION,
		"class":    END_CLASS,
		"method":   END_METHOD,
		"init":     END_INIT,
	},
	ELSE: {
		"if": ELSE_IF,
	},
	IS: {
		"in":  IS_IN,
		"not": IS_NOT,
	},
}

// Lexer scans an EasyBite source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of current token
	cur    int // current index
	line   int // 1-based
	col    int // 0-based column within line
	tokens []Token

	tokStartLine int
	tokStartCol  int
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:  src,
		line: 1,
		col:  0,
	}
}

// Tokenize scans the whole source in one call.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

// Scan produces the full token stream, ending with an EOF token.
func (l *Lexer) Scan() ([]Token, error) {
	for {
		tok, err := l.scanToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == EOF {
			return l.tokens, nil
		}
	}
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) peek() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	return l.src[l.cur], true
}

func (l *Lexer) peekN(n int) (byte, bool) {
	idx := l.cur + n
	if idx >= len(l.src) {
		return 0, false
	}
	return l.src[idx], true
}

func (l *Lexer) advance() (byte, bool) {
	if l.isAtEnd() {
		return 0, false
	}
	ch := l.src[l.cur]
	l.cur++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch, true
}

func (l *Lexer) addToken(tt TokenType, lit interface{}) Token {
	lex := l.src[l.start:l.cur]
	tok := Token{
		Type:    tt,
		Lexeme:  lex,
		Literal: lit,
		Line:    l.tokStartLine,
		Col:     l.tokStartCol,
	}
	l.tokens = append(l.tokens, tok)
	l.start = l.cur
	return tok
}

func (l *Lexer) previousToken() *Token {
	if len(l.tokens) == 0 {
		return nil
	}
	return &l.tokens[len(l.tokens)-1]
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch, _ := l.peek()
		switch ch {
		case ' ', '\r', '\n', '\t':
			l.advance()
			l.start = l.cur
		default:
			return
		}
	}
}

// canBeLeftOperand reports whether a token can end an operand, which decides
// if a following "-" is subtraction or the sign of a numeric literal.
func canBeLeftOperand(t TokenType) bool {
	switch t {
	case ID, STRING, NUMBER, BOOLEAN, NULL, THIS,
		RROUND, RSQUARE, RCURLY:
		return true
	default:
		return false
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9') ||
		b == '_'
}

func (l *Lexer) minusStartsNumber() bool {
	b, ok := l.peek()
	if !ok || !isDigit(b) {
		return false
	}
	prev := l.previousToken()
	return prev == nil || !canBeLeftOperand(prev.Type)
}

// LexError is a scanning failure with position info.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

func (l *Lexer) err(msg string) error {
	return &LexError{Line: l.tokStartLine, Col: l.tokStartCol, Msg: msg}
}

// scanString parses a string literal delimited by " or '. Escapes: \n, \t,
// \r, \\; any other \c passes c through unchanged.
func (l *Lexer) scanString(del byte) (string, error) {
	var out []byte
	for !l.isAtEnd() {
		ch, _ := l.advance()
		if ch == del {
			return string(out), nil
		}
		if ch == '\n' {
			return "", l.err("string was not terminated before end of line")
		}
		if ch == '\\' {
			esc, ok := l.advance()
			if !ok {
				return "", l.err("unfinished escape sequence")
			}
			switch esc {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			default:
				out = append(out, esc)
			}
			continue
		}
		out = append(out, ch)
	}
	return "", l.err("string was not terminated")
}

// scanIdentifier parses [A-Za-z_][A-Za-z0-9_]*. The first character was
// consumed by the caller.
func (l *Lexer) scanIdentifier() string {
	for {
		b, ok := l.peek()
		if !ok || !isAlphaNum(b) {
			break
		}
		l.advance()
	}
	return l.src[l.start:l.cur]
}

// scanNumber parses a float literal: digits with at most one '.' and an
// optional exponent. A leading '-' (when present) was consumed by the caller.
func (l *Lexer) scanNumber() (float64, error) {
	l.digits()
	if b, ok := l.peek(); ok && b == '.' {
		if b2, ok2 := l.peekN(1); ok2 && isDigit(b2) {
			l.advance()
			l.digits()
		}
	}
	if b, ok := l.peek(); ok && (b == 'e' || b == 'E') {
		if b2, ok2 := l.peekN(1); ok2 {
			if isDigit(b2) {
				l.advance()
				l.digits()
			} else if b2 == '+' || b2 == '-' {
				if b3, ok3 := l.peekN(2); ok3 && isDigit(b3) {
					l.advance()
					l.advance()
					l.digits()
				}
			}
		}
	}
	lex := l.src[l.start:l.cur]
	v, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		return 0, l.err(fmt.Sprintf("invalid number literal %q", lex))
	}
	return v, nil
}

func (l *Lexer) digits() {
	for {
		b, ok := l.peek()
		if !ok || !isDigit(b) {
			return
		}
		l.advance()
	}
}

// ignoreUntilNewline eats until '\n' or EOF.
func (l *Lexer) ignoreUntilNewline() {
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			return
		}
		l.advance()
	}
}

// peekWord looks ahead over same-line spaces and tabs for an identifier-like
// word. It does not consume; the returned end index lets the caller commit.
func (l *Lexer) peekWord() (word string, end int, ok bool) {
	i := l.cur
	for i < len(l.src) && (l.src[i] == ' ' || l.src[i] == '\t') {
		i++
	}
	if i >= len(l.src) || !isAlpha(l.src[i]) {
		return "", 0, false
	}
	j := i
	for j < len(l.src) && isAlphaNum(l.src[j]) {
		j++
	}
	return l.src[i:j], j, true
}

// commitWord consumes up to end (as returned by peekWord). Words never span
// lines, so only the column moves.
func (l *Lexer) commitWord(end int) {
	l.col += end - l.cur
	l.cur = end
}

func (l *Lexer) scanToken() (Token, error) {
	for {
		l.skipWhitespace()
		l.tokStartLine = l.line
		l.tokStartCol = l.col
		l.start = l.cur

		if l.isAtEnd() {
			return l.addToken(EOF, nil), nil
		}

		ch, _ := l.advance()

		switch ch {
		case '(':
			return l.addToken(LROUND, nil), nil
		case ')':
			return l.addToken(RROUND, nil), nil
		case '[':
			return l.addToken(LSQUARE, nil), nil
		case ']':
			return l.addToken(RSQUARE, nil), nil
		case '{':
			return l.addToken(LCURLY, nil), nil
		case '}':
			return l.addToken(RCURLY, nil), nil
		case ':':
			return l.addToken(COLON, nil), nil
		case ',':
			return l.addToken(COMMA, nil), nil
		case ';':
			return l.addToken(SEMICOLON, nil), nil
		case '.':
			return l.addToken(PERIOD, nil), nil
		case '+':
			return l.addToken(PLUS, nil), nil
		case '*':
			return l.addToken(MULT, nil), nil
		case '^':
			return l.addToken(POW, nil), nil
		case '/':
			if b, ok := l.peek(); ok && b == '/' {
				l.ignoreUntilNewline()
				l.start = l.cur
				continue
			}
			return l.addToken(DIV, nil), nil
		case '-':
			if l.minusStartsNumber() {
				v, err := l.scanNumber()
				if err != nil {
					return Token{}, err
				}
				return l.addToken(NUMBER, v), nil
			}
			return l.addToken(MINUS, nil), nil
		case '=':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(EQ, nil), nil
			}
			return Token{}, l.err("unexpected '='; use '==' to compare or 'set ... to ...' to assign")
		case '!':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(NEQ, nil), nil
			}
			return l.addToken(NOT, nil), nil
		case '<':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(LESS_EQ, nil), nil
			}
			return l.addToken(LESS, nil), nil
		case '>':
			if b, ok := l.peek(); ok && b == '=' {
				l.advance()
				return l.addToken(GREATER_EQ, nil), nil
			}
			return l.addToken(GREATER, nil), nil
		case '"', '\'':
			s, err := l.scanString(ch)
			if err != nil {
				return Token{}, err
			}
			return l.addToken(STRING, s), nil
		}

		if isDigit(ch) {
			// rewind one byte so scanNumber sees the full run
			l.cur--
			l.col--
			v, err := l.scanNumber()
			if err != nil {
				return Token{}, err
			}
			return l.addToken(NUMBER, v), nil
		}

		if isAlpha(ch) {
			word := l.scanIdentifier()
			return l.identToken(word)
		}

		return Token{}, l.err(fmt.Sprintf("unexpected character %q", string(ch)))
	}
}

// identToken classifies a scanned word: fused multi-word keyword, keyword,
// boolean, null, or plain identifier.
func (l *Lexer) identToken(word string) (Token, error) {
	if word == "end" {
		if next, end, ok := l.peekWord(); ok {
			if tt, found := multiword[endMark][next]; found {
				l.commitWord(end)
				return l.addToken(tt, nil), nil
			}
		}
		return Token{}, l.err("'end' must be followed by if, for, foreach, repeat, choose, iterate, function, class, method, or init")
	}

	tt, isKw := keywords[word]
	if !isKw {
		return l.addToken(ID, word), nil
	}

	if seconds, ok := multiword[tt]; ok {
		if next, end, found := l.peekWord(); found {
			if combined, match := seconds[next]; match {
				l.commitWord(end)
				return l.addToken(combined, nil), nil
			}
		}
	}

	switch tt {
	case BOOLEAN:
		return l.addToken(BOOLEAN, word == "true"), nil
	case NULL:
		return l.addToken(NULL, nil), nil
	default:
		return l.addToken(tt, nil), nil
	}
}
