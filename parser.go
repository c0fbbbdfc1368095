// parser.go — recursive-descent parser for EasyBite.
//
// OVERVIEW
// --------
// This module consumes the token stream produced by the lexer (see lexer.go)
// and builds the typed syntax tree defined in ast.go. Statements are keyword
// led ("declare", "set", "show", "if", ...), blocks run until their matching
// two-word terminator ("end if", "end for", ...), and newlines carry no
// grammar weight: statement boundaries fall out of the keyword structure,
// with ';' accepted as an optional separator.
//
// Expression parsing is precedence climbing. Low to high:
//
//	or
//	and
//	==  !=  is  is not  is in  in  <  <=  >  >=
//	+  -
//	*  /  remind
//	^                       (right-associative)
//	not  -                  (prefix)
//	postfix: call, [index], .member
//
// Assignment is not an operator. "set target to value" is a statement, and a
// bare "target to value" (no 'set') is accepted as the same statement, which
// is how fields are written inside methods: "this.total to 0".
//
// Two public entry points:
//
//	Parse(src)            — whole-program parse.
//	ParseInteractive(src) — REPL mode: running out of input inside an open
//	                        construct yields a *ParseError with Incomplete
//	                        set, detectable via IsIncomplete, so a REPL can
//	                        keep reading lines instead of reporting an error.
//
// Dependencies
// ------------
//   - lexer.go (tokens, LexError)
//   - ast.go (node types)
package easybite

import (
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Parse parses a complete EasyBite source string and returns its syntax tree.
func Parse(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.program()
}

// ParseInteractive parses in REPL-friendly mode. Constructs cut short by end
// of input produce a *ParseError with Incomplete set.
func ParseInteractive(src string) (*Program, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, interactive: true}
	return p.program()
}

// ParseError is a syntax failure with position info. Col is 0-based.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

// IsIncomplete reports whether err marks input that stopped mid-construct,
// the signal REPLs use to keep reading continuation lines.
func IsIncomplete(err error) bool {
	pe, ok := err.(*ParseError)
	return ok && pe.Incomplete
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
///////////////////////////// PRIVATE IMPLEMENTATION ///////////////////////////
////////////////////////////////////////////////////////////////////////////////

type parser struct {
	toks        []Token
	i           int
	interactive bool
}

// ─────────────────────────── token basics & helpers ─────────────────────────

func (p *parser) atEnd() bool { return p.peek().Type == EOF }

func (p *parser) peek() Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

func (p *parser) peekAt(n int) Token {
	idx := p.i + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) prev() Token { return p.toks[p.i-1] }

func (p *parser) advance() Token {
	t := p.peek()
	if !p.atEnd() {
		p.i++
	}
	return t
}

func (p *parser) match(tt ...TokenType) bool {
	if p.atEnd() {
		return false
	}
	for _, t := range tt {
		if p.peek().Type == t {
			p.i++
			return true
		}
	}
	return false
}

// errAtTok builds a ParseError at the given token. An error at EOF while in
// interactive mode is marked Incomplete.
func (p *parser) errAtTok(t Token, msg string) error {
	return &ParseError{
		Line:       t.Line,
		Col:        t.Col,
		Msg:        msg,
		Incomplete: p.interactive && t.Type == EOF,
	}
}

func (p *parser) need(t TokenType, msg string) (Token, error) {
	if p.match(t) {
		return p.prev(), nil
	}
	g := p.peek()
	return Token{}, p.errAtTok(g, fmt.Sprintf("%s, found %v", msg, g.Type))
}

// needEnd consumes a block terminator and, when it is missing, names the
// unclosed construct and where it started.
func (p *parser) needEnd(t TokenType, open Token) error {
	if p.match(t) {
		return nil
	}
	g := p.peek()
	return p.errAtTok(g, fmt.Sprintf("expected %v to close %v started at %d:%d, found %v",
		t, open.Type, open.Line, open.Col+1, g.Type))
}

func (p *parser) needIdent(what string) (Token, error) {
	if p.match(ID) {
		return p.prev(), nil
	}
	g := p.peek()
	return Token{}, p.errAtTok(g, fmt.Sprintf("expected %s, found %v", what, g.Type))
}

// ───────────────────────── precedence / associativity ──────────────────────

func lbp(t TokenType) (int, bool) {
	switch t {
	case OR:
		return 10, true
	case AND:
		return 20, true
	case EQ, NEQ, IS, IS_NOT, IS_IN, IN,
		LESS, LESS_EQ, GREATER, GREATER_EQ:
		return 30, true
	case PLUS, MINUS:
		return 40, true
	case MULT, DIV, REMIND:
		return 50, true
	case POW:
		return 60, true
	}
	return 0, false
}

func isRightAssoc(tt TokenType) bool { return tt == POW }

// ───────────────────────────── program & blocks ─────────────────────────────

func (p *parser) program() (*Program, error) {
	stmts, err := p.statementList()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		g := p.peek()
		return nil, p.errAtTok(g, fmt.Sprintf("unexpected %v", g.Type))
	}
	return &Program{Stmts: stmts}, nil
}

// statementList parses statements until one of the stop tokens, a clause
// keyword (when/otherwise/else/else if), or end of input. The stopping token
// is left for the caller to consume.
func (p *parser) statementList(stops ...TokenType) ([]Stmt, error) {
	var out []Stmt
	for {
		for p.match(SEMICOLON) {
		}
		t := p.peek().Type
		if t == EOF || t == WHEN || t == OTHERWISE || t == ELSE || t == ELSE_IF {
			return out, nil
		}
		stopped := false
		for _, s := range stops {
			if t == s {
				stopped = true
				break
			}
		}
		if stopped {
			return out, nil
		}
		st, err := p.statement()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
}

// ───────────────────────────── statements ─────────────────────────────

func (p *parser) statement() (Stmt, error) {
	switch p.peek().Type {
	case DECLARE:
		return p.declareStatement()
	case SET:
		return p.setStatement()
	case SHOW:
		return p.showStatement()
	case SHOWLINE:
		return p.showLineStatement()
	case INPUT:
		return p.inputStatement()
	case IF:
		return p.ifStatement()
	case CHOOSE:
		return p.chooseStatement()
	case TRY:
		return p.tryStatement()
	case REPEAT:
		return p.repeatStatement()
	case FOR:
		return p.forStatement()
	case FOREACH:
		return p.foreachStatement()
	case GENERATE:
		return p.generateStatement()
	case ITERATE:
		return p.iterateStatement()
	case FUNCTION:
		return p.functionDeclaration()
	case CLASS:
		return p.classDeclaration()
	case RETURN:
		return p.returnStatement()
	case SKIP:
		t := p.advance()
		return &SkipStatement{pos: at(t)}, nil
	case STOP:
		t := p.advance()
		return &StopStatement{pos: at(t)}, nil
	case EXIT:
		t := p.advance()
		return &ExitStatement{pos: at(t)}, nil
	case RAISE:
		return p.raiseStatement()
	case IMPORT:
		return p.importStatement()
	case FROM:
		return p.fromImportStatement()
	default:
		return p.exprOrAssignStatement()
	}
}

// exprOrAssignStatement parses an expression statement, upgrading it to an
// assignment when a 'to' follows: "total to 0", "this.name to n",
// "grid[1][2] to 9".
func (p *parser) exprOrAssignStatement() (Stmt, error) {
	start := p.peek()
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.match(TO) {
		if !isLvalue(e) {
			return nil, p.errAtTok(start, "invalid assignment target before 'to'")
		}
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &SetStatement{pos: at(start), Target: e, Value: v}, nil
	}
	return &ExprStatement{pos: at(start), Value: e}, nil
}

func isLvalue(e Expr) bool {
	switch e.(type) {
	case *Identifier, *Index, *Member:
		return true
	}
	return false
}

func (p *parser) declareStatement() (Stmt, error) {
	kw := p.advance()
	var targets []DeclTarget
	for {
		name, err := p.needIdent("variable name after 'declare'")
		if err != nil {
			return nil, err
		}
		dt := DeclTarget{Name: name.Literal.(string)}
		if p.match(LSQUARE) {
			size, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RSQUARE, "expected ']' after array size"); err != nil {
				return nil, err
			}
			dt.Size = size
		}
		targets = append(targets, dt)
		if !p.match(COMMA) {
			break
		}
	}
	return &DeclareStatement{pos: at(kw), Targets: targets}, nil
}

func (p *parser) setStatement() (Stmt, error) {
	kw := p.advance()
	target, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !isLvalue(target) {
		return nil, p.errAtTok(kw, "'set' needs a variable, index, or field target")
	}
	if _, err := p.need(TO, "expected 'to' after assignment target"); err != nil {
		return nil, err
	}
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &SetStatement{pos: at(kw), Target: target, Value: value}, nil
}

func (p *parser) showStatement() (Stmt, error) {
	kw := p.advance()
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ShowStatement{pos: at(kw), Value: e}, nil
}

func (p *parser) showLineStatement() (Stmt, error) {
	kw := p.advance()
	if _, err := p.need(LROUND, "expected '(' after 'showline'"); err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "showline takes no arguments; expected ')'"); err != nil {
		return nil, err
	}
	return &ShowLineStatement{pos: at(kw)}, nil
}

func (p *parser) inputStatement() (Stmt, error) {
	kw := p.advance()
	target, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !isLvalue(target) {
		return nil, p.errAtTok(kw, "'input' needs a variable, index, or field target")
	}
	if _, err := p.need(TO, "expected 'to' after input target"); err != nil {
		return nil, err
	}
	if _, err := p.need(INPUT, "expected 'input(...)' after 'to'"); err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after 'input'"); err != nil {
		return nil, err
	}
	var prompt Expr
	if p.peek().Type != RROUND {
		prompt, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.need(RROUND, "expected ')' after input prompt"); err != nil {
		return nil, err
	}
	return &InputStatement{pos: at(kw), Target: target, Prompt: prompt}, nil
}

func (p *parser) ifStatement() (Stmt, error) {
	kw := p.advance()
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(THEN, "expected 'then' after if condition"); err != nil {
		return nil, err
	}
	then, err := p.statementList(END_IF)
	if err != nil {
		return nil, err
	}
	var elseIfs []ElseIfClause
	for p.match(ELSE_IF) {
		c, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(THEN, "expected 'then' after else if condition"); err != nil {
			return nil, err
		}
		body, err := p.statementList(END_IF)
		if err != nil {
			return nil, err
		}
		elseIfs = append(elseIfs, ElseIfClause{Cond: c, Body: body})
	}
	var elseBody []Stmt
	if p.match(ELSE) {
		elseBody, err = p.statementList(END_IF)
		if err != nil {
			return nil, err
		}
		if elseBody == nil {
			elseBody = []Stmt{}
		}
	}
	if err := p.needEnd(END_IF, kw); err != nil {
		return nil, err
	}
	return &IfStatement{pos: at(kw), Cond: cond, Then: then, ElseIfs: elseIfs, Else: elseBody}, nil
}

func (p *parser) chooseStatement() (Stmt, error) {
	kw := p.advance()
	subject, err := p.expression()
	if err != nil {
		return nil, err
	}
	var whens []WhenClause
	for p.match(WHEN) {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(COLON, "expected ':' after when value"); err != nil {
			return nil, err
		}
		body, err := p.statementList(END_CHOOSE)
		if err != nil {
			return nil, err
		}
		whens = append(whens, WhenClause{Value: v, Body: body})
	}
	var otherwise []Stmt
	if p.match(OTHERWISE) {
		if _, err := p.need(COLON, "expected ':' after 'otherwise'"); err != nil {
			return nil, err
		}
		otherwise, err = p.statementList(END_CHOOSE)
		if err != nil {
			return nil, err
		}
		if otherwise == nil {
			otherwise = []Stmt{}
		}
	}
	if err := p.needEnd(END_CHOOSE, kw); err != nil {
		return nil, err
	}
	return &ChooseStatement{pos: at(kw), Subject: subject, Whens: whens, Otherwise: otherwise}, nil
}

func (p *parser) tryStatement() (Stmt, error) {
	kw := p.advance()
	body, err := p.statementList(CAPTURE)
	if err != nil {
		return nil, err
	}
	if _, err := p.need(CAPTURE, "expected 'capture' after try body"); err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after 'capture'"); err != nil {
		return nil, err
	}
	name, err := p.needIdent("capture variable name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "expected ')' after capture variable"); err != nil {
		return nil, err
	}
	handler, err := p.statementList(STOP)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(STOP, kw); err != nil {
		return nil, err
	}
	return &TryStatement{
		pos:        at(kw),
		Body:       body,
		CaptureVar: name.Literal.(string),
		Handler:    handler,
	}, nil
}

// repeatStatement parses both repeat forms: "repeat while (cond)" and
// "repeat N times".
func (p *parser) repeatStatement() (Stmt, error) {
	kw := p.advance()
	if p.match(WHILE) {
		if _, err := p.need(LROUND, "expected '(' after 'repeat while'"); err != nil {
			return nil, err
		}
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' after while condition"); err != nil {
			return nil, err
		}
		body, err := p.statementList(END_REPEAT)
		if err != nil {
			return nil, err
		}
		if err := p.needEnd(END_REPEAT, kw); err != nil {
			return nil, err
		}
		return &WhileStatement{pos: at(kw), Cond: cond, Body: body}, nil
	}
	count, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TIMES, "expected 'times' after repeat count"); err != nil {
		return nil, err
	}
	body, err := p.statementList(END_REPEAT)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(END_REPEAT, kw); err != nil {
		return nil, err
	}
	return &RepeatStatement{pos: at(kw), Count: count, Body: body}, nil
}

func (p *parser) forStatement() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("loop variable after 'for'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(FROM, "expected 'from' after loop variable"); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TO, "expected 'to' after loop start"); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	var step Expr
	if p.match(STEP) {
		step, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.statementList(END_FOR)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(END_FOR, kw); err != nil {
		return nil, err
	}
	return &ForStatement{
		pos:  at(kw),
		Var:  name.Literal.(string),
		From: from,
		To:   to,
		Step: step,
		Body: body,
	}, nil
}

func (p *parser) foreachStatement() (Stmt, error) {
	kw := p.advance()
	hasParens := p.match(LROUND)
	var vars []string
	for {
		name, err := p.needIdent("loop variable after 'foreach'")
		if err != nil {
			return nil, err
		}
		vars = append(vars, name.Literal.(string))
		if !p.match(COMMA) {
			break
		}
	}
	if hasParens {
		if _, err := p.need(RROUND, "expected ')' after foreach variables"); err != nil {
			return nil, err
		}
	}
	if _, err := p.need(IN, "expected 'in' after foreach variables"); err != nil {
		return nil, err
	}
	iterable, err := p.expression()
	if err != nil {
		return nil, err
	}
	body, err := p.statementList(END_FOREACH)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(END_FOREACH, kw); err != nil {
		return nil, err
	}
	return &ForeachStatement{pos: at(kw), Vars: vars, Iterable: iterable, Body: body}, nil
}

func (p *parser) generateStatement() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("loop variable after 'generate'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(FROM, "expected 'from' after loop variable"); err != nil {
		return nil, err
	}
	from, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(TO, "expected 'to' after loop start"); err != nil {
		return nil, err
	}
	to, err := p.expression()
	if err != nil {
		return nil, err
	}
	var by Expr
	if p.match(BY) {
		by, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	body, err := p.statementList(STOP)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(STOP, kw); err != nil {
		return nil, err
	}
	return &GenerateStatement{
		pos:  at(kw),
		Var:  name.Literal.(string),
		From: from,
		To:   to,
		By:   by,
		Body: body,
	}, nil
}

func (p *parser) iterateStatement() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("loop variable after 'iterate'")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(OVER, "expected 'over' after loop variable"); err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after 'over'"); err != nil {
		return nil, err
	}
	over, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(RROUND, "expected ')' after iterate expression"); err != nil {
		return nil, err
	}
	body, err := p.statementList(END_ITERATE)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(END_ITERATE, kw); err != nil {
		return nil, err
	}
	return &IterateStatement{pos: at(kw), Var: name.Literal.(string), Over: over, Body: body}, nil
}

func (p *parser) functionDeclaration() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after function name"); err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	body, err := p.statementList(END_FUNCTION)
	if err != nil {
		return nil, err
	}
	if err := p.needEnd(END_FUNCTION, kw); err != nil {
		return nil, err
	}
	return &FunctionDeclaration{
		pos:    at(kw),
		Name:   name.Literal.(string),
		Params: params,
		Body:   body,
	}, nil
}

// params parses a parameter list after the opening '(' and consumes the
// closing ')'. Defaults use 'to': "function f(a, b to 10)".
func (p *parser) params() ([]Param, error) {
	var out []Param
	if p.match(RROUND) {
		return out, nil
	}
	for {
		name, err := p.needIdent("parameter name")
		if err != nil {
			return nil, err
		}
		param := Param{Name: name.Literal.(string)}
		if p.match(TO) {
			def, err := p.expression()
			if err != nil {
				return nil, err
			}
			param.Default = def
		}
		out = append(out, param)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RROUND, "expected ')' after parameters"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) returnStatement() (Stmt, error) {
	kw := p.advance()
	next := p.peek()
	if next.Line != kw.Line || !canStartExpression(next.Type) {
		return &ReturnStatement{pos: at(kw)}, nil
	}
	v, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &ReturnStatement{pos: at(kw), Value: v}, nil
}

// canStartExpression reports whether a token can open an expression, which
// decides if "return" carries a value.
func canStartExpression(t TokenType) bool {
	switch t {
	case ID, NUMBER, STRING, BOOLEAN, NULL,
		LROUND, LSQUARE, LCURLY,
		MINUS, NOT, IF, NEW, THIS, PARENT, INPUT:
		return true
	}
	return false
}

func (p *parser) raiseStatement() (Stmt, error) {
	kw := p.advance()
	if _, err := p.need(ERROR, "expected 'error' after 'raise'"); err != nil {
		return nil, err
	}
	if _, err := p.need(LROUND, "expected '(' after 'error'"); err != nil {
		return nil, err
	}
	var value Expr
	if p.peek().Type != RROUND {
		v, err := p.expression()
		if err != nil {
			return nil, err
		}
		value = v
	}
	if _, err := p.need(RROUND, "expected ')' after error value"); err != nil {
		return nil, err
	}
	return &RaiseStatement{pos: at(kw), Value: value}, nil
}

func (p *parser) importStatement() (Stmt, error) {
	kw := p.advance()
	var modules []string
	for {
		m, err := p.modulePath()
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
		if !p.match(COMMA) {
			break
		}
	}
	return &ImportStatement{pos: at(kw), Modules: modules}, nil
}

func (p *parser) fromImportStatement() (Stmt, error) {
	kw := p.advance()
	module, err := p.modulePath()
	if err != nil {
		return nil, err
	}
	if _, err := p.need(IMPORT, "expected 'import' after module name"); err != nil {
		return nil, err
	}
	var names []string
	for {
		n, err := p.needIdent("imported name")
		if err != nil {
			return nil, err
		}
		names = append(names, n.Literal.(string))
		if !p.match(COMMA) {
			break
		}
	}
	return &FromImportStatement{pos: at(kw), Module: module, Names: names}, nil
}

// modulePath parses a module reference: a quoted string kept verbatim, or a
// dotted identifier chain joined with '.'.
func (p *parser) modulePath() (string, error) {
	if p.match(STRING) {
		return p.prev().Literal.(string), nil
	}
	name, err := p.needIdent("module name")
	if err != nil {
		return "", err
	}
	parts := []string{name.Literal.(string)}
	for p.peek().Type == PERIOD && p.peekAt(1).Type == ID {
		p.advance()
		parts = append(parts, p.advance().Literal.(string))
	}
	return strings.Join(parts, "."), nil
}

// ───────────────────────────── class declarations ───────────────────────────

func (p *parser) classDeclaration() (Stmt, error) {
	kw := p.advance()
	name, err := p.needIdent("class name")
	if err != nil {
		return nil, err
	}
	parent := ""
	if p.match(INHERIT) {
		ptok, err := p.needIdent("parent class name after 'inherit'")
		if err != nil {
			return nil, err
		}
		parent = ptok.Literal.(string)
	}
	cls := &ClassDeclaration{
		pos:    at(kw),
		Name:   name.Literal.(string),
		Parent: parent,
	}
	for {
		for p.match(SEMICOLON) {
		}
		if p.peek().Type == END_CLASS || p.peek().Type == EOF {
			break
		}
		if err := p.classMember(cls); err != nil {
			return nil, err
		}
	}
	if err := p.needEnd(END_CLASS, kw); err != nil {
		return nil, err
	}
	return cls, nil
}

func (p *parser) classMember(cls *ClassDeclaration) error {
	secret := false
	if p.match(SECRET) {
		secret = true
	} else {
		p.match(PUBLIC)
	}

	switch p.peek().Type {
	case DECLARE:
		kw := p.advance()
		for {
			name, err := p.needIdent("field name after 'declare'")
			if err != nil {
				return err
			}
			fd := FieldDecl{pos: at(kw), Secret: secret, Name: name.Literal.(string)}
			if p.match(LSQUARE) {
				size, err := p.expression()
				if err != nil {
					return err
				}
				if _, err := p.need(RSQUARE, "expected ']' after field array size"); err != nil {
					return err
				}
				fd.Size = size
			}
			cls.Fields = append(cls.Fields, fd)
			if !p.match(COMMA) {
				break
			}
		}
		return nil

	case SET:
		kw := p.advance()
		name, err := p.needIdent("field name after 'set'")
		if err != nil {
			return err
		}
		if _, err := p.need(TO, "expected 'to' after field name"); err != nil {
			return err
		}
		value, err := p.expression()
		if err != nil {
			return err
		}
		cls.Fields = append(cls.Fields, FieldDecl{
			pos: at(kw), Secret: secret, Name: name.Literal.(string), Value: value,
		})
		return nil

	case ID:
		// "count to 0": field with initializer, no 'set'.
		name := p.advance()
		if _, err := p.need(TO, "expected 'to' after field name"); err != nil {
			return err
		}
		value, err := p.expression()
		if err != nil {
			return err
		}
		cls.Fields = append(cls.Fields, FieldDecl{
			pos: at(name), Secret: secret, Name: name.Literal.(string), Value: value,
		})
		return nil

	case METHOD:
		kw := p.advance()
		name, err := p.needIdent("method name")
		if err != nil {
			return err
		}
		if _, err := p.need(LROUND, "expected '(' after method name"); err != nil {
			return err
		}
		params, err := p.params()
		if err != nil {
			return err
		}
		body, err := p.statementList(END_METHOD)
		if err != nil {
			return err
		}
		if err := p.needEnd(END_METHOD, kw); err != nil {
			return err
		}
		cls.Methods = append(cls.Methods, MethodDecl{
			pos:    at(kw),
			Secret: secret,
			Name:   name.Literal.(string),
			Params: params,
			Body:   body,
		})
		return nil

	case INIT:
		kw := p.advance()
		if cls.Init != nil {
			return p.errAtTok(kw, fmt.Sprintf("class %q already has an init", cls.Name))
		}
		if _, err := p.need(LROUND, "expected '(' after 'init'"); err != nil {
			return err
		}
		params, err := p.params()
		if err != nil {
			return err
		}
		body, err := p.statementList(END_INIT)
		if err != nil {
			return err
		}
		if err := p.needEnd(END_INIT, kw); err != nil {
			return err
		}
		cls.Init = &InitDecl{pos: at(kw), Params: params, Body: body}
		return nil

	default:
		g := p.peek()
		return p.errAtTok(g, fmt.Sprintf("unexpected %v in class body", g.Type))
	}
}

// ───────────────────────────── expressions ─────────────────────────────

func (p *parser) expression() (Expr, error) {
	return p.binary(0)
}

func (p *parser) binary(minBP int) (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		opTok := p.peek()
		bp, isOp := lbp(opTok.Type)
		if !isOp || bp < minBP {
			return left, nil
		}
		p.advance()
		nextMin := bp + 1
		if isRightAssoc(opTok.Type) {
			nextMin = bp
		}
		right, err := p.binary(nextMin)
		if err != nil {
			return nil, err
		}
		left = &Binary{pos: at(opTok), Op: opTok.Type, Left: left, Right: right}
	}
}

func (p *parser) unary() (Expr, error) {
	t := p.peek()
	if t.Type == NOT || t.Type == MINUS {
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{pos: at(t), Op: t.Type, Operand: operand}, nil
	}
	return p.postfix()
}

// postfix parses a primary expression followed by any number of calls,
// index brackets, and member accesses. A call whose callee is a member
// access is a method call; dispatch happens at evaluation time.
func (p *parser) postfix() (Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek().Type {
		case LROUND:
			open := p.advance()
			args, err := p.args()
			if err != nil {
				return nil, err
			}
			e = &Call{pos: at(open), Callee: e, Args: args}
		case LSQUARE:
			open := p.advance()
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.need(RSQUARE, "expected ']' after index"); err != nil {
				return nil, err
			}
			e = &Index{pos: at(open), Object: e, Key: key}
		case PERIOD:
			dot := p.advance()
			name, err := p.needIdent("member name after '.'")
			if err != nil {
				return nil, err
			}
			e = &Member{pos: at(dot), Object: e, Name: name.Literal.(string)}
		default:
			return e, nil
		}
	}
}

// args parses a comma-separated argument list and consumes the closing ')'.
func (p *parser) args() ([]Expr, error) {
	var out []Expr
	if p.match(RROUND) {
		return out, nil
	}
	for {
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
		if !p.match(COMMA) {
			break
		}
	}
	if _, err := p.need(RROUND, "expected ')' after arguments"); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *parser) primary() (Expr, error) {
	t := p.peek()
	switch t.Type {
	case NUMBER:
		p.advance()
		return &NumberLiteral{pos: at(t), Value: t.Literal.(float64)}, nil
	case STRING:
		p.advance()
		return &StringLiteral{pos: at(t), Value: t.Literal.(string)}, nil
	case BOOLEAN:
		p.advance()
		return &BooleanLiteral{pos: at(t), Value: t.Literal.(bool)}, nil
	case NULL:
		p.advance()
		return &NullLiteral{pos: at(t)}, nil
	case ID:
		p.advance()
		return &Identifier{pos: at(t), Name: t.Literal.(string)}, nil
	case THIS:
		p.advance()
		return &This{pos: at(t)}, nil

	case LROUND:
		p.advance()
		e, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(RROUND, "expected ')' after expression"); err != nil {
			return nil, err
		}
		return e, nil

	case LSQUARE:
		p.advance()
		var elems []Expr
		if p.peek().Type != RSQUARE {
			for {
				e, err := p.expression()
				if err != nil {
					return nil, err
				}
				elems = append(elems, e)
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RSQUARE, "expected ']' after array elements"); err != nil {
			return nil, err
		}
		return &ArrayLiteral{pos: at(t), Elems: elems}, nil

	case LCURLY:
		p.advance()
		var entries []DictEntry
		if p.peek().Type != RCURLY {
			for {
				keyTok, err := p.need(STRING, "dictionary keys must be string literals")
				if err != nil {
					return nil, err
				}
				if _, err := p.need(COLON, "expected ':' after dictionary key"); err != nil {
					return nil, err
				}
				v, err := p.expression()
				if err != nil {
					return nil, err
				}
				entries = append(entries, DictEntry{
					Key:   &StringLiteral{pos: at(keyTok), Value: keyTok.Literal.(string)},
					Value: v,
				})
				if !p.match(COMMA) {
					break
				}
			}
		}
		if _, err := p.need(RCURLY, "expected '}' after dictionary entries"); err != nil {
			return nil, err
		}
		return &DictLiteral{pos: at(t), Entries: entries}, nil

	case IF:
		// Inline conditional: if c then a else b.
		p.advance()
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(THEN, "expected 'then' in conditional expression"); err != nil {
			return nil, err
		}
		thenE, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(ELSE, "expected 'else' in conditional expression"); err != nil {
			return nil, err
		}
		elseE, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &Ternary{pos: at(t), Cond: cond, Then: thenE, Else: elseE}, nil

	case NEW:
		p.advance()
		cls, err := p.classPath()
		if err != nil {
			return nil, err
		}
		if _, err := p.need(LROUND, "expected '(' after class name"); err != nil {
			return nil, err
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &New{pos: at(t), Class: cls, Args: args}, nil

	case PARENT:
		p.advance()
		if _, err := p.need(PERIOD, "expected '.' after 'parent'"); err != nil {
			return nil, err
		}
		name, err := p.needIdent("method name after 'parent.'")
		if err != nil {
			return nil, err
		}
		if _, err := p.need(LROUND, "expected '(' after parent method name"); err != nil {
			return nil, err
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		if name.Literal.(string) == "init" {
			return &ParentInit{pos: at(t), Args: args}, nil
		}
		return &ParentCall{pos: at(t), Method: name.Literal.(string), Args: args}, nil

	case INPUT:
		p.advance()
		if _, err := p.need(LROUND, "expected '(' after 'input'"); err != nil {
			return nil, err
		}
		args, err := p.args()
		if err != nil {
			return nil, err
		}
		return &Call{
			pos:    at(t),
			Callee: &Identifier{pos: at(t), Name: "input"},
			Args:   args,
		}, nil
	}

	return nil, p.errAtTok(t, fmt.Sprintf("expected an expression, found %v", t.Type))
}

// classPath parses a class reference after 'new': an identifier, optionally
// qualified with dots ("shapes.Circle").
func (p *parser) classPath() (Expr, error) {
	name, err := p.needIdent("class name after 'new'")
	if err != nil {
		return nil, err
	}
	var e Expr = &Identifier{pos: at(name), Name: name.Literal.(string)}
	for p.peek().Type == PERIOD && p.peekAt(1).Type == ID {
		dot := p.advance()
		field := p.advance()
		e = &Member{pos: at(dot), Object: e, Name: field.Literal.(string)}
	}
	return e, nil
}
