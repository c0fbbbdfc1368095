// ast.go: typed syntax tree produced by the parser and walked by the
// interpreter.
//
// Every node carries the 1-based line and 0-based column of the token that
// opened it, so runtime errors can point back into the source. Statements and
// expressions are separate interfaces; blocks are plain []Stmt slices.
package easybite

// Node is any element of the syntax tree.
type Node interface {
	Pos() (line, col int)
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

type pos struct {
	Line int
	Col  int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

func at(t Token) pos { return pos{Line: t.Line, Col: t.Col} }

// Program is a parsed source file.
type Program struct {
	Stmts []Stmt
}

// ───────────────────────────── statements ─────────────────────────────

// DeclTarget is one name in a declare statement, with an optional pre-size
// for "declare arr[10]".
type DeclTarget struct {
	Name string
	Size Expr // nil unless declared with [n]
}

type DeclareStatement struct {
	pos
	Targets []DeclTarget
}

// SetStatement assigns Value to Target, which is an *Identifier, *Index, or
// *Member lvalue.
type SetStatement struct {
	pos
	Target Expr
	Value  Expr
}

type ShowStatement struct {
	pos
	Value Expr
}

// ShowLineStatement emits a bare newline; "showline()" takes no argument.
type ShowLineStatement struct {
	pos
}

// InputStatement reads a line into Target: "input name to input(prompt)".
type InputStatement struct {
	pos
	Target Expr
	Prompt Expr
}

type ElseIfClause struct {
	Cond Expr
	Body []Stmt
}

type IfStatement struct {
	pos
	Cond    Expr
	Then    []Stmt
	ElseIfs []ElseIfClause
	Else    []Stmt // nil when absent
}

type WhenClause struct {
	Value Expr
	Body  []Stmt
}

type ChooseStatement struct {
	pos
	Subject   Expr
	Whens     []WhenClause
	Otherwise []Stmt // nil when absent
}

type TryStatement struct {
	pos
	Body       []Stmt
	CaptureVar string
	Handler    []Stmt
}

// WhileStatement is "repeat while (cond) ... end repeat".
type WhileStatement struct {
	pos
	Cond Expr
	Body []Stmt
}

// RepeatStatement is "repeat N times ... end repeat".
type RepeatStatement struct {
	pos
	Count Expr
	Body  []Stmt
}

type ForStatement struct {
	pos
	Var  string
	From Expr
	To   Expr
	Step Expr // nil means 1
	Body []Stmt
}

// GenerateStatement is the "generate i from a to b by s ... stop" loop.
type GenerateStatement struct {
	pos
	Var  string
	From Expr
	To   Expr
	By   Expr // nil means 1
	Body []Stmt
}

// IterateStatement is "iterate n over (expr) ... end iterate".
type IterateStatement struct {
	pos
	Var  string
	Over Expr
	Body []Stmt
}

type ForeachStatement struct {
	pos
	Vars     []string // one or two names
	Iterable Expr
	Body     []Stmt
}

// Param is a function or method parameter, optionally with a default:
// "name" or "name to expr".
type Param struct {
	Name    string
	Default Expr // nil when required
}

type FunctionDeclaration struct {
	pos
	Name   string
	Params []Param
	Body   []Stmt
}

// FieldDecl is a class field with optional access modifier and initializer.
type FieldDecl struct {
	pos
	Secret bool
	Name   string
	Value  Expr // nil when declared without a value
	Size   Expr // nil unless declared as name[n]
}

type MethodDecl struct {
	pos
	Secret bool
	Name   string
	Params []Param
	Body   []Stmt
}

type InitDecl struct {
	pos
	Params []Param
	Body   []Stmt
}

type ClassDeclaration struct {
	pos
	Name    string
	Parent  string // "" when the class inherits nothing
	Fields  []FieldDecl
	Init    *InitDecl
	Methods []MethodDecl
}

type ReturnStatement struct {
	pos
	Value Expr // nil for a bare return
}

type SkipStatement struct {
	pos
}

type StopStatement struct {
	pos
}

type ExitStatement struct {
	pos
}

// RaiseStatement is "raise error(expr)"; Value is nil for "raise error()".
type RaiseStatement struct {
	pos
	Value Expr
}

// ImportStatement imports one or more modules by name. Dotted names keep
// their dots ("pkg.helpers"); quoted names keep their text verbatim.
type ImportStatement struct {
	pos
	Modules []string
}

type FromImportStatement struct {
	pos
	Module string
	Names  []string
}

// ExprStatement wraps an expression evaluated for its effect, such as a bare
// call.
type ExprStatement struct {
	pos
	Value Expr
}

func (*DeclareStatement) stmtNode()    {}
func (*SetStatement) stmtNode()        {}
func (*ShowStatement) stmtNode()       {}
func (*ShowLineStatement) stmtNode()   {}
func (*InputStatement) stmtNode()      {}
func (*IfStatement) stmtNode()         {}
func (*ChooseStatement) stmtNode()     {}
func (*TryStatement) stmtNode()        {}
func (*WhileStatement) stmtNode()      {}
func (*RepeatStatement) stmtNode()     {}
func (*ForStatement) stmtNode()        {}
func (*GenerateStatement) stmtNode()   {}
func (*IterateStatement) stmtNode()    {}
func (*ForeachStatement) stmtNode()    {}
func (*FunctionDeclaration) stmtNode() {}
func (*ClassDeclaration) stmtNode()    {}
func (*ReturnStatement) stmtNode()     {}
func (*SkipStatement) stmtNode()       {}
func (*StopStatement) stmtNode()       {}
func (*ExitStatement) stmtNode()       {}
func (*RaiseStatement) stmtNode()      {}
func (*ImportStatement) stmtNode()     {}
func (*FromImportStatement) stmtNode() {}
func (*ExprStatement) stmtNode()       {}

// ───────────────────────────── expressions ─────────────────────────────

type Identifier struct {
	pos
	Name string
}

type NumberLiteral struct {
	pos
	Value float64
}

type StringLiteral struct {
	pos
	Value string
}

type BooleanLiteral struct {
	pos
	Value bool
}

type NullLiteral struct {
	pos
}

type ArrayLiteral struct {
	pos
	Elems []Expr
}

// DictEntry is one key/value pair in a dictionary literal.
type DictEntry struct {
	Key   Expr
	Value Expr
}

type DictLiteral struct {
	pos
	Entries []DictEntry
}

// Binary is an infix operation; Op is the operator's token type.
type Binary struct {
	pos
	Op    TokenType
	Left  Expr
	Right Expr
}

// Unary is prefix "-" or "not".
type Unary struct {
	pos
	Op      TokenType
	Operand Expr
}

// Ternary is the inline conditional "if c then a else b".
type Ternary struct {
	pos
	Cond Expr
	Then Expr
	Else Expr
}

// Call invokes Callee with Args. A *Member callee is a method call.
type Call struct {
	pos
	Callee Expr
	Args   []Expr
}

// Index is one bracket access; chains like a[0]["k"] nest.
type Index struct {
	pos
	Object Expr
	Key    Expr
}

// Member is dot access: object.name.
type Member struct {
	pos
	Object Expr
	Name   string
}

// New instantiates a class: "new Point(1, 2)".
type New struct {
	pos
	Class Expr
	Args  []Expr
}

type This struct {
	pos
}

// ParentCall invokes a method on the superclass: "parent.describe()".
type ParentCall struct {
	pos
	Method string
	Args   []Expr
}

// ParentInit chains to the superclass constructor: "parent.init(args)"
// inside init.
type ParentInit struct {
	pos
	Args []Expr
}

func (*Identifier) exprNode()     {}
func (*NumberLiteral) exprNode()  {}
func (*StringLiteral) exprNode()  {}
func (*BooleanLiteral) exprNode() {}
func (*NullLiteral) exprNode()    {}
func (*ArrayLiteral) exprNode()   {}
func (*DictLiteral) exprNode()    {}
func (*Binary) exprNode()         {}
func (*Unary) exprNode()          {}
func (*Ternary) exprNode()        {}
func (*Call) exprNode()           {}
func (*Index) exprNode()          {}
func (*Member) exprNode()         {}
func (*New) exprNode()            {}
func (*This) exprNode()           {}
func (*ParentCall) exprNode()     {}
func (*ParentInit) exprNode()     {}
