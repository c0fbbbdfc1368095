// interpreter.go — public API surface for the EasyBite interpreter.
//
// OVERVIEW
// ========
// This file exposes the public surface of the EasyBite runtime: environments,
// the Interpreter with its canonical entry points, the runtime error type,
// and the registration seam for native builtins. The value model lives in
// value.go; execution lives in the private files interpreter_exec.go and
// interpreter_ops.go.
//
// EXECUTION & SCOPING
// -------------------
// Programs evaluate in environments (*Env) forming a lexical chain via
// parent. The Interpreter owns one well-known frame, Global, which holds
// program state. Entry points differ only in which environment they target:
//   - EvalSource evaluates in a fresh child of Global: bindings made by the
//     program land in that throwaway child and Global stays clean.
//   - EvalPersistentSource and Run evaluate in Global itself (REPL and
//     script execution), so assignments update persistent state.
//
// Builtins do not live in an environment: a call whose target name matches a
// registered builtin bypasses user-function lookup entirely, so user code
// can shadow a builtin name with a variable without breaking calls to the
// builtin.
//
// RUNTIME ERRORS
// --------------
// All entry points return (Value, error). Failures during execution surface
// as *RuntimeError with a stable Kind label and a 1-based position. Parse
// and lex failures surface as *ParseError / *LexError. The library returns
// these typed errors bare; caret-style rendering happens at the CLI boundary
// via WrapErrorWithName (errors.go).
//
// NATIVES
// -------
// RegisterNative installs a named builtin; RegisterMethod installs a method
// on a receiver tag, implementing method-call syntax on plain values
// ("hi".count(), arr.append(x)). Both take the NativeFn signature from
// value.go. Host state crosses the boundary as opaque Handle values
// (runtime.go); the evaluator never inspects a handle's payload.

package easybite

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
//                              RUNTIME ERRORS
////////////////////////////////////////////////////////////////////////////////

// ErrKind is the stable classification label carried by every RuntimeError.
type ErrKind string

const (
	ErrUnbound   ErrKind = "UnboundVariable"
	ErrType      ErrKind = "TypeMismatch"
	ErrArity     ErrKind = "ArityMismatch"
	ErrIndex     ErrKind = "IndexOutOfBounds"
	ErrKey       ErrKind = "KeyNotFound"
	ErrDivZero   ErrKind = "DivisionByZero"
	ErrExternal  ErrKind = "ExternalError"
	ErrRecursion ErrKind = "RecursionError"
)

// RuntimeError represents an execution-time failure. Line/Col are 1-based;
// they carry the position of the node being evaluated when the error was
// raised.
type RuntimeError struct {
	Kind ErrKind
	Msg  string
	Line int
	Col  int
}

func (e *RuntimeError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s: %s", e.Line, e.Col, e.Kind, e.Msg)
}

////////////////////////////////////////////////////////////////////////////////
//                               ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set updates the nearest existing binding of name. If no frame in the chain
// binds name, Set returns an error; the assignment handler in the evaluator
// turns that into a define in the current scope (the language's
// create-if-absent rule), so Set itself never implicitly creates bindings.
func (e *Env) Set(name string, v Value) error {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.table[name]; ok {
			f.table[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	for f := e; f != nil; f = f.parent {
		if v, ok := f.table[name]; ok {
			return v, nil
		}
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}

////////////////////////////////////////////////////////////////////////////////
//                               INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// methodKey indexes the literal-receiver method table.
type methodKey struct {
	tag  ValueTag
	name string
}

// frame is one entry of the interpreter call stack, identified by the
// function or method declaration it runs. Identity is what the recursion
// check compares.
type frame struct {
	key  any
	name string
}

// maxCallDepth caps the call stack as a backstop behind the recursion check.
const maxCallDepth = 10000

// Interpreter evaluates EasyBite programs.
//
// Public fields:
//   - Global — persistent program environment (script/REPL state).
//   - Out    — destination for show/showline and printing builtins.
//   - In     — source for the input builtin.
//
// A single Interpreter is not safe for concurrent use; the thread builtins
// run spawned functions on goroutines without locking the interpreter, which
// mirrors the language's hands-off concurrency model.
type Interpreter struct {
	Global *Env
	Out    io.Writer
	In     *bufio.Reader

	builtins map[string]*Builtin
	methods  map[methodKey]*Builtin

	// module system (modules.go)
	modules   map[string]*moduleRec
	loadStack []string
	scriptDir string // directory of the running script; first import root
	root      string // program root; second import root

	// execution state
	callStack []frame
	owners    []*ClassObject // owning classes of active methods, for secret checks
	line, col int            // position of the node being evaluated
	lastVal   Value

	fetchTimeout time.Duration // HTTP client timeout (builtin_fetch.go)
}

// NewInterpreter constructs a bare engine with an empty Global and no
// builtins registered. Most callers want NewRuntime (runtime.go), which also
// installs the standard builtin library.
func NewInterpreter() *Interpreter {
	return &Interpreter{
		Global:   NewEnv(nil),
		Out:      os.Stdout,
		In:       bufio.NewReader(os.Stdin),
		builtins: map[string]*Builtin{},
		methods:  map[methodKey]*Builtin{},
		modules:  map[string]*moduleRec{},
	}
}

// RegisterNative installs fn as the builtin called name. Arity is enforced
// on every call: the argument count must fall in [min, max]; max -1 means
// variadic.
func (ip *Interpreter) RegisterNative(name string, min, max int, fn NativeFn) {
	ip.builtins[name] = &Builtin{Name: name, Min: min, Max: max, Fn: fn}
}

// RegisterMethod installs fn as a method on values of the given tag. The
// evaluator calls it with the receiver prepended to the argument list, and
// the receiver counts toward the min/max bounds (min is therefore at least 1;
// max -1 means unbounded).
func (ip *Interpreter) RegisterMethod(tag ValueTag, name string, min, max int, fn NativeFn) {
	ip.methods[methodKey{tag: tag, name: name}] = &Builtin{Name: name, Min: min, Max: max, Fn: fn}
}

// Lookup returns the builtin registered under name.
func (ip *Interpreter) Lookup(name string) (*Builtin, bool) {
	b, ok := ip.builtins[name]
	return b, ok
}

func (ip *Interpreter) methodFor(tag ValueTag, name string) (*Builtin, bool) {
	b, ok := ip.methods[methodKey{tag: tag, name: name}]
	return b, ok
}

// setBuiltinDoc attaches a docstring to a registered builtin.
func setBuiltinDoc(ip *Interpreter, name, doc string) {
	if b, ok := ip.builtins[name]; ok {
		b.Doc = doc
	}
}

////////////////////////////////////////////////////////////////////////////////
//                               ENTRY POINTS
////////////////////////////////////////////////////////////////////////////////

// EvalSource parses and evaluates source in a fresh child of Global.
// Bindings land in that ephemeral child; Global is unchanged unless the
// program explicitly mutates outer state. Returns the value of the last
// expression statement (Null when there is none).
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(prog, NewEnv(ip.Global))
}

// EvalPersistentSource parses and evaluates source in Global itself
// (REPL-style); assignments update the persistent state.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	prog, err := Parse(src)
	if err != nil {
		return Null, err
	}
	return ip.runTop(prog, ip.Global)
}

// Run evaluates a pre-parsed program in Global.
func (ip *Interpreter) Run(prog *Program) (Value, error) {
	return ip.runTop(prog, ip.Global)
}

// runTop executes a program and converts panic-carried signals into results:
// exit and top-level return finish successfully, runtime errors surface as
// *RuntimeError with the last evaluated position stamped in.
func (ip *Interpreter) runTop(prog *Program, env *Env) (out Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case returnSig:
				out, err = sig.v, nil
			case exitSig:
				out, err = Null, nil
			case stopSig:
				err = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: "'stop' used outside of a loop"})
			case skipSig:
				err = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: "'skip' used outside of a loop"})
			case *RuntimeError:
				err = ip.stamp(sig)
			default:
				err = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: fmt.Sprintf("runtime panic: %v", r)})
			}
		}
	}()

	if err := ip.preflightImports(prog, env); err != nil {
		return Null, err
	}

	ip.lastVal = Null
	ip.execBlock(prog.Stmts, env)
	return ip.lastVal, nil
}

// stamp fills in the current evaluation position when the error carries none.
func (ip *Interpreter) stamp(e *RuntimeError) *RuntimeError {
	if e.Line == 0 {
		e.Line, e.Col = ip.line, ip.col
	}
	return e
}

//// END_OF_PUBLIC
