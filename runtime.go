// runtime.go
//
// This file assembles the standard runtime against the stable engine surface
// defined in interpreter.go: NewRuntime constructs an interpreter and
// populates the builtin registry from the per-area register functions in the
// builtin_*.go files. It also defines the opaque Handle type that carries
// host state (open files, sockets, DB connections, threads) through the
// evaluator without the evaluator ever inspecting it.

package easybite

// Version is reported by the CLI and the version() builtin.
const Version = "0.5.0"

// --- Opaque host handle -----------------------------------------------------

// Handle boxes host-side state behind a kind tag. Builtins that produce one
// (openfile, tcpconnect, sqliteconnect, spawn) document their kind; builtins
// that consume one check the kind via asHandle.
type Handle struct {
	Kind string
	Data any
}

// HandleVal wraps host state as a runtime value.
func HandleVal(kind string, data any) Value {
	return Value{Tag: VTHandle, Data: &Handle{Kind: kind, Data: data}}
}

// asHandle unwraps a handle of the wanted kind or raises.
func asHandle(v Value, want string) *Handle {
	if v.Tag != VTHandle {
		fail(ErrType, "expected a %s handle, got %s", want, v.Tag)
	}
	h := v.Data.(*Handle)
	if h.Kind != want {
		fail(ErrType, "expected a %s handle, got a %s handle", want, h.Kind)
	}
	return h
}

// --- Argument helpers shared by the builtin files ---------------------------

func argStr(name string, args []Value, i int) string {
	if args[i].Tag != VTStr {
		fail(ErrType, "%s() argument %d must be a string, got %s", name, i+1, args[i].Tag)
	}
	return args[i].Data.(string)
}

func argNum(name string, args []Value, i int) float64 {
	if args[i].Tag != VTNum {
		fail(ErrType, "%s() argument %d must be a number, got %s", name, i+1, args[i].Tag)
	}
	return args[i].Data.(float64)
}

func argInt(name string, args []Value, i int) int {
	f := argNum(name, args, i)
	if !isIntegral(f) {
		fail(ErrType, "%s() argument %d must be an integer, got %s", name, i+1, formatNumber(f))
	}
	return int(f)
}

func argBool(name string, args []Value, i int) bool {
	if args[i].Tag != VTBool {
		fail(ErrType, "%s() argument %d must be a boolean, got %s", name, i+1, args[i].Tag)
	}
	return args[i].Data.(bool)
}

func argArr(name string, args []Value, i int) *ArrayObject {
	if args[i].Tag != VTArray {
		fail(ErrType, "%s() argument %d must be an array, got %s", name, i+1, args[i].Tag)
	}
	return args[i].Data.(*ArrayObject)
}

func argDict(name string, args []Value, i int) *DictObject {
	if args[i].Tag != VTDict {
		fail(ErrType, "%s() argument %d must be a dictionary, got %s", name, i+1, args[i].Tag)
	}
	return args[i].Data.(*DictObject)
}

// --- Runtime assembly -------------------------------------------------------

// NewRuntime builds an interpreter with the full standard builtin library
// registered. This is the constructor the CLI and embedders use; the bare
// NewInterpreter is only interesting for tests that want an empty registry.
func NewRuntime() *Interpreter {
	ip := NewInterpreter()

	registerBaseBuiltins(ip)
	registerMathBuiltins(ip)
	registerStringBuiltins(ip)
	registerArrayBuiltins(ip)
	registerDictBuiltins(ip)
	registerConvBuiltins(ip)
	registerTimeBuiltins(ip)
	registerFileBuiltins(ip)
	registerSysBuiltins(ip)
	registerThreadBuiltins(ip)
	registerNetBuiltins(ip)
	registerFetchBuiltins(ip)
	registerDBBuiltins(ip)

	return ip
}

// registerBaseBuiltins installs the handful of builtins that belong to the
// language core rather than a library area.
func registerBaseBuiltins(ip *Interpreter) {
	ip.RegisterNative("input", 0, 1, func(ip *Interpreter, args []Value) Value {
		prompt := Null
		if len(args) == 1 {
			prompt = args[0]
		}
		return Str(ip.readInput(prompt))
	})
	setBuiltinDoc(ip, "input",
		`input(prompt?) -> string
Writes prompt (when given) to standard output without a newline, then reads
one line from standard input and returns it without the trailing newline.`)

	ip.RegisterNative("version", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Str(Version)
	})
	setBuiltinDoc(ip, "version", `version() -> string: the interpreter version.`)
}
