// interpreter_exec.go — PRIVATE: the tree-walking execution engine.
//   - Executes statements (execBlock/execStmt) and evaluates expressions
//     (evalExpr) against an environment chain.
//   - Implements calls: user functions, builtins, instance methods, the
//     literal-receiver method table, and class instantiation.
//   - No exported identifiers here. The public facade lives in
//     interpreter.go; operator and assignment plumbing is in
//     interpreter_ops.go.
//
// POSITION MARKING
// ----------------
// Every statement and expression marks its source position on the
// interpreter before doing work (mark). fail() raises errors without a
// position; the entry points stamp the last mark in on the way out, so a
// runtime error always points at the innermost node being evaluated when it
// was raised. Marks are cheap (two int writes), so precision costs nothing.

package easybite

import (
	"fmt"
	"math"
	"strings"
)

// mark records the node being evaluated, 1-based, for error stamping.
func (ip *Interpreter) mark(n Node) {
	line, col := n.Pos()
	ip.line, ip.col = line, col+1
}

////////////////////////////////////////////////////////////////////////////////
//                               STATEMENTS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) {
	for _, s := range stmts {
		ip.execStmt(s, env)
	}
}

func (ip *Interpreter) execStmt(s Stmt, env *Env) {
	ip.mark(s)
	switch st := s.(type) {

	case *DeclareStatement:
		for _, t := range st.Targets {
			if t.Size != nil {
				n := declaredSize(ip.evalExpr(t.Size, env))
				env.Define(t.Name, ArrVal(NewArray(n)))
			} else {
				env.Define(t.Name, Null)
			}
		}

	case *SetStatement:
		v := ip.evalExpr(st.Value, env)
		ip.mark(st)
		ip.assign(st.Target, v, env)

	case *ShowStatement:
		v := ip.evalExpr(st.Value, env)
		fmt.Fprintln(ip.Out, v.Display())

	case *ShowLineStatement:
		fmt.Fprintln(ip.Out)

	case *InputStatement:
		var prompt Value
		if st.Prompt != nil {
			prompt = ip.evalExpr(st.Prompt, env)
		}
		line := ip.readInput(prompt)
		ip.mark(st)
		ip.assign(st.Target, Str(line), env)

	case *IfStatement:
		if truthy(ip.evalExpr(st.Cond, env)) {
			ip.execBlock(st.Then, env)
			return
		}
		for _, clause := range st.ElseIfs {
			if truthy(ip.evalExpr(clause.Cond, env)) {
				ip.execBlock(clause.Body, env)
				return
			}
		}
		if st.Else != nil {
			ip.execBlock(st.Else, env)
		}

	case *ChooseStatement:
		subject := ip.evalExpr(st.Subject, env)
		for _, w := range st.Whens {
			if equal(subject, ip.evalExpr(w.Value, env)) {
				ip.execBlock(w.Body, env)
				return
			}
		}
		if st.Otherwise != nil {
			ip.execBlock(st.Otherwise, env)
		}

	case *TryStatement:
		if caught := ip.runProtected(st.Body, env); caught != nil {
			if st.CaptureVar != "" {
				env.Define(st.CaptureVar, Str(caught.Msg))
			}
			ip.execBlock(st.Handler, env)
		}

	case *WhileStatement:
		for {
			ip.mark(st)
			if !truthy(ip.evalExpr(st.Cond, env)) {
				return
			}
			if ip.runLoopBody(st.Body, env) {
				return
			}
		}

	case *RepeatStatement:
		v := ip.evalExpr(st.Count, env)
		if v.Tag != VTNum {
			fail(ErrType, "'repeat' count must be a number, got %s", v.Tag)
		}
		n := int(math.Trunc(v.Data.(float64)))
		for i := 0; i < n; i++ {
			if ip.runLoopBody(st.Body, env) {
				return
			}
		}

	case *ForStatement:
		ip.runCountedLoop(st.Var, st.From, st.To, st.Step, st.Body, env)

	case *GenerateStatement:
		ip.runCountedLoop(st.Var, st.From, st.To, st.By, st.Body, env)

	case *IterateStatement:
		over := ip.evalExpr(st.Over, env)
		loopEnv := NewEnv(env)
		for _, v := range iterationValues(over, "'iterate'") {
			loopEnv.Define(st.Var, v)
			if ip.runLoopBody(st.Body, loopEnv) {
				return
			}
		}

	case *ForeachStatement:
		ip.runForeach(st, env)

	case *FunctionDeclaration:
		env.Define(st.Name, FunVal(&Fun{
			Name:   st.Name,
			Params: st.Params,
			Body:   st.Body,
			Env:    env,
		}))

	case *ClassDeclaration:
		env.Define(st.Name, ClassVal(ip.buildClass(st, env)))

	case *ReturnStatement:
		v := Null
		if st.Value != nil {
			v = ip.evalExpr(st.Value, env)
		}
		panic(returnSig{v: v})

	case *SkipStatement:
		panic(skipSig{})

	case *StopStatement:
		panic(stopSig{})

	case *ExitStatement:
		panic(exitSig{})

	case *RaiseStatement:
		msg := "error"
		if st.Value != nil {
			msg = ip.evalExpr(st.Value, env).Display()
		}
		ip.mark(st)
		fail(ErrExternal, "%s", msg)

	case *ImportStatement:
		ip.execImport(st, env)

	case *FromImportStatement:
		ip.execFromImport(st, env)

	case *ExprStatement:
		ip.lastVal = ip.evalExpr(st.Value, env)

	default:
		fail(ErrExternal, "unhandled statement %T", s)
	}
}

// runProtected executes a try body, catching runtime errors only. Control
// signals (return/stop/skip/exit) unwind through untouched.
func (ip *Interpreter) runProtected(body []Stmt, env *Env) (caught *RuntimeError) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*RuntimeError); ok {
				caught = ip.stamp(e)
				return
			}
			panic(r)
		}
	}()
	ip.execBlock(body, env)
	return nil
}

// runLoopBody executes one iteration, absorbing skip and reporting stop.
func (ip *Interpreter) runLoopBody(body []Stmt, env *Env) (stopped bool) {
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case stopSig:
				stopped = true
			case skipSig:
				// next iteration
			default:
				panic(r)
			}
		}
	}()
	ip.execBlock(body, env)
	return false
}

// runCountedLoop drives for and generate loops. Both bounds are inclusive;
// the step's sign picks the direction and a zero step is rejected rather
// than looping forever.
func (ip *Interpreter) runCountedLoop(varName string, fromE, toE, stepE Expr, body []Stmt, env *Env) {
	from := loopNumber("start", ip.evalExpr(fromE, env))
	to := loopNumber("end", ip.evalExpr(toE, env))
	step := 1.0
	if stepE != nil {
		step = loopNumber("step", ip.evalExpr(stepE, env))
	}
	if step == 0 {
		fail(ErrType, "loop step must not be zero")
	}
	loopEnv := NewEnv(env)
	for i := from; (step > 0 && i <= to) || (step < 0 && i >= to); i += step {
		loopEnv.Define(varName, Num(i))
		if ip.runLoopBody(body, loopEnv) {
			return
		}
	}
}

func loopNumber(what string, v Value) float64 {
	if v.Tag != VTNum {
		fail(ErrType, "loop %s must be a number, got %s", what, v.Tag)
	}
	return v.Data.(float64)
}

// iterationValues snapshots the sequence a loop walks: array elements in
// order, dictionary keys in insertion order. The snapshot keeps mutation
// during the loop from shifting the iteration underneath it.
func iterationValues(v Value, what string) []Value {
	switch v.Tag {
	case VTArray:
		return append([]Value(nil), v.Data.(*ArrayObject).Elems...)
	case VTDict:
		return append([]Value(nil), v.Data.(*DictObject).Keys...)
	default:
		fail(ErrType, "%s expects an array or dictionary, got %s", what, v.Tag)
		return nil
	}
}

func (ip *Interpreter) runForeach(st *ForeachStatement, env *Env) {
	it := ip.evalExpr(st.Iterable, env)
	loopEnv := NewEnv(env)
	switch it.Tag {
	case VTArray:
		elems := append([]Value(nil), it.Data.(*ArrayObject).Elems...)
		for i, e := range elems {
			if len(st.Vars) == 2 {
				loopEnv.Define(st.Vars[0], Num(float64(i)))
				loopEnv.Define(st.Vars[1], e)
			} else {
				loopEnv.Define(st.Vars[0], e)
			}
			if ip.runLoopBody(st.Body, loopEnv) {
				return
			}
		}
	case VTDict:
		d := it.Data.(*DictObject)
		keys := append([]Value(nil), d.Keys...)
		for _, k := range keys {
			if len(st.Vars) == 2 {
				v, _ := d.Get(k)
				loopEnv.Define(st.Vars[0], k)
				loopEnv.Define(st.Vars[1], v)
			} else {
				loopEnv.Define(st.Vars[0], k)
			}
			if ip.runLoopBody(st.Body, loopEnv) {
				return
			}
		}
	default:
		fail(ErrType, "'foreach' expects an array or dictionary, got %s", it.Tag)
	}
}

// declaredSize validates an array-size expression from declare or a sized
// class field.
func declaredSize(v Value) int {
	if v.Tag != VTNum {
		fail(ErrType, "array size must be a number, got %s", v.Tag)
	}
	f := v.Data.(float64)
	if !isIntegral(f) || f < 0 {
		fail(ErrType, "array size must be a non-negative integer, got %s", formatNumber(f))
	}
	return int(f)
}

// readInput writes the prompt (if any) and reads one line from ip.In,
// stripping the trailing newline.
func (ip *Interpreter) readInput(prompt Value) string {
	if prompt.Tag != VTNull {
		fmt.Fprint(ip.Out, prompt.Display())
	}
	line, err := ip.In.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimRight(line, "\r\n")
}

////////////////////////////////////////////////////////////////////////////////
//                               EXPRESSIONS
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) evalExpr(e Expr, env *Env) Value {
	ip.mark(e)
	switch ex := e.(type) {

	case *NumberLiteral:
		return Num(ex.Value)
	case *StringLiteral:
		return Str(ex.Value)
	case *BooleanLiteral:
		return Bool(ex.Value)
	case *NullLiteral:
		return Null

	case *Identifier:
		if v, err := env.Get(ex.Name); err == nil {
			return v
		}
		if b, ok := ip.builtins[ex.Name]; ok {
			return BuiltinVal(b)
		}
		fail(ErrUnbound, "undefined variable: %s", ex.Name)
		return Null

	case *ArrayLiteral:
		elems := make([]Value, len(ex.Elems))
		for i, el := range ex.Elems {
			elems[i] = ip.evalExpr(el, env)
		}
		return Arr(elems)

	case *DictLiteral:
		d := NewDict()
		for _, entry := range ex.Entries {
			d.Set(ip.evalExpr(entry.Key, env), ip.evalExpr(entry.Value, env))
		}
		return DictVal(d)

	case *Binary:
		switch ex.Op {
		case AND:
			if !truthy(ip.evalExpr(ex.Left, env)) {
				return Bool(false)
			}
			return Bool(truthy(ip.evalExpr(ex.Right, env)))
		case OR:
			if truthy(ip.evalExpr(ex.Left, env)) {
				return Bool(true)
			}
			return Bool(truthy(ip.evalExpr(ex.Right, env)))
		}
		l := ip.evalExpr(ex.Left, env)
		r := ip.evalExpr(ex.Right, env)
		ip.mark(ex)
		return ip.binaryOp(ex.Op, l, r)

	case *Unary:
		v := ip.evalExpr(ex.Operand, env)
		ip.mark(ex)
		return ip.unaryOp(ex.Op, v)

	case *Ternary:
		if truthy(ip.evalExpr(ex.Cond, env)) {
			return ip.evalExpr(ex.Then, env)
		}
		return ip.evalExpr(ex.Else, env)

	case *Index:
		obj := ip.evalExpr(ex.Object, env)
		key := ip.evalExpr(ex.Key, env)
		ip.mark(ex)
		return ip.indexRead(obj, key)

	case *Member:
		if joined, ok := dottedName(ex); ok {
			if v, err := env.Get(joined); err == nil {
				return v
			}
		}
		obj := ip.evalExpr(ex.Object, env)
		ip.mark(ex)
		return ip.memberRead(obj, ex.Name)

	case *Call:
		return ip.evalCall(ex, env)

	case *New:
		return ip.instantiate(ex, env)

	case *This:
		return ip.mustThis(env)

	case *ParentCall:
		return ip.callParentMethod(ex, env)

	case *ParentInit:
		ip.runParentInit(ex, env)
		return Null

	default:
		fail(ErrExternal, "unhandled expression %T", e)
		return Null
	}
}

func (ip *Interpreter) evalArgs(args []Expr, env *Env) []Value {
	out := make([]Value, len(args))
	for i, a := range args {
		out[i] = ip.evalExpr(a, env)
	}
	return out
}

////////////////////////////////////////////////////////////////////////////////
//                                  CALLS
////////////////////////////////////////////////////////////////////////////////

// evalCall dispatches a call expression. Named calls check the builtin
// registry before the environment (the builtin-dispatch rule); member calls
// try imported qualified names, then instance methods, then the
// literal-receiver method table, then function-valued dictionary entries.
func (ip *Interpreter) evalCall(c *Call, env *Env) Value {
	switch callee := c.Callee.(type) {
	case *Identifier:
		if b, ok := ip.builtins[callee.Name]; ok {
			args := ip.evalArgs(c.Args, env)
			ip.mark(c)
			return ip.callBuiltin(b, args)
		}
		v, err := env.Get(callee.Name)
		if err != nil {
			fail(ErrUnbound, "undefined function: %s", callee.Name)
		}
		args := ip.evalArgs(c.Args, env)
		ip.mark(c)
		return ip.callValue(v, args, callee.Name)
	case *Member:
		return ip.callMember(callee, c.Args, env)
	default:
		v := ip.evalExpr(c.Callee, env)
		args := ip.evalArgs(c.Args, env)
		ip.mark(c)
		return ip.callValue(v, args, "")
	}
}

// callValue invokes a first-class callable.
func (ip *Interpreter) callValue(v Value, args []Value, name string) Value {
	switch v.Tag {
	case VTFun:
		return ip.callFunction(v.Data.(*Fun), args)
	case VTBuiltin:
		return ip.callBuiltin(v.Data.(*Builtin), args)
	case VTClass:
		fail(ErrType, "class %s must be created with 'new'", v.Data.(*ClassObject).Name)
	default:
		if name != "" {
			fail(ErrType, "'%s' is not a function", name)
		}
		fail(ErrType, "cannot call %s", v.Tag)
	}
	return Null
}

func (ip *Interpreter) callMember(m *Member, argEs []Expr, env *Env) Value {
	if joined, ok := dottedName(m); ok {
		if v, err := env.Get(joined); err == nil {
			args := ip.evalArgs(argEs, env)
			ip.mark(m)
			return ip.callValue(v, args, joined)
		}
	}

	recv := ip.evalExpr(m.Object, env)
	ip.mark(m)

	if recv.Tag == VTInstance {
		inst := recv.Data.(*InstanceObject)
		if method, decl, ok := inst.Class.lookupMethod(m.Name); ok {
			if method.Secret {
				if owner := ip.currentOwner(); owner == nil || !owner.isSubclassOf(decl) {
					fail(ErrExternal, "method '%s' of %s is secret", m.Name, decl.Name)
				}
			}
			args := ip.evalArgs(argEs, env)
			ip.mark(m)
			return ip.invokeMethod(inst, method, decl, args)
		}
		if v, ok := inst.Fields[m.Name]; ok {
			ip.checkSecret(inst.Class, m.Name)
			return ip.callValue(v, ip.evalArgs(argEs, env), m.Name)
		}
		fail(ErrKey, "%s has no method '%s'", inst.Class.Name, m.Name)
	}

	if b, ok := ip.methodFor(recv.Tag, m.Name); ok {
		args := append([]Value{recv}, ip.evalArgs(argEs, env)...)
		ip.mark(m)
		return ip.callBuiltin(b, args)
	}

	if recv.Tag == VTDict {
		if v, ok := recv.Data.(*DictObject).Get(Str(m.Name)); ok {
			return ip.callValue(v, ip.evalArgs(argEs, env), m.Name)
		}
	}

	fail(ErrType, "%s has no method '%s'", recv.Tag, m.Name)
	return Null
}

func (ip *Interpreter) callBuiltin(b *Builtin, args []Value) Value {
	n := len(args)
	switch {
	case b.Max >= 0 && b.Min == b.Max && n != b.Min:
		fail(ErrArity, "%s() takes %d argument(s), got %d", b.Name, b.Min, n)
	case n < b.Min:
		fail(ErrArity, "%s() takes at least %d argument(s), got %d", b.Name, b.Min, n)
	case b.Max >= 0 && n > b.Max:
		fail(ErrArity, "%s() takes at most %d argument(s), got %d", b.Name, b.Max, n)
	}
	return b.Fn(ip, args)
}

// callFunction applies a user function: fresh child of the captured
// defining scope, parameters bound left to right, defaults evaluated in the
// call frame. Self-calls are rejected at call time; the language does not
// support recursion.
func (ip *Interpreter) callFunction(f *Fun, args []Value) Value {
	ip.pushFrame(f, f.Name)
	defer ip.popFrame()

	env := NewEnv(f.Env)
	ip.bindParams("'"+f.Name+"'", f.Params, args, env)
	return ip.runBody(f.Body, env)
}

func (ip *Interpreter) pushFrame(key any, name string) {
	for _, fr := range ip.callStack {
		if fr.key == key {
			fail(ErrRecursion, "function '%s' called recursively; recursion is not supported", name)
		}
	}
	if len(ip.callStack) >= maxCallDepth {
		fail(ErrRecursion, "call stack exceeded %d frames", maxCallDepth)
	}
	ip.callStack = append(ip.callStack, frame{key: key, name: name})
}

func (ip *Interpreter) popFrame() {
	ip.callStack = ip.callStack[:len(ip.callStack)-1]
}

func (ip *Interpreter) bindParams(label string, params []Param, args []Value, env *Env) {
	if len(args) > len(params) {
		fail(ErrArity, "%s takes at most %d argument(s), got %d", label, len(params), len(args))
	}
	for i, p := range params {
		switch {
		case i < len(args):
			env.Define(p.Name, args[i])
		case p.Default != nil:
			env.Define(p.Name, ip.evalExpr(p.Default, env))
		default:
			fail(ErrArity, "%s missing required argument '%s'", label, p.Name)
		}
	}
}

// runBody executes a function or method body, catching return. A stop or
// skip escaping the body is a usage error here rather than at the program
// top, so the message points at the offending call.
func (ip *Interpreter) runBody(body []Stmt, env *Env) (out Value) {
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case returnSig:
				out = sig.v
			case stopSig:
				panic(&RuntimeError{Kind: ErrExternal, Msg: "'stop' used outside of a loop"})
			case skipSig:
				panic(&RuntimeError{Kind: ErrExternal, Msg: "'skip' used outside of a loop"})
			default:
				panic(r)
			}
		}
	}()
	ip.execBlock(body, env)
	return Null
}

////////////////////////////////////////////////////////////////////////////////
//                                 CLASSES
////////////////////////////////////////////////////////////////////////////////

func (ip *Interpreter) buildClass(st *ClassDeclaration, env *Env) *ClassObject {
	var parent *ClassObject
	if st.Parent != "" {
		pv, err := env.Get(st.Parent)
		if err != nil {
			fail(ErrUnbound, "undefined class: %s", st.Parent)
		}
		if pv.Tag != VTClass {
			fail(ErrType, "'%s' is not a class", st.Parent)
		}
		parent = pv.Data.(*ClassObject)
	}
	cls := &ClassObject{
		Name:    st.Name,
		Parent:  parent,
		Methods: make(map[string]*MethodDecl, len(st.Methods)),
		Init:    st.Init,
		Env:     env,
	}
	for i := range st.Fields {
		cls.Fields = append(cls.Fields, &st.Fields[i])
	}
	for i := range st.Methods {
		m := &st.Methods[i]
		cls.Methods[m.Name] = m
	}
	return cls
}

// instantiate builds an instance: fields across the whole chain initialize
// parent-first, then the nearest init in the chain runs with the
// constructor arguments.
func (ip *Interpreter) instantiate(n *New, env *Env) Value {
	cls := ip.resolveClass(n.Class, env)
	inst := &InstanceObject{Class: cls, Fields: map[string]Value{}}
	ip.initFields(inst, cls)
	args := ip.evalArgs(n.Args, env)
	ip.mark(n)
	if init, decl, ok := nearestInit(cls); ok {
		ip.runInit(inst, init, decl, args)
	} else if len(args) > 0 {
		fail(ErrArity, "%s has no init; 'new' takes no arguments", cls.Name)
	}
	return InstanceVal(inst)
}

func (ip *Interpreter) resolveClass(e Expr, env *Env) *ClassObject {
	if joined, ok := dottedName(e); ok {
		if v, err := env.Get(joined); err == nil && v.Tag == VTClass {
			return v.Data.(*ClassObject)
		}
	}
	v := ip.evalExpr(e, env)
	if v.Tag != VTClass {
		fail(ErrType, "'new' expects a class, got %s", v.Tag)
	}
	return v.Data.(*ClassObject)
}

// dottedName flattens an identifier or member chain ("shapes.Circle") into
// the joined name imports bind qualified symbols under.
func dottedName(e Expr) (string, bool) {
	switch x := e.(type) {
	case *Identifier:
		return x.Name, true
	case *Member:
		if base, ok := dottedName(x.Object); ok {
			return base + "." + x.Name, true
		}
	}
	return "", false
}

func (ip *Interpreter) initFields(inst *InstanceObject, cls *ClassObject) {
	if cls == nil {
		return
	}
	ip.initFields(inst, cls.Parent)
	for _, f := range cls.Fields {
		switch {
		case f.Size != nil:
			inst.Fields[f.Name] = ArrVal(NewArray(declaredSize(ip.evalExpr(f.Size, cls.Env))))
		case f.Value != nil:
			inst.Fields[f.Name] = ip.evalExpr(f.Value, cls.Env)
		default:
			inst.Fields[f.Name] = Null
		}
	}
}

func nearestInit(cls *ClassObject) (*InitDecl, *ClassObject, bool) {
	for c := cls; c != nil; c = c.Parent {
		if c.Init != nil {
			return c.Init, c, true
		}
	}
	return nil, nil, false
}

func (ip *Interpreter) runInit(inst *InstanceObject, init *InitDecl, decl *ClassObject, args []Value) {
	ip.pushFrame(init, decl.Name+".init")
	defer ip.popFrame()
	ip.owners = append(ip.owners, decl)
	defer func() { ip.owners = ip.owners[:len(ip.owners)-1] }()

	env := NewEnv(decl.Env)
	env.Define("this", InstanceVal(inst))
	ip.bindParams(decl.Name+".init", init.Params, args, env)
	ip.runBody(init.Body, env)
}

func (ip *Interpreter) invokeMethod(inst *InstanceObject, method *MethodDecl, decl *ClassObject, args []Value) Value {
	label := decl.Name + "." + method.Name
	ip.pushFrame(method, label)
	defer ip.popFrame()
	ip.owners = append(ip.owners, decl)
	defer func() { ip.owners = ip.owners[:len(ip.owners)-1] }()

	env := NewEnv(decl.Env)
	env.Define("this", InstanceVal(inst))
	ip.bindParams(label, method.Params, args, env)
	return ip.runBody(method.Body, env)
}

func (ip *Interpreter) mustThis(env *Env) Value {
	v, err := env.Get("this")
	if err != nil || v.Tag != VTInstance {
		fail(ErrExternal, "'this' used outside of a method")
	}
	return v
}

func (ip *Interpreter) callParentMethod(ex *ParentCall, env *Env) Value {
	owner := ip.currentOwner()
	if owner == nil {
		fail(ErrExternal, "'parent' used outside of a method")
	}
	if owner.Parent == nil {
		fail(ErrExternal, "%s has no parent class", owner.Name)
	}
	method, decl, ok := owner.Parent.lookupMethod(ex.Method)
	if !ok {
		fail(ErrKey, "%s has no method '%s'", owner.Parent.Name, ex.Method)
	}
	inst := ip.mustThis(env).Data.(*InstanceObject)
	args := ip.evalArgs(ex.Args, env)
	ip.mark(ex)
	return ip.invokeMethod(inst, method, decl, args)
}

func (ip *Interpreter) runParentInit(ex *ParentInit, env *Env) {
	owner := ip.currentOwner()
	if owner == nil {
		fail(ErrExternal, "'parent' used outside of a method")
	}
	if owner.Parent == nil {
		fail(ErrExternal, "%s has no parent class", owner.Name)
	}
	init, decl, ok := nearestInit(owner.Parent)
	if !ok {
		fail(ErrExternal, "%s has no init", owner.Parent.Name)
	}
	inst := ip.mustThis(env).Data.(*InstanceObject)
	args := ip.evalArgs(ex.Args, env)
	ip.mark(ex)
	ip.runInit(inst, init, decl, args)
}
