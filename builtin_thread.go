// builtin_thread.go — the thread builtin area.
//
// spawn runs a function on its own goroutine and returns a "thread" handle;
// join blocks until the goroutine finishes and yields its return value.
// Each spawned function executes on a worker interpreter: a copy sharing
// the global scope and registries but carrying its own call stack and
// position scratch, so concurrent threads never race on interpreter
// bookkeeping. Values reachable from several threads are shared without
// locking; scripts coordinate their own access.

package easybite

// threadState backs the "thread" handle kind. done is closed exactly once,
// after result/err are set.
type threadState struct {
	done   chan struct{}
	result Value
	err    *RuntimeError
}

// worker returns an interpreter for a spawned thread. The global scope,
// builtin registries, and module cache are shared; per-run scratch is fresh.
func (ip *Interpreter) worker() *Interpreter {
	w := *ip
	w.callStack = nil
	w.owners = nil
	w.loadStack = nil
	w.line, w.col = 0, 0
	w.lastVal = Null
	return &w
}

func registerThreadBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("spawn", 1, 2, func(ip *Interpreter, args []Value) Value {
		fn := args[0]
		if fn.Tag != VTFun && fn.Tag != VTBuiltin {
			fail(ErrType, "spawn() takes a function, got %s", fn.Tag)
		}
		var callArgs []Value
		if len(args) == 2 {
			callArgs = append([]Value(nil), argArr("spawn", args, 1).Elems...)
		}
		st := &threadState{done: make(chan struct{})}
		w := ip.worker()
		go func() {
			defer func() {
				if r := recover(); r != nil {
					switch sig := r.(type) {
					case returnSig:
						st.result = sig.v
					case exitSig:
						st.result = Null
					case *RuntimeError:
						st.err = sig
					default:
						st.err = &RuntimeError{Kind: ErrExternal, Msg: "runtime panic in thread"}
					}
				}
				close(st.done)
			}()
			st.result = w.callValue(fn, callArgs, "")
		}()
		return HandleVal("thread", st)
	}, `spawn(fn, args?) -> thread handle

Runs fn(args...) on a new thread and returns immediately. The optional
second argument is an array of arguments for fn. Collect the result with
join. Values visible to several threads are shared; coordinate writes
yourself.`)

}

// joinThread is the single-argument form of join (registered in
// builtin_strings.go alongside the string form). Blocks until the thread
// finishes; re-raises any error from inside the thread with its kind.
func joinThread(v Value) Value {
	st := asHandle(v, "thread").Data.(*threadState)
	<-st.done
	if st.err != nil {
		fail(st.err.Kind, "%s", st.err.Msg)
	}
	return st.result
}
