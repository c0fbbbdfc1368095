// modules.go — EasyBite module system (public API + private implementation)
//
// OVERVIEW
// --------
// EasyBite modules are ordinary EasyBite programs. Importing one executes it
// once and merges its top-level bindings into the importer's scope; there is
// no module object at the language level. Two statement forms feed this
// file:
//
//	import shapes.circle, "lib/util"
//	from shapes.circle import Circle, area
//
// A plain import merges every export under its own name and additionally
// under the qualified spelling "<spec>.<name>" ("shapes.circle.Circle"), so
// `new shapes.Circle(5)` resolves after `import shapes`. A from-import
// merges only the named symbols, with no qualified aliases.
//
// RESOLUTION
// ----------
// A spec names either a standard-library module or a file:
//
//   - Standard-library names (math, string, array, dictionary, datetime,
//     filesystem, system, conversion, thread, socket, listener, fetcher,
//     sqlite, mysql) are satisfied by the builtin registry, which is always
//     populated; importing one is a recorded no-op.
//   - Anything else maps to a .bite file: dots become path separators and
//     the extension is appended unless already present ("shapes.circle" →
//     "shapes/circle.bite"). The file is looked up relative to the importing
//     file's directory, then the program root, then "<root>/modules", then
//     each entry of the EASYBITEPATH list.
//
// Missing files in top-level import statements are reported before the
// program runs (preflightImports); imports buried in conditional blocks
// resolve when executed.
//
// LOADING
// -------
// A module executes in a fresh child of Global. Its top-level bindings are
// snapshotted in sorted order (deterministic merging) and cached under the
// canonical absolute path, so a file executes at most once per interpreter.
// Cycles are detected with a per-import stack and reported as a chain
// ("a -> b -> a"). Failed loads are never cached; a later import retries.
//
// Error wording follows the load phase: "parse error in <module>: ..." and
// "runtime error in <module>: ...". Both surface to the running program as
// ExternalError, so try/capture can observe a failing import.

package easybite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// EasyBitePath names the environment variable listing extra module roots.
const EasyBitePath = "EASYBITEPATH"

// moduleExt is the source file extension appended to extension-less specs.
const moduleExt = ".bite"

// nativeModules are importable standard-library names satisfied by the
// builtin registry rather than a file on disk.
var nativeModules = map[string]bool{
	"math":       true,
	"string":     true,
	"array":      true,
	"dictionary": true,
	"datetime":   true,
	"filesystem": true,
	"system":     true,
	"conversion": true,
	"thread":     true,
	"socket":     true,
	"listener":   true,
	"fetcher":    true,
	"sqlite":     true,
	"mysql":      true,
}

// RunFile reads, parses, and executes a script in Global. The script's
// directory becomes the first import root (and the program root unless one
// was set already).
func (ip *Interpreter) RunFile(path string) (Value, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Null, fmt.Errorf("cannot read %s: %v", path, err)
	}
	if abs, aerr := filepath.Abs(path); aerr == nil {
		path = abs
	}
	ip.scriptDir = filepath.Dir(path)
	if ip.root == "" {
		ip.root = ip.scriptDir
	}
	prog, perr := Parse(string(b))
	if perr != nil {
		return Null, perr
	}
	return ip.runTop(prog, ip.Global)
}

// SetRoot overrides the program root used for import resolution.
func (ip *Interpreter) SetRoot(dir string) { ip.root = dir }

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                             PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

type modState int

const (
	modUnloaded modState = iota
	modLoading
	modLoaded
)

// moduleRec tracks one cached module by canonical absolute path.
type moduleRec struct {
	spec    string // canonical absolute path
	display string // short name for error messages
	state   modState
	names   []string // sorted export names
	exports map[string]Value
}

// preflightImports resolves every top-level import before execution starts,
// so a missing file is reported before any statement runs.
func (ip *Interpreter) preflightImports(prog *Program, env *Env) error {
	for _, s := range prog.Stmts {
		switch st := s.(type) {
		case *ImportStatement:
			for _, spec := range st.Modules {
				if nativeModules[spec] {
					continue
				}
				if _, err := ip.resolveModule(spec); err != nil {
					return err
				}
			}
		case *FromImportStatement:
			if nativeModules[st.Module] {
				continue
			}
			if _, err := ip.resolveModule(st.Module); err != nil {
				return err
			}
		}
	}
	return nil
}

// execImport loads each module and merges its exports into env, both under
// the plain name and under the qualified "<spec>.<name>" spelling.
func (ip *Interpreter) execImport(st *ImportStatement, env *Env) {
	for _, spec := range st.Modules {
		if nativeModules[spec] {
			continue
		}
		rec := ip.loadModule(spec)
		for _, name := range rec.names {
			env.Define(name, rec.exports[name])
			env.Define(spec+"."+name, rec.exports[name])
		}
	}
}

// execFromImport loads the module and merges only the named symbols.
func (ip *Interpreter) execFromImport(st *FromImportStatement, env *Env) {
	if nativeModules[st.Module] {
		return
	}
	rec := ip.loadModule(st.Module)
	for _, name := range st.Names {
		v, ok := rec.exports[name]
		if !ok {
			fail(ErrExternal, "module %s has no symbol '%s'", rec.display, name)
		}
		env.Define(name, v)
	}
}

// loadModule resolves, parses, executes, caches, and detects cycles. It is
// called from executing code, so failures surface through fail rather than
// an error return.
func (ip *Interpreter) loadModule(spec string) *moduleRec {
	canon, err := ip.resolveModule(spec)
	if err != nil {
		fail(ErrExternal, "%s", err)
	}

	for _, s := range ip.loadStack {
		if s == canon {
			fail(ErrExternal, "import cycle detected: %s", joinCyclePath(ip.loadStack, canon))
		}
	}

	if rec, ok := ip.modules[canon]; ok {
		if rec.state == modLoading {
			fail(ErrExternal, "import cycle detected: %s", joinCyclePath(ip.loadStack, canon))
		}
		if rec.state == modLoaded {
			return rec
		}
	}

	display := prettySpec(canon)
	rec := &moduleRec{spec: canon, display: display, state: modLoading}
	ip.modules[canon] = rec
	ip.loadStack = append(ip.loadStack, canon)
	defer func() { ip.loadStack = ip.loadStack[:len(ip.loadStack)-1] }()

	b, rerr := os.ReadFile(canon)
	if rerr != nil {
		delete(ip.modules, canon)
		fail(ErrExternal, "module not found: %s", spec)
	}
	src := string(b)

	prog, perr := Parse(src)
	if perr != nil {
		delete(ip.modules, canon)
		fail(ErrExternal, "parse error in %s: %s", display, WrapErrorWithName(perr, display, src))
	}

	modEnv := NewEnv(ip.Global)
	if merr := ip.runModuleBody(prog, modEnv); merr != nil {
		delete(ip.modules, canon)
		fail(ErrExternal, "runtime error in %s: %s", display, merr.Msg)
	}

	rec.names = make([]string, 0, len(modEnv.table))
	for k := range modEnv.table {
		rec.names = append(rec.names, k)
	}
	sort.Strings(rec.names)
	rec.exports = make(map[string]Value, len(rec.names))
	for _, k := range rec.names {
		rec.exports[k] = modEnv.table[k]
	}
	rec.state = modLoaded
	return rec
}

// runModuleBody executes a module's statements, converting signals and
// runtime errors into a single *RuntimeError. The surrounding program's
// last-value register is preserved across the nested execution.
func (ip *Interpreter) runModuleBody(prog *Program, env *Env) (out *RuntimeError) {
	saved := ip.lastVal
	defer func() { ip.lastVal = saved }()
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case returnSig, exitSig:
				// a module may end early; not an error
			case stopSig:
				out = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: "'stop' used outside of a loop"})
			case skipSig:
				out = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: "'skip' used outside of a loop"})
			case *RuntimeError:
				out = ip.stamp(sig)
			default:
				out = ip.stamp(&RuntimeError{Kind: ErrExternal, Msg: fmt.Sprintf("runtime panic: %v", sig)})
			}
		}
	}()
	ip.execBlock(prog.Stmts, env)
	return nil
}

// resolveModule turns a spec into the canonical absolute path of an
// existing .bite file.
func (ip *Interpreter) resolveModule(spec string) (string, error) {
	rel := specToRelPath(spec)

	if filepath.IsAbs(rel) {
		if p, ok := statFile(rel); ok {
			return p, nil
		}
		return "", fmt.Errorf("module not found: %s", spec)
	}

	var bases []string
	if d := ip.importerDir(); d != "" {
		bases = append(bases, d)
	}
	if ip.root != "" {
		bases = append(bases, ip.root, filepath.Join(ip.root, "modules"))
	}
	if sp := os.Getenv(EasyBitePath); sp != "" {
		for _, root := range filepath.SplitList(sp) {
			if root != "" {
				bases = append(bases, root)
			}
		}
	}
	if len(bases) == 0 {
		if cwd, err := os.Getwd(); err == nil {
			bases = append(bases, cwd)
		}
	}

	for _, base := range bases {
		if p, ok := statFile(filepath.Join(base, rel)); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("module not found: %s", spec)
}

// importerDir is the directory of the file currently being loaded, or the
// main script's directory between loads.
func (ip *Interpreter) importerDir() string {
	if n := len(ip.loadStack); n > 0 {
		return filepath.Dir(ip.loadStack[n-1])
	}
	return ip.scriptDir
}

// specToRelPath maps a module spec onto a relative file path: dots become
// separators and the module extension is appended unless already present.
func specToRelPath(spec string) string {
	if strings.HasSuffix(spec, moduleExt) {
		return filepath.FromSlash(spec)
	}
	if strings.ContainsAny(spec, "/\\") {
		return filepath.FromSlash(spec) + moduleExt
	}
	return filepath.FromSlash(strings.ReplaceAll(spec, ".", "/")) + moduleExt
}

func statFile(p string) (string, bool) {
	if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
		abs, aerr := filepath.Abs(p)
		if aerr != nil {
			return filepath.Clean(p), true
		}
		return filepath.Clean(abs), true
	}
	return "", false
}

// prettySpec shortens a canonical path for error messages: basename without
// extension.
func prettySpec(s string) string {
	base := filepath.Base(s)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

// joinCyclePath renders "a -> b -> a" using pretty names.
func joinCyclePath(stack []string, again string) string {
	i := 0
	for idx, s := range stack {
		if s == again {
			i = idx
			break
		}
	}
	chain := append(append([]string{}, stack[i:]...), again)
	out := make([]string, len(chain))
	for k, s := range chain {
		out[k] = prettySpec(s)
	}
	return strings.Join(out, " -> ")
}
