// builtin_sys.go — the system builtin area.
//
// Environment variables, working directory, path manipulation, platform
// probes, and process helpers. runcommand shells out through the platform
// shell and returns the command's combined output.

package easybite

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

func registerSysBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("getenv", 1, 1, func(ip *Interpreter, args []Value) Value {
		if v, ok := os.LookupEnv(argStr("getenv", args, 0)); ok {
			return Str(v)
		}
		return Null
	}, `getenv(name) -> the environment variable's value, or null when unset.`)

	reg("setenv", 2, 2, func(ip *Interpreter, args []Value) Value {
		name := argStr("setenv", args, 0)
		if args[1].Tag == VTNull {
			if err := os.Unsetenv(name); err != nil {
				fail(ErrExternal, "setenv(): %s", err)
			}
			return Bool(true)
		}
		if err := os.Setenv(name, args[1].Display()); err != nil {
			fail(ErrExternal, "setenv(): %s", err)
		}
		return Bool(true)
	}, `setenv(name, value) -> true
Sets an environment variable for this process; null unsets it.`)

	reg("currentdir", 0, 0, func(ip *Interpreter, args []Value) Value {
		wd, err := os.Getwd()
		if err != nil {
			fail(ErrExternal, "currentdir(): %s", err)
		}
		return Str(wd)
	}, `currentdir() -> the current working directory.`)

	reg("changedir", 1, 1, func(ip *Interpreter, args []Value) Value {
		if err := os.Chdir(argStr("changedir", args, 0)); err != nil {
			fail(ErrExternal, "changedir(): %s", err)
		}
		return Bool(true)
	}, `changedir(path) -> true
Changes the current working directory.`)

	reg("listdir", 0, 1, func(ip *Interpreter, args []Value) Value {
		dir := "."
		if len(args) == 1 {
			dir = argStr("listdir", args, 0)
		}
		ents, err := os.ReadDir(dir)
		if err != nil {
			fail(ErrExternal, "listdir(): %s", err)
		}
		out := make([]Value, 0, len(ents))
		for _, e := range ents {
			out = append(out, Str(e.Name()))
		}
		return Arr(out)
	}, `listdir(path?) -> array of entry names in a folder (default ".").
Lists both files and folders; see getfiles/getfolders to filter.`)

	reg("joinpath", 1, -1, func(ip *Interpreter, args []Value) Value {
		var parts []string
		if len(args) == 1 && args[0].Tag == VTArray {
			for i, e := range args[0].Data.(*ArrayObject).Elems {
				if e.Tag != VTStr {
					fail(ErrType, "joinpath() element %d must be a string, got %s", i+1, e.Tag)
				}
				parts = append(parts, e.Data.(string))
			}
		} else {
			for i := range args {
				parts = append(parts, argStr("joinpath", args, i))
			}
		}
		return Str(filepath.Join(parts...))
	}, `joinpath(parts...) -> the parts joined with the platform separator.
Also accepts a single array of parts.`)

	reg("splitpath", 1, 1, func(ip *Interpreter, args []Value) Value {
		dir, base := filepath.Split(argStr("splitpath", args, 0))
		return Arr([]Value{Str(strings.TrimRight(dir, string(filepath.Separator))), Str(base)})
	}, `splitpath(path) -> [folder, name]
Splits a path into its containing folder and final element.`)

	reg("iswindows", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Bool(runtime.GOOS == "windows")
	}, `iswindows() -> true on Windows.`)

	reg("islinux", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Bool(runtime.GOOS == "linux")
	}, `islinux() -> true on Linux.`)

	reg("ismacos", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Bool(runtime.GOOS == "darwin")
	}, `ismacos() -> true on macOS.`)

	reg("getprocessid", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Num(float64(os.Getpid()))
	}, `getprocessid() -> this process's id.`)

	reg("hostname", 0, 0, func(ip *Interpreter, args []Value) Value {
		h, err := os.Hostname()
		if err != nil {
			fail(ErrExternal, "hostname(): %s", err)
		}
		return Str(h)
	}, `hostname() -> the machine's host name.`)

	reg("tempdir", 0, 0, func(ip *Interpreter, args []Value) Value {
		return Str(os.TempDir())
	}, `tempdir() -> the system temporary directory.`)

	reg("runcommand", 1, 1, func(ip *Interpreter, args []Value) Value {
		line := argStr("runcommand", args, 0)
		var cmd *exec.Cmd
		if runtime.GOOS == "windows" {
			cmd = exec.Command("cmd", "/C", line)
		} else {
			cmd = exec.Command("sh", "-c", line)
		}
		out, err := cmd.CombinedOutput()
		if err != nil {
			fail(ErrExternal, "runcommand(): %s", err)
		}
		return Str(string(out))
	}, `runcommand(command) -> the command's combined output

Runs the command through the platform shell and blocks until it finishes.
A non-zero exit status is an error.`)

	reg("sleep", 1, 1, func(ip *Interpreter, args []Value) Value {
		ms := argNum("sleep", args, 0)
		if ms < 0 {
			fail(ErrType, "sleep() takes a non-negative millisecond count")
		}
		time.Sleep(time.Duration(ms * float64(time.Millisecond)))
		return Null
	}, `sleep(ms) -> null
Pauses execution for ms milliseconds.`)

	reg("isfile", 1, 1, func(ip *Interpreter, args []Value) Value {
		info, err := os.Stat(argStr("isfile", args, 0))
		return Bool(err == nil && !info.IsDir())
	}, `isfile(path) -> true when path names a regular file.`)

	reg("isdir", 1, 1, func(ip *Interpreter, args []Value) Value {
		info, err := os.Stat(argStr("isdir", args, 0))
		return Bool(err == nil && info.IsDir())
	}, `isdir(path) -> true when path names a folder.`)

	reg("rename", 2, 2, func(ip *Interpreter, args []Value) Value {
		if err := os.Rename(argStr("rename", args, 0), argStr("rename", args, 1)); err != nil {
			fail(ErrExternal, "rename(): %s", err)
		}
		return Bool(true)
	}, `rename(old, new) -> true
Renames (moves) a file or folder.`)
}
