// builtin_file.go — the filesystem builtin area.
//
// Whole-file operations (read, write, copy, delete, ...) take paths and
// finish in one call. Line-at-a-time reading goes through a file handle:
// openfile returns one, readline consumes it, closefile releases it.
// I/O failures surface as ExternalError with the operating system's text.
//
// append(path, content) and copy(src, dst) are reached through the shared
// natives in the array area, which dispatch here on a string first argument.

package easybite

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// fileHandle backs the "file" handle kind. rb is nil for write-only modes,
// wb for read-only ones.
type fileHandle struct {
	f  *os.File
	rb *bufio.Reader
	wb *bufio.Writer
}

func registerFileBuiltins(ip *Interpreter) {
	reg := func(name string, min, max int, fn NativeFn, doc string) {
		ip.RegisterNative(name, min, max, fn)
		setBuiltinDoc(ip, name, doc)
	}

	reg("exists", 1, 1, func(ip *Interpreter, args []Value) Value {
		_, err := os.Stat(argStr("exists", args, 0))
		return Bool(err == nil)
	}, `exists(path) -> true when a file or folder exists at path.`)

	reg("read", 1, 1, fileReadFn, `read(path) -> the file's contents as a string.`)
	reg("readcontent", 1, 1, fileReadFn, `readcontent(path) -> the file's contents as a string. Alias of read.`)

	reg("write", 2, 2, func(ip *Interpreter, args []Value) Value {
		path := argStr("write", args, 0)
		content := args[1].Display()
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fail(ErrExternal, "write(): %s", err)
		}
		return Bool(true)
	}, `write(path, content) -> true
Writes content to path, replacing any existing file.`)

	reg("delete", 1, 1, func(ip *Interpreter, args []Value) Value {
		if err := os.Remove(argStr("delete", args, 0)); err != nil {
			fail(ErrExternal, "delete(): %s", err)
		}
		return Bool(true)
	}, `delete(path) -> true
Removes a file or an empty folder.`)

	reg("create", 1, 1, func(ip *Interpreter, args []Value) Value {
		f, err := os.Create(argStr("create", args, 0))
		if err != nil {
			fail(ErrExternal, "create(): %s", err)
		}
		f.Close()
		return Bool(true)
	}, `create(path) -> true
Creates an empty file, truncating any existing one.`)

	reg("filename", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(filepath.Base(argStr("filename", args, 0)))
	}, `filename(path) -> the last path element.`)

	reg("filepath", 1, 1, func(ip *Interpreter, args []Value) Value {
		abs, err := filepath.Abs(argStr("filepath", args, 0))
		if err != nil {
			fail(ErrExternal, "filepath(): %s", err)
		}
		return Str(abs)
	}, `filepath(path) -> the absolute form of path.`)

	reg("folderexist", 1, 1, func(ip *Interpreter, args []Value) Value {
		info, err := os.Stat(argStr("folderexist", args, 0))
		return Bool(err == nil && info.IsDir())
	}, `folderexist(path) -> true when path names an existing folder.`)

	reg("makefolder", 1, 1, func(ip *Interpreter, args []Value) Value {
		if err := os.MkdirAll(argStr("makefolder", args, 0), 0o755); err != nil {
			fail(ErrExternal, "makefolder(): %s", err)
		}
		return Bool(true)
	}, `makefolder(path) -> true
Creates a folder, making parent folders as needed.`)

	reg("movefolder", 2, 2, func(ip *Interpreter, args []Value) Value {
		src := argStr("movefolder", args, 0)
		dst := argStr("movefolder", args, 1)
		if err := os.Rename(src, dst); err != nil {
			fail(ErrExternal, "movefolder(): %s", err)
		}
		return Bool(true)
	}, `movefolder(src, dst) -> true
Moves (renames) a folder or file.`)

	reg("getfiles", 1, 1, func(ip *Interpreter, args []Value) Value {
		return listEntries("getfiles", argStr("getfiles", args, 0), false)
	}, `getfiles(folder) -> array of the names of the files in folder.`)

	reg("getfolders", 1, 1, func(ip *Interpreter, args []Value) Value {
		return listEntries("getfolders", argStr("getfolders", args, 0), true)
	}, `getfolders(folder) -> array of the names of the subfolders in folder.`)

	reg("getfilesize", 1, 1, func(ip *Interpreter, args []Value) Value {
		info, err := os.Stat(argStr("getfilesize", args, 0))
		if err != nil {
			fail(ErrExternal, "getfilesize(): %s", err)
		}
		return Num(float64(info.Size()))
	}, `getfilesize(path) -> size in bytes.`)

	reg("getfileextension", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(filepath.Ext(argStr("getfileextension", args, 0)))
	}, `getfileextension(path) -> the extension including the dot, or "".`)

	reg("getparentdirectory", 1, 1, func(ip *Interpreter, args []Value) Value {
		return Str(filepath.Dir(argStr("getparentdirectory", args, 0)))
	}, `getparentdirectory(path) -> the folder containing path.`)

	reg("getlastmodifiedtime", 1, 1, func(ip *Interpreter, args []Value) Value {
		info, err := os.Stat(argStr("getlastmodifiedtime", args, 0))
		if err != nil {
			fail(ErrExternal, "getlastmodifiedtime(): %s", err)
		}
		return Str(info.ModTime().Format(canonDate + " " + canonTime))
	}, `getlastmodifiedtime(path) -> "YYYY-MM-DD HH:MM:SS" of the last write.`)

	reg("openfile", 1, 2, func(ip *Interpreter, args []Value) Value {
		path := argStr("openfile", args, 0)
		mode := "r"
		if len(args) == 2 {
			mode = argStr("openfile", args, 1)
		}
		var flag int
		switch mode {
		case "r":
			flag = os.O_RDONLY
		case "w":
			flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
		case "a":
			flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
		case "rw":
			flag = os.O_RDWR | os.O_CREATE
		default:
			fail(ErrType, "openfile(): invalid mode '%s' (want r, w, a, or rw)", mode)
		}
		f, err := os.OpenFile(path, flag, 0o644)
		if err != nil {
			fail(ErrExternal, "openfile(): %s", err)
		}
		h := &fileHandle{f: f}
		if mode == "r" || mode == "rw" {
			h.rb = bufio.NewReader(f)
		}
		if mode != "r" {
			h.wb = bufio.NewWriter(f)
		}
		return HandleVal("file", h)
	}, `openfile(path, mode?) -> file handle

Modes: "r" read (default), "w" write (truncate), "a" append, "rw"
read/write without truncation. Pass the handle to readline, writeline,
and closefile.`)

	reg("readline", 1, 1, func(ip *Interpreter, args []Value) Value {
		h := asHandle(args[0], "file").Data.(*fileHandle)
		if h.rb == nil {
			fail(ErrExternal, "readline(): file not opened for reading")
		}
		s, err := h.rb.ReadString('\n')
		if errors.Is(err, io.EOF) && s == "" {
			return Null
		}
		if err != nil && !errors.Is(err, io.EOF) {
			fail(ErrExternal, "readline(): %s", err)
		}
		return Str(strings.TrimRight(s, "\r\n"))
	}, `readline(handle) -> the next line without its newline, or null at
end of file.`)

	reg("writeline", 2, 2, func(ip *Interpreter, args []Value) Value {
		h := asHandle(args[0], "file").Data.(*fileHandle)
		if h.wb == nil {
			fail(ErrExternal, "writeline(): file not opened for writing")
		}
		if _, err := h.wb.WriteString(args[1].Display() + "\n"); err != nil {
			fail(ErrExternal, "writeline(): %s", err)
		}
		return Bool(true)
	}, `writeline(handle, value) -> true
Writes the value and a newline. Output is buffered until closefile.`)

	reg("closefile", 1, 1, func(ip *Interpreter, args []Value) Value {
		h := asHandle(args[0], "file").Data.(*fileHandle)
		var errMsg string
		if h.wb != nil {
			if err := h.wb.Flush(); err != nil {
				errMsg = err.Error()
			}
		}
		if err := h.f.Close(); err != nil && errMsg == "" {
			errMsg = err.Error()
		}
		if errMsg != "" {
			fail(ErrExternal, "closefile(): %s", errMsg)
		}
		return Bool(true)
	}, `closefile(handle) -> true
Flushes buffered output and closes the file.`)
}

func fileReadFn(ip *Interpreter, args []Value) Value {
	b, err := os.ReadFile(argStr("read", args, 0))
	if err != nil {
		fail(ErrExternal, "read(): %s", err)
	}
	return Str(string(b))
}

// fileAppendFn serves append(path, content); the shared native dispatches
// here when the first argument is a string.
func fileAppendFn(ip *Interpreter, args []Value) Value {
	if len(args) != 2 {
		fail(ErrArity, "append() on a file path takes the content to append")
	}
	path := argStr("append", args, 0)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		fail(ErrExternal, "append(): %s", err)
	}
	defer f.Close()
	if _, err := f.WriteString(args[1].Display()); err != nil {
		fail(ErrExternal, "append(): %s", err)
	}
	return Bool(true)
}

// fileCopyFn serves copy(src, dst) for the shared copy native.
func fileCopyFn(ip *Interpreter, args []Value) Value {
	if len(args) != 2 {
		fail(ErrArity, "copy() on a file path takes a destination")
	}
	src := argStr("copy", args, 0)
	dst := argStr("copy", args, 1)
	in, err := os.Open(src)
	if err != nil {
		fail(ErrExternal, "copy(): %s", err)
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		fail(ErrExternal, "copy(): %s", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fail(ErrExternal, "copy(): %s", err)
	}
	if err := out.Close(); err != nil {
		fail(ErrExternal, "copy(): %s", err)
	}
	return Bool(true)
}

func listEntries(name, dir string, wantDirs bool) Value {
	ents, err := os.ReadDir(dir)
	if err != nil {
		fail(ErrExternal, "%s(): %s", name, err)
	}
	var out []Value
	for _, e := range ents {
		if e.IsDir() == wantDirs {
			out = append(out, Str(e.Name()))
		}
	}
	return Arr(out)
}
