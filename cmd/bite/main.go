package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"

	easybite "github.com/Dangujba/EasyBite"
)

const (
	appName     = "bite"
	historyFile = ".easybite_history"
	promptMain  = "==> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("EasyBite %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", easybite.Version)

var (
	stdoutTTY = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	stderrTTY = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
)

func red(s string) string {
	if !stderrTTY {
		return s
	}
	return "\x1b[31m" + s + "\x1b[0m"
}

func blue(s string) string {
	if !stdoutTTY {
		return s
	}
	return "\x1b[94m" + s + "\x1b[0m"
}

func main() {
	if len(os.Args) < 2 {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			os.Exit(cmdRepl())
		}
		os.Exit(cmdStdin())
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl())
	case "version":
		fmt.Println(easybite.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		if strings.HasPrefix(cmd, "-") {
			fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
			usage()
			os.Exit(2)
		}
		// "bite script.bite" is shorthand for "bite run script.bite".
		os.Exit(cmdRun(os.Args[1:]))
	}
}

func usage() {
	fmt.Printf(`EasyBite %s

Usage:
  %s <file.bite> [--time] [--] [args...]       Run a script.
  %s run <file.bite> [--time] [--] [args...]   Same, explicit form.
  %s repl                                      Start the REPL.
  %s version                                   Print the interpreter version.

With no arguments and piped input, %s reads a program from stdin.
`, easybite.Version, appName, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.bite> [--time] [--] [args...]\n", appName)
		return 2
	}

	file := args[0]
	timing := false
	argv := []string{}
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--time":
			timing = true
		case "--":
			argv = rest[i+1:]
			i = len(rest)
		default:
			argv = append(argv, rest[i])
		}
	}

	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	start := time.Now()

	ip := easybite.NewRuntime()
	ip.Global.Define("arguments", easybite.Arr(strSliceToVals(argv)))

	if _, err := ip.RunFile(file); err != nil {
		fmt.Fprintln(os.Stderr, red(easybite.WrapErrorWithName(err, filepath.Base(file), string(src)).Error()))
		return 1
	}

	if timing {
		fmt.Printf("Total execution time: %v\n", time.Since(start))
	}
	return 0
}

func strSliceToVals(xs []string) []easybite.Value {
	out := make([]easybite.Value, 0, len(xs))
	for _, s := range xs {
		out = append(out, easybite.Str(s))
	}
	return out
}

// -----------------------------------------------------------------------------
// stdin
// -----------------------------------------------------------------------------

func cmdStdin() int {
	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read stdin: %v\n", appName, err)
		return 1
	}

	ip := easybite.NewRuntime()
	ip.Global.Define("arguments", easybite.Arr(nil))

	if _, err := ip.EvalPersistentSource(string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(easybite.WrapErrorWithName(err, "stdin", string(src)).Error()))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl() int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := easybite.NewRuntime()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			switch strings.TrimSpace(strings.ToLower(code)) {
			case ":quit":
				return 0
			default:
				fmt.Printf("unknown command. Type :quit to exit.\n")
			}
			continue
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		v, err := ip.EvalPersistentSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(easybite.WrapErrorWithSource(err, code).Error()))
			continue
		}
		if v.Tag != easybite.VTNull {
			fmt.Println(blue(v.Display()))
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}

	return 0
}

// readByParseProbe accumulates lines until the buffer parses, the parse error
// is something other than an unexpected end of input, or the user aborts.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := easybite.ParseInteractive(src)
		if perr == nil {
			return src, true
		}
		if easybite.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
