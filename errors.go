// errors.go: user-facing error wrapping and caret-snippet rendering
//
// What this file does
// -------------------
// This module turns low-level lexer/parser/runtime diagnostics into readable,
// Python-style error snippets with a caret pointing at the offending column.
// The primary entry point is `WrapErrorWithSource`, which recognizes
// `*LexError` (from lexer.go), `*ParseError` (from parser.go), and
// `*RuntimeError` (from interpreter.go), formats them, and returns a new
// `error` whose message is a multi-line snippet:
//
//	PARSE ERROR at 3:12: expected ')' after arguments
//
//	   2 | set x to add(1, 2
//	   3 | show(x)
//	     |            ^
//	   4 | exit
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places a caret under the 1-based column.
//
// Dependencies (other files)
// --------------------------
//   - lexer.go: defines `*LexError { Line, Col, Msg }` with a 0-based Col.
//   - parser.go: defines `*ParseError { Line, Col, Msg, Incomplete }`, also
//     with a 0-based Col. The Incomplete flag marks constructs cut short by
//     end of input; IsIncomplete (parser.go) is how REPLs detect it.
//   - interpreter.go: defines `*RuntimeError { Kind, Msg, Line, Col }` whose
//     coordinates are already 1-based.
//
// Behavior guarantees
// -------------------
//   - If `err` is one of the three diagnostic types, the returned error's
//     message is a fully formatted, plain-text snippet (no ANSI colors).
//   - If `err` is anything else, it is returned unchanged.
//   - Line/column are clamped to the source bounds so the caret renders
//     safely on empty or truncated sources.
package easybite

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the provided source. It recognizes EasyBite diagnostics and
// leaves other errors untouched.
func WrapErrorWithSource(err error, src string) error {
	// Fall back to a name-less header (won't show "in <src>").
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source label, typically a
// file name, rendered into the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	switch e := err.(type) {
	case *LexError:
		// Lex/parse Col are 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "LEXICAL ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "PARSE ERROR", srcName, e.Line, e.Col+1, e.Msg))
	case *RuntimeError:
		// RuntimeError is already 1-based.
		msg := e.Msg
		if e.Kind != "" {
			msg = string(e.Kind) + ": " + e.Msg
		}
		return fmt.Errorf("%s", prettyErrorStringLabeled(src, "RUNTIME ERROR", srcName, e.Line, e.Col, msg))
	default:
		return err
	}
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: rendering
   =========================== */

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret. It shows at most one previous and one next line when available.
// Coordinates are treated as 1-based and clamped to the source bounds.
func prettyErrorStringLabeled(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
