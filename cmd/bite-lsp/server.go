package main

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	easybite "github.com/Dangujba/EasyBite"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	files map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{files: make(map[lsp.DocumentURI]string)}
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (interface{}, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (interface{}, error) {
	return nil, nil
}

func (s *server) handler() jsonrpc2.Handler {
	methods := map[string]method{
		"initialize":             s.initialize,
		"textDocument/didOpen":   s.didOpen,
		"textDocument/didChange": s.didChange,
		"textDocument/didClose":  s.didClose,

		// Required by spec.
		"initialized": noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	}
	handle := func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		if req.Params == nil {
			return fn(ctx, conn, nil)
		}
		return fn(ctx, conn, *req.Params)
	}
	return jsonrpc2.HandlerWithError(handle)
}

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (interface{}, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (interface{}, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, code := params.TextDocument.URI, params.TextDocument.Text
	s.files[uri] = code
	go publish(ctx, conn, uri, code)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (interface{}, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	if len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// Sync is TDSKFull, so the last change carries the whole document.
	uri, code := params.TextDocument.URI, params.ContentChanges[len(params.ContentChanges)-1].Text
	s.files[uri] = code
	go publish(ctx, conn, uri, code)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (interface{}, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	delete(s.files, params.TextDocument.URI)
	return nil, nil
}

func publish(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, code string) {
	conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnose(code)})
}

// diagnose reports compile-time errors in code as LSP diagnostics. A clean
// parse yields an empty (non-nil) slice so stale diagnostics get cleared.
func diagnose(code string) []lsp.Diagnostic {
	_, err := easybite.Parse(code)
	if err == nil {
		return []lsp.Diagnostic{}
	}

	var (
		le *easybite.LexError
		pe *easybite.ParseError
	)
	switch {
	case errors.As(err, &le):
		return []lsp.Diagnostic{pointDiag(code, le.Line, le.Col, "lex", le.Msg)}
	case errors.As(err, &pe):
		return []lsp.Diagnostic{pointDiag(code, pe.Line, pe.Col, "parse", pe.Msg)}
	default:
		return []lsp.Diagnostic{{Severity: lsp.Error, Source: "parse", Message: err.Error()}}
	}
}

func pointDiag(code string, line, col int, source, msg string) lsp.Diagnostic {
	pos := utf16Pos(code, line, col)
	return lsp.Diagnostic{
		Range:    lsp.Range{Start: pos, End: pos},
		Severity: lsp.Error,
		Source:   source,
		Message:  msg,
	}
}

// utf16Pos converts a 1-based line and 0-based byte column into an LSP
// position, whose Character counts UTF-16 code units.
func utf16Pos(code string, line, col int) lsp.Position {
	lines := strings.Split(code, "\n")
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	text := lines[line-1]
	if col < 0 {
		col = 0
	}
	if col > len(text) {
		col = len(text)
	}

	units := 0
	for _, r := range text[:col] {
		if r <= 0xFFFF {
			units++
		} else {
			units += 2
		}
	}
	return lsp.Position{Line: line - 1, Character: units}
}
