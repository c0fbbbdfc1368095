package main

import (
	"context"
	"encoding/json"
	"net"
	"testing"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

func Test_LSP_Diagnose_Clean_Source(t *testing.T) {
	d := diagnose("set x to 1\nshow x\n")
	if d == nil {
		t.Fatal("diagnose returned nil; want empty slice")
	}
	if len(d) != 0 {
		t.Fatalf("diagnose reported %d diagnostics on clean source: %v", len(d), d)
	}
}

func Test_LSP_Diagnose_Parse_Error(t *testing.T) {
	d := diagnose("set 1 to 2\n")
	if len(d) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(d))
	}
	got := d[0]
	if got.Severity != lsp.Error {
		t.Fatalf("severity = %v, want %v", got.Severity, lsp.Error)
	}
	if got.Source != "parse" {
		t.Fatalf("source = %q, want %q", got.Source, "parse")
	}
	want := lsp.Position{Line: 0, Character: 0}
	if got.Range.Start != want {
		t.Fatalf("range start = %+v, want %+v", got.Range.Start, want)
	}
	if got.Message == "" {
		t.Fatal("empty diagnostic message")
	}
}

func Test_LSP_Diagnose_Lex_Error(t *testing.T) {
	d := diagnose("set s to \"open\n")
	if len(d) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(d))
	}
	got := d[0]
	if got.Source != "lex" {
		t.Fatalf("source = %q, want %q", got.Source, "lex")
	}
	// The opening quote sits at byte column 9.
	want := lsp.Position{Line: 0, Character: 9}
	if got.Range.Start != want {
		t.Fatalf("range start = %+v, want %+v", got.Range.Start, want)
	}
}

func Test_LSP_Diagnose_Reports_Error_Line(t *testing.T) {
	d := diagnose("set x to 1\nset 2 to 3\n")
	if len(d) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(d))
	}
	if d[0].Range.Start.Line != 1 {
		t.Fatalf("line = %d, want 1", d[0].Range.Start.Line)
	}
}

func Test_LSP_UTF16_Position(t *testing.T) {
	// "a🙂b": a is byte 0, the emoji spans bytes 1-4, b is byte 5.
	// In UTF-16 the emoji is two code units, so byte column 5 is unit 3.
	pos := utf16Pos("a🙂b", 1, 5)
	if pos.Line != 0 || pos.Character != 3 {
		t.Fatalf("utf16Pos = (%d,%d), want (0,3)", pos.Line, pos.Character)
	}
	pos = utf16Pos("a🙂b", 1, 1)
	if pos.Character != 1 {
		t.Fatalf("byte col 1 = unit %d, want 1", pos.Character)
	}
}

func Test_LSP_UTF16_Position_Clamps(t *testing.T) {
	pos := utf16Pos("short\n", 99, 99)
	if pos.Line != 1 || pos.Character != 0 {
		t.Fatalf("clamped position = (%d,%d), want (1,0)", pos.Line, pos.Character)
	}
	pos = utf16Pos("ab", 1, 99)
	if pos.Character != 2 {
		t.Fatalf("clamped character = %d, want 2", pos.Character)
	}
}

// lspPair wires a client connection to a freshly built server over an
// in-memory pipe and collects publishDiagnostics notifications.
func lspPair(t *testing.T) (*jsonrpc2.Conn, <-chan lsp.PublishDiagnosticsParams) {
	t.Helper()
	clientEnd, serverEnd := net.Pipe()
	ctx := context.Background()

	srvConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverEnd, jsonrpc2.VSCodeObjectCodec{}),
		newServer().handler())
	t.Cleanup(func() { srvConn.Close() })

	notifs := make(chan lsp.PublishDiagnosticsParams, 8)
	clientHandler := jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
		if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
			var p lsp.PublishDiagnosticsParams
			if err := json.Unmarshal(*req.Params, &p); err == nil {
				notifs <- p
			}
		}
		return nil, nil
	})
	cliConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientEnd, jsonrpc2.VSCodeObjectCodec{}),
		clientHandler)
	t.Cleanup(func() { cliConn.Close() })

	return cliConn, notifs
}

func waitDiag(t *testing.T, notifs <-chan lsp.PublishDiagnosticsParams) lsp.PublishDiagnosticsParams {
	t.Helper()
	select {
	case p := <-notifs:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no diagnostics published")
		return lsp.PublishDiagnosticsParams{}
	}
}

func Test_LSP_Publishes_Diagnostics_Over_Wire(t *testing.T) {
	cli, notifs := lspPair(t)
	ctx := context.Background()

	var initRes lsp.InitializeResult
	if err := cli.Call(ctx, "initialize", lsp.InitializeParams{}, &initRes); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if initRes.Capabilities.TextDocumentSync == nil {
		t.Fatal("server advertised no text sync capability")
	}

	err := cli.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{
			URI:        "file:///broken.bite",
			LanguageID: "easybite",
			Version:    1,
			Text:       "set 1 to 2\n",
		},
	})
	if err != nil {
		t.Fatalf("didOpen: %v", err)
	}

	p := waitDiag(t, notifs)
	if p.URI != "file:///broken.bite" {
		t.Fatalf("diagnostics for %q, want file:///broken.bite", p.URI)
	}
	if len(p.Diagnostics) != 1 {
		t.Fatalf("want 1 diagnostic, got %d", len(p.Diagnostics))
	}

	// A fixed revision clears the report.
	err = cli.Notify(ctx, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: "file:///broken.bite"},
			Version:                2,
		},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "set x to 2\n"}},
	})
	if err != nil {
		t.Fatalf("didChange: %v", err)
	}

	p = waitDiag(t, notifs)
	if len(p.Diagnostics) != 0 {
		t.Fatalf("diagnostics not cleared: %v", p.Diagnostics)
	}
}

func Test_LSP_Unknown_Method_Rejected(t *testing.T) {
	cli, _ := lspPair(t)
	ctx := context.Background()

	var res interface{}
	err := cli.Call(ctx, "textDocument/hover", struct{}{}, &res)
	if err == nil {
		t.Fatal("hover did not fail; server should reject unsupported methods")
	}
	var rpcErr *jsonrpc2.Error
	if !jsonrpcErrAs(err, &rpcErr) || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Fatalf("error = %v, want method-not-found", err)
	}
}

func jsonrpcErrAs(err error, target **jsonrpc2.Error) bool {
	e, ok := err.(*jsonrpc2.Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
