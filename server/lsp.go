// Package server provides the tilde language server.
package server

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/tilde/interp"
	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "tilde-lsp"

var log = commonlog.GetLogger("tilde.lsp")

// document is the server's view of one open file.
type document struct {
	text   string
	prog   *parser.Program
	digest [32]byte

	// clean is set when the last published diagnostics were empty.
	clean bool
}

// LspServer provides editor features for tilde scripts. Documents are
// parsed and checked, never evaluated; the interpreter supplies the
// global names (builtins and distributions) via Worker.
type LspServer struct {
	worker *Worker
	helper interp.Helper

	mu   sync.Mutex
	docs map[string]*document // URI → document

	handler protocol.Handler
	server  *glspserver.Server
	version string
}

// NewLSP creates a new LSP server wrapping the given interpreter. helper
// may be nil.
func NewLSP(in *interp.Interpreter, helper interp.Helper) *LspServer {
	s := &LspServer{
		worker:  NewWorker(in),
		helper:  helper,
		docs:    make(map[string]*document),
		version: "0.1.0",
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
		TextDocumentDefinition: s.textDocumentDefinition,
		TextDocumentReferences: s.textDocumentReferences,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("tilde LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{"."},
	}

	capabilities.HoverProvider = true
	capabilities.DefinitionProvider = true
	capabilities.ReferencesProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	s.worker.Stop()
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.update(ctx, params.TextDocument.URI, params.TextDocument.Text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, params.TextDocument.URI, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

// update reanalyzes a document and publishes its diagnostics. A document
// whose syntax tree is unchanged since it was last published clean is not
// republished.
func (s *LspServer) update(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	doc, diagnostics := analyze(text)

	s.mu.Lock()
	prev := s.docs[string(uri)]
	s.docs[string(uri)] = doc
	s.mu.Unlock()

	if prev != nil && prev.clean && doc.clean && prev.digest == doc.digest {
		log.Debugf("%s: syntax tree unchanged", uri)
		return
	}

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// --- Language features ---

func (s *LspServer) document(uri protocol.DocumentUri) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[string(uri)]
	return doc, ok
}

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(doc.text, params.Position)
	if prefix == "" {
		return nil, nil
	}

	globals, err := s.worker.Do(func(in *interp.Interpreter) interface{} {
		return globalSymbols(in)
	})
	if err != nil {
		return nil, err
	}

	return complete(prefix, documentSymbols(doc.prog), globals.([]symbol)), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(doc.text, params.Position)
	if word == "" {
		return nil, nil
	}

	for _, sym := range documentSymbols(doc.prog) {
		if sym.name == word {
			return markdown(fmt.Sprintf("**%s**\n\n`%s`", sym.name, sym.detail)), nil
		}
	}

	result, err := s.worker.Do(func(in *interp.Interpreter) interface{} {
		v, err := in.Global().Lookup(word)
		if err != nil {
			return nil
		}
		return v.Value()
	})
	if err != nil || result == nil {
		return nil, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n`%s`", word, result.(value.Value).String())
	if s.helper != nil {
		if text, ok := s.helper.Help(word); ok {
			fmt.Fprintf(&b, "\n\n---\n\n%s", text)
		}
	}
	return markdown(b.String()), nil
}

func (s *LspServer) textDocumentDefinition(ctx *glsp.Context, params *protocol.DefinitionParams) (any, error) {
	uri := params.TextDocument.URI
	doc, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	word := extractWord(doc.text, params.Position)
	if word == "" {
		return nil, nil
	}

	var locations []protocol.Location
	for _, sym := range documentSymbols(doc.prog) {
		if sym.name == word {
			locations = append(locations, protocol.Location{URI: uri, Range: spanRange(sym.span)})
		}
	}
	if len(locations) == 0 {
		return nil, nil
	}
	return locations, nil
}

func (s *LspServer) textDocumentReferences(ctx *glsp.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	uri := params.TextDocument.URI
	doc, ok := s.document(uri)
	if !ok {
		return nil, nil
	}

	word := extractWord(doc.text, params.Position)
	if word == "" {
		return nil, nil
	}

	var locations []protocol.Location
	for _, span := range references(doc.prog, word) {
		locations = append(locations, protocol.Location{URI: uri, Range: spanRange(span)})
	}
	return locations, nil
}

// --- Analysis ---

// analyze parses and checks text. Syntax errors and check errors are
// reported as errors, unreachable code as warnings.
func analyze(text string) (*document, []protocol.Diagnostic) {
	p := parser.NewParser(text)
	prog := p.ParseProgram()
	errs, warnings := parser.Check(prog)

	diagnostics := []protocol.Diagnostic{}
	add := func(list parser.ErrorList, severity protocol.DiagnosticSeverity) {
		for _, e := range list {
			source := lspName
			sev := severity
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    spanRange(e.Span),
				Severity: &sev,
				Source:   &source,
				Message:  e.Msg,
			})
		}
	}
	add(p.Errors(), protocol.DiagnosticSeverityError)
	add(errs, protocol.DiagnosticSeverityError)
	add(warnings, protocol.DiagnosticSeverityWarning)

	doc := &document{text: text, prog: prog, clean: len(diagnostics) == 0}
	if digest, err := parser.Digest(prog); err == nil {
		doc.digest = digest
	} else {
		doc.clean = false
	}
	return doc, diagnostics
}

// symbol is a name defined in a document or in the interpreter.
type symbol struct {
	name   string
	kind   protocol.CompletionItemKind
	detail string
	span   parser.Span
}

// documentSymbols lists the definitions in prog in source order.
func documentSymbols(prog *parser.Program) []symbol {
	var syms []symbol
	if prog == nil {
		return nil
	}
	parser.Walk(prog, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.FuncDef:
			syms = append(syms, symbol{n.Name, protocol.CompletionItemKindFunction, signature(n.Name, n.Func), n.SpanVal})
		case *parser.ClassDef:
			detail := "class " + n.Name
			if n.Base != "" {
				detail += " : " + n.Base
			}
			syms = append(syms, symbol{n.Name, protocol.CompletionItemKindClass, detail, n.SpanVal})
			for _, f := range n.Fields {
				syms = append(syms, symbol{f.Name, protocol.CompletionItemKindField, "field of " + n.Name, f.SpanVal})
			}
		case *parser.Declaration:
			syms = append(syms, symbol{n.Name, protocol.CompletionItemKindVariable, n.Type.String() + " " + n.Name, n.SpanVal})
		case *parser.ForStmt:
			syms = append(syms, symbol{n.Var, protocol.CompletionItemKindVariable, "loop variable", n.SpanVal})
		case *parser.AssignExpr:
			if id, ok := n.Target.(*parser.Ident); ok {
				syms = append(syms, symbol{id.Name, protocol.CompletionItemKindVariable, assignDetail(n.Op), id.SpanVal})
			}
		}
		return true
	})
	return syms
}

func assignDetail(op parser.AssignOp) string {
	switch op {
	case parser.AssignDeterministic:
		return "deterministic node (:=)"
	case parser.AssignStochastic:
		return "stochastic node (~)"
	}
	return "constant (<-)"
}

// signature renders a function header.
func signature(name string, fn *parser.FuncLit) string {
	parts := make([]string, len(fn.Formals))
	for i, f := range fn.Formals {
		var b strings.Builder
		if f.Type != nil {
			b.WriteString(f.Type.String() + " ")
		}
		if f.Ellipsis {
			b.WriteString("...")
		}
		b.WriteString(f.Name)
		if f.Default != nil {
			b.WriteString("=...")
		}
		parts[i] = b.String()
	}
	ret := ""
	if fn.ReturnType != nil {
		ret = fn.ReturnType.String() + " "
	}
	return fmt.Sprintf("function %s%s(%s)", ret, name, strings.Join(parts, ", "))
}

// globalSymbols lists the interpreter's global names. Called on the
// worker goroutine.
func globalSymbols(in *interp.Interpreter) []symbol {
	var syms []symbol
	for _, name := range in.Global().Names() {
		v, ok := in.Global().LookupLocal(name)
		if !ok {
			continue
		}
		kind := protocol.CompletionItemKindVariable
		switch v.Value().(type) {
		case *value.Builtin, *interp.Closure:
			kind = protocol.CompletionItemKindFunction
		case *interp.Class:
			kind = protocol.CompletionItemKindClass
		}
		syms = append(syms, symbol{name: name, kind: kind, detail: v.Value().String()})
	}
	return syms
}

// complete returns completion items for prefix: keywords, then document
// symbols, then globals.
func complete(prefix string, docSyms, globals []symbol) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)
	lowerPrefix := strings.ToLower(prefix)

	addItem := func(name string, kind protocol.CompletionItemKind, detail string) {
		if seen[name] || !strings.HasPrefix(strings.ToLower(name), lowerPrefix) {
			return
		}
		seen[name] = true
		nameCopy, detailCopy, kindCopy := name, detail, kind
		items = append(items, protocol.CompletionItem{
			Label:      name,
			Kind:       &kindCopy,
			Detail:     &detailCopy,
			InsertText: &nameCopy,
		})
	}

	for _, kw := range parser.Keywords() {
		addItem(kw, protocol.CompletionItemKindKeyword, "keyword")
	}
	for _, sym := range docSyms {
		addItem(sym.name, sym.kind, sym.detail)
	}
	for _, sym := range globals {
		addItem(sym.name, sym.kind, sym.detail)
	}

	// Limit results
	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}

	return items
}

// references returns the spans of every use and definition of name.
func references(prog *parser.Program, name string) []parser.Span {
	var spans []parser.Span
	if prog == nil {
		return nil
	}
	parser.Walk(prog, func(n parser.Node) bool {
		switch n := n.(type) {
		case *parser.Ident:
			if n.Name == name {
				spans = append(spans, n.SpanVal)
			}
		case *parser.FuncDef:
			if n.Name == name {
				spans = append(spans, n.SpanVal)
			}
		case *parser.Declaration:
			if n.Name == name {
				spans = append(spans, n.SpanVal)
			}
		}
		return true
	})
	return spans
}

// --- Text helpers ---

func position(p parser.Position) protocol.Position {
	line, col := p.Line-1, p.Column-1
	if line < 0 {
		line = 0
	}
	if col < 0 {
		col = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(col)}
}

func spanRange(s parser.Span) protocol.Range {
	return protocol.Range{Start: position(s.Start), End: position(s.End)}
}

func markdown(text string) *protocol.Hover {
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: text,
		},
	}
}

// extractPrefix returns the word fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	// Walk backwards from cursor to find the start of the identifier
	start := col
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}

	if start == col {
		return ""
	}

	return line[start:col]
}

// extractWord returns the full identifier under the cursor.
func extractWord(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	line := lines[pos.Line]
	col := int(pos.Character)
	if col > len(line) {
		col = len(line)
	}

	start := col
	for start > 0 && isIdentChar(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isIdentChar(line[end]) {
		end++
	}

	if start == end {
		return ""
	}

	return line[start:end]
}

func isIdentChar(c byte) bool {
	ch := rune(c)
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func boolPtr(b bool) *bool {
	return &b
}
