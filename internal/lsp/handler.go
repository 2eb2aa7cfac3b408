package lsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"emerald/internal/parser"
)

// EmeraldHandler implements the LSP server handlers for the Emerald language
type EmeraldHandler struct {
	mu      sync.RWMutex
	content map[string]string
	results map[string]*parser.ParseResult
	mode    parser.Mode
	version string
	log     commonlog.Logger
}

// NewEmeraldHandler creates a handler that parses documents in mode.
func NewEmeraldHandler(mode parser.Mode, version string) *EmeraldHandler {
	return &EmeraldHandler{
		content: make(map[string]string),
		results: make(map[string]*parser.ParseResult),
		mode:    mode,
		version: version,
		log:     commonlog.GetLogger("emerald.lsp"),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *EmeraldHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	h.log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindIncremental),
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider: ptrBool(false),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true),
			},
			FoldingRangeProvider: ptrBool(true),
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    "emerald",
			Version: &h.version,
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *EmeraldHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	h.log.Info("initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *EmeraldHandler) Shutdown(ctx *glsp.Context) error {
	h.log.Info("shutdown")
	return nil
}

// SetTrace accepts trace level changes from the client.
func (h *EmeraldHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	h.log.Debugf("trace set to %s", params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *EmeraldHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.log.Debugf("opened %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	diagnostics := h.update(path, params.TextDocument.Text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidChange handles file change notifications from the editor
func (h *EmeraldHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.log.Debugf("changed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.RLock()
	text := h.content[path]
	h.mu.RUnlock()

	for _, change := range params.ContentChanges {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			text = c.Text
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				text = c.Text
			} else {
				text = applyChange(text, *c.Range, c.Text)
			}
		default:
			return fmt.Errorf("unsupported content change %T", change)
		}
	}

	diagnostics := h.update(path, text)
	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *EmeraldHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.log.Debugf("closed %s", params.TextDocument.URI)

	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.results, path)

	return nil
}

// TextDocumentCompletion offers the reserved words.
func (h *EmeraldHandler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	keywords := make([]string, 0, len(parser.KEYWORDS))
	for kw := range parser.KEYWORDS {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	kind := protocol.CompletionItemKindKeyword
	items := make([]protocol.CompletionItem, len(keywords))
	for i, kw := range keywords {
		items[i] = protocol.CompletionItem{Label: kw, Kind: &kind}
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        items,
	}, nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *EmeraldHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	source, _, err := h.document(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		Data: encodeSemanticTokens(collectSemanticTokens(source)),
	}, nil
}

// TextDocumentFoldingRange folds comment runs and multi-line statements.
func (h *EmeraldHandler) TextDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	_, result, err := h.document(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return collectFoldingRanges(result), nil
}

// document returns the tracked text and parse of uri. Documents the client
// never opened are read from disk and tracked from then on.
func (h *EmeraldHandler) document(ctx *glsp.Context, rawURI protocol.DocumentUri) (string, *parser.ParseResult, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return "", nil, err
	}

	h.mu.RLock()
	source, ok := h.content[path]
	result := h.results[path]
	h.mu.RUnlock()
	if ok {
		return source, result, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	diagnostics := h.update(path, string(content))
	sendDiagnosticNotification(ctx, rawURI, diagnostics)

	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.content[path], h.results[path], nil
}

// update reparses path with new text and returns the diagnostics to publish.
func (h *EmeraldHandler) update(path, text string) []protocol.Diagnostic {
	result := parser.ParseWithComments(text, h.mode, path)
	if result.Failed() {
		h.log.Debugf("parse of %s failed: %s", path, result.Err)
	}

	h.mu.Lock()
	h.content[path] = text
	h.results[path] = result
	h.mu.Unlock()

	return ConvertParseError(result.Err, text)
}

// applyChange replaces the text covered by r, whose positions count UTF-16
// code units, with newText.
func applyChange(text string, r protocol.Range, newText string) string {
	start := offsetOf(text, r.Start)
	end := offsetOf(text, r.End)
	if end < start {
		start, end = end, start
	}
	return text[:start] + newText + text[end:]
}

// offsetOf converts an LSP position into a byte offset into text, clamping
// positions past the end of a line or of the text.
func offsetOf(text string, pos protocol.Position) int {
	offset := 0
	for line := uint32(0); line < pos.Line; line++ {
		i := strings.IndexByte(text[offset:], '\n')
		if i < 0 {
			return len(text)
		}
		offset += i + 1
	}

	units := uint32(0)
	for i, r := range text[offset:] {
		if r == '\n' || units >= pos.Character {
			return offset + i
		}
		units += uint32(utf16.RuneLen(r))
	}
	return len(text)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) to get C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	if ctx == nil || ctx.Notify == nil {
		return
	}

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
