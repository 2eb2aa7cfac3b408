package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"emerald/internal/lsp"
	"emerald/internal/parser"
)

func TestProtocolHandlerWiring(t *testing.T) {
	handler := newProtocolHandler(lsp.NewEmeraldHandler(parser.ModeModule, version))

	assert.NotNil(t, handler.Initialize)
	assert.NotNil(t, handler.TextDocumentDidOpen)
	assert.NotNil(t, handler.TextDocumentDidChange)
	assert.NotNil(t, handler.TextDocumentDidClose)
	assert.NotNil(t, handler.TextDocumentCompletion)
	assert.NotNil(t, handler.TextDocumentSemanticTokensFull)
	assert.NotNil(t, handler.TextDocumentFoldingRange)
}
