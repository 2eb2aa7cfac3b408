// SPDX-License-Identifier: Apache-2.0
package main

import (
	"flag"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"emerald/internal/config"
	"emerald/internal/lsp"
)

var version = "0.0.1" // Server version

func main() {
	cfgFile := flag.String("config", "", "config file (default: $EMERALD_CONFIG or ./emerald.toml)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		// logging is not configured yet
		commonlog.Configure(0, nil)
		commonlog.GetLogger("emerald.lsp").Errorf("%s", err)
		os.Exit(1)
	}

	verbosity := cfg.Verbosity(0)
	if cfg.LSP.Debug {
		verbosity = cfg.Verbosity(2)
	}
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("emerald.lsp")

	h := lsp.NewEmeraldHandler(cfg.Mode(), version)
	handler := newProtocolHandler(h)

	// debug enables glsp's own request logging
	s := server.NewServer(&handler, cfg.LSP.Name, cfg.LSP.Debug)

	log.Infof("starting %s language server %s", cfg.LSP.Name, version)

	// Start the server over standard input/output (used by most editors for LSP)
	if err := s.RunStdio(); err != nil {
		log.Errorf("language server stopped: %s", err)
		os.Exit(1)
	}
}

// newProtocolHandler wires the LSP methods the server implements.
func newProtocolHandler(h *lsp.EmeraldHandler) protocol.Handler {
	return protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentCompletion:         h.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
		TextDocumentFoldingRange:       h.TextDocumentFoldingRange,
	}
}
