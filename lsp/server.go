// Copyright © 2024 The ELPS authors

// Package lsp implements a Language Server Protocol server which lints
// JavaScript documents as they are edited.  It provides diagnostics, quick
// fixes to silence them, hover summaries, document and workspace symbols,
// and folding ranges.
package lsp

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tliron/glsp"
	glspserver "github.com/tliron/glsp/server"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jshint/jshint-sub001/lint"
	"github.com/jshint/jshint-sub001/options"
)

const serverName = "jshint-lsp"

// Server is the jshint language server.
type Server struct {
	handler  protocol.Handler
	glspSrv  *glspserver.Server
	docs     *DocumentStore
	rootURI  string
	rootPath string

	// Linter instance shared across diagnostics runs.
	linter *lint.Linter
	logger logrus.FieldLogger

	// Debouncer for didChange notifications.
	debounceMu sync.Mutex
	debounce   map[string]*time.Timer

	// Context for sending notifications (captured from latest request).
	notifyMu sync.Mutex
	notify   glsp.NotifyFunc

	// exitFn is called on the LSP exit notification. Defaults to os.Exit.
	// Overridable for testing.
	exitFn func(int)
}

// Option configures the LSP server.
type Option func(*Server)

// WithOptions sets the options in force at the start of every document.
func WithOptions(opts *options.Options) Option {
	return func(s *Server) { s.linter.Options = opts }
}

// WithAnalyzers adds checks to the built-in set.
func WithAnalyzers(analyzers ...*lint.Analyzer) Option {
	return func(s *Server) { s.linter.Analyzers = append(s.linter.Analyzers, analyzers...) }
}

// WithLogger sets the logger receiving request traces.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Server) {
		s.logger = logger
		s.linter.Logger = logger
	}
}

// New creates a new language server.
func New(opts ...Option) *Server {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	s := &Server{
		docs:     NewDocumentStore(),
		linter:   &lint.Linter{Analyzers: lint.DefaultAnalyzers()},
		logger:   discard,
		debounce: make(map[string]*time.Timer),
		exitFn:   os.Exit,
	}
	for _, o := range opts {
		o(s)
	}

	s.handler = protocol.Handler{
		Initialize: s.initialize,
		Shutdown:   s.shutdown,
		Exit:       s.exit,
		SetTrace:   s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentHover:          s.textDocumentHover,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
		TextDocumentCodeAction:     s.textDocumentCodeAction,
		TextDocumentFoldingRange:   s.textDocumentFoldingRange,
		WorkspaceSymbol:            s.workspaceSymbol,
	}

	s.glspSrv = glspserver.NewServer(&s.handler, serverName, false)
	return s
}

// RunStdio starts the server using stdio transport.
func (s *Server) RunStdio() error {
	return s.glspSrv.RunStdio()
}

// RunTCP starts the server listening on the given address.
func (s *Server) RunTCP(addr string) error {
	return s.glspSrv.RunTCP(addr)
}

// initialize handles the LSP initialize request.
func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.captureNotify(ctx)

	if params.RootURI != nil {
		s.rootURI = *params.RootURI
		s.rootPath = uriToPath(s.rootURI)
	} else if params.RootPath != nil {
		s.rootPath = *params.RootPath
		s.rootURI = pathToURI(s.rootPath)
	}
	s.logger.WithField("root", s.rootPath).Info("initialize")

	capabilities := s.handler.CreateServerCapabilities()

	// Override text document sync to full.
	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: boolPtr(false)},
	}

	version := "0.1.0"
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    serverName,
			Version: &version,
		},
	}, nil
}

// shutdown handles the LSP shutdown request.
func (s *Server) shutdown(ctx *glsp.Context) error {
	// Cancel any pending debounce timers.
	s.debounceMu.Lock()
	for _, t := range s.debounce {
		t.Stop()
	}
	s.debounce = make(map[string]*time.Timer)
	s.debounceMu.Unlock()

	return nil
}

// exit handles the LSP exit notification by terminating the process.
func (s *Server) exit(_ *glsp.Context) error {
	s.exitFn(0)
	return nil
}

// setTrace handles the $/setTrace notification (required by some clients).
func (s *Server) setTrace(_ *glsp.Context, _ *protocol.SetTraceParams) error {
	return nil
}

// ensureLinted ensures the document has a current lint result.
func (s *Server) ensureLinted(doc *Document) *lint.FileResult {
	doc.mu.Lock()
	defer doc.mu.Unlock()
	if doc.result == nil {
		doc.lint(s.linter)
	}
	return doc.result
}

// captureNotify stores the notification function from the context for
// async use (e.g., publishing diagnostics after a debounce).
func (s *Server) captureNotify(ctx *glsp.Context) {
	if ctx == nil {
		return
	}
	s.notifyMu.Lock()
	s.notify = ctx.Notify
	s.notifyMu.Unlock()
}

// sendNotification sends a notification to the client.
func (s *Server) sendNotification(method string, params any) {
	s.notifyMu.Lock()
	fn := s.notify
	s.notifyMu.Unlock()
	if fn != nil {
		fn(method, params)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
