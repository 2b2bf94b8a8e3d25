// Copyright © 2024 The ELPS authors

package lsp

import (
	"sort"
	"sync"

	"github.com/jshint/jshint-sub001/lint"
)

// Document represents an open text document tracked by the LSP server.
type Document struct {
	mu      sync.Mutex
	URI     string
	Version int32
	Content string
	result  *lint.FileResult
}

// lint checks the document content and caches the result.  The caller
// holds d.mu.
func (d *Document) lint(l *lint.Linter) {
	res, err := l.LintSource([]byte(d.Content), uriToPath(d.URI))
	if err != nil {
		res = &lint.FileResult{
			Filename: uriToPath(d.URI),
			Diagnostics: []lint.Diagnostic{{
				Pos:      lint.Position{File: uriToPath(d.URI), Line: 1, Col: 1},
				Message:  err.Error(),
				Analyzer: lint.ParserAnalyzer,
				Severity: lint.SeverityError,
			}},
		}
	}
	d.result = res
}

// DocumentStore manages open documents with thread-safe access.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds a document to the store.
func (s *DocumentStore) Open(uri string, version int32, content string) *Document {
	doc := &Document{
		URI:     uri,
		Version: version,
		Content: content,
	}
	s.mu.Lock()
	s.docs[uri] = doc
	s.mu.Unlock()
	return doc
}

// Change updates a document's content (full sync).
func (s *DocumentStore) Change(uri string, version int32, content string) *Document {
	s.mu.Lock()
	doc, ok := s.docs[uri]
	if !ok {
		doc = &Document{URI: uri}
		s.docs[uri] = doc
	}
	s.mu.Unlock()

	doc.mu.Lock()
	doc.Version = version
	doc.Content = content
	// Clear the cached result; it will be rebuilt on next request.
	doc.result = nil
	doc.mu.Unlock()
	return doc
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	delete(s.docs, uri)
	s.mu.Unlock()
}

// Get retrieves a document by URI. Returns nil if not found.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// All returns the open documents ordered by URI.
func (s *DocumentStore) All() []*Document {
	s.mu.RLock()
	docs := make([]*Document, 0, len(s.docs))
	for _, d := range s.docs {
		docs = append(docs, d)
	}
	s.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool { return docs[i].URI < docs[j].URI })
	return docs
}
