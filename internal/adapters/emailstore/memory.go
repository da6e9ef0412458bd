// Package emailstore provides in-process implementations of the
// ingestion collaborator's document accessor. Real ingestion and
// durable document storage live outside this engine; the CLIs and
// tests load documents here before scoring.
package emailstore

import (
	"context"
	"sync"

	"github.com/mailrisk/risk-engine/internal/core"
)

// MemoryRepository is an in-memory implementation of the
// EmailRepository interface
type MemoryRepository struct {
	docs map[string]*core.EmailDocument
	mu   sync.RWMutex
}

// NewMemoryRepository creates a new in-memory email repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{docs: make(map[string]*core.EmailDocument)}
}

// Put stores a document under its id
func (r *MemoryRepository) Put(doc *core.EmailDocument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
}

// Get returns the document for an email id, or ErrEmailNotFound
func (r *MemoryRepository) Get(_ context.Context, emailID string) (*core.EmailDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[emailID]
	if !ok {
		return nil, core.ErrEmailNotFound
	}
	return doc, nil
}
