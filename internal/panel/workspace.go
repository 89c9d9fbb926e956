// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/pdiddy/transform-engine/pkg/types"
)

var (
	ErrDocumentOpen    = errors.New("document already has a panel")
	ErrDocumentNotOpen = errors.New("document has no panel")
)

// Workspace owns one panel per open document.
type Workspace struct {
	mu     sync.RWMutex
	panels map[string]*Panel
	order  []string
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{panels: make(map[string]*Panel)}
}

// Open creates the panel for a freshly uploaded document.
func (w *Workspace) Open(doc types.Document) (*Panel, error) {
	p := New(doc)
	if err := w.Restore(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Restore adds an existing panel, keyed by its document ID.
func (w *Workspace) Restore(p *Panel) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	docID := p.Document().ID
	if _, ok := w.panels[docID]; ok {
		return fmt.Errorf("%w: %s", ErrDocumentOpen, docID)
	}
	w.panels[docID] = p
	w.order = append(w.order, docID)
	return nil
}

// Close drops the panel of a removed document.
func (w *Workspace) Close(documentID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.panels[documentID]; !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotOpen, documentID)
	}
	delete(w.panels, documentID)
	w.order = slices.DeleteFunc(w.order, func(id string) bool { return id == documentID })
	return nil
}

// Panel returns the panel for documentID.
func (w *Workspace) Panel(documentID string) (*Panel, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.panels[documentID]
	return p, ok
}

// Panels returns all panels in the order their documents were opened.
func (w *Workspace) Panels() []*Panel {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Panel, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.panels[id])
	}
	return out
}
