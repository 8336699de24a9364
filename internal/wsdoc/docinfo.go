// Package wsdoc holds the processing context of one secured message.
//
// A DocInfo records every processed token element and its result so that
// later stages working on the same document (signature reference
// resolution, replay checks) can look a token up by its wsu:Id.
//
// Concurrency: Not safe for concurrent use. The owner of a document
// serializes access; independent documents use independent DocInfo values.
package wsdoc

import (
	"errors"

	"github.com/google/uuid"

	"github.com/sufield/bst/internal/domain"
)

// DocInfo is the per-document registry of processed token elements.
type DocInfo struct {
	id       string
	elements map[string]*domain.EncodedToken
	byID     map[string]*domain.ProcessingResult
	results  []*domain.ProcessingResult
}

// New creates an empty context with a random document id.
func New() *DocInfo {
	return &DocInfo{
		id:       uuid.NewString(),
		elements: make(map[string]*domain.EncodedToken),
		byID:     make(map[string]*domain.ProcessingResult),
	}
}

// ID identifies the document in logs.
func (d *DocInfo) ID() string {
	return d.id
}

// Register records a processed element and its result. It is the only way
// to write to a DocInfo and either records both or nothing.
//
// A result without id is appended to the ordered list only. Ids are not
// checked for uniqueness; a later registration with the same id replaces the
// earlier one in the id index.
func (d *DocInfo) Register(elem *domain.EncodedToken, result *domain.ProcessingResult) error {
	if elem == nil {
		return errors.New("wsdoc: element is nil")
	}
	if result == nil {
		return errors.New("wsdoc: result is nil")
	}

	d.results = append(d.results, result)
	if result.HasID() {
		d.elements[result.ID()] = elem
		d.byID[result.ID()] = result
	}
	return nil
}

// TokenElement returns the element registered under id.
func (d *DocInfo) TokenElement(id string) (*domain.EncodedToken, bool) {
	elem, ok := d.elements[id]
	return elem, ok
}

// Result returns the result registered under id.
func (d *DocInfo) Result(id string) (*domain.ProcessingResult, bool) {
	r, ok := d.byID[id]
	return r, ok
}

// Results returns all results in registration order.
func (d *DocInfo) Results() []*domain.ProcessingResult {
	out := make([]*domain.ProcessingResult, len(d.results))
	copy(out, d.results)
	return out
}

// ResultsByAction returns the results produced by one kind of processor, in
// registration order.
func (d *DocInfo) ResultsByAction(action domain.Action) []*domain.ProcessingResult {
	var out []*domain.ProcessingResult
	for _, r := range d.results {
		if r.Action() == action {
			out = append(out, r)
		}
	}
	return out
}

// Len returns the number of registered results.
func (d *DocInfo) Len() int {
	return len(d.results)
}
