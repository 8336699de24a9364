package validation

import (
	"github.com/sufield/bst/internal/domain"
	"github.com/sufield/bst/internal/ports"
)

// Table maps element names to validators.
//
// It is filled once while wiring the application and only read afterwards,
// so it can be shared across goroutines without locking.
type Table struct {
	validators map[domain.QName]ports.Validator
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{validators: make(map[domain.QName]ports.Validator)}
}

// Register sets the validator for name, replacing any previous one.
// A nil validator removes the entry.
func (t *Table) Register(name domain.QName, v ports.Validator) {
	if v == nil {
		delete(t.validators, name)
		return
	}
	t.validators[name] = v
}

// Lookup returns the validator for name. A nil table has no entries.
func (t *Table) Lookup(name domain.QName) (ports.Validator, bool) {
	if t == nil {
		return nil, false
	}
	v, ok := t.validators[name]
	return v, ok
}

// Len returns the number of registered validators.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.validators)
}
