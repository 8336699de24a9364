package dto

import (
	"github.com/sufield/bst/internal/domain"
)

// Document is the output of processing one message.
type Document struct {
	Document string   `json:"document" yaml:"document"`
	Results  []Result `json:"results" yaml:"results"`
}

// Token describes a decoded token before any trust decision.
type Token struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Kind      string    `json:"kind" yaml:"kind"`
	ValueType string    `json:"valueType" yaml:"valueType"`
	Size      int       `json:"size" yaml:"size"`
	Kerberos  *Kerberos `json:"kerberos,omitempty" yaml:"kerberos,omitempty"`
}

// FromToken describes tok as decoded from elem.
func FromToken(elem *domain.EncodedToken, tok domain.BinaryToken) Token {
	return Token{
		ID:        elem.ID(),
		Kind:      tok.Kind().String(),
		ValueType: tok.ValueType(),
		Size:      len(tok.Bytes()),
		Kerberos:  kerberosOf(tok),
	}
}
