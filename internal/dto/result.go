// Package dto holds transport shapes shared by the CLI and the HTTP API.
package dto

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sufield/bst/internal/domain"
)

// Result is the serialized form of a ProcessingResult.
type Result struct {
	ID           string        `json:"id,omitempty" yaml:"id,omitempty"`
	Action       string        `json:"action" yaml:"action"`
	Kind         string        `json:"kind" yaml:"kind"`
	ValueType    string        `json:"valueType" yaml:"valueType"`
	Validated    bool          `json:"validated" yaml:"validated"`
	Principal    *Principal    `json:"principal,omitempty" yaml:"principal,omitempty"`
	Certificates []Certificate `json:"certificates,omitempty" yaml:"certificates,omitempty"`
	Transformed  *Transformed  `json:"transformedToken,omitempty" yaml:"transformedToken,omitempty"`
	Kerberos     *Kerberos     `json:"kerberos,omitempty" yaml:"kerberos,omitempty"`
}

// Principal is the authenticated identity.
type Principal struct {
	Type string `json:"type" yaml:"type"`
	Name string `json:"name" yaml:"name"`
}

// Certificate summarizes one chain element. Key material is never included.
type Certificate struct {
	Subject      string    `json:"subject" yaml:"subject"`
	Issuer       string    `json:"issuer" yaml:"issuer"`
	SerialNumber string    `json:"serialNumber" yaml:"serialNumber"`
	NotBefore    time.Time `json:"notBefore" yaml:"notBefore"`
	NotAfter     time.Time `json:"notAfter" yaml:"notAfter"`
	URIs         []string  `json:"uris,omitempty" yaml:"uris,omitempty"`
	SHA256       string    `json:"sha256" yaml:"sha256"`
}

// Transformed describes a token minted by a validator.
type Transformed struct {
	Type    string `json:"type" yaml:"type"`
	Subject string `json:"subject" yaml:"subject"`
	// Value is the serialized token when the type exposes one.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`
}

// Kerberos carries the flags of a Kerberos ticket.
type Kerberos struct {
	GSSWrapped bool   `json:"gssWrapped" yaml:"gssWrapped"`
	Revision   string `json:"revision" yaml:"revision"`
}

// compacter is implemented by transformed tokens with a wire form.
type compacter interface {
	Compact() string
}

// FromResult converts a processing result.
func FromResult(r *domain.ProcessingResult) Result {
	out := Result{
		ID:        r.ID(),
		Action:    r.Action().String(),
		Kind:      r.Token().Kind().String(),
		ValueType: r.Token().ValueType(),
		Validated: r.Validated(),
	}

	if p := r.Principal(); p != nil {
		out.Principal = &Principal{Type: principalType(p), Name: p.Name()}
	}
	for _, cert := range r.Certificates() {
		sum := sha256.Sum256(cert.Raw)
		c := Certificate{
			Subject:      cert.Subject.String(),
			Issuer:       cert.Issuer.String(),
			SerialNumber: cert.SerialNumber.Text(16),
			NotBefore:    cert.NotBefore.UTC(),
			NotAfter:     cert.NotAfter.UTC(),
			SHA256:       hex.EncodeToString(sum[:]),
		}
		for _, u := range cert.URIs {
			c.URIs = append(c.URIs, u.String())
		}
		out.Certificates = append(out.Certificates, c)
	}
	if tt := r.TransformedToken(); tt != nil {
		out.Transformed = &Transformed{Type: tt.TokenType(), Subject: tt.Subject()}
		if c, ok := tt.(compacter); ok {
			out.Transformed.Value = c.Compact()
		}
	}
	out.Kerberos = kerberosOf(r.Token())
	return out
}

func kerberosOf(tok domain.BinaryToken) *Kerberos {
	k, ok := tok.(*domain.KerberosTicket)
	if !ok {
		return nil
	}
	return &Kerberos{GSSWrapped: k.GSSWrapped(), Revision: k.Revision().String()}
}

// FromResults converts results in order.
func FromResults(results []*domain.ProcessingResult) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		out = append(out, FromResult(r))
	}
	return out
}

func principalType(p domain.Principal) string {
	switch p.(type) {
	case *domain.X500Principal:
		return "x500"
	case *domain.SPIFFEPrincipal:
		return "spiffe"
	case *domain.KerberosPrincipal:
		return "kerberos"
	case *domain.TokenPrincipal:
		return "token"
	default:
		return "custom"
	}
}
