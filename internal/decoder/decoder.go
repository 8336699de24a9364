// Package decoder maps a captured token element to one of the BinaryToken variants.
//
// Dispatch is an exact string match on the ValueType, first match wins:
//
//	X509v3          -> *domain.X509Single
//	X509PKIPathv1   -> *domain.X509Chain
//	Kerberos AP-REQ -> *domain.KerberosTicket (six literals)
//	anything else   -> *domain.RawBinary
//
// No trust decision is made here.
package decoder

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/sufield/bst/internal/domain"
)

// Decode decodes tok into its BinaryToken variant.
//
// The payload is standard base64; whitespace (line breaks inside the element
// text) is ignored. When strict is set the Basic Security Profile rules apply:
// EncodingType must be present and equal to Base64Binary, and ValueType must
// be present.
//
// Returns an error wrapping domain.ErrTokenFormat when the payload is not
// valid base64 or when strict mode rejects the attributes.
func Decode(tok *domain.EncodedToken, strict bool) (domain.BinaryToken, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: token element is nil", domain.ErrTokenFormat)
	}

	if strict {
		if err := checkProfile(tok); err != nil {
			return nil, err
		}
	}

	data, err := decodePayload(tok.Payload())
	if err != nil {
		return nil, err
	}

	valueType := tok.ValueType()
	encodingType := tok.EncodingType()
	switch {
	case valueType == domain.ValueTypeX509V3:
		return domain.NewX509Single(encodingType, data), nil
	case valueType == domain.ValueTypePKIPath:
		return domain.NewX509Chain(encodingType, data), nil
	case domain.IsKerberosValueType(valueType):
		return domain.NewKerberosTicket(valueType, encodingType, data), nil
	default:
		return domain.NewRawBinary(valueType, encodingType, data), nil
	}
}

// checkProfile enforces the Basic Security Profile constraints on the attributes.
func checkProfile(tok *domain.EncodedToken) error {
	if tok.EncodingType() == "" {
		return fmt.Errorf("%w: EncodingType is required", domain.ErrTokenFormat)
	}
	if tok.EncodingType() != domain.EncodingBase64Binary {
		return fmt.Errorf("%w: unsupported EncodingType %q", domain.ErrTokenFormat, tok.EncodingType())
	}
	if tok.ValueType() == "" {
		return fmt.Errorf("%w: ValueType is required", domain.ErrTokenFormat)
	}
	return nil
}

func decodePayload(payload string) ([]byte, error) {
	compact := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not valid base64: %v", domain.ErrTokenFormat, err)
	}
	return data, nil
}
