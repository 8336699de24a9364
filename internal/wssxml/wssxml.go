// Package wssxml extracts BinarySecurityToken elements from an XML message.
//
// Only element names, the ValueType, EncodingType and wsu:Id attributes, and
// the element text are captured. No canonicalization or signature handling
// is done here.
package wssxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sufield/bst/internal/domain"
)

// ErrMalformedXML indicates the document could not be tokenized.
var ErrMalformedXML = errors.New("malformed XML")

// maxTokenText bounds the text captured for one element. It does not bound
// decoder memory; Extract limits the document as a whole.
const maxTokenText = 1 << 20

// MaxDocumentSize bounds the bytes Extract reads from its input.
const MaxDocumentSize = 16 << 20

// ErrDocumentTooLarge indicates the input exceeded MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("document too large")

// Extract returns every wsse:BinarySecurityToken element of the document in
// document order. At most MaxDocumentSize bytes are read.
func Extract(r io.Reader) ([]*domain.EncodedToken, error) {
	lr := &io.LimitedReader{R: r, N: MaxDocumentSize + 1}
	tokens, err := extract(xml.NewDecoder(lr))
	if lr.N <= 0 {
		return nil, fmt.Errorf("wssxml: %w: exceeds %d bytes", ErrDocumentTooLarge, MaxDocumentSize)
	}
	return tokens, err
}

func extract(dec *xml.Decoder) ([]*domain.EncodedToken, error) {
	var tokens []*domain.EncodedToken

	for {
		t, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return tokens, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wssxml: %w: %w", ErrMalformedXML, err)
		}

		start, ok := t.(xml.StartElement)
		if !ok || !isBinarySecurityToken(start.Name) {
			continue
		}
		tok, err := readToken(dec, start)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
}

// ExtractString is Extract over a string.
func ExtractString(doc string) ([]*domain.EncodedToken, error) {
	return Extract(strings.NewReader(doc))
}

func isBinarySecurityToken(name xml.Name) bool {
	return name.Space == domain.WSSENamespace && name.Local == domain.BinarySecurityTokenLocalName
}

func readToken(dec *xml.Decoder, start xml.StartElement) (*domain.EncodedToken, error) {
	var valueType, encodingType, id string
	for _, attr := range start.Attr {
		switch {
		case attr.Name.Space == "" && attr.Name.Local == "ValueType":
			valueType = attr.Value
		case attr.Name.Space == "" && attr.Name.Local == "EncodingType":
			encodingType = attr.Value
		case attr.Name.Space == domain.WSUNamespace && attr.Name.Local == "Id":
			id = attr.Value
		}
	}

	var text strings.Builder
	for {
		t, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("wssxml: %w: inside BinarySecurityToken: %w", ErrMalformedXML, err)
		}
		switch v := t.(type) {
		case xml.CharData:
			if text.Len()+len(v) > maxTokenText {
				return nil, fmt.Errorf("wssxml: %w: BinarySecurityToken text exceeds %d bytes", ErrMalformedXML, maxTokenText)
			}
			text.Write(v)
		case xml.StartElement:
			return nil, fmt.Errorf("wssxml: %w: unexpected element %s inside BinarySecurityToken",
				ErrMalformedXML, v.Name.Local)
		case xml.EndElement:
			name := domain.QName{Namespace: start.Name.Space, Local: start.Name.Local}
			return domain.NewEncodedToken(name, valueType, encodingType, id, text.String()), nil
		}
	}
}
