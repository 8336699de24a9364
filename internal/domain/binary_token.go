package domain

// Kind labels a BinaryToken variant for logs and transport.
type Kind int

const (
	KindRawBinary Kind = iota
	KindX509Single
	KindX509Chain
	KindKerberosTicket
)

// String returns the variant label.
func (k Kind) String() string {
	switch k {
	case KindX509Single:
		return "X509Single"
	case KindX509Chain:
		return "X509Chain"
	case KindKerberosTicket:
		return "KerberosTicket"
	default:
		return "RawBinary"
	}
}

// BinaryToken is a decoded binary security token.
//
// The set of implementations is closed: RawBinary, X509Single, X509Chain and
// KerberosTicket. Code that must treat every variant implements TokenVisitor;
// adding a variant adds a method to TokenVisitor, so every such site stops
// compiling until it handles the new kind.
//
// Each variant owns its decoded bytes. Accessors return copies.
type BinaryToken interface {
	// Kind returns the variant label.
	Kind() Kind
	// ValueType returns the type tag the token was declared with.
	ValueType() string
	// EncodingType returns the declared encoding tag, or "".
	EncodingType() string
	// Bytes returns a copy of the decoded payload.
	Bytes() []byte
	// Accept dispatches to the visitor method for this variant.
	Accept(v TokenVisitor) error

	sealed()
}

// TokenVisitor is the exhaustive match over BinaryToken variants.
type TokenVisitor interface {
	VisitRawBinary(t *RawBinary) error
	VisitX509Single(t *X509Single) error
	VisitX509Chain(t *X509Chain) error
	VisitKerberosTicket(t *KerberosTicket) error
}

// binaryToken holds the state shared by every variant.
type binaryToken struct {
	valueType    string
	encodingType string
	data         []byte
}

func newBinaryToken(valueType, encodingType string, data []byte) binaryToken {
	owned := make([]byte, len(data))
	copy(owned, data)
	return binaryToken{valueType: valueType, encodingType: encodingType, data: owned}
}

func (b *binaryToken) ValueType() string    { return b.valueType }
func (b *binaryToken) EncodingType() string { return b.encodingType }

func (b *binaryToken) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

func (b *binaryToken) sealed() {}

// RawBinary is a token whose type tag is not recognized.
// The payload is kept verbatim, together with the original type tag, for
// validators that know what to do with it.
type RawBinary struct {
	binaryToken
}

// NewRawBinary creates a RawBinary token.
func NewRawBinary(valueType, encodingType string, data []byte) *RawBinary {
	return &RawBinary{binaryToken: newBinaryToken(valueType, encodingType, data)}
}

func (t *RawBinary) Kind() Kind                  { return KindRawBinary }
func (t *RawBinary) Accept(v TokenVisitor) error { return v.VisitRawBinary(t) }

// X509Single carries one DER-encoded X.509v3 certificate.
type X509Single struct {
	binaryToken
}

// NewX509Single creates an X509Single token from DER bytes.
func NewX509Single(encodingType string, der []byte) *X509Single {
	return &X509Single{binaryToken: newBinaryToken(ValueTypeX509V3, encodingType, der)}
}

func (t *X509Single) Kind() Kind                  { return KindX509Single }
func (t *X509Single) Accept(v TokenVisitor) error { return v.VisitX509Single(t) }

// CertificateBytes returns a copy of the DER certificate.
func (t *X509Single) CertificateBytes() []byte {
	return t.Bytes()
}

// X509Chain carries an ordered certificate chain encoded as a PkiPath.
type X509Chain struct {
	binaryToken
}

// NewX509Chain creates an X509Chain token from PkiPath DER bytes.
func NewX509Chain(encodingType string, pkiPath []byte) *X509Chain {
	return &X509Chain{binaryToken: newBinaryToken(ValueTypePKIPath, encodingType, pkiPath)}
}

func (t *X509Chain) Kind() Kind                  { return KindX509Chain }
func (t *X509Chain) Accept(v TokenVisitor) error { return v.VisitX509Chain(t) }

// PathBytes returns a copy of the PkiPath encoding.
func (t *X509Chain) PathBytes() []byte {
	return t.Bytes()
}

var (
	_ BinaryToken = (*RawBinary)(nil)
	_ BinaryToken = (*X509Single)(nil)
	_ BinaryToken = (*X509Chain)(nil)
	_ BinaryToken = (*KerberosTicket)(nil)
)
