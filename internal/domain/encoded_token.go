package domain

// QName is a namespace-qualified element name.
// It is the key of the validator capability table.
type QName struct {
	Namespace string
	Local     string
}

// String renders the name in Clark notation: {namespace}local.
func (q QName) String() string {
	if q.Namespace == "" {
		return q.Local
	}
	return "{" + q.Namespace + "}" + q.Local
}

// BinarySecurityTokenName is the qualified name of wsse:BinarySecurityToken.
var BinarySecurityTokenName = QName{Namespace: WSSENamespace, Local: BinarySecurityTokenLocalName}

// EncodedToken is a token element as captured from the message header.
//
// It carries the declared ValueType (type tag), the optional EncodingType,
// the optional wsu:Id and the element text exactly as found. Nothing has been
// decoded or trusted yet.
//
// Immutable once constructed.
type EncodedToken struct {
	name         QName
	valueType    string
	encodingType string
	id           string
	payload      string
}

// NewEncodedToken captures a token element.
// Empty strings stand for absent attributes.
func NewEncodedToken(name QName, valueType, encodingType, id, payload string) *EncodedToken {
	return &EncodedToken{
		name:         name,
		valueType:    valueType,
		encodingType: encodingType,
		id:           id,
		payload:      payload,
	}
}

// Name returns the element's qualified name.
func (t *EncodedToken) Name() QName {
	return t.name
}

// ValueType returns the declared type tag, or "" when absent.
func (t *EncodedToken) ValueType() string {
	return t.valueType
}

// EncodingType returns the declared encoding tag, or "" when absent.
func (t *EncodedToken) EncodingType() string {
	return t.encodingType
}

// ID returns the wsu:Id attribute value, or "" when absent.
func (t *EncodedToken) ID() string {
	return t.id
}

// HasID reports whether the element carried a wsu:Id.
func (t *EncodedToken) HasID() bool {
	return t.id != ""
}

// Payload returns the element text (base64, possibly with whitespace).
func (t *EncodedToken) Payload() string {
	return t.payload
}
