package domain

// Namespaces of the WS-Security header elements.
const (
	// WSSENamespace is the OASIS WSS 1.0 secext namespace of BinarySecurityToken.
	WSSENamespace = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"

	// WSUNamespace is the utility namespace carrying the Id attribute.
	WSUNamespace = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"

	// BinarySecurityTokenLocalName is the local name of the token element.
	BinarySecurityTokenLocalName = "BinarySecurityToken"
)

// EncodingBase64Binary is the only EncodingType allowed by the Basic Security Profile.
const EncodingBase64Binary = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-soap-message-security-1.0#Base64Binary"

const (
	x509ProfileNS     = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-x509-token-profile-1.0#"
	kerberosProfileNS = "http://docs.oasis-open.org/wss/oasis-wss-kerberos-token-profile-1.1#"
)

// X.509 token profile value types.
const (
	ValueTypeX509V3  = x509ProfileNS + "X509v3"
	ValueTypePKIPath = x509ProfileNS + "X509PKIPathv1"
)

// Kerberos token profile AP-REQ value types.
const (
	ValueTypeKerberosAPReq        = kerberosProfileNS + "Kerberosv5_AP_REQ"
	ValueTypeGSSKerberosAPReq     = kerberosProfileNS + "GSS_Kerberosv5_AP_REQ"
	ValueTypeKerberosAPReq1510    = kerberosProfileNS + "Kerberosv5_AP_REQ1510"
	ValueTypeGSSKerberosAPReq1510 = kerberosProfileNS + "GSS_Kerberosv5_AP_REQ1510"
	ValueTypeKerberosAPReq4120    = kerberosProfileNS + "Kerberosv5_AP_REQ4120"
	ValueTypeGSSKerberosAPReq4120 = kerberosProfileNS + "GSS_Kerberosv5_AP_REQ4120"
)

// KerberosRevision identifies which Kerberos RFC a value type pins the ticket to.
type KerberosRevision int

const (
	KerberosRevisionUnspecified KerberosRevision = iota
	KerberosRevisionRFC1510
	KerberosRevisionRFC4120
)

// String returns a short label for the revision.
func (r KerberosRevision) String() string {
	switch r {
	case KerberosRevisionRFC1510:
		return "RFC1510"
	case KerberosRevisionRFC4120:
		return "RFC4120"
	default:
		return "unspecified"
	}
}

type kerberosType struct {
	gss      bool
	revision KerberosRevision
}

var kerberosValueTypes = map[string]kerberosType{
	ValueTypeKerberosAPReq:        {gss: false, revision: KerberosRevisionUnspecified},
	ValueTypeGSSKerberosAPReq:     {gss: true, revision: KerberosRevisionUnspecified},
	ValueTypeKerberosAPReq1510:    {gss: false, revision: KerberosRevisionRFC1510},
	ValueTypeGSSKerberosAPReq1510: {gss: true, revision: KerberosRevisionRFC1510},
	ValueTypeKerberosAPReq4120:    {gss: false, revision: KerberosRevisionRFC4120},
	ValueTypeGSSKerberosAPReq4120: {gss: true, revision: KerberosRevisionRFC4120},
}

// KerberosValueTypes returns the six recognized Kerberos AP-REQ literals.
func KerberosValueTypes() []string {
	return []string{
		ValueTypeKerberosAPReq,
		ValueTypeGSSKerberosAPReq,
		ValueTypeKerberosAPReq1510,
		ValueTypeGSSKerberosAPReq1510,
		ValueTypeKerberosAPReq4120,
		ValueTypeGSSKerberosAPReq4120,
	}
}

// IsKerberosValueType reports whether valueType is one of the Kerberos AP-REQ literals.
// Matching is exact; no normalization is applied.
func IsKerberosValueType(valueType string) bool {
	_, ok := kerberosValueTypes[valueType]
	return ok
}

// kerberosFlags returns the wrapping and revision implied by a Kerberos value type.
func kerberosFlags(valueType string) (gss bool, revision KerberosRevision) {
	kt := kerberosValueTypes[valueType]
	return kt.gss, kt.revision
}
