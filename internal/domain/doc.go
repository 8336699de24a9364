// Package domain contains the domain model for binary security token processing.
//
// This package is the CORE of the hexagonal architecture. It defines the token
// variants, credentials, principals and processing results with no dependency
// on adapters, SDKs or infrastructure.
//
// Boundaries:
//   - Domain NEVER imports from: internal/adapters, internal/ports, external SDKs
//   - Domain ONLY imports from: standard library (and x/crypto/cryptobyte for
//     framing that is part of the token format itself)
//   - Domain does NOT: perform I/O, verify trust, decrypt tickets
//
// Files and types
//
//   - value_type.go: URI literals recognized on the ValueType and EncodingType
//     attributes, and the namespaces of the header elements.
//   - encoded_token.go: EncodedToken, the token element as captured from the
//     message before any decoding.
//   - binary_token.go, kerberos.go: BinaryToken, the sealed union of RawBinary,
//     X509Single, X509Chain and KerberosTicket. TokenVisitor is the exhaustive
//     match over it.
//   - credential.go, principal.go: the Credential handed to validators, the
//     Principal implementations and the TransformedToken contract.
//   - result.go: ProcessingResult, the immutable record registered in the
//     per-document context.
//   - errors.go: sentinel errors for the three failure classes.
package domain
