// Package ports defines the outbound ports (interfaces and types) used to
// decouple token processing from the adapters that supply trust material and
// validation.
//
// Files and responsibilities
//
//   - outbound.go: TrustMaterialProvider (certificate materialization),
//     ChainVerifier (path validation), Validator and ValidatorFunc (the
//     pluggable hook), TicketDecrypter (Kerberos decryption collaborator).
//     Each interface documents an "Error Contract" with the sentinel errors
//     implementations return.
//   - errors.go: infrastructure errors shared by adapters.
//
// Ports should remain small and well-documented. The processor depends only on
// these interfaces; concrete providers live under internal/adapters/outbound.
package ports
