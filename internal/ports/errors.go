package ports

import "errors"

// Infrastructure errors for the adapter layer.
//
// These errors represent adapter concerns (stores, sockets, bundles) and are
// separate from the domain errors, which represent token-level failures.
// Adapters wrap them together with the matching domain error where the
// processor needs to classify the failure.

// ErrProviderUnavailable indicates the trust-material provider was closed or
// could not reach its backing store (e.g. the SPIRE Workload API).
var ErrProviderUnavailable = errors.New("trust material provider unavailable")

// ErrTrustBundleNotFound indicates no trust anchors are configured for a
// verification request.
var ErrTrustBundleNotFound = errors.New("trust bundle not found")

// ErrChainNotTrusted indicates the chain does not lead to a configured anchor.
var ErrChainNotTrusted = errors.New("certificate chain not trusted")

// Compile-time check that errors implement error interface
var (
	_ error = ErrProviderUnavailable
	_ error = ErrTrustBundleNotFound
	_ error = ErrChainNotTrusted
)
