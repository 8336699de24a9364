// Package adapters contains the infrastructure side of the hexagon.
//
// Adapters implement the interfaces of internal/ports with concrete
// technologies, or drive the application from the outside:
//
//   - inbound/cli        cobra commands of the bst binary
//   - inbound/httpapi    chi router and HTTP server
//   - outbound/truststore   PEM bundle trust store with fsnotify reload
//   - outbound/spirebundle  trust bundles from the SPIRE Workload API
//
// Adapters may import internal/domain, internal/ports and external SDKs. The
// domain and the processor never import an adapter; internal/app wires them.
package adapters
