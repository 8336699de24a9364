// Package app is the composition root.
//
// Bootstrap turns a validated config.Config into the collaborators of the
// token processor: trust stores (PEM bundle files, optionally watched, and
// the SPIRE Workload API), the validator table and the RequestData shared by
// every document. The resulting Application is what the inbound adapters
// (CLI, HTTP API) call.
//
// Files
//   - application.go: Application, ProcessDocument, Run and Close.
//   - bootstrap.go: Bootstrap and the per-section builders.
package app
