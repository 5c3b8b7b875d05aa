// Package domain defines the core business entities for askwork.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An indexed, ownership-tagged unit of knowledge
//   - RequesterContext: Identity and role facts for one request
//   - PermissionScope: The data categories a requester may see
//   - ClassifiedMessage: An inbound message with a triage priority
//   - SyncResult: Per-source counts and errors from one sync run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
