// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Per-requester in-memory document snapshot
//   - SyncResultCache: Short-lived per-requester sync results
//   - IdentityService: Resolves a user ID into a RequesterContext
//   - ConfigStore: Application configuration
//   - RecordNormaliser: Turns source records into Documents
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it, retrieval uses keyword matching.
//   - ChatService: Without it, answers are a fixed apology.
//   - IssueTracker, CalendarService, MailService, KnowledgeBase:
//     each missing source is skipped during sync.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
