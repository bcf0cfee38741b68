// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Ingester: Fetches raw catalog files from a repository
//   - IngesterFactory: Creates ingesters from repository configuration
//   - OutputWriter: Persists groupings and the summary
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RunStore: Run-history persistence. Without it, `mediadex runs`
//     has nothing to show but organising is unaffected.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or ingester package
package driven
