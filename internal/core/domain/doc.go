// Package domain defines the core business entities for mediadex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDocument: One media catalog entry, with open extension fields
//   - Category constants and NormalizeType: document classification
//   - Repository: A configured catalog repository to organise
//   - Grouping / CombinedGrouping: Aggregated document structures
//   - Summary: The per-run statistics report
//   - RawFile: Opaque bytes fetched by an ingester
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
