// Package domain defines the core business entities for locselect.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Level: One tier of the country → state → city hierarchy
//   - Selection: The chosen country, state and city
//   - SelectionKey: The ancestor values a fetch was issued under
//   - SelectorState: The read-only record handed to presentation layers
//   - AppSettings: Location Data Service configuration
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
