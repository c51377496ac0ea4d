// Package domain defines the core business entities for Clausewise.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested agreement and its index metadata
//   - Chunk: A retrievable unit within a document
//   - AgreementType: The legal category that drives summary templates
//   - Summary: A short or detailed narrative for a document
//   - ChatSession / ChatMessage: Conversation state tied to a document
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
