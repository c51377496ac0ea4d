// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TextSource: Pulls raw text for a document locator
//   - Normaliser / NormaliserRegistry: Turns file bytes into text
//   - BlobStore: Durable (owner, key) blob storage for indexes, chunks,
//     summaries, and sessions
//   - EmbeddingService: Generates vector embeddings
//   - LLMService: Generates text for classification, summaries, and answers
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
