package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates no normaliser handles a document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConfiguration indicates invalid processing parameters,
	// such as a chunk overlap that is not smaller than the chunk size.
	// It is raised before any work starts.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// Pipeline Errors.

	// ErrTextExtraction indicates the text source could not produce text.
	// Fatal for the document being ingested.
	ErrTextExtraction = errors.New("text extraction failed")

	// ErrEmbeddingExhausted indicates an embedding batch kept failing
	// until the retry budget ran out. No partial index is persisted.
	ErrEmbeddingExhausted = errors.New("embedding provider exhausted")

	// ErrClassification indicates the agreement type could not be determined.
	// Recovered locally as AgreementUnknown.
	ErrClassification = errors.New("classification failed")

	// ErrGeneration indicates the generative provider failed to produce text.
	// Recovered locally with a placeholder.
	ErrGeneration = errors.New("generation failed")

	// ErrEmptyIndex indicates a search against a document with no indexed chunks.
	ErrEmptyIndex = errors.New("document not ready: empty index")

	// ErrDocumentNotFound indicates an unknown document id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrSessionNotFound indicates an unknown session id.
	// Callers should start a new session.
	ErrSessionNotFound = errors.New("session not found")

	// Provider Errors.

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderRejected indicates the provider refused the request outright
	// (bad credentials, malformed request). Retrying will not help.
	ErrProviderRejected = errors.New("provider rejected request")
)
