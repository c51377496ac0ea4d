// Package services implements the driving port interfaces.
//
// The pipeline is built from small parts: an Embedder that batches and
// retries provider calls, a Classifier and Summarizer for agreement-aware
// summaries, an Answerer that retrieves context from a document's vector
// index, and a SessionStore for chat history. IngestService and
// ChatService compose them; all persistence goes through a driven.BlobStore.
package services
