// Package vectorindex provides a flat, exact nearest-neighbour index over
// the chunk embeddings of a single document.
//
// Distances are squared Euclidean (L2). The index is built once and never
// modified, so it is safe for concurrent searches.
package vectorindex
