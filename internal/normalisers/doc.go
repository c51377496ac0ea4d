// Package normalisers turns agreement files into plain text.
//
// Each subpackage handles one family of formats (pdf, docx, plaintext).
// A Registry picks the highest-priority normaliser for a MIME type.
package normalisers
