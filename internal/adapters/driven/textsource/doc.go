// Package textsource holds TextSource adapters.
//
// The file subpackage reads agreements from the local filesystem and
// watches directories for new ones.
package textsource
