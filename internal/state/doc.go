// Package state remembers which documents were already up to date so
// incremental runs can skip them.
//
// Each entry maps a document path to an mdfp fingerprint of the file content
// after the last successful run and a signature of the settings that run
// used. A document is skipped only when both still match.
package state
