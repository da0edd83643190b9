package events

import (
	"time"
)

// RewriteEvent describes one document rewritten on disk.
// It is published to NATS for downstream consumers (site rebuilds, audits).
type RewriteEvent struct {
	// Run context
	RunID string `json:"run_id"` // Identifier shared by every event of one invocation

	// Document
	Path         string `json:"path"`          // Path as discovered (absolute or root-relative)
	RelativePath string `json:"relative_path"` // Path relative to the processed root

	// Generated content
	Regions  int `json:"regions"`  // Regions regenerated
	Headings int `json:"headings"` // Headings listed
	Figures  int `json:"figures"`  // Figures numbered

	Fingerprint string    `json:"fingerprint,omitempty"` // mdfp fingerprint of the new content
	Timestamp   time.Time `json:"timestamp"`             // When the document was written
}
