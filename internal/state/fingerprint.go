package state

import (
	"fmt"
	"strings"

	"github.com/inful/mdfp"
)

// Fingerprint hashes document content. frontmatter is the raw YAML between
// the delimiters (empty when absent) and body is everything after it.
func Fingerprint(frontmatter, body string) string {
	return mdfp.CalculateFingerprintFromParts(frontmatter, body)
}

// Signature hashes the settings that influence generated output so a
// changed marker token or depth limit invalidates stored fingerprints.
func Signature(parts ...any) string {
	var b strings.Builder
	for _, p := range parts {
		fmt.Fprintf(&b, "%#v\n", p)
	}
	return mdfp.CalculateFingerprintFromParts("", b.String())
}
