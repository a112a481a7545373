package entity

import (
	"net/url"
	"strings"
)

// keyConnector joins the escaped key components. Query escaping encodes
// a literal "+" inside a component as %2B, but a space also becomes
// "+", so component boundaries are not recoverable from a key and
// differently split fields can derive the same key ("university of" /
// "virginia" vs "university" / "of virginia"). Preserved legacy
// behavior: keys only need to be deterministic, not reversible.
const keyConnector = "+"

// KeyFor derives a table key from prioritized groups of identity fields.
// Groups are consulted in order; the first group with any non-empty
// component (after Normalize) becomes the basis of the key. Components
// are percent-escaped, joined with "+", and trailing connectors are
// stripped so the key stays usable as a directory name.
//
// The result is deterministic for identical normalized input. An empty
// result means no identity field carried a value; callers drop the
// candidate.
func KeyFor(groups ...[]string) string {
	for _, group := range groups {
		parts := make([]string, len(group))
		usable := false
		for i, field := range group {
			n := Normalize(field)
			if n != "" {
				usable = true
			}
			parts[i] = url.QueryEscape(n)
		}
		if !usable {
			continue
		}
		key := strings.Join(parts, keyConnector)
		return strings.TrimRight(key, keyConnector)
	}
	return ""
}
