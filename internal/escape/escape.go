// Package escape maps arbitrary remote repository URLs to stable,
// filesystem-safe directory names.
package escape

import (
	"fmt"
	"strings"
)

// Escape returns a token safe for use as a single path segment of the
// given url. The mapping is deterministic and stable across processes so
// repeated runs with the same url resolve to the same mirror directory.
//
// Unreserved characters 'A-Za-z0-9', '-' and '_' pass through unchanged,
// space is encoded as '+' and every other byte is percent-encoded.
func Escape(url string) string {
	var b strings.Builder
	b.Grow(len(url))

	for i := 0; i < len(url); i++ {
		c := url[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '-', c == '_':
			b.WriteByte(c)
		case c == ' ':
			b.WriteByte('+')
		default:
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}

	return b.String()
}
