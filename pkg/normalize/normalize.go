// Package normalize canonicalizes snippet text and fingerprints the result.
package normalize

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// supported lists languages with a real normalization pass. Everything else
// is the identity transform.
var supported = map[string]bool{
	"python": true,
}

// Supported reports whether lang has a normalization pass.
func Supported(lang string) bool {
	return supported[lang]
}

// Normalize canonicalizes code for the given language tag: every line is
// right-trimmed, runs of two or more blank lines collapse to one, leading
// and trailing blank lines are stripped, and the result ends with exactly
// one newline. Unsupported languages pass through verbatim. Idempotent.
func Normalize(code, lang string) string {
	if !supported[lang] {
		return code
	}

	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, ln := range lines {
		ln = strings.TrimRight(ln, " \t\r")
		if ln == "" {
			blank++
			if blank > 1 {
				continue
			}
		} else {
			blank = 0
		}
		out = append(out, ln)
	}

	return strings.Trim(strings.Join(out, "\n"), "\n") + "\n"
}

// Hash returns the hex-encoded blake3 digest of text. Stable across runs
// and platforms.
func Hash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
