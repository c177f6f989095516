package store

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePath puts a File.path into its canonical database-fixed form:
// NFC normalization (so the same path typed on different platforms/input
// methods compares equal) followed by forward-slash separators. Per §3
// "path (normalized, database-fixed form)".
func NormalizePath(path string) string {
	normalized := norm.NFC.String(path)

	return strings.ReplaceAll(normalized, `\`, "/")
}

// EscapeLikePattern escapes SQL LIKE wildcards (%, _) and the escape
// character itself so a normalized path can be used as an exact-match LIKE
// prefix without accidentally matching wildcards embedded in a real
// filename (§3 File invariant: "escapes SQL LIKE wildcards so prefix
// queries are exact").
func EscapeLikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

	return r.Replace(s)
}
