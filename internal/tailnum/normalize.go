// Package tailnum canonicalizes U.S. aircraft registration identifiers.
package tailnum

import "strings"

// Normalize converts a raw tail number to the storage key format: uppercase,
// hyphens and spaces stripped, country prefix removed. Registry keys never
// begin with the prefix letter, so every leading "N" is prefix. A key is
// letters and digits only; anything else makes the input invalid, reported
// as an empty result. The function is total and idempotent for any string
// input.
func Normalize(raw string) string {
	t := strings.ToUpper(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "-", "")
	t = strings.ReplaceAll(t, " ", "")
	t = strings.TrimLeft(t, "N")

	for _, r := range t {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return t
}
