package textutil

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizePath trims surrounding whitespace and converts p to NFC.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || norm.NFC.IsNormalString(p) {
		return p
	}
	return norm.NFC.String(p)
}
