package catalog

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/woordquiz/internal/domain"
)

// Normalize joins the entry's word pair after trimming and lowercasing each side.
// The difficulty is left out, so the same pair tagged twice is one entry.
func Normalize(entry domain.VocabularyEntry) string {
	normalizePart := func(part string) string {
		return strings.TrimSpace(strings.ToLower(part))
	}

	return normalizePart(entry.Dutch) + "\n" + normalizePart(entry.English)
}

// Hash returns the SHA-256 of the normalized entry as a hex string.
func Hash(entry domain.VocabularyEntry) string {
	hashBytes := sha256.Sum256([]byte(Normalize(entry)))
	return fmt.Sprintf("%x", hashBytes)
}
