package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// fillers are dropped when deriving a canonical goal from free text.
var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "you": true, "need": true,
	"to": true, "will": true, "should": true, "must": true, "can": true,
}

// Normalize lowercases and trims a canonical goal so that casing and
// surrounding whitespace never produce distinct fingerprints.
func Normalize(goal string) string {
	return strings.TrimSpace(strings.ToLower(goal))
}

// Fingerprint returns the hex-encoded SHA-256 digest of the normalized
// canonical goal. It is used as the uniqueness key for challenges.
func Fingerprint(canonicalGoal string) string {
	sum := sha256.Sum256([]byte(Normalize(canonicalGoal)))
	return hex.EncodeToString(sum[:])
}

// CanonicalGoal derives a short normalized phrase from a challenge title and
// scenario: filler words and short tokens are dropped and the first ten
// meaningful words are kept.
func CanonicalGoal(title, scenario string) string {
	combined := strings.ToLower(title + " " + scenario)

	var words []string
	for _, w := range strings.Fields(combined) {
		if len(w) > 2 && !fillers[w] {
			words = append(words, w)
		}
	}
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
