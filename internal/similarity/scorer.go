// Package similarity computes bounded keyword-overlap scores between catalog
// items and a caller-supplied interest profile.
package similarity

import (
	"strings"
	"unicode"

	"github.com/access-ci/catsearch/internal/models"
)

// Tokenize splits s on non-alphanumeric boundaries and lowercases the
// resulting tokens.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenSet builds a set from tokenizing each input string.
func tokenSet(parts []string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range parts {
		for _, tok := range Tokenize(p) {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Score computes |intersection| / |target set| between the item's token set
// and the target keyword list, clamped to [0,1]. The item's tags contribute
// to its token set alongside its free text so exact-tag overlaps are
// rewarded. An empty target yields 0, never a division by zero.
func Score(item *models.CatalogItem, target []string) float64 {
	targetSet := tokenSet(target)
	if len(targetSet) == 0 {
		return 0
	}

	itemSet := tokenSet(append([]string{item.Text, item.Title}, item.Tags...))

	matched := 0
	for tok := range targetSet {
		if _, ok := itemSet[tok]; ok {
			matched++
		}
	}

	score := float64(matched) / float64(len(targetSet))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
