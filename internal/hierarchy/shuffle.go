package hierarchy

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// DeckNamespace is the fixed namespace UUID deck ids are derived from:
// deckUuid = v5(namespace, deckTag + "|" + sortedCardIds).
var DeckNamespace = uuid.MustParse("6ea0f1a0-6e4a-4c1b-9f1a-2f6a8f5a9c10")

// Shuffle returns a uniformly random permutation of cardIDs using the
// Fisher-Yates algorithm, leaving the input slice untouched.
func Shuffle(cardIDs []string) []string {
	result := make([]string, len(cardIDs))
	copy(result, cardIDs)

	for i := len(result) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}

	return result
}

// DeckUUID deterministically derives the deck identifier from the deck
// tag and the (unshuffled) set of resolved card ids. It is independent
// of shuffle order so two plays over an identical card set always share
// the same deckUuid.
func DeckUUID(deckTag string, cardIDs []string) uuid.UUID {
	sorted := make([]string, len(cardIDs))
	copy(sorted, cardIDs)
	sort.Strings(sorted)

	name := deckTag + "|" + strings.Join(sorted, ",")
	return uuid.NewSHA1(DeckNamespace, []byte(name))
}
