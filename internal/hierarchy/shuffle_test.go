package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffle_PreservesElementsAndLength(t *testing.T) {
	in := []string{"a", "b", "c", "d", "e"}
	out := Shuffle(in)
	assert.Len(t, out, len(in))
	assert.ElementsMatch(t, in, out)
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	in := []string{"a", "b", "c"}
	original := append([]string(nil), in...)
	_ = Shuffle(in)
	assert.Equal(t, original, in)
}

func TestDeckUUID_DeterministicRegardlessOfInputOrder(t *testing.T) {
	u1 := DeckUUID("#animals", []string{"c1", "c2", "c3"})
	u2 := DeckUUID("#animals", []string{"c3", "c1", "c2"})
	assert.Equal(t, u1, u2)
}

func TestDeckUUID_DiffersByDeckTag(t *testing.T) {
	u1 := DeckUUID("#animals", []string{"c1", "c2"})
	u2 := DeckUUID("#colors", []string{"c1", "c2"})
	assert.NotEqual(t, u1, u2)
}

func TestDeckUUID_DiffersByCardSet(t *testing.T) {
	u1 := DeckUUID("#animals", []string{"c1", "c2"})
	u2 := DeckUUID("#animals", []string{"c1", "c2", "c3"})
	assert.NotEqual(t, u1, u2)
}
