package cart

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		ids         IDList
		intent      Intent
		id          string
		expected    IDList
		wantChanged bool
	}{
		{
			name:        "Add to empty cart",
			ids:         IDList{},
			intent:      IntentAdd,
			id:          "p1",
			expected:    IDList{"p1"},
			wantChanged: true,
		},
		{
			name:        "Add appends another unit",
			ids:         IDList{"p1", "p2"},
			intent:      IntentAdd,
			id:          "p1",
			expected:    IDList{"p1", "p2", "p1"},
			wantChanged: true,
		},
		{
			name:        "Increase is add",
			ids:         IDList{"p1"},
			intent:      IntentIncrease,
			id:          "p1",
			expected:    IDList{"p1", "p1"},
			wantChanged: true,
		},
		{
			name:        "Remove drops every unit",
			ids:         IDList{"p1", "p2", "p1", "p1"},
			intent:      IntentRemove,
			id:          "p1",
			expected:    IDList{"p2"},
			wantChanged: true,
		},
		{
			name:        "Remove absent id is a no-op",
			ids:         IDList{"p2"},
			intent:      IntentRemove,
			id:          "p1",
			expected:    IDList{"p2"},
			wantChanged: false,
		},
		{
			name:        "Decrease drops the first unit only",
			ids:         IDList{"p2", "p1", "p3", "p1"},
			intent:      IntentDecrease,
			id:          "p1",
			expected:    IDList{"p2", "p3", "p1"},
			wantChanged: true,
		},
		{
			name:        "Decrease last unit drops the product",
			ids:         IDList{"p1", "p2"},
			intent:      IntentDecrease,
			id:          "p1",
			expected:    IDList{"p2"},
			wantChanged: true,
		},
		{
			name:        "Decrease absent id is a no-op",
			ids:         IDList{"p2"},
			intent:      IntentDecrease,
			id:          "p1",
			expected:    IDList{"p2"},
			wantChanged: false,
		},
		{
			name:        "Clear empties the cart",
			ids:         IDList{"p1", "p2"},
			intent:      IntentClear,
			expected:    IDList{},
			wantChanged: true,
		},
		{
			name:        "Clear on empty cart is a no-op",
			ids:         IDList{},
			intent:      IntentClear,
			expected:    IDList{},
			wantChanged: false,
		},
		{
			name:        "Unknown intent is a no-op",
			ids:         IDList{"p1"},
			intent:      Intent("bogus"),
			id:          "p1",
			expected:    IDList{"p1"},
			wantChanged: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.ids.Clone()

			next, changed := Apply(tt.ids, tt.intent, tt.id)

			assert.Equal(t, tt.expected, next)
			assert.Equal(t, tt.wantChanged, changed)
			assert.Equal(t, before, tt.ids, "input list must not be modified")
		})
	}
}

func randomIDList(rng *rand.Rand) IDList {
	alphabet := []string{"p1", "p2", "p3", "p4", "p5"}
	n := rng.Intn(12)
	ids := make(IDList, n)
	for i := range ids {
		ids[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return ids
}

// Add appends and Decrease takes the first occurrence, so add-then-decrease
// restores the units of every product but not always their order: when id
// was already in the list its earliest unit moves to the end, and the cart
// renders that product after the ones that followed it.
func TestAddThenDecreaseRestoresList(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		ids := randomIDList(rng)
		id := []string{"p1", "p3", "p9"}[rng.Intn(3)]

		next, changed := Decrease(Add(ids, id), id)

		assert.True(t, changed)
		assert.ElementsMatch(t, ids, next, "ids=%v id=%s", ids, id)
		if ids.Count(id) == 0 {
			assert.Equal(t, ids, next)
		}
	}
}

func TestAddThenDecreaseMovesExistingProductToEnd(t *testing.T) {
	next, changed := Decrease(Add(IDList{"p1", "p2"}, "p1"), "p1")

	assert.True(t, changed)
	assert.Equal(t, IDList{"p2", "p1"}, next)
	order, _ := tally(next)
	assert.Equal(t, []string{"p2", "p1"}, order, "lines render in first-occurrence order")
}

func TestRemoveLeavesNoOccurrences(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 200; i++ {
		ids := randomIDList(rng)

		next, _ := Remove(ids, "p2")

		assert.Zero(t, next.Count("p2"))
		assert.Equal(t, len(ids)-ids.Count("p2"), len(next))
	}
}

func TestIDList_Clone(t *testing.T) {
	ids := IDList{"p1", "p2"}
	clone := ids.Clone()
	clone[0] = "changed"

	assert.Equal(t, "p1", ids[0])
	assert.Equal(t, IDList{}, IDList(nil).Clone())
}
