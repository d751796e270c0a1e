package domino

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSet(t *testing.T) {
	tiles := GenerateSet()
	require.Len(t, tiles, SetSize)

	seen := make(map[Tile]bool)
	for _, tile := range tiles {
		require.LessOrEqual(t, tile.A, tile.B, "canonical order a <= b")
		require.True(t, ValidPip(tile.A))
		require.True(t, ValidPip(tile.B))
		require.False(t, seen[tile], "duplicate tile %s", tile)
		seen[tile] = true
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	original := GenerateSet()
	shuffled := Shuffle(original)

	require.Len(t, shuffled, len(original))

	// Same multiset: sort both and compare.
	key := func(t Tile) int { return t.A*10 + t.B }
	a := append([]Tile(nil), original...)
	b := append([]Tile(nil), shuffled...)
	sort.Slice(a, func(i, j int) bool { return key(a[i]) < key(a[j]) })
	sort.Slice(b, func(i, j int) bool { return key(b[i]) < key(b[j]) })
	assert.Equal(t, a, b)

	// Input untouched.
	assert.Equal(t, GenerateSet(), original)
}

func TestTileEquals(t *testing.T) {
	if !(Tile{A: 2, B: 5}).Equals(Tile{A: 5, B: 2}) {
		t.Fatal("expected orientation-independent equality")
	}
	if (Tile{A: 2, B: 5}).Equals(Tile{A: 2, B: 4}) {
		t.Fatal("expected distinct tiles to differ")
	}
}

func TestRemoveFromHand(t *testing.T) {
	hand := []Tile{{A: 1, B: 2}, {A: 3, B: 4}, {A: 1, B: 2}}

	got := RemoveFromHand(hand, []Tile{{A: 2, B: 1}})
	assert.Equal(t, []Tile{{A: 3, B: 4}, {A: 1, B: 2}}, got, "first unordered match removed")

	// Duplicate requests each consume one physical tile.
	got = RemoveFromHand(hand, []Tile{{A: 1, B: 2}, {A: 1, B: 2}})
	assert.Equal(t, []Tile{{A: 3, B: 4}}, got)

	// Absent tile is a no-op.
	got = RemoveFromHand(hand, []Tile{{A: 6, B: 6}})
	assert.Equal(t, hand, got)

	// Input hand untouched.
	assert.Len(t, hand, 3)
}

func TestAddToHand(t *testing.T) {
	hand := []Tile{{A: 0, B: 0}}
	got := AddToHand(hand, []Tile{{A: 6, B: 6}, {A: 1, B: 5}})
	assert.Equal(t, []Tile{{A: 0, B: 0}, {A: 6, B: 6}, {A: 1, B: 5}}, got)
	assert.Len(t, hand, 1)
}

func TestHandHasNumber(t *testing.T) {
	hand := []Tile{{A: 1, B: 2}, {A: 3, B: 4}}
	assert.True(t, HandHasNumber(hand, 3))
	assert.True(t, HandHasNumber(hand, 2))
	assert.False(t, HandHasNumber(hand, 6))
	assert.False(t, HandHasNumber(nil, 0))
}

func TestFindStarterIndex(t *testing.T) {
	hands := [][]Tile{
		{{A: 1, B: 2}},
		{{A: 0, B: 3}, {A: 6, B: 6}},
		{{A: 6, B: 6}},
	}
	assert.Equal(t, 1, FindStarterIndex(hands), "first seat holding 6|6")

	noStarter := [][]Tile{{{A: 1, B: 2}}, {{A: 3, B: 4}}}
	assert.Equal(t, 0, FindStarterIndex(noStarter), "fallback to seat 0")
}

func TestIsValidSubmission(t *testing.T) {
	tests := []struct {
		name   string
		tiles  []Tile
		number int
		want   bool
	}{
		{"empty", nil, 3, false},
		{"all match", []Tile{{A: 3, B: 5}, {A: 0, B: 3}, {A: 3, B: 3}}, 3, true},
		{"one bluff tile", []Tile{{A: 3, B: 5}, {A: 1, B: 2}}, 3, false},
		{"single match", []Tile{{A: 6, B: 0}}, 0, true},
		{"single miss", []Tile{{A: 6, B: 0}}, 4, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidSubmission(tc.tiles, tc.number); got != tc.want {
				t.Fatalf("IsValidSubmission(%v, %d) = %v, want %v", tc.tiles, tc.number, got, tc.want)
			}
		})
	}
}
