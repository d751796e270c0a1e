package domino

import "math/rand"

// GenerateSet returns the complete double-six set: every tile (i,j) with
// 0 <= i <= j <= 6, 28 tiles total, in deterministic order.
func GenerateSet() []Tile {
	tiles := make([]Tile, 0, SetSize)
	for i := MinPip; i <= MaxPip; i++ {
		for j := i; j <= MaxPip; j++ {
			tiles = append(tiles, Tile{A: i, B: j})
		}
	}
	return tiles
}

// Shuffle returns a uniformly random permutation of tiles using the
// Fisher-Yates algorithm. The input slice is not mutated.
func Shuffle(tiles []Tile) []Tile {
	result := make([]Tile, len(tiles))
	copy(result, tiles)
	for i := len(result) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// FindStarterIndex returns the index of the first hand containing the
// double-six. Falls back to 0 when no hand holds it, which can happen when
// the double-six lands in the undealt remainder of an uneven deal.
func FindStarterIndex(hands [][]Tile) int {
	for i, hand := range hands {
		for _, tile := range hand {
			if tile.IsStarter() {
				return i
			}
		}
	}
	return 0
}

// RemoveFromHand returns a copy of hand with the first unordered match of
// each requested tile removed. Each request consumes one physical tile, so
// duplicate requests within one call are independent. A requested tile that
// is absent is silently skipped; callers validate membership beforehand.
func RemoveFromHand(hand []Tile, toRemove []Tile) []Tile {
	result := make([]Tile, len(hand))
	copy(result, hand)

	for _, target := range toRemove {
		for i, tile := range result {
			if tile.Equals(target) {
				result = append(result[:i], result[i+1:]...)
				break
			}
		}
	}

	return result
}

// AddToHand returns a new slice holding hand followed by toAdd. Tiles are
// unique by construction, so no dedup is needed.
func AddToHand(hand []Tile, toAdd []Tile) []Tile {
	result := make([]Tile, 0, len(hand)+len(toAdd))
	result = append(result, hand...)
	result = append(result, toAdd...)
	return result
}

// HandHasNumber reports whether any tile in hand shows the given pip value.
func HandHasNumber(hand []Tile, n int) bool {
	for _, tile := range hand {
		if tile.Contains(n) {
			return true
		}
	}
	return false
}

// HandHasTile reports whether hand contains a tile equal to target,
// ignoring orientation.
func HandHasTile(hand []Tile, target Tile) bool {
	for _, tile := range hand {
		if tile.Equals(target) {
			return true
		}
	}
	return false
}

// IsValidSubmission reports whether a claimed submission is truthful: it is
// non-empty and every tile shows the current number. This is only consulted
// when a doubt is raised; an un-doubted lie stands.
func IsValidSubmission(tiles []Tile, currentNumber int) bool {
	if len(tiles) == 0 {
		return false
	}
	for _, tile := range tiles {
		if !tile.Contains(currentNumber) {
			return false
		}
	}
	return true
}
