package utils

import "unicode/utf16"

// Scorer maps a seed key onto an integer in [min, max].
type Scorer interface {
	Score(seedKey string, min, max int) int
}

// HashScorer folds the UTF-16 code units of the seed key into a 32-bit
// signed accumulator (hash*31 + code, wrapping) and reduces it into range.
// Identical inputs always give identical outputs.
type HashScorer struct{}

func (HashScorer) Score(seedKey string, min, max int) int {
	return Score(seedKey, min, max)
}

func Score(seedKey string, min, max int) int {
	if max < min {
		min, max = max, min
	}
	var hash int32
	for _, code := range utf16.Encode([]rune(seedKey)) {
		hash = hash*31 + int32(code)
	}
	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return min + int(abs%int64(max-min+1))
}

// SeedScore scores identifier+tag, the seed layout shared by every stage.
func SeedScore(s Scorer, identifier, tag string, min, max int) int {
	return s.Score(identifier+tag, min, max)
}
