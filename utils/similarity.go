package utils

// Similarity scoring for guesses against a block secret.
//
// The score is 100 * (1 - levenshtein(guess, secret) / max(len(guess), len(secret))),
// rounded to the nearest integer and clamped to [0,100]. Comparison is
// case-sensitive and rune-based; no normalization is applied, so every attempt
// against a given block is scored on identical terms. An exact match always
// yields exactly 100.

// Similarity scores a guess against a secret on a 0-100 scale
func Similarity(guess, secret string) int {
	if guess == secret {
		return 100
	}

	g := []rune(guess)
	s := []rune(secret)
	longest := len(g)
	if len(s) > longest {
		longest = len(s)
	}
	if longest == 0 {
		return 100
	}

	dist := levenshtein(g, s)

	// Round half up; dist <= longest so the result stays in [0,100]
	score := (200*(longest-dist) + longest) / (2 * longest)
	if score >= 100 {
		// A non-identical guess must never be reported as an exact match
		score = 99
	}
	if score < 0 {
		score = 0
	}
	return score
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming form
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
