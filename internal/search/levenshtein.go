// file: internal/search/levenshtein.go
// version: 1.0.0
// guid: 9b3c5d7e-1f2a-4b6c-8d0e-3f5a7b9c1d2e

package search

// LevenshteinDistance computes the classic edit distance (unit-cost insert,
// delete, substitute) between two strings, measured in code points to stay
// consistent with how Normalize segments text. Callers pass already-normalized
// token strings.
func LevenshteinDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	// Single-row DP
	prev := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	curr := make([]int, lb+1)
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
