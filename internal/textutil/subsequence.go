package textutil

// IsSubsequence reports whether every rune of needle appears in haystack in
// the same relative order, not necessarily contiguously. Both strings are
// compared as-is; callers trim surrounding whitespace beforehand. Empty
// inputs never match.
func IsSubsequence(needle, haystack string) bool {
	if needle == "" || haystack == "" {
		return false
	}
	next := []rune(needle)
	i := 0
	for _, r := range haystack {
		if r == next[i] {
			i++
			if i == len(next) {
				return true
			}
		}
	}
	return false
}
