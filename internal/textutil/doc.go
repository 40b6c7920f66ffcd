// Package textutil provides small string helpers shared across the
// pipeline: the subsequence predicate used for affiliation matching and
// filename sanitizers for output paths.
package textutil
