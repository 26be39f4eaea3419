package reconcile

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSetRatio scores how well two names match on a 0-100 scale. Both
// strings are lowercased and split into word tokens, then compared as three
// sorted token strings: the shared tokens alone and the shared tokens plus
// each side's remainder. The best of the three pairwise ratios wins, which
// makes the score insensitive to word order and tolerant of extra tokens
// such as middle names or suffixes on one side only.
func TokenSetRatio(a, b string) int {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var shared, onlyA, onlyB []string
	for tok := range ta {
		if tb[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range tb {
		if !ta[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	full1 := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	full2 := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(base, full1)
	if r := ratio(base, full2); r > best {
		best = r
	}
	if r := ratio(full1, full2); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[tok] = true
	}
	return set
}

// ratio is the normalized edit-distance similarity of two strings,
// round(100 * (len1+len2-distance) / (len1+len2)).
func ratio(a, b string) int {
	if a == "" && b == "" {
		return 0
	}
	ra := []rune(a)
	rb := []rune(b)
	total := len(ra) + len(rb)
	d := levenshtein(ra, rb)
	return (100*(total-d) + total/2) / total
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
