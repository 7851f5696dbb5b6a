package matchers

type Options struct {
	MustStartOnWordBoundary bool
	MustEndOnWordBoundary   bool
}

// Result summarizes a single scan. SimilarHits maps each near match
// (edit distance 1) to the number of times it was found.
type Result struct {
	Term                     string         `json:"matchTerm"`
	Frequency                int            `json:"frequency"`
	SimilarHits              map[string]int `json:"similarHits"`
	EnforceWordStartBoundary bool           `json:"enforceWordStartBoundary"`
	EnforceWordEndBoundary   bool           `json:"enforceWordEndBoundary"`
}

// Search counts exact occurrences of term in text and tallies every
// substring within a single substitution, insertion or deletion of it.
//
// The text is treated as a stream of characters rather than a list of
// words, so "bat man" is a near match for "batman". Candidates overlap:
// the scan advances one character at a time regardless of what matched.
func Search(text, term string, opts Options) Result {
	res := Result{
		Term:                     term,
		SimilarHits:              make(map[string]int),
		EnforceWordStartBoundary: opts.MustStartOnWordBoundary,
		EnforceWordEndBoundary:   opts.MustEndOnWordBoundary,
	}
	if text == "" || term == "" {
		return res
	}

	s := []rune(text)
	t := []rune(term)
	n, m := len(s), len(t)

	// Starting at or past end would take at least two edits.
	end := n - m + 2
	if end > n {
		end = n
	}

	hit := func(from, to int) {
		res.SimilarHits[string(s[from:to])]++
	}
	endsClean := func(k int) bool {
		return !opts.MustEndOnWordBoundary || IsBoundary(s, k)
	}

	i := 0
	for i < end && isWhitespace(s[i]) {
		i++
	}

	for i < end {
		discrepancies := 0
		j := 0
		for j < m && i+j < n && discrepancies == 0 {
			if t[j] != s[i+j] {
				discrepancies++
			} else {
				j++
			}
		}

		switch {
		case discrepancies == 0 && j == m:
			if endsClean(i + j) {
				res.Frequency++
			} else if IsBoundary(s, i+j+1) {
				// Full term followed by one extra character, e.g. "cats" for "cat".
				hit(i, i+j+1)
			}
		case discrepancies == 0:
			// Text ran out one character short of the term.
			if i+j == n {
				hit(i, i+j)
			}
		case j == m-1 && IsBoundary(s, i+j):
			// Only the last character is off and a word ends there, e.g. "Wor XXXX" for "Word".
			hit(i, i+j)
		default:
			if k, ok := substitute(s, t, i, j); ok {
				if endsClean(i + k) {
					hit(i, i+k)
				}
			} else if k, ok := insert(s, t, i, j); ok {
				if endsClean(i + k + 1) {
					hit(i, i+k+1)
				}
			} else if k, ok := remove(s, t, i, j); ok {
				if endsClean(i + k - 1) {
					hit(i, i+k-1)
				}
			}
		}

		i++
		if opts.MustStartOnWordBoundary {
			for i < end && !(isWhitespace(s[i-1]) && !isWhitespace(s[i])) {
				i++
			}
		}
	}

	return res
}

// substitute treats t[j] as swapped for s[i+j] and checks that the rest of
// the term lines up. It returns the final term index.
func substitute(s, t []rune, i, j int) (int, bool) {
	return resume(s, t, i, j+1, 0)
}

// insert treats s[i+j] as an extra character missing from the term.
func insert(s, t []rune, i, j int) (int, bool) {
	return resume(s, t, i, j, 1)
}

// remove treats t[j] as a character missing from the text.
func remove(s, t []rune, i, j int) (int, bool) {
	return resume(s, t, i, j+1, -1)
}

// resume compares t[j:] against the text starting at i+j+shift and reports
// whether the whole term was consumed without a second discrepancy.
func resume(s, t []rune, i, j, shift int) (int, bool) {
	for j < len(t) && i+j+shift < len(s) {
		if t[j] != s[i+j+shift] {
			return j, false
		}
		j++
	}
	return j, j == len(t)
}
