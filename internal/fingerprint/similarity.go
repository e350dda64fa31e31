package fingerprint

// Default blend weights for EnsembleSimilarity. Jaro-Winkler carries
// more weight because it rewards the shared prefixes typical of
// misspelled names.
const (
	DefaultJaroWinklerWeight = 0.6
	DefaultLevenshteinWeight = 0.4
)

// Levenshtein returns the edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// NormalizedLevenshtein returns the edit distance scaled to [0,1] by
// the longer string's length: 0.0 when both strings are empty, 1.0
// when exactly one is.
func NormalizedLevenshtein(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la == 0 && lb == 0 {
		return 0.0
	}
	if la == 0 || lb == 0 {
		return 1.0
	}
	return float64(Levenshtein(a, b)) / float64(max(la, lb))
}

// Jaro returns the Jaro similarity of a and b in [0,1].
func Jaro(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 && lb == 0 {
		return 1.0
	}
	if la == 0 || lb == 0 {
		return 0.0
	}

	window := max(la, lb)/2 - 1
	if window < 0 {
		window = 0
	}

	matchedA := make([]bool, la)
	matchedB := make([]bool, lb)
	matches := 0
	for i := 0; i < la; i++ {
		lo := max(0, i-window)
		hi := min(lb, i+window+1)
		for j := lo; j < hi; j++ {
			if matchedB[j] || ra[i] != rb[j] {
				continue
			}
			matchedA[i] = true
			matchedB[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0.0
	}

	transpositions := 0
	j := 0
	for i := 0; i < la; i++ {
		if !matchedA[i] {
			continue
		}
		for !matchedB[j] {
			j++
		}
		if ra[i] != rb[j] {
			transpositions++
		}
		j++
	}

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions)/2)/m) / 3.0
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b: the
// Jaro score boosted for a shared prefix of up to four runes at
// scale 0.1.
func JaroWinkler(a, b string) float64 {
	j := Jaro(a, b)

	ra, rb := []rune(a), []rune(b)
	prefix := 0
	for prefix < len(ra) && prefix < len(rb) && prefix < 4 && ra[prefix] == rb[prefix] {
		prefix++
	}
	return j + float64(prefix)*0.1*(1.0-j)
}

// EnsembleSimilarity blends Jaro-Winkler and inverted normalized
// Levenshtein into one score: jwWeight*JW + levWeight*(1-NL). Callers
// normally pass DefaultJaroWinklerWeight and DefaultLevenshteinWeight.
func EnsembleSimilarity(a, b string, jwWeight, levWeight float64) float64 {
	return jwWeight*JaroWinkler(a, b) + levWeight*(1.0-NormalizedLevenshtein(a, b))
}
