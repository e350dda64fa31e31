// Package fingerprint provides the normalization and similarity
// primitives duplicate detection is built on: canonical name keys,
// phone and LinkedIn URL normalization, edit-distance similarity
// scores, and a phonetic surname encoding for blocking.
//
// Every function is pure and total: malformed input degrades to an
// empty or pass-through result, never an error.
package fingerprint

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes accented characters and strips the combining
// marks, so "José" folds to "Jose".
var foldChain = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldASCII reduces s to its ASCII skeleton: accents removed, any
// rune with no ASCII decomposition dropped.
func foldASCII(s string) string {
	folded, _, err := transform.String(foldChain, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r <= unicode.MaxASCII {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripPunct removes every rune that is not a letter, digit,
// underscore, or whitespace.
func stripPunct(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Fingerprint returns the canonical key of s: trimmed, lowercased,
// folded to ASCII, punctuation stripped, tokens deduplicated and
// sorted, rejoined with single spaces. Two strings fingerprint
// identically exactly when they share the same case-, accent-,
// punctuation-, and order-insensitive token set, so
// "Cruise, Tom" == "TOM CRUISE" == "Tom Cruise".
func Fingerprint(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = foldASCII(s)
	s = stripPunct(s)

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// NGramFingerprint returns the n-gram key of s: lowercased, folded to
// ASCII, whitespace and punctuation removed, then every length-n rune
// substring deduplicated, sorted, and concatenated. Cleaned strings
// shorter than n pass through unchanged.
func NGramFingerprint(s string, n int) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = foldASCII(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	cleaned := []rune(b.String())
	if n < 1 || len(cleaned) < n {
		return string(cleaned)
	}

	seen := make(map[string]struct{})
	var grams []string
	for i := 0; i+n <= len(cleaned); i++ {
		g := string(cleaned[i : i+n])
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		grams = append(grams, g)
	}
	sort.Strings(grams)
	return strings.Join(grams, "")
}
