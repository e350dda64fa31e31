package fingerprint

import "strings"

// Metaphone returns the classic Metaphone phonetic encoding of s,
// used to block fuzzy name comparison into sound-alike buckets:
// "Smith" and "Smyth" both encode to "SM0". Non-letters are ignored;
// a string with no encodable letters returns "".
func Metaphone(s string) string {
	// Letters only, uppercased, accents folded.
	var w []byte
	for _, r := range strings.ToUpper(foldASCII(s)) {
		if r >= 'A' && r <= 'Z' {
			w = append(w, byte(r))
		}
	}
	if len(w) == 0 {
		return ""
	}

	// Initial-letter exceptions.
	switch {
	case len(w) >= 2 && (string(w[:2]) == "AE" || string(w[:2]) == "GN" ||
		string(w[:2]) == "KN" || string(w[:2]) == "PN" || string(w[:2]) == "WR"):
		w = w[1:]
	case w[0] == 'X':
		w[0] = 'S'
	case len(w) >= 2 && string(w[:2]) == "WH":
		w = append([]byte{'W'}, w[2:]...)
	}

	at := func(i int) byte {
		if i < 0 || i >= len(w) {
			return 0
		}
		return w[i]
	}
	vowel := func(b byte) bool {
		return b == 'A' || b == 'E' || b == 'I' || b == 'O' || b == 'U'
	}

	var out []byte
	for i := 0; i < len(w); i++ {
		c := w[i]

		// Collapse doubled letters except C.
		if c != 'C' && c == at(i-1) {
			continue
		}

		switch c {
		case 'A', 'E', 'I', 'O', 'U':
			if i == 0 {
				out = append(out, c)
			}
		case 'B':
			// Silent terminal B after M, as in "lamb".
			if !(i == len(w)-1 && at(i-1) == 'M') {
				out = append(out, 'B')
			}
		case 'C':
			switch {
			case at(i+1) == 'I' && at(i+2) == 'A':
				out = append(out, 'X')
			case at(i+1) == 'H':
				if at(i-1) == 'S' {
					out = append(out, 'K')
				} else {
					out = append(out, 'X')
				}
			case at(i+1) == 'I' || at(i+1) == 'E' || at(i+1) == 'Y':
				if at(i-1) != 'S' {
					out = append(out, 'S')
				}
			default:
				out = append(out, 'K')
			}
		case 'D':
			if at(i+1) == 'G' && (at(i+2) == 'E' || at(i+2) == 'Y' || at(i+2) == 'I') {
				out = append(out, 'J')
				i++
			} else {
				out = append(out, 'T')
			}
		case 'F', 'J', 'L', 'M', 'N', 'R':
			out = append(out, c)
		case 'G':
			switch {
			case at(i+1) == 'H' && !vowel(at(i+2)) && at(i+2) != 0:
				// Silent as in "night".
			case at(i+1) == 'N':
				// Silent as in "sign".
			case at(i+1) == 'I' || at(i+1) == 'E' || at(i+1) == 'Y':
				out = append(out, 'J')
			default:
				out = append(out, 'K')
			}
		case 'H':
			if vowel(at(i-1)) && !vowel(at(i+1)) {
				break
			}
			switch at(i - 1) {
			case 'C', 'S', 'P', 'T', 'G':
				// Consumed by the digraph.
			default:
				out = append(out, 'H')
			}
		case 'K':
			if at(i-1) != 'C' {
				out = append(out, 'K')
			}
		case 'P':
			if at(i+1) == 'H' {
				out = append(out, 'F')
				i++
			} else {
				out = append(out, 'P')
			}
		case 'Q':
			out = append(out, 'K')
		case 'S':
			switch {
			case at(i+1) == 'H':
				out = append(out, 'X')
				i++
			case at(i+1) == 'I' && (at(i+2) == 'O' || at(i+2) == 'A'):
				out = append(out, 'X')
			default:
				out = append(out, 'S')
			}
		case 'T':
			switch {
			case at(i+1) == 'H':
				out = append(out, '0')
				i++
			case at(i+1) == 'I' && (at(i+2) == 'O' || at(i+2) == 'A'):
				out = append(out, 'X')
			case at(i+1) == 'C' && at(i+2) == 'H':
				// Silent as in "match".
			default:
				out = append(out, 'T')
			}
		case 'V':
			out = append(out, 'F')
		case 'W', 'Y':
			if vowel(at(i + 1)) {
				out = append(out, c)
			}
		case 'X':
			out = append(out, 'K', 'S')
		case 'Z':
			out = append(out, 'S')
		}
	}
	return string(out)
}

// BlockKey returns the blocking bucket for a surname: its Metaphone
// encoding, or the first two lowercase characters when the surname
// yields no encoding.
func BlockKey(surname string) string {
	if key := Metaphone(surname); key != "" {
		return key
	}
	s := strings.TrimSpace(strings.ToLower(surname))
	runes := []rune(s)
	if len(runes) > 2 {
		runes = runes[:2]
	}
	return string(runes)
}
