// Package dedupe finds duplicate contacts, clusters them, and merges
// them. Detection is pure: every detector walks an in-memory contact
// slice and returns signals without touching the store. Only the
// merge and flag passes write.
package dedupe

// Detector match types, in rough order of confidence.
const (
	MatchTypeEmail           = "email"
	MatchTypePhone           = "phone"
	MatchTypeBirthdayName    = "birthday_name"
	MatchTypeFingerprintName = "fingerprint_name"
	MatchTypeNameTitle       = "name_title"
	MatchTypeFuzzyName       = "fuzzy_name"
	MatchTypeLinkedIn        = "linkedin"
)

// PlaceholderBirthday marks contacts whose birthday was bulk-filled
// by an import; the birthday detector ignores it.
const PlaceholderBirthday = "2001-01-01"

// DefaultFuzzyThreshold is the detector-level Jaro-Winkler floor.
const DefaultFuzzyThreshold = 0.90

// DefaultClusterThreshold is the stricter floor used when signals
// feed destructive merges (flag and resolve).
const DefaultClusterThreshold = 0.98

// MatchSignal is one piece of duplicate evidence: two or more
// contacts sharing a normalized value. MatchValue is diagnostic text
// for reports, not a key.
type MatchSignal struct {
	MatchType  string
	MatchValue string
	ContactIDs []string
}
