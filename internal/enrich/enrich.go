// Package enrich derives searchable columns from raw contact
// payloads at ingestion time: split names and job titles broken into
// role and company. The parsing is deliberately naive; the duplicate
// detectors do their own, stricter normalization.
package enrich

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedName is the derived decomposition of a display name.
type ParsedName struct {
	// Given is the first whitespace-separated token.
	Given string
	// Surname is everything after the first token.
	Surname string
	// Raw is a JSON description of the parse, stored alongside the
	// split fields for later reprocessing.
	Raw string
}

type nameParse struct {
	Raw  string `json:"raw"`
	Type string `json:"type"`
}

// ParseName splits a display name into given name and surname on the
// first whitespace boundary. "Jane van der Berg" parses as given
// "Jane", surname "van der Berg". Blank input yields a zero
// ParsedName.
func ParseName(fullName string) ParsedName {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return ParsedName{}
	}

	parts := strings.Fields(name)
	parsed := ParsedName{Given: parts[0]}
	if len(parts) > 1 {
		parsed.Surname = strings.Join(parts[1:], " ")
	}

	raw, err := json.Marshal(nameParse{Raw: name, Type: "simple"})
	if err == nil {
		parsed.Raw = string(raw)
	}
	return parsed
}

// ContactName picks the display name for a contact payload: the
// explicit full name when present, otherwise first and last name
// joined. Returns "" when no name field carries anything.
func ContactName(fullName, firstName, lastName string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
}

// jobSeparator matches the "at"/"@" connective in titles like
// "Engineer at Acme" or "CTO @ Initech".
var jobSeparator = regexp.MustCompile(`(?i)\s+(?:at|@)\s+`)

// SplitJobTitle breaks a job title into role and company on the first
// "at"/"@" separator. Titles without a separator are all role; blank
// input yields two empty strings.
func SplitJobTitle(title string) (role, company string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ""
	}

	parts := jobSeparator.Split(title, 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return title, ""
}
