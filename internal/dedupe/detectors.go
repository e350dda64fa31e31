package dedupe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Aman-CERP/dexsync/internal/fingerprint"
	"github.com/Aman-CERP/dexsync/internal/store"
)

// fingerprintKeys memoizes name fingerprints across detector runs in
// one process; analyze and flag key the same names back to back.
var fingerprintKeys = mustKeyCache(8192)

func mustKeyCache(size int) *fingerprint.KeyCache {
	c, err := fingerprint.NewKeyCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// idSet accumulates contact ids in first-seen order without repeats.
type idSet struct {
	ids  []string
	seen map[string]bool
}

func (s *idSet) add(id string) {
	if s.seen == nil {
		s.seen = make(map[string]bool)
	}
	if !s.seen[id] {
		s.seen[id] = true
		s.ids = append(s.ids, id)
	}
}

// collectGroups turns keyed id groups into signals, smallest key
// first, keeping only groups spanning at least two contacts.
func collectGroups(groups map[string]*idSet, matchType string, value func(key string) string) []MatchSignal {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var signals []MatchSignal
	for _, k := range keys {
		g := groups[k]
		if len(g.ids) < 2 {
			continue
		}
		signals = append(signals, MatchSignal{
			MatchType:  matchType,
			MatchValue: value(k),
			ContactIDs: g.ids,
		})
	}
	return signals
}

func groupOf(groups map[string]*idSet, key string) *idSet {
	g := groups[key]
	if g == nil {
		g = &idSet{}
		groups[key] = g
	}
	return g
}

// DetectSharedEmails groups contacts by case-folded email address.
func DetectSharedEmails(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	for i := range contacts {
		c := &contacts[i]
		for _, email := range c.Emails {
			if email == "" {
				continue
			}
			groupOf(groups, strings.ToLower(email)).add(c.ID)
		}
	}
	return collectGroups(groups, MatchTypeEmail, func(key string) string { return key })
}

// DetectSharedPhones groups contacts by normalized phone number, so
// "(555) 123-4567" and "+1 555-123-4567" land in the same group.
func DetectSharedPhones(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	for i := range contacts {
		c := &contacts[i]
		for _, phone := range c.Phones {
			normalized := fingerprint.NormalizePhone(phone.Number)
			if normalized == "" {
				continue
			}
			groupOf(groups, normalized).add(c.ID)
		}
	}
	return collectGroups(groups, MatchTypePhone, func(key string) string { return key })
}

// DetectBirthdayName groups contacts by case-folded name plus
// birthday month-day. Month-day only: the year field often holds the
// entry date rather than the birth year. The placeholder date used by
// bulk imports is skipped.
func DetectBirthdayName(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	for i := range contacts {
		c := &contacts[i]
		if c.FirstName == "" || c.LastName == "" || c.Birthday == "" {
			continue
		}
		if strings.HasPrefix(c.Birthday, PlaceholderBirthday) {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c.FirstName)) + " " +
			strings.ToLower(strings.TrimSpace(c.LastName))
		var monthDay string
		if len(c.Birthday) > 5 {
			monthDay = c.Birthday[5:]
		}
		groupOf(groups, name+"\x00"+monthDay).add(c.ID)
	}
	return collectGroups(groups, MatchTypeBirthdayName, func(key string) string {
		name, monthDay, _ := strings.Cut(key, "\x00")
		return fmt.Sprintf("%s (birthday: %s)", name, monthDay)
	})
}

// DetectFingerprintNames groups contacts by name fingerprint,
// catching reordered ("Cruise, Tom"), accented, and repunctuated
// spellings of the same name.
func DetectFingerprintNames(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	names := make(map[string][]string)
	for i := range contacts {
		c := &contacts[i]
		if c.FirstName == "" || c.LastName == "" {
			continue
		}
		fullName := c.FirstName + " " + c.LastName
		fp := fingerprintKeys.Fingerprint(fullName)
		if fp == "" {
			continue
		}
		groupOf(groups, fp).add(c.ID)
		names[fp] = append(names[fp], fullName)
	}
	return collectGroups(groups, MatchTypeFingerprintName, func(key string) string {
		return fmt.Sprintf("%s (%s)", key, strings.Join(names[key], ", "))
	})
}

// DetectNameTitle groups contacts by case-folded trimmed full name
// plus job title. Both are required.
func DetectNameTitle(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	for i := range contacts {
		c := &contacts[i]
		if c.FirstName == "" || c.LastName == "" || c.JobTitle == "" {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(c.FirstName)) + " " +
			strings.ToLower(strings.TrimSpace(c.LastName))
		title := strings.ToLower(strings.TrimSpace(c.JobTitle))
		groupOf(groups, name+"\x00"+title).add(c.ID)
	}
	return collectGroups(groups, MatchTypeNameTitle, func(key string) string {
		name, title, _ := strings.Cut(key, "\x00")
		return fmt.Sprintf("%s | %s", name, title)
	})
}

// DetectFuzzyNames scores full-name pairs with Jaro-Winkler inside
// phonetic surname blocks, turning the O(n²) comparison into small
// per-block sweeps. Each signal carries exactly one pair.
func DetectFuzzyNames(contacts []store.Contact, threshold float64) []MatchSignal {
	type candidate struct {
		id       string
		fullName string
	}
	blocks := make(map[string][]candidate)
	for i := range contacts {
		c := &contacts[i]
		first := strings.TrimSpace(c.FirstName)
		last := strings.TrimSpace(c.LastName)
		if first == "" || last == "" {
			continue
		}
		key := fingerprint.BlockKey(last)
		blocks[key] = append(blocks[key], candidate{id: c.ID, fullName: first + " " + last})
	}

	keys := make([]string, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var signals []MatchSignal
	for _, key := range keys {
		items := blocks[key]
		if len(items) < 2 {
			continue
		}
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				score := fingerprint.JaroWinkler(items[i].fullName, items[j].fullName)
				if score >= threshold {
					signals = append(signals, MatchSignal{
						MatchType: MatchTypeFuzzyName,
						MatchValue: fmt.Sprintf("%s <-> %s (%.2f)",
							items[i].fullName, items[j].fullName, score),
						ContactIDs: []string{items[i].id, items[j].id},
					})
				}
			}
		}
	}
	return signals
}

// DetectSharedLinkedIn groups contacts by canonical LinkedIn URL.
// Profiles that normalize to nothing (homepages, other sites) are
// ignored.
func DetectSharedLinkedIn(contacts []store.Contact) []MatchSignal {
	groups := make(map[string]*idSet)
	for i := range contacts {
		c := &contacts[i]
		if c.Linkedin == "" {
			continue
		}
		normalized := fingerprint.NormalizeLinkedIn(c.Linkedin)
		if normalized == "" {
			continue
		}
		groupOf(groups, normalized).add(c.ID)
	}
	return collectGroups(groups, MatchTypeLinkedIn, func(key string) string { return key })
}

// FindAll runs the detectors whose signals are safe to merge on
// (emails, phones, name+title, high-threshold fuzzy names) and
// returns their union for clustering. Birthday, fingerprint, and
// LinkedIn matching stay report-and-library surface.
func FindAll(contacts []store.Contact, fuzzyThreshold float64) []MatchSignal {
	var signals []MatchSignal
	signals = append(signals, DetectSharedEmails(contacts)...)
	signals = append(signals, DetectSharedPhones(contacts)...)
	signals = append(signals, DetectNameTitle(contacts)...)
	signals = append(signals, DetectFuzzyNames(contacts, fuzzyThreshold)...)
	return signals
}
