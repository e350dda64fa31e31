package dedupe

import (
	"fmt"
	"strings"

	"github.com/Aman-CERP/dexsync/internal/store"
)

// BuildReport runs the full analysis battery over the contacts and
// renders the leveled Markdown duplicate report. dbPath appears
// verbatim in the header; threshold drives the fuzzy section.
// flagged is the number of distinct contacts appearing in any
// section.
func BuildReport(contacts []store.Contact, dbPath string, threshold float64) (markdown string, flagged int) {
	emailDupes := DetectSharedEmails(contacts)
	phoneDupes := DetectSharedPhones(contacts)
	birthdayDupes := DetectBirthdayName(contacts)
	nameTitleDupes := DetectNameTitle(contacts)
	fuzzyDupes := DetectFuzzyNames(contacts, threshold)

	flaggedSet := make(map[string]bool)
	for _, signals := range [][]MatchSignal{emailDupes, phoneDupes, birthdayDupes, nameTitleDupes, fuzzyDupes} {
		for _, signal := range signals {
			for _, id := range signal.ContactIDs {
				flaggedSet[id] = true
			}
		}
	}

	index := make(map[string]*store.Contact, len(contacts))
	for i := range contacts {
		index[contacts[i].ID] = &contacts[i]
	}

	var b strings.Builder
	b.WriteString("# Comprehensive Duplicate Contact Report\n\n")
	fmt.Fprintf(&b, "**Database:** `%s`\n", dbPath)
	fmt.Fprintf(&b, "**Total Flagged Contacts:** %d\n\n", len(flaggedSet))

	b.WriteString("## Level 1: Exact Matches (Highest Confidence)\n")
	writeSection(&b, index, "### Shared Emails\n",
		"_No shared emails found._\n", "Email", emailDupes)
	writeSection(&b, index, "### Shared Phones\n",
		"_No shared phone numbers found._\n", "Phone", phoneDupes)

	b.WriteString("## Level 1.5: Name + Birthday (High Confidence)\n")
	writeSection(&b, index, "### Same Name and Birthday\n",
		"_No name + birthday duplicates found._\n", "Birthday", birthdayDupes)

	b.WriteString("## Level 2: Rule-Based Matches (Medium Confidence)\n")
	writeSection(&b, index, "### Shared Name + Job Title\n",
		"_No Name + Job Title duplicates found._\n", "Match", nameTitleDupes)

	b.WriteString("## Level 3: Fuzzy Matches (Lower Confidence)\n")
	writeSection(&b, index, fmt.Sprintf("### Fuzzy Name Matches (Jaro-Winkler > %.2f)\n", threshold),
		"_No fuzzy name duplicates found._\n", "Fuzzy Match", fuzzyDupes)

	return b.String(), len(flaggedSet)
}

func writeSection(b *strings.Builder, index map[string]*store.Contact, heading, emptyNote, title string, signals []MatchSignal) {
	b.WriteString(heading)
	if len(signals) == 0 {
		b.WriteString(emptyNote)
		return
	}
	for _, signal := range signals {
		fmt.Fprintf(b, "### %s: `%s`\n", title, signal.MatchValue)
		b.WriteString("| ID | Name | Job Title |\n")
		b.WriteString("|---|---|---|\n")
		for _, id := range signal.ContactIDs {
			name, job := contactSummary(index, id)
			fmt.Fprintf(b, "| `%s` | %s | %s |\n", id, name, job)
		}
		b.WriteString("\n")
	}
}

// contactSummary renders the name and job cells for one report row.
// Only a contact missing from the store entirely shows as Unknown.
func contactSummary(index map[string]*store.Contact, id string) (name, job string) {
	c, ok := index[id]
	if !ok {
		return "Unknown", "N/A"
	}
	name = strings.TrimSpace(c.FirstName + " " + c.LastName)
	job = c.JobTitle
	if job == "" {
		job = "N/A"
	}
	return name, job
}
