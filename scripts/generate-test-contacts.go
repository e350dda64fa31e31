//go:build ignore

// Package main generates a synthetic Dex contacts payload for dedup testing.
// Usage: go run scripts/generate-test-contacts.go -contacts 1000 -output testdata/contacts.json
//
// The output is the GET /contacts envelope, so a stub server can serve the
// file as-is. A slice of the contacts get duplicate variants (same email with
// a reformatted name, or the same person with a reformatted phone number) at
// the requested rate, which gives flag/resolve something realistic to chew on.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
)

var (
	numContacts = flag.Int("contacts", 1000, "Number of base contacts to generate")
	dupRate     = flag.Float64("dup-rate", 0.2, "Fraction of contacts that get a duplicate variant")
	outputPath  = flag.String("output", "testdata/contacts.json", "Output file")
	seed        = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var firstNames = []string{
	"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret",
	"Dennis", "Ken", "Radia", "Frances", "John", "Leslie", "Tim",
	"Vint", "Anita", "Niklaus", "Bjarne", "Guido", "Yukihiro",
}

var lastNames = []string{
	"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth",
	"Hamilton", "Ritchie", "Thompson", "Perlman", "Allen", "Backus",
	"Lamport", "Berners-Lee", "Cerf", "Borg", "Wirth", "Stroustrup",
	"van Rossum", "Matsumoto",
}

var roles = []string{
	"Engineer", "Designer", "Product Manager", "Researcher", "Founder",
	"CTO", "Data Scientist", "Consultant", "Recruiter", "Investor",
}

var companies = []string{
	"Acme", "Globex", "Initech", "Umbrella", "Stark Industries",
	"Wayne Enterprises", "Hooli", "Pied Piper", "Vandelay", "Wonka",
}

type email struct {
	Email string `json:"email"`
}

type phone struct {
	PhoneNumber string `json:"phone_number"`
	Label       string `json:"label,omitempty"`
}

type contact struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	JobTitle  string  `json:"job_title,omitempty"`
	Emails    []email `json:"emails"`
	Phones    []phone `json:"phones"`
}

type envelope struct {
	Contacts   []contact `json:"contacts"`
	Pagination struct {
		Total struct {
			Count int `json:"count"`
		} `json:"total"`
	} `json:"pagination"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	contacts := make([]contact, 0, *numContacts+int(float64(*numContacts)*(*dupRate))+1)
	duplicates := 0

	for i := 0; i < *numContacts; i++ {
		c := baseContact(rng, i)
		contacts = append(contacts, c)

		if rng.Float64() < *dupRate {
			contacts = append(contacts, variantOf(rng, c, len(contacts)))
			duplicates++
		}
	}

	var env envelope
	env.Contacts = contacts
	env.Pagination.Total.Count = len(contacts)

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding payload: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d contacts (%d duplicate variants) to %s\n",
		len(contacts), duplicates, *outputPath)
}

func baseContact(rng *rand.Rand, n int) contact {
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]

	c := contact{
		ID:        fmt.Sprintf("gen-%04d", n),
		FirstName: first,
		LastName:  last,
		Emails:    []email{{Email: emailFor(first, last, n)}},
		Phones:    []phone{{PhoneNumber: phoneDigits(rng), Label: "mobile"}},
	}
	if rng.Float64() < 0.7 {
		role := roles[rng.Intn(len(roles))]
		company := companies[rng.Intn(len(companies))]
		c.JobTitle = role + " at " + company
	}
	return c
}

// variantOf produces the same person re-entered by hand: the fields the
// fingerprint and phone normalizers are supposed to see through.
func variantOf(rng *rand.Rand, c contact, n int) contact {
	v := c
	v.ID = fmt.Sprintf("gen-%04d-dup", n)
	v.JobTitle = ""

	switch rng.Intn(3) {
	case 0:
		// Shouting-case name, same email.
		v.FirstName = strings.ToUpper(c.FirstName)
		v.LastName = strings.ToUpper(c.LastName)
		v.Phones = nil
	case 1:
		// Middle initial, same email.
		v.FirstName = c.FirstName + " " + string(rune('A'+rng.Intn(26))) + "."
		v.Phones = nil
	default:
		// Same phone in US display format, no email.
		v.Emails = nil
		d := c.Phones[0].PhoneNumber
		v.Phones = []phone{{
			PhoneNumber: fmt.Sprintf("(%s) %s-%s", d[1:4], d[4:7], d[7:]),
		}}
	}
	return v
}

func emailFor(first, last string, n int) string {
	user := strings.ToLower(first + "." + strings.ReplaceAll(last, " ", ""))
	return fmt.Sprintf("%s%d@example.com", user, n)
}

// phoneDigits returns a bare 11-digit US number like 14155550142.
func phoneDigits(rng *rand.Rand) string {
	return fmt.Sprintf("1415555%04d", rng.Intn(10000))
}
