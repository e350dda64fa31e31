package fingerprint

import "strings"

// NormalizeLinkedIn canonicalizes a LinkedIn reference to
// "linkedin.com/in/<user>" or "linkedin.com/company/<slug>". It
// accepts full URLs with any scheme and www/m/locale subdomains,
// scheme-less "linkedin.com/in/..." forms, bare "in/<user>" paths,
// and bare usernames. Query strings, fragments, and trailing slashes
// are stripped and the result is lowercased. Input that is empty,
// points at some other site, or is just the LinkedIn homepage
// normalizes to "". The function is idempotent over its own output.
func NormalizeLinkedIn(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	for _, prefix := range []string{"https://", "http://", "//"} {
		if strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.Trim(s, "/")
	if s == "" {
		return ""
	}

	head, rest, hasPath := strings.Cut(s, "/")

	if head == "linkedin.com" || strings.HasSuffix(head, ".linkedin.com") {
		if !hasPath {
			return "" // bare homepage
		}
		return canonicalPath(rest)
	}

	// Path-only forms: "in/jane-doe", "company/acme".
	if head == "in" || head == "company" {
		if !hasPath {
			return ""
		}
		slug, _, _ := strings.Cut(rest, "/")
		if slug == "" {
			return ""
		}
		return "linkedin.com/" + head + "/" + slug
	}

	// Anything with a dot is some other domain, anything with a path
	// is not a bare username.
	if strings.Contains(head, ".") || hasPath {
		return ""
	}
	return "linkedin.com/in/" + head
}

// canonicalPath extracts the profile or company slug from a LinkedIn
// URL path with the host already removed.
func canonicalPath(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) < 2 || segs[1] == "" {
		return ""
	}
	switch segs[0] {
	case "in":
		return "linkedin.com/in/" + segs[1]
	case "company":
		return "linkedin.com/company/" + segs[1]
	}
	return ""
}
