package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	trailingCountryRe = regexp.MustCompile(`^(.*?)\s*\(([^()]+)\)\s*$`)
	credentialRe      = regexp.MustCompile(`^[A-Z][A-Za-z]{1,6}$`)
)

// suffixes that look like credentials but belong to the name
var nameSuffixes = map[string]bool{"II": true, "III": true, "IV": true, "JR": true, "SR": true}

func isCredential(token string) bool {
	bare := strings.ReplaceAll(token, ".", "")
	if !credentialRe.MatchString(bare) || nameSuffixes[strings.ToUpper(bare)] {
		return false
	}

	upper := 0
	for _, r := range bare {
		if unicode.IsUpper(r) {
			upper++
		}
	}

	return upper >= 2
}

// isCredentialRun accepts "MD" as well as space-joined runs like "MD PhD".
func isCredentialRun(segment string) bool {
	tokens := strings.Fields(segment)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !isCredential(t) {
			return false
		}
	}

	return true
}

// SplitName separates "Jane Doe, MD, PhD (US)" into name, credentials and country.
func SplitName(s string) Person {
	p := Person{Name: s}

	if m := trailingCountryRe.FindStringSubmatch(s); m != nil && strings.TrimSpace(m[1]) != "" {
		p.Name = m[1]
		p.Country = exactPart(strings.TrimSpace(m[2]))
	}

	segments := strings.Split(p.Name, ",")
	cut := len(segments)
	for cut > 1 && isCredentialRun(strings.TrimSpace(segments[cut-1])) {
		cut--
	}

	if cut < len(segments) {
		creds := make([]string, 0, len(segments)-cut)
		for _, seg := range segments[cut:] {
			creds = append(creds, strings.Join(strings.Fields(seg), " "))
		}
		p.Credentials = exactPart(strings.Join(creds, ", "))
		p.Name = strings.Join(segments[:cut], ",")
	}

	p.Name = strings.TrimRight(strings.TrimSpace(p.Name), ",")

	return p
}

func personValue(s string, _ Options) (any, Confidence, bool) {
	p := SplitName(s)
	if p.Name == "" {
		return nil, Missing, false
	}

	return p, Exact, true
}
