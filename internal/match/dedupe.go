package match

import "strings"

const fingerprintLen = 50

// Dedupe collapses records reporting the same underlying tender from
// multiple feeds. The fingerprint is crude on purpose (lowercased title,
// non-alphanumerics stripped, first 50 characters): exact-title
// duplication across independently operated feeds is the case being
// targeted, not paraphrased duplicates. First seen wins; later duplicates
// are dropped, not merged.
func Dedupe(opportunities []RawOpportunity) []RawOpportunity {
	seen := make(map[string]struct{}, len(opportunities))
	out := make([]RawOpportunity, 0, len(opportunities))

	for _, opp := range opportunities {
		fp := Fingerprint(opp.Title)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		out = append(out, opp)
	}

	return out
}

// Fingerprint normalizes a title into the dedupe key.
func Fingerprint(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
		if b.Len() >= fingerprintLen {
			break
		}
	}
	return b.String()
}
