package match

import (
	"fmt"
	"math"
	"strings"
)

const (
	// acceptThreshold is the minimum normalized score for a record to be
	// reported as a match at all.
	acceptThreshold = 20

	highThreshold   = 80
	mediumThreshold = 50

	// sectorBonus is added once per preferred sector found in the record.
	// Stacking is uncapped; the final clamp to 100 is the only ceiling.
	sectorBonus = 10.0

	reasonKeywordLimit = 5
)

// Score evaluates one opportunity against the profile and returns the
// scored match, or nil when the record is excluded or below threshold.
// It never mutates its inputs and is safe for concurrent use.
func Score(opp RawOpportunity, profile *Profile) *MatchedOpportunity {
	if strings.TrimSpace(opp.Title) == "" {
		// Dirty feeds occasionally emit title-less rows; treat them as
		// non-matchable instead of failing the batch.
		return nil
	}

	category := opp.Category
	if category == "" {
		category = CategorizeByTitle(opp.Title)
	}

	haystack := buildHaystack(opp, category)

	// Exclusion gate: absolute, checked before any scoring. One excluded
	// phrase vetoes the record no matter how well it would have scored.
	for _, excluded := range profile.Exclusions {
		if strings.Contains(haystack, excluded) {
			return nil
		}
	}

	var total float64
	var matchedServices []string
	var matchedKeywords []string
	seenKeywords := make(map[string]struct{})

	// Per-category scoring. Keyword matching is plain substring
	// containment, so "app" matches inside "application". Profiles are
	// written against that permissiveness.
	for _, svc := range profile.Services {
		var hits []string
		for _, kw := range svc.Keywords {
			if strings.Contains(haystack, kw) {
				hits = append(hits, kw)
			}
		}
		if len(hits) == 0 {
			continue
		}
		total += float64(len(hits)) / float64(len(svc.Keywords)) * 100 * svc.Weight
		matchedServices = append(matchedServices, svc.Name)

		// MatchedKeywords is a union: a keyword shared by two categories
		// counts toward each category's hit ratio but is reported once,
		// in discovery order.
		for _, kw := range hits {
			if _, dup := seenKeywords[kw]; dup {
				continue
			}
			seenKeywords[kw] = struct{}{}
			matchedKeywords = append(matchedKeywords, kw)
		}
	}

	organization := strings.ToLower(opp.Organization)
	for _, sector := range profile.PreferredSectors {
		if strings.Contains(haystack, sector) || strings.Contains(organization, sector) {
			total += sectorBonus
		}
	}

	score := int(math.Round(total / float64(len(profile.Services))))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	// Both conditions are independently necessary: a record could clear
	// the threshold on sector bonuses alone, but with no matched service
	// there is nothing to report.
	if score < acceptThreshold || len(matchedServices) == 0 {
		return nil
	}

	return &MatchedOpportunity{
		RawOpportunity:  opp,
		MatchScore:      score,
		MatchedServices: matchedServices,
		MatchedKeywords: matchedKeywords,
		RelevanceReason: relevanceReason(matchedServices, matchedKeywords),
		Priority:        priorityFor(score),
	}
}

// buildHaystack joins the record's searchable text into one lowercased
// string. The exclusion gate and category scoring both operate on this
// same haystack, so an excluded phrase buried in a requirement line still
// vetoes the record.
func buildHaystack(opp RawOpportunity, category string) string {
	parts := make([]string, 0, 3+len(opp.Requirements))
	parts = append(parts, opp.Title, opp.Description, category)
	parts = append(parts, opp.Requirements...)
	return strings.ToLower(strings.Join(parts, " "))
}

func priorityFor(score int) Priority {
	switch {
	case score >= highThreshold:
		return PriorityHigh
	case score >= mediumThreshold:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

func relevanceReason(services, keywords []string) string {
	shown := keywords
	suffix := ""
	if len(shown) > reasonKeywordLimit {
		shown = shown[:reasonKeywordLimit]
		suffix = "..."
	}
	return fmt.Sprintf("Matches %s services with keywords: %s%s",
		strings.Join(services, ", "), strings.Join(shown, ", "), suffix)
}
