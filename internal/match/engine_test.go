package match

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func mustProfile(t *testing.T, services []ServiceCategory, exclusions, sectors []string) *Profile {
	t.Helper()
	p, err := NewProfile(services, exclusions, sectors)
	if err != nil {
		t.Fatalf("profile construction failed: %v", err)
	}
	return p
}

func singleCategoryProfile(t *testing.T, weight float64, keywords ...string) *Profile {
	t.Helper()
	return mustProfile(t, []ServiceCategory{
		{Name: "Test Services", Keywords: keywords, Weight: weight},
	}, nil, nil)
}

func TestScore_ExclusionIsAbsolute(t *testing.T) {
	profile := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal"}, Weight: 1.0},
	}, []string{"construction works"}, nil)

	opp := RawOpportunity{
		ID:          "x1",
		Title:       "National Portal Upgrade",
		Description: "Portal modernization including minor construction works on site",
		Category:    "misc",
	}

	if m := Score(opp, profile); m != nil {
		t.Fatalf("expected nil for excluded record, got score %d", m.MatchScore)
	}
}

func TestScore_ExclusionInRequirementsVetoes(t *testing.T) {
	profile := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal"}, Weight: 1.0},
	}, []string{"security guard"}, nil)

	opp := RawOpportunity{
		ID:           "x2",
		Title:        "County Portal",
		Category:     "misc",
		Requirements: []string{"Provision of security guard services at the data center"},
	}

	if m := Score(opp, profile); m != nil {
		t.Fatal("expected exclusion phrase inside requirements to veto the record")
	}
}

func TestScore_ThresholdBoundary(t *testing.T) {
	// 1 of 5 keywords at weight 1.0 normalizes to exactly 20.
	accepted := singleCategoryProfile(t, 1.0, "alpha", "bravo", "charlie", "delta", "foxtrot")
	// Same hit at weight 0.95 rounds to 19.
	rejected := singleCategoryProfile(t, 0.95, "alpha", "bravo", "charlie", "delta", "foxtrot")

	opp := RawOpportunity{ID: "t1", Title: "alpha tender", Category: "misc"}

	m := Score(opp, accepted)
	if m == nil {
		t.Fatal("expected score 20 to be accepted")
	}
	if m.MatchScore != 20 {
		t.Fatalf("expected score 20, got %d", m.MatchScore)
	}

	if m := Score(opp, rejected); m != nil {
		t.Fatalf("expected score 19 to be rejected, got %d", m.MatchScore)
	}
}

func TestScore_PriorityBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		profile  *Profile
		expected int
		priority Priority
	}{
		{"exactly 50 is medium", singleCategoryProfile(t, 1.0, "alpha", "bravo"), 50, PriorityMedium},
		{"49 is low", singleCategoryProfile(t, 0.98, "alpha", "bravo"), 49, PriorityLow},
		{"exactly 80 is high", singleCategoryProfile(t, 0.8, "alpha"), 80, PriorityHigh},
		{"79 is medium", singleCategoryProfile(t, 0.79, "alpha"), 79, PriorityMedium},
	}

	opp := RawOpportunity{ID: "p1", Title: "alpha tender", Category: "misc"}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Score(opp, tt.profile)
			if m == nil {
				t.Fatal("expected a match")
			}
			if m.MatchScore != tt.expected {
				t.Fatalf("expected score %d, got %d", tt.expected, m.MatchScore)
			}
			if m.Priority != tt.priority {
				t.Fatalf("expected priority %s, got %s", tt.priority, m.Priority)
			}
		})
	}
}

func TestScore_SectorBonusAloneIsRejected(t *testing.T) {
	profile := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"zebra"}, Weight: 1.0},
	}, nil, []string{"ministry", "health", "education"})

	opp := RawOpportunity{
		ID:           "s1",
		Title:        "Unrelated notice",
		Organization: "Ministry of Health and Education",
		Category:     "misc",
	}

	// Three stacked bonuses clear the numeric threshold (30 >= 20) but no
	// category matched, so the record must still be rejected.
	if m := Score(opp, profile); m != nil {
		t.Fatalf("expected rejection with zero matched categories, got score %d", m.MatchScore)
	}
}

func TestScore_SectorBonusStacks(t *testing.T) {
	base := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal", "website"}, Weight: 1.0},
	}, nil, nil)
	boosted := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal", "website"}, Weight: 1.0},
	}, nil, []string{"ministry", "government"})

	opp := RawOpportunity{
		ID:           "s2",
		Title:        "Portal tender",
		Organization: "Ministry of Government Affairs",
		Category:     "misc",
	}

	noBonus := Score(opp, base)
	withBonus := Score(opp, boosted)
	if noBonus == nil || withBonus == nil {
		t.Fatal("expected both variants to match")
	}
	if got := withBonus.MatchScore - noBonus.MatchScore; got != 20 {
		t.Fatalf("expected two stacked +10 bonuses, got delta %d", got)
	}
}

func TestScore_EmptyDescriptionStillScorable(t *testing.T) {
	profile := singleCategoryProfile(t, 1.0, "alpha")

	opp := RawOpportunity{ID: "d1", Title: "alpha tender", Category: "misc"}
	if Score(opp, profile) == nil {
		t.Fatal("expected title-only record to be scorable")
	}
}

func TestScore_EmptyTitleIsNonMatch(t *testing.T) {
	profile := singleCategoryProfile(t, 1.0, "alpha")

	opp := RawOpportunity{ID: "d2", Description: "alpha everywhere", Category: "misc"}
	if Score(opp, profile) != nil {
		t.Fatal("expected empty-title record to be treated as non-matchable")
	}
}

func TestScore_SubstringMatchingIsPermissive(t *testing.T) {
	profile := singleCategoryProfile(t, 1.0, "app")

	// "app" inside "application" counts. Inherited behavior, do not tighten.
	opp := RawOpportunity{ID: "sub1", Title: "Development of a loan application", Category: "misc"}
	if Score(opp, profile) == nil {
		t.Fatal("expected substring keyword hit inside a larger word")
	}
}

func TestScore_Deterministic(t *testing.T) {
	profile := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal", "website"}, Weight: 1.0},
		{Name: "Software", Keywords: []string{"software", "system"}, Weight: 0.9},
	}, nil, []string{"ministry"})

	opp := RawOpportunity{
		ID:           "det1",
		Title:        "Portal and software system tender",
		Organization: "Ministry of Trade",
		Category:     "misc",
	}

	first := Score(opp, profile)
	second := Score(opp, profile)
	if first == nil || second == nil {
		t.Fatal("expected matches")
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output across passes:\n%+v\n%+v", first, second)
	}
	// Service order follows profile declaration order.
	if !reflect.DeepEqual(first.MatchedServices, []string{"Web", "Software"}) {
		t.Fatalf("unexpected service order: %v", first.MatchedServices)
	}
}

func TestScore_KeywordSharedAcrossCategoriesReportedOnce(t *testing.T) {
	profile := mustProfile(t, []ServiceCategory{
		{Name: "Web", Keywords: []string{"portal"}, Weight: 1.0},
		{Name: "Software", Keywords: []string{"portal", "software"}, Weight: 1.0},
	}, nil, nil)

	opp := RawOpportunity{ID: "u1", Title: "Portal software tender", Category: "misc"}
	m := Score(opp, profile)
	if m == nil {
		t.Fatal("expected a match")
	}

	// The shared keyword counts toward both category ratios but the
	// reported union carries it once, in discovery order.
	if !reflect.DeepEqual(m.MatchedKeywords, []string{"portal", "software"}) {
		t.Fatalf("expected deduplicated keyword union, got %v", m.MatchedKeywords)
	}
	if !reflect.DeepEqual(m.MatchedServices, []string{"Web", "Software"}) {
		t.Fatalf("both categories should still match: %v", m.MatchedServices)
	}
	if strings.Count(m.RelevanceReason, "portal") != 1 {
		t.Fatalf("reason should name the shared keyword once: %q", m.RelevanceReason)
	}
}

func TestScore_RelevanceReasonTruncatesKeywords(t *testing.T) {
	profile := singleCategoryProfile(t, 1.0, "a1", "a2", "a3", "a4", "a5", "a6", "a7")

	opp := RawOpportunity{ID: "r1", Title: "a1 a2 a3 a4 a5 a6 a7", Category: "misc"}
	m := Score(opp, profile)
	if m == nil {
		t.Fatal("expected a match")
	}
	if !strings.HasSuffix(m.RelevanceReason, "...") {
		t.Fatalf("expected truncated reason, got %q", m.RelevanceReason)
	}
	if strings.Contains(m.RelevanceReason, "a6") {
		t.Fatalf("expected at most 5 keywords in reason, got %q", m.RelevanceReason)
	}
}

func TestScore_EndToEndPortalScenario(t *testing.T) {
	profile, err := LoadProfile("")
	if err != nil {
		t.Fatalf("failed to load default profile: %v", err)
	}

	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, 30).Format("02/01/2006")

	opp := RawOpportunity{
		ID:           "egov-001",
		Title:        "Development of E-Government Portal for Citizen Services",
		Description:  "The Ministry seeks a qualified firm to design and develop a web portal with mobile-responsive pages, online citizen service application modules, database integration and ongoing software support.",
		Organization: "Ministry of ICT",
		Value:        280000,
		Currency:     "USD",
		Deadline:     deadline,
	}

	m := Score(opp, profile)
	if m == nil {
		t.Fatal("expected the e-government portal tender to match")
	}

	found := false
	for _, svc := range m.MatchedServices {
		if svc == "Web Development" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Web Development among matched services, got %v", m.MatchedServices)
	}
	if m.Priority != PriorityHigh && m.Priority != PriorityMedium {
		t.Fatalf("expected high or medium priority, got %s (score %d)", m.Priority, m.MatchScore)
	}
	if !IsDeadlineValid(opp.Deadline, now) {
		t.Fatal("expected a 30-day deadline to be valid")
	}
	if days := DaysUntilDeadline(opp.Deadline, now); days < 29 || days > 31 {
		t.Fatalf("expected roughly 30 days to deadline, got %d", days)
	}
}

func TestScore_EndToEndConstructionExcluded(t *testing.T) {
	profile, err := LoadProfile("")
	if err != nil {
		t.Fatalf("failed to load default profile: %v", err)
	}

	opp := RawOpportunity{
		ID:           "con-001",
		Title:        "Construction of Rural Health Clinics",
		Description:  "Tender for construction works covering three rural clinics, including a web-based progress report.",
		Organization: "Ministry of Health",
	}

	if m := Score(opp, profile); m != nil {
		t.Fatalf("expected construction tender to be excluded, got score %d", m.MatchScore)
	}
}
