package match

import (
	"log"
	"sort"
	"time"
)

// urgentWindowDays is the deadline window counted as urgent in summaries.
const urgentWindowDays = 14

// BatchStats are the aggregate counters derived from one ranking pass.
type BatchStats struct {
	Total      int              `json:"total"`
	Matched    int              `json:"matched"`
	Discarded  int              `json:"discarded"`
	ByPriority map[Priority]int `json:"by_priority"`
	Urgent     int              `json:"urgent"`
	TotalValue float64          `json:"total_value"`
}

// RankBatch scores every record independently, discards non-matches and
// sorts survivors by score descending, then soonest deadline first.
// Records whose deadlines do not parse sort after all records with valid
// deadlines inside the same score tier (unparseable is treated as
// infinitely far in the future). The function is pure: the same input in
// the same order always yields the same output.
func RankBatch(opportunities []RawOpportunity, profile *Profile) []MatchedOpportunity {
	matches := make([]MatchedOpportunity, 0, len(opportunities))
	for _, opp := range opportunities {
		m := scoreIsolated(opp, profile)
		if m != nil {
			matches = append(matches, *m)
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].MatchScore != matches[j].MatchScore {
			return matches[i].MatchScore > matches[j].MatchScore
		}
		di, iok := ParseDate(matches[i].Deadline)
		dj, jok := ParseDate(matches[j].Deadline)
		if iok && jok {
			return di.Before(dj)
		}
		// Valid deadline wins the tie against an unparseable one.
		return iok && !jok
	})

	return matches
}

// scoreIsolated guards the batch against a programming defect in the
// scoring of one record: a panic is logged and the record skipped so the
// rest of the multi-source batch still ranks.
func scoreIsolated(opp RawOpportunity, profile *Profile) (m *MatchedOpportunity) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scoring panic for record %q: %v", opp.ID, r)
			m = nil
		}
	}()
	return Score(opp, profile)
}

// Summarize derives the aggregate counters for a ranked batch. inputCount
// is the pre-ranking batch size, used for the discarded counter.
func Summarize(matches []MatchedOpportunity, inputCount int, now time.Time) BatchStats {
	stats := BatchStats{
		Total:      inputCount,
		Matched:    len(matches),
		Discarded:  inputCount - len(matches),
		ByPriority: map[Priority]int{PriorityHigh: 0, PriorityMedium: 0, PriorityLow: 0},
	}

	for _, m := range matches {
		stats.ByPriority[m.Priority]++
		stats.TotalValue += m.Value
		if IsDeadlineValid(m.Deadline, now) && DaysUntilDeadline(m.Deadline, now) <= urgentWindowDays {
			stats.Urgent++
		}
	}

	return stats
}
