package match

import (
	"reflect"
	"testing"
)

func TestDedupe_FirstSeenWins(t *testing.T) {
	batch := []RawOpportunity{
		{ID: "a", Title: "Supply of ICT Equipment", SourceID: "feed-1"},
		{ID: "b", Title: "SUPPLY OF ICT EQUIPMENT!!!", SourceID: "feed-2"},
		{ID: "c", Title: "Different tender entirely", SourceID: "feed-2"},
	}

	out := Dedupe(batch)
	if len(out) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("expected first-seen record kept, got %s and %s", out[0].ID, out[1].ID)
	}
	// The duplicate is dropped, not merged: survivor keeps its own source.
	if out[0].SourceID != "feed-1" {
		t.Fatalf("expected survivor untouched, got source %s", out[0].SourceID)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	batch := []RawOpportunity{
		{ID: "a", Title: "Supply of ICT Equipment"},
		{ID: "b", Title: "Supply of ICT equipment"},
		{ID: "c", Title: "Web Portal Maintenance"},
	}

	once := Dedupe(batch)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected dedupe to be a fixed point:\n%+v\n%+v", once, twice)
	}
}

func TestFingerprint_TruncatesAndStrips(t *testing.T) {
	long := "Provision of Integrated Financial Management Information System Upgrade Services 2026"
	fp := Fingerprint(long)
	if len(fp) != fingerprintLen {
		t.Fatalf("expected fingerprint truncated to %d chars, got %d", fingerprintLen, len(fp))
	}

	if Fingerprint("Web-Portal (2026)") != Fingerprint("web portal 2026") {
		t.Fatal("expected punctuation and case to be ignored")
	}
}
