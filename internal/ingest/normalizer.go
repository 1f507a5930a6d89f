package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mkamau/tender-radar/internal/match"
)

var htmlPolicy = bluemonday.StrictPolicy()

// maxDescriptionLen caps stored descriptions; some portals paste entire
// tender documents into the description field.
const maxDescriptionLen = 5000

// TruncateText cuts a string to max length in runes, appending ellipsis if
// truncated. Counting runes keeps multibyte characters intact.
func TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return string(runes[:maxLen-3]) + "..."
	}
	return string(runes[:maxLen])
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html // Fallback to original if parsing fails
	}
	return cleanText(doc.Text())
}

// FromFeed converts one untrusted FeedItem into a RawOpportunity ready for
// the matching engine. defaultCurrency is the source-level fallback from
// sources.yaml, used when the record neither names a currency nor contains
// one in its value text. FromFeed never panics on dirty input; the single
// error case is a record with no usable title, which the caller counts and
// skips so the rest of the batch proceeds.
func FromFeed(item FeedItem, sourceID, defaultCurrency string) (match.RawOpportunity, error) {
	title := sanitizeUTF8(cleanText(HTMLToText(item.Title)))
	if title == "" {
		return match.RawOpportunity{}, fmt.Errorf("feed item %q from %s has no title", item.ExternalID, sourceID)
	}

	description := TruncateText(sanitizeUTF8(HTMLToText(htmlPolicy.Sanitize(item.Description))), maxDescriptionLen)

	fallbackCurrency := strings.TrimSpace(item.RawCurrency)
	if fallbackCurrency == "" {
		fallbackCurrency = defaultCurrency
	}
	value, currency := parseValueRobust(item.RawValue, fallbackCurrency)

	requirements := item.Requirements
	if len(requirements) == 0 && item.RequirementsRaw != "" {
		requirements = splitAndCleanList(HTMLToText(item.RequirementsRaw))
	}

	category := cleanText(item.Category)
	if category == "" {
		category = match.CategorizeByTitle(title)
	}

	opp := match.RawOpportunity{
		ID:            recordID(sourceID, item),
		Title:         title,
		Description:   description,
		Organization:  cleanText(item.Organization),
		Value:         value,
		Currency:      currency,
		Deadline:      cleanText(item.RawDeadline),
		PublishedDate: match.ParseDateISO(item.RawPublished),
		Category:      category,
		SourceID:      sourceID,
		SourceURL:     strings.TrimSpace(item.SourceURL),
		Requirements:  requirements,
		Location:      cleanText(item.Location),
	}

	return opp, nil
}

// FromFeedBatch normalizes a whole fetch result, returning the usable
// records plus the count of records that had to be skipped.
func FromFeedBatch(items []FeedItem, sourceID, defaultCurrency string) ([]match.RawOpportunity, int) {
	out := make([]match.RawOpportunity, 0, len(items))
	skipped := 0
	for _, item := range items {
		opp, err := FromFeed(item, sourceID, defaultCurrency)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, opp)
	}
	return out, skipped
}

// recordID keeps the caller-assigned external ID when the feed supplies
// one; otherwise it derives a per-batch ID from the title fingerprint.
// IDs are only unique per batch, so collisions across independent feeds
// are tolerated downstream.
func recordID(sourceID string, item FeedItem) string {
	if strings.TrimSpace(item.ExternalID) != "" {
		return sourceID + ":" + strings.TrimSpace(item.ExternalID)
	}
	return sourceID + ":" + match.Fingerprint(item.Title)
}

// sanitizeUTF8 removes invalid UTF-8 byte sequences that cause PostgreSQL errors.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}
