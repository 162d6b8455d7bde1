package customers

import (
	"time"

	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// DefaultCategories are the feature categories shown in the category
// breakdown when the configuration does not name its own.
var DefaultCategories = []string{
	"Sms", "Contacts", "Calls", "Location", "Camera", "Mic", "Clipboard", "Ip",
}

// LastNDays returns n calendar dates ending with now's date, oldest first.
func LastNDays(now time.Time, n int) []string {
	if n <= 0 {
		return []string{}
	}
	out := make([]string, n)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := range n {
		out[n-1-i] = day.AddDate(0, 0, -i).Format(time.DateOnly)
	}
	return out
}

// DailyCounts returns one element per requested date, in the order given.
func DailyCounts(entries []models.ParsedFile, dates []string) []models.DailyCount {
	type bucket struct {
		files int
		ids   map[string]struct{}
	}

	buckets := make(map[string]*bucket, len(dates))
	for _, d := range dates {
		buckets[d] = &bucket{ids: make(map[string]struct{})}
	}

	for _, e := range entries {
		b, ok := buckets[e.Date]
		if !ok || !e.HasDate() {
			continue
		}
		b.files++
		b.ids[e.Identifier] = struct{}{}
	}

	out := make([]models.DailyCount, len(dates))
	for i, d := range dates {
		b := buckets[d]
		out[i] = models.DailyCount{Date: d, FileCount: b.files, UniqueIdentifierCount: len(b.ids)}
	}
	return out
}

// CategoryCounts counts entries dated inside dates, per recognized category,
// ordered like recognized.
func CategoryCounts(entries []models.ParsedFile, dates, recognized []string) []models.CategoryCount {
	window := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		window[d] = struct{}{}
	}
	counts := make(map[string]int, len(recognized))
	for _, c := range recognized {
		counts[c] = 0
	}

	for _, e := range entries {
		if _, ok := window[e.Date]; !ok || !e.HasDate() {
			continue
		}
		if _, ok := counts[e.Category]; ok {
			counts[e.Category]++
		}
	}

	out := make([]models.CategoryCount, 0, len(recognized))
	seen := make(map[string]struct{}, len(recognized))
	for _, c := range recognized {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, models.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

// Summarize computes the statistics payload for the days ending at now.
func Summarize(entries []models.ParsedFile, now time.Time, days int, recognized []string) models.Statistics {
	dates := LastNDays(now, days)
	st := models.Statistics{
		Days:       len(dates),
		Daily:      DailyCounts(entries, dates),
		Categories: CategoryCounts(entries, dates, recognized),
	}
	if len(dates) > 0 {
		st.From, st.To = dates[0], dates[len(dates)-1]
	}

	ids := make(map[string]struct{})
	for _, e := range entries {
		ids[e.Identifier] = struct{}{}
		if e.HasDate() {
			st.Totals.FilesWithDate++
		}
	}
	for _, d := range st.Daily {
		st.Totals.FilesInWindow += d.FileCount
	}
	st.Totals.Files = len(entries)
	st.Totals.Customers = len(ids)
	return st
}
