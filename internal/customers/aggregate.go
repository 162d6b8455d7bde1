// Package customers folds parsed listing entries into per-identifier
// records, date and category statistics, and identifier lookups. Everything
// here is a pure function over an in-memory snapshot.
package customers

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// Representative decides which file stands for an (identifier, category)
// pair when the listing has several.
type Representative int

const (
	// RepresentativeLatest keeps the file with the greatest timestamp. Files
	// without a timestamp never replace one that has it; equal stamps fall
	// back to listing order.
	RepresentativeLatest Representative = iota
	// RepresentativeLastSeen keeps the last file in listing order.
	RepresentativeLastSeen
)

func (r Representative) String() string {
	switch r {
	case RepresentativeLatest:
		return "latest"
	case RepresentativeLastSeen:
		return "last-seen"
	default:
		return fmt.Sprintf("Representative(%d)", int(r))
	}
}

func ParseRepresentative(s string) (Representative, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return RepresentativeLatest, nil
	case "last-seen":
		return RepresentativeLastSeen, nil
	default:
		return 0, fmt.Errorf("unknown representative policy %q", s)
	}
}

// Aggregate builds one record per identifier in a single pass.
func Aggregate(entries []models.ParsedFile, policy Representative) map[string]*models.CustomerRecord {
	records := make(map[string]*models.CustomerRecord)
	// stamps of the current representatives, keyed by identifier+category
	stamps := make(map[[2]string]string)

	for _, e := range entries {
		rec, ok := records[e.Identifier]
		if !ok {
			rec = &models.CustomerRecord{
				Identifier: e.Identifier,
				Categories: make(map[string]string),
			}
			records[e.Identifier] = rec
		}

		rec.FileCount++
		if e.Date > rec.LastActivity {
			rec.LastActivity = e.Date
		}

		switch e.Category {
		case "":
			continue
		case filenames.ArchiveCategory:
			rec.MainArchiveExists = true
			continue
		}

		key := [2]string{e.Identifier, e.Category}
		_, seen := rec.Categories[e.Category]
		if seen && policy == RepresentativeLatest && e.Stamp < stamps[key] {
			continue
		}
		rec.Categories[e.Category] = e.RawName
		stamps[key] = e.Stamp
	}

	return records
}

// Sorted returns the records ordered by identifier.
func Sorted(records map[string]*models.CustomerRecord) []*models.CustomerRecord {
	out := make([]*models.CustomerRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Identifier < out[j].Identifier
	})
	return out
}

// Summary counts the landing-page figures for one snapshot.
func Summary(records map[string]*models.CustomerRecord, entries []models.ParsedFile, rejected int) models.Overview {
	o := models.Overview{
		Customers:     len(records),
		Files:         len(entries),
		RejectedNames: rejected,
	}
	for _, e := range entries {
		if !e.HasDate() {
			o.FilesWithoutDay++
		}
	}
	for _, r := range records {
		if r.MainArchiveExists {
			o.Archives++
		}
	}
	return o
}
