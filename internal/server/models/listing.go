package models

import "encoding/json"

// RawFileEntry is one element of the remote file listing.
type RawFileEntry struct {
	Name    string `json:"name"`
	Content string `json:"content,omitempty"`
}

// ParsedFile is a listing name split into its identifier, category and
// optional upload date.
type ParsedFile struct {
	Identifier string
	Category   string
	// Date is YYYY-MM-DD, or "" when the name carries no valid timestamp.
	Date string
	// Stamp is the raw YYYYMMDDHHMMSS run the date came from. Lexical order
	// of stamps is chronological order.
	Stamp   string
	RawName string
}

func (p ParsedFile) HasDate() bool {
	return p.Date != ""
}

func (p ParsedFile) MarshalJSON() ([]byte, error) {
	var date *string
	if p.Date != "" {
		date = &p.Date
	}
	return json.Marshal(struct {
		Identifier string  `json:"identifier"`
		Category   string  `json:"category"`
		Date       *string `json:"date"`
		RawName    string  `json:"raw_name"`
	}{p.Identifier, p.Category, date, p.RawName})
}
