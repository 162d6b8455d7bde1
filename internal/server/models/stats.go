package models

type DailyCount struct {
	Date                  string `json:"date"`
	FileCount             int    `json:"file_count"`
	UniqueIdentifierCount int    `json:"unique_identifier_count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type StatisticsTotals struct {
	Files         int `json:"files"`
	Customers     int `json:"customers"`
	FilesWithDate int `json:"files_with_date"`
	FilesInWindow int `json:"files_in_window"`
}

// Statistics is the full payload of the statistics view for one date window.
type Statistics struct {
	Days       int              `json:"days"`
	From       string           `json:"from"`
	To         string           `json:"to"`
	Totals     StatisticsTotals `json:"totals"`
	Daily      []DailyCount     `json:"daily"`
	Categories []CategoryCount  `json:"categories"`
}

// Report is what gets exported to object storage.
type Report struct {
	GeneratedAt string     `json:"generated_at"`
	ServerURL   string     `json:"server_url"`
	Overview    Overview   `json:"overview"`
	Statistics  Statistics `json:"statistics"`
}
