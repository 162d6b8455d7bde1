package models

// CustomerRecord groups every listed file of one identifier.
type CustomerRecord struct {
	Identifier string `json:"identifier"`
	// Categories maps a feature category to its representative file name.
	Categories        map[string]string `json:"categories"`
	MainArchiveExists bool              `json:"main_archive_exists"`
	// LastActivity is the latest upload date seen, YYYY-MM-DD or "".
	LastActivity string `json:"last_activity"`
	FileCount    int    `json:"file_count"`
}

// Overview backs the dashboard landing cards.
type Overview struct {
	Customers       int `json:"customers"`
	Files           int `json:"files"`
	RejectedNames   int `json:"rejected_names"`
	FilesWithoutDay int `json:"files_without_date"`
	Archives        int `json:"archives"`
}
