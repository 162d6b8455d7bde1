package models

// Command is a push message addressed to one client device.
type Command struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Target string `json:"phoneiduser"`
}

// CommandPreset is a named command offered in the dashboard sidebar.
type CommandPreset struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
