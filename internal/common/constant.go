package common

const (
	// AccessTokenCookieName carries the dashboard access token for browser clients.
	AccessTokenCookieName = "fileboard_token"

	// ServerURLSettingKey is the settings row holding the remote file-server URL.
	ServerURLSettingKey = "server_url"
)

// Version is stamped at build time with -ldflags "-X ...common.Version=...".
var Version = "dev"
