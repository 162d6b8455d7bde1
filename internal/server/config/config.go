// Package config handles configuration for the dashboard server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/customers"
	"github.com/dmitrijs2005/fileboard/internal/filenames"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
)

// Config holds runtime settings for the dashboard server.
//
// Fields:
//   - EndpointAddrHTTP / EndpointAddrGRPC: bind addresses of the JSON API and
//     the gRPC health endpoint.
//   - DatabaseDSN: postgres:// URL (pgx) or an SQLite file path.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AdminUsername / AdminPasswordHash: the single operator login; the hash
//     comes from "fileboard-cli hash-password".
//   - SeedServerURL: remote file server used until one is saved in settings.
//   - PushURL: push relay endpoint for device commands.
//   - S3*: object storage for report exports; an empty bucket disables them.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	AdminUsername               string
	AdminPasswordHash           string
	SeedServerURL               string
	RemoteTimeout               time.Duration
	RemoteRetryMax              int
	PushURL                     string
	S3AccessKey                 string
	S3SecretKey                 string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	LogLevel                    string
	CategoryStrategy            string
	RepresentativePolicy        string
	MatchPolicy                 string
	Categories                  []string
	CommandPresets              []models.CommandPreset
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside development.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = "fileboard.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.AdminUsername = "admin"
	c.AdminPasswordHash = ""
	c.SeedServerURL = ""
	c.RemoteTimeout = 15 * time.Second
	c.RemoteRetryMax = 2
	c.PushURL = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.LogLevel = "info"
	c.CategoryStrategy = filenames.StrategyLeadingLetters.String()
	c.RepresentativePolicy = customers.RepresentativeLatest.String()
	c.MatchPolicy = customers.MatchExact.String()
	c.Categories = append([]string(nil), customers.DefaultCategories...)
	c.CommandPresets = defaultPresets()
}

func defaultPresets() []models.CommandPreset {
	out := make([]models.CommandPreset, 0, len(customers.DefaultCategories))
	for _, c := range customers.DefaultCategories {
		out = append(out, models.CommandPreset{Title: c, Body: "upload"})
	}
	return out
}

// Validate checks the fields that select an algorithm by name.
func (c *Config) Validate() error {
	if _, err := filenames.ParseStrategy(c.CategoryStrategy); err != nil {
		return err
	}
	if _, err := customers.ParseRepresentative(c.RepresentativePolicy); err != nil {
		return err
	}
	if _, err := customers.ParseMatchPolicy(c.MatchPolicy); err != nil {
		return err
	}
	if c.AccessTokenValidityDuration <= 0 {
		return fmt.Errorf("access token validity must be positive")
	}
	if c.RemoteRetryMax < 0 {
		return fmt.Errorf("remote retry max must not be negative")
	}
	return nil
}

// Load builds a Config by applying defaults, then overlaying values from an
// optional JSON file and finally from command-line flags.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over os.Args. It panics on a broken configuration.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
