package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/fileboard/internal/flagx"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/dmitrijs2005/fileboard/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration so
// both "15s" and integer nanoseconds are accepted. Keys missing from the
// file keep the value they had before the file was read.
type JsonConfig struct {
	EndpointAddrHTTP            string                 `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string                 `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string                 `json:"database_dsn"`
	SecretKey                   string                 `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration         `json:"access_token_validity_duration"`
	AdminUsername               string                 `json:"admin_username"`
	AdminPasswordHash           string                 `json:"admin_password_hash"`
	SeedServerURL               string                 `json:"server_url"`
	RemoteTimeout               timex.Duration         `json:"remote_timeout"`
	RemoteRetryMax              int                    `json:"remote_retry_max"`
	PushURL                     string                 `json:"push_url"`
	S3AccessKey                 string                 `json:"s3_access_key"`
	S3SecretKey                 string                 `json:"s3_secret_key"`
	S3Bucket                    string                 `json:"s3_bucket"`
	S3Region                    string                 `json:"s3_region"`
	S3BaseEndpoint              string                 `json:"s3_base_endpoint"`
	LogLevel                    string                 `json:"log_level"`
	CategoryStrategy            string                 `json:"category_strategy"`
	RepresentativePolicy        string                 `json:"representative_policy"`
	MatchPolicy                 string                 `json:"match_policy"`
	Categories                  []string               `json:"categories"`
	CommandPresets              []models.CommandPreset `json:"command_presets"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		EndpointAddrHTTP:            c.EndpointAddrHTTP,
		EndpointAddrGRPC:            c.EndpointAddrGRPC,
		DatabaseDSN:                 c.DatabaseDSN,
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		AdminUsername:               c.AdminUsername,
		AdminPasswordHash:           c.AdminPasswordHash,
		SeedServerURL:               c.SeedServerURL,
		RemoteTimeout:               timex.Duration{Duration: c.RemoteTimeout},
		RemoteRetryMax:              c.RemoteRetryMax,
		PushURL:                     c.PushURL,
		S3AccessKey:                 c.S3AccessKey,
		S3SecretKey:                 c.S3SecretKey,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		LogLevel:                    c.LogLevel,
		CategoryStrategy:            c.CategoryStrategy,
		RepresentativePolicy:        c.RepresentativePolicy,
		MatchPolicy:                 c.MatchPolicy,
		Categories:                  c.Categories,
		CommandPresets:              c.CommandPresets,
	}
}

func (j *JsonConfig) apply(c *Config) {
	c.EndpointAddrHTTP = j.EndpointAddrHTTP
	c.EndpointAddrGRPC = j.EndpointAddrGRPC
	c.DatabaseDSN = j.DatabaseDSN
	c.SecretKey = j.SecretKey
	c.AccessTokenValidityDuration = j.AccessTokenValidityDuration.Duration
	c.AdminUsername = j.AdminUsername
	c.AdminPasswordHash = j.AdminPasswordHash
	c.SeedServerURL = j.SeedServerURL
	c.RemoteTimeout = j.RemoteTimeout.Duration
	c.RemoteRetryMax = j.RemoteRetryMax
	c.PushURL = j.PushURL
	c.S3AccessKey = j.S3AccessKey
	c.S3SecretKey = j.S3SecretKey
	c.S3Bucket = j.S3Bucket
	c.S3Region = j.S3Region
	c.S3BaseEndpoint = j.S3BaseEndpoint
	c.LogLevel = j.LogLevel
	c.CategoryStrategy = j.CategoryStrategy
	c.RepresentativePolicy = j.RepresentativePolicy
	c.MatchPolicy = j.MatchPolicy
	c.Categories = j.Categories
	c.CommandPresets = j.CommandPresets
}

// parseJson overlays the file named by -c/-config onto config. Without
// such a flag nothing is loaded.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	j := toJson(config)
	if err := json.Unmarshal(file, j); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	j.apply(config)
	return nil
}
