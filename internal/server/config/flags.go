package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/fileboard/internal/flagx"
)

var serverFlags = []string{
	"-a", "-g", "-d", "-s", "-t", "-u", "-w", "-r", "-n", "-b", "-e", "-k", "-x", "-l",
}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   database DSN (postgres:// URL or SQLite path)
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   admin username
//	-w string   admin password hash
//	-r string   remote file server URL used until one is saved
//	-n string   push relay URL
//	-b string   S3 bucket for report exports
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-k string   S3 access key
//	-x string   S3 secret key
//	-l string   log level
//
// Args are first filtered with flagx.FilterArgs so flags owned by other
// layers, like -c, do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("fileboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to serve the API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to serve gRPC health")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.StringVar(&config.AdminUsername, "u", config.AdminUsername, "admin username")
	fs.StringVar(&config.AdminPasswordHash, "w", config.AdminPasswordHash, "admin password hash")
	fs.StringVar(&config.SeedServerURL, "r", config.SeedServerURL, "remote file server URL")
	fs.StringVar(&config.PushURL, "n", config.PushURL, "push relay URL")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "k", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "x", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	return nil
}
