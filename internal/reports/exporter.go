// Package reports exports dashboard snapshots to S3-compatible object
// storage and hands out short-lived download links.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/google/uuid"
)

const linkValidity = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

type Settings struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type Exporter struct {
	settings Settings
	log      logging.Logger
}

func NewExporter(settings Settings, log logging.Logger) *Exporter {
	return &Exporter{settings: settings, log: log.With("module", "reports")}
}

func (e *Exporter) Enabled() bool {
	return strings.TrimSpace(e.settings.Bucket) != ""
}

// Key builds reports/<yyyy>/<mm>/<dd>/<uuid>.json for t.
func Key(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("reports/%04d/%02d/%02d/%s.json", t.Year(), int(t.Month()), t.Day(), uuid.New())
}

func (e *Exporter) client(ctx context.Context) (*s3.Client, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(e.settings.Region)}
	if e.settings.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			e.settings.AccessKey,
			e.settings.SecretKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if e.settings.Endpoint != "" {
			o.BaseEndpoint = aws.String(e.settings.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export uploads report as JSON and returns its key and a presigned GET URL.
func (e *Exporter) Export(ctx context.Context, report models.Report) (string, string, error) {
	if !e.Enabled() {
		return "", "", common.ErrReportsDisabled
	}

	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}

	client, err := e.client(ctx)
	if err != nil {
		return "", "", err
	}

	bucket := e.settings.Bucket
	key := Key(now())

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload report: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(linkValidity))
	if err != nil {
		return "", "", fmt.Errorf("presign report: %w", err)
	}

	e.log.Info(ctx, "report exported", "bucket", bucket, "key", key, "bytes", len(body))
	return key, req.URL, nil
}
