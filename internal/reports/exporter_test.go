package reports

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/fileboard/internal/common"
	"github.com/dmitrijs2005/fileboard/internal/logging"
	"github.com/dmitrijs2005/fileboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSettings = Settings{
	Region:    "us-east-1",
	Endpoint:  "http://127.0.0.1:9000",
	AccessKey: "minioadmin",
	SecretKey: "minioadmin",
	Bucket:    "fileboard",
}

func restoreSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origPut := putObject
	origPresign := presignGetObject
	origNow := now
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		putObject = origPut
		presignGetObject = origPresign
		now = origNow
	})
}

func TestKey(t *testing.T) {
	key := Key(time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC))
	assert.Regexp(t, regexp.MustCompile(`^reports/2024/03/05/[0-9a-f-]{36}\.json$`), key)
	assert.NotEqual(t, key, Key(time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC)))
}

func TestExport_Disabled(t *testing.T) {
	e := NewExporter(Settings{}, logging.Nop())
	assert.False(t, e.Enabled())

	_, _, err := e.Export(context.Background(), models.Report{})
	assert.ErrorIs(t, err, common.ErrReportsDisabled)
}

func TestExport_UploadsAndPresigns(t *testing.T) {
	restoreSeams(t)
	now = func() time.Time { return time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC) }

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minioadmin", creds.AccessKeyID)
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}

	var uploaded models.Report
	var uploadedKey string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		assert.Equal(t, "fileboard", aws.ToString(in.Bucket))
		assert.Equal(t, "application/json", aws.ToString(in.ContentType))
		uploadedKey = aws.ToString(in.Key)
		raw, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &uploaded))
		return &s3.PutObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		assert.Equal(t, uploadedKey, aws.ToString(in.Key))
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		assert.Equal(t, 15*time.Minute, po.Expires)
		return &v4.PresignedHTTPRequest{URL: "http://signed/" + aws.ToString(in.Key)}, nil
	}

	report := models.Report{
		GeneratedAt: "2024-01-02T03:04:05Z",
		ServerURL:   "http://files",
		Overview:    models.Overview{Customers: 3, Files: 10},
	}
	key, url, err := NewExporter(testSettings, logging.Nop()).Export(context.Background(), report)
	require.NoError(t, err)
	assert.Regexp(t, `^reports/2024/01/02/`, key)
	assert.Equal(t, "http://signed/"+key, url)
	assert.Equal(t, report, uploaded)
}

func TestExport_Errors(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		restoreSeams(t)
		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("load-fail")
		}
		_, _, err := NewExporter(testSettings, logging.Nop()).Export(context.Background(), models.Report{})
		assert.EqualError(t, err, "load-fail")
	})

	t.Run("upload", func(t *testing.T) {
		restoreSeams(t)
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("put-fail")
		}
		_, _, err := NewExporter(testSettings, logging.Nop()).Export(context.Background(), models.Report{})
		assert.ErrorContains(t, err, "put-fail")
	})

	t.Run("presign", func(t *testing.T) {
		restoreSeams(t)
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return &s3.PutObjectOutput{}, nil
		}
		presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("presign-fail")
		}
		_, _, err := NewExporter(testSettings, logging.Nop()).Export(context.Background(), models.Report{})
		assert.ErrorContains(t, err, "presign-fail")
	})
}
