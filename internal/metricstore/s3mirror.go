package metricstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/weiser-io/weiser/internal/errs"
)

// S3MirrorConfig describes the optional object-storage mirror for the
// embedded metric store's DuckDB file, mirroring the teacher's own pattern
// of shipping its DuckLake Parquet files to S3-compatible storage.
type S3MirrorConfig struct {
	AccessKey       string
	SecretAccessKey string
	Endpoint        string
	Region          string
	Bucket          string
	URLStyle        string // "path" or "vhost"
	Key             string // object key within Bucket; defaults to the basename of the mirrored file
}

type s3Mirror struct {
	client *s3.Client
	bucket string
	key    string
}

// NewS3Mirror builds a mirror target from cfg, or returns nil (no error) if
// cfg doesn't carry enough to mirror — the embedded store runs perfectly
// well without one.
func NewS3Mirror(ctx context.Context, cfg S3MirrorConfig) (*s3Mirror, error) {
	if cfg.Bucket == "" || cfg.AccessKey == "" || cfg.SecretAccessKey == "" {
		return nil, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, errs.ErrConnection("load S3 mirror credentials: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.URLStyle != "vhost"
	})

	return &s3Mirror{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// Upload mirrors the file at path to the configured bucket, run on
// DuckDBStore.Close so the embedded engine has released the file first.
func (m *s3Mirror) Upload(ctx context.Context, path string) error {
	key := m.key
	if key == "" {
		key = filepath.Base(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return errs.ErrConnection("open metric store file for S3 mirror: %v", err)
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
		Body:   f,
	})
	if err != nil {
		return errs.ErrConnection("mirror metric store to s3://%s/%s: %v", m.bucket, key, err)
	}
	return nil
}
