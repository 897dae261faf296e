// Package minio archives generated diagnosis reports in S3-compatible object
// storage and serves them back through presigned URLs.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/turtacn/SME-Diagnostics/internal/config"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
)

const (
	defaultBucket        = "smedx-reports"
	defaultPresignExpiry = 1 * time.Hour

	// Objects under exports/ are ad-hoc extracts; archived reports under
	// reports/ are kept indefinitely.
	exportPrefix     = "exports/"
	exportExpiryDays = 30
)

// ObjectAPI is the subset of the MinIO client the archiver needs.  Reads go
// through GetObjectReader so tests can supply plain readers.
type ObjectAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// minioAPI adapts *minio.Client to ObjectAPI.
type minioAPI struct {
	*minio.Client
}

func (a minioAPI) GetObjectReader(ctx context.Context, bucketName, objectName string) (io.ReadCloser, error) {
	obj, err := a.GetObject(ctx, bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// GetObject is lazy; Stat forces the request so missing keys surface
	// here instead of on first read.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, err
	}
	return obj, nil
}

// Client wraps the object store with the report bucket bound.
type Client struct {
	api           ObjectAPI
	bucket        string
	presignExpiry time.Duration
	logger        logging.Logger
}

// NewClient connects to the object store, verifies connectivity, and ensures
// the report bucket exists with its lifecycle rules applied.
func NewClient(cfg config.MinIOConfig, log logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.NewValidation("minio endpoint is required")
	}
	if cfg.Bucket == "" {
		cfg.Bucket = defaultBucket
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = defaultPresignExpiry
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{
		api:           minioAPI{mc},
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		logger:        log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "failed to connect to object store")
	}
	if err := c.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	log.Info("Object store connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket),
		logging.Bool("ssl", cfg.UseSSL),
	)
	return c, nil
}

// NewClientWithAPI builds a Client over an existing API implementation.
func NewClientWithAPI(api ObjectAPI, bucket string, log logging.Logger) *Client {
	if bucket == "" {
		bucket = defaultBucket
	}
	return &Client{
		api:           api,
		bucket:        bucket,
		presignExpiry: defaultPresignExpiry,
		logger:        log,
	}
}

// Bucket returns the bound report bucket name.
func (c *Client) Bucket() string {
	return c.bucket
}

// API returns the underlying object API.
func (c *Client) API() ObjectAPI {
	return c.api
}

// EnsureBucket creates the report bucket if missing and applies the export
// expiry rule.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket existence")
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create bucket")
		}
		c.logger.Info("Created report bucket", logging.String("bucket", c.bucket))
	}

	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{
		{
			ID:     "export-cleanup",
			Status: "Enabled",
			RuleFilter: lifecycle.Filter{
				Prefix: exportPrefix,
			},
			Expiration: lifecycle.Expiration{
				Days: exportExpiryDays,
			},
		},
	}
	if err := c.api.SetBucketLifecycle(ctx, c.bucket, lc); err != nil {
		// Lifecycle support varies between S3 backends.
		c.logger.Warn("Failed to apply bucket lifecycle", logging.Err(err))
	}
	return nil
}

// HealthCheck verifies the store is reachable and the bucket is present.
func (c *Client) HealthCheck(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "object store unreachable")
	}
	if !exists {
		return errors.New(errors.ErrCodeExternalService, "report bucket missing").WithDetail(c.bucket)
	}
	return nil
}

// PresignedReportURL issues a time-limited download URL for an object.
func (c *Client) PresignedReportURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	if expiry == 0 {
		expiry = c.presignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.bucket, objectKey, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeExternalService, "failed to presign report url")
	}
	return u.String(), nil
}

//Personal.AI order the ending
