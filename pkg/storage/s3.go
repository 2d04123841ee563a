package storage

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	pkglogger "github.com/recipeinbox/backend/pkg/logger"
)

// ObjectAPI is the subset of the S3 client the image store uses
type ObjectAPI interface {
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Client wraps the AWS S3 client for S3/R2/MinIO compatible storage
type S3Client struct {
	client   ObjectAPI
	bucket   string
	cdnURL   string // optional CDN base URL
	basePath string // prefix for all objects (e.g. "images/")
}

// S3Config holds S3-compatible storage configuration
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	CDNURL          string
	BasePath        string
	ForcePathStyle  bool // true for MinIO/R2
}

// Object is a stored image
type Object struct {
	Key      string
	Location string
}

// NewS3Client creates a new S3-compatible storage client
func NewS3Client(cfg S3Config) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	opts := func(o *s3.Options) {
		o.Region = cfg.Region
		o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	}

	client := s3.New(s3.Options{}, opts)

	pkglogger.GetLogger().Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", cfg.Endpoint).
		Msg("S3 storage client initialized")

	return NewS3ClientWithAPI(client, cfg), nil
}

// NewS3ClientWithAPI builds a client around an existing ObjectAPI
func NewS3ClientWithAPI(api ObjectAPI, cfg S3Config) *S3Client {
	return &S3Client{
		client:   api,
		bucket:   cfg.Bucket,
		cdnURL:   strings.TrimRight(cfg.CDNURL, "/"),
		basePath: cfg.BasePath,
	}
}

// Duplicate copies the object behind location to a fresh key inside the bucket.
// The copy is independent of the source: deleting or replacing the source leaves it intact.
func (c *S3Client) Duplicate(ctx context.Context, location string) (*Object, error) {
	srcKey, err := c.KeyFromLocation(location)
	if err != nil {
		return nil, err
	}

	dstKey := GenerateKey(strings.TrimSuffix(c.basePath, "/"), path.Base(srcKey))

	input := &s3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		CopySource: aws.String(url.PathEscape(c.bucket + "/" + srcKey)),
		Key:        aws.String(dstKey),
	}
	if _, err := c.client.CopyObject(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 copy failed: %w", err)
	}

	return &Object{Key: dstKey, Location: c.GetCDNURL(dstKey)}, nil
}

// Delete removes a file from storage
func (c *S3Client) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}

	if _, err := c.client.DeleteObject(ctx, input); err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// KeyFromLocation extracts the object key from a CDN or S3 URL
func (c *S3Client) KeyFromLocation(location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "", fmt.Errorf("invalid image location %q", location)
	}
	key := strings.TrimPrefix(u.Path, "/")
	// path-style URLs carry the bucket as the first segment
	key = strings.TrimPrefix(key, c.bucket+"/")
	return key, nil
}

// GetCDNURL returns the CDN URL for a given key, falling back to S3 URL
func (c *S3Client) GetCDNURL(key string) string {
	if c.cdnURL != "" {
		return c.cdnURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key)
}

// GenerateKey creates a unique storage key with timestamp prefix
func GenerateKey(prefix, filename string) string {
	now := time.Now()
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	key := fmt.Sprintf("%d/%02d/%02d/%s_%d%s",
		now.Year(), now.Month(), now.Day(),
		base, now.UnixNano(), ext)
	if prefix == "" {
		return key
	}
	return prefix + "/" + key
}
