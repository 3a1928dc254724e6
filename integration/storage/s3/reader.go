package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// URIScheme prefixes object locations accepted by Reader.
const URIScheme = "s3://"

const defaultMaxObjectSize int64 = 5 << 20

// S3Client defines the S3 operations used by Reader.
type S3Client interface {
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
}

// Reader fetches whole objects by s3://bucket/key location.
type Reader struct {
	client  S3Client
	maxSize int64
}

// Option configures the reader.
type Option func(*options)

type options struct {
	httpClient      *http.Client
	s3Client        S3Client
	s3ConfigOptions []func(*config.LoadOptions) error
	s3ClientOptions []func(*s3aws.Options)
}

// WithS3Client sets a pre-configured S3 client. Mainly used with mocks.
func WithS3Client(client S3Client) Option {
	return func(o *options) {
		o.s3Client = client
	}
}

// WithHTTPClient sets a custom HTTP client for S3 requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithS3ConfigOption adds a custom AWS config option.
func WithS3ConfigOption(option func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.s3ConfigOptions = append(o.s3ConfigOptions, option)
	}
}

// WithS3ClientOption adds a custom S3 client option.
func WithS3ClientOption(option func(*s3aws.Options)) Option {
	return func(o *options) {
		o.s3ClientOptions = append(o.s3ClientOptions, option)
	}
}

// New creates a Reader. The AWS config is only loaded when no client is
// injected through WithS3Client.
func New(ctx context.Context, cfg Config, opts ...Option) (*Reader, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrInvalidConfig)
	}
	if cfg.MaxObjectSize < 0 {
		return nil, fmt.Errorf("%w: max object size must not be negative", ErrInvalidConfig)
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	maxSize := cfg.MaxObjectSize
	if maxSize == 0 {
		maxSize = defaultMaxObjectSize
	}

	if o.s3Client != nil {
		return &Reader{client: o.s3Client, maxSize: maxSize}, nil
	}

	awsOptions := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretKey,
				"",
			)),
		)
	}
	if o.httpClient != nil {
		awsOptions = append(awsOptions, config.WithHTTPClient(o.httpClient))
	}
	awsOptions = append(awsOptions, o.s3ConfigOptions...)

	awsConfig, err := config.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, fmt.Errorf("failed to load AWS config: %w", err))
	}

	client := s3aws.NewFromConfig(awsConfig, func(so *s3aws.Options) {
		if cfg.Endpoint != "" {
			so.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		so.UsePathStyle = cfg.ForcePathStyle
		for _, opt := range o.s3ClientOptions {
			opt(so)
		}
	})

	return &Reader{client: client, maxSize: maxSize}, nil
}

// IsURI reports whether s looks like an s3:// location.
func IsURI(s string) bool {
	return strings.HasPrefix(s, URIScheme)
}

// ParseURI splits s3://bucket/key into its bucket and key.
func ParseURI(uri string) (bucket, key string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	bucket, key, ok := strings.Cut(strings.TrimPrefix(uri, URIScheme), "/")
	if !ok || bucket == "" || key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidURI, uri)
	}
	return bucket, key, nil
}

// Read downloads the object at uri. Objects larger than the configured
// maximum are rejected with ErrObjectTooLarge.
func (r *Reader) Read(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetObject(ctx, &s3aws.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyS3Error(err, "get")
	}
	defer func() { _ = out.Body.Close() }()

	if out.ContentLength != nil && *out.ContentLength > r.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, uri, *out.ContentLength)
	}

	data, err := io.ReadAll(io.LimitReader(out.Body, r.maxSize+1))
	if err != nil {
		return nil, classifyS3Error(err, "read")
	}
	if int64(len(data)) > r.maxSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrObjectTooLarge, uri, r.maxSize)
	}
	return data, nil
}
