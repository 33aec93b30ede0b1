package share

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRegion        = "us-east-1"
	defaultPresignExpiry = 24 * time.Hour
	defaultConcurrency   = 4
)

// S3Config configures the bucket target. Credentials fall back to the default
// AWS chain when AccessKeyID is empty.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional; S3-compatible servers such as MinIO
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
	PresignExpiry   time.Duration
	Concurrency     int
}

// S3 uploads shared files to <prefix>/<batch uuid>/<name> and copies
// presigned download links to the clipboard.
type S3 struct {
	client      *s3.Client
	presign     *s3.PresignClient
	bucket      string
	prefix      string
	expiry      time.Duration
	concurrency int

	httpClient *http.Client
	clip       func(string) error
	newBatch   func() string
	log        *zap.Logger
}

// S3Option customizes an S3 target.
type S3Option func(*S3)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) S3Option {
	return func(s *S3) {
		if log != nil {
			s.log = log
		}
	}
}

// WithHTTPClient replaces the SDK transport.
func WithHTTPClient(c *http.Client) S3Option {
	return func(s *S3) { s.httpClient = c }
}

// WithClipboardWriter replaces the clipboard used for links.
func WithClipboardWriter(write func(string) error) S3Option {
	return func(s *S3) { s.clip = write }
}

// WithBatchID replaces the batch id generator.
func WithBatchID(fn func() string) S3Option {
	return func(s *S3) { s.newBatch = fn }
}

// NewS3 builds the bucket target.
func NewS3(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s := &S3{
		bucket:      cfg.Bucket,
		prefix:      strings.Trim(cfg.Prefix, "/"),
		expiry:      cfg.PresignExpiry,
		concurrency: cfg.Concurrency,
		clip:        clipboard.WriteAll,
		newBatch:    uuid.NewString,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.expiry <= 0 {
		s.expiry = defaultPresignExpiry
	}
	if s.concurrency <= 0 {
		s.concurrency = defaultConcurrency
	}

	s.client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// S3-compatible servers do not all accept the default trailing checksums.
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
		if s.httpClient != nil {
			o.HTTPClient = s.httpClient
		}
	})
	s.presign = s3.NewPresignClient(s.client)
	return s, nil
}

func (s *S3) Share(ctx context.Context, refs []string) error {
	if len(refs) == 0 {
		return ErrCancelled
	}
	files := localFiles(refs, s.log)
	if len(files) == 0 {
		return errors.New("no local files to share")
	}

	batch := s.newBatch()
	names := uniqueNames(files)
	keys := make([]string, len(files))
	for i := range files {
		keys[i] = path.Join(s.prefix, batch, names[i])
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, file := range files {
		g.Go(func() error { return s.upload(gctx, file, keys[i]) })
	}
	if err := g.Wait(); err != nil {
		return err
	}

	links := make([]string, 0, len(keys))
	for _, key := range keys {
		links = append(links, s.link(ctx, key))
	}
	if err := s.clip(strings.Join(links, "\n")); err != nil {
		s.log.Warn("copy share links failed", zap.Error(err))
	}
	s.log.Info("uploaded images",
		zap.String("bucket", s.bucket), zap.String("batch", batch), zap.Int("count", len(keys)))
	return nil
}

func (s *S3) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer func() { _ = f.Close() }()

	input := &s3.PutObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key), Body: f}
	if ct := mime.TypeByExtension(filepath.Ext(file)); ct != "" {
		input.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Debug("uploaded object", zap.String("key", key))
	return nil
}

// link presigns a GET for key, falling back to the s3:// address.
func (s *S3) link(ctx context.Context, key string) string {
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)},
		func(po *s3.PresignOptions) { po.Expires = s.expiry })
	if err != nil {
		s.log.Warn("presign failed", zap.String("key", key), zap.Error(err))
		return "s3://" + s.bucket + "/" + key
	}
	return out.URL
}
