package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/golang/glog"
)

// Sink is a destination for an encoded image
type Sink interface {
	Write(ctx context.Context, data []byte, contentType string) error
	String() string
}

// Destination is a parsed output location
type Destination struct {
	Scheme string // "file", "gs" or "s3"
	Bucket string // Empty for files
	Path   string // File path or object key
}

// ParseDestination splits gs://bucket/object and s3://bucket/key URLs; any
// other string is a local file path
func ParseDestination(dest string) (Destination, error) {
	for _, scheme := range []string{"gs", "s3"} {
		prefix := scheme + "://"
		if !strings.HasPrefix(dest, prefix) {
			continue
		}
		bucket, key, ok := strings.Cut(strings.TrimPrefix(dest, prefix), "/")
		if !ok || bucket == "" || key == "" {
			return Destination{}, fmt.Errorf("destination %q must look like %sbucket/key", dest, prefix)
		}
		return Destination{Scheme: scheme, Bucket: bucket, Path: key}, nil
	}

	if dest == "" {
		return Destination{}, fmt.Errorf("empty destination")
	}
	return Destination{Scheme: "file", Path: dest}, nil
}

// NewSink creates the sink for dest. Cloud clients pick up credentials from
// the environment.
func NewSink(ctx context.Context, dest string) (Sink, error) {
	d, err := ParseDestination(dest)
	if err != nil {
		return nil, err
	}

	switch d.Scheme {
	case "gs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("while creating GCS client: %w", err)
		}
		return &GCSSink{client: client, bucket: d.Bucket, object: d.Path}, nil

	case "s3":
		config := &aws.Config{}
		if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
			config.Endpoint = aws.String(endpoint)
			config.S3ForcePathStyle = aws.Bool(true)
		}
		sess, err := session.NewSession(config)
		if err != nil {
			return nil, fmt.Errorf("while creating S3 session: %w", err)
		}
		return &S3Sink{client: s3.New(sess), bucket: d.Bucket, key: d.Path}, nil

	default:
		return &FileSink{Path: d.Path}, nil
	}
}

// FileSink writes to a local file, creating parent directories
type FileSink struct {
	Path string
}

func (s *FileSink) Write(ctx context.Context, data []byte, contentType string) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("while creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return fmt.Errorf("while writing %q: %w", s.Path, err)
	}
	return nil
}

func (s *FileSink) String() string { return s.Path }

// GCSSink uploads to a Google Cloud Storage object
type GCSSink struct {
	client *storage.Client
	bucket string
	object string
}

func (s *GCSSink) Write(ctx context.Context, data []byte, contentType string) error {
	w := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = contentType

	// Images are small; upload in one request
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("while writing image to object writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("while closing object writer: %w", err)
	}

	glog.Infof("Uploaded %s (%d bytes)", s, len(data))
	return nil
}

func (s *GCSSink) String() string { return "gs://" + s.bucket + "/" + s.object }

// S3Sink uploads to an S3 (or S3-compatible) object
type S3Sink struct {
	client *s3.S3
	bucket string
	key    string
}

func (s *S3Sink) Write(ctx context.Context, data []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("while uploading %s: %w", s, err)
	}

	glog.Infof("Uploaded %s (%d bytes)", s, len(data))
	return nil
}

func (s *S3Sink) String() string { return "s3://" + s.bucket + "/" + s.key }
