package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by [S3Store].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3Store implements FileStore backed by Amazon S3 or any S3-compatible
// object store (MinIO, R2, etc.).
//
// Paths map to object keys under an optional prefix. The caller configures
// the client's credentials, region and endpoint.
type S3Store struct {
	client S3Client
	bucket string
	prefix string
}

var _ FileStore = (*S3Store)(nil)

// NewS3 creates an S3-backed FileStore. Prefix is prepended to all object
// keys; pass "" for no prefix.
func NewS3(client S3Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// S3Config holds the settings for NewS3Client.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewS3Client builds an [s3.Client] from static settings. A non-empty
// Endpoint selects path-style addressing for S3-compatible services.
func NewS3Client(cfg S3Config) *s3.Client {
	opts := s3.Options{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" {
		creds := aws.Credentials{
			AccessKeyID:     cfg.AccessKey,
			SecretAccessKey: cfg.SecretKey,
			Source:          "streambuf config",
		}
		opts.Credentials = aws.NewCredentialsCache(aws.CredentialsProviderFunc(
			func(context.Context) (aws.Credentials, error) { return creds, nil },
		))
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func (s *S3Store) key(path string) (string, error) {
	p, err := cleanPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, path)
	}
	if s.prefix == "" {
		return p, nil
	}
	return s.prefix + "/" + p, nil
}

// Read opens the named object via GetObject.
func (s *S3Store) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("storage: read %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return out.Body, nil
}

// Write returns a writer that streams data to PutObject through an
// [io.Pipe]. The upload runs in a goroutine; Close waits for it and
// returns its error.
func (s *S3Store) Write(ctx context.Context, path string) (Writer, error) {
	key, err := s.key(path)
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	w := &s3Writer{pw: pw, done: make(chan struct{})}
	go func() {
		defer close(w.done)
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
			Body:   pr,
		})
		if err != nil {
			w.err = fmt.Errorf("storage: write %s: %w", path, err)
		}
		// Unblock pending writes if the upload stopped reading early.
		pr.CloseWithError(w.err)
	}()
	return w, nil
}

// Delete removes the named object. S3 already treats missing keys as
// success.
func (s *S3Store) Delete(ctx context.Context, path string) error {
	key, err := s.key(path)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete %s: %w", path, err)
	}
	return nil
}

// Exists checks the named object via HeadObject.
func (s *S3Store) Exists(ctx context.Context, path string) (bool, error) {
	key, err := s.key(path)
	if err != nil {
		return false, err
	}
	_, err = s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat %s: %w", path, err)
	}
	return true, nil
}

type s3Writer struct {
	pw   *io.PipeWriter
	done chan struct{}
	err  error
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *s3Writer) Close() error {
	w.pw.Close()
	<-w.done
	return w.err
}

// Abort fails the body of the pending PutObject so the upload is rejected
// and the previous object stays in place.
func (w *s3Writer) Abort(err error) error {
	if err == nil {
		err = ErrAborted
	}
	w.pw.CloseWithError(err)
	<-w.done
	return nil
}

func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
