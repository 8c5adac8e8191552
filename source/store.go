// SPDX-License-Identifier: MIT

package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/katalvlaran/lvcorr/table"
)

// Location schemes understood by Loader.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeMinio = "minio"
	SchemeSQL   = "sql"
)

// ObjectStore fetches a whole object by bucket and key.
type ObjectStore interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// S3Store reads objects from Amazon S3 (or an S3-compatible endpoint).
type S3Store struct {
	client     *s3.Client
	downloader *manager.Downloader
}

// NewS3Store wraps an existing client.
func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{client: client, downloader: manager.NewDownloader(client)}
}

// DialS3 builds an S3Store from the default AWS credential chain. An empty region keeps
// the chain's region; a non-empty endpoint switches to path-style addressing against it.
func DialS3(ctx context.Context, region, endpoint string) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("source: aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3Store(client), nil
}

// Fetch downloads bucket/key with the concurrent range downloader.
func (s *S3Store) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)
	_, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("source: s3://%s/%s: %w", bucket, key, err)
	}
	return buf.Bytes(), nil
}

// MinioStore reads objects from a MinIO server.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore wraps an existing client.
func NewMinioStore(client *minio.Client) *MinioStore {
	return &MinioStore{client: client}
}

// DialMinio creates a client for endpoint with static credentials. No request is made.
func DialMinio(endpoint, accessKey, secretKey string, secure bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("source: minio: %w", err)
	}
	return NewMinioStore(client), nil
}

// Fetch reads bucket/key in full.
func (s *MinioStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("source: minio://%s/%s: %w", bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("source: minio://%s/%s: %w", bucket, key, err)
	}
	return data, nil
}

// Location is a parsed dataset address.
type Location struct {
	Scheme string // SchemeFile, SchemeS3, SchemeMinio or another registered scheme
	Bucket string // empty for files
	Key    string // object key or file path
}

// ParseLocation splits loc into scheme, bucket and key. "sql:<query>" keeps the query in Key;
// other strings without "://" are file paths.
func ParseLocation(loc string) (Location, error) {
	if q, ok := strings.CutPrefix(loc, SchemeSQL+":"); ok {
		if q = strings.TrimSpace(q); q == "" {
			return Location{}, fmt.Errorf("source: %q: %w", loc, ErrInvalidLocation)
		}
		return Location{Scheme: SchemeSQL, Key: q}, nil
	}
	if !strings.Contains(loc, "://") {
		if loc == "" {
			return Location{}, fmt.Errorf("source: %q: %w", loc, ErrInvalidLocation)
		}
		return Location{Scheme: SchemeFile, Key: loc}, nil
	}
	u, err := url.Parse(loc)
	if err != nil {
		return Location{}, fmt.Errorf("source: %q: %w", loc, ErrInvalidLocation)
	}
	if u.Scheme == SchemeFile {
		if u.Path == "" {
			return Location{}, fmt.Errorf("source: %q: %w", loc, ErrInvalidLocation)
		}
		return Location{Scheme: SchemeFile, Key: u.Path}, nil
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Host == "" || key == "" {
		return Location{}, fmt.Errorf("source: %q: %w", loc, ErrInvalidLocation)
	}
	return Location{Scheme: u.Scheme, Bucket: u.Host, Key: key}, nil
}

// Loader resolves dataset locations to tables. The zero value loads local files only.
type Loader struct {
	// DB answers "sql:" locations; nil leaves the scheme unregistered.
	DB Querier

	stores map[string]ObjectStore
}

// Register binds scheme to store, replacing any previous binding.
func (l *Loader) Register(scheme string, store ObjectStore) {
	if l.stores == nil {
		l.stores = make(map[string]ObjectStore)
	}
	l.stores[scheme] = store
}

// Load reads the table at loc. Object names follow the same suffix rules as ReadFile.
// Errors: ErrInvalidLocation, ErrUnknownScheme, plus fetch and parse errors.
func (l *Loader) Load(ctx context.Context, loc string, opts ...Option) (*table.Table, error) {
	at, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}
	switch {
	case at.Scheme == SchemeFile:
		return ReadFile(at.Key, opts...)
	case at.Scheme == SchemeSQL && l.DB != nil:
		return QueryTable(ctx, l.DB, at.Key, nil, opts...)
	}
	store, ok := l.stores[at.Scheme]
	if !ok {
		return nil, fmt.Errorf("source: %q: %w", at.Scheme, ErrUnknownScheme)
	}
	data, err := store.Fetch(ctx, at.Bucket, at.Key)
	if err != nil {
		return nil, err
	}
	return readNamed(at.Key, bytes.NewReader(data), opts...)
}
