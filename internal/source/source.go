// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"sync"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-cleanhttp"

	"github.com/ccitool/ccitool/internal/cacheutil"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/version"
)

// Fetcher returns the raw bytes stored at path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, path string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, path string) ([]byte, error) {
	return f(ctx, path)
}

// StatusError reports a non-success response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.Path, e.Code)
}

// Scheme classifies a payload path.
func Scheme(path string) string {
	switch {
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"):
		return "http"
	case strings.HasPrefix(path, "s3://"):
		return "s3"
	default:
		return "file"
	}
}

// File reads local paths.
type File struct{}

func (File) Fetch(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &StatusError{Path: path, Code: http.StatusNotFound}
	}
	if errors.Is(err, fs.ErrPermission) {
		return nil, &StatusError{Path: path, Code: http.StatusForbidden}
	}
	return data, err
}

// HTTP fetches http and https URLs with a plain GET.
type HTTP struct {
	Client *http.Client
}

func (h HTTP) Fetch(ctx context.Context, path string) ([]byte, error) {
	client := h.Client
	if client == nil {
		client = cleanhttp.DefaultClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("fetch %s: status %d", path, resp.StatusCode)
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

// S3API is the subset of the S3 client used here.
type S3API interface {
	GetObject(ctx context.Context, in *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// S3 fetches s3://bucket/key objects.
type S3 struct {
	Client S3API
}

func (s S3) Fetch(ctx context.Context, path string) ([]byte, error) {
	bucket, key, err := ParseS3(path)
	if err != nil {
		return nil, err
	}

	result, err := s.Client.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, &StatusError{Path: path, Code: http.StatusNotFound}
		}
		var re *awshttp.ResponseError
		if errors.As(err, &re) && re.HTTPStatusCode() != 0 {
			return nil, &StatusError{Path: path, Code: re.HTTPStatusCode()}
		}
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

// ParseS3 splits s3://bucket/key.
func ParseS3(path string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", fmt.Errorf("not an s3 path: %s", path)
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 path needs a bucket and key: %s", path)
	}
	return bucket, key, nil
}

// Cached serves remote payloads from the on-disk cache and fills it on a
// miss. Only successful fetches are stored.
type Cached struct {
	Next Fetcher
	// Hours is the purge age; entries older than this are dropped before each
	// fetch. Zero disables purging.
	Hours int
}

var cacheSubdirs = []string{"payloads"}

func (c Cached) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := cacheutil.Purge(c.Hours); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if entry, ok := cacheutil.Read(cacheSubdirs, path); ok {
		return entry.Data, nil
	}

	data, err := c.Next.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := cacheutil.Write(cacheSubdirs, path, data); err != nil {
		log.WithError(err).Warn("failed to write payload to cache")
	}
	return data, nil
}

// Router dispatches on the path scheme.
type Router struct {
	File Fetcher
	HTTP Fetcher
	S3   Fetcher

	// NewS3 builds the S3 fetcher on first use so AWS configuration is only
	// loaded when an s3:// path is requested.
	NewS3 func(ctx context.Context) (Fetcher, error)

	once  sync.Once
	s3err error
}

func (r *Router) Fetch(ctx context.Context, path string) ([]byte, error) {
	var (
		f   Fetcher
		err error
	)
	switch Scheme(path) {
	case "http":
		f = r.HTTP
	case "s3":
		f, err = r.s3(ctx)
	default:
		f = r.File
	}
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", path)
	}

	data, err := f.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Debugf("fetched %s: %s", path, humanize.Bytes(uint64(len(data))))
	return data, nil
}

func (r *Router) s3(ctx context.Context) (Fetcher, error) {
	r.once.Do(func() {
		if r.S3 != nil || r.NewS3 == nil {
			return
		}
		r.S3, r.s3err = r.NewS3(ctx)
	})
	return r.S3, r.s3err
}
