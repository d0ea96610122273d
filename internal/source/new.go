// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"net/http"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	awsx "github.com/ccitool/ccitool/internal/aws"
	"github.com/ccitool/ccitool/internal/cacheutil"
)

// Options configures New.
type Options struct {
	// Cache stores remote payloads on disk; CacheHours is the purge age.
	Cache      bool
	CacheHours int

	AWSProfile string
	AWSRegion  string
	// PathStyle selects path-style S3 addressing for S3-compatible stores.
	PathStyle bool

	HTTPClient *http.Client
}

// New returns a Router for local, HTTP(S) and S3 payloads.
func New(opts Options) *Router {
	r := &Router{
		File: File{},
		HTTP: HTTP{Client: opts.HTTPClient},
	}

	cache := opts.Cache && cacheutil.Enabled()
	if cache {
		r.HTTP = Cached{Next: r.HTTP, Hours: opts.CacheHours}
	}

	r.NewS3 = func(ctx context.Context) (Fetcher, error) {
		var cfgOpts []awsx.Option
		if opts.AWSProfile != "" {
			cfgOpts = append(cfgOpts, awsx.WithProfile(opts.AWSProfile))
		}
		if opts.AWSRegion != "" {
			cfgOpts = append(cfgOpts, awsx.WithRegion(opts.AWSRegion))
		}
		cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}

		var s3Opts []func(*s3v2.Options)
		if opts.PathStyle {
			s3Opts = append(s3Opts, awsx.WithPathStyle())
		}

		var f Fetcher = S3{Client: awsx.NewS3(cfg, s3Opts...)}
		if cache {
			f = Cached{Next: f, Hours: opts.CacheHours}
		}
		return f, nil
	}

	return r
}
