// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ccitool/ccitool/internal/source"
)

// ParseRootDir normalizes a payload root. Remote roots (http(s) and s3) are
// returned with any trailing slash removed. Local roots are made absolute and
// must name an existing directory.
func ParseRootDir(rootDir string) (string, error) {
	if strings.TrimSpace(rootDir) == "" {
		return "", os.ErrInvalid
	}

	if source.Scheme(rootDir) != "file" {
		return strings.TrimRight(rootDir, "/"), nil
	}

	// Now determine if the root directory is absolute or relative. If it is
	// relative, make it absolute.
	dir := rootDir
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(cwd, dir)
	}

	// If the rootDir is not a directory, return an error.
	if r, err := os.Stat(dir); err != nil {
		return "", err
	} else if !r.IsDir() {
		return "", os.ErrInvalid
	}

	return dir, nil
}
