// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRootDir(t *testing.T) {
	tests := []struct {
		name     string
		setupDir func(t *testing.T) (root string, want string)
		wantErr  bool
		errIs    error
	}{
		{
			name: "absolute_path",
			setupDir: func(t *testing.T) (string, string) {
				dir := t.TempDir()
				return dir, dir
			},
		},
		{
			name: "relative_path",
			setupDir: func(t *testing.T) (string, string) {
				dir := t.TempDir()
				t.Chdir(filepath.Dir(dir))
				cwd, err := os.Getwd()
				require.NoError(t, err)
				return filepath.Base(dir), filepath.Join(cwd, filepath.Base(dir))
			},
		},
		{
			name: "https_root",
			setupDir: func(t *testing.T) (string, string) {
				return "https://example.org/cull/", "https://example.org/cull"
			},
		},
		{
			name: "s3_root",
			setupDir: func(t *testing.T) (string, string) {
				return "s3://bucket/case", "s3://bucket/case"
			},
		},
		{
			name: "empty",
			setupDir: func(t *testing.T) (string, string) {
				return " ", ""
			},
			wantErr: true,
			errIs:   os.ErrInvalid,
		},
		{
			name: "missing",
			setupDir: func(t *testing.T) (string, string) {
				return filepath.Join(t.TempDir(), "nope"), ""
			},
			wantErr: true,
			errIs:   os.ErrNotExist,
		},
		{
			name: "file_not_dir",
			setupDir: func(t *testing.T) (string, string) {
				p := filepath.Join(t.TempDir(), "f")
				require.NoError(t, os.WriteFile(p, nil, 0o600))
				return p, ""
			},
			wantErr: true,
			errIs:   os.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, want := tt.setupDir(t)
			got, err := ParseRootDir(root)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
