// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/source"
)

// Stage identifies which step of loading failed.
type Stage int

const (
	StageFetch Stage = iota + 1
	StageDecompress
	StageParse
)

func (s Stage) String() string {
	switch s {
	case StageFetch:
		return "fetch"
	case StageDecompress:
		return "decompress"
	case StageParse:
		return "parse"
	}
	return "unknown"
}

// LoadError is a terminal loading failure. Its message is shown in place of
// the report.
type LoadError struct {
	Stage Stage
	Err   error
}

func (e *LoadError) Error() string {
	switch e.Stage {
	case StageFetch:
		var se *source.StatusError
		if errors.As(e.Err, &se) {
			return fmt.Sprintf("Could not load diffs! Error %d", se.Code)
		}
		return fmt.Sprintf("Could not load diffs! %v", e.Err)
	case StageDecompress:
		return fmt.Sprintf("Could not decompress diffs! %v", e.Err)
	default:
		return fmt.Sprintf("Could not parse diffs! %v", e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load fetches, decompresses and parses the payload at path. Each stage runs
// only if the previous one succeeded.
func Load(ctx context.Context, f source.Fetcher, path string) ([]cci.Edit, error) {
	compressed, err := f.Fetch(ctx, path)
	if err != nil {
		log.WithError(err).Warnf("error fetching diffs from %s", path)
		return nil, &LoadError{Stage: StageFetch, Err: err}
	}

	raw, err := Inflate(compressed)
	if err != nil {
		return nil, &LoadError{Stage: StageDecompress, Err: err}
	}
	log.Debugf("inflated %s: %s -> %s", path,
		humanize.Bytes(uint64(len(compressed))), humanize.Bytes(uint64(len(raw))))

	edits, err := Parse(raw)
	if err != nil {
		return nil, &LoadError{Stage: StageParse, Err: err}
	}
	return edits, nil
}

// Inflate decompresses a zlib stream, or a gzip stream when the gzip magic
// bytes are present.
func Inflate(data []byte) ([]byte, error) {
	var (
		r   io.ReadCloser
		err error
	)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		r, err = gzip.NewReader(bytes.NewReader(data))
	} else {
		r, err = zlib.NewReader(bytes.NewReader(data))
	}
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// Parse decodes a JSON array of edits.
func Parse(raw []byte) ([]cci.Edit, error) {
	var edits []cci.Edit
	if err := json.Unmarshal(raw, &edits); err != nil {
		return nil, err
	}
	return edits, nil
}
