// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package submit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ccitool/ccitool/internal/cci"
	"github.com/ccitool/ccitool/internal/log"
	"github.com/ccitool/ccitool/internal/mediawiki"
)

// Editor applies one edit. *mediawiki.Client satisfies it.
type Editor interface {
	Edit(ctx context.Context, req mediawiki.EditRequest) (*mediawiki.EditResult, error)
}

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string)
}

// WriterNotifier prints each message on its own line.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}

// Status is the fate of one edit file.
type Status int

const (
	// Skipped records lack a required field.
	Skipped Status = iota
	// Invalid files could not be read or parsed.
	Invalid
	Saved
	Failed
	// Previewed records were diffed against the live page but not saved.
	Previewed
)

func (s Status) String() string {
	switch s {
	case Skipped:
		return "skipped"
	case Invalid:
		return "invalid"
	case Saved:
		return "saved"
	case Failed:
		return "failed"
	case Previewed:
		return "previewed"
	}
	return "unknown"
}

// Outcome reports what happened to one file.
type Outcome struct {
	Path   string
	Title  string
	Status Status
	Err    error
}

// Pending is a valid record waiting to be applied.
type Pending struct {
	Path   string
	Record cci.EditRecord
}

// Request builds the guarded edit for a record: no page creation, and the
// caller must be logged in.
func Request(rec cci.EditRecord) mediawiki.EditRequest {
	return mediawiki.EditRequest{
		Title:     rec.Title,
		Text:      rec.Content,
		Summary:   rec.Summary,
		BaseRevID: rec.RevID,
		NoCreate:  true,
		Assert:    "user",
	}
}

// Submitter reads edit files and applies them.
type Submitter struct {
	Editor   Editor
	Notifier Notifier
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Submit prepares and applies every file in paths. Outcomes are returned in
// input order for skipped and invalid files first, then applied ones.
func (s *Submitter) Submit(ctx context.Context, paths []string) []Outcome {
	pending, outcomes := s.Prepare(paths)
	return append(outcomes, s.Apply(ctx, pending)...)
}

// Prepare reads and decodes each file. Valid records are returned as pending;
// everything else is reported as an outcome.
func (s *Submitter) Prepare(paths []string) ([]Pending, []Outcome) {
	readFile := s.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	var pending []Pending
	var outcomes []Outcome
	for _, path := range paths {
		raw, err := readFile(path)
		if err != nil {
			log.WithError(err).Errorf("failed to read %s", path)
			outcomes = append(outcomes, Outcome{Path: path, Status: Invalid, Err: err})
			continue
		}

		rec, ok, err := Decode(raw)
		if err != nil {
			log.WithError(err).Errorf("failed to parse %s", path)
			outcomes = append(outcomes, Outcome{Path: path, Status: Invalid, Err: err})
			continue
		}
		if !ok {
			log.Debugf("skipping %s: incomplete edit record", path)
			outcomes = append(outcomes, Outcome{Path: path, Status: Skipped})
			continue
		}

		pending = append(pending, Pending{Path: path, Record: rec})
	}
	return pending, outcomes
}

// Apply submits each pending record once, notifying the user of the result.
func (s *Submitter) Apply(ctx context.Context, pending []Pending) []Outcome {
	outcomes := make([]Outcome, 0, len(pending))
	for _, p := range pending {
		outcomes = append(outcomes, s.apply(ctx, p))
	}
	return outcomes
}

func (s *Submitter) apply(ctx context.Context, p Pending) Outcome {
	title := p.Record.Title
	out := Outcome{Path: p.Path, Title: title}

	res, err := s.Editor.Edit(ctx, Request(p.Record))
	if err != nil {
		log.WithField("title", title).WithError(err).Error("Error while saving")
		s.notify(fmt.Sprintf("Couldn't save [[%s]]", title))
		out.Status = Failed
		out.Err = err
		return out
	}

	if res != nil && res.NoChange {
		log.Infof("edit to %s made no change", title)
	}
	s.notify(fmt.Sprintf("Edit to [[%s]] saved", title))
	out.Status = Saved
	return out
}

func (s *Submitter) notify(msg string) {
	if s.Notifier != nil {
		s.Notifier.Notify(msg)
	}
}

// Failures counts outcomes that should make the run exit non-zero: invalid
// files and rejected edits. Skipped records are not failures.
func Failures(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status == Invalid || o.Status == Failed {
			n++
		}
	}
	return n
}
