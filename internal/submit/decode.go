// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package submit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ccitool/ccitool/internal/cci"
)

// requiredFields must all be present and truthy for a record to be applied.
var requiredFields = []string{"title", "content", "summary", "revid"}

// ErrMalformed wraps JSON syntax errors and unusable field values in an edit
// file.
var ErrMalformed = errors.New("malformed edit file")

// Decode parses raw as an edit record. Malformed JSON is an error. A record
// lacking any required field returns ok=false and no error: such files are
// skipped without comment.
//
// Scalar fields are taken as text whatever their JSON type, so a numeric
// title or a quoted revid is accepted. Objects and arrays, and a revid that
// is not an integer, are malformed.
func Decode(raw []byte) (rec cci.EditRecord, ok bool, err error) {
	if !gjson.ValidBytes(raw) {
		return rec, false, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}

	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return rec, false, nil
	}
	for _, field := range requiredFields {
		if !truthy(doc.Get(field)) {
			return rec, false, nil
		}
	}

	for field, dst := range map[string]*string{
		"title":   &rec.Title,
		"content": &rec.Content,
		"summary": &rec.Summary,
	} {
		r := doc.Get(field)
		if r.Type == gjson.JSON {
			return rec, false, fmt.Errorf("%w: %s must be text", ErrMalformed, field)
		}
		*dst = r.String()
	}

	rec.RevID, err = revID(doc.Get("revid"))
	if err != nil {
		return rec, false, err
	}
	return rec, true, nil
}

// revID accepts an integral number or a string holding one.
func revID(r gjson.Result) (int64, error) {
	text := strings.TrimSpace(r.String())
	if r.Type == gjson.Number {
		text = r.Raw
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: revid must be a positive integer, got %s", ErrMalformed, r.Raw)
	}
	return id, nil
}

// truthy follows the scripting notion of truth the edit files were written
// against: empty strings, zero, false and null are all absent.
func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
