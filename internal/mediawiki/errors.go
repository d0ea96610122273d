// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mediawiki

import (
	"errors"
	"fmt"
)

// ErrMissing is returned when a page does not exist.
var ErrMissing = errors.New("page does not exist")

// APIError is a structured failure returned by the API in its "error" object.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Info)
}

// EditError is returned when the API accepted the request but did not report
// a successful edit, for example when an abuse filter or captcha intervened.
type EditError struct {
	Title  string
	Result string
	Detail string
}

func (e *EditError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("edit to %q: result %s", e.Title, e.Result)
	}
	return fmt.Sprintf("edit to %q: result %s (%s)", e.Title, e.Result, e.Detail)
}
