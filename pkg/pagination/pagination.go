// Copyright (c) 2026 Conduit. All rights reserved.

// Package pagination parses and clamps limit/offset query parameters.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is used when the client omits a limit.
	DefaultLimit = 20

	// DefaultCommentLimit is the default page size for comment listings.
	DefaultCommentLimit = 10

	// MaxLimit caps the page size a client may request.
	MaxLimit = 50
)

// Params is a validated limit/offset pair.
type Params struct {
	Limit  int
	Offset int
}

// Page derives the 1-based page number from the offset. Offsets that do
// not fall on a page boundary are attributed to the page they land in.
func (p Params) Page() int {
	if p.Limit <= 0 {
		return 1
	}
	return p.Offset/p.Limit + 1
}

// FromRequest reads "limit" and "offset" from the query string,
// falling back to defaultLimit and clamping out-of-range values.
func FromRequest(r *http.Request, defaultLimit int) Params {
	p := Params{Limit: defaultLimit}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Limit = v
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			p.Offset = v
		}
	}

	return p
}
