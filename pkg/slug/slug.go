// Copyright (c) 2026 Conduit. All rights reserved.

// Package slug converts arbitrary titles into URL-safe identifiers.
package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// From normalizes s into a lowercase hyphen-separated slug. Diacritics
// are stripped and any run of non-alphanumeric characters collapses
// into a single hyphen.
func From(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, s)
	if err != nil {
		normalized = s
	}

	var b strings.Builder
	b.Grow(len(normalized))
	prevHyphen := true
	for _, r := range strings.ToLower(normalized) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.Trim(b.String(), "-")
}

// WithSuffix appends the millisecond timestamp of t to the slug of s.
// The suffix keeps slugs unique across articles that share a title.
func WithSuffix(s string, t time.Time) string {
	base := From(s)
	suffix := strconv.FormatInt(t.UnixMilli(), 10)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
