// Copyright (c) 2026 Conduit. All rights reserved.

// Package pointer provides small helpers for optional values.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Fallback dereferences p, returning def when p is nil.
func Fallback[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
