// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a decode failure the way the reference DWG decoder
// tags every error it returns.
type ErrorKind int

const (
	// KindIO is a premature end-of-buffer.
	KindIO ErrorKind = iota
	// KindFormat is a structural violation: bad sentinel, impossible count,
	// negative delta, oversize section.
	KindFormat
	// KindDecode is a primitive-level impossibility: invalid opcode,
	// impossible LZ back-reference.
	KindDecode
	// KindResolve is a handle reference that cannot be bound.
	KindResolve
	// KindUnsupported is a version or feature combination this decoder does
	// not implement.
	KindUnsupported
	// KindNotImplemented is an encrypted section, a spline-edge hatch, or an
	// unknown compression mode.
	KindNotImplemented
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	case KindDecode:
		return "decode"
	case KindResolve:
		return "resolve"
	case KindUnsupported:
		return "unsupported"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// Error is a DWG decode error. It carries a kind and, when the failure
// originates in a codec, the byte offset at which it was detected.
type Error struct {
	Kind    ErrorKind
	Message string
	Offset  *uint64
}

func (e *Error) Error() string {
	if e.Offset != nil {
		return fmt.Sprintf("%s error: %s (offset %d)", e.Kind, e.Message, *e.Offset)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// NewError builds an Error with no offset attached.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// NewErrorAt builds an Error carrying the byte offset the failure was
// detected at.
func NewErrorAt(kind ErrorKind, message string, offset uint64) *Error {
	return &Error{Kind: kind, Message: message, Offset: &offset}
}

// NotImplemented is shorthand for a KindNotImplemented error.
func NotImplemented(feature string) *Error {
	return NewError(KindNotImplemented, feature+" is not implemented")
}

// Sentinel errors for fixed, parameterless failure cases, following the
// teacher's package-level errors.New convention for conditions that never
// need dynamic context.
var (
	// ErrOutsideBoundary names a read past the end of the input buffer.
	// The bit and byte readers do not return it; they report that case as
	// a KindIO *Error carrying the offset.
	ErrOutsideBoundary = errors.New("reading data outside boundary")

	// ErrUnknownVersion is reported when the six-byte header tag does not
	// match any supported dialect and the caller required a supported one.
	ErrUnknownVersion = errors.New("unrecognized or unsupported DWG version tag")

	// ErrSectionLocatorOverflow is reported when the R2000 section-locator
	// directory declares more than 64 records.
	ErrSectionLocatorOverflow = errors.New("section locator record count exceeds 64")

	// ErrSectionTooLarge is reported when a logical section's declared size
	// exceeds the configured ceiling.
	ErrSectionTooLarge = errors.New("logical section exceeds configured size ceiling")

	// ErrTooManyObjects is reported when the object map declares more
	// entries than the configured ceiling.
	ErrTooManyObjects = errors.New("object map exceeds configured object ceiling")

	// ErrHandleCounterTooLarge names a handle reference whose counter
	// nibble exceeds 4 bytes. BitReader.H does not return it; H reports
	// that case as a KindFormat *Error carrying the offset.
	ErrHandleCounterTooLarge = errors.New("handle reference counter exceeds 4 bytes")

	// ErrNegativeObjectMapDelta is reported when a running object-map sum
	// (handle or offset) goes negative.
	ErrNegativeObjectMapDelta = errors.New("object map delta sum went negative")
)

// asDwgError adapts any error into *Error: the package sentinels map to
// their own kinds, and foreign errors (I/O, etc.) become KindIO, so
// callers always see the typed surface.
func asDwgError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, ErrUnknownVersion):
		return NewError(KindUnsupported, err.Error())
	case errors.Is(err, ErrSectionLocatorOverflow), errors.Is(err, ErrSectionTooLarge),
		errors.Is(err, ErrTooManyObjects), errors.Is(err, ErrHandleCounterTooLarge),
		errors.Is(err, ErrNegativeObjectMapDelta):
		return NewError(KindFormat, err.Error())
	}
	return NewError(KindIO, err.Error())
}
