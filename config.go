// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "github.com/go-kratos/kratos/v2/log"

// Dialect is the decoded DWG version family.
type Dialect int

const (
	// DialectUnknown marks a six-byte tag this decoder does not recognize.
	DialectUnknown Dialect = iota
	DialectR2000
	DialectR2004
	DialectR2007
	DialectR2010
	DialectR2013
)

func (d Dialect) String() string {
	switch d {
	case DialectR2000:
		return "R2000"
	case DialectR2004:
		return "R2004"
	case DialectR2007:
		return "R2007"
	case DialectR2010:
		return "R2010"
	case DialectR2013:
		return "R2013"
	default:
		return "Unknown"
	}
}

// defaultBestEffort mirrors the reference decoder's policy: R2000, R2010
// and R2013 default to best-effort record recovery; R2004 and R2007 do not.
func defaultBestEffort() map[Dialect]bool {
	return map[Dialect]bool{
		DialectR2000: true,
		DialectR2004: false,
		DialectR2007: false,
		DialectR2010: true,
		DialectR2013: true,
	}
}

// Options configures a decode. It is an immutable value copied into each
// call, the same plain struct-of-knobs shape as the teacher's pe.Options.
type Options struct {
	// Strict turns an R2000 section-locator sentinel mismatch into a hard
	// Format error, rejects an unrecognized version tag instead of
	// recording an anomaly, and disables the object-map reachability
	// filter. CRCs are not verified in either mode.
	Strict bool

	// BestEffort overrides the default per-dialect best-effort policy. A nil
	// map uses defaultBestEffort().
	BestEffort map[Dialect]bool

	// MaxRecursion defaults to 64 when zero. No decoder reads it:
	// extended entity data is read as a flat chain.
	MaxRecursion uint32

	// MaxObjects bounds the number of entries the ObjectMap may declare.
	MaxObjects uint32

	// MaxSectionBytes bounds the declared size of any single logical
	// section before it is allocated.
	MaxSectionBytes uint64

	// Logger receives structured log output. When nil, Open/OpenBytes
	// install a stderr logger filtered at LevelError, matching the
	// teacher's pe.New default.
	Logger log.Logger
}

// DefaultOptions mirrors the reference decoder's ParseConfig::default().
func DefaultOptions() *Options {
	return &Options{
		Strict:          false,
		BestEffort:      defaultBestEffort(),
		MaxRecursion:    64,
		MaxObjects:      1_000_000,
		MaxSectionBytes: 256 * 1024 * 1024,
	}
}

func (o *Options) bestEffort(d Dialect) bool {
	if o == nil {
		return defaultBestEffort()[d]
	}
	if o.BestEffort == nil {
		return defaultBestEffort()[d]
	}
	v, ok := o.BestEffort[d]
	if !ok {
		return defaultBestEffort()[d]
	}
	return v
}

func normalizeOptions(opts *Options) *Options {
	if opts == nil {
		return DefaultOptions()
	}
	cp := *opts
	if cp.MaxRecursion == 0 {
		cp.MaxRecursion = 64
	}
	if cp.MaxObjects == 0 {
		cp.MaxObjects = 1_000_000
	}
	if cp.MaxSectionBytes == 0 {
		cp.MaxSectionBytes = 256 * 1024 * 1024
	}
	return &cp
}
