// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "math"

// valueScore buckets the magnitude of a decoded float and penalizes values
// that sit outside the range real drawing data occupies. Exposed as its own
// function, rather than inlined, so that a test can pin the exact score a
// given layout variant produces.
func valueScore(v float64) uint64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1_000_000
	}
	abs := math.Abs(v)
	switch {
	case abs <= 1_000_000.0:
		return 0
	case abs <= 1_000_000_000.0:
		return 10
	case abs <= 1_000_000_000_000.0:
		return 100
	case abs <= 1.0e18:
		return 1_000
	case abs <= 1.0e24:
		return 10_000
	default:
		return 1_000_000
	}
}

// angleScore is value_score's counterpart for rotation/direction fields,
// which in practice stay within a much tighter range than generic lengths.
func angleScore(v float64) uint64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 1_000_000
	}
	abs := math.Abs(v)
	switch {
	case abs <= 1_000.0:
		return 0
	case abs <= 1_000_000.0:
		return 25
	case abs <= 1_000_000_000_000.0:
		return 250
	default:
		return 1_000_000
	}
}

func pointScore(p Vec3) uint64 {
	return valueScore(p.X) + valueScore(p.Y) + valueScore(p.Z)
}

func extrusionScore(e Vec3) uint64 {
	if math.IsNaN(e.X) || math.IsNaN(e.Y) || math.IsNaN(e.Z) ||
		math.IsInf(e.X, 0) || math.IsInf(e.Y, 0) || math.IsInf(e.Z, 0) {
		return 1_000_000
	}
	normSq := e.X*e.X + e.Y*e.Y + e.Z*e.Z
	if normSq <= 1e-12 {
		return 50_000
	}
	norm := math.Sqrt(normSq)
	var score uint64
	normErr := math.Abs(norm - 1.0)
	switch {
	case normErr > 0.25:
		score += 25_000
	case normErr > 0.05:
		score += 2_500
	}
	if math.Abs(e.Z) < 0.5 {
		score += 250
	}
	return score
}

func scaleScore(s Vec3) uint64 {
	var score uint64
	for _, v := range []float64{s.X, s.Y, s.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 1_000_000
		}
		abs := math.Abs(v)
		switch {
		case abs < 1e-12:
			score += 2_500
		case abs > 1_000.0:
			score += 250
		}
	}
	return score
}

// pickLowestScore runs candidates through scoreFn and keeps the lowest
// scoring success; ties keep the first candidate seen. Used by every
// variant-enumeration decoder (DIM_*, LAYER, R2010 entity-layer recovery)
// so the selection policy lives in one inspectable place.
func pickLowestScore[T any](candidates []T, errs []error, scoreFn func(T) uint64) (T, error) {
	var best T
	haveBest := false
	bestScore := uint64(math.MaxUint64)
	var lastErr error
	for i, err := range errs {
		if err != nil {
			lastErr = err
			continue
		}
		score := scoreFn(candidates[i])
		if !haveBest || score < bestScore {
			best = candidates[i]
			bestScore = score
			haveBest = true
		}
	}
	if haveBest {
		return best, nil
	}
	var zero T
	if lastErr == nil {
		lastErr = NewErrorAt(KindDecode, "no candidate layout variant decoded successfully", 0)
	}
	return zero, lastErr
}
