// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "math"

// catmullRomSpline interpolates a centripetal Catmull-Rom curve through
// points, producing segmentsPerSpan additional points per span. Used to
// materialize a smooth curve for POLYLINE_2D entities flagged curve-fit
// or spline-fit, and for SPLINE entities that only carry fit points.
func catmullRomSpline(points []Vec3, closed bool, segmentsPerSpan int) []Vec3 {
	if len(points) < 2 {
		out := make([]Vec3, len(points))
		copy(out, points)
		return out
	}

	segments := segmentsPerSpan
	if segments < 1 {
		segments = 1
	}
	const alpha = 0.5

	n := len(points)
	segmentCount := n - 1
	if closed {
		segmentCount = n
	}

	var out []Vec3
	for i := 0; i < segmentCount; i++ {
		var p0 Vec3
		if closed {
			p0 = points[(i+n-1)%n]
		} else if i == 0 {
			p0 = points[0]
		} else {
			p0 = points[i-1]
		}
		p1 := points[i%n]
		p2 := points[(i+1)%n]
		var p3 Vec3
		if closed {
			p3 = points[(i+2)%n]
		} else if i+2 < n {
			p3 = points[i+2]
		} else {
			p3 = points[n-1]
		}

		t0 := 0.0
		t1 := tj(t0, p0, p1, alpha)
		t2 := tj(t1, p1, p2, alpha)
		t3 := tj(t2, p2, p3, alpha)

		for s := 0; s <= segments; s++ {
			if i > 0 && s == 0 {
				continue
			}
			u := float64(s) / float64(segments)
			t := t1 + (t2-t1)*u
			out = append(out, catmullRomPoint(p0, p1, p2, p3, t0, t1, t2, t3, t))
		}
	}

	if closed && len(out) > 0 {
		first := out[0]
		last := out[len(out)-1]
		if !pointsEqual(first, last) {
			out = append(out, first)
		}
	}

	return out
}

func tj(ti float64, p0, p1 Vec3, alpha float64) float64 {
	return ti + math.Pow(distance(p0, p1), alpha)
}

func distance(a, b Vec3) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func catmullRomPoint(p0, p1, p2, p3 Vec3, t0, t1, t2, t3, t float64) Vec3 {
	a1 := lerpPoint(p0, p1, t0, t1, t)
	a2 := lerpPoint(p1, p2, t1, t2, t)
	a3 := lerpPoint(p2, p3, t2, t3, t)

	b1 := lerpPoint(a1, a2, t0, t2, t)
	b2 := lerpPoint(a2, a3, t1, t3, t)

	return lerpPoint(b1, b2, t1, t2, t)
}

func lerpPoint(p0, p1 Vec3, t0, t1, t float64) Vec3 {
	if math.Abs(t1-t0) < 1e-12 {
		return p0
	}
	w0 := (t1 - t) / (t1 - t0)
	w1 := (t - t0) / (t1 - t0)
	return Vec3{
		X: w0*p0.X + w1*p1.X,
		Y: w0*p0.Y + w1*p1.Y,
		Z: w0*p0.Z + w1*p1.Z,
	}
}

func pointsEqual(a, b Vec3) bool {
	const eps = 1e-9
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

// FittedCurve returns a Catmull-Rom smoothed version of a POLYLINE_2D's
// vertex positions when it is flagged curve-fit or spline-fit, or nil
// otherwise. Vertex positions are supplied by the caller since they are
// decoded from separately-referenced VERTEX_2D records, not inline.
func (p *Polyline2DEntity) FittedCurve(vertices []Vec3) []Vec3 {
	if !p.FlagsInfo.CurveFit && !p.FlagsInfo.SplineFit {
		return nil
	}
	return catmullRomSpline(vertices, p.FlagsInfo.Closed, 8)
}

// FittedCurve returns a Catmull-Rom smoothed curve through a SPLINE's
// fit points, when it was decoded from the fit-point branch.
func (s *SplineEntity) FittedCurve(segmentsPerSpan int) []Vec3 {
	if !s.HasFitPoints {
		return nil
	}
	return catmullRomSpline(s.FitPoints, s.Closed, segmentsPerSpan)
}
