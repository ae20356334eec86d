// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "math"

// HatchPath is one boundary path of a HATCH, flattened to a point list.
// Arc and ellipse edges are tessellated; spline edges are not supported
// (NotImplemented, matching the reference decoder).
type HatchPath struct {
	Closed bool
	Points []Vec2
}

// HatchEntity is a decoded HATCH.
type HatchEntity struct {
	Handle      uint64
	LayerHandle uint64
	Name        string
	SolidFill   bool
	Associative bool
	Elevation   float64
	Extrusion   Vec3
	Paths       []HatchPath
}

func decodeHatch(r *BitReader, hdr *CommonEntityHeader, base uint64, dialect Dialect) (*HatchEntity, error) {
	hasGradient := dialect != DialectR2000
	if hasGradient {
		if err := skipGradientPayload(r); err != nil {
			return nil, err
		}
	}

	elevation, err := r.BD()
	if err != nil {
		return nil, err
	}
	extrusion, err := r.ThreeBD()
	if err != nil {
		return nil, err
	}
	name, err := r.TV()
	if err != nil {
		return nil, err
	}
	solidFillRaw, err := r.B()
	if err != nil {
		return nil, err
	}
	associativeRaw, err := r.B()
	if err != nil {
		return nil, err
	}
	solidFill := solidFillRaw != 0
	associative := associativeRaw != 0

	numPathsRaw, err := r.BL()
	if err != nil {
		return nil, err
	}
	numPaths, err := boundedCount(numPathsRaw, "hatch paths")
	if err != nil {
		return nil, err
	}

	paths := make([]HatchPath, 0, numPaths)
	anyPixelSize := false

	for i := 0; i < numPaths; i++ {
		pathFlag, err := r.BL()
		if err != nil {
			return nil, err
		}
		if pathFlag&0x04 != 0 {
			anyPixelSize = true
		}

		if pathFlag&0x02 == 0 {
			numSegRaw, err := r.BL()
			if err != nil {
				return nil, err
			}
			numSegments, err := boundedCount(numSegRaw, "hatch edge path segments")
			if err != nil {
				return nil, err
			}
			var pathPoints []Vec2
			for s := 0; s < numSegments; s++ {
				segType, err := r.RC()
				if err != nil {
					return nil, err
				}
				switch segType {
				case 1:
					start, err := readPoint2RD(r)
					if err != nil {
						return nil, err
					}
					end, err := readPoint2RD(r)
					if err != nil {
						return nil, err
					}
					appendSegmentPoints(&pathPoints, []Vec2{start, end})
				case 2:
					center, err := readPoint2RD(r)
					if err != nil {
						return nil, err
					}
					radius, err := r.BD()
					if err != nil {
						return nil, err
					}
					startAngle, err := r.BD()
					if err != nil {
						return nil, err
					}
					endAngle, err := r.BD()
					if err != nil {
						return nil, err
					}
					ccwRaw, err := r.B()
					if err != nil {
						return nil, err
					}
					seg := circularArcPoints(center, radius, startAngle, endAngle, ccwRaw != 0, 64)
					appendSegmentPoints(&pathPoints, seg)
				case 3:
					center, err := readPoint2RD(r)
					if err != nil {
						return nil, err
					}
					majorEnd, err := readPoint2RD(r)
					if err != nil {
						return nil, err
					}
					ratio, err := r.BD()
					if err != nil {
						return nil, err
					}
					startAngle, err := r.BD()
					if err != nil {
						return nil, err
					}
					endAngle, err := r.BD()
					if err != nil {
						return nil, err
					}
					ccwRaw, err := r.B()
					if err != nil {
						return nil, err
					}
					seg := ellipticalArcPoints(center, majorEnd, ratio, startAngle, endAngle, ccwRaw != 0, 96)
					appendSegmentPoints(&pathPoints, seg)
				case 4:
					return nil, NotImplemented("HATCH spline edge")
				default:
					return nil, NewErrorAt(KindFormat, "unsupported HATCH edge segment type", r.BitOffset())
				}
			}
			if _, err := r.BL(); err != nil { // boundary obj handle count
				return nil, err
			}
			closePathIfNeeded(&pathPoints)
			paths = append(paths, HatchPath{Closed: true, Points: pathPoints})
			continue
		}

		bulgesPresentRaw, err := r.B()
		if err != nil {
			return nil, err
		}
		closedRaw, err := r.B()
		if err != nil {
			return nil, err
		}
		bulgesPresent := bulgesPresentRaw != 0
		closed := closedRaw != 0

		numVertsRaw, err := r.BL()
		if err != nil {
			return nil, err
		}
		numVertices, err := boundedCount(numVertsRaw, "hatch polyline vertices")
		if err != nil {
			return nil, err
		}

		vertices := make([]Vec2, 0, numVertices)
		bulges := make([]float64, 0, numVertices)
		for v := 0; v < numVertices; v++ {
			p, err := readPoint2RD(r)
			if err != nil {
				return nil, err
			}
			vertices = append(vertices, p)
			if bulgesPresent {
				b, err := r.BD()
				if err != nil {
					return nil, err
				}
				bulges = append(bulges, b)
			}
		}
		if _, err := r.BL(); err != nil { // boundary obj handle count
			return nil, err
		}

		var points []Vec2
		if bulgesPresent {
			points = polylineWithBulgesPoints(vertices, bulges, closed, 64)
		} else {
			points = vertices
		}
		if closed {
			closePathIfNeeded(&points)
		}
		paths = append(paths, HatchPath{Closed: closed, Points: points})
	}

	if err := skipHatchDefinitionPayload(r, solidFill, anyPixelSize); err != nil {
		if de, ok := err.(*Error); !ok || (de.Kind != KindFormat && de.Kind != KindDecode && de.Kind != KindIO) {
			return nil, err
		}
	}

	r.SeekBits(hdr.ObjSize)
	handlesPos := r.Pos()
	var layerHandle uint64
	handles, err := readCommonEntityHandles(r, hdr, base)
	if err == nil {
		layerHandle = handles.Layer
	} else {
		r.SetPos(handlesPos)
		layerHandle, _ = readEntityLayerHandle(r, hdr, base)
	}

	return &HatchEntity{
		Handle: hdr.Handle, LayerHandle: layerHandle, Name: name,
		SolidFill: solidFill, Associative: associative,
		Elevation: elevation, Extrusion: extrusion, Paths: paths,
	}, nil
}

func skipGradientPayload(r *BitReader) error {
	if _, err := r.BL(); err != nil {
		return err
	}
	if _, err := r.BL(); err != nil {
		return err
	}
	if _, err := r.BD(); err != nil {
		return err
	}
	if _, err := r.BD(); err != nil {
		return err
	}
	if _, err := r.BL(); err != nil {
		return err
	}
	if _, err := r.BD(); err != nil {
		return err
	}
	numColorsRaw, err := r.BL()
	if err != nil {
		return err
	}
	numColors, err := boundedCount(numColorsRaw, "hatch gradient colors")
	if err != nil {
		return err
	}
	for i := 0; i < numColors; i++ {
		if _, err := r.BD(); err != nil {
			return err
		}
		if _, err := r.BS(); err != nil {
			return err
		}
		if _, err := r.BL(); err != nil {
			return err
		}
		if _, err := r.RC(); err != nil {
			return err
		}
	}
	if _, err := r.TV(); err != nil {
		return err
	}
	return nil
}

func skipHatchDefinitionPayload(r *BitReader, solidFill, anyPixelSize bool) error {
	if _, err := r.BS(); err != nil {
		return err
	}
	if _, err := r.BS(); err != nil {
		return err
	}

	if !solidFill {
		if _, err := r.BD(); err != nil {
			return err
		}
		if _, err := r.BD(); err != nil {
			return err
		}
		if _, err := r.B(); err != nil {
			return err
		}
		numDefLinesRaw, err := r.BS()
		if err != nil {
			return err
		}
		numDefLines, err := boundedCount(uint32(numDefLinesRaw), "hatch pattern definition lines")
		if err != nil {
			return err
		}
		for i := 0; i < numDefLines; i++ {
			if _, err := r.BD(); err != nil {
				return err
			}
			if _, err := r.BD(); err != nil {
				return err
			}
			if _, err := r.BD(); err != nil {
				return err
			}
			if _, err := r.BD(); err != nil {
				return err
			}
			if _, err := r.BD(); err != nil {
				return err
			}
			numDashesRaw, err := r.BS()
			if err != nil {
				return err
			}
			numDashes, err := boundedCount(uint32(numDashesRaw), "hatch pattern dashes")
			if err != nil {
				return err
			}
			for d := 0; d < numDashes; d++ {
				if _, err := r.BD(); err != nil {
					return err
				}
			}
		}
	}

	if anyPixelSize {
		if _, err := r.BD(); err != nil {
			return err
		}
		numSeedRaw, err := r.BL()
		if err != nil {
			return err
		}
		numSeed, err := boundedCount(numSeedRaw, "hatch seed points")
		if err != nil {
			return err
		}
		for i := 0; i < numSeed; i++ {
			if _, err := readPoint2RD(r); err != nil {
				return err
			}
		}
	}

	return nil
}

func readPoint2RD(r *BitReader) (Vec2, error) {
	x, err := r.RD(LittleEndian)
	if err != nil {
		return Vec2{}, err
	}
	y, err := r.RD(LittleEndian)
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{X: x, Y: y}, nil
}

func appendSegmentPoints(points *[]Vec2, segment []Vec2) {
	if len(segment) == 0 {
		return
	}
	if len(*points) == 0 {
		*points = append(*points, segment...)
		return
	}
	start := 0
	if points2Equal((*points)[len(*points)-1], segment[0]) {
		start = 1
	}
	*points = append(*points, segment[start:]...)
}

func closePathIfNeeded(points *[]Vec2) {
	if len(*points) <= 1 {
		return
	}
	first := (*points)[0]
	last := (*points)[len(*points)-1]
	if !points2Equal(first, last) {
		*points = append(*points, first)
	}
}

func circularArcPoints(center Vec2, radius, startAngle, endAngle float64, isCCW bool, arcSegments int) []Vec2 {
	if math.Abs(radius) <= 1e-12 {
		return nil
	}
	sweep := normalizedSweep(startAngle, endAngle, isCCW)
	segs := math.Ceil((math.Abs(sweep) / (2 * math.Pi)) * float64(maxInt(arcSegments, 8)))
	segments := int(math.Max(segs, 2))
	out := make([]Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		angle := startAngle + sweep*t
		out = append(out, Vec2{X: center.X + radius*math.Cos(angle), Y: center.Y + radius*math.Sin(angle)})
	}
	return out
}

func ellipticalArcPoints(center, majorEndpoint Vec2, ratio, startAngle, endAngle float64, isCCW bool, arcSegments int) []Vec2 {
	mx, my := majorEndpoint.X, majorEndpoint.Y
	if math.Abs(mx) <= 1e-12 && math.Abs(my) <= 1e-12 {
		return nil
	}
	vx := -my * ratio
	vy := mx * ratio
	sweep := normalizedSweep(startAngle, endAngle, isCCW)
	segs := math.Ceil((math.Abs(sweep) / (2 * math.Pi)) * float64(maxInt(arcSegments, 16)))
	segments := int(math.Max(segs, 4))
	out := make([]Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		angle := startAngle + sweep*t
		c, s := math.Cos(angle), math.Sin(angle)
		out = append(out, Vec2{X: center.X + mx*c + vx*s, Y: center.Y + my*c + vy*s})
	}
	return out
}

func polylineWithBulgesPoints(points []Vec2, bulges []float64, closed bool, arcSegments int) []Vec2 {
	if len(points) <= 1 {
		return points
	}
	bulgeValues := make([]float64, len(points))
	for i := 0; i < len(bulges) && i < len(points); i++ {
		bulgeValues[i] = bulges[i]
	}

	segCount := len(points) - 1
	if closed {
		segCount = len(points)
	}
	var out []Vec2
	for idx := 0; idx < segCount; idx++ {
		start := points[idx]
		end := points[(idx+1)%len(points)]
		seg := bulgeSegmentPoints(start, end, bulgeValues[idx], arcSegments)
		appendSegmentPoints(&out, seg)
	}
	return out
}

func bulgeSegmentPoints(start, end Vec2, bulge float64, arcSegments int) []Vec2 {
	if math.Abs(bulge) <= 1e-12 {
		return []Vec2{start, end}
	}

	dx := end.X - start.X
	dy := end.Y - start.Y
	chord := math.Sqrt(dx*dx + dy*dy)
	if chord <= 1e-12 {
		return []Vec2{start, end}
	}

	theta := 4 * math.Atan(bulge)
	if math.Abs(theta) <= 1e-12 {
		return []Vec2{start, end}
	}

	normalX, normalY := -dy/chord, dx/chord
	centerOffset := chord * (1 - bulge*bulge) / (4 * bulge)
	midX, midY := (start.X+end.X)*0.5, (start.Y+end.Y)*0.5
	centerX := midX + normalX*centerOffset
	centerY := midY + normalY*centerOffset
	radius := math.Sqrt(math.Pow(start.X-centerX, 2) + math.Pow(start.Y-centerY, 2))
	if radius <= 1e-12 {
		return []Vec2{start, end}
	}

	startAngle := math.Atan2(start.Y-centerY, start.X-centerX)
	segs := math.Ceil((math.Abs(theta) / (2 * math.Pi)) * float64(maxInt(arcSegments, 8)))
	segments := int(math.Max(segs, 2))
	out := make([]Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		angle := startAngle + theta*t
		out = append(out, Vec2{X: centerX + radius*math.Cos(angle), Y: centerY + radius*math.Sin(angle)})
	}
	if len(out) > 0 {
		out[0] = start
		out[len(out)-1] = end
	}
	return out
}

func normalizedSweep(startAngle, endAngle float64, isCCW bool) float64 {
	sweep := endAngle - startAngle
	if isCCW {
		if sweep < 0 {
			sweep += 2 * math.Pi
		}
	} else if sweep > 0 {
		sweep -= 2 * math.Pi
	}
	return sweep
}

func points2Equal(a, b Vec2) bool {
	return math.Abs(a.X-b.X) <= 1e-9 && math.Abs(a.Y-b.Y) <= 1e-9
}

func boundedCount(raw uint32, label string) (int, error) {
	const maxCount = 1_000_000
	if raw > maxCount {
		return 0, NewError(KindFormat, label+" count is too large")
	}
	return int(raw), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
