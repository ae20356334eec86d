package dwg

// Fuzz is the go-fuzz/libFuzzer entry point: parse the container and, when
// that succeeds, walk every entity decoder over whatever the ObjectMap
// reached. Best-effort mode is forced on so a single malformed record never
// aborts the run before the rest of the decoders get exercised.
func Fuzz(data []byte) int {
	opts := DefaultOptions()
	for dialect := range opts.BestEffort {
		opts.BestEffort[dialect] = true
	}
	f, err := OpenBytes(data, opts)
	if err != nil {
		return 0
	}
	defer f.Close()

	if f.Dialect == DialectUnknown {
		return 0
	}

	for _, kind := range []string{
		"LINE", "POINT", "ARC", "CIRCLE", "ELLIPSE", "SPLINE", "TEXT",
		"ATTRIB", "ATTDEF", "MTEXT", "INSERT", "MINSERT", "POLYLINE_2D",
		"VERTEX_2D", "LWPOLYLINE", "HATCH", "LEADER", "LAYER",
		"DIM_LINEAR", "DIM_ALIGNED", "DIM_ORDINATE", "DIM_ANG3PT",
		"DIM_ANG2LN", "DIM_RADIUS", "DIM_DIAMETER",
	} {
		if _, err := f.objectRecordsFor(kind, 0); err != nil {
			return 0
		}
	}

	_ = f.DecodeEntityStyles(0)
	_ = f.DecodeLayerColors(0)
	_ = f.Diagnostics()

	return 1
}
