// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// xdataGroup is one (app-handle, raw-bytes) entry in the extended-entity-
// data chain.
type xdataGroup struct {
	AppHandle HandleRef
	Data      []byte
}

// readCommonEntityHeader decodes the preamble shared by every graphical
// entity, immediately following the object's type code. For R2010+,
// objDataEndBit is the caller-provided end-of-data bit position (from the
// declared handle-stream size); for earlier dialects it is read here via
// RL and returned in the header.
func readCommonEntityHeader(r *BitReader, dialect Dialect, objDataEndBit uint64) (*CommonEntityHeader, []xdataGroup, error) {
	hdr := &CommonEntityHeader{}

	if dialect == DialectR2010 || dialect == DialectR2013 {
		hdr.ObjSize = objDataEndBit
	} else {
		size, err := r.RL()
		if err != nil {
			return nil, nil, err
		}
		hdr.ObjSize = uint64(size)
	}

	handleRef, err := r.H()
	if err != nil {
		return nil, nil, err
	}
	hdr.Handle = handleRef.Value

	var xdata []xdataGroup
	for {
		size, err := r.BS()
		if err != nil {
			return nil, nil, err
		}
		if size == 0 {
			break
		}
		appHandle, err := r.H()
		if err != nil {
			return nil, nil, err
		}
		raw := make([]byte, 0, size)
		for i := uint16(0); i < size; i++ {
			b, err := r.RC()
			if err != nil {
				return nil, nil, err
			}
			raw = append(raw, b)
		}
		xdata = append(xdata, xdataGroup{AppHandle: appHandle, Data: raw})
		if len(xdata) > 1<<20 {
			return nil, nil, NewErrorAt(KindFormat, "extended entity data chain too long", r.BitOffset())
		}
	}

	graphicPresent, err := r.B()
	if err != nil {
		return nil, nil, err
	}
	if graphicPresent != 0 {
		var previewSize uint64
		if dialect == DialectR2010 || dialect == DialectR2013 {
			previewSize, err = r.BLL()
		} else {
			var sz uint32
			sz, err = r.RL()
			previewSize = uint64(sz)
		}
		if err != nil {
			return nil, nil, err
		}
		for i := uint64(0); i < previewSize; i++ {
			if _, err := r.RC(); err != nil {
				return nil, nil, err
			}
		}
	}

	entityMode, err := r.BB()
	if err != nil {
		return nil, nil, err
	}
	hdr.EntityMode = entityMode

	reactorCount, err := r.BL()
	if err != nil {
		return nil, nil, err
	}
	hdr.ReactorCount = reactorCount

	xdicMissing, err := r.B()
	if err != nil {
		return nil, nil, err
	}
	hdr.XdicMissing = xdicMissing != 0

	noLinks, err := r.B()
	if err != nil {
		return nil, nil, err
	}
	if noLinks == 0 {
		mode, err := r.B()
		if err != nil {
			return nil, nil, err
		}
		if mode == 1 {
			idx, err := r.RC()
			if err != nil {
				return nil, nil, err
			}
			hdr.Color = EntityColor{Index: uint16(idx), HasIndex: true}
		} else {
			flags, err := r.RS(LittleEndian)
			if err != nil {
				return nil, nil, err
			}
			hdr.Color = EntityColor{Index: flags & 0x1FF, HasIndex: true}
			if flags&0x8000 != 0 {
				rgb, err := r.BL()
				if err != nil {
					return nil, nil, err
				}
				if _, err := r.TV(); err != nil {
					return nil, nil, err
				}
				hdr.Color.TrueColor = rgb
				hdr.Color.HasTrue = true
			}
			if flags&0x2000 != 0 {
				if _, err := r.BL(); err != nil {
					return nil, nil, err
				}
			}
		}
	} else {
		if _, err := r.B(); err != nil {
			return nil, nil, err
		}
	}

	if _, err := r.BD(); err != nil { // ltype-scale
		return nil, nil, err
	}
	ltypeFlags, err := r.BB()
	if err != nil {
		return nil, nil, err
	}
	hdr.LtypeFlags = ltypeFlags

	plotStyle, err := r.BB()
	if err != nil {
		return nil, nil, err
	}
	hdr.PlotStyle = plotStyle

	if dialect == DialectR2007 || dialect == DialectR2010 || dialect == DialectR2013 {
		materialFlags, err := r.BB()
		if err != nil {
			return nil, nil, err
		}
		hdr.MaterialFlg = materialFlags

		shadowFlags, err := r.RC()
		if err != nil {
			return nil, nil, err
		}
		hdr.ShadowFlags = shadowFlags
	}

	if dialect == DialectR2010 || dialect == DialectR2013 {
		fullVS, err := r.B()
		if err != nil {
			return nil, nil, err
		}
		hdr.HasFullVS = fullVS != 0

		faceVS, err := r.B()
		if err != nil {
			return nil, nil, err
		}
		hdr.HasFaceVS = faceVS != 0

		edgeVS, err := r.B()
		if err != nil {
			return nil, nil, err
		}
		hdr.HasEdgeVS = edgeVS != 0
	}

	invisibility, err := r.BS()
	if err != nil {
		return nil, nil, err
	}
	hdr.Invisibility = invisibility

	lineWeight, err := r.RC()
	if err != nil {
		return nil, nil, err
	}
	hdr.LineWeight = lineWeight

	return hdr, xdata, nil
}

// readCommonEntityHandles reads the handle stream after the caller has
// seeked the reader to ObjSize (the declared end of the data stream).
// R2010/R2013 omit a one-byte string-stream marker from the declared
// handle-stream size; the caller must pre-adjust total_bits accordingly
// when locating the stream (see entity decoders, §4.11).
func readCommonEntityHandles(r *BitReader, hdr *CommonEntityHeader, base uint64) (*CommonEntityHandles, error) {
	out := &CommonEntityHandles{}

	if hdr.EntityMode == 0 {
		owner, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.Owner = owner
		out.HasOwner = true
	}

	for i := uint32(0); i < hdr.ReactorCount; i++ {
		h, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.Reactors = append(out.Reactors, h)
	}

	if !hdr.XdicMissing {
		h, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.Xdic = h
		out.HasXdic = true
	}

	layer, err := readHandleReference(r, base)
	if err != nil {
		return nil, err
	}
	out.Layer = layer

	if hdr.LtypeFlags == 3 {
		h, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.Linetype = h
	}

	if hdr.PlotStyle == 3 {
		h, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.PlotStyleH = h
	}

	if hdr.MaterialFlg == 3 {
		h, err := readHandleReference(r, base)
		if err != nil {
			return nil, err
		}
		out.Material = h
	}

	if hdr.HasFullVS {
		if _, err := readHandleReference(r, base); err != nil {
			return nil, err
		}
	}
	if hdr.HasFaceVS {
		if _, err := readHandleReference(r, base); err != nil {
			return nil, err
		}
	}
	if hdr.HasEdgeVS {
		if _, err := readHandleReference(r, base); err != nil {
			return nil, err
		}
	}

	return out, nil
}
