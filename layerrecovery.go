// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"log"
	"os"
	"strconv"
)

// debugEntityLayerHandle reads EZDWG_DEBUG_ENTITY_LAYER once per call; a
// set value turns on per-handle tracing of the layer-recovery search,
// written with the standard library log package.
func debugEntityLayerHandle() (uint64, bool) {
	v := os.Getenv("EZDWG_DEBUG_ENTITY_LAYER")
	if v == "" {
		return 0, false
	}
	h, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, false
	}
	return h, true
}

// layerRecoverySearchWindow bounds how far the data/handle-stream boundary
// search strays from its declared position, in bits.
const layerRecoverySearchWindow = 256

// layerRecoveryStep is the bit granularity the search steps through the
// window at.
const layerRecoveryStep = 8

// layerHandleResolutionMode selects how successive handle references
// within one search candidate are resolved to absolute handles.
type layerHandleResolutionMode int

const (
	// layerModeFixedBase resolves every reference against the same base
	// handle (the entity's own handle, as the rest of this package does).
	layerModeFixedBase layerHandleResolutionMode = iota
	// layerModeChainedPrevious resolves each reference against the
	// previously-read handle in the same candidate, letting relative
	// offset encodings compound across slots.
	layerModeChainedPrevious
)

// layerRecoveryCandidate is one scored guess at which handle in the
// handle stream is the layer reference.
type layerRecoveryCandidate struct {
	handle      uint64
	endBitPos   uint64
	baseHandle  uint64
	mode        layerHandleResolutionMode
	slotIndex   int
	score       uint64
	knownLayer  bool
}

// expectedLayerSlotIndex returns the handle-stream slot a well-formed
// record would place its layer handle in, derived from the same
// conditional fields readCommonEntityHandles walks: owner (if entity mode
// 0), then one slot per reactor, then xdic (unless missing), then layer.
func expectedLayerSlotIndex(hdr *CommonEntityHeader) int {
	idx := 0
	if hdr.EntityMode == 0 {
		idx++
	}
	idx += int(hdr.ReactorCount)
	if !hdr.XdicMissing {
		idx++
	}
	return idx
}

// recoverEntityLayerHandle implements the R2010/R2013 entity-layer
// recovery heuristic (spec.md §4.14): when the layer handle read at the
// nominal data/handle-stream boundary is not a known layer, search a
// window of nearby boundary positions, candidate base handles and handle-
// resolution modes for the handle-stream slot that best matches a known
// layer. recordTotalBits is the bit length of the full object record body
// backing r (so the trailing handle-stream span can be bounded).
func recoverEntityLayerHandle(r *BitReader, hdr *CommonEntityHeader, dialect Dialect, base uint64, recordTotalBits uint64, knownLayers map[uint64]bool) uint64 {
	if dialect != DialectR2010 && dialect != DialectR2013 {
		return 0
	}

	nominal := hdr.ObjSize
	low := int64(nominal) - layerRecoverySearchWindow
	if low < 0 {
		low = 0
	}
	high := nominal + layerRecoverySearchWindow
	if high > recordTotalBits {
		high = recordTotalBits
	}

	baseCandidates := []uint64{base, base + 1}
	if base > 0 {
		baseCandidates = append(baseCandidates, base-1)
	}

	var best *layerRecoveryCandidate
	expectedSlot := expectedLayerSlotIndex(hdr)

	traceHandle, tracing := debugEntityLayerHandle()
	tracing = tracing && traceHandle == hdr.Handle

	for pos := uint64(low); pos <= high; pos += layerRecoveryStep {
		for _, baseHandle := range baseCandidates {
			for _, mode := range []layerHandleResolutionMode{layerModeFixedBase, layerModeChainedPrevious} {
				cands := scanHandleSlots(r, pos, baseHandle, mode, 64)
				for slot, h := range cands {
					score := layerRecoveryScore(slot, expectedSlot, mode, h, knownLayers)
					known := knownLayers[h]
					if best == nil || score < best.score {
						best = &layerRecoveryCandidate{
							handle: h, endBitPos: pos, baseHandle: baseHandle,
							mode: mode, slotIndex: slot, score: score, knownLayer: known,
						}
						if tracing {
							log.Printf("ezdwg: layer recovery handle=%d new best candidate=%+v", hdr.Handle, *best)
						}
					}
				}
			}
		}
	}

	if best != nil && best.knownLayer {
		if tracing {
			log.Printf("ezdwg: layer recovery handle=%d resolved=%d (search hit)", hdr.Handle, best.handle)
		}
		return best.handle
	}

	r.SeekBits(nominal)
	if layerHandle, err := readEntityLayerHandle(r, hdr, base); err == nil {
		if tracing {
			log.Printf("ezdwg: layer recovery handle=%d resolved=%d (nominal fallback)", hdr.Handle, layerHandle)
		}
		return layerHandle
	}

	var min uint64
	first := true
	for h := range knownLayers {
		if first || h < min {
			min = h
			first = false
		}
	}
	return min
}

// scanHandleSlots reads up to maxSlots handle references starting at
// bit position pos, resolving each against baseHandle (fixed mode) or the
// previously-read handle (chained mode). Read errors stop the scan early
// rather than failing it: partial slot coverage still contributes
// candidates to the search.
func scanHandleSlots(r *BitReader, pos uint64, baseHandle uint64, mode layerHandleResolutionMode, maxSlots int) []uint64 {
	r.SeekBits(pos)
	out := make([]uint64, 0, maxSlots)
	resolveBase := baseHandle
	for i := 0; i < maxSlots; i++ {
		h, err := readHandleReference(r, resolveBase)
		if err != nil {
			break
		}
		out = append(out, h)
		if mode == layerModeChainedPrevious {
			resolveBase = h
		}
	}
	return out
}

func layerRecoveryScore(slot, expectedSlot int, mode layerHandleResolutionMode, handle uint64, knownLayers map[uint64]bool) uint64 {
	var score uint64
	if !knownLayers[handle] {
		score += 10_000
	}
	dist := slot - expectedSlot
	if dist < 0 {
		dist = -dist
	}
	score += uint64(dist) * 50
	if slot == 0 {
		score += 500
	}
	if mode == layerModeChainedPrevious {
		score += 100
	}
	if handle == 0 {
		score += 5_000
	}
	return score
}
