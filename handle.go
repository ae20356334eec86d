// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// resolveHandle turns a raw HandleRef read off the wire into an absolute
// handle value, relative to base per the code table in §3/§4.1:
// codes 0x02..0x05 are absolute; 0x06 => base+1, 0x08 => base-1,
// 0x0A => base+value, 0x0C => base-value. Any other code is returned
// unresolved (absolute) since the format defines no other relative forms.
func resolveHandle(ref HandleRef, base uint64) uint64 {
	switch ref.Code {
	case 0x06:
		return base + 1
	case 0x08:
		return base - 1
	case 0x0A:
		return base + ref.Value
	case 0x0C:
		return base - ref.Value
	default:
		return ref.Value
	}
}

// readHandleReference reads an H primitive and resolves it against base.
func readHandleReference(r *BitReader, base uint64) (uint64, error) {
	ref, err := r.H()
	if err != nil {
		return 0, err
	}
	return resolveHandle(ref, base), nil
}
