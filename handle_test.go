// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestResolveHandle(t *testing.T) {
	tests := []struct {
		name string
		ref  HandleRef
		base uint64
		want uint64
	}{
		{"absolute code 0x02", HandleRef{Code: 0x02, Value: 0x42}, 100, 0x42},
		{"relative +1", HandleRef{Code: 0x06}, 100, 101},
		{"relative -1", HandleRef{Code: 0x08}, 100, 99},
		{"relative +value", HandleRef{Code: 0x0A, Value: 7}, 100, 107},
		{"relative -value", HandleRef{Code: 0x0C, Value: 7}, 100, 93},
		{"unknown code falls back to value", HandleRef{Code: 0x0F, Value: 55}, 100, 55},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveHandle(tt.ref, tt.base); got != tt.want {
				t.Errorf("resolveHandle(%+v, %d) = %d, want %d", tt.ref, tt.base, got, tt.want)
			}
		})
	}
}

func TestReadHandleReference(t *testing.T) {
	// code=0x0A (base+value), counter=1, value byte 0x05.
	r := NewBitReader([]byte{0xA1, 0x05})
	got, err := readHandleReference(r, 100)
	if err != nil {
		t.Fatalf("readHandleReference() failed: %v", err)
	}
	if got != 105 {
		t.Errorf("readHandleReference() = %d, want 105", got)
	}
}
