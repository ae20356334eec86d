// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestDecodeUTF16String(t *testing.T) {
	// "Hi" in UTF-16LE.
	data := []byte{'H', 0x00, 'i', 0x00}
	got, err := DecodeUTF16String(data)
	if err != nil {
		t.Fatalf("DecodeUTF16String() failed: %v", err)
	}
	if got != "Hi" {
		t.Errorf("DecodeUTF16String() = %q, want %q", got, "Hi")
	}
}

func TestDecodeUTF16StringEmpty(t *testing.T) {
	got, err := DecodeUTF16String(nil)
	if err != nil {
		t.Fatalf("DecodeUTF16String(nil) failed: %v", err)
	}
	if got != "" {
		t.Errorf("DecodeUTF16String(nil) = %q, want empty", got)
	}
}

func TestStringInSlice(t *testing.T) {
	list := []string{"a", "b", "c"}
	if !stringInSlice("b", list) {
		t.Errorf("stringInSlice(%q, %v) = false, want true", "b", list)
	}
	if stringInSlice("z", list) {
		t.Errorf("stringInSlice(%q, %v) = true, want false", "z", list)
	}
}

func TestIsBitSet(t *testing.T) {
	tests := []struct {
		n    uint64
		pos  int
		want bool
	}{
		{0b0001, 0, true},
		{0b0001, 1, false},
		{0b0010, 1, true},
		{0b1000, 3, true},
	}
	for _, tt := range tests {
		if got := IsBitSet(tt.n, tt.pos); got != tt.want {
			t.Errorf("IsBitSet(%b, %d) = %v, want %v", tt.n, tt.pos, got, tt.want)
		}
	}
}
