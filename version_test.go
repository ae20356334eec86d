// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"AC1015 tag", []byte("AC1015rest-of-file"), "AC1015"},
		{"short buffer", []byte("AC10"), ""},
		{"empty buffer", []byte{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectVersion(tt.data)
			if got != tt.want {
				t.Errorf("DetectVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectOf(t *testing.T) {
	tests := []struct {
		tag  string
		want Dialect
	}{
		{"AC1015", DialectR2000},
		{"AC1018", DialectR2004},
		{"AC1021", DialectR2007},
		{"AC1024", DialectR2010},
		{"AC1027", DialectR2013},
		{"AC1012", DialectUnknown},
		{"", DialectUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := DialectOf(tt.tag)
			if got != tt.want {
				t.Errorf("DialectOf(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}
