// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// DecodeUTF16String decodes a NUL-terminated UTF-16LE byte run, the string
// encoding R2007+ uses for the class-registry string stream and other
// wide-character fields the bit codec's TV does not cover.
func DecodeUTF16String(b []byte) (string, error) {
	n := bytes.Index(b, []byte{0, 0})
	if n == 0 {
		return "", nil
	}
	if n < 0 {
		n = len(b) - 1
	}
	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	s, err := decoder.Bytes(b[0 : n+1])
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// stringInSlice reports whether a is present in list.
func stringInSlice(a string, list []string) bool {
	for _, b := range list {
		if b == a {
			return true
		}
	}
	return false
}

// IsBitSet returns true when the bit at pos is set in n.
func IsBitSet(n uint64, pos int) bool {
	return n&(1<<uint(pos)) != 0
}
