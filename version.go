// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// DetectVersion reads the first six bytes of data as an ASCII tag.
func DetectVersion(data []byte) string {
	if len(data) < 6 {
		return ""
	}
	return string(data[:6])
}

// DialectOf maps a six-byte version tag to a Dialect. Unrecognized tags
// map to DialectUnknown; callers decide how strict to be about it.
func DialectOf(tag string) Dialect {
	switch tag {
	case "AC1015":
		return DialectR2000
	case "AC1018":
		return DialectR2004
	case "AC1021":
		return DialectR2007
	case "AC1024":
		return DialectR2010
	case "AC1027":
		return DialectR2013
	default:
		return DialectUnknown
	}
}
