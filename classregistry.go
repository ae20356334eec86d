// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import (
	"bytes"
	"strings"
)

// classesSentinelBefore and classesSentinelAfter delimit the AcDb:Classes
// section, distinct from the section-locator sentinel.
var classesSentinelBefore = [16]byte{
	0x8D, 0xA1, 0xC4, 0xB8, 0xC4, 0xA9, 0xF8, 0xC5,
	0xC0, 0xDC, 0xF4, 0x5F, 0xE7, 0xCF, 0xB6, 0x8A,
}

var classesSentinelAfter = [16]byte{
	0x72, 0x5E, 0x3B, 0x47, 0x3B, 0x56, 0x07, 0x3A,
	0x3F, 0x23, 0x0B, 0xA0, 0x18, 0x30, 0x49, 0x75,
}

// ClassDefinition is one entry in the Classes section: a class number
// mapping to a DXF name, used to resolve dynamic object/entity type codes.
type ClassDefinition struct {
	ClassNumber   uint16
	AppName       string
	CppName       string
	DxfName       string
	IsZombie      bool
	ItemClassID   uint16
	InstanceCount uint32
	DwgVersion    uint16
	MaintVersion  uint16
}

// ClassRegistry maps class numbers (>= 500) to their DXF type names.
type ClassRegistry struct {
	byNumber map[uint16]ClassDefinition
}

// Lookup returns the uppercased DXF name for a class number, if known.
func (c *ClassRegistry) Lookup(classNumber uint16) (string, bool) {
	def, ok := c.byNumber[classNumber]
	if !ok {
		return "", false
	}
	return def.DxfName, true
}

func stripSentinels(data []byte) []byte {
	body := data
	if bytes.HasPrefix(body, classesSentinelBefore[:]) {
		body = body[16:]
	}
	if bytes.HasSuffix(body, classesSentinelAfter[:]) {
		body = body[:len(body)-16]
	}
	return body
}

// parseClassRegistry builds a ClassRegistry from the raw AcDb:Classes
// section bytes, dispatching on dialect for the R2007 trailing
// string-stream layout.
func parseClassRegistry(data []byte, dialect Dialect, opts *Options) (*ClassRegistry, error) {
	body := stripSentinels(data)
	reg := &ClassRegistry{byNumber: make(map[uint16]ClassDefinition)}

	br := NewBitReader(body)

	// Both layouts begin with an RL bit-count of the main table.
	if _, err := br.RL(); err != nil {
		return nil, err
	}
	maxClassNum, err := br.BS()
	if err != nil {
		return nil, err
	}

	switch dialect {
	case DialectR2007:
		return parseClassRegistryR2007(body, reg, opts)
	default:
		return parseClassRegistryLegacy(br, reg, int(maxClassNum), opts)
	}
}

func parseClassRegistryLegacy(br *BitReader, reg *ClassRegistry, maxClassNum int, opts *Options) (*ClassRegistry, error) {
	for {
		classNum, err := br.BS()
		if err != nil {
			break
		}
		if classNum == 0 {
			break
		}
		proxyFlags, err := br.BS()
		if err != nil {
			return nil, err
		}
		appName, err := br.TV()
		if err != nil {
			return nil, err
		}
		cppName, err := br.TV()
		if err != nil {
			return nil, err
		}
		dxfName, err := br.TV()
		if err != nil {
			return nil, err
		}
		zombie, err := br.B()
		if err != nil {
			return nil, err
		}
		itemClassID, err := br.BS()
		if err != nil {
			return nil, err
		}
		instanceCount, err := br.BL()
		if err != nil {
			return nil, err
		}
		dwgVer, err := br.BS()
		if err != nil {
			return nil, err
		}
		maintVer, err := br.BS()
		if err != nil {
			return nil, err
		}
		if _, err := br.BL(); err != nil {
			return nil, err
		}
		if _, err := br.BL(); err != nil {
			return nil, err
		}
		_ = proxyFlags

		reg.byNumber[classNum] = ClassDefinition{
			ClassNumber:   classNum,
			AppName:       appName,
			CppName:       cppName,
			DxfName:       strings.ToUpper(dxfName),
			IsZombie:      zombie,
			ItemClassID:   itemClassID,
			InstanceCount: instanceCount,
			DwgVersion:    dwgVer,
			MaintVersion:  maintVer,
		}

		if len(reg.byNumber) >= maxClassNum && maxClassNum > 0 {
			// Best-effort bound; real streams terminate on read failure
			// or sentinel, whichever comes first.
		}
	}
	return reg, nil
}

// parseClassRegistryR2007 parses the main table without the three TV
// fields and reads the string-stream presence bit near the section start.
// The trailing string stream itself is not decoded, so AppName, CppName
// and DxfName stay empty for every R2007 class.
func parseClassRegistryR2007(body []byte, reg *ClassRegistry, opts *Options) (*ClassRegistry, error) {
	br := NewBitReader(body)
	if _, err := br.RL(); err != nil {
		return nil, err
	}
	if _, err := br.BS(); err != nil {
		return nil, err
	}
	stringStreamPresent, err := br.B()
	if err != nil {
		return nil, err
	}

	var order []uint16
	for {
		classNum, err := br.BS()
		if err != nil {
			break
		}
		if classNum == 0 {
			break
		}
		if _, err := br.BS(); err != nil { // proxy-flags
			return nil, err
		}
		zombie, err := br.B()
		if err != nil {
			return nil, err
		}
		itemClassID, err := br.BS()
		if err != nil {
			return nil, err
		}
		instanceCount, err := br.BL()
		if err != nil {
			return nil, err
		}
		dwgVer, err := br.BS()
		if err != nil {
			return nil, err
		}
		maintVer, err := br.BS()
		if err != nil {
			return nil, err
		}
		if _, err := br.BL(); err != nil {
			return nil, err
		}
		if _, err := br.BL(); err != nil {
			return nil, err
		}

		reg.byNumber[classNum] = ClassDefinition{
			ClassNumber:   classNum,
			IsZombie:      zombie,
			ItemClassID:   itemClassID,
			InstanceCount: instanceCount,
			DwgVersion:    dwgVer,
			MaintVersion:  maintVer,
		}
		order = append(order, classNum)
	}

	if !stringStreamPresent || len(order) == 0 {
		return reg, nil
	}

	// The string stream's bit offset is not located here, so its TU
	// strings are not read. The loop below copies the uppercased CppName
	// into an empty DxfName; CppName is never set on this path, so
	// DxfName stays empty. opts is not consulted.
	_ = opts
	for _, classNum := range order {
		def := reg.byNumber[classNum]
		if def.DxfName == "" {
			def.DxfName = strings.ToUpper(def.CppName)
			reg.byNumber[classNum] = def
		}
	}

	return reg, nil
}
