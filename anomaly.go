// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// Anomalies are non-fatal findings recorded during Parse: conditions that
// do not stop a best-effort read but are worth surfacing to a caller
// auditing a drawing for corruption or unsupported dialect drift.
var (
	// AnoUnrecognizedVersion is reported when the six-byte version tag
	// does not match any known AC10xx sentinel.
	AnoUnrecognizedVersion = "unrecognized version tag"

	// AnoSectionLoadFailed is reported when a section named by the
	// locator/page map could not be decoded.
	AnoSectionLoadFailed = "section load failed"

	// AnoClassRegistryFailed is reported when the AcDb:Classes/Classes
	// section exists but failed to parse.
	AnoClassRegistryFailed = "class registry parse failed"

	// AnoObjectMapFailed is reported when the AcDb:Handles/ObjectMap
	// section exists but failed to parse.
	AnoObjectMapFailed = "object map parse failed"

	// AnoLayerColorFallback is reported when every layer-color bit-padding
	// variant failed to plausibly decode and the simplest variant was
	// accepted as a last resort.
	AnoLayerColorFallback = "layer color decode fell back to simplest variant"

	// AnoEntityLayerRecovered is reported when an R2010/R2013 entity's
	// layer handle did not resolve to a known layer at its nominal
	// position and the §4.14 search heuristic had to recover it.
	AnoEntityLayerRecovered = "entity layer handle recovered by heuristic search"

	// AnoObjectMapUnreachable is reported when an object-map entry's
	// offset falls outside the decoded object-data section.
	AnoObjectMapUnreachable = "object map entry offset unreachable"
)

// addAnomaly appends anomaly to d.anomalies, skipping duplicates.
func (d *File) addAnomaly(anomaly string) {
	if !stringInSlice(anomaly, d.anomalies) {
		d.anomalies = append(d.anomalies, anomaly)
	}
}
