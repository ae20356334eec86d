// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

import "testing"

func TestAddAnomalyDedups(t *testing.T) {
	f := &File{}
	f.addAnomaly(AnoSectionLoadFailed)
	f.addAnomaly(AnoSectionLoadFailed)
	f.addAnomaly(AnoClassRegistryFailed)

	got := f.Anomalies()
	if len(got) != 2 {
		t.Fatalf("Anomalies() = %v, want 2 distinct entries", got)
	}
	if !stringInSlice(AnoSectionLoadFailed, got) {
		t.Errorf("Anomalies() missing %q", AnoSectionLoadFailed)
	}
	if !stringInSlice(AnoClassRegistryFailed, got) {
		t.Errorf("Anomalies() missing %q", AnoClassRegistryFailed)
	}
}

func TestAnomaliesEmptyByDefault(t *testing.T) {
	f := &File{}
	if got := f.Anomalies(); len(got) != 0 {
		t.Errorf("Anomalies() on fresh File = %v, want empty", got)
	}
}
