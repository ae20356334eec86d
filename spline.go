// Copyright 2026 The godwg Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package dwg

// SplineEntity is a decoded SPLINE, carrying either a control-point
// definition or a fit-point definition (never both).
type SplineEntity struct {
	Handle        uint64
	Scenario      uint32
	SplineFlags1  uint32
	KnotParameter uint32
	Degree        uint32

	HasControlPoints bool
	Rational         bool
	Closed           bool
	Periodic         bool
	KnotTolerance    float64
	CtrlTolerance    float64
	Knots            []float64
	ControlPoints    []Vec3
	Weights          []float64

	HasFitPoints  bool
	FitTolerance  float64
	StartTangent  Vec3
	EndTangent    Vec3
	FitPoints     []Vec3
}

func decodeSpline(r *BitReader, hdr *CommonEntityHeader, base uint64, dialect Dialect) (*SplineEntity, error) {
	ent := &SplineEntity{Handle: hdr.Handle}

	scenario, err := r.BL()
	if err != nil {
		return nil, err
	}
	ent.Scenario = scenario

	if dialect == DialectR2013 {
		ent.SplineFlags1, err = r.BL()
		if err != nil {
			return nil, err
		}
		ent.KnotParameter, err = r.BL()
		if err != nil {
			return nil, err
		}
	}

	degree, err := r.BL()
	if err != nil {
		return nil, err
	}
	ent.Degree = degree

	startPos := r.Pos()
	preferFit := scenario == 2

	tryControl := func() error {
		r.SetPos(startPos)
		return decodeSplineControlBranch(r, ent)
	}
	tryFit := func() error {
		r.SetPos(startPos)
		return decodeSplineFitBranch(r, ent)
	}

	first, second := tryControl, tryFit
	if preferFit {
		first, second = tryFit, tryControl
	}

	if err := first(); err != nil {
		if err := second(); err != nil {
			return nil, err
		}
	}

	r.SeekBits(hdr.ObjSize)
	if _, err := readCommonEntityHandles(r, hdr, base); err != nil {
		return nil, err
	}

	return ent, nil
}

func decodeSplineControlBranch(r *BitReader, ent *SplineEntity) error {
	rational, err := r.B()
	if err != nil {
		return err
	}
	closed, err := r.B()
	if err != nil {
		return err
	}
	periodic, err := r.B()
	if err != nil {
		return err
	}
	knotTol, err := r.BD()
	if err != nil {
		return err
	}
	ctrlTol, err := r.BD()
	if err != nil {
		return err
	}
	numKnots, err := r.BL()
	if err != nil {
		return err
	}
	numCtrl, err := r.BL()
	if err != nil {
		return err
	}
	if _, err := r.B(); err != nil { // weight-echo
		return err
	}

	knots := make([]float64, 0, numKnots)
	for i := uint32(0); i < numKnots; i++ {
		k, err := r.BD()
		if err != nil {
			return err
		}
		knots = append(knots, k)
	}

	ctrl := make([]Vec3, 0, numCtrl)
	weights := make([]float64, 0, numCtrl)
	for i := uint32(0); i < numCtrl; i++ {
		p, err := r.ThreeBD()
		if err != nil {
			return err
		}
		ctrl = append(ctrl, p)
		if rational != 0 {
			w, err := r.BD()
			if err != nil {
				return err
			}
			weights = append(weights, w)
		}
	}

	ent.HasControlPoints = true
	ent.Rational = rational != 0
	ent.Closed = closed != 0
	ent.Periodic = periodic != 0
	ent.KnotTolerance = knotTol
	ent.CtrlTolerance = ctrlTol
	ent.Knots = knots
	ent.ControlPoints = ctrl
	ent.Weights = weights
	return nil
}

func decodeSplineFitBranch(r *BitReader, ent *SplineEntity) error {
	fitTol, err := r.BD()
	if err != nil {
		return err
	}
	startTangent, err := r.ThreeBD()
	if err != nil {
		return err
	}
	endTangent, err := r.ThreeBD()
	if err != nil {
		return err
	}
	numFit, err := r.BL()
	if err != nil {
		return err
	}

	fit := make([]Vec3, 0, numFit)
	for i := uint32(0); i < numFit; i++ {
		p, err := r.ThreeBD()
		if err != nil {
			return err
		}
		fit = append(fit, p)
	}

	ent.HasFitPoints = true
	ent.FitTolerance = fitTol
	ent.StartTangent = startTangent
	ent.EndTangent = endTangent
	ent.FitPoints = fit
	return nil
}
