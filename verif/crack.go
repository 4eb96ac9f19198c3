// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"math"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/sec"
)

// Crack computes the characteristic crack width following EHE-08 (art. 49.2.4)
//  wk  = β sm εsm
//  sm  = 2c + 0.2 s + 0.4 k1 ⌀ Ac,eff / As
//  εsm = σs/Es [1 - k2 (σsr/σs)²] ≥ 0.4 σs/Es
// σs is the stress of the most tensioned bar reached by the phantom model and
// σsr the stress of that bar when the gross section reaches fctm
type Crack struct {
	Wmax float64 // maximum crack width
	K2   float64 // 1.0 for short term loads; 0.5 for long term or repeated loads
	Beta float64 // ratio between characteristic and mean crack width
}

// Label returns the limit state label
func (o *Crack) Label() string { return "crack_sls" }

// CheckSection computes the capacity factor wk / wmax
func (o *Crack) CheckSection(s *Section, f ele.ForceRecord) (cv ControlVars, err error) {
	if s.Concrete == nil {
		return cv, controllerErr("section %q: crack control requires a catalogued concrete", s.RC.Name)
	}
	if !s.Solved {
		return cv, controllerErr("section %q: the phantom model did not reach equilibrium", s.RC.Name)
	}
	if s.RC.Shape == "circle" {
		return cv, controllerErr("section %q: crack control requires straight reinforcement rows", s.RC.Name)
	}
	cv.Extras = make(map[string]float64)
	N, My, Mz := f["N"], f["My"], f["Mz"]
	if s.Ndim() == 2 {
		My = 0
	}

	// most tensioned bar
	var bar *sec.Fiber
	for _, fb := range s.Fiber.Fibers {
		if fb.Kind == sec.KindReinf && (bar == nil || fb.Mdl.Strain() > bar.Mdl.Strain()) {
			bar = fb
		}
	}
	if bar == nil {
		return cv, controllerErr("section %q has no reinforcement", s.RC.Name)
	}
	εs, σs := bar.Mdl.Strain(), bar.Mdl.Stress()
	if εs <= 0 || σs <= 0 {
		return
	}

	// cracking
	σct, err := maxGrossStress(s, N, My, Mz)
	if err != nil {
		return
	}
	if σct <= s.Concrete.Fctm {
		cv.Extras["sigmaCt"] = σct
		return
	}
	σsr := σs * s.Concrete.Fctm / σct

	// row of the bar
	row, positive, ok := o.row(s, bar)
	if !ok {
		return cv, controllerErr("section %q: cannot find the row of the bar at (%g,%g)", s.RC.Name, bar.Y, bar.Z)
	}
	w := s.RC.RowWidth(row)
	n := row.NumBars(w)
	sp := row.BarSpacing(w)
	as := row.As(w)
	φ := row.Diam
	c := row.Cover
	if as <= 0 || sp <= 0 || c < 0 {
		return cv, controllerErr("section %q: invalid tension row: As=%g, s=%g, c=%g", s.RC.Name, as, sp, c)
	}

	// strains at the outline
	e := s.Fiber.Deformation()
	ε1, ε2 := math.Inf(-1), math.Inf(1)
	for _, p := range s.Outline() {
		ε := s.Fiber.FiberStrain(e, p.Y, p.Z)
		ε1, ε2 = math.Max(ε1, ε), math.Min(ε2, ε)
	}
	ε2 = math.Max(ε2, 0)
	k1 := (ε1 + ε2) / (8 * ε1)

	// effective area
	h := s.RC.Depth()
	hmax := h / 4
	if ε2 > 0 {
		hmax = h / 2
	}
	hef := math.Min(hmax, row.EffCover()+7.5*φ)
	be := s.RC.Width()
	if n > 1 {
		be = math.Min(be, w-sp+15*φ)
	} else {
		be = math.Min(be, 15*φ)
	}
	aceff := be * hef

	// crack width
	es := bar.Mdl.InitialTangent()
	seff := math.Min(sp, 15*φ)
	sm := 2*c + 0.2*seff + 0.4*k1*φ*aceff/as
	εsm := math.Max(σs/es*(1-o.K2*(σsr/σs)*(σsr/σs)), 0.4*σs/es)
	wk := o.Beta * sm * εsm
	cv.CF = wk / o.Wmax
	cv.Extras["wk"] = wk
	cv.Extras["sm"] = sm
	cv.Extras["epsSm"] = εsm
	cv.Extras["sigmaS"] = σs
	cv.Extras["sigmaSr"] = σsr
	cv.Extras["sigmaCt"] = σct
	cv.Extras["s"] = sp
	cv.Extras["c"] = c
	cv.Extras["k1"] = k1
	cv.Extras["AcEff"] = aceff
	cv.Extras["As"] = as
	if positive {
		cv.Extras["face"] = 1
	} else {
		cv.Extras["face"] = -1
	}
	return
}

// row returns the reinforcement row holding a bar and whether it lies on the positive face
func (o *Crack) row(s *Section, bar *sec.Fiber) (r sec.ReinfRow, positive, ok bool) {
	min, max := s.RC.Outline().Bounds()
	x := bar.Z
	if s.Ndim() == 2 {
		x = bar.Y
	}
	dist := math.Inf(1)
	check := func(rows []sec.ReinfRow, pos bool) {
		for _, row := range rows {
			level := min.Z + row.EffCover()
			if pos {
				level = max.Z - row.EffCover()
			}
			if d := math.Abs(level - x); d < dist {
				dist, r, positive, ok = d, row, pos, true
			}
		}
	}
	check(s.RC.PosRows, true)
	check(s.RC.NegRows, false)
	if dist > 1e-6*(max.Z-min.Z) {
		ok = false
	}
	return
}
