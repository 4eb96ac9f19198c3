// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"math"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/sec"
)

// shear mechanisms
const (
	MechConcrete = "concrete" // member without shear reinforcement
	MechStirrups = "stirrups" // concrete and transverse reinforcement
	MechStrut    = "strut"    // crushing of the compressed struts
)

// Shear checks the shear forces following EHE-08 (art. 44)
//  Vu1 = K f1cd b0 d (cotθ + cotα) / (1 + cot²θ)
//  Vu2 = [0.18/γc ξ (100 ρl fcv)^⅓ + 0.15 σ'cd] b0 d        (no stirrups)
//  Vu2 = Vcu + Vsu,  Vsu = 0.9 d sinα (cotα + cotθ) Aα fyα,d   (stirrups)
// The shear along z is combined with My and the shear along y with Mz
type Shear struct{}

// Label returns the limit state label
func (o *Shear) Label() string { return "shear_uls" }

// shearResult holds the resistance along one direction
type shearResult struct {
	cf, vu1, vu2, vcu, vsu, d float64
	mech                      string
}

// CheckSection computes the capacity factor
func (o *Shear) CheckSection(s *Section, f ele.ForceRecord) (cv ControlVars, err error) {
	if s.Concrete == nil || s.Steel == nil {
		return cv, controllerErr("section %q: shear check requires catalogued concrete and steel", s.RC.Name)
	}
	N := f["N"]
	type dir struct {
		V, M   float64
		uy, uz float64 // compressed side for M > 0
		reinf  *sec.ShearReinf
	}
	var dirs []dir
	if s.Ndim() == 2 {
		dirs = []dir{{f["Vy"], f["Mz"], 1, 0, s.RC.ShearZ}}
	} else {
		dirs = []dir{{f["Vz"], f["My"], 0, -1, s.RC.ShearZ}, {f["Vy"], f["Mz"], 1, 0, s.RC.ShearY}}
	}
	var best *shearResult
	for _, d := range dirs {
		if d.V == 0 {
			continue
		}
		uy, uz := d.uy, d.uz
		if d.M < 0 {
			uy, uz = -uy, -uz
		}
		r, e := o.resistance(s, N, math.Abs(d.V), uy, uz, d.reinf)
		if e != nil {
			return cv, e
		}
		if best == nil || r.cf > best.cf {
			best = r
		}
	}
	cv.Extras = make(map[string]float64)
	if best == nil {
		return
	}
	cv.CF, cv.Mechanism = best.cf, best.mech
	cv.Extras["Vu1"] = best.vu1
	cv.Extras["Vu2"] = best.vu2
	cv.Extras["Vcu"] = best.vcu
	cv.Extras["Vsu"] = best.vsu
	cv.Extras["d"] = best.d
	return
}

// geometry returns the depth h, effective depth d, tension reinforcement
// area and web width along the direction u pointing to the compressed face
func (o *Shear) geometry(s *Section, uy, uz float64) (h, d, as, bw float64) {
	pmin, pmax := math.Inf(1), math.Inf(-1)
	for _, p := range s.Outline() {
		x := p.Y*uy + p.Z*uz
		pmin, pmax = math.Min(pmin, x), math.Max(pmax, x)
	}
	h = pmax - pmin
	mid := (pmin + pmax) / 2
	var ac, asp float64
	for _, f := range s.Fiber.Fibers {
		x := f.Y*uy + f.Z*uz
		if f.Kind == sec.KindConcrete {
			ac += f.A
			continue
		}
		if x < mid {
			as += f.A
			asp += f.A * x
		}
	}
	if as > 0 {
		d = pmax - asp/as
	}
	if h > 0 {
		bw = ac / h
	}
	return
}

// resistance computes the shear resistance along one direction
func (o *Shear) resistance(s *Section, N, V, uy, uz float64, reinf *sec.ShearReinf) (r *shearResult, err error) {
	c, st := s.Concrete, s.Steel
	h, d, as, b := o.geometry(s, uy, uz)
	if d <= 0 || b <= 0 || h <= 0 {
		return nil, controllerErr("section %q: impossible geometry for shear: h=%g, d=%g, b0=%g", s.RC.Name, h, d, b)
	}
	r = &shearResult{d: d}
	ac, _, _, _, _ := grossConcrete(s.Fiber)

	// axial stress; compression positive
	σcd := -N / ac
	σcdv := math.Min(σcd, math.Min(0.3*c.Fcd, 12e6))

	// crushing of the struts
	α, θ := math.Pi/2, math.Pi/4
	if reinf != nil {
		α, θ = reinf.Angles()
	}
	cotα, cotθ := 1/math.Tan(α), 1/math.Tan(θ)
	if math.Abs(cotα) < 1e-15 {
		cotα = 0
	}
	f1cd := 0.6 * c.Fcd
	if c.Fck > 60e6 {
		f1cd = math.Max(0.9-c.Fck/200e6, 0.5) * c.Fcd
	}
	K := 1.0
	switch {
	case σcd <= 0:
	case σcd <= 0.25*c.Fcd:
		K = 1 + σcd/c.Fcd
	case σcd <= 0.5*c.Fcd:
		K = 1.25
	default:
		K = math.Max(2.5*(1-σcd/c.Fcd), 0)
	}
	r.vu1 = K * f1cd * b * d * (cotθ + cotα) / (1 + cotθ*cotθ)

	// tension in the web
	dmm := d * 1000
	ξ := math.Min(1+math.Sqrt(200/dmm), 2)
	ρl := math.Min(as/(b*d), 0.02)
	fcv := math.Min(c.Fck/1e6, 100)
	sig := σcdv / 1e6
	if reinf == nil || reinf.AreaPerLength() == 0 {
		v := 0.18/c.GammaC*ξ*math.Cbrt(100*ρl*fcv) + 0.15*sig
		vmin := 0.075/c.GammaC*math.Pow(ξ, 1.5)*math.Sqrt(fcv) + 0.15*sig
		r.vcu = math.Max(v, vmin) * b * d * 1e6
		r.vu2 = r.vcu
		r.mech = MechConcrete
	} else {
		cotθe := 0.5
		if x := 1 + σcd/c.Fctm; x > 0 {
			cotθe = math.Max(math.Sqrt(x), 0.5)
		}
		β := 1.0
		switch {
		case cotθ < cotθe && cotθe != 0.5:
			β = (2*cotθ - 1) / (2*cotθe - 1)
		case cotθ >= cotθe && cotθe != 2:
			β = (cotθ - 2) / (cotθe - 2)
		}
		v := (0.15/c.GammaC*ξ*math.Cbrt(100*ρl*fcv) + 0.15*sig) * β
		r.vcu = math.Max(v, 0) * b * d * 1e6
		fyαd := math.Min(st.Fyd, 400e6)
		r.vsu = 0.9 * d * math.Sin(α) * (cotα + cotθ) * reinf.AreaPerLength() * fyαd
		r.vu2 = r.vcu + r.vsu
		r.mech = MechStirrups
	}
	if r.vu1 <= 0 || r.vu2 <= 0 {
		return nil, controllerErr("section %q: non-positive shear resistance: Vu1=%g, Vu2=%g", s.RC.Name, r.vu1, r.vu2)
	}
	cf1, cf2 := V/r.vu1, V/r.vu2
	r.cf = cf2
	if cf1 > cf2 {
		r.cf, r.mech = cf1, MechStrut
	}
	return
}
