// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sec

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// DiagramParams holds the limit strains defining the ultimate strain planes
type DiagramParams struct {
	EpsCU   float64 // ultimate concrete strain (negative)
	EpsC0   float64 // concrete strain at peak stress (negative)
	EpsSU   float64 // ultimate reinforcement strain (positive)
	NPts    int     // points per pivot domain
	NAngles int     // number of neutral axis directions (3D)
}

// DefaultDiagramParams returns EC2/EHE-08 pivots for ordinary concrete
func DefaultDiagramParams() DiagramParams {
	return DiagramParams{EpsCU: -0.0035, EpsC0: -0.002, EpsSU: 0.01, NPts: 12, NAngles: 24}
}

func (o *DiagramParams) check() error {
	if o.EpsCU >= 0 || o.EpsC0 >= 0 || o.EpsSU <= 0 || o.EpsC0 < o.EpsCU {
		return chk.Err("invalid pivot strains: εcu=%g, εc0=%g, εsu=%g", o.EpsCU, o.EpsC0, o.EpsSU)
	}
	if o.NPts < 2 {
		o.NPts = 2
	}
	if o.NAngles < 4 {
		o.NAngles = 4
	}
	return nil
}

// ultimatePlanes evaluates the resultants of all ultimate strain planes
// whose compressed side points along u = (uy, uz)
func ultimatePlanes(s *FiberSection, p DiagramParams, uy, uz float64) (res [][3]float64, err error) {
	var dc, dbot, ds float64 = math.Inf(-1), math.Inf(1), math.Inf(1)
	for _, f := range s.Fibers {
		d := (f.Y-s.Yref)*uy + (f.Z-s.Zref)*uz
		if f.Kind == KindConcrete {
			dc, dbot = math.Max(dc, d), math.Min(dbot, d)
		} else {
			ds = math.Min(ds, d)
		}
	}
	if math.IsInf(dc, 0) {
		return nil, chk.Err("section %q has no concrete fibers", s.Name)
	}
	if math.IsInf(ds, 0) {
		ds = dbot
	}
	h := dc - dbot
	if h <= 0 || dc-ds <= 0 {
		return nil, chk.Err("section %q has no depth along (%g,%g)", s.Name, uy, uz)
	}
	dC := dc - (1-p.EpsC0/p.EpsCU)*h
	n := p.NPts
	var planes []func(d float64) float64
	for i := 0; i < n; i++ { // pivot A: steel at εsu
		εc := p.EpsSU + (p.EpsCU-p.EpsSU)*float64(i)/float64(n)
		planes = append(planes, func(d float64) float64 { return p.EpsSU + (εc-p.EpsSU)*(d-ds)/(dc-ds) })
	}
	εB := p.EpsCU * (ds - dbot) / h
	for i := 0; i < n; i++ { // pivot B: concrete at εcu
		εs := p.EpsSU + (εB-p.EpsSU)*float64(i)/float64(n)
		planes = append(planes, func(d float64) float64 { return p.EpsCU + (εs-p.EpsCU)*(dc-d)/(dc-ds) })
	}
	for i := 0; i <= n; i++ { // pivot C: εc0 at 3/7 h (for εcu = -3.5‰)
		eb := p.EpsC0 * float64(i) / float64(n)
		planes = append(planes, func(d float64) float64 { return eb + (p.EpsC0-eb)*(d-dbot)/(dC-dbot) })
	}
	for _, ε := range planes {
		var N, Mz, My float64
		for _, f := range s.Fibers {
			d := (f.Y-s.Yref)*uy + (f.Z-s.Zref)*uz
			σ, _, e := f.Mdl.SetTrialStrain(ε(d))
			if e != nil {
				return nil, &DivergedError{f.Y, f.Z, ε(d), e}
			}
			N += σ * f.A
			Mz += σ * f.A * (s.Yref - f.Y)
			My -= σ * f.A * (s.Zref - f.Z)
		}
		res = append(res, [3]float64{N, My, Mz})
	}
	for _, f := range s.Fibers {
		f.Mdl.RevertToLastCommit()
	}
	return
}

// Diagram2D is a closed N-M interaction polygon
type Diagram2D struct {
	Comp Response     // RespMz or RespMy
	Pts  [][2]float64 // (N, M) counter-clockwise
	sc   [2]float64   // scale factors
}

// NewDiagram2D computes the N-M diagram of a section for bending in Mz
// (compressed side along ±y) or My (compressed side along ±z)
func NewDiagram2D(s *FiberSection, comp Response, p DiagramParams) (o *Diagram2D, err error) {
	if err = p.check(); err != nil {
		return
	}
	if comp != RespMz && comp != RespMy {
		return nil, chk.Err("2D diagram requires Mz or My; %v given", comp)
	}
	if comp == RespMy && s.Ndim == 2 {
		return nil, chk.Err("section %q is two-dimensional and has no My", s.Name)
	}
	c := s.Clone()
	uy, uz := 1.0, 0.0
	idx := 2
	if comp == RespMy {
		uy, uz, idx = 0, 1, 1
	}
	pos, err := ultimatePlanes(c, p, uy, uz)
	if err != nil {
		return
	}
	neg, err := ultimatePlanes(c, p, -uy, -uz)
	if err != nil {
		return
	}
	o = &Diagram2D{Comp: comp}
	for _, r := range pos {
		o.Pts = append(o.Pts, [2]float64{r[0], r[idx]})
	}
	for i := len(neg) - 1; i >= 0; i-- {
		o.Pts = append(o.Pts, [2]float64{neg[i][0], neg[i][idx]})
	}
	o.setScale()
	return
}

func (o *Diagram2D) setScale() {
	o.sc = [2]float64{1, 1}
	for _, p := range o.Pts {
		o.sc[0] = math.Max(o.sc[0], math.Abs(p[0]))
		o.sc[1] = math.Max(o.sc[1], math.Abs(p[1]))
	}
}

// Intercept returns the distance factor t such that t·(N,M) lies on the
// boundary; ok is false if the ray misses the polygon
func (o *Diagram2D) Intercept(N, M float64) (t float64, ok bool) {
	dx, dy := N/o.sc[0], M/o.sc[1]
	t = math.Inf(1)
	n := len(o.Pts)
	for i := 0; i < n; i++ {
		p, q := o.Pts[i], o.Pts[(i+1)%n]
		px, py := p[0]/o.sc[0], p[1]/o.sc[1]
		ex, ey := q[0]/o.sc[0]-px, q[1]/o.sc[1]-py
		den := dx*ey - dy*ex
		if math.Abs(den) < 1e-300 {
			continue
		}
		ti := (px*ey - py*ex) / den
		si := (px*dy - py*dx) / den
		if si >= -1e-10 && si <= 1+1e-10 && ti > 0 && ti < t {
			t, ok = ti, true
		}
	}
	return
}

// CapacityFactor returns ‖F‖/‖Γ‖ along the direction of F
func (o *Diagram2D) CapacityFactor(N, M float64) (cf float64, err error) {
	if N == 0 && M == 0 {
		return 0, nil
	}
	t, ok := o.Intercept(N, M)
	if !ok {
		return math.Inf(1), chk.Err("force (%g,%g) does not intersect the interaction diagram", N, M)
	}
	return 1.0 / t, nil
}

// Diagram3D is a closed N-My-Mz interaction surface
type Diagram3D struct {
	Pts  [][3]float64 // (N, My, Mz)
	Tris [][3]int     // triangles
	sc   [3]float64   // scale factors
}

// NewDiagram3D computes the interaction surface by sweeping the neutral axis direction
func NewDiagram3D(s *FiberSection, p DiagramParams) (o *Diagram3D, err error) {
	if err = p.check(); err != nil {
		return
	}
	if s.Ndim != 3 {
		return nil, chk.Err("section %q is two-dimensional; use NewDiagram2D", s.Name)
	}
	c := s.Clone()
	o = new(Diagram3D)
	var m int
	for k := 0; k < p.NAngles; k++ {
		φ := 2 * math.Pi * float64(k) / float64(p.NAngles)
		mer, e := ultimatePlanes(c, p, math.Cos(φ), math.Sin(φ))
		if e != nil {
			return nil, e
		}
		m = len(mer)
		o.Pts = append(o.Pts, mer...)
	}
	for k := 0; k < p.NAngles; k++ {
		a, b := k*m, ((k+1)%p.NAngles)*m
		for j := 0; j < m-1; j++ {
			o.Tris = append(o.Tris, [3]int{a + j, b + j, b + j + 1}, [3]int{a + j, b + j + 1, a + j + 1})
		}
	}
	o.sc = [3]float64{1, 1, 1}
	for _, q := range o.Pts {
		for i := 0; i < 3; i++ {
			o.sc[i] = math.Max(o.sc[i], math.Abs(q[i]))
		}
	}
	return
}

// Intercept returns t such that t·(N,My,Mz) lies on the surface
func (o *Diagram3D) Intercept(N, My, Mz float64) (t float64, ok bool) {
	d := [3]float64{N / o.sc[0], My / o.sc[1], Mz / o.sc[2]}
	t = math.Inf(1)
	sub := func(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
	cross := func(a, b [3]float64) [3]float64 {
		return [3]float64{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
	}
	dot := func(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
	scaled := func(i int) [3]float64 {
		p := o.Pts[i]
		return [3]float64{p[0] / o.sc[0], p[1] / o.sc[1], p[2] / o.sc[2]}
	}
	const tol = 1e-10
	for _, tri := range o.Tris {
		v0, v1, v2 := scaled(tri[0]), scaled(tri[1]), scaled(tri[2])
		e1, e2 := sub(v1, v0), sub(v2, v0)
		h := cross(d, e2)
		a := dot(e1, h)
		if math.Abs(a) < 1e-14 {
			continue
		}
		f := 1.0 / a
		s := sub([3]float64{}, v0)
		u := f * dot(s, h)
		if u < -tol || u > 1+tol {
			continue
		}
		q := cross(s, e1)
		v := f * dot(d, q)
		if v < -tol || u+v > 1+tol {
			continue
		}
		ti := f * dot(e2, q)
		if ti > 0 && ti < t {
			t, ok = ti, true
		}
	}
	return
}

// CapacityFactor returns ‖F‖/‖Γ‖ along the direction of F
func (o *Diagram3D) CapacityFactor(N, My, Mz float64) (cf float64, err error) {
	if N == 0 && My == 0 && Mz == 0 {
		return 0, nil
	}
	t, ok := o.Intercept(N, My, Mz)
	if !ok {
		return math.Inf(1), chk.Err("force (%g,%g,%g) does not intersect the interaction diagram", N, My, Mz)
	}
	return 1.0 / t, nil
}
