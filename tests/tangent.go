// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements structural scenarios and checkers of consistent tangents
package tests

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/sec"
)

// Kb helps on checking element Jacobians against central differences of
// the internal forces. Values are scaled by the largest analytical entry
type Kb struct {
	Tst  *testing.T // testing structure
	Tol  float64    // tolerance to compare K's
	Step float64    // step for finite differences method; 1e-6 if zero
	Verb bool       // verbose: show results

	// derived
	fb []float64 // auxiliary array
}

// sqAssembler is a square dense matrix
type sqAssembler [][]float64

func (o sqAssembler) Put(i, j int, v float64) { o[i][j] += v }

// Element checks the Jacobian of element tag in the current state of the
// domain. The domain must be numbered; its state is left unchanged
func (o *Kb) Element(d *fem.Domain, tag int) {
	e, err := d.Elem(tag)
	if err != nil {
		o.Tst.Errorf("%v\n", err)
		return
	}
	var idx int
	for k, el := range d.Elems {
		if el == e {
			idx = k
		}
	}
	var eqs []int
	for _, n := range d.ElemNodes[idx] {
		eqs = append(eqs, d.Nodes[n].Eqs...)
	}

	// analytical
	K := make(sqAssembler, d.Ny)
	for i := range K {
		K[i] = make([]float64, d.Ny)
	}
	if err = e.Update(d.Sol); err != nil {
		o.Tst.Errorf("Update failed:\n%v", err)
		return
	}
	if err = e.AddToKb(K, d.Sol, false); err != nil {
		o.Tst.Errorf("AddToKb failed:\n%v", err)
		return
	}
	scale := 0.0
	for _, I := range eqs {
		for _, J := range eqs {
			scale = math.Max(scale, math.Abs(K[I][J]))
		}
	}
	if scale == 0 {
		scale = 1
	}

	// numerical
	h := o.Step
	if h < 1e-14 {
		h = 1e-6
	}
	y0 := append([]float64{}, d.Sol.Y...)
	x0 := make([]float64, len(eqs))
	for j, J := range eqs {
		x0[j] = y0[J]
	}
	o.fb = make([]float64, d.Ny)
	Knum := mat.NewDense(len(eqs), len(eqs), nil)
	fd.Jacobian(Knum, func(fint, x []float64) {
		for j, J := range eqs {
			d.Sol.Y[J] = x[j]
		}
		for k := range o.fb {
			o.fb[k] = 0
		}
		if err := e.Update(d.Sol); err != nil {
			chk.Panic("tangent: cannot update element %d:\n%v", tag, err)
		}
		if err := e.AddToRhs(o.fb, d.Sol); err != nil {
			chk.Panic("tangent: cannot compute internal forces of element %d:\n%v", tag, err)
		}
		for i, I := range eqs {
			fint[i] = -o.fb[I]
		}
	}, x0, &fd.JacobianSettings{Formula: fd.Central, Step: h})
	copy(d.Sol.Y, y0)
	for i, I := range eqs {
		for j, J := range eqs {
			chk.AnaNum(o.Tst, io.Sf("%s%d: K%3d%3d", e.Type(), tag, i, j), o.Tol, K[I][J]/scale, Knum.At(i, j)/scale, o.Verb)
		}
	}
	if err = e.Update(d.Sol); err != nil {
		o.Tst.Errorf("Update failed:\n%v", err)
	}
}

// Section checks the tangent of a fiber section at deformation e against
// central differences of the stress resultant. The trial state of the
// section is set to e upon return
func (o *Kb) Section(s *sec.FiberSection, e []float64) {
	if err := s.SetTrialDeformation(e); err != nil {
		o.Tst.Errorf("SetTrialDeformation failed:\n%v", err)
		return
	}
	n := len(e)
	K := make([][]float64, n)
	for i, row := range s.Tangent() {
		K[i] = append([]float64{}, row...)
	}
	h := o.Step
	if h < 1e-14 {
		h = 1e-9
	}
	Knum := mat.NewDense(n, n, nil)
	fd.Jacobian(Knum, func(r, x []float64) {
		if err := s.SetTrialDeformation(x); err != nil {
			chk.Panic("tangent: section %q rejected deformation %v:\n%v", s.Name, x, err)
		}
		copy(r, s.Resultant())
	}, e, &fd.JacobianSettings{Formula: fd.Central, Step: h})
	codes := s.Codes()
	for i := 0; i < n; i++ {
		scale := math.Max(math.Abs(K[i][i]), 1)
		for j := 0; j < n; j++ {
			chk.AnaNum(o.Tst, io.Sf("%s: d%v/d%v", s.Name, codes[i], codes[j]), o.Tol, K[i][j]/scale, Knum.At(i, j)/scale, o.Verb)
		}
	}
	if err := s.SetTrialDeformation(e); err != nil {
		o.Tst.Errorf("SetTrialDeformation failed:\n%v", err)
	}
}

// Elements checks the Jacobians of all elements of a domain
func (o *Kb) Elements(d *fem.Domain) {
	for _, e := range d.Elems {
		o.Element(d, e.Id())
	}
}
