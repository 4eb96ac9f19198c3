// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"

	"github.com/engthiago/xc-sub000/inp"
)

// ConvTest decides when the iterations of one step have converged
type ConvTest interface {
	Name() string
	Start()                                           // called at the beginning of each step
	Check(a *Analysis) (converged bool, norm float64) // called after each update
	MaxIt() int
}

// NewConvTest returns a convergence test
func NewConvTest(dat *inp.TestData) (ConvTest, error) {
	if dat.Tol <= 0 || dat.MaxIt < 1 {
		return nil, chk.Err("convergence test requires tol > 0 and maxit > 0; tol=%g maxit=%d given", dat.Tol, dat.MaxIt)
	}
	base := testBase{tol: dat.Tol, maxIt: dat.MaxIt}
	switch dat.Type {
	case "norm_unbalance", "":
		return &normUnbalance{testBase: base}, nil
	case "norm_disp_incr":
		return &normDispIncr{base}, nil
	case "energy_incr":
		return &energyIncr{base}, nil
	case "relative_total_norm_disp_incr":
		return &relTotalNormDispIncr{testBase: base}, nil
	}
	return nil, chk.Err("cannot find convergence test named %q", dat.Type)
}

type testBase struct {
	tol   float64
	maxIt int
}

func (o testBase) MaxIt() int { return o.maxIt }

// normUnbalance compares the norm of the unbalance with tol·max(1, |Fc + λ·F|).
// Penalty forces are not part of the unbalance
type normUnbalance struct {
	testBase
	r []float64
}

func (o *normUnbalance) Name() string { return "norm_unbalance" }
func (o *normUnbalance) Start()       {}

func (o *normUnbalance) Check(a *Analysis) (bool, float64) {
	b := a.B
	if h, ok := a.Handler.(withConstraintForces); ok {
		if len(o.r) != len(a.R) {
			o.r = make([]float64, len(a.R))
		}
		h.unbalance(o.r, a.R)
		b = o.r
	}
	norm := floats.Norm(b, 2)
	var f float64
	for i, v := range a.Dom.Fref {
		f += math.Pow(a.Dom.Fconst[i]+a.Dom.Lambda*v, 2)
	}
	scale := math.Max(1, math.Sqrt(f))
	return norm <= o.tol*scale, norm
}

// normDispIncr compares the norm of the displacement increment with tol
type normDispIncr struct{ testBase }

func (o *normDispIncr) Name() string { return "norm_disp_incr" }
func (o *normDispIncr) Start()       {}

func (o *normDispIncr) Check(a *Analysis) (bool, float64) {
	norm := floats.Norm(a.Dy, 2)
	return norm <= o.tol, norm
}

// energyIncr compares ½|Δy·b| with tol, b being the unbalance that produced Δy
type energyIncr struct{ testBase }

func (o *energyIncr) Name() string { return "energy_incr" }
func (o *energyIncr) Start()       {}

func (o *energyIncr) Check(a *Analysis) (bool, float64) {
	return a.energy <= o.tol, a.energy
}

// relTotalNormDispIncr compares the norm of the current increment with the
// sum of the norms of all increments of the step
type relTotalNormDispIncr struct {
	testBase
	total float64
}

func (o *relTotalNormDispIncr) Name() string { return "relative_total_norm_disp_incr" }
func (o *relTotalNormDispIncr) Start()       { o.total = 0 }

func (o *relTotalNormDispIncr) Check(a *Analysis) (bool, float64) {
	norm := floats.Norm(a.Dy, 2)
	o.total += norm
	if o.total == 0 {
		return true, 0
	}
	r := norm / o.total
	return r <= o.tol, r
}
