// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/inp"
)

// Integrator forms the tangent and the unbalance of one step and updates the
// solution with the increments found by the algorithm
type Integrator interface {
	Name() string
	Init(a *Analysis) error                // called once when the analysis is prepared
	SetFraction(f float64) bool            // scales the nominal increment; false if too small
	NewStep(a *Analysis) error             // predictor
	FormTangent(a *Analysis) error         // assembles the effective tangent into a.Sys
	FormUnbalance(a *Analysis) error       // computes the raw residual a.R
	Update(a *Analysis, x []float64) error // applies the system solution x
	Commit(a *Analysis) error              // accepts the step
}

// NewIntegrator returns an integrator
func NewIntegrator(dat *inp.IntegratorData) (Integrator, error) {
	switch dat.Type {
	case "load_control", "":
		dλ := dat.Dlambda
		return &LoadControl{Dλ: dλ, MinDλ: dat.MinDlambda, f: 1}, nil
	case "displacement_control":
		if dat.DU == 0 {
			return nil, chk.Err("displacement control requires a non-zero displacement increment")
		}
		return &DisplacementControl{Node: dat.Node, Dof: dat.Dof, DU: dat.DU, f: 1}, nil
	case "newmark":
		β, γ := dat.Beta, dat.Gamma
		if β <= 0 || γ <= 0 {
			return nil, chk.Err("newmark requires positive β and γ; β=%g γ=%g given", β, γ)
		}
		return &Newmark{Beta: β, Gamma: γ, AlphaM: dat.AlphaM, BetaK: dat.BetaK, f: 1}, nil
	case "eigen", "linear_buckling", "ill_conditioning":
		return &eigenIntegrator{LoadControl{Dλ: dat.Dlambda, MinDλ: dat.MinDlambda, f: 1}, dat.Type}, nil
	}
	return nil, chk.Err("cannot find integrator named %q", dat.Type)
}

// static /////////////////////////////////////////////////////////////////////////////////////////

// staticBase implements the static tangent and unbalance
type staticBase struct{}

func (staticBase) FormTangent(a *Analysis) error { return a.assembleK(1) }

func (staticBase) FormUnbalance(a *Analysis) error { return a.Dom.Residual(a.R) }

func (staticBase) Commit(a *Analysis) error {
	a.Dom.Commit()
	return nil
}

// LoadControl increments the load factor by a constant amount each step.
// Dλ = 0 re-solves the current load level
type LoadControl struct {
	staticBase
	Dλ    float64 // nominal increment
	MinDλ float64 // minimum increment
	f     float64 // current fraction of Dλ
}

func (o *LoadControl) Name() string { return "load_control" }

func (o *LoadControl) Init(a *Analysis) error { return nil }

func (o *LoadControl) SetFraction(f float64) bool {
	if f < 1 && math.Abs(f*o.Dλ) < o.MinDλ {
		return false
	}
	o.f = f
	return true
}

func (o *LoadControl) NewStep(a *Analysis) (err error) {
	λ := a.Dom.Lambda + o.f*o.Dλ
	if err = a.Dom.SetLoadFactor(λ); err != nil {
		return
	}
	a.Dom.Sol.T = λ
	a.Handler.Prescribe(a.Dom.Sol.Y)
	return a.Dom.UpdateElems()
}

func (o *LoadControl) Update(a *Analysis, x []float64) error { return a.applyIncrement(x, 1) }

// DisplacementControl finds the load factor that produces a prescribed
// increment of one displacement component
type DisplacementControl struct {
	staticBase
	Node int     // node tag
	Dof  int     // local dof
	DU   float64 // nominal displacement increment
	f    float64 // current fraction of DU

	eq  int       // raw equation of the controlled dof
	qf  []float64 // system load vector
	duf []float64 // system solution for the reference load
	dyf []float64 // raw solution for the reference load
	dyr []float64 // raw solution for the residual
	it  int       // iteration within the step
}

func (o *DisplacementControl) Name() string { return "displacement_control" }

func (o *DisplacementControl) Init(a *Analysis) (err error) {
	if o.eq, err = a.Dom.Eq(o.Node, o.Dof); err != nil {
		return
	}
	if len(a.Handler.Terms(o.eq)) == 0 {
		return chk.Err("displacement control: dof %d of node %d is constrained", o.Dof, o.Node)
	}
	o.qf = make([]float64, a.Handler.Neq())
	o.duf = make([]float64, a.Handler.Neq())
	o.dyf = make([]float64, a.Dom.Ny)
	o.dyr = make([]float64, a.Dom.Ny)
	return
}

func (o *DisplacementControl) SetFraction(f float64) bool {
	if f < 1.0/1024 {
		return false
	}
	o.f = f
	return true
}

func (o *DisplacementControl) NewStep(a *Analysis) (err error) {
	o.it = 0
	a.Handler.Prescribe(a.Dom.Sol.Y)
	if err = a.Dom.SetLoadFactor(a.Dom.Lambda); err != nil {
		return
	}
	return a.Dom.UpdateElems()
}

// Update solves for the reference load with the current factorization and
// combines both solutions so that the controlled dof follows the target
func (o *DisplacementControl) Update(a *Analysis, x []float64) (err error) {
	for i := range o.qf {
		o.qf[i] = 0
	}
	reduceVector(a.Handler, o.qf, a.Dom.Fref)
	if err = a.Sys.Solve(o.duf, o.qf); err != nil {
		return
	}
	a.Handler.Expand(o.dyf, o.duf)
	a.Handler.Expand(o.dyr, x)
	if o.dyf[o.eq] == 0 {
		return chk.Err("displacement control: reference load does not move dof %d of node %d", o.Dof, o.Node)
	}
	var dλ float64
	if o.it == 0 {
		dλ = (o.f*o.DU - o.dyr[o.eq]) / o.dyf[o.eq]
	} else {
		dλ = -o.dyr[o.eq] / o.dyf[o.eq]
	}
	o.it++
	for i := range x {
		x[i] += dλ * o.duf[i]
	}
	λ := a.Dom.Lambda + dλ
	if err = a.Dom.SetLoadFactor(λ); err != nil {
		return
	}
	a.Dom.Sol.T = λ
	return a.applyIncrement(x, 1)
}

// dynamic /////////////////////////////////////////////////////////////////////////////////////////

// Newmark implements the Newmark-β method with Rayleigh damping
//  C = αM·M + βK·K0
// where K0 is the initial stiffness
type Newmark struct {
	Beta, Gamma   float64 // Newmark coefficients
	AlphaM, BetaK float64 // Rayleigh coefficients
	f             float64 // current fraction of Δt

	c1, c2, c3 float64    // coefficients of K, C and M
	M          *rawMatrix // mass matrix
	K0         *rawMatrix // initial stiffness
}

func (o *Newmark) Name() string { return "newmark" }

func (o *Newmark) Init(a *Analysis) (err error) {
	if a.Proc.Analysis.Dt <= 0 {
		return chk.Err("newmark requires a positive time step")
	}
	o.M = newRawMatrix(a.Dom.Ny)
	if err = a.Dom.AssembleMass(o.M); err != nil {
		return
	}
	o.K0 = newRawMatrix(a.Dom.Ny)
	if o.BetaK != 0 {
		for _, e := range a.Dom.Elems {
			if err = e.AddToKb(o.K0, a.Dom.Sol, true); err != nil {
				return
			}
		}
	}
	if err = a.Dom.SetLoadFactor(1); err != nil {
		return
	}

	// initial accelerations from M·a0 = F - Fint - C·v0
	if err = o.initialAcceleration(a); err != nil {
		return
	}
	a.Dom.Commit()
	return
}

func (o *Newmark) initialAcceleration(a *Analysis) (err error) {
	sol := a.Dom.Sol
	if err = a.Dom.UpdateElems(); err != nil {
		return
	}
	if err = a.Dom.Residual(a.R); err != nil {
		return
	}
	o.damping(a.R, -1, sol.Dydt)
	a.Sys.Zero()
	red := reducer{a.Handler, a.Sys}
	nz := 0
	o.M.Each(func(i, j int, v float64) {
		red.Put(i, j, v)
		nz++
	})
	if nz == 0 {
		return chk.Err("newmark: mass matrix is zero")
	}
	for i := range a.B {
		a.B[i] = 0
	}
	reduceVector(a.Handler, a.B, a.R)
	if err = a.Sys.Factorize(); err != nil {
		// massless dofs: start from rest
		for i := range sol.D2ydt2 {
			sol.D2ydt2[i] = 0
		}
		copy(sol.D2ydt2c, sol.D2ydt2)
		return nil
	}
	if err = a.Sys.Solve(a.X, a.B); err != nil {
		return
	}
	a.Handler.Expand(sol.D2ydt2, a.X)
	copy(sol.D2ydt2c, sol.D2ydt2)
	return
}

func (o *Newmark) SetFraction(f float64) bool {
	if f < 1.0/1024 {
		return false
	}
	o.f = f
	return true
}

// damping computes y += a·C·v
func (o *Newmark) damping(y []float64, a float64, v []float64) {
	if o.AlphaM != 0 {
		o.M.MulVec(y, a*o.AlphaM, v)
	}
	if o.BetaK != 0 {
		o.K0.MulVec(y, a*o.BetaK, v)
	}
}

func (o *Newmark) NewStep(a *Analysis) (err error) {
	sol := a.Dom.Sol
	Δt := o.f * a.Proc.Analysis.Dt
	sol.Dt = Δt
	o.c1 = 1
	o.c2 = o.Gamma / (o.Beta * Δt)
	o.c3 = 1 / (o.Beta * Δt * Δt)

	// predictor with unchanged displacements
	for i := range sol.Y {
		v, acc := sol.Dydtc[i], sol.D2ydt2c[i]
		sol.Dydt[i] = (1-o.Gamma/o.Beta)*v + Δt*(1-o.Gamma/(2*o.Beta))*acc
		sol.D2ydt2[i] = -v/(o.Beta*Δt) + (1-1/(2*o.Beta))*acc
	}
	sol.T = sol.Tc + Δt
	a.Handler.Prescribe(sol.Y)
	return a.Dom.UpdateElems()
}

func (o *Newmark) FormTangent(a *Analysis) (err error) {
	if err = a.assembleK(o.c1); err != nil {
		return
	}
	red := reducer{a.Handler, a.Sys}
	cm := o.c3 + o.c2*o.AlphaM
	o.M.Each(func(i, j int, v float64) { red.Put(i, j, cm*v) })
	if o.BetaK != 0 {
		ck := o.c2 * o.BetaK
		o.K0.Each(func(i, j int, v float64) { red.Put(i, j, ck*v) })
	}
	return
}

func (o *Newmark) FormUnbalance(a *Analysis) (err error) {
	sol := a.Dom.Sol
	if err = a.Dom.Residual(a.R); err != nil {
		return
	}
	o.M.MulVec(a.R, -1, sol.D2ydt2)
	o.damping(a.R, -1, sol.Dydt)
	return
}

func (o *Newmark) Update(a *Analysis, x []float64) (err error) {
	sol := a.Dom.Sol
	a.expand(x, 1)
	for i, d := range a.Dy {
		sol.Y[i] += d
		sol.ΔY[i] += d
		sol.Dydt[i] += o.c2 * d
		sol.D2ydt2[i] += o.c3 * d
	}
	return a.Dom.UpdateElems()
}

func (o *Newmark) Commit(a *Analysis) error {
	a.Dom.Commit()
	return nil
}

// eigen ///////////////////////////////////////////////////////////////////////////////////////////

// eigenIntegrator assembles the matrices of eigen problems; its static part
// is a load control used by linear buckling analyses
type eigenIntegrator struct {
	LoadControl
	kind string
}

func (o *eigenIntegrator) Name() string { return o.kind }
