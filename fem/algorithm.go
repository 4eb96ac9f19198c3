// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/engthiago/xc-sub000/inp"
)

// Algorithm solves the equations of one step
type Algorithm interface {
	Name() string
	SolveStep(a *Analysis) error // iterates until the convergence test is satisfied
}

// NewAlgorithm returns a solution algorithm
func NewAlgorithm(dat *inp.AlgorithmData) (Algorithm, error) {
	switch dat.Type {
	case "linear":
		return linear{}, nil
	case "newton_raphson", "":
		return &newton{}, nil
	case "modified_newton":
		return &newton{modified: true}, nil
	case "newton_line_search":
		ls, err := newLineSearch(dat)
		if err != nil {
			return nil, err
		}
		return &newton{ls: ls}, nil
	case "krylov_newton":
		if dat.MaxDim < 1 {
			return nil, chk.Err("krylov_newton requires maxdim > 0")
		}
		return &krylovNewton{maxDim: dat.MaxDim}, nil
	}
	return nil, chk.Err("cannot find solution algorithm named %q", dat.Type)
}

// maxIterError sets the analysis state and returns the error of a step that
// did not converge
func maxIterError(a *Analysis) error {
	a.State = StateMaxIterReached
	return fmt.Errorf("%w: %s = %g after %d iterations", ErrConvergence, a.Test.Name(), a.Norm, a.Test.MaxIt())
}

// linear //////////////////////////////////////////////////////////////////////////////////////////

// linear solves each step once, without checking convergence
type linear struct{}

func (linear) Name() string { return "linear" }

func (linear) SolveStep(a *Analysis) (err error) {
	if err = a.formUnbalance(); err != nil {
		return
	}
	if err = a.formTangent(); err != nil {
		return
	}
	if err = a.solve(); err != nil {
		return
	}
	a.Nits++
	if err = a.Integ.Update(a, a.X); err != nil {
		return
	}
	return a.formUnbalance()
}

// Newton-Raphson //////////////////////////////////////////////////////////////////////////////////

// newton implements the Newton-Raphson method. The modified variant keeps
// the tangent of the first iteration; with a line search the correction is
// scaled by the step length found along the Newton direction
type newton struct {
	modified bool
	ls       lineSearch
}

func (o *newton) Name() string {
	switch {
	case o.modified:
		return "modified_newton"
	case o.ls != nil:
		return "newton_line_search"
	}
	return "newton_raphson"
}

func (o *newton) SolveStep(a *Analysis) (err error) {
	if err = a.formUnbalance(); err != nil {
		return
	}
	for it := 0; it < a.Test.MaxIt(); it++ {
		if it == 0 || !o.modified {
			if err = a.formTangent(); err != nil {
				return
			}
		}
		if err = a.solve(); err != nil {
			return
		}
		a.Nits++
		if o.ls == nil {
			if err = a.Integ.Update(a, a.X); err != nil {
				return
			}
			if err = a.formUnbalance(); err != nil {
				return
			}
		} else {
			if err = o.search(a); err != nil {
				return
			}
		}
		converged, err := a.check(it)
		if err != nil {
			return err
		}
		if converged {
			return nil
		}
	}
	return maxIterError(a)
}

// search applies the Newton correction a.X scaled by the step length
func (o *newton) search(a *Analysis) (err error) {
	dx := append([]float64{}, a.X...)
	s0 := floats.Dot(dx, a.B)
	if err = a.Integ.Update(a, dx); err != nil {
		return
	}
	if err = a.formUnbalance(); err != nil {
		return
	}
	if s0 == 0 {
		return
	}
	p := &lsProblem{a: a, dx: dx, s0: s0, s: floats.Dot(dx, a.B), eta: 1, tmp: make([]float64, len(dx))}
	if math.Abs(p.s/s0) <= o.ls.tol() {
		return
	}
	if err = o.ls.search(p); err != nil {
		return
	}
	a.Handler.Expand(a.Dy, dx)
	floats.Scale(p.eta, a.Dy)
	if a.Verbose {
		io.Pf("  line search (%s): η = %g\n", o.ls.name(), p.eta)
	}
	return
}

// line search //////////////////////////////////////////////////////////////////////////////////////

// line search bounds
const (
	lsMinEta = 0.1
	lsMaxEta = 10.0
)

// lsProblem holds the state of one line search along dx. s(η) = dx·b(η)
type lsProblem struct {
	a   *Analysis
	dx  []float64 // Newton direction
	s0  float64   // s(0)
	s   float64   // s(eta)
	eta float64   // current step length
	tmp []float64 // scaled increment
}

// moveTo changes the step length to η and recomputes s
func (o *lsProblem) moveTo(η float64) (err error) {
	for i, v := range o.dx {
		o.tmp[i] = (η - o.eta) * v
	}
	if err = o.a.Integ.Update(o.a, o.tmp); err != nil {
		return
	}
	if err = o.a.formUnbalance(); err != nil {
		return
	}
	o.eta = η
	o.s = floats.Dot(o.dx, o.a.B)
	return
}

// clamp limits η to the allowed range
func clamp(η float64) float64 {
	return math.Max(lsMinEta, math.Min(lsMaxEta, η))
}

// lineSearch finds the step length along the Newton direction
type lineSearch interface {
	name() string
	tol() float64
	search(p *lsProblem) error
}

func newLineSearch(dat *inp.AlgorithmData) (lineSearch, error) {
	b := lsBase{tolerance: dat.LsTol, maxIt: dat.LsMaxIt}
	if b.tolerance <= 0 {
		b.tolerance = 0.8
	}
	if b.maxIt < 1 {
		b.maxIt = 10
	}
	switch dat.LineSearch {
	case "initial_interpolated", "":
		return &interpolatedLS{b}, nil
	case "secant":
		return &secantLS{b}, nil
	case "regula_falsi":
		return &bracketLS{lsBase: b, bisection: false}, nil
	case "bisection":
		return &bracketLS{lsBase: b, bisection: true}, nil
	}
	return nil, chk.Err("cannot find line search named %q", dat.LineSearch)
}

type lsBase struct {
	tolerance float64
	maxIt     int
}

func (o lsBase) tol() float64 { return o.tolerance }

// interpolatedLS interpolates linearly between s(0) and the last s
type interpolatedLS struct{ lsBase }

func (o *interpolatedLS) name() string { return "initial_interpolated" }

func (o *interpolatedLS) search(p *lsProblem) (err error) {
	r0 := math.Abs(p.s / p.s0)
	r := r0
	for k := 0; k < o.maxIt && r > o.tolerance; k++ {
		η := clamp(p.eta * p.s0 / (p.s0 - p.s))
		if r > r0 {
			η = 1
		}
		if err = p.moveTo(η); err != nil {
			return
		}
		r = math.Abs(p.s / p.s0)
	}
	return
}

// secantLS uses the secant through the last two points
type secantLS struct{ lsBase }

func (o *secantLS) name() string { return "secant" }

func (o *secantLS) search(p *lsProblem) (err error) {
	r0 := math.Abs(p.s / p.s0)
	r := r0
	ηprev, sprev := 0.0, p.s0
	for k := 0; k < o.maxIt && r > o.tolerance; k++ {
		if p.s == sprev {
			return
		}
		η := clamp(p.eta - p.s*(ηprev-p.eta)/(sprev-p.s))
		if r > r0 {
			η = 1
		}
		ηprev, sprev = p.eta, p.s
		if err = p.moveTo(η); err != nil {
			return
		}
		r = math.Abs(p.s / p.s0)
	}
	return
}

// bracketLS keeps an interval where s changes sign and shrinks it by
// bisection or by the regula falsi. Nothing is done without a sign change
type bracketLS struct {
	lsBase
	bisection bool
}

func (o *bracketLS) name() string {
	if o.bisection {
		return "bisection"
	}
	return "regula_falsi"
}

func (o *bracketLS) search(p *lsProblem) (err error) {
	ηL, sL := 0.0, p.s0
	ηU, sU := p.eta, p.s
	if sL*sU > 0 {
		return
	}
	r := math.Abs(p.s / p.s0)
	for k := 0; k < o.maxIt && r > o.tolerance; k++ {
		var η float64
		if o.bisection {
			η = (ηL + ηU) / 2
		} else {
			η = ηU - sU*(ηL-ηU)/(sL-sU)
		}
		if err = p.moveTo(η); err != nil {
			return
		}
		if p.s*sU < 0 {
			ηL, sL = η, p.s
		} else {
			ηU, sU = η, p.s
		}
		r = math.Abs(p.s / p.s0)
	}
	return
}

// Krylov-Newton ///////////////////////////////////////////////////////////////////////////////////

// krylovNewton accelerates the modified Newton method with a least-squares
// correction over the subspace of the last maxDim corrections
type krylovNewton struct {
	maxDim int
	v      [][]float64 // corrections
	av     [][]float64 // preconditioned tangent times the corrections
}

func (o *krylovNewton) Name() string { return "krylov_newton" }

func (o *krylovNewton) SolveStep(a *Analysis) (err error) {
	o.v, o.av = o.v[:0], o.av[:0]
	if err = a.formUnbalance(); err != nil {
		return
	}
	if err = a.formTangent(); err != nil {
		return
	}
	var fprev []float64
	for it := 0; it < a.Test.MaxIt(); it++ {
		if err = a.solve(); err != nil {
			return
		}
		a.Nits++
		f := append([]float64{}, a.X...)
		if fprev != nil {
			av := make([]float64, len(f))
			floats.SubTo(av, fprev, f)
			o.av = append(o.av, av)
		}
		if len(o.v) >= o.maxDim || len(o.v) > len(f) {
			o.v, o.av = o.v[:0], o.av[:0]
		}
		d := o.correction(f)
		o.v = append(o.v, d)
		fprev = f
		if err = a.Integ.Update(a, d); err != nil {
			return
		}
		if err = a.formUnbalance(); err != nil {
			return
		}
		converged, err := a.check(it)
		if err != nil {
			return err
		}
		if converged {
			return nil
		}
	}
	return maxIterError(a)
}

// correction computes d = f + Σ cᵢ·(vᵢ - avᵢ) with c minimising |f - AV·c|
func (o *krylovNewton) correction(f []float64) (d []float64) {
	d = append([]float64{}, f...)
	k := len(o.av)
	if k == 0 {
		return
	}
	n := len(f)
	AV := mat.NewDense(n, k, nil)
	for j, col := range o.av {
		AV.SetCol(j, col)
	}
	var c mat.Dense
	if err := c.Solve(AV, mat.NewDense(n, 1, append([]float64{}, f...))); err != nil {
		o.v, o.av = o.v[:0], o.av[:0]
		return
	}
	for j := 0; j < k; j++ {
		cj := c.At(j, 0)
		for i := range d {
			d[i] += cj * (o.v[j][i] - o.av[j][i])
		}
	}
	return
}
