// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/floats"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/inp"
)

// State holds the state of an analysis
type State int

// analysis states
const (
	StateIdle State = iota
	StatePrepared
	StateRunning
	StateConverged
	StateDiverged
	StateMaxIterReached
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrepared:
		return "prepared"
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateDiverged:
		return "diverged"
	case StateMaxIterReached:
		return "maxIterReached"
	}
	return io.Sf("State(%d)", int(s))
}

// Analysis aggregates the components of a solution procedure and drives the
// solution of one domain
type Analysis struct {

	// components
	Dom      *Domain            // the domain; owned exclusively while running
	Proc     *inp.ProcedureData // procedure data
	Handler  Handler            // constraint handler
	Numberer Numberer           // numberer
	Sys      System             // system of equations
	Integ    Integrator         // integrator
	Algo     Algorithm          // solution algorithm
	Test     ConvTest           // convergence test
	State    State              // current state
	Verbose  bool               // show messages
	Eigen    *EigenResult       // results of the last eigen analysis

	// workspace
	R  []float64 // raw residual [ny]
	B  []float64 // right-hand side of the system [neq]
	X  []float64 // solution of the system [neq]
	Dy []float64 // raw increment of the last update [ny]

	// statistics
	Nsteps    int     // number of converged (sub)steps
	Nits      int     // total number of iterations
	Nhalvings int     // total number of step halvings
	Norm      float64 // last value computed by the convergence test

	// auxiliary
	energy float64    // ½|x·b| of the last solution
	mass   *rawMatrix // mass matrix of the last modal analysis
}

// NewAnalysis allocates the components of a solution procedure
func NewAnalysis(dom *Domain, proc *inp.ProcedureData) (o *Analysis, err error) {
	if dom == nil || proc == nil {
		return nil, chk.Err("analysis requires a domain and a procedure")
	}
	o = &Analysis{Dom: dom, Proc: proc, Verbose: proc.Verbose}
	if o.Handler, err = NewHandler(&proc.Handler); err != nil {
		return
	}
	if o.Numberer, err = NewNumberer(proc.Numberer); err != nil {
		return
	}
	if o.Sys, err = NewSystem(proc.System); err != nil {
		return
	}
	if o.Integ, err = NewIntegrator(&proc.Integrator); err != nil {
		return
	}
	if o.Algo, err = NewAlgorithm(&proc.Algorithm); err != nil {
		return
	}
	if o.Test, err = NewConvTest(&proc.Test); err != nil {
		return
	}
	switch proc.Analysis.Type {
	case "static_analysis", "":
		if _, ok := o.Integ.(*Newmark); ok {
			return nil, chk.Err("static analysis cannot use the %q integrator", o.Integ.Name())
		}
	case "direct_integration_analysis":
		if _, ok := o.Integ.(*Newmark); !ok {
			return nil, chk.Err("direct integration analysis requires the newmark integrator; %q given", o.Integ.Name())
		}
	case "modal_analysis", "ill_conditioning_analysis", "linear_buckling_analysis":
		if !o.Handler.Eigen() {
			return nil, chk.Err("%s cannot use the %q constraint handler", proc.Analysis.Type, o.Handler.Name())
		}
	default:
		return nil, chk.Err("cannot find analysis type named %q", proc.Analysis.Type)
	}
	return
}

// Prepare numbers the domain, sets the constraints up and allocates the
// system of equations. It is called by Analyze when the analysis is idle
func (o *Analysis) Prepare() (err error) {
	if !o.Dom.Ready() {
		if err = o.Dom.Number(o.Numberer); err != nil {
			return
		}
	}
	if err = o.Handler.Setup(o.Dom); err != nil {
		return
	}
	neq := o.Handler.Neq()

	// couplings between system equations
	groups := o.Handler.Groups()
	for _, verts := range o.Dom.ElemNodes {
		var g []int
		for _, n := range verts {
			for _, I := range o.Dom.Nodes[n].Eqs {
				for _, t := range o.Handler.Terms(I) {
					g = append(g, t.Eq)
				}
			}
		}
		groups = append(groups, g)
	}
	if err = o.Sys.Init(neq, groups); err != nil {
		return
	}
	o.R = make([]float64, o.Dom.Ny)
	o.B = make([]float64, neq)
	o.X = make([]float64, neq)
	o.Dy = make([]float64, o.Dom.Ny)
	if err = o.Dom.SetLoadFactor(o.Dom.Lambda); err != nil {
		return
	}
	if err = o.Integ.Init(o); err != nil {
		return
	}
	o.State = StatePrepared
	if o.Verbose {
		io.Pf("> analysis prepared: %s handler, %s numberer, %s system, %d equations\n", o.Handler.Name(), o.Numberer.Name(), o.Sys.Name(), neq)
	}
	return
}

// Reset returns the analysis to the idle state; the next call to Analyze
// prepares it again. Used after constraints or elements change
func (o *Analysis) Reset() {
	o.State = StateIdle
}

// Analyze runs nsteps steps of the analysis. Eigen analyses compute
// Proc.Analysis.NumModes modes; linear buckling runs its static part first.
// The context is observed between (sub)steps
func (o *Analysis) Analyze(ctx context.Context, nsteps int) (err error) {
	if o.State == StateIdle {
		if err = o.Prepare(); err != nil {
			return
		}
	}
	cputime := time.Now()
	defer func() {
		if o.Verbose {
			if err == nil {
				io.PfGreen("> analysis %s: %d steps, %d iterations, %d halvings, cpu time = %v\n", o.State, o.Nsteps, o.Nits, o.Nhalvings, time.Since(cputime))
			} else {
				io.PfRed("> analysis failed (%s): %v\n", o.State, err)
			}
		}
	}()
	switch o.Proc.Analysis.Type {
	case "modal_analysis":
		return o.modal(o.Proc.Analysis.NumModes)
	case "ill_conditioning_analysis":
		return o.illConditioning(o.Proc.Analysis.NumModes)
	case "linear_buckling_analysis":
		if err = o.runSteps(ctx, nsteps); err != nil {
			return
		}
		return o.buckling(o.Proc.Analysis.NumModes)
	}
	return o.runSteps(ctx, nsteps)
}

// runSteps runs nsteps steps with step halving
func (o *Analysis) runSteps(ctx context.Context, nsteps int) (err error) {
	for step := 0; step < nsteps; step++ {
		if err = o.runStep(ctx, step); err != nil {
			return
		}
	}
	return
}

// retryable tells whether a failed step may be repeated with a smaller increment
func retryable(err error) bool {
	return errors.Is(err, ErrConvergence) || errors.Is(err, ErrMaterialDiverged) || errors.Is(err, ErrSingularSystem)
}

// runStep runs one step, splitting it into halved substeps when the
// iterations fail
func (o *Analysis) runStep(ctx context.Context, step int) (err error) {
	f, done := 1.0, 0.0
	nhalf := 0
	for done < 1-1e-12 {

		// cancellation
		if e := ctx.Err(); e != nil {
			if err = o.Dom.RevertToLastCommit(); err != nil {
				return
			}
			o.State = StatePrepared
			return fmt.Errorf("%w: step %d: %v", ErrCancelled, step, e)
		}

		// substep
		sub := math.Min(f, 1-done)
		if !o.Integ.SetFraction(sub) {
			o.State = StateDiverged
			return fmt.Errorf("%w: step %d: increment cannot be reduced further after %d halvings", ErrConvergence, step, nhalf)
		}
		err = o.solveStep()
		if err == nil {
			if err = o.Integ.Commit(o); err != nil {
				return
			}
			o.Nsteps++
			done += sub
			continue
		}

		// halve
		if !retryable(err) {
			return
		}
		if e := o.Dom.RevertToLastCommit(); e != nil {
			return fmt.Errorf("%w: step %d: cannot revert: %v", ErrConvergence, step, e)
		}
		if nhalf >= o.Proc.Analysis.MaxHalvings {
			if errors.Is(err, ErrConvergence) {
				return fmt.Errorf("step %d failed after %d halvings: %w", step, nhalf, err)
			}
			return fmt.Errorf("%w: step %d failed after %d halvings: %w", ErrConvergence, step, nhalf, err)
		}
		if o.Verbose {
			io.Pforan("> step %d: halving increment (fraction %g): %v\n", step, sub/2, err)
		}
		f = sub / 2
		nhalf++
		o.Nhalvings++
	}
	o.Integ.SetFraction(1)
	return nil
}

// solveStep runs the predictor and the algorithm of one (sub)step
func (o *Analysis) solveStep() (err error) {
	o.State = StateRunning
	o.Test.Start()
	if err = o.Integ.NewStep(o); err != nil {
		o.State = StateDiverged
		return
	}
	if err = o.Algo.SolveStep(o); err != nil {
		if o.State == StateRunning {
			o.State = StateDiverged
		}
		return
	}
	o.State = StateConverged
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// assembleK assembles c·K and the constraint terms into the system
func (o *Analysis) assembleK(c float64) (err error) {
	o.Sys.Zero()
	red := reducer{o.Handler, scaled{o.Sys, c}}
	firstIt := o.Dom.Sol.T == o.Dom.Sol.Tc
	for _, e := range o.Dom.Elems {
		if err = e.AddToKb(red, o.Dom.Sol, firstIt); err != nil {
			return classify(err)
		}
	}
	o.Handler.AddToSystem(o.Sys, nil, o.Dom.Sol.Y)
	return
}

// formTangent assembles and factorizes the effective tangent
func (o *Analysis) formTangent() (err error) {
	if err = o.Integ.FormTangent(o); err != nil {
		return
	}
	return o.Sys.Factorize()
}

// formUnbalance computes the raw residual and the right-hand side of the system
func (o *Analysis) formUnbalance() (err error) {
	if err = o.Integ.FormUnbalance(o); err != nil {
		return classify(err)
	}
	for i := range o.B {
		o.B[i] = 0
	}
	reduceVector(o.Handler, o.B, o.R)
	o.Handler.AddToSystem(nil, o.B, o.Dom.Sol.Y)
	return
}

// solve solves the system with the last factorization
func (o *Analysis) solve() (err error) {
	if err = o.Sys.Solve(o.X, o.B); err != nil {
		return
	}
	if floats.HasNaN(o.X) {
		return fmt.Errorf("%s: %w: solution has NaN entries", o.Sys.Name(), ErrSingularSystem)
	}
	o.energy = 0.5 * math.Abs(floats.Dot(o.X, o.B))
	return
}

// check runs the convergence test
func (o *Analysis) check(it int) (converged bool, err error) {
	converged, o.Norm = o.Test.Check(o)
	if o.Proc.Test.PrintFlag > 0 {
		io.Pf("  it=%3d  %s = %13.6e\n", it, o.Test.Name(), o.Norm)
	}
	if math.IsNaN(o.Norm) || math.IsInf(o.Norm, 0) {
		o.State = StateDiverged
		return false, fmt.Errorf("%w: %s is %g at iteration %d", ErrConvergence, o.Test.Name(), o.Norm, it)
	}
	return
}

// expand computes Dy = η·x over the raw equations and accumulates the
// multipliers of the handler
func (o *Analysis) expand(x []float64, η float64) {
	o.Handler.Expand(o.Dy, x)
	if η != 1 {
		floats.Scale(η, o.Dy)
	}
	if h, ok := o.Handler.(withMultipliers); ok {
		h.accumulate(x, η)
	}
}

// applyIncrement adds η·x to the displacements and updates the elements
func (o *Analysis) applyIncrement(x []float64, η float64) error {
	o.expand(x, η)
	floats.Add(o.Dom.Sol.Y, o.Dy)
	floats.Add(o.Dom.Sol.ΔY, o.Dy)
	return o.Dom.UpdateElems()
}

// scaled multiplies the entries sent to an assembler
type scaled struct {
	A ele.Assembler
	c float64
}

func (o scaled) Put(i, j int, v float64) { o.A.Put(i, j, o.c*v) }
