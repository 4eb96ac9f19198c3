// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/inp"
)

// chain returns two springs in series along x with masses m at the free nodes:
//
//   1 --k-- 2(m) --k-- 3(m)
//
func chain(tst *testing.T, k, m float64) (d *Domain) {
	d = NewDomain(2)
	for i := 1; i <= 3; i++ {
		fatal(tst, "AddNode", d.AddNode(i, 2, float64(i-1), 0))
	}
	addTruss(tst, d, 1, 1, 2, newLaw(tst, "elastic", "E", k), 1)
	addTruss(tst, d, 2, 2, 3, newLaw(tst, "elastic", "E", k), 1)
	fatal(tst, "Fix", d.Fix(1, "00"))
	fatal(tst, "Fix", d.Fix(2, "F0"))
	fatal(tst, "Fix", d.Fix(3, "F0"))
	fatal(tst, "SetMass", d.SetMass(2, m))
	fatal(tst, "SetMass", d.SetMass(3, m))
	return
}

func Test_dynamic01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("dynamic01. Newmark: step load on a single dof oscillator")

	// u(t) = P/k·(1 - cos ω·t)
	k, m, P := 1000.0, 10.0, 1.0
	ω := math.Sqrt(k / m)
	T := 2 * math.Pi / ω
	d := NewDomain(2)
	fatal(tst, "AddNode", d.AddNode(1, 2, 0, 0))
	fatal(tst, "AddNode", d.AddNode(2, 2, 1, 0))
	addTruss(tst, d, 1, 1, 2, newLaw(tst, "elastic", "E", k), 1)
	fatal(tst, "Fix", d.Fix(1, "00"))
	fatal(tst, "Fix", d.Fix(2, "F0"))
	fatal(tst, "SetMass", d.SetMass(2, m))
	fatal(tst, "pattern", d.NewPattern("P").Load(2, P, 0).Err())
	fatal(tst, "AddPatternToDomain", d.AddPatternToDomain("P", 1))

	p := procedure(tst, "plain_newton_raphson", func(p *inp.ProcedureData) {
		p.Handler.Type = "transformation"
		p.Integrator.Type = "newmark"
		p.Analysis = inp.AnalysisData{Type: "direct_integration_analysis", Dt: T / 200, MaxHalvings: 4}
	})
	a := run(tst, d, p, 50)
	u, err := d.Disp(2)
	fatal(tst, "Disp", err)
	io.Pforan("t = %g  u = %g\n", d.Sol.T, u[0])
	chk.Float64(tst, "t", 1e-14, d.Sol.T, T/4)
	chk.Float64(tst, "u(T/4)", 5e-7, u[0], P/k) // period elongation ≈ (ω·Δt)²/12

	fatal(tst, "Analyze", a.Analyze(context.Background(), 50))
	u, err = d.Disp(2)
	fatal(tst, "Disp", err)
	chk.Float64(tst, "u(T/2)", 2e-8, u[0], 2*P/k)
	chk.Float64(tst, "v(T/2)", 1e-4, d.Sol.Dydt[d.Nodes[1].Eqs[0]], 0)
	chk.IntAssert(a.Nsteps, 100)
}

func Test_dynamic02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("dynamic02. modal analysis of a chain")

	// ω² = k/m·(3 ∓ √5)/2
	k, m := 1000.0, 10.0
	ω2ana := []float64{k / m * (3 - math.Sqrt(5)) / 2, k / m * (3 + math.Sqrt(5)) / 2}
	for _, system := range []string{"full_gen_eigen", "band_arpack+shift", "sym_band_eigen", "spectra"} {
		io.Pforan("%s\n", system)
		d := chain(tst, k, m)
		p := procedure(tst, "frequency_analysis", func(p *inp.ProcedureData) {
			p.System = system
			p.Analysis.NumModes = 2
		})
		a := run(tst, d, p, 1)
		chk.Array(tst, "ω²", 1e-10, a.Eigen.Values, ω2ana)
		chk.Float64(tst, "T1", 1e-12, a.Eigen.Periods[0], 2*math.Pi/math.Sqrt(ω2ana[0]))

		// mass-normalised shapes
		for _, φ := range a.Eigen.Vectors {
			var mm float64
			for _, nod := range d.Nodes {
				for i, eq := range nod.Eqs {
					mm += nod.Mass[i] * φ[eq] * φ[eq]
				}
			}
			chk.Float64(tst, "φᵀ·M·φ", 1e-12, mm, 1)
			eq, err := d.Eq(2, 1)
			fatal(tst, "Eq", err)
			chk.Float64(tst, "constrained component", 1e-17, φ[eq], 0)
		}

		// participation
		Γ, meff, err := a.Participation("ux")
		fatal(tst, "Participation", err)
		chk.IntAssert(len(Γ), 2)
		chk.Float64(tst, "Σ meff", 1e-10, meff[0]+meff[1], a.TotalMass("ux"))
		chk.Float64(tst, "total mass", 1e-15, a.TotalMass("ux"), 2*m)
		if meff[0] < meff[1] {
			tst.Errorf("first mode should carry most of the mass: %v\n", meff)
			return
		}
		if _, _, err = a.Participation("rz"); err == nil {
			tst.Errorf("participation along a missing dof should have failed\n")
			return
		}
	}

	// only one mode requested
	d := chain(tst, k, m)
	a := run(tst, d, procedure(tst, "frequency_analysis", nil), 1)
	chk.IntAssert(len(a.Eigen.Values), 1)
	chk.Float64(tst, "ω²", 1e-10, a.Eigen.Values[0], ω2ana[0])
}

func Test_dynamic03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("dynamic03. ill-conditioning")

	k := 1000.0
	d := chain(tst, k, 1)
	p := procedure(tst, "ill_conditioning", func(p *inp.ProcedureData) {
		p.Analysis.NumModes = 2
	})
	a := run(tst, d, p, 1)
	chk.Array(tst, "eigenvalues", 1e-9, a.Eigen.Values, []float64{k * (3 - math.Sqrt(5)) / 2, k * (3 + math.Sqrt(5)) / 2})
	chk.IntAssert(len(a.Eigen.Vectors), 2)
}

func Test_dynamic04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("dynamic04. linear buckling: column with lateral spring")

	// λcr = ks·L/P
	ks, L, P := 50.0, 2.0, 1.0
	d := NewDomain(2)
	fatal(tst, "AddNode", d.AddNode(1, 2, 0, 0))
	fatal(tst, "AddNode", d.AddNode(2, 2, 0, L))
	fatal(tst, "AddNode", d.AddNode(3, 2, 1, L))
	addTruss(tst, d, 1, 1, 2, newLaw(tst, "elastic", "E", 1000.0), 1)
	addTruss(tst, d, 2, 2, 3, newLaw(tst, "elastic", "E", ks), 1)
	fatal(tst, "Fix", d.Fix(1, "00"))
	fatal(tst, "Fix", d.Fix(3, "00"))
	fatal(tst, "pattern", d.NewPattern("P").Load(2, 0, -P).Err())
	fatal(tst, "AddPatternToDomain", d.AddPatternToDomain("P", 1))
	a := run(tst, d, procedure(tst, "linear_buckling", nil), 1)
	chk.Float64(tst, "N", 1e-12, d.Elems[0].(axial).AxialForce(), -P)
	chk.IntAssert(len(a.Eigen.Values), 1)
	chk.Float64(tst, "λcr", 1e-9, a.Eigen.Values[0], ks*L/P)
	eqx, err := d.Eq(2, 0)
	fatal(tst, "Eq", err)
	eqy, err := d.Eq(2, 1)
	fatal(tst, "Eq", err)
	chk.Float64(tst, "φx", 1e-12, a.Eigen.Vectors[0][eqx], 1)
	chk.Float64(tst, "φy", 1e-12, a.Eigen.Vectors[0][eqy], 0)
	if a.State != StateConverged {
		tst.Errorf("state should be converged; got %v\n", a.State)
	}
}
