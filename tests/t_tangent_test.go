// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"context"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/mdl/uniax"
	"github.com/engthiago/xc-sub000/sec"
)

// number assigns equations with the simple numberer
func number(tst *testing.T, d *fem.Domain) {
	num, err := fem.NewNumberer("simple")
	fatal(tst, "NewNumberer", err)
	fatal(tst, "Number", d.Number(num))
}

// rcSection returns a 0.3×0.5 section with two layers of bars
func rcSection(tst *testing.T, ndim int) *sec.FiberSection {
	c, err := uniax.New("concrete02")
	fatal(tst, "New", err)
	fatal(tst, "Init", c.Init(c.GetPrms()))
	s, err := uniax.New("steel02")
	fatal(tst, "New", err)
	fatal(tst, "Init", s.Init(s.GetPrms()))
	fs := sec.NewFiberSection("rc", ndim)
	fs.AddMaterial("C25", c)
	fs.AddMaterial("B500", s)
	b, h, ny, nz := 0.3, 0.5, 10, 4
	if ndim == 2 {
		nz = 1
	}
	for i := 0; i < ny; i++ {
		for j := 0; j < nz; j++ {
			y := -h/2 + (float64(i)+0.5)*h/float64(ny)
			z := -b/2 + (float64(j)+0.5)*b/float64(nz)
			fatal(tst, "AddFiber", fs.AddFiber("C25", b*h/float64(ny*nz), y, z))
		}
	}
	Ab := math.Pi * 0.016 * 0.016 / 4
	for _, y := range []float64{-0.2, 0.2} {
		for _, z := range []float64{-0.1, 0.1} {
			fatal(tst, "AddReinf", fs.AddReinf("B500", Ab, y, z))
		}
	}
	fatal(tst, "SetupFibers", fs.SetupFibers())
	return fs
}

func Test_tangent01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tangent01. inclined steel bar beyond yielding")

	d := fem.NewDomain(2)
	fatal(tst, "AddNode", d.AddNode(1, 2, 0, 0))
	fatal(tst, "AddNode", d.AddNode(2, 2, 3, 4))
	m, err := uniax.NewInit("steel02", uniax.NewPrms("E", 200e9, "fy", 400e6, "b", 0.01))
	fatal(tst, "NewInit", err)
	_, err = d.AddElement(&ele.Data{Type: "truss", Tag: 1, Verts: []int{1, 2}, Mat: m, Props: map[string]float64{"A": 1e-4}})
	fatal(tst, "AddElement", err)
	number(tst, d)

	// elongation of six times the yield strain
	ε := 6 * 400e6 / 200e9
	for dof, x := range []float64{3, 4} {
		eq, err := d.Eq(2, dof)
		fatal(tst, "Eq", err)
		d.Sol.Y[eq] = ε * x
	}
	kb := &Kb{Tst: tst, Tol: 1e-6, Verb: chk.Verbose}
	kb.Element(d, 1)
}

func Test_tangent02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tangent02. P-Δ beams after committing axial forces")

	frame := &Frame{Wid: 100, Hei: 100, E: 29e6, A: 1, I: 1.0 / 12.0, P: 1000, H: 100, Transf: "pdelta"}
	d, err := frame.Domain()
	fatal(tst, "Domain", err)
	a := analysis(tst, d, "simple_static_linear", nil)
	fatal(tst, "Analyze", a.Analyze(context.Background(), 1))
	kb := &Kb{Tst: tst, Tol: 1e-7, Verb: chk.Verbose}
	kb.Elements(d)
}

func Test_tangent03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tangent03. plate with membrane and bending displacements")

	d, err := SquarePlate(2, 0.01, 1e8, 0.3, 1, 2)
	fatal(tst, "SquarePlate", err)
	number(tst, d)
	for i := range d.Sol.Y {
		d.Sol.Y[i] = 1e-3 * math.Sin(float64(i+1))
	}
	kb := &Kb{Tst: tst, Tol: 1e-7, Verb: chk.Verbose}
	kb.Elements(d)
}

func Test_tangent04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tangent04. RC fiber sections with cracked and crushed fibers")

	kb := &Kb{Tst: tst, Tol: 1e-5, Verb: chk.Verbose}

	fs := rcSection(tst, 2)
	kb.Section(fs, []float64{-0.0005, 0.01})
	kb.Section(fs, []float64{0.00013, -0.004})

	fs = rcSection(tst, 3)
	kb.Section(fs, []float64{-0.0005, 0.008, 0.005})
}
