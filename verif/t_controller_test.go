// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/sec"
)

// cfgElastic describes a section with linear elastic fibers
const cfgElastic = `
materials:
  - {name: conc, model: elastic, prms: [{n: E, v: 30e9}]}
  - {name: steel, model: elastic, prms: [{n: E, v: 200e9}]}
sections:
  - name: s1
    concrete: conc
    steel: steel
    shape: rectangle
    b: 0.3
    h: 0.5
    nDivIJ: 4
    nDivJK: 8
    posRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    negRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    elasticShear: {G: 12e9, J: 2e-3}
`

// cfgRC describes beam sections with catalogued design materials
const cfgRC = `
materials:
  - {name: conc, catalogue: HA-25, design: true}
  - {name: steel, catalogue: B-500S, design: true}
sections:
  - name: s1
    concrete: conc
    steel: steel
    shape: rectangle
    b: 0.3
    h: 0.5
    nDivIJ: 6
    nDivJK: 20
    posRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    negRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
  - name: s2
    concrete: conc
    steel: steel
    shape: rectangle
    b: 0.3
    h: 0.5
    nDivIJ: 6
    nDivJK: 20
    posRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    negRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    shearZ: {nBranches: 2, areaPerBranch: 50.3e-6, spacing: 0.2}
  - name: s3
    concrete: conc
    steel: steel
    shape: rectangle
    b: 0.3
    h: 0.5
    nDivIJ: 6
    nDivJK: 20
    posRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
`

// newConfig parses a configuration
func newConfig(tst *testing.T, txt string) *inp.Config {
	cfg, err := inp.ParseConfig([]byte(txt))
	if err != nil {
		tst.Fatalf("ParseConfig failed:\n%v", err)
	}
	cfg.Dir = tst.TempDir()
	return cfg
}

// newSection realises a section of a configuration
func newSection(tst *testing.T, cfg *inp.Config, name string, ndim int) *Section {
	rc, ok := cfg.Container.Get(name)
	if !ok {
		tst.Fatalf("cannot find section %q\n", name)
	}
	fs, err := cfg.Realize(rc, ndim)
	if err != nil {
		tst.Fatalf("Realize failed:\n%v", err)
	}
	c, s, err := cfg.MatDb.Pair(rc.Concrete, rc.Steel)
	if err != nil {
		tst.Fatalf("Pair failed:\n%v", err)
	}
	return &Section{RC: rc, Fiber: fs, Concrete: c.Concrete, Steel: s.Steel}
}

// newProc returns a preset procedure
func newProc(tst *testing.T, name string) *inp.ProcedureData {
	p, err := inp.GetProcedure(name)
	if err != nil {
		tst.Fatalf("GetProcedure failed:\n%v", err)
	}
	return p
}

func Test_phantom01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phantom01. unit forces on a 2D section")

	cfg := newConfig(tst, cfgElastic)
	s := newSection(tst, cfg, "s1", 2)
	ph, err := NewPhantom(s.Fiber, newProc(tst, "plain_newton_raphson"))
	if err != nil {
		tst.Fatalf("NewPhantom failed:\n%v", err)
	}
	chk.String(tst, ph.FreeCode(), "F0F")
	chk.IntAssert(len(ph.Codes), 2)

	// the first solve starts from a domain without equations
	if ph.Dom.Ready() || ph.Dom.Sol != nil {
		tst.Errorf("phantom domain should not be numbered before the first solve\n")
		return
	}

	// each component in isolation; Vy has no conjugate response in 2D
	for k, c := range ph.Codes {
		f := ele.ForceRecord{c.String(): 1000, "Vy": 777}
		if err = ph.Solve(context.Background(), f); err != nil {
			tst.Fatalf("Solve failed:\n%v", err)
		}
		res := make([]float64, len(ph.Codes))
		res[k] = 1000
		io.Pforan("%s: s = %v\n", c, s.Fiber.Resultant())
		chk.Array(tst, "s", 1e-6, s.Fiber.Resultant(), res)
	}
}

func Test_phantom02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phantom02. unit forces on a 3D section with aggregators")

	cfg := newConfig(tst, cfgElastic)
	s := newSection(tst, cfg, "s1", 3)
	ph, err := NewPhantom(s.Fiber, newProc(tst, "plain_newton_raphson"))
	if err != nil {
		tst.Fatalf("NewPhantom failed:\n%v", err)
	}
	chk.String(tst, ph.FreeCode(), "FFFFFF")
	chk.IntAssert(len(ph.Codes), 6)

	for k, c := range ph.Codes {
		if err = ph.Solve(context.Background(), ele.ForceRecord{c.String(): -500}); err != nil {
			tst.Fatalf("Solve failed:\n%v", err)
		}
		res := make([]float64, len(ph.Codes))
		res[k] = -500
		chk.Array(tst, c.String(), 1e-6, s.Fiber.Resultant(), res)
	}

	// solving again starts from the virgin state
	f := ele.ForceRecord{"N": 1e5, "My": 2e4}
	if err = ph.Solve(context.Background(), f); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	e1 := append([]float64{}, s.Fiber.Deformation()...)
	if err = ph.Solve(context.Background(), f); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	chk.Array(tst, "e", 1e-15, s.Fiber.Deformation(), e1)
	u, err := ph.Deformation()
	if err != nil {
		tst.Fatalf("Deformation failed:\n%v", err)
	}
	chk.Float64(tst, "ux", 1e-15, u[0], e1[0])
}

func Test_normal01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("normal01. capacity factor on the interaction diagram")

	cfg := newConfig(tst, cfgRC)
	s := newSection(tst, cfg, "s1", 2)
	ctrl := NewNormalStresses()
	chk.String(tst, ctrl.Label(), inp.NormalStressesULS)

	d, err := ctrl.diagram(s, sec.RespMz, false)
	if err != nil {
		tst.Fatalf("diagram failed:\n%v", err)
	}
	dd := d.(*sec.Diagram2D)
	pt := dd.Pts[len(dd.Pts)/4]
	io.Pforan("pt = %v\n", pt)

	// a point of the diagram
	cv, err := ctrl.CheckSection(s, ele.ForceRecord{"N": pt[0], "Mz": pt[1]})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF", 1e-6, cv.CF, 1)
	chk.Float64(tst, "diagram", 1e-15, cv.Extras["diagram"], 2)
	chk.Float64(tst, "converged", 1e-15, cv.Extras["converged"], 0)

	// half way
	cv, err = ctrl.CheckSection(s, ele.ForceRecord{"N": pt[0] / 2, "Mz": pt[1] / 2, "My": 1e9})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF", 1e-6, cv.CF, 0.5)

	// the diagram is cached
	d2, _ := ctrl.diagram(s, sec.RespMz, false)
	if d2 != d {
		tst.Errorf("diagram should have been cached\n")
	}
}

func Test_normal02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("normal02. biaxial bending with phantom strains")

	cfg := newConfig(tst, cfgRC)
	s := newSection(tst, cfg, "s1", 3)
	p := newProc(tst, "plain_newton_raphson")
	p.Test.MaxIt = 50
	ph, err := NewPhantom(s.Fiber, p)
	if err != nil {
		tst.Fatalf("NewPhantom failed:\n%v", err)
	}
	f := ele.ForceRecord{"N": -200e3, "My": 30e3, "Mz": 10e3}
	if err = ph.Solve(context.Background(), f); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	s.Solved = true

	ctrl := NewNormalStresses()
	cv, err := ctrl.CheckSection(s, f)
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	io.Pforan("CF = %v, extras = %v\n", cv.CF, cv.Extras)
	chk.Float64(tst, "diagram", 1e-15, cv.Extras["diagram"], 3)
	if cv.CF <= 0 || cv.CF >= 1 {
		tst.Errorf("CF should be in (0,1); got %v\n", cv.CF)
		return
	}
	if cv.Extras["epsCMin"] >= 0 {
		tst.Errorf("concrete should be compressed; εcmin = %v\n", cv.Extras["epsCMin"])
		return
	}
	if cv.CF < cv.Extras["epsCMin"]/(-s.Concrete.EpsCU) {
		tst.Errorf("CF does not envelope the concrete strain ratio\n")
	}
}

// expectedVcu returns the concrete contribution of the test sections for
// bending in My with the -z face in tension
func expectedVcu(coef float64, c *inp.ConcreteProperties) (vcu, d, b float64) {
	d, b = 0.5-0.038, 0.3
	as := 3 * math.Pi * 0.016 * 0.016 / 4
	ξ := 1 + math.Sqrt(200/(d*1000))
	ρ := as / (b * d)
	fcv := c.Fck / 1e6
	vcu = coef / c.GammaC * ξ * math.Cbrt(100*ρ*fcv)
	if coef > 0.15 {
		vcu = math.Max(vcu, 0.075/c.GammaC*math.Pow(ξ, 1.5)*math.Sqrt(fcv))
	}
	vcu *= b * d * 1e6
	return
}

func Test_shear01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("shear01. concrete and stirrups contributions")

	cfg := newConfig(tst, cfgRC)
	ctrl := new(Shear)
	chk.String(tst, ctrl.Label(), inp.ShearULS)

	// no stirrups
	s := newSection(tst, cfg, "s1", 3)
	cv, err := ctrl.CheckSection(s, ele.ForceRecord{"Vz": 50e3, "My": -30e3})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	vu2, d, b := expectedVcu(0.18, s.Concrete)
	vu1 := 0.6 * s.Concrete.Fcd * b * d / 2
	io.Pforan("no stirrups: CF = %v, extras = %v\n", cv.CF, cv.Extras)
	chk.Float64(tst, "d", 1e-12, cv.Extras["d"], d)
	chk.Float64(tst, "Vu1", 1e-6, cv.Extras["Vu1"], vu1)
	chk.Float64(tst, "Vu2", 1e-6, cv.Extras["Vu2"], vu2)
	chk.Float64(tst, "CF", 1e-9, cv.CF, 50e3/vu2)
	chk.String(tst, cv.Mechanism, MechConcrete)

	// the sign of the shear force does not matter
	cv2, err := ctrl.CheckSection(s, ele.ForceRecord{"Vz": -50e3, "My": -30e3})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF(-V)", 1e-15, cv2.CF, cv.CF)

	// stirrups
	s = newSection(tst, cfg, "s2", 3)
	cv, err = ctrl.CheckSection(s, ele.ForceRecord{"Vz": 100e3, "My": -30e3})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	vcu, _, _ := expectedVcu(0.15, s.Concrete)
	vsu := 0.9 * d * (2 * 50.3e-6 / 0.2) * math.Min(s.Steel.Fyd, 400e6)
	io.Pforan("stirrups: CF = %v, extras = %v\n", cv.CF, cv.Extras)
	chk.Float64(tst, "Vcu", 1e-6, cv.Extras["Vcu"], vcu)
	chk.Float64(tst, "Vsu", 1e-6, cv.Extras["Vsu"], vsu)
	chk.Float64(tst, "CF", 1e-9, cv.CF, 100e3/(vcu+vsu))
	chk.String(tst, cv.Mechanism, MechStirrups)

	// no load
	cv, err = ctrl.CheckSection(s, ele.ForceRecord{"N": -1e5})
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF", 1e-15, cv.CF, 0)
}

func Test_shear02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("shear02. impossible inputs")

	// no tension reinforcement: d = 0
	cfg := newConfig(tst, cfgRC)
	s := newSection(tst, cfg, "s3", 3)
	_, err := new(Shear).CheckSection(s, ele.ForceRecord{"Vz": 50e3, "My": -30e3})
	if !errors.Is(err, ErrController) {
		tst.Errorf("missing tension bars should give a controller error; got %v\n", err)
		return
	}
	io.Pforan("%v\n", err)

	// the tension face has bars when the moment is reversed
	if _, err = new(Shear).CheckSection(s, ele.ForceRecord{"Vz": 50e3, "My": 30e3}); err != nil {
		tst.Errorf("CheckSection failed:\n%v", err)
		return
	}

	// no catalogue data
	cfg = newConfig(tst, cfgElastic)
	s = newSection(tst, cfg, "s1", 3)
	if _, err = new(Shear).CheckSection(s, ele.ForceRecord{"Vz": 50e3}); !errors.Is(err, ErrController) {
		tst.Errorf("missing catalogue data should give a controller error; got %v\n", err)
		return
	}
	if _, err = new(Crack).CheckSection(s, ele.ForceRecord{"My": 50e3}); !errors.Is(err, ErrController) {
		tst.Errorf("missing catalogue data should give a controller error; got %v\n", err)
	}
}

func Test_controller01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("controller01. allocation of controllers")

	for _, name := range []string{inp.NormalStressesULS, inp.ShearULS, inp.CrackSLS} {
		c, err := NewController(&inp.LimitStateData{Name: "a", Controller: name})
		if err != nil {
			tst.Fatalf("NewController failed:\n%v", err)
		}
		chk.String(tst, c.Label(), name)
	}
	c, _ := NewController(&inp.LimitStateData{Controller: inp.CrackSLS})
	crack := c.(*Crack)
	chk.Float64(tst, "wmax", 1e-15, crack.Wmax, 0.3e-3)
	chk.Float64(tst, "k2", 1e-15, crack.K2, 0.5)
	c, _ = NewController(&inp.LimitStateData{Controller: inp.CrackSLS, Wmax: 0.2e-3, K2: 1})
	crack = c.(*Crack)
	chk.Float64(tst, "wmax", 1e-15, crack.Wmax, 0.2e-3)
	chk.Float64(tst, "k2", 1e-15, crack.K2, 1)
	if _, err := NewController(&inp.LimitStateData{Controller: "torsion"}); err == nil {
		tst.Errorf("unknown controller should have failed\n")
	}
}
