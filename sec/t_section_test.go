// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sec

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/mdl/uniax"
)

func newLaw(tst *testing.T, name string, nameValues ...interface{}) uniax.Model {
	m, err := uniax.NewInit(name, uniax.NewPrms(nameValues...))
	if err != nil {
		tst.Fatalf("cannot allocate %q: %v\n", name, err)
	}
	return m
}

// rcTestSection returns a 0.3×0.5 section (depth along z) with four corner bars
func rcTestSection(tst *testing.T, ndim int) *FiberSection {
	s := NewFiberSection("rc", ndim)
	s.AddMaterial("c", newLaw(tst, "concrete02", "fpc", -25e6/1.5, "epsc0", -0.002, "fpcu", -25e6/1.5, "epscu", -0.0035))
	s.AddMaterial("s", newLaw(tst, "elastic_pp", "E", 200e9, "fy", 500e6/1.15))
	r := NewRectRegion("c", 10, 20, Point{-0.15, -0.25}, Point{0.15, 0.25})
	data, err := r.Fibers()
	if err != nil {
		tst.Fatalf("%v\n", err)
	}
	if ndim == 2 {
		for i := range data {
			data[i].Y, data[i].Z = data[i].Z, 0
		}
	}
	if err = s.AddFibers(data); err != nil {
		tst.Fatalf("%v\n", err)
	}
	for _, p := range []Point{{-0.1, -0.2}, {0.1, -0.2}, {-0.1, 0.2}, {0.1, 0.2}} {
		y, z := p.Y, p.Z
		if ndim == 2 {
			y, z = p.Z, 0
		}
		if err = s.AddReinf("s", 3.14e-4, y, z); err != nil {
			tst.Fatalf("%v\n", err)
		}
	}
	if err = s.SetupFibers(); err != nil {
		tst.Fatalf("%v\n", err)
	}
	return s
}

func Test_section01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section01. plastic moment of elastic perfectly plastic rectangle")

	fy, E := 2600.0, 2.1e6
	b, h := 10.0, 20.0
	for _, ndim := range []int{2, 3} {
		s := NewFiberSection("epp", ndim)
		s.AddMaterial("epp", newLaw(tst, "elastic_pp", "E", E, "fy", fy))
		r := NewRectRegion("epp", 32, 32, Point{-h / 2, -b / 2}, Point{h / 2, b / 2})
		data, err := r.Fibers()
		if err != nil {
			tst.Errorf("Fibers failed: %v\n", err)
			return
		}
		if err = s.AddFibers(data); err != nil {
			tst.Errorf("AddFibers failed: %v\n", err)
			return
		}
		if err = s.SetupFibers(); err != nil {
			tst.Errorf("SetupFibers failed: %v\n", err)
			return
		}
		chk.Float64(tst, "ȳ", 1e-12, s.Yref, 0)

		e := make([]float64, s.Order())
		e[1] = 0.005
		if err = s.SetTrialDeformation(e); err != nil {
			tst.Errorf("SetTrialDeformation failed: %v\n", err)
			return
		}
		Mp := fy * b * h * h / 4
		io.Pforan("ndim=%d  Mz = %v  Mp = %v\n", ndim, s.Resultant()[1], Mp)
		chk.Float64(tst, "Mz/Mp", 1e-5, s.Resultant()[1]/Mp, 1)
		chk.Float64(tst, "N", 1e-6, s.Resultant()[0], 0)
	}
}

func Test_section02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section02. homogenised centroid does not depend on fiber order")

	s := rcTestSection(tst, 3)
	r := s.Clone()
	chk.Float64(tst, "Yref clone", 1e-15, r.Yref, s.Yref)
	chk.Float64(tst, "Zref clone", 1e-15, r.Zref, s.Zref)
	for i, j := 0, len(r.Fibers)-1; i < j; i, j = i+1, j-1 {
		r.Fibers[i], r.Fibers[j] = r.Fibers[j], r.Fibers[i]
	}

	for _, e := range [][]float64{{0, 0, 0}, {-0.001, 0.004, 0}, {0, 0.01, -0.008}, {0.002, -0.003, 0.005}} {
		if err := s.SetTrialDeformation(e); err != nil {
			tst.Errorf("SetTrialDeformation failed: %v\n", err)
			return
		}
		if err := r.SetTrialDeformation(e); err != nil {
			tst.Errorf("SetTrialDeformation failed: %v\n", err)
			return
		}
		var ea, eay, eaz float64
		for _, f := range s.Fibers {
			ea += f.Mdl.Tangent() * f.A
			eay += f.Mdl.Tangent() * f.A * f.Y
			eaz += f.Mdl.Tangent() * f.A * f.Z
		}
		y1, z1 := s.HomogenizedCentroid()
		y2, z2 := r.HomogenizedCentroid()
		chk.Float64(tst, "ȳ", 1e-12, y1, eay/ea)
		chk.Float64(tst, "z̄", 1e-12, z1, eaz/ea)
		chk.Float64(tst, "ȳ reversed", 1e-12, y2, y1)
		chk.Float64(tst, "z̄ reversed", 1e-12, z2, z1)
	}

	// a set up section without fibers cannot be cloned
	bad := s.Clone()
	bad.Fibers = nil
	defer func() {
		if err := recover(); err == nil {
			tst.Errorf("cloning a section without fibers should have panicked\n")
		}
	}()
	bad.Clone()
}

func Test_section03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section03. resultant is the derivative of the strain energy")

	fy, E := 0.3, 1000.0
	εy := fy / E
	s := NewFiberSection("energy", 3)
	s.AddMaterial("epp", newLaw(tst, "elastic_pp", "E", E, "fy", fy))
	s.AddMaterial("el", newLaw(tst, "elastic", "E", 3*E))
	for _, f := range []FiberData{
		{"epp", 1.0, 0.3, -0.2, KindConcrete},
		{"epp", 2.0, -0.5, 0.1, KindConcrete},
		{"epp", 1.5, 0.1, 0.6, KindConcrete},
		{"el", 0.2, -0.4, -0.4, KindReinf},
		{"el", 0.2, 0.4, 0.4, KindReinf},
	} {
		if err := s.addFiber(f.Mat, f.A, f.Y, f.Z, f.Kind); err != nil {
			tst.Errorf("%v\n", err)
			return
		}
	}
	if err := s.SetupFibers(); err != nil {
		tst.Errorf("%v\n", err)
		return
	}

	// energy of monotonic loading from the virgin state
	energy := func(e []float64) (W float64) {
		for _, f := range s.Fibers {
			ε := s.FiberStrain(e, f.Y, f.Z)
			if f.Mat == "el" {
				W += f.A * 1.5 * E * ε * ε
				continue
			}
			if math.Abs(ε) <= εy {
				W += f.A * 0.5 * E * ε * ε
			} else {
				W += f.A * (fy*math.Abs(ε) - 0.5*fy*εy)
			}
		}
		return
	}

	h := 1e-7
	for _, e := range [][]float64{{1e-4, 2e-4, -1e-4}, {0.0005, -0.001, 0.0008}, {-0.0002, 0.0015, 0.0011}} {
		if err := s.SetTrialDeformation(e); err != nil {
			tst.Errorf("%v\n", err)
			return
		}
		res := s.Resultant()
		for i := range e {
			ep, em := append([]float64{}, e...), append([]float64{}, e...)
			ep[i] += h
			em[i] -= h
			num := (energy(ep) - energy(em)) / (2 * h)
			io.Pforan("%v: ana = %v  num = %v\n", s.Codes()[i], res[i], num)
			chk.Float64(tst, io.Sf("%v", s.Codes()[i]), 1e-6*math.Max(1, math.Abs(num)), res[i], num)
		}

		// tangent versus numerical derivative of the resultant
		k := s.Tangent()
		for j := range e {
			ep := append([]float64{}, e...)
			ep[j] += h
			s.SetTrialDeformation(ep)
			rp := append([]float64{}, s.Resultant()...)
			ep[j] -= 2 * h
			s.SetTrialDeformation(ep)
			rm := append([]float64{}, s.Resultant()...)
			for i := range e {
				chk.Float64(tst, io.Sf("k%d%d", i, j), 1e-4*math.Max(1, math.Abs(k[i][j])), k[i][j], (rp[i]-rm[i])/(2*h))
			}
		}
		s.SetTrialDeformation(e)
	}
}

func Test_section04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section04. commit and revert")

	s := rcTestSection(tst, 3)
	e1 := []float64{-0.0005, 0.004, 0.001}
	if err := s.SetTrialDeformation(e1); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	s.Commit()
	s.RevertToLastCommit()
	r1 := append([]float64{}, s.Resultant()...)
	chk.Array(tst, "deformation after revert", 1e-17, s.Deformation(), e1)

	// trial far away then revert
	if err := s.SetTrialDeformation([]float64{0.001, -0.01, 0.003}); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	s.RevertToLastCommit()
	chk.Array(tst, "resultant after revert", 1e-6, s.Resultant(), r1)
	chk.Array(tst, "deformation after revert", 1e-17, s.Deformation(), e1)

	// snapshot round trip
	snap := s.GetSnapshot()
	s.RevertToStart()
	chk.Array(tst, "resultant at start", 1e-6, s.Resultant(), []float64{0, 0, 0})
	if err := s.SetSnapshot(snap); err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Array(tst, "resultant from snapshot", 1e-6, s.Resultant(), r1)

	// strains beyond 2 εcu diverge
	err := s.SetTrialDeformation([]float64{-0.008, 0, 0})
	if !IsDiverged(err) {
		tst.Errorf("expected a diverged error; got %v\n", err)
	}
	s.RevertToLastCommit()
	chk.Array(tst, "resultant after divergence", 1e-6, s.Resultant(), r1)
}

func Test_section05(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section05. geometry expansion")

	// rectangle
	p := NewRectangle(0.3, 0.5)
	Iy, Iz, Pyz := p.Inertia()
	chk.Float64(tst, "A", 1e-15, p.Area(), 0.15)
	chk.Float64(tst, "Iy", 1e-15, Iy, 0.3*math.Pow(0.5, 3)/12)
	chk.Float64(tst, "Iz", 1e-15, Iz, 0.5*math.Pow(0.3, 3)/12)
	chk.Float64(tst, "Pyz", 1e-15, Pyz, 0)
	chk.Float64(tst, "half plane", 1e-15, p.ClipHalfPlane(Point{0, 0.15}, Point{0, 1}).Area(), 0.3*0.1)
	chk.Float64(tst, "offset", 1e-15, p.Offset(0.05).Area(), 0.2*0.4)
	chk.Float64(tst, "distance", 1e-15, p.DistanceToBoundary(Point{0.1, 0.2}), 0.05)
	if !p.Contains(Point{0.1, 0.2}) || p.Contains(Point{0.2, 0}) {
		tst.Errorf("Contains failed\n")
	}

	// L-shaped polygon
	L := &PolygonRegion{"c", 7, 9, Polygon{{0, 0}, {1, 0}, {1, 0.3}, {0.3, 0.3}, {0.3, 1}, {0, 1}}}
	data, err := L.Fibers()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	var A, Sy, Sz float64
	for _, f := range data {
		A += f.A
		Sy += f.A * f.Y
		Sz += f.A * f.Z
	}
	c := L.Verts.Centroid()
	chk.Float64(tst, "L area", 1e-14, A, 0.51)
	chk.Float64(tst, "L yc", 1e-14, Sy/A, c.Y)
	chk.Float64(tst, "L zc", 1e-14, Sz/A, c.Z)

	// circle and ring
	circ := NewCircle("c", 4, 16, Point{0.1, -0.2}, 0.5)
	data, err = circ.Fibers()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	A, Sy, Sz = 0, 0, 0
	var Izz float64
	for _, f := range data {
		A += f.A
		Sy += f.A * f.Y
		Sz += f.A * f.Z
		Izz += f.A * (f.Y - 0.1) * (f.Y - 0.1)
	}
	chk.Float64(tst, "circle area", 1e-14, A, math.Pi*0.25)
	chk.Float64(tst, "circle yc", 1e-14, Sy/A, 0.1)
	chk.Float64(tst, "circle zc", 1e-14, Sz/A, -0.2)
	chk.Float64(tst, "circle Iz", 0.03*math.Pi*math.Pow(0.5, 4)/4, Izz, math.Pi*math.Pow(0.5, 4)/4)

	// layers
	lay := &StraightLayer{"s", 5, 1e-4, Point{-0.2, 0.1}, Point{0.2, 0.1}}
	data, err = lay.Fibers()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	ys := make([]float64, len(data))
	for i, f := range data {
		ys[i] = f.Y
	}
	chk.Array(tst, "layer y", 1e-15, ys, []float64{-0.2, -0.1, 0, 0.1, 0.2})
	ring := &CircLayer{"s", 8, 1e-4, Point{}, 0.4, 0, 2 * math.Pi}
	data, _ = ring.Fibers()
	chk.IntAssert(len(data), 8)
	chk.Float64(tst, "ring last bar angle", 1e-14, math.Atan2(data[7].Z, data[7].Y), -math.Pi/4)
}

func Test_section06(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section06. reinforced concrete templates, container and distribution")

	row := ReinfRow{Diam: 0.025, NBars: 13, Width: 1.365, Cover: 0.05}
	chk.Float64(tst, "spacing", 1e-15, row.BarSpacing(row.Width), 0.105)
	chk.Float64(tst, "eff cover", 1e-15, row.EffCover(), 0.0625)
	chk.Float64(tst, "As", 1e-15, row.As(row.Width), 13*math.Pi*0.025*0.025/4)
	chk.IntAssert(ReinfRow{Diam: 0.02, Spacing: 0.15}.NumBars(1.0), 7)
	chk.IntAssert(ReinfRow{Diam: 0.02, Spacing: 0.15, RoundUp: true}.NumBars(1.0), 7)
	chk.IntAssert(ReinfRow{Diam: 0.02, Spacing: 0.3, RoundUp: true}.NumBars(1.0), 4)

	rc := &RCSection{Name: "beam", Concrete: "HA-25", Steel: "B-400S", Shape: "rectangle", B: 1.7, H: 1.1, NDivIJ: 10, NDivJK: 10,
		NegRows: []ReinfRow{row}, PosRows: []ReinfRow{{Diam: 0.016, Spacing: 0.2, Cover: 0.05}}}
	conc := newLaw(tst, "concrete02", "fpc", -25e6, "epsc0", -0.002, "fpcu", -25e6, "epscu", -0.0035)
	steel := newLaw(tst, "elastic_pp", "E", 200e9, "fy", 400e6)
	s, err := rc.Realize(conc, steel, 3)
	if err != nil {
		tst.Errorf("Realize failed: %v\n", err)
		return
	}
	chk.Float64(tst, "Ac", 1e-12, s.Area(KindConcrete), 1.7*1.1)
	chk.Float64(tst, "As", 1e-12, s.Area(KindReinf), rc.As(true)+rc.As(false))
	chk.Float64(tst, "d", 1e-15, rc.EffectiveDepth(false), 1.1-0.0625)
	cmin, _ := rc.MinCover()
	chk.Float64(tst, "min cover", 1e-12, cmin, 0.058)
	nb := 0
	for _, f := range s.Fibers {
		if f.Kind == KindReinf && f.Z < 0 {
			nb++
			chk.Float64(tst, "z of bottom bars", 1e-15, f.Z, -0.55+0.0625)
		}
	}
	chk.IntAssert(nb, 13)

	// 2D realisation puts the depth along y
	s2, err := rc.Realize(conc, steel, 2)
	if err != nil {
		tst.Errorf("Realize failed: %v\n", err)
		return
	}
	chk.IntAssert(s2.Order(), 2)
	chk.Float64(tst, "2D Ac", 1e-12, s2.Area(KindConcrete), 1.7*1.1)

	// container and distribution
	c := NewContainer()
	if err = c.Add(rc); err != nil {
		tst.Errorf("Add failed: %v\n", err)
		return
	}
	if err = c.Add(&RCSection{Name: "beam"}); err == nil {
		tst.Errorf("duplicated name should fail\n")
	}
	d := NewDistribution(c)
	if err = d.Assign(7, 1, "beam", "beam"); err != nil {
		tst.Errorf("Assign failed: %v\n", err)
		return
	}
	if err = d.Assign(8, 1, "column"); err == nil {
		tst.Errorf("unknown section should fail\n")
	}
	got, ok := d.Lookup(7, 1)
	if !ok || got != rc {
		tst.Errorf("Lookup failed\n")
	}
	if _, ok = d.Lookup(7, 2); ok {
		tst.Errorf("Lookup beyond gauss points should fail\n")
	}
	chk.Ints(tst, "tags", d.Tags(), []int{7})
}

func Test_section07(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("section07. interaction diagrams")

	s := rcTestSection(tst, 3)
	fcd, fyd, As := 25e6/1.5, 500e6/1.15, 4*3.14e-4
	N0 := -fcd*0.15 - 200e9*0.002*As
	Nt := fyd * As

	p := DefaultDiagramParams()
	d2, err := NewDiagram2D(s, RespMz, p)
	if err != nil {
		tst.Errorf("NewDiagram2D failed: %v\n", err)
		return
	}
	cf, err := d2.CapacityFactor(0.5*N0, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "CF compression", 1e-6, cf, 0.5)
	cf, _ = d2.CapacityFactor(0.25*Nt, 0)
	chk.Float64(tst, "CF tension", 1e-6, cf, 0.25)

	// the section is not modified
	chk.Array(tst, "resultant", 1e-17, s.Resultant(), []float64{0, 0, 0})

	// uniaxial bending capacity from 2D and 3D diagrams (bars 0.4 apart along z)
	dy, err := NewDiagram2D(s, RespMy, p)
	if err != nil {
		tst.Errorf("NewDiagram2D failed: %v\n", err)
		return
	}
	t, ok := dy.Intercept(0, 1)
	if !ok {
		tst.Errorf("ray along My missed the diagram\n")
		return
	}
	Mu := t
	io.Pforan("Mu = %v\n", Mu)
	if Mu < 0.9*As/2*fyd*0.4 || Mu > 1.3*As/2*fyd*0.4 {
		tst.Errorf("Mu = %g is not close to As fyd z\n", Mu)
	}
	d3, err := NewDiagram3D(s, p)
	if err != nil {
		tst.Errorf("NewDiagram3D failed: %v\n", err)
		return
	}
	cf, err = d3.CapacityFactor(0, Mu, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "CF 3D uniaxial", 1e-4, cf, 1)
	cf, _ = d3.CapacityFactor(0.5*N0, 0, 0)
	chk.Float64(tst, "CF 3D compression", 1e-4, cf, 0.5)
}
