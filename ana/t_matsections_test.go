// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_sections01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("sections01. typical cross-sections")

	rect, err := NewCrossSection("rectangle", 4, 6, 0, 0, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	io.Pforan("4 x 6 rectangle: %+v\n", rect)
	chk.Float64(tst, "rect: A ", 1e-17, rect.A, 24.0)
	chk.Float64(tst, "rect: Iy", 1e-17, rect.Iy, 72.0)
	chk.Float64(tst, "rect: Iz", 1e-17, rect.Iz, 32.0)
	chk.Float64(tst, "rect: J ", 1e-10, rect.J, 75.1249382716)

	// same J if rotated
	rot, _ := NewCrossSection("rectangle", 6, 4, 0, 0, 0)
	chk.Float64(tst, "rot: J  ", 1e-10, rot.J, rect.J)

	sq, _ := NewCrossSection("rectangle", 4, 4, 0, 0, 0)
	chk.Float64(tst, "square: Iy", 1e-13, sq.Iy, 21.3333333333333)
	chk.Float64(tst, "square: J ", 1e-17, sq.J, 36.0)

	ibeam, err := NewCrossSection("I-beam", 4, 6, 0.5, 0.3, 0)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "I-beam: A  ", 1e-15, ibeam.A, 5.5)
	chk.Float64(tst, "I-beam: Iy ", 1e-10, ibeam.Iy, 33.4583333333)
	chk.Float64(tst, "I-beam: Iz ", 1e-10, ibeam.Iz, 5.3445833333)
	chk.Float64(tst, "I-beam: J  ", 1e-10, ibeam.J, 0.3783333333)
	chk.Float64(tst, "I-beam: Wpl", 1e-14, ibeam.Wpl, 12.875)

	circle, _ := NewCrossSection("circle", 0, 0, 0, 0, 1)
	chk.Float64(tst, "circle: A  ", 1e-17, circle.A, math.Pi)
	chk.Float64(tst, "circle: Iy ", 1e-10, circle.Iy, 0.7853981634)
	chk.Float64(tst, "circle: J  ", 1e-10, circle.J, 1.5707963268)
	chk.Float64(tst, "circle: Wpl", 1e-15, circle.Wpl, 4.0/3.0)

	// errors
	if _, err = NewCrossSection("T-beam", 1, 1, 0, 0, 0); err == nil {
		tst.Errorf("unknown type should fail\n")
	}
	if _, err = NewCrossSection("I-beam", 4, 6, 3, 0.3, 0); err == nil {
		tst.Errorf("flanges thicker than the section should fail\n")
	}
}

func Test_sections02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("sections02. plastic and yield moments")

	// 10 x 20 cm; fy in kp/cm²
	rect, _ := NewCrossSection("rectangle", 10, 20, 0, 0, 0)
	fy := 2600.0
	chk.Float64(tst, "Mp", 1e-9, rect.PlasticMoment(fy), 2.6e6)
	chk.Float64(tst, "My", 1e-9, rect.YieldMoment(fy), fy*10*20*20/6)
	chk.Float64(tst, "shape factor", 1e-15, rect.PlasticMoment(fy)/rect.YieldMoment(fy), 1.5)

	circle, _ := NewCrossSection("circle", 0, 0, 0, 0, 0.5)
	chk.Float64(tst, "circle: shape factor", 1e-15, circle.PlasticMoment(fy)/circle.YieldMoment(fy), 16/(3*math.Pi))
}

func Test_materials01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("materials01. reference materials parameters")

	m, err := NewMaterial("steel", "MPa")
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	chk.Float64(tst, "E", 1e-15, m.E, 200000)
	chk.Float64(tst, "G", 1e-10, m.G, 200000/2.64)
	chk.String(tst, m.UnitDens, "Gg/m³")

	m, _ = NewMaterial("concrete-high", "Pa")
	chk.Float64(tst, "E", 1e-15, m.E, 30e9)
	chk.Float64(tst, "rho", 1e-12, m.Rho, 2380)

	rect, _ := NewCrossSection("rectangle", 0.3, 0.5, 0, 0, 0)
	p := rect.BeamProps(m, 2)
	chk.Float64(tst, "Iz", 1e-15, p["Iz"], rect.Iy)
	p = rect.BeamProps(m, 3)
	chk.Float64(tst, "Iy", 1e-15, p["Iy"], rect.Iy)
	chk.Float64(tst, "G", 1e-15, p["G"], m.G)

	if _, err = NewMaterial("steel", "psi"); err == nil {
		tst.Errorf("unknown unit should fail\n")
	}
	if _, err = NewMaterial("wood", "Pa"); err == nil {
		tst.Errorf("unknown material should fail\n")
	}

	// Euler
	chk.Float64(tst, "Pcr", 1e-9, EulerLoad(29e6, 1.0/12, 100, 2), math.Pi*math.Pi*29e6/12/40000)
}
