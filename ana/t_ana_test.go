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

func Test_plate01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("plate01. buckling of simply supported plates")

	// square plate
	E, ν, t, b := 1e8, 0.3, 0.01, 2.0
	p, err := NewPlateBuckling(E, ν, t, b, b)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	D := E * t * t * t / (12 * (1 - ν*ν))
	io.Pforan("D = %v  Ncr = %v\n", p.D, p.Ncr)
	chk.Float64(tst, "D", 1e-17, p.D, D)
	chk.Float64(tst, "k", 1e-15, p.K, 4)
	chk.IntAssert(p.M, 1)
	chk.Float64(tst, "Ncr", 1e-15, p.Ncr, 4*math.Pi*math.Pi*D/(b*b))

	// long plates buckle in square half-waves
	p, _ = NewPlateBuckling(E, ν, t, 3, 1)
	chk.IntAssert(p.M, 3)
	chk.Float64(tst, "k(a/b=3)", 1e-15, p.K, 4)

	p, _ = NewPlateBuckling(E, ν, t, 1.5, 1)
	chk.IntAssert(p.M, 2)
	chk.Float64(tst, "k(a/b=1.5)", 1e-14, p.K, (4.0/3.0+0.75)*(4.0/3.0+0.75))

	if _, err = NewPlateBuckling(E, 0.5, t, 1, 1); err == nil {
		tst.Errorf("ν = 0.5 should fail\n")
	}
}

func Test_shearbuilding01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("shearbuilding01. uniform storeys")

	n, m, k := 3, 2.0, 800.0
	sb, err := NewShearBuilding([]float64{m, m, m}, []float64{k, k, k})
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	T, err := sb.Periods()
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	io.Pforan("T = %v\n", T)
	chk.Array(tst, "T", 1e-13, T, UniformPeriods(n, m, k))

	// effective masses add up to the total mass
	meff, _ := sb.EffectiveMasses()
	chk.Float64(tst, "Σ meff", 1e-12, meff[0]+meff[1]+meff[2], 3*m)

	// storey stiffness of clamped columns
	chk.Float64(tst, "k", 1e-15, StoreyStiffness(30e9, 1e-3, 3, 4), 4*12*30e9*1e-3/27)

	if _, err = NewShearBuilding([]float64{1}, []float64{1, 2}); err == nil {
		tst.Errorf("mismatched storeys should fail\n")
	}
}

func Test_shearbuilding02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("shearbuilding02. five-story building")

	m := 134.4e3
	masses := []float64{m, m, m, m, m}
	sb, err := NewShearBuilding(masses, FiveStoreyStiffs)
	if err != nil {
		tst.Errorf("%v\n", err)
		return
	}
	T, _ := sb.Periods()
	io.Pforan("T = %v\n", T)
	for i, ref := range []float64{0.468, 0.177, 0.105, 0.084, 0.065} {
		chk.Float64(tst, io.Sf("T%d/ref", i+1), 1e-3, T[i]/ref, 1)
	}
	meff, _ := sb.EffectiveMasses()
	var sum float64
	for _, v := range meff {
		sum += v
	}
	chk.Float64(tst, "Σ meff / M", 1e-12, sum/(5*m), 1)
	if meff[0] < 0.7*5*m {
		tst.Errorf("first mode should carry most of the mass: %v\n", meff)
	}
}
