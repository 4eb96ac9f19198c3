// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the solution data @ nodes; entries follow the raw equation
// numbers given to the elements by SetEqs
type Solution struct {

	// current state
	T      float64   // current pseudo-time (load factor) or time
	Y      []float64 // trial displacements
	Dydt   []float64 // trial velocities
	D2ydt2 []float64 // trial accelerations

	// auxiliary
	Dt float64   // current time increment
	ΔY []float64 // increment since the last commit

	// committed state
	Yc      []float64 // committed displacements
	Dydtc   []float64 // committed velocities
	D2ydt2c []float64 // committed accelerations
	Tc      float64   // committed pseudo-time
}

// NewSolution allocates a solution with ny equations
func NewSolution(ny int) *Solution {
	return &Solution{
		Y: make([]float64, ny), Dydt: make([]float64, ny), D2ydt2: make([]float64, ny), ΔY: make([]float64, ny),
		Yc: make([]float64, ny), Dydtc: make([]float64, ny), D2ydt2c: make([]float64, ny),
	}
}

// Commit copies the trial state into the committed state
func (o *Solution) Commit() {
	copy(o.Yc, o.Y)
	copy(o.Dydtc, o.Dydt)
	copy(o.D2ydt2c, o.D2ydt2)
	o.Tc = o.T
	for i := range o.ΔY {
		o.ΔY[i] = 0
	}
}

// Revert copies the committed state into the trial state
func (o *Solution) Revert() {
	copy(o.Y, o.Yc)
	copy(o.Dydt, o.Dydtc)
	copy(o.D2ydt2, o.D2ydt2c)
	o.T = o.Tc
	for i := range o.ΔY {
		o.ΔY[i] = 0
	}
}

// Reset clear values
func (o *Solution) Reset() {
	for _, v := range [][]float64{o.Y, o.Dydt, o.D2ydt2, o.ΔY, o.Yc, o.Dydtc, o.D2ydt2c} {
		for i := range v {
			v[i] = 0
		}
	}
	o.T, o.Tc, o.Dt = 0, 0, 0
}

// Gather copies the entries of y at the given equations into u
func Gather(u, y []float64, umap []int) {
	for i, I := range umap {
		u[i] = y[I]
	}
}
