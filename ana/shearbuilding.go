// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// ShearBuilding holds the lumped model of a building with rigid floors
//
//   m[n-1] o-------o
//          |       |   k[n-1]
//          o-------o
//          :       :
//   m[0]   o-------o
//          |       |   k[0]
//        ////     ////
//
// Storey i joins floor i to floor i-1 (the ground for i = 0)
type ShearBuilding struct {
	Masses []float64 // floor masses
	Stiffs []float64 // storey lateral stiffnesses
}

// NewShearBuilding returns a shear building
func NewShearBuilding(masses, stiffs []float64) (o *ShearBuilding, err error) {
	if len(masses) == 0 || len(masses) != len(stiffs) {
		return nil, chk.Err("shear building requires one mass and one stiffness per storey; %d and %d given", len(masses), len(stiffs))
	}
	for i := range masses {
		if masses[i] <= 0 || stiffs[i] <= 0 {
			return nil, chk.Err("storey %d: mass and stiffness must be positive", i)
		}
	}
	return &ShearBuilding{Masses: masses, Stiffs: stiffs}, nil
}

// StoreyStiffness returns the lateral stiffness 12·E·I/h³ of ncol columns
// clamped at both floors
func StoreyStiffness(E, I, h float64, ncol int) float64 {
	return float64(ncol) * 12 * E * I / (h * h * h)
}

// Stiffness returns the tridiagonal stiffness matrix
func (o *ShearBuilding) Stiffness() *mat.SymDense {
	n := len(o.Masses)
	K := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		K.SetSym(i, i, K.At(i, i)+o.Stiffs[i])
		if i > 0 {
			K.SetSym(i-1, i-1, K.At(i-1, i-1)+o.Stiffs[i])
			K.SetSym(i-1, i, -o.Stiffs[i])
		}
	}
	return K
}

// Modes returns the squared circular frequencies ω² in increasing order and
// the mass-normalised mode shapes [nmodes][nfloors]
func (o *ShearBuilding) Modes() (ω2 []float64, φ [][]float64, err error) {

	// A = M^(-1/2)·K·M^(-1/2)
	n := len(o.Masses)
	K := o.Stiffness()
	A := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			A.SetSym(i, j, K.At(i, j)/math.Sqrt(o.Masses[i]*o.Masses[j]))
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(A, true) {
		return nil, nil, chk.Err("eigen decomposition of shear building failed")
	}
	ω2 = eig.Values(nil)
	var V mat.Dense
	eig.VectorsTo(&V)
	φ = make([][]float64, n)
	for k := 0; k < n; k++ {
		φ[k] = make([]float64, n)
		for i := 0; i < n; i++ {
			φ[k][i] = V.At(i, k) / math.Sqrt(o.Masses[i])
		}
	}
	return
}

// Periods returns the natural periods in decreasing order
func (o *ShearBuilding) Periods() (T []float64, err error) {
	ω2, _, err := o.Modes()
	if err != nil {
		return
	}
	T = make([]float64, len(ω2))
	for i, v := range ω2 {
		T[i] = 2 * math.Pi / math.Sqrt(v)
	}
	return
}

// EffectiveMasses returns the effective modal masses (Σ m·φ)² of
// mass-normalised modes; their sum equals the total mass
func (o *ShearBuilding) EffectiveMasses() (meff []float64, err error) {
	_, φ, err := o.Modes()
	if err != nil {
		return
	}
	meff = make([]float64, len(φ))
	for k, v := range φ {
		var l float64
		for i, m := range o.Masses {
			l += m * v[i]
		}
		meff[k] = l * l
	}
	return
}

// UniformPeriods returns the periods of n identical storeys with mass m and
// stiffness k: ω_j = 2·√(k/m)·sin((2j-1)·π/(2(2n+1)))
func UniformPeriods(n int, m, k float64) (T []float64) {
	T = make([]float64, n)
	for j := 1; j <= n; j++ {
		ω := 2 * math.Sqrt(k/m) * math.Sin(float64(2*j-1)*math.Pi/float64(2*(2*n+1)))
		T[j-1] = 2 * math.Pi / ω
	}
	return
}

// FiveStoreyStiffs holds the storey stiffnesses [N/m] of a five-story
// reinforced concrete frame with floor masses of 134.4 t
var FiveStoreyStiffs = []float64{2.5145e8, 3.8752e8, 3.7797e8, 2.2971e8, 2.2040e8}
