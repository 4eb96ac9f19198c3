// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// Hermite holds the cubic Hermite functions on [-1,1] and their derivatives
// w.r.t the natural coordinate. Index 0 and 1 correspond to the value and slope
// at ξ = -1; index 2 and 3 to the value and slope at ξ = +1
type Hermite struct {
	H  [4]float64 // functions
	D1 [4]float64 // first derivatives
	D2 [4]float64 // second derivatives
	D3 [4]float64 // third derivatives
}

// Calc computes the functions and derivatives at ξ
func (o *Hermite) Calc(ξ float64) {
	ξ2 := ξ * ξ
	ξ3 := ξ2 * ξ
	o.H[0] = (2.0 - 3.0*ξ + ξ3) / 4.0
	o.H[1] = (1.0 - ξ - ξ2 + ξ3) / 4.0
	o.H[2] = (2.0 + 3.0*ξ - ξ3) / 4.0
	o.H[3] = (-1.0 - ξ + ξ2 + ξ3) / 4.0
	o.D1[0] = (-3.0 + 3.0*ξ2) / 4.0
	o.D1[1] = (-1.0 - 2.0*ξ + 3.0*ξ2) / 4.0
	o.D1[2] = (3.0 - 3.0*ξ2) / 4.0
	o.D1[3] = (-1.0 + 2.0*ξ + 3.0*ξ2) / 4.0
	o.D2[0] = 1.5 * ξ
	o.D2[1] = (-1.0 + 3.0*ξ) / 2.0
	o.D2[2] = -1.5 * ξ
	o.D2[3] = (1.0 + 3.0*ξ) / 2.0
	o.D3[0] = 1.5
	o.D3[1] = 1.5
	o.D3[2] = -1.5
	o.D3[3] = 1.5
}
