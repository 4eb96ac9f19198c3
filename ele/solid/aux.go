// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import "gonum.org/v1/gonum/mat"

// matAlloc allocates a matrix
func matAlloc(m, n int) (a [][]float64) {
	a = make([][]float64, m)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return
}

// matVecMul computes v := a * u
func matVecMul(v []float64, a [][]float64, u []float64) {
	for i := range v {
		v[i] = 0
		for j, uj := range u {
			v[i] += a[i][j] * uj
		}
	}
}

// matTrVecMul computes v := trans(a) * u
func matTrVecMul(v []float64, a [][]float64, u []float64) {
	for j := range v {
		v[j] = 0
	}
	for i, ui := range u {
		for j := range v {
			v[j] += a[i][j] * ui
		}
	}
}

// trMul3 computes r := trans(t) * k * t
func trMul3(r, t, k [][]float64) {
	n := len(t)
	tm := mat.NewDense(n, n, flatten(t))
	km := mat.NewDense(n, n, flatten(k))
	var tk, res mat.Dense
	tk.Mul(tm.T(), km)
	res.Mul(&tk, tm)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r[i][j] = res.At(i, j)
		}
	}
}

// flatten returns the row-major data of a
func flatten(a [][]float64) (d []float64) {
	for _, row := range a {
		d = append(d, row...)
	}
	return
}

// cross3d computes w := u cross v
func cross3d(w, u, v []float64) {
	w[0] = u[1]*v[2] - u[2]*v[1]
	w[1] = u[2]*v[0] - u[0]*v[2]
	w[2] = u[0]*v[1] - u[1]*v[0]
}
