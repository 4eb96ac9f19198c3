// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "gonum.org/v1/gonum/integrate/quad"

// Ipoint holds integration point data
type Ipoint struct {
	R, S, W float64 // natural coordinates and weight
}

// GaussLegendre returns n points on [-1,1] in ascending order
func GaussLegendre(n int) (x, w []float64) {
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, -1, 1)
	if n > 1 && x[0] > x[n-1] {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			x[i], x[j] = x[j], x[i]
			w[i], w[j] = w[j], w[i]
		}
	}
	return
}

// QuadPoints returns the n×n tensor-product points on [-1,1]²
func QuadPoints(n int) (ips []Ipoint) {
	x, w := GaussLegendre(n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			ips = append(ips, Ipoint{x[i], x[j], w[i] * w[j]})
		}
	}
	return
}
