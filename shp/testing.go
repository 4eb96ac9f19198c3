// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes
func CheckShape(tst *testing.T, shape *Shape, tol float64, verbose bool) {

	// loop over all vertices
	errS := 0.0
	r := []float64{0, 0, 0}
	for n := 0; n < shape.Nverts; n++ {

		// natural coordinates @ vertex
		for i := 0; i < shape.Gndim; i++ {
			r[i] = shape.NatCoords[i][n]
		}

		// compute function
		shape.Func(shape.S, shape.DSdR, r, false)

		// check
		if verbose {
			io.Pf("S = %v\n", shape.S)
		}
		for m := 0; m < shape.Nverts; m++ {
			if n == m {
				errS += math.Abs(shape.S[m] - 1.0)
			} else {
				errS += math.Abs(shape.S[m])
			}
		}
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", shape.Type, errS)
		return
	}
}

// CheckDSdR checks dSdR derivatives of shape structures with central differences
func CheckDSdR(tst *testing.T, shape *Shape, r []float64, tol float64, verbose bool) {

	// analytical
	shape.Func(shape.S, shape.DSdR, r, true)

	// numerical
	x := append([]float64{}, r...)
	dnum := mat.NewDense(shape.Nverts, shape.Gndim, nil)
	fd.Jacobian(dnum, func(s, ξ []float64) {
		copy(x, ξ)
		shape.Func(s, nil, x, false)
	}, r[:shape.Gndim], &fd.JacobianSettings{Formula: fd.Central, Step: 1e-4})
	shape.Func(shape.S, shape.DSdR, r, true)
	for m := 0; m < shape.Nverts; m++ {
		for i := 0; i < shape.Gndim; i++ {
			num := dnum.At(m, i)
			if verbose {
				io.Pf("dS%d/dR%d: ana = %v  num = %v\n", m, i, shape.DSdR[m][i], num)
			}
			if math.Abs(num-shape.DSdR[m][i]) > tol {
				tst.Errorf("%s: dS%d/dR%d failed: %v != %v\n", shape.Type, m, i, shape.DSdR[m][i], num)
			}
		}
	}
}
