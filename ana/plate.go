// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// PlateBuckling holds the elastic buckling load of a simply supported
// rectangular plate compressed along x by a uniform edge force per unit length
//
//        y
//        ^
//     b  +------------+
//   ---> |            | <---  nx
//   ---> |            | <---
//        +------------+--> x
//                     a
//
type PlateBuckling struct {
	E, Nu, T float64 // Young's modulus, Poisson's coefficient and thickness
	A, B     float64 // length along x and width along y
	D        float64 // flexural rigidity E·t³/(12(1-ν²))
	K        float64 // buckling coefficient
	M        int     // number of half-waves along x of the critical mode
	Ncr      float64 // critical edge force per unit length k·π²·D/b²
}

// NewPlateBuckling computes the critical edge force; the buckling
// coefficient k = (m·b/a + a/(m·b))² is minimised over the number of half-waves m
func NewPlateBuckling(E, nu, t, a, b float64) (o *PlateBuckling, err error) {
	if E <= 0 || t <= 0 || a <= 0 || b <= 0 {
		return nil, chk.Err("plate buckling requires positive E, t, a and b")
	}
	if nu < 0 || nu >= 0.5 {
		return nil, chk.Err("Poisson's coefficient must be in [0, 0.5); %g given", nu)
	}
	o = &PlateBuckling{E: E, Nu: nu, T: t, A: a, B: b}
	o.D = E * t * t * t / (12 * (1 - nu*nu))
	o.K = math.Inf(1)
	for m := 1; m <= int(math.Ceil(a/b))+1; m++ {
		r := float64(m) * b / a
		k := (r + 1/r) * (r + 1/r)
		if k < o.K {
			o.K, o.M = k, m
		}
	}
	o.Ncr = o.K * math.Pi * math.Pi * o.D / (b * b)
	return
}
