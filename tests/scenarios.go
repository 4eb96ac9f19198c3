// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tests

import (
	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	_ "github.com/engthiago/xc-sub000/ele/solid" // allocators
	"github.com/engthiago/xc-sub000/fem"
)

// Frame holds the data of a plane portal frame with clamped bases
//
//    H → 2 ----------- 3
//        ↓ P           ↓ P
//        |             |
//        |             |  Hei
//        |             |
//        1             4
//       ///    Wid    ///
//
// Elements: 1 = 1→2, 2 = 2→3 and 3 = 4→3
type Frame struct {
	Wid, Hei float64 // bay width and storey height
	E, A, I  float64 // properties of all members
	P, H     float64 // vertical load at each top corner and lateral load at node 2
	Transf   string  // coordinate transformation: "linear" or "pdelta"
}

// Domain builds the frame with its loads in pattern "P"
func (o *Frame) Domain() (d *fem.Domain, err error) {
	d = fem.NewDomain(2)
	X := [][]float64{{0, 0}, {0, o.Hei}, {o.Wid, o.Hei}, {o.Wid, 0}}
	for i, x := range X {
		if err = d.AddNode(i+1, 3, x...); err != nil {
			return
		}
	}
	props := map[string]float64{"E": o.E, "A": o.A, "Iz": o.I}
	for tag, verts := range [][]int{{1, 2}, {2, 3}, {4, 3}} {
		if _, err = d.AddElement(&ele.Data{Type: "beam", Tag: tag + 1, Verts: verts, Props: props, Transf: o.Transf}); err != nil {
			return
		}
	}
	for _, tag := range []int{1, 4} {
		if err = d.Fix(tag, "000"); err != nil {
			return
		}
	}
	if err = d.NewPattern("P").Load(2, o.H, -o.P, 0).Load(3, 0, -o.P, 0).Err(); err != nil {
		return
	}
	err = d.AddPatternToDomain("P", 1)
	return
}

// ShearFrame builds a plane model of a building with rigid floors: one
// column per storey clamped at both floors and the floor mass on ux.
// Storey i has lateral stiffness stiffs[i] = 12·E·I/h³
func ShearFrame(masses, stiffs []float64, E, h float64) (d *fem.Domain, err error) {
	if len(masses) != len(stiffs) {
		return nil, chk.Err("shear frame requires one mass per storey")
	}
	d = fem.NewDomain(2)
	if err = d.AddNode(1, 3, 0, 0); err != nil {
		return
	}
	if err = d.Fix(1, "000"); err != nil {
		return
	}
	for i, k := range stiffs {
		tag := i + 2
		if err = d.AddNode(tag, 3, 0, float64(i+1)*h); err != nil {
			return
		}
		I := k * h * h * h / (12 * E)
		if _, err = d.AddElement(&ele.Data{Type: "beam", Tag: i + 1, Verts: []int{tag - 1, tag},
			Props: map[string]float64{"E": E, "A": 1, "Iz": I}}); err != nil {
			return
		}
		if err = d.Fix(tag, "F00"); err != nil {
			return
		}
		if err = d.SetMass(tag, masses[i], 0, 0); err != nil {
			return
		}
	}
	return
}

// SquarePlate builds a simply supported square plate of side b meshed with
// n×n elements and compressed along x by nx per unit length (pattern "P").
// The edge x = 0 is restrained along x and the corner at the origin along y
func SquarePlate(b, t, E, nu, nx float64, n int) (d *fem.Domain, err error) {
	d = fem.NewDomain(3)
	h := b / float64(n)
	tag := func(i, j int) int { return j*(n+1) + i + 1 }
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			if err = d.AddNode(tag(i, j), 6, float64(i)*h, float64(j)*h, 0); err != nil {
				return
			}
		}
	}
	props := map[string]float64{"E": E, "nu": nu, "t": t}
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			verts := []int{tag(i, j), tag(i+1, j), tag(i+1, j+1), tag(i, j+1)}
			if _, err = d.AddElement(&ele.Data{Type: "plate", Tag: j*n + i + 1, Verts: verts, Props: props}); err != nil {
				return
			}
		}
	}

	// supports: w = 0 and zero tangential slope on the edges
	//  dofs: ux uy uz wx wy wxy
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			code := []byte("FFFFFF")
			onX := i == 0 || i == n // edge parallel to y
			onY := j == 0 || j == n // edge parallel to x
			if onX || onY {
				code[2] = '0'
			}
			if onY {
				code[3] = '0'
			}
			if onX {
				code[4] = '0'
			}
			if i == 0 {
				code[0] = '0'
			}
			if i == 0 && j == 0 {
				code[1] = '0'
			}
			if string(code) == "FFFFFF" {
				continue
			}
			if err = d.Fix(tag(i, j), string(code)); err != nil {
				return
			}
		}
	}

	// edge forces at x = b
	p := d.NewPattern("P")
	for j := 0; j <= n; j++ {
		f := nx * h
		if j == 0 || j == n {
			f /= 2
		}
		p.Load(tag(n, j), -f, 0, 0, 0, 0, 0)
	}
	if err = p.Err(); err != nil {
		return
	}
	err = d.AddPatternToDomain("P", 1)
	return
}
