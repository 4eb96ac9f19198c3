// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package shp implements shape functions and integration points
package shp

import "github.com/cpmech/gosl/chk"

// ShpFunc is the shape functions callback function
//  S    -- [nverts] shape functions
//  dSdR -- [nverts][gndim] derivatives of S w.r.t natural coordinates
//  r    -- natural coordinates
//  derivs -- compute derivatives
type ShpFunc func(S []float64, dSdR [][]float64, r []float64, derivs bool)

// Shape holds geometry data
type Shape struct {
	Type      string      // name; e.g. "lin2", "qua4"
	Gndim     int         // geometry of shape; space dimension
	Nverts    int         // number of vertices in cell
	NatCoords [][]float64 // natural coordinates [gndim][nverts]
	Func      ShpFunc     // shape functions and derivatives

	// scratchpad
	S    []float64   // [nverts] shape functions
	DSdR [][]float64 // [nverts][gndim] derivatives of S w.r.t natural coordinates
}

// Get returns a new shape structure
func Get(geoType string) (o *Shape, err error) {
	switch geoType {
	case "lin2":
		o = &Shape{Type: geoType, Gndim: 1, Nverts: 2, Func: FuncLin2,
			NatCoords: [][]float64{{-1, 1}}}
	case "qua4":
		o = &Shape{Type: geoType, Gndim: 2, Nverts: 4, Func: FuncQua4,
			NatCoords: [][]float64{{-1, 1, 1, -1}, {-1, -1, 1, 1}}}
	default:
		return nil, chk.Err("shape %q is not available", geoType)
	}
	o.S = make([]float64, o.Nverts)
	o.DSdR = make([][]float64, o.Nverts)
	for i := range o.DSdR {
		o.DSdR[i] = make([]float64, o.Gndim)
	}
	return
}

// FuncLin2 calculates the shape functions (S) and derivatives of shape functions (dSdR) of lin2
// elements at {r,s,t} natural coordinates
//
//   -1     0    +1
//    0-----------1-->r
func FuncLin2(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = 0.5 * (1.0 - r[0])
	S[1] = 0.5 * (1.0 + r[0])
	if !derivs {
		return
	}
	dSdR[0][0] = -0.5
	dSdR[1][0] = 0.5
}

// FuncQua4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of qua4
// elements at {r,s,t} natural coordinates
//
//    3-----------2
//    |     s     |
//    |     |     |
//    |     +--r  |
//    |           |
//    |           |
//    0-----------1
func FuncQua4(S []float64, dSdR [][]float64, r []float64, derivs bool) {
	S[0] = (1.0 - r[0] - r[1] + r[0]*r[1]) / 4.0
	S[1] = (1.0 + r[0] - r[1] - r[0]*r[1]) / 4.0
	S[2] = (1.0 + r[0] + r[1] + r[0]*r[1]) / 4.0
	S[3] = (1.0 - r[0] + r[1] - r[0]*r[1]) / 4.0
	if !derivs {
		return
	}
	dSdR[0][0] = (-1.0 + r[1]) / 4.0
	dSdR[0][1] = (-1.0 + r[0]) / 4.0
	dSdR[1][0] = (+1.0 - r[1]) / 4.0
	dSdR[1][1] = (-1.0 - r[0]) / 4.0
	dSdR[2][0] = (+1.0 + r[1]) / 4.0
	dSdR[2][1] = (+1.0 + r[0]) / 4.0
	dSdR[3][0] = (-1.0 - r[1]) / 4.0
	dSdR[3][1] = (+1.0 - r[0]) / 4.0
}
