// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"math"
	"sort"
)

// ForceRecord holds internal forces at one gauss point; component => value.
//  beams:  N, Vy, Vz, T, My, Mz
//  shells: n1, n2, n12, m1, m2, m12, q13, q23
//  trusses: N
// Extra properties (chiLT, chiN, FcE, FbE) may ride along
type ForceRecord map[string]float64

// BeamComps lists the components of beam records in order
var BeamComps = []string{"N", "Vy", "Vz", "T", "My", "Mz"}

// ShellComps lists the components of shell records in order
var ShellComps = []string{"n1", "n2", "n12", "m1", "m2", "m12", "q13", "q23"}

// Keys returns the sorted component names
func (o ForceRecord) Keys() (keys []string) {
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return
}

// Get returns a component or zero
func (o ForceRecord) Get(key string) float64 { return o[key] }

// Clone returns a copy
func (o ForceRecord) Clone() ForceRecord {
	r := make(ForceRecord, len(o))
	for k, v := range o {
		r[k] = v
	}
	return r
}

// WoodArmer returns the design resultants of a shell record for the two
// reinforcement directions. The bending moments are enveloped as
//  m1* = m1 + |m12|,  m2* = m2 + |m12|  (bottom)
// and, if alsoAxial, the membrane forces likewise: n1* = n1 + |n12|
func WoodArmer(r ForceRecord, alsoAxial bool) ForceRecord {
	res := ForceRecord{
		"n1": r["n1"], "n2": r["n2"],
		"m1": woodArmer(r["m1"], r["m12"]), "m2": woodArmer(r["m2"], r["m12"]),
		"q13": r["q13"], "q23": r["q23"],
	}
	if alsoAxial {
		res["n1"] = woodArmer(r["n1"], r["n12"])
		res["n2"] = woodArmer(r["n2"], r["n12"])
	}
	return res
}

// woodArmer increases |m| by |mxy| keeping the sign of m (m = 0 counts as positive)
func woodArmer(m, mxy float64) float64 {
	if m < 0 {
		return m - math.Abs(mxy)
	}
	return m + math.Abs(mxy)
}
