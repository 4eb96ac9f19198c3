// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Info holds information about the degrees of freedom of an element type
type Info struct {
	Dofs []string          // solution variables PER NODE. ex: ["ux", "uy", "rz"]
	Y2F  map[string]string // maps "y" keys to "f" keys. ex: "ux" => "fx"
}

// NewInfo returns the information for the given dofs with the standard force keys
func NewInfo(dofs ...string) *Info {
	return &Info{Dofs: dofs, Y2F: StdY2F}
}

// StdY2F maps displacement keys to force keys
var StdY2F = map[string]string{
	"ux": "fx", "uy": "fy", "uz": "fz",
	"rx": "mx", "ry": "my", "rz": "mz",
	"wx": "mwx", "wy": "mwy", "wxy": "mwxy",
}

// DofIndex returns the index of a dof key in a list
func DofIndex(dofs []string, key string) int {
	for i, d := range dofs {
		if d == key {
			return i
		}
	}
	return -1
}
