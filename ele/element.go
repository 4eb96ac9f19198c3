// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements finite elements
package ele

import "github.com/engthiago/xc-sub000/sec"

// Assembler receives contributions to a global matrix
type Assembler interface {
	Put(i, j int, v float64) // adds v to entry (i,j)
}

// Element defines what all elements must implement
type Element interface {

	// information and initialisation
	Id() int                  // returns the element tag
	Type() string             // returns the element type; e.g. "beam2d"
	Verts() []int             // returns the node tags
	SetEqs(eqs [][]int) error // set equations [nverts][ndofPerNode]

	// called for each iteration
	Update(sol *Solution) error                              // computes the trial state from the current displacements
	AddToRhs(fb []float64, sol *Solution) error              // adds -fint to global residual vector fb
	AddToKb(Kb Assembler, sol *Solution, firstIt bool) error // adds element K to global Jacobian matrix Kb

	// reading and writing of element data
	Encode(enc Encoder) error // encodes internal variables
	Decode(dec Decoder) error // decodes internal variables
}

// WithIntVars defines elements with state that can be committed or reverted
type WithIntVars interface {
	Commit()             // accepts the trial state
	RevertToLastCommit() // discards the trial state
	RevertToStart()      // returns to the virgin state
}

// WithMass defines elements with a mass matrix
type WithMass interface {
	AddToMb(Mb Assembler) error // adds element M to global mass matrix
}

// WithGeometricStiffness defines elements with a stress-dependent stiffness
// computed from the last committed axial forces
type WithGeometricStiffness interface {
	AddToKg(Kg Assembler) error // adds element Kg to global geometric stiffness matrix
}

// WithInternalForces defines elements that report internal forces per gauss point
type WithInternalForces interface {
	InternalForces() ([]ForceRecord, error)
}

// WithSection defines elements built upon a fiber section
type WithSection interface {
	Section() *sec.FiberSection
}

// WithUniformLoad defines elements accepting uniformly distributed loads in local axes
type WithUniformLoad interface {
	SetUniformLoad(q []float64) error // sets the total load; called before each solve
}
