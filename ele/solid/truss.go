// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// Truss represents a structural rod element (for axial loads only) with 2 nodes and
// any uniaxial material, including prestressed cables. Props: A, rho (optional)
type Truss struct {

	// basic data
	Tag   int         // element tag
	Nodes []int       // node tags
	X     [][]float64 // nodal coordinates [2][ndim]
	Nu    int         // total number of unknowns == 2 * ndim
	Ndim  int         // space dimension

	// parameters and properties
	Mdl uniax.Model // material model
	A   float64     // cross-sectional area
	Rho float64     // density
	L   float64     // length of rod

	// vectors and matrices
	T [][]float64 // [2][nu] transformation matrix: system aligned to rod => element system
	e []float64   // [ndim] unit vector along rod

	// problem variables
	Umap []int // assembly map (location array/element equations)

	// scratchpad
	ue []float64 // [nu] element displacements
	ua []float64 // [2] local axial displacements
}

// register element
func init() {
	ele.SetInfoFunc("truss", func(ndim int) *ele.Info {
		if ndim == 2 {
			return ele.NewInfo("ux", "uy")
		}
		return ele.NewInfo("ux", "uy", "uz")
	})
	ele.SetAllocator("truss", func(dat *ele.Data) (ele.Element, error) {

		// check
		if len(dat.Verts) != 2 || len(dat.X) != 2 {
			return nil, chk.Err("truss requires 2 nodes")
		}
		if dat.Mat == nil {
			return nil, chk.Err("truss %d requires a uniaxial material", dat.Tag)
		}

		// basic data
		var o Truss
		o.Tag = dat.Tag
		o.Nodes = dat.Verts
		o.X = dat.X
		o.Ndim = len(dat.X[0])
		o.Nu = o.Ndim * 2
		o.Mdl = dat.Mat

		// parameters
		var err error
		if o.A, err = dat.Prop("A"); err != nil {
			return nil, err
		}
		o.Rho = dat.PropOpt("rho", 0)

		// geometry
		o.e = make([]float64, o.Ndim)
		for i := 0; i < o.Ndim; i++ {
			o.e[i] = o.X[1][i] - o.X[0][i]
			o.L += o.e[i] * o.e[i]
		}
		o.L = math.Sqrt(o.L)
		if o.L < 1e-12 {
			return nil, chk.Err("truss %d has zero length", o.Tag)
		}
		for i := 0; i < o.Ndim; i++ {
			o.e[i] /= o.L
		}

		// global-to-local transformation matrix
		o.T = matAlloc(2, o.Nu)
		for i := 0; i < o.Ndim; i++ {
			o.T[0][i] = o.e[i]
			o.T[1][o.Ndim+i] = o.e[i]
		}
		o.ue = make([]float64, o.Nu)
		o.ua = make([]float64, 2)

		// initial state
		if _, _, err = o.Mdl.SetTrialStrain(0); err != nil {
			return nil, err
		}
		return &o, nil
	})
}

// Id returns the element tag
func (o *Truss) Id() int { return o.Tag }

// Type returns the element type
func (o *Truss) Type() string { return "truss" }

// Verts returns the node tags
func (o *Truss) Verts() []int { return o.Nodes }

// SetEqs set equations
func (o *Truss) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 2; m++ {
		if len(eqs[m]) != o.Ndim {
			return chk.Err("truss %d: node %d must have %d equations", o.Tag, m, o.Ndim)
		}
		for i := 0; i < o.Ndim; i++ {
			o.Umap[i+m*o.Ndim] = eqs[m][i]
		}
	}
	return
}

// Update sets the trial strain of the material
func (o *Truss) Update(sol *ele.Solution) (err error) {
	ele.Gather(o.ue, sol.Y, o.Umap)
	matVecMul(o.ua, o.T, o.ue)
	ε := (o.ua[1] - o.ua[0]) / o.L
	if _, _, err = o.Mdl.SetTrialStrain(ε); err != nil {
		return fmt.Errorf("truss %d: %w", o.Tag, err)
	}
	return
}

// AddToRhs adds -R to global residual vector fb
func (o *Truss) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	N := o.Mdl.Stress() * o.A
	for i := 0; i < o.Ndim; i++ {
		fb[o.Umap[i]] += N * o.e[i]
		fb[o.Umap[o.Ndim+i]] -= N * o.e[i]
	}
	return
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *Truss) AddToKb(Kb ele.Assembler, sol *ele.Solution, firstIt bool) (err error) {
	α := o.Mdl.Tangent() * o.A / o.L
	o.addBlocks(Kb, func(i, j int) float64 { return α * o.e[i] * o.e[j] })
	return
}

// AddToMb adds the lumped mass matrix
func (o *Truss) AddToMb(Mb ele.Assembler) (err error) {
	m := o.Rho * o.A * o.L / 2.0
	if m == 0 {
		return
	}
	for _, I := range o.Umap {
		Mb.Put(I, I, m)
	}
	return
}

// AddToKg adds the geometric stiffness due to the committed axial force
func (o *Truss) AddToKg(Kg ele.Assembler) (err error) {
	k := o.commitForce() / o.L
	o.addBlocks(Kg, func(i, j int) float64 {
		δ := 0.0
		if i == j {
			δ = 1
		}
		return k * (δ - o.e[i]*o.e[j])
	})
	return
}

// Commit accepts the trial state
func (o *Truss) Commit() { o.Mdl.Commit() }

// RevertToLastCommit discards the trial state
func (o *Truss) RevertToLastCommit() { o.Mdl.RevertToLastCommit() }

// RevertToStart returns to the virgin state
func (o *Truss) RevertToStart() { o.Mdl.RevertToStart() }

// AxialForce returns the trial axial force (tension positive)
func (o *Truss) AxialForce() float64 { return o.Mdl.Stress() * o.A }

// InternalForces returns the axial force
func (o *Truss) InternalForces() ([]ele.ForceRecord, error) {
	return []ele.ForceRecord{{"N": o.AxialForce()}}, nil
}

// Encode encodes internal variables
func (o *Truss) Encode(enc ele.Encoder) (err error) {
	return enc.Encode(o.Mdl.GetSnapshot())
}

// Decode decodes internal variables
func (o *Truss) Decode(dec ele.Decoder) (err error) {
	var s uniax.Snapshot
	if err = dec.Decode(&s); err != nil {
		return
	}
	return o.Mdl.SetSnapshot(s)
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// commitForce returns the committed axial force
func (o *Truss) commitForce() float64 {
	return o.Mdl.GetSnapshot().Commit.Sig * o.A
}

// addBlocks assembles [[k, -k], [-k, k]] where k(i,j) is a ndim×ndim block
func (o *Truss) addBlocks(Kb ele.Assembler, k func(i, j int) float64) {
	n := o.Ndim
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := k(i, j)
			if v == 0 {
				continue
			}
			Kb.Put(o.Umap[i], o.Umap[j], v)
			Kb.Put(o.Umap[i], o.Umap[n+j], -v)
			Kb.Put(o.Umap[n+i], o.Umap[j], -v)
			Kb.Put(o.Umap[n+i], o.Umap[n+j], v)
		}
	}
}
