// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"fmt"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/sec"
)

// ZeroLength represents a zero-length element whose force-deformation response is
// given by a fiber section. The section deformation is the difference between the
// displacements of node 1 and node 0 along the dofs conjugate to each response:
//  N -> ux, Vy -> uy, Vz -> uz, T -> rx, My -> ry, Mz -> rz
// Local axes coincide with the global ones
type ZeroLength struct {

	// basic data
	Tag   int               // element tag
	Nodes []int             // node tags
	Ndim  int               // space dimension
	Ndof  int               // dofs per node
	Sec   *sec.FiberSection // section

	// problem variables
	Umap []int // assembly map
	dofs []int // local dof of each section component

	// scratchpad
	e []float64 // trial section deformation
}

// register element
func init() {
	ele.SetInfoFunc("zerolength", func(ndim int) *ele.Info {
		if ndim == 2 {
			return ele.NewInfo("ux", "uy", "rz")
		}
		return ele.NewInfo("ux", "uy", "uz", "rx", "ry", "rz")
	})
	ele.SetAllocator("zerolength", func(dat *ele.Data) (ele.Element, error) {
		if len(dat.Verts) != 2 || len(dat.X) != 2 {
			return nil, chk.Err("zerolength requires 2 nodes")
		}
		if dat.Sec == nil {
			return nil, chk.Err("zerolength %d requires a section", dat.Tag)
		}
		o := &ZeroLength{Tag: dat.Tag, Nodes: dat.Verts, Ndim: len(dat.X[0]), Sec: dat.Sec}
		if o.Ndim != o.Sec.Ndim {
			return nil, chk.Err("zerolength %d: section %q has ndim=%d but element has ndim=%d", o.Tag, o.Sec.Name, o.Sec.Ndim, o.Ndim)
		}
		o.Ndof = 3 * (o.Ndim - 1)
		for _, c := range o.Sec.Codes() {
			d, err := SectionDof(c, o.Ndim)
			if err != nil {
				return nil, err
			}
			o.dofs = append(o.dofs, d)
		}
		o.e = make([]float64, len(o.dofs))
		return o, nil
	})
}

// SectionDof returns the local dof of a node conjugate to a section response
func SectionDof(c sec.Response, ndim int) (int, error) {
	if ndim == 2 {
		switch c {
		case sec.RespP:
			return 0, nil
		case sec.RespVy:
			return 1, nil
		case sec.RespMz:
			return 2, nil
		}
		return 0, chk.Err("response %v is not available in 2D", c)
	}
	switch c {
	case sec.RespP:
		return 0, nil
	case sec.RespVy:
		return 1, nil
	case sec.RespVz:
		return 2, nil
	case sec.RespT:
		return 3, nil
	case sec.RespMy:
		return 4, nil
	case sec.RespMz:
		return 5, nil
	}
	return 0, chk.Err("response %v is not available in 3D", c)
}

// Id returns the element tag
func (o *ZeroLength) Id() int { return o.Tag }

// Type returns the element type
func (o *ZeroLength) Type() string { return "zerolength" }

// Verts returns the node tags
func (o *ZeroLength) Verts() []int { return o.Nodes }

// Section returns the section
func (o *ZeroLength) Section() *sec.FiberSection { return o.Sec }

// SetEqs set equations
func (o *ZeroLength) SetEqs(eqs [][]int) (err error) {
	o.Umap = make([]int, 2*o.Ndof)
	for m := 0; m < 2; m++ {
		if len(eqs[m]) != o.Ndof {
			return chk.Err("zerolength %d: node %d must have %d equations", o.Tag, m, o.Ndof)
		}
		for i := 0; i < o.Ndof; i++ {
			o.Umap[i+m*o.Ndof] = eqs[m][i]
		}
	}
	return
}

// Update sets the trial deformation of the section
func (o *ZeroLength) Update(sol *ele.Solution) (err error) {
	for k, d := range o.dofs {
		o.e[k] = sol.Y[o.Umap[o.Ndof+d]] - sol.Y[o.Umap[d]]
	}
	if err = o.Sec.SetTrialDeformation(o.e); err != nil {
		return fmt.Errorf("zerolength %d: %w", o.Tag, err)
	}
	return
}

// AddToRhs adds -R to global residual vector fb
func (o *ZeroLength) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	s := o.Sec.Resultant()
	for k, d := range o.dofs {
		fb[o.Umap[d]] += s[k]
		fb[o.Umap[o.Ndof+d]] -= s[k]
	}
	return
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *ZeroLength) AddToKb(Kb ele.Assembler, sol *ele.Solution, firstIt bool) (err error) {
	ks := o.Sec.Tangent()
	for k, dk := range o.dofs {
		I0, I1 := o.Umap[dk], o.Umap[o.Ndof+dk]
		for l, dl := range o.dofs {
			v := ks[k][l]
			if v == 0 {
				continue
			}
			J0, J1 := o.Umap[dl], o.Umap[o.Ndof+dl]
			Kb.Put(I0, J0, v)
			Kb.Put(I0, J1, -v)
			Kb.Put(I1, J0, -v)
			Kb.Put(I1, J1, v)
		}
	}
	return
}

// Commit accepts the trial state
func (o *ZeroLength) Commit() { o.Sec.Commit() }

// RevertToLastCommit discards the trial state
func (o *ZeroLength) RevertToLastCommit() { o.Sec.RevertToLastCommit() }

// RevertToStart returns to the virgin state
func (o *ZeroLength) RevertToStart() { o.Sec.RevertToStart() }

// InternalForces returns the section resultants
func (o *ZeroLength) InternalForces() ([]ele.ForceRecord, error) {
	r := make(ele.ForceRecord)
	s := o.Sec.Resultant()
	for k, c := range o.Sec.Codes() {
		r[c.String()] = s[k]
	}
	return []ele.ForceRecord{r}, nil
}

// Encode encodes internal variables
func (o *ZeroLength) Encode(enc ele.Encoder) (err error) {
	return enc.Encode(o.Sec.GetSnapshot())
}

// Decode decodes internal variables
func (o *ZeroLength) Decode(dec ele.Decoder) (err error) {
	var s sec.Snapshot
	if err = dec.Decode(&s); err != nil {
		return
	}
	return o.Sec.SetSnapshot(s)
}
