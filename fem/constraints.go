// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// SP holds a single-point constraint: u[node][dof] = Value
type SP struct {
	Node  int     // node index
	Dof   int     // local dof
	Value float64 // prescribed value
}

// MP holds a multi-point constraint between two nodes:
//  u[slave][SlaveDofs[i]] = Σ_j C[i][j] · u[master][MasterDofs[j]]
type MP struct {
	Master     int         // master node index
	Slave      int         // slave node index
	MasterDofs []int       // local dofs of master
	SlaveDofs  []int       // local dofs of slave
	C          [][]float64 // constraint matrix [nslave][nmaster]
}

// AddSP adds a single-point constraint
func (o *Domain) AddSP(tag, dof int, value float64) (err error) {
	idx, err := o.NodeIndex(tag)
	if err != nil {
		return
	}
	if dof < 0 || dof >= o.Nodes[idx].Ndof() {
		return chk.Err("cannot constrain dof %d of node %d: node has %d dofs", dof, tag, o.Nodes[idx].Ndof())
	}
	o.Sps = append(o.Sps, &SP{Node: idx, Dof: dof, Value: value})
	return
}

// Fix fixes the dofs of a node following a code of '0' (fixed) and 'F' (free)
// characters, one per dof. Underscores are ignored; e.g. "000_FFF"
func (o *Domain) Fix(tag int, code string) (err error) {
	nod, err := o.Node(tag)
	if err != nil {
		return
	}
	code = strings.ReplaceAll(code, "_", "")
	if len(code) != nod.Ndof() {
		return chk.Err("fix code %q of node %d must have %d characters", code, tag, nod.Ndof())
	}
	for i, c := range code {
		switch c {
		case '0':
			if err = o.AddSP(tag, i, 0); err != nil {
				return
			}
		case 'F', 'f':
		default:
			return chk.Err("fix code %q has invalid character %q", code, c)
		}
	}
	return
}

// AddMP adds a multi-point constraint. A nil C means equal dofs
func (o *Domain) AddMP(master, slave int, masterDofs, slaveDofs []int, C [][]float64) (err error) {
	im, err := o.NodeIndex(master)
	if err != nil {
		return
	}
	is, err := o.NodeIndex(slave)
	if err != nil {
		return
	}
	if im == is {
		return chk.Err("multi-point constraint: master and slave are the same node %d", master)
	}
	if C == nil {
		if len(masterDofs) != len(slaveDofs) {
			return chk.Err("equal dof constraint requires the same number of master and slave dofs")
		}
		C = make([][]float64, len(slaveDofs))
		for i := range C {
			C[i] = make([]float64, len(masterDofs))
			C[i][i] = 1
		}
	}
	if len(C) != len(slaveDofs) {
		return chk.Err("constraint matrix must have %d rows", len(slaveDofs))
	}
	for _, row := range C {
		if len(row) != len(masterDofs) {
			return chk.Err("constraint matrix must have %d columns", len(masterDofs))
		}
	}
	for _, d := range masterDofs {
		if d < 0 || d >= o.Nodes[im].Ndof() {
			return chk.Err("master node %d has no dof %d", master, d)
		}
	}
	for _, d := range slaveDofs {
		if d < 0 || d >= o.Nodes[is].Ndof() {
			return chk.Err("slave node %d has no dof %d", slave, d)
		}
	}
	o.Mps = append(o.Mps, &MP{Master: im, Slave: is, MasterDofs: masterDofs, SlaveDofs: slaveDofs, C: C})
	return
}

// EqualDofs adds a multi-point constraint making the dofs of slave equal to
// the dofs of master
func (o *Domain) EqualDofs(master, slave int, dofs ...int) error {
	return o.AddMP(master, slave, dofs, dofs, nil)
}

// ClearConstraints removes all constraints
func (o *Domain) ClearConstraints() {
	o.Sps = nil
	o.Mps = nil
}

// constraint rows ////////////////////////////////////////////////////////////////////////////////

// cterm is one coefficient of a constraint equation
type cterm struct {
	Eq int     // raw equation
	C  float64 // coefficient
}

// crow is one constraint equation: Σ c·u[eq] = G
type crow struct {
	Terms []cterm
	G     float64
}

// constraintRows returns all constraints written as rows of C·u = g
func (o *Domain) constraintRows() (rows []crow) {
	for _, sp := range o.Sps {
		rows = append(rows, crow{Terms: []cterm{{o.Nodes[sp.Node].Eqs[sp.Dof], 1}}, G: sp.Value})
	}
	for _, mp := range o.Mps {
		ms, sl := o.Nodes[mp.Master], o.Nodes[mp.Slave]
		for i, ds := range mp.SlaveDofs {
			r := crow{Terms: []cterm{{sl.Eqs[ds], 1}}}
			for j, dm := range mp.MasterDofs {
				if mp.C[i][j] != 0 {
					r.Terms = append(r.Terms, cterm{ms.Eqs[dm], -mp.C[i][j]})
				}
			}
			rows = append(rows, r)
		}
	}
	return
}

// checkRedundant finds dofs constrained more than once
func (o *Domain) checkRedundant() (err error) {
	seen := make(map[int]string)
	mark := func(nod *Node, dof int, what string) error {
		eq := nod.Eqs[dof]
		if prev, ok := seen[eq]; ok {
			return chk.Err("dof %d of node %d is constrained by %s and %s", dof, nod.Tag, prev, what)
		}
		seen[eq] = what
		return nil
	}
	for _, sp := range o.Sps {
		if err = mark(o.Nodes[sp.Node], sp.Dof, "a single-point constraint"); err != nil {
			return
		}
	}
	for _, mp := range o.Mps {
		for _, d := range mp.SlaveDofs {
			if err = mark(o.Nodes[mp.Slave], d, "a multi-point constraint"); err != nil {
				return
			}
		}
	}
	return
}
