// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the finite element domain and the solution procedures
package fem

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/ele"
)

// Node holds node data. Nodes are owned by the Domain and referenced by index
type Node struct {
	Tag  int       // node tag
	X    []float64 // coordinates
	Dofs []string  // dof keys; set by the first element attached to the node
	Eqs  []int     // equation numbers; one per dof
	Mass []float64 // lumped mass; one per dof
}

// Ndof returns the number of dofs of the node
func (o *Node) Ndof() int { return len(o.Eqs) }

// Domain holds nodes, elements, constraints and loads of one FE problem.
// Nodes and elements live in dense arrays; cross references are indices
type Domain struct {

	// input
	Ndim    int  // space dimension
	Verbose bool // show messages

	// arena
	Nodes     []*Node       // all nodes
	Elems     []ele.Element // all elements
	ElemNodes [][]int       // node indices of each element
	Sps       []*SP         // single-point constraints
	Mps       []*MP         // multi-point constraints

	// loads
	Patterns map[string]*LoadPattern // all load patterns
	Active   []*ActivePattern        // patterns currently applied to the domain

	// solution
	Ny     int           // total number of equations (before constraints)
	Sol    *ele.Solution // solution state
	Fref   []float64     // reference external forces: Σ factor·P
	Fconst []float64     // external forces held constant
	Lambda float64       // current load factor
	lambdc float64       // committed load factor

	// auxiliary
	node2idx map[int]int // node tag => index
	elem2idx map[int]int // element tag => index
	eleLoads map[int]int // element index => number of load components
	ready    bool
}

// NewDomain returns a new empty domain
func NewDomain(ndim int) *Domain {
	if ndim != 2 && ndim != 3 {
		chk.Panic("space dimension must be 2 or 3; %d is invalid", ndim)
	}
	return &Domain{
		Ndim:     ndim,
		Patterns: make(map[string]*LoadPattern),
		node2idx: make(map[int]int),
		elem2idx: make(map[int]int),
		eleLoads: make(map[int]int),
	}
}

// AddNode adds a node with ndof degrees of freedom
func (o *Domain) AddNode(tag, ndof int, x ...float64) (err error) {
	if _, ok := o.node2idx[tag]; ok {
		return chk.Err("node %d exists already", tag)
	}
	if len(x) != o.Ndim {
		return chk.Err("node %d must have %d coordinates; %d given", tag, o.Ndim, len(x))
	}
	if ndof < 1 {
		return chk.Err("node %d must have at least one dof", tag)
	}
	o.node2idx[tag] = len(o.Nodes)
	o.Nodes = append(o.Nodes, &Node{
		Tag:  tag,
		X:    append([]float64{}, x...),
		Dofs: make([]string, ndof),
		Eqs:  make([]int, ndof),
		Mass: make([]float64, ndof),
	})
	o.ready = false
	return
}

// NodeIndex returns the index of a node given its tag
func (o *Domain) NodeIndex(tag int) (idx int, err error) {
	idx, ok := o.node2idx[tag]
	if !ok {
		return 0, chk.Err("cannot find node %d", tag)
	}
	return
}

// Node returns a node given its tag
func (o *Domain) Node(tag int) (*Node, error) {
	idx, err := o.NodeIndex(tag)
	if err != nil {
		return nil, err
	}
	return o.Nodes[idx], nil
}

// Elem returns an element given its tag
func (o *Domain) Elem(tag int) (ele.Element, error) {
	idx, ok := o.elem2idx[tag]
	if !ok {
		return nil, chk.Err("cannot find element %d", tag)
	}
	return o.Elems[idx], nil
}

// AddElement allocates an element. Coordinates are taken from the nodes when
// dat.X is empty
func (o *Domain) AddElement(dat *ele.Data) (e ele.Element, err error) {
	if _, ok := o.elem2idx[dat.Tag]; ok {
		return nil, chk.Err("element %d exists already", dat.Tag)
	}
	info, err := ele.GetInfo(dat.Type, o.Ndim)
	if err != nil {
		return
	}
	idx := make([]int, len(dat.Verts))
	for m, tag := range dat.Verts {
		if idx[m], err = o.NodeIndex(tag); err != nil {
			return nil, chk.Err("element %d: %v", dat.Tag, err)
		}
		nod := o.Nodes[idx[m]]
		if len(info.Dofs) != nod.Ndof() {
			return nil, chk.Err("element %d (%s) needs %d dofs at node %d; node has %d", dat.Tag, dat.Type, len(info.Dofs), tag, nod.Ndof())
		}
		for i, key := range info.Dofs {
			if nod.Dofs[i] == "" {
				nod.Dofs[i] = key
				continue
			}
			if nod.Dofs[i] != key {
				return nil, chk.Err("element %d (%s): dof %d of node %d is %q; %q required", dat.Tag, dat.Type, i, tag, nod.Dofs[i], key)
			}
		}
	}
	if len(dat.X) == 0 {
		dat.X = make([][]float64, len(idx))
		for m, i := range idx {
			dat.X[m] = o.Nodes[i].X
		}
	}
	if e, err = ele.New(dat); err != nil {
		return
	}
	o.elem2idx[dat.Tag] = len(o.Elems)
	o.Elems = append(o.Elems, e)
	o.ElemNodes = append(o.ElemNodes, idx)
	o.ready = false
	return
}

// SetMass sets the lumped mass of a node; one value per dof, or a single
// value applied to the translational dofs
func (o *Domain) SetMass(tag int, m ...float64) (err error) {
	nod, err := o.Node(tag)
	if err != nil {
		return
	}
	if len(m) == nod.Ndof() {
		copy(nod.Mass, m)
		return
	}
	if len(m) != 1 {
		return chk.Err("node %d: mass must have 1 or %d values", tag, nod.Ndof())
	}
	for i := 0; i < o.Ndim && i < nod.Ndof(); i++ {
		nod.Mass[i] = m[0]
	}
	return
}

// Number assigns equation numbers following the node order given by a numberer
func (o *Domain) Number(num Numberer) (err error) {
	order := num.Order(len(o.Nodes), o.ElemNodes)
	if len(order) != len(o.Nodes) {
		return chk.Err("numberer %q returned %d nodes; %d expected", num.Name(), len(order), len(o.Nodes))
	}
	o.Ny = 0
	for _, n := range order {
		for i := range o.Nodes[n].Eqs {
			o.Nodes[n].Eqs[i] = o.Ny
			o.Ny++
		}
	}
	for k, e := range o.Elems {
		eqs := make([][]int, len(o.ElemNodes[k]))
		for m, n := range o.ElemNodes[k] {
			eqs[m] = o.Nodes[n].Eqs
		}
		if err = e.SetEqs(eqs); err != nil {
			return
		}
	}
	if o.Sol == nil || len(o.Sol.Y) != o.Ny {
		o.Sol = ele.NewSolution(o.Ny)
	}
	o.Fref = make([]float64, o.Ny)
	o.Fconst = make([]float64, o.Ny)
	o.ready = true
	if o.Verbose {
		io.Pf("> domain: %d nodes, %d elements, %d equations (%s numbering)\n", len(o.Nodes), len(o.Elems), o.Ny, num.Name())
	}
	return
}

// Ready tells whether equations have been assigned
func (o *Domain) Ready() bool { return o.ready }

// Eq returns the equation number of a node dof
func (o *Domain) Eq(tag, dof int) (eq int, err error) {
	nod, err := o.Node(tag)
	if err != nil {
		return
	}
	if dof < 0 || dof >= nod.Ndof() {
		return 0, chk.Err("node %d has no dof %d", tag, dof)
	}
	return nod.Eqs[dof], nil
}

// Disp returns the trial displacements of a node
func (o *Domain) Disp(tag int) (u []float64, err error) {
	nod, err := o.Node(tag)
	if err != nil {
		return
	}
	u = make([]float64, nod.Ndof())
	if o.Sol != nil {
		ele.Gather(u, o.Sol.Y, nod.Eqs)
	}
	return
}

// loads //////////////////////////////////////////////////////////////////////////////////////////

// SetLoadFactor assembles the external forces and element loads for a load factor λ
func (o *Domain) SetLoadFactor(λ float64) (err error) {
	for i := range o.Fref {
		o.Fref[i], o.Fconst[i] = 0, 0
	}
	q := make(map[int][]float64)
	for _, a := range o.Active {
		p := o.Patterns[a.Name]
		F, μ := o.Fref, λ
		if a.Const {
			F, μ = o.Fconst, 1
		}
		for _, l := range p.Nodal {
			nod := o.Nodes[l.Node]
			for i, f := range l.F {
				F[nod.Eqs[i]] += a.Factor * f
			}
		}
		for _, l := range p.Ele {
			if _, ok := q[l.Elem]; !ok {
				q[l.Elem] = make([]float64, len(l.Q))
			}
			if len(l.Q) != len(q[l.Elem]) {
				return chk.Err("pattern %q: element load on %d has %d components; %d expected", p.Name, o.Elems[l.Elem].Id(), len(l.Q), len(q[l.Elem]))
			}
			for i, v := range l.Q {
				q[l.Elem][i] += μ * a.Factor * v
			}
			o.eleLoads[l.Elem] = len(l.Q)
		}
	}
	for k, n := range o.eleLoads {
		qk, ok := q[k]
		if !ok {
			qk = make([]float64, n)
		}
		if err = o.Elems[k].(ele.WithUniformLoad).SetUniformLoad(qk); err != nil {
			return
		}
	}
	o.Lambda = λ
	return
}

// UpdateElems computes the trial state of all elements
func (o *Domain) UpdateElems() (err error) {
	for _, e := range o.Elems {
		if err = e.Update(o.Sol); err != nil {
			return classify(err)
		}
	}
	return
}

// Residual computes r = Fconst + λ·Fref - Fint over all equations
func (o *Domain) Residual(r []float64) (err error) {
	for i := range r {
		r[i] = o.Fconst[i] + o.Lambda*o.Fref[i]
	}
	for _, e := range o.Elems {
		if err = e.AddToRhs(r, o.Sol); err != nil {
			return
		}
	}
	return
}

// AssembleMass adds element and nodal masses to M
func (o *Domain) AssembleMass(M ele.Assembler) (err error) {
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithMass); ok {
			if err = e.AddToMb(M); err != nil {
				return
			}
		}
	}
	for _, nod := range o.Nodes {
		for i, m := range nod.Mass {
			if m != 0 {
				M.Put(nod.Eqs[i], nod.Eqs[i], m)
			}
		}
	}
	return
}

// AssembleKg adds the geometric stiffness of all elements to Kg
func (o *Domain) AssembleKg(Kg ele.Assembler) (err error) {
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithGeometricStiffness); ok {
			if err = e.AddToKg(Kg); err != nil {
				return
			}
		}
	}
	return
}

// Reactions returns the reactions of nodes with single-point constraints:
// R = Fint - Fext
func (o *Domain) Reactions() (res map[int][]float64, err error) {
	r := make([]float64, o.Ny)
	if err = o.Residual(r); err != nil {
		return
	}
	res = make(map[int][]float64)
	for _, sp := range o.Sps {
		nod := o.Nodes[sp.Node]
		if _, ok := res[nod.Tag]; ok {
			continue
		}
		R := make([]float64, nod.Ndof())
		for i, I := range nod.Eqs {
			R[i] = -r[I]
		}
		res[nod.Tag] = R
	}
	return
}

// state ///////////////////////////////////////////////////////////////////////////////////////////

// Commit accepts the trial state
func (o *Domain) Commit() {
	if o.Sol != nil {
		o.Sol.Commit()
	}
	o.lambdc = o.Lambda
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithIntVars); ok {
			e.Commit()
		}
	}
}

// RevertToLastCommit discards the trial state
func (o *Domain) RevertToLastCommit() (err error) {
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithIntVars); ok {
			e.RevertToLastCommit()
		}
	}
	if o.Sol == nil || !o.ready {
		return
	}
	o.Sol.Revert()
	if err = o.SetLoadFactor(o.lambdc); err != nil {
		return
	}
	return o.UpdateElems()
}

// RevertToStart returns all elements and the solution to the virgin state.
// The solution exists only after numbering
func (o *Domain) RevertToStart() {
	if o.Sol != nil {
		o.Sol.Reset()
	}
	o.Lambda, o.lambdc = 0, 0
	for _, e := range o.Elems {
		if e, ok := e.(ele.WithIntVars); ok {
			e.RevertToStart()
		}
	}
}

// domainState holds the solution part of a snapshot
type domainState struct {
	Ny                 int
	T, Lambda          float64
	Yc, Dydtc, D2ydt2c []float64
	ElemTags           []int
}

// Encode writes the committed state of the domain
func (o *Domain) Encode(enc ele.Encoder) (err error) {
	s := domainState{Ny: o.Ny, Lambda: o.lambdc}
	if o.Sol != nil {
		s.T, s.Yc, s.Dydtc, s.D2ydt2c = o.Sol.Tc, o.Sol.Yc, o.Sol.Dydtc, o.Sol.D2ydt2c
	}
	for _, e := range o.Elems {
		s.ElemTags = append(s.ElemTags, e.Id())
	}
	if err = enc.Encode(s); err != nil {
		return chk.Err("cannot encode domain state:\n%v", err)
	}
	for _, e := range o.Elems {
		if err = e.Encode(enc); err != nil {
			return chk.Err("cannot encode element %d:\n%v", e.Id(), err)
		}
	}
	return
}

// Decode reads a committed state written by Encode; the trial state becomes
// the restored one
func (o *Domain) Decode(dec ele.Decoder) (err error) {
	var s domainState
	if err = dec.Decode(&s); err != nil {
		return chk.Err("cannot decode domain state:\n%v", err)
	}
	if s.Ny != o.Ny || len(s.ElemTags) != len(o.Elems) {
		return chk.Err("domain state does not match the domain: ny=%d (%d) nelems=%d (%d)", s.Ny, o.Ny, len(s.ElemTags), len(o.Elems))
	}
	for k, e := range o.Elems {
		if s.ElemTags[k] != e.Id() {
			return chk.Err("domain state does not match element %d", e.Id())
		}
		if err = e.Decode(dec); err != nil {
			return chk.Err("cannot decode element %d:\n%v", e.Id(), err)
		}
	}
	if o.Sol == nil {
		o.Sol = ele.NewSolution(o.Ny)
	}
	copy(o.Sol.Yc, s.Yc)
	copy(o.Sol.Dydtc, s.Dydtc)
	copy(o.Sol.D2ydt2c, s.D2ydt2c)
	o.Sol.Tc = s.T
	o.lambdc = s.Lambda
	return o.RevertToLastCommit()
}

// Save returns the serialized committed state
func (o *Domain) Save(enctype string) (b []byte, err error) {
	if err = ele.CheckEncType(enctype); err != nil {
		return
	}
	var buf bytes.Buffer
	if err = o.Encode(ele.GetEncoder(&buf, enctype)); err != nil {
		return
	}
	return buf.Bytes(), nil
}

// Restore sets the committed and trial states from data written by Save
func (o *Domain) Restore(b []byte, enctype string) (err error) {
	if err = ele.CheckEncType(enctype); err != nil {
		return
	}
	return o.Decode(ele.GetDecoder(bytes.NewReader(b), enctype))
}

// String returns a summary of the domain
func (o *Domain) String() string {
	names := make([]string, 0, len(o.Active))
	for _, a := range o.Active {
		if a.Const {
			names = append(names, fmt.Sprintf("const(%g*%s)", a.Factor, a.Name))
			continue
		}
		names = append(names, fmt.Sprintf("%g*%s", a.Factor, a.Name))
	}
	sort.Strings(names)
	return io.Sf("domain: ndim=%d nodes=%d elems=%d sps=%d mps=%d ny=%d active=%v", o.Ndim, len(o.Nodes), len(o.Elems), len(o.Sps), len(o.Mps), o.Ny, names)
}
