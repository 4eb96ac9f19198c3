// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/ele"
	_ "github.com/engthiago/xc-sub000/ele/solid"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// fatal stops the test if err is not nil
func fatal(tst *testing.T, msg string, err error) {
	if err != nil {
		tst.Fatalf("%s failed:\n%v", msg, err)
	}
}

// newLaw allocates a uniaxial law
func newLaw(tst *testing.T, name string, nameValues ...interface{}) uniax.Model {
	m, err := uniax.NewInit(name, uniax.NewPrms(nameValues...))
	fatal(tst, "NewInit", err)
	return m
}

// addTruss adds a truss with its own material
func addTruss(tst *testing.T, d *Domain, tag, a, b int, mdl uniax.Model, A float64) {
	_, err := d.AddElement(&ele.Data{Type: "truss", Tag: tag, Verts: []int{a, b}, Mat: mdl, Props: map[string]float64{"A": A}})
	fatal(tst, "AddElement", err)
}

// twoBars returns a plane truss with two bars meeting at node 3:
//
//   2
//    \
//     \
//   1--3  ↓ P
//
// N13 = -4P/3, N23 = 5P/3, u3 = (-16P/3EA, -21P/EA)
func twoBars(tst *testing.T, E, A, P float64) (d *Domain) {
	d = NewDomain(2)
	fatal(tst, "AddNode", d.AddNode(1, 2, 0, 0))
	fatal(tst, "AddNode", d.AddNode(2, 2, 0, 3))
	fatal(tst, "AddNode", d.AddNode(3, 2, 4, 0))
	addTruss(tst, d, 1, 1, 3, newLaw(tst, "elastic", "E", E), A)
	addTruss(tst, d, 2, 2, 3, newLaw(tst, "elastic", "E", E), A)
	fatal(tst, "Fix", d.Fix(1, "00"))
	fatal(tst, "Fix", d.Fix(2, "00"))
	fatal(tst, "pattern", d.NewPattern("P").Load(3, 0, -P).Err())
	fatal(tst, "AddPatternToDomain", d.AddPatternToDomain("P", 1))
	return
}

func Test_domain01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("domain01. arena and equations")

	d := twoBars(tst, 1000, 1, 3)
	chk.IntAssert(len(d.Nodes), 3)
	chk.IntAssert(len(d.Elems), 2)
	chk.Ints(tst, "elem 2 nodes", d.ElemNodes[1], []int{1, 2})
	chk.Strings(tst, "dofs of node 3", d.Nodes[2].Dofs, []string{"ux", "uy"})

	// errors
	if err := d.AddNode(1, 2, 0, 0); err == nil {
		tst.Errorf("repeated node tag should have failed\n")
		return
	}
	if err := d.AddNode(9, 2, 0); err == nil {
		tst.Errorf("wrong number of coordinates should have failed\n")
		return
	}
	if _, err := d.AddElement(&ele.Data{Type: "truss", Tag: 3, Verts: []int{1, 7}, Mat: newLaw(tst, "elastic", "E", 1.0), Props: map[string]float64{"A": 1}}); err == nil {
		tst.Errorf("unknown node should have failed\n")
		return
	}
	if err := d.Fix(3, "0"); err == nil {
		tst.Errorf("short fix code should have failed\n")
		return
	}
	if err := d.AddPatternToDomain("P", 1); err == nil {
		tst.Errorf("pattern added twice should have failed\n")
		return
	}

	// state changes before numbering
	if d.Sol != nil {
		tst.Errorf("solution should be allocated by the numbering\n")
		return
	}
	d.RevertToStart()
	d.Commit()
	fatal(tst, "RevertToLastCommit", d.RevertToLastCommit())

	// numbering
	fatal(tst, "Number", d.Number(simpleNumberer{}))
	chk.IntAssert(d.Ny, 6)
	eq, err := d.Eq(3, 1)
	fatal(tst, "Eq", err)
	chk.IntAssert(eq, 5)

	// load factor
	fatal(tst, "SetLoadFactor", d.SetLoadFactor(2))
	chk.Array(tst, "Fref", 1e-15, d.Fref, []float64{0, 0, 0, 0, 0, -3})
	d.RemovePattern("P")
	d.RemovePattern("P")
	fatal(tst, "SetLoadFactor", d.SetLoadFactor(2))
	chk.Array(tst, "Fref", 1e-15, d.Fref, []float64{0, 0, 0, 0, 0, 0})

	// loads held constant
	fatal(tst, "AddPatternToDomain", d.AddPatternToDomain("P", 1))
	fatal(tst, "SetLoadFactor", d.SetLoadFactor(2))
	fatal(tst, "SetLoadConst", d.SetLoadConst())
	chk.Float64(tst, "λ", 1e-15, d.Lambda, 0)
	chk.Array(tst, "Fconst", 1e-15, d.Fconst, []float64{0, 0, 0, 0, 0, -6})
	chk.Array(tst, "Fref", 1e-15, d.Fref, []float64{0, 0, 0, 0, 0, 0})
	if _, ok := d.ActiveFactor("P"); ok {
		tst.Errorf("held pattern should not be scaled by the load factor\n")
		return
	}
	fatal(tst, "AddPatternToDomain", d.AddPatternToDomain("P", -1))
	fatal(tst, "SetLoadFactor", d.SetLoadFactor(0.5))
	chk.Array(tst, "Fref", 1e-15, d.Fref, []float64{0, 0, 0, 0, 0, 3})
	r := make([]float64, d.Ny)
	fatal(tst, "Residual", d.Residual(r))
	chk.Array(tst, "r", 1e-15, r, []float64{0, 0, 0, 0, 0, -4.5})
	d.RemovePattern("P")
	chk.IntAssert(len(d.Active), 1)
	io.Pforan("%v\n", d)
}

func Test_domain02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("domain02. numberers")

	// path 0-4-1-3-2
	elems := [][]int{{0, 4}, {4, 1}, {1, 3}, {3, 2}}
	rcm, err := NewNumberer("rcm")
	fatal(tst, "NewNumberer", err)
	order := rcm.Order(5, elems)
	chk.Ints(tst, "rcm", order, []int{2, 3, 1, 4, 0})

	pos := make([]int, 5)
	for i, n := range order {
		pos[n] = i
	}
	for _, e := range elems {
		d := pos[e[0]] - pos[e[1]]
		if d != 1 && d != -1 {
			tst.Errorf("element %v is not contiguous after rcm\n", e)
			return
		}
	}

	// amd returns a permutation
	amd, err := NewNumberer("amd")
	fatal(tst, "NewNumberer", err)
	perm := amd.Order(5, elems)
	sorted := append([]int{}, perm...)
	sort.Ints(sorted)
	chk.Ints(tst, "amd", sorted, []int{0, 1, 2, 3, 4})

	// bandwidth
	chk.IntAssert(bandwidth([][]int{{0, 4}, {4, 1}}), 4)
	chk.IntAssert(bandwidth([][]int{{3, 2}, {-1, 9}}), 1)

	if _, err = NewNumberer("metis"); err == nil {
		tst.Errorf("unknown numberer should have failed\n")
	}
}

func Test_domain03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("domain03. systems of equations")

	// [[4,-1,0],[-1,4,-1],[0,-1,4]] x = [1,2,3]
	xref := []float64{13.0 / 28.0, 6.0 / 7.0, 27.0 / 28.0}
	for _, name := range []string{"full_gen", "band_gen+lapack", "band_spd", "profile_spd", "sparse_gen+super_lu", "umfpack", "mumps"} {
		io.Pforan("%s\n", name)
		sys, err := NewSystem(name)
		fatal(tst, "NewSystem", err)
		fatal(tst, "Init", sys.Init(3, [][]int{{0, 1}, {1, 2}}))
		for k := 0; k < 2; k++ { // second pass checks Zero
			sys.Zero()
			for i := 0; i < 3; i++ {
				sys.Put(i, i, 4)
				if i > 0 {
					sys.Put(i, i-1, -1)
					sys.Put(i-1, i, -1)
				}
			}
		}
		fatal(tst, "Factorize", sys.Factorize())
		x := make([]float64, 3)
		fatal(tst, "Solve", sys.Solve(x, []float64{1, 2, 3}))
		chk.Array(tst, name, 1e-14, x, xref)
		A := sys.Dense()
		chk.Float64(tst, name+": A[1][0]", 1e-15, A.At(1, 0), -1)
		chk.Float64(tst, name+": A[0][2]", 1e-15, A.At(0, 2), 0)
		if s, ok := sys.(*sparseSystem); ok {
			chk.IntAssert(s.Nnz(), 7)
		}
	}

	// singular
	sys, err := NewSystem("full_gen")
	fatal(tst, "NewSystem", err)
	fatal(tst, "Init", sys.Init(2, nil))
	sys.Put(0, 0, 1)
	if err = sys.Factorize(); err == nil {
		tst.Errorf("singular matrix should have failed\n")
	}
}

func Test_domain04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("domain04. constraint handlers: maps")

	// transformation with a chain of slaves: 3 = 2 = 1
	d := NewDomain(2)
	for i := 1; i <= 3; i++ {
		fatal(tst, "AddNode", d.AddNode(i, 2, float64(i), 0))
	}
	d.Nodes[0].Dofs = []string{"ux", "uy"}
	d.Nodes[1].Dofs = []string{"ux", "uy"}
	d.Nodes[2].Dofs = []string{"ux", "uy"}
	fatal(tst, "Number", d.Number(simpleNumberer{}))
	fatal(tst, "Fix", d.Fix(1, "F0"))
	fatal(tst, "AddSP", d.AddSP(2, 1, 0.5))
	fatal(tst, "EqualDofs", d.EqualDofs(2, 3, 0))
	fatal(tst, "AddMP", d.AddMP(1, 2, []int{0}, []int{0}, [][]float64{{2}}))
	fatal(tst, "EqualDofs", d.EqualDofs(1, 3, 1))

	h, err := NewHandler(&inp.HandlerData{Type: "transformation"})
	fatal(tst, "NewHandler", err)
	fatal(tst, "Setup", h.Setup(d))
	chk.IntAssert(h.Neq(), 1) // only ux of node 1 is free
	chk.IntAssert(len(h.Terms(0)), 1)
	chk.Float64(tst, "ux2 = 2 ux1", 1e-15, h.Terms(2)[0].C, 2)
	chk.Float64(tst, "ux3 = ux2", 1e-15, h.Terms(4)[0].C, 2)
	chk.IntAssert(len(h.Terms(1)), 0)

	y := make([]float64, 6)
	y[0] = 1
	h.Prescribe(y)
	chk.Array(tst, "prescribed", 1e-15, y, []float64{1, 0, 2, 0.5, 2, 0})

	dy := make([]float64, 6)
	h.Expand(dy, []float64{0.1})
	chk.Array(tst, "expanded", 1e-15, dy, []float64{0.1, 0, 0.2, 0, 0.2, 0})

	// plain rejects multi-point constraints
	h, err = NewHandler(&inp.HandlerData{Type: "plain"})
	fatal(tst, "NewHandler", err)
	if err = h.Setup(d); err == nil {
		tst.Errorf("plain handler should have rejected multi-point constraints\n")
		return
	}

	// cycles are detected
	fatal(tst, "EqualDofs", d.EqualDofs(3, 1, 0))
	h, err = NewHandler(&inp.HandlerData{Type: "transformation"})
	fatal(tst, "NewHandler", err)
	if err = h.Setup(d); err == nil {
		tst.Errorf("cycle of multi-point constraints should have failed\n")
	}
}
