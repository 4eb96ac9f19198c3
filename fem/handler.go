// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/inp"
)

// Handler maps the raw equations of the domain into the equations of the
// system of equations and enforces the constraints
type Handler interface {
	Name() string
	Setup(d *Domain) error                                 // builds the map; checks constraints
	Neq() int                                              // number of equations of the system
	Terms(I int) []cterm                                   // system equations receiving raw equation I
	Groups() [][]int                                       // extra couplings added by the constraints
	Prescribe(y []float64)                                 // sets prescribed values into y before elements are updated
	AddToSystem(A ele.Assembler, b []float64, y []float64) // adds constraint terms to A and b
	Expand(dy, x []float64)                                // computes the raw increment dy from the system solution x
	Eigen() bool                                           // can be used with eigen analyses
}

// NewHandler returns a constraint handler
func NewHandler(dat *inp.HandlerData) (Handler, error) {
	switch dat.Type {
	case "plain", "":
		return &transfHandler{plain: true}, nil
	case "transformation":
		return &transfHandler{}, nil
	case "penalty":
		αsp, αmp := dat.AlphaSP, dat.AlphaMP
		if αsp == 0 {
			αsp = 1e15
		}
		if αmp == 0 {
			αmp = αsp
		}
		return &penaltyHandler{αsp: αsp, αmp: αmp}, nil
	case "lagrange":
		return &lagrangeHandler{}, nil
	}
	return nil, chk.Err("cannot find constraint handler named %q", dat.Type)
}

// withMultipliers defines handlers with unknowns other than displacements
type withMultipliers interface {
	accumulate(x []float64, η float64)
}

// withConstraintForces defines handlers whose right-hand side carries the
// constraint forces. unbalance removes them from the raw residual r
type withConstraintForces interface {
	unbalance(dst, r []float64)
}

// reduceVector computes b[a] += c·r[I] for all terms
func reduceVector(h Handler, b, r []float64) {
	for I, v := range r {
		if v == 0 {
			continue
		}
		for _, t := range h.Terms(I) {
			b[t.Eq] += t.C * v
		}
	}
}

// reducer maps raw assembly calls into the system of equations
type reducer struct {
	h Handler
	A ele.Assembler
}

func (o reducer) Put(I, J int, v float64) {
	for _, a := range o.h.Terms(I) {
		for _, b := range o.h.Terms(J) {
			o.A.Put(a.Eq, b.Eq, a.C*b.C*v)
		}
	}
}

// transformation //////////////////////////////////////////////////////////////////////////////////

// transfHandler eliminates constrained equations. Single-point constraints
// remove the equation; multi-point constraints express slave equations as
// combinations of master ones. The plain variant accepts single-point
// constraints only
type transfHandler struct {
	plain  bool
	neq    int
	terms  [][]cterm
	spEq   []int
	spVal  []float64
	slaves []int // raw equations of slaves in dependency order
	mrows  [][]cterm
}

func (o *transfHandler) Name() string {
	if o.plain {
		return "plain"
	}
	return "transformation"
}

func (o *transfHandler) Setup(d *Domain) (err error) {
	if err = d.checkRedundant(); err != nil {
		return fmt.Errorf("%s handler: %w: %v", o.Name(), ErrRedundantSupport, err)
	}
	if o.plain && len(d.Mps) > 0 {
		return chk.Err("plain handler cannot enforce multi-point constraints; use transformation, penalty or lagrange")
	}

	// slave equations => rows of masters
	slave := make(map[int][]cterm)
	for _, mp := range d.Mps {
		ms, sl := d.Nodes[mp.Master], d.Nodes[mp.Slave]
		for i, ds := range mp.SlaveDofs {
			var row []cterm
			for j, dm := range mp.MasterDofs {
				if mp.C[i][j] != 0 {
					row = append(row, cterm{ms.Eqs[dm], mp.C[i][j]})
				}
			}
			slave[sl.Eqs[ds]] = row
		}
	}

	// free and prescribed equations
	fixed := make(map[int]bool)
	o.spEq, o.spVal = nil, nil
	for _, sp := range d.Sps {
		eq := d.Nodes[sp.Node].Eqs[sp.Dof]
		fixed[eq] = true
		o.spEq = append(o.spEq, eq)
		o.spVal = append(o.spVal, sp.Value)
	}
	o.terms = make([][]cterm, d.Ny)
	o.neq = 0
	for I := 0; I < d.Ny; I++ {
		if fixed[I] {
			continue
		}
		if _, isSlave := slave[I]; isSlave {
			continue
		}
		o.terms[I] = []cterm{{o.neq, 1}}
		o.neq++
	}

	// resolve slaves; chains of slaves are followed
	state := make(map[int]int) // 0: unvisited, 1: visiting, 2: done
	o.slaves = nil
	var resolve func(I int) error
	resolve = func(I int) error {
		row, isSlave := slave[I]
		if !isSlave {
			return nil
		}
		switch state[I] {
		case 1:
			return chk.Err("%s handler: multi-point constraints form a cycle at equation %d", o.Name(), I)
		case 2:
			return nil
		}
		state[I] = 1
		acc := make(map[int]float64)
		var order []int
		for _, m := range row {
			if err := resolve(m.Eq); err != nil {
				return err
			}
			for _, t := range o.terms[m.Eq] {
				if _, ok := acc[t.Eq]; !ok {
					order = append(order, t.Eq)
				}
				acc[t.Eq] += m.C * t.C
			}
		}
		o.terms[I] = nil
		for _, eq := range order {
			o.terms[I] = append(o.terms[I], cterm{eq, acc[eq]})
		}
		state[I] = 2
		o.slaves = append(o.slaves, I)
		return nil
	}
	for I := 0; I < d.Ny; I++ {
		if err = resolve(I); err != nil {
			return
		}
	}
	o.mrows = make([][]cterm, d.Ny)
	for I, row := range slave {
		o.mrows[I] = row
	}
	if o.neq == 0 {
		return chk.Err("%s handler: all equations are constrained", o.Name())
	}
	return
}

func (o *transfHandler) Neq() int            { return o.neq }
func (o *transfHandler) Terms(I int) []cterm { return o.terms[I] }
func (o *transfHandler) Groups() [][]int     { return nil }
func (o *transfHandler) Eigen() bool         { return true }

func (o *transfHandler) Prescribe(y []float64) {
	for k, eq := range o.spEq {
		y[eq] = o.spVal[k]
	}
	for _, I := range o.slaves {
		y[I] = 0
		for _, m := range o.mrows[I] {
			y[I] += m.C * y[m.Eq]
		}
	}
}

func (o *transfHandler) AddToSystem(A ele.Assembler, b []float64, y []float64) {}

func (o *transfHandler) Expand(dy, x []float64) {
	for I := range dy {
		dy[I] = 0
		for _, t := range o.terms[I] {
			dy[I] += t.C * x[t.Eq]
		}
	}
}

// penalty /////////////////////////////////////////////////////////////////////////////////////////

// penaltyHandler keeps all equations and adds α·CᵀC to A and α·Cᵀ(g - C·y)
// to b
type penaltyHandler struct {
	αsp, αmp float64
	ny       int
	rows     []crow
	nsp      int
	ident    [][]cterm
	cct      *mat.Cholesky // factorization of C·Cᵀ
	mu       *mat.VecDense
	cr       *mat.VecDense
}

func (o *penaltyHandler) Name() string { return "penalty" }

func (o *penaltyHandler) Setup(d *Domain) (err error) {
	if err = d.checkRedundant(); err != nil {
		return fmt.Errorf("penalty handler: %w: %v", ErrRedundantSupport, err)
	}
	o.ny = d.Ny
	o.rows = d.constraintRows()
	o.nsp = len(d.Sps)
	o.ident = identityTerms(d.Ny)
	o.cct = nil
	if len(o.rows) == 0 {
		return
	}
	m := len(o.rows)
	coef := make([]map[int]float64, m)
	for k, r := range o.rows {
		coef[k] = make(map[int]float64, len(r.Terms))
		for _, t := range r.Terms {
			coef[k][t.Eq] += t.C
		}
	}
	cct := mat.NewSymDense(m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			var v float64
			for eq, c := range coef[i] {
				v += c * coef[j][eq]
			}
			cct.SetSym(i, j, v)
		}
	}
	o.cct = new(mat.Cholesky)
	if ok := o.cct.Factorize(cct); !ok {
		o.cct = nil
		return fmt.Errorf("penalty handler: %w: constraint equations are linearly dependent", ErrRedundantSupport)
	}
	o.mu, o.cr = mat.NewVecDense(m, nil), mat.NewVecDense(m, nil)
	return
}

// unbalance projects r onto the displacements that satisfy the constraints:
//  dst = r - Cᵀ·(C·Cᵀ)⁻¹·C·r
func (o *penaltyHandler) unbalance(dst, r []float64) {
	copy(dst, r)
	if o.cct == nil {
		return
	}
	for k, row := range o.rows {
		var v float64
		for _, t := range row.Terms {
			v += t.C * r[t.Eq]
		}
		o.cr.SetVec(k, v)
	}
	if err := o.cct.SolveVecTo(o.mu, o.cr); err != nil {
		return
	}
	for k, row := range o.rows {
		for _, t := range row.Terms {
			dst[t.Eq] -= t.C * o.mu.AtVec(k)
		}
	}
}

func (o *penaltyHandler) Neq() int            { return o.ny }
func (o *penaltyHandler) Terms(I int) []cterm { return o.ident[I] }
func (o *penaltyHandler) Prescribe(y []float64) {}
func (o *penaltyHandler) Eigen() bool         { return true }

func (o *penaltyHandler) Groups() (groups [][]int) {
	for _, r := range o.rows {
		g := make([]int, len(r.Terms))
		for i, t := range r.Terms {
			g[i] = t.Eq
		}
		groups = append(groups, g)
	}
	return
}

func (o *penaltyHandler) AddToSystem(A ele.Assembler, b []float64, y []float64) {
	for k, r := range o.rows {
		α := o.αsp
		if k >= o.nsp {
			α = o.αmp
		}
		gap := r.G
		for _, t := range r.Terms {
			gap -= t.C * y[t.Eq]
		}
		for _, ti := range r.Terms {
			if A != nil {
				for _, tj := range r.Terms {
					A.Put(ti.Eq, tj.Eq, α*ti.C*tj.C)
				}
			}
			if b != nil {
				b[ti.Eq] += α * ti.C * gap
			}
		}
	}
}

func (o *penaltyHandler) Expand(dy, x []float64) { copy(dy, x[:o.ny]) }

// lagrange ////////////////////////////////////////////////////////////////////////////////////////

// lagrangeHandler appends one multiplier per constraint row:
//
//  [ K  Cᵀ ] [ Δy ]   [ r - Cᵀ·λ ]
//  [ C  0  ] [ Δλ ] = [ g - C·y  ]
//
// The multipliers are the constraint forces
type lagrangeHandler struct {
	ny     int
	rows   []crow
	ident  [][]cterm
	Lambda []float64 // accumulated multipliers
}

func (o *lagrangeHandler) Name() string { return "lagrange" }

func (o *lagrangeHandler) Setup(d *Domain) (err error) {
	if err = d.checkRedundant(); err != nil {
		return fmt.Errorf("lagrange handler: %w: %v", ErrRedundantSupport, err)
	}
	o.ny = d.Ny
	o.rows = d.constraintRows()
	o.ident = identityTerms(d.Ny)
	o.Lambda = make([]float64, len(o.rows))
	return
}

func (o *lagrangeHandler) Neq() int              { return o.ny + len(o.rows) }
func (o *lagrangeHandler) Terms(I int) []cterm   { return o.ident[I] }
func (o *lagrangeHandler) Prescribe(y []float64) {}
func (o *lagrangeHandler) Eigen() bool           { return false }

func (o *lagrangeHandler) Groups() (groups [][]int) {
	for k, r := range o.rows {
		g := []int{o.ny + k}
		for _, t := range r.Terms {
			g = append(g, t.Eq)
		}
		groups = append(groups, g)
	}
	return
}

func (o *lagrangeHandler) AddToSystem(A ele.Assembler, b []float64, y []float64) {
	for k, r := range o.rows {
		eq := o.ny + k
		gap := r.G
		for _, t := range r.Terms {
			gap -= t.C * y[t.Eq]
			if A != nil {
				A.Put(t.Eq, eq, t.C)
				A.Put(eq, t.Eq, t.C)
			}
			if b != nil {
				b[t.Eq] -= t.C * o.Lambda[k]
			}
		}
		if b != nil {
			b[eq] += gap
		}
	}
}

func (o *lagrangeHandler) Expand(dy, x []float64) { copy(dy, x[:o.ny]) }

// accumulate adds η times the multiplier increments found in x
func (o *lagrangeHandler) accumulate(x []float64, η float64) {
	for k := range o.Lambda {
		o.Lambda[k] += η * x[o.ny+k]
	}
}

// identityTerms returns the one-to-one map
func identityTerms(n int) (terms [][]cterm) {
	terms = make([][]cterm, n)
	for I := range terms {
		terms[I] = []cterm{{I, 1}}
	}
	return
}
