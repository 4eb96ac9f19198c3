// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/shp"
)

// Plate represents a rectangular flat shell on the x-y plane made of a bilinear
// membrane (qua4) and the Bogner-Fox-Schmit bending element
//
//    3-----------2     dofs per node: ux, uy, uz, wx, wy, wxy
//    |     y     |     where wx = ∂w/∂x, wy = ∂w/∂y and wxy = ∂²w/∂x∂y
//    |     |     |
//    |     +--x  |     Props: E, nu, t, rho (optional)
//    |           |
//    0-----------1
//
// The geometric stiffness is computed with the last committed membrane forces
type Plate struct {

	// basic data
	Tag   int         // element tag
	Nodes []int       // node tags
	X     [][]float64 // nodal coordinates [4][3]
	a, b  float64     // sides along x and y

	// parameters and properties
	E, Nu, Th, Rho float64

	// integration points
	ips []shp.Ipoint
	Bm  [][][]float64 // [nip][3][24] membrane strains
	Bb  [][][]float64 // [nip][3][24] curvatures
	Gw  [][][]float64 // [nip][2][24] gradient of w
	Nw  [][]float64   // [nip][24] w interpolation
	dA  float64       // area per unit weight

	// vectors and matrices
	K   [][]float64 // [24][24] linear stiffness
	Dm  [][]float64 // membrane elasticity (times thickness)
	Db  [][]float64 // bending elasticity
	fxl []float64   // equivalent nodal loads of the uniform pressure

	// problem variables
	Umap []int // assembly map

	// state
	nTrial  [][]float64 // [nip][3] membrane forces: nx, ny, nxy
	nCommit [][]float64 // [nip][3]

	// scratchpad
	ue []float64
}

const plateNu = 24 // number of unknowns

// register element
func init() {
	ele.SetInfoFunc("plate", func(ndim int) *ele.Info {
		if ndim != 3 {
			return nil
		}
		return ele.NewInfo("ux", "uy", "uz", "wx", "wy", "wxy")
	})
	ele.SetAllocator("plate", newPlate)
}

// newPlate allocates a plate
func newPlate(dat *ele.Data) (ele.Element, error) {

	// geometry
	if len(dat.Verts) != 4 || len(dat.X) != 4 {
		return nil, chk.Err("plate requires 4 nodes")
	}
	o := &Plate{Tag: dat.Tag, Nodes: dat.Verts, X: dat.X}
	for _, x := range o.X {
		if len(x) != 3 || math.Abs(x[2]-o.X[0][2]) > 1e-12 {
			return nil, chk.Err("plate %d must lie on a plane z = constant", o.Tag)
		}
	}
	o.a = o.X[1][0] - o.X[0][0]
	o.b = o.X[3][1] - o.X[0][1]
	tol := 1e-10 * (math.Abs(o.a) + math.Abs(o.b))
	if o.a <= 0 || o.b <= 0 ||
		math.Abs(o.X[1][1]-o.X[0][1]) > tol || math.Abs(o.X[2][0]-o.X[1][0]) > tol ||
		math.Abs(o.X[2][1]-o.X[3][1]) > tol || math.Abs(o.X[3][0]-o.X[0][0]) > tol {
		return nil, chk.Err("plate %d must be a rectangle aligned with x-y and numbered counter-clockwise", o.Tag)
	}

	// properties
	var err error
	if o.E, err = dat.Prop("E"); err != nil {
		return nil, err
	}
	if o.Th, err = dat.Prop("t"); err != nil {
		return nil, err
	}
	o.Nu = dat.PropOpt("nu", 0)
	if o.Nu < 0 || o.Nu >= 0.5 {
		return nil, chk.Err("plate %d: Poisson's coefficient must be in [0, 0.5); %g given", o.Tag, o.Nu)
	}
	o.Rho = dat.PropOpt("rho", 0)

	// elasticity
	c := o.E / (1 - o.Nu*o.Nu)
	iso := func(f float64) [][]float64 {
		return [][]float64{
			{f, f * o.Nu, 0},
			{f * o.Nu, f, 0},
			{0, 0, f * (1 - o.Nu) / 2},
		}
	}
	o.Dm = iso(c * o.Th)
	o.Db = iso(c * o.Th * o.Th * o.Th / 12)

	// integration points
	o.ips = shp.QuadPoints(4)
	o.dA = o.a * o.b / 4
	nip := len(o.ips)
	o.Bm = make([][][]float64, nip)
	o.Bb = make([][][]float64, nip)
	o.Gw = make([][][]float64, nip)
	o.Nw = make([][]float64, nip)
	o.nTrial = matAlloc(nip, 3)
	o.nCommit = matAlloc(nip, 3)
	for p, ip := range o.ips {
		o.Bm[p] = matAlloc(3, plateNu)
		o.Bb[p] = matAlloc(3, plateNu)
		o.Gw[p] = matAlloc(2, plateNu)
		o.Nw[p] = make([]float64, plateNu)
		o.calcB(p, ip.R, ip.S)
	}

	// stiffness
	o.K = matAlloc(plateNu, plateNu)
	for p, ip := range o.ips {
		coef := ip.W * o.dA
		addBtDB(o.K, o.Bm[p], o.Dm, coef)
		addBtDB(o.K, o.Bb[p], o.Db, coef)
	}
	o.fxl = make([]float64, plateNu)
	o.ue = make([]float64, plateNu)
	return o, nil
}

// Id returns the element tag
func (o *Plate) Id() int { return o.Tag }

// Type returns the element type
func (o *Plate) Type() string { return "plate" }

// Verts returns the node tags
func (o *Plate) Verts() []int { return o.Nodes }

// SetEqs set equations
func (o *Plate) SetEqs(eqs [][]int) (err error) {
	if len(eqs) != 4 {
		return chk.Err("plate %d: eqs must have 4 rows", o.Tag)
	}
	o.Umap = make([]int, plateNu)
	for m := 0; m < 4; m++ {
		if len(eqs[m]) != 6 {
			return chk.Err("plate %d: node %d must have 6 equations", o.Tag, m)
		}
		for i := 0; i < 6; i++ {
			o.Umap[6*m+i] = eqs[m][i]
		}
	}
	return
}

// SetUniformLoad sets the uniform pressure along z: q = [qz]
func (o *Plate) SetUniformLoad(q []float64) error {
	if len(q) != 1 {
		return chk.Err("plate %d: uniform load must have 1 component (qz)", o.Tag)
	}
	for i := range o.fxl {
		o.fxl[i] = 0
	}
	for p, ip := range o.ips {
		for i := 0; i < plateNu; i++ {
			o.fxl[i] += o.Nw[p][i] * q[0] * ip.W * o.dA
		}
	}
	return nil
}

// Update computes the trial membrane forces
func (o *Plate) Update(sol *ele.Solution) (err error) {
	ele.Gather(o.ue, sol.Y, o.Umap)
	ε := make([]float64, 3)
	for p := range o.ips {
		matVecMul(ε, o.Bm[p], o.ue)
		matVecMul(o.nTrial[p], o.Dm, ε)
	}
	return
}

// AddToRhs adds -R to global residual vector fb
func (o *Plate) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	for i, I := range o.Umap {
		fi := -o.fxl[i]
		for j := 0; j < plateNu; j++ {
			fi += o.K[i][j] * o.ue[j]
		}
		fb[I] -= fi
	}
	return
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *Plate) AddToKb(Kb ele.Assembler, sol *ele.Solution, firstIt bool) (err error) {
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			if o.K[i][j] != 0 {
				Kb.Put(I, J, o.K[i][j])
			}
		}
	}
	return
}

// AddToMb adds the lumped mass matrix
func (o *Plate) AddToMb(Mb ele.Assembler) (err error) {
	m := o.Rho * o.Th * o.a * o.b / 4
	if m == 0 {
		return
	}
	for k := 0; k < 4; k++ {
		for i := 0; i < 3; i++ {
			I := o.Umap[6*k+i]
			Mb.Put(I, I, m)
		}
	}
	return
}

// AddToKg adds the geometric stiffness due to the committed membrane forces
func (o *Plate) AddToKg(Kg ele.Assembler) (err error) {
	kg := matAlloc(plateNu, plateNu)
	for p, ip := range o.ips {
		n := o.nCommit[p]
		s := [][]float64{{n[0], n[2]}, {n[2], n[1]}}
		addBtDB(kg, o.Gw[p], s, ip.W*o.dA)
	}
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			if kg[i][j] != 0 {
				Kg.Put(I, J, kg[i][j])
			}
		}
	}
	return
}

// Commit accepts the trial state
func (o *Plate) Commit() {
	for p := range o.nTrial {
		copy(o.nCommit[p], o.nTrial[p])
	}
}

// RevertToLastCommit discards the trial state
func (o *Plate) RevertToLastCommit() {
	for p := range o.nTrial {
		copy(o.nTrial[p], o.nCommit[p])
	}
}

// RevertToStart returns to the virgin state
func (o *Plate) RevertToStart() {
	for p := range o.nTrial {
		for i := 0; i < 3; i++ {
			o.nTrial[p][i], o.nCommit[p][i] = 0, 0
		}
	}
	for i := range o.ue {
		o.ue[i] = 0
	}
}

// InternalForces returns the resultants per unit length at the centroid:
//  n1, n2, n12, m1, m2, m12, q13, q23 with 1 = x and 2 = y
func (o *Plate) InternalForces() ([]ele.ForceRecord, error) {
	var hξ, hη shp.Hermite
	hξ.Calc(0)
	hη.Calc(0)

	// membrane at centroid
	bm := matAlloc(3, plateNu)
	bb := matAlloc(3, plateNu)
	o.fillB(bm, bb, nil, nil, 0, 0, &hξ, &hη)
	ε := make([]float64, 3)
	κ := make([]float64, 3)
	n := make([]float64, 3)
	m := make([]float64, 3)
	matVecMul(ε, bm, o.ue)
	matVecMul(n, o.Dm, ε)
	matVecMul(κ, bb, o.ue)
	matVecMul(m, o.Db, κ)

	// shear forces from third derivatives
	D := o.Db[0][0]
	sx, sy := 2/o.a, 2/o.b
	var wxxx, wxyy, wyyy, wxxy float64
	o.eachW(func(k, idx int, iξ, iη int, f float64) {
		u := o.ue[6*k+idx] * f
		wxxx += u * hξ.D3[iξ] * hη.H[iη] * sx * sx * sx
		wxyy += u * hξ.D1[iξ] * hη.D2[iη] * sx * sy * sy
		wyyy += u * hξ.H[iξ] * hη.D3[iη] * sy * sy * sy
		wxxy += u * hξ.D2[iξ] * hη.D1[iη] * sx * sx * sy
	})
	r := ele.ForceRecord{
		"n1": n[0], "n2": n[1], "n12": n[2],
		"m1": m[0], "m2": m[1], "m12": m[2],
		"q13": -D * (wxxx + wxyy), "q23": -D * (wyyy + wxxy),
	}
	return []ele.ForceRecord{r}, nil
}

// Encode encodes internal variables
func (o *Plate) Encode(enc ele.Encoder) (err error) {
	return enc.Encode(o.nCommit)
}

// Decode decodes internal variables
func (o *Plate) Decode(dec ele.Decoder) (err error) {
	var n [][]float64
	if err = dec.Decode(&n); err != nil {
		return
	}
	if len(n) != len(o.nCommit) {
		return chk.Err("plate %d: wrong number of integration points in decoded data", o.Tag)
	}
	for p := range n {
		copy(o.nCommit[p], n[p])
		copy(o.nTrial[p], n[p])
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// plateNat holds the natural coordinates of the corners
var plateNat = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// eachW loops over the 16 bending dofs calling fcn with the node, the dof index
// within the node, the Hermite indices along ξ and η and the scaling factor
func (o *Plate) eachW(fcn func(k, idx, iξ, iη int, f float64)) {
	for k := 0; k < 4; k++ {
		iv, jv := 0, 0 // value indices
		if plateNat[k][0] > 0 {
			iv = 2
		}
		if plateNat[k][1] > 0 {
			jv = 2
		}
		fcn(k, 2, iv, jv, 1)
		fcn(k, 3, iv+1, jv, o.a/2)
		fcn(k, 4, iv, jv+1, o.b/2)
		fcn(k, 5, iv+1, jv+1, o.a*o.b/4)
	}
}

// calcB computes the B matrices at integration point p
func (o *Plate) calcB(p int, ξ, η float64) {
	var hξ, hη shp.Hermite
	hξ.Calc(ξ)
	hη.Calc(η)
	o.fillB(o.Bm[p], o.Bb[p], o.Gw[p], o.Nw[p], ξ, η, &hξ, &hη)
}

// fillB fills the membrane and bending matrices at (ξ,η); gw and nw may be nil
func (o *Plate) fillB(bm, bb, gw [][]float64, nw []float64, ξ, η float64, hξ, hη *shp.Hermite) {

	// membrane
	S := make([]float64, 4)
	dSdR := matAlloc(4, 2)
	shp.FuncQua4(S, dSdR, []float64{ξ, η}, true)
	sx, sy := 2/o.a, 2/o.b
	for k := 0; k < 4; k++ {
		dx, dy := dSdR[k][0]*sx, dSdR[k][1]*sy
		bm[0][6*k] = dx
		bm[1][6*k+1] = dy
		bm[2][6*k] = dy
		bm[2][6*k+1] = dx
	}

	// bending
	o.eachW(func(k, idx, iξ, iη int, f float64) {
		c := 6*k + idx
		bb[0][c] = -f * hξ.D2[iξ] * hη.H[iη] * sx * sx
		bb[1][c] = -f * hξ.H[iξ] * hη.D2[iη] * sy * sy
		bb[2][c] = -2 * f * hξ.D1[iξ] * hη.D1[iη] * sx * sy
		if gw != nil {
			gw[0][c] = f * hξ.D1[iξ] * hη.H[iη] * sx
			gw[1][c] = f * hξ.H[iξ] * hη.D1[iη] * sy
		}
		if nw != nil {
			nw[c] = f * hξ.H[iξ] * hη.H[iη]
		}
	})
}

// addBtDB computes k += coef * trans(B) * D * B
func addBtDB(k, B, D [][]float64, coef float64) {
	nr, nc := len(B), len(B[0])
	db := matAlloc(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			for l := 0; l < nr; l++ {
				db[i][j] += D[i][l] * B[l][j]
			}
		}
	}
	for i := 0; i < nc; i++ {
		for l := 0; l < nr; l++ {
			if B[l][i] == 0 {
				continue
			}
			for j := 0; j < nc; j++ {
				k[i][j] += coef * B[l][i] * db[l][j]
			}
		}
	}
}
