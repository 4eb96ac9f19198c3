// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
)

// Beam represents an elastic beam-column element (Euler-Bernoulli)
//
//  2D    y            Props:           Nodes:
//         ^            E, A, Iz         0 and 1
//         |  qy        rho (optional)
//         o===============o-----> x
//        (0)             (1)
//
//  3D    local x goes from node 0 to node 1; local y := VecXZ × x and z := x × y.
//        Props: E, G, A, Iz (bending in x-y), Iy (bending in x-z), J, rho (optional)
//
//  Transformations:
//   "linear" -- small displacements
//   "pdelta" -- adds N/L on the transverse translations; N is the last committed axial force
type Beam struct {

	// basic data
	Tag    int         // element tag
	Nodes  []int       // node tags
	X      [][]float64 // nodal coordinates [2][ndim]
	Ndim   int         // space dimension
	Nu     int         // total number of unknowns
	Transf string      // coordinate transformation

	// parameters and properties
	E, G, A, Iz, Iy, J, Rho float64
	L                       float64 // (derived) length of beam

	// unit vectors aligned with beam element
	e0 []float64 // [3] local x
	e1 []float64 // [3] local y
	e2 []float64 // [3] local z

	// vectors and matrices
	T  [][]float64 // global-to-local transformation matrix [nu][nu]
	Kl [][]float64 // local K matrix
	K  [][]float64 // global K matrix
	Ml [][]float64 // local M matrix
	M  [][]float64 // global M matrix

	// problem variables
	Umap []int     // assembly map (location array/element equations)
	Q    []float64 // uniform load in local axes: qx, qy[, qz]

	// state
	ul      []float64 // trial local displacements
	fl      []float64 // trial local end forces
	Ntrial  float64   // trial axial force (tension positive)
	Ncommit float64   // committed axial force

	// scratchpad
	ue  []float64 // global element displacements
	fxl []float64 // local equivalent nodal loads
	fg  []float64 // global forces
	kg  [][]float64
}

// register element
func init() {
	info := func(ndim int) *ele.Info {
		if ndim == 2 {
			return ele.NewInfo("ux", "uy", "rz")
		}
		return ele.NewInfo("ux", "uy", "uz", "rx", "ry", "rz")
	}
	ele.SetInfoFunc("beam", info)
	ele.SetAllocator("beam", newBeam)
}

// newBeam allocates a beam
func newBeam(dat *ele.Data) (ele.Element, error) {

	// basic data
	if len(dat.Verts) != 2 || len(dat.X) != 2 {
		return nil, chk.Err("beam requires 2 nodes")
	}
	var o Beam
	o.Tag = dat.Tag
	o.Nodes = dat.Verts
	o.X = dat.X
	o.Ndim = len(dat.X[0])
	if o.Ndim != 2 && o.Ndim != 3 {
		return nil, chk.Err("beam: ndim must be 2 or 3; %d given", o.Ndim)
	}
	o.Nu = 6 * (o.Ndim - 1)
	o.Transf = dat.Transf
	if o.Transf == "" {
		o.Transf = "linear"
	}
	if o.Transf != "linear" && o.Transf != "pdelta" {
		return nil, chk.Err("beam: transformation %q is not available", o.Transf)
	}

	// properties
	var err error
	if o.E, err = dat.Prop("E"); err != nil {
		return nil, err
	}
	if o.A, err = dat.Prop("A"); err != nil {
		return nil, err
	}
	if o.Iz, err = dat.Prop("Iz"); err != nil {
		return nil, err
	}
	if o.Ndim == 3 {
		if o.G, err = dat.Prop("G"); err != nil {
			return nil, err
		}
		if o.Iy, err = dat.Prop("Iy"); err != nil {
			return nil, err
		}
		if o.J, err = dat.Prop("J"); err != nil {
			return nil, err
		}
	}
	o.Rho = dat.PropOpt("rho", 0)

	// vectors and matrices
	o.e0 = make([]float64, 3)
	o.e1 = make([]float64, 3)
	o.e2 = make([]float64, 3)
	o.T = matAlloc(o.Nu, o.Nu)
	o.Kl = matAlloc(o.Nu, o.Nu)
	o.K = matAlloc(o.Nu, o.Nu)
	o.Ml = matAlloc(o.Nu, o.Nu)
	o.M = matAlloc(o.Nu, o.Nu)
	o.kg = matAlloc(o.Nu, o.Nu)
	o.ul = make([]float64, o.Nu)
	o.fl = make([]float64, o.Nu)
	o.ue = make([]float64, o.Nu)
	o.fxl = make([]float64, o.Nu)
	o.fg = make([]float64, o.Nu)
	o.Q = make([]float64, o.Ndim)

	// compute K and M
	if err = o.Recompute(dat.VecXZ); err != nil {
		return nil, err
	}
	return &o, nil
}

// Id returns the element tag
func (o *Beam) Id() int { return o.Tag }

// Type returns the element type
func (o *Beam) Type() string { return "beam" }

// Verts returns the node tags
func (o *Beam) Verts() []int { return o.Nodes }

// SetEqs set equations [2][?]. Format of eqs == format of info.Dofs
func (o *Beam) SetEqs(eqs [][]int) (err error) {
	ndof := 3 * (o.Ndim - 1)
	if len(eqs) != 2 {
		return chk.Err("beam %d: eqs must have 2 rows", o.Tag)
	}
	o.Umap = make([]int, o.Nu)
	for m := 0; m < 2; m++ {
		if len(eqs[m]) != ndof {
			return chk.Err("beam %d: node %d must have %d equations", o.Tag, m, ndof)
		}
		for i := 0; i < ndof; i++ {
			o.Umap[i+m*ndof] = eqs[m][i]
		}
	}
	return
}

// SetUniformLoad sets the distributed load in local axes (qx, qy[, qz])
func (o *Beam) SetUniformLoad(q []float64) error {
	if len(q) != o.Ndim {
		return chk.Err("beam %d: uniform load must have %d components", o.Tag, o.Ndim)
	}
	copy(o.Q, q)
	o.calcLoads()
	return nil
}

// Update computes the trial end forces from the current displacements
func (o *Beam) Update(sol *ele.Solution) (err error) {
	ele.Gather(o.ue, sol.Y, o.Umap)
	matVecMul(o.ul, o.T, o.ue)
	matVecMul(o.fl, o.Kl, o.ul)
	if o.Transf == "pdelta" {
		o.calcKg(o.Ncommit)
		for i := 0; i < o.Nu; i++ {
			for j := 0; j < o.Nu; j++ {
				o.fl[i] += o.kg[i][j] * o.ul[j]
			}
		}
	}
	for i := 0; i < o.Nu; i++ {
		o.fl[i] -= o.fxl[i]
	}
	nj := o.Nu / 2
	o.Ntrial = o.E * o.A * (o.ul[nj] - o.ul[0]) / o.L
	return
}

// AddToRhs adds -fint to global residual vector fb
func (o *Beam) AddToRhs(fb []float64, sol *ele.Solution) (err error) {
	matTrVecMul(o.fg, o.T, o.fl)
	for i, I := range o.Umap {
		fb[I] -= o.fg[i]
	}
	return
}

// AddToKb adds element K to global Jacobian matrix Kb
func (o *Beam) AddToKb(Kb ele.Assembler, sol *ele.Solution, firstIt bool) (err error) {
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			Kb.Put(I, J, o.K[i][j])
		}
	}
	if o.Transf == "pdelta" {
		o.addKg(Kb, o.Ncommit)
	}
	return
}

// AddToMb adds the element mass matrix
func (o *Beam) AddToMb(Mb ele.Assembler) (err error) {
	if o.Rho == 0 {
		return
	}
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			Mb.Put(I, J, o.M[i][j])
		}
	}
	return
}

// AddToKg adds the geometric stiffness due to the committed axial force
func (o *Beam) AddToKg(Kg ele.Assembler) (err error) {
	o.addKg(Kg, o.Ncommit)
	return
}

// Commit accepts the trial state
func (o *Beam) Commit() { o.Ncommit = o.Ntrial }

// RevertToLastCommit discards the trial state
func (o *Beam) RevertToLastCommit() { o.Ntrial = o.Ncommit }

// RevertToStart returns to the virgin state
func (o *Beam) RevertToStart() {
	o.Ntrial, o.Ncommit = 0, 0
	for i := range o.fl {
		o.fl[i], o.ul[i] = 0, 0
	}
}

// EndForces returns the trial local end forces
//  2D: [N0, V0, M0, N1, V1, M1]
//  3D: [N0, Vy0, Vz0, T0, My0, Mz0, N1, ...]
func (o *Beam) EndForces() []float64 { return o.fl }

// InternalForces returns the internal forces at the two ends acting on the
// positive face of the cut in local axes
func (o *Beam) InternalForces() (res []ele.ForceRecord, err error) {
	nj := o.Nu / 2
	res = make([]ele.ForceRecord, 2)
	for m, sgn := range []float64{-1, 1} {
		f := o.fl[m*nj : (m+1)*nj]
		r := ele.ForceRecord{"N": sgn * f[0], "Vy": sgn * f[1], "Vz": 0, "T": 0, "My": 0, "Mz": sgn * f[2]}
		if o.Ndim == 3 {
			r["Vz"] = sgn * f[2]
			r["T"] = sgn * f[3]
			r["My"] = sgn * f[4]
			r["Mz"] = sgn * f[5]
		}
		res[m] = r
	}
	return
}

// Encode encodes internal variables
func (o *Beam) Encode(enc ele.Encoder) (err error) {
	return enc.Encode(o.Ncommit)
}

// Decode decodes internal variables
func (o *Beam) Decode(dec ele.Decoder) (err error) {
	err = dec.Decode(&o.Ncommit)
	o.Ntrial = o.Ncommit
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// Recompute re-compute matrices after dimensions or parameters are externally changed
func (o *Beam) Recompute(vecxz []float64) error {

	// 3D
	if o.Ndim == 3 {

		// local x
		o.L = 0.0
		for i := 0; i < 3; i++ {
			o.e0[i] = o.X[1][i] - o.X[0][i]
			o.L += o.e0[i] * o.e0[i]
		}
		o.L = math.Sqrt(o.L)
		if o.L < 1e-12 {
			return chk.Err("beam %d has zero length", o.Tag)
		}
		for i := 0; i < 3; i++ {
			o.e0[i] /= o.L
		}

		// vector in x-z plane
		v := []float64{0, 0, 1}
		if len(vecxz) == 3 {
			v = vecxz
		} else if math.Abs(o.e0[2]) > 1-1e-8 {
			v = []float64{-1, 0, 0}
		}

		// local y and z
		cross3d(o.e1, v, o.e0) // e1 := v cross e0
		nrm1 := math.Sqrt(o.e1[0]*o.e1[0] + o.e1[1]*o.e1[1] + o.e1[2]*o.e1[2])
		if nrm1 < 1e-10 {
			return chk.Err("beam %d: vecxz is parallel to the axis", o.Tag)
		}
		for i := 0; i < 3; i++ {
			o.e1[i] /= nrm1
		}
		cross3d(o.e2, o.e0, o.e1) // e2 := e0 cross e1

		// global to local transformation matrix
		for k := 0; k < 4; k++ {
			for j := 0; j < 3; j++ {
				o.T[3*k+0][3*k+j] = o.e0[j]
				o.T[3*k+1][3*k+j] = o.e1[j]
				o.T[3*k+2][3*k+j] = o.e2[j]
			}
		}

		// constants
		EIz := o.E * o.Iz
		EIy := o.E * o.Iy
		GJ := o.G * o.J
		EA := o.E * o.A
		l := o.L
		ll := l * l
		lll := l * ll

		// stiffness matrix in local system
		o.Kl[0][0], o.Kl[0][6] = EA/l, -EA/l
		o.Kl[6][0], o.Kl[6][6] = -EA/l, EA/l
		o.Kl[3][3], o.Kl[3][9] = GJ/l, -GJ/l
		o.Kl[9][3], o.Kl[9][9] = -GJ/l, GJ/l

		// bending in x-y plane (v, rz)
		o.Kl[1][1], o.Kl[1][5], o.Kl[1][7], o.Kl[1][11] = 12*EIz/lll, 6*EIz/ll, -12*EIz/lll, 6*EIz/ll
		o.Kl[5][1], o.Kl[5][5], o.Kl[5][7], o.Kl[5][11] = 6*EIz/ll, 4*EIz/l, -6*EIz/ll, 2*EIz/l
		o.Kl[7][1], o.Kl[7][5], o.Kl[7][7], o.Kl[7][11] = -12*EIz/lll, -6*EIz/ll, 12*EIz/lll, -6*EIz/ll
		o.Kl[11][1], o.Kl[11][5], o.Kl[11][7], o.Kl[11][11] = 6*EIz/ll, 2*EIz/l, -6*EIz/ll, 4*EIz/l

		// bending in x-z plane (w, ry)
		o.Kl[2][2], o.Kl[2][4], o.Kl[2][8], o.Kl[2][10] = 12*EIy/lll, -6*EIy/ll, -12*EIy/lll, -6*EIy/ll
		o.Kl[4][2], o.Kl[4][4], o.Kl[4][8], o.Kl[4][10] = -6*EIy/ll, 4*EIy/l, 6*EIy/ll, 2*EIy/l
		o.Kl[8][2], o.Kl[8][4], o.Kl[8][8], o.Kl[8][10] = -12*EIy/lll, 6*EIy/ll, 12*EIy/lll, 6*EIy/ll
		o.Kl[10][2], o.Kl[10][4], o.Kl[10][8], o.Kl[10][10] = -6*EIy/ll, 2*EIy/l, 6*EIy/ll, 4*EIy/l

		// stiffness matrix in global system
		trMul3(o.K, o.T, o.Kl) // K := trans(T) * Kl * T

		// lumped mass matrix
		m := o.Rho * o.A * l / 2.0
		for _, i := range []int{0, 1, 2, 6, 7, 8} {
			o.Ml[i][i] = m
		}
		trMul3(o.M, o.T, o.Ml) // M := trans(T) * Ml * T
		return nil
	}

	// T
	dx := o.X[1][0] - o.X[0][0]
	dy := o.X[1][1] - o.X[0][1]
	l := math.Sqrt(dx*dx + dy*dy)
	if l < 1e-12 {
		return chk.Err("beam %d has zero length", o.Tag)
	}
	o.L = l
	c := dx / l
	s := dy / l
	o.T[0][0], o.T[0][1] = c, s
	o.T[1][0], o.T[1][1] = -s, c
	o.T[2][2] = 1
	o.T[3][3], o.T[3][4] = c, s
	o.T[4][3], o.T[4][4] = -s, c
	o.T[5][5] = 1

	// unit vectors aligned with beam element
	o.e0[0], o.e0[1] = c, s
	o.e1[0], o.e1[1] = -s, c
	o.e2[2] = 1

	// aux vars
	ll := l * l
	m := o.E * o.A / l
	n := o.E * o.Iz / (ll * l)

	// K
	o.Kl[0][0], o.Kl[0][3] = m, -m
	o.Kl[3][0], o.Kl[3][3] = -m, m
	o.Kl[1][1], o.Kl[1][2], o.Kl[1][4], o.Kl[1][5] = 12*n, 6*l*n, -12*n, 6*l*n
	o.Kl[2][1], o.Kl[2][2], o.Kl[2][4], o.Kl[2][5] = 6*l*n, 4*ll*n, -6*l*n, 2*ll*n
	o.Kl[4][1], o.Kl[4][2], o.Kl[4][4], o.Kl[4][5] = -12*n, -6*l*n, 12*n, -6*l*n
	o.Kl[5][1], o.Kl[5][2], o.Kl[5][4], o.Kl[5][5] = 6*l*n, 2*ll*n, -6*l*n, 4*ll*n
	trMul3(o.K, o.T, o.Kl) // K := trans(T) * Kl * T

	// consistent M
	m = o.Rho * o.A * l / 420.0
	o.Ml[0][0], o.Ml[0][3] = 140*m, 70*m
	o.Ml[3][0], o.Ml[3][3] = 70*m, 140*m
	o.Ml[1][1], o.Ml[1][2], o.Ml[1][4], o.Ml[1][5] = 156*m, 22*l*m, 54*m, -13*l*m
	o.Ml[2][1], o.Ml[2][2], o.Ml[2][4], o.Ml[2][5] = 22*l*m, 4*ll*m, 13*l*m, -3*ll*m
	o.Ml[4][1], o.Ml[4][2], o.Ml[4][4], o.Ml[4][5] = 54*m, 13*l*m, 156*m, -22*l*m
	o.Ml[5][1], o.Ml[5][2], o.Ml[5][4], o.Ml[5][5] = -13*l*m, -3*ll*m, -22*l*m, 4*ll*m
	trMul3(o.M, o.T, o.Ml) // M := trans(T) * Ml * T
	return nil
}

// calcLoads computes the local equivalent nodal loads of the uniform load
func (o *Beam) calcLoads() {
	l := o.L
	ll := l * l
	for i := range o.fxl {
		o.fxl[i] = 0
	}
	if o.Ndim == 2 {
		qx, qy := o.Q[0], o.Q[1]
		o.fxl[0] = qx * l / 2.0
		o.fxl[1] = qy * l / 2.0
		o.fxl[2] = qy * ll / 12.0
		o.fxl[3] = qx * l / 2.0
		o.fxl[4] = qy * l / 2.0
		o.fxl[5] = -qy * ll / 12.0
		return
	}
	qx, qy, qz := o.Q[0], o.Q[1], o.Q[2]
	o.fxl[0] = qx * l / 2.0
	o.fxl[1] = qy * l / 2.0
	o.fxl[2] = qz * l / 2.0
	o.fxl[4] = -qz * ll / 12.0
	o.fxl[5] = qy * ll / 12.0
	o.fxl[6] = qx * l / 2.0
	o.fxl[7] = qy * l / 2.0
	o.fxl[8] = qz * l / 2.0
	o.fxl[10] = qz * ll / 12.0
	o.fxl[11] = -qy * ll / 12.0
}

// calcKg computes the local geometric stiffness for axial force N
func (o *Beam) calcKg(N float64) {
	k := N / o.L
	nj := o.Nu / 2
	dofs := []int{1}
	if o.Ndim == 3 {
		dofs = []int{1, 2}
	}
	for _, d := range dofs {
		o.kg[d][d], o.kg[d][nj+d] = k, -k
		o.kg[nj+d][d], o.kg[nj+d][nj+d] = -k, k
	}
}

// addKg assembles trans(T) * kg * T
func (o *Beam) addKg(Kb ele.Assembler, N float64) {
	if N == 0 {
		return
	}
	o.calcKg(N)
	kg := matAlloc(o.Nu, o.Nu)
	trMul3(kg, o.T, o.kg)
	for i, I := range o.Umap {
		for j, J := range o.Umap {
			if kg[i][j] != 0 {
				Kb.Put(I, J, kg[i][j])
			}
		}
	}
}
