// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/mat"
)

// EigenResult holds the results of an eigen analysis
type EigenResult struct {
	Kind    string      // modal, buckling or ill_conditioning
	Values  []float64   // ω² (modal), load factors (buckling) or stiffness eigenvalues
	Vectors [][]float64 // mode shapes over the raw equations [nmodes][ny]
	Periods []float64   // periods 2π/ω (modal only)
}

// denseAssembler adds scaled entries to a dense matrix
type denseAssembler struct {
	a *mat.Dense
	c float64
}

func (o denseAssembler) Put(i, j int, v float64) { o.a.Set(i, j, o.a.At(i, j)+o.c*v) }

// symmetric returns ½(A + Aᵀ)
func symmetric(a mat.Matrix) *mat.SymDense {
	n, _ := a.Dims()
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			s.SetSym(i, j, (a.At(i, j)+a.At(j, i))/2)
		}
	}
	return s
}

// stiffness assembles the tangent and returns it as a dense symmetric matrix
func (o *Analysis) stiffness() (*mat.SymDense, error) {
	if err := o.assembleK(1); err != nil {
		return nil, err
	}
	return symmetric(o.Sys.Dense()), nil
}

// reduced solves K·φ = λ·G·φ for the largest values μ = 1/λ of the standard
// problem L⁻¹·G·L⁻ᵀ·y = μ·y, where K = L·Lᵀ. Returns at most nmodes pairs
// with μ > 0 sorted by increasing λ; the vectors φ = L⁻ᵀ·y/√μ satisfy
// φᵀ·G·φ = 1
func reduced(K *mat.SymDense, G *mat.Dense, nmodes int) (λ []float64, φ [][]float64, err error) {
	n := K.SymmetricDim()
	var chol mat.Cholesky
	if !chol.Factorize(K) {
		return nil, nil, fmt.Errorf("%w: stiffness matrix is not positive definite", ErrSingularSystem)
	}
	var L, Linv mat.TriDense
	chol.LTo(&L)
	if err = Linv.InverseTri(&L); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	var tmp, C mat.Dense
	tmp.Mul(&Linv, G)
	C.Mul(&tmp, Linv.T())
	var eig mat.EigenSym
	if !eig.Factorize(symmetric(&C), true) {
		return nil, nil, chk.Err("symmetric eigen decomposition failed")
	}
	μ := eig.Values(nil)
	var Y mat.Dense
	eig.VectorsTo(&Y)
	tol := 1e-12 * math.Abs(μ[n-1])
	for k := n - 1; k >= 0 && len(λ) < nmodes; k-- {
		if μ[k] <= tol {
			break
		}
		var z mat.VecDense
		z.MulVec(Linv.T(), Y.ColView(k))
		z.ScaleVec(1/math.Sqrt(μ[k]), &z)
		λ = append(λ, 1/μ[k])
		φ = append(φ, append([]float64{}, z.RawVector().Data...))
	}
	if len(λ) == 0 {
		return nil, nil, chk.Err("eigen problem has no positive eigenvalues")
	}
	return
}

// toRaw expands system vectors to the raw equations
func (o *Analysis) toRaw(vs [][]float64) (raw [][]float64) {
	raw = make([][]float64, len(vs))
	for k, v := range vs {
		raw[k] = make([]float64, o.Dom.Ny)
		o.Handler.Expand(raw[k], v)
	}
	return
}

// modal computes the natural frequencies and mode shapes: K·φ = ω²·M·φ.
// Mode shapes are normalised with φᵀ·M·φ = 1
func (o *Analysis) modal(nmodes int) (err error) {
	if nmodes < 1 {
		nmodes = 1
	}
	o.State = StateRunning
	o.mass = newRawMatrix(o.Dom.Ny)
	if err = o.Dom.AssembleMass(o.mass); err != nil {
		return
	}
	if err = o.Dom.UpdateElems(); err != nil {
		return
	}
	K, err := o.stiffness()
	if err != nil {
		return
	}
	neq := o.Handler.Neq()
	M := mat.NewDense(neq, neq, nil)
	red := reducer{o.Handler, denseAssembler{M, 1}}
	o.mass.Each(red.Put)
	ω2, φ, err := reduced(K, M, nmodes)
	if err != nil {
		o.State = StateDiverged
		return
	}
	res := &EigenResult{Kind: "modal", Values: ω2, Vectors: o.toRaw(φ)}
	for _, v := range ω2 {
		res.Periods = append(res.Periods, 2*math.Pi/math.Sqrt(v))
	}
	o.Eigen = res
	o.State = StateConverged
	if o.Verbose {
		io.Pf("> modal analysis: periods = %v\n", res.Periods)
	}
	return
}

// Participation returns the participation factors Γ = φᵀ·M·r / φᵀ·M·φ and
// the effective modal masses (φᵀ·M·r)² / φᵀ·M·φ of the last modal analysis
// along the direction of the dof key dir; e.g. "ux". r is 1 at the dofs
// named dir and 0 elsewhere
func (o *Analysis) Participation(dir string) (Γ, meff []float64, err error) {
	if o.Eigen == nil || o.Eigen.Kind != "modal" || o.mass == nil {
		return nil, nil, chk.Err("participation factors require a modal analysis")
	}
	r := make([]float64, o.Dom.Ny)
	found := false
	for _, nod := range o.Dom.Nodes {
		for i, key := range nod.Dofs {
			if key == dir {
				r[nod.Eqs[i]] = 1
				found = true
			}
		}
	}
	if !found {
		return nil, nil, chk.Err("cannot find dofs named %q", dir)
	}
	Mr := make([]float64, o.Dom.Ny)
	o.mass.MulVec(Mr, 1, r)
	for _, φ := range o.Eigen.Vectors {
		Mφ := make([]float64, o.Dom.Ny)
		o.mass.MulVec(Mφ, 1, φ)
		var num, den float64
		for i := range φ {
			num += φ[i] * Mr[i]
			den += φ[i] * Mφ[i]
		}
		Γ = append(Γ, num/den)
		meff = append(meff, num*num/den)
	}
	return
}

// TotalMass returns rᵀ·M·r for the dofs named dir
func (o *Analysis) TotalMass(dir string) (m float64) {
	if o.mass == nil {
		return
	}
	r := make([]float64, o.Dom.Ny)
	for _, nod := range o.Dom.Nodes {
		for i, key := range nod.Dofs {
			if key == dir {
				r[nod.Eqs[i]] = 1
			}
		}
	}
	o.mass.Each(func(i, j int, v float64) { m += r[i] * v * r[j] })
	return
}

// buckling computes the critical load factors K·φ = λ·(-Kg)·φ using the
// axial forces of the last committed state. Mode shapes are normalised to
// a unit maximum component
func (o *Analysis) buckling(nmodes int) (err error) {
	if nmodes < 1 {
		nmodes = 1
	}
	o.State = StateRunning
	K, err := o.stiffness()
	if err != nil {
		return
	}
	neq := o.Handler.Neq()
	G := mat.NewDense(neq, neq, nil)
	if err = o.Dom.AssembleKg(reducer{o.Handler, denseAssembler{G, -1}}); err != nil {
		return
	}
	λ, φ, err := reduced(K, G, nmodes)
	if err != nil {
		o.State = StateDiverged
		return
	}
	vecs := o.toRaw(φ)
	for _, v := range vecs {
		big := 0.0
		for _, x := range v {
			if math.Abs(x) > math.Abs(big) {
				big = x
			}
		}
		if big != 0 {
			for i := range v {
				v[i] /= big
			}
		}
	}
	o.Eigen = &EigenResult{Kind: "buckling", Values: λ, Vectors: vecs}
	o.State = StateConverged
	if o.Verbose {
		io.Pf("> linear buckling: load factors = %v\n", λ)
	}
	return
}

// illConditioning computes the smallest eigenvalues of the stiffness matrix;
// their vectors locate mechanisms and weakly restrained parts
func (o *Analysis) illConditioning(nmodes int) (err error) {
	if nmodes < 1 {
		nmodes = 1
	}
	o.State = StateRunning
	if err = o.Dom.UpdateElems(); err != nil {
		return
	}
	K, err := o.stiffness()
	if err != nil {
		return
	}
	var eig mat.EigenSym
	if !eig.Factorize(K, true) {
		o.State = StateDiverged
		return chk.Err("symmetric eigen decomposition failed")
	}
	vals := eig.Values(nil)
	var V mat.Dense
	eig.VectorsTo(&V)
	if nmodes > len(vals) {
		nmodes = len(vals)
	}
	res := &EigenResult{Kind: "ill_conditioning", Values: append([]float64{}, vals[:nmodes]...)}
	var vs [][]float64
	for k := 0; k < nmodes; k++ {
		vs = append(vs, mat.Col(nil, k, &V))
	}
	res.Vectors = o.toRaw(vs)
	o.Eigen = res
	o.State = StateConverged
	if o.Verbose {
		io.Pf("> ill-conditioning: smallest eigenvalues = %v\n", res.Values)
	}
	return
}
