// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// System defines a system of linear equations A·x = b and its solver
type System interface {
	Name() string
	Init(neq int, groups [][]int) error // allocates storage; groups lists coupled equations
	Zero()                              // clears A
	Put(i, j int, v float64)            // adds v to A[i][j]
	Factorize() error                   // factorizes A
	Solve(x, b []float64) error         // solves A·x = b with the last factorization
	Dense() *mat.Dense                  // returns a dense copy of A
	Symmetric() bool                    // A is stored as symmetric
}

// NewSystem returns a system of equations by name
func NewSystem(name string) (System, error) {
	switch name {
	case "full_gen", "full_gen_eigen":
		return &fullSystem{name: name}, nil
	case "band_gen+lapack", "band_arpack+shift", "":
		return &bandSystem{name: name}, nil
	case "band_spd", "profile_spd", "sym_band_eigen":
		return &spdBandSystem{name: name}, nil
	case "sparse_gen+super_lu", "umfpack", "mumps", "spectra":
		return &sparseSystem{name: name}, nil
	}
	return nil, chk.Err("cannot find system of equations named %q", name)
}

// solveErr converts gonum condition errors; near-singular systems still
// deliver a solution
func solveErr(name string, err error) error {
	if err == nil {
		return nil
	}
	var c mat.Condition
	if errors.As(err, &c) {
		if math.IsInf(float64(c), 0) || math.IsNaN(float64(c)) {
			return fmt.Errorf("%s: %w: %v", name, ErrSingularSystem, err)
		}
		return nil
	}
	return err
}

// groupBandwidth returns the half bandwidth of coupled equations
func groupBandwidth(groups [][]int) int {
	return bandwidth(groups)
}

// full /////////////////////////////////////////////////////////////////////////////////////////////

// fullSystem stores A as a dense matrix and solves with LU
type fullSystem struct {
	name string
	a    *mat.Dense
	lu   mat.LU
}

func (o *fullSystem) Name() string    { return o.name }
func (o *fullSystem) Symmetric() bool { return false }

func (o *fullSystem) Init(neq int, groups [][]int) error {
	if neq < 1 {
		return chk.Err("%s: number of equations must be positive", o.name)
	}
	o.a = mat.NewDense(neq, neq, nil)
	return nil
}

func (o *fullSystem) Zero()                   { o.a.Zero() }
func (o *fullSystem) Put(i, j int, v float64) { o.a.Set(i, j, o.a.At(i, j)+v) }

func (o *fullSystem) Factorize() error {
	o.lu.Factorize(o.a)
	if math.IsInf(o.lu.Cond(), 1) {
		return fmt.Errorf("%s: %w", o.name, ErrSingularSystem)
	}
	return nil
}

func (o *fullSystem) Solve(x, b []float64) error {
	dst := mat.NewVecDense(len(x), x)
	return solveErr(o.name, o.lu.SolveVecTo(dst, false, mat.NewVecDense(len(b), b)))
}

func (o *fullSystem) Dense() *mat.Dense { return mat.DenseCopyOf(o.a) }

// band ////////////////////////////////////////////////////////////////////////////////////////////

// bandSystem stores A with equal lower and upper bandwidths. The band is
// expanded for the LU factorization with partial pivoting
type bandSystem struct {
	name string
	bw   int
	a    *mat.BandDense
	lu   mat.LU
}

func (o *bandSystem) Name() string    { return o.name }
func (o *bandSystem) Symmetric() bool { return false }

func (o *bandSystem) Init(neq int, groups [][]int) error {
	if neq < 1 {
		return chk.Err("%s: number of equations must be positive", o.name)
	}
	o.bw = groupBandwidth(groups)
	if o.bw > neq-1 {
		o.bw = neq - 1
	}
	o.a = mat.NewBandDense(neq, neq, o.bw, o.bw, nil)
	return nil
}

func (o *bandSystem) Zero() { o.a.Zero() }

func (o *bandSystem) Put(i, j int, v float64) {
	if i-j > o.bw || j-i > o.bw {
		chk.Panic("%s: entry (%d,%d) is outside the band %d", o.name, i, j, o.bw)
	}
	o.a.SetBand(i, j, o.a.At(i, j)+v)
}

func (o *bandSystem) Factorize() error {
	o.lu.Factorize(o.a)
	if math.IsInf(o.lu.Cond(), 1) {
		return fmt.Errorf("%s: %w", o.name, ErrSingularSystem)
	}
	return nil
}

func (o *bandSystem) Solve(x, b []float64) error {
	dst := mat.NewVecDense(len(x), x)
	return solveErr(o.name, o.lu.SolveVecTo(dst, false, mat.NewVecDense(len(b), b)))
}

func (o *bandSystem) Dense() *mat.Dense { return mat.DenseCopyOf(o.a) }

// symmetric positive-definite band ///////////////////////////////////////////////////////////////

// spdBandSystem stores the upper band of a symmetric positive-definite A and
// solves with a band Cholesky factorization. Put ignores entries below the
// diagonal
type spdBandSystem struct {
	name string
	bw   int
	a    *mat.SymBandDense
	chol mat.BandCholesky
}

func (o *spdBandSystem) Name() string    { return o.name }
func (o *spdBandSystem) Symmetric() bool { return true }

func (o *spdBandSystem) Init(neq int, groups [][]int) error {
	if neq < 1 {
		return chk.Err("%s: number of equations must be positive", o.name)
	}
	o.bw = groupBandwidth(groups)
	if o.bw > neq-1 {
		o.bw = neq - 1
	}
	o.a = mat.NewSymBandDense(neq, o.bw, nil)
	return nil
}

func (o *spdBandSystem) Zero() { o.a.Zero() }

func (o *spdBandSystem) Put(i, j int, v float64) {
	if j < i {
		return
	}
	if j-i > o.bw {
		chk.Panic("%s: entry (%d,%d) is outside the band %d", o.name, i, j, o.bw)
	}
	o.a.SetSymBand(i, j, o.a.At(i, j)+v)
}

func (o *spdBandSystem) Factorize() error {
	if !o.chol.Factorize(o.a) {
		return fmt.Errorf("%s: %w: matrix is not positive definite", o.name, ErrSingularSystem)
	}
	return nil
}

func (o *spdBandSystem) Solve(x, b []float64) error {
	dst := mat.NewVecDense(len(x), x)
	return solveErr(o.name, o.chol.SolveVecTo(dst, mat.NewVecDense(len(b), b)))
}

func (o *spdBandSystem) Dense() *mat.Dense { return mat.DenseCopyOf(o.a) }

// sparse //////////////////////////////////////////////////////////////////////////////////////////

// sparseSystem assembles A in dictionary-of-keys format and compresses it to
// CSR before the factorization
type sparseSystem struct {
	name string
	neq  int
	dok  *sparse.DOK
	csr  *sparse.CSR
	lu   mat.LU
}

func (o *sparseSystem) Name() string    { return o.name }
func (o *sparseSystem) Symmetric() bool { return false }

func (o *sparseSystem) Init(neq int, groups [][]int) error {
	if neq < 1 {
		return chk.Err("%s: number of equations must be positive", o.name)
	}
	o.neq = neq
	o.dok = sparse.NewDOK(neq, neq)
	return nil
}

func (o *sparseSystem) Zero() {
	o.dok = sparse.NewDOK(o.neq, o.neq)
	o.csr = nil
}

func (o *sparseSystem) Put(i, j int, v float64) {
	o.dok.Set(i, j, o.dok.At(i, j)+v)
}

func (o *sparseSystem) Factorize() error {
	o.csr = o.dok.ToCSR()
	o.lu.Factorize(o.csr)
	if math.IsInf(o.lu.Cond(), 1) {
		return fmt.Errorf("%s: %w", o.name, ErrSingularSystem)
	}
	return nil
}

func (o *sparseSystem) Solve(x, b []float64) error {
	dst := mat.NewVecDense(len(x), x)
	return solveErr(o.name, o.lu.SolveVecTo(dst, false, mat.NewVecDense(len(b), b)))
}

func (o *sparseSystem) Dense() *mat.Dense {
	if o.csr == nil {
		o.csr = o.dok.ToCSR()
	}
	return mat.DenseCopyOf(o.csr)
}

// Nnz returns the number of stored entries
func (o *sparseSystem) Nnz() int {
	if o.csr == nil {
		o.csr = o.dok.ToCSR()
	}
	return o.csr.NNZ()
}

// raw matrices ////////////////////////////////////////////////////////////////////////////////////

// rawMatrix accumulates a global matrix over all raw equations; used for mass
// and damping
type rawMatrix struct {
	dok *sparse.DOK
	csr *sparse.CSR
}

func newRawMatrix(n int) *rawMatrix { return &rawMatrix{dok: sparse.NewDOK(n, n)} }

func (o *rawMatrix) Put(i, j int, v float64) {
	o.dok.Set(i, j, o.dok.At(i, j)+v)
	o.csr = nil
}

// compress builds the CSR form
func (o *rawMatrix) compress() *sparse.CSR {
	if o.csr == nil {
		o.csr = o.dok.ToCSR()
	}
	return o.csr
}

// MulVec computes y += a·M·x
func (o *rawMatrix) MulVec(y []float64, a float64, x []float64) {
	o.compress().DoNonZero(func(i, j int, v float64) {
		y[i] += a * v * x[j]
	})
}

// Each runs fcn for each stored entry
func (o *rawMatrix) Each(fcn func(i, j int, v float64)) {
	o.compress().DoNonZero(fcn)
}
