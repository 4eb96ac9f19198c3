// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sec implements fiber cross-sections of reinforced concrete members
package sec

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// Response identifies one component of the section deformation/resultant vectors
type Response int

const (
	RespP  Response = iota // axial force / axial strain
	RespMz                 // moment about z / curvature κz
	RespMy                 // moment about y / curvature κy
	RespT                  // torque / twist
	RespVy                 // shear along y / distortion γy
	RespVz                 // shear along z / distortion γz
)

// String returns the name of the component
func (r Response) String() string {
	switch r {
	case RespP:
		return "N"
	case RespMz:
		return "Mz"
	case RespMy:
		return "My"
	case RespT:
		return "T"
	case RespVy:
		return "Vy"
	case RespVz:
		return "Vz"
	}
	return "?"
}

// DivergedError is returned when a fiber material rejects a trial strain
type DivergedError struct {
	Y, Z   float64 // coordinates of the offending fiber
	Strain float64 // rejected strain
	Err    error   // material error
}

func (o *DivergedError) Error() string {
	return io.Sf("fiber at (%g,%g) diverged with strain %g: %v", o.Y, o.Z, o.Strain, o.Err)
}

func (o *DivergedError) Unwrap() error { return o.Err }

// IsDiverged tells whether err was caused by a fiber rejecting its strain
func IsDiverged(err error) bool {
	var d *DivergedError
	return errors.As(err, &d)
}

// Fiber holds one fiber of a section
type Fiber struct {
	Mdl  uniax.Model // material state of this fiber
	Mat  string      // material name
	A    float64     // area
	Y, Z float64     // local coordinates
	Kind FiberKind   // concrete or reinforcement
}

// Aggregator adds an uncoupled response (shear or torsion) to the section
type Aggregator struct {
	Code Response    // component
	Mdl  uniax.Model // force-deformation law (stress = force)
}

// FiberSection is a cross-section integrated from uniaxial fibers.
//  2D sections respond with (N, Mz); 3D sections with (N, Mz, My).
//  Aggregators append their components after the fiber ones.
//  Fiber strain: ε = εa + κz (ȳ - y) - κy (z̄ - z)
type FiberSection struct {
	Name   string        // name of section
	Ndim   int           // 2 or 3
	Fibers []*Fiber      // fibers
	Aggs   []*Aggregator // shear/torsion aggregators
	Yref   float64       // reference point ȳ fixed by SetupFibers
	Zref   float64       // reference point z̄ fixed by SetupFibers

	materials map[string]uniax.Model // prototypes used by AddFiber
	frozen    bool                   // SetupFibers was called
	eTrial    []float64              // trial deformation
	eCommit   []float64              // committed deformation
	s         []float64              // resultants consistent with eTrial
	k         [][]float64            // tangent consistent with eTrial
}

// NewFiberSection returns a new empty section for ndim = 2 or 3
func NewFiberSection(name string, ndim int) *FiberSection {
	if ndim != 2 && ndim != 3 {
		chk.Panic("fiber section %q: ndim must be 2 or 3; %d given", name, ndim)
	}
	return &FiberSection{Name: name, Ndim: ndim, materials: make(map[string]uniax.Model)}
}

// AddMaterial registers a material prototype to be cloned by AddFiber
func (o *FiberSection) AddMaterial(name string, mdl uniax.Model) {
	o.materials[name] = mdl
}

// AddFiber appends a fiber made of a clone of the named material
func (o *FiberSection) AddFiber(matName string, A, y, z float64) error {
	return o.addFiber(matName, A, y, z, KindConcrete)
}

// AddReinf appends a reinforcement fiber
func (o *FiberSection) AddReinf(matName string, A, y, z float64) error {
	return o.addFiber(matName, A, y, z, KindReinf)
}

func (o *FiberSection) addFiber(matName string, A, y, z float64, kind FiberKind) error {
	if o.frozen {
		return chk.Err("section %q: cannot add fibers after SetupFibers", o.Name)
	}
	if A <= 0 {
		return chk.Err("section %q: fiber area must be positive; A=%g", o.Name, A)
	}
	proto, ok := o.materials[matName]
	if !ok {
		return chk.Err("section %q: material %q is not registered", o.Name, matName)
	}
	if o.Ndim == 2 {
		z = 0
	}
	o.Fibers = append(o.Fibers, &Fiber{proto.Clone(), matName, A, y, z, kind})
	return nil
}

// AddFibers appends fibers expanded from a geometry
func (o *FiberSection) AddFibers(data []FiberData) error {
	for _, f := range data {
		if err := o.addFiber(f.Mat, f.A, f.Y, f.Z, f.Kind); err != nil {
			return err
		}
	}
	return nil
}

// AddAggregator appends an uncoupled shear or torsion response
func (o *FiberSection) AddAggregator(code Response, mdl uniax.Model) error {
	if o.frozen {
		return chk.Err("section %q: cannot add aggregators after SetupFibers", o.Name)
	}
	if code == RespP || code == RespMz || code == RespMy {
		return chk.Err("section %q: aggregator cannot replace fiber component %v", o.Name, code)
	}
	for _, a := range o.Aggs {
		if a.Code == code {
			return chk.Err("section %q: component %v is already aggregated", o.Name, code)
		}
	}
	if o.Ndim == 2 && code != RespVy {
		return chk.Err("section %q: 2D sections accept only Vy aggregators; got %v", o.Name, code)
	}
	o.Aggs = append(o.Aggs, &Aggregator{code, mdl.Clone()})
	return nil
}

// SetupFibers freezes the geometry and computes the reference point with
// the initial tangent of each fiber
func (o *FiberSection) SetupFibers() error {
	if len(o.Fibers) == 0 {
		return chk.Err("section %q has no fibers", o.Name)
	}
	var ea, eay, eaz float64
	for _, f := range o.Fibers {
		e := f.Mdl.InitialTangent() * f.A
		ea += e
		eay += e * f.Y
		eaz += e * f.Z
	}
	if ea <= 0 {
		return chk.Err("section %q has no axial stiffness", o.Name)
	}
	o.Yref, o.Zref = eay/ea, eaz/ea
	o.frozen = true
	n := o.Order()
	o.eTrial = make([]float64, n)
	o.eCommit = make([]float64, n)
	o.s = make([]float64, n)
	o.k = make([][]float64, n)
	for i := range o.k {
		o.k[i] = make([]float64, n)
	}
	o.integrate()
	return nil
}

// Order returns the number of response components
func (o *FiberSection) Order() int {
	if o.Ndim == 2 {
		return 2 + len(o.Aggs)
	}
	return 3 + len(o.Aggs)
}

// Codes returns the response components in order
func (o *FiberSection) Codes() (c []Response) {
	c = []Response{RespP, RespMz}
	if o.Ndim == 3 {
		c = append(c, RespMy)
	}
	for _, a := range o.Aggs {
		c = append(c, a.Code)
	}
	return
}

// FiberStrain returns the strain at (y,z) for a deformation vector
func (o *FiberSection) FiberStrain(e []float64, y, z float64) float64 {
	ε := e[0] + e[1]*(o.Yref-y)
	if o.Ndim == 3 {
		ε -= e[2] * (o.Zref - z)
	}
	return ε
}

// SetTrialDeformation pushes the trial deformation into all fibers
func (o *FiberSection) SetTrialDeformation(e []float64) error {
	if !o.frozen {
		return chk.Err("section %q: SetupFibers must be called first", o.Name)
	}
	if len(e) != len(o.eTrial) {
		return chk.Err("section %q: deformation vector has %d components; %d expected", o.Name, len(e), len(o.eTrial))
	}
	copy(o.eTrial, e)
	for _, f := range o.Fibers {
		ε := o.FiberStrain(e, f.Y, f.Z)
		if _, _, err := f.Mdl.SetTrialStrain(ε); err != nil {
			return &DivergedError{f.Y, f.Z, ε, err}
		}
	}
	nf := o.Order() - len(o.Aggs)
	for i, a := range o.Aggs {
		if _, _, err := a.Mdl.SetTrialStrain(e[nf+i]); err != nil {
			return &DivergedError{o.Yref, o.Zref, e[nf+i], err}
		}
	}
	o.integrate()
	return nil
}

// integrate computes resultants and tangent from the current fiber states
func (o *FiberSection) integrate() {
	for i := range o.s {
		o.s[i] = 0
		for j := range o.k[i] {
			o.k[i][j] = 0
		}
	}
	s, k := o.s, o.k
	for _, f := range o.Fibers {
		σA := f.Mdl.Stress() * f.A
		EA := f.Mdl.Tangent() * f.A
		ly := o.Yref - f.Y
		s[0] += σA
		s[1] += σA * ly
		k[0][0] += EA
		k[0][1] += EA * ly
		k[1][1] += EA * ly * ly
		if o.Ndim == 3 {
			lz := -(o.Zref - f.Z)
			s[2] += σA * lz
			k[0][2] += EA * lz
			k[1][2] += EA * ly * lz
			k[2][2] += EA * lz * lz
		}
	}
	nf := o.Order() - len(o.Aggs)
	for i := 1; i < nf; i++ {
		for j := 0; j < i; j++ {
			k[i][j] = k[j][i]
		}
	}
	for i, a := range o.Aggs {
		s[nf+i] = a.Mdl.Stress()
		k[nf+i][nf+i] = a.Mdl.Tangent()
	}
}

// Deformation returns the trial deformation (read-only)
func (o *FiberSection) Deformation() []float64 { return o.eTrial }

// Resultant returns the stress resultant (read-only)
func (o *FiberSection) Resultant() []float64 { return o.s }

// Tangent returns the section tangent stiffness (read-only)
func (o *FiberSection) Tangent() [][]float64 { return o.k }

// InitialTangent returns the tangent of the virgin section
func (o *FiberSection) InitialTangent() (k [][]float64) {
	n := o.Order()
	k = make([][]float64, n)
	for i := range k {
		k[i] = make([]float64, n)
	}
	for _, f := range o.Fibers {
		EA := f.Mdl.InitialTangent() * f.A
		ly, lz := o.Yref-f.Y, -(o.Zref - f.Z)
		k[0][0] += EA
		k[0][1] += EA * ly
		k[1][1] += EA * ly * ly
		if o.Ndim == 3 {
			k[0][2] += EA * lz
			k[1][2] += EA * ly * lz
			k[2][2] += EA * lz * lz
		}
	}
	nf := n - len(o.Aggs)
	for i := 1; i < nf; i++ {
		for j := 0; j < i; j++ {
			k[i][j] = k[j][i]
		}
	}
	for i, a := range o.Aggs {
		k[nf+i][nf+i] = a.Mdl.InitialTangent()
	}
	return
}

// Commit commits all fibers
func (o *FiberSection) Commit() {
	for _, f := range o.Fibers {
		f.Mdl.Commit()
	}
	for _, a := range o.Aggs {
		a.Mdl.Commit()
	}
	copy(o.eCommit, o.eTrial)
}

// RevertToLastCommit discards the trial state of all fibers
func (o *FiberSection) RevertToLastCommit() {
	for _, f := range o.Fibers {
		f.Mdl.RevertToLastCommit()
	}
	for _, a := range o.Aggs {
		a.Mdl.RevertToLastCommit()
	}
	copy(o.eTrial, o.eCommit)
	o.integrate()
}

// RevertToStart returns all fibers to the virgin state
func (o *FiberSection) RevertToStart() {
	for _, f := range o.Fibers {
		f.Mdl.RevertToStart()
	}
	for _, a := range o.Aggs {
		a.Mdl.RevertToStart()
	}
	for i := range o.eTrial {
		o.eTrial[i], o.eCommit[i] = 0, 0
	}
	o.integrate()
}

// HomogenizedCentroid returns the centroid weighted by the trial tangent of each fiber
func (o *FiberSection) HomogenizedCentroid() (y, z float64) {
	var ea, eay, eaz float64
	for _, f := range o.Fibers {
		e := f.Mdl.Tangent() * f.A
		ea += e
		eay += e * f.Y
		eaz += e * f.Z
	}
	if ea == 0 {
		return o.Yref, o.Zref
	}
	return eay / ea, eaz / ea
}

// GrossProperties returns the area and inertias of all fibers about their
// area centroid; inertias are Iz = Σ A (y-yc)², Iy = Σ A (z-zc)²
func (o *FiberSection) GrossProperties() (A, yc, zc, Iy, Iz, Pyz float64) {
	for _, f := range o.Fibers {
		A += f.A
		yc += f.A * f.Y
		zc += f.A * f.Z
	}
	yc /= A
	zc /= A
	for _, f := range o.Fibers {
		dy, dz := f.Y-yc, f.Z-zc
		Iz += f.A * dy * dy
		Iy += f.A * dz * dz
		Pyz += f.A * dy * dz
	}
	return
}

// HomogenizedProperties returns the area and inertias homogenised with
// respect to Eref using the initial tangent of each fiber
func (o *FiberSection) HomogenizedProperties(Eref float64) (A, Iy, Iz float64) {
	for _, f := range o.Fibers {
		n := f.Mdl.InitialTangent() / Eref
		dy, dz := f.Y-o.Yref, f.Z-o.Zref
		A += n * f.A
		Iz += n * f.A * dy * dy
		Iy += n * f.A * dz * dz
	}
	return
}

// Area returns the sum of fiber areas of a given kind
func (o *FiberSection) Area(kind FiberKind) (A float64) {
	for _, f := range o.Fibers {
		if f.Kind == kind {
			A += f.A
		}
	}
	return
}

// StrainRange returns the minimum and maximum trial strains of each fiber kind
func (o *FiberSection) StrainRange(kind FiberKind) (εmin, εmax float64) {
	εmin, εmax = math.Inf(1), math.Inf(-1)
	for _, f := range o.Fibers {
		if f.Kind == kind {
			εmin = math.Min(εmin, f.Mdl.Strain())
			εmax = math.Max(εmax, f.Mdl.Strain())
		}
	}
	return
}

// Snapshot holds the full state of a section
type Snapshot struct {
	ETrial  []float64
	ECommit []float64
	Fibers  []uniax.Snapshot
	Aggs    []uniax.Snapshot
}

// GetSnapshot copies the state of the section
func (o *FiberSection) GetSnapshot() (s Snapshot) {
	s.ETrial = append([]float64{}, o.eTrial...)
	s.ECommit = append([]float64{}, o.eCommit...)
	s.Fibers = make([]uniax.Snapshot, len(o.Fibers))
	for i, f := range o.Fibers {
		s.Fibers[i] = f.Mdl.GetSnapshot()
	}
	s.Aggs = make([]uniax.Snapshot, len(o.Aggs))
	for i, a := range o.Aggs {
		s.Aggs[i] = a.Mdl.GetSnapshot()
	}
	return
}

// SetSnapshot restores the state of the section
func (o *FiberSection) SetSnapshot(s Snapshot) error {
	if len(s.Fibers) != len(o.Fibers) || len(s.Aggs) != len(o.Aggs) || len(s.ETrial) != len(o.eTrial) {
		return chk.Err("section %q: snapshot does not match the section layout", o.Name)
	}
	for i, f := range o.Fibers {
		if err := f.Mdl.SetSnapshot(s.Fibers[i]); err != nil {
			return err
		}
	}
	for i, a := range o.Aggs {
		if err := a.Mdl.SetSnapshot(s.Aggs[i]); err != nil {
			return err
		}
	}
	copy(o.eTrial, s.ETrial)
	copy(o.eCommit, s.ECommit)
	o.integrate()
	return nil
}

// Clone returns an independent section at the virgin state
func (o *FiberSection) Clone() *FiberSection {
	c := NewFiberSection(o.Name, o.Ndim)
	for name, m := range o.materials {
		c.materials[name] = m
	}
	for _, f := range o.Fibers {
		c.Fibers = append(c.Fibers, &Fiber{f.Mdl.Clone(), f.Mat, f.A, f.Y, f.Z, f.Kind})
	}
	for _, a := range o.Aggs {
		c.Aggs = append(c.Aggs, &Aggregator{a.Code, a.Mdl.Clone()})
	}
	if o.frozen {
		if err := c.SetupFibers(); err != nil {
			chk.Panic("cannot clone section %q:\n%v", o.Name, err)
		}
	}
	return c
}
