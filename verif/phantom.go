// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"context"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/ele/solid"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/sec"
)

// phantom node tags
const (
	phantomFixed = 1
	phantomFree  = 2
)

// Phantom is a two-node model with one zero-length element. Node 1 is fixed
// and node 2 is free only along the dofs conjugate to the section responses,
// so the section carries exactly the forces applied on node 2
type Phantom struct {
	Dom   *fem.Domain       // sub-problem owned by the phantom
	Ana   *fem.Analysis     // nonlinear procedure
	Sec   *sec.FiberSection // section of the element
	Codes []sec.Response    // components applied on the free node
	lc    *fem.LoadControl
}

// NewPhantom builds the phantom model of a section. The section is owned by the model
func NewPhantom(s *sec.FiberSection, proc *inp.ProcedureData) (o *Phantom, err error) {
	ndim := s.Ndim
	ndof := 3 * (ndim - 1)
	o = &Phantom{Dom: fem.NewDomain(ndim), Sec: s, Codes: s.Codes()}
	x := make([]float64, ndim)
	if err = o.Dom.AddNode(phantomFixed, ndof, x...); err != nil {
		return
	}
	x[0] = 1e-9
	if err = o.Dom.AddNode(phantomFree, ndof, x...); err != nil {
		return
	}
	if _, err = o.Dom.AddElement(&ele.Data{Type: "zerolength", Tag: 1, Verts: []int{phantomFixed, phantomFree}, Sec: s}); err != nil {
		return
	}

	// supports
	if err = o.Dom.Fix(phantomFixed, strings.Repeat("0", ndof)); err != nil {
		return
	}
	if err = o.Dom.Fix(phantomFree, o.FreeCode()); err != nil {
		return
	}

	// one unit pattern per component
	for _, c := range o.Codes {
		d, _ := solid.SectionDof(c, ndim)
		f := make([]float64, ndof)
		f[d] = 1
		if err = o.Dom.NewPattern(c.String()).Load(phantomFree, f...).Err(); err != nil {
			return
		}
	}

	// procedure
	p := *proc
	if o.Ana, err = fem.NewAnalysis(o.Dom, &p); err != nil {
		return
	}
	var ok bool
	if o.lc, ok = o.Ana.Integ.(*fem.LoadControl); !ok {
		return nil, chk.Err("phantom model requires the load_control integrator; %q given", o.Ana.Integ.Name())
	}
	return
}

// FreeCode returns the support code of the free node; e.g. "F0F" for a 2D (N, Mz) section
func (o *Phantom) FreeCode() string {
	ndof := 3 * (o.Sec.Ndim - 1)
	code := []byte(strings.Repeat("0", ndof))
	for _, c := range o.Codes {
		d, _ := solid.SectionDof(c, o.Sec.Ndim)
		code[d] = 'F'
	}
	return string(code)
}

// Solve applies the forces from the virgin state. Components of f that the
// section does not respond to are ignored
func (o *Phantom) Solve(ctx context.Context, f ele.ForceRecord) (err error) {
	o.Dom.RevertToStart()
	o.Dom.ClearActive()
	for _, c := range o.Codes {
		v := f[c.String()]
		if v == 0 {
			continue
		}
		if err = o.Dom.AddPatternToDomain(c.String(), v); err != nil {
			return
		}
	}
	o.lc.Dλ = 1
	return o.Ana.Analyze(ctx, 1)
}

// Deformation returns the displacements of the free node
func (o *Phantom) Deformation() ([]float64, error) {
	return o.Dom.Disp(phantomFree)
}
