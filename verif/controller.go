// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package verif implements the limit-state verification of RC sections
package verif

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/sec"
)

// error kinds surfaced by the verification
var (
	ErrSectionUndefined = errors.New("section undefined")
	ErrController       = errors.New("controller error")
)

// controllerErr wraps ErrController with a message
func controllerErr(msg string, prm ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrController, fmt.Sprintf(msg, prm...))
}

// Section holds a section under check
type Section struct {
	RC       *sec.RCSection          // template
	Fiber    *sec.FiberSection       // state reached by the phantom model
	Solved   bool                    // the phantom model reached equilibrium
	Concrete *inp.ConcreteProperties // catalogue data; may be nil
	Steel    *inp.SteelProperties    // catalogue data; may be nil
}

// Ndim returns the space dimension of the fiber section
func (o *Section) Ndim() int { return o.Fiber.Ndim }

// Outline returns the vertices of the concrete outline in fiber coordinates
func (o *Section) Outline() (pts []sec.Point) {
	for _, p := range o.RC.Outline() {
		if o.Fiber.Ndim == 2 {
			p = sec.Point{Y: p.Z}
		}
		pts = append(pts, p)
	}
	return
}

// Controller converts the state of a section under the given forces into
// control variables for one limit state
type Controller interface {
	Label() string                                                   // limit state label; e.g. "normal_stresses_uls"
	CheckSection(s *Section, f ele.ForceRecord) (ControlVars, error) // computes CF and auxiliary quantities
}

// NewController allocates the controller of a limit state
func NewController(ls *inp.LimitStateData) (Controller, error) {
	switch ls.Controller {
	case inp.NormalStressesULS:
		return NewNormalStresses(), nil
	case inp.ShearULS:
		return new(Shear), nil
	case inp.CrackSLS:
		o := &Crack{Wmax: ls.Wmax, K2: ls.K2, Beta: 1.7}
		if o.Wmax == 0 {
			o.Wmax = 0.3e-3
		}
		if o.K2 == 0 {
			o.K2 = 0.5
		}
		return o, nil
	}
	return nil, chk.Err("cannot find controller named %q", ls.Controller)
}

// grossConcrete returns the area, centroid and inertias of the concrete fibers
func grossConcrete(s *sec.FiberSection) (A, yc, zc, Iy, Iz float64) {
	for _, f := range s.Fibers {
		if f.Kind != sec.KindConcrete {
			continue
		}
		A += f.A
		yc += f.A * f.Y
		zc += f.A * f.Z
	}
	if A == 0 {
		return
	}
	yc /= A
	zc /= A
	for _, f := range s.Fibers {
		if f.Kind != sec.KindConcrete {
			continue
		}
		Iz += f.A * (f.Y - yc) * (f.Y - yc)
		Iy += f.A * (f.Z - zc) * (f.Z - zc)
	}
	return
}

// maxGrossStress returns the largest elastic stress of the uncracked concrete
// section at the outline vertices
func maxGrossStress(s *Section, N, My, Mz float64) (σmax float64, err error) {
	A, yc, zc, Iy, Iz := grossConcrete(s.Fiber)
	if A <= 0 || Iz <= 0 || (s.Ndim() == 3 && Iy <= 0) {
		return 0, controllerErr("section %q has no concrete", s.RC.Name)
	}
	σmax = math.Inf(-1)
	for _, p := range s.Outline() {
		σ := N/A + Mz*(yc-p.Y)/Iz
		if s.Ndim() == 3 {
			σ += My * (p.Z - zc) / Iy
		}
		σmax = math.Max(σmax, σ)
	}
	return
}
