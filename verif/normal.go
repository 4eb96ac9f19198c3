// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"math"
	"sync"

	"github.com/cpmech/gosl/io"
	"golang.org/x/sync/singleflight"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/sec"
)

// NormalStresses checks axial force and bending against the ultimate
// interaction diagram of the section
//  CF = ‖(N, My, Mz)‖ / ‖Γ‖ where Γ is the intercept of the diagram along
//  the direction of the forces. Under biaxial bending the strains reached
//  by the phantom model are also compared with εcu and the steel εuk
type NormalStresses struct {
	diagrams sync.Map // key => *sec.Diagram2D or *sec.Diagram3D
	group    singleflight.Group
}

// NewNormalStresses returns a new controller with an empty diagram cache
func NewNormalStresses() *NormalStresses { return new(NormalStresses) }

// Label returns the limit state label
func (o *NormalStresses) Label() string { return "normal_stresses_uls" }

// params returns the pivots of the diagrams of a section
func (o *NormalStresses) params(s *Section) sec.DiagramParams {
	p := sec.DefaultDiagramParams()
	if s.Concrete != nil {
		p.EpsCU, p.EpsC0 = -s.Concrete.EpsCU, -s.Concrete.EpsC0
	}
	if s.Steel != nil {
		p.EpsSU = s.Steel.EpsMax
	}
	return p
}

// diagram returns a cached diagram; sections sharing a name share diagrams
func (o *NormalStresses) diagram(s *Section, comp sec.Response, biaxial bool) (interface{}, error) {
	key := io.Sf("%s/%d/%v/%v", s.RC.Name, s.Ndim(), comp, biaxial)
	if d, ok := o.diagrams.Load(key); ok {
		return d, nil
	}
	d, err, _ := o.group.Do(key, func() (interface{}, error) {
		if d, ok := o.diagrams.Load(key); ok {
			return d, nil
		}
		var d interface{}
		var err error
		if biaxial {
			d, err = sec.NewDiagram3D(s.Fiber, o.params(s))
		} else {
			d, err = sec.NewDiagram2D(s.Fiber, comp, o.params(s))
		}
		if err != nil {
			return nil, err
		}
		o.diagrams.Store(key, d)
		return d, nil
	})
	return d, err
}

// CheckSection computes the capacity factor
func (o *NormalStresses) CheckSection(s *Section, f ele.ForceRecord) (cv ControlVars, err error) {
	N, My, Mz := f["N"], f["My"], f["Mz"]
	if s.Ndim() == 2 {
		My = 0
	}
	tol := 1e-9 * math.Max(math.Abs(My), math.Abs(Mz))
	biaxial := math.Abs(My) > tol && math.Abs(Mz) > tol
	comp := sec.RespMz
	if !biaxial && math.Abs(My) > math.Abs(Mz) {
		comp = sec.RespMy
	}
	d, err := o.diagram(s, comp, biaxial)
	if err != nil {
		return cv, controllerErr("section %q: cannot compute interaction diagram: %v", s.RC.Name, err)
	}
	cv.Extras = make(map[string]float64)
	switch dd := d.(type) {
	case *sec.Diagram3D:
		cv.CF, err = dd.CapacityFactor(N, My, Mz)
		cv.Extras["diagram"] = 3
	case *sec.Diagram2D:
		M := Mz
		if comp == sec.RespMy {
			M = My
		}
		cv.CF, err = dd.CapacityFactor(N, M)
		cv.Extras["diagram"] = 2
	}
	if err != nil {
		return cv, controllerErr("section %q: %v", s.RC.Name, err)
	}
	if !s.Solved {
		cv.Extras["converged"] = 0
		return
	}

	// strains reached by the phantom model
	εcmin, _ := s.Fiber.StrainRange(sec.KindConcrete)
	_, εsmax := s.Fiber.StrainRange(sec.KindReinf)
	cv.Extras["epsCMin"] = εcmin
	if !math.IsInf(εsmax, 0) {
		cv.Extras["epsSMax"] = εsmax
	}
	if biaxial {
		p := o.params(s)
		εsu := p.EpsSU
		if s.Steel != nil {
			εsu = s.Steel.EpsUK
		}
		cv.CF = math.Max(cv.CF, εcmin/p.EpsCU)
		if !math.IsInf(εsmax, 0) {
			cv.CF = math.Max(cv.CF, εsmax/εsu)
		}
	}
	return
}
