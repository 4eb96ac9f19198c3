// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comb

import (
	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
	_ "github.com/engthiago/xc-sub000/ele/solid"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/inp"
)

// BuildModel allocates the domain of the primary model. Load patterns are
// defined but not activated
func BuildModel(cfg *inp.Config) (d *fem.Domain, err error) {
	m := cfg.Model
	if m == nil {
		return nil, chk.Err("configuration has no model")
	}
	d = fem.NewDomain(m.Ndim)

	// nodes
	for _, n := range m.Nodes {
		if err = d.AddNode(n.Tag, n.Ndof, n.X...); err != nil {
			return nil, err
		}
	}

	// elements
	for _, e := range m.Elements {
		dat := &ele.Data{
			Type:   e.Type,
			Tag:    e.Tag,
			Verts:  e.Verts,
			Props:  e.Props,
			Transf: e.Transf,
			VecXZ:  e.VecXZ,
		}
		if e.Mat != "" {
			mat := cfg.MatDb.Get(e.Mat)
			if mat == nil {
				return nil, chk.Err("element %d: cannot find material %q", e.Tag, e.Mat)
			}
			dat.Mat = mat.Mdl.Clone()
		}
		if e.Sec != "" {
			s, ok := cfg.Container.Get(e.Sec)
			if !ok {
				return nil, chk.Err("element %d: cannot find section %q", e.Tag, e.Sec)
			}
			if dat.Sec, err = cfg.Realize(s, m.Ndim); err != nil {
				return nil, err
			}
		}
		if _, err = d.AddElement(dat); err != nil {
			return nil, err
		}
	}

	// masses are set after the elements because these define the dofs
	for _, n := range m.Nodes {
		if len(n.Mass) > 0 {
			if err = d.SetMass(n.Tag, n.Mass...); err != nil {
				return nil, err
			}
		}
	}

	// constraints
	for _, f := range m.Fixes {
		if err = d.Fix(f.Node, f.Code); err != nil {
			return nil, err
		}
	}

	// patterns
	for _, p := range m.Patterns {
		b := d.NewPattern(p.Name)
		for _, l := range p.Loads {
			b.Load(l.Node, l.F...)
		}
		for _, l := range p.EleLoads {
			b.EleLoad(l.Elem, l.Q...)
		}
		if err = b.Err(); err != nil {
			return nil, err
		}
	}
	return
}

// Procedure returns the solution procedure of the primary model
func Procedure(cfg *inp.Config) (*inp.ProcedureData, error) {
	if cfg.Model == nil {
		return nil, chk.Err("configuration has no model")
	}
	return cfg.Model.Procedure.Get("simple_static_linear")
}
