// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// Material holds material data. Either Model+Prms or Catalogue must be given
type Material struct {

	// input
	Name      string     `yaml:"name" json:"name" validate:"required"`                           // name of material; referenced by sections
	Type      string     `yaml:"type" json:"type" validate:"omitempty,oneof=concrete steel other"` // role in RC sections
	Model     string     `yaml:"model" json:"model"`                                             // name of uniaxial model; e.g. "steel02"
	Prms      uniax.Prms `yaml:"prms" json:"prms"`                                               // model parameters
	Catalogue string     `yaml:"catalogue" json:"catalogue"`                                     // catalogue id; e.g. "HA-25" or "B-500S"
	Design    bool       `yaml:"design" json:"design"`                                           // use design strengths of catalogued materials

	// derived
	Mdl      uniax.Model         `yaml:"-" json:"-"` // prototype of the law; cloned by sections
	Concrete *ConcreteProperties `yaml:"-" json:"-"` // catalogue data if concrete
	Steel    *SteelProperties    `yaml:"-" json:"-"` // catalogue data if steel
}

// MatsData holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Materials MatsData             // all materials
	names     map[string]*Material // name => material
}

// NewMatDb allocates the laws of all materials
func NewMatDb(mats MatsData) (o *MatDb, err error) {
	o = &MatDb{Materials: mats, names: make(map[string]*Material)}
	for _, m := range mats {
		if _, ok := o.names[m.Name]; ok {
			return nil, chk.Err("material %q is defined twice", m.Name)
		}
		if err = m.init(); err != nil {
			return nil, err
		}
		o.names[m.Name] = m
	}
	return
}

// init allocates the law of a material. A catalogued material keeps an
// explicit model if one is given; the catalogue then only supplies code properties
func (o *Material) init() (err error) {
	if o.Catalogue != "" {
		var model string
		var prms uniax.Prms
		if o.Concrete, err = LookupConcrete(o.Catalogue); err == nil {
			o.Type, model, prms = "concrete", "concrete02", o.Concrete.Prms(o.Design)
		} else if o.Steel, err = LookupSteel(o.Catalogue); err == nil {
			o.Type, model, prms = "steel", "steel02", o.Steel.Prms(o.Design)
		} else {
			return chk.Err("material %q: %q is neither a catalogued concrete nor a steel", o.Name, o.Catalogue)
		}
		if o.Model == "" {
			o.Model, o.Prms = model, prms
		}
	}
	if o.Model == "" {
		return chk.Err("material %q requires a model or a catalogue id", o.Name)
	}
	o.Mdl, err = uniax.NewInit(o.Model, o.Prms)
	if err != nil {
		return chk.Err("material %q:\n%v", o.Name, err)
	}
	return
}

// Get returns a material
//  Note: returns nil if not found
func (o *MatDb) Get(name string) *Material {
	return o.names[name]
}

// Pair returns the concrete and steel prototypes used by a section
func (o *MatDb) Pair(concrete, steel string) (c, s *Material, err error) {
	if c = o.Get(concrete); c == nil {
		return nil, nil, chk.Err("cannot find concrete %q", concrete)
	}
	if s = o.Get(steel); s == nil {
		return nil, nil, chk.Err("cannot find steel %q", steel)
	}
	return
}

// String prints one material
func (o *Material) String() string {
	if o.Catalogue != "" {
		return io.Sf("  {name: %q, catalogue: %q, design: %v}", o.Name, o.Catalogue, o.Design)
	}
	return io.Sf("  {name: %q, model: %q, prms: [%v]}", o.Name, o.Model, o.Prms)
}

// String prints materials
func (o MatsData) String() string {
	l := "materials:\n"
	for _, m := range o {
		l += io.Sf("%v\n", m)
	}
	return l
}
