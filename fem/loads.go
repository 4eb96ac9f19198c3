// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
)

// NodalLoad holds forces applied to one node
type NodalLoad struct {
	Node int       // node index
	F    []float64 // one value per dof
}

// EleLoad holds a uniform load on one element
type EleLoad struct {
	Elem int       // element index
	Q    []float64 // load components in local axes
}

// LoadPattern holds a named set of loads
type LoadPattern struct {
	Name  string
	Nodal []NodalLoad
	Ele   []EleLoad
}

// ActivePattern is a pattern applied to the domain with a factor. Constant
// patterns are not scaled by the load factor
type ActivePattern struct {
	Name   string
	Factor float64
	Const  bool
}

// LoadPatternBuilder records loads into one pattern. The first error is kept
// and returned by Err
type LoadPatternBuilder struct {
	d   *Domain
	p   *LoadPattern
	err error
}

// NewPattern creates a load pattern and returns a builder for it
func (o *Domain) NewPattern(name string) *LoadPatternBuilder {
	b := &LoadPatternBuilder{d: o}
	if _, ok := o.Patterns[name]; ok {
		b.err = chk.Err("load pattern %q exists already", name)
		return b
	}
	b.p = &LoadPattern{Name: name}
	o.Patterns[name] = b.p
	return b
}

// Load adds nodal forces to the pattern
func (o *LoadPatternBuilder) Load(tag int, f ...float64) *LoadPatternBuilder {
	if o.err != nil {
		return o
	}
	idx, err := o.d.NodeIndex(tag)
	if err != nil {
		o.err = err
		return o
	}
	if len(f) != o.d.Nodes[idx].Ndof() {
		o.err = chk.Err("pattern %q: load on node %d must have %d components", o.p.Name, tag, o.d.Nodes[idx].Ndof())
		return o
	}
	o.p.Nodal = append(o.p.Nodal, NodalLoad{Node: idx, F: append([]float64{}, f...)})
	return o
}

// EleLoad adds a uniform load to an element of the pattern
func (o *LoadPatternBuilder) EleLoad(tag int, q ...float64) *LoadPatternBuilder {
	if o.err != nil {
		return o
	}
	idx, ok := o.d.elem2idx[tag]
	if !ok {
		o.err = chk.Err("pattern %q: cannot find element %d", o.p.Name, tag)
		return o
	}
	if _, ok := o.d.Elems[idx].(ele.WithUniformLoad); !ok {
		o.err = chk.Err("pattern %q: element %d (%s) does not take uniform loads", o.p.Name, tag, o.d.Elems[idx].Type())
		return o
	}
	o.p.Ele = append(o.p.Ele, EleLoad{Elem: idx, Q: append([]float64{}, q...)})
	return o
}

// Err returns the first error found while building
func (o *LoadPatternBuilder) Err() error { return o.err }

// AddPatternToDomain activates a pattern with a factor
func (o *Domain) AddPatternToDomain(name string, factor float64) (err error) {
	if _, ok := o.Patterns[name]; !ok {
		return chk.Err("cannot find load pattern %q", name)
	}
	for _, a := range o.Active {
		if a.Name == name && !a.Const {
			return chk.Err("load pattern %q is already active", name)
		}
	}
	o.Active = append(o.Active, &ActivePattern{Name: name, Factor: factor})
	return
}

// RemovePattern deactivates a pattern scaled by the load factor. Removing an
// inactive pattern is a no-op; constant patterns are kept
func (o *Domain) RemovePattern(name string) {
	for i, a := range o.Active {
		if a.Name == name && !a.Const {
			o.Active = append(o.Active[:i], o.Active[i+1:]...)
			return
		}
	}
}

// ClearActive deactivates all patterns
func (o *Domain) ClearActive() { o.Active = nil }

// ActiveFactor returns the factor of an active pattern scaled by the load factor
func (o *Domain) ActiveFactor(name string) (factor float64, ok bool) {
	for _, a := range o.Active {
		if a.Name == name && !a.Const {
			return a.Factor, true
		}
	}
	return
}

// SetLoadConst holds the current loads constant and resets the load factor
// to zero, so that patterns added afterwards start from the current state.
// Loads of a pattern held twice are summed
func (o *Domain) SetLoadConst() (err error) {
	var held []*ActivePattern
	find := func(name string) *ActivePattern {
		for _, a := range held {
			if a.Name == name {
				return a
			}
		}
		return nil
	}
	for _, a := range o.Active {
		f := a.Factor
		if !a.Const {
			f *= o.Lambda
		}
		if h := find(a.Name); h != nil {
			h.Factor += f
			continue
		}
		held = append(held, &ActivePattern{Name: a.Name, Factor: f, Const: true})
	}
	o.Active = held
	o.Lambda, o.lambdc = 0, 0
	if o.Sol != nil {
		o.Sol.T, o.Sol.Tc = 0, 0
	}
	if !o.ready {
		return
	}
	return o.SetLoadFactor(0)
}
