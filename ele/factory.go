// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import (
	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/mdl/uniax"
	"github.com/engthiago/xc-sub000/sec"
)

// Data holds the input data required to allocate an element
type Data struct {
	Type    string             // element type; e.g. "beam2d"
	Tag     int                // element tag
	Verts   []int              // node tags
	X       [][]float64        // coordinates [nverts][ndim]
	Props   map[string]float64 // properties; e.g. "E", "A", "Iz", "rho"
	Mat     uniax.Model        // uniaxial law (trusses)
	Sec     *sec.FiberSection  // section (zero-length section elements)
	Transf  string             // coordinate transformation: "linear" or "pdelta"
	VecXZ   []float64          // vector in the local x-z plane (3D)
	Verbose bool               // show messages
}

// Prop returns a property or an error if it is missing or not positive
func (o *Data) Prop(key string) (v float64, err error) {
	v, ok := o.Props[key]
	if !ok {
		return 0, chk.Err("%s element %d: property %q is missing", o.Type, o.Tag, key)
	}
	if v <= 0 {
		return 0, chk.Err("%s element %d: property %q must be positive; %g given", o.Type, o.Tag, key, v)
	}
	return
}

// PropOpt returns a property or a default value
func (o *Data) PropOpt(key string, def float64) float64 {
	if v, ok := o.Props[key]; ok {
		return v
	}
	return def
}

// InfoFuncType defines a function that returns information about a certain element type
type InfoFuncType func(ndim int) *Info

// AllocatorType defines a function that allocates an element
type AllocatorType func(dat *Data) (Element, error)

// GetInfo returns information about elements from factory
func GetInfo(elemType string, ndim int) (info *Info, err error) {
	fcn, ok := infofactory[elemType]
	if !ok {
		return nil, chk.Err("cannot get info for element {type=%q}", elemType)
	}
	info = fcn(ndim)
	if info == nil {
		err = chk.Err("info for element {type=%q, ndim=%d} is not available", elemType, ndim)
	}
	return
}

// New returns a new element from factory
func New(dat *Data) (ele Element, err error) {
	fcn, ok := allocators[dat.Type]
	if !ok {
		return nil, chk.Err("cannot get allocator for element {type=%q, tag=%d}", dat.Type, dat.Tag)
	}
	ele, err = fcn(dat)
	if err != nil {
		return nil, chk.Err("element {type=%q, tag=%d} cannot be allocated:\n%v", dat.Type, dat.Tag, err)
	}
	return
}

// SetInfoFunc sets a new callback function to return information about an element
func SetInfoFunc(elementName string, fcn InfoFuncType) {
	if _, ok := infofactory[elementName]; ok {
		chk.Panic("cannot set information function for %q because element name exists already", elementName)
	}
	infofactory[elementName] = fcn
}

// SetAllocator sets a new callback function to allocate an element
func SetAllocator(elementName string, fcn AllocatorType) {
	if _, ok := allocators[elementName]; ok {
		chk.Panic("cannot set allocator function for %q because element name exists already", elementName)
	}
	allocators[elementName] = fcn
}

// infofactory holds all functions that return information about an element
var infofactory = make(map[string]InfoFuncType)

// allocators holds all element allocators
var allocators = make(map[string]AllocatorType)
