// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Prm holds one named model parameter
type Prm struct {
	N string  `json:"n" yaml:"n"` // name of parameter
	V float64 `json:"v" yaml:"v"` // value of parameter
}

// Prms holds many parameters
type Prms []*Prm

// NewPrms builds a parameter list from name, value pairs
func NewPrms(nameValues ...interface{}) (prms Prms) {
	if len(nameValues)%2 != 0 {
		chk.Panic("NewPrms requires name, value pairs")
	}
	for i := 0; i < len(nameValues); i += 2 {
		name, ok := nameValues[i].(string)
		if !ok {
			chk.Panic("parameter name must be a string; got %v", nameValues[i])
		}
		var v float64
		switch val := nameValues[i+1].(type) {
		case float64:
			v = val
		case int:
			v = float64(val)
		default:
			chk.Panic("parameter %q must be a number; got %v", name, val)
		}
		prms = append(prms, &Prm{N: name, V: v})
	}
	return
}

// Find returns the parameter with given name or nil
func (o Prms) Find(name string) *Prm {
	for _, p := range o {
		if p.N == name {
			return p
		}
	}
	return nil
}

// connect sets a variable from a required parameter
func (o Prms) connect(v *float64, name, caller string) error {
	p := o.Find(name)
	if p == nil {
		return chk.Err("cannot find parameter %q for %s", name, caller)
	}
	*v = p.V
	return nil
}

// connectOpt sets a variable from an optional parameter
func (o Prms) connectOpt(v *float64, name string, def float64) {
	if p := o.Find(name); p != nil {
		*v = p.V
		return
	}
	*v = def
}

// String returns a compact representation
func (o Prms) String() (l string) {
	for i, p := range o {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%s=%g", p.N, p.V)
	}
	return
}
