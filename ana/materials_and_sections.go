// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form solutions used to verify numerical results
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// CrossSection computes cross-sectional properties of members
//
//          z                          tw
//          ^                      -->| |<--
//          |                  ___    | |     ___
//     +---------+           tf |   ########   |
//     |    |    |             ---  ########   |
//     |    +----|--> y                ##      |
//     |         | h                   ##      | h
//     |         |                 ---  ########   |
//     +---------+              tf_|_  ########  ---
//          b                             b
//
//   Iz: inertia about z (bending in the x-y plane); uses b³·h
//   Iy: inertia about y (bending in the x-z plane); uses b·h³
//
type CrossSection struct {

	// input
	Type string  // "rectangle", "I-beam" or "circle"
	B    float64 // width if not circular
	H    float64 // height if not circular
	Tf   float64 // flange thickness if I-beam
	Tw   float64 // web thickness if I-beam
	R    float64 // radius if circular

	// derived
	A   float64 // cross-sectional area
	Iy  float64 // moment of inertia about y (major axis)
	Iz  float64 // moment of inertia about z (minor axis)
	J   float64 // torsional constant
	Wpl float64 // plastic section modulus about y
}

// NewCrossSection returns a new cross-section and computes its properties
func NewCrossSection(typ string, b, h, tf, tw, r float64) (o *CrossSection, err error) {
	o = &CrossSection{Type: typ, B: b, H: h, Tf: tf, Tw: tw, R: r}
	switch typ {
	case "rectangle":
		if b <= 0 || h <= 0 {
			return nil, chk.Err("rectangle requires positive sides; b=%g h=%g given", b, h)
		}
		b3 := b * b * b
		h3 := h * h * h
		o.A = b * h
		o.Iy = b * h3 / 12.0
		o.Iz = b3 * h / 12.0
		o.Wpl = b * h * h / 4.0
		if b == h {
			o.J = 9.0 * b3 * b / 64.0
		} else {
			if b > h {
				b, h = h, b
				b3, h3 = h3, b3
			}
			o.J = h * b3 * (1.0/3.0 - 0.21*(b/h)*(1.0-b*b3/(12.0*h*h3))) // approximate
		}

	case "I-beam":
		if tf <= 0 || tw <= 0 || 2*tf >= h || tw >= b {
			return nil, chk.Err("I-beam dimensions are inconsistent; b=%g h=%g tf=%g tw=%g", b, h, tf, tw)
		}
		b3 := b * b * b
		h3 := h * h * h
		tf3 := tf * tf * tf
		tw3 := tw * tw * tw
		l := h - 2.0*tf
		l3 := l * l * l
		o.A = b*h - l*(b-tw)
		o.Iy = b*h3/12.0 - (b-tw)*l3/12.0
		o.Iz = l*tw3/12.0 + tf*b3/6.0
		o.J = (2.0*b*tf3 + l*tw3) / 3.0
		o.Wpl = b*tf*(h-tf) + tw*l*l/4.0

	case "circle":
		if r <= 0 {
			return nil, chk.Err("circle requires a positive radius; r=%g given", r)
		}
		r2 := r * r
		o.A = math.Pi * r2
		o.Iy = math.Pi * r2 * r2 / 4.0
		o.Iz = o.Iy
		o.J = o.Iy + o.Iz
		o.Wpl = 4.0 * r2 * r / 3.0

	default:
		return nil, chk.Err("cross-section type %q is unavailable", typ)
	}
	return
}

// PlasticMoment returns the fully plastic moment about y of a section made
// of an elastic perfectly plastic material with yield stress fy
func (o *CrossSection) PlasticMoment(fy float64) float64 {
	return fy * o.Wpl
}

// YieldMoment returns the moment about y at first yield
func (o *CrossSection) YieldMoment(fy float64) float64 {
	c := o.H / 2
	if o.Type == "circle" {
		c = o.R
	}
	return fy * o.Iy / c
}

// BeamProps returns the properties of an elastic beam-column made of
// material mat; ndim = 2 gives bending in the x-y plane only
func (o *CrossSection) BeamProps(mat *Material, ndim int) map[string]float64 {
	if ndim == 2 {
		return map[string]float64{"E": mat.E, "A": o.A, "Iz": o.Iy, "rho": mat.Rho}
	}
	return map[string]float64{"E": mat.E, "G": mat.G, "A": o.A, "Iz": o.Iz, "Iy": o.Iy, "J": o.J, "rho": mat.Rho}
}

// Material holds parameters of some reference materials
type Material struct {

	// input
	Type     string // type of material; e.g. "steel"
	UnitPres string // unit of pressure

	// derived
	UnitDens string  // unit of density
	Desc     string  // description
	E        float64 // Young's modulus
	Nu       float64 // Poisson's coefficient
	G        float64 // shear modulus
	Rho      float64 // density
}

// NewMaterial returns the parameters of a reference material
//  Input:
//   unitPres:  "Pa"  => E:[Pa],  rho:[kg/m³]
//              "kPa" => E:[kPa], rho:[Mg/m³]
//              "MPa" => E:[MPa], rho:[Gg/m³]
//              "GPa" => E:[GPa], rho:[Tg/m³]
func NewMaterial(typ, unitPres string) (o *Material, err error) {

	// material data
	o = &Material{Type: typ, UnitPres: unitPres}
	switch typ {
	case "steel":
		o.Desc = "Steel: structural A36"
		o.E = 200000.0  // [MPa]
		o.Nu = 0.32     // [-]
		o.Rho = 7.85e-3 // [Gg/m³]
	case "prestressing-steel":
		o.Desc = "Steel: seven-wire strand Y1860"
		o.E = 190000.0  // [MPa]
		o.Nu = 0.30     // [-]
		o.Rho = 7.85e-3 // [Gg/m³]
	case "concrete-low":
		o.Desc = "Concrete: low strength"
		o.E = 22100.0   // [MPa]
		o.Nu = 0.15     // [-]
		o.Rho = 2.38e-3 // [Gg/m³]
	case "concrete-high":
		o.Desc = "Concrete: high strength"
		o.E = 30000.0   // [MPa]
		o.Nu = 0.15     // [-]
		o.Rho = 2.38e-3 // [Gg/m³]
	case "aluminum":
		o.Desc = "Aluminum: 2014-T6"
		o.E = 73100.0   // [MPa]
		o.Nu = 0.35     // [-]
		o.Rho = 2.79e-3 // [Gg/m³]
	default:
		return nil, chk.Err("material type %q is unavailable", typ)
	}

	// set unit
	MPaToUnitPres := 1.0    // convert from MPa to unitPres (e.g. kPa)
	GgByM3ToUnitDens := 1.0 // convert from Gg/m³ to unitDens (e.g. Mg/m³)
	switch unitPres {
	case "Pa":
		o.UnitDens = "kg/m³"
		MPaToUnitPres = 1e6
		GgByM3ToUnitDens = 1e6
	case "kPa":
		o.UnitDens = "Mg/m³"
		MPaToUnitPres = 1e3
		GgByM3ToUnitDens = 1e3
	case "MPa":
		o.UnitDens = "Gg/m³"
	case "GPa":
		o.UnitDens = "Tg/m³"
		MPaToUnitPres = 1e-3
		GgByM3ToUnitDens = 1e-3
	default:
		return nil, chk.Err("unit of pressure %q is invalid", unitPres)
	}

	// convert values to requested units
	o.E *= MPaToUnitPres
	o.Rho *= GgByM3ToUnitDens

	// derived quantity
	o.G = o.E / (2.0 * (1.0 + o.Nu))
	return
}

// EulerLoad returns the elastic critical load π²·E·I/(k·L)² of a column
// with effective length factor k
func EulerLoad(E, I, L, k float64) float64 {
	kl := k * L
	return math.Pi * math.Pi * E * I / (kl * kl)
}
