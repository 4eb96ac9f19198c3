// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// ConcreteProperties holds the code properties of a concrete. Stresses in Pa
type ConcreteProperties struct {
	Id      string  // e.g. "HA-25"
	Code    string  // "EHE-08" or "EC2"
	Fck     float64 // characteristic compressive strength
	GammaC  float64 // partial safety factor
	AlphaCC float64 // long term coefficient
	Fcd     float64 // design compressive strength αcc·fck/γc
	Fcm     float64 // mean compressive strength fck + 8 MPa
	Fctm    float64 // mean tensile strength
	Fctd    float64 // design tensile strength 0.7·fctm/γc
	Ecm     float64 // secant modulus
	EpsC0   float64 // strain at peak stress (positive value)
	EpsCU   float64 // ultimate strain (positive value)
}

// SteelProperties holds the code properties of a reinforcing steel. Stresses in Pa
type SteelProperties struct {
	Id     string  // e.g. "B-500S"
	Code   string  // "EHE-08" or "EC2"
	Fyk    float64 // characteristic yield strength
	GammaS float64 // partial safety factor
	Fyd    float64 // design yield strength fyk/γs
	Es     float64 // elastic modulus
	EpsUK  float64 // characteristic strain at maximum force
	EpsMax float64 // design strain limit
}

// newConcrete computes the derived properties for fck ≤ 50 MPa
func newConcrete(id, code string, fckMPa float64) *ConcreteProperties {
	o := &ConcreteProperties{Id: id, Code: code, GammaC: 1.5, AlphaCC: 1.0, EpsC0: 0.002, EpsCU: 0.0035}
	fcm := fckMPa + 8
	o.Fck = fckMPa * 1e6
	o.Fcd = o.AlphaCC * o.Fck / o.GammaC
	o.Fcm = fcm * 1e6
	o.Fctm = 0.30 * math.Pow(fckMPa, 2.0/3.0) * 1e6
	o.Fctd = 0.7 * o.Fctm / o.GammaC
	if code == "EHE-08" {
		o.Ecm = 8500 * math.Cbrt(fcm) * 1e6
	} else {
		o.Ecm = 22000 * math.Pow(fcm/10, 0.3) * 1e6
	}
	return o
}

// newSteel computes the derived properties of a reinforcing steel
func newSteel(id, code string, fykMPa, εuk float64) *SteelProperties {
	o := &SteelProperties{Id: id, Code: code, Fyk: fykMPa * 1e6, GammaS: 1.15, Es: 200e9, EpsUK: εuk, EpsMax: 0.01}
	o.Fyd = o.Fyk / o.GammaS
	return o
}

var concretes = map[string]*ConcreteProperties{
	"HA-25":  newConcrete("HA-25", "EHE-08", 25),
	"HA-30":  newConcrete("HA-30", "EHE-08", 30),
	"HA-35":  newConcrete("HA-35", "EHE-08", 35),
	"HA-40":  newConcrete("HA-40", "EHE-08", 40),
	"C20/25": newConcrete("C20/25", "EC2", 20),
	"C25/30": newConcrete("C25/30", "EC2", 25),
	"C30/37": newConcrete("C30/37", "EC2", 30),
}

var steels = map[string]*SteelProperties{
	"B-400S": newSteel("B-400S", "EHE-08", 400, 0.05),
	"B-500S": newSteel("B-500S", "EHE-08", 500, 0.05),
	"B500B":  newSteel("B500B", "EC2", 500, 0.05),
	"B500C":  newSteel("B500C", "EC2", 500, 0.075),
}

// LookupConcrete returns a copy of the properties of a catalogued concrete
func LookupConcrete(id string) (*ConcreteProperties, error) {
	c, ok := concretes[id]
	if !ok {
		return nil, chk.Err("cannot find concrete %q in catalogue", id)
	}
	res := *c
	return &res, nil
}

// LookupSteel returns a copy of the properties of a catalogued reinforcing steel
func LookupSteel(id string) (*SteelProperties, error) {
	s, ok := steels[id]
	if !ok {
		return nil, chk.Err("cannot find reinforcing steel %q in catalogue", id)
	}
	res := *s
	return &res, nil
}

// CatalogueIds returns the sorted ids of concretes and steels
func CatalogueIds() (conc, steel []string) {
	for k := range concretes {
		conc = append(conc, k)
	}
	for k := range steels {
		steel = append(steel, k)
	}
	sort.Strings(conc)
	sort.Strings(steel)
	return
}

// Prms returns the parameters of a concrete02 law. The design law is the
// parabola-rectangle with fcd; the characteristic one uses fck and fctm
func (o *ConcreteProperties) Prms(design bool) uniax.Prms {
	fc, ft := o.Fck, o.Fctm
	if design {
		fc, ft = o.Fcd, o.Fctd
	}
	return uniax.NewPrms(
		"fpc", fc,
		"epsc0", o.EpsC0,
		"fpcu", fc,
		"epscu", o.EpsCU,
		"ft", ft,
	)
}

// Law allocates a concrete02 law
func (o *ConcreteProperties) Law(design bool) (uniax.Model, error) {
	return uniax.NewInit("concrete02", o.Prms(design))
}

// Prms returns the parameters of a steel02 law. The design law has a nearly
// flat plateau at fyd; the characteristic one hardens with b = 0.01
func (o *SteelProperties) Prms(design bool) uniax.Prms {
	if design {
		return uniax.NewPrms("E", o.Es, "fy", o.Fyd, "b", 0.001)
	}
	return uniax.NewPrms("E", o.Es, "fy", o.Fyk, "b", 0.01)
}

// Law allocates a steel02 law
func (o *SteelProperties) Law(design bool) (uniax.Model, error) {
	return uniax.NewInit("steel02", o.Prms(design))
}
