// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
)

// indices of internal variables of Concrete02
const (
	c2EcMin = iota // minimum (most compressive) strain reached
	c2Dept         // maximum tensile strain excursion beyond the zero-stress strain
	c2Nalp
)

// Concrete02 implements concrete with a parabolic compression branch,
// linear softening to (εcu, fpcu), a flat residual branch and linear
// tension with linear softening. Unloading from compression uses a
// slope defined by λ = Eunload / Ec at εcu.
//  Note: compressive parameters are stored as negative values
type Concrete02 struct {
	Fpc   float64 // compressive strength
	Epsc0 float64 // strain at compressive strength
	Fpcu  float64 // crushing strength
	Epscu float64 // strain at crushing strength
	Rat   float64 // ratio between unloading slope at εcu and initial slope (λ)
	Ft    float64 // tensile strength
	Ets   float64 // tension softening stiffness (absolute value)
	s     pair
}

// add model to factory
func init() {
	allocators["concrete02"] = func() Model { return new(Concrete02) }
}

// Kind returns the law tag
func (o *Concrete02) Kind() Kind { return KindConcrete02 }

// Init initialises model
func (o *Concrete02) Init(prms Prms) (err error) {
	for _, name := range []string{"fpc", "epsc0", "fpcu", "epscu"} {
		if prms.Find(name) == nil {
			return chk.Err("cannot find parameter %q for concrete02 model", name)
		}
	}
	for _, p := range prms {
		switch p.N {
		case "fpc":
			o.Fpc = -math.Abs(p.V)
		case "epsc0":
			o.Epsc0 = -math.Abs(p.V)
		case "fpcu":
			o.Fpcu = -math.Abs(p.V)
		case "epscu":
			o.Epscu = -math.Abs(p.V)
		case "lambda":
			o.Rat = p.V
		case "ft":
			o.Ft = math.Abs(p.V)
		case "Ets":
			o.Ets = math.Abs(p.V)
		}
	}
	if prms.Find("lambda") == nil {
		o.Rat = 0.1
	}
	if prms.Find("Ets") == nil {
		o.Ets = 0.1 * o.InitialTangent()
	}
	if o.Epscu > o.Epsc0 {
		return chk.Err("concrete02 requires |epscu| >= |epsc0|. epsc0=%g, epscu=%g", o.Epsc0, o.Epscu)
	}
	if o.Rat <= 0 || o.Rat >= 1 {
		return chk.Err("concrete02 unloading ratio must be in (0,1). lambda=%g", o.Rat)
	}
	o.s = newPair(c2Nalp)
	o.RevertToStart()
	return
}

// GetPrms gets (an example) of parameters
func (o *Concrete02) GetPrms() Prms {
	return Prms{
		&Prm{N: "fpc", V: -25e6},
		&Prm{N: "epsc0", V: -0.002},
		&Prm{N: "fpcu", V: -5e6},
		&Prm{N: "epscu", V: -0.0035},
		&Prm{N: "lambda", V: 0.1},
		&Prm{N: "ft", V: 2.5e6},
		&Prm{N: "Ets", V: 1.5e9},
	}
}

// InitialTangent returns Ec = 2 fpc / εc0
func (o *Concrete02) InitialTangent() float64 {
	return 2.0 * o.Fpc / o.Epsc0
}

// SetTrialStrain sets trial strain
//  Note: strains beyond 2 εcu are rejected
func (o *Concrete02) SetTrialStrain(ε float64) (σ, Et float64, err error) {
	if err = checkStrain(ε); err != nil {
		return
	}
	if ε < 2.0*o.Epscu {
		return 0, 0, fmt.Errorf("%w: concrete02 strain %g is beyond 2 εcu = %g", ErrRejected, ε, 2.0*o.Epscu)
	}
	c, t := o.s.commit, o.s.trial
	t.Set(c)
	t.Eps = ε
	ec0 := o.InitialTangent()
	deps := ε - c.Eps
	ecmin := c.Alp[c2EcMin]
	dept := c.Alp[c2Dept]

	// compression envelope
	if ε < ecmin {
		t.Sig, t.Et = o.comprEnvelope(ε)
		t.Alp[c2EcMin] = ε
		return t.Sig, t.Et, nil
	}

	// reloading point R (strain epsr, stress sigmr)
	epsr := (o.Fpcu - o.Rat*ec0*o.Epscu) / (ec0 * (1.0 - o.Rat))
	sigmr := ec0 * epsr

	// reloading slope er and zero-stress strain ept
	sigmm, _ := o.comprEnvelope(ecmin)
	er := (sigmm - sigmr) / (ecmin - epsr)
	ept := ecmin - sigmm/er

	// unloading/reloading in compression
	if ε <= ept {
		sigmin := sigmm + er*(ε-ecmin)
		sigmax := er * 0.5 * (ε - ept)
		t.Sig = c.Sig + ec0*deps
		t.Et = ec0
		if t.Sig <= sigmin {
			t.Sig, t.Et = sigmin, er
		}
		if t.Sig >= sigmax {
			t.Sig, t.Et = sigmax, 0.5*er
		}
		return t.Sig, t.Et, nil
	}

	// reloading in tension towards the remaining tensile strength
	epn := ept + dept
	if ε <= epn {
		sicn, _ := o.tensEnvelope(dept)
		if dept != 0 {
			t.Et = sicn / dept
		} else {
			t.Et = ec0
		}
		t.Sig = t.Et * (ε - ept)
		return t.Sig, t.Et, nil
	}

	// tension envelope shifted by ept
	t.Sig, t.Et = o.tensEnvelope(ε - ept)
	t.Alp[c2Dept] = ε - ept
	return t.Sig, t.Et, nil
}

// comprEnvelope computes the monotonic compression envelope
func (o *Concrete02) comprEnvelope(ε float64) (σ, Et float64) {
	ec0 := o.InitialTangent()
	r := ε / o.Epsc0
	if ε >= o.Epsc0 {
		return o.Fpc * r * (2.0 - r), ec0 * (1.0 - r)
	}
	if ε > o.Epscu {
		Et = (o.Fpcu - o.Fpc) / (o.Epscu - o.Epsc0)
		return o.Fpc + Et*(ε-o.Epsc0), Et
	}
	return o.Fpcu, 1e-10
}

// tensEnvelope computes the monotonic tension envelope
func (o *Concrete02) tensEnvelope(ε float64) (σ, Et float64) {
	if o.Ft <= 0 {
		return 0, 1e-10
	}
	ec0 := o.InitialTangent()
	eps0 := o.Ft / ec0
	if ε <= eps0 {
		return ε * ec0, ec0
	}
	if o.Ets == 0 {
		return o.Ft, 1e-10
	}
	epsu := o.Ft * (1.0/o.Ets + 1.0/ec0)
	if ε <= epsu {
		return o.Ft - o.Ets*(ε-eps0), -o.Ets
	}
	return 0, 1e-10
}

// Commit commits trial state
func (o *Concrete02) Commit() { o.s.commit.Set(o.s.trial) }

// RevertToLastCommit discards trial state
func (o *Concrete02) RevertToLastCommit() { o.s.trial.Set(o.s.commit) }

// RevertToStart returns to the fresh undamaged state
func (o *Concrete02) RevertToStart() {
	c := o.s.commit
	c.Eps, c.Sig, c.Et = 0, 0, o.InitialTangent()
	c.Alp[c2EcMin], c.Alp[c2Dept] = 0, 0
	o.s.trial.Set(c)
}

func (o *Concrete02) Strain() float64  { return o.s.trial.Eps }
func (o *Concrete02) Stress() float64  { return o.s.trial.Sig }
func (o *Concrete02) Tangent() float64 { return o.s.trial.Et }

// UltimateStrain returns εcu (negative)
func (o *Concrete02) UltimateStrain() float64 { return o.Epscu }

// GetSnapshot copies trial and committed states
func (o *Concrete02) GetSnapshot() Snapshot { return o.s.snapshot() }

// SetSnapshot restores trial and committed states
func (o *Concrete02) SetSnapshot(s Snapshot) error { return o.s.restore(s) }

// Clone returns a new instance at the virgin state
func (o *Concrete02) Clone() Model {
	m := *o
	m.s = newPair(c2Nalp)
	m.RevertToStart()
	return &m
}
