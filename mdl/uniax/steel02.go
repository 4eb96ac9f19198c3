// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// indices of internal variables of Steel02
const (
	s2EpsMin = iota // minimum strain reached
	s2EpsMax        // maximum strain reached
	s2EpsPl         // strain at the last plastic excursion
	s2Epss0         // strain at the asymptotes intersection
	s2Sigs0         // stress at the asymptotes intersection
	s2Epsr          // strain at the last reversal
	s2Sigr          // stress at the last reversal
	s2Kon           // loading index: 0 virgin, 1 tension, 2 compression, 3 prestressed at rest
	s2Nalp
)

// Steel02 implements the Menegotto-Pinto law with isotropic hardening.
// The curvature of the transition between asymptotes is
//   R(ξ) = R0 - cR1 ξ / (cR2 + ξ)
// where ξ is the normalised plastic excursion since the last reversal.
// An initial stress σ₀ may be given to represent prestress.
type Steel02 struct {
	E    float64 // initial elastic tangent
	Fy   float64 // yield stress
	B    float64 // strain-hardening ratio
	R0   float64 // initial curvature parameter
	CR1  float64 // curvature degradation parameter
	CR2  float64 // curvature degradation parameter
	A1   float64 // isotropic hardening in compression
	A2   float64 // isotropic hardening in compression
	A3   float64 // isotropic hardening in tension
	A4   float64 // isotropic hardening in tension
	Sig0 float64 // initial stress
	s    pair
}

// add model to factory
func init() {
	allocators["steel02"] = func() Model { return new(Steel02) }
}

// Kind returns the law tag
func (o *Steel02) Kind() Kind { return KindSteel02 }

// Init initialises model
func (o *Steel02) Init(prms Prms) (err error) {
	if err = prms.connect(&o.E, "E", "steel02 model"); err != nil {
		return
	}
	if err = prms.connect(&o.Fy, "fy", "steel02 model"); err != nil {
		return
	}
	prms.connectOpt(&o.B, "b", 0.01)
	prms.connectOpt(&o.R0, "R0", 20)
	prms.connectOpt(&o.CR1, "cR1", 18.5)
	prms.connectOpt(&o.CR2, "cR2", 0.15)
	prms.connectOpt(&o.A1, "a1", 0)
	prms.connectOpt(&o.A2, "a2", 1)
	prms.connectOpt(&o.A3, "a3", 0)
	prms.connectOpt(&o.A4, "a4", 1)
	prms.connectOpt(&o.Sig0, "sig0", 0)
	if o.E <= 0 || o.Fy <= 0 {
		return chk.Err("steel02 requires E > 0 and fy > 0. E=%g, fy=%g", o.E, o.Fy)
	}
	if o.B < 0 || o.B >= 1 {
		return chk.Err("steel02 hardening ratio must be in [0,1). b=%g", o.B)
	}
	if o.R0-o.CR1 <= 0 {
		return chk.Err("steel02 curvature would vanish: R0=%g, cR1=%g", o.R0, o.CR1)
	}
	o.s = newPair(s2Nalp)
	o.RevertToStart()
	return
}

// GetPrms gets (an example) of parameters
func (o *Steel02) GetPrms() Prms {
	return Prms{
		&Prm{N: "E", V: 2.0e11},
		&Prm{N: "fy", V: 400e6},
		&Prm{N: "b", V: 0.01},
		&Prm{N: "R0", V: 20},
		&Prm{N: "cR1", V: 18.5},
		&Prm{N: "cR2", V: 0.15},
	}
}

// SetTrialStrain sets trial strain
func (o *Steel02) SetTrialStrain(ε float64) (σ, Et float64, err error) {
	if err = checkStrain(ε); err != nil {
		return
	}
	c, t := o.s.commit, o.s.trial
	t.Set(c)
	t.Eps = ε

	esh := o.B * o.E
	epsy := o.Fy / o.E
	epsini := o.Sig0 / o.E
	eps := ε + epsini
	epsP := c.Eps + epsini
	sigP := c.Sig
	deps := eps - epsP
	a := t.Alp

	// virgin or prestressed at rest
	kon := int(a[s2Kon])
	if kon == 0 || kon == 3 {
		if math.Abs(deps) < 10.0*machEps {
			a[s2Kon] = 3
			t.Sig, t.Et = sigP, o.E
			return t.Sig, t.Et, nil
		}
		a[s2EpsMax] = epsy
		a[s2EpsMin] = -epsy
		if deps < 0 {
			kon = 2
			a[s2Epss0], a[s2Sigs0], a[s2EpsPl] = -epsy, -o.Fy, -epsy
		} else {
			kon = 1
			a[s2Epss0], a[s2Sigs0], a[s2EpsPl] = epsy, o.Fy, epsy
		}
	}

	// reversal from compression to tension
	if kon == 2 && deps > 0 {
		kon = 1
		a[s2Epsr], a[s2Sigr] = epsP, sigP
		if epsP < a[s2EpsMin] {
			a[s2EpsMin] = epsP
		}
		d1 := (a[s2EpsMax] - a[s2EpsMin]) / (2.0 * o.A4 * epsy)
		shft := 1.0 + o.A3*math.Pow(d1, 0.8)
		a[s2Epss0] = (o.Fy*shft - esh*epsy*shft - a[s2Sigr] + o.E*a[s2Epsr]) / (o.E - esh)
		a[s2Sigs0] = o.Fy*shft + esh*(a[s2Epss0]-epsy*shft)
		a[s2EpsPl] = a[s2EpsMax]

		// reversal from tension to compression
	} else if kon == 1 && deps < 0 {
		kon = 2
		a[s2Epsr], a[s2Sigr] = epsP, sigP
		if epsP > a[s2EpsMax] {
			a[s2EpsMax] = epsP
		}
		d1 := (a[s2EpsMax] - a[s2EpsMin]) / (2.0 * o.A2 * epsy)
		shft := 1.0 + o.A1*math.Pow(d1, 0.8)
		a[s2Epss0] = (-o.Fy*shft + esh*epsy*shft - a[s2Sigr] + o.E*a[s2Epsr]) / (o.E - esh)
		a[s2Sigs0] = -o.Fy*shft + esh*(a[s2Epss0]+epsy*shft)
		a[s2EpsPl] = a[s2EpsMin]
	}
	a[s2Kon] = float64(kon)

	// stress and tangent on the current branch
	ξ := math.Abs((a[s2EpsPl] - a[s2Epss0]) / epsy)
	R := o.R0 - o.CR1*ξ/(o.CR2+ξ)
	Δσ := a[s2Sigs0] - a[s2Sigr]
	Δε := a[s2Epss0] - a[s2Epsr]
	r := (eps - a[s2Epsr]) / Δε
	d1 := 1.0 + math.Pow(math.Abs(r), R)
	d2 := math.Pow(d1, 1.0/R)
	t.Sig = (o.B*r+(1.0-o.B)*r/d2)*Δσ + a[s2Sigr]
	t.Et = (o.B + (1.0-o.B)/(d1*d2)) * Δσ / Δε
	return t.Sig, t.Et, nil
}

// Commit commits trial state
func (o *Steel02) Commit() { o.s.commit.Set(o.s.trial) }

// RevertToLastCommit discards trial state
func (o *Steel02) RevertToLastCommit() { o.s.trial.Set(o.s.commit) }

// RevertToStart returns to the virgin state; the stress at zero strain is σ₀
func (o *Steel02) RevertToStart() {
	c := o.s.commit
	for i := range c.Alp {
		c.Alp[i] = 0
	}
	epsy := o.Fy / o.E
	c.Alp[s2EpsMax] = epsy
	c.Alp[s2EpsMin] = -epsy
	c.Eps, c.Sig, c.Et = 0, o.Sig0, o.E
	o.s.trial.Set(c)
}

func (o *Steel02) Strain() float64         { return o.s.trial.Eps }
func (o *Steel02) Stress() float64         { return o.s.trial.Sig }
func (o *Steel02) Tangent() float64        { return o.s.trial.Et }
func (o *Steel02) InitialTangent() float64 { return o.E }

// GetSnapshot copies trial and committed states
func (o *Steel02) GetSnapshot() Snapshot { return o.s.snapshot() }

// SetSnapshot restores trial and committed states
func (o *Steel02) SetSnapshot(s Snapshot) error { return o.s.restore(s) }

// Clone returns a new instance at the virgin state
func (o *Steel02) Clone() Model {
	m := *o
	m.s = newPair(s2Nalp)
	m.RevertToStart()
	return &m
}

// machEps is the machine epsilon for float64
const machEps = 2.220446049250313e-16
