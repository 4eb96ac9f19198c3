// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Cable implements a tension-only elastic law with initial tension σ₀ and
// an optional yield stress. The stress is zero whenever ε + σ₀/E < 0.
type Cable struct {
	E    float64 // Young's modulus
	Sig0 float64 // initial (prestress) stress
	Fy   float64 // yield stress; +Inf if not given
	s    pair    // Alp[0] = plastic strain
}

// add model to factory
func init() {
	allocators["cable"] = func() Model { return new(Cable) }
}

// Kind returns the law tag
func (o *Cable) Kind() Kind { return KindCable }

// Init initialises model
func (o *Cable) Init(prms Prms) (err error) {
	if err = prms.connect(&o.E, "E", "cable model"); err != nil {
		return
	}
	prms.connectOpt(&o.Sig0, "sig0", 0)
	prms.connectOpt(&o.Fy, "fy", math.Inf(1))
	if o.E <= 0 || o.Sig0 < 0 || o.Fy <= 0 {
		return chk.Err("cable requires E > 0, sig0 >= 0 and fy > 0. E=%g, sig0=%g, fy=%g", o.E, o.Sig0, o.Fy)
	}
	if o.Sig0 > o.Fy {
		return chk.Err("cable initial stress %g exceeds yield stress %g", o.Sig0, o.Fy)
	}
	o.s = newPair(1)
	o.RevertToStart()
	return
}

// GetPrms gets (an example) of parameters
func (o *Cable) GetPrms() Prms {
	return Prms{
		&Prm{N: "E", V: 190e9},
		&Prm{N: "sig0", V: 1046.25e6},
		&Prm{N: "fy", V: 1171e6},
	}
}

// SetTrialStrain sets trial strain
func (o *Cable) SetTrialStrain(ε float64) (σ, Et float64, err error) {
	if err = checkStrain(ε); err != nil {
		return
	}
	t := o.s.trial
	ep := o.s.commit.Alp[0]
	t.Eps = ε
	t.Alp[0] = ep
	σtr := o.E * (ε + o.Sig0/o.E - ep)
	switch {
	case σtr <= 0:
		t.Sig, t.Et = 0, 0
	case σtr > o.Fy:
		t.Sig, t.Et = o.Fy, 0
		t.Alp[0] = ep + (σtr-o.Fy)/o.E
	default:
		t.Sig, t.Et = σtr, o.E
	}
	return t.Sig, t.Et, nil
}

// Commit commits trial state
func (o *Cable) Commit() { o.s.commit.Set(o.s.trial) }

// RevertToLastCommit discards trial state
func (o *Cable) RevertToLastCommit() { o.s.trial.Set(o.s.commit) }

// RevertToStart returns to the virgin state; the stress at zero strain is σ₀
func (o *Cable) RevertToStart() {
	c := o.s.commit
	c.Eps, c.Sig, c.Et, c.Alp[0] = 0, o.Sig0, o.E, 0
	o.s.trial.Set(c)
}

func (o *Cable) Strain() float64         { return o.s.trial.Eps }
func (o *Cable) Stress() float64         { return o.s.trial.Sig }
func (o *Cable) Tangent() float64        { return o.s.trial.Et }
func (o *Cable) InitialTangent() float64 { return o.E }

// GetSnapshot copies trial and committed states
func (o *Cable) GetSnapshot() Snapshot { return o.s.snapshot() }

// SetSnapshot restores trial and committed states
func (o *Cable) SetSnapshot(s Snapshot) error { return o.s.restore(s) }

// Clone returns a new instance at the virgin state
func (o *Cable) Clone() Model {
	m := *o
	m.s = newPair(1)
	m.RevertToStart()
	return &m
}
