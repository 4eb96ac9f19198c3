// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import "github.com/cpmech/gosl/chk"

// ElasticPP implements an elastic perfectly plastic law with distinct
// yield strains in tension and compression. Unloading is parallel to E.
//  Note: εyn must be negative; a very large εyp encodes tension without yielding
type ElasticPP struct {
	E   float64 // Young's modulus
	Eyp float64 // yield strain in tension
	Eyn float64 // yield strain in compression
	Ep0 float64 // initial strain
	s   pair    // Alp[0] = plastic strain
}

// add model to factory
func init() {
	allocators["elastic_pp"] = func() Model { return new(ElasticPP) }
}

// Kind returns the law tag
func (o *ElasticPP) Kind() Kind { return KindElasticPP }

// Init initialises model
func (o *ElasticPP) Init(prms Prms) (err error) {
	if err = prms.connect(&o.E, "E", "elastic_pp model"); err != nil {
		return
	}
	var fy float64
	if p := prms.Find("fy"); p != nil {
		fy = p.V
		o.Eyp = fy / o.E
		o.Eyn = -o.Eyp
	} else {
		if err = prms.connect(&o.Eyp, "eyp", "elastic_pp model"); err != nil {
			return
		}
		prms.connectOpt(&o.Eyn, "eyn", -o.Eyp)
	}
	prms.connectOpt(&o.Ep0, "eps0", 0)
	if o.Eyp <= 0 || o.Eyn >= 0 {
		return chk.Err("elastic_pp yield strains must satisfy eyn < 0 < eyp. eyn=%g, eyp=%g", o.Eyn, o.Eyp)
	}
	o.s = newPair(1)
	o.RevertToStart()
	return
}

// GetPrms gets (an example) of parameters
func (o *ElasticPP) GetPrms() Prms {
	return Prms{
		&Prm{N: "E", V: 2.1e6},
		&Prm{N: "fy", V: 2600},
	}
}

// SetTrialStrain sets trial strain
func (o *ElasticPP) SetTrialStrain(ε float64) (σ, Et float64, err error) {
	if err = checkStrain(ε); err != nil {
		return
	}
	ep := o.s.commit.Alp[0]
	fyp, fyn := o.E*o.Eyp, o.E*o.Eyn
	σtr := o.E * (ε - o.Ep0 - ep)
	t := o.s.trial
	t.Eps = ε
	t.Alp[0] = ep
	switch {
	case σtr > fyp:
		t.Sig, t.Et = fyp, 0
		t.Alp[0] = ep + (σtr-fyp)/o.E
	case σtr < fyn:
		t.Sig, t.Et = fyn, 0
		t.Alp[0] = ep + (σtr-fyn)/o.E
	default:
		t.Sig, t.Et = σtr, o.E
	}
	return t.Sig, t.Et, nil
}

// Commit commits trial state
func (o *ElasticPP) Commit() { o.s.commit.Set(o.s.trial) }

// RevertToLastCommit discards trial state
func (o *ElasticPP) RevertToLastCommit() { o.s.trial.Set(o.s.commit) }

// RevertToStart returns to the virgin state
func (o *ElasticPP) RevertToStart() {
	c := o.s.commit
	c.Eps, c.Et, c.Alp[0] = 0, o.E, 0
	c.Sig = -o.E * o.Ep0
	o.s.trial.Set(c)
}

func (o *ElasticPP) Strain() float64         { return o.s.trial.Eps }
func (o *ElasticPP) Stress() float64         { return o.s.trial.Sig }
func (o *ElasticPP) Tangent() float64        { return o.s.trial.Et }
func (o *ElasticPP) InitialTangent() float64 { return o.E }

// PlasticStrain returns the trial plastic strain
func (o *ElasticPP) PlasticStrain() float64 { return o.s.trial.Alp[0] }

// GetSnapshot copies trial and committed states
func (o *ElasticPP) GetSnapshot() Snapshot { return o.s.snapshot() }

// SetSnapshot restores trial and committed states
func (o *ElasticPP) SetSnapshot(s Snapshot) error { return o.s.restore(s) }

// Clone returns a new instance at the virgin state
func (o *ElasticPP) Clone() Model {
	m := &ElasticPP{E: o.E, Eyp: o.Eyp, Eyn: o.Eyn, Ep0: o.Ep0, s: newPair(1)}
	m.RevertToStart()
	return m
}
