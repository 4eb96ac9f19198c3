// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

// Elastic implements a linear elastic law
type Elastic struct {
	E float64 // Young's modulus
	s pair
}

// add model to factory
func init() {
	allocators["elastic"] = func() Model { return new(Elastic) }
}

// Kind returns the law tag
func (o *Elastic) Kind() Kind { return KindElastic }

// Init initialises model
func (o *Elastic) Init(prms Prms) (err error) {
	err = prms.connect(&o.E, "E", "elastic model")
	if err != nil {
		return
	}
	o.s = newPair(0)
	o.RevertToStart()
	return
}

// GetPrms gets (an example) of parameters
func (o *Elastic) GetPrms() Prms {
	return Prms{&Prm{N: "E", V: 2.1e11}}
}

// SetTrialStrain sets trial strain
func (o *Elastic) SetTrialStrain(ε float64) (σ, Et float64, err error) {
	if err = checkStrain(ε); err != nil {
		return
	}
	o.s.trial.Eps = ε
	o.s.trial.Sig = o.E * ε
	o.s.trial.Et = o.E
	return o.s.trial.Sig, o.E, nil
}

// Commit commits trial state
func (o *Elastic) Commit() { o.s.commit.Set(o.s.trial) }

// RevertToLastCommit discards trial state
func (o *Elastic) RevertToLastCommit() { o.s.trial.Set(o.s.commit) }

// RevertToStart returns to the virgin state
func (o *Elastic) RevertToStart() {
	o.s.commit.Eps, o.s.commit.Sig, o.s.commit.Et = 0, 0, o.E
	o.s.trial.Set(o.s.commit)
}

func (o *Elastic) Strain() float64         { return o.s.trial.Eps }
func (o *Elastic) Stress() float64         { return o.s.trial.Sig }
func (o *Elastic) Tangent() float64        { return o.s.trial.Et }
func (o *Elastic) InitialTangent() float64 { return o.E }

// GetSnapshot copies trial and committed states
func (o *Elastic) GetSnapshot() Snapshot { return o.s.snapshot() }

// SetSnapshot restores trial and committed states
func (o *Elastic) SetSnapshot(s Snapshot) error { return o.s.restore(s) }

// Clone returns a new instance at the virgin state
func (o *Elastic) Clone() Model {
	m := &Elastic{E: o.E, s: newPair(0)}
	m.RevertToStart()
	return m
}
