// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package uniax

import "github.com/cpmech/gosl/chk"

// State holds state variables for uniaxial laws
type State struct {
	Eps float64   // strain
	Sig float64   // stress
	Et  float64   // tangent modulus
	Alp []float64 // internal variables
}

// NewState allocates state structure
func NewState(nalp int) *State {
	return &State{Alp: make([]float64, nalp)}
}

// Set copies states
//  Note: no allocation is made, thus 'o' must be already allocated
func (o *State) Set(other *State) {
	o.Eps = other.Eps
	o.Sig = other.Sig
	o.Et = other.Et
	copy(o.Alp, other.Alp)
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.Alp))
	other.Set(o)
	return other
}

// Snapshot holds the trial and committed states of a law; it is gob/json friendly
type Snapshot struct {
	Trial  State
	Commit State
}

// pair groups the trial and committed states used by all laws
type pair struct {
	trial  *State
	commit *State
}

func newPair(nalp int) pair {
	return pair{NewState(nalp), NewState(nalp)}
}

func (o *pair) snapshot() Snapshot {
	return Snapshot{Trial: *o.trial.GetCopy(), Commit: *o.commit.GetCopy()}
}

func (o *pair) restore(s Snapshot) error {
	if len(s.Trial.Alp) != len(o.trial.Alp) || len(s.Commit.Alp) != len(o.commit.Alp) {
		return chk.Err("snapshot has %d internal variables but model needs %d", len(s.Trial.Alp), len(o.trial.Alp))
	}
	o.trial.Set(&s.Trial)
	o.commit.Set(&s.Commit)
	return nil
}
