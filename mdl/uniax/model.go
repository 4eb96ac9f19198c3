// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package uniax implements uniaxial constitutive laws for fibers and trusses
/*
 *   trial strain ε ──► SetTrialStrain ──► (σ, Eₜ)
 *                          │
 *          Commit ◄────────┼────────► RevertToLastCommit
 *                          │
 *                     RevertToStart  (σ = σ₀ at ε = 0)
 */
package uniax

import (
	"errors"
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Kind tags each constitutive law
type Kind int

const (
	KindElastic    Kind = iota // linear elastic
	KindElasticPP              // elastic perfectly plastic
	KindSteel02                // Menegotto-Pinto with isotropic hardening
	KindConcrete02             // parabola + linear softening with tension stiffening
	KindCable                  // tension-only with prestress
)

// String returns the name of the kind as used by the allocators
func (k Kind) String() string {
	switch k {
	case KindElastic:
		return "elastic"
	case KindElasticPP:
		return "elastic_pp"
	case KindSteel02:
		return "steel02"
	case KindConcrete02:
		return "concrete02"
	case KindCable:
		return "cable"
	}
	return "unknown"
}

// ErrRejected is returned when a law cannot accept a trial strain
var ErrRejected = errors.New("trial strain rejected")

// Model defines uniaxial constitutive laws
type Model interface {
	Kind() Kind                                          // returns the law tag
	Init(prms Prms) error                                // initialises model
	GetPrms() Prms                                       // gets (an example) of parameters
	SetTrialStrain(ε float64) (σ, Et float64, err error) // sets trial strain and returns stress and tangent
	Commit()                                             // commits trial state
	RevertToLastCommit()                                 // discards trial state
	RevertToStart()                                      // returns to the virgin state
	Strain() float64                                     // trial strain
	Stress() float64                                     // trial stress
	Tangent() float64                                    // trial tangent modulus
	InitialTangent() float64                             // tangent modulus at the virgin state
	GetSnapshot() Snapshot                               // copies trial and committed states
	SetSnapshot(s Snapshot) error                        // restores trial and committed states
	Clone() Model                                        // new instance with same parameters at the virgin state
}

// New returns a new uniaxial model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'uniax' database", name)
	}
	return allocator(), nil
}

// NewInit allocates and initialises a uniaxial model
func NewInit(name string, prms Prms) (model Model, err error) {
	model, err = New(name)
	if err != nil {
		return
	}
	err = model.Init(prms)
	if err != nil {
		return nil, chk.Err("cannot initialise %q model:\n%v", name, err)
	}
	return
}

// allocators holds all available uniaxial models; modelname => allocator
var allocators = map[string]func() Model{}

// checkStrain rejects non-finite trial strains
func checkStrain(ε float64) error {
	if math.IsNaN(ε) || math.IsInf(ε, 0) {
		return fmt.Errorf("%w: ε = %v", ErrRejected, ε)
	}
	return nil
}
