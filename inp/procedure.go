// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// HandlerData holds constraint handler data
type HandlerData struct {
	Type    string  `yaml:"type" json:"type" validate:"oneof=plain transformation penalty lagrange"` // constraint handler
	AlphaSP float64 `yaml:"alphasp" json:"alphasp" validate:"gte=0"`                                // penalty factor for single-point constraints
	AlphaMP float64 `yaml:"alphamp" json:"alphamp" validate:"gte=0"`                                // penalty factor for multi-point constraints
}

// IntegratorData holds integrator data
type IntegratorData struct {
	Type string `yaml:"type" json:"type" validate:"oneof=load_control displacement_control newmark eigen linear_buckling ill_conditioning"`

	// load control
	Dlambda    float64 `yaml:"dlambda" json:"dlambda"`       // load factor increment
	MinDlambda float64 `yaml:"mindlambda" json:"mindlambda"` // minimum increment after halving
	MaxDlambda float64 `yaml:"maxdlambda" json:"maxdlambda"` // maximum increment when growing back

	// displacement control
	Node int     `yaml:"node" json:"node"` // controlled node tag
	Dof  int     `yaml:"dof" json:"dof"`   // controlled local dof
	DU   float64 `yaml:"du" json:"du"`     // displacement increment

	// Newmark
	Beta   float64 `yaml:"beta" json:"beta"`     // β coefficient
	Gamma  float64 `yaml:"gamma" json:"gamma"`   // γ coefficient
	AlphaM float64 `yaml:"alpham" json:"alpham"` // Rayleigh damping: mass factor
	BetaK  float64 `yaml:"betak" json:"betak"`   // Rayleigh damping: stiffness factor
}

// AlgorithmData holds solution algorithm data
type AlgorithmData struct {
	Type       string  `yaml:"type" json:"type" validate:"oneof=linear newton_raphson modified_newton newton_line_search krylov_newton"`
	LineSearch string  `yaml:"linesearch" json:"linesearch" validate:"omitempty,oneof=bisection initial_interpolated regula_falsi secant"`
	LsTol      float64 `yaml:"lstol" json:"lstol"`                        // line search tolerance (ratio of residual projections)
	LsMaxIt    int     `yaml:"lsmaxit" json:"lsmaxit"`                    // line search: max number of iterations
	MaxDim     int     `yaml:"maxdim" json:"maxdim" validate:"gte=0"`     // Krylov-Newton: max dimension of the subspace
}

// TestData holds convergence test data
type TestData struct {
	Type      string  `yaml:"type" json:"type" validate:"oneof=norm_unbalance norm_disp_incr energy_incr relative_total_norm_disp_incr"`
	Tol       float64 `yaml:"tol" json:"tol" validate:"gt=0"`
	MaxIt     int     `yaml:"maxit" json:"maxit" validate:"gt=0"`
	PrintFlag int     `yaml:"printflag" json:"printflag"` // 0: none, 1: each iteration
}

// AnalysisData holds analysis data
type AnalysisData struct {
	Type        string  `yaml:"type" json:"type" validate:"oneof=static_analysis direct_integration_analysis modal_analysis ill_conditioning_analysis linear_buckling_analysis"`
	Dt          float64 `yaml:"dt" json:"dt" validate:"gte=0"`                   // time step for direct integration
	NumModes    int     `yaml:"nummodes" json:"nummodes" validate:"gte=0"`       // number of eigenmodes
	MaxHalvings int     `yaml:"maxhalvings" json:"maxhalvings" validate:"gte=0"` // max number of consecutive step halvings
}

// ProcedureData aggregates the choices of a solution procedure. The choices are
// independent of each other
type ProcedureData struct {
	Name       string         `yaml:"name" json:"name"`
	Handler    HandlerData    `yaml:"handler" json:"handler"`
	Numberer   string         `yaml:"numberer" json:"numberer" validate:"oneof=simple rcm amd"`
	System     string         `yaml:"system" json:"system" validate:"oneof=band_gen+lapack sparse_gen+super_lu umfpack mumps band_spd profile_spd full_gen band_arpack+shift spectra full_gen_eigen sym_band_eigen"`
	Integrator IntegratorData `yaml:"integrator" json:"integrator"`
	Algorithm  AlgorithmData  `yaml:"algorithm" json:"algorithm"`
	Test       TestData       `yaml:"test" json:"test"`
	Analysis   AnalysisData   `yaml:"analysis" json:"analysis"`
	Verbose    bool           `yaml:"verbose" json:"verbose"`
}

// SetDefault sets default values
func (o *ProcedureData) SetDefault() {
	o.Handler = HandlerData{Type: "plain", AlphaSP: 1e15, AlphaMP: 1e15}
	o.Numberer = "rcm"
	o.System = "band_gen+lapack"
	o.Integrator = IntegratorData{Type: "load_control", Dlambda: 1, Beta: 0.25, Gamma: 0.5}
	o.Algorithm = AlgorithmData{Type: "newton_raphson", LineSearch: "initial_interpolated", LsTol: 0.8, LsMaxIt: 10, MaxDim: 3}
	o.Test = TestData{Type: "norm_unbalance", Tol: 1e-9, MaxIt: 10}
	o.Analysis = AnalysisData{Type: "static_analysis", MaxHalvings: 4}
}

// PostProcess fills derived values after decoding
func (o *ProcedureData) PostProcess() {
	if o.Integrator.MinDlambda == 0 {
		o.Integrator.MinDlambda = o.Integrator.Dlambda / 1024
	}
	if o.Integrator.MaxDlambda == 0 {
		o.Integrator.MaxDlambda = o.Integrator.Dlambda
	}
	if o.Algorithm.LsTol == 0 {
		o.Algorithm.LsTol = 0.8
	}
	if o.Algorithm.LsMaxIt == 0 {
		o.Algorithm.LsMaxIt = 10
	}
	if o.Algorithm.Type == "newton_line_search" && o.Algorithm.LineSearch == "" {
		o.Algorithm.LineSearch = "initial_interpolated"
	}
	if o.Algorithm.Type == "krylov_newton" && o.Algorithm.MaxDim == 0 {
		o.Algorithm.MaxDim = 3
	}
}

// presets holds the named solution procedures used by drivers
var presets = map[string]func() *ProcedureData{

	// simple static linear procedure
	"simple_static_linear": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "simple_static_linear"
		o.Numberer = "simple"
		o.Algorithm.Type = "linear"
		return
	},

	// default procedure of the phantom model
	"plain_newton_raphson": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "plain_newton_raphson"
		o.Test = TestData{Type: "norm_unbalance", Tol: 1e-10, MaxIt: 10}
		return
	},

	// shear verification
	"penalty_newton_line_search_mumps": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "penalty_newton_line_search_mumps"
		o.Handler.Type = "penalty"
		o.System = "mumps"
		o.Algorithm.Type = "newton_line_search"
		o.Test = TestData{Type: "relative_total_norm_disp_incr", Tol: 1e-9, MaxIt: 40}
		return
	},

	// penalty + Newton with band solver
	"penalty_newton_raphson": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "penalty_newton_raphson"
		o.Handler.Type = "penalty"
		o.Test = TestData{Type: "relative_total_norm_disp_incr", Tol: 1e-9, MaxIt: 20}
		return
	},

	// modal analysis
	"frequency_analysis": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "frequency_analysis"
		o.Handler.Type = "transformation"
		o.System = "full_gen_eigen"
		o.Integrator.Type = "eigen"
		o.Algorithm.Type = "linear"
		o.Analysis = AnalysisData{Type: "modal_analysis", NumModes: 1}
		return
	},

	// linear buckling
	"linear_buckling": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "linear_buckling"
		o.Handler.Type = "transformation"
		o.System = "band_spd"
		o.Integrator.Type = "linear_buckling"
		o.Algorithm.Type = "linear"
		o.Analysis = AnalysisData{Type: "linear_buckling_analysis", NumModes: 1}
		return
	},

	// ill-conditioning
	"ill_conditioning": func() (o *ProcedureData) {
		o = new(ProcedureData)
		o.SetDefault()
		o.Name = "ill_conditioning"
		o.Handler.Type = "transformation"
		o.System = "sym_band_eigen"
		o.Integrator.Type = "ill_conditioning"
		o.Algorithm.Type = "linear"
		o.Analysis = AnalysisData{Type: "ill_conditioning_analysis", NumModes: 1}
		return
	},
}

// GetProcedure returns a copy of a named preset
func GetProcedure(name string) (o *ProcedureData, err error) {
	fcn, ok := presets[name]
	if !ok {
		return nil, chk.Err("cannot find solution procedure named %q", name)
	}
	o = fcn()
	o.PostProcess()
	return
}

// ProcedureNames returns the names of the presets
func ProcedureNames() (names []string) {
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}
