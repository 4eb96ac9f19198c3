// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a YAML (or JSON) configuration file
package inp

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/engthiago/xc-sub000/sec"
)

// validate checks struct tags of all input data
var validate = validator.New()

// controller names
const (
	NormalStressesULS = "normal_stresses_uls"
	ShearULS          = "shear_uls"
	CrackSLS          = "crack_sls"
)

// ProcedureRef selects a preset solution procedure and overrides some of its fields
type ProcedureRef struct {
	Preset    string    `yaml:"preset" json:"preset"`       // name of preset; default depends on the caller
	Overrides yaml.Node `yaml:"overrides" json:"overrides"` // fields replacing those of the preset
}

// Get returns the procedure; def is used when no preset is given
func (o *ProcedureRef) Get(def string) (p *ProcedureData, err error) {
	name := o.Preset
	if name == "" {
		name = def
	}
	p, err = GetProcedure(name)
	if err != nil {
		return
	}
	if !o.Overrides.IsZero() {
		if err = o.Overrides.Decode(p); err != nil {
			return nil, chk.Err("cannot decode overrides of procedure %q:\n%v", name, err)
		}
		p.PostProcess()
	}
	if err = validate.Struct(p); err != nil {
		return nil, chk.Err("procedure %q is invalid:\n%v", name, err)
	}
	return
}

// LimitStateData holds the data of one limit state
type LimitStateData struct {
	Name         string       `yaml:"name" json:"name" validate:"required"`
	Controller   string       `yaml:"controller" json:"controller" validate:"oneof=normal_stresses_uls shear_uls crack_sls"`
	Journal      string       `yaml:"journal" json:"journal" validate:"required"` // path of the internal-force journal
	Combinations []string     `yaml:"combinations" json:"combinations"`          // combinations written to the journal by 'combine'
	Procedure    ProcedureRef `yaml:"procedure" json:"procedure"`                // phantom model procedure

	// shells: compose membrane forces with the twisting terms too
	WoodArmerAlsoForAxialForces bool `yaml:"woodarmeralsoforaxialforces" json:"woodArmerAlsoForAxialForces"`

	// crack control
	Wmax float64 `yaml:"wmax" json:"wmax" validate:"gte=0"` // maximum crack width; 0.3 mm if zero
	K2   float64 `yaml:"k2" json:"k2" validate:"gte=0"`     // load duration coefficient; 0.5 (long term) if zero
}

// DefaultProcedure returns the preset used when the limit state does not name one
func (o *LimitStateData) DefaultProcedure() string {
	if o.Controller == ShearULS {
		return "penalty_newton_line_search_mumps"
	}
	return "plain_newton_raphson"
}

// DistData assigns sections to the gauss points of an element
type DistData struct {
	Elem     int      `yaml:"elem" json:"elem"`
	Dim      int      `yaml:"dim" json:"dim" validate:"oneof=1 2 3"` // 1: beam, 2: shell, 3: solid
	Sections []string `yaml:"sections" json:"sections" validate:"min=1"`
}

// NodeData holds node data of the primary model
type NodeData struct {
	Tag  int       `yaml:"tag" json:"tag"`
	Ndof int       `yaml:"ndof" json:"ndof" validate:"gt=0"`
	X    []float64 `yaml:"x" json:"x" validate:"min=2,max=3"`
	Mass []float64 `yaml:"mass" json:"mass"` // lumped mass per dof
}

// ElemData holds element data of the primary model
type ElemData struct {
	Tag    int                `yaml:"tag" json:"tag"`
	Type   string             `yaml:"type" json:"type" validate:"required"` // e.g. "beam", "truss", "plate"
	Verts  []int              `yaml:"verts" json:"verts" validate:"min=1"`
	Props  map[string]float64 `yaml:"props" json:"props"`   // e.g. E, A, Iz
	Mat    string             `yaml:"mat" json:"mat"`       // material of trusses
	Sec    string             `yaml:"sec" json:"sec"`       // RC section of zero-length elements
	Transf string             `yaml:"transf" json:"transf"` // beams: "linear" or "pdelta"
	VecXZ  []float64          `yaml:"vecxz" json:"vecxz"`   // 3D beams: vector in the local xz plane
}

// FixData holds single-point constraints given by a code; e.g. "000_0FF"
type FixData struct {
	Node int    `yaml:"node" json:"node"`
	Code string `yaml:"code" json:"code" validate:"required"`
}

// LoadData holds nodal forces
type LoadData struct {
	Node int       `yaml:"node" json:"node"`
	F    []float64 `yaml:"f" json:"f" validate:"min=1"`
}

// EleLoadData holds a uniform load in local axes
type EleLoadData struct {
	Elem int       `yaml:"elem" json:"elem"`
	Q    []float64 `yaml:"q" json:"q" validate:"min=1"`
}

// PatternData holds a load pattern
type PatternData struct {
	Name     string        `yaml:"name" json:"name" validate:"required"`
	Loads    []LoadData    `yaml:"loads" json:"loads" validate:"dive"`
	EleLoads []EleLoadData `yaml:"eleloads" json:"eleloads" validate:"dive"`
}

// CombData holds a load combination; e.g. "1.35*G + 1.5*SC"
type CombData struct {
	Name     string `yaml:"name" json:"name" validate:"required"`
	Expr     string `yaml:"expr" json:"expr" validate:"required"`
	Previous string `yaml:"previous" json:"previous"` // ancestor whose state is restored
}

// ModelData holds the primary model analysed by 'combine'
type ModelData struct {
	Ndim         int           `yaml:"ndim" json:"ndim" validate:"oneof=2 3"`
	Nodes        []NodeData    `yaml:"nodes" json:"nodes" validate:"min=1,dive"`
	Elements     []ElemData    `yaml:"elements" json:"elements" validate:"min=1,dive"`
	Fixes        []FixData     `yaml:"fixes" json:"fixes" validate:"dive"`
	Patterns     []PatternData `yaml:"patterns" json:"patterns" validate:"dive"`
	Combinations []CombData    `yaml:"combinations" json:"combinations" validate:"dive"`
	Procedure    ProcedureRef  `yaml:"procedure" json:"procedure"` // default: simple_static_linear
	Encoder      string        `yaml:"encoder" json:"encoder" validate:"omitempty,oneof=gob json"`
}

// Config holds all input data
type Config struct {

	// global information
	Desc    string `yaml:"desc" json:"desc"`       // description of the run
	DirOut  string `yaml:"dirout" json:"dirout"`   // directory for output; e.g. /tmp/rcverif
	Results string `yaml:"results" json:"results"` // name of the verification result file
	Metrics string `yaml:"metrics" json:"metrics"` // name of the metrics textfile; none if empty
	Workers int    `yaml:"workers" json:"workers" validate:"gte=0"`
	Ndim    int    `yaml:"ndim" json:"ndim" validate:"oneof=2 3"` // dimension of the phantom models

	// data
	Materials    MatsData          `yaml:"materials" json:"materials" validate:"min=1,dive"`
	Sections     []*sec.RCSection  `yaml:"sections" json:"sections" validate:"dive"`
	Distribution []DistData        `yaml:"distribution" json:"distribution" validate:"dive"`
	LimitStates  []*LimitStateData `yaml:"limitstates" json:"limitstates" validate:"dive"`
	Model        *ModelData        `yaml:"model" json:"model"`

	// derived
	Dir       string            `yaml:"-" json:"-"` // directory of the configuration file
	MatDb     *MatDb            `yaml:"-" json:"-"` // materials
	Container *sec.Container    `yaml:"-" json:"-"` // section templates
	Dist      *sec.Distribution `yaml:"-" json:"-"` // sections of each element
}

// SetDefault sets default values
func (o *Config) SetDefault() {
	o.DirOut = "/tmp/rcverif"
	o.Results = "verification.json"
	o.Ndim = 3
}

// ReadConfig reads and validates a configuration file
func ReadConfig(path string) (o *Config, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read configuration file %q:\n%v", path, err)
	}
	o, err = ParseConfig(b)
	if err != nil {
		return nil, chk.Err("%s: %v", path, err)
	}
	o.Dir = filepath.Dir(path)
	return
}

// ParseConfig decodes and validates configuration data. JSON is accepted
func ParseConfig(b []byte) (o *Config, err error) {
	o = new(Config)
	o.SetDefault()
	if err = yaml.Unmarshal(b, o); err != nil {
		return nil, chk.Err("cannot decode configuration:\n%v", err)
	}
	if err = validate.Struct(o); err != nil {
		return nil, chk.Err("invalid configuration:\n%v", err)
	}
	o.DirOut = os.ExpandEnv(o.DirOut)
	err = o.PostProcess()
	return
}

// PostProcess builds the materials, the section container and the distribution
func (o *Config) PostProcess() (err error) {
	if o.MatDb, err = NewMatDb(o.Materials); err != nil {
		return
	}
	o.Container = sec.NewContainer()
	for _, s := range o.Sections {
		if _, _, err = o.MatDb.Pair(s.Concrete, s.Steel); err != nil {
			return chk.Err("section %q: %v", s.Name, err)
		}
		if err = o.Container.Add(s); err != nil {
			return
		}
	}
	o.Dist = sec.NewDistribution(o.Container)
	for _, d := range o.Distribution {
		if _, ok := o.Dist.Dim(d.Elem); ok {
			return chk.Err("element %d appears twice in the distribution", d.Elem)
		}
		if err = o.Dist.Assign(d.Elem, d.Dim, d.Sections...); err != nil {
			return
		}
	}
	names := make(map[string]bool)
	for _, ls := range o.LimitStates {
		if names[ls.Name] {
			return chk.Err("limit state %q is defined twice", ls.Name)
		}
		names[ls.Name] = true
	}
	return
}

// Path resolves a file name relative to the configuration file
func (o *Config) Path(fn string) string {
	if fn == "" || filepath.IsAbs(fn) {
		return fn
	}
	return filepath.Join(o.Dir, fn)
}

// OutPath returns a file name in the output directory
func (o *Config) OutPath(fn string) string {
	if filepath.IsAbs(fn) {
		return fn
	}
	return filepath.Join(o.DirOut, fn)
}

// Realize builds the fiber section of a template with the materials of the database
func (o *Config) Realize(s *sec.RCSection, ndim int) (*sec.FiberSection, error) {
	c, st, err := o.MatDb.Pair(s.Concrete, s.Steel)
	if err != nil {
		return nil, chk.Err("section %q: %v", s.Name, err)
	}
	return s.Realize(c.Mdl, st.Mdl, ndim)
}

// LimitState returns a limit state by name
func (o *Config) LimitState(name string) (*LimitStateData, error) {
	for _, ls := range o.LimitStates {
		if ls.Name == name {
			return ls, nil
		}
	}
	return nil, chk.Err("cannot find limit state %q", name)
}
