// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cpmech/gosl/chk"
)

// flags of control variables that do not come from a controller
const (
	FlagUndefined    = "undefined"    // no section assigned; CF = 0
	FlagUnverifiable = "unverifiable" // controller error; CF = +Inf
)

// ControlVars holds the outcome of checking one section under one combination
type ControlVars struct {
	ElementTag   int                // element
	SectionIndex int                // index of the section of the element
	Section      string             // name of the RC section
	LimitState   string             // name of the limit state
	CombName     string             // governing combination
	CF           float64            // capacity factor; CF ≤ 1 means OK
	N, My, Mz    float64            // applied forces
	Mechanism    string             // governing mechanism (shear)
	Flag         string             // FlagUndefined or FlagUnverifiable
	Extras       map[string]float64 // controller specific quantities
}

// OK tells whether the section passes
func (o *ControlVars) OK() bool { return o.Flag == "" && o.CF <= 1 }

// num encodes non-finite values as strings
type num float64

func (v num) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return []byte(strconv.Quote(strconv.FormatFloat(f, 'g', -1, 64))), nil
	}
	return json.Marshal(f)
}

func (v *num) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*v = num(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*v = num(f)
	return nil
}

// controlVarsJSON is the layout of one entry of the result file
type controlVarsJSON struct {
	ElementTag   int            `json:"elementTag"`
	SectionIndex int            `json:"sectionIndex"`
	Section      string         `json:"section,omitempty"`
	LimitState   string         `json:"limitState"`
	CombName     string         `json:"combName"`
	CF           num            `json:"CF"`
	N            num            `json:"N"`
	My           num            `json:"My"`
	Mz           num            `json:"Mz"`
	Mechanism    string         `json:"mechanism,omitempty"`
	Flag         string         `json:"flag,omitempty"`
	Extras       map[string]num `json:"extras,omitempty"`
}

// MarshalJSON writes the control variables; non-finite numbers become strings
func (o ControlVars) MarshalJSON() ([]byte, error) {
	v := controlVarsJSON{o.ElementTag, o.SectionIndex, o.Section, o.LimitState, o.CombName,
		num(o.CF), num(o.N), num(o.My), num(o.Mz), o.Mechanism, o.Flag, nil}
	if len(o.Extras) > 0 {
		v.Extras = make(map[string]num, len(o.Extras))
		for k, x := range o.Extras {
			v.Extras[k] = num(x)
		}
	}
	return json.Marshal(v)
}

// UnmarshalJSON reads the control variables
func (o *ControlVars) UnmarshalJSON(b []byte) error {
	var v controlVarsJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*o = ControlVars{v.ElementTag, v.SectionIndex, v.Section, v.LimitState, v.CombName,
		float64(v.CF), float64(v.N), float64(v.My), float64(v.Mz), v.Mechanism, v.Flag, nil}
	if len(v.Extras) > 0 {
		o.Extras = make(map[string]float64, len(v.Extras))
		for k, x := range v.Extras {
			o.Extras[k] = float64(x)
		}
	}
	return nil
}

// MarshalResults encodes a table of control variables
func MarshalResults(res []*ControlVars) ([]byte, error) {
	if res == nil {
		res = []*ControlVars{}
	}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, chk.Err("cannot encode verification results:\n%v", err)
	}
	return append(b, '\n'), nil
}

// WriteResults writes the result file
func WriteResults(path string, res []*ControlVars) (err error) {
	b, err := MarshalResults(res)
	if err != nil {
		return
	}
	if err = os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return chk.Err("cannot create directory for %q:\n%v", path, err)
	}
	if err = os.WriteFile(path, b, 0644); err != nil {
		return chk.Err("cannot write verification results:\n%v", err)
	}
	return
}

// ReadResults reads a result file
func ReadResults(path string) (res []*ControlVars, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read verification results:\n%v", err)
	}
	if err = json.Unmarshal(b, &res); err != nil {
		return nil, chk.Err("cannot decode verification results %q:\n%v", path, err)
	}
	return
}
