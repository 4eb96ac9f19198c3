// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements output handling for verification runs
package out

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/verif"
)

// ElemResult holds the worst outcome of the sections of one element for one limit state
type ElemResult struct {
	ElementTag   int                `json:"elementTag"`
	LimitState   string             `json:"limitState"`
	Worst        *verif.ControlVars `json:"worst"`        // section with the largest CF
	Nsections    int                `json:"nSections"`    // number of checked sections
	Nfailed      int                `json:"nFailed"`      // sections with CF > 1 or flagged
	Nundefined   int                `json:"nUndefined"`   // sections without template
	Unverifiable int                `json:"unverifiable"` // sections with controller errors
}

// Summary holds the worst outcomes per element and limit state
type Summary struct {
	Elems  []*ElemResult          `json:"elems"`  // sorted by limit state and element tag
	Worst  map[string]*ElemResult `json:"worst"`  // limit state => element with the largest CF
	Passed bool                   `json:"passed"` // all sections pass
}

// Aggregate returns the worst control variables of every element. Flagged
// sections count as failures; an undefined section never hides a defined one
func Aggregate(res []*verif.ControlVars) (o *Summary) {
	o = &Summary{Worst: make(map[string]*ElemResult), Passed: true}
	type key struct {
		ls  string
		tag int
	}
	elems := make(map[key]*ElemResult)
	for _, cv := range res {
		k := key{cv.LimitState, cv.ElementTag}
		e, ok := elems[k]
		if !ok {
			e = &ElemResult{ElementTag: cv.ElementTag, LimitState: cv.LimitState}
			elems[k] = e
			o.Elems = append(o.Elems, e)
		}
		e.Nsections++
		switch cv.Flag {
		case verif.FlagUndefined:
			e.Nundefined++
		case verif.FlagUnverifiable:
			e.Unverifiable++
		}
		if !cv.OK() {
			e.Nfailed++
			o.Passed = false
		}
		if e.Worst == nil || worse(cv, e.Worst) {
			e.Worst = cv
		}
	}
	sort.Slice(o.Elems, func(i, j int) bool {
		if o.Elems[i].LimitState != o.Elems[j].LimitState {
			return o.Elems[i].LimitState < o.Elems[j].LimitState
		}
		return o.Elems[i].ElementTag < o.Elems[j].ElementTag
	})
	for _, e := range o.Elems {
		w, ok := o.Worst[e.LimitState]
		if !ok || worse(e.Worst, w.Worst) {
			o.Worst[e.LimitState] = e
		}
	}
	return
}

// worse tells whether a governs over b. Ties keep b
func worse(a, b *verif.ControlVars) bool {
	if (a.Flag == verif.FlagUndefined) != (b.Flag == verif.FlagUndefined) {
		return b.Flag == verif.FlagUndefined
	}
	return a.CF > b.CF
}

// LimitStates returns the sorted names of the limit states in the summary
func (o *Summary) LimitStates() (names []string) {
	for name := range o.Worst {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// Table returns a text table with the worst section of each element
func (o *Summary) Table() string {
	var b bytes.Buffer
	io.Ff(&b, "%-22s %6s %8s %-12s %10s %7s  %s\n", "limit state", "elem", "section", "comb", "CF", "failed", "flag")
	for _, e := range o.Elems {
		w := e.Worst
		cf := io.Sf("%10.4f", w.CF)
		if math.IsInf(w.CF, 1) {
			cf = io.Sf("%10s", "+Inf")
		}
		io.Ff(&b, "%-22s %6d %8d %-12s %s %3d/%-3d  %s\n", e.LimitState, e.ElementTag, w.SectionIndex, w.CombName, cf, e.Nfailed, e.Nsections, w.Flag)
	}
	for _, name := range o.LimitStates() {
		w := o.Worst[name]
		io.Ff(&b, "> %s: worst CF = %g at element %d (%s)\n", name, w.Worst.CF, w.ElementTag, w.Worst.CombName)
	}
	return b.String()
}

// Write saves the summary as indented JSON
func (o *Summary) Write(path string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return chk.Err("cannot create directory for summary %q:\n%v", path, err)
	}
	if err = os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return chk.Err("cannot write summary %q:\n%v", path, err)
	}
	return
}
