// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comb

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/ele"
)

// ErrJournalCorruption is returned when a journal is malformed or refers to unknown elements
var ErrJournalCorruption = errors.New("journal corruption")

// ElemForces holds the internal forces of one element for one combination
type ElemForces struct {
	Type           string                  `json:"type"`           // element type; e.g. "beam"
	InternalForces map[int]ele.ForceRecord `json:"internalForces"` // gauss point => record
}

// Gps returns the sorted gauss point indices
func (o *ElemForces) Gps() (gps []int) {
	for gp := range o.InternalForces {
		gps = append(gps, gp)
	}
	sort.Ints(gps)
	return
}

// Journal holds internal forces: combination => element tag => forces
type Journal map[string]map[int]*ElemForces

// Add records the internal forces of an element
func (o Journal) Add(comb string, tag int, typ string, recs []ele.ForceRecord) {
	if _, ok := o[comb]; !ok {
		o[comb] = make(map[int]*ElemForces)
	}
	f := &ElemForces{Type: typ, InternalForces: make(map[int]ele.ForceRecord)}
	for gp, r := range recs {
		f.InternalForces[gp] = r.Clone()
	}
	o[comb][tag] = f
}

// Combinations returns the sorted combination names
func (o Journal) Combinations() (names []string) {
	for n := range o {
		names = append(names, n)
	}
	sort.Strings(names)
	return
}

// Elems returns the sorted element tags of a combination
func (o Journal) Elems(comb string) (tags []int) {
	for t := range o[comb] {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	return
}

// Get returns the record of an element at a gauss point
func (o Journal) Get(comb string, tag, gp int) (r ele.ForceRecord, typ string, ok bool) {
	f, ok := o[comb][tag]
	if !ok {
		return
	}
	r, ok = f.InternalForces[gp]
	return r, f.Type, ok
}

// Check verifies the records. If known is not nil, every element tag must be known
func (o Journal) Check(known func(tag int) bool) error {
	for _, comb := range o.Combinations() {
		if comb == "" {
			return fmt.Errorf("%w: empty combination name", ErrJournalCorruption)
		}
		for _, tag := range o.Elems(comb) {
			f := o[comb][tag]
			if f == nil || f.Type == "" {
				return fmt.Errorf("%w: combination %q: element %d has no type", ErrJournalCorruption, comb, tag)
			}
			if known != nil && !known(tag) {
				return fmt.Errorf("%w: combination %q: unknown element %d", ErrJournalCorruption, comb, tag)
			}
			if len(f.InternalForces) == 0 {
				return fmt.Errorf("%w: combination %q: element %d has no internal forces", ErrJournalCorruption, comb, tag)
			}
			for gp, r := range f.InternalForces {
				if gp < 0 {
					return fmt.Errorf("%w: combination %q: element %d: negative gauss point index %d", ErrJournalCorruption, comb, tag, gp)
				}
				for k, v := range r {
					if math.IsNaN(v) || math.IsInf(v, 0) {
						return fmt.Errorf("%w: combination %q: element %d: %s = %v", ErrJournalCorruption, comb, tag, k, v)
					}
				}
			}
		}
	}
	return nil
}

// Write saves the journal as indented JSON
func (o Journal) Write(path string) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return chk.Err("cannot encode journal:\n%v", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return chk.Err("cannot create directory for journal %q:\n%v", path, err)
	}
	if err = os.WriteFile(path, b, 0644); err != nil {
		return chk.Err("cannot write journal %q:\n%v", path, err)
	}
	return
}

// ParseJournal decodes journal data and checks the records
func ParseJournal(b []byte, known func(tag int) bool) (o Journal, err error) {
	o = make(Journal)
	if err = json.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrJournalCorruption, err)
	}
	if err = o.Check(known); err != nil {
		return nil, err
	}
	return
}

// ReadJournal reads a journal file
func ReadJournal(path string, known func(tag int) bool) (o Journal, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, chk.Err("cannot read journal %q:\n%v", path, err)
	}
	o, err = ParseJournal(b, known)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return
}
