// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package comb implements load combinations, the internal-force journal, the
// checkpoint store and the driver that solves sequences of combinations
package comb

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/inp"
)

// Term is a factored load pattern
type Term struct {
	Factor  float64
	Pattern string
}

// Combination is a named weighted sum of load patterns
type Combination struct {
	Name     string // name; e.g. "ULS01"
	Expr     string // expression; e.g. "1.35*G + 1.5*SC"
	Terms    []Term // parsed terms; one per pattern
	Previous string // ancestor whose state is restored before solving
	Tag      int    // tag used by the checkpoint store (1-based)
}

// Parse parses expressions such as "1.35*G + 1.5*SC - 0.9*NV" or "G+Q".
// Repeated patterns are summed
func Parse(expr string) (terms []Term, err error) {
	s := strings.TrimSpace(expr)
	if s == "" {
		return nil, chk.Err("empty combination expression")
	}
	idx := make(map[string]int)
	sign := 1.0
	first := true
	for len(s) > 0 {

		// sign
		s = strings.TrimSpace(s)
		switch {
		case strings.HasPrefix(s, "+"):
			sign, s = 1, s[1:]
		case strings.HasPrefix(s, "-"):
			sign, s = -1, s[1:]
		default:
			if !first {
				return nil, chk.Err("combination %q: missing '+' or '-' before %q", expr, s)
			}
			sign = 1
		}
		first = false

		// term
		end := strings.IndexAny(s, "+-")
		for end > 0 && (s[end-1] == 'e' || s[end-1] == 'E') && isNumber(strings.TrimSpace(s[:end-1])) {
			next := strings.IndexAny(s[end+1:], "+-")
			if next < 0 {
				end = -1
				break
			}
			end += 1 + next
		}
		item := s
		if end >= 0 {
			item, s = s[:end], s[end:]
		} else {
			s = ""
		}
		factor, name, e := parseTerm(item)
		if e != nil {
			return nil, chk.Err("combination %q: %v", expr, e)
		}
		if k, ok := idx[name]; ok {
			terms[k].Factor += sign * factor
			continue
		}
		idx[name] = len(terms)
		terms = append(terms, Term{sign * factor, name})
	}
	return
}

// parseTerm parses "1.35*G", "1.35 G" or "G"
func parseTerm(item string) (factor float64, name string, err error) {
	item = strings.TrimSpace(item)
	factor = 1
	if i := strings.Index(item, "*"); i >= 0 {
		if factor, err = strconv.ParseFloat(strings.TrimSpace(item[:i]), 64); err != nil {
			return 0, "", chk.Err("invalid factor in %q", item)
		}
		name = strings.TrimSpace(item[i+1:])
	} else if f := strings.Fields(item); len(f) == 2 {
		if factor, err = strconv.ParseFloat(f[0], 64); err != nil {
			return 0, "", chk.Err("invalid factor in %q", item)
		}
		name = f[1]
	} else {
		name = item
	}
	if !isName(name) {
		return 0, "", chk.Err("invalid load pattern name %q", name)
	}
	if math.IsNaN(factor) || math.IsInf(factor, 0) {
		return 0, "", chk.Err("invalid factor in %q", item)
	}
	return
}

// isName tells whether s is a valid pattern name
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && (unicode.IsDigit(r) || r == '.')) {
			continue
		}
		return false
	}
	return true
}

// isNumber tells whether s is a number mantissa such as "1.5" (used to
// accept exponents like 1.5e-1)
func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// Factor returns the factor of a pattern; zero if absent
func (o *Combination) Factor(pattern string) float64 {
	for _, t := range o.Terms {
		if t.Pattern == pattern {
			return t.Factor
		}
	}
	return 0
}

// String returns the normalised expression
func (o *Combination) String() string {
	return TermsString(o.Terms)
}

// TermsString formats terms as "1.35*G + 1.5*SC"
func TermsString(terms []Term) (l string) {
	for i, t := range terms {
		f := t.Factor
		switch {
		case i == 0 && f < 0:
			l += "-"
			f = -f
		case i > 0 && f < 0:
			l += " - "
			f = -f
		case i > 0:
			l += " + "
		}
		l += io.Sf("%g*%s", f, t.Pattern)
	}
	return
}

// Delta returns the terms to add and to remove to go from prev to cur.
// A pattern whose factor changes is removed and added again
func Delta(prev, cur []Term) (added, dropped []Term) {
	find := func(terms []Term, name string) (float64, bool) {
		for _, t := range terms {
			if t.Pattern == name {
				return t.Factor, true
			}
		}
		return 0, false
	}
	for _, t := range prev {
		if f, ok := find(cur, t.Pattern); !ok || f != t.Factor {
			dropped = append(dropped, t)
		}
	}
	for _, t := range cur {
		if f, ok := find(prev, t.Pattern); !ok || f != t.Factor {
			added = append(added, t)
		}
	}
	return
}

// Increments returns the factors to add to prev to obtain cur, one term per
// pattern whose factor changes
func Increments(prev, cur []Term) (res []Term) {
	seen := make(map[string]bool)
	for _, t := range cur {
		seen[t.Pattern] = true
		f := t.Factor
		for _, p := range prev {
			if p.Pattern == t.Pattern {
				f -= p.Factor
			}
		}
		if f != 0 {
			res = append(res, Term{Pattern: t.Pattern, Factor: f})
		}
	}
	for _, p := range prev {
		if !seen[p.Pattern] {
			res = append(res, Term{Pattern: p.Pattern, Factor: -p.Factor})
		}
	}
	return
}

// Set holds the combinations of a model and their lineage
type Set struct {
	combs  []*Combination
	byName map[string]*Combination
}

// NewSet parses combinations. An ancestor must be defined before its descendants
func NewSet(data []inp.CombData) (o *Set, err error) {
	o = &Set{byName: make(map[string]*Combination)}
	for _, d := range data {
		if err = o.Add(d.Name, d.Expr, d.Previous); err != nil {
			return nil, err
		}
	}
	return
}

// Add appends a combination
func (o *Set) Add(name, expr, previous string) (err error) {
	if _, ok := o.byName[name]; ok {
		return chk.Err("combination %q is defined twice", name)
	}
	if previous != "" {
		if _, ok := o.byName[previous]; !ok {
			return chk.Err("combination %q: previous combination %q must be defined before", name, previous)
		}
	}
	terms, err := Parse(expr)
	if err != nil {
		return
	}
	c := &Combination{Name: name, Expr: expr, Terms: terms, Previous: previous, Tag: len(o.combs) + 1}
	o.combs = append(o.combs, c)
	o.byName[name] = c
	return
}

// Get returns a combination by name
func (o *Set) Get(name string) (c *Combination, err error) {
	c, ok := o.byName[name]
	if !ok {
		return nil, chk.Err("cannot find combination %q", name)
	}
	return
}

// All returns all combinations in definition order
func (o *Set) All() []*Combination { return append([]*Combination{}, o.combs...) }

// Select returns the named combinations in definition order; all if names is empty
func (o *Set) Select(names []string) (res []*Combination, err error) {
	if len(names) == 0 {
		return o.All(), nil
	}
	for _, n := range names {
		if _, err = o.Get(n); err != nil {
			return nil, err
		}
	}
	want := make(map[string]bool)
	for _, n := range names {
		want[n] = true
	}
	for _, c := range o.combs {
		if want[c.Name] {
			res = append(res, c)
		}
	}
	return
}

// Lineage returns the ancestors of a combination, the closest first
func (o *Set) Lineage(name string) (res []*Combination, err error) {
	c, err := o.Get(name)
	if err != nil {
		return
	}
	for c.Previous != "" {
		c = o.byName[c.Previous]
		res = append(res, c)
	}
	return
}

// Patterns returns the sorted names of all patterns used by the combinations
func (o *Set) Patterns() (names []string) {
	seen := make(map[string]bool)
	for _, c := range o.combs {
		for _, t := range c.Terms {
			if !seen[t.Pattern] {
				seen[t.Pattern] = true
				names = append(names, t.Pattern)
			}
		}
	}
	sort.Strings(names)
	return
}
