// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cpmech/gosl/chk"
	gio "github.com/cpmech/gosl/io"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/inp"
)

var tracer = otel.Tracer("rcverif.comb")

// DriverConfig holds the options of a combination driver
type DriverConfig struct {
	Store   *Store       // checkpoint store; an in-memory store is opened if nil
	Logger  *slog.Logger // structured records; discarded if nil
	Elems   []int        // elements whose forces are recorded; all if empty
	Verbose bool         // show messages
}

// DriverState holds the state of the combination loop
type DriverState struct {
	Index       int           // index of the last solved combination in the selection
	Comb        *Combination  // last solved combination
	Restored    string        // ancestor restored before solving; empty if solved from the virgin state
	FromScratch bool          // restoring failed and the combination was solved from the virgin state
	Added       int           // number of terms added to the restored loads
	Dropped     int           // number of terms removed from the restored loads
	Nits        int           // iterations spent on the combination
	Elapsed     time.Duration // time spent on the combination
}

// Driver solves sequences of combinations on one domain. Each combination
// starts from the closest solved ancestor in its lineage
type Driver struct {

	// input
	Dom     *fem.Domain   // primary model
	Ana     *fem.Analysis // solution procedure
	Set     *Set          // combinations
	Store   *Store        // checkpoint store
	Log     *slog.Logger  // structured records
	Elems   []int         // elements whose forces are recorded; all if empty
	Verbose bool          // show messages

	// results
	State   DriverState // state of the loop
	Journal Journal     // internal forces of the solved combinations

	// statistics
	Nsolved   int // number of solved combinations
	Nrestored int // number of combinations started from an ancestor
	Nscratch  int // number of fallbacks to the virgin state

	// auxiliary
	lc       *fem.LoadControl
	combs    []*Combination
	next     int
	err      error
	ownStore bool
}

// NewDriver allocates a driver. The procedure must use load control
func NewDriver(dom *fem.Domain, proc *inp.ProcedureData, set *Set, cfg DriverConfig) (o *Driver, err error) {
	if set == nil {
		return nil, chk.Err("combination driver requires a set of combinations")
	}
	a, err := fem.NewAnalysis(dom, proc)
	if err != nil {
		return
	}
	lc, ok := a.Integ.(*fem.LoadControl)
	if !ok {
		return nil, chk.Err("combination driver requires the load_control integrator; %q given", a.Integ.Name())
	}
	o = &Driver{Dom: dom, Ana: a, Set: set, Store: cfg.Store, Log: cfg.Logger, Elems: cfg.Elems, Verbose: cfg.Verbose, lc: lc}
	if o.Log == nil {
		o.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.Store == nil {
		if o.Store, err = OpenStore(StoreConfig{InMemory: true, Logger: cfg.Logger}); err != nil {
			return nil, err
		}
		o.ownStore = true
	}
	o.Journal = make(Journal)
	return
}

// Close releases the store if the driver opened it
func (o *Driver) Close() error {
	if o.ownStore {
		return o.Store.Close()
	}
	return nil
}

// Start selects the combinations to solve; all if names is empty
func (o *Driver) Start(names []string) (err error) {
	if o.combs, err = o.Set.Select(names); err != nil {
		return
	}
	o.next, o.err = 0, nil
	o.State = DriverState{Index: -1}
	return
}

// Next solves the next combination and returns true. It returns false when
// all combinations are solved or an error occurred; see Err
func (o *Driver) Next(ctx context.Context) bool {
	if o.err != nil || o.next >= len(o.combs) {
		return false
	}
	if e := ctx.Err(); e != nil {
		o.err = fmt.Errorf("%w: before combination %q: %v", fem.ErrCancelled, o.combs[o.next].Name, e)
		o.Log.Warn("combination loop cancelled", "session", o.Store.Session().String(), "next", o.combs[o.next].Name)
		return false
	}
	c := o.combs[o.next]
	if o.err = o.solve(ctx, c); o.err != nil {
		o.err = fmt.Errorf("combination %q: %w", c.Name, o.err)
		return false
	}
	o.State.Index = o.next
	o.next++
	return true
}

// Err returns the error that stopped the loop
func (o *Driver) Err() error { return o.err }

// Run solves the selected combinations and returns the journal
func (o *Driver) Run(ctx context.Context, names []string) (j Journal, err error) {
	if err = o.Start(names); err != nil {
		return
	}
	for o.Next(ctx) {
	}
	if err = o.Err(); err != nil {
		return
	}
	if o.Verbose {
		gio.PfGreen("> %d combinations solved; %d from ancestors; %d fallbacks\n", o.Nsolved, o.Nrestored, o.Nscratch)
	}
	return o.Journal, nil
}

// ancestor returns the closest ancestor of c with a saved state
func (o *Driver) ancestor(c *Combination) (*Combination, error) {
	lineage, err := o.Set.Lineage(c.Name)
	if err != nil {
		return nil, err
	}
	for _, a := range lineage {
		if o.Store.Has(Key(a.Tag, StageFinal)) {
			return a, nil
		}
	}
	return nil, nil
}

// solve solves one combination
func (o *Driver) solve(ctx context.Context, c *Combination) (err error) {
	ctx, span := tracer.Start(ctx, "comb.Solve",
		trace.WithAttributes(
			attribute.String("combination", c.Name),
			attribute.Int("tag", c.Tag),
		))
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return
		}
		span.SetStatus(codes.Ok, "")
	}()

	start := time.Now()
	nits := o.Ana.Nits
	o.State = DriverState{Index: o.State.Index, Comb: c}

	// reset the current load case
	o.Dom.ClearActive()

	// restore the closest ancestor; its loads are held constant and the
	// increments are applied by load control from there
	base, err := o.ancestor(c)
	if err != nil {
		return
	}
	if base != nil {
		if err = o.restore(c, base); err != nil {
			return
		}
		span.AddEvent("restored", trace.WithAttributes(attribute.String("ancestor", base.Name)))
	} else {
		if err = o.virgin(c); err != nil {
			return
		}
	}

	// solve
	err = o.Ana.Analyze(ctx, 1)
	if err != nil && base != nil && !errors.Is(err, fem.ErrCancelled) {
		o.Log.Warn("cannot solve from ancestor; restarting from the virgin state",
			"session", o.Store.Session().String(), "combination", c.Name, "ancestor", base.Name, "error", err)
		if err = o.virgin(c); err != nil {
			return
		}
		o.State.FromScratch = true
		o.Nscratch++
		err = o.Ana.Analyze(ctx, 1)
	}
	if err != nil {
		return
	}

	// save state
	if err = o.Store.Save(o.Dom, Key(c.Tag, StageFinal)); err != nil {
		return
	}

	// record internal forces
	if err = o.record(c); err != nil {
		return
	}

	// remove loads
	o.Dom.ClearActive()

	// statistics
	o.Nsolved++
	if base != nil && !o.State.FromScratch {
		o.Nrestored++
	}
	o.State.Nits = o.Ana.Nits - nits
	o.State.Elapsed = time.Since(start)
	o.Log.Info("combination solved",
		"session", o.Store.Session().String(),
		"combination", c.Name,
		"restored", o.State.Restored,
		"fromScratch", o.State.FromScratch,
		"added", o.State.Added,
		"dropped", o.State.Dropped,
		"iterations", o.State.Nits,
		"elapsed", o.State.Elapsed)
	if o.Verbose {
		gio.Pf("> %-12s %s", c.Name, c.String())
		if o.State.Restored != "" && !o.State.FromScratch {
			gio.Pf(" (from %s)", o.State.Restored)
		}
		gio.Pf("\n")
	}
	return
}

// restore sets the state of an ancestor and activates the load increments
// of c with respect to it
func (o *Driver) restore(c, base *Combination) (err error) {
	if err = o.Store.Restore(o.Dom, Key(base.Tag, StageFinal)); err != nil {
		return
	}
	for _, t := range base.Terms {
		if err = o.Dom.AddPatternToDomain(t.Pattern, t.Factor); err != nil {
			return
		}
	}
	if err = o.Dom.SetLoadConst(); err != nil {
		return
	}
	for _, t := range Increments(base.Terms, c.Terms) {
		if err = o.Dom.AddPatternToDomain(t.Pattern, t.Factor); err != nil {
			return
		}
	}
	added, dropped := Delta(base.Terms, c.Terms)
	o.State.Restored = base.Name
	o.State.Added, o.State.Dropped = len(added), len(dropped)
	o.lc.Dλ = 1
	return
}

// virgin returns the domain to the virgin state and activates the loads of c
func (o *Driver) virgin(c *Combination) (err error) {
	o.Dom.ClearActive()
	o.Dom.RevertToStart()
	for _, t := range c.Terms {
		if err = o.Dom.AddPatternToDomain(t.Pattern, t.Factor); err != nil {
			return
		}
	}
	o.State.Added = len(c.Terms)
	o.lc.Dλ = 1
	return
}

// record adds the internal forces of the elements to the journal
func (o *Driver) record(c *Combination) (err error) {
	want := make(map[int]bool)
	for _, t := range o.Elems {
		want[t] = true
	}
	for _, e := range o.Dom.Elems {
		if len(want) > 0 && !want[e.Id()] {
			continue
		}
		p, ok := e.(ele.WithInternalForces)
		if !ok {
			continue
		}
		recs, err := p.InternalForces()
		if err != nil {
			return chk.Err("element %d: cannot compute internal forces:\n%v", e.Id(), err)
		}
		o.Journal.Add(c.Name, e.Id(), e.Type(), recs)
	}
	return
}
