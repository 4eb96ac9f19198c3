// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"time"

	gio "github.com/cpmech/gosl/io"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/engthiago/xc-sub000/comb"
	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/sec"
)

var tracer = otel.Tracer("rcverif.verif")

// Recorder receives the outcome of every checked section
type Recorder interface {
	Observe(limitState string, cv *ControlVars, elapsed time.Duration)
}

// Verifier checks the sections of a distribution against the internal
// forces of a journal. Each (element, section) pair owns its phantom model,
// so pairs are checked concurrently
type Verifier struct {
	Cfg      *inp.Config  // configuration with materials, sections and distribution
	Log      *slog.Logger // structured records; discarded if nil
	Workers  int          // maximum number of concurrent phantom models; number of CPUs if zero
	Recorder Recorder     // metrics; may be nil
	Verbose  bool         // show messages
}

// NewVerifier returns a new verifier
func NewVerifier(cfg *inp.Config, log *slog.Logger) *Verifier {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Verifier{Cfg: cfg, Log: log, Workers: cfg.Workers}
}

// task identifies one (element, section) pair
type task struct {
	tag   int            // element tag
	idx   int            // section index
	gp    int            // gauss point of the records
	dir   int            // shells: 1 or 2; 0 for members
	dim   int            // 1: beam, 2: shell, 3: solid; 0 if not in the distribution
	rc    *sec.RCSection // nil if undefined
	combs []string       // combinations holding records of the element
}

// tasks lists the pairs to check in element and section order
func (o *Verifier) tasks(j comb.Journal) (res []*task) {
	gps := make(map[int]map[int][]string)
	for _, c := range j.Combinations() {
		for _, tag := range j.Elems(c) {
			if gps[tag] == nil {
				gps[tag] = make(map[int][]string)
			}
			for _, gp := range j[c][tag].Gps() {
				gps[tag][gp] = append(gps[tag][gp], c)
			}
		}
	}
	tags := make([]int, 0, len(gps))
	for tag := range gps {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	for _, tag := range tags {
		dim, _ := o.Cfg.Dist.Dim(tag)
		pts := make([]int, 0, len(gps[tag]))
		for gp := range gps[tag] {
			pts = append(pts, gp)
		}
		sort.Ints(pts)
		for _, gp := range pts {
			if dim != 2 {
				t := &task{tag: tag, idx: gp, gp: gp, dim: dim, combs: gps[tag][gp]}
				t.rc, _ = o.Cfg.Dist.Lookup(tag, gp)
				res = append(res, t)
				continue
			}
			for d := 1; d <= 2; d++ {
				t := &task{tag: tag, idx: 2*gp + d - 1, gp: gp, dir: d, dim: dim, combs: gps[tag][gp]}
				t.rc, _ = o.Cfg.Dist.Lookup(tag, t.idx)
				res = append(res, t)
			}
		}
	}
	return
}

// forces returns the resultants applied on the section of a task. The
// shell direction k maps to N = nk, Vz = qk3 and My = -mk so that
// positive shell moments stretch the -z face; in 2D, Vy = qk3 and Mz = mk
func (o *Verifier) forces(ls *inp.LimitStateData, t *task, r ele.ForceRecord) ele.ForceRecord {
	if t.dim != 2 {
		return r
	}
	wa := ele.WoodArmer(r, ls.WoodArmerAlsoForAxialForces)
	n, m, q := wa[gio.Sf("n%d", t.dir)], wa[gio.Sf("m%d", t.dir)], wa[gio.Sf("q%d3", t.dir)]
	if o.Cfg.Ndim == 2 {
		return ele.ForceRecord{"N": n, "Vy": q, "Mz": m}
	}
	return ele.ForceRecord{"N": n, "Vz": q, "My": -m}
}

// Check verifies all sections found in the journal against one limit
// state. Results are sorted by element tag and section index
func (o *Verifier) Check(ctx context.Context, ls *inp.LimitStateData, j comb.Journal) (res []*ControlVars, err error) {
	ctx, span := tracer.Start(ctx, "verif.Check",
		trace.WithAttributes(
			attribute.String("limitState", ls.Name),
			attribute.String("controller", ls.Controller),
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

	ctrl, err := NewController(ls)
	if err != nil {
		return
	}
	proc, err := ls.Procedure.Get(ls.DefaultProcedure())
	if err != nil {
		return
	}
	tasks := o.tasks(j)
	span.SetAttributes(attribute.Int("sections", len(tasks)))
	res = make([]*ControlVars, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	g.SetLimit(workers)
	for i, t := range tasks {
		g.Go(func() (e error) {
			start := time.Now()
			res[i], e = o.checkTask(gctx, ls, ctrl, proc, t, j)
			if e != nil {
				return fmt.Errorf("element %d, section %d: %w", t.tag, t.idx, e)
			}
			if o.Recorder != nil {
				o.Recorder.Observe(ls.Name, res[i], time.Since(start))
			}
			return
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	if o.Verbose {
		nfail := 0
		for _, cv := range res {
			if !cv.OK() {
				nfail++
			}
		}
		gio.Pf("> %s: %d sections checked; %d not verified\n", ls.Name, len(res), nfail)
	}
	return
}

// checkTask runs the phantom model of one pair over all combinations and
// keeps the worst control variables. Ties keep the first combination
func (o *Verifier) checkTask(ctx context.Context, ls *inp.LimitStateData, ctrl Controller, proc *inp.ProcedureData, t *task, j comb.Journal) (cv *ControlVars, err error) {
	cv = &ControlVars{ElementTag: t.tag, SectionIndex: t.idx, LimitState: ls.Name}
	if t.rc == nil {
		cv.Flag = FlagUndefined
		if len(t.combs) > 0 {
			cv.CombName = t.combs[0]
		}
		o.Log.Warn("section undefined", "err", ErrSectionUndefined, "limitState", ls.Name, "elem", t.tag, "section", t.idx)
		return cv, nil
	}
	cv.Section = t.rc.Name
	if t.dim == 3 {
		return o.unverifiable(cv, ls, controllerErr("element %d: solid elements cannot be checked with RC sections", t.tag)), nil
	}

	// phantom model
	c, s, err := o.Cfg.MatDb.Pair(t.rc.Concrete, t.rc.Steel)
	if err != nil {
		return
	}
	fs, err := o.Cfg.Realize(t.rc, o.Cfg.Ndim)
	if err != nil {
		return
	}
	ph, err := NewPhantom(fs, proc)
	if err != nil {
		return
	}
	sect := &Section{RC: t.rc, Fiber: fs, Concrete: c.Concrete, Steel: s.Steel}

	// combinations
	var best *ControlVars
	for _, name := range t.combs {
		r, _, _ := j.Get(name, t.tag, t.gp)
		f := o.forces(ls, t, r)
		e := ph.Solve(ctx, f)
		switch {
		case e == nil:
			sect.Solved = true
		case errors.Is(e, fem.ErrCancelled), errors.Is(e, fem.ErrRedundantSupport):
			return nil, e
		case errors.Is(e, fem.ErrConvergence), errors.Is(e, fem.ErrMaterialDiverged), errors.Is(e, fem.ErrSingularSystem):
			sect.Solved = false
			o.Log.Debug("phantom model did not converge", "limitState", ls.Name, "elem", t.tag, "section", t.idx, "comb", name, "err", e)
		default:
			return nil, e
		}
		res, e := ctrl.CheckSection(sect, f)
		if e != nil {
			if !errors.Is(e, ErrController) {
				return nil, e
			}
			res = ControlVars{}
			res.CF, res.Flag = math.Inf(1), FlagUnverifiable
			o.Log.Warn("controller error", "err", e, "limitState", ls.Name, "elem", t.tag, "section", t.idx, "comb", name)
		}
		res.CombName = name
		res.N, res.My, res.Mz = f["N"], f["My"], f["Mz"]
		if best == nil || res.CF > best.CF {
			best = &res
		}
	}
	if best == nil {
		return cv, nil
	}
	best.ElementTag, best.SectionIndex, best.Section, best.LimitState = cv.ElementTag, cv.SectionIndex, cv.Section, cv.LimitState
	return best, nil
}

// unverifiable flags a pair that cannot be checked
func (o *Verifier) unverifiable(cv *ControlVars, ls *inp.LimitStateData, e error) *ControlVars {
	cv.CF, cv.Flag = math.Inf(1), FlagUnverifiable
	o.Log.Warn("controller error", "err", e, "limitState", ls.Name, "elem", cv.ElementTag, "section", cv.SectionIndex)
	return cv
}

// Run reads the journal of each named limit state (all if names is empty)
// and checks it. Results of all limit states are concatenated
func (o *Verifier) Run(ctx context.Context, names []string) (res []*ControlVars, err error) {
	if len(names) == 0 {
		for _, ls := range o.Cfg.LimitStates {
			names = append(names, ls.Name)
		}
	}
	var known func(tag int) bool
	if o.Cfg.Model != nil {
		tags := make(map[int]bool)
		for _, e := range o.Cfg.Model.Elements {
			tags[e.Tag] = true
		}
		known = func(tag int) bool { return tags[tag] }
	}
	for _, name := range names {
		ls, e := o.Cfg.LimitState(name)
		if e != nil {
			return nil, e
		}
		j, e := comb.ReadJournal(o.Cfg.Path(ls.Journal), known)
		if e != nil {
			return nil, fmt.Errorf("limit state %q: %w", name, e)
		}
		r, e := o.Check(ctx, ls, j)
		if e != nil {
			return nil, fmt.Errorf("limit state %q: %w", name, e)
		}
		res = append(res, r...)
	}
	return
}
