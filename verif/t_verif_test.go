// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package verif

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/engthiago/xc-sub000/comb"
	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/fem"
)

// cfgCrack describes a 1.7×1.1 beam with 13⌀25 bars on the -z face
const cfgCrack = `
materials:
  - name: conc
    catalogue: HA-25
    model: concrete02
    prms: [{n: fpc, v: 25e6}, {n: epsc0, v: 0.002}, {n: fpcu, v: 25e6}, {n: epscu, v: 0.0035}, {n: ft, v: 0}]
  - name: steel
    catalogue: B-400S
    model: steel02
    prms: [{n: E, v: 200e9}, {n: fy, v: 400e6}, {n: b, v: 0.01}]
sections:
  - name: beam
    concrete: conc
    steel: steel
    shape: rectangle
    b: 1.7
    h: 1.1
    nDivIJ: 10
    nDivJK: 60
    negRows: [{diam: 0.025, nBars: 13, width: 1.365, cover: 0.02}]
distribution:
  - {elem: 1, dim: 1, sections: [beam]}
limitstates:
  - name: SLS_crack
    controller: crack_sls
    journal: sls.json
    procedure:
      overrides:
        test: {maxit: 50}
`

// cfgDriver describes beams and a shell checked against normal stresses
const cfgDriver = cfgRC + `
workers: 3
distribution:
  - {elem: 1, dim: 1, sections: [s1, s1]}
  - {elem: 2, dim: 2, sections: [s1, s1]}
  - {elem: 3, dim: 3, sections: [s1]}
limitstates:
  - name: ULS_normal
    controller: normal_stresses_uls
    journal: uls.json
    procedure:
      overrides:
        test: {maxit: 50}
`

// driverJournal returns the internal forces checked by the driver tests
func driverJournal() comb.Journal {
	j := make(comb.Journal)
	for i, name := range []string{"ULS01", "ULS02"} {
		α := float64(i + 1)
		j.Add(name, 1, "beam", []ele.ForceRecord{
			{"N": -100e3 * α, "Vy": 0, "Vz": 10e3, "T": 0, "My": 20e3 * α, "Mz": 5e3 * α},
			{"N": -100e3 * α, "Vy": 0, "Vz": 10e3, "T": 0, "My": -10e3 * α, "Mz": 0},
		})
		j.Add(name, 2, "plate", []ele.ForceRecord{
			{"n1": -50e3, "n2": -20e3, "n12": 1e3, "m1": 10e3, "m2": -4e3, "m12": 2e3, "q13": 5e3, "q23": 1e3},
		})
		j.Add(name, 3, "brick", []ele.ForceRecord{{"N": 1}})
		j.Add(name, 9, "beam", []ele.ForceRecord{{"N": -1e3}, {"N": -2e3}})
	}
	return j
}

// recorder counts observations
type recorder struct {
	mu sync.Mutex
	n  map[string]int
}

func (o *recorder) Observe(limitState string, cv *ControlVars, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.n == nil {
		o.n = make(map[string]int)
	}
	o.n[limitState]++
}

func Test_verif01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("verif01. normal stresses of beams and shells")

	cfg := newConfig(tst, cfgDriver)
	ls, err := cfg.LimitState("ULS_normal")
	if err != nil {
		tst.Fatalf("LimitState failed:\n%v", err)
	}
	rec := new(recorder)
	v := NewVerifier(cfg, nil)
	v.Recorder = rec
	v.Verbose = chk.Verbose
	res, err := v.Check(context.Background(), ls, driverJournal())
	if err != nil {
		tst.Fatalf("Check failed:\n%v", err)
	}
	for _, cv := range res {
		io.Pforan("%d/%d %-8s CF=%8.5f N=%g My=%g Mz=%g %s\n", cv.ElementTag, cv.SectionIndex, cv.CombName, cv.CF, cv.N, cv.My, cv.Mz, cv.Flag)
	}

	// elements 1 and 2 have two sections each; 3 is a solid; 9 is not distributed
	chk.IntAssert(len(res), 7)
	tags, idx := make([]int, len(res)), make([]int, len(res))
	for i, cv := range res {
		tags[i], idx[i] = cv.ElementTag, cv.SectionIndex
	}
	chk.Ints(tst, "tags", tags, []int{1, 1, 2, 2, 3, 9, 9})
	chk.Ints(tst, "sections", idx, []int{0, 1, 0, 1, 0, 0, 1})
	chk.IntAssert(rec.n["ULS_normal"], 7)

	// the doubled combination governs the beam
	for _, cv := range res[:2] {
		chk.String(tst, cv.CombName, "ULS02")
		chk.String(tst, cv.Section, "s1")
		if cv.CF <= 0 || cv.CF >= 1 || cv.Flag != "" {
			tst.Errorf("beam section should pass with CF > 0; got %v (%s)\n", cv.CF, cv.Flag)
			return
		}
	}
	chk.Float64(tst, "N", 1e-15, res[0].N, -200e3)
	chk.Float64(tst, "My", 1e-15, res[0].My, 40e3)
	chk.Float64(tst, "Mz", 1e-15, res[0].Mz, 10e3)

	// shell directions after Wood-Armer
	chk.Float64(tst, "N1", 1e-15, res[2].N, -50e3)
	chk.Float64(tst, "My1", 1e-15, res[2].My, -12e3)
	chk.Float64(tst, "N2", 1e-15, res[3].N, -20e3)
	chk.Float64(tst, "My2", 1e-15, res[3].My, 6e3)

	// solid and undefined sections
	chk.String(tst, res[4].Flag, FlagUnverifiable)
	if !math.IsInf(res[4].CF, 1) {
		tst.Errorf("solid element should have CF = +Inf\n")
		return
	}
	for _, cv := range res[5:] {
		chk.String(tst, cv.Flag, FlagUndefined)
		chk.Float64(tst, "CF", 1e-15, cv.CF, 0)
		if cv.OK() {
			tst.Errorf("undefined section should not pass\n")
			return
		}
	}
}

func Test_verif02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("verif02. idempotence")

	cfg := newConfig(tst, cfgDriver)
	ls, _ := cfg.LimitState("ULS_normal")
	j := driverJournal()
	var prev []byte
	for i, workers := range []int{1, 4, 4} {
		v := NewVerifier(cfg, nil)
		v.Workers = workers
		res, err := v.Check(context.Background(), ls, j)
		if err != nil {
			tst.Fatalf("Check failed:\n%v", err)
		}
		b, err := MarshalResults(res)
		if err != nil {
			tst.Fatalf("MarshalResults failed:\n%v", err)
		}
		if i > 0 && !bytes.Equal(b, prev) {
			tst.Errorf("run %d differs from the previous one:\n%s\n%s\n", i, prev, b)
			return
		}
		prev = b
	}
}

func Test_verif03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("verif03. journals from files and cancellation")

	cfg := newConfig(tst, cfgDriver)
	v := NewVerifier(cfg, nil)

	// journal file
	if err := driverJournal().Write(cfg.Path("uls.json")); err != nil {
		tst.Fatalf("Write failed:\n%v", err)
	}
	res, err := v.Run(context.Background(), nil)
	if err != nil {
		tst.Fatalf("Run failed:\n%v", err)
	}
	chk.IntAssert(len(res), 7)
	fn := filepath.Join(tst.TempDir(), "out", "res.json")
	if err = WriteResults(fn, res); err != nil {
		tst.Fatalf("WriteResults failed:\n%v", err)
	}
	back, err := ReadResults(fn)
	if err != nil {
		tst.Fatalf("ReadResults failed:\n%v", err)
	}
	chk.IntAssert(len(back), len(res))
	chk.Float64(tst, "CF", 1e-15, back[0].CF, res[0].CF)
	if !math.IsInf(back[4].CF, 1) {
		tst.Errorf("+Inf was not read back\n")
		return
	}

	// unknown limit state
	if _, err = v.Run(context.Background(), []string{"ELU"}); err == nil {
		tst.Errorf("unknown limit state should have failed\n")
		return
	}

	// corrupted journal
	if err = os.WriteFile(cfg.Path("uls.json"), []byte(`{"ULS01": {"1": {"internalForces": {}}}}`), 0644); err != nil {
		tst.Fatalf("cannot write file: %v", err)
	}
	if _, err = v.Run(context.Background(), nil); !errors.Is(err, comb.ErrJournalCorruption) {
		tst.Errorf("corrupted journal should fail with ErrJournalCorruption; got %v\n", err)
		return
	}

	// cancelled context
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ls, _ := cfg.LimitState("ULS_normal")
	if _, err = v.Check(ctx, ls, driverJournal()); !errors.Is(err, fem.ErrCancelled) {
		tst.Errorf("cancelled check should fail with ErrCancelled; got %v\n", err)
	}
}

func Test_crack01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("crack01. crack width of a 1.7×1.1 beam with 13⌀25 bars")

	cfg := newConfig(tst, cfgCrack)
	ls, err := cfg.LimitState("SLS_crack")
	if err != nil {
		tst.Fatalf("LimitState failed:\n%v", err)
	}
	j := make(comb.Journal)
	j.Add("SLS01", 1, "beam", []ele.ForceRecord{{"N": 0, "My": -195.3 * 9810, "Mz": 0}})
	j.Add("SLS02", 1, "beam", []ele.ForceRecord{{"N": 0, "My": -50e3, "Mz": 0}})
	res, err := NewVerifier(cfg, nil).Check(context.Background(), ls, j)
	if err != nil {
		tst.Fatalf("Check failed:\n%v", err)
	}
	chk.IntAssert(len(res), 1)
	cv := res[0]
	io.Pforan("CF = %v\n", cv.CF)
	for _, key := range []string{"wk", "sm", "epsSm", "sigmaS", "sigmaSr", "s", "c", "k1", "AcEff"} {
		io.Pforan("%8s = %v\n", key, cv.Extras[key])
	}
	chk.String(tst, cv.CombName, "SLS01")
	chk.Float64(tst, "wk", 0.1*0.3e-3, cv.Extras["wk"], 0.3e-3)
	chk.Float64(tst, "s", 0.05*0.105, cv.Extras["s"], 0.105)
	chk.Float64(tst, "c", 1e-15, cv.Extras["c"], 0.02)
	chk.Float64(tst, "k1", 0.02, cv.Extras["k1"], 0.125)
	chk.Float64(tst, "CF", 1e-12, cv.CF, cv.Extras["wk"]/0.3e-3)
	chk.Float64(tst, "face", 1e-15, cv.Extras["face"], -1)
}

func Test_crack02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("crack02. uncracked and compressed sections")

	cfg := newConfig(tst, cfgCrack)
	s := newSection(tst, cfg, "beam", 3)
	p := newProc(tst, "plain_newton_raphson")
	p.Test.MaxIt = 50
	ph, err := NewPhantom(s.Fiber, p)
	if err != nil {
		tst.Fatalf("NewPhantom failed:\n%v", err)
	}
	ctrl := &Crack{Wmax: 0.3e-3, K2: 0.5, Beta: 1.7}
	chk.String(tst, ctrl.Label(), "crack_sls")

	// small moment: the gross section does not reach fctm
	f := ele.ForceRecord{"My": -50e3}
	if err = ph.Solve(context.Background(), f); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	s.Solved = true
	cv, err := ctrl.CheckSection(s, f)
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF", 1e-15, cv.CF, 0)
	if cv.Extras["sigmaCt"] <= 0 || cv.Extras["sigmaCt"] > s.Concrete.Fctm {
		tst.Errorf("σct should be positive and below fctm; got %v\n", cv.Extras["sigmaCt"])
		return
	}

	// compression only
	f = ele.ForceRecord{"N": -1e6}
	if err = ph.Solve(context.Background(), f); err != nil {
		tst.Fatalf("Solve failed:\n%v", err)
	}
	cv, err = ctrl.CheckSection(s, f)
	if err != nil {
		tst.Fatalf("CheckSection failed:\n%v", err)
	}
	chk.Float64(tst, "CF", 1e-15, cv.CF, 0)

	// not converged
	s.Solved = false
	if _, err = ctrl.CheckSection(s, f); !errors.Is(err, ErrController) {
		tst.Errorf("unsolved phantom should give a controller error; got %v\n", err)
	}
}

func Test_results01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("results01. non-finite numbers in the result file")

	res := []*ControlVars{
		{ElementTag: 4, SectionIndex: 1, LimitState: "ULS", CombName: "C1", CF: math.Inf(1), Flag: FlagUnverifiable},
		{ElementTag: 5, LimitState: "ULS", CombName: "C1", CF: 0.5, N: -1, Extras: map[string]float64{"x": math.NaN(), "y": 2}},
	}
	b, err := MarshalResults(res)
	if err != nil {
		tst.Fatalf("MarshalResults failed:\n%v", err)
	}
	io.Pforan("%s", b)
	if !bytes.Contains(b, []byte(`"CF": "+Inf"`)) {
		tst.Errorf("+Inf should be written as a string\n")
		return
	}
	fn := filepath.Join(tst.TempDir(), "res.json")
	if err = WriteResults(fn, res); err != nil {
		tst.Fatalf("WriteResults failed:\n%v", err)
	}
	back, err := ReadResults(fn)
	if err != nil {
		tst.Fatalf("ReadResults failed:\n%v", err)
	}
	chk.IntAssert(len(back), 2)
	if !math.IsInf(back[0].CF, 1) || !math.IsNaN(back[1].Extras["x"]) {
		tst.Errorf("non-finite numbers were not read back\n")
		return
	}
	chk.Float64(tst, "y", 1e-15, back[1].Extras["y"], 2)
	chk.Float64(tst, "N", 1e-15, back[1].N, -1)
	chk.String(tst, back[0].Flag, FlagUnverifiable)
	chk.IntAssert(back[0].SectionIndex, 1)

	// empty table
	b, _ = MarshalResults(nil)
	chk.String(tst, string(b), "[]\n")
}
