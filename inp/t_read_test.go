// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

const cfgBeam = `
desc: rectangular beam
dirout: /tmp/rcverif/beam
workers: 2
materials:
  - {name: conc, catalogue: HA-25, design: true}
  - {name: steel, catalogue: B-500S, design: true}
  - name: soft
    model: elastic
    prms: [{n: E, v: 1e6}]
sections:
  - name: s1
    concrete: conc
    steel: steel
    shape: rectangle
    b: 0.3
    h: 0.5
    nDivIJ: 10
    nDivJK: 20
    posRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
    negRows: [{diam: 0.016, nBars: 3, cover: 0.03}]
distribution:
  - {elem: 1, dim: 1, sections: [s1, s1]}
limitstates:
  - name: ULS_normal
    controller: normal_stresses_uls
    journal: uls.json
  - name: ULS_shear
    controller: shear_uls
    journal: uls.json
    procedure:
      overrides:
        test: {tol: 1e-7}
  - name: SLS_crack
    controller: crack_sls
    journal: sls.json
    woodarmeralsoforaxialforces: true
`

func Test_config01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("config01. read configuration file")

	fn := filepath.Join(tst.TempDir(), "beam.yaml")
	if err := os.WriteFile(fn, []byte(cfgBeam), 0644); err != nil {
		tst.Fatalf("cannot write file: %v", err)
	}
	cfg, err := ReadConfig(fn)
	if err != nil {
		tst.Fatalf("ReadConfig failed:\n%v", err)
	}
	io.Pforan("%v", cfg.Materials)

	// defaults
	chk.String(tst, cfg.Results, "verification.json")
	chk.IntAssert(cfg.Ndim, 3)
	chk.IntAssert(cfg.Workers, 2)
	chk.String(tst, cfg.Path("uls.json"), filepath.Join(filepath.Dir(fn), "uls.json"))
	chk.String(tst, cfg.OutPath("res.json"), "/tmp/rcverif/beam/res.json")

	// materials
	c := cfg.MatDb.Get("conc")
	if c == nil || c.Concrete == nil {
		tst.Fatalf("concrete was not allocated\n")
	}
	chk.String(tst, c.Type, "concrete")
	chk.String(tst, c.Model, "concrete02")
	chk.Float64(tst, "Ec design", 1e-6, c.Mdl.InitialTangent(), 2*25e6/1.5/0.002)
	s := cfg.MatDb.Get("steel")
	chk.String(tst, s.Type, "steel")
	chk.Float64(tst, "Es", 1e-6, s.Mdl.InitialTangent(), 200e9)
	chk.Float64(tst, "E soft", 1e-15, cfg.MatDb.Get("soft").Mdl.InitialTangent(), 1e6)
	if cfg.MatDb.Get("wood") != nil {
		tst.Errorf("unknown material should be nil\n")
		return
	}

	// sections and distribution
	chk.Strings(tst, "sections", cfg.Container.Names(), []string{"s1"})
	chk.Ints(tst, "tags", cfg.Dist.Tags(), []int{1})
	sec, ok := cfg.Dist.Lookup(1, 1)
	if !ok {
		tst.Fatalf("cannot find section of element 1\n")
	}
	fs, err := cfg.Realize(sec, 3)
	if err != nil {
		tst.Fatalf("Realize failed:\n%v", err)
	}
	chk.Float64(tst, "Ag", 1e-12, fs.Area(0)+fs.Area(1), 0.3*0.5+6*math.Pi*0.016*0.016/4)

	// limit states
	chk.IntAssert(len(cfg.LimitStates), 3)
	uls, err := cfg.LimitState("ULS_normal")
	if err != nil {
		tst.Fatalf("LimitState failed:\n%v", err)
	}
	if uls.WoodArmerAlsoForAxialForces {
		tst.Errorf("Wood-Armer for axial forces should be off by default\n")
		return
	}
	p, err := uls.Procedure.Get(uls.DefaultProcedure())
	if err != nil {
		tst.Fatalf("Get procedure failed:\n%v", err)
	}
	chk.String(tst, p.Name, "plain_newton_raphson")
	chk.Float64(tst, "tol", 1e-20, p.Test.Tol, 1e-10)

	// overrides keep the remaining fields of the preset
	shear, _ := cfg.LimitState("ULS_shear")
	p, err = shear.Procedure.Get(shear.DefaultProcedure())
	if err != nil {
		tst.Fatalf("Get procedure failed:\n%v", err)
	}
	chk.String(tst, p.Name, "penalty_newton_line_search_mumps")
	chk.String(tst, p.Test.Type, "relative_total_norm_disp_incr")
	chk.Float64(tst, "tol", 1e-20, p.Test.Tol, 1e-7)
	chk.IntAssert(p.Test.MaxIt, 40)
	chk.String(tst, p.System, "mumps")

	crack, _ := cfg.LimitState("SLS_crack")
	if !crack.WoodArmerAlsoForAxialForces {
		tst.Errorf("Wood-Armer flag was not read\n")
		return
	}
	if _, err = cfg.LimitState("ELU"); err == nil {
		tst.Errorf("unknown limit state should have failed\n")
	}
}

func Test_config02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("config02. invalid configurations")

	bad := map[string]string{
		"no materials": `
limitstates: []
`,
		"wrong controller": `
materials: [{name: c, catalogue: HA-30}]
limitstates: [{name: a, controller: torsion, journal: a.json}]
`,
		"repeated material": `
materials: [{name: c, catalogue: HA-30}, {name: c, catalogue: B-400S}]
`,
		"unknown catalogue id": `
materials: [{name: c, catalogue: HA-99}]
`,
		"missing model": `
materials: [{name: c}]
`,
		"unknown section material": `
materials: [{name: c, catalogue: HA-30}]
sections: [{name: s, concrete: c, steel: x, shape: rectangle, b: 1, h: 1}]
`,
		"section not in container": `
materials: [{name: c, catalogue: HA-30}, {name: s, catalogue: B-400S}]
distribution: [{elem: 1, dim: 1, sections: [nope]}]
`,
		"repeated limit state": `
materials: [{name: c, catalogue: HA-30}]
limitstates: [{name: a, controller: crack_sls, journal: a.json}, {name: a, controller: shear_uls, journal: b.json}]
`,
		"bad ndim": `
ndim: 4
materials: [{name: c, catalogue: HA-30}]
`,
		"bad yaml": `
materials: [{name: c
`,
	}
	for key, txt := range bad {
		if _, err := ParseConfig([]byte(txt)); err == nil {
			tst.Errorf("%s: should have failed\n", key)
			return
		} else {
			io.Pforan("%s: %v\n", key, err)
		}
	}

	// missing file
	if _, err := ReadConfig(filepath.Join(tst.TempDir(), "nofile.yaml")); err == nil {
		tst.Errorf("reading a missing file should have failed\n")
		return
	}

	// JSON is YAML
	cfg, err := ParseConfig([]byte(`{"ndim": 2, "materials": [{"name": "c", "catalogue": "C25/30"}]}`))
	if err != nil {
		tst.Fatalf("ParseConfig failed:\n%v", err)
	}
	chk.IntAssert(cfg.Ndim, 2)

	// bad overrides
	ref := ProcedureRef{Preset: "plain_newton_raphson"}
	if err = ref.Overrides.Encode(map[string]interface{}{"numberer": "metis"}); err != nil {
		tst.Fatalf("Encode failed: %v", err)
	}
	if _, err = ref.Get(""); err == nil {
		tst.Errorf("invalid numberer should have failed\n")
	}
	if _, err = (&ProcedureRef{}).Get("nonexistent"); err == nil {
		tst.Errorf("unknown preset should have failed\n")
	}
}

func Test_catalogue01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("catalogue01. concretes and steels")

	c, err := LookupConcrete("HA-25")
	if err != nil {
		tst.Fatalf("LookupConcrete failed:\n%v", err)
	}
	chk.Float64(tst, "fcd", 1e-6, c.Fcd, 25e6/1.5)
	chk.Float64(tst, "fcm", 1e-6, c.Fcm, 33e6)
	chk.Float64(tst, "fctm", 1e-3, c.Fctm, 0.3*math.Pow(25, 2.0/3.0)*1e6)
	chk.Float64(tst, "Ecm", 1e-3, c.Ecm, 8500*math.Cbrt(33)*1e6)
	chk.Float64(tst, "εcu", 1e-15, c.EpsCU, 0.0035)

	// copies are returned
	c.Fck = 0
	c2, _ := LookupConcrete("HA-25")
	chk.Float64(tst, "fck", 1e-6, c2.Fck, 25e6)

	ec, _ := LookupConcrete("C25/30")
	chk.Float64(tst, "Ecm EC2", 1e-3, ec.Ecm, 22000*math.Pow(3.3, 0.3)*1e6)
	if math.Abs(ec.Ecm-31e9) > 0.5e9 {
		tst.Errorf("Ecm of C25/30 should be about 31 GPa: %g\n", ec.Ecm)
		return
	}

	s, err := LookupSteel("B-500S")
	if err != nil {
		tst.Fatalf("LookupSteel failed:\n%v", err)
	}
	chk.Float64(tst, "fyd", 1e-6, s.Fyd, 500e6/1.15)

	// laws
	for _, design := range []bool{true, false} {
		m, err := c2.Law(design)
		if err != nil {
			tst.Fatalf("concrete Law failed:\n%v", err)
		}
		fc := c2.Fck
		if design {
			fc = c2.Fcd
		}
		σ, _, _ := m.SetTrialStrain(-0.002)
		chk.Float64(tst, "σ(εc0)", 1e-6, σ, -fc)
		σ, _, _ = m.SetTrialStrain(-0.003)
		chk.Float64(tst, "σ plateau", 1e-6, σ, -fc)
		ms, err := s.Law(design)
		if err != nil {
			tst.Fatalf("steel Law failed:\n%v", err)
		}
		chk.Float64(tst, "E", 1e-6, ms.InitialTangent(), 200e9)
	}

	conc, steel := CatalogueIds()
	chk.Strings(tst, "steels", steel, []string{"B-400S", "B-500S", "B500B", "B500C"})
	chk.IntAssert(len(conc), 7)
	if _, err = LookupSteel("HA-25"); err == nil {
		tst.Errorf("concrete is not a steel\n")
	}
}
