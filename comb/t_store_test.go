// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comb

import (
	"context"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/engthiago/xc-sub000/ele"
	"github.com/engthiago/xc-sub000/fem"
	"github.com/engthiago/xc-sub000/inp"
	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// steelBar returns a bar along x with a steel02 law and a unit load pattern "P"
func steelBar(t *testing.T) *fem.Domain {
	d := fem.NewDomain(2)
	require.NoError(t, d.AddNode(1, 2, 0, 0))
	require.NoError(t, d.AddNode(2, 2, 1, 0))
	m, err := uniax.NewInit("steel02", uniax.NewPrms("E", 200e9, "fy", 400e6, "b", 0.02))
	require.NoError(t, err)
	_, err = d.AddElement(&ele.Data{Type: "truss", Tag: 1, Verts: []int{1, 2}, Mat: m, Props: map[string]float64{"A": 1e-4}})
	require.NoError(t, err)
	require.NoError(t, d.Fix(1, "00"))
	require.NoError(t, d.Fix(2, "F0"))
	require.NoError(t, d.NewPattern("P").Load(2, 1, 0).Err())
	return d
}

// newton returns the Newton-Raphson procedure used with nonlinear bars
func newton(t *testing.T) *inp.ProcedureData {
	p, err := inp.GetProcedure("plain_newton_raphson")
	require.NoError(t, err)
	p.Test.MaxIt = 50
	p.PostProcess()
	return p
}

func Test_store01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("store01. checkpoint keys")

	s, err := OpenMemStore()
	require.NoError(tst, err)
	defer s.Close()

	require.NoError(tst, s.Put(Key(1, StageFinal), []byte("one")))
	require.NoError(tst, s.Put(Key(1, StageCreep), []byte("one-creep")))
	require.NoError(tst, s.Put(Key(2, StageFinal), []byte("two")))
	assert.True(tst, s.Has(100))
	assert.True(tst, s.Has(102))
	assert.False(tst, s.Has(101))

	b, err := s.Get(102)
	require.NoError(tst, err)
	assert.Equal(tst, "one-creep", string(b))

	_, err = s.Get(300)
	assert.ErrorIs(tst, err, ErrCheckpointMismatch)
	assert.ErrorIs(tst, s.Restore(fem.NewDomain(2), 300), ErrCheckpointMismatch)

	// overwrite
	require.NoError(tst, s.Put(200, []byte("two again")))
	b, err = s.Get(200)
	require.NoError(tst, err)
	assert.Equal(tst, "two again", string(b))
	saves, restores := s.Stats()
	assert.Equal(tst, 4, saves)
	assert.Equal(tst, 0, restores)

	// clear
	require.NoError(tst, s.Clear())
	assert.False(tst, s.Has(100))
	assert.False(tst, s.Has(200))

	// options
	_, err = OpenStore(StoreConfig{})
	assert.Error(tst, err)
	_, err = OpenStore(StoreConfig{InMemory: true, Encoder: "xml"})
	assert.Error(tst, err)
}

func Test_store02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("store02. sessions do not share keys")

	dir := tst.TempDir()
	a, err := OpenStore(StoreConfig{Path: dir})
	require.NoError(tst, err)
	require.NoError(tst, a.Put(100, []byte("a")))
	require.NoError(tst, a.Close())

	b, err := OpenStore(StoreConfig{Path: dir})
	require.NoError(tst, err)
	defer b.Close()
	assert.NotEqual(tst, a.Session(), b.Session())
	assert.False(tst, b.Has(100))
	_, err = b.Get(100)
	assert.ErrorIs(tst, err, ErrCheckpointMismatch)
}

func Test_store03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("store03. save, perturb, revert, restore and solve again")

	for _, enc := range []string{"gob", "json"} {
		s, err := OpenStore(StoreConfig{InMemory: true, Encoder: enc})
		require.NoError(tst, err)

		d := steelBar(tst)
		require.NoError(tst, d.AddPatternToDomain("P", 44e3))
		a, err := fem.NewAnalysis(d, newton(tst))
		require.NoError(tst, err)
		lc := a.Integ.(*fem.LoadControl)
		lc.Dλ = 0.25
		require.NoError(tst, a.Analyze(context.Background(), 4))
		uref, err := d.Disp(2)
		require.NoError(tst, err)
		require.NoError(tst, s.Save(d, Key(1, StageFinal)))

		// perturb
		lc.Dλ = 0.1
		require.NoError(tst, a.Analyze(context.Background(), 1))
		u, _ := d.Disp(2)
		assert.Greater(tst, u[0], uref[0])

		// revert all and restore
		d.RevertToStart()
		u, _ = d.Disp(2)
		assert.Equal(tst, 0.0, u[0])
		require.NoError(tst, s.Restore(d, Key(1, StageFinal)))
		u, _ = d.Disp(2)
		chk.Float64(tst, enc+": u after restore", 1e-15, u[0], uref[0])

		// solving again does not move the bar
		lc.Dλ = 0
		require.NoError(tst, a.Analyze(context.Background(), 1))
		u, _ = d.Disp(2)
		chk.Float64(tst, enc+": u after solve", 1e-9, u[0], uref[0])
		recs, err := d.Elems[0].(ele.WithInternalForces).InternalForces()
		require.NoError(tst, err)
		chk.Float64(tst, enc+": N", 1e-4, recs[0]["N"], 44e3)
		_, restores := s.Stats()
		assert.Equal(tst, 1, restores)
		require.NoError(tst, s.Close())
	}
}

func Test_store04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("store04. concurrent restores")

	s, err := OpenMemStore()
	require.NoError(tst, err)
	defer s.Close()

	p := newton(tst)
	d := steelBar(tst)
	require.NoError(tst, d.AddPatternToDomain("P", 44e3))
	a, err := fem.NewAnalysis(d, p)
	require.NoError(tst, err)
	require.NoError(tst, a.Analyze(context.Background(), 1))
	uref, err := d.Disp(2)
	require.NoError(tst, err)
	require.NoError(tst, s.Save(d, Key(1, StageFinal)))

	// independent domains restored by concurrent readers
	n := 8
	doms := make([]*fem.Domain, n)
	for i := range doms {
		doms[i] = steelBar(tst)
		num, err := fem.NewNumberer(p.Numberer)
		require.NoError(tst, err)
		require.NoError(tst, doms[i].Number(num))
	}
	var g errgroup.Group
	for _, di := range doms {
		g.Go(func() error { return s.Restore(di, Key(1, StageFinal)) })
	}
	require.NoError(tst, g.Wait())
	for i, di := range doms {
		u, err := di.Disp(2)
		require.NoError(tst, err)
		chk.Float64(tst, io.Sf("u%d", i), 1e-15, u[0], uref[0])
	}
	saves, restores := s.Stats()
	assert.Equal(tst, 1, saves)
	assert.Equal(tst, n, restores)
}
