// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/engthiago/xc-sub000/verif"
)

// status labels of checked sections
const (
	StatusPass         = "pass"
	StatusFail         = "fail"
	StatusUndefined    = "undefined"
	StatusUnverifiable = "unverifiable"
)

// Metrics holds the counters of one run. Each instance owns its registry
type Metrics struct {
	Registry *prometheus.Registry

	sections     *prometheus.CounterVec   // labels: limit_state, status
	checkSeconds *prometheus.HistogramVec // labels: limit_state
	worstCF      *prometheus.GaugeVec     // labels: limit_state
	combinations *prometheus.CounterVec   // labels: start (scratch, ancestor, fallback)
	iterations   prometheus.Counter

	mu    sync.Mutex
	worst map[string]float64
}

// NewMetrics allocates the metrics of a run
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		sections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rcverif",
			Subsystem: "verif",
			Name:      "sections_total",
			Help:      "Checked (element, section) pairs by outcome",
		}, []string{"limit_state", "status"}),
		checkSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rcverif",
			Subsystem: "verif",
			Name:      "check_seconds",
			Help:      "Time spent checking one section over all combinations",
			Buckets:   prometheus.ExponentialBuckets(1e-4, 4, 10),
		}, []string{"limit_state"}),
		worstCF: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rcverif",
			Subsystem: "verif",
			Name:      "worst_capacity_factor",
			Help:      "Largest finite capacity factor of a limit state",
		}, []string{"limit_state"}),
		combinations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rcverif",
			Subsystem: "comb",
			Name:      "solved_total",
			Help:      "Solved load combinations by starting state",
		}, []string{"start"}),
		iterations: f.NewCounter(prometheus.CounterOpts{
			Namespace: "rcverif",
			Subsystem: "comb",
			Name:      "iterations_total",
			Help:      "Nonlinear iterations spent on load combinations",
		}),
		worst: make(map[string]float64),
	}
}

// Status returns the status label of control variables
func Status(cv *verif.ControlVars) string {
	switch {
	case cv.Flag == verif.FlagUndefined:
		return StatusUndefined
	case cv.Flag == verif.FlagUnverifiable:
		return StatusUnverifiable
	case cv.CF > 1:
		return StatusFail
	}
	return StatusPass
}

// Observe records one checked section
func (o *Metrics) Observe(limitState string, cv *verif.ControlVars, elapsed time.Duration) {
	o.sections.WithLabelValues(limitState, Status(cv)).Inc()
	o.checkSeconds.WithLabelValues(limitState).Observe(elapsed.Seconds())
	if math.IsInf(cv.CF, 0) || math.IsNaN(cv.CF) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if w, ok := o.worst[limitState]; !ok || cv.CF > w {
		o.worst[limitState] = cv.CF
		o.worstCF.WithLabelValues(limitState).Set(cv.CF)
	}
}

// Combinations records the statistics of a combination driver
func (o *Metrics) Combinations(nsolved, nrestored, nscratch, nits int) {
	o.combinations.WithLabelValues("ancestor").Add(float64(nrestored))
	o.combinations.WithLabelValues("fallback").Add(float64(nscratch))
	if n := nsolved - nrestored - nscratch; n > 0 {
		o.combinations.WithLabelValues("scratch").Add(float64(n))
	}
	o.iterations.Add(float64(nits))
}

// WriteTextfile dumps the metrics in the text exposition format. The
// directory is created if needed
func (o *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return chk.Err("cannot create directory for metrics %q:\n%v", path, err)
	}
	if err := prometheus.WriteToTextfile(path, o.Registry); err != nil {
		return chk.Err("cannot write metrics to %q:\n%v", path, err)
	}
	return nil
}
