// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"fmt"

	"github.com/engthiago/xc-sub000/mdl/uniax"
	"github.com/engthiago/xc-sub000/sec"
)

// error kinds surfaced by analyses
var (
	ErrConvergence      = errors.New("convergence failure")
	ErrMaterialDiverged = errors.New("material diverged")
	ErrRedundantSupport = errors.New("redundant support")
	ErrCancelled        = errors.New("analysis cancelled")
	ErrSingularSystem   = errors.New("singular system of equations")
	ErrNotPrepared      = errors.New("analysis is not prepared")
)

// classify wraps material failures with ErrMaterialDiverged
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrMaterialDiverged) {
		return err
	}
	if sec.IsDiverged(err) || errors.Is(err, uniax.ErrRejected) {
		return fmt.Errorf("%w: %w", ErrMaterialDiverged, err)
	}
	return err
}
