// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sec

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// FiberKind tells whether a fiber belongs to the concrete or to the reinforcement
type FiberKind int

const (
	KindConcrete FiberKind = iota // fiber from a region
	KindReinf                     // fiber from a layer
)

// FiberData holds the geometry of a fiber before it is attached to a material
type FiberData struct {
	Mat  string    // material name
	A    float64   // area
	Y, Z float64   // local coordinates
	Kind FiberKind // concrete or reinforcement
}

// Region defines a patch of concrete
type Region interface {
	Material() string             // material name
	Polygon() Polygon             // outline
	Fibers() ([]FiberData, error) // discretisation
}

// Layer defines a set of reinforcement bars
type Layer interface {
	Material() string             // material name
	Fibers() ([]FiberData, error) // one fiber per bar
}

// QuadRegion is a quadrilateral region divided into nDivIJ × nDivJK cells.
// Vertices must be given counter-clockwise
type QuadRegion struct {
	Mat    string   `json:"mat"`
	NDivIJ int      `json:"nDivIJ"`
	NDivJK int      `json:"nDivJK"`
	Verts  [4]Point `json:"verts"`
}

// NewRectRegion returns a rectangular region with corners pmin and pmax
func NewRectRegion(mat string, nDivIJ, nDivJK int, pmin, pmax Point) *QuadRegion {
	return &QuadRegion{mat, nDivIJ, nDivJK, [4]Point{pmin, {pmax.Y, pmin.Z}, pmax, {pmin.Y, pmax.Z}}}
}

func (o *QuadRegion) Material() string { return o.Mat }
func (o *QuadRegion) Polygon() Polygon { return Polygon(o.Verts[:]) }

// Fibers places one fiber at the centroid of each cell of the bilinear map
func (o *QuadRegion) Fibers() (res []FiberData, err error) {
	if o.NDivIJ < 1 || o.NDivJK < 1 {
		return nil, chk.Err("quad region needs at least one division. nDivIJ=%d, nDivJK=%d", o.NDivIJ, o.NDivJK)
	}
	if o.Polygon().SignedArea() <= 0 {
		return nil, chk.Err("quad region vertices must be counter-clockwise with positive area")
	}
	v := o.Verts
	at := func(r, s float64) Point {
		return v[0].Scale((1-r)*(1-s)).Add(v[1].Scale(r * (1 - s))).Add(v[2].Scale(r * s)).Add(v[3].Scale((1 - r) * s))
	}
	dr, ds := 1.0/float64(o.NDivIJ), 1.0/float64(o.NDivJK)
	for j := 0; j < o.NDivJK; j++ {
		for i := 0; i < o.NDivIJ; i++ {
			r0, s0 := float64(i)*dr, float64(j)*ds
			cell := Polygon{at(r0, s0), at(r0+dr, s0), at(r0+dr, s0+ds), at(r0, s0+ds)}
			c := cell.Centroid()
			res = append(res, FiberData{o.Mat, cell.Area(), c.Y, c.Z, KindConcrete})
		}
	}
	return
}

// PolygonRegion is an arbitrary (possibly concave) region discretised by a
// nDivIJ × nDivJK grid over its bounding box; cells are clipped by the outline
type PolygonRegion struct {
	Mat    string  `json:"mat"`
	NDivIJ int     `json:"nDivIJ"`
	NDivJK int     `json:"nDivJK"`
	Verts  Polygon `json:"verts"`
}

func (o *PolygonRegion) Material() string { return o.Mat }
func (o *PolygonRegion) Polygon() Polygon { return o.Verts }

// Fibers places one fiber at the centroid of each clipped cell
func (o *PolygonRegion) Fibers() (res []FiberData, err error) {
	if len(o.Verts) < 3 {
		return nil, chk.Err("polygon region needs at least 3 vertices; %d given", len(o.Verts))
	}
	if o.NDivIJ < 1 || o.NDivJK < 1 {
		return nil, chk.Err("polygon region needs at least one division. nDivIJ=%d, nDivJK=%d", o.NDivIJ, o.NDivJK)
	}
	min, max := o.Verts.Bounds()
	dy := (max.Y - min.Y) / float64(o.NDivIJ)
	dz := (max.Z - min.Z) / float64(o.NDivJK)
	tol := 1e-12 * (max.Y - min.Y) * (max.Z - min.Z)
	for j := 0; j < o.NDivJK; j++ {
		for i := 0; i < o.NDivIJ; i++ {
			y0, z0 := min.Y+float64(i)*dy, min.Z+float64(j)*dz
			cell := Polygon{{y0, z0}, {y0 + dy, z0}, {y0 + dy, z0 + dz}, {y0, z0 + dz}}
			piece := o.Verts.ClipConvex(cell)
			if len(piece) < 3 {
				continue
			}
			a := piece.Area()
			if a <= tol {
				continue
			}
			c := piece.Centroid()
			res = append(res, FiberData{o.Mat, a, c.Y, c.Z, KindConcrete})
		}
	}
	return
}

// CircRegion is an annular sector divided into nDivRad × nDivCirc sectors.
// Angles are in radians measured from the y-axis
type CircRegion struct {
	Mat      string  `json:"mat"`
	NDivRad  int     `json:"nDivRad"`
	NDivCirc int     `json:"nDivCirc"`
	Centre   Point   `json:"centre"`
	Rint     float64 `json:"rint"`
	Rext     float64 `json:"rext"`
	Ang0     float64 `json:"ang0"`
	Ang1     float64 `json:"ang1"`
}

// NewCircle returns a full circular region of radius r
func NewCircle(mat string, nDivRad, nDivCirc int, centre Point, r float64) *CircRegion {
	return &CircRegion{mat, nDivRad, nDivCirc, centre, 0, r, 0, 2 * math.Pi}
}

func (o *CircRegion) Material() string { return o.Mat }

// Polygon returns a polygonal approximation of the outline
func (o *CircRegion) Polygon() (p Polygon) {
	n := 8 * o.NDivCirc
	dθ := (o.Ang1 - o.Ang0) / float64(n)
	full := math.Abs(o.Ang1-o.Ang0-2*math.Pi) < 1e-12
	if !full || o.Rint > 0 {
		for i := 0; i <= n; i++ {
			θ := o.Ang0 + float64(i)*dθ
			p = append(p, o.Centre.Add(Point{o.Rext * math.Cos(θ), o.Rext * math.Sin(θ)}))
		}
		for i := n; i >= 0; i-- {
			θ := o.Ang0 + float64(i)*dθ
			p = append(p, o.Centre.Add(Point{o.Rint * math.Cos(θ), o.Rint * math.Sin(θ)}))
		}
		return
	}
	for i := 0; i < n; i++ {
		θ := o.Ang0 + float64(i)*dθ
		p = append(p, o.Centre.Add(Point{o.Rext * math.Cos(θ), o.Rext * math.Sin(θ)}))
	}
	return
}

// Fibers places one fiber at the centroid of each annular sector
func (o *CircRegion) Fibers() (res []FiberData, err error) {
	if o.NDivRad < 1 || o.NDivCirc < 1 {
		return nil, chk.Err("circular region needs at least one division. nDivRad=%d, nDivCirc=%d", o.NDivRad, o.NDivCirc)
	}
	if o.Rint < 0 || o.Rext <= o.Rint || o.Ang1 <= o.Ang0 {
		return nil, chk.Err("circular region has invalid radii or angles. rint=%g, rext=%g, ang0=%g, ang1=%g", o.Rint, o.Rext, o.Ang0, o.Ang1)
	}
	dr := (o.Rext - o.Rint) / float64(o.NDivRad)
	dθ := (o.Ang1 - o.Ang0) / float64(o.NDivCirc)
	h := dθ / 2
	for i := 0; i < o.NDivRad; i++ {
		ri, ro := o.Rint+float64(i)*dr, o.Rint+float64(i+1)*dr
		a := h * (ro*ro - ri*ri)
		rc := 2.0 / 3.0 * (ro*ro*ro - ri*ri*ri) / (ro*ro - ri*ri) * math.Sin(h) / h
		for j := 0; j < o.NDivCirc; j++ {
			θ := o.Ang0 + (float64(j)+0.5)*dθ
			res = append(res, FiberData{o.Mat, a, o.Centre.Y + rc*math.Cos(θ), o.Centre.Z + rc*math.Sin(θ), KindConcrete})
		}
	}
	return
}

// StraightLayer places nBars equally spaced bars from P1 to P2 (both ends
// included); a single bar goes to the midpoint
type StraightLayer struct {
	Mat     string  `json:"mat"`
	NBars   int     `json:"nBars"`
	BarArea float64 `json:"barArea"`
	P1      Point   `json:"p1"`
	P2      Point   `json:"p2"`
}

func (o *StraightLayer) Material() string { return o.Mat }

// Fibers returns one fiber per bar
func (o *StraightLayer) Fibers() (res []FiberData, err error) {
	if o.NBars < 1 || o.BarArea <= 0 {
		return nil, chk.Err("straight layer needs nBars >= 1 and barArea > 0. nBars=%d, barArea=%g", o.NBars, o.BarArea)
	}
	if o.NBars == 1 {
		c := o.P1.Add(o.P2).Scale(0.5)
		return []FiberData{{o.Mat, o.BarArea, c.Y, c.Z, KindReinf}}, nil
	}
	d := o.P2.Sub(o.P1).Scale(1.0 / float64(o.NBars-1))
	for i := 0; i < o.NBars; i++ {
		p := o.P1.Add(d.Scale(float64(i)))
		res = append(res, FiberData{o.Mat, o.BarArea, p.Y, p.Z, KindReinf})
	}
	return
}

// CircLayer places bars along an arc; for a full circle the last bar does
// not duplicate the first one
type CircLayer struct {
	Mat     string  `json:"mat"`
	NBars   int     `json:"nBars"`
	BarArea float64 `json:"barArea"`
	Centre  Point   `json:"centre"`
	R       float64 `json:"r"`
	Ang0    float64 `json:"ang0"`
	Ang1    float64 `json:"ang1"`
}

func (o *CircLayer) Material() string { return o.Mat }

// Fibers returns one fiber per bar
func (o *CircLayer) Fibers() (res []FiberData, err error) {
	if o.NBars < 1 || o.BarArea <= 0 || o.R <= 0 {
		return nil, chk.Err("circular layer needs nBars >= 1, barArea > 0 and r > 0. nBars=%d, barArea=%g, r=%g", o.NBars, o.BarArea, o.R)
	}
	span := o.Ang1 - o.Ang0
	den := float64(o.NBars - 1)
	if math.Abs(span-2*math.Pi) < 1e-12 || o.NBars == 1 {
		den = float64(o.NBars)
	}
	dθ := span / den
	for i := 0; i < o.NBars; i++ {
		θ := o.Ang0 + float64(i)*dθ
		res = append(res, FiberData{o.Mat, o.BarArea, o.Centre.Y + o.R*math.Cos(θ), o.Centre.Z + o.R*math.Sin(θ), KindReinf})
	}
	return
}

// Geometry collects regions and layers of a cross-section
type Geometry struct {
	Regions []Region
	Layers  []Layer
}

// Fibers expands all regions and layers
func (o *Geometry) Fibers() (res []FiberData, err error) {
	for i, r := range o.Regions {
		f, e := r.Fibers()
		if e != nil {
			return nil, chk.Err("region %d: %v", i, e)
		}
		res = append(res, f...)
	}
	for i, l := range o.Layers {
		f, e := l.Fibers()
		if e != nil {
			return nil, chk.Err("layer %d: %v", i, e)
		}
		res = append(res, f...)
	}
	return
}

// Outline returns the outline of the first region
func (o *Geometry) Outline() Polygon {
	if len(o.Regions) == 0 {
		return nil
	}
	return o.Regions[0].Polygon()
}
