// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sec

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/engthiago/xc-sub000/mdl/uniax"
)

// ReinfRow defines a row of bars parallel to a face of the section
type ReinfRow struct {
	Diam    float64 `json:"diam" yaml:"diam" validate:"gt=0"`     // bar diameter
	Area    float64 `json:"area" yaml:"area" validate:"gte=0"`    // bar area; π⌀²/4 if zero
	Spacing float64 `json:"spacing" yaml:"spacing"`                // spacing; used when NBars is zero
	NBars   int     `json:"nBars" yaml:"nBars"`                    // number of bars
	Width   float64 `json:"width" yaml:"width"`                    // width of the strip; section width minus covers if zero
	Cover   float64 `json:"cover" yaml:"cover" validate:"gte=0"`  // nominal (clear) cover
	RoundUp bool    `json:"roundUp" yaml:"roundUp"`                // round the number of bars up
}

// BarArea returns the area of one bar
func (o ReinfRow) BarArea() float64 {
	if o.Area > 0 {
		return o.Area
	}
	return math.Pi * o.Diam * o.Diam / 4
}

// EffCover returns the distance from the face to the bar axis
func (o ReinfRow) EffCover() float64 { return o.Cover + o.Diam/2 }

// NumBars returns the number of bars in a strip of width w
func (o ReinfRow) NumBars(w float64) int {
	if o.NBars > 0 {
		return o.NBars
	}
	if o.Spacing <= 0 {
		return 0
	}
	if o.RoundUp {
		return int(math.Ceil(w/o.Spacing - 1e-9))
	}
	return int(math.Floor(w/o.Spacing + 0.5))
}

// BarSpacing returns width/nBars for a strip of width w
func (o ReinfRow) BarSpacing(w float64) float64 {
	n := o.NumBars(w)
	if n == 0 {
		return 0
	}
	return w / float64(n)
}

// As returns the total area of the row in a strip of width w
func (o ReinfRow) As(w float64) float64 { return float64(o.NumBars(w)) * o.BarArea() }

// ShearReinf describes transverse reinforcement
type ShearReinf struct {
	NBranches     int     `json:"nBranches" yaml:"nBranches"`         // number of legs
	AreaPerBranch float64 `json:"areaPerBranch" yaml:"areaPerBranch"` // area of one leg
	Spacing       float64 `json:"spacing" yaml:"spacing"`             // longitudinal spacing
	Alpha         float64 `json:"alpha" yaml:"alpha"`                 // angle with the member axis; π/2 if zero
	Theta         float64 `json:"theta" yaml:"theta"`                 // strut angle; π/4 if zero
}

// AreaPerLength returns n A / s
func (o ShearReinf) AreaPerLength() float64 {
	if o.Spacing <= 0 {
		return 0
	}
	return float64(o.NBranches) * o.AreaPerBranch / o.Spacing
}

// Angles returns α and θ with defaults applied
func (o ShearReinf) Angles() (α, θ float64) {
	α, θ = o.Alpha, o.Theta
	if α == 0 {
		α = math.Pi / 2
	}
	if θ == 0 {
		θ = math.Pi / 4
	}
	return
}

// RCSection is a named reinforced concrete section template.
//  Width is measured along local y and depth along local z; the positive
//  face is at +z. When realised as a 2D section the depth goes along y.
type RCSection struct {
	Name     string        `json:"name" yaml:"name" validate:"required"`
	Concrete string        `json:"concrete" yaml:"concrete" validate:"required"` // concrete id
	Steel    string        `json:"steel" yaml:"steel" validate:"required"`       // reinforcing steel id
	Shape    string        `json:"shape" yaml:"shape" validate:"oneof=rectangle circle polygon"`
	B        float64       `json:"b" yaml:"b"`         // width (rectangle)
	H        float64       `json:"h" yaml:"h"`         // depth (rectangle)
	R        float64       `json:"r" yaml:"r"`         // radius (circle)
	Verts    Polygon       `json:"verts" yaml:"verts"` // outline (polygon)
	NDivIJ   int           `json:"nDivIJ" yaml:"nDivIJ"`
	NDivJK   int           `json:"nDivJK" yaml:"nDivJK"`
	PosRows  []ReinfRow    `json:"posRows" yaml:"posRows"` // rows at +z; rings for circles
	NegRows  []ReinfRow    `json:"negRows" yaml:"negRows"` // rows at -z
	ShearY   *ShearReinf   `json:"shearY" yaml:"shearY"`   // resists Vy
	ShearZ   *ShearReinf   `json:"shearZ" yaml:"shearZ"`   // resists Vz
	Elastic  *ElasticShear `json:"elasticShear" yaml:"elasticShear"`
}

// ElasticShear adds elastic shear and torsion responses to a realised 3D section
type ElasticShear struct {
	G  float64 `json:"G" yaml:"G"`   // shear modulus
	Av float64 `json:"Av" yaml:"Av"` // shear area; 5/6 of gross area if zero
	J  float64 `json:"J" yaml:"J"`   // torsion constant
}

// Outline returns the concrete outline polygon
func (o *RCSection) Outline() Polygon {
	switch o.Shape {
	case "rectangle":
		return NewRectangle(o.B, o.H)
	case "circle":
		r := &CircRegion{Rext: o.R, Ang1: 2 * math.Pi, NDivCirc: 16}
		return r.Polygon()
	}
	return o.Verts
}

// Depth returns the extent along z
func (o *RCSection) Depth() float64 {
	min, max := o.Outline().Bounds()
	return max.Z - min.Z
}

// Width returns the extent along y
func (o *RCSection) Width() float64 {
	min, max := o.Outline().Bounds()
	return max.Y - min.Y
}

// RowWidth returns the width of the strip holding a row
func (o *RCSection) RowWidth(r ReinfRow) float64 {
	if r.Width > 0 {
		return r.Width
	}
	return o.Width() - 2*r.EffCover()
}

// Geometry expands the template into regions and layers (3D coordinates)
func (o *RCSection) Geometry() (g *Geometry, err error) {
	g = new(Geometry)
	switch o.Shape {
	case "rectangle":
		if o.B <= 0 || o.H <= 0 {
			return nil, chk.Err("section %q: rectangle needs b > 0 and h > 0. b=%g, h=%g", o.Name, o.B, o.H)
		}
		g.Regions = append(g.Regions, NewRectRegion(o.Concrete, o.NDivIJ, o.NDivJK, Point{-o.B / 2, -o.H / 2}, Point{o.B / 2, o.H / 2}))
	case "circle":
		if o.R <= 0 {
			return nil, chk.Err("section %q: circle needs r > 0. r=%g", o.Name, o.R)
		}
		g.Regions = append(g.Regions, NewCircle(o.Concrete, o.NDivIJ, o.NDivJK, Point{}, o.R))
		for _, r := range o.PosRows {
			n := r.NumBars(2 * math.Pi * (o.R - r.EffCover()))
			g.Layers = append(g.Layers, &CircLayer{o.Steel, n, r.BarArea(), Point{}, o.R - r.EffCover(), 0, 2 * math.Pi})
		}
		return
	case "polygon":
		g.Regions = append(g.Regions, &PolygonRegion{o.Concrete, o.NDivIJ, o.NDivJK, o.Verts})
	default:
		return nil, chk.Err("section %q: unknown shape %q", o.Name, o.Shape)
	}
	min, max := o.Outline().Bounds()
	add := func(r ReinfRow, z float64) error {
		w := o.RowWidth(r)
		n := r.NumBars(w)
		if n < 1 || w <= 0 {
			return chk.Err("section %q: reinforcement row with width %g has no bars", o.Name, w)
		}
		s := w / float64(n)
		yc := (min.Y + max.Y) / 2
		g.Layers = append(g.Layers, &StraightLayer{o.Steel, n, r.BarArea(), Point{yc - w/2 + s/2, z}, Point{yc + w/2 - s/2, z}})
		return nil
	}
	for _, r := range o.PosRows {
		if err = add(r, max.Z-r.EffCover()); err != nil {
			return nil, err
		}
	}
	for _, r := range o.NegRows {
		if err = add(r, min.Z+r.EffCover()); err != nil {
			return nil, err
		}
	}
	return
}

// Realize builds a fiber section using the given concrete and steel laws
func (o *RCSection) Realize(concrete, steel uniax.Model, ndim int) (s *FiberSection, err error) {
	g, err := o.Geometry()
	if err != nil {
		return
	}
	data, err := g.Fibers()
	if err != nil {
		return nil, chk.Err("section %q: %v", o.Name, err)
	}
	s = NewFiberSection(o.Name, ndim)
	s.AddMaterial(o.Concrete, concrete)
	s.AddMaterial(o.Steel, steel)
	if ndim == 2 {
		for i := range data {
			data[i].Y, data[i].Z = data[i].Z, 0
		}
	}
	if err = s.AddFibers(data); err != nil {
		return nil, err
	}
	if o.Elastic != nil && ndim == 3 {
		av := o.Elastic.Av
		if av == 0 {
			av = 5.0 / 6.0 * o.Outline().Area()
		}
		for _, c := range []Response{RespVy, RespVz} {
			if err = s.AddAggregator(c, elasticLaw(o.Elastic.G*av)); err != nil {
				return nil, err
			}
		}
		if err = s.AddAggregator(RespT, elasticLaw(o.Elastic.G*o.Elastic.J)); err != nil {
			return nil, err
		}
	}
	err = s.SetupFibers()
	return
}

// As returns the reinforcement area of the positive (+z) or negative face
func (o *RCSection) As(positive bool) (as float64) {
	rows := o.NegRows
	if positive {
		rows = o.PosRows
	}
	for _, r := range rows {
		as += r.As(o.RowWidth(r))
	}
	return
}

// EffectiveDepth returns the distance from the compressed face to the
// centroid of the rows of the tensioned face
func (o *RCSection) EffectiveDepth(tensionPositive bool) float64 {
	rows := o.NegRows
	if tensionPositive {
		rows = o.PosRows
	}
	var as, asc float64
	for _, r := range rows {
		a := r.As(o.RowWidth(r))
		as += a
		asc += a * r.EffCover()
	}
	if as == 0 {
		return 0
	}
	return o.Depth() - asc/as
}

// MinCover returns the minimum distance from a bar axis to the concrete boundary
func (o *RCSection) MinCover() (c float64, err error) {
	g, err := o.Geometry()
	if err != nil {
		return
	}
	outline := o.Outline()
	c = math.Inf(1)
	for _, l := range g.Layers {
		fibers, e := l.Fibers()
		if e != nil {
			return 0, e
		}
		for _, f := range fibers {
			c = math.Min(c, outline.DistanceToBoundary(Point{f.Y, f.Z}))
		}
	}
	return
}

// elasticLaw returns an initialised elastic law
func elasticLaw(E float64) uniax.Model {
	m, err := uniax.NewInit("elastic", uniax.Prms{&uniax.Prm{N: "E", V: E}})
	if err != nil {
		chk.Panic("cannot allocate elastic law: %v", err)
	}
	return m
}

// Container holds section templates by name
type Container struct {
	names []string
	m     map[string]*RCSection
}

// NewContainer returns an empty container
func NewContainer() *Container {
	return &Container{m: make(map[string]*RCSection)}
}

// Add appends a template; names must be unique
func (o *Container) Add(s *RCSection) error {
	if s == nil || s.Name == "" {
		return chk.Err("section template must have a name")
	}
	if _, ok := o.m[s.Name]; ok {
		return chk.Err("section %q is already in the container", s.Name)
	}
	o.names = append(o.names, s.Name)
	o.m[s.Name] = s
	return nil
}

// Get returns a template by name
func (o *Container) Get(name string) (s *RCSection, ok bool) {
	s, ok = o.m[name]
	return
}

// Names returns the names in insertion order
func (o *Container) Names() []string { return append([]string{}, o.names...) }

// Distribution maps elements to the sections checked at each gauss point
type Distribution struct {
	Sections map[int][]string `json:"sections"` // element tag => section names (one per gauss point)
	Dims     map[int]int      `json:"dims"`     // element tag => 1 (beam), 2 (shell) or 3 (solid)
	c        *Container
}

// NewDistribution returns a distribution borrowing templates from c
func NewDistribution(c *Container) *Distribution {
	return &Distribution{make(map[int][]string), make(map[int]int), c}
}

// Assign sets the sections of an element
func (o *Distribution) Assign(elemTag, dim int, names ...string) error {
	if dim < 1 || dim > 3 {
		return chk.Err("element %d: dimension must be 1, 2 or 3; %d given", elemTag, dim)
	}
	if len(names) == 0 {
		return chk.Err("element %d: at least one section is required", elemTag)
	}
	for _, n := range names {
		if _, ok := o.c.Get(n); !ok {
			return chk.Err("element %d: section %q is not in the container", elemTag, n)
		}
	}
	o.Sections[elemTag] = append([]string{}, names...)
	o.Dims[elemTag] = dim
	return nil
}

// Lookup returns the template of an element at a gauss point
func (o *Distribution) Lookup(elemTag, gp int) (s *RCSection, ok bool) {
	names, ok := o.Sections[elemTag]
	if !ok || gp < 0 || gp >= len(names) {
		return nil, false
	}
	return o.c.Get(names[gp])
}

// Dim returns the dimension of an element
func (o *Distribution) Dim(elemTag int) (d int, ok bool) {
	d, ok = o.Dims[elemTag]
	return
}

// Tags returns the sorted element tags
func (o *Distribution) Tags() (tags []int) {
	for t := range o.Sections {
		tags = append(tags, t)
	}
	sort.Ints(tags)
	return
}

// Container returns the borrowed container
func (o *Distribution) Container() *Container { return o.c }
