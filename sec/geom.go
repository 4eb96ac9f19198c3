// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sec

import (
	"math"

	"github.com/cpmech/gosl/io"
)

// Point holds the local coordinates of a point in the cross-section plane
type Point struct {
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Sub returns o - b
func (o Point) Sub(b Point) Point { return Point{o.Y - b.Y, o.Z - b.Z} }

// Add returns o + b
func (o Point) Add(b Point) Point { return Point{o.Y + b.Y, o.Z + b.Z} }

// Scale returns s * o
func (o Point) Scale(s float64) Point { return Point{s * o.Y, s * o.Z} }

// Dot returns the dot product
func (o Point) Dot(b Point) float64 { return o.Y*b.Y + o.Z*b.Z }

// Cross returns the z-component of the cross product
func (o Point) Cross(b Point) float64 { return o.Y*b.Z - o.Z*b.Y }

// Dist returns the distance between two points
func (o Point) Dist(b Point) float64 { return math.Hypot(o.Y-b.Y, o.Z-b.Z) }

// String returns a compact representation
func (o Point) String() string { return io.Sf("(%g,%g)", o.Y, o.Z) }

// Polygon is a closed polygon given by its vertices. The last vertex is
// implicitly connected to the first one
type Polygon []Point

// NewRectangle returns the counter-clockwise polygon of a b×h rectangle
// centred at the origin; b is measured along y and h along z
func NewRectangle(b, h float64) Polygon {
	return Polygon{{-b / 2, -h / 2}, {b / 2, -h / 2}, {b / 2, h / 2}, {-b / 2, h / 2}}
}

// SignedArea returns the signed area (positive for counter-clockwise polygons)
func (o Polygon) SignedArea() (a float64) {
	n := len(o)
	for i := 0; i < n; i++ {
		a += o[i].Cross(o[(i+1)%n])
	}
	return a / 2
}

// Area returns the area computed with the shoelace formula
func (o Polygon) Area() float64 { return math.Abs(o.SignedArea()) }

// Centroid returns the centroid of the polygon
func (o Polygon) Centroid() (c Point) {
	n := len(o)
	if n == 0 {
		return
	}
	var sa float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := o[i].Cross(o[j])
		sa += cross
		c.Y += (o[i].Y + o[j].Y) * cross
		c.Z += (o[i].Z + o[j].Z) * cross
	}
	if sa == 0 {
		for _, p := range o {
			c = c.Add(p)
		}
		return c.Scale(1.0 / float64(n))
	}
	sa /= 2
	return c.Scale(1.0 / (6 * sa))
}

// Inertia returns the second moments of area about the centroid:
//  Iz = ∫(y-yc)² dA,  Iy = ∫(z-zc)² dA,  Pyz = ∫(y-yc)(z-zc) dA
func (o Polygon) Inertia() (Iy, Iz, Pyz float64) {
	c := o.Centroid()
	n := len(o)
	var syy, szz, syz, sa float64
	for i := 0; i < n; i++ {
		p, q := o[i].Sub(c), o[(i+1)%n].Sub(c)
		cross := p.Cross(q)
		sa += cross
		syy += (p.Y*p.Y + p.Y*q.Y + q.Y*q.Y) * cross
		szz += (p.Z*p.Z + p.Z*q.Z + q.Z*q.Z) * cross
		syz += (p.Y*q.Z + 2*p.Y*p.Z + 2*q.Y*q.Z + q.Y*p.Z) * cross
	}
	s := 1.0
	if sa < 0 {
		s = -1.0
	}
	return s * szz / 12, s * syy / 12, s * syz / 24
}

// Bounds returns the bounding box
func (o Polygon) Bounds() (min, max Point) {
	if len(o) == 0 {
		return
	}
	min, max = o[0], o[0]
	for _, p := range o {
		min.Y, min.Z = math.Min(min.Y, p.Y), math.Min(min.Z, p.Z)
		max.Y, max.Z = math.Max(max.Y, p.Y), math.Max(max.Z, p.Z)
	}
	return
}

// Contains tells whether p is inside the polygon (ray casting)
func (o Polygon) Contains(p Point) (in bool) {
	n := len(o)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := o[i], o[j]
		if (a.Z > p.Z) != (b.Z > p.Z) {
			y := a.Y + (p.Z-a.Z)*(b.Y-a.Y)/(b.Z-a.Z)
			if p.Y < y {
				in = !in
			}
		}
	}
	return
}

// DistanceToBoundary returns the minimum distance from p to the edges
func (o Polygon) DistanceToBoundary(p Point) float64 {
	dmin := math.Inf(1)
	n := len(o)
	for i := 0; i < n; i++ {
		dmin = math.Min(dmin, segmentDist(p, o[i], o[(i+1)%n]))
	}
	return dmin
}

// ClipHalfPlane keeps the part of the polygon where (p - a)·nrm >= 0
func (o Polygon) ClipHalfPlane(a, nrm Point) (res Polygon) {
	n := len(o)
	for i := 0; i < n; i++ {
		p, q := o[i], o[(i+1)%n]
		dp, dq := p.Sub(a).Dot(nrm), q.Sub(a).Dot(nrm)
		if dp >= 0 {
			res = append(res, p)
		}
		if (dp >= 0) != (dq >= 0) {
			t := dp / (dp - dq)
			res = append(res, p.Add(q.Sub(p).Scale(t)))
		}
	}
	return
}

// ClipConvex clips the polygon by a convex counter-clockwise window
// (Sutherland-Hodgman)
func (o Polygon) ClipConvex(window Polygon) (res Polygon) {
	res = o
	n := len(window)
	for i := 0; i < n && len(res) > 0; i++ {
		a, b := window[i], window[(i+1)%n]
		e := b.Sub(a)
		res = res.ClipHalfPlane(a, Point{-e.Z, e.Y})
	}
	return
}

// Offset returns the polygon shrunk (d > 0) or grown (d < 0) by moving each
// edge along its inward normal. Only convex counter-clockwise polygons are
// supported
func (o Polygon) Offset(d float64) (res Polygon) {
	n := len(o)
	type line struct{ p, e Point }
	lines := make([]line, n)
	for i := 0; i < n; i++ {
		a, b := o[i], o[(i+1)%n]
		e := b.Sub(a)
		l := math.Hypot(e.Y, e.Z)
		nrm := Point{-e.Z / l, e.Y / l}
		lines[i] = line{a.Add(nrm.Scale(d)), e}
	}
	for i := 0; i < n; i++ {
		l1, l2 := lines[(i+n-1)%n], lines[i]
		den := l1.e.Cross(l2.e)
		if den == 0 {
			res = append(res, l2.p)
			continue
		}
		t := l2.p.Sub(l1.p).Cross(l2.e) / den
		res = append(res, l1.p.Add(l1.e.Scale(t)))
	}
	return
}

// segmentDist returns the distance from p to segment ab
func segmentDist(p, a, b Point) float64 {
	e := b.Sub(a)
	l2 := e.Dot(e)
	if l2 == 0 {
		return p.Dist(a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(e)/l2))
	return p.Dist(a.Add(e.Scale(t)))
}
