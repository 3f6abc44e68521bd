// Package render turns meshes into character cells and composites them into
// a fixed-size canvas.
package render

import (
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/teranos/polishcow/math3d"
	"github.com/teranos/polishcow/mesh"
)

const (
	// charAspect squashes rows, since terminal cells are about twice as
	// tall as they are wide.
	charAspect = 0.5

	nearPlane = 0.1

	// wireframeChar is used for faces that carry no glyph of their own.
	wireframeChar = '#'
)

// Renderable is anything that can hand over triangles-or-larger polygons in
// model space.
type Renderable interface {
	Geometry() ([]math3d.Vec3, []mesh.Face)
}

// Pixel is one drawn cell produced by a Viewport.
type Pixel struct {
	Pos       image.Point
	Char      rune
	Intensity float64
	Depth     float64
}

// Viewport places objects in front of a camera sitting at the origin and
// looking down +Z.
type Viewport struct {
	Transform math3d.Transform
	FOV       float64 // degrees
	Origin    image.Point
}

// NewViewport returns a viewport for the given transform.
func NewViewport(t math3d.Transform, fov float64, origin image.Point) Viewport {
	return Viewport{Transform: t, FOV: fov, Origin: origin}
}

type projected struct {
	x, y, z float64
}

// Render projects objects into a width x height view and returns the
// visible pixels ordered by row then column. Pixels may fall outside the
// view when Origin pushes objects off screen; the canvas decides what to do
// with them.
func (v Viewport) Render(width, height int, objects []Renderable, mode DisplayMode) ([]Pixel, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render: invalid view size %dx%d", width, height)
	}
	if v.FOV <= 0 || v.FOV >= 180 {
		return nil, fmt.Errorf("render: field of view %.1f out of range", v.FOV)
	}
	if err := v.Transform.Validate(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if mode == nil {
		return nil, fmt.Errorf("render: no display mode")
	}

	r := &raster{
		focal:  float64(width) / 2 / math.Tan(v.FOV/2*math.Pi/180),
		cx:     float64(v.Origin.X) + float64(width)/2,
		cy:     float64(v.Origin.Y) + float64(height)/2,
		clip:   image.Rect(-width, -height, 2*width, 2*height),
		pixels: make(map[image.Point]Pixel),
	}

	for _, obj := range objects {
		vertices, faces := obj.Geometry()
		world := v.Transform.ApplyAll(vertices)

		for _, f := range faces {
			if len(f.Indices) < 3 {
				continue
			}
			corners := make([]math3d.Vec3, len(f.Indices))
			for i, idx := range f.Indices {
				if idx < 0 || idx >= len(world) {
					return nil, fmt.Errorf("render: face refers to vertex %d of %d", idx, len(world))
				}
				corners[i] = world[idx]
			}
			r.face(corners, f.Char, mode)
		}
	}

	return r.sorted(), nil
}

type raster struct {
	focal  float64
	cx, cy float64
	clip   image.Rectangle
	pixels map[image.Point]Pixel
}

func (r *raster) project(p math3d.Vec3) (projected, bool) {
	if p.Z <= nearPlane {
		return projected{}, false
	}
	return projected{
		x: r.cx + p.X/p.Z*r.focal,
		y: r.cy + p.Y/p.Z*r.focal*charAspect,
		z: p.Z,
	}, true
}

func (r *raster) face(corners []math3d.Vec3, char rune, mode DisplayMode) {
	a, b, c := corners[0], corners[1], corners[2]
	normal := b.Sub(a).Cross(c.Sub(a)).Unit()
	center := math3d.Zero
	for _, p := range corners {
		center = center.Add(p)
	}
	center = center.Scale(1 / float64(len(corners)))

	if mode.culls() && normal.Dot(center) >= 0 {
		return
	}

	pts := make([]projected, len(corners))
	for i, p := range corners {
		pp, ok := r.project(p)
		if !ok {
			return
		}
		pts[i] = pp
	}

	switch m := mode.(type) {
	case Illuminated:
		brightness := Brightness(m.Lights, normal, center)
		cell := Pixel{Char: Shade(brightness), Intensity: math.Min(1, brightness)}
		for i := 1; i+1 < len(pts); i++ {
			r.fill(pts[0], pts[i], pts[i+1], cell)
		}
	case Wireframe:
		if char == 0 {
			char = wireframeChar
		}
		cell := Pixel{Char: char, Intensity: 1}
		for i := range pts {
			r.line(pts[i], pts[(i+1)%len(pts)], cell)
		}
	}
}

func (r *raster) plot(x, y int, depth float64, cell Pixel) {
	pt := image.Pt(x, y)
	if !pt.In(r.clip) {
		return
	}
	if prev, ok := r.pixels[pt]; ok && prev.Depth <= depth {
		return
	}
	cell.Pos = pt
	cell.Depth = depth
	r.pixels[pt] = cell
}

// fill rasterises a triangle, sampling each cell at its centre.
func (r *raster) fill(a, b, c projected, cell Pixel) {
	area := edge(a, b, c.x, c.y)
	if math.Abs(area) < 1e-9 {
		r.line(a, b, cell)
		r.line(b, c, cell)
		return
	}

	minX := int(math.Floor(math.Min(a.x, math.Min(b.x, c.x))))
	maxX := int(math.Ceil(math.Max(a.x, math.Max(b.x, c.x))))
	minY := int(math.Floor(math.Min(a.y, math.Min(b.y, c.y))))
	maxY := int(math.Ceil(math.Max(a.y, math.Max(b.y, c.y))))
	minX, maxX = max(minX, r.clip.Min.X), min(maxX, r.clip.Max.X-1)
	minY, maxY = max(minY, r.clip.Min.Y), min(maxY, r.clip.Max.Y-1)

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			r.plot(x, y, w0*a.z+w1*b.z+w2*c.z, cell)
		}
	}
}

// line draws from a to b with Bresenham's algorithm.
func (r *raster) line(a, b projected, cell Pixel) {
	x0, y0 := int(math.Floor(a.x)), int(math.Floor(a.y))
	x1, y1 := int(math.Floor(b.x)), int(math.Floor(b.y))
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	steps := max(dx, -dy)
	errAcc := dx + dy

	for i := 0; ; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		r.plot(x0, y0, a.z+(b.z-a.z)*t, cell)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

func (r *raster) sorted() []Pixel {
	out := make([]Pixel, 0, len(r.pixels))
	for _, p := range r.pixels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Pos.Y != out[j].Pos.Y {
			return out[i].Pos.Y < out[j].Pos.Y
		}
		return out[i].Pos.X < out[j].Pos.X
	})
	return out
}

func edge(a, b projected, x, y float64) float64 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
