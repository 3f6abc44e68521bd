package render

// DisplayMode selects how faces are drawn: Wireframe or Illuminated.
type DisplayMode interface {
	culls() bool
}

// Wireframe draws face edges with each face's own glyph.
type Wireframe struct {
	BackfaceCulling bool
}

// Illuminated fills faces, shading each by the lights falling on it.
// Back faces are always culled.
type Illuminated struct {
	Lights []Light
}

func (w Wireframe) culls() bool { return w.BackfaceCulling }

func (Illuminated) culls() bool { return true }
