package render

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Blank is the glyph of an empty cell.
const Blank = ' '

// Wrapping decides what happens to pixels outside the canvas.
type Wrapping int

const (
	// WrapIgnore drops out-of-bounds pixels.
	WrapIgnore Wrapping = iota
	// WrapAround folds them back in from the opposite edge.
	WrapAround
)

// Cell is one character position in a canvas.
type Cell struct {
	Char      rune
	Intensity float64
}

// Canvas is the fixed-size character grid frames are composited into.
type Canvas struct {
	Width  int
	Height int
	cells  []Cell
}

// NewCanvas returns a blank canvas.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		Width:  width,
		Height: height,
		cells:  make([]Cell, width*height),
	}
	c.Clear()
	return c
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = Cell{Char: Blank}
	}
}

// At returns the cell at x, y. Out of range positions read as blank.
func (c *Canvas) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return Cell{Char: Blank}
	}
	return c.cells[y*c.Width+x]
}

// Plot sets one cell and reports whether it landed on the canvas.
func (c *Canvas) Plot(pos image.Point, cell Cell, wrap Wrapping) bool {
	if c.Width == 0 || c.Height == 0 {
		return false
	}
	if wrap == WrapAround {
		pos.X = ((pos.X % c.Width) + c.Width) % c.Width
		pos.Y = ((pos.Y % c.Height) + c.Height) % c.Height
	}
	if pos.X < 0 || pos.Y < 0 || pos.X >= c.Width || pos.Y >= c.Height {
		return false
	}
	c.cells[pos.Y*c.Width+pos.X] = cell
	return true
}

// Blit draws pixels onto the canvas and returns how many were kept.
func (c *Canvas) Blit(pixels []Pixel, wrap Wrapping) int {
	n := 0
	for _, p := range pixels {
		if c.Plot(p.Pos, Cell{Char: p.Char, Intensity: p.Intensity}, wrap) {
			n++
		}
	}
	return n
}

// Filled counts non-blank cells.
func (c *Canvas) Filled() int {
	n := 0
	for _, cell := range c.cells {
		if cell.Char != Blank {
			n++
		}
	}
	return n
}

// String renders the canvas as plain rows joined by newlines.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Width + 1) * c.Height)
	for y := 0; y < c.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.Width; x++ {
			b.WriteRune(c.cells[y*c.Width+x].Char)
		}
	}
	return b.String()
}

// Styled renders the canvas with each cell coloured by its intensity.
func (c *Canvas) Styled(p Palette) string {
	var b strings.Builder
	for y := 0; y < c.Height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.Width; x++ {
			cell := c.cells[y*c.Width+x]
			if cell.Char == Blank {
				b.WriteRune(Blank)
				continue
			}
			b.WriteString(p.style(cell.Intensity).Render(string(cell.Char)))
		}
	}
	return b.String()
}

const paletteLevels = 16

// Palette colours cells on a gradient from Dim to Bright.
type Palette struct {
	styles [paletteLevels]lipgloss.Style
}

// NewPalette blends between two hex colours in Lab space.
func NewPalette(dim, bright string) (Palette, error) {
	lo, err := colorful.Hex(dim)
	if err != nil {
		return Palette{}, fmt.Errorf("palette dim colour: %w", err)
	}
	hi, err := colorful.Hex(bright)
	if err != nil {
		return Palette{}, fmt.Errorf("palette bright colour: %w", err)
	}

	var p Palette
	for i := range p.styles {
		t := float64(i) / (paletteLevels - 1)
		hex := lo.BlendLab(hi, t).Clamped().Hex()
		p.styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return p, nil
}

func (p Palette) style(intensity float64) lipgloss.Style {
	i := int(math.Round(math.Max(0, math.Min(1, intensity)) * (paletteLevels - 1)))
	return p.styles[i]
}
