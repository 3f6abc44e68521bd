package render

import (
	"image"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanvasStartsBlank(t *testing.T) {
	c := NewCanvas(4, 2)
	assert.Equal(t, "    \n    ", c.String())
	assert.Equal(t, 0, c.Filled())
	assert.Equal(t, Blank, c.At(-1, 0).Char)
}

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(4, 2)

	assert.True(t, c.Plot(image.Pt(1, 1), Cell{Char: 'a'}, WrapIgnore))
	assert.False(t, c.Plot(image.Pt(4, 0), Cell{Char: 'b'}, WrapIgnore))
	assert.True(t, c.Plot(image.Pt(6, -1), Cell{Char: 'c'}, WrapAround))

	assert.Equal(t, "    \n ac ", c.String())
}

func TestCanvasBlitAndClear(t *testing.T) {
	c := NewCanvas(3, 3)
	pixels := []Pixel{
		{Pos: image.Pt(0, 0), Char: '#', Intensity: 1},
		{Pos: image.Pt(2, 2), Char: '.', Intensity: 0},
		{Pos: image.Pt(9, 9), Char: '@'},
	}

	assert.Equal(t, 2, c.Blit(pixels, WrapIgnore))
	assert.Equal(t, "#  \n   \n  .", c.String())
	assert.Equal(t, 1.0, c.At(0, 0).Intensity)

	c.Clear()
	assert.Equal(t, 0, c.Filled())
	assert.Equal(t, 3, c.Blit(pixels, WrapAround))
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestCanvasStyledMatchesPlainText(t *testing.T) {
	p, err := NewPalette("#303030", "#ffffff")
	require.NoError(t, err)

	c := NewCanvas(5, 2)
	c.Blit([]Pixel{
		{Pos: image.Pt(0, 0), Char: '@', Intensity: 1},
		{Pos: image.Pt(4, 1), Char: '.', Intensity: 0.1},
	}, WrapIgnore)

	styled := c.Styled(p)
	assert.Equal(t, c.String(), ansi.ReplaceAllString(styled, ""))
	assert.Equal(t, 2, strings.Count(c.String(), "\n")+1)
}

func TestNewPaletteRejectsBadColours(t *testing.T) {
	_, err := NewPalette("moo", "#ffffff")
	assert.ErrorContains(t, err, "dim")

	_, err = NewPalette("#000000", "#ff")
	assert.ErrorContains(t, err, "bright")
}
