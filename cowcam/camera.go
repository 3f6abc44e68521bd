package cowcam

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Film sets the look of captured frames.
type Film struct {
	Width      int // columns
	Height     int // rows
	Background color.RGBA
	Foreground color.RGBA
	OutputDir  string
}

// DefaultFilm is white on black, large enough for the default view plus a
// status line.
func DefaultFilm(outputDir string) Film {
	return Film{
		Width:      80,
		Height:     24,
		Background: color.RGBA{0, 0, 0, 255},
		Foreground: color.RGBA{255, 255, 255, 255},
		OutputDir:  outputDir,
	}
}

// Cell size for basicfont.Face7x13, with a little leading.
const (
	cellWidth  = 7
	cellHeight = 13
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes terminal escape sequences from s.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// Camera turns terminal views into images.
type Camera struct {
	film Film
	face font.Face
}

func NewCamera(film Film) *Camera {
	return &Camera{film: film, face: basicfont.Face7x13}
}

// Develop draws view onto a new image. Text beyond the film's columns or
// rows is cut off.
func (c *Camera) Develop(view string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.film.Width*cellWidth, c.film.Height*cellHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.film.Background), image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.film.Foreground),
		Face: c.face,
	}
	ascent := c.face.Metrics().Ascent.Ceil()

	for row, line := range strings.Split(StripANSI(view), "\n") {
		if row >= c.film.Height {
			break
		}
		for col, ch := range []rune(line) {
			if col >= c.film.Width {
				break
			}
			if ch == ' ' {
				continue
			}
			drawer.Dot = fixed.P(col*cellWidth, row*cellHeight+ascent)
			drawer.DrawString(string(ch))
		}
	}
	return img
}

// CaptureFrame develops view and saves it as a PNG at path.
func (c *Camera) CaptureFrame(view, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create film directory: %w", err)
		}
	}
	return SavePNG(c.Develop(view), path)
}

// SavePNG encodes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode frame: %w", err)
	}
	return f.Close()
}

// LoadPNG decodes the PNG at path.
func LoadPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
