package cowcam

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
)

// Supervisor compares frames against saved baselines.
type Supervisor struct {
	baselineDir string
	currentDir  string
	tolerance   float64 // fraction of pixels allowed to differ
}

func NewSupervisor(baselineDir, currentDir string) *Supervisor {
	return &Supervisor{
		baselineDir: baselineDir,
		currentDir:  currentDir,
		tolerance:   0.05,
	}
}

// WithTolerance sets the fraction of pixels that may differ, 0 to 1.
func (s *Supervisor) WithTolerance(tolerance float64) *Supervisor {
	s.tolerance = tolerance
	return s
}

// Validate compares name.png in the current directory with its baseline.
// When they differ by more than the tolerance it writes name_diff.png next
// to the current frame and returns an error.
func (s *Supervisor) Validate(name string) error {
	baseline, err := LoadPNG(filepath.Join(s.baselineDir, name+".png"))
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	current, err := LoadPNG(filepath.Join(s.currentDir, name+".png"))
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	difference := Difference(baseline, current)
	if difference <= s.tolerance {
		return nil
	}

	if b := baseline.Bounds(); b == current.Bounds() {
		if err := SavePNG(DiffImage(baseline, current), filepath.Join(s.currentDir, name+"_diff.png")); err != nil {
			return fmt.Errorf("frame %s differs by %.2f%% and the diff could not be saved: %w", name, difference*100, err)
		}
	}
	return fmt.Errorf("frame %s differs by %.2f%% (tolerance %.2f%%)", name, difference*100, s.tolerance*100)
}

// SetBaseline copies a captured frame into the baseline directory as
// name.png.
func (s *Supervisor) SetBaseline(name, framePath string) error {
	if err := os.MkdirAll(s.baselineDir, 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}

	in, err := os.Open(framePath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(filepath.Join(s.baselineDir, name+".png"))
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// Difference is the fraction of pixels that differ between a and b. Images
// of different sizes differ completely.
func Difference(a, b image.Image) float64 {
	bounds := a.Bounds()
	if bounds != b.Bounds() {
		return 1
	}
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	different := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if !sameColor(a.At(x, y), b.At(x, y)) {
				different++
			}
		}
	}
	return float64(different) / float64(total)
}

// DiffImage marks differing pixels red and dims the rest.
func DiffImage(baseline, current image.Image) *image.RGBA {
	bounds := baseline.Bounds()
	diff := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			base := baseline.At(x, y)
			if !sameColor(base, current.At(x, y)) {
				diff.Set(x, y, color.RGBA{255, 0, 0, 255})
				continue
			}
			r, g, b, a := base.RGBA()
			diff.Set(x, y, color.RGBA{uint8(r >> 9), uint8(g >> 9), uint8(b >> 9), uint8(a >> 8)})
		}
	}
	return diff
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
