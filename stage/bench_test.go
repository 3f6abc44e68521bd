package stage_test

import (
	"testing"

	"github.com/teranos/polishcow/config"
	"github.com/teranos/polishcow/cowcam"
	"github.com/teranos/polishcow/mesh"
	"github.com/teranos/polishcow/stage"
)

// BenchmarkStep measures one advance-render-blit cycle, the work that must
// fit in a frame budget.
func BenchmarkStep(b *testing.B) {
	for _, mode := range []string{"illuminated", "wireframe"} {
		b.Run(mode, func(b *testing.B) {
			cfg := config.Default()
			cfg.Display.Mode = mode
			scene, err := stage.NewScene(cfg)
			if err != nil {
				b.Fatal(err)
			}
			cow, err := mesh.Cow()
			if err != nil {
				b.Fatal(err)
			}
			s := stage.New(scene, cfg.Transform.Build(), cow)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Step()
			}
		})
	}
}

// BenchmarkDirectedFrame includes the harness and View, as a test sees it.
func BenchmarkDirectedFrame(b *testing.B) {
	cfg := config.Default()
	scene, err := stage.NewScene(cfg)
	if err != nil {
		b.Fatal(err)
	}
	cow, err := mesh.Cow()
	if err != nil {
		b.Fatal(err)
	}
	d := cowcam.NewDirector(b, stage.New(scene, cfg.Transform.Build(), cow), stage.FrameMsg{}).Start()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Advance(1)
		_ = d.Model().View()
	}
}
