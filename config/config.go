// Package config loads polishcow's settings. Embedded defaults are always
// applied first; an optional YAML file named by POLISHCOW_CONFIG is laid over
// them after being checked against an embedded JSON schema.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/teranos/polishcow/math3d"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable holding an override file path.
const EnvConfig = "POLISHCOW_CONFIG"

//go:embed default.yaml
var defaultYAML []byte

//go:embed schema.json
var schemaJSON string

const schemaURL = "https://github.com/teranos/polishcow/config/schema.json"

var schema = jsonschema.MustCompileString(schemaURL, schemaJSON)

type Vec3 [3]float64

func (v Vec3) Vec() math3d.Vec3 {
	return math3d.V(v[0], v[1], v[2])
}

type Config struct {
	FPS       int       `yaml:"fps"`
	View      View      `yaml:"view"`
	Camera    Camera    `yaml:"camera"`
	Transform Transform `yaml:"transform"`
	Display   Display   `yaml:"display"`
	Lights    []Light   `yaml:"lights"`
	Dance     Dance     `yaml:"dance"`
	Audio     Audio     `yaml:"audio"`
}

type View struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Camera struct {
	FOV    float64 `yaml:"fov"`
	Origin [2]int  `yaml:"origin"`
}

type Transform struct {
	Position Vec3 `yaml:"position"`
	Rotation Vec3 `yaml:"rotation"`
	Scale    Vec3 `yaml:"scale"`
}

// Build converts the configured values into a math3d.Transform.
func (t Transform) Build() math3d.Transform {
	return math3d.NewTRS(t.Position.Vec(), t.Rotation.Vec(), t.Scale.Vec())
}

type Display struct {
	Mode            string    `yaml:"mode"`
	BackfaceCulling bool      `yaml:"backface_culling"`
	Color           bool      `yaml:"color"`
	Palette         [2]string `yaml:"palette"`
	Status          bool      `yaml:"status"`
}

// Light is a light source; Vector is a position for point lights and a
// direction for directional ones.
type Light struct {
	Type      string  `yaml:"type"`
	Intensity float64 `yaml:"intensity"`
	Vector    Vec3    `yaml:"vector"`
}

type Dance struct {
	Mode     string  `yaml:"mode"`
	SpinRate float64 `yaml:"spin_rate"` // radians per frame in spin mode
}

type Audio struct {
	Track      string  `yaml:"track"`
	Volume     float64 `yaml:"volume"`
	SampleRate int     `yaml:"sample_rate"`
}

// FrameDuration is the time budget of one frame.
func (c Config) FrameDuration() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return c
}

// Parse validates data and lays it over the defaults.
func Parse(data []byte) (Config, error) {
	c := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return c, nil
	}
	if err := Validate(data); err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Load reads and parses the file at path. An empty path yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("config: %w", err)
	}
	c, err := Parse(raw)
	if err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// FromEnv loads the file named by EnvConfig, if any.
func FromEnv() (Config, error) {
	return Load(os.Getenv(EnvConfig))
}

// Validate checks a YAML document against the config schema.
func Validate(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Round-trip through JSON so the validator sees JSON types only.
	js, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(js))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
