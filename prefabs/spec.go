package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// StockSpec tunes the falling stock hazard.
type StockSpec struct {
	SpawnY       float64 `yaml:"spawn_y"`
	Acceleration float64 `yaml:"acceleration"`
	Bounce       float64 `yaml:"bounce"`
	BorderWidth  float64 `yaml:"border_width"`
	LabelOffsetY float64 `yaml:"label_offset_y"`
	LabelSize    float64 `yaml:"label_size"`
	Fire         string  `yaml:"fire"`
	Sparks       string  `yaml:"sparks"`
}

func LoadStockSpec() (StockSpec, error) {
	return LoadSpec[StockSpec]("stock.yaml")
}

type PlayerSpec struct {
	Name        string          `yaml:"name"`
	MoveSpeed   float64         `yaml:"move_speed"`
	JumpSpeed   float64         `yaml:"jump_speed"`
	ThrowFrames int             `yaml:"throw_frames"`
	Transform   TransformSpec   `yaml:"transform"`
	Collider    ColliderSpec    `yaml:"collider"`
	Sprite      SpriteSpec      `yaml:"sprite"`
	RenderLayer RenderLayerSpec `yaml:"render_layer"`
}

func LoadPlayerSpec() (PlayerSpec, error) {
	return LoadSpec[PlayerSpec]("player.yaml")
}

type CameraSpec struct {
	LeadX      float64    `yaml:"lead_x"`
	Smoothness float64    `yaml:"smoothness"`
	Background *YAMLColor `yaml:"background"`
}

func LoadCameraSpec() (CameraSpec, error) {
	return LoadSpec[CameraSpec]("camera.yaml")
}

type RenderLayerSpec struct {
	Index int `yaml:"index"`
}

type TransformSpec struct {
	ScaleX float64 `yaml:"scale_x"`
	ScaleY float64 `yaml:"scale_y"`
}

type ColliderSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	OffsetX    float64 `yaml:"offsetX"`
	OffsetY    float64 `yaml:"offsetY"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
}

type SpriteSpec struct {
	Image   string  `yaml:"image"`
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
