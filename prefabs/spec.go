package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/grapplefps/common"
	"github.com/milk9111/grapplefps/physics"
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

// Vec3Spec is written as [x, y, z] or [x, y].
type Vec3Spec common.Vec3

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	var parts []float64
	if err := value.Decode(&parts); err != nil {
		return fmt.Errorf("vector must be a list of numbers: %w", err)
	}
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("vector needs 2 or 3 components, got %d", len(parts))
	}
	*v = Vec3Spec{}
	copy(v[:], parts)
	return nil
}

func (v Vec3Spec) MarshalYAML() (any, error) {
	return []float64{v[0], v[1], v[2]}, nil
}

func (v Vec3Spec) Vec3() common.Vec3 {
	return common.Vec3(v)
}

// LevelSpec describes an arena: static boxes, a spawn point, and the prefabs
// to place in it.
type LevelSpec struct {
	Name   string           `yaml:"name"`
	Player string           `yaml:"player"`
	Spawn  Vec3Spec         `yaml:"spawn"`
	Yaw    float64          `yaml:"yaw"`
	Boxes  []BoxSpec        `yaml:"boxes"`
	Props  []PlacementSpec  `yaml:"props"`
	Bounds *LevelBoundsSpec `yaml:"bounds"`
}

type BoxSpec struct {
	Center Vec3Spec          `yaml:"center"`
	Width  float64           `yaml:"width"`
	Height float64           `yaml:"height"`
	Layer  physics.LayerMask `yaml:"layer"`
	Color  *YAMLColor        `yaml:"color"`
}

type PlacementSpec struct {
	Prefab   string   `yaml:"prefab"`
	Position Vec3Spec `yaml:"position"`
}

// LevelBoundsSpec is the kill floor. Bodies below MinY respawn.
type LevelBoundsSpec struct {
	MinY float64 `yaml:"min_y"`
}

func LoadLevelSpec(filename string) (LevelSpec, error) {
	spec, err := LoadSpec[LevelSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Player == "" {
		spec.Player = "player.yaml"
	}
	for i, b := range spec.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			return spec, fmt.Errorf("prefabs: %s: box %d has non-positive size", filename, i)
		}
		if b.Layer == 0 {
			spec.Boxes[i].Layer = physics.LayerGround
		}
	}
	return spec, nil
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

func (c YAMLColor) MarshalYAML() (any, error) {
	if c.Color == nil {
		return "", nil
	}
	n := color.NRGBAModel.Convert(c.Color).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A), nil
}

// ColorOr returns the parsed color or fallback when unset.
func ColorOr(c *YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}
