package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/weapon"
)

type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	return DecodeComponentSpecOver(raw, zero)
}

// DecodeComponentSpecOver decodes raw on top of base, so keys missing from
// the prefab keep base's values.
func DecodeComponentSpecOver[T any](raw any, base T) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, err
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
}

type BodyComponentSpec struct {
	Width  float64           `yaml:"width"`
	Height float64           `yaml:"height"`
	Mass   float64           `yaml:"mass"`
	Layer  physics.LayerMask `yaml:"layer"`
	Static bool              `yaml:"static"`
}

type CameraComponentSpec struct {
	Offset         Vec3Spec `yaml:"offset"`
	RecoilKick     float64  `yaml:"recoil_kick"`
	RecoilRecovery float64  `yaml:"recoil_recovery"`
}

type HealthComponentSpec struct {
	Health float64 `yaml:"health"`
}

type WallRunComponentSpec struct {
	Script string `yaml:"script"`
}

type AppearanceComponentSpec struct {
	Color *YAMLColor `yaml:"color"`
}

type LineRenderComponentSpec struct {
	Width     float32    `yaml:"width"`
	Color     *YAMLColor `yaml:"color"`
	AntiAlias bool       `yaml:"anti_alias"`
}

type WeaponsComponentSpec struct {
	Initial int      `yaml:"initial"`
	Slots   []string `yaml:"slots"`
}

// WeaponSpec is a standalone weapon prefab referenced from a weapon set.
type WeaponSpec struct {
	Name    string          `yaml:"name"`
	Kind    string          `yaml:"kind"`
	Color   *YAMLColor      `yaml:"color"`
	Hitscan weapon.Settings `yaml:"hitscan"`
}

// LoadWeaponSpec reads a weapon prefab. Hitscan keys not present in the file
// keep their defaults.
func LoadWeaponSpec(filename string) (WeaponSpec, error) {
	spec, err := LoadSpec[struct {
		Name    string     `yaml:"name"`
		Kind    string     `yaml:"kind"`
		Color   *YAMLColor `yaml:"color"`
		Hitscan any        `yaml:"hitscan"`
	}](filename)
	if err != nil {
		return WeaponSpec{}, err
	}
	settings, err := DecodeComponentSpecOver(spec.Hitscan, weapon.DefaultSettings())
	if err != nil {
		return WeaponSpec{}, fmt.Errorf("prefabs: decode hitscan in %s: %w", filename, err)
	}
	out := WeaponSpec{Name: spec.Name, Kind: spec.Kind, Color: spec.Color, Hitscan: settings}
	if out.Kind == "" {
		out.Kind = "hitscan"
	}
	return out, nil
}
