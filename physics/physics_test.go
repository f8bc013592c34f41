package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLayerMaskYAML(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want LayerMask
	}{
		{"name", "mask: ground", LayerGround},
		{"list", "mask: [ground, grapple]", LayerGround | LayerGrapple},
		{"bits", "mask: 0x6", LayerGround | LayerGrapple},
		{"all", "mask: all", LayerAll},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out struct {
				Mask LayerMask `yaml:"mask"`
			}
			require.NoError(t, yaml.Unmarshal([]byte(tc.src), &out))
			assert.Equal(t, tc.want, out.Mask)
		})
	}
}

func TestLayerMaskYAMLUnknown(t *testing.T) {
	var out struct {
		Mask LayerMask `yaml:"mask"`
	}
	assert.Error(t, yaml.Unmarshal([]byte("mask: lava"), &out))
	assert.Error(t, yaml.Unmarshal([]byte("mask: {a: 1}"), &out))
}
