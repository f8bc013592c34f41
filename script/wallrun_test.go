package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedWallRunRule(t *testing.T) {
	w, err := LoadWallRun("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWallRunScript, w.Name())

	cases := []struct {
		name string
		in   WallRunInputs
		want bool
	}{
		{"running along wall", WallRunInputs{WallContact: true, Speed: 10, InputY: 1}, true},
		{"grounded", WallRunInputs{Grounded: true, WallContact: true, Speed: 10, InputY: 1}, false},
		{"no wall", WallRunInputs{Speed: 10, InputY: 1}, false},
		{"too slow", WallRunInputs{WallContact: true, Speed: 2, InputY: 1}, false},
		{"not pushing forward", WallRunInputs{WallContact: true, Speed: 10}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := w.Evaluate(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, w.Override().Active)
		})
	}
}

func TestOverrideIsStable(t *testing.T) {
	w, err := NewWallRun("always", []byte(`wallrunning := true`))
	require.NoError(t, err)

	o := w.Override()
	_, err = w.Evaluate(WallRunInputs{})
	require.NoError(t, err)
	assert.Same(t, o, w.Override())
	assert.True(t, o.Active)
}

func TestMissingOutputClearsOverride(t *testing.T) {
	w, err := NewWallRun("on", []byte(`wallrunning := true`))
	require.NoError(t, err)
	_, err = w.Evaluate(WallRunInputs{})
	require.NoError(t, err)

	require.NoError(t, w.Reload([]byte(`x := 1`)))
	_, err = w.Evaluate(WallRunInputs{})
	require.ErrorIs(t, err, ErrNoOutput)
	assert.False(t, w.Override().Active)
}

func TestReloadKeepsOldRuleOnCompileError(t *testing.T) {
	w, err := NewWallRun("on", []byte(`wallrunning := true`))
	require.NoError(t, err)

	require.Error(t, w.Reload([]byte(`wallrunning := (`)))
	got, err := w.Evaluate(WallRunInputs{})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestCompileError(t *testing.T) {
	_, err := NewWallRun("bad", []byte(`wallrunning := `))
	require.Error(t, err)
}

func TestLoadMissingScript(t *testing.T) {
	_, err := LoadWallRun("nope.tengo")
	require.Error(t, err)
}
