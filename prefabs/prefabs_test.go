package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/grapplefps/motor"
	"github.com/milk9111/grapplefps/physics"
	"github.com/milk9111/grapplefps/weapon"
)

func TestEmbeddedPrefabsParse(t *testing.T) {
	for _, name := range []string{"player.yaml", "target.yaml"} {
		t.Run(name, func(t *testing.T) {
			spec, err := LoadEntityBuildSpec(name)
			require.NoError(t, err)
			assert.NotEmpty(t, spec.Name)
			assert.NotEmpty(t, spec.Components)
		})
	}
}

func TestLoadLevelSpec(t *testing.T) {
	level, err := LoadLevelSpec("arena.yaml")
	require.NoError(t, err)
	assert.Equal(t, "player.yaml", level.Player)
	assert.NotEmpty(t, level.Boxes)
	assert.Len(t, level.Props, 3)
	require.NotNil(t, level.Bounds)
	for _, b := range level.Boxes {
		assert.NotZero(t, b.Layer)
	}
}

func TestLoadWeaponSpecKeepsDefaults(t *testing.T) {
	spec, err := LoadWeaponSpec("launcher.yaml")
	require.NoError(t, err)
	assert.Equal(t, "hitscan", spec.Kind)
	assert.True(t, spec.Hitscan.SelfPropel)
	assert.False(t, spec.Hitscan.Mask.Has(physics.LayerPlayer))

	grapple, err := LoadWeaponSpec("grapple_gun.yaml")
	require.NoError(t, err)
	assert.Equal(t, "grapple", grapple.Kind)
	assert.Equal(t, weapon.DefaultSettings(), grapple.Hitscan)
}

func TestDecodeComponentSpecOver(t *testing.T) {
	raw := map[string]any{"max_speed": 30, "ground_mask": []any{"ground"}}
	s, err := DecodeComponentSpecOver(raw, motor.DefaultSettings())
	require.NoError(t, err)

	want := motor.DefaultSettings()
	want.MaxSpeed = 30
	assert.Equal(t, want, s)

	same, err := DecodeComponentSpecOver(nil, motor.DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, motor.DefaultSettings(), same)
}

func TestVec3Spec(t *testing.T) {
	v, err := DecodeComponentSpec[TransformComponentSpec](map[string]any{"position": []any{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, Vec3Spec{1, 2, 0}, v.Position)

	_, err = DecodeComponentSpec[TransformComponentSpec](map[string]any{"position": []any{1}})
	assert.Error(t, err)
}

func TestCleanScriptPath(t *testing.T) {
	cases := map[string]string{
		"wallrun.tengo":                 "scripts/wallrun.tengo",
		"scripts/wallrun.tengo":         "scripts/wallrun.tengo",
		"prefabs/scripts/wallrun.tengo": "scripts/wallrun.tengo",
	}
	for in, want := range cases {
		assert.Equal(t, want, cleanScriptPath(in), in)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	prev := Dir()
	SetDir(dir)
	t.Cleanup(func() { SetDir(prev) })

	_, ok := ModTime("target.yaml")
	assert.False(t, ok)

	src := "name: target\ncomponents:\n  health:\n    health: 99\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target.yaml"), []byte(src), 0o644))

	spec, err := LoadEntityBuildSpec("prefabs/target.yaml")
	require.NoError(t, err)
	h, err := DecodeComponentSpec[HealthComponentSpec](spec.Components["health"])
	require.NoError(t, err)
	assert.Equal(t, 99.0, h.Health)

	_, ok = ModTime("target.yaml")
	assert.True(t, ok)
}

func TestName(t *testing.T) {
	assert.Equal(t, "target.yaml", Name(filepath.Join("prefabs", "target.yaml")))
	assert.Equal(t, "scripts/wallrun.tengo", Name(filepath.Join("prefabs", "scripts", "wallrun.tengo")))
	assert.True(t, IsScript("x/wallrun.tengo"))
	assert.False(t, IsScript("x/player.yaml"))
}

func TestWatcherReportsPrefabChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	path := filepath.Join(dir, "player.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: player\n"), 0o644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, Change{Path: path, Name: "player.yaml"}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("no watcher event")
	}
}

func TestWatcherFollowsScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "scripts"), 0o755))
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, []string{dir, filepath.Join(dir, "scripts")}, w.Dirs())

	path := filepath.Join(dir, "scripts", "wallrun.tengo")
	require.NoError(t, os.WriteFile(path, []byte("wallrunning := false\n"), 0o644))

	select {
	case got := <-w.Changes:
		assert.Equal(t, "scripts/wallrun.tengo", got.Name)
		assert.True(t, got.Script)
	case <-time.After(5 * time.Second):
		t.Fatal("no watcher event")
	}
}

func TestChangeForFiltersEvents(t *testing.T) {
	cases := []struct {
		name  string
		event fsnotify.Event
		ok    bool
	}{
		{"yaml write", fsnotify.Event{Name: "p/target.yaml", Op: fsnotify.Write}, true},
		{"script create", fsnotify.Event{Name: "p/scripts/a.tengo", Op: fsnotify.Create}, true},
		{"chmod only", fsnotify.Event{Name: "p/target.yaml", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "p/readme.md", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := changeFor(tc.event)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, open := <-w.Changes
	assert.False(t, open)
}
