package prefabs

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

//go:embed *.yaml
var PrefabsFS embed.FS

var (
	dirMu   sync.RWMutex
	diskDir = "prefabs"
)

// SetDir points disk overrides at dir. Files found there win over the
// embedded copies, which is what makes hot reload possible.
func SetDir(dir string) {
	dirMu.Lock()
	defer dirMu.Unlock()
	diskDir = dir
}

// Dir returns the disk override directory.
func Dir() string {
	dirMu.RLock()
	defer dirMu.RUnlock()
	return diskDir
}

func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	clean := cleanPrefabPath(name)
	info, err := os.Stat(diskPrefabPath(clean))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// cleanPrefabPath accepts "player.yaml" or "prefabs/player.yaml".
func cleanPrefabPath(name string) string {
	if name == "" {
		return ""
	}
	s, _ := strings.CutPrefix(filepath.ToSlash(name), "prefabs/")
	return s
}

// cleanScriptPath maps any of "wallrun.tengo", "scripts/wallrun.tengo" or
// "prefabs/scripts/wallrun.tengo" to "scripts/wallrun.tengo".
func cleanScriptPath(name string) string {
	if name == "" {
		return ""
	}
	s := cleanPrefabPath(name)
	s, _ = strings.CutPrefix(s, "scripts/")
	return "scripts/" + s
}

func diskPrefabPath(clean string) string {
	return filepath.Join(Dir(), filepath.FromSlash(clean))
}

// IsScript reports whether a changed path names a script rather than a spec.
func IsScript(path string) bool {
	return isScriptFile(path)
}

// Name converts a watcher path back into the name Load expects.
func Name(path string) string {
	base := filepath.Base(path)
	if isScriptFile(path) {
		return "scripts/" + base
	}
	return base
}
