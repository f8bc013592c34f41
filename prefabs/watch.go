package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Change is one prefab or script file that was written on disk.
type Change struct {
	Path string
	// Name is the form Load and LoadScript accept.
	Name   string
	Script bool
}

// Watcher reports prefab and script files that changed on disk. Changes and
// Errors are closed once Close returns.
type Watcher struct {
	watcher *fsnotify.Watcher
	dirs    []string
	Changes chan Change
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches each dir and its scripts subdirectory when present.
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	var watched []string
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
		watched = append(watched, dir)

		scripts := filepath.Join(dir, "scripts")
		if info, err := os.Stat(scripts); err == nil && info.IsDir() {
			if err := w.Add(scripts); err != nil {
				_ = w.Close()
				return nil, err
			}
			watched = append(watched, scripts)
		}
	}

	watcher := &Watcher{
		watcher: w,
		dirs:    watched,
		Changes: make(chan Change, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Dirs lists every directory being watched.
func (w *Watcher) Dirs() []string {
	return append([]string(nil), w.dirs...)
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Changes)
		close(w.Errors)
		close(w.done)
	}()

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			change, ok := changeFor(event)
			if !ok {
				continue
			}
			now := time.Now()
			if t, seen := last[change.Path]; seen && now.Sub(t) < watchDebounce {
				continue
			}
			last[change.Path] = now
			select {
			case w.Changes <- change:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

func changeFor(event fsnotify.Event) (Change, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return Change{}, false
	}
	script := isScriptFile(event.Name)
	if !script && !isSpecFile(event.Name) {
		return Change{}, false
	}
	return Change{Path: event.Name, Name: Name(event.Name), Script: script}, true
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func isScriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".tengo"
}
