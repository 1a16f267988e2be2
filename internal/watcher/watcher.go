// file: internal/watcher/watcher.go
// version: 1.0.0
// guid: 5c7d9e1f-3a4b-4c8d-0e2f-4a6b8c0d2e3f

package watcher

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// noteExtensions are the file extensions the drop folder accepts.
var noteExtensions = map[string]bool{
	".json":     true,
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// DefaultDebounce is the default settle period before a dropped file is
// picked up. Editors and sync clients often write in several bursts.
const DefaultDebounce = 2 * time.Second

// Callback is invoked after the debounce period with the paths of the note
// files that changed since the last invocation.
type Callback func(paths []string)

// Watcher monitors a drop folder for note files and invokes a callback with
// the settled batch.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	rootDir   string
	debounce  time.Duration
	callback  Callback
	stop      chan struct{}
	stopped   chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	pending map[string]bool
	running bool
}

// New creates a Watcher. Pass 0 for debounce to use DefaultDebounce.
func New(callback Callback, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		debounce: debounce,
		callback: callback,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
		pending:  make(map[string]bool),
	}
}

// Start begins watching rootDir recursively. It is safe to call only once.
func (w *Watcher) Start(rootDir string) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsWatcher = fsw
	w.rootDir = rootDir

	if err := w.addRecursive(rootDir); err != nil {
		fsw.Close()
		return err
	}

	go w.eventLoop()
	return nil
}

// Stop gracefully shuts down the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stop)
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
	}
	<-w.stopped

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
		}
		if d.IsDir() {
			if watchErr := w.fsWatcher.Add(path); watchErr != nil {
				log.Printf("[WARN] watcher: cannot watch %s: %v", path, watchErr)
			}
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[ERROR] watcher: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// New subdirectories get watched too
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.addRecursive(event.Name)
			return
		}
	}

	// Only files landing or finishing a write matter for import
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
		return
	}
	if !IsNoteFile(event.Name) {
		return
	}

	w.mu.Lock()
	w.pending[event.Name] = true
	w.mu.Unlock()
	w.scheduleFlush()
}

func (w *Watcher) scheduleFlush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.timer = nil
		paths := make([]string, 0, len(w.pending))
		for path := range w.pending {
			paths = append(paths, path)
		}
		w.pending = make(map[string]bool)
		w.mu.Unlock()

		// A file can vanish between the event and the flush
		settled := paths[:0]
		for _, path := range paths {
			if _, err := os.Stat(path); err == nil {
				settled = append(settled, path)
			}
		}
		if len(settled) == 0 {
			return
		}

		log.Printf("[INFO] watcher: importing %d dropped note file(s)", len(settled))
		if w.callback != nil {
			w.callback(settled)
		}
	})
}

// IsNoteFile reports whether name has a recognized note file extension.
func IsNoteFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return noteExtensions[ext]
}
