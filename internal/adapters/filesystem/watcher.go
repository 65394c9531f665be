package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// Watcher implements usecases.Watcher with one select loop that reads raw
// fsnotify events and a debounce timer, folding events arriving within one
// window into a single entities.FilesystemUpdateEvents batch (spec §4.10).
type Watcher struct {
	Debounce time.Duration
}

func NewWatcher(debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	return &Watcher{Debounce: debounce}
}

var _ usecases.Watcher = (*Watcher)(nil)

// pending tracks a path's most recent raw op within the current debounce
// window. created and deleted of the same path within one window cancel out
// before the fold is posted.
type opKind int

const (
	opCreate opKind = iota
	opChange
	opDelete
)

func (w *Watcher) Watch(ctx context.Context, roots []string, broker usecases.Broker) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, root := range roots {
		if err := addRecursive(fsw, root); err != nil {
			return err
		}
	}

	var mu sync.Mutex
	pending := make(map[string]opKind)
	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	timerRunning := false

	flush := func() {
		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		update := entities.FilesystemUpdateEvents{}
		for path, op := range pending {
			switch op {
			case opCreate:
				update.Created = append(update.Created, path)
			case opChange:
				update.Changed = append(update.Changed, path)
			case opDelete:
				update.Deleted = append(update.Deleted, path)
			}
		}
		pending = make(map[string]opKind)
		mu.Unlock()

		_ = broker.SendEngineMsg(ctx, entities.EngineMsg{
			Kind:   entities.EngineMsgFilesystemUpdate,
			Update: update,
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(fsw, event.Name)
				}
			}

			mu.Lock()
			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				// A create cancels a pending delete for the same path
				// (rename-as-delete+create within one window nets to change).
				if prev, ok := pending[event.Name]; ok && prev == opDelete {
					pending[event.Name] = opChange
				} else {
					pending[event.Name] = opCreate
				}
			case event.Op&fsnotify.Remove == fsnotify.Remove, event.Op&fsnotify.Rename == fsnotify.Rename:
				if prev, ok := pending[event.Name]; ok && prev == opCreate {
					delete(pending, event.Name)
				} else {
					pending[event.Name] = opDelete
				}
			case event.Op&fsnotify.Write == fsnotify.Write, event.Op&fsnotify.Chmod == fsnotify.Chmod:
				if _, ok := pending[event.Name]; !ok {
					pending[event.Name] = opChange
				}
			}
			mu.Unlock()

			if !timerRunning {
				timer.Reset(w.Debounce)
				timerRunning = true
			}

		case <-timer.C:
			timerRunning = false
			flush()

		case _, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			// A root that is a single file (the rules script) is watched
			// directly.
			if path == root {
				_ = fsw.Add(path)
			}
			return nil
		}
		if path != root && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		_ = fsw.Add(path)
		return nil
	})
}
