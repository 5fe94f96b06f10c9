package driver

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/wippyai/witgen/internal/config"
)

// DefaultDebounce is how long Watch waits after the last change before
// regenerating.
const DefaultDebounce = 200 * time.Millisecond

// Watch regenerates targets whenever a WIT or resolve JSON file next to
// their sources changes, until ctx is done. onRun receives the result of
// every regeneration.
func (d *Driver) Watch(ctx context.Context, targets []config.Target, debounce time.Duration, onRun func([]*Outcome, error)) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	dirs := watchDirs(targets)
	if len(dirs) == 0 {
		return errors.WithHint(errors.New("nothing to watch"), "watch mode needs targets with a wit path")
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
	}
	Logger().Info("watching", zap.Strings("dirs", dirs))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			Logger().Debug("change detected", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			fire = time.After(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			Logger().Warn("watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			out, err := d.RunAll(ctx, targets)
			onRun(out, err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".wit", ".json":
		return true
	}
	return false
}

// watchDirs lists the directories holding the targets' WIT sources. A
// source directory is watched with every directory below it, so packages
// under wit/deps/<pkg> are covered; fsnotify watches are not recursive.
func watchDirs(targets []config.Target) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, t := range targets {
		if t.WIT == "" {
			continue
		}
		info, err := os.Stat(t.WIT)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			add(filepath.Dir(t.WIT))
			continue
		}
		err = filepath.WalkDir(t.WIT, func(path string, e fs.DirEntry, err error) error {
			if err != nil {
				Logger().Debug("skipping unreadable path", zap.String("path", path), zap.Error(err))
				return nil
			}
			if e.IsDir() {
				add(path)
			}
			return nil
		})
		if err != nil {
			Logger().Warn("walk wit directory", zap.String("dir", t.WIT), zap.Error(err))
		}
	}
	return dirs
}
