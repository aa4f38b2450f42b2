// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/inr-kit/twps/pkg/cmd/ui"
)

// Watcher reports writes to templates. Directories are watched rather than
// files since editors often replace files instead of writing to them.
type Watcher struct {
	watcher   *fsnotify.Watcher
	templates map[string]string // absolute path -> path as given
	ui        ui.UI
}

func NewWatcher(paths []string, ui ui.UI) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("Creating watcher: %s", err)
	}

	w := &Watcher{watcher: watcher, templates: map[string]string{}, ui: ui}
	dirs := map[string]struct{}{}

	for _, path := range paths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("Resolving template path '%s': %s", path, err)
		}
		w.templates[absPath] = path

		dir := filepath.Dir(absPath)
		if _, found := dirs[dir]; found {
			continue
		}
		dirs[dir] = struct{}{}

		err = watcher.Add(dir)
		if err != nil {
			watcher.Close()
			return nil, fmt.Errorf("Watching directory '%s': %s", dir, err)
		}
	}

	return w, nil
}

// Run calls renderFunc for every change of a template until ctx is done.
// Renders happen one at a time; render errors are reported and do not stop
// watching.
func (w *Watcher) Run(ctx context.Context, renderFunc func(path string) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			path, found := w.templates[absPath]
			if !found {
				continue
			}

			w.ui.Debugf("Template '%s' changed (%s)\n", path, event.Op)

			err = renderFunc(path)
			if err != nil {
				w.ui.Warnf("Warning: %s\n", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.ui.Warnf("Warning: Watching templates: %s\n", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
