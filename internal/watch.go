package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// LoadContextFile reads a comparison context from a JSON file.
func LoadContextFile(path string) (*ComparisonContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read context file: %w", err)
	}

	var cc ComparisonContext
	if err := json.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("parse context file: %w", err)
	}
	return &cc, nil
}

// WatchContextFile reloads the comparison context whenever the file
// changes, debouncing bursts of write events, and hands each reloaded
// context to apply. It blocks until ctx is canceled.
func WatchContextFile(ctx context.Context, path string, debounce time.Duration, log *zap.Logger, apply func(ComparisonContext)) error {
	if log == nil {
		log = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if !pending {
				timer.Reset(debounce)
				pending = true
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("context watch error", zap.Error(err))
		case <-timer.C:
			pending = false
			cc, err := LoadContextFile(path)
			if err != nil {
				log.Warn("context reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			apply(*cc)
			log.Info("context reloaded", zap.String("path", path))
		}
	}
}
