package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// watchModel calls regenerate after the model file changes, once per burst
// of events, until ctx is done. The directory of the model is watched so
// that editors replacing the file by rename are noticed.
func watchModel(ctx context.Context, path string, debounce time.Duration, log *slog.Logger, regenerate func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "resolve model path %s", path)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create file watcher")
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}
	log.Info("watching model", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || !modelEvent(event) {
				continue
			}
			log.Debug("model changed", "file", event.Name, "op", event.Op.String())
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("file watcher error", "error", err)
		case <-timer.C:
			if err := regenerate(); err != nil {
				log.Error("generation failed", "error", err)
				continue
			}
			log.Info("clients regenerated", "model", abs)
		}
	}
}

func modelEvent(e fsnotify.Event) bool {
	return e.Has(fsnotify.Write) || e.Has(fsnotify.Create) || e.Has(fsnotify.Rename)
}
