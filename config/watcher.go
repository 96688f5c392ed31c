package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// settle is how long to wait after a change before reading the file, so
// editors have finished writing it.
const settle = time.Second / 10

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	var config Config
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p := json.NewDecoder(f)
	p.DisallowUnknownFields()
	if err := p.Decode(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log.Infof("Loaded configuration: %v", spew.Sdump(config))
	return &config, nil
}

// Watch emits the configuration at path every time the file changes. Invalid
// configurations are logged and skipped. The channel is closed once ctx is
// done.
//
// The parent directory is watched rather than the file so that editors which
// replace the file, or remove and later recreate it, keep being followed.
func Watch(ctx context.Context, path string) (<-chan *Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	name := filepath.Base(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	out := make(chan *Config)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-watcher.Errors:
				log.Errorf("Error waiting for config change: %v", err)
				continue
			case ev := <-watcher.Events:
				if filepath.Base(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(settle):
			}
			// Drop events raised while the file was being written.
			drain(watcher)

			config, err := Load(path)
			if err != nil {
				log.Errorf("Failed to load new config: %v", err)
				continue
			}
			select {
			case out <- config:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func drain(w *fsnotify.Watcher) {
	for {
		select {
		case <-w.Events:
		default:
			return
		}
	}
}
