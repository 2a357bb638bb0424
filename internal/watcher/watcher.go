// Package watcher reports debounced changes to the local storage database,
// so a running TUI picks up keywords saved from another process.
package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"recworklist/internal/log"
	"recworklist/internal/pubsub"
)

// Watcher monitors a set of files in one directory and signals once per
// burst of writes.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	names     []string
	debounce  time.Duration
	broker    *pubsub.Broker[Change]
	done      chan struct{}
}

// Change names the files written during one debounce window.
type Change struct {
	Files []string
}

// Config holds watcher configuration options.
type Config struct {
	// Path is the database file. Its -wal and -journal siblings are watched too.
	Path     string
	Debounce time.Duration
}

// DefaultConfig returns the defaults for watching path.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Debounce: 500 * time.Millisecond,
	}
}

// New creates a watcher for cfg.Path.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watcher: empty path")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig(cfg.Path).Debounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	base := filepath.Base(cfg.Path)
	return &Watcher{
		fsWatcher: fsw,
		dir:       filepath.Dir(cfg.Path),
		names:     []string{base, base + "-wal", base + "-journal"},
		debounce:  cfg.Debounce,
		broker:    pubsub.NewBrokerWithBuffer[Change](1),
		done:      make(chan struct{}),
	}, nil
}

// Broker publishes one ChangedEvent per debounce window. Subscribers that
// have not drained the previous change miss the next one, which is fine for
// a reload trigger.
func (w *Watcher) Broker() *pubsub.Broker[Change] {
	return w.broker
}

// Start begins watching the database directory.
func (w *Watcher) Start() error {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching directory %s: %w", w.dir, err)
	}
	log.Debug(log.CatWatcher, "Watching storage", "dir", w.dir, "debounce", w.debounce)

	go w.loop()
	return nil
}

// Stop terminates the watcher, closes the broker and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	w.broker.Close()
	return w.fsWatcher.Close()
}

func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending []string
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			name, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			if !slices.Contains(pending, name) {
				pending = append(pending, name)
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if len(pending) == 0 {
				continue
			}
			log.Debug(log.CatWatcher, "Storage changed", "files", pending)
			w.broker.Publish(pubsub.ChangedEvent, Change{Files: pending})
			pending = nil

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "Watch error", err, "dir", w.dir)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant reports whether event is a write or create on a watched file.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	name := filepath.Base(event.Name)
	return name, slices.Contains(w.names, name)
}
