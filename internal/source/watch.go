package source

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/scoutline/scoutline/pkg/types"
)

// WatchSource consumes candidate drop files from a directory. Existing
// *.json files are drained first; afterwards each newly created file is
// decoded and removed. Next blocks until a candidate arrives, the context
// is done, or the source is closed.
type WatchSource struct {
	dir     string
	watcher *fsnotify.Watcher
	out     chan types.Entity
	closing chan struct{}
	done    chan struct{}
}

// NewWatchSource creates a source for the given drop directory.
func NewWatchSource(dir string) *WatchSource {
	return &WatchSource{
		dir:     dir,
		out:     make(chan types.Entity, 64),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start creates the drop directory if needed and begins watching it.
// Call Close to clean up.
func (ws *WatchSource) Start() error {
	if err := os.MkdirAll(ws.dir, 0o700); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(ws.dir); err != nil {
		_ = w.Close()
		return err
	}
	ws.watcher = w

	go ws.loop()
	log.Printf("source: watching %s for candidate drops", ws.dir)
	return nil
}

// Next returns the next dropped entity. It returns io.EOF after Close once
// every buffered entity has been handed out.
func (ws *WatchSource) Next(ctx context.Context) (types.Entity, error) {
	select {
	case e, ok := <-ws.out:
		if !ok {
			return nil, io.EOF
		}
		return e, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts down the watcher and waits for the pump goroutine to exit.
func (ws *WatchSource) Close() error {
	close(ws.closing)
	if ws.watcher != nil {
		_ = ws.watcher.Close()
		<-ws.done
	}
	return nil
}

func (ws *WatchSource) loop() {
	defer close(ws.done)
	defer close(ws.out)

	ws.drainExisting()

	for {
		select {
		case evt, ok := <-ws.watcher.Events:
			if !ok {
				return
			}
			if evt.Op&fsnotify.Create != 0 && strings.HasSuffix(evt.Name, ".json") {
				ws.processFile(evt.Name)
			}
		case err, ok := <-ws.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("source: watcher error: %v", err)
		}
	}
}

func (ws *WatchSource) drainExisting() {
	entries, err := os.ReadDir(ws.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			ws.processFile(filepath.Join(ws.dir, entry.Name()))
		}
	}
}

func (ws *WatchSource) processFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return // file already consumed by another process
	}
	_ = os.Remove(path)

	entities, err := decodeJSON(path, data)
	if err != nil {
		log.Printf("source: invalid drop file %s: %v", filepath.Base(path), err)
		return
	}
	for _, e := range entities {
		select {
		case ws.out <- e:
		case <-ws.closing:
			return
		}
	}
}
