package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scoutline/scoutline/pkg/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func drain(t *testing.T, src Source) []types.Entity {
	t.Helper()
	var out []types.Entity
	for {
		e, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, e)
	}
}

func TestFileSourceJSONArray(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.json", `[
		{"kind": "person", "id": "p-1", "name": "Ada Park", "headline": "AI infra"},
		{"kind": "company", "id": "c-1", "name": "Vektor", "sector": "devtools"},
		{"kind": "signal", "id": "s-1", "title": "Vektor launches", "signal_kind": "new-company"}
	]`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	defer func() { _ = src.Close() }()

	if src.Len() != 3 {
		t.Fatalf("expected 3 entities, got %d", src.Len())
	}
	entities := drain(t, src)
	if len(entities) != 3 {
		t.Fatalf("expected 3 entities from Next, got %d", len(entities))
	}
	if entities[0].EntityKind() != types.KindPerson || entities[0].EntityID() != "p-1" {
		t.Errorf("entity 0: got %s %s", entities[0].EntityKind(), entities[0].EntityID())
	}
	if entities[1].EntityKind() != types.KindCompany || entities[1].EntityID() != "c-1" {
		t.Errorf("entity 1: got %s %s", entities[1].EntityKind(), entities[1].EntityID())
	}
	if entities[2].EntityKind() != types.KindSignal || entities[2].EntityID() != "s-1" {
		t.Errorf("entity 2: got %s %s", entities[2].EntityKind(), entities[2].EntityID())
	}
}

func TestFileSourceLineDelimited(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.json",
		`{"kind": "person", "id": "p-1", "name": "Ada Park"}

{"kind": "company", "id": "c-1", "name": "Vektor"}
`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	entities := drain(t, src)
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}
}

func TestFileSourceYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.yaml", `
- kind: person
  id: p-1
  name: Ada Park
  highlights:
    - shipped a model serving platform
- kind: company
  id: c-1
  name: Vektor
  tagline: vector databases for everyone
`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	entities := drain(t, src)
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(entities))
	}

	p, ok := entities[0].(*types.Person)
	if !ok {
		t.Fatalf("entity 0: expected *types.Person, got %T", entities[0])
	}
	if len(p.Highlights) != 1 || p.Highlights[0] != "shipped a model serving platform" {
		t.Errorf("highlights did not survive YAML decode: %v", p.Highlights)
	}
}

func TestFileSourceSkipsBadRecords(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.json", `[
		{"kind": "person", "id": "p-1", "name": "Ada Park"},
		{"kind": "starship", "id": "x-1"},
		{"kind": "company", "id": "c-1", "name": "Vektor"}
	]`)

	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	entities := drain(t, src)
	if len(entities) != 2 {
		t.Fatalf("expected bad record to be skipped, got %d entities", len(entities))
	}
	if entities[0].EntityID() != "p-1" || entities[1].EntityID() != "c-1" {
		t.Errorf("unexpected survivors: %s, %s", entities[0].EntityID(), entities[1].EntityID())
	}
}

func TestFileSourceUnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.csv", "id,name\np-1,Ada")
	if _, err := NewFileSource(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFileSourceHonorsContext(t *testing.T) {
	path := writeFile(t, t.TempDir(), "batch.json", `[{"kind": "person", "id": "p-1", "name": "Ada"}]`)
	src, err := NewFileSource(path)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestWatchSourceDrainsExisting(t *testing.T) {
	dir := t.TempDir()

	// Drop files BEFORE starting the watcher
	writeFile(t, dir, "a.json", `{"kind": "person", "id": "p-1", "name": "Ada Park"}`)
	writeFile(t, dir, "b.json", `{"kind": "company", "id": "c-1", "name": "Vektor"}`)

	ws := NewWatchSource(dir)
	if err := ws.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = ws.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		e, err := ws.Next(ctx)
		if err != nil {
			t.Fatalf("Next %d failed: %v", i, err)
		}
		seen[e.EntityID()] = true
	}
	if !seen["p-1"] || !seen["c-1"] {
		t.Errorf("expected both drop files drained, saw %v", seen)
	}

	// Consumed drops are removed from the directory.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected drop files removed, found %d entries", len(entries))
	}
}

func TestWatchSourceReceivesNewDrops(t *testing.T) {
	dir := t.TempDir()

	ws := NewWatchSource(dir)
	if err := ws.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = ws.Close() }()

	// Give fsnotify a moment to register
	time.Sleep(50 * time.Millisecond)

	writeFile(t, dir, "drop.json", `{"kind": "signal", "id": "s-1", "title": "Stealth spin-out", "signal_kind": "spin-out"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	e, err := ws.Next(ctx)
	if err != nil {
		t.Fatalf("Next failed: %v", err)
	}
	if e.EntityID() != "s-1" || e.EntityKind() != types.KindSignal {
		t.Errorf("got %s %s, want signal s-1", e.EntityKind(), e.EntityID())
	}
}

func TestWatchSourceCloseUnblocksNext(t *testing.T) {
	ws := NewWatchSource(t.TempDir())
	if err := ws.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := ws.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := ws.Next(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after Close, got %v", err)
	}
}
