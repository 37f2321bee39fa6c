package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_EmitsDebouncedCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := New(nil, 50*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, err := w.Watch(ctx, dir)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	path := filepath.Join(dir, "essai.txt")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("Les étoiles brillent.")
	f.WriteString(" La Lune éclaire la nuit.")
	f.Close()
	os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644)

	select {
	case ev := <-events:
		if ev.Path != path {
			t.Errorf("unexpected path %s", ev.Path)
		}
		if ev.Op != Created {
			t.Errorf("expected created, got %s", ev.Op)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}

	select {
	case ev := <-events:
		t.Errorf("expected a single debounced event, got extra %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatch_MissingDir(t *testing.T) {
	w, err := New(nil, 0, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	if _, err := w.Watch(context.Background(), filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	w, err := New([]string{".md"}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	events, err := w.Watch(ctx, t.TempDir())
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
