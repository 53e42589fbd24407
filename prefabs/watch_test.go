package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatchedFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"prefabs/camera.yaml", true},
		{"prefabs/tank.yml", true},
		{"prefabs/scripts/bottom_sweeper.tengo", true},
		{"PREFABS/LOUD.YAML", true},
		{"prefabs/notes.txt", false},
		{"prefabs/fish.png", false},
		{"camera.yaml~", false},
	}
	for _, tt := range tests {
		if got := watchedFile(tt.path); got != tt.want {
			t.Fatalf("expected watchedFile(%q) = %v, got %v", tt.path, tt.want, got)
		}
	}
}

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("expected watcher to start, got %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "camera.yaml")
	if err := os.WriteFile(path, []byte("name: edited\n"), 0o644); err != nil {
		t.Fatalf("expected write to succeed, got %v", err)
	}

	select {
	case got := <-w.Events:
		if !strings.HasSuffix(got, "camera.yaml") {
			t.Fatalf("expected the edited spec path, got %q", got)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected an event for the spec edit")
	}
}

func TestWatcherCloseEndsTheStream(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("expected watcher to start, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("expected clean close, got %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("expected second close to be a no-op, got %v", err)
	}

	select {
	case _, ok := <-w.Events:
		if ok {
			t.Fatal("expected no event after close")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("expected the event stream to close")
	}
}
