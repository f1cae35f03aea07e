package storage

import (
	"io"
	"strings"
	"testing"
)

func TestLocalStore_SaveAndOpen(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	path, size, err := s.Save(42, "report.pdf", strings.NewReader("hello blob"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if size != int64(len("hello blob")) {
		t.Fatalf("unexpected size %d", size)
	}
	if !strings.HasPrefix(path, "ws-42") {
		t.Fatalf("blob should live under the workspace dir, got %q", path)
	}
	if !strings.HasSuffix(path, ".pdf") {
		t.Fatalf("blob should keep the extension, got %q", path)
	}
	if strings.Contains(path, "report") {
		t.Fatalf("blob path must not contain the original name, got %q", path)
	}

	rc, err := s.Open(path)
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "hello blob" {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestLocalStore_UniqueBlobNames(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	a, _, err := s.Save(1, "same.txt", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	b, _, err := s.Save(1, "same.txt", strings.NewReader("b"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if a == b {
		t.Fatalf("two uploads of the same name must not collide: %q", a)
	}
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	for _, path := range []string{"../etc/passwd", "..", "/etc/passwd", "ws-1/../../secret"} {
		if _, err := s.Open(path); err == nil {
			t.Errorf("expected error opening %q", path)
		}
	}
}

func TestLocalStore_RemoveIsIdempotent(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	path, _, err := s.Save(1, "x.bin", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := s.Remove(path); err != nil {
		t.Fatalf("second remove should be a no-op, got %v", err)
	}
}
