package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestLocal(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func writeObject(t *testing.T, s FileStore, path, data string) {
	t.Helper()
	w, err := s.Write(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
}

func readObject(t *testing.T, s FileStore, path string) string {
	t.Helper()
	r, err := s.Read(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return string(got)
}

func TestLocal_WriteAndRead(t *testing.T) {
	s := newTestLocal(t)
	writeObject(t, s, "a/b/file.txt", "hello, storage")
	if got := readObject(t, s, "a/b/file.txt"); got != "hello, storage" {
		t.Fatalf("got %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "a", "b", "file.txt")); err != nil {
		t.Fatalf("file not at expected location: %v", err)
	}
}

func TestLocal_ReadNotExist(t *testing.T) {
	s := newTestLocal(t)
	_, err := s.Read(context.Background(), "no-such-file")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLocal_WriteVisibleOnlyAfterClose(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	writeObject(t, s, "obj", "old")

	w, err := s.Write(ctx, "obj")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.WriteString(w, "new content"); err != nil {
		t.Fatal(err)
	}
	if got := readObject(t, s, "obj"); got != "old" {
		t.Fatalf("before Close got %q, want old content", got)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if got := readObject(t, s, "obj"); got != "new content" {
		t.Fatalf("after Close got %q", got)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temporary files left behind: %v", entries)
	}
}

func TestLocal_DeleteAndExists(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	writeObject(t, s, "x/y", "1")

	ok, err := s.Exists(ctx, "x/y")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	if err := s.Delete(ctx, "x/y"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := s.Exists(ctx, "x/y"); ok {
		t.Fatal("object still exists after Delete")
	}
	if err := s.Delete(ctx, "x/y"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestLocal_InvalidPath(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	for _, p := range []string{"", "/", "../escape", "a/../../b"} {
		if _, err := s.Write(ctx, p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Write(%q): expected ErrInvalidPath, got %v", p, err)
		}
		if _, err := s.Read(ctx, p); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("Read(%q): expected ErrInvalidPath, got %v", p, err)
		}
	}
}
