package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	saveFile := filepath.Join(tmpDir, "save.json")
	want := []byte(`{"version":1}`)

	if err := WriteFileAtomic(saveFile, want, 0o600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	data, err := os.ReadFile(saveFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != string(want) {
		t.Errorf("File content mismatch: got %q, want %q", data, want)
	}

	info, err := os.Stat(saveFile)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("File permissions mismatch: got %o, want %o", info.Mode().Perm(), 0o600)
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("Failed to read dir: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "save.json" {
			t.Errorf("Unexpected file in directory: %s", entry.Name())
		}
	}
}

func TestWriteFileAtomicCreatesParent(t *testing.T) {
	t.Parallel()

	saveFile := filepath.Join(t.TempDir(), "nested", "dir", "save.json")
	if err := WriteFileAtomic(saveFile, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if _, err := os.Stat(saveFile); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	saveFile := filepath.Join(t.TempDir(), "save.json")
	if err := WriteFileAtomic(saveFile, []byte("initial"), 0o644); err != nil {
		t.Fatalf("Initial write failed: %v", err)
	}

	updated := []byte("updated content")
	if err := WriteFileAtomic(saveFile, updated, 0o644); err != nil {
		t.Fatalf("Overwrite failed: %v", err)
	}

	data, err := os.ReadFile(saveFile)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	if string(data) != string(updated) {
		t.Errorf("File content mismatch: got %q, want %q", data, updated)
	}
}

func TestWriteFileAtomicParentIsFile(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteFileAtomic(filepath.Join(blocker, "save.json"), []byte("data"), 0o644); err == nil {
		t.Error("Expected error when the parent path is a regular file")
	}
}

func TestReadFileIfExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.json")
	data, ok, err := ReadFileIfExists(path)
	if err != nil || ok || data != nil {
		t.Fatalf("missing file: got data=%q ok=%v err=%v", data, ok, err)
	}

	if err := os.WriteFile(path, []byte("present"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, ok, err = ReadFileIfExists(path)
	if err != nil || !ok || string(data) != "present" {
		t.Fatalf("present file: got data=%q ok=%v err=%v", data, ok, err)
	}
}

func TestRemoveIfExists(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "save.json")
	if err := RemoveIfExists(path); err != nil {
		t.Errorf("removing a missing file should succeed: %v", err)
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
}
