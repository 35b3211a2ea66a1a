package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("debounce_ms = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan Config, 4)
	w, err := Watch(path, func(cfg Config) { changed <- cfg }, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("debounce_ms = 300\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changed:
			if cfg.DebounceMS == 300 {
				return
			}
			// Some platforms deliver an intermediate event; keep waiting.
		case <-deadline:
			t.Fatal("no reload observed within deadline")
		}
	}
}

func TestWatchIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("debounce_ms = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan Config, 4)
	w, err := Watch(path, func(cfg Config) { changed <- cfg }, nil)
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changed:
		t.Errorf("sibling write triggered reload: %+v", cfg)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatchReportsLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(path, []byte("debounce_ms = 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	w, err := Watch(path, func(Config) {}, func(err error) { errs <- err })
	if err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("debounce_ms = [broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-errs:
	case <-time.After(5 * time.Second):
		t.Fatal("no load error observed within deadline")
	}
}
