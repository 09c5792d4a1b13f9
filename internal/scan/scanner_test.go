package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunCollectsVideosRecursively(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.mkv"))
	write(t, filepath.Join(root, "season 1", "e01.mp4"))
	write(t, filepath.Join(root, "season 1", "notes.txt"))

	targets, err := NewScanner(nil).Run(root, Options{Languages: []string{"en"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %v", targets)
	}
}

func TestRunSkipsCoveredVideos(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.mkv"))
	write(t, filepath.Join(root, "a.en.srt"))
	write(t, filepath.Join(root, "b.mkv"))

	targets, err := NewScanner(nil).Run(root, Options{Languages: []string{"en"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(targets) != 1 || filepath.Base(targets[0]) != "b.mkv" {
		t.Fatalf("unexpected targets: %v", targets)
	}
}

func TestRunIncludeCoveredKeepsEverything(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "a.mkv"))
	write(t, filepath.Join(root, "a.en.srt"))

	targets, err := NewScanner(nil).Run(root, Options{Languages: []string{"en"}, IncludeCovered: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("unexpected targets: %v", targets)
	}
}

func TestRunSingleVideoFile(t *testing.T) {
	root := t.TempDir()
	video := filepath.Join(root, "a.mkv")
	write(t, video)

	targets, err := NewScanner(nil).Run(video, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(targets) != 1 || targets[0] != video {
		t.Fatalf("unexpected targets: %v", targets)
	}
}

func TestRunSingleVideoFileCovered(t *testing.T) {
	root := t.TempDir()
	video := filepath.Join(root, "a.mkv")
	write(t, video)
	write(t, filepath.Join(root, "a.en.srt"))

	targets, err := NewScanner(nil).Run(video, Options{Languages: []string{"en"}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(targets) != 0 {
		t.Fatalf("covered video not skipped: %v", targets)
	}

	targets, err = NewScanner(nil).Run(video, Options{Languages: []string{"en"}, IncludeCovered: true})
	if err != nil {
		t.Fatalf("Run with IncludeCovered: %v", err)
	}
	if len(targets) != 1 || targets[0] != video {
		t.Fatalf("unexpected targets: %v", targets)
	}
}

func TestRunRejectsMissingRoot(t *testing.T) {
	if _, err := NewScanner(nil).Run(filepath.Join(t.TempDir(), "nope"), Options{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}
