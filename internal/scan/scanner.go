// Package scan walks a directory tree and collects the video files that need
// subtitle work.
package scan

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"subfetch/internal/fileutil"
	"subfetch/internal/logging"
	"subfetch/internal/services"
	"subfetch/internal/subtitlefiles"
)

// Options controls which videos a scan keeps.
type Options struct {
	// Languages are the subtitle languages the caller wants; a video that
	// already has a matching external subtitle file is skipped unless
	// IncludeCovered is set.
	Languages      []string
	IncludeCovered bool
}

// Scanner collects download targets from the filesystem.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner builds a scanner. A nil logger disables logging.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{logger: logger.With(logging.String(logging.FieldComponent, "scan"))}
}

// Run walks root recursively and returns matching video paths in a stable
// order. Unreadable subdirectories are skipped with a warning rather than
// aborting the scan.
func (s *Scanner) Run(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "scan", "stat", "folder not accessible", err)
	}
	if !info.IsDir() {
		if !fileutil.IsVideo(root) {
			return nil, services.Wrap(services.ErrValidation, "scan", "stat", "not a folder or video file", nil)
		}
		if !opts.IncludeCovered && !subtitlefiles.Missing(root, opts.Languages) {
			s.logger.Debug("subtitles already present", logging.String("path", root))
			return nil, nil
		}
		return []string{root}, nil
	}

	var targets []string
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !fileutil.IsVideo(path) {
			return nil
		}
		if !opts.IncludeCovered && !subtitlefiles.Missing(path, opts.Languages) {
			s.logger.Debug("subtitles already present", logging.String("path", path))
			return nil
		}
		targets = append(targets, path)
		return nil
	})
	if walkErr != nil {
		return nil, services.Wrap(services.ErrExternalTool, "scan", "walk", "folder walk failed", walkErr)
	}
	sort.Strings(targets)
	s.logger.Info("scan complete", logging.String("root", root), logging.Int("targets", len(targets)))
	return targets, nil
}
