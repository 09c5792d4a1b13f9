// Package subtitlefiles locates external subtitle files that sit next to a
// video. Subliminal names its downloads "stem.lang.ext"; manually placed files
// are often just "stem.ext", so both shapes are checked.
package subtitlefiles

import (
	"os"
	"path/filepath"
	"strings"

	"subfetch/internal/fileutil"
)

// Extensions lists the subtitle file extensions recognized on disk, in the
// order candidates are probed.
var Extensions = []string{"srt", "sub", "ssa", "ass", "vtt"}

// FindForVideo returns the subtitle files present next to the video for the
// requested languages. Per-language candidates ("stem.en.srt") are collected
// first, then generic ones ("stem.srt"), without duplicates.
func FindForVideo(videoPath string, langs []string) []string {
	dir := filepath.Dir(videoPath)
	stem := fileutil.Stem(videoPath)

	var found []string
	seen := make(map[string]struct{})
	add := func(candidate string) {
		if _, ok := seen[candidate]; ok {
			return
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			seen[candidate] = struct{}{}
			found = append(found, candidate)
		}
	}

	for _, lang := range langs {
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == "" {
			continue
		}
		for _, ext := range Extensions {
			add(filepath.Join(dir, stem+"."+lang+"."+ext))
		}
	}
	for _, ext := range Extensions {
		add(filepath.Join(dir, stem+"."+ext))
	}
	return found
}

// Missing reports whether the video has no subtitle file on disk for any of
// the requested languages. Used by the scanner to skip already-covered videos.
func Missing(videoPath string, langs []string) bool {
	return len(FindForVideo(videoPath, langs)) == 0
}
