package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"subfetch/internal/language"
)

// Result represents the parsed subtitle-stream output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
}

// Stream describes a single subtitle stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	Tags      map[string]string `json:"tags"`
}

// LanguageTag returns the stream's language tag, or "" when untagged.
func (s Stream) LanguageTag() string {
	for key, value := range s.Tags {
		if strings.EqualFold(key, "language") {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Inspect executes ffprobe against the provided path and decodes the subtitle
// streams with their language tags.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary,
		"-v", "error", "-hide_banner",
		"-select_streams", "s",
		"-show_entries", "stream=index,codec_name:stream_tags=language",
		"-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	return Parse(output)
}

// Parse decodes a raw ffprobe JSON payload.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// SubtitleStreamCount returns the number of subtitle streams discovered.
func (r Result) SubtitleStreamCount() int {
	return len(r.Streams)
}

// MatchLanguage returns the first requested language that an embedded subtitle
// stream satisfies. Stream tags are matched tolerantly, so a stream tagged
// "eng" satisfies a request for "en".
func (r Result) MatchLanguage(requested []string) (string, bool) {
	for _, want := range requested {
		for _, stream := range r.Streams {
			if language.Matches(stream.LanguageTag(), want) {
				return want, true
			}
		}
	}
	return "", false
}

// EmbeddedLanguage probes a video and reports the display name of the first
// requested language found as an embedded subtitle stream. Probe failures are
// reported as no-match: the caller treats the embedded check as best-effort.
func EmbeddedLanguage(ctx context.Context, binary string, path string, requested []string) (string, bool) {
	result, err := Inspect(ctx, binary, path)
	if err != nil {
		return "", false
	}
	code, ok := result.MatchLanguage(requested)
	if !ok {
		return "", false
	}
	return language.DisplayName(code), true
}
