// Package ffprobe provides a typed wrapper around ffprobe's subtitle-stream
// JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing subtitle streams
//   - Stream: individual subtitle stream with its language tag
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns a parsed Result
//   - EmbeddedLanguage: probes a video for an embedded subtitle matching one
//     of the requested languages
package ffprobe
