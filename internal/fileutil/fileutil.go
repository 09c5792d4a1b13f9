package fileutil

import (
	"path/filepath"
	"strings"
)

// videoExtensions lists the container extensions treated as video files during
// folder scans. Lowercase, without the leading dot.
var videoExtensions = map[string]struct{}{
	"mp4": {}, "mkv": {}, "avi": {}, "mov": {}, "wmv": {}, "flv": {}, "mpeg": {},
	"mpg": {}, "webm": {}, "m4v": {}, "3gp": {}, "3g2": {}, "asf": {}, "mts": {},
	"m2ts": {}, "ts": {}, "vob": {}, "ogv": {}, "rm": {}, "rmvb": {}, "divx": {},
	"f4v": {}, "mxf": {}, "mp2": {}, "mpv": {}, "dat": {}, "tod": {}, "vro": {},
	"drc": {}, "mng": {}, "qt": {}, "yuv": {}, "viv": {}, "amv": {}, "nsv": {},
	"svi": {}, "mpe": {}, "mpv2": {}, "m2v": {}, "m1v": {}, "m2p": {}, "trp": {},
	"tp": {}, "ps": {}, "evo": {}, "ogm": {}, "ogx": {}, "mod": {}, "rec": {},
	"dvr-ms": {}, "pva": {}, "wtv": {}, "m4p": {}, "m4b": {}, "m4r": {}, "m4a": {},
	"3gpp": {}, "3gpp2": {},
}

// IsVideo reports whether path carries a recognized video container extension.
func IsVideo(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return false
	}
	_, ok := videoExtensions[strings.ToLower(ext)]
	return ok
}

// Stem returns the base filename without its extension, or "" when the path
// has no usable base component.
func Stem(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
