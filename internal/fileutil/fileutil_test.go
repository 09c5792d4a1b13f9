package fileutil

import "testing"

func TestIsVideo(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/library/movie.mkv", true},
		{"/library/movie.MKV", true},
		{"show.s01e02.mp4", true},
		{"clip.dvr-ms", true},
		{"notes.txt", false},
		{"archive.srt", false},
		{"noext", false},
	}
	for _, tc := range cases {
		if got := IsVideo(tc.path); got != tc.want {
			t.Fatalf("IsVideo(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestStem(t *testing.T) {
	if got := Stem("/library/Movie (2021).mkv"); got != "Movie (2021)" {
		t.Fatalf("unexpected stem: %q", got)
	}
	if got := Stem("plain"); got != "plain" {
		t.Fatalf("unexpected stem: %q", got)
	}
	if got := Stem("."); got != "" {
		t.Fatalf("expected empty stem, got %q", got)
	}
}
