package ffprobe

import "testing"

const samplePayload = `{
  "streams": [
    {"index": 2, "codec_name": "subrip", "tags": {"language": "eng", "title": "English"}},
    {"index": 3, "codec_name": "ass", "tags": {"language": "fre"}},
    {"index": 4, "codec_name": "hdmv_pgs_subtitle"}
  ]
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.SubtitleStreamCount() != 3 {
		t.Fatalf("expected 3 subtitle streams, got %d", result.SubtitleStreamCount())
	}
	if got := result.Streams[0].LanguageTag(); got != "eng" {
		t.Fatalf("unexpected language tag: %q", got)
	}
	if got := result.Streams[2].LanguageTag(); got != "" {
		t.Fatalf("untagged stream produced tag %q", got)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMatchLanguage(t *testing.T) {
	result, err := Parse([]byte(samplePayload))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	// Two-letter request matches the three-letter stream tag.
	code, ok := result.MatchLanguage([]string{"en"})
	if !ok || code != "en" {
		t.Fatalf("expected en match, got %q %v", code, ok)
	}

	// Requested order decides which language wins.
	code, ok = result.MatchLanguage([]string{"fr", "en"})
	if !ok || code != "fr" {
		t.Fatalf("expected fr match, got %q %v", code, ok)
	}

	if _, ok := result.MatchLanguage([]string{"de"}); ok {
		t.Fatal("unexpected match for de")
	}
}

func TestMatchLanguageEmptyResult(t *testing.T) {
	if _, ok := (Result{}).MatchLanguage([]string{"en"}); ok {
		t.Fatal("empty result must not match")
	}
}
