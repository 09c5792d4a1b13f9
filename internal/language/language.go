package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// displayOverrides keeps the regional variants subliminal users select verbatim,
// where the generic x/text rendering would be too coarse.
var displayOverrides = map[string]string{
	"en-us": "English (US)",
	"en-gb": "English (UK)",
	"fr-ca": "French (Canada)",
	"es-mx": "Spanish (Mexico)",
	"es-es": "Spanish (Spain)",
	"pt-br": "Portuguese (Brazil)",
	"pt-pt": "Portuguese (Portugal)",
	"zh-cn": "Chinese (Simplified)",
	"zh-tw": "Chinese (Traditional)",
	"nl-be": "Dutch (Belgium)",
}

// DisplayName renders a subtitle language code as a human-readable name.
// Unknown codes are returned unchanged.
func DisplayName(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return code
	}
	if name, ok := displayOverrides[normalized]; ok {
		return name
	}
	tag, err := language.Parse(normalized)
	if err != nil {
		return code
	}
	name := display.English.Languages().Name(tag)
	if name == "" {
		return code
	}
	return name
}

// Matches reports whether a container stream language tag satisfies a requested
// code. Stream tags are usually ISO 639-2 ("eng") while requests are ISO 639-1
// ("en"), so an exact match or a prefix match in either direction counts.
func Matches(streamTag, requested string) bool {
	stream := strings.ToLower(strings.TrimSpace(streamTag))
	want := strings.ToLower(strings.TrimSpace(requested))
	if stream == "" || want == "" {
		return false
	}
	if stream == want {
		return true
	}
	// "eng" matches "en"; "en" matches "eng".
	if strings.HasPrefix(stream, want) || strings.HasPrefix(want, stream) {
		return true
	}
	return false
}
