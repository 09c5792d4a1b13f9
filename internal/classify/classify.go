// Package classify turns subliminal's free-form output into a terminal job
// outcome. The tool's text is advisory; filesystem state is ground truth, so
// discovered subtitle files dominate every textual claim.
package classify

import (
	"fmt"
	"strings"

	"subfetch/internal/jobs"
	"subfetch/internal/language"
)

// EmbeddedProbe checks whether the target video already carries an embedded
// subtitle stream for one of the requested languages. It returns the display
// name of the matched language and whether a match was found. Probe failures
// are reported as no-match by the implementation.
type EmbeddedProbe func(target string, langs []string) (string, bool)

// Input carries everything the classification depends on. Output must already
// be the case-folded combination of stdout and stderr.
type Input struct {
	Target     string
	Output     string
	FoundFiles int
	Force      bool
	Languages  []string
}

const zeroDownloadedMarker = "downloaded 0 subtitle"

var errorMarkers = []string{"error", "failed"}

// Signatures of subliminal's on-disk provider cache getting corrupted. The
// download itself often succeeded before the cache write blew up, so these
// are treated as recoverable when files made it to disk.
var recoverableCacheSignatures = []string{
	"dbm.error",
	"db type could not be determined",
}

// Phrases subliminal emits when it considers the target already satisfied.
var satisfiedMarkers = []string{
	"embedded",
	"already exists",
	"no need to download",
	"subtitle(s) already present",
	"has embedded subtitles",
	"skipping",
}

// Outcome classifies one finished tool invocation. probe may be nil, in which
// case the embedded check is skipped and only textual markers decide.
func Outcome(in Input, probe EmbeddedProbe) jobs.Outcome {
	switch {
	case strings.Contains(in.Output, zeroDownloadedMarker):
		return classifyZeroDownloaded(in, probe)
	case containsAny(in.Output, errorMarkers):
		return classifyError(in)
	default:
		return jobs.Outcome{Status: jobs.StatusSuccess}
	}
}

func classifyZeroDownloaded(in Input, probe EmbeddedProbe) jobs.Outcome {
	if in.FoundFiles > 0 {
		return jobs.Outcome{Status: jobs.StatusSuccess}
	}
	if in.Force {
		return jobs.Outcome{Status: jobs.StatusFailed, Reason: "no subtitles found online"}
	}
	if probe != nil {
		if name, ok := probe(in.Target, in.Languages); ok {
			return embeddedExists(name)
		}
	}
	if containsAny(in.Output, satisfiedMarkers) {
		return embeddedExists(firstLanguageName(in.Languages))
	}
	return jobs.Outcome{Status: jobs.StatusFailed, Reason: "no subtitles available, embedded or external"}
}

func classifyError(in Input) jobs.Outcome {
	if containsAny(in.Output, recoverableCacheSignatures) {
		if in.FoundFiles > 0 {
			return jobs.Outcome{Status: jobs.StatusSuccess, RecoverableWarning: true}
		}
		return jobs.Outcome{Status: jobs.StatusFailed, Reason: "recoverable cache error, retry later"}
	}
	if in.FoundFiles > 0 {
		return jobs.Outcome{Status: jobs.StatusSuccess}
	}
	return jobs.Outcome{Status: jobs.StatusFailed, Reason: "tool reported error"}
}

func embeddedExists(languageName string) jobs.Outcome {
	return jobs.Outcome{
		Status: jobs.StatusEmbeddedExists,
		Reason: fmt.Sprintf("Embedded %s subtitles already exist (no external subtitles found online)", languageName),
	}
}

func firstLanguageName(langs []string) string {
	if len(langs) == 0 {
		return "requested"
	}
	return language.DisplayName(langs[0])
}

func containsAny(text string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
