package scheduler

import (
	"context"
	"errors"

	"subfetch/internal/classify"
	"subfetch/internal/jobs"
	"subfetch/internal/logging"
	"subfetch/internal/media/ffprobe"
	"subfetch/internal/services"
	"subfetch/internal/subliminal"
	"subfetch/internal/subtitlefiles"
)

// runJob executes the fetch pipeline for one target and writes exactly one
// terminal status. The store lock is never held across the tool invocation.
func (p *Pool) runJob(ctx context.Context, store *jobs.Store, token *Token, i int, opts Options) {
	target := store.Target(i)
	ctx = services.WithTarget(ctx, target)
	logger := logging.WithContext(ctx, p.logger)

	if token.Cancelled() || ctx.Err() != nil {
		store.Complete(i, jobs.Outcome{Status: jobs.StatusFailed, Reason: jobs.CancelledReason}, nil)
		return
	}
	if !store.MarkRunning(i) {
		return
	}

	result, err := p.runner.Run(ctx, subliminal.Request{
		Target:    target,
		Languages: opts.Languages,
		Force:     opts.Force,
		CacheDir:  opts.CacheDir,
	})
	if err != nil {
		reason := "subtitle tool not runnable"
		if !errors.Is(err, services.ErrLaunch) {
			reason = "tool reported error"
		}
		logger.Error("tool invocation failed", logging.Error(err))
		store.Complete(i, jobs.Outcome{Status: jobs.StatusFailed, Reason: reason}, nil)
		return
	}

	found := subtitlefiles.FindForVideo(target, opts.Languages)
	outcome := classify.Outcome(classify.Input{
		Target:     target,
		Output:     result.Output,
		FoundFiles: len(found),
		Force:      opts.Force,
		Languages:  opts.Languages,
	}, p.embeddedProbe(ctx, opts))

	if outcome.RecoverableWarning {
		logger.Warn("recoverable cache error reported by tool", logging.String("command", result.Command))
	}
	logger.Info("job finished",
		logging.String("status", string(outcome.Status)),
		logging.Int("subtitles", len(found)))
	store.Complete(i, outcome, found)
}

// embeddedProbe returns the configured probe, defaulting to an ffprobe
// subtitle-stream inspection.
func (p *Pool) embeddedProbe(ctx context.Context, opts Options) classify.EmbeddedProbe {
	if p.probe != nil {
		return p.probe
	}
	return func(target string, langs []string) (string, bool) {
		return ffprobe.EmbeddedLanguage(ctx, opts.FFprobeBinary, target, langs)
	}
}
