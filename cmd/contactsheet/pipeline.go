package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contactsheet/internal/config"
	"contactsheet/internal/contacts"
	"contactsheet/internal/history"
	"contactsheet/internal/logging"
	"contactsheet/internal/match"
	"contactsheet/internal/report"
	"contactsheet/internal/services"
	"contactsheet/internal/tags"
)

// pipelineResult carries everything a command needs after the matching
// stage: the loaded directory, the resolved assignments, and the summary.
type pipelineResult struct {
	cfg         *config.Config
	dir         *contacts.Directory
	assignments []match.Assignment
	summary     report.Summary
	started     time.Time
	finished    time.Time
}

// runPipeline loads the contact file, gathers tags, and resolves them.
// Folder tags always participate; photo-embedded tags join in when
// includePhotoTags is set.
func runPipeline(ctx context.Context, cmdCtx *commandContext, includePhotoTags bool) (*pipelineResult, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := cmdCtx.ensureLogger()
	started := time.Now()

	runCtx := services.WithRunID(ctx, started.UTC().Format("20060102-150405"))
	log := logging.WithContext(runCtx, logger)

	dir, err := contacts.Load(cfg.Paths.ContactsFile)
	if err != nil {
		return nil, err
	}
	log.Info("contacts loaded",
		logging.String("path", cfg.Paths.ContactsFile),
		logging.Int("records", dir.Len()))

	batch, err := tags.FromFolders(cfg.Paths.SourceDir, cfg.Organize.PhotoSubdir)
	if err != nil {
		return nil, err
	}
	if includePhotoTags {
		photoTags, err := tags.FromPhotos(cfg.Paths.SourceDir, log)
		if err != nil {
			return nil, err
		}
		batch = append(batch, photoTags...)
	}
	log.Info("tags gathered", logging.Int("tags", len(batch)))

	resolver := match.NewResolver(dir)
	assignments := resolver.ResolveAll(runCtx, batch, cfg.Matching.Workers)
	if err := runCtx.Err(); err != nil {
		return nil, services.Wrap(services.ErrTransient, "match", "resolve", "run cancelled", err)
	}
	summary := report.Summarize(assignments, dir)
	log.Info("matching finished",
		logging.Int("matched_tags", summary.MatchedTags),
		logging.Int("unmatched_tags", len(summary.UnmatchedTags)))

	return &pipelineResult{
		cfg:         cfg,
		dir:         dir,
		assignments: assignments,
		summary:     summary,
		started:     started,
		finished:    time.Now(),
	}, nil
}

// recordHistory persists the run when history is enabled. Failures are
// reported but never abort a run that already produced output.
func recordHistory(ctx context.Context, cmdCtx *commandContext, mode string, result *pipelineResult) {
	if !result.cfg.History.Enabled {
		return
	}
	store, err := history.Open(result.cfg)
	if err != nil {
		cmdCtx.ensureLogger().Warn("history unavailable", logging.Error(err))
		return
	}
	defer store.Close()

	result.finished = time.Now()
	_, err = store.RecordRun(ctx, history.Run{
		Mode:         mode,
		StartedAt:    result.started,
		FinishedAt:   result.finished,
		ContactsFile: result.cfg.Paths.ContactsFile,
		SourceDir:    result.cfg.Paths.SourceDir,
		OutputDir:    result.cfg.Paths.OutputDir,
	}, result.summary, result.assignments)
	if err != nil {
		cmdCtx.ensureLogger().Warn("recording run", logging.Error(err))
	}
}

func describeAssignment(assignment match.Assignment) string {
	if !assignment.Matched() {
		return fmt.Sprintf("%s -> (unmatched)", assignment.Tag.RawLabel)
	}
	names := make([]string, 0, len(assignment.Resolved))
	for _, record := range assignment.Resolved {
		if record.HasAffiliation() {
			names = append(names, fmt.Sprintf("%s (%s)", record.Name, record.Affiliation))
		} else {
			names = append(names, record.Name)
		}
	}
	return fmt.Sprintf("%s -> %s", assignment.Tag.RawLabel, strings.Join(names, ", "))
}
