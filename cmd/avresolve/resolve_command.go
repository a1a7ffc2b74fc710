package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sydlexius/avresolve/internal/database"
	"github.com/sydlexius/avresolve/internal/normalize"
	"github.com/sydlexius/avresolve/internal/resolver"
)

func newResolveCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Resolve metadata for media files by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configFlag)
			if err != nil {
				return err
			}
			defer a.Close()

			failures := 0
			for _, file := range args {
				if !a.resolveOne(cmd.Context(), cmd, file) {
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d files failed to resolve", failures, len(args))
			}
			return nil
		},
	}
}

// resolveOne runs the pipeline for a single file and journals the outcome.
func (a *app) resolveOne(ctx context.Context, cmd *cobra.Command, file string) bool {
	number, err := a.extractor.Extract(file)
	if err != nil {
		a.logger.Warn("no identifier in filename", slog.String("file", file))
		a.record(ctx, file, "", "", database.StatusSkipped, err.Error())
		cmd.Printf("%s: skipped (no identifier)\n", file)
		return false
	}

	result, err := a.resolver.Resolve(ctx, number, a.sources)
	if err != nil {
		status := database.StatusNotFound
		var drift *resolver.ErrNumberDrift
		if errors.As(err, &drift) {
			status = database.StatusRejected
		}
		a.logger.Warn("resolution failed",
			slog.String("file", file),
			slog.String("number", number),
			slog.String("error", err.Error()))
		a.record(ctx, file, number, "", status, err.Error())
		cmd.Printf("%s: %s\n", file, err.Error())
		return false
	}

	rec, err := a.normalizer.Normalize(ctx, result)
	if err != nil {
		var conflict *normalize.ErrActorConflict
		detail := err.Error()
		if errors.As(err, &conflict) {
			a.logger.Warn("actor alias conflict",
				slog.String("file", file),
				slog.String("raw", conflict.Raw),
				slog.String("resolved", conflict.Resolved))
		}
		a.record(ctx, file, number, string(result.Source), database.StatusRejected, detail)
		cmd.Printf("%s: %s\n", file, detail)
		return false
	}

	a.record(ctx, file, rec.Number, string(rec.Source), database.StatusResolved, rec.NamingRule)
	cmd.Printf("%s -> %s [%s]\n", file, rec.NamingRule, rec.Source)
	return true
}

func (a *app) record(ctx context.Context, file, number, source, status, detail string) {
	err := a.journal.Record(ctx, &database.Resolution{
		RunID:    a.runID,
		Filename: file,
		Number:   number,
		Source:   source,
		Status:   status,
		Detail:   detail,
	})
	if err != nil {
		a.logger.Warn("journal write failed", slog.String("error", err.Error()))
	}
}
