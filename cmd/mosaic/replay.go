package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/mosaic"
	"github.com/fwojciec/mosaic/anthropic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newReplayCmd(cfg *config) *cobra.Command {
	return &cobra.Command{
		Use:   "replay pattern...",
		Short: "Assemble recorded SSE captures",
		Long: "Replay reads every file matching the glob patterns (** is supported)\n" +
			"as a raw SSE capture, assembles the message it carries and prints it.\n" +
			"Captures that fail to assemble are reported and the rest still run.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			var paths []string
			for _, pattern := range args {
				matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
				if err != nil {
					return fmt.Errorf("glob %q: %w", pattern, err)
				}
				paths = append(paths, matches...)
			}
			if len(paths) == 0 {
				return fmt.Errorf("no captures match %v", args)
			}

			var errs []error
			for _, path := range paths {
				msg, err := replayFile(path, logger)
				if err != nil {
					logger.Error().Err(err).Str("path", path).Msg("replay failed")
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", path)
				if err := writeMessage(cmd.OutOrStdout(), msg, cfg.Format); err != nil {
					return err
				}
				writeSummary(cmd.ErrOrStderr(), msg)
			}
			return errors.Join(errs...)
		},
	}
}

// replayFile assembles the message recorded in the SSE capture at path.
func replayFile(path string, logger zerolog.Logger) (mosaic.ResponseMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return mosaic.ResponseMessage{}, err
	}
	s := anthropic.NewStream(f, logger.With().Str("path", path).Logger())
	return mosaic.Assemble(mosaic.FilterRateLimit(mosaic.All(s)))
}
