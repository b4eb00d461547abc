package main

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/fwojciec/mosaic"
	"github.com/fwojciec/mosaic/anthropic"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// providerFunc builds the provider for a stream command.
type providerFunc func(cfg config, logger zerolog.Logger) (mosaic.Provider, error)

// resolveProvider constructs the Anthropic client. The API key comes from
// cfg; env is only read in run.
func resolveProvider(cfg config, logger zerolog.Logger) (mosaic.Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not set (use --api-key flag or environment variable)")
	}
	opts := []anthropic.Option{anthropic.WithLogger(logger)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}
	return anthropic.New(cfg.APIKey, opts...), nil
}

func newStreamCmd(cfg *config, newProvider providerFunc) *cobra.Command {
	var system string
	cmd := &cobra.Command{
		Use:   "stream [prompt...]",
		Short: "Stream a reply and print it as it arrives",
		Long: "Stream sends the prompt, read from the arguments or stdin, and prints\n" +
			"the reply text as it arrives. Rate-limit and overload notices are\n" +
			"skipped. With --format json or html the assembled message is printed\n" +
			"once the stream ends.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}
			prompt, err := readPrompt(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			p, err := newProvider(*cfg, logger)
			if err != nil {
				return err
			}
			req := mosaic.Request{
				Model:     cfg.Model,
				System:    system,
				MaxTokens: cfg.MaxTokens,
				Messages:  []mosaic.Message{{Role: mosaic.RoleUser, Content: mosaic.SinglePart(prompt)}},
			}
			return runStream(cmd, p, req, cfg.Format)
		},
	}
	cmd.Flags().StringVar(&system, "system", "", "System prompt")
	return cmd
}

func runStream(cmd *cobra.Command, p mosaic.Provider, req mosaic.Request, format string) error {
	s, err := p.Stream(cmd.Context(), req)
	if err != nil {
		return err
	}

	var acc mosaic.Accumulator
	events := mosaic.FilterRateLimit(accumulate(mosaic.All(s), &acc))
	out := cmd.OutOrStdout()

	if format == formatText {
		for text, err := range mosaic.Text(events) {
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
		}
		fmt.Fprintln(out)
	} else {
		for _, err := range events {
			if err != nil {
				return err
			}
		}
	}

	msg := acc.Message()
	if !acc.Complete() {
		return fmt.Errorf("%w: %s", mosaic.ErrIncompleteMessage, msg.ID)
	}
	if format != formatText {
		if err := writeMessage(out, msg, format); err != nil {
			return err
		}
	}
	writeSummary(cmd.ErrOrStderr(), msg)
	return nil
}

// accumulate feeds every event of seq to acc on its way through. An
// accumulation error is yielded in place of the event and ends the
// sequence.
func accumulate(seq iter.Seq2[mosaic.Event, error], acc *mosaic.Accumulator) iter.Seq2[mosaic.Event, error] {
	return func(yield func(mosaic.Event, error) bool) {
		for evt, err := range seq {
			if err == nil {
				if err := acc.Apply(evt); err != nil {
					yield(nil, err)
					return
				}
			}
			if !yield(evt, err) {
				return
			}
		}
	}
}

// readPrompt joins args, or reads stdin when there are none.
func readPrompt(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read prompt: %w", err)
	}
	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", errors.New("empty prompt")
	}
	return prompt, nil
}
