package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(cfg config, newProvider providerFunc) *cobra.Command {
	c := &cfg
	root := &cobra.Command{
		Use:           "mosaic",
		Short:         "Stream and assemble Anthropic Messages API replies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return validateFormat(c.Format)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.APIKey, "api-key", c.APIKey, "API key (overrides ANTHROPIC_API_KEY)")
	flags.StringVar(&c.BaseURL, "base-url", c.BaseURL, "API base URL")
	flags.StringVar(&c.Model, "model", c.Model, "Model ID")
	flags.IntVar(&c.MaxTokens, "max-tokens", c.MaxTokens, "Maximum tokens to generate")
	flags.StringVar(&c.Format, "format", c.Format, "Output format: text, json, html")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")

	root.AddCommand(newStreamCmd(c, newProvider), newReplayCmd(c))
	return root
}
