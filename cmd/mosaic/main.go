// Command mosaic streams a reply from the Anthropic Messages API and prints
// it as it arrives, or assembles recorded SSE captures.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... mosaic stream [flags] [prompt...]
//	mosaic replay [flags] 'captures/**/*.sse'
//
// Configuration is read from the environment, after loading an optional
// .env file, and can be overridden with flags:
//
//	ANTHROPIC_API_KEY   API key (required for stream)
//	ANTHROPIC_BASE_URL  API base URL
//	MOSAIC_MODEL        model ID (default: provider default)
//	MOSAIC_MAX_TOKENS   max tokens (default: provider default)
//	MOSAIC_LOG_LEVEL    debug, info, warn, error (default: warn)
//	MOSAIC_FORMAT       text, json, html (default: text)
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mosaic: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(os.Environ(), ".env")
	if err != nil {
		return err
	}

	cmd := newRootCmd(cfg, resolveProvider)
	cmd.SetIn(os.Stdin)
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.ExecuteContext(ctx)
}
