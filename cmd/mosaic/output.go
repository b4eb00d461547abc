package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/mosaic"
	"github.com/fwojciec/mosaic/goldmark"
	mosaicjson "github.com/fwojciec/mosaic/json"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatHTML = "html"
)

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatHTML:
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be text, json or html", format)
	}
}

// writeMessage writes msg to w in the given format.
func writeMessage(w io.Writer, msg mosaic.ResponseMessage, format string) error {
	switch format {
	case formatText:
		_, err := fmt.Fprintln(w, msg.Content.String())
		return err
	case formatJSON:
		data, err := mosaicjson.MarshalMessage(msg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case formatHTML:
		out, err := goldmark.Render(msg.Content)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return validateFormat(format)
	}
}

// writeSummary writes a one-line summary of msg.
func writeSummary(w io.Writer, msg mosaic.ResponseMessage) {
	fmt.Fprintf(w, "[%s] stop=%s in=%d out=%d\n", msg.Model, msg.StopReason, msg.Usage.InputTokens, msg.Usage.OutputTokens)
}
