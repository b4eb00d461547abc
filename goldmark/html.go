// Package goldmark renders assembled message content to HTML using goldmark.
// Text blocks are treated as markdown; tool blocks are rendered as
// preformatted JSON.
package goldmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"

	"github.com/fwojciec/mosaic"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render returns the HTML for c. Blocks are rendered in order.
func Render(c mosaic.Content) (string, error) {
	var buf bytes.Buffer
	for i, b := range c.Blocks() {
		if err := renderBlock(&buf, b); err != nil {
			return "", fmt.Errorf("block %d: %w", i, err)
		}
	}
	return buf.String(), nil
}

// Markdown converts markdown source to HTML.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderBlock(buf *bytes.Buffer, b mosaic.Block) error {
	switch blk := b.(type) {
	case mosaic.TextBlock:
		return md.Convert([]byte(blk.Text), buf)
	case mosaic.ToolUseBlock:
		input, err := json.MarshalIndent(blk.Input, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, "<pre class=\"tool-use\" data-id=\"%s\" data-name=\"%s\"><code>%s</code></pre>\n",
			html.EscapeString(blk.ID), html.EscapeString(blk.Name), html.EscapeString(string(input)))
		return nil
	case mosaic.ToolResultBlock:
		class := "tool-result"
		if blk.IsError {
			class += " error"
		}
		fmt.Fprintf(buf, "<div class=\"%s\" data-tool-use-id=\"%s\">\n", class, html.EscapeString(blk.ToolUseID))
		inner, err := Render(blk.Content)
		if err != nil {
			return err
		}
		buf.WriteString(inner)
		buf.WriteString("</div>\n")
		return nil
	default:
		return fmt.Errorf("unsupported block %T", b)
	}
}
