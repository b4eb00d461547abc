package mosaic

import (
	"slices"
	"strings"
)

// Separator joins the text parts of a multi-part content in String.
const Separator = "\n\n"

// Content is a message body. It is either a single plain-text part or an
// ordered list of blocks.
//
// The zero value is an empty single-part content. Pushing a block onto a
// single-part content promotes it, in place, to a multi-part content whose
// first block is a TextBlock carrying the original text. Promotion happens
// at most once; a multi-part content is never demoted.
type Content struct {
	text  string
	parts []Block
	multi bool
}

// SinglePart returns a single-part content holding text.
func SinglePart(text string) Content {
	return Content{text: text}
}

// MultiPart returns a multi-part content holding blocks. With no arguments
// it returns an empty multi-part content.
func MultiPart(blocks ...Block) Content {
	c := Content{multi: true}
	if len(blocks) > 0 {
		c.parts = slices.Clone(blocks)
	}
	return c
}

// IsMultiPart reports whether c holds a list of blocks.
func (c Content) IsMultiPart() bool {
	return c.multi
}

// Text returns the text of a single-part content. The second result is false
// for a multi-part content.
func (c Content) Text() (string, bool) {
	if c.multi {
		return "", false
	}
	return c.text, true
}

// Blocks returns the content as a list of blocks. A single-part content is
// returned as one TextBlock. The returned slice is a copy.
func (c Content) Blocks() []Block {
	if !c.multi {
		return []Block{TextBlock{Text: c.text}}
	}
	return slices.Clone(c.parts)
}

// Len returns the number of blocks in a multi-part content, or 1 for a
// single-part content.
func (c Content) Len() int {
	if !c.multi {
		return 1
	}
	return len(c.parts)
}

// Push appends b, promoting a single-part content to multi-part first.
func (c *Content) Push(b Block) {
	if !c.multi {
		c.parts = []Block{TextBlock{Text: c.text}}
		c.text = ""
		c.multi = true
	}
	c.parts = append(c.parts, b)
}

// Last returns the final block of a multi-part content. It returns false for
// a single-part content or an empty multi-part content.
func (c Content) Last() (Block, bool) {
	if !c.multi || len(c.parts) == 0 {
		return nil, false
	}
	return c.parts[len(c.parts)-1], true
}

// String returns the text of c. For a multi-part content the text blocks are
// joined with Separator and other blocks are skipped.
func (c Content) String() string {
	if !c.multi {
		return c.text
	}
	var texts []string
	for _, b := range c.parts {
		if t, ok := b.(TextBlock); ok {
			texts = append(texts, t.Text)
		}
	}
	return strings.Join(texts, Separator)
}

// clone returns a copy of c that shares no slice with it.
func (c Content) clone() Content {
	c.parts = slices.Clone(c.parts)
	return c
}
