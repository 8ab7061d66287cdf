// Package ir defines the format-neutral intermediate representation of a
// rich-text document. The HTML parser produces IR blocks; every renderer
// consumes them without re-deriving structure or nested styles.
package ir

// BlockType identifies the kind of a block-level node.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockListItem  BlockType = "list_item"
	BlockLineBreak BlockType = "line_break"
	// BlockPageBreak is a hard section boundary. The parser emits it for
	// the assembler's break sentinel; renderers translate it into their
	// native "force a new page" construct.
	BlockPageBreak BlockType = "page_break"
)

// Block is one block-level node of the document.
type Block struct {
	Type    BlockType `json:"type"`
	Level   int       `json:"level,omitempty"`   // headings only, 1..6
	Ordered bool      `json:"ordered,omitempty"` // list items only
	Runs    []Run     `json:"runs,omitempty"`
}

// Run is a span of inline content with fully resolved formatting.
// A non-empty Href makes the run a hyperlink; Bold/Italic are already
// flattened from the source markup, so renderers never inspect ancestry.
type Run struct {
	Text   string `json:"text"`
	Href   string `json:"href,omitempty"`
	Bold   bool   `json:"bold,omitempty"`
	Italic bool   `json:"italic,omitempty"`
	Break  bool   `json:"break,omitempty"` // explicit line break inside a block
}

// Heading builds a heading block, clamping out-of-range levels to 1.
func Heading(level int, runs ...Run) Block {
	if level < 1 || level > 6 {
		level = 1
	}
	return Block{Type: BlockHeading, Level: level, Runs: runs}
}

// Paragraph builds a paragraph block.
func Paragraph(runs ...Run) Block {
	return Block{Type: BlockParagraph, Runs: runs}
}

// ListItem builds a single list item block.
func ListItem(ordered bool, runs ...Run) Block {
	return Block{Type: BlockListItem, Ordered: ordered, Runs: runs}
}

// Text returns the concatenated plain text of the block's runs.
func (b Block) Text() string {
	var out string
	for _, r := range b.Runs {
		if r.Break {
			out += "\n"
			continue
		}
		out += r.Text
	}
	return out
}

// IsEmpty reports whether the block carries no visible content.
func (b Block) IsEmpty() bool {
	switch b.Type {
	case BlockLineBreak, BlockPageBreak:
		return false
	}
	for _, r := range b.Runs {
		if r.Break || r.Text != "" {
			return false
		}
	}
	return true
}
