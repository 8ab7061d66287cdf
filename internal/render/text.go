package render

import (
	"strings"

	"github.com/dgallion1/wikibinder/internal/ir"
)

// PlainText strips all markup from assembled HTML, preserving block
// boundaries as blank lines.
func PlainText(assembledHTML string) string {
	blocks := ir.Parse(assembledHTML)

	var parts []string
	for _, b := range blocks {
		switch b.Type {
		case ir.BlockPageBreak:
			continue // block boundary already is a blank line
		case ir.BlockLineBreak:
			continue
		case ir.BlockListItem:
			if text := strings.TrimSpace(b.Text()); text != "" {
				parts = append(parts, "- "+text)
			}
		default:
			if text := strings.TrimSpace(b.Text()); text != "" {
				parts = append(parts, text)
			}
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}
