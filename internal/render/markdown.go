package render

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/dgallion1/wikibinder/internal/ir"
)

// mdConverter is safe for concurrent use; one instance serves all
// exports.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// Markdown converts assembled HTML into CommonMark text. Section break
// sentinels render as horizontal rules.
func Markdown(assembledHTML string) (string, error) {
	// The sentinel div carries no text and would be dropped; a thematic
	// break is its Markdown equivalent.
	withBreaks := strings.ReplaceAll(assembledHTML, ir.BreakSentinel, "<hr>")

	out, err := mdConverter.ConvertString(withBreaks)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out) + "\n", nil
}
