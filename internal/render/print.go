package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/dgallion1/wikibinder/internal/ir"
)

// PrintHTML renders the print/PDF path: a standalone HTML document
// whose embedded CSS encodes the layout options. The browser's print
// dialog produces the actual PDF; no server-side PDF binary exists.
func PrintHTML(projectName, assembledHTML string, opts PdfOptions) ([]byte, error) {
	data := printData{
		Title:   projectName,
		Style:   template.CSS(printCSS(projectName, opts)),
		Body:    template.HTML(assembledHTML), // assembled by us, not raw user input
		TOC:     nil,
		ShowTOC: opts.IncludeTOC,
	}
	if opts.IncludeTOC {
		for _, b := range ir.Parse(assembledHTML) {
			if b.Type == ir.BlockHeading && b.Level == 1 {
				data.TOC = append(data.TOC, b.Text())
			}
		}
	}

	var buf bytes.Buffer
	if err := printTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("execute print template: %w", err)
	}
	return buf.Bytes(), nil
}

type printData struct {
	Title   string
	Style   template.CSS
	Body    template.HTML
	TOC     []string
	ShowTOC bool
}

var printTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>
{{if .ShowTOC}}<nav class="toc"><h1>Contents</h1><ol>{{range .TOC}}<li>{{.}}</li>{{end}}</ol></nav>
{{end}}{{.Body}}
</body>
</html>
`))

// printCSS derives the page CSS from the layout options.
func printCSS(projectName string, opts PdfOptions) string {
	var b strings.Builder

	size := "letter"
	if opts.PaperSize == "a4" {
		size = "A4"
	}
	margin := "1in"
	switch opts.Margins {
	case "narrow":
		margin = "0.5in"
	case "wide":
		margin = "1.5in"
	}

	b.WriteString("@page {\n")
	fmt.Fprintf(&b, "  size: %s;\n  margin: %s;\n", size, margin)
	switch opts.HeaderContent {
	case "title":
		fmt.Fprintf(&b, "  @top-center { content: %q; }\n", projectName)
	case "custom":
		fmt.Fprintf(&b, "  @top-center { content: %q; }\n", opts.HeaderCustom)
	}
	switch opts.FooterContent {
	case "pageNumber":
		b.WriteString("  @bottom-center { content: counter(page); }\n")
	case "custom":
		fmt.Fprintf(&b, "  @bottom-center { content: %q; }\n", opts.FooterCustom)
	}
	b.WriteString("}\n")

	font := `"Helvetica Neue", Arial, sans-serif`
	if opts.Typography.FontPair == "classic" {
		font = `Georgia, "Times New Roman", serif`
	}
	fontSize := opts.Typography.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	spacing := opts.LineSpacing
	if spacing <= 0 {
		spacing = 1.15
	}
	fmt.Fprintf(&b, "body { font-family: %s; font-size: %dpt; line-height: %.2f; }\n", font, fontSize, spacing)
	if opts.Layout == "two" {
		b.WriteString("body { column-count: 2; column-gap: 0.3in; }\n")
	}
	b.WriteString("div.page-break { break-after: page; page-break-after: always; }\n")
	b.WriteString("nav.toc { break-after: page; page-break-after: always; }\n")
	b.WriteString("a { color: #0563c1; }\n")
	return b.String()
}
