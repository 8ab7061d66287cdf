// Package render turns an assembled document into the supported output
// formats. Every renderer is a pure transform: identical input produces
// byte-identical output, with no clocks, random ids or map-order
// dependence inside document content.
package render

import (
	"fmt"

	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/project"
)

// Format names one export target.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatDocx     Format = "docx"
	FormatOdt      Format = "odt"
	FormatJSON     Format = "json"
	FormatText     Format = "text"
	FormatPrint    Format = "print" // print/PDF path: standalone HTML with @page CSS
)

// RenderError wraps a format-specific failure. It surfaces as a generic
// "export failed" to callers; a partial file is never produced because
// rendering completes in memory before anything is handed out.
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// PdfOptions is the layout configuration for the print/PDF path. It is
// a fully resolved value; renderers never reach into settings storage.
type PdfOptions struct {
	PaperSize     string     `json:"paper_size" yaml:"paper_size"`         // letter | a4
	Layout        string     `json:"layout" yaml:"layout"`                 // single | two
	Margins       string     `json:"margins" yaml:"margins"`               // normal | narrow | wide
	LineSpacing   float64    `json:"line_spacing" yaml:"line_spacing"`     // 1.15 | 1.5 | 2.0
	HeaderContent string     `json:"header_content" yaml:"header_content"` // none | title | custom
	FooterContent string     `json:"footer_content" yaml:"footer_content"` // none | pageNumber | custom
	HeaderCustom  string     `json:"header_custom,omitempty" yaml:"header_custom,omitempty"`
	FooterCustom  string     `json:"footer_custom,omitempty" yaml:"footer_custom,omitempty"`
	Typography    Typography `json:"typography" yaml:"typography"`
	IncludeTOC    bool       `json:"include_toc" yaml:"include_toc"`
}

// Typography selects the font treatment for the print path.
type Typography struct {
	FontPair string `json:"font_pair" yaml:"font_pair"` // modern | classic
	FontSize int    `json:"font_size" yaml:"font_size"` // points
}

// DefaultPdfOptions returns the layout used when settings carry none.
func DefaultPdfOptions() PdfOptions {
	return PdfOptions{
		PaperSize:     "letter",
		Layout:        "single",
		Margins:       "normal",
		LineSpacing:   1.15,
		HeaderContent: "title",
		FooterContent: "pageNumber",
		Typography:    Typography{FontPair: "modern", FontSize: 12},
	}
}

// Output is one rendered export artifact.
type Output struct {
	Filename string
	MIMEType string
	Data     []byte
}

// formatInfo maps a format to its file extension and MIME type.
var formatInfo = map[Format]struct {
	ext  string
	mime string
}{
	FormatMarkdown: {".md", "text/markdown; charset=utf-8"},
	FormatDocx:     {".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatOdt:      {".odt", "application/vnd.oasis.opendocument.text"},
	FormatJSON:     {".json", "application/json"},
	FormatText:     {".txt", "text/plain; charset=utf-8"},
	FormatPrint:    {".html", "text/html; charset=utf-8"},
}

// ParseFormat validates a format name from the API surface.
func ParseFormat(s string) (Format, error) {
	f := Format(s)
	if _, ok := formatInfo[f]; !ok {
		return "", fmt.Errorf("unsupported export format %q", s)
	}
	return f, nil
}

// Render dispatches to the format-specific renderer and names the
// artifact `<ProjectName>.<ext>`.
func Render(format Format, p *project.Project, sections []assemble.Section, pdf PdfOptions) (*Output, error) {
	info, ok := formatInfo[format]
	if !ok {
		return nil, &RenderError{Format: format, Err: fmt.Errorf("unsupported format")}
	}

	combined := assemble.CombinedHTML(sections)

	var data []byte
	var err error
	switch format {
	case FormatMarkdown:
		var md string
		md, err = Markdown(combined)
		data = []byte(md)
	case FormatDocx:
		data, err = Docx(combined)
	case FormatOdt:
		data, err = Odt(combined)
	case FormatJSON:
		data, err = JSON(p, sections)
	case FormatText:
		data = []byte(PlainText(combined))
	case FormatPrint:
		data, err = PrintHTML(p.Name, combined, pdf)
	}
	if err != nil {
		return nil, &RenderError{Format: format, Err: err}
	}

	return &Output{
		Filename: p.Name + info.ext,
		MIMEType: info.mime,
		Data:     data,
	}, nil
}
