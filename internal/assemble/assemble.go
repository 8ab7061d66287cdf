// Package assemble composes a project's notes, article bodies and
// bibliography into one ordered document ready for rendering.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/dgallion1/wikibinder/internal/cite"
	"github.com/dgallion1/wikibinder/internal/ir"
	"github.com/dgallion1/wikibinder/internal/project"
)

// SectionKind identifies the origin of a section.
type SectionKind string

const (
	KindNotes        SectionKind = "notes"
	KindArticle      SectionKind = "article"
	KindBibliography SectionKind = "bibliography"
)

// Section is one logical block of the assembled document. Sections are
// ordered: notes first (if present), then articles in project order,
// then the bibliography (if requested).
type Section struct {
	Kind  SectionKind
	Title string
	Body  string // HTML fragment
}

// ArticleFetchError marks the article whose content could not be
// retrieved. The whole export fails fast on it: a partially assembled
// document would silently omit content.
type ArticleFetchError struct {
	Title string
	Err   error
}

func (e *ArticleFetchError) Error() string {
	return fmt.Sprintf("fetch article %q: %v", e.Title, e.Err)
}

func (e *ArticleFetchError) Unwrap() error { return e.Err }

// ArticleFetcher returns the body HTML for a title, from cache or
// network. Injected so exports never know where content comes from.
type ArticleFetcher func(ctx context.Context, title string) (string, error)

// Options carries the resolved export configuration relevant to
// assembly.
type Options struct {
	IncludeBibliography bool
	CitationStyle       cite.Style
	CustomCitations     []cite.Citation
}

// Assembler builds section lists for a project.
type Assembler struct {
	FetchArticle ArticleFetcher
	Bibliography *cite.Formatter
	Log          *slog.Logger
}

// notesMarkdown renders project notes. Notes are accepted as Markdown;
// hard wraps keep the plain-text case intact (every newline becomes an
// explicit line break).
var notesMarkdown = goldmark.New(
	goldmark.WithRendererOptions(ghtml.WithHardWraps()),
)

// Assemble produces the ordered section list for a project. Articles
// are fetched sequentially in project order; the first failure aborts
// with an ArticleFetchError.
func (a *Assembler) Assemble(ctx context.Context, p *project.Project, opts Options) ([]Section, error) {
	var sections []Section

	if strings.TrimSpace(p.Notes) != "" {
		var buf bytes.Buffer
		if err := notesMarkdown.Convert([]byte(p.Notes), &buf); err != nil {
			// Fall back to the raw text; notes must never block an export.
			buf.Reset()
			buf.WriteString("<p>")
			buf.WriteString(strings.ReplaceAll(html.EscapeString(p.Notes), "\n", "<br>"))
			buf.WriteString("</p>")
		}
		sections = append(sections, Section{
			Kind:  KindNotes,
			Title: "Project Notes",
			Body:  buf.String(),
		})
	}

	for _, title := range p.Articles {
		body, err := a.FetchArticle(ctx, title)
		if err != nil {
			return nil, &ArticleFetchError{Title: title, Err: err}
		}
		sections = append(sections, Section{
			Kind:  KindArticle,
			Title: title,
			Body:  body,
		})
	}

	if opts.IncludeBibliography && a.Bibliography != nil {
		frag := a.Bibliography.Generate(ctx, p.Articles, opts.CustomCitations, opts.CitationStyle)
		if frag != "" {
			sections = append(sections, Section{
				Kind:  KindBibliography,
				Title: "Bibliography",
				Body:  frag,
			})
		}
	}

	return sections, nil
}

// CombinedHTML joins sections into one HTML string. Every section gets
// its title as a top-level heading; section boundaries after the first
// are marked with the hard break sentinel renderers translate into
// page breaks.
func CombinedHTML(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString(ir.BreakSentinel)
		}
		if s.Title != "" {
			b.WriteString("<h1>")
			b.WriteString(html.EscapeString(s.Title))
			b.WriteString("</h1>")
		}
		b.WriteString(s.Body)
	}
	return b.String()
}
