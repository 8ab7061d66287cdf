// Package cite formats bibliography entries for compiled documents.
//
// Two entry sources exist: wiki-sourced entries built from externally
// fetched article metadata, and user-defined custom citations. Two
// styles are supported, APA and MLA. Output is an HTML fragment
// compatible with the IR parser, so every renderer picks it up like any
// other section body.
package cite

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

// Style selects the citation format.
type Style string

const (
	StyleAPA Style = "apa"
	StyleMLA Style = "mla"
)

// Metadata describes one wiki article revision, as returned by the
// metadata collaborator. Immutable once fetched.
type Metadata struct {
	PageID     int64
	RevisionID int64
	Touched    time.Time // last-touched timestamp of the cited revision
	Title      string
}

// Citation is a user-defined bibliography entry. Key uniqueness is
// enforced by the settings layer before entries reach this package.
type Citation struct {
	ID     string `json:"id" yaml:"id"`
	Key    string `json:"key" yaml:"key"`
	Author string `json:"author" yaml:"author"`
	Year   string `json:"year" yaml:"year"`
	Title  string `json:"title" yaml:"title"`
	URL    string `json:"url" yaml:"url"`
}

// MetadataFetcher is the batch metadata collaborator. It may return
// fewer entries than requested titles; it must not fail for partial
// misses.
type MetadataFetcher func(ctx context.Context, titles []string) ([]Metadata, error)

// Formatter generates bibliography fragments.
type Formatter struct {
	Fetch MetadataFetcher
	Log   *slog.Logger
}

// ErrorFragment is the placeholder body used when metadata cannot be
// fetched at all. The export as a whole still succeeds.
const ErrorFragment = `<p>Error generating bibliography.</p>`

// Generate formats all wiki-sourced entries (in the order titles was
// given) followed by all custom citations (in their given order) as an
// HTML fragment. A failed metadata fetch degrades to ErrorFragment
// instead of failing the export.
func (f *Formatter) Generate(ctx context.Context, titles []string, custom []Citation, style Style) string {
	var entries []string

	if len(titles) > 0 {
		metas, err := f.Fetch(ctx, titles)
		if err != nil {
			if f.Log != nil {
				f.Log.Warn("bibliography metadata fetch failed", "error", err)
			}
			return ErrorFragment
		}
		byTitle := make(map[string]Metadata, len(metas))
		for _, m := range metas {
			byTitle[m.Title] = m
		}
		for _, title := range titles {
			m, ok := byTitle[title]
			if !ok {
				continue // unresolvable title, skipped
			}
			entries = append(entries, wikiEntry(m, style))
		}
	}

	for _, c := range custom {
		entries = append(entries, customEntry(c, style))
	}

	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString("<p>")
		b.WriteString(e)
		b.WriteString("</p>")
	}
	return b.String()
}

// Permalink builds the versioned article URL used in citations.
func Permalink(title string, revisionID int64) string {
	t := url.QueryEscape(strings.ReplaceAll(title, " ", "_"))
	return fmt.Sprintf("https://en.wikipedia.org/w/index.php?title=%s&oldid=%d", t, revisionID)
}

// wikiEntry formats one article citation. Both styles cite the
// retrieved revision: all dates come from the article's touched
// timestamp, never from the clock, so output stays deterministic.
func wikiEntry(m Metadata, style Style) string {
	link := Permalink(m.Title, m.RevisionID)
	title := html.EscapeString(m.Title)
	if style == StyleMLA {
		date := m.Touched.UTC().Format("2 Jan. 2006")
		return fmt.Sprintf(`&quot;%s.&quot; Wikipedia, The Free Encyclopedia. Wikimedia Foundation, Inc. %s. Web. %s. %s`,
			title, date, date, link)
	}
	date := m.Touched.UTC().Format("January 2, 2006")
	return fmt.Sprintf(`<i>%s</i>. (n.d.). In Wikipedia. Retrieved %s, from %s`, title, date, link)
}

// customEntry formats a user-defined citation, omitting blank fields
// and joining the remaining parts with single spaces.
func customEntry(c Citation, style Style) string {
	var parts []string
	add := func(s string) {
		if s != "" {
			parts = append(parts, s)
		}
	}
	author := html.EscapeString(c.Author)
	title := html.EscapeString(c.Title)
	if style == StyleMLA {
		if author != "" {
			add(author + ".")
		}
		if title != "" {
			add(`&quot;` + title + `.&quot;,`)
		}
		if c.Year != "" {
			add(html.EscapeString(c.Year) + ",")
		}
		if c.URL != "" {
			add(html.EscapeString(c.URL) + ".")
		}
		return strings.Join(parts, " ")
	}
	if author != "" {
		add(author + ".")
	}
	if c.Year != "" {
		add("(" + html.EscapeString(c.Year) + ").")
	}
	if title != "" {
		add("<i>" + title + "</i>.")
	}
	if c.URL != "" {
		add("Retrieved from " + html.EscapeString(c.URL))
	}
	return strings.Join(parts, " ")
}
