// Package export drives the whole pipeline for one export invocation:
// assemble the project snapshot, render the requested format, hand back
// the finished artifact. Rendering completes fully in memory before any
// bytes leave this package, so a failed export never produces a partial
// file.
package export

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/project"
	"github.com/dgallion1/wikibinder/internal/render"
	"github.com/dgallion1/wikibinder/internal/settings"
)

// Exporter runs exports. Each call gets its own project snapshot and
// resolved settings; there is no shared mutable builder state, so
// concurrent exports cannot corrupt each other.
type Exporter struct {
	Assembler *assemble.Assembler
	Log       *slog.Logger
}

// Export assembles and renders one project. Article fetches happen
// sequentially in project order; the first failure aborts with an
// assemble.ArticleFetchError and nothing is rendered.
func (e *Exporter) Export(ctx context.Context, p *project.Project, format render.Format, cfg settings.Settings) (*render.Output, error) {
	start := time.Now()

	sections, err := e.Assembler.Assemble(ctx, p, assemble.Options{
		IncludeBibliography: cfg.IncludeBibliography,
		CitationStyle:       cfg.CitationStyle,
		CustomCitations:     cfg.CustomCitations,
	})
	if err != nil {
		return nil, err
	}

	out, err := render.Render(format, p, sections, cfg.Pdf)
	if err != nil {
		return nil, err
	}

	if e.Log != nil {
		e.Log.Info("export complete",
			"project", p.Name,
			"format", string(format),
			"sections", len(sections),
			"bytes", len(out.Data),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return out, nil
}
