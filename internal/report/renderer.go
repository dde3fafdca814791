// Package report renders a finished model.Run to one of the output
// formats spec §6 names: Cobertura XML (for CI ingestion), a standalone
// HTML page (adapted from the teacher's embedded-template pattern in
// internal/delvehelper/templates.go), and plain text (for terminal use).
package report

import (
	"io"

	"github.com/glthr/covrun/internal/model"
)

// Renderer writes one report format for run to w.
type Renderer interface {
	Render(w io.Writer, run *model.Run) error
}

// Format names the supported renderers, matching config.ReportConfig's
// Format field.
type Format string

const (
	FormatCobertura Format = "cobertura"
	FormatHTML      Format = "html"
	FormatText      Format = "text"
)

// New returns the Renderer for format, or an error if format is
// unrecognized.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatCobertura:
		return &CoberturaRenderer{}, nil
	case FormatHTML:
		return NewHTMLRenderer()
	case FormatText:
		return &TextRenderer{}, nil
	default:
		return nil, &UnknownFormatError{Format: format}
	}
}

// UnknownFormatError reports a Format with no registered Renderer.
type UnknownFormatError struct {
	Format Format
}

func (e *UnknownFormatError) Error() string {
	return "report: unknown format " + string(e.Format)
}
