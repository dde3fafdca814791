package report

import (
	"embed"
	"html/template"
	"io"

	"github.com/glthr/covrun/internal/model"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// HTMLRenderer writes a single self-contained HTML page, in the same
// go:embed-a-template-directory spirit as the teacher's
// internal/delvehelper/templates.go, swapped from LaTeX fragments to one
// html/template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer parses the embedded template once; the *template.Template
// is safe for concurrent Render calls.
func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/report.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

type rateView struct {
	Covered, Total int
	Percent        float64
}

func newRateView(r model.Rate) rateView {
	return rateView{Covered: r.Covered, Total: r.Total, Percent: r.Ratio() * 100}
}

type fileView struct {
	Path string
	Rate rateView
}

type moduleView struct {
	Path  string
	Rate  rateView
	Files []fileView
}

type runView struct {
	DisplayName string
	ExitCode    int32
	Rate        rateView
	Modules     []moduleView
}

func newRunView(run *model.Run) runView {
	v := runView{DisplayName: run.DisplayName, ExitCode: run.ExitCode, Rate: newRateView(run.Rate)}
	for _, mod := range run.Modules() {
		mv := moduleView{Path: mod.Path, Rate: newRateView(mod.Rate)}
		for _, file := range mod.Files() {
			mv.Files = append(mv.Files, fileView{Path: file.Path, Rate: newRateView(file.Rate)})
		}
		v.Modules = append(v.Modules, mv)
	}
	return v
}

func (r *HTMLRenderer) Render(w io.Writer, run *model.Run) error {
	return r.tmpl.Execute(w, newRunView(run))
}
