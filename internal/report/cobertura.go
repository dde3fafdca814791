package report

import (
	"encoding/xml"
	"io"

	"github.com/glthr/covrun/internal/model"
)

// CoberturaRenderer writes the subset of the Cobertura XML schema CI
// dashboards (Jenkins, GitLab, Codecov) actually parse: per-package,
// per-class line hit counts and the run's overall line-rate.
type CoberturaRenderer struct{}

type coberturaLine struct {
	Number int `xml:"number,attr"`
	Hits   int `xml:"hits,attr"`
}

type coberturaLines struct {
	Lines []coberturaLine `xml:"line"`
}

type coberturaClass struct {
	Name     string         `xml:"name,attr"`
	Filename string         `xml:"filename,attr"`
	LineRate float64        `xml:"line-rate,attr"`
	Lines    coberturaLines `xml:"lines"`
}

type coberturaPackage struct {
	Name     string           `xml:"name,attr"`
	LineRate float64          `xml:"line-rate,attr"`
	Classes  []coberturaClass `xml:"classes>class"`
}

type coberturaRoot struct {
	XMLName  xml.Name           `xml:"coverage"`
	LineRate float64            `xml:"line-rate,attr"`
	Packages []coberturaPackage `xml:"packages>package"`
}

// Render writes run as Cobertura XML to w. A File becomes a <class> (its
// Path doubles as both name and filename — covrun has no notion of a
// class distinct from a source file); a Module becomes a <package>.
func (r *CoberturaRenderer) Render(w io.Writer, run *model.Run) error {
	root := coberturaRoot{LineRate: run.Rate.Ratio()}
	for _, mod := range run.Modules() {
		pkg := coberturaPackage{Name: mod.Path, LineRate: mod.Rate.Ratio()}
		for _, file := range mod.Files() {
			cls := coberturaClass{Name: file.Path, Filename: file.Path, LineRate: file.Rate.Ratio()}
			for _, line := range file.Lines() {
				hits := 0
				if line.Executed {
					hits = 1
				}
				cls.Lines.Lines = append(cls.Lines.Lines, coberturaLine{Number: int(line.Number), Hits: hits})
			}
			pkg.Classes = append(pkg.Classes, cls)
		}
		root.Packages = append(root.Packages, pkg)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
