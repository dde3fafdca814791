package report

import (
	"fmt"
	"io"

	"github.com/glthr/covrun/internal/model"
)

// TextRenderer writes a terminal-friendly summary: one line per module
// and file with its coverage rate, followed by the run total.
type TextRenderer struct{}

func (r *TextRenderer) Render(w io.Writer, run *model.Run) error {
	if _, err := fmt.Fprintf(w, "%s  (exit %d)\n", run.DisplayName, run.ExitCode); err != nil {
		return err
	}
	for _, mod := range run.Modules() {
		if _, err := fmt.Fprintf(w, "  %s  %.1f%% (%d/%d)\n", mod.Path, mod.Rate.Ratio()*100, mod.Rate.Covered, mod.Rate.Total); err != nil {
			return err
		}
		for _, file := range mod.Files() {
			if _, err := fmt.Fprintf(w, "    %s  %.1f%% (%d/%d)\n", file.Path, file.Rate.Ratio()*100, file.Rate.Covered, file.Rate.Total); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "TOTAL  %.1f%% (%d/%d)\n", run.Rate.Ratio()*100, run.Rate.Covered, run.Rate.Total)
	return err
}
