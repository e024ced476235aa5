package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/skillgraph/internal/domain/types"
)

const previewSize = 3

// Summarize prints, per unit, how many roots it has and the titles of the
// easiest few.
func Summarize(w io.Writer, roots []types.UnitRoots) error {
	total := 0
	for _, u := range roots {
		total += len(u.Roots)
	}
	if _, err := fmt.Fprintf(w, "Root skills: %d across %d units\n", total, len(roots)); err != nil {
		return err
	}
	for _, u := range roots {
		titles := make([]string, 0, previewSize)
		for _, n := range u.Roots[:min(previewSize, len(u.Roots))] {
			titles = append(titles, n.Title)
		}
		line := fmt.Sprintf("  %s (%s): %d", u.UnitID, u.UnitName, len(u.Roots))
		if len(titles) > 0 {
			line += " | " + strings.Join(titles, "; ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
