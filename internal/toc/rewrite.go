package toc

import (
	"sort"
	"strings"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// LineEdit replaces lines[Start:End] with Replacement. Start == End inserts
// before line Start.
type LineEdit struct {
	Start       int
	End         int
	Replacement []string
}

// ApplyLineEdits returns a new slice with all edits applied.
//
// Offsets refer to the original lines and edits must not overlap. The output
// is assembled front to back from the retained ranges and the replacements,
// so no offset is ever shifted. When a non-empty replacement follows a line
// that lacks a terminator, newline is appended to that line first. The input
// slice is not modified.
func ApplyLineEdits(lines []string, edits []LineEdit, newline string) ([]string, error) {
	if newline == "" {
		newline = "\n"
	}

	sorted := make([]LineEdit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End < sorted[j].End
		}
		return sorted[i].Start < sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(lines) {
			return nil, errors.InternalError("invalid line edit range").
				WithContext("start", e.Start).
				WithContext("end", e.End).
				WithContext("lines", len(lines)).
				Build()
		}
		if i > 0 && e.Start < sorted[i-1].End {
			return nil, errors.InternalError("overlapping line edits").
				WithContext("start", e.Start).
				WithContext("previous_end", sorted[i-1].End).
				Build()
		}
	}

	grow := 0
	for _, e := range sorted {
		grow += len(e.Replacement) - (e.End - e.Start)
	}
	out := make([]string, 0, max(len(lines)+grow, 0))

	cursor := 0
	for _, e := range sorted {
		out = append(out, lines[cursor:e.Start]...)
		if len(e.Replacement) > 0 && len(out) > 0 && !strings.HasSuffix(out[len(out)-1], "\n") {
			out[len(out)-1] += newline
		}
		out = append(out, e.Replacement...)
		cursor = e.End
	}
	out = append(out, lines[cursor:]...)

	return out, nil
}

// Rewrite splices generated content into lines.
//
// Each region interior is replaced by the TOC or TOF entries; the marker
// lines stay so the next run can regenerate them. Each figure annotation
// gets its caption on the following line, replacing a caption left there by
// an earlier run.
func Rewrite(lines []string, scan *Scan, regions []Region, content Content, newline string) ([]string, error) {
	edits := make([]LineEdit, 0, len(regions)+len(content.Figures))

	for _, r := range regions {
		replacement := content.TOC
		if r.Kind == RegionTOF {
			replacement = content.TOF
		}
		edits = append(edits, LineEdit{Start: r.Start + 1, End: r.End, Replacement: replacement})
	}

	for _, f := range content.Figures {
		end := f.Index + 1
		if end < len(scan.Lines) && scan.Lines[end].Kind == KindCaption {
			end++
		}
		edits = append(edits, LineEdit{
			Start:       f.Index + 1,
			End:         end,
			Replacement: []string{content.Captions[f.Index]},
		})
	}

	return ApplyLineEdits(lines, edits, newline)
}
