package toc

import (
	"strconv"
	"strings"
)

// Heading is a TOC-eligible heading.
type Heading struct {
	Index  int
	Depth  int
	Text   string
	Anchor string
}

// Figure is a numbered figure annotation.
type Figure struct {
	Number int
	Title  string
	Index  int
}

// GenerateOptions tunes content generation.
type GenerateOptions struct {
	// Newline terminates every generated line. Defaults to "\n".
	Newline string
	// HeadingOffset is the first eligible heading line when the document has
	// neither a body-start marker nor a TOC region.
	HeadingOffset int
	// MaxDepth drops deeper headings from the TOC. Zero keeps all of them.
	MaxDepth int
}

// Content is the generated replacement text for one document.
type Content struct {
	Headings []Heading
	Figures  []Figure
	// TOC and TOF hold terminated lines ready to splice.
	TOC []string
	TOF []string
	// Captions maps a figure annotation line to the caption placed below it.
	Captions map[int]string
}

// Generate builds TOC entries, TOF entries and figure captions from a scan.
// Lines inside regions are generated content and are ignored. Headings and
// figures are processed in document order with fresh per-call counters.
func Generate(scan *Scan, regions []Region, opts GenerateOptions) Content {
	nl := opts.Newline
	if nl == "" {
		nl = "\n"
	}

	from := HeadingStart(scan, regions, opts.HeadingOffset)
	slugs := NewSlugRegistry()
	content := Content{Captions: make(map[int]string)}

	for i, line := range scan.Lines {
		if interior(regions, i) {
			continue
		}

		switch line.Kind {
		case KindHeading:
			if i < from {
				continue
			}
			h := Heading{Index: i, Depth: line.Depth, Text: line.Text, Anchor: slugs.Resolve(line.Text)}
			content.Headings = append(content.Headings, h)
			if opts.MaxDepth > 0 && h.Depth > opts.MaxDepth {
				continue
			}
			content.TOC = append(content.TOC, FormatTOCEntry(h)+nl)
		case KindFigure:
			f := Figure{Number: len(content.Figures) + 1, Title: line.Title, Index: i}
			content.Figures = append(content.Figures, f)
			content.TOF = append(content.TOF, FormatTOFEntry(f)+nl)
			content.Captions[i] = FormatCaption(f) + nl
		case KindPlain, KindRegionStart, KindRegionEnd, KindBodyStart, KindCaption:
		}
	}

	return content
}

// HeadingStart returns the first line index whose headings are eligible.
//
// A body-start marker wins; without one the line after the first TOC start
// marker is used; otherwise offset.
func HeadingStart(scan *Scan, regions []Region, offset int) int {
	for _, m := range scan.Markers {
		if m.Kind == MarkerBodyStart && !interior(regions, m.Index) {
			return m.Index + 1
		}
	}
	for _, r := range regions {
		if r.Kind == RegionTOC {
			return r.Start + 1
		}
	}
	if offset < 0 {
		return 0
	}
	return offset
}

// FormatTOCEntry renders one indented bullet linking to the heading anchor.
func FormatTOCEntry(h Heading) string {
	depth := h.Depth
	if depth < 1 {
		depth = 1
	}
	return strings.Repeat("    ", depth-1) + "* [" + h.Text + "](#" + h.Anchor + ")"
}

// FormatTOFEntry renders one table-of-figures bullet.
func FormatTOFEntry(f Figure) string {
	return "* *Figure " + strconv.Itoa(f.Number) + "*: *" + f.Title + "*"
}

// FormatCaption renders the centred caption placed below an annotation.
func FormatCaption(f Figure) string {
	return `<p align="center"><i>Figure ` + strconv.Itoa(f.Number) + ": " + f.Title + "</i></p>"
}
