package toc

// MarkerKind identifies a recognised comment marker.
type MarkerKind int

const (
	MarkerTOCStart MarkerKind = iota + 1
	MarkerTOFStart
	MarkerFigure
	MarkerEnd
	MarkerBodyStart
)

// String returns the marker name used in logs and tests.
func (k MarkerKind) String() string {
	switch k {
	case MarkerTOCStart:
		return "toc-start"
	case MarkerTOFStart:
		return "tof-start"
	case MarkerFigure:
		return "figure"
	case MarkerEnd:
		return "end"
	case MarkerBodyStart:
		return "body-start"
	default:
		return "unknown"
	}
}

// Marker is a tagged line position. Title is only set for figures.
type Marker struct {
	Kind  MarkerKind
	Index int
	Title string
}

// Scan is the result of one pass over a document.
type Scan struct {
	// Lines has one classification per input line.
	Lines []Line
	// Markers lists every marker in document order.
	Markers []Marker
}

// Scan classifies every line and collects markers in document order.
// Lines for which skip returns true are treated as plain text; skip may be
// nil.
func (s *Syntax) Scan(lines []string, skip func(int) bool) *Scan {
	out := &Scan{Lines: make([]Line, len(lines))}

	for i, raw := range lines {
		if skip != nil && skip(i) {
			out.Lines[i] = Line{Kind: KindPlain}
			continue
		}

		line := s.Classify(raw)
		out.Lines[i] = line

		switch line.Kind {
		case KindRegionStart:
			kind := MarkerTOCStart
			if line.Region == RegionTOF {
				kind = MarkerTOFStart
			}
			out.Markers = append(out.Markers, Marker{Kind: kind, Index: i})
		case KindRegionEnd:
			out.Markers = append(out.Markers, Marker{Kind: MarkerEnd, Index: i})
		case KindBodyStart:
			out.Markers = append(out.Markers, Marker{Kind: MarkerBodyStart, Index: i})
		case KindFigure:
			out.Markers = append(out.Markers, Marker{Kind: MarkerFigure, Index: i, Title: line.Title})
		case KindPlain, KindHeading, KindCaption:
		}
	}

	return out
}
