package toc

// Region is a paired start/end marker. Start and End are the marker line
// indexes; the replaceable interior is the open range (Start, End).
type Region struct {
	Kind  RegionKind
	Start int
	End   int
}

// Contains reports whether line i lies strictly between the markers.
func (r Region) Contains(i int) bool {
	return i > r.Start && i < r.End
}

// LocateRegions pairs TOC/TOF start markers with end markers.
//
// Each start claims the next end marker after it. Markers between a start
// and its end lie in generated content and are ignored, so regions never
// overlap. Ends without an open start and starts that are never closed are
// ignored. Figure and body-start markers never form regions.
func LocateRegions(markers []Marker) []Region {
	var (
		regions []Region
		open    *Marker
	)

	for i := range markers {
		m := &markers[i]
		switch m.Kind {
		case MarkerTOCStart, MarkerTOFStart:
			if open == nil {
				open = m
			}
		case MarkerEnd:
			if open == nil {
				continue
			}
			kind := RegionTOC
			if open.Kind == MarkerTOFStart {
				kind = RegionTOF
			}
			regions = append(regions, Region{Kind: kind, Start: open.Index, End: m.Index})
			open = nil
		case MarkerFigure, MarkerBodyStart:
		}
	}

	return regions
}

// interior reports whether line i lies inside any region.
func interior(regions []Region, i int) bool {
	for _, r := range regions {
		if r.Contains(i) {
			return true
		}
	}
	return false
}
