package toc

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// Markers holds the inner tokens of the recognised comment markers.
type Markers struct {
	TOC    string   // table of contents start, e.g. "ts"
	TOF    string   // table of figures start, e.g. "tfs"
	End    []string // region end, e.g. "te"
	Figure string   // figure annotation tag, e.g. "fig_x"
	Body   string   // body start, e.g. "tb"
}

// DefaultMarkers returns the stock marker tokens.
func DefaultMarkers() Markers {
	return Markers{
		TOC:    "ts",
		TOF:    "tfs",
		End:    []string{"te", "end"},
		Figure: "fig_x",
		Body:   "tb",
	}
}

// LineKind classifies a single document line.
type LineKind int

const (
	KindPlain LineKind = iota
	KindHeading
	KindFigure
	KindRegionStart
	KindRegionEnd
	KindBodyStart
	// KindCaption is an inline figure caption emitted by a previous run.
	KindCaption
)

// String returns the kind name used in logs and test failures.
func (k LineKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindHeading:
		return "heading"
	case KindFigure:
		return "figure"
	case KindRegionStart:
		return "region-start"
	case KindRegionEnd:
		return "region-end"
	case KindBodyStart:
		return "body-start"
	case KindCaption:
		return "caption"
	default:
		return "unknown"
	}
}

// RegionKind distinguishes the two replaceable region types.
type RegionKind int

const (
	RegionTOC RegionKind = iota + 1
	RegionTOF
)

// String returns the region name used in logs and tests.
func (k RegionKind) String() string {
	switch k {
	case RegionTOC:
		return "toc"
	case RegionTOF:
		return "tof"
	default:
		return "unknown"
	}
}

// Line is the classification of one raw line.
//
// Depth and Text are set for headings (Text is the display text with links
// collapsed), Title for figure annotations and Region for region starts.
type Line struct {
	Kind   LineKind
	Region RegionKind
	Depth  int
	Text   string
	Title  string
}

var (
	headingPattern = regexp.MustCompile(`^(#+) ?(.*)$`)
	linkPattern    = regexp.MustCompile(`\[([^\[\]]*)\]\([^()]*\)`)
	captionPattern = regexp.MustCompile(`^<p align="center"><i>Figure \d+: .*</i></p>[ \t]*$`)
)

// Syntax recognises markers, headings and figure annotations for one set of
// marker tokens. It is immutable and safe for concurrent use.
type Syntax struct {
	toc    *regexp.Regexp
	tof    *regexp.Regexp
	end    *regexp.Regexp
	body   *regexp.Regexp
	figure *regexp.Regexp
}

// NewSyntax compiles the marker patterns. Tokens must be non-empty and
// distinct so that a line can match at most one marker kind.
func NewSyntax(m Markers) (*Syntax, error) {
	tokens := map[string]string{}
	check := func(role, token string) error {
		t := strings.ToLower(strings.TrimSpace(token))
		if t == "" {
			return errors.ValidationError("marker token must not be empty").
				WithContext("marker", role).
				Build()
		}
		if other, dup := tokens[t]; dup {
			return errors.ValidationError("marker token used twice").
				WithContext("token", t).
				WithContext("marker", role).
				WithContext("conflicts_with", other).
				Build()
		}
		tokens[t] = role
		return nil
	}

	if err := check("toc", m.TOC); err != nil {
		return nil, err
	}
	if err := check("tof", m.TOF); err != nil {
		return nil, err
	}
	if err := check("figure", m.Figure); err != nil {
		return nil, err
	}
	if err := check("body", m.Body); err != nil {
		return nil, err
	}
	if len(m.End) == 0 {
		return nil, errors.ValidationError("at least one end marker token is required").Build()
	}
	ends := make([]string, 0, len(m.End))
	for _, e := range m.End {
		if err := check("end", e); err != nil {
			return nil, err
		}
		ends = append(ends, regexp.QuoteMeta(strings.TrimSpace(e)))
	}

	return &Syntax{
		toc:    commentPattern(regexp.QuoteMeta(strings.TrimSpace(m.TOC))),
		tof:    commentPattern(regexp.QuoteMeta(strings.TrimSpace(m.TOF))),
		end:    commentPattern("(?:" + strings.Join(ends, "|") + ")"),
		body:   commentPattern(regexp.QuoteMeta(strings.TrimSpace(m.Body))),
		figure: regexp.MustCompile(`(?i)^<!--[ \t]*` + regexp.QuoteMeta(strings.TrimSpace(m.Figure)) + `[ \t]*:(.*?)-->`),
	}, nil
}

func commentPattern(token string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^<!--[ \t]*` + token + `[ \t]*-->`)
}

// Classify returns the kind of a single line. The line terminator, if any,
// is ignored.
func (s *Syntax) Classify(raw string) Line {
	line := trimTerminator(raw)

	if m := s.figure.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindFigure, Title: strings.TrimSpace(m[1])}
	}
	switch {
	case s.toc.MatchString(line):
		return Line{Kind: KindRegionStart, Region: RegionTOC}
	case s.tof.MatchString(line):
		return Line{Kind: KindRegionStart, Region: RegionTOF}
	case s.end.MatchString(line):
		return Line{Kind: KindRegionEnd}
	case s.body.MatchString(line):
		return Line{Kind: KindBodyStart}
	case captionPattern.MatchString(line):
		return Line{Kind: KindCaption}
	}

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		return Line{Kind: KindHeading, Depth: len(m[1]), Text: SanitizeHeading(m[2])}
	}
	return Line{Kind: KindPlain}
}

// SanitizeHeading collapses every complete [text](target) link to its text.
// Everything else passes through unchanged.
func SanitizeHeading(text string) string {
	if !strings.Contains(text, "](") {
		return text
	}
	return linkPattern.ReplaceAllString(text, "$1")
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}
