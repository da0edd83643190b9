package toc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Options{Markers: DefaultMarkers()})
	require.NoError(t, err)
	return e
}

// splitLines splits text keeping terminators, like reading a file line by line.
func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

const sampleDoc = `# Project

<!-- ts -->
<!-- te -->

# Intro

Some text.

## Intro

<!-- fig_x: Architecture -->

### [Setup](./setup.md) Guide

<!-- fig_x: Load graph -->

## Figures

<!-- tfs -->
* *Figure 9*: *Stale*
<!-- te -->
`

const sampleExpected = `# Project

<!-- ts -->
* [Intro](#intro)
    * [Intro](#intro-1)
        * [Setup Guide](#setup-guide)
    * [Figures](#figures)
<!-- te -->

# Intro

Some text.

## Intro

<!-- fig_x: Architecture -->
<p align="center"><i>Figure 1: Architecture</i></p>

### [Setup](./setup.md) Guide

<!-- fig_x: Load graph -->
<p align="center"><i>Figure 2: Load graph</i></p>

## Figures

<!-- tfs -->
* *Figure 1*: *Architecture*
* *Figure 2*: *Load graph*
<!-- te -->
`

func TestEngine_Transform(t *testing.T) {
	e := newTestEngine(t)

	in := splitLines(sampleDoc)
	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	assert.True(t, res.Found)
	assert.True(t, res.Changed)
	assert.Equal(t, sampleExpected, strings.Join(res.Lines, ""))
	assert.Len(t, res.Regions, 2)
	assert.Len(t, res.Headings, 4)
	assert.Equal(t, []Figure{
		{Number: 1, Title: "Architecture", Index: 11},
		{Number: 2, Title: "Load graph", Index: 15},
	}, res.Figures)
	assert.Equal(t, sampleDoc, strings.Join(in, ""), "input must not change")
}

func TestEngine_Idempotent(t *testing.T) {
	e := newTestEngine(t)

	first, err := e.Transform(Input{Lines: splitLines(sampleDoc)})
	require.NoError(t, err)

	second, err := e.Transform(Input{Lines: first.Lines})
	require.NoError(t, err)

	assert.True(t, second.Found)
	assert.False(t, second.Changed)
	assert.Equal(t, first.Lines, second.Lines)
}

func TestEngine_PreservesOrderOfUserLines(t *testing.T) {
	e := newTestEngine(t)
	syntax := mustSyntax(DefaultMarkers())

	in := splitLines(sampleDoc)
	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	// Drop generated lines from both sides; what remains must match exactly.
	userLines := func(lines []string) []string {
		scan := syntax.Scan(lines, nil)
		regions := LocateRegions(scan.Markers)
		var out []string
		for i, l := range lines {
			if interior(regions, i) || scan.Lines[i].Kind == KindCaption {
				continue
			}
			out = append(out, l)
		}
		return out
	}
	assert.Equal(t, userLines(in), userLines(res.Lines))
}

func TestEngine_NoMarkersIsNoop(t *testing.T) {
	e := newTestEngine(t)
	in := splitLines("# A\n\n## B\ntext without markers\n")

	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.False(t, res.Changed)
	assert.Equal(t, in, res.Lines)
	assert.Empty(t, res.Headings)
}

func TestEngine_UnterminatedRegionLeftAlone(t *testing.T) {
	e := newTestEngine(t)
	in := splitLines("<!-- ts -->\n* [old](#old)\n# A\n")

	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	assert.False(t, res.Found)
	assert.Equal(t, in, res.Lines)
}

func TestEngine_NestedStartBelongsToOuterRegion(t *testing.T) {
	e := newTestEngine(t)
	in := splitLines("# Title\n<!-- ts -->\nstale toc\n<!-- tfs -->\n<!-- te -->\n## A\n")

	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	assert.Equal(t, []Region{{Kind: RegionTOC, Start: 1, End: 4}}, res.Regions)
	assert.Equal(t, "# Title\n<!-- ts -->\n    * [A](#a)\n<!-- te -->\n## A\n", strings.Join(res.Lines, ""))

	again, err := e.Transform(Input{Lines: res.Lines})
	require.NoError(t, err)
	assert.False(t, again.Changed)
}

func TestEngine_StartMarkerOnLastLine(t *testing.T) {
	e := newTestEngine(t)
	in := splitLines("<!-- fig_x: Only -->")

	res, err := e.Transform(Input{Lines: in})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"<!-- fig_x: Only -->\n",
		"<p align=\"center\"><i>Figure 1: Only</i></p>\n",
	}, res.Lines)
}

func TestEngine_SkipAndNewline(t *testing.T) {
	e := newTestEngine(t)
	in := splitLines("---\r\n# yaml comment\r\n---\r\n<!-- ts -->\r\n<!-- te -->\r\n# Real\r\n")

	res, err := e.Transform(Input{
		Lines:   in,
		Newline: "\r\n",
		Skip:    func(i int) bool { return i < 3 },
	})
	require.NoError(t, err)

	assert.Equal(t, "* [Real](#real)\r\n", res.Lines[4])
	assert.Len(t, res.Headings, 1)
}

func TestEngine_AnchorUniqueness(t *testing.T) {
	e := newTestEngine(t)

	var b strings.Builder
	b.WriteString("<!-- ts -->\n<!-- te -->\n")
	for range 5 {
		b.WriteString("## FAQ\n")
	}

	res, err := e.Transform(Input{Lines: splitLines(b.String())})
	require.NoError(t, err)

	anchors := make([]string, 0, len(res.Headings))
	for _, h := range res.Headings {
		anchors = append(anchors, h.Anchor)
	}
	assert.Equal(t, []string{"faq", "faq-1", "faq-2", "faq-3", "faq-4"}, anchors)
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(Options{Markers: DefaultMarkers(), MaxDepth: -1})
	require.Error(t, err)

	_, err = NewEngine(Options{})
	require.Error(t, err)
}
