package toc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateFor(t *testing.T, lines []string, opts GenerateOptions) (Content, []Region) {
	t.Helper()
	scan := mustSyntax(DefaultMarkers()).Scan(lines, nil)
	regions := LocateRegions(scan.Markers)
	return Generate(scan, regions, opts), regions
}

func TestGenerate_TOC(t *testing.T) {
	lines := []string{
		"# Title above the toc\n",
		"<!-- ts -->\n",
		"* [Stale](#stale)\n",
		"<!-- te -->\n",
		"# Intro\n",
		"## Intro\n",
		"### [Setup](./setup.md) Guide\n",
		"## Intro\n",
	}

	content, _ := generateFor(t, lines, GenerateOptions{})

	assert.Equal(t, []string{
		"* [Intro](#intro)\n",
		"    * [Intro](#intro-1)\n",
		"        * [Setup Guide](#setup-guide)\n",
		"    * [Intro](#intro-2)\n",
	}, content.TOC)
	require.Len(t, content.Headings, 4)
	assert.Equal(t, Heading{Index: 6, Depth: 3, Text: "Setup Guide", Anchor: "setup-guide"}, content.Headings[2])
	assert.Empty(t, content.TOF)
}

func TestGenerate_Figures(t *testing.T) {
	lines := []string{
		"<!-- tfs -->\n",
		"<!-- te -->\n",
		"# A\n",
		"<!-- fig_x: Architecture -->\n",
		"## B\n",
		"<!-- fig_x: Load graph -->\n",
	}

	content, _ := generateFor(t, lines, GenerateOptions{Newline: "\r\n"})

	assert.Equal(t, []Figure{
		{Number: 1, Title: "Architecture", Index: 3},
		{Number: 2, Title: "Load graph", Index: 5},
	}, content.Figures)
	assert.Equal(t, []string{
		"* *Figure 1*: *Architecture*\r\n",
		"* *Figure 2*: *Load graph*\r\n",
	}, content.TOF)
	assert.Equal(t, "<p align=\"center\"><i>Figure 2: Load graph</i></p>\r\n", content.Captions[5])
	// Without a TOC region every heading from the top is eligible.
	assert.Equal(t, []string{"* [A](#a)\r\n", "    * [B](#b)\r\n"}, content.TOC)
}

func TestGenerate_IgnoresRegionInteriors(t *testing.T) {
	lines := []string{
		"<!-- ts -->\n",
		"# Old heading that was pasted in\n",
		"<!-- fig_x: old -->\n",
		"<!-- te -->\n",
		"# Real\n",
	}

	content, _ := generateFor(t, lines, GenerateOptions{})

	assert.Equal(t, []string{"* [Real](#real)\n"}, content.TOC)
	assert.Empty(t, content.Figures)
}

func TestGenerate_MaxDepthKeepsAnchorsStable(t *testing.T) {
	lines := []string{
		"<!-- ts -->\n",
		"<!-- te -->\n",
		"# Usage\n",
		"### Usage\n",
		"## Usage\n",
	}

	content, _ := generateFor(t, lines, GenerateOptions{MaxDepth: 2})

	assert.Equal(t, []string{
		"* [Usage](#usage)\n",
		"    * [Usage](#usage-2)\n",
	}, content.TOC)
	assert.Len(t, content.Headings, 3)
}

func TestHeadingStart(t *testing.T) {
	syntax := mustSyntax(DefaultMarkers())

	tests := []struct {
		name   string
		lines  []string
		offset int
		want   int
	}{
		{
			name:  "body marker wins over toc",
			lines: []string{"<!-- ts -->\n", "<!-- te -->\n", "# x\n", "<!-- tb -->\n"},
			want:  4,
		},
		{
			name:  "toc start without body marker",
			lines: []string{"# Title\n", "<!-- ts -->\n", "<!-- te -->\n"},
			want:  2,
		},
		{
			name:   "literal offset when no markers",
			lines:  []string{"# a\n", "# b\n", "<!-- tfs -->\n", "<!-- te -->\n"},
			offset: 1,
			want:   1,
		},
		{
			name:   "negative offset clamps",
			lines:  []string{"# a\n"},
			offset: -3,
			want:   0,
		},
		{
			name:  "body marker inside a region is generated content",
			lines: []string{"<!-- ts -->\n", "<!-- tb -->\n", "<!-- te -->\n"},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scan := syntax.Scan(tt.lines, nil)
			assert.Equal(t, tt.want, HeadingStart(scan, LocateRegions(scan.Markers), tt.offset))
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "* [Intro](#intro)", FormatTOCEntry(Heading{Depth: 1, Text: "Intro", Anchor: "intro"}))
	assert.Equal(t, "* [](#)", FormatTOCEntry(Heading{Depth: 0}))
	assert.Equal(t, "* *Figure 2*: *Load graph*", FormatTOFEntry(Figure{Number: 2, Title: "Load graph"}))
	assert.Equal(t, `<p align="center"><i>Figure 2: Load graph</i></p>`, FormatCaption(Figure{Number: 2, Title: "Load graph"}))
}
