// Package toc generates tables of contents and tables of figures for Markdown
// documents and splices them into marker-delimited regions.
//
// A document is handled as an ordered slice of lines, each keeping its line
// terminator. The pipeline is:
//
//	Syntax.Scan      classify every line, collect markers
//	LocateRegions    pair start markers with end markers
//	Generate         build TOC/TOF entries and inline figure captions
//	Rewrite          splice generated content into a new line slice
//
// Engine wires the steps together. Every call works on fresh state (slug
// registry, figure counter), so one Engine can serve many documents.
//
// Marker syntax with the default tokens:
//
//	<!-- ts -->              table of contents starts after this line
//	<!-- tfs -->             table of figures starts after this line
//	<!-- te -->              closes the most recent open ts/tfs
//	<!-- tb -->              headings become eligible after this line
//	<!-- fig_x: Title -->    figure annotation, caption is inserted below
package toc
