package toc

import (
	"slices"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// Options configures an Engine.
type Options struct {
	Markers       Markers
	HeadingOffset int
	MaxDepth      int
}

// Engine runs the scan/locate/generate/rewrite pipeline. It holds no
// per-document state and is safe for concurrent use.
type Engine struct {
	syntax *Syntax
	opts   Options
}

// NewEngine compiles the marker syntax described by opts.
func NewEngine(opts Options) (*Engine, error) {
	syntax, err := NewSyntax(opts.Markers)
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth < 0 {
		return nil, errors.ValidationError("max depth must not be negative").
			WithContext("max_depth", opts.MaxDepth).
			Build()
	}
	return &Engine{syntax: syntax, opts: opts}, nil
}

// Input is one document as handed to the engine.
type Input struct {
	// Lines keep their terminators.
	Lines []string
	// Newline terminates generated lines. Defaults to "\n".
	Newline string
	// Skip marks lines that are never classified (frontmatter, code blocks).
	Skip func(int) bool
}

// Result describes the outcome of one transform.
type Result struct {
	// Lines is the rewritten document. It equals the input when Found is
	// false.
	Lines []string
	// Found is false when the document had no TOC region, no TOF region and
	// no figure annotation.
	Found bool
	// Changed reports whether Lines differs from the input.
	Changed  bool
	Regions  []Region
	Headings []Heading
	Figures  []Figure
}

// Transform rewrites one document. The input lines are never modified.
func (e *Engine) Transform(in Input) (*Result, error) {
	scan := e.syntax.Scan(in.Lines, in.Skip)
	regions := LocateRegions(scan.Markers)
	content := Generate(scan, regions, GenerateOptions{
		Newline:       in.Newline,
		HeadingOffset: e.opts.HeadingOffset,
		MaxDepth:      e.opts.MaxDepth,
	})

	result := &Result{
		Regions:  regions,
		Headings: content.Headings,
		Figures:  content.Figures,
	}

	if len(regions) == 0 && len(content.Figures) == 0 {
		result.Lines = slices.Clone(in.Lines)
		return result, nil
	}

	out, err := Rewrite(in.Lines, scan, regions, content, in.Newline)
	if err != nil {
		return nil, err
	}

	result.Found = true
	result.Lines = out
	result.Changed = !slices.Equal(out, in.Lines)
	return result, nil
}
