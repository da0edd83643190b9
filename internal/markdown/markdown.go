package markdown

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseBody parses Markdown source into a Goldmark AST.
func ParseBody(source []byte) gmast.Node {
	return goldmark.New().Parser().Parse(text.NewReader(source))
}

// CodeBlockLines returns the 0-based indexes of source lines that hold the
// content of fenced or indented code blocks. Fence lines themselves are not
// included.
func CodeBlockLines(source []byte) map[int]bool {
	lines := make(map[int]bool)
	if len(source) == 0 {
		return lines
	}

	starts := lineStarts(source)
	root := ParseBody(source)

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch n.Kind() {
		case gmast.KindFencedCodeBlock, gmast.KindCodeBlock:
			segs := n.Lines()
			for i := 0; i < segs.Len(); i++ {
				lines[lineOf(starts, segs.At(i).Start)] = true
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	return lines
}

// lineStarts returns the byte offset at which each line begins.
func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, offset int) int {
	return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
}
