package frontmatter

import (
	"errors"
	"strings"

	"gopkg.in/yaml.v3"
)

// Style captures the newline shape of a document so generated lines match it.
type Style struct {
	Newline string
}

// Block locates a leading YAML frontmatter block in a line slice.
//
// Lines [0, End) belong to the block, delimiters included. A zero Block means
// the document has no frontmatter.
type Block struct {
	End int
	Raw []byte
}

// Present reports whether the document starts with frontmatter.
func (b Block) Present() bool {
	return b.End > 0
}

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Find looks for `---` delimited frontmatter at the top of lines. Lines keep
// their terminators. Without a closing delimiter Find returns a zero Block
// and ErrMissingClosingDelimiter; callers usually treat that as "no
// frontmatter".
func Find(lines []string) (Block, error) {
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return Block{}, nil
	}

	var raw strings.Builder
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			return Block{End: i + 1, Raw: []byte(raw.String())}, nil
		}
		raw.WriteString(lines[i])
	}
	return Block{}, ErrMissingClosingDelimiter
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// DetectStyle reports the first newline sequence used in content.
func DetectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			newline = "\r\n"
		}
		break
	}

	return Style{Newline: newline}
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, "\r\n") == "---"
}
