package docmodel

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
	"git.home.luguber.info/inful/doctoc/internal/frontmatter"
	"git.home.luguber.info/inful/doctoc/internal/markdown"
)

// Options controls how a Document is parsed.
type Options struct {
	// SkipCodeBlocks hides fenced and indented code block content from the
	// marker scanner.
	SkipCodeBlocks bool
}

// Document is a Markdown file split into terminated lines.
//
// Lines keep their original terminators so the file can be written back
// byte-for-byte when nothing changes.
type Document struct {
	Path        string
	Lines       []string
	Style       frontmatter.Style
	Frontmatter frontmatter.Block
	Fields      map[string]any

	skip map[int]bool
}

// Parse splits content into a Document. path is informational.
//
// A leading `---` block is only treated as frontmatter when it parses as a
// YAML mapping; otherwise the lines stay visible to the scanner.
func Parse(path string, content []byte, opts Options) (*Document, error) {
	doc := &Document{
		Path:   path,
		Lines:  SplitLines(string(content)),
		Style:  frontmatter.DetectStyle(content),
		Fields: map[string]any{},
		skip:   map[int]bool{},
	}

	block, err := frontmatter.Find(doc.Lines)
	if err == nil && block.Present() {
		if fields, perr := frontmatter.ParseYAML(block.Raw); perr == nil {
			doc.Frontmatter = block
			doc.Fields = fields
		}
	}

	for i := 0; i < doc.Frontmatter.End; i++ {
		doc.skip[i] = true
	}

	if opts.SkipCodeBlocks {
		body := strings.Join(doc.Lines[doc.Frontmatter.End:], "")
		for i := range markdown.CodeBlockLines([]byte(body)) {
			doc.skip[doc.Frontmatter.End+i] = true
		}
	}

	return doc, nil
}

// ReadFile reads and parses the document at path.
func ReadFile(path string, opts Options) (*Document, error) {
	// #nosec G304 -- path comes from discovery under the configured root.
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "document not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("path", path).
			Build()
	}
	return Parse(path, content, opts)
}

// Skip reports whether line i is hidden from the marker scanner.
func (d *Document) Skip(i int) bool {
	return d.skip[i]
}

// Enabled reports whether the document opted out via `toc: false` in its
// frontmatter.
func (d *Document) Enabled() bool {
	v, ok := d.Fields["toc"]
	if !ok {
		return true
	}
	b, isBool := v.(bool)
	return !isBool || b
}

// Newline returns the line terminator generated lines should use.
func (d *Document) Newline() string {
	if d.Style.Newline == "" {
		return "\n"
	}
	return d.Style.Newline
}

// Bytes joins lines back into file content.
func Bytes(lines []string) []byte {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
	}
	return []byte(b.String())
}

// SplitLines splits s after every "\n". A final line without a terminator is
// kept; an empty string yields no lines.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// WriteFile atomically replaces path with lines. The existing file mode is
// preserved.
func WriteFile(path string, lines []string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create temp file").
			WithContext("path", path).
			Build()
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(Bytes(lines)); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write document").
			WithContext("path", path).
			Build()
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to close temp file").
			WithContext("path", path).
			Build()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to set file mode").
			WithContext("path", path).
			Build()
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to replace document").
			WithContext("path", path).
			Build()
	}
	return nil
}
