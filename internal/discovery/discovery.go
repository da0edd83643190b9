// Package discovery selects the Markdown documents a run should process.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// Options controls document selection.
type Options struct {
	// Extensions are matched case-insensitively against the end of file
	// names. Defaults to .md.
	Extensions []string
	// TrackedOnly keeps only files present in the enclosing git index.
	TrackedOnly bool
}

// File is one selected document.
type File struct {
	// Path is usable with os.Open.
	Path string
	// Rel is Path relative to the discovery root, slash separated.
	Rel string
}

// Discover returns the documents under root in lexical order. root may also
// name a single file, which is returned when its extension matches. Hidden
// files and directories are skipped.
func Discover(root string, opts Options) ([]File, error) {
	exts := normalizeExtensions(opts.Extensions)

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapError(err, errors.CategoryNotFound, "path not found").
				WithContext("path", root).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to stat path").
			WithContext("path", root).
			Build()
	}

	var files []File
	if !info.IsDir() {
		if MatchesExtension(root, exts) {
			files = append(files, File{Path: root, Rel: filepath.ToSlash(filepath.Base(root))})
		}
	} else {
		files, err = walk(root, exts)
		if err != nil {
			return nil, err
		}
	}

	if opts.TrackedOnly {
		return filterTracked(root, files)
	}
	return files, nil
}

func walk(root string, exts []string) ([]File, error) {
	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip hidden directories and files
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		if !MatchesExtension(d.Name(), exts) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Path: path, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk directory").
			WithContext("root_path", root).
			Build()
	}
	return files, nil
}

// MatchesExtension reports whether name ends with one of exts, ignoring case.
func MatchesExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	return slices.ContainsFunc(exts, func(ext string) bool {
		return strings.HasSuffix(lower, ext)
	})
}

func normalizeExtensions(exts []string) []string {
	if len(exts) == 0 {
		return []string{".md"}
	}
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}
