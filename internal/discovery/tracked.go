package discovery

import (
	"path/filepath"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/doctoc/internal/foundation/errors"
)

// filterTracked drops files that are not in the index of the git repository
// enclosing root.
func filterTracked(root string, files []File) ([]File, error) {
	tracked, repoRoot, err := TrackedFiles(root)
	if err != nil {
		return nil, err
	}

	out := files[:0]
	for _, f := range files {
		rel, err := filepath.Rel(repoRoot, resolve(f.Path))
		if err != nil {
			continue
		}
		if tracked[filepath.ToSlash(rel)] {
			out = append(out, f)
		}
	}
	return out, nil
}

// TrackedFiles returns the index entries of the repository containing path,
// keyed by slash-separated path relative to the worktree root, along with
// that root.
func TrackedFiles(path string) (map[string]bool, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").
			WithContext("path", path).
			Build()
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryGit, "failed to open git repository").
			WithContext("path", path).
			Build()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryGit, "repository has no worktree").
			WithContext("path", path).
			Build()
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, "", errors.WrapError(err, errors.CategoryGit, "failed to read git index").
			WithContext("path", path).
			Build()
	}

	tracked := make(map[string]bool, len(idx.Entries))
	for _, e := range idx.Entries {
		tracked[e.Name] = true
	}

	return tracked, resolve(wt.Filesystem.Root()), nil
}

// resolve returns an absolute, symlink-free form of p, falling back to the
// absolute path when p cannot be evaluated.
func resolve(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real
	}
	return abs
}
