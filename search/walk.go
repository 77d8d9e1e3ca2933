package search

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Document is a candidate file found under the search root.
type Document struct {
	Path string // Absolute path to the file on disk.
	Size int64  // Size in bytes, read once at discovery.
}

// Discover walks root recursively and returns the regular files whose
// extension matches one of exts, case-insensitively. It defaults to ".pdf".
// Entries that cannot be read are skipped and an unreadable root yields an
// empty slice. A root that is a symbolic link is resolved; links below the
// root are not followed.
func Discover(root string, exts ...string) []string {
	if len(exts) == 0 {
		exts = []string{".pdf"}
	}
	lower := make([]string, len(exts))
	for i, ext := range exts {
		lower[i] = strings.ToLower(ext)
	}

	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	var files []string
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory: skip its contents and keep walking.
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if d.Type().IsRegular() && slices.Contains(lower, ext) {
			files = append(files, path)
		}
		return nil
	})

	slices.Sort(files)
	return files
}

// Documents stats every path once. A file that cannot be stat'ed gets size 0.
func Documents(paths []string) []Document {
	docs := make([]Document, len(paths))
	for i, path := range paths {
		docs[i] = Document{Path: path}
		if info, err := os.Stat(path); err == nil {
			docs[i].Size = info.Size()
		}
	}
	return docs
}

// SortBySize orders docs by ascending size, then by path.
func SortBySize(docs []Document) {
	slices.SortStableFunc(docs, func(a, b Document) int {
		return cmp.Or(cmp.Compare(a.Size, b.Size), cmp.Compare(a.Path, b.Path))
	})
}
