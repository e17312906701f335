package moelist

// Package file walk.go contains the conversion of filesystem paths to dropped entries.

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Walk returns the entries of the named files and directories, as if they
// were dropped together. A file becomes an entry without a path. A directory
// becomes one entry per file found within it, with the path made from the
// directory name and the slash separated relative path, e.g. "/dir/sub/a.jpg".
// Relative directory names such as "." are resolved to their own name.
// The filesystem root has no name and returns ErrRoot.
// Symbolic links and other irregular files are skipped.
func Walk(paths ...string) ([]Entry, error) {
	entries := []Entry{}
	for _, name := range paths {
		inf, err := os.Stat(name)
		if err != nil {
			return nil, fmt.Errorf("walk stat: %w", err)
		}
		if !inf.IsDir() {
			entries = append(entries, fileEntry(name, inf.Size(), ""))
			continue
		}
		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, fmt.Errorf("walk abs: %w", err)
		}
		root := filepath.Base(abs)
		if root == string(filepath.Separator) || root == "." {
			return nil, fmt.Errorf("walk %q: %w", name, ErrRoot)
		}
		err = filepath.WalkDir(abs, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			rel, err := filepath.Rel(abs, p)
			if err != nil {
				return err
			}
			fi, err := d.Info()
			if err != nil {
				return err
			}
			rooted := path.Join("/", root, filepath.ToSlash(rel))
			entries = append(entries, fileEntry(p, fi.Size(), rooted))
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %q: %w", name, err)
		}
	}
	return entries, nil
}

func fileEntry(name string, size int64, rooted string) Entry {
	return Entry{
		Name: filepath.Base(name),
		Size: size,
		Path: rooted,
		Open: func() (File, error) {
			return os.Open(name)
		},
	}
}
