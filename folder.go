package moelist

import (
	"fmt"
	"strings"
)

// Package file folder.go contains the synthetic folder metadata reader.

// Folder returns the metadata of a synthetic folder archive.
//
// The entry paths are in the form "/root/sub1/.../file". The folder names
// found at each depth below the root are collected into a set per depth and
// the folder count is the sum of the set sizes. A folder name that is reused
// at two different depths is counted twice, while the same name in two
// branches at the same depth is counted once.
func (r *Reader) Folder(a Archive) (Info, error) {
	if a.Kind != Folder {
		return Info{}, fmt.Errorf("folder %q %w: %q", a.Name, ErrUnsupported, a.Kind)
	}
	const first = 2 // paths[0] is empty and paths[1] is the root folder
	var x exts
	tree := map[int]map[string]struct{}{}
	for _, e := range a.Entries {
		paths := strings.Split(e.Path, "/")
		if len(paths) > first+1 {
			for depth := first; depth < len(paths)-1; depth++ {
				if tree[depth] == nil {
					tree[depth] = map[string]struct{}{}
				}
				tree[depth][paths[depth]] = struct{}{}
			}
		}
		x.add(e.Name)
	}
	folders := 0
	for _, names := range tree {
		folders += len(names)
	}
	return Info{
		Name:    a.Name,
		Size:    a.Size,
		Comment: "",
		Exts:    x.values(),
		Files:   len(a.Entries),
		Folders: folders,
	}, nil
}
