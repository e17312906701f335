package moelist

// Package file group.go contains the grouping of dropped entries into archives.

import (
	"strings"
)

// KindOf returns the container kind of the named file using its extension.
// The match is case-sensitive. False is returned for names that are not containers.
func KindOf(name string) (Kind, bool) {
	switch {
	case strings.HasSuffix(name, zipx),
		strings.HasSuffix(name, cbzx),
		strings.HasSuffix(name, epubx):
		return Zip, true
	case strings.HasSuffix(name, rarx),
		strings.HasSuffix(name, cbrx):
		return Rar, true
	}
	return "", false
}

// Group returns the entries grouped into archives.
//
// Each container file becomes its own archive. Other files are grouped by the
// top-level folder of their path into a synthetic folder archive, files without
// a rooted path are skipped. The containers are always returned first in the
// order given, followed by the folders in the order they were first seen.
func Group(entries ...Entry) []Archive {
	archives := []Archive{}
	others := []Entry{}
	for _, e := range entries {
		kind, ok := KindOf(e.Name)
		if !ok {
			others = append(others, e)
			continue
		}
		archives = append(archives, Archive{
			Name:    e.Name,
			Size:    e.Size,
			Kind:    kind,
			Entries: []Entry{e},
		})
	}
	order := []string{}
	folders := map[string][]Entry{}
	for _, e := range others {
		root, ok := rootFolder(e.Path)
		if !ok {
			continue
		}
		if _, found := folders[root]; !found {
			order = append(order, root)
		}
		folders[root] = append(folders[root], e)
	}
	for _, name := range order {
		files := folders[name]
		var size int64
		for _, f := range files {
			size += f.Size
		}
		archives = append(archives, Archive{
			Name:    name,
			Size:    size,
			Kind:    Folder,
			Entries: files,
		})
	}
	return archives
}

// rootFolder returns the first path segment after the leading slash.
func rootFolder(path string) (string, bool) {
	if path == "" || !strings.HasPrefix(path, "/") {
		return "", false
	}
	s := strings.Split(path, "/")
	return s[1], true
}
