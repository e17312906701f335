// Package moelist reads the metadata of dropped zip and rar archives and
// folders, for use in summary forum posts.
//
// The content of an archive is never decompressed. Only the entry names,
// directory flags, declared sizes and the archive comment are enumerated.
//
// A typical use groups the dropped entries into archives, reads each archive
// and hands the results to the [github.com/Defacto2/moelist/format] package.
//
//	func Summary(ctx context.Context, paths ...string) (string, error) {
//	    entries, err := moelist.Walk(paths...)
//	    if err != nil {
//	        return "", err
//	    }
//	    res := moelist.NewReader().ReadAll(ctx, entries...)
//	    return format.Preview(res.Infos, nil), nil
//	}
package moelist

import (
	"errors"
	"io"
	"path"
	"strings"
)

// Kind is the container kind of an archive.
type Kind string

const (
	Zip    Kind = "zip"    // Zip is a PKZIP container, including the comic book and epub variants.
	Rar    Kind = "rar"    // Rar is a Roshal ARchive container, including the comic book variant.
	Folder Kind = "folder" // Folder is a synthetic archive made from loose files sharing a top-level folder.
)

const (
	zipx  = ".zip"  // Phil Katz's ZIP
	cbzx  = ".cbz"  // comic book zip
	epubx = ".epub" // electronic publication, a zip container
	rarx  = ".rar"  // Roshal ARchive by Alexander Roshal
	cbrx  = ".cbr"  // comic book rar
)

var (
	ErrUnsupported = errors.New("archive kind is not supported")
	ErrCorrupt     = errors.New("could not read the file archive")
	ErrDecoder     = errors.New("rar decoder is not available")
	ErrEmpty       = errors.New("archive has no entries")
	ErrOpen        = errors.New("entry has no content to open")
	ErrRoot        = errors.New("filesystem root cannot be a dropped folder")
)

// File is the raw content of a dropped entry.
type File interface {
	io.ReaderAt
	io.Closer
}

// Entry is a dropped filesystem item.
type Entry struct {
	Name string // Name is the base filename.
	Size int64  // Size is the file size in bytes.
	// Path is the posix style path with a leading slash, which is only set
	// for files that were dropped as part of a folder, e.g. "/root/sub/a.jpg".
	Path string
	// Open returns the content of the file, it is only required for containers.
	Open func() (File, error)
}

// Archive is one logical unit to be summarized.
type Archive struct {
	Name    string  // Name is the container filename or the folder name.
	Size    int64   // Size is the container size or the sum of the folder file sizes.
	Kind    Kind    // Kind is the container kind.
	Entries []Entry // Entries is a single container file or the files of the folder.
}

// Info is the metadata of a read archive.
type Info struct {
	Name    string   // Name of the archive.
	Size    int64    // Size in bytes.
	Comment string   // Comment is the archive comment or empty.
	Exts    []string // Exts are the unique lowercase file extensions in the order they were found.
	Files   int      // Files is the number of files.
	Folders int      // Folders is the number of folders.
}

// Ext returns the lowercase extension of the named file without the leading dot.
// An empty string is returned if the name has no extension.
func Ext(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// exts collects unique extensions in the order they are added.
type exts struct {
	seen map[string]struct{}
	list []string
}

func (e *exts) add(name string) {
	x := Ext(name)
	if x == "" {
		return
	}
	if e.seen == nil {
		e.seen = make(map[string]struct{})
	}
	if _, ok := e.seen[x]; ok {
		return
	}
	e.seen[x] = struct{}{}
	e.list = append(e.list, x)
}

func (e *exts) values() []string {
	if e.list == nil {
		return []string{}
	}
	return e.list
}
