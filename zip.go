package moelist

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Defacto2/moelist/pkzip"
	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"
)

// Package file zip.go contains the ZIP metadata reader.

// Zip returns the metadata of the zip archive in the size bytes of f.
// The format is credited to Phil Katz, the central directory is read
// using the [klauspost/compress] zip package.
//
// Entries with names ending in a slash are folders. The size is the sum of the
// uncompressed file sizes, or the archive size when the sum is zero.
//
// [klauspost/compress]: https://github.com/klauspost/compress
func (r *Reader) Zip(ctx context.Context, a Archive, f io.ReaderAt, size int64) (Info, error) {
	z, err := zip.NewReader(f, size)
	if err != nil {
		return Info{}, fmt.Errorf("zip reader %q %w: %w", a.Name, ErrCorrupt, err)
	}
	rep := pkzip.Inspect(z.File)
	r.log.Debug("zip methods",
		zap.String("name", a.Name),
		zap.Stringers("methods", rep.Methods),
		zap.Bool("usable", rep.Usable()))
	if err := rep.Err(); err != nil {
		r.log.Warn("zip entries are listed without a password", zap.String("name", a.Name), zap.Error(err))
	}
	info := Info{Name: a.Name}
	var (
		x     exts
		total uint64
	)
	for _, file := range z.File {
		if err := ctx.Err(); err != nil {
			return Info{}, fmt.Errorf("zip reader %q: %w", a.Name, err)
		}
		if strings.HasSuffix(file.Name, "/") {
			info.Folders++
			continue
		}
		info.Files++
		total += file.UncompressedSize64
		x.add(file.Name)
	}
	info.Size = int64(total)
	if total == 0 {
		info.Size = a.Size
	}
	info.Exts = x.values()
	info.Comment = Text(z.Comment)
	return info, nil
}
