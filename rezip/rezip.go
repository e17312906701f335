// Package rezip creates zip archives from directories and relabels the
// comment of existing zip archives, using the universal Store and Deflate
// compression methods or the Zstandard method.
package rezip

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Defacto2/helper"
	"github.com/Defacto2/moelist/pkzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
)

const createUnique = os.O_RDWR | os.O_CREATE | os.O_EXCL

var (
	ErrExists = errors.New("rezip destination already exists")
	ErrMethod = errors.New("rezip compression method is not supported")
	ErrTest   = errors.New("rezip test failed")
)

// CompressDir compresses the named root directory into the dest zip file
// using the Deflate method and sets the archive comment. The total number
// of bytes written to the zip file is returned.
//
// The dest must be a valid file path and should include the .zip extension.
// If the dest file already exists, ErrExists is returned.
func CompressDir(root, dest, comment string) (int64, error) {
	return CompressDirWith(root, dest, comment, pkzip.Deflated)
}

// CompressDirWith compresses the named root directory into the dest zip file
// using the Stored, Deflated or Zstd method and sets the archive comment.
// The names in the archive are prefixed with the base name of root, so the
// archive extracts to a single folder.
func CompressDirWith(root, dest, comment string, method pkzip.Compression) (int64, error) {
	switch method { //nolint:exhaustive
	case pkzip.Stored, pkzip.Deflated, pkzip.Zstd:
	default:
		return 0, fmt.Errorf("%w: %s", ErrMethod, method)
	}
	zipfile, err := os.OpenFile(dest, createUnique, helper.WriteWriteRead)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, fmt.Errorf("rezip compress dir %w: %s", ErrExists, dest)
		}
		return 0, fmt.Errorf("rezip compress dir failed to open file: %w", err)
	}
	defer zipfile.Close()

	w := zip.NewWriter(zipfile)
	w.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	if err := w.SetComment(comment); err != nil {
		return 0, fmt.Errorf("rezip compress dir comment: %w", err)
	}

	base := filepath.Base(filepath.Clean(root))
	var written int64
	addFile := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		fh := &zip.FileHeader{
			Name:   filepath.ToSlash(filepath.Join(base, rel)),
			Method: uint16(method),
		}
		if inf, err := d.Info(); err == nil {
			fh.Modified = inf.ModTime()
		}
		dst, err := w.CreateHeader(fh)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		defer src.Close()

		const size = 64 * 1024
		buf := make([]byte, size)
		n, err := io.CopyBuffer(dst, src, buf)
		if err != nil {
			return fmt.Errorf("add file: %w", err)
		}
		written += n
		return nil
	}

	if err := filepath.WalkDir(root, addFile); err != nil {
		return 0, fmt.Errorf("rezip compress dir failed to add file: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("rezip compress dir failed to close: %w", err)
	}
	return written, nil
}

// Comment replaces the comment of the named zip file.
// The entries are copied as is without being decompressed.
func Comment(name, comment string) error {
	tmp := name + ".tmp"
	if err := relabel(name, tmp, comment); err != nil {
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rezip comment: %w", err)
	}
	return nil
}

// relabel writes a copy of the named zip file with the comment to dest.
// The dest file is removed if the copy fails.
func relabel(name, dest, comment string) error {
	r, err := zip.OpenReader(name)
	if err != nil {
		return fmt.Errorf("rezip comment failed to open zip: %w", err)
	}
	defer r.Close()

	out, err := os.OpenFile(dest, createUnique, helper.WriteWriteRead)
	if err != nil {
		return fmt.Errorf("rezip comment failed to create temp zip: %w", err)
	}
	w := zip.NewWriter(out)
	if err := copyWith(w, r.File, comment); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return fmt.Errorf("rezip comment: %w", err)
	}
	return nil
}

func copyWith(w *zip.Writer, files []*zip.File, comment string) error {
	if err := w.SetComment(comment); err != nil {
		return fmt.Errorf("rezip comment: %w", err)
	}
	for _, f := range files {
		if err := w.Copy(f); err != nil {
			return fmt.Errorf("rezip comment failed to copy %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("rezip comment failed to finalize zip: %w", err)
	}
	return nil
}

// Test reads the central directory of the named zip file. If the file is a
// directory, empty, encrypted or uses a compression method that is not
// supported by modern zip programs, an error is returned.
func Test(name string) error {
	inf, err := os.Stat(name)
	if err != nil {
		return fmt.Errorf("rezip test failed to stat file: %w", err)
	}
	if inf.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrTest, name)
	}
	if inf.Size() == 0 {
		return fmt.Errorf("%w: %s is empty", ErrTest, name)
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("rezip test failed to open file: %w", err)
	}
	defer f.Close()
	rep, err := pkzip.Methods(f, inf.Size())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTest, err)
	}
	if err := rep.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrTest, err)
	}
	for _, m := range rep.Methods {
		switch m { //nolint:exhaustive
		case pkzip.Stored, pkzip.Deflated, pkzip.Zstd:
		default:
			return fmt.Errorf("%w: %s uses %s", ErrTest, name, m)
		}
	}
	return nil
}
