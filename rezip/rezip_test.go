package rezip_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/moelist/pkzip"
	"github.com/Defacto2/moelist/rezip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/nalgeon/be"
)

// tree creates a small directory of compressible files.
func tree(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "scans")
	be.Err(t, os.MkdirAll(filepath.Join(root, "vol1"), 0o755), nil)
	data := bytes.Repeat([]byte("moeshare "), 4096)
	for _, name := range []string{"cover.jpg", "vol1/001.jpg", "vol1/002.png"} {
		be.Err(t, os.WriteFile(filepath.Join(root, name), data, 0o644), nil)
	}
	return root
}

func TestCompressDir(t *testing.T) {
	t.Parallel()
	root := tree(t)
	dest := filepath.Join(t.TempDir(), "scans.zip")
	size, err := rezip.CompressDir(root, dest, "by moeshare")
	be.Err(t, err, nil)
	be.Equal(t, size, int64(3*9*4096))
	// confirm the zip file is smaller than the total size of the files
	inf, err := os.Stat(dest)
	be.Err(t, err, nil)
	be.True(t, inf.Size() < size)

	r, err := zip.OpenReader(dest)
	be.Err(t, err, nil)
	defer r.Close()
	be.Equal(t, r.Comment, "by moeshare")
	be.Equal(t, len(r.File), 3)
	be.Equal(t, r.File[0].Name, "scans/cover.jpg")
	be.Err(t, rezip.Test(dest), nil)

	// confirm command fails when the file already exists
	size, err = rezip.CompressDir(root, dest, "")
	be.Err(t, err, rezip.ErrExists)
	be.Equal(t, size, int64(0))
}

func TestCompressDirZstd(t *testing.T) {
	t.Parallel()
	root := tree(t)
	dest := filepath.Join(t.TempDir(), "scans.zip")
	_, err := rezip.CompressDirWith(root, dest, "", pkzip.Zstd)
	be.Err(t, err, nil)
	r, err := zip.OpenReader(dest)
	be.Err(t, err, nil)
	defer r.Close()
	r.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	be.Equal(t, r.File[1].Method, uint16(pkzip.Zstd))
	rc, err := r.File[1].Open()
	be.Err(t, err, nil)
	defer rc.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	be.Err(t, err, nil)
	be.Equal(t, buf.Len(), 9*4096)

	_, err = rezip.CompressDirWith(root, filepath.Join(t.TempDir(), "x.zip"), "", pkzip.Imploded)
	be.Err(t, err, rezip.ErrMethod)
}

func TestComment(t *testing.T) {
	t.Parallel()
	root := tree(t)
	dest := filepath.Join(t.TempDir(), "scans.zip")
	_, err := rezip.CompressDir(root, dest, "old label")
	be.Err(t, err, nil)
	be.Err(t, rezip.Comment(dest, "new label moeshare"), nil)

	r, err := zip.OpenReader(dest)
	be.Err(t, err, nil)
	defer r.Close()
	be.Equal(t, r.Comment, "new label moeshare")
	be.Equal(t, len(r.File), 3)
	be.Equal(t, r.File[2].UncompressedSize64, uint64(9*4096))

	_, err = os.Stat(dest + ".tmp")
	be.True(t, os.IsNotExist(err))
	be.Err(t, rezip.Comment(filepath.Join(t.TempDir(), "missing.zip"), ""))
}

func TestCommentRepeated(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "scans.zip")
	_, err := rezip.CompressDir(tree(t), dest, "first")
	be.Err(t, err, nil)
	for _, label := range []string{"second", "third moeshare"} {
		be.Err(t, rezip.Comment(dest, label), nil)
	}
	r, err := zip.OpenReader(dest)
	be.Err(t, err, nil)
	be.Equal(t, r.Comment, "third moeshare")
	be.Err(t, r.Close(), nil)

	// a stale temp file stops the relabel and is left alone
	stale := dest + ".tmp"
	be.Err(t, os.WriteFile(stale, []byte("stale"), 0o644), nil)
	be.Err(t, rezip.Comment(dest, "fourth"))
	b, err := os.ReadFile(stale)
	be.Err(t, err, nil)
	be.Equal(t, string(b), "stale")
	r, err = zip.OpenReader(dest)
	be.Err(t, err, nil)
	defer r.Close()
	be.Equal(t, r.Comment, "third moeshare")
	be.Equal(t, len(r.File), 3)
}

func TestTest(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	be.Err(t, rezip.Test(tmp), rezip.ErrTest)
	empty := filepath.Join(tmp, "empty.zip")
	be.Err(t, os.WriteFile(empty, nil, 0o644), nil)
	be.Err(t, rezip.Test(empty), rezip.ErrTest)
	junk := filepath.Join(tmp, "junk.zip")
	be.Err(t, os.WriteFile(junk, []byte("not a zip file"), 0o644), nil)
	be.Err(t, rezip.Test(junk), rezip.ErrTest)
}
