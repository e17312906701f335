package rar

import (
	"fmt"
	"io"
)

// Package file blob.go contains the byte range reader used by the decoders.

// SeekMethod is the origin of a seek.
type SeekMethod int

const (
	SeekSet SeekMethod = iota // SeekSet seeks to an absolute position.
	SeekCur                   // SeekCur seeks relative to the current position.
	SeekEnd                   // SeekEnd seeks to the size minus the position.
)

func (m SeekMethod) String() string {
	switch m {
	case SeekSet:
		return "SET"
	case SeekCur:
		return "CUR"
	case SeekEnd:
		return "END"
	}
	return fmt.Sprintf("SeekMethod(%d)", int(m))
}

// BlobReader is a random access cursor over the raw bytes of an archive.
// It is not safe for concurrent use.
type BlobReader struct {
	src  io.ReaderAt
	pos  int64
	size int64
}

// Interface compliance.
var (
	_ io.Reader = (*BlobReader)(nil)
	_ io.Seeker = (*BlobReader)(nil)
	_ io.Closer = (*BlobReader)(nil)
)

// NewBlobReader returns a reader of the size bytes of src, positioned at the start.
func NewBlobReader(src io.ReaderAt, size int64) *BlobReader {
	if size < 0 {
		size = 0
	}
	return &BlobReader{src: src, size: size}
}

// Size returns the number of bytes of the source.
func (b *BlobReader) Size() int64 {
	return b.size
}

// ReadN reads up to n bytes from the current position and advances the
// position by the number of bytes read. Fewer bytes are returned at the end
// of the source together with io.EOF.
func (b *BlobReader) ReadN(n int) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	if b.pos >= b.size {
		return []byte{}, io.EOF
	}
	want := int64(n)
	if remain := b.size - b.pos; want > remain {
		want = remain
	}
	buf := make([]byte, want)
	m, err := b.src.ReadAt(buf, b.pos)
	b.pos += int64(m)
	if err == io.EOF && m == len(buf) {
		err = nil
	}
	if err == nil && m < n {
		err = io.EOF
	}
	return buf[:m], err
}

// Read implements io.Reader.
func (b *BlobReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if b.pos >= b.size {
		return 0, io.EOF
	}
	if remain := b.size - b.pos; int64(len(p)) > remain {
		p = p[:remain]
	}
	n, err := b.src.ReadAt(p, b.pos)
	b.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// Tell returns the current position.
func (b *BlobReader) Tell() int64 {
	return b.pos
}

// SeekTo moves the position using the method.
//
//   - SeekSet moves to pos.
//   - SeekCur moves pos bytes from the current position.
//   - SeekEnd moves to the size minus pos.
//
// False is returned and the position is unchanged when the new position
// would be before the start or beyond the end of the source.
func (b *BlobReader) SeekTo(pos int64, method SeekMethod) bool {
	var next int64
	switch method {
	case SeekSet:
		next = pos
	case SeekCur:
		next = b.pos + pos
	case SeekEnd:
		next = b.size - pos
	default:
		return false
	}
	if next < 0 || next > b.size {
		return false
	}
	b.pos = next
	return true
}

// Seek implements io.Seeker using the io whence constants.
func (b *BlobReader) Seek(offset int64, whence int) (int64, error) {
	var ok bool
	switch whence {
	case io.SeekStart:
		ok = b.SeekTo(offset, SeekSet)
	case io.SeekCurrent:
		ok = b.SeekTo(offset, SeekCur)
	case io.SeekEnd:
		ok = b.SeekTo(-offset, SeekEnd)
	}
	if !ok {
		return b.pos, fmt.Errorf("%w: %d whence %d", ErrSeek, offset, whence)
	}
	return b.pos, nil
}

// Close rewinds the reader to the start, the source is left open.
func (b *BlobReader) Close() error {
	b.pos = 0
	return nil
}
