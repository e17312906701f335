package rar

// Package file decoder.go contains the decoders of the rar file headers.

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/nwaples/rardecode"
)

// Decoder lists the content of an archive read by a BlobReader.
type Decoder interface {
	List(ctx context.Context, r *BlobReader) (Listing, error)
}

// Unrar is the Decoder using the [rardecode] package for the file headers
// and [ScanComment] for the archive comment.
// Both the RAR 1.5 to 4.x and RAR 5.0 formats are supported.
//
// [rardecode]: https://github.com/nwaples/rardecode
type Unrar struct {
	Password string // Password is used for archives with encrypted headers.
}

// List returns the file headers and the comment of the archive.
// The file data is never decompressed.
func (u Unrar) List(ctx context.Context, r *BlobReader) (Listing, error) {
	var list Listing
	comment, err := ScanComment(r)
	switch {
	case err == nil:
		list.Comment = comment
	case errors.Is(err, ErrCompressedComment),
		errors.Is(err, ErrSignature):
		// a self-extracting archive or a packed comment is listed without the comment
	default:
		return Listing{}, fmt.Errorf("unrar comment %w", err)
	}
	if !r.SeekTo(0, SeekSet) {
		return Listing{}, ErrSeek
	}
	rr, err := rardecode.NewReader(r, u.Password)
	if err != nil {
		return Listing{}, fmt.Errorf("unrar reader %w: %w", ErrHeader, err)
	}
	list.Headers = []Header{}
	for {
		if err := ctx.Err(); err != nil {
			return Listing{}, fmt.Errorf("unrar list %w", err)
		}
		h, err := rr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Listing{}, fmt.Errorf("unrar next %w: %w", ErrHeader, err)
		}
		list.Headers = append(list.Headers, Header{
			Name:      h.Name,
			Directory: h.IsDir,
			UnpSize:   h.UnPackedSize,
		})
	}
	return list, nil
}

// LoadUnrar is the Loader of the Unrar decoder.
// The decoder is verified by listing an empty archive before it is returned.
func LoadUnrar(ctx context.Context) (Decoder, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInit, err)
	}
	dec := Unrar{}
	p := probe()
	list, err := dec.List(ctx, NewBlobReader(bytes.NewReader(p), int64(len(p))))
	if err != nil {
		return nil, fmt.Errorf("%w: probe %w", ErrInit, err)
	}
	if len(list.Headers) != 0 {
		return nil, fmt.Errorf("%w: probe listed %d headers", ErrInit, len(list.Headers))
	}
	return dec, nil
}

// probe returns an empty RAR 5.0 archive.
func probe() []byte {
	const (
		arc = 1
		end = 5
	)
	var b bytes.Buffer
	b.WriteString(sigPrefix + "\x01\x00")
	for _, body := range [][]byte{{arc, 0, 0}, {end, 0, 0}} {
		head := append([]byte{byte(len(body))}, body...)
		var sum [4]byte
		binary.LittleEndian.PutUint32(sum[:], crc32.ChecksumIEEE(head))
		b.Write(sum[:])
		b.Write(head)
	}
	return b.Bytes()
}
