// Package rar lists the headers and the comment of Roshal ARchives
// credited to Alexander Roshal.
//
// The archive is read through a [BlobReader], a byte range reader over the
// raw file content that is the only I/O dependency of a [Decoder].
// Decoders are loaded once per process using a [Registry].
package rar

import (
	"errors"
)

var (
	ErrInit              = errors.New("rar decoder initialization failed")
	ErrSignature         = errors.New("rar signature is missing")
	ErrHeader            = errors.New("rar header is corrupt")
	ErrCompressedComment = errors.New("rar comment is compressed")
	ErrSeek              = errors.New("seek position is out of range")
)

// Header is a file header record of an archive.
type Header struct {
	Name      string // Name uses '/' as the directory separator.
	Directory bool   // Directory is true for folder records.
	UnpSize   int64  // UnpSize is the unpacked file size.
}

// Listing is the content of an archive.
type Listing struct {
	Comment string   // Comment is the raw archive comment text.
	Headers []Header // Headers are the file header records in archive order.
}
