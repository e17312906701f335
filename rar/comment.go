package rar

// Package file comment.go contains the archive comment scanner.
//
// Archive comments are skipped by the file header decoders, so the block
// headers are walked here instead. Only the block headers are read, the
// data areas of the file blocks are seeked over.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	sigPrefix = "Rar!\x1a\x07"
	cmt       = "CMT" // name of the comment service header

	// RAR 5.0 block types and flags
	block5Service = 3
	block5Encrypt = 4
	block5End     = 5
	block5Extra   = 0x0001
	block5Data    = 0x0002
	file5Mtime    = 0x0002
	file5CRC32    = 0x0004
	maxHeader5    = 2 * 1024 * 1024

	// RAR 1.5 to 4.x block types and flags
	block15Main    = 0x73
	block15Comment = 0x75
	block15Sub     = 0x7a
	block15End     = 0x7b
	long15         = 0x8000
	large15        = 0x0100
	main15Comment  = 0x0002
	stored15       = 0x30
	base15         = 7
	file15Fields   = 25
	comment15Head  = 13
)

// ScanComment returns the raw comment of the archive read by r.
// The reader is rewound to the start before the scan.
//
// An empty string is returned for archives without a comment.
// Comments using compression return ErrCompressedComment,
// archives that do not start with a rar signature return ErrSignature.
func ScanComment(r *BlobReader) (string, error) {
	if !r.SeekTo(0, SeekSet) {
		return "", ErrSeek
	}
	sig, _ := r.ReadN(len(sigPrefix) + 1)
	if len(sig) < len(sigPrefix)+1 || !bytes.HasPrefix(sig, []byte(sigPrefix)) {
		return "", ErrSignature
	}
	switch sig[len(sigPrefix)] {
	case 0:
		return scan15(r)
	case 1:
		b, _ := r.ReadN(1)
		if len(b) != 1 || b[0] != 0 {
			return "", ErrSignature
		}
		return scan50(r)
	}
	return "", fmt.Errorf("%w: unknown version %d", ErrSignature, sig[len(sigPrefix)])
}

// field is a cursor over the bytes of a block header.
type field struct {
	b   []byte
	bad bool
}

func (f *field) uvarint() uint64 {
	var x uint64
	for i, c := range f.b {
		if i > 9 {
			break
		}
		x |= uint64(c&0x7f) << (7 * uint(i))
		if c&0x80 == 0 {
			f.b = f.b[i+1:]
			return x
		}
	}
	f.b = nil
	f.bad = true
	return 0
}

func (f *field) bytes(n int) []byte {
	if n < 0 || len(f.b) < n {
		f.b = nil
		f.bad = true
		return nil
	}
	p := f.b[:n]
	f.b = f.b[n:]
	return p
}

func (f *field) skip(n int) {
	_ = f.bytes(n)
}

// readVint reads a RAR 5.0 variable length integer and returns it with its encoded bytes.
func readVint(r *BlobReader) (uint64, []byte, error) {
	var raw []byte
	for range 10 {
		b, err := r.ReadN(1)
		if len(b) != 1 {
			return 0, nil, fmt.Errorf("%w: %w", ErrHeader, err)
		}
		raw = append(raw, b[0])
		if b[0]&0x80 == 0 {
			f := field{b: raw}
			return f.uvarint(), raw, nil
		}
	}
	return 0, nil, fmt.Errorf("%w: variable integer overflow", ErrHeader)
}

func scan50(r *BlobReader) (string, error) {
	for {
		sum, err := r.ReadN(4)
		if len(sum) == 0 && errors.Is(err, io.EOF) {
			return "", nil
		}
		if len(sum) != 4 {
			return "", fmt.Errorf("%w: short checksum", ErrHeader)
		}
		size, raw, err := readVint(r)
		if err != nil {
			return "", err
		}
		if size == 0 || size > maxHeader5 {
			return "", fmt.Errorf("%w: header size %d", ErrHeader, size)
		}
		body, _ := r.ReadN(int(size))
		if uint64(len(body)) != size {
			return "", fmt.Errorf("%w: short header", ErrHeader)
		}
		crc := crc32.NewIEEE()
		crc.Write(raw)
		crc.Write(body)
		if crc.Sum32() != binary.LittleEndian.Uint32(sum) {
			return "", fmt.Errorf("%w: header checksum mismatch", ErrHeader)
		}
		f := field{b: body}
		htype := f.uvarint()
		flags := f.uvarint()
		if flags&block5Extra != 0 {
			_ = f.uvarint()
		}
		var dataSize uint64
		if flags&block5Data != 0 {
			dataSize = f.uvarint()
		}
		if f.bad {
			return "", fmt.Errorf("%w: block fields", ErrHeader)
		}
		switch htype {
		case block5End, block5Encrypt:
			return "", nil
		case block5Service:
			name, method, ok := service5(&f)
			if !ok {
				return "", fmt.Errorf("%w: service header", ErrHeader)
			}
			if name != cmt {
				break
			}
			if method != 0 {
				return "", ErrCompressedComment
			}
			data, _ := r.ReadN(int(dataSize))
			if uint64(len(data)) != dataSize {
				return "", fmt.Errorf("%w: short comment", ErrHeader)
			}
			return string(data), nil
		}
		if !r.SeekTo(int64(dataSize), SeekCur) {
			return "", fmt.Errorf("%w: data area beyond the end", ErrHeader)
		}
	}
}

// service5 returns the name and compression method of a RAR 5.0 service header.
func service5(f *field) (string, uint64, bool) {
	flags := f.uvarint()
	_ = f.uvarint() // unpacked size
	_ = f.uvarint() // attributes
	if flags&file5Mtime != 0 {
		f.skip(4)
	}
	if flags&file5CRC32 != 0 {
		f.skip(4)
	}
	info := f.uvarint()
	_ = f.uvarint() // host os
	n := f.uvarint()
	name := f.bytes(int(n))
	if f.bad {
		return "", 0, false
	}
	return string(name), (info >> 7) & 7, true
}

// scan15 walks the blocks of a RAR 1.5 to 4.x archive.
// RAR 1.5 header checksums are left to the decoder.
func scan15(r *BlobReader) (string, error) {
	for {
		start := r.Tell()
		base, err := r.ReadN(base15)
		if len(base) == 0 && errors.Is(err, io.EOF) {
			return "", nil
		}
		if len(base) != base15 {
			return "", fmt.Errorf("%w: short block", ErrHeader)
		}
		htype := base[2]
		flags := binary.LittleEndian.Uint16(base[3:5])
		size := int(binary.LittleEndian.Uint16(base[5:7]))
		if size < base15 {
			return "", fmt.Errorf("%w: block size %d", ErrHeader, size)
		}
		rest, _ := r.ReadN(size - base15)
		if len(rest) != size-base15 {
			return "", fmt.Errorf("%w: short header", ErrHeader)
		}
		var add int64
		if flags&long15 != 0 && len(rest) >= 4 {
			add = int64(binary.LittleEndian.Uint32(rest[0:4]))
		}
		switch htype {
		case block15End:
			return "", nil
		case block15Main:
			if flags&main15Comment == 0 || len(rest) < 6 {
				break
			}
			return comment15(rest[6:])
		case block15Comment:
			return comment15(append(base, rest...))
		case block15Sub:
			if len(rest) < file15Fields {
				return "", fmt.Errorf("%w: sub block", ErrHeader)
			}
			f := field{b: rest[file15Fields:]}
			if flags&large15 != 0 {
				high := f.bytes(8)
				if high != nil {
					add += int64(binary.LittleEndian.Uint32(high[0:4])) << 32
				}
			}
			n := int(binary.LittleEndian.Uint16(rest[19:21]))
			name := f.bytes(n)
			if f.bad {
				return "", fmt.Errorf("%w: sub block name", ErrHeader)
			}
			if string(name) != cmt {
				break
			}
			if rest[18] != stored15 {
				return "", ErrCompressedComment
			}
			data, _ := r.ReadN(int(add))
			if int64(len(data)) != add {
				return "", fmt.Errorf("%w: short comment", ErrHeader)
			}
			return string(data), nil
		default:
			if flags&large15 != 0 && len(rest) >= file15Fields+8 {
				add += int64(binary.LittleEndian.Uint32(rest[file15Fields:file15Fields+4])) << 32
			}
		}
		if !r.SeekTo(start+int64(size)+add, SeekSet) {
			return "", fmt.Errorf("%w: data area beyond the end", ErrHeader)
		}
	}
}

// comment15 returns the data of a RAR 2.x comment block.
func comment15(b []byte) (string, error) {
	if len(b) < comment15Head || b[2] != block15Comment {
		return "", fmt.Errorf("%w: comment block", ErrHeader)
	}
	size := int(binary.LittleEndian.Uint16(b[5:7]))
	if size < comment15Head || size > len(b) {
		return "", fmt.Errorf("%w: comment block size %d", ErrHeader, size)
	}
	if b[10] != stored15 {
		return "", ErrCompressedComment
	}
	return string(b[comment15Head:size]), nil
}
