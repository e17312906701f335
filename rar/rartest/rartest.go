// Package rartest builds small stored rar archives for use in tests.
//
// The file data is always stored without compression or checksums.
package rartest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
)

// Entry is a file or directory in an Archive.
type Entry struct {
	Name string // Name uses '/' as the directory separator.
	Dir  bool   // Dir marks a directory record.
	Data []byte // Data is the stored file content.
}

// Archive describes the content of a rar archive.
type Archive struct {
	Comment    string // Comment is the archive comment, an empty comment is not written.
	Compressed bool   // Compressed flags the comment as packed, the data is written as is.
	Embedded   bool   // Embedded writes a RAR 2.x comment in the main header, for V4 only.
	Entries    []Entry
}

func vint(x uint64) []byte {
	var b []byte
	for x >= 0x80 {
		b = append(b, byte(x)|0x80)
		x >>= 7
	}
	return append(b, byte(x))
}

func block5(buf *bytes.Buffer, body, data []byte) {
	head := append(vint(uint64(len(body))), body...)
	var sum [4]byte
	binary.LittleEndian.PutUint32(sum[:], crc32.ChecksumIEEE(head))
	buf.Write(sum[:])
	buf.Write(head)
	buf.Write(data)
}

func file5(htype uint64, name string, dir bool, method uint64, data []byte) []byte {
	body := vint(htype)
	if len(data) > 0 {
		body = append(body, vint(0x0002)...)
		body = append(body, vint(uint64(len(data)))...)
	} else {
		body = append(body, vint(0)...)
	}
	var flags uint64
	if dir {
		flags = 0x0001
	}
	body = append(body, vint(flags)...)
	body = append(body, vint(uint64(len(data)))...) // unpacked size
	body = append(body, vint(0)...)                 // attributes
	body = append(body, vint(method<<7)...)         // compression information
	body = append(body, vint(1)...)                 // unix host os
	body = append(body, vint(uint64(len(name)))...)
	return append(body, name...)
}

// V5 returns the archive in the RAR 5.0 format.
func (a Archive) V5() []byte {
	var buf bytes.Buffer
	buf.WriteString("Rar!\x1a\x07\x01\x00")
	block5(&buf, []byte{1, 0, 0}, nil)
	if a.Comment != "" {
		var method uint64
		if a.Compressed {
			method = 3
		}
		block5(&buf, file5(3, "CMT", false, method, []byte(a.Comment)), []byte(a.Comment))
	}
	for _, e := range a.Entries {
		block5(&buf, file5(2, e.Name, e.Dir, 0, e.Data), e.Data)
	}
	block5(&buf, []byte{5, 0, 0}, nil)
	return buf.Bytes()
}

func block15(buf *bytes.Buffer, htype byte, flags uint16, fields, data []byte) {
	head := make([]byte, 7, 7+len(fields))
	head[2] = htype
	binary.LittleEndian.PutUint16(head[3:5], flags)
	binary.LittleEndian.PutUint16(head[5:7], uint16(7+len(fields)))
	head = append(head, fields...)
	binary.LittleEndian.PutUint16(head[0:2], uint16(crc32.ChecksumIEEE(head[2:])))
	buf.Write(head)
	buf.Write(data)
}

func file15(name string, method byte, data []byte) []byte {
	f := make([]byte, 25, 25+len(name))
	binary.LittleEndian.PutUint32(f[0:4], uint32(len(data))) // packed size
	binary.LittleEndian.PutUint32(f[4:8], uint32(len(data))) // unpacked size
	f[8] = 3                                                 // unix host os
	binary.LittleEndian.PutUint32(f[9:13], crc32.ChecksumIEEE(data))
	f[17] = 29 // unpack version
	f[18] = method
	binary.LittleEndian.PutUint16(f[19:21], uint16(len(name)))
	return append(f, name...)
}

// V4 returns the archive in the RAR 1.5 to 4.x format.
func (a Archive) V4() []byte {
	const (
		stored = 0x30
		best   = 0x35
		long   = 0x8000
	)
	method := byte(stored)
	if a.Compressed {
		method = best
	}
	var buf bytes.Buffer
	buf.WriteString("Rar!\x1a\x07\x00")
	main := make([]byte, 6)
	switch {
	case a.Comment != "" && a.Embedded:
		c := []byte(a.Comment)
		cmt := make([]byte, 13, 13+len(c))
		cmt[2] = 0x75
		binary.LittleEndian.PutUint16(cmt[5:7], uint16(13+len(c)))
		binary.LittleEndian.PutUint16(cmt[7:9], uint16(len(c)))
		cmt[9] = 20
		cmt[10] = method
		cmt = append(cmt, c...)
		block15(&buf, 0x73, 0x0002, append(main, cmt...), nil)
	case a.Comment != "":
		block15(&buf, 0x73, 0, main, nil)
		block15(&buf, 0x7a, long, file15("CMT", method, []byte(a.Comment)), []byte(a.Comment))
	default:
		block15(&buf, 0x73, 0, main, nil)
	}
	for _, e := range a.Entries {
		var flags uint16 = long
		if e.Dir {
			flags |= 0x00e0
		}
		block15(&buf, 0x74, flags, file15(e.Name, stored, e.Data), e.Data)
	}
	block15(&buf, 0x7b, 0, nil, nil)
	return buf.Bytes()
}
