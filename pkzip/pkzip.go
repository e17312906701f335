// Package pkzip provides the compression methods and the encryption flags
// found in the central directory of a PKZIP archive.
//
// The file data is never decompressed.
package pkzip

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/zip"
)

var (
	ErrEncrypted = errors.New("zip archive entry is encrypted")
	ErrRead      = errors.New("could not read the zip central directory")
)

// Compression is the compression method of a zip entry.
type Compression uint16

const (
	Stored    Compression = 0  // Stored is uncompressed.
	Shrunk    Compression = 1  // Shrunk is the PKZIP 0.9 dynamic LZW method.
	Reduced1  Compression = 2  // Reduced1 is the PKZIP 0.8 reduce method with factor 1.
	Reduced2  Compression = 3  // Reduced2 is the PKZIP 0.8 reduce method with factor 2.
	Reduced3  Compression = 4  // Reduced3 is the PKZIP 0.8 reduce method with factor 3.
	Reduced4  Compression = 5  // Reduced4 is the PKZIP 0.8 reduce method with factor 4.
	Imploded  Compression = 6  // Imploded is the PKZIP 1.0 implode method.
	Deflated  Compression = 8  // Deflated is the common deflate method.
	Deflate64 Compression = 9  // Deflate64 is the enhanced deflate method.
	BZIP2     Compression = 12 // BZIP2 is the bzip2 method.
	LZMA      Compression = 14 // LZMA is the 7-Zip LZMA method.
	Zstd      Compression = 93 // Zstd is the Zstandard method.
	XZ        Compression = 95 // XZ is the xz method.
	JPEG      Compression = 96 // JPEG is the WinZip JPEG method.
	WavPack   Compression = 97 // WavPack is the WinZip audio method.
	PPMd      Compression = 98 // PPMd is the PPMd version I method.
	AEx       Compression = 99 // AEx is the WinZip AES encryption marker.
)

func (c Compression) String() string {
	switch c {
	case Stored:
		return "Stored"
	case Shrunk:
		return "Shrunk"
	case Reduced1, Reduced2, Reduced3, Reduced4:
		return "Reduced"
	case Imploded:
		return "Imploded"
	case Deflated:
		return "Deflated"
	case Deflate64:
		return "Deflate64"
	case BZIP2:
		return "BZIP2"
	case LZMA:
		return "LZMA"
	case Zstd:
		return "Zstandard"
	case XZ:
		return "XZ"
	case JPEG:
		return "JPEG"
	case WavPack:
		return "WavPack"
	case PPMd:
		return "PPMd"
	case AEx:
		return "AE-x encryption"
	}
	return "Reserved"
}

// Zip returns true if the compression method is supported by modern zip programs.
func (c Compression) Zip() bool {
	return c == Stored || c == Deflated
}

// Report is the central directory summary of a zip archive.
type Report struct {
	Methods   []Compression // Methods are the unique compression methods in the order found.
	Encrypted int           // Encrypted is the number of encrypted entries.
	Entries   int           // Entries is the number of central directory records.
}

// Usable returns true if every method is supported by modern zip programs
// and no entries are encrypted.
func (r Report) Usable() bool {
	if r.Encrypted > 0 {
		return false
	}
	for _, m := range r.Methods {
		if !m.Zip() {
			return false
		}
	}
	return true
}

// Err returns ErrEncrypted when the archive contains encrypted entries.
func (r Report) Err() error {
	if r.Encrypted > 0 {
		return fmt.Errorf("%w: %d of %d entries", ErrEncrypted, r.Encrypted, r.Entries)
	}
	return nil
}

// Methods returns the report of the zip archive in the size bytes of r.
func Methods(r io.ReaderAt, size int64) (Report, error) {
	z, err := zip.NewReader(r, size)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return Inspect(z.File), nil
}

// Inspect returns the report of the central directory records.
func Inspect(files []*zip.File) Report {
	const encrypted = 0x1
	rep := Report{Methods: []Compression{}, Entries: len(files)}
	for _, f := range files {
		c := Compression(f.Method)
		if !slices.Contains(rep.Methods, c) {
			rep.Methods = append(rep.Methods, c)
		}
		if f.Flags&encrypted != 0 {
			rep.Encrypted++
		}
	}
	return rep
}
