package moelist

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Defacto2/moelist/rar"
)

// Package file rar.go contains the RAR metadata reader.

// Rar returns the metadata of the rar archive in the size bytes of f.
// The format is credited to Alexander Roshal, the file headers are listed
// by the decoder of the reader's [rar.Registry].
//
// The size is always the archive size as the unpacked sizes would
// require the whole archive to be read.
func (r *Reader) Rar(ctx context.Context, a Archive, f io.ReaderAt, size int64) (Info, error) {
	dec, err := r.decoders.Decoder(ctx)
	if err != nil {
		return Info{}, fmt.Errorf("rar decoder %q %w: %w", a.Name, ErrDecoder, err)
	}
	br := rar.NewBlobReader(f, size)
	defer br.Close()
	list, err := dec.List(ctx, br)
	if err != nil {
		if errors.Is(err, rar.ErrInit) {
			return Info{}, fmt.Errorf("rar list %q %w: %w", a.Name, ErrDecoder, err)
		}
		return Info{}, fmt.Errorf("rar list %q %w: %w", a.Name, ErrCorrupt, err)
	}
	info := Info{
		Name:    a.Name,
		Size:    a.Size,
		Comment: Text(list.Comment),
	}
	var x exts
	for _, h := range list.Headers {
		if h.Directory {
			info.Folders++
			continue
		}
		info.Files++
		x.add(h.Name)
	}
	info.Exts = x.values()
	return info, nil
}
