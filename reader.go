package moelist

// Package file reader.go contains the archive metadata reader.

import (
	"context"
	"fmt"
	"runtime"

	"github.com/Defacto2/magicnumber"
	"github.com/Defacto2/moelist/rar"
	"go.uber.org/zap"
)

// Reader reads the metadata of archives.
//
//	func Read(ctx context.Context, a moelist.Archive) {
//	    r := moelist.NewReader(moelist.WithLogger(zap.NewExample()))
//	    info, err := r.Open(ctx, a)
//	    if err != nil {
//	        fmt.Fprintf(os.Stderr, "error: %v\n", err)
//	        return
//	    }
//	    fmt.Println(info.Files, "files in", info.Name)
//	}
type Reader struct {
	decoders *rar.Registry
	log      *zap.Logger
	workers  int
}

// Option configures a Reader.
type Option func(*Reader)

// WithDecoders sets the rar decoder registry, the default is [rar.Shared].
func WithDecoders(reg *rar.Registry) Option {
	return func(r *Reader) {
		r.decoders = reg
	}
}

// WithLogger sets the logger, the default discards all logs.
func WithLogger(l *zap.Logger) Option {
	return func(r *Reader) {
		r.log = l
	}
}

// WithWorkers sets the number of archives read at the same time by ReadAll.
// Values less than one use the number of CPUs.
func WithWorkers(n int) Option {
	return func(r *Reader) {
		r.workers = n
	}
}

// NewReader returns a Reader configured by the options.
func NewReader(opts ...Option) *Reader {
	r := &Reader{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.decoders == nil {
		r.decoders = rar.Shared()
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.workers < 1 {
		r.workers = runtime.NumCPU()
	}
	return r
}

// Open reads the metadata of the archive.
//
// ErrUnsupported is returned for an unknown archive kind, ErrCorrupt for a
// container that cannot be parsed and ErrDecoder when the rar decoder
// cannot be loaded.
func (r *Reader) Open(ctx context.Context, a Archive) (Info, error) {
	return r.open(ctx, a, nil)
}

// open reads the archive. A non-nil decErr is the failed rar decoder load of
// the batch, it fails the archive when its content is a rar.
func (r *Reader) open(ctx context.Context, a Archive, decErr error) (Info, error) {
	if len(a.Entries) == 0 {
		return Info{}, fmt.Errorf("open %q: %w", a.Name, ErrEmpty)
	}
	var (
		info Info
		err  error
	)
	switch a.Kind {
	case Zip, Rar:
		info, err = r.container(ctx, a, decErr)
	case Folder:
		info, err = r.Folder(a)
	default:
		return Info{}, fmt.Errorf("open %q %w: %q", a.Name, ErrUnsupported, a.Kind)
	}
	if err != nil {
		return Info{}, err
	}
	r.log.Debug("archive read",
		zap.String("name", info.Name),
		zap.String("kind", string(a.Kind)),
		zap.Int64("size", info.Size),
		zap.Int("files", info.Files),
		zap.Int("folders", info.Folders),
		zap.Strings("exts", info.Exts))
	return info, nil
}

func (r *Reader) container(ctx context.Context, a Archive, decErr error) (Info, error) {
	e := a.Entries[0]
	if e.Open == nil {
		return Info{}, fmt.Errorf("open %q: %w", a.Name, ErrOpen)
	}
	f, err := e.Open()
	if err != nil {
		return Info{}, fmt.Errorf("open %q %w: %w", a.Name, ErrCorrupt, err)
	}
	defer f.Close()
	switch r.sniff(f, a) {
	case Rar:
		if decErr != nil {
			return Info{}, fmt.Errorf("rar decoder %q %w: %w", a.Name, ErrDecoder, decErr)
		}
		return r.Rar(ctx, a, f, e.Size)
	default:
		return r.Zip(ctx, a, f, e.Size)
	}
}

// sniff returns the container kind using the file signature.
// The archive kind is returned when the signature is not a zip or rar.
func (r *Reader) sniff(f File, a Archive) Kind {
	sign, err := magicnumber.Archive(f)
	if err != nil {
		return a.Kind
	}
	kind := a.Kind
	switch sign { //nolint:exhaustive
	case
		magicnumber.PKWAREZip,
		magicnumber.PKWAREZip64,
		magicnumber.PKWAREZipImplode,
		magicnumber.PKWAREZipReduce,
		magicnumber.PKWAREZipShrink:
		kind = Zip
	case
		magicnumber.RoshalARchive,
		magicnumber.RoshalARchivev5:
		kind = Rar
	}
	if kind != a.Kind {
		r.log.Debug("mislabeled container",
			zap.String("name", a.Name),
			zap.String("declared", string(a.Kind)),
			zap.String("found", string(kind)),
			zap.Stringer("signature", sign))
	}
	return kind
}
