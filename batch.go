package moelist

// Package file batch.go contains the concurrent reading of dropped entries.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Failure is an archive that could not be read.
type Failure struct {
	Name string // Name of the archive.
	Kind Kind   // Kind of the archive.
	Err  error  // Err is the read error.
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Kind, f.Name, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of reading a batch of dropped entries.
type Result struct {
	ID       uuid.UUID // ID identifies the batch in the logs.
	Infos    []Info    // Infos are the read archives in archive order.
	Failures []Failure // Failures are the archives that could not be read.
}

// HasErrors returns true if any archive in the batch failed.
func (res Result) HasErrors() bool {
	return len(res.Failures) > 0
}

// Err returns the failures joined into a single error or nil.
func (res Result) Err() error {
	errs := make([]error, 0, len(res.Failures))
	for _, f := range res.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// ReadAll groups the entries into archives and reads them.
// See [Group] for the grouping and [Reader.ReadArchives] for the reading.
func (r *Reader) ReadAll(ctx context.Context, entries ...Entry) Result {
	return r.ReadArchives(ctx, Group(entries...)...)
}

// ReadArchives reads the archives concurrently, limited to the reader workers.
//
// A failed archive never stops the batch, it is kept in the Failures of the
// result and left out of the Infos. When the batch contains rar archives the
// decoder is loaded first, if it cannot be loaded every archive whose content
// is a rar fails with ErrDecoder while the other archives are still read.
// A rar named archive that holds a zip is read as a zip.
func (r *Reader) ReadArchives(ctx context.Context, archives ...Archive) Result {
	id := uuid.New()
	log := r.log.With(zap.Stringer("batch", id))
	decErr := r.preload(ctx, archives)
	if decErr != nil {
		log.Warn("rar decoder is unavailable", zap.Error(decErr))
	}
	infos := make([]Info, len(archives))
	errs := make([]error, len(archives))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, a := range archives {
		g.Go(func() error {
			infos[i], errs[i] = r.open(gctx, a, decErr)
			return nil
		})
	}
	_ = g.Wait()
	res := Result{ID: id, Infos: []Info{}, Failures: []Failure{}}
	for i, a := range archives {
		if errs[i] != nil {
			log.Warn("archive failed",
				zap.String("name", a.Name),
				zap.String("kind", string(a.Kind)),
				zap.Error(errs[i]))
			res.Failures = append(res.Failures, Failure{Name: a.Name, Kind: a.Kind, Err: errs[i]})
			continue
		}
		res.Infos = append(res.Infos, infos[i])
	}
	log.Info("batch read",
		zap.Int("archives", len(archives)),
		zap.Int("infos", len(res.Infos)),
		zap.Int("failures", len(res.Failures)))
	return res
}

// preload loads the rar decoder when any of the archives is a rar.
func (r *Reader) preload(ctx context.Context, archives []Archive) error {
	for _, a := range archives {
		if a.Kind != Rar {
			continue
		}
		_, err := r.decoders.Decoder(ctx)
		return err
	}
	return nil
}
