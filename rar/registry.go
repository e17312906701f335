package rar

// Package file registry.go contains the process wide decoder registry.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader loads a Decoder, for example by fetching and verifying its payload.
type Loader func(ctx context.Context) (Decoder, error)

// Registry is a lazily loaded, shared Decoder handle.
//
// The Loader is run on the first request for the Decoder. Concurrent
// requests made while the load is in flight wait for and share its result.
// A successful load is kept for the life of the Registry,
// a failed load is returned to the waiting callers and retried on the next request.
// The load is not canceled with the context of the caller that started it,
// a canceled caller stops waiting while the others keep waiting for the result.
type Registry struct {
	load  Loader
	group singleflight.Group
	mu    sync.RWMutex
	dec   Decoder
}

// NewRegistry returns a Registry using the loader.
// A nil loader uses LoadUnrar.
func NewRegistry(load Loader) *Registry {
	if load == nil {
		load = LoadUnrar
	}
	return &Registry{load: load}
}

var (
	shared     *Registry
	sharedOnce sync.Once
)

// Shared returns the process wide Registry of the Unrar decoder.
func Shared() *Registry {
	sharedOnce.Do(func() {
		shared = NewRegistry(LoadUnrar)
	})
	return shared
}

// Loaded returns true once the Decoder has been loaded.
func (r *Registry) Loaded() bool {
	return r.loaded() != nil
}

func (r *Registry) loaded() Decoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dec
}

// Decoder returns the Decoder, loading it if required.
func (r *Registry) Decoder(ctx context.Context) (Decoder, error) {
	if dec := r.loaded(); dec != nil {
		return dec, nil
	}
	load := context.WithoutCancel(ctx)
	ch := r.group.DoChan("decoder", func() (any, error) {
		if dec := r.loaded(); dec != nil {
			return dec, nil
		}
		dec, err := r.load(load)
		if err != nil {
			if errors.Is(err, ErrInit) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrInit, err)
		}
		if dec == nil {
			return nil, fmt.Errorf("%w: loader returned no decoder", ErrInit)
		}
		r.mu.Lock()
		r.dec = dec
		r.mu.Unlock()
		return dec, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrInit, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		dec, _ := res.Val.(Decoder)
		return dec, nil
	}
}
