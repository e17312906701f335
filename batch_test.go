package moelist_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/Defacto2/moelist"
	"github.com/Defacto2/moelist/rar"
	"github.com/Defacto2/moelist/rar/rartest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func batch(t *testing.T) []moelist.Entry {
	t.Helper()
	return []moelist.Entry{
		{Name: "cover.jpg", Path: "/loose/cover.jpg", Size: 100},
		memEntry("first.zip", zipFile(t, "moeshare", "01.jpg")),
		memEntry("second.rar", rartest.Archive{Entries: []rartest.Entry{
			{Name: "01.png", Data: []byte("png")},
		}}.V5()),
		memEntry("broken.zip", []byte("broken")),
		memEntry("third.cbz", zipFile(t, "", "01.jpg", "02.jpg")),
	}
}

func TestReadAll(t *testing.T) {
	t.Parallel()
	r := moelist.NewReader(moelist.WithWorkers(2), moelist.WithLogger(zaptest.NewLogger(t)))
	res := r.ReadAll(context.Background(), batch(t)...)
	assert.NotEqual(t, uuid.Nil, res.ID)
	require.Len(t, res.Infos, 4)
	names := []string{}
	for _, info := range res.Infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"first.zip", "second.rar", "third.cbz", "loose"}, names)
	require.Len(t, res.Failures, 1)
	assert.True(t, res.HasErrors())
	assert.Equal(t, "broken.zip", res.Failures[0].Name)
	assert.Equal(t, moelist.Zip, res.Failures[0].Kind)
	require.ErrorIs(t, res.Err(), moelist.ErrCorrupt)
	assert.Contains(t, res.Failures[0].Error(), "zip broken.zip")
}

func TestReadAllDecoderFailure(t *testing.T) {
	t.Parallel()
	var loads atomic.Int32
	fetch := errors.New("decoder payload could not be fetched")
	reg := rar.NewRegistry(func(context.Context) (rar.Decoder, error) {
		if loads.Add(1) == 1 {
			return nil, fetch
		}
		return rar.Unrar{}, nil
	})
	r := moelist.NewReader(moelist.WithDecoders(reg))
	entries := append(batch(t),
		memEntry("fourth.rar", rartest.Archive{}.V4()),
		memEntry("really-a-zip.cbr", zipFile(t, "", "01.jpg", "02.jpg", "03.jpg")))
	res := r.ReadAll(context.Background(), entries...)
	require.Len(t, res.Failures, 3)
	assert.Equal(t, "second.rar", res.Failures[0].Name)
	assert.Equal(t, "broken.zip", res.Failures[1].Name)
	assert.Equal(t, "fourth.rar", res.Failures[2].Name)
	require.ErrorIs(t, res.Failures[0], moelist.ErrDecoder)
	require.ErrorIs(t, res.Failures[2].Err, fetch)
	require.Len(t, res.Infos, 4, "zip and folder archives are still read")
	assert.Equal(t, "really-a-zip.cbr", res.Infos[2].Name)
	assert.Equal(t, 3, res.Infos[2].Files)
	assert.Equal(t, int32(1), loads.Load(), "one load per batch")

	// the failed load is not cached so the next batch retries
	res = r.ReadAll(context.Background(), entries...)
	assert.Len(t, res.Failures, 1)
	assert.Len(t, res.Infos, 6)
	assert.Equal(t, int32(2), loads.Load())
}

func TestReadAllEmpty(t *testing.T) {
	t.Parallel()
	res := moelist.NewReader().ReadAll(context.Background())
	assert.Empty(t, res.Infos)
	assert.Empty(t, res.Failures)
	assert.False(t, res.HasErrors())
	require.NoError(t, res.Err())
}

func TestReadAllCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := moelist.NewReader().ReadArchives(ctx, moelist.Group(
		memEntry("first.zip", zipFile(t, "", "01.jpg")),
	)...)
	require.Len(t, res.Failures, 1)
	require.ErrorIs(t, res.Err(), context.Canceled)
}

func TestCollection(t *testing.T) {
	t.Parallel()
	var c moelist.Collection
	assert.Equal(t, 0, c.Len())
	r := moelist.NewReader()
	failures := c.Add(r.ReadAll(context.Background(), batch(t)...))
	assert.Len(t, failures, 1)
	assert.Equal(t, 4, c.Len())
	c.Append(moelist.Info{Name: "extra"})
	infos := c.Infos()
	require.Len(t, infos, 5)
	assert.Equal(t, "extra", infos[4].Name)
	infos[0].Name = "changed"
	assert.Equal(t, "first.zip", c.Infos()[0].Name)
	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Infos())
}
