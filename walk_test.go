package moelist_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Defacto2/moelist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	t.Parallel()
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "book")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vol1", "extra"), 0o755))
	files := map[string]string{
		"book/cover.jpg":            "cover",
		"book/vol1/01.png":          "page one",
		"book/vol1/extra/notes.txt": "notes",
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(tmp, name), []byte(data), 0o644))
	}
	zipName := filepath.Join(tmp, "single.zip")
	require.NoError(t, os.WriteFile(zipName, zipFile(t, "", "a.jpg"), 0o644))

	entries, err := moelist.Walk(zipName, dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	assert.Equal(t, "single.zip", entries[0].Name)
	assert.Empty(t, entries[0].Path)
	assert.Equal(t, "/book/cover.jpg", entries[1].Path)
	assert.Equal(t, "/book/vol1/01.png", entries[2].Path)
	assert.Equal(t, "/book/vol1/extra/notes.txt", entries[3].Path)
	assert.Equal(t, int64(len("page one")), entries[2].Size)

	res := moelist.NewReader().ReadAll(context.Background(), entries...)
	require.Empty(t, res.Failures)
	require.Len(t, res.Infos, 2)
	assert.Equal(t, 1, res.Infos[0].Files)
	assert.Equal(t, "book", res.Infos[1].Name)
	assert.Equal(t, 3, res.Infos[1].Files)
	assert.Equal(t, 2, res.Infos[1].Folders)

	_, err = moelist.Walk(filepath.Join(tmp, "missing"))
	require.Error(t, err)
}

func TestWalkWorkingDir(t *testing.T) {
	// changes the working directory so it cannot run in parallel
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "book")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vol1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("cover"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vol1", "01.jpg"), []byte("page"), 0o644))
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})

	for _, name := range []string{".", "./", "../book"} {
		entries, err := moelist.Walk(name)
		require.NoError(t, err, name)
		require.Len(t, entries, 2, name)
		assert.Equal(t, "/book/cover.jpg", entries[0].Path, name)
		assert.Equal(t, "/book/vol1/01.jpg", entries[1].Path, name)
		archives := moelist.Group(entries...)
		require.Len(t, archives, 1, name)
		assert.Equal(t, "book", archives[0].Name)
		assert.Equal(t, moelist.Folder, archives[0].Kind)
	}

	_, err = moelist.Walk(string(filepath.Separator))
	require.ErrorIs(t, err, moelist.ErrRoot)
}
