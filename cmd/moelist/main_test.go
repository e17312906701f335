package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/nalgeon/be"
)

func folder(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "scans")
	be.Err(t, os.MkdirAll(filepath.Join(root, "vol1"), 0o755), nil)
	for _, name := range []string{"cover.jpg", "vol1/001.jpg", "vol1/notes.txt"} {
		be.Err(t, os.WriteFile(filepath.Join(root, name), []byte("data"), 0o644), nil)
	}
	return root
}

func TestList(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-forum", "chinese-physical", folder(t)}, &stdout, &stderr)
	be.Equal(t, code, exitOK)
	out := stdout.String()
	be.True(t, strings.HasPrefix(out, "moelist v0.0.1\n"))
	be.True(t, strings.Contains(out, "3 files, 1 folders"))
	be.True(t, strings.Contains(out, "实体首发MB奖励: 2 + 1"))
	warn := stderr.String()
	be.True(t, strings.Contains(warn, "存在非图片文件"))
	be.True(t, strings.Contains(warn, "不符合规则的标签"))
}

func TestListTable(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-style", "table", "-workers", "1", folder(t)}, &stdout, &stderr)
	be.Equal(t, code, exitOK)
	be.True(t, strings.HasPrefix(stdout.String(), "[quote]\n"))
}

func TestListUsage(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	be.Equal(t, run(context.Background(), nil, &stdout, &stderr), exitUsage)
	be.Equal(t, run(context.Background(), []string{"-style", "html", "x"}, &stdout, &stderr), exitUsage)
	be.Equal(t, run(context.Background(), []string{"-forum", "unknown", "x"}, &stdout, &stderr), exitUsage)
	be.Equal(t, stdout.Len(), 0)
	missing := filepath.Join(t.TempDir(), "missing")
	be.Equal(t, run(context.Background(), []string{missing}, &stdout, &stderr), exitFailure)
}

func TestPack(t *testing.T) {
	t.Parallel()
	dest := filepath.Join(t.TempDir(), "scans.zip")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"pack", "-comment", "by moeshare", folder(t), dest}, &stdout, &stderr)
	be.Equal(t, code, exitOK)
	be.True(t, strings.HasPrefix(stdout.String(), "packed 12 bytes"))

	code = run(context.Background(), []string{"pack", "-relabel", dest}, &stdout, &stderr)
	be.Equal(t, code, exitOK)
	r, err := zip.OpenReader(dest)
	be.Err(t, err, nil)
	defer r.Close()
	be.Equal(t, r.Comment, "moeshare")

	stdout.Reset()
	code = run(context.Background(), []string{dest}, &stdout, &stderr)
	be.Equal(t, code, exitOK)
	be.True(t, strings.Contains(stdout.String(), "3 files, 0 folders"))
	be.Equal(t, run(context.Background(), []string{"pack", dest}, &stdout, &stderr), exitUsage)
}
