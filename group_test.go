package moelist_test

import (
	"fmt"
	"testing"

	"github.com/Defacto2/moelist"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ExampleGroup() {
	archives := moelist.Group(
		moelist.Entry{Name: "001.jpg", Path: "/scans/001.jpg", Size: 100},
		moelist.Entry{Name: "book.cbz", Size: 5000},
		moelist.Entry{Name: "002.jpg", Path: "/scans/sub/002.jpg", Size: 200},
		moelist.Entry{Name: "loose.txt", Size: 1},
	)
	for _, a := range archives {
		fmt.Println(a.Kind, a.Name, a.Size, len(a.Entries))
	}
	// Output:
	// zip book.cbz 5000 1
	// folder scans 300 2
}

func TestKindOf(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		want moelist.Kind
		ok   bool
	}{
		{"a.zip", moelist.Zip, true},
		{"a.cbz", moelist.Zip, true},
		{"a.epub", moelist.Zip, true},
		{"a.rar", moelist.Rar, true},
		{"a.cbr", moelist.Rar, true},
		{"a.ZIP", "", false},
		{"a.7z", "", false},
		{"zip", "", false},
	}
	for _, tt := range tests {
		kind, ok := moelist.KindOf(tt.name)
		assert.Equal(t, tt.want, kind, tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
	}
}

func TestGroup(t *testing.T) {
	t.Parallel()
	archives := moelist.Group(
		moelist.Entry{Name: "x.png", Path: "/b/x.png", Size: 1},
		moelist.Entry{Name: "one.rar", Size: 10},
		moelist.Entry{Name: "y.png", Path: "/a/y.png", Size: 2},
		moelist.Entry{Name: "z.png", Path: "/b/deep/z.png", Size: 3},
		moelist.Entry{Name: "two.epub", Size: 20},
		moelist.Entry{Name: "relative.png", Path: "b/relative.png", Size: 4},
	)
	require.Len(t, archives, 4)
	names := []string{}
	for _, a := range archives {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"one.rar", "two.epub", "b", "a"}, names)
	assert.Equal(t, moelist.Rar, archives[0].Kind)
	assert.Equal(t, moelist.Zip, archives[1].Kind)
	assert.Equal(t, moelist.Folder, archives[2].Kind)
	assert.Equal(t, int64(4), archives[2].Size)
	assert.Len(t, archives[2].Entries, 2)

	assert.Empty(t, moelist.Group())
}

func genEntry() gopter.Gen {
	return gopter.CombineGens(
		gen.IntRange(0, 3),
		gen.IntRange(0, 4),
		gen.Int64Range(0, 1<<30),
	).Map(func(v []interface{}) moelist.Entry {
		n, dir, size := v[0].(int), v[1].(int), v[2].(int64)
		names := []string{"a.zip", "b.rar", "c.jpg", "d.cbz"}
		e := moelist.Entry{Name: names[n], Size: size}
		if dir > 0 {
			e.Path = fmt.Sprintf("/dir%d/%s", dir, e.Name)
		}
		return e
	})
}

func TestGroupProperties(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)
	properties.Property("containers come before folders", prop.ForAll(
		func(entries []moelist.Entry) bool {
			folder := false
			for _, a := range moelist.Group(entries...) {
				if a.Kind == moelist.Folder {
					folder = true
					continue
				}
				if folder {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genEntry()),
	))
	properties.Property("grouping keeps the container order and the total size", prop.ForAll(
		func(entries []moelist.Entry) bool {
			var want, got int64
			containers := []string{}
			for _, e := range entries {
				if _, ok := moelist.KindOf(e.Name); ok {
					containers = append(containers, e.Name)
					want += e.Size
				} else if e.Path != "" {
					want += e.Size
				}
			}
			i := 0
			for _, a := range moelist.Group(entries...) {
				got += a.Size
				if a.Kind == moelist.Folder {
					continue
				}
				if i >= len(containers) || containers[i] != a.Name {
					return false
				}
				i++
			}
			return got == want && i == len(containers)
		},
		gen.SliceOf(genEntry()),
	))
	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
