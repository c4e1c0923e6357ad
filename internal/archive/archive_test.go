package archive

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/desertthunder/ytbox/internal/shared"
	tu "github.com/desertthunder/ytbox/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func members(t *testing.T, path string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer r.Close()

	out := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(data)
	}
	return out
}

func TestBuild(t *testing.T) {
	t.Run("bundles files under their base names", func(t *testing.T) {
		src := t.TempDir()
		a := filepath.Join(src, "01_a.mp3")
		b := filepath.Join(src, "02_b.mp3")
		tu.MustWriteFile(t, a, "aaa")
		tu.MustWriteFile(t, b, "bbb")

		out := t.TempDir()
		path, err := NewBuilder(out, tu.QuietLogger()).Build([]string{a, b}, "mix")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(out, "mix.zip"), path)
		assert.Equal(t, map[string]string{"01_a.mp3": "aaa", "02_b.mp3": "bbb"}, members(t, path))
	})

	t.Run("skips missing inputs", func(t *testing.T) {
		src := t.TempDir()
		a := filepath.Join(src, "a.mp3")
		tu.MustWriteFile(t, a, "aaa")

		path, err := NewBuilder(t.TempDir(), tu.QuietLogger()).Build([]string{filepath.Join(src, "gone.mp3"), a}, "mix")
		require.NoError(t, err)
		assert.Len(t, members(t, path), 1)
	})

	t.Run("duplicate base names keep the first", func(t *testing.T) {
		one, two := t.TempDir(), t.TempDir()
		tu.MustWriteFile(t, filepath.Join(one, "song.mp3"), "first")
		tu.MustWriteFile(t, filepath.Join(two, "song.mp3"), "second")

		path, err := NewBuilder(t.TempDir(), tu.QuietLogger()).Build(
			[]string{filepath.Join(one, "song.mp3"), filepath.Join(two, "song.mp3")}, "mix")
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"song.mp3": "first"}, members(t, path))
	})

	t.Run("nothing to archive", func(t *testing.T) {
		out := t.TempDir()
		_, err := NewBuilder(out, tu.QuietLogger()).Build([]string{"/does/not/exist.mp3"}, "mix")
		assert.True(t, errors.Is(err, shared.ErrFilesystem))

		entries, _ := os.ReadDir(out)
		assert.Empty(t, entries)
	})

	t.Run("same inputs give the same member set", func(t *testing.T) {
		src := t.TempDir()
		paths := []string{filepath.Join(src, "x.mp3"), filepath.Join(src, "y.mp3")}
		for _, p := range paths {
			tu.MustWriteFile(t, p, filepath.Base(p))
		}
		b := NewBuilder(t.TempDir(), tu.QuietLogger())

		first, err := b.Build(paths, "one")
		require.NoError(t, err)
		second, err := b.Build(paths, "two")
		require.NoError(t, err)

		names := func(m map[string]string) []string {
			var out []string
			for k := range m {
				out = append(out, k)
			}
			sort.Strings(out)
			return out
		}
		assert.Equal(t, names(members(t, first)), names(members(t, second)))
	})
}

func TestName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, "Road Trip_20240102_150405", Name("Road Trip", ts))
	assert.Equal(t, "ACDC_20240102_150405", Name("AC/DC", ts))
}
