package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"content/about.html",
		"content/_index.html",
		"content/contact.html",
		"content/.hidden.html",
		"content/notes.txt",
		"content/blog/2024-01-01-a.md",
		"content/blog/2024-02-01-b.markdown",
		"content/blog/c.mdown",
		"content/blog/d.html",
		"content/blog/sub/e.md",
	} {
		write(t, filepath.Join(dir, name), "x")
	}

	cases := []struct {
		name    string
		pattern string
		want    []string
	}{
		{
			name:    "negated class",
			pattern: "content/[!_]*.html",
			want:    []string{"content/about.html", "content/contact.html"},
		},
		{
			name:    "alternatives",
			pattern: "content/blog/*.{md,mkd,mkdn,mdown,markdown}",
			want:    []string{"content/blog/2024-01-01-a.md", "content/blog/2024-02-01-b.markdown", "content/blog/c.mdown"},
		},
		{
			name:    "star does not cross directories",
			pattern: "content/*.md",
			want:    nil,
		},
		{
			name:    "literal path",
			pattern: "content/about.html",
			want:    []string{"content/about.html"},
		},
		{
			name:    "missing directory",
			pattern: "nothing/*.md",
			want:    nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Glob(filepath.Join(dir, tc.pattern))
			require.NoError(t, err)

			var want []string
			for _, w := range tc.want {
				want = append(want, filepath.Join(dir, w))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestGlob_BadPattern(t *testing.T) {
	_, err := Glob(filepath.Join(t.TempDir(), "[abc"))
	require.Error(t, err)
}

func TestStaticPrefix(t *testing.T) {
	assert.Equal(t, "content/blog", staticPrefix("content/blog/*.md"))
	assert.Equal(t, ".", staticPrefix("*.md"))
	assert.Equal(t, "/srv/site", staticPrefix("/srv/site/[!_]*.html"))
	assert.Equal(t, "a/b.md", staticPrefix("a/b.md"))
}

func TestCopyTree(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "static", "css", "style.css"), "body{}")
	write(t, filepath.Join(dir, "static", "favicon.ico"), "ico")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static", "empty"), 0o755))

	require.NoError(t, copyTree(filepath.Join(dir, "static"), filepath.Join(dir, "out")))

	assert.Equal(t, "body{}", read(t, filepath.Join(dir, "out", "css", "style.css")))
	assert.Equal(t, "ico", read(t, filepath.Join(dir, "out", "favicon.ico")))
	assert.DirExists(t, filepath.Join(dir, "out", "empty"))
}

func TestFwrite_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "index.html")

	require.NoError(t, fwrite(path, "hi"))
	assert.Equal(t, "hi", read(t, path))
}
