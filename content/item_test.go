package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adventune/makesite/markdown"
	"adventune/makesite/param"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 15, 30, 0, 0, time.Local)
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func newReader() Reader {
	return Reader{Markdown: markdown.NewGoldmark(), Now: fixedNow}
}

func TestRead_MarkdownWithFrontMatter(t *testing.T) {
	path := writeFile(t, t.TempDir(), "2024-05-01-hello.md", "---\ntitle: Hello\ndate: 2024-05-01\n---\n# Hi\n")

	it, err := newReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, "2024-05-01-hello", it.Slug)
	assert.Contains(t, it.Content, "<h1>Hi</h1>")
	assert.Equal(t, "Hello", it.Fields.Get("title"))
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), it.Date)
	assert.Equal(t, "Wed, 01 May 2024 00:00:00 +0000", it.RFC2822Date())

	p := it.Params()
	assert.Equal(t, "2024-05-01", p.Get(KeyDate))
	assert.Equal(t, "2024-05-01-hello", p.Get(KeySlug))
	assert.Equal(t, "Wed, 01 May 2024 00:00:00 +0000", p.Get(KeyRFC2822Date))
	assert.Equal(t, it.Content, p.Get(KeyContent))
}

func TestRead_DefaultsDateToToday(t *testing.T) {
	path := writeFile(t, t.TempDir(), "about.html", "<p>About</p>")

	it, err := newReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), it.Date)
	assert.Equal(t, "Mon, 19 Oct 2026 00:00:00 +0000", it.RFC2822Date())
}

func TestRead_HTMLBodyIsNotConverted(t *testing.T) {
	path := writeFile(t, t.TempDir(), "contact.html", "---\ntitle: Contact\n---\n# not a heading\n")

	it, err := newReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, "# not a heading\n", it.Content)
	assert.Equal(t, "contact", it.Slug)
}

func TestRead_SlugStopsAtFirstDot(t *testing.T) {
	path := writeFile(t, t.TempDir(), "notes.v2.draft.md", "text")

	it, err := newReader().Read(path)
	require.NoError(t, err)
	assert.Equal(t, "notes", it.Slug)
}

func TestRead_FrontMatterOverridesSlugAndIgnoresComputedKeys(t *testing.T) {
	path := writeFile(t, t.TempDir(), "x.md", "---\nslug: custom\ncontent: ignored\nrfc_2822_date: ignored\n---\nbody\n")

	it, err := newReader().Read(path)
	require.NoError(t, err)

	assert.Equal(t, "custom", it.Slug)
	assert.Equal(t, "<p>body</p>\n", it.Content)
	_, ok := it.Fields[KeyContent]
	assert.False(t, ok)
	_, ok = it.Fields[KeyRFC2822Date]
	assert.False(t, ok)
}

func TestRead_MalformedDateIsFatal(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.md", "---\ndate: 01/05/2024\n---\n")

	_, err := newReader().Read(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
	assert.Contains(t, err.Error(), "bad.md")
}

func TestRead_MissingFile(t *testing.T) {
	_, err := newReader().Read(filepath.Join(t.TempDir(), "nope.md"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestPublished_StrictFalse(t *testing.T) {
	cases := []struct {
		name   string
		fields param.Params
		want   bool
	}{
		{"false", param.Params{KeyDraft: param.Bool(false)}, true},
		{"true", param.Params{KeyDraft: param.Bool(true)}, false},
		{"missing", param.Params{}, false},
		{"string false", param.Params{KeyDraft: param.String("false")}, false},
		{"zero int", param.Params{KeyDraft: param.Int(0)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it := &Item{Fields: tc.fields}
			assert.Equal(t, tc.want, it.Published())
		})
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "2024-05-01-hello", Slug("content/blog/2024-05-01-hello.md"))
	assert.Equal(t, "README", Slug("README"))
	assert.Equal(t, "", Slug(".hidden.md"))
}
