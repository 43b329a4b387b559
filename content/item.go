// Package content reads source files into items: front matter, a slug and
// date derived from the file, and an HTML body.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adventune/makesite/markdown"
	"adventune/makesite/param"
)

// Keys that every item defines. Front matter may set date and slug; content
// and rfc_2822_date are always computed.
const (
	KeyDate        = "date"
	KeySlug        = "slug"
	KeyContent     = "content"
	KeyRFC2822Date = "rfc_2822_date"
	KeyDraft       = "draft"
)

const rfc2822Layout = "Mon, 02 Jan 2006 15:04:05"

// ErrInvalidDate is returned when a front matter date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// Item is one source file after reading.
type Item struct {
	Path    string
	Slug    string
	Date    time.Time
	Content string

	// Fields holds every other front matter key.
	Fields param.Params
}

// RFC2822Date formats Date for feeds. The offset is always +0000.
func (it *Item) RFC2822Date() string {
	return it.Date.Format(rfc2822Layout) + " +0000"
}

// Published reports whether the item sets draft to the boolean false.
// A missing draft key does not count.
func (it *Item) Published() bool {
	draft, ok := it.Fields[KeyDraft].AsBool()
	return ok && !draft
}

// Params returns the item as template parameters.
func (it *Item) Params() param.Params {
	return it.Fields.Merge(param.Params{
		KeyDate:        param.Date(it.Date),
		KeySlug:        param.String(it.Slug),
		KeyContent:     param.String(it.Content),
		KeyRFC2822Date: param.String(it.RFC2822Date()),
	})
}

// Reader builds items from files.
type Reader struct {
	// Markdown converts bodies of files with a markdown extension.
	Markdown markdown.Converter
	// Now supplies the default date. Defaults to time.Now.
	Now func() time.Time
}

// Read loads path and returns its item.
func (r Reader) Read(path string) (*Item, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, body, err := Split(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	it := &Item{
		Path: path,
		Slug: Slug(path),
		Date: r.today(),
	}

	if v, ok := meta[KeySlug]; ok {
		s, err := param.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("%s: slug: %w", path, err)
		}
		it.Slug = s.String()
	}
	if v, ok := meta[KeyDate]; ok {
		d, err := parseDate(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		it.Date = d
	}
	for _, k := range []string{KeySlug, KeyDate, KeyContent, KeyRFC2822Date} {
		delete(meta, k)
	}

	it.Fields, err = param.FromMap(meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if markdown.IsMarkdown(path) && r.Markdown != nil {
		html, err := r.Markdown.Convert([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("%s: convert markdown: %w", path, err)
		}
		body = string(html)
	}
	it.Content = body

	return it, nil
}

func (r Reader) today() time.Time {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	y, m, d := now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Slug is the file name up to its first dot.
func Slug(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		t, err := time.Parse(param.DateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, fmt.Errorf("%w %q: want YYYY-MM-DD", ErrInvalidDate, d)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %v (%T)", ErrInvalidDate, v, v)
}
