// Package markdown converts markdown bodies to HTML.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	gomd "github.com/gomarkdown/markdown"
	gomdhtml "github.com/gomarkdown/markdown/html"
	gomdparser "github.com/gomarkdown/markdown/parser"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"
)

// ErrUnknownEngine is returned by New for an unsupported engine name.
var ErrUnknownEngine = errors.New("unknown markdown engine")

// Extensions are the file extensions treated as markdown sources.
var Extensions = []string{".md", ".mkd", ".mkdn", ".mdown", ".markdown"}

// IsMarkdown reports whether path has one of Extensions.
func IsMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Converter turns a markdown document into an HTML fragment.
// Implementations must be safe for concurrent use.
type Converter interface {
	Convert(src []byte) ([]byte, error)
}

// New returns the converter for engine. An empty name selects goldmark.
func New(engine string) (Converter, error) {
	switch engine {
	case "", EngineGoldmark:
		return NewGoldmark(), nil
	case EngineGomarkdown:
		return Gomarkdown{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}

// Goldmark is a CommonMark compliant converter. Raw HTML in the source is
// passed through, as CommonMark requires.
type Goldmark struct {
	md goldmark.Markdown
}

func NewGoldmark() *Goldmark {
	return &Goldmark{
		md: goldmark.New(
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
	}
}

func (g *Goldmark) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Gomarkdown renders with gomarkdown's common extensions. Headings get
// generated ids and links open in a new tab.
type Gomarkdown struct{}

func (Gomarkdown) Convert(src []byte) ([]byte, error) {
	// parser and renderer keep state, so both are built per call
	extensions := gomdparser.CommonExtensions | gomdparser.AutoHeadingIDs | gomdparser.NoEmptyLineBeforeBlock
	p := gomdparser.NewWithExtensions(extensions)
	doc := p.Parse(src)

	htmlFlags := gomdhtml.CommonFlags | gomdhtml.HrefTargetBlank
	renderer := gomdhtml.NewRenderer(gomdhtml.RendererOptions{Flags: htmlFlags})

	return gomd.Render(doc, renderer), nil
}
