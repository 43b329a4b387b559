package builder

import (
	"regexp"
	"strings"

	"adventune/makesite/content"
	"adventune/makesite/param"
	"adventune/makesite/placeholder"
)

const (
	keyRender            = "render"
	keySource            = "source"
	keySummary           = "summary"
	keyAuthorDescription = "author_description"

	summaryWords = 25
)

var tagPattern = regexp.MustCompile(`(?s)<.*?>`)

// Truncate removes HTML tags and keeps the first n words, joined by single
// spaces.
func Truncate(text string, n int) string {
	words := strings.Fields(tagPattern.ReplaceAllString(text, " "))
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// renderEnabled reports whether a page asks for its own body to be run
// through the placeholder renderer.
func renderEnabled(p param.Params) bool {
	v, ok := p[keyRender]
	if !ok {
		return false
	}
	switch v.Kind() {
	case param.KindBool:
		b, _ := v.AsBool()
		return b
	case param.KindString:
		switch strings.ToLower(v.String()) {
		case "yes", "true":
			return true
		}
	}
	return false
}

// pageParams merges base with the item and applies per page processing.
// When rendering is enabled the item's content is replaced with the
// rendered body.
func (g *Generator) pageParams(base param.Params, it *content.Item) (param.Params, error) {
	p := base.Merge(it.Params())

	desc := p.Get(keyAuthorDescription)
	if g.Markdown != nil {
		html, err := g.Markdown.Convert([]byte(desc))
		if err != nil {
			return nil, err
		}
		desc = string(html)
	}
	p[keyAuthorDescription] = param.String(desc)

	if renderEnabled(p) {
		rendered := placeholder.Render(it.Content, p)
		it.Content = rendered
		p[content.KeyContent] = param.String(rendered)
	}
	return p, nil
}

// itemParams prepares one entry of a list page.
func itemParams(base param.Params, it *content.Item) param.Params {
	p := base.Merge(it.Params())

	if src := p.Get(keySource); src != "" {
		p[keySource] = param.String("<a href='" + src + "'>#</a>")
	}

	if s, ok := it.Fields[keySummary]; ok {
		p[keySummary] = s
	} else {
		p[keySummary] = param.String(Truncate(it.Content, summaryWords))
	}
	return p
}
