package content

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

const (
	delimiter = "---"
	bom       = "\ufeff"
)

// yamlFormat is the only front matter syntax content files may use. adrg's
// default formats would also accept TOML and JSON blocks.
var yamlFormat = frontmatter.NewFormat(delimiter, delimiter, yaml.Unmarshal)

// Split separates a leading YAML block delimited by "---" lines from the body.
//
// Without a block, or when the opening line is never closed, meta is empty
// and body is the whole text. A leading byte order mark is dropped and
// blank lines before the opening delimiter are skipped.
func Split(text string) (meta map[string]any, body string, err error) {
	text = strings.TrimPrefix(text, bom)
	meta = map[string]any{}
	rest, err := frontmatter.Parse(strings.NewReader(text), &meta, yamlFormat)
	if err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}
	if meta == nil {
		// a block holding only "~" or "null" decodes to a nil map
		meta = map[string]any{}
	}
	return meta, string(rest), nil
}

// Join writes meta back as a YAML block in front of body. An empty meta
// yields body unchanged.
func Join(meta map[string]any, body string) (string, error) {
	if len(meta) == 0 {
		return body, nil
	}
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(body)
	return buf.String(), nil
}
