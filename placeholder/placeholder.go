// Package placeholder substitutes {{ name }} tokens in layout text.
//
// Tokens whose name is not in the parameter set are kept verbatim so a
// partially rendered layout can be rendered again later, e.g. a post layout
// wrapped into the page layout before the post's own fields are known.
package placeholder

import (
	"regexp"
	"strings"

	"adventune/makesite/param"
)

var token = regexp.MustCompile(`\{\{\s*([^}\s]+)\s*\}\}`)

// Render replaces every resolvable token in tpl with its parameter text.
// Inserted values are not scanned again.
func Render(tpl string, params param.Params) string {
	matches := token.FindAllStringSubmatchIndex(tpl, -1)
	if len(matches) == 0 {
		return tpl
	}

	var b strings.Builder
	b.Grow(len(tpl))
	last := 0
	for _, m := range matches {
		name := tpl[m[2]:m[3]]
		v, ok := params.Lookup(name)
		if !ok {
			continue
		}
		b.WriteString(tpl[last:m[0]])
		b.WriteString(v)
		last = m[1]
	}
	b.WriteString(tpl[last:])
	return b.String()
}
