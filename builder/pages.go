package builder

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"adventune/makesite/content"
	"adventune/makesite/markdown"
	"adventune/makesite/param"
	"adventune/makesite/placeholder"
)

// Generator renders content files and lists of items into output files.
type Generator struct {
	Reader content.Reader
	// Markdown renders the author_description parameter of pages.
	Markdown markdown.Converter
	Workers  int
	Log      zerolog.Logger
}

type page struct {
	item   *content.Item
	dst    string
	output string
}

// MakePages renders every file matching src through layout and writes it to
// the path obtained by rendering dst. Files are read and rendered
// concurrently but written in lexical source order, so a later source wins
// when two resolve to the same destination.
//
// It returns the published items, most recent first.
func (g *Generator) MakePages(ctx context.Context, src, dst, layout string, params param.Params) ([]*content.Item, error) {
	paths, err := Glob(src)
	if err != nil {
		return nil, err
	}
	g.Log.Debug().Str("pattern", src).Int("files", len(paths)).Msg("Found content files")

	pages := make([]page, len(paths))
	grp, gctx := errgroup.WithContext(ctx)
	if g.Workers > 0 {
		grp.SetLimit(g.Workers)
	}
	for i, path := range paths {
		i, path := i, path // per-iteration copies for go1.21 loop semantics
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pg, err := g.renderPage(path, dst, layout, params)
			if err != nil {
				return err
			}
			pages[i] = pg
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	items := make([]*content.Item, 0, len(pages))
	for _, pg := range pages {
		g.Log.Info().Str("src", pg.item.Path).Str("dst", pg.dst).Msg("Rendering")
		if err := fwrite(pg.dst, pg.output); err != nil {
			return nil, fmt.Errorf("write %s: %w", pg.dst, err)
		}
		items = append(items, pg.item)
	}

	return Published(items), nil
}

func (g *Generator) renderPage(path, dst, layout string, params param.Params) (page, error) {
	it, err := g.Reader.Read(path)
	if err != nil {
		return page{}, fmt.Errorf("read content: %w", err)
	}

	p, err := g.pageParams(params, it)
	if err != nil {
		return page{}, fmt.Errorf("%s: %w", path, err)
	}

	return page{
		item:   it,
		dst:    placeholder.Render(dst, p),
		output: placeholder.Render(layout, p),
	}, nil
}

// MakeList renders each item through itemLayout, joins the results in order
// and writes listLayout with the joined text as its content parameter.
// The output format is up to the layouts; nothing is escaped here.
func (g *Generator) MakeList(items []*content.Item, dst, listLayout, itemLayout string, params param.Params) error {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(placeholder.Render(itemLayout, itemParams(params, it)))
	}

	p := params.With(content.KeyContent, param.String(b.String()))
	dstPath := placeholder.Render(dst, p)
	output := placeholder.Render(listLayout, p)

	g.Log.Info().Str("dst", dstPath).Int("items", len(items)).Msg("Rendering list")
	if err := fwrite(dstPath, output); err != nil {
		return fmt.Errorf("write %s: %w", dstPath, err)
	}
	return nil
}

// Published keeps the items whose draft field is the boolean false and
// orders them by date, most recent first. Items with equal dates keep their
// relative order.
func Published(items []*content.Item) []*content.Item {
	sorted := make([]*content.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	out := sorted[:0]
	for _, it := range sorted {
		if it.Published() {
			out = append(out, it)
		}
	}
	return out
}
