// Package builder turns a site directory into a rendered output directory:
// pages and blog posts from the content tree, list pages for the blog and
// home page, and an RSS feed.
package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/rs/zerolog"

	"adventune/makesite/content"
	"adventune/makesite/param"
	"adventune/makesite/placeholder"
)

// ErrMissingLayout is returned when a required layout file cannot be read.
var ErrMissingLayout = errors.New("missing layout")

// ErrUnsafeOutput is returned when clearing the output directory would
// remove site sources.
var ErrUnsafeOutput = errors.New("unsafe output directory")

// Layout files expected in Config.LayoutDir.
const (
	layoutPage     = "page.html"
	layoutPost     = "post.html"
	layoutList     = "list.html"
	layoutHome     = "home.html"
	layoutItem     = "item.html"
	layoutFeed     = "feed.xml"
	layoutFeedItem = "item.xml"
)

const markdownGlob = "*.{md,mkd,mkdn,mdown,markdown}"

// Layouts are the templates of one build, with post, list and home already
// wrapped in the page layout.
type Layouts struct {
	Page     string
	Post     string
	List     string
	Home     string
	Item     string
	Feed     string
	FeedItem string
}

// Builder runs builds for one site.
type Builder struct {
	cfg Config
	log zerolog.Logger
	gen *Generator
}

func New(cfg Config) *Builder {
	return &Builder{
		cfg: cfg,
		log: cfg.Logger,
		gen: &Generator{
			Reader:   content.Reader{Markdown: cfg.Markdown, Now: cfg.now},
			Markdown: cfg.Markdown,
			Workers:  cfg.workers(),
			Log:      cfg.Logger,
		},
	}
}

// Build recreates the output directory from scratch. Any error aborts the
// build; files written before the failure are left in place.
func (b *Builder) Build(ctx context.Context) error {
	start := time.Now()
	out := b.cfg.path(b.cfg.OutputDir)
	b.log.Info().Str("output", out).Msg("Building site")

	if err := b.cfg.checkOutput(); err != nil {
		return err
	}
	if err := b.resetOutput(out); err != nil {
		return err
	}

	params, err := b.SiteParams()
	if err != nil {
		return err
	}

	layouts, err := b.LoadLayouts()
	if err != nil {
		return err
	}

	blog := params.With("blog", param.String("blog"))
	posts, err := b.gen.MakePages(ctx,
		b.cfg.path(b.cfg.ContentDir, "blog", markdownGlob),
		filepath.Join(out, "blog", "{{ slug }}", "index.html"),
		layouts.Post, blog)
	if err != nil {
		return err
	}

	home := blog.With("title", params["home_title"])
	if err := b.gen.MakeList(posts, filepath.Join(out, "index.html"), layouts.Home, layouts.Item, home); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := b.gen.MakePages(ctx,
		b.cfg.path(b.cfg.ContentDir, "[!_]*.html"),
		filepath.Join(out, "{{ slug }}", "index.html"),
		layouts.Page, params); err != nil {
		return err
	}

	blogList := blog.With("title", param.String("Blog"))
	if err := b.gen.MakeList(posts, filepath.Join(out, "blog", "index.html"), layouts.List, layouts.Item, blogList); err != nil {
		return err
	}
	if err := b.gen.MakeList(posts, filepath.Join(out, "rss.xml"), layouts.Feed, layouts.FeedItem, blogList); err != nil {
		return err
	}

	b.log.Info().Int("posts", len(posts)).Dur("took", time.Since(start)).Msg("Build finished")
	return nil
}

// resetOutput removes out and recreates it as a copy of the static
// directory. A site without a static directory starts from an empty one.
func (b *Builder) resetOutput(out string) error {
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("remove output directory %s: %w", out, err)
	}

	static := b.cfg.path(b.cfg.StaticDir)
	if _, err := os.Stat(static); errors.Is(err, fs.ErrNotExist) {
		b.log.Warn().Str("static", static).Msg("Static directory not found")
		return os.MkdirAll(out, os.ModePerm)
	}
	if err := copyTree(static, out); err != nil {
		return fmt.Errorf("copy static assets: %w", err)
	}
	b.log.Debug().Str("static", static).Str("output", out).Msg("Copied static assets")
	return nil
}

// SiteParams returns the defaults overlaid with the params file.
func (b *Builder) SiteParams() (param.Params, error) {
	cssPath := b.cfg.path(b.cfg.StaticDir, "css", "style.css")
	css, err := fread(cssPath)
	if errors.Is(err, fs.ErrNotExist) {
		b.log.Warn().Str("path", cssPath).Msg("Stylesheet not found, css parameter is empty")
	} else if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}

	params := b.cfg.DefaultParams(css)
	if b.cfg.ParamsFile == "" {
		return params, nil
	}

	path := b.cfg.path(b.cfg.ParamsFile)
	loaded, err := LoadParams(path)
	if err != nil {
		return nil, fmt.Errorf("load params: %w", err)
	}
	if loaded != nil {
		b.log.Debug().Str("path", path).Int("keys", len(loaded)).Msg("Loaded params file")
	}
	return params.Merge(loaded), nil
}

// LoadLayouts reads all layouts and wraps the post, list and home layouts
// in the page layout.
func (b *Builder) LoadLayouts() (Layouts, error) {
	read := func(name string) (string, error) {
		text, err := fread(b.cfg.path(b.cfg.LayoutDir, name))
		if err != nil {
			return "", fmt.Errorf("%w %s: %w", ErrMissingLayout, name, err)
		}
		return text, nil
	}

	var l Layouts
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{layoutPage, &l.Page},
		{layoutPost, &l.Post},
		{layoutList, &l.List},
		{layoutHome, &l.Home},
		{layoutItem, &l.Item},
		{layoutFeed, &l.Feed},
		{layoutFeedItem, &l.FeedItem},
	} {
		text, err := read(f.name)
		if err != nil {
			return Layouts{}, err
		}
		*f.dst = text
	}

	wrap := func(inner string) string {
		return placeholder.Render(l.Page, param.Params{content.KeyContent: param.String(inner)})
	}
	l.Post = wrap(l.Post)
	l.List = wrap(l.List)
	l.Home = wrap(l.Home)
	return l, nil
}

// Watch builds once and then rebuilds the whole site whenever a file in the
// content, layout or static directories or the params file changes. It
// returns when ctx is done. A failed rebuild is logged and watching goes on.
func (b *Builder) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if err := b.Build(ctx); err != nil {
		b.log.Error().Err(err).Msg("Build failed")
	}

	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Remove, watcher.Rename, watcher.Move)

	for _, dir := range []string{b.cfg.ContentDir, b.cfg.LayoutDir, b.cfg.StaticDir} {
		path := b.cfg.path(dir)
		if err := w.AddRecursive(path); err != nil {
			if _, statErr := os.Stat(path); errors.Is(statErr, fs.ErrNotExist) {
				b.log.Debug().Str("path", path).Msg("Not watching missing directory")
				continue
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
		b.log.Debug().Str("path", path).Msg("Watching directory for changes")
	}
	if b.cfg.ParamsFile != "" {
		path := b.cfg.path(b.cfg.ParamsFile)
		if err := w.Add(path); err == nil {
			b.log.Debug().Str("path", path).Msg("Watching params file for changes")
		}
	}

	errc := make(chan error, 1)
	go func() {
		errc <- w.Start(interval)
	}()
	w.Wait()
	defer w.Close()

	for {
		select {
		case event := <-w.Event:
			b.log.Info().Str("path", event.Path).Str("op", event.Op.String()).Msg("Change detected, rebuilding")
			if err := b.Build(ctx); err != nil {
				b.log.Error().Err(err).Msg("Build failed")
			}
		case err := <-w.Error:
			b.log.Error().Err(err).Msg("Watcher error")
		case err := <-errc:
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
