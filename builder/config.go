package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"adventune/makesite/markdown"
	"adventune/makesite/param"
)

// Config describes one site. It is built once and handed to New.
type Config struct {
	// SiteDir is the site root. Relative directories below are resolved
	// against it.
	SiteDir    string
	ContentDir string
	LayoutDir  string
	StaticDir  string
	OutputDir  string
	// ParamsFile is optional. A .yaml or .yml extension selects YAML,
	// anything else is read as JSON.
	ParamsFile string

	Markdown markdown.Converter
	// Workers bounds concurrent reads while generating pages.
	// Zero means GOMAXPROCS.
	Workers int
	Now     func() time.Time
	Logger  zerolog.Logger
}

// DefaultConfig returns the conventional layout rooted at siteDir.
func DefaultConfig(siteDir string) Config {
	return Config{
		SiteDir:    siteDir,
		ContentDir: "content",
		LayoutDir:  "layout",
		StaticDir:  "static",
		OutputDir:  "_site",
		ParamsFile: "params.json",
		Markdown:   markdown.NewGoldmark(),
		Now:        time.Now,
		Logger:     zerolog.Nop(),
	}
}

func (c Config) path(elem ...string) string {
	p := filepath.Join(elem...)
	if filepath.IsAbs(p) || c.SiteDir == "" {
		return p
	}
	return filepath.Join(c.SiteDir, p)
}

// checkOutput rejects an output directory that would take source files with
// it when cleared: the site root or anything above it, and the content,
// layout and static directories or anything below them.
func (c Config) checkOutput() error {
	out, err := filepath.Abs(c.path(c.OutputDir))
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	site, err := filepath.Abs(c.path())
	if err != nil {
		return fmt.Errorf("resolve site directory: %w", err)
	}
	if within(site, out) {
		return fmt.Errorf("%w: %s contains the site root %s", ErrUnsafeOutput, out, site)
	}
	for _, dir := range []string{c.ContentDir, c.LayoutDir, c.StaticDir} {
		src, err := filepath.Abs(c.path(dir))
		if err != nil {
			return fmt.Errorf("resolve %s: %w", dir, err)
		}
		if within(out, src) {
			return fmt.Errorf("%w: %s is inside source directory %s", ErrUnsafeOutput, out, src)
		}
	}
	return nil
}

// within reports whether path is dir or lies below it. Both must be clean
// absolute paths.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// DefaultParams are the site parameters every template can rely on.
func (c Config) DefaultParams(css string) param.Params {
	return param.Params{
		"base_path":    param.String(""),
		"subtitle":     param.String(""),
		"source":       param.String(""),
		"author":       param.String("Alex"),
		"site_url":     param.String("http://localhost:8000"),
		"current_year": param.Int(int64(c.now().Year())),
		"css":          param.String(css),
		"home_title":   param.String("Home"),
	}
}

// LoadParams reads a params file. A missing file yields nil params and no
// error.
func LoadParams(path string) (param.Params, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &m)
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		err = dec.Decode(&m)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	p, err := param.FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}
