// Package feed fetches and parses the configured RSS/Atom sources into raw
// articles. A failing source is logged and skipped; it never aborts the
// collection pass.
package feed

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"gopkg.in/yaml.v3"

	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/logger"
)

// Source is one configured outlet.
type Source struct {
	Name    string `yaml:"name"`
	Country string `yaml:"country"`
	Lang    string `yaml:"lang"`
	URL     string `yaml:"url"`
}

// SourcesConfig is the YAML config structure:
//
//	sources:
//	  - name: El Observador
//	    country: uy
//	    lang: es
//	    url: https://...
type SourcesConfig struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the outlet list from a YAML file.
func LoadSources(path string) ([]Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg SourcesConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	return cfg.Sources, nil
}

// Fetcher downloads feeds with a bounded per-request timeout.
type Fetcher struct {
	sources []Source
	parser  *gofeed.Parser
	timeout time.Duration
}

func NewFetcher(sources []Source, timeout time.Duration) *Fetcher {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: timeout}
	return &Fetcher{sources: sources, parser: p, timeout: timeout}
}

// FetchCountry downloads every source tagged with country and returns the
// collected articles. Per-source errors are logged and treated as "zero
// articles from this source".
func (f *Fetcher) FetchCountry(ctx context.Context, country string) []article.Article {
	var out []article.Article
	okCount, total := 0, 0

	for _, src := range f.sources {
		if !strings.EqualFold(src.Country, country) {
			continue
		}
		total++

		fctx, cancel := context.WithTimeout(ctx, f.timeout)
		parsed, err := f.parser.ParseURLWithContext(src.URL, fctx)
		cancel()
		if err != nil {
			logger.Warn("feed fetch failed", "source", src.Name, "url", src.URL, "error", err)
			continue
		}
		okCount++

		for _, item := range parsed.Items {
			a := itemToArticle(item, src)
			if a.Link == "" || a.Title == "" {
				continue
			}
			out = append(out, a)
		}
	}

	logger.Debug("feeds fetched", "country", country, "ok", okCount, "total", total, "articles", len(out))
	return out
}

func itemToArticle(item *gofeed.Item, src Source) article.Article {
	var published time.Time
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}

	return article.Article{
		Title:      strings.TrimSpace(item.Title),
		Link:       strings.TrimSpace(item.Link),
		Source:     src.Name,
		Country:    strings.ToLower(src.Country),
		Published:  published,
		Snippet:    CleanSnippet(raw),
		Categories: item.Categories,
	}
}
