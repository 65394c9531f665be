// Package filesystem walks the content tree and extracts asset references
// from rendered HTML (usecases.Discoverer), and watches the project for
// changes, debouncing raw OS events into entities.FilesystemUpdateEvents
// (usecases.Watcher).
package filesystem

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// ignoredDirs mirrors the teacher's skip list, generalized with common
// output-directory names ("public", "dist", "build", "target").
var ignoredDirs = map[string]bool{
	"dist":          true,
	"public":        true,
	".git":          true,
	".pylon":        true,
	"node_modules":  true,
	".venv":         true,
	"venv":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	"build":         true,
	"target":        true,
}

// Discoverer implements usecases.Discoverer.
type Discoverer struct{}

func New() Discoverer { return Discoverer{} }

var _ usecases.Discoverer = Discoverer{}

// WalkMarkdown returns every .md file under root, skipping ignored
// directories.
func (Discoverer) WalkMarkdown(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && ignoredDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// assetSelectors pairs each element/attribute combination the engine
// extracts assets from with the attribute to read (spec §4.2 "asset
// extraction selector set").
var assetSelectors = []struct {
	selector, attr string
}{
	{"audio[src]", "src"},
	{"embed[src]", "src"},
	{"img[src]", "src"},
	{"link[href]", "href"},
	{"object[data]", "data"},
	{"script[src]", "src"},
	{"source[src]", "src"},
	{"source[srcset]", "srcset"},
	{"track[src]", "src"},
	{"video[src]", "src"},
}

// AssetsInHTML parses rendered HTML and returns every asset URL it finds
// across spec §4.2's selector set, for the engine to classify and
// dispatch. A `srcset` attribute holds a comma-separated list of
// "url descriptor?" candidates, each contributing its own URL.
func (Discoverer) AssetsInHTML(html string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var urls []string
	seen := make(map[string]bool)
	add := func(v string) {
		if v == "" || seen[v] {
			return
		}
		seen[v] = true
		urls = append(urls, v)
	}

	for _, sel := range assetSelectors {
		doc.Find(sel.selector).Each(func(_ int, s *goquery.Selection) {
			v, ok := s.Attr(sel.attr)
			if !ok {
				return
			}
			if sel.attr == "srcset" {
				for _, u := range parseSrcset(v) {
					add(u)
				}
				return
			}
			add(v)
		})
	}

	return urls
}

// parseSrcset splits a srcset attribute value into its candidate URLs,
// discarding each candidate's width or pixel-density descriptor.
func parseSrcset(v string) []string {
	var urls []string
	for _, candidate := range strings.Split(v, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		url, _, _ := strings.Cut(candidate, " ")
		if url != "" {
			urls = append(urls, url)
		}
	}
	return urls
}
