// static is a batch site compiler, because everyone needs to write one. It
// turns a directory of metadata-headed text units into a full site: rendered
// post and page HTML, tag and archive views, a paginated recent-posts
// listing, RSS and Atom feeds, and a sitemap. Every invocation recomputes
// the whole site from the current content snapshot; nothing persists
// between builds.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/otiai10/copy"
)

type Site struct {
	conf   *SiteConf
	engine *templateEngine

	// store order, ascending by filename
	posts units
	pages units

	// per-unit failures collected across the build
	problems []error
}

// ReadSite enumerates and parses all content units. A unit with a malformed
// metadata header is recorded as a problem and excluded; it does not stop
// the remaining units from being read.
func ReadSite(conf *SiteConf, drafts bool) (*Site, error) {
	store := &contentStore{conf: conf}
	s := &Site{conf: conf, engine: newTemplateEngine(conf)}

	for _, kind := range []string{kindPosts, kindPages} {
		paths, err := store.list(kind)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			u, err := store.read(p)
			if err != nil {
				s.problems = append(s.problems, err)
				continue
			}
			if u.IsDraft() && !drafts {
				continue
			}
			u.kind = kind
			if kind == kindPosts {
				s.posts = append(s.posts, u)
			} else {
				s.pages = append(s.pages, u)
			}
		}
	}

	return s, nil
}

// RenderAll writes the whole site. Per-unit render failures are isolated
// and reported together at the end; errors in the shared views (tag index,
// archives, pagination, feeds, sitemap) abort the build.
func (s *Site) RenderAll() error {
	// An unresolvable default template is a configuration error. Check it
	// up front so the build fails before any output is written. The none
	// sentinel resolves to the unit's own body and needs no file on disk.
	if s.conf.DefaultTemplate != templateNone {
		if _, err := s.engine.lookup(s.conf.DefaultTemplate); err != nil {
			return err
		}
	}

	workers := s.conf.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	slog.Info("writing site", "dir", s.conf.OutDir, "posts", len(s.posts), "pages", len(s.pages))

	s.renderUnits(workers)

	if err := s.renderTagIndex(); err != nil {
		return err
	}
	if err := s.renderArchives(); err != nil {
		return err
	}
	if err := s.renderLatestPosts(); err != nil {
		return err
	}
	if err := s.renderFeeds(workers); err != nil {
		return err
	}

	if len(s.problems) > 0 {
		return fmt.Errorf("%d content units failed: %w", len(s.problems), errors.Join(s.problems...))
	}
	return nil
}

// renderUnits renders every post and page on the worker pool. Each unit owns
// a unique output path, so concurrent writers never touch the same file.
func (s *Site) renderUnits(workers int) {
	all := make(units, 0, len(s.posts)+len(s.pages))
	all = append(all, s.posts...)
	all = append(all, s.pages...)

	results := runOrdered(all, workers, func(u *unit) (struct{}, error) {
		return struct{}{}, s.renderUnitToFile(u)
	})
	for _, r := range results {
		if r.Err != nil {
			s.problems = append(s.problems, r.Err)
		}
	}
}

func (s *Site) renderUnitToFile(u *unit) error {
	rel, err := s.outputPath(u)
	if err != nil {
		return err
	}
	rendered, err := s.engine.renderUnit(u)
	if err != nil {
		return fmt.Errorf("rendering %v: %w", u.Path, err)
	}
	return s.writeOutput(rel, []byte(rendered))
}

func (s *Site) outputPath(u *unit) (string, error) {
	if u.kind == kindPosts {
		url, err := postURL(s.conf, u.Path)
		if err != nil {
			return "", err
		}
		return filepath.Join(strings.TrimPrefix(url, "/"), "index.html"), nil
	}
	return strings.TrimPrefix(pageURL(u), "/"), nil
}

func (s *Site) renderTagIndex() error {
	groups, err := buildTagIndex(s.conf, s.posts)
	if err != nil {
		return err
	}
	return s.renderListing("Tags", tagIndexMarkup(groups), filepath.Join("tags", "index.html"))
}

func (s *Site) renderArchives() error {
	months, err := buildArchiveIndex(s.posts)
	if err != nil {
		return err
	}
	if err := s.renderListing("Archives", archiveIndexMarkup(months), filepath.Join("archives", "index.html")); err != nil {
		return err
	}

	for _, m := range months {
		markup, err := postListMarkup(s.conf, postsForMonth(s.posts, m.Month))
		if err != nil {
			return err
		}
		outPath := filepath.Join("archives", strings.ReplaceAll(m.Month, "-", string(filepath.Separator)), "index.html")
		if err := s.renderListing("Archive "+m.Month, markup, outPath); err != nil {
			return err
		}
	}
	return nil
}

func (s *Site) renderLatestPosts() error {
	for _, p := range buildPages(s.posts.newestFirst(), s.conf.PostsPerPage) {
		markup, err := postListMarkup(s.conf, p.Posts)
		if err != nil {
			return err
		}
		outPath := filepath.Join("latest-posts", fmt.Sprint(p.Index), "index.html")
		if err := s.renderListing("Latest posts", markup+paginationMarkup(p), outPath); err != nil {
			return err
		}
	}
	return nil
}

// renderListing pushes a collection view through the same template contract
// every other page uses.
func (s *Site) renderListing(title, markup, outPath string) error {
	out, err := s.engine.render(map[string]string{"title": title}, markup)
	if err != nil {
		return err
	}
	return s.writeOutput(outPath, []byte(out))
}

func (s *Site) renderFeeds(workers int) error {
	rss, err := buildRSS(s.conf, s.posts, workers)
	if err != nil {
		return err
	}
	if err := s.writeOutput("rss-feed", rss); err != nil {
		return err
	}

	sitemap, err := buildSitemap(s.conf, s.posts, s.pages)
	if err != nil {
		return err
	}
	if err := s.writeOutput("sitemap.xml", sitemap); err != nil {
		return err
	}

	atomXML, err := buildAtom(s.conf, s.posts)
	if err != nil {
		return err
	}
	if atomXML != nil {
		return s.writeOutput("atom.xml", atomXML)
	}
	return nil
}

// writeOutput persists content under the output root, creating parent
// directories as needed and overwriting existing files.
func (s *Site) writeOutput(rel string, content []byte) error {
	path := filepath.Join(s.conf.OutDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0775)); err != nil {
		return err
	}
	return os.WriteFile(path, content, os.FileMode(0664))
}

func (s *Site) CopyStaticFiles() error {
	srcDir := s.conf.StaticFilesDir
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return nil
	}
	dest := filepath.Join(s.conf.OutDir, filepath.Base(srcDir))
	slog.Info("copying static files", "from", srcDir, "to", dest)
	return copy.Copy(srcDir, dest)
}
