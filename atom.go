package main

import (
	"log/slog"

	atom "github.com/thomas11/atomgenerator"
)

// buildAtom renders the companion Atom feed over the same newest-first
// window the RSS feed uses. The feed timestamp is the newest post's date,
// never the wall clock, so repeated builds over the same input stay
// byte-identical.
func buildAtom(conf *SiteConf, posts units) ([]byte, error) {
	newest := posts.newestFirst()
	if len(newest) == 0 {
		return nil, nil
	}
	if len(newest) > rssItemLimit {
		newest = newest[:rssItemLimit]
	}

	feed := atom.Feed{
		Title: conf.SiteTitle,
		Link:  conf.BaseURL,
	}
	feed.AddAuthor(atom.Author{
		Name: conf.Author,
		Uri:  conf.AuthorURI,
	})

	for _, p := range newest {
		date, err := postDate(p.Path)
		if err != nil {
			return nil, err
		}
		if date.After(feed.PubDate) {
			feed.PubDate = date
		}

		url, err := postURL(conf, p.Path)
		if err != nil {
			return nil, err
		}

		e := &atom.Entry{
			Title:       p.Title(),
			Description: p.Meta["description"],
			Link:        conf.absURL(url),
			PubDate:     date,
		}
		for _, t := range p.Tags() {
			e.AddCategory(atom.Category{Term: t})
		}
		feed.AddEntry(e)
	}

	if errs := feed.Validate(); len(errs) > 0 {
		for _, e := range errs {
			slog.Error("atom feed is not valid", "error", e)
		}
		return nil, errs[0]
	}

	return feed.GenXml()
}
