package main

import "encoding/xml"

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc string `xml:"loc"`
}

// buildSitemap emits the flat 0.9 enumeration: the site root, then every
// post URL in store order, then every page URL in store order.
func buildSitemap(conf *SiteConf, posts, pages units) ([]byte, error) {
	urls := []sitemapURL{{Loc: conf.BaseURL}}

	for _, p := range posts {
		url, err := postURL(conf, p.Path)
		if err != nil {
			return nil, err
		}
		urls = append(urls, sitemapURL{Loc: conf.absURL(url)})
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{Loc: conf.absURL(pageURL(p))})
	}

	return encodeXML(sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}
