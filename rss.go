package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"
)

const rssItemLimit = 10

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// buildRSS assembles the RSS 2.0 feed from the 10 newest posts. The item
// sequence preserves newest-first order even though item construction runs
// in parallel. A bad date token fails the whole feed, naming the post.
func buildRSS(conf *SiteConf, posts units, workers int) ([]byte, error) {
	newest := posts.newestFirst()
	if len(newest) > rssItemLimit {
		newest = newest[:rssItemLimit]
	}

	results := runOrdered(newest, workers, func(u *unit) (rssItem, error) {
		return rssItemForPost(conf, u)
	})

	items := make([]rssItem, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, r.Err
		}
		items = append(items, r.Value)
	}

	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       conf.SiteTitle,
			Link:        conf.BaseURL,
			Description: conf.SiteDescription,
			Items:       items,
		},
	}
	return encodeXML(feed)
}

func rssItemForPost(conf *SiteConf, u *unit) (rssItem, error) {
	date, err := postDate(u.Path)
	if err != nil {
		return rssItem{}, err
	}
	url, err := postURL(conf, u.Path)
	if err != nil {
		return rssItem{}, err
	}
	body, err := u.Body()
	if err != nil {
		return rssItem{}, fmt.Errorf("reading body of %v: %w", u.Path, err)
	}

	link := conf.absURL(url)
	return rssItem{
		Title:       u.Title(),
		Link:        link,
		Description: string(body),
		PubDate:     date.Format(time.RFC1123Z),
		GUID:        link,
	}, nil
}

// encodeXML renders a document with the standard declaration. The encoder
// escapes element text, so feed descriptions come out HTML-escaped exactly
// once.
func encodeXML(doc any) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	enc := xml.NewEncoder(&b)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	b.WriteString("\n")
	return b.Bytes(), nil
}
