package main

import (
	"fmt"
	"html"
	"strings"
)

// Markup fragments for the derived collection pages. Each builder returns an
// HTML fragment that flows through the template engine as the content half
// of a (metadata, content) pair, the same shape every other page renders
// with.

func tagIndexMarkup(groups []tagGroup) string {
	var b strings.Builder
	for _, g := range groups {
		fmt.Fprintf(&b, "<h2>%v</h2>\n<ul>\n", html.EscapeString(g.Tag))
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "<li><a href=%q>%v</a></li>\n", e.URL, html.EscapeString(e.Title))
		}
		b.WriteString("</ul>\n")
	}
	return b.String()
}

func archiveIndexMarkup(months []monthCount) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, m := range months {
		fmt.Fprintf(&b, "<li><a href=%q>%v</a> (%d)</li>\n", archiveMonthURL(m.Month), m.Month, m.Count)
	}
	b.WriteString("</ul>\n")
	return b.String()
}

func archiveMonthURL(month string) string {
	return "/archives/" + strings.ReplaceAll(month, "-", "/") + "/"
}

func postListMarkup(conf *SiteConf, posts units) (string, error) {
	var b strings.Builder
	b.WriteString("<ul>\n")
	for _, p := range posts {
		url, err := postURL(conf, p.Path)
		if err != nil {
			return "", err
		}
		date, err := postDate(p.Path)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "<li>%v <a href=%q>%v</a></li>\n",
			date.Format(dateStampFormat), url, html.EscapeString(p.Title()))
	}
	b.WriteString("</ul>\n")
	return b.String(), nil
}

func paginationMarkup(p page) string {
	var links []string
	if p.HasNewer {
		links = append(links, fmt.Sprintf("<a href=%q>newer</a>", latestPostsURL(p.Index+1)))
	}
	if p.HasOlder {
		links = append(links, fmt.Sprintf("<a href=%q>older</a>", latestPostsURL(p.Index-1)))
	}
	if len(links) == 0 {
		return ""
	}
	return "<nav>" + strings.Join(links, " | ") + "</nav>\n"
}

func latestPostsURL(index int) string {
	return fmt.Sprintf("/latest-posts/%d/", index)
}
