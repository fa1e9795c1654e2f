package main

import (
	"sort"
	"strings"
)

type tagEntry struct {
	URL, Title string
}

type tagGroup struct {
	Tag     string
	Entries []tagEntry
}

// buildTagIndex groups posts under every tag they declare. Posts lacking a
// tags field are skipped. Groups come back in ascending tag order; within a
// group, entries preserve store order, so each tag lists oldest first.
func buildTagIndex(conf *SiteConf, posts units) ([]tagGroup, error) {
	byTag := make(map[string][]tagEntry)
	for _, p := range posts {
		tags := p.Tags()
		if len(tags) == 0 {
			continue
		}
		url, err := postURL(conf, p.Path)
		if err != nil {
			return nil, err
		}
		for _, t := range tags {
			byTag[t] = append(byTag[t], tagEntry{URL: url, Title: p.Title()})
		}
	}

	groups := make([]tagGroup, 0, len(byTag))
	for t, entries := range byTag {
		groups = append(groups, tagGroup{Tag: t, Entries: entries})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Tag < groups[j].Tag })
	return groups, nil
}

type monthCount struct {
	Month string
	Count int
}

// buildArchiveIndex derives the month histogram from the posts' filename
// date tokens, most recent month first.
func buildArchiveIndex(posts units) ([]monthCount, error) {
	counts := make(map[string]int)
	for _, p := range posts {
		key, err := monthKey(p.Path)
		if err != nil {
			return nil, err
		}
		counts[key]++
	}

	months := make([]monthCount, 0, len(counts))
	for m, n := range counts {
		months = append(months, monthCount{Month: m, Count: n})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month > months[j].Month })
	return months, nil
}

// postsForMonth filters posts whose filename starts with the month key,
// newest first.
func postsForMonth(posts units, month string) units {
	var matched units
	for _, p := range posts {
		if strings.HasPrefix(p.Basename(), month) {
			matched = append(matched, p)
		}
	}
	return matched.newestFirst()
}

// page is one fixed-size window of the newest-first post sequence plus its
// navigation state. Index 0 is the oldest window; the highest index holds
// the newest posts.
type page struct {
	Index    int
	Posts    units
	HasOlder bool
	HasNewer bool
}

// buildPages partitions the newest-first sequence into windows of pageSize.
// When everything fits on one page, no navigation is exposed at all. Page 0
// can only point toward newer pages and the max-index page only toward
// older ones.
func buildPages(newestFirst units, pageSize int) []page {
	if pageSize < 1 {
		pageSize = 1
	}

	var windows []units
	for i := 0; i < len(newestFirst); i += pageSize {
		end := min(i+pageSize, len(newestFirst))
		windows = append(windows, newestFirst[i:end])
	}

	n := len(windows)
	pages := make([]page, n)
	for w, posts := range windows {
		idx := n - 1 - w
		pages[idx] = page{
			Index:    idx,
			Posts:    posts,
			HasOlder: n > 1 && idx > 0,
			HasNewer: n > 1 && idx < n-1,
		}
	}
	return pages
}
