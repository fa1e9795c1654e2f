package main

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSitemap(t *testing.T) {
	pages := units{
		&unit{Path: "pages/about.txt", Meta: map[string]string{"title": "About"}, kind: kindPages},
		&unit{Path: "pages/links.txt", Meta: map[string]string{"title": "Links", "extension": ".xml"}, kind: kindPages},
	}

	out, err := buildSitemap(testConf(), testPosts(), pages)
	require.NoError(t, err)

	var urlset sitemapURLSet
	require.NoError(t, xml.Unmarshal(out, &urlset))

	// One entry for the root, one per post, one per page.
	require.Len(t, urlset.URLs, 1+4+2)
	assert.Equal(t, "https://example.com/", urlset.URLs[0].Loc)
	assert.Equal(t, "https://example.com/2022/11/05/first/", urlset.URLs[1].Loc)
	assert.Equal(t, "https://example.com/about.html", urlset.URLs[5].Loc)
	assert.Equal(t, "https://example.com/links.xml", urlset.URLs[6].Loc)
	assert.Equal(t, "http://www.sitemaps.org/schemas/sitemap/0.9", urlset.XMLNS)
}

func TestBuildSitemap_BadPostName_Fails(t *testing.T) {
	posts := units{testPost("posts/nodate.txt", "Bad", "")}
	_, err := buildSitemap(testConf(), posts, nil)
	require.Error(t, err)
}
