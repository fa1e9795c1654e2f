package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const dateStampFormat = "2006-01-02"

// postURL derives a post's canonical site path from its filename. The
// basename must carry the yyyy-MM-dd-slug convention; its four
// hyphen-delimited segments (the slug may itself contain hyphens) become
// /yyyy/MM/dd/slug/, beneath the configured post subdirectory if one is set.
func postURL(conf *SiteConf, path string) (string, error) {
	base := basename(path)
	parts := strings.SplitN(base, "-", 4)
	if len(parts) < 4 {
		return "", fmt.Errorf("post %v: basename %q does not follow the yyyy-MM-dd-slug convention", path, base)
	}

	url := "/" + strings.Join(parts, "/") + "/"
	if conf.PostOutDir != "" {
		url = "/" + conf.PostOutDir + url
	}
	return url, nil
}

// pageURL derives a standalone page's site path: the basename with the
// unit's output extension, at the site root.
func pageURL(u *unit) string {
	return "/" + u.Basename() + u.Extension()
}

// postDate parses the filename's leading date token.
func postDate(path string) (time.Time, error) {
	base := filepath.Base(path)
	if len(base) < len(dateStampFormat) {
		return time.Time{}, fmt.Errorf("post %v: name too short for a %v date stamp", path, dateStampFormat)
	}

	date, err := time.Parse(dateStampFormat, base[:len(dateStampFormat)])
	if err != nil {
		return time.Time{}, fmt.Errorf("post %v: invalid date stamp: %w", path, err)
	}
	return date, nil
}

// monthKey is the yyyy-MM prefix used for archive grouping.
func monthKey(path string) (string, error) {
	base := filepath.Base(path)
	if len(base) < 7 {
		return "", fmt.Errorf("post %v: name too short for a yyyy-MM month key", path)
	}
	return base[:7], nil
}

func basename(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
