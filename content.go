package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	kindPosts = "posts"
	kindPages = "pages"
)

// unit is one content file: a metadata header, separated from the body by the
// first blank line, followed by the body itself. The header is parsed eagerly;
// the body is read from disk at most once, on first use.
type unit struct {
	Path string
	Meta map[string]string

	kind string
	body func() ([]byte, error)
}

func (u *unit) Body() ([]byte, error) { return u.body() }

func (u *unit) Title() string { return u.Meta["title"] }

// Tags returns the whitespace-separated tag list, nil when the unit
// declares none.
func (u *unit) Tags() []string { return strings.Fields(u.Meta["tags"]) }

func (u *unit) Extension() string {
	if ext := u.Meta["extension"]; ext != "" {
		return ext
	}
	return ".html"
}

func (u *unit) IsDraft() bool { return u.Meta["draft"] == "true" }

// Basename is the unit's filename without directory or source extension.
func (u *unit) Basename() string { return basename(u.Path) }

func (u *unit) String() string {
	b := new(bytes.Buffer)
	b.WriteString("path: ")
	b.WriteString(u.Path)
	for k, v := range u.Meta {
		fmt.Fprintf(b, "\n%v: %v", k, v)
	}
	return b.String()
}

type units []*unit

// newestFirst reverses store order. The store enumerates ascending by
// filename, which the date-stamp convention makes ascending chronological;
// there is no separate sort by parsed date.
func (us units) newestFirst() units {
	rev := make(units, len(us))
	for i, u := range us {
		rev[len(us)-1-i] = u
	}
	return rev
}

// contentStore enumerates and reads content units beneath the configured
// content directory, one subdirectory per kind.
type contentStore struct {
	conf *SiteConf
}

func (s *contentStore) list(kind string) ([]string, error) {
	dir := filepath.Join(s.conf.ContentDir, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %v: %w", dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), s.conf.ContentFileExtension) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *contentStore) read(path string) (*unit, error) {
	return readUnitFromFile(path)
}

// readUnitFromFile parses the metadata header eagerly. The body is not read
// here: it is fetched on first Body() call and cached, so a unit referenced
// several times within one render still touches the file once.
func readUnitFromFile(path string) (*unit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	header, bodyStart, err := readHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	meta, err := parseHeader(header)
	if err != nil {
		return nil, fmt.Errorf("invalid metadata header in %v: %w", path, err)
	}

	return &unit{
		Path: path,
		Meta: meta,
		body: sync.OnceValues(func() ([]byte, error) {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			if bodyStart > len(content) {
				return nil, nil
			}
			return content[bodyStart:], nil
		}),
	}, nil
}

// readHeader consumes lines up to the first blank one and reports the byte
// offset where the body begins.
func readHeader(f *os.File) (header []byte, bodyStart int, err error) {
	r := bufio.NewReader(f)
	var buf bytes.Buffer
	offset := 0
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return nil, 0, fmt.Errorf("no blank line separating metadata header from body")
		}
		offset += len(line)
		if len(bytes.TrimRight(line, "\r\n")) == 0 {
			return buf.Bytes(), offset, nil
		}
		buf.Write(line)
	}
}

// parseHeader reads the header as a flat YAML mapping and flattens every
// scalar to its string form. A tags list stays a single whitespace-separated
// scalar.
func parseHeader(header []byte) (map[string]string, error) {
	raw := make(map[string]any)
	if err := yaml.Unmarshal(header, &raw); err != nil {
		return nil, err
	}

	meta := make(map[string]string, len(raw))
	for k, v := range raw {
		meta[k] = fmt.Sprint(v)
	}
	if _, ok := meta["title"]; !ok {
		return nil, fmt.Errorf("missing required key %q", "title")
	}
	return meta, nil
}
