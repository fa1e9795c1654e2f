package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContentFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o775))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o664))
	return path
}

func TestReadUnitFromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-hello.txt",
		"title: Hello World\ntags: go testing\ntemplate: post\n\nThe body.\n\nWith two paragraphs.\n")

	u, err := readUnitFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", u.Title())
	assert.Equal(t, []string{"go", "testing"}, u.Tags())
	assert.Equal(t, "post", u.Meta["template"])
	assert.Equal(t, ".html", u.Extension())
	assert.Equal(t, "2023-01-01-hello", u.Basename())

	body, err := u.Body()
	require.NoError(t, err)
	assert.Equal(t, "The body.\n\nWith two paragraphs.\n", string(body))
}

func TestReadUnitFromFile_BodyReadOnce(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-once.txt", "title: Once\n\noriginal body\n")

	u, err := readUnitFromFile(path)
	require.NoError(t, err)

	first, err := u.Body()
	require.NoError(t, err)

	// Rewriting the file after the first read must not change what the
	// unit reports; the body is cached after one read.
	require.NoError(t, os.WriteFile(path, []byte("title: Once\n\nchanged body\n"), 0o664))

	second, err := u.Body()
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, "original body\n", string(second))
}

func TestReadUnitFromFile_NoBlankLine_Fails(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-bad.txt", "title: No Separator\nbody runs into header")

	_, err := readUnitFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.txt")
}

func TestReadUnitFromFile_MissingTitle_Fails(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-untitled.txt", "tags: a b\n\nbody\n")

	_, err := readUnitFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestUnit_NoTags(t *testing.T) {
	u := &unit{Meta: map[string]string{"title": "Plain"}}
	assert.Empty(t, u.Tags())
}

func TestContentStore_ListsAscendingAndFiltersExtension(t *testing.T) {
	dir := t.TempDir()
	writeContentFile(t, filepath.Join(dir, "posts"), "2023-02-01-b.txt", "title: B\n\nb\n")
	writeContentFile(t, filepath.Join(dir, "posts"), "2023-01-01-a.txt", "title: A\n\na\n")
	writeContentFile(t, filepath.Join(dir, "posts"), "notes.md", "stray file")

	store := &contentStore{conf: &SiteConf{ContentDir: dir, ContentFileExtension: ".txt"}}
	paths, err := store.list(kindPosts)
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, "2023-01-01-a.txt", filepath.Base(paths[0]))
	assert.Equal(t, "2023-02-01-b.txt", filepath.Base(paths[1]))
}

func TestContentStore_MissingKindDirIsEmpty(t *testing.T) {
	store := &contentStore{conf: &SiteConf{ContentDir: t.TempDir(), ContentFileExtension: ".txt"}}
	paths, err := store.list(kindPages)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestUnits_NewestFirst(t *testing.T) {
	us := units{
		&unit{Path: "2023-01-01-a.txt"},
		&unit{Path: "2023-01-02-b.txt"},
		&unit{Path: "2023-01-03-c.txt"},
	}
	rev := us.newestFirst()
	require.Len(t, rev, 3)
	assert.Equal(t, "2023-01-03-c.txt", rev[0].Path)
	assert.Equal(t, "2023-01-01-a.txt", rev[2].Path)
	// the original is untouched
	assert.Equal(t, "2023-01-01-a.txt", us[0].Path)
}
