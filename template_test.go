package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, templates map[string]string) *templateEngine {
	t.Helper()
	dir := t.TempDir()
	for name, src := range templates {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o664))
	}
	conf := &SiteConf{TemplateDir: dir, DefaultTemplate: "default"}
	return newTemplateEngine(conf)
}

func TestRender_SubstitutionMode(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.html": "<h1>{{title}}</h1><div>{{content}}</div>",
	})

	out, err := te.render(map[string]string{"title": "A Title"}, "the body")
	require.NoError(t, err)
	assert.Equal(t, "<h1>A Title</h1><div>the body</div>", out)
}

func TestRender_SubstitutionMode_MissingPlaceholderRendersEmpty(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.html": "[{{nonexistent}}]{{content}}",
	})

	out, err := te.render(map[string]string{"title": "T"}, "body")
	require.NoError(t, err)
	assert.Equal(t, "[]body", out)
}

func TestRender_ExpressionMode(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.expr": `{{ tag("h1", metadata.title) }}{{ tag("div", content) }}`,
	})

	out, err := te.render(map[string]string{"title": "A Title"}, "the body")
	require.NoError(t, err)
	assert.Equal(t, "<h1>A Title</h1><div>the body</div>", out)
}

func TestRender_ExpressionMode_LiteralsAndExpressionsInterleave(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.expr": `before {{ metadata.title }} middle {{ content }} after`,
	})

	out, err := te.render(map[string]string{"title": "T"}, "C")
	require.NoError(t, err)
	assert.Equal(t, "before T middle C after", out)
}

func TestRender_ExpressionMode_MarkupBuilders(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.expr": `{{ tagAttrs("a", {"href": "/x/", "rel": "me"}, "go") }} {{ link("/y/", "a & b") }}`,
	})

	out, err := te.render(map[string]string{"title": "T"}, "")
	require.NoError(t, err)
	assert.Equal(t, `<a href="/x/" rel="me">go</a> <a href="/y/">a &amp; b</a>`, out)
}

// The two modes must expose identical binding semantics for the reserved
// content value: the body round-trips verbatim through either.
func TestRender_BothModes_ContentBindingEquivalent(t *testing.T) {
	body := "a & b <em>verbatim</em>"
	meta := map[string]string{"title": "T"}

	sub := newTestEngine(t, map[string]string{"default.html": "<p>{{content}}</p>"})
	expr := newTestEngine(t, map[string]string{"default.expr": "<p>{{ content }}</p>"})

	subOut, err := sub.render(meta, body)
	require.NoError(t, err)
	exprOut, err := expr.render(meta, body)
	require.NoError(t, err)

	assert.Equal(t, subOut, exprOut)
	assert.Contains(t, subOut, body)
}

func TestRender_MetadataTemplateKeyOverridesDefault(t *testing.T) {
	te := newTestEngine(t, map[string]string{
		"default.html": "default: {{content}}",
		"special.html": "special: {{content}}",
	})

	out, err := te.render(map[string]string{"title": "T", "template": "special"}, "x")
	require.NoError(t, err)
	assert.Equal(t, "special: x", out)
}

func TestRender_TemplateNoneTreatsContentAsSource(t *testing.T) {
	te := newTestEngine(t, nil)

	out, err := te.render(
		map[string]string{"title": "Self", "template": templateNone},
		`{{ tag("h1", metadata.title) }} and literal text`,
	)
	require.NoError(t, err)
	assert.Equal(t, "<h1>Self</h1> and literal text", out)
}

func TestRender_UnresolvableTemplate_Fails(t *testing.T) {
	te := newTestEngine(t, nil)

	_, err := te.render(map[string]string{"title": "T"}, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default")
}

func TestLoad_UnreadableExprCandidate_IsNotReportedAsMissing(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on the .expr name makes the read fail for a
	// reason other than absence; that failure must surface as-is instead
	// of falling through to the .html lookup.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "default.expr"), 0o775))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.html"), []byte("{{content}}"), 0o664))

	te := newTemplateEngine(&SiteConf{TemplateDir: dir, DefaultTemplate: "default"})
	_, err := te.render(map[string]string{"title": "T"}, "x")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "not found")
	assert.Contains(t, err.Error(), "default.expr")
}

func TestCompileExprTemplate_UnclosedExpression_Fails(t *testing.T) {
	_, err := compileExprTemplate("text {{ metadata.title")
	require.Error(t, err)
}

func TestRenderUnit_MarkdownFlagRendersBody(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-md.txt",
		"title: MD\nmarkup: markdown\n\nSome *emphasis* here.\n")

	u, err := readUnitFromFile(path)
	require.NoError(t, err)

	te := newTestEngine(t, map[string]string{"default.html": "{{content}}"})
	out, err := te.renderUnit(u)
	require.NoError(t, err)
	assert.Contains(t, out, "<em>emphasis</em>")
}

func TestRenderUnit_PlainBodyPassesThroughVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := writeContentFile(t, dir, "2023-01-01-plain.txt",
		"title: Plain\n\n<p>already html</p>\n")

	u, err := readUnitFromFile(path)
	require.NoError(t, err)

	te := newTestEngine(t, map[string]string{"default.html": "{{content}}"})
	out, err := te.renderUnit(u)
	require.NoError(t, err)
	assert.Equal(t, "<p>already html</p>\n", out)
}
