package main

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/valyala/fasttemplate"
)

// siteTemplate renders one (metadata, content) pair to markup. The two
// implementations are mutually exclusive rendering modes; callers never need
// to know which mode a given template identifier resolves to.
type siteTemplate interface {
	render(meta map[string]string, content string) (string, error)
}

// templateNone is the sentinel identifier meaning "the content itself is the
// template source", evaluated in expression mode.
const templateNone = "none"

type templateEngine struct {
	conf   *SiteConf
	toHTML renderer

	mu    sync.Mutex
	cache map[string]siteTemplate
}

func newTemplateEngine(conf *SiteConf) *templateEngine {
	return &templateEngine{
		conf:   conf,
		toHTML: newMarkdownRenderer(),
		cache:  make(map[string]siteTemplate),
	}
}

// render resolves the template named by the metadata, falling back to the
// configured default, and renders the pair through it.
func (te *templateEngine) render(meta map[string]string, content string) (string, error) {
	name := meta["template"]
	if name == "" {
		name = te.conf.DefaultTemplate
	}

	if name == templateNone {
		t, err := compileExprTemplate(content)
		if err != nil {
			return "", fmt.Errorf("compiling unit body as template: %w", err)
		}
		return t.render(meta, content)
	}

	t, err := te.lookup(name)
	if err != nil {
		return "", err
	}
	return t.render(meta, content)
}

// renderUnit prepares a unit's body and renders it through the unit's
// resolved template.
func (te *templateEngine) renderUnit(u *unit) (string, error) {
	body, err := u.Body()
	if err != nil {
		return "", fmt.Errorf("reading body of %v: %w", u.Path, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		slog.Warn("unit has an empty body", "path", u.Path)
	}

	if u.Meta["markup"] == "markdown" {
		body = te.toHTML.render(body)
	}

	return te.render(u.Meta, string(body))
}

func (te *templateEngine) lookup(name string) (siteTemplate, error) {
	te.mu.Lock()
	defer te.mu.Unlock()

	if t, ok := te.cache[name]; ok {
		return t, nil
	}
	t, err := te.load(name)
	if err != nil {
		return nil, err
	}
	te.cache[name] = t
	return t, nil
}

// load resolves a template identifier on disk. Expression templates carry
// the .expr extension, substitution templates plain .html. Only a genuinely
// absent .expr candidate falls through to the .html lookup; any other read
// failure is reported as what it is.
func (te *templateEngine) load(name string) (siteTemplate, error) {
	exprPath := filepath.Join(te.conf.TemplateDir, name+".expr")
	src, err := os.ReadFile(exprPath)
	switch {
	case err == nil:
		return compileExprTemplate(string(src))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading template %v: %w", exprPath, err)
	}

	htmlPath := filepath.Join(te.conf.TemplateDir, name+".html")
	src, err = os.ReadFile(htmlPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("template %q not found in %v", name, te.conf.TemplateDir)
	}
	if err != nil {
		return nil, fmt.Errorf("reading template %v: %w", htmlPath, err)
	}

	ft, err := fasttemplate.NewTemplate(string(src), "{{", "}}")
	if err != nil {
		return nil, fmt.Errorf("parsing template %q: %w", name, err)
	}
	return &substitutionTemplate{name: name, t: ft}, nil
}

// substitutionTemplate renders by named-placeholder substitution against the
// flattened metadata merged with the reserved "content" key. Placeholders
// with no value render empty with a logged warning; one missing key never
// fails the build.
type substitutionTemplate struct {
	name string
	t    *fasttemplate.Template
}

func (s *substitutionTemplate) render(meta map[string]string, content string) (string, error) {
	vars := make(map[string]string, len(meta)+1)
	for k, v := range meta {
		vars[k] = v
	}
	vars["content"] = content

	return s.t.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		if v, ok := vars[strings.TrimSpace(tag)]; ok {
			return w.Write([]byte(v))
		}
		slog.Warn("template placeholder has no value", "template", s.name, "placeholder", tag)
		return 0, nil
	})
}

// expressionTemplate renders by evaluating embedded {{ ... }} expressions in
// an environment exposing the metadata map, the content body, and markup
// builders, concatenating the results with the surrounding literal text.
type expressionTemplate struct {
	segments []exprSegment
}

type exprSegment struct {
	literal string
	program *vm.Program
}

func compileExprTemplate(src string) (*expressionTemplate, error) {
	var segs []exprSegment
	for {
		i := strings.Index(src, "{{")
		if i < 0 {
			break
		}
		if i > 0 {
			segs = append(segs, exprSegment{literal: src[:i]})
		}

		rest := src[i+2:]
		j := strings.Index(rest, "}}")
		if j < 0 {
			return nil, fmt.Errorf("unclosed {{ expression")
		}

		code := strings.TrimSpace(rest[:j])
		program, err := expr.Compile(code, expr.AllowUndefinedVariables())
		if err != nil {
			return nil, fmt.Errorf("compiling expression %q: %w", code, err)
		}
		segs = append(segs, exprSegment{program: program})
		src = rest[j+2:]
	}
	if src != "" {
		segs = append(segs, exprSegment{literal: src})
	}
	return &expressionTemplate{segments: segs}, nil
}

func (t *expressionTemplate) render(meta map[string]string, content string) (string, error) {
	// The environment is a value built per render, not ambient state, so
	// concurrent renders never observe each other's bindings.
	env := exprEnv(meta, content)

	var b strings.Builder
	for _, s := range t.segments {
		if s.program == nil {
			b.WriteString(s.literal)
			continue
		}
		out, err := expr.Run(s.program, env)
		if err != nil {
			return "", fmt.Errorf("evaluating template expression: %w", err)
		}
		if out != nil {
			fmt.Fprint(&b, out)
		}
	}
	return b.String(), nil
}

func exprEnv(meta map[string]string, content string) map[string]any {
	return map[string]any{
		"metadata": meta,
		"content":  content,
		"tag": func(name, body string) string {
			return "<" + name + ">" + body + "</" + name + ">"
		},
		"tagAttrs": func(name string, attrs map[string]any, body string) string {
			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			var b strings.Builder
			b.WriteString("<" + name)
			for _, k := range keys {
				fmt.Fprintf(&b, " %v=%q", k, fmt.Sprint(attrs[k]))
			}
			b.WriteString(">" + body + "</" + name + ">")
			return b.String()
		},
		"link": func(href, text string) string {
			return fmt.Sprintf("<a href=%q>%v</a>", href, html.EscapeString(text))
		},
		"escape": html.EscapeString,
	}
}
