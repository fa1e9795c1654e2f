package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SiteConf is the static settings object the whole build reads from.
// It is loaded once per invocation and never mutated afterwards.
type SiteConf struct {
	SiteTitle       string `yaml:"title"`
	SiteDescription string `yaml:"description"`
	BaseURL         string `yaml:"base_url"`
	Author          string `yaml:"author"`
	AuthorURI       string `yaml:"author_uri"`

	ContentDir           string `yaml:"content_dir"`
	ContentFileExtension string `yaml:"content_file_extension"`
	TemplateDir          string `yaml:"template_dir"`
	StaticFilesDir       string `yaml:"static_files_dir"`
	OutDir               string `yaml:"out_dir"`

	DefaultTemplate string `yaml:"default_template"`
	PostsPerPage    int    `yaml:"posts_per_page"`
	PostOutDir      string `yaml:"post_out_dir"`
	Workers         int    `yaml:"workers"`
}

func readConf(fileName string) (*SiteConf, error) {
	// A .env next to the config is optional; environment references in the
	// config file are expanded either way.
	if err := godotenv.Load(filepath.Join(filepath.Dir(fileName), ".env")); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", "error", err)
	}

	rawConf, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}

	conf := SiteConf{}
	if err = yaml.Unmarshal([]byte(os.ExpandEnv(string(rawConf))), &conf); err != nil {
		return nil, fmt.Errorf("parsing site config %v: %w", fileName, err)
	}

	var missing []string
	required := []struct{ key, val string }{
		{"title", conf.SiteTitle},
		{"base_url", conf.BaseURL},
		{"content_dir", conf.ContentDir},
		{"out_dir", conf.OutDir},
	}
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("site config %v is missing required keys: %v", fileName, strings.Join(missing, ", "))
	}

	// Populate with defaults
	if conf.ContentFileExtension == "" {
		conf.ContentFileExtension = ".txt"
	}
	if conf.TemplateDir == "" {
		conf.TemplateDir = "templates"
	}
	if conf.StaticFilesDir == "" {
		conf.StaticFilesDir = filepath.Join(conf.ContentDir, "static")
	}
	if conf.DefaultTemplate == "" {
		conf.DefaultTemplate = "default"
	}
	if conf.PostsPerPage == 0 {
		conf.PostsPerPage = 10
	}
	if !strings.HasSuffix(conf.BaseURL, "/") {
		conf.BaseURL += "/"
	}
	conf.PostOutDir = strings.Trim(conf.PostOutDir, "/")

	// Normalize relative paths because the executable can be called from anywhere
	baseDir := filepath.Dir(fileName)
	conf.TemplateDir = normalizePath(conf.TemplateDir, baseDir)
	conf.ContentDir = normalizePath(conf.ContentDir, baseDir)
	conf.StaticFilesDir = normalizePath(conf.StaticFilesDir, baseDir)
	conf.OutDir = normalizePath(conf.OutDir, baseDir)

	return &conf, nil
}

func normalizePath(path, baseDir string) string {
	if !filepath.IsAbs(path) {
		return filepath.Join(baseDir, path)
	}
	return path
}

// absURL joins a site-relative path onto the configured base URL.
func (c *SiteConf) absURL(rel string) string {
	return c.BaseURL + strings.TrimPrefix(rel, "/")
}
