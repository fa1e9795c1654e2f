package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/radovskyb/watcher"
)

var cli struct {
	Config  string `short:"c" default:"site.yaml" help:"Path to the site configuration file."`
	Verbose bool   `short:"v" help:"Enable verbose logging."`
	Drafts  bool   `help:"Include units flagged as drafts."`

	Build struct{} `cmd:"" default:"1" help:"Compile the site once and exit."`

	Serve struct {
		Addr  string `default:"localhost:9999" help:"Address to serve the site on."`
		Watch bool   `help:"Re-render on changes to the content or template directories."`
	} `cmd:"" help:"Compile the site and serve it locally."`

	Watch struct{} `cmd:"" help:"Compile the site and keep re-rendering on changes."`
}

func main() {
	ctx := kong.Parse(&cli)

	logLevel := slog.LevelInfo
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	conf, err := readConf(cli.Config)
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	if err := renderSite(conf, cli.Drafts); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}

	switch ctx.Command() {
	case "build":
	case "serve":
		if cli.Serve.Watch {
			// Run the watcher in the background while serving
			go rerenderOnChange(conf, cli.Drafts)
		}
		serveSite(conf.OutDir, cli.Serve.Addr)
	case "watch":
		rerenderOnChange(conf, cli.Drafts)
	}
}

func renderSite(conf *SiteConf, drafts bool) error {
	site, err := ReadSite(conf, drafts)
	if err != nil {
		return err
	}
	if err = site.RenderAll(); err != nil {
		return err
	}
	return site.CopyStaticFiles()
}

func serveSite(dir, addr string) {
	http.Handle("/", http.FileServer(http.Dir(dir)))
	slog.Info("serving site", "dir", dir, "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func rerenderOnChange(conf *SiteConf, drafts bool) {
	slog.Info("watching for changes", "contentDir", conf.ContentDir, "templateDir", conf.TemplateDir)

	w := watcher.New()
	w.SetMaxEvents(1)

	go func() {
		for {
			select {
			case <-w.Event:
				if err := renderSite(conf, drafts); err != nil {
					slog.Error("rebuild failed", "error", err)
				}
			case err := <-w.Error:
				slog.Error("watcher error", "error", err)
			case <-w.Closed:
				return
			}
		}
	}()

	for _, dir := range []string{conf.ContentDir, conf.TemplateDir} {
		if err := w.AddRecursive(dir); err != nil {
			slog.Error("cannot watch directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}

	if err := w.Start(time.Millisecond * 200); err != nil {
		slog.Error("watcher failed to start", "error", err)
		os.Exit(1)
	}
}
