package main

import (
	"github.com/russross/blackfriday/v2"
)

type renderer interface {
	render(in []byte) []byte
}

func newMarkdownRenderer() renderer {
	r := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.UseXHTML |
			blackfriday.Smartypants |
			blackfriday.SmartypantsFractions |
			blackfriday.SmartypantsLatexDashes,
	})

	exts := blackfriday.NoIntraEmphasis |
		blackfriday.Tables |
		blackfriday.FencedCode |
		blackfriday.Autolink |
		blackfriday.Strikethrough

	return &blackfridayHTMLRenderer{r: r, extensions: exts}
}

type blackfridayHTMLRenderer struct {
	r          blackfriday.Renderer
	extensions blackfriday.Extensions
}

func (b *blackfridayHTMLRenderer) render(in []byte) []byte {
	return blackfriday.Run(in, blackfriday.WithRenderer(b.r), blackfriday.WithExtensions(b.extensions))
}
