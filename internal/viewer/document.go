// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package viewer

import (
	_ "embed"
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed assets/viewer.css
var Stylesheet string

//go:embed assets/viewer.js
var Script string

// ErrorView returns a <main> holding only the error message.
func ErrorView(msg string) *html.Node {
	return appendAll(elem(atom.Main),
		withText(elem(atom.Div, "class", "error"), msg))
}

// Document wraps main in a complete page with the stylesheet and the
// collapse/filter script inlined, so the output works as a standalone file.
func Document(title string, main *html.Node) *html.Node {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := appendAll(elem(atom.Head),
		elem(atom.Meta, "charset", "utf-8"),
		withText(elem(atom.Title), title),
		withText(elem(atom.Style), Stylesheet),
	)
	body := appendAll(elem(atom.Body),
		withText(elem(atom.H1), title),
		main,
		withText(elem(atom.Script), Script),
	)
	doc.AppendChild(appendAll(elem(atom.Html, "lang", "en"), head, body))
	return doc
}

// WriteHTML serializes a node tree.
func WriteHTML(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}
