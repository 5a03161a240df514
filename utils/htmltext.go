/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package utils

import (
	"fmt"
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var parseHTML = nethtml.Parse

// blockAtoms end the current line when they close.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.Table: true, atom.Section: true, atom.Article: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Dt: true, atom.Dd: true, atom.Blockquote: true, atom.Hr: true,
}

// skippedAtoms never contribute text.
var skippedAtoms = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true,
}

// ExtractHTMLText returns the visible text of an HTML document with one line
// per block element. hOCR output from OCR engines is supported: ocr_line and
// ocrx_line spans end a line and words are separated by a space. Table cells
// are joined the same way as ExtractOrgText.
func ExtractHTMLText(content string) (string, error) {
	return ExtractHTMLTextFrom(strings.NewReader(content))
}

// ExtractHTMLTextFrom is ExtractHTMLText over a reader.
func ExtractHTMLTextFrom(r io.Reader) (string, error) {
	root, err := parseHTML(r)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTMLParse, err)
	}

	var w textWriter
	w.walk(root)

	return w.String(), nil
}

type textWriter struct {
	b        strings.Builder
	cell     int
	preDepth int
}

func (w *textWriter) walk(n *nethtml.Node) {
	switch n.Type {
	case nethtml.TextNode:
		w.text(n.Data)
		return
	case nethtml.ElementNode:
		if skippedAtoms[n.DataAtom] {
			return
		}
	}

	if n.Type == nethtml.ElementNode {
		switch n.DataAtom {
		case atom.Tr:
			w.cell = 0
		case atom.Td, atom.Th:
			switch w.cell {
			case 0:
			case 1:
				w.b.WriteString(": ")
			default:
				w.b.WriteString(" ")
			}
			w.cell++
		case atom.Pre:
			w.preDepth++
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}

	if n.Type != nethtml.ElementNode {
		return
	}

	if n.DataAtom == atom.Pre {
		w.preDepth--
	}

	switch {
	case blockAtoms[n.DataAtom], hasClass(n, "ocr_line"), hasClass(n, "ocrx_line"), hasClass(n, "ocr_par"):
		w.b.WriteString("\n")
	case hasClass(n, "ocrx_word"):
		w.b.WriteString(" ")
	}
}

func (w *textWriter) text(data string) {
	if w.preDepth > 0 {
		w.b.WriteString(data)
		return
	}

	if data == "" {
		return
	}

	if isSpace(data[0]) {
		w.b.WriteString(" ")
	}

	w.b.WriteString(strings.Join(strings.Fields(data), " "))

	if isSpace(data[len(data)-1]) {
		w.b.WriteString(" ")
	}
}

// String returns the collected text with blank lines dropped and runs of
// spaces collapsed.
func (w *textWriter) String() string {
	var lines []string

	for _, line := range strings.Split(w.b.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n")
}

func hasClass(n *nethtml.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}

		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}

	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
