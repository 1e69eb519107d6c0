package normalize

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLTables extracts every <table> from an HTML fragment as text: one line
// per row, cells joined by tabs, tables separated by blank lines. Returns ""
// when the fragment has no tables or does not parse.
func HTMLTables(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var tables []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			if t := tableText(n); t != "" {
				tables = append(tables, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(tables, "\n\n")
}

func tableText(table *html.Node) string {
	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				cells = append(cells, rowCells(c)...)
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, "\t"))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return strings.Join(rows, "\n")
}

func rowCells(n *html.Node) []string {
	if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
		return []string{textContent(n)}
	}
	var cells []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		cells = append(cells, rowCells(c)...)
	}
	return cells
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}
