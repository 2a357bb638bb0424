// Package page reads the recorder's worklist page into row sources.
//
// The page is server-rendered HTML. Rows are <tr> elements carrying the
// tr_hover class; everything the worklist needs is taken from their data
// attributes, the ProgramId checkbox and the Series/Episode links.
package page

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"recworklist/internal/log"
	"recworklist/internal/worklist"
)

// Link types used by the data-link-type attribute.
const (
	LinkSeries  = "Series"
	LinkEpisode = "Episode"
)

// Sort orders accepted by the SortBy form field.
const (
	SortByStatus = "ByStatus"
	SortByTitle  = "ByTitle"
	SortByUpdate = "ByUpdate"
)

// SortOrders lists the accepted sort orders in menu order.
var SortOrders = []string{SortByStatus, SortByTitle, SortByUpdate}

// ValidSortBy reports whether s is an accepted sort order.
func ValidSortBy(s string) bool {
	for _, o := range SortOrders {
		if o == s {
			return true
		}
	}
	return false
}

// Page is one parsed worklist page.
type Page struct {
	Title    string
	Provider string
	SortBy   string
	Rows     []worklist.Source
}

// Parse reads a worklist page. A page without rows is valid.
func Parse(r io.Reader) (*Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing worklist page: %w", err)
	}

	p := &Page{}
	skipped := 0
	walk(doc, func(n *html.Node) bool {
		switch {
		case n.DataAtom == atom.Title && p.Title == "":
			p.Title = strings.TrimSpace(textOf(n))
			return false
		case n.DataAtom == atom.Input && attr(n, "type") == "hidden":
			switch attr(n, "id") {
			case "Provider":
				p.Provider = attr(n, "value")
			case "SortBy":
				p.SortBy = attr(n, "value")
			}
		case n.DataAtom == atom.Tr && hasClass(n, "tr_hover"):
			src, ok := parseRow(n)
			if !ok {
				skipped++
				return false
			}
			p.Rows = append(p.Rows, src)
			return false
		}
		return true
	})

	if skipped > 0 {
		log.Warn(log.CatPage, "Skipped rows without id", "count", skipped)
	}
	log.Debug(log.CatPage, "Parsed worklist page", "rows", len(p.Rows), "provider", p.Provider, "sortBy", p.SortBy)
	return p, nil
}

func parseRow(tr *html.Node) (worklist.Source, bool) {
	src := worklist.Source{
		ID:        attr(tr, "data-id"),
		SeriesKey: attr(tr, "data-series"),
		TrStatus:  attr(tr, "data-tr-status"),
	}

	var cells []*html.Node
	var details []string
	walk(tr, func(n *html.Node) bool {
		if n == tr {
			return true
		}
		if n.DataAtom == atom.Td && n.Parent == tr {
			cells = append(cells, n)
		}
		switch {
		case n.DataAtom == atom.Input && attr(n, "type") == "checkbox" && attr(n, "name") == "ProgramId":
			if src.ID == "" {
				src.ID = attr(n, "value")
			}
		case n.DataAtom == atom.A:
			switch attr(n, "data-link-type") {
			case LinkSeries:
				src.Info.SeriesTitle = collapse(textOf(n))
			case LinkEpisode:
				src.Info.Title = collapse(textOf(n))
			}
		case hasClass(n, "detail"):
			if t := collapse(textOf(n)); t != "" {
				details = append(details, t)
			}
			return false
		}
		return true
	})
	if src.ID == "" {
		return src, false
	}

	for _, td := range cells {
		switch {
		case hasClass(td, "status"):
			src.Info.State = collapse(textOf(td))
		case hasClass(td, "updated"):
			src.Info.Updated = collapse(textOf(td))
		}
	}
	if src.Info.Title == "" && len(cells) >= 3 {
		src.Info.Title = collapse(textOf(cells[2]))
	}
	src.Info.Detail = strings.Join(details, "\n")
	return src, true
}

// Keyword is one entry of the keyword editor page.
type Keyword struct {
	Key string `json:"Key"`
	Not string `json:"Not"`
}

// ParseKeywords reads the keyword editor page, whose hidden #Keywords input
// holds the list as JSON.
func ParseKeywords(r io.Reader) ([]Keyword, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing keywords page: %w", err)
	}

	var raw string
	found := false
	walk(doc, func(n *html.Node) bool {
		if found {
			return false
		}
		if attr(n, "id") == "Keywords" {
			raw, found = attr(n, "value"), true
			return false
		}
		return true
	})
	if !found {
		return nil, fmt.Errorf("keywords page has no Keywords field")
	}

	var kws []Keyword
	if strings.TrimSpace(raw) == "" {
		return kws, nil
	}
	if err := json.Unmarshal([]byte(raw), &kws); err != nil {
		return nil, fmt.Errorf("decoding keywords: %w", err)
	}
	return kws, nil
}

// walk visits n and its descendants depth-first. fn returns false to skip a
// node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if n.Type == html.ElementNode || n.Type == html.DocumentNode {
		if !fn(n) {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var rec func(*html.Node)
	rec = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Br {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			rec(c)
		}
	}
	rec(n)
	return b.String()
}

// collapse trims each line and drops empty ones.
func collapse(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
