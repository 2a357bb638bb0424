package testutil

import (
	"html"
	"strings"

	"recworklist/internal/worklist"
)

// PageBuilder accumulates rows and renders a worklist page.
type PageBuilder struct {
	title    string
	provider string
	sortBy   string
	rows     []rowData
}

// NewPage starts a page with the given <title>.
func NewPage(title string) *PageBuilder {
	return &PageBuilder{title: title, sortBy: "ByStatus"}
}

// WithProvider sets the hidden Provider field.
func (b *PageBuilder) WithProvider(p string) *PageBuilder {
	b.provider = p
	return b
}

// WithSortBy sets the hidden SortBy field.
func (b *PageBuilder) WithSortBy(s string) *PageBuilder {
	b.sortBy = s
	return b
}

// WithRow adds a row.
func (b *PageBuilder) WithRow(id string, opts ...RowOption) *PageBuilder {
	r := defaultRow(id)
	for _, opt := range opts {
		opt(&r)
	}
	b.rows = append(b.rows, r)
	return b
}

// Sources returns the rows as the page parser would produce them.
func (b *PageBuilder) Sources() []worklist.Source {
	out := make([]worklist.Source, 0, len(b.rows))
	for _, r := range b.rows {
		out = append(out, worklist.Source{
			ID:        r.id,
			SeriesKey: r.series,
			TrStatus:  r.status,
			Info: worklist.RowInfo{
				Title:       r.title,
				SeriesTitle: r.seriesT,
				State:       r.state,
				Updated:     r.updated,
				Detail:      r.detail,
			},
		})
	}
	return out
}

// HTML renders the page.
func (b *PageBuilder) HTML() string {
	e := html.EscapeString
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><title>" + e(b.title) + "</title></head><body>\n")
	sb.WriteString(`<form id="formQueue">` + "\n")
	sb.WriteString(`<input type="hidden" id="Provider" name="Provider" value="` + e(b.provider) + `">` + "\n")
	sb.WriteString(`<input type="hidden" id="SortBy" name="SortBy" value="` + e(b.sortBy) + `">` + "\n")
	sb.WriteString("<table>\n")
	for _, r := range b.rows {
		sb.WriteString(`<tr class="tr_hover"`)
		if !r.noDataID {
			sb.WriteString(` data-id="` + e(r.id) + `"`)
		}
		sb.WriteString(` data-series="` + e(r.series) + `" data-tr-status="` + e(r.status) + `">`)
		sb.WriteString(`<td><input type="checkbox" name="ProgramId" value="` + e(r.id) + `"></td>`)
		sb.WriteString(`<td>`)
		if r.series != "" {
			sb.WriteString(`<a data-link-type="Series" href="#">` + e(r.seriesT) + `</a>`)
		}
		sb.WriteString(`</td>`)
		sb.WriteString(`<td><a data-link-type="Episode" href="#">` + e(r.title) + `</a>`)
		if r.detail != "" {
			sb.WriteString(`<div class="detail">` + e(r.detail) + `</div>`)
		}
		sb.WriteString(`</td>`)
		sb.WriteString(`<td class="status">` + e(r.state) + `</td>`)
		sb.WriteString(`<td class="updated">` + e(r.updated) + `</td>`)
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n</form>\n</body></html>\n")
	return sb.String()
}
