package highlight

import (
	"regexp"
	"strings"

	"github.com/rivo/uniseg"
)

// Kind is what a span marks.
type Kind int

const (
	KindKeyword Kind = iota
	KindCorner
)

// corner titles are set in tortoise shell brackets.
var cornerTitle = regexp.MustCompile(`〔[^〕]+〕`)

// Span is a highlighted byte range of a text.
type Span struct {
	Start, End int
	Kind       Kind
}

// Width returns the display width of the span's text in cells.
func (s Span) Width(text string) int {
	return uniseg.StringWidth(text[s.Start:s.End])
}

// Matcher finds highlight spans. The zero Matcher and a nil *Matcher only
// find corner titles.
type Matcher struct {
	keywords *regexp.Regexp
}

// NewMatcher compiles the keyword list. Keywords match literally.
func NewMatcher(c Config) *Matcher {
	list := c.List()
	if len(list) == 0 {
		return &Matcher{}
	}
	quoted := make([]string, len(list))
	for i, kw := range list {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return &Matcher{keywords: regexp.MustCompile(strings.Join(quoted, "|"))}
}

// Find returns non-overlapping spans in text order. Corner titles are found
// first and keywords inside them are marked within the corner.
func (m *Matcher) Find(text string) []Span {
	var spans []Span
	for _, loc := range cornerTitle.FindAllStringIndex(text, -1) {
		spans = append(spans, Span{Start: loc[0], End: loc[1], Kind: KindCorner})
	}
	if m == nil || m.keywords == nil {
		return spans
	}

	var out []Span
	pos := 0
	emitKeywords := func(from, to int) {
		for _, loc := range m.keywords.FindAllStringIndex(text[from:to], -1) {
			if loc[0] == loc[1] {
				continue
			}
			out = append(out, Span{Start: from + loc[0], End: from + loc[1], Kind: KindKeyword})
		}
	}
	for _, c := range spans {
		emitKeywords(pos, c.Start)
		out = append(out, c)
		pos = c.End
	}
	emitKeywords(pos, len(text))
	return out
}

// Apply renders text with keyword and corner spans passed through the given
// style functions. Nil style functions leave spans unchanged.
func (m *Matcher) Apply(text string, keyword, corner func(string) string) string {
	spans := m.Find(text)
	if len(spans) == 0 {
		return text
	}
	var b strings.Builder
	pos := 0
	for _, s := range spans {
		b.WriteString(text[pos:s.Start])
		seg := text[s.Start:s.End]
		switch {
		case s.Kind == KindKeyword && keyword != nil:
			seg = keyword(seg)
		case s.Kind == KindCorner && corner != nil:
			seg = m.styleCorner(seg, keyword, corner)
		}
		b.WriteString(seg)
		pos = s.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

// styleCorner styles a corner title, keeping keyword highlights inside it.
func (m *Matcher) styleCorner(seg string, keyword, corner func(string) string) string {
	if m == nil || m.keywords == nil || keyword == nil {
		return corner(seg)
	}
	locs := m.keywords.FindAllStringIndex(seg, -1)
	if len(locs) == 0 {
		return corner(seg)
	}
	var b strings.Builder
	pos := 0
	for _, loc := range locs {
		if loc[0] > pos {
			b.WriteString(corner(seg[pos:loc[0]]))
		}
		b.WriteString(keyword(seg[loc[0]:loc[1]]))
		pos = loc[1]
	}
	if pos < len(seg) {
		b.WriteString(corner(seg[pos:]))
	}
	return b.String()
}
