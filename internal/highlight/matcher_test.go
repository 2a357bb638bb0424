package highlight_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"recworklist/internal/highlight"
)

func mark(s string) string   { return "[" + s + "]" }
func corner(s string) string { return "<" + s + ">" }

func TestMatcher_Keywords(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{Keywords: "声優\nJazz"})

	require.Equal(t, "Morning [Jazz] with [声優]", m.Apply("Morning Jazz with 声優", mark, corner))
	require.Equal(t, "nothing here", m.Apply("nothing here", mark, corner))
}

func TestMatcher_KeywordsAreLiteral(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{Keywords: "a.c\n(b)"})

	require.Equal(t, "abc [a.c] [(b)] b", m.Apply("abc a.c (b) b", mark, nil))
}

func TestMatcher_CornerTitles(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{})

	require.Equal(t, "<〔特集〕> and <〔声〕>", m.Apply("〔特集〕 and 〔声〕", mark, corner))
	require.Equal(t, "〔〕 unterminated 〔x", m.Apply("〔〕 unterminated 〔x", mark, corner))
}

func TestMatcher_KeywordInsideCorner(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{Keywords: "声優"})

	got := m.Apply("〔人気声優の歌〕 声優", mark, corner)
	require.Equal(t, "<〔人気>[声優]<の歌〕> [声優]", got)

	spans := m.Find("〔人気声優の歌〕 声優")
	require.Len(t, spans, 2)
	require.Equal(t, highlight.KindCorner, spans[0].Kind)
	require.Equal(t, highlight.KindKeyword, spans[1].Kind)
}

func TestMatcher_NilIsSafe(t *testing.T) {
	var m *highlight.Matcher

	require.Equal(t, "<〔a〕> b", m.Apply("〔a〕 b", mark, corner))
	require.Equal(t, "plain", m.Apply("plain", mark, corner))
}

func TestMatcher_NilStylesLeaveText(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{Keywords: "b"})

	require.Equal(t, "a b 〔c〕", m.Apply("a b 〔c〕", nil, nil))
}

func TestSpan_Width(t *testing.T) {
	m := highlight.NewMatcher(highlight.Config{Keywords: "声優\nab"})
	text := "ab 声優"

	spans := m.Find(text)
	require.Len(t, spans, 2)
	require.Equal(t, 2, spans[0].Width(text))
	require.Equal(t, 4, spans[1].Width(text))
}
