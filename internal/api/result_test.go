package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseResult_DecodesFileName(t *testing.T) {
	r, err := ParseResult([]byte(`{"FileName*": "UTF-8''%E3%81%82.mp4", "Status": "OK"}`))
	require.NoError(t, err)

	name, ok := r.FileName()
	require.True(t, ok)
	require.Equal(t, "あ.mp4", name)
	require.Equal(t, "OK", r.String("Status"))
}

func TestParseResult_PassesThroughWithoutFileName(t *testing.T) {
	r, err := ParseResult([]byte(`{"Status":"OK","Count":3,"Ids":["a","b"],"FileName":"UTF-8''%41"}`))
	require.NoError(t, err)

	require.Equal(t, Result{
		"Status":   "OK",
		"Count":    float64(3),
		"Ids":      []any{"a", "b"},
		"FileName": "UTF-8''%41",
	}, r)
}

func TestParseResult_StringEncoding(t *testing.T) {
	r, err := ParseResult([]byte(`"{\"FileName*\":\"utf-8''a%20b+c.ts\"}"`))
	require.NoError(t, err)

	name, _ := r.FileName()
	require.Equal(t, "a b+c.ts", name, "case-insensitive marker, plus sign kept")
}

func TestParseResult_Errors(t *testing.T) {
	_, err := ParseResult([]byte(`[1,2]`))
	require.ErrorIs(t, err, ErrNotObject)

	_, err = ParseResult([]byte(`"[]"`))
	require.ErrorIs(t, err, ErrNotObject)

	_, err = ParseResult([]byte(`{`))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotObject)

	_, err = ParseResult(nil)
	require.Error(t, err)
}

func TestDecodeFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"UTF-8''%E3%81%82.mp4", "あ.mp4"},
		{"Utf-8''x.mp4", "x.mp4"},
		{"plain.mp4", "plain.mp4"},
		{"%E3%81%82", "あ"},
		{"a+b", "a+b"},
		{"UTF-8''UTF-8''x", "UTF-8''x"},
		{"UTF-8''%zz", "%zz"},
		{"UTF-8''%E3%81", "%E3%81"},
		{"%FF.mp4", "%FF.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, DecodeFileName(tt.in))
		})
	}
}

func TestNewResult(t *testing.T) {
	src := map[string]any{"FileName*": "UTF-8''%E3%81%82.mp4"}
	r, err := NewResult(src)
	require.NoError(t, err)

	name, _ := r.FileName()
	require.Equal(t, "あ.mp4", name)
	require.Equal(t, "UTF-8''%E3%81%82.mp4", src["FileName*"], "input map is not modified")

	r, err = NewResult(`{"A":"b"}`)
	require.NoError(t, err)
	require.Equal(t, "b", r.String("A"))

	r, err = NewResult(struct {
		Name string `json:"FileName*"`
	}{"UTF-8''%41"})
	require.NoError(t, err)
	name, _ = r.FileName()
	require.Equal(t, "A", name)

	_, err = NewResult(42)
	require.ErrorIs(t, err, ErrNotObject)
}

func TestNewResult_NonStringFileName(t *testing.T) {
	r, err := NewResult(map[string]any{"FileName*": 7})
	require.NoError(t, err)
	require.Equal(t, 7, r["FileName*"])
	_, ok := r.FileName()
	require.False(t, ok)
}

func TestResult_Summary(t *testing.T) {
	r := Result{"b": "two", "a": float64(1), "c": []any{"x"}}
	require.Equal(t, []string{"a", "b", "c"}, r.Keys())
	require.Equal(t, `a=1 b=two c=["x"]`, r.Summary())
}
