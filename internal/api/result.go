package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"recworklist/internal/log"
)

// ErrNotObject is returned when a result payload is valid JSON but not an
// object.
var ErrNotObject = errors.New("api: result is not a JSON object")

// FileNameKey holds an RFC 5987 style encoded file name.
const FileNameKey = "FileName*"

var utf8Marker = regexp.MustCompile(`(?i)^UTF-8''`)

// Result is the decoded body of a backend response. Keys pass through as the
// backend sent them, except FileNameKey which is decoded.
type Result map[string]any

// ParseResult decodes a response body. The body may be a JSON object or a
// JSON string containing one.
func ParseResult(data []byte) (Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("api: decode result string: %w", err)
		}
		trimmed = []byte(inner)
	}

	var raw any
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("api: decode result: %w", err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, raw)
	}
	return normalizeResult(obj), nil
}

// NewResult builds a Result from an already decoded value, a JSON string or
// raw JSON bytes.
func NewResult(v any) (Result, error) {
	switch t := v.(type) {
	case Result:
		return normalizeResult(copyMap(t)), nil
	case map[string]any:
		return normalizeResult(copyMap(t)), nil
	case string:
		return ParseResult([]byte(t))
	case []byte:
		return ParseResult(t)
	case json.RawMessage:
		return ParseResult(t)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("api: encode result: %w", err)
		}
		return ParseResult(data)
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func normalizeResult(m map[string]any) Result {
	v, ok := m[FileNameKey]
	if !ok {
		return m
	}
	s, ok := v.(string)
	if !ok {
		return m
	}
	m[FileNameKey] = DecodeFileName(s)
	return m
}

// DecodeFileName strips a leading case-insensitive charset marker (UTF-8
// followed by two single quotes) and percent-decodes the rest. "+" is kept
// as is. A malformed escape, or escapes that decode to invalid UTF-8,
// leave the stripped value undecoded.
func DecodeFileName(s string) string {
	s = utf8Marker.ReplaceAllString(s, "")
	decoded, err := url.PathUnescape(s)
	if err == nil && !utf8.ValidString(decoded) {
		err = errors.New("invalid UTF-8")
	}
	if err != nil {
		log.Warn(log.CatAPI, "Undecodable file name", "value", s, "error", err)
		return s
	}
	return decoded
}

// FileName returns the decoded FileNameKey value, if any.
func (r Result) FileName() (string, bool) {
	s, ok := r[FileNameKey].(string)
	return s, ok
}

// String returns the value for key when it is a string.
func (r Result) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Keys returns the keys in sorted order.
func (r Result) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Summary renders the result as "k=v" pairs in key order for toasts and
// logs.
func (r Result) Summary() string {
	parts := make([]string, 0, len(r))
	for _, k := range r.Keys() {
		var v string
		switch t := r[k].(type) {
		case string:
			v = t
		default:
			b, err := json.Marshal(t)
			if err != nil {
				v = fmt.Sprint(t)
			} else {
				v = string(b)
			}
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, " ")
}

// JSON encodes the result.
func (r Result) JSON() ([]byte, error) {
	return json.Marshal(map[string]any(r))
}
