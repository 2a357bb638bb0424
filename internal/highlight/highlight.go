// Package highlight marks keywords and bracketed corner titles in row text.
// The keyword list lives in local storage as a JSON blob.
package highlight

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"recworklist/internal/log"
)

const (
	// StorageKey is the local storage key of the keyword blob.
	StorageKey = "RSBP"

	// DefaultKeywords is used when nothing is stored.
	DefaultKeywords = "幼き日の歌\n声優"
)

var newlines = regexp.MustCompile(`\n+`)

// Config is the stored blob.
type Config struct {
	Keywords string `json:"Keywords"`
}

// List returns the keywords, one per entry.
func (c Config) List() []string {
	if c.Keywords == "" {
		return nil
	}
	return strings.Split(c.Keywords, "\n")
}

// Normalize splits raw on runs of newlines, drops empty entries and
// duplicates, sorts, and joins with "\n".
func Normalize(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	seen := make(map[string]struct{})
	var out []string
	for _, kw := range newlines.Split(raw, -1) {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	sort.Strings(out)
	return strings.Join(out, "\n")
}

// Parse decodes a stored blob. An empty blob yields the defaults.
func Parse(blob string) (Config, error) {
	if strings.TrimSpace(blob) == "" {
		return Config{Keywords: DefaultKeywords}, nil
	}
	var c Config
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		return Config{}, fmt.Errorf("decoding %s: %w", StorageKey, err)
	}
	return c, nil
}

// Encode returns the blob for c.
func (c Config) Encode() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Store is the key/value storage the blob is kept in.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Load reads the config, falling back to the defaults when unset.
func Load(ctx context.Context, s Store) (Config, error) {
	blob, ok, err := s.Get(ctx, StorageKey)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Config{Keywords: DefaultKeywords}, nil
	}
	return Parse(blob)
}

// Save normalizes keywords and stores them. It returns the stored config.
func Save(ctx context.Context, s Store, keywords string) (Config, error) {
	c := Config{Keywords: Normalize(keywords)}
	blob, err := c.Encode()
	if err != nil {
		return Config{}, err
	}
	if err := s.Set(ctx, StorageKey, blob); err != nil {
		return Config{}, err
	}
	log.Info(log.CatConfig, "Saved highlight keywords", "count", len(c.List()))
	return c, nil
}
