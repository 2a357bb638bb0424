package worklist

import (
	"regexp"
	"strconv"
)

var countPrefix = regexp.MustCompile(`^\(\d+?\)`)

// FormatTitle strips a leading "(<digits>)" badge from label and prepends
// "(n)" when n > 0.
func FormatTitle(label string, n int) string {
	label = countPrefix.ReplaceAllString(label, "")
	if n > 0 {
		return "(" + strconv.Itoa(n) + ")" + label
	}
	return label
}

// Counter tracks how many rows are selected and keeps a title label badged
// with that count.
type Counter struct {
	store *Store
	label string
	count int
	onSet func(title string, count int)
}

// NewCounter creates a counter and computes the initial count.
func NewCounter(store *Store, label string) *Counter {
	c := &Counter{store: store, label: label}
	c.Recount()
	return c
}

// OnUpdate registers fn to be called after every recount.
func (c *Counter) OnUpdate(fn func(title string, count int)) {
	c.onSet = fn
}

// Handle recounts on a row change. Register it on the machine's dispatcher.
func (c *Counter) Handle(RowChanged) {
	c.Recount()
}

// Recount rescans every row and rewrites the label.
func (c *Counter) Recount() int {
	c.count = c.store.CountSelected()
	c.label = FormatTitle(c.label, c.count)
	if c.onSet != nil {
		c.onSet(c.label, c.count)
	}
	return c.count
}

// Count returns the last computed count.
func (c *Counter) Count() int {
	return c.count
}

// Title returns the badged label.
func (c *Counter) Title() string {
	return c.label
}
