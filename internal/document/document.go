// Package document is the view the mwrun host feeds through middleware: a file
// path, its text and whatever data the stages attach to it.
package document

import (
	"fmt"
	"os"
	"sort"
)

type Document struct {
	Path    string         `json:"path"`
	Content string         `json:"content"`
	Count   int            `json:"count"`
	Data    map[string]any `json:"data,omitempty"`
}

func New(path, content string) *Document {
	return &Document{Path: path, Content: content, Data: map[string]any{}}
}

// Load reads the file at path into a new Document.
func Load(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", path, err)
	}
	return New(path, string(raw)), nil
}

func (d *Document) Set(key string, value any) {
	if d.Data == nil {
		d.Data = map[string]any{}
	}
	d.Data[key] = value
}

// Keys returns the data keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Data))
	for k := range d.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
