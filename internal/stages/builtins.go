package stages

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ib-77/mwutil/internal/document"
	"github.com/ib-77/mwutil/pkg/mw"
)

const frontMatterDelim = "---"

var (
	ErrForcedFailure           = errors.New("stage failed on purpose")
	ErrUnterminatedFrontMatter = errors.New("front matter is not terminated")
)

func builtins() map[string]Stage {
	return map[string]Stage{
		"reset": mw.Tee(func(_ context.Context, d *document.Document) { d.Count = 0 }),
		"count": mw.Tee(func(_ context.Context, d *document.Document) { d.Count++ }),
		"trim":  mw.Tee(func(_ context.Context, d *document.Document) { d.Content = strings.TrimSpace(d.Content) }),
		"upper": mw.Tee(func(_ context.Context, d *document.Document) { d.Content = strings.ToUpper(d.Content) }),
		"lower": mw.Tee(func(_ context.Context, d *document.Document) { d.Content = strings.ToLower(d.Content) }),
		"words": mw.Tee(func(_ context.Context, d *document.Document) {
			d.Set("words", len(strings.Fields(d.Content)))
		}),
		"lines": mw.Tee(func(_ context.Context, d *document.Document) {
			d.Set("lines", countLines(d.Content))
		}),
		"stamp": mw.Tee(func(_ context.Context, d *document.Document) {
			d.Set("id", uuid.NewString())
		}),
		"frontmatter": mw.Try(FrontMatter),
		"fail": mw.Try(func(context.Context, *document.Document) error {
			return ErrForcedFailure
		}),
		"yield": Yield,
	}
}

// Yield completes on another goroutine without touching the document.
func Yield(_ context.Context, d *document.Document, next mw.Next[*document.Document]) {
	go next(nil)
}

// FrontMatter moves a leading YAML block delimited by --- lines into Data and
// leaves the body as content. Documents without front matter are untouched.
func FrontMatter(_ context.Context, d *document.Document) error {
	content := strings.ReplaceAll(d.Content, "\r\n", "\n")
	if !strings.HasPrefix(content, frontMatterDelim+"\n") {
		return nil
	}

	rest := content[len(frontMatterDelim)+1:]
	var block, body string
	if strings.HasPrefix(rest, frontMatterDelim) {
		body = rest[len(frontMatterDelim):]
	} else {
		end := strings.Index(rest, "\n"+frontMatterDelim)
		if end < 0 {
			return ErrUnterminatedFrontMatter
		}
		block, body = rest[:end], rest[end+len(frontMatterDelim)+1:]
	}
	body = strings.TrimPrefix(body, "\n")

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return fmt.Errorf("front matter: %w", err)
	}

	for k, v := range meta {
		d.Set(k, v)
	}
	d.Content = body
	return nil
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
