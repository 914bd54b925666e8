package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kennethlove/practice-pycon/internal/domain"
)

type renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer returns a NotesRenderer that converts markdown to HTML and
// sanitizes the output with a user-generated-content policy. Empty notes
// render to an empty string.
func NewRenderer() domain.NotesRenderer {
	return &renderer{
		md:        goldmark.New(goldmark.WithExtensions(extension.GFM)),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (r *renderer) Render(notes string) (string, error) {
	if notes == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(notes), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}
