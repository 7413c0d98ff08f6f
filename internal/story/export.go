package story

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/vietddude/storyforge/internal/core/domain"
)

// Format is an export target format.
type Format string

const (
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
)

// ErrUnsupportedFormat is returned for unknown export formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export renders a project in the requested format.
func Export(p *domain.Project, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return exportText(p), nil
	case FormatJSON:
		return json.MarshalIndent(p, "", "  ")
	case FormatMarkdown:
		return exportMarkdown(p), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func exportText(p *domain.Project) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}

	for _, c := range p.Chapters {
		fmt.Fprintf(&b, "\n## %s\n", c.Title)
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

func exportMarkdown(p *domain.Project) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(&b, "\n_%s_\n", p.Description)
	}
	if p.Synopsis != "" {
		fmt.Fprintf(&b, "\n## Synopsis\n\n%s\n", p.Synopsis)
	}

	for _, c := range p.Chapters {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", c.Title, c.Content)
	}
	return []byte(b.String())
}
