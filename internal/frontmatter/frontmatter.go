// Package frontmatter parses YAML front matter out of markdown journal
// entries. Metadata lives between "---" fences at the top of the document;
// the remainder is the entry body. The body stored (and indexed) never
// contains the fences or the metadata block.
package frontmatter

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Meta is the structured metadata an entry can carry in its front matter.
type Meta struct {
	Date     string `yaml:"date,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Epigraph string `yaml:"epigraph,omitempty"`
	Notes    string `yaml:"notes,omitempty"`

	People []string `yaml:"people,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
	Events []string `yaml:"events,omitempty"`
	Cities []string `yaml:"cities,omitempty"`
	Themes []string `yaml:"themes,omitempty"`

	Manuscript bool   `yaml:"manuscript,omitempty"`
	Status     string `yaml:"status,omitempty"`
}

// Parse splits content into front matter and body. Content without a
// leading fence is all body with zero metadata. A fenced block that is not
// valid YAML is an error - silently treating metadata as prose would index
// it as searchable text.
func Parse(content string) (Meta, string, error) {
	var meta Meta

	rest, ok := strings.CutPrefix(content, fence+"\n")
	if !ok {
		if content == fence {
			return meta, "", nil
		}
		return meta, content, nil
	}

	head, body, found := strings.Cut(rest, "\n"+fence)
	if !found {
		// Unterminated fence: treat the whole document as body.
		return meta, content, nil
	}
	if err := yaml.Unmarshal([]byte(head), &meta); err != nil {
		return meta, "", fmt.Errorf("parse front matter: %w", err)
	}

	body = strings.TrimPrefix(body, "\n")
	return meta, strings.TrimLeft(body, "\n"), nil
}

// Render serialises metadata back into a fenced document. The inverse of
// Parse for export.
func Render(meta Meta, body string) (string, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal front matter: %w", err)
	}
	var b strings.Builder
	b.WriteString(fence + "\n")
	b.Write(data)
	b.WriteString(fence + "\n\n")
	b.WriteString(body)
	return b.String(), nil
}
