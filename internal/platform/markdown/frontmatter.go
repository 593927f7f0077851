package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Document is a markdown note with a YAML frontmatter header.
type Document struct {
	Meta map[string]any
	Body string
}

func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, fence) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return Document{}, fmt.Errorf("invalid frontmatter: missing closing fence")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Document{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Document{Meta: meta, Body: rest[idx+len("\n"+fence):]}, nil
}

func (d Document) Render() (string, error) {
	raw, err := yaml.Marshal(d.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(fence)
	buf.Write(raw)
	buf.WriteString(fence)
	if !strings.HasPrefix(d.Body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(d.Body)
	return buf.String(), nil
}
