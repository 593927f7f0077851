package markdown_test

import (
	"strings"
	"testing"

	"storefront/internal/platform/markdown"
)

func TestDocumentRenderParseKeepsMetaAndBody(t *testing.T) {
	t.Parallel()
	doc := markdown.Document{
		Meta: map[string]any{"id": 42, "title": "Essence Mascara"},
		Body: "# Receipt\n",
	}
	rendered, err := doc.Render()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(rendered, "---\n") || !strings.Contains(rendered, "title: Essence Mascara") {
		t.Fatalf("unexpected rendering: %s", rendered)
	}
	parsed, err := markdown.Parse(rendered)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Meta["id"] != 42 || parsed.Meta["title"] != "Essence Mascara" {
		t.Fatalf("unexpected meta: %#v", parsed.Meta)
	}
	if strings.TrimSpace(parsed.Body) != "# Receipt" {
		t.Fatalf("unexpected body: %q", parsed.Body)
	}
}

func TestParseWithoutFrontmatterReturnsBody(t *testing.T) {
	t.Parallel()
	parsed, err := markdown.Parse("plain text")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Meta) != 0 || parsed.Body != "plain text" {
		t.Fatalf("unexpected document: %#v", parsed)
	}
}

func TestParseRejectsUnterminatedFrontmatter(t *testing.T) {
	t.Parallel()
	if _, err := markdown.Parse("---\nid: 1\n"); err == nil {
		t.Fatalf("expected missing fence error")
	}
}
