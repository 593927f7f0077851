package slug_test

import (
	"strings"
	"testing"

	"storefront/internal/platform/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"Essence Mascara Lash Princess": "essence-mascara-lash-princess",
		"  iPhone 9 (64GB)  ":           "iphone-9-64gb",
		"***":                           "item",
	}
	for in, want := range cases {
		if got := slug.Make(in); got != want {
			t.Fatalf("Make(%q) = %q, want %q", in, got, want)
		}
	}
	long := slug.Make(strings.Repeat("ab ", 40))
	if len(long) > 48 || strings.HasSuffix(long, "-") {
		t.Fatalf("expected trimmed slug, got %q", long)
	}
}
