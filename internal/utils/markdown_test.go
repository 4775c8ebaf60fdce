package utils

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	got := string(RenderMarkdown("**bold** and `code`"))
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("expected bold markup, got %q", got)
	}
	if !strings.Contains(got, "<code>code</code>") {
		t.Errorf("expected code markup, got %q", got)
	}
}

func TestRenderMarkdownStripsScripts(t *testing.T) {
	got := string(RenderMarkdown("hi <script>alert(1)</script> [x](javascript:alert(1))"))
	if strings.Contains(got, "<script") {
		t.Errorf("script tag survived: %q", got)
	}
	if strings.Contains(got, "javascript:") {
		t.Errorf("javascript link survived: %q", got)
	}
}

func TestRenderMarkdownExternalLinks(t *testing.T) {
	got := string(RenderMarkdown("[site](https://example.com)"))
	if !strings.Contains(got, `target="_blank"`) {
		t.Errorf("expected target=_blank, got %q", got)
	}
	if !strings.Contains(got, "noreferrer") {
		t.Errorf("expected noreferrer, got %q", got)
	}
}
