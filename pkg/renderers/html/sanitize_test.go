package html_test

import (
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/renderers/html"
)

func TestSanitizeText(t *testing.T) {
	got := html.SanitizeText(`  <b>Brand</b> <script>alert(1)</script>name `)
	if got != "Brand name" {
		t.Fatalf("unexpected sanitised text %q", got)
	}
}

func TestSanitizeIcon(t *testing.T) {
	if got := html.SanitizeIcon("Save"); got != "Save" {
		t.Fatalf("icon name changed: %q", got)
	}

	raw := `<svg viewBox="0 0 24 24" onload="x()"><path d="M0 0L24 24" onclick="y()"/><script>alert(1)</script></svg>`
	got := html.SanitizeIcon(raw)
	if !strings.Contains(got, `<svg viewBox="0 0 24 24">`) || !strings.Contains(got, `d="M0 0L24 24"`) {
		t.Fatalf("svg markup lost: %q", got)
	}
	for _, banned := range []string{"onload", "onclick", "script"} {
		if strings.Contains(got, banned) {
			t.Fatalf("expected %q stripped from %q", banned, got)
		}
	}
}
