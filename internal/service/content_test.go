package service

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRenderContentSanitizesHTML(t *testing.T) {
	got, err := renderContent(`<p onclick="x()">Le <strong>lion</strong></p><script>alert(1)</script>`, ContentFormatHTML)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "onclick") {
		t.Fatalf("expected unsafe markup to be stripped, got %q", got)
	}
	if !strings.Contains(got, "<strong>lion</strong>") {
		t.Fatalf("expected safe markup to survive, got %q", got)
	}
}

func TestRenderContentMarkdown(t *testing.T) {
	got, err := renderContent("# Le Lion\n\nRoi de la **savane**", ContentFormatMarkdown)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(got, "<h1>Le Lion</h1>") {
		t.Fatalf("expected heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>savane</strong>") {
		t.Fatalf("expected emphasis, got %q", got)
	}
}

func TestDefaultExcerpt(t *testing.T) {
	short := defaultExcerpt("<p>Le <em>lion</em> &amp; la lionne</p>")
	if short != "Le lion & la lionne" {
		t.Fatalf("unexpected short excerpt %q", short)
	}

	long := defaultExcerpt("<p>" + strings.Repeat("savane ", 60) + "</p>")
	if !strings.HasSuffix(long, "...") {
		t.Fatalf("expected ellipsis, got %q", long)
	}
	if n := utf8.RuneCountInString(long); n > excerptRunes+3 {
		t.Fatalf("expected at most %d runes, got %d", excerptRunes+3, n)
	}
}

func TestResolveExcerptPrefersAuthorText(t *testing.T) {
	got := resolveExcerpt("  Un résumé  ", "<p>Contenu</p>")
	if got == nil || *got != "Un résumé" {
		t.Fatalf("expected author excerpt, got %v", got)
	}

	derived := resolveExcerpt("", "<p>Contenu</p>")
	if derived == nil || *derived != "Contenu" {
		t.Fatalf("expected derived excerpt, got %v", derived)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"lion, savane", " Lion ", "", "afrique"})
	want := []string{"lion", "savane", "afrique"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
