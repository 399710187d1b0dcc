package service

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	ContentFormatHTML     = "html"
	ContentFormatMarkdown = "markdown"

	excerptRunes = 150
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithRendererOptions(gmhtml.WithHardWraps(), gmhtml.WithXHTML(), gmhtml.WithUnsafe()),
	)
	contentPolicy   = buildContentPolicy()
	plainTextPolicy = bluemonday.StrictPolicy()
)

// renderContent turns the submitted body into sanitized HTML. Markdown bodies
// are rendered first, with standalone video links turned into players; the
// result always goes through the content policy.
func renderContent(raw, format string) (string, error) {
	body := strings.TrimSpace(raw)
	if strings.EqualFold(strings.TrimSpace(format), ContentFormatMarkdown) {
		var buf bytes.Buffer
		if err := markdownEngine.Convert([]byte(embedVideos(body)), &buf); err != nil {
			return "", err
		}
		body = buf.String()
	}
	return strings.TrimSpace(contentPolicy.Sanitize(body)), nil
}

// plainText strips every tag and collapses whitespace.
func plainText(content string) string {
	stripped := html.UnescapeString(plainTextPolicy.Sanitize(content))
	return strings.Join(strings.Fields(stripped), " ")
}

// defaultExcerpt derives an excerpt from the body when the author gave none.
func defaultExcerpt(content string) string {
	text := plainText(content)
	if utf8.RuneCountInString(text) <= excerptRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:excerptRunes])) + "..."
}

// resolveExcerpt returns the trimmed excerpt, or one derived from content when blank.
func resolveExcerpt(excerpt, content string) *string {
	trimmed := plainText(excerpt)
	if trimmed == "" {
		trimmed = defaultExcerpt(content)
	}
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeTags splits comma separated entries, trims them and drops blanks and duplicates.
func NormalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		for _, part := range strings.Split(entry, ",") {
			tag := strings.TrimSpace(part)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

func optionalString(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
