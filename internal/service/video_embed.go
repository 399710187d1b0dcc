package service

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	videoLinePattern     = regexp.MustCompile(`^<?(https?://\S+?)>?$`)
	videoEmbedSrcPattern = regexp.MustCompile(
		`^https://(?:www\.youtube-nocookie\.com/embed/|player\.vimeo\.com/video/|www\.dailymotion\.com/embed/video/)`,
	)
	videoTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`)
	orderedListLine  = regexp.MustCompile(`^\d+\.\s+`)
)

// buildContentPolicy is the UGC policy plus iframes pointing at known video players.
func buildContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("iframe")
	policy.AllowAttrs("class", "data-video-platform").OnElements("div")
	policy.AllowAttrs("src").Matching(videoEmbedSrcPattern).OnElements("iframe")
	policy.AllowAttrs("title", "allow", "allowfullscreen", "loading", "referrerpolicy").OnElements("iframe")
	return policy
}

type videoEmbed struct {
	platform string
	embedURL string
}

// embedVideos replaces markdown lines holding nothing but a supported video
// link with a player iframe. Code blocks, quotes and list items are left alone.
func embedVideos(markdown string) string {
	if !strings.Contains(markdown, "http") {
		return markdown
	}

	lines := strings.Split(markdown, "\n")
	fence := ""
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			switch {
			case fence == "":
				fence = trimmed[:3]
			case strings.HasPrefix(trimmed, fence):
				fence = ""
			}
			continue
		}
		if fence != "" || strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
			continue
		}

		match := videoLinePattern.FindStringSubmatch(trimmed)
		if match == nil || orderedListLine.MatchString(trimmed) {
			continue
		}
		if embed, ok := parseVideoURL(match[1]); ok {
			lines[i] = embed.html()
		}
	}
	return strings.Join(lines, "\n")
}

func parseVideoURL(raw string) (videoEmbed, bool) {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return videoEmbed{}, false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.Trim(u.Path, "/")
	segments := strings.Split(path, "/")

	switch {
	case host == "youtu.be", host == "youtube.com", host == "m.youtube.com":
		id := ""
		switch {
		case host == "youtu.be":
			id = segments[0]
		case path == "watch":
			id = u.Query().Get("v")
		case len(segments) == 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
			id = segments[1]
		}
		if !isVideoID(id) {
			return videoEmbed{}, false
		}
		params := url.Values{}
		params.Set("rel", "0")
		if start := youTubeStart(u.Query()); start > 0 {
			params.Set("start", strconv.Itoa(start))
		}
		return videoEmbed{
			platform: "youtube",
			embedURL: "https://www.youtube-nocookie.com/embed/" + id + "?" + params.Encode(),
		}, true

	case host == "vimeo.com":
		if len(segments) != 1 || !onlyDigits(segments[0]) {
			return videoEmbed{}, false
		}
		return videoEmbed{platform: "vimeo", embedURL: "https://player.vimeo.com/video/" + segments[0]}, true

	case host == "dailymotion.com", host == "dai.ly":
		id := ""
		if host == "dai.ly" {
			id = segments[0]
		} else if len(segments) == 2 && segments[0] == "video" {
			id = segments[1]
		}
		if !isVideoID(id) {
			return videoEmbed{}, false
		}
		return videoEmbed{platform: "dailymotion", embedURL: "https://www.dailymotion.com/embed/video/" + id}, true
	}
	return videoEmbed{}, false
}

func (e videoEmbed) html() string {
	return fmt.Sprintf(
		`<div class="video-embed" data-video-platform="%s"><iframe src="%s" title="Lecteur vidéo" loading="lazy" allow="encrypted-media; picture-in-picture" allowfullscreen referrerpolicy="strict-origin-when-cross-origin"></iframe></div>`,
		html.EscapeString(e.platform),
		html.EscapeString(e.embedURL),
	)
}

// youTubeStart reads ?t= or ?start= as seconds or as 1h2m3s.
func youTubeStart(query url.Values) int {
	value := strings.TrimSpace(query.Get("start"))
	if value == "" {
		value = strings.TrimSpace(query.Get("t"))
	}
	if value == "" {
		return 0
	}
	if onlyDigits(value) {
		seconds, _ := strconv.Atoi(value)
		return seconds
	}

	total := 0
	for _, match := range videoTimePattern.FindAllStringSubmatch(value, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func isVideoID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func onlyDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
