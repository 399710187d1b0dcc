package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/animania/internal/db"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

const maxSlugAttempts = 3

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphens      = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases title, folds accents, keeps [a-z0-9], whitespace and
// hyphens, then joins words with single hyphens.
func Slugify(title string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}
	slug := strings.ToLower(folded)
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugWhitespace.ReplaceAllString(strings.TrimSpace(slug), "-")
	slug = slugHyphens.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// timestampedSlug appends the epoch milliseconds of now to the slugified title.
func timestampedSlug(title string, now time.Time) string {
	base := Slugify(title)
	if base == "" {
		base = "article"
	}
	return fmt.Sprintf("%s-%d", base, now.UnixMilli())
}

// allocateSlug returns a timestamped slug not yet used by any post. A taken
// slug (same title within the same millisecond) gets a short random suffix.
func allocateSlug(tx *gorm.DB, title string, now time.Time) (string, error) {
	base := timestampedSlug(title, now)
	candidate := base
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		var count int64
		if err := tx.Model(&db.Post{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%s", base, strings.SplitN(uuid.NewString(), "-", 2)[0])
	}
	return "", ErrSlugExhausted
}
