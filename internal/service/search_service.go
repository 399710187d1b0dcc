package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/animania/internal/db"
	"gorm.io/gorm"
)

const (
	// MinSearchQueryLength is the shortest query that triggers a text match.
	MinSearchQueryLength = 2
	// MaxSearchResults bounds one search response.
	MaxSearchResults = 50
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchService runs free-text and category searches over published posts.
type SearchService struct {
	db *gorm.DB
}

// SearchParams are the raw search inputs.
type SearchParams struct {
	Query    string
	Category string
}

// SearchResult holds matched posts. NeedsQuery is set when no usable filter
// was given and nothing was searched.
type SearchResult struct {
	Posts      []db.Post    `json:"posts"`
	Query      string       `json:"query"`
	Category   *db.Category `json:"category"`
	HasMore    bool         `json:"hasMore"`
	NeedsQuery bool         `json:"needsQuery"`
}

// NewSearchService creates a SearchService.
func NewSearchService(gdb *gorm.DB) *SearchService {
	return &SearchService{db: gdb}
}

// Search matches the query case-insensitively against the plain text of title,
// content and excerpt, ANDed with the category when it parses. Unknown categories are ignored.
func (s *SearchService) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	query := strings.TrimSpace(params.Query)
	result := &SearchResult{Query: query, Posts: []db.Post{}}

	if category, ok := db.ParseCategory(params.Category); ok {
		result.Category = &category
	}

	hasText := utf8.RuneCountInString(query) >= MinSearchQueryLength
	if !hasText && result.Category == nil {
		result.NeedsQuery = true
		return result, nil
	}

	dbQuery := s.db.WithContext(ctx).Preload("Author").
		Model(&db.Post{}).
		Where("published = ?", true)

	// search_text is lowercased in Go; SQLite LOWER only folds ASCII.
	if hasText {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
		dbQuery = dbQuery.Where(`search_text LIKE ? ESCAPE '\'`, pattern)
	}
	if result.Category != nil {
		dbQuery = dbQuery.Where("category = ?", *result.Category)
	}

	var posts []db.Post
	if err := dbQuery.
		Order("created_at desc").Order("id desc").
		Limit(MaxSearchResults + 1).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	if len(posts) > MaxSearchResults {
		posts = posts[:MaxSearchResults]
		result.HasMore = true
	}
	result.Posts = posts
	return result, nil
}

// searchDocument is the text a post is searched by: markup stripped, entities
// decoded, lowercased with full Unicode case mapping.
func searchDocument(article db.Article) string {
	parts := []string{article.Title, plainText(article.Content)}
	if article.Excerpt != nil {
		parts = append(parts, plainText(*article.Excerpt))
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

// Reindex fills search_text for posts stored before the column existed.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).Where("search_text = ? OR search_text IS NULL", "").Find(&posts).Error; err != nil {
		return 0, err
	}

	for _, post := range posts {
		if err := s.db.WithContext(ctx).Model(&db.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("search_text", searchDocument(post.Article)).Error; err != nil {
			return 0, err
		}
	}
	return len(posts), nil
}
