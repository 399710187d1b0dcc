package service

import (
	"strings"

	"github.com/animania/internal/db"
)

// PostInput represents fields accepted when creating a post or a draft.
type PostInput struct {
	Title         string
	Content       string
	ContentFormat string
	Excerpt       string
	Category      string
	ImageURL      string
	Tags          []string
	AuthorID      uint
}

// PostUpdate carries a partial update. Nil fields are left untouched.
type PostUpdate struct {
	Title         *string
	Content       *string
	ContentFormat string
	Excerpt       *string
	Category      *string
	ImageURL      *string
	Tags          *[]string
}

// article validates in and returns the normalized content fields.
func (in PostInput) article() (db.Article, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return db.Article{}, invalid("title", "Le titre est requis")
	}

	content, err := renderContent(in.Content, in.ContentFormat)
	if err != nil {
		return db.Article{}, err
	}
	if plainText(content) == "" {
		return db.Article{}, invalid("content", "Le contenu est requis")
	}

	category, ok := db.ParseCategory(in.Category)
	if !ok {
		return db.Article{}, invalid("category", "Catégorie invalide")
	}

	return db.Article{
		Title:    title,
		Content:  content,
		Excerpt:  resolveExcerpt(in.Excerpt, content),
		Category: category,
		ImageURL: optionalString(in.ImageURL),
		Tags:     NormalizeTags(in.Tags),
	}, nil
}

// apply validates the present fields of u, writes them into target and
// returns the touched column names. Nothing is written on error.
func (u PostUpdate) apply(target *db.Article) ([]string, error) {
	next := *target
	var columns []string

	if u.Title != nil {
		title := strings.TrimSpace(*u.Title)
		if title == "" {
			return nil, invalid("title", "Le titre est requis")
		}
		next.Title = title
		columns = append(columns, "title")
	}

	if u.Content != nil {
		content, err := renderContent(*u.Content, u.ContentFormat)
		if err != nil {
			return nil, err
		}
		if plainText(content) == "" {
			return nil, invalid("content", "Le contenu est requis")
		}
		next.Content = content
		columns = append(columns, "content")
	}

	if u.Excerpt != nil {
		next.Excerpt = optionalString(plainText(*u.Excerpt))
		columns = append(columns, "excerpt")
	}

	if u.Category != nil {
		category, ok := db.ParseCategory(*u.Category)
		if !ok {
			return nil, invalid("category", "Catégorie invalide")
		}
		next.Category = category
		columns = append(columns, "category")
	}

	if u.ImageURL != nil {
		next.ImageURL = optionalString(*u.ImageURL)
		columns = append(columns, "image_url")
	}

	if u.Tags != nil {
		next.Tags = NormalizeTags(*u.Tags)
		columns = append(columns, "tags")
	}

	*target = next
	return columns, nil
}
