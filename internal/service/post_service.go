package service

import (
	"context"
	"errors"
	"time"

	"github.com/animania/internal/db"
	"gorm.io/gorm"
)

// PostService wraps published post operations.
type PostService struct {
	db  *gorm.DB
	now func() time.Time
}

// PostFilter narrows public post listings.
type PostFilter struct {
	Category     *db.Category
	FeaturedOnly bool
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb, now: time.Now}
}

// WithClock overrides the clock used for slugs and timestamps.
func (s *PostService) WithClock(now func() time.Time) *PostService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create validates input and publishes it immediately under a fresh slug.
func (s *PostService) Create(ctx context.Context, input PostInput) (*db.Post, error) {
	article, err := input.article()
	if err != nil {
		return nil, err
	}

	post := db.Post{
		Article:    article,
		Published:  true,
		AuthorID:   input.AuthorID,
		SearchText: searchDocument(article),
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := allocateSlug(tx, post.Title, s.now())
		if err != nil {
			return err
		}
		post.Slug = slug
		return tx.Create(&post).Error
	}); err != nil {
		return nil, err
	}

	return s.Get(ctx, post.ID)
}

// Get fetches a published post by id with its author preloaded.
func (s *PostService) Get(ctx context.Context, id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("Author").
		Where("published = ?", true).
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a published post by slug.
func (s *PostService) GetBySlug(ctx context.Context, slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).Preload("Author").
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// ListPublished returns published posts, newest first.
func (s *PostService) ListPublished(ctx context.Context, filter PostFilter) ([]db.Post, error) {
	query := s.db.WithContext(ctx).Preload("Author").Where("published = ?", true)
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.FeaturedOnly {
		query = query.Where("featured = ?", true)
	}

	var posts []db.Post
	if err := query.Order("created_at desc").Order("id desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByCategory parses raw and lists the published posts of that category.
func (s *PostService) ListByCategory(ctx context.Context, raw string) ([]db.Post, error) {
	category, ok := db.ParseCategory(raw)
	if !ok {
		return nil, ErrInvalidCategory
	}
	return s.ListPublished(ctx, PostFilter{Category: &category})
}

// ListByAuthor returns every post written by authorID, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, authorID uint) ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").Order("id desc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Update applies a partial update to a post owned by userID. Slug and author never change.
func (s *PostService) Update(ctx context.Context, id, userID uint, update PostUpdate) (*db.Post, error) {
	post, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	columns, err := update.apply(&post.Article)
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		post.UpdatedAt = s.now()
		post.SearchText = searchDocument(post.Article)
		columns = append(columns, "search_text", "updated_at")
		if err := s.db.WithContext(ctx).Model(post).Select(columns).Updates(post).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(ctx, post.ID)
}

// Delete hard-deletes a post owned by userID together with its likes and views.
func (s *PostService) Delete(ctx context.Context, id, userID uint) error {
	post, err := s.owned(ctx, id, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&db.PostLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&db.PostView{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, post.ID).Error
	})
}

// SetFeatured flips the featured flag. Callers check the ADMIN role.
func (s *PostService) SetFeatured(ctx context.Context, id uint, featured bool) (*db.Post, error) {
	result := s.db.WithContext(ctx).Model(&db.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"featured": featured, "updated_at": s.now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrPostNotFound
	}
	return s.Get(ctx, id)
}

func (s *PostService) owned(ctx context.Context, id, userID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrForbidden
	}
	return &post, nil
}
