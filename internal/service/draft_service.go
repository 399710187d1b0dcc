package service

import (
	"context"
	"errors"
	"time"

	"github.com/animania/internal/db"
	"gorm.io/gorm"
)

// DraftService wraps author-private drafts and their promotion to posts.
type DraftService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDraftService creates a DraftService instance.
func NewDraftService(gdb *gorm.DB) *DraftService {
	return &DraftService{db: gdb, now: time.Now}
}

// WithClock overrides the clock used for slugs and timestamps.
func (s *DraftService) WithClock(now func() time.Time) *DraftService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create validates input and stores it as a draft.
func (s *DraftService) Create(ctx context.Context, input PostInput) (*db.Draft, error) {
	article, err := input.article()
	if err != nil {
		return nil, err
	}

	draft := db.Draft{Article: article, AuthorID: input.AuthorID}
	if err := s.db.WithContext(ctx).Create(&draft).Error; err != nil {
		return nil, err
	}
	return &draft, nil
}

// Get returns the draft when userID is its author.
func (s *DraftService) Get(ctx context.Context, id, userID uint) (*db.Draft, error) {
	var draft db.Draft
	if err := s.db.WithContext(ctx).First(&draft, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	if draft.AuthorID != userID {
		return nil, ErrForbidden
	}
	return &draft, nil
}

// ListByAuthor returns the drafts of authorID, most recently edited first.
func (s *DraftService) ListByAuthor(ctx context.Context, authorID uint) ([]db.Draft, error) {
	var drafts []db.Draft
	if err := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("updated_at desc").Order("id desc").
		Find(&drafts).Error; err != nil {
		return nil, err
	}
	return drafts, nil
}

// Update applies a partial update to a draft owned by userID.
func (s *DraftService) Update(ctx context.Context, id, userID uint, update PostUpdate) (*db.Draft, error) {
	draft, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	columns, err := update.apply(&draft.Article)
	if err != nil {
		return nil, err
	}
	if len(columns) == 0 {
		return draft, nil
	}

	draft.UpdatedAt = s.now()
	columns = append(columns, "updated_at")
	if err := s.db.WithContext(ctx).Model(draft).Select(columns).Updates(draft).Error; err != nil {
		return nil, err
	}
	return draft, nil
}

// Delete hard-deletes a draft owned by userID.
func (s *DraftService) Delete(ctx context.Context, id, userID uint) error {
	draft, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&db.Draft{}, draft.ID).Error
}

// Publish promotes a draft to a published post. The post is inserted before
// the draft is deleted, both inside one transaction; a store without
// multi-statement transactions would at worst keep a duplicate draft.
func (s *DraftService) Publish(ctx context.Context, id, userID uint) (*db.Post, error) {
	var post db.Post

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var draft db.Draft
		if err := tx.First(&draft, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDraftNotFound
			}
			return err
		}
		if draft.AuthorID != userID {
			return ErrForbidden
		}

		slug, err := allocateSlug(tx, draft.Title, s.now())
		if err != nil {
			return err
		}

		post = db.Post{
			Article:    draft.Article,
			Slug:       slug,
			Published:  true,
			Featured:   false,
			AuthorID:   draft.AuthorID,
			SearchText: searchDocument(draft.Article),
		}
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		return tx.Delete(&db.Draft{}, draft.ID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Preload("Author").First(&post, post.ID).Error; err != nil {
		return nil, err
	}
	return &post, nil
}
