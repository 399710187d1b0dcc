package service

import (
	"context"

	"github.com/animania/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementService 负责点赞与浏览计数。
// Counters are moved with store-level expressions; the unique (user_id, post_id)
// index on the join tables is what prevents double counting.
type EngagementService struct {
	db *gorm.DB
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked bool  `json:"liked"`
	Likes int64 `json:"likes"`
}

// ViewResult is the state after recording a view.
type ViewResult struct {
	Views         int64 `json:"views"`
	AlreadyViewed bool  `json:"alreadyViewed"`
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(gdb *gorm.DB) *EngagementService {
	return &EngagementService{db: gdb}
}

// ToggleLike removes the caller's like when present, otherwise adds it.
func (s *EngagementService) ToggleLike(ctx context.Context, postID, userID uint) (LikeResult, error) {
	var result LikeResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePublished(tx, postID); err != nil {
			return err
		}

		removed := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&db.PostLike{})
		if removed.Error != nil {
			return removed.Error
		}

		if removed.RowsAffected > 0 {
			if err := tx.Model(&db.Post{}).
				Where("id = ? AND likes > 0", postID).
				UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error; err != nil {
				return err
			}
			result.Liked = false
		} else {
			like := db.PostLike{UserID: userID, PostID: postID}
			insert := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
				DoNothing: true,
			}).Create(&like)
			if insert.Error != nil {
				return insert.Error
			}
			if insert.RowsAffected == 1 {
				if err := tx.Model(&db.Post{}).
					Where("id = ?", postID).
					UpdateColumn("likes", gorm.Expr("likes + ?", 1)).Error; err != nil {
					return err
				}
			}
			result.Liked = true
		}

		likes, err := counter(tx, postID, "likes")
		if err != nil {
			return err
		}
		result.Likes = likes
		return nil
	})
	if err != nil {
		return LikeResult{}, err
	}
	return result, nil
}

// RecordView counts the first view of postID by userID. Later calls leave the counter unchanged.
func (s *EngagementService) RecordView(ctx context.Context, postID, userID uint) (ViewResult, error) {
	var result ViewResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensurePublished(tx, postID); err != nil {
			return err
		}

		view := db.PostView{UserID: userID, PostID: postID}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "post_id"}},
			DoNothing: true,
		}).Create(&view)
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 1 {
			if err := tx.Model(&db.Post{}).
				Where("id = ?", postID).
				UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
				return err
			}
		} else {
			result.AlreadyViewed = true
		}

		views, err := counter(tx, postID, "views")
		if err != nil {
			return err
		}
		result.Views = views
		return nil
	})
	if err != nil {
		return ViewResult{}, err
	}
	return result, nil
}

// LikedPostIDs returns which of postIDs userID has liked. Posts without a like are absent.
func (s *EngagementService) LikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(postIDs))
	if userID == 0 || len(postIDs) == 0 {
		return result, nil
	}

	var liked []uint
	if err := s.db.WithContext(ctx).Model(&db.PostLike{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &liked).Error; err != nil {
		return nil, err
	}

	for _, id := range liked {
		result[id] = true
	}
	return result, nil
}

func ensurePublished(tx *gorm.DB, postID uint) error {
	var count int64
	if err := tx.Model(&db.Post{}).Where("id = ? AND published = ?", postID, true).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPostNotFound
	}
	return nil
}

func counter(tx *gorm.DB, postID uint, column string) (int64, error) {
	var values []int64
	if err := tx.Model(&db.Post{}).Where("id = ?", postID).Pluck(column, &values).Error; err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrPostNotFound
	}
	return values[0], nil
}
