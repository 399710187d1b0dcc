package db

import "time"

// PostLike 记录用户对文章的点赞，(user_id, post_id) 唯一。
type PostLike struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_likes_user_post;index"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (PostLike) TableName() string {
	return "post_likes"
}

// PostView 记录用户对文章的首次浏览，(user_id, post_id) 唯一，写入后不删除。
type PostView struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_views_user_post"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_views_user_post;index"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (PostView) TableName() string {
	return "post_views"
}
