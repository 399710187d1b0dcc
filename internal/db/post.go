package db

import "time"

// Article 文章与草稿共有的内容字段。
type Article struct {
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	Excerpt  *string  `gorm:"type:text" json:"excerpt"`
	Category Category `gorm:"type:varchar(16);index;not null" json:"category"`
	ImageURL *string  `json:"imageUrl"`
	Tags     []string `gorm:"serializer:json" json:"tags"`
}

// Post 已发布文章，公开可读。
type Post struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Article
	Slug      string `gorm:"uniqueIndex;not null" json:"slug"`
	Published bool   `gorm:"index;not null;default:true" json:"published"`
	Featured  bool   `gorm:"not null;default:false" json:"featured"`
	AuthorID  uint   `gorm:"index;not null" json:"authorId"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"-"`
	Views     int64  `gorm:"not null;default:0" json:"views"`
	Likes     int64  `gorm:"not null;default:0" json:"likes"`
	// SearchText is the lowercased plain text of title, content and excerpt.
	SearchText string    `gorm:"type:text;not null;default:''" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Draft 未发布的私有草稿，仅作者可见。
type Draft struct {
	ID uint `gorm:"primaryKey" json:"id"`
	Article
	AuthorID  uint      `gorm:"index;not null" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
