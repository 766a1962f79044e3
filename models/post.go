package models

import "time"

// Post is an uploaded design. Counters are mutated in place; the post body
// itself is immutable after upload.
type Post struct {
	PostNo         uint      `gorm:"column:post_no;primaryKey" json:"post_no"`
	UserNo         uint      `gorm:"column:user_no;index;not null" json:"user_no"`
	Title          string    `gorm:"column:post_title;size:255;not null" json:"post_title"`
	Content        string    `gorm:"column:post_content;type:text" json:"post_content"`
	ViewCount      int       `gorm:"column:view_count;default:0" json:"view_count"`
	LikeCount      int       `gorm:"column:like_count;default:0" json:"like_count"`
	DislikeCount   int       `gorm:"column:dislike_count;default:0" json:"dislike_count"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (Post) TableName() string { return "pin_posts" }

// PostImage stores one stored blob path per uploaded image. The lowest
// image_no (or order_index 1) is the canonical thumbnail.
type PostImage struct {
	ImageNo    uint   `gorm:"column:image_no;primaryKey" json:"image_no"`
	PostNo     uint   `gorm:"column:post_no;index;not null" json:"post_no"`
	ImagePath  string `gorm:"column:image_path;size:1024;not null" json:"image_path"`
	OrderIndex int    `gorm:"column:order_index;default:1" json:"order_index"`
}

func (PostImage) TableName() string { return "pin_post_images" }
