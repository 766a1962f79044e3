package models

import "time"

// CategoryGroup is the top level of the two-level problem-type taxonomy.
type CategoryGroup struct {
	GroupNo   uint   `gorm:"column:group_no;primaryKey" json:"group_no"`
	GroupName string `gorm:"column:group_name;size:64;not null" json:"group_name"`
}

func (CategoryGroup) TableName() string { return "pin_category_groups" }

// Category belongs to exactly one group. Names are unique within a group;
// the unique index is the authoritative guard against concurrent creates.
// Merged-away categories are deactivated, never deleted.
type Category struct {
	CategoryNo uint      `gorm:"column:category_no;primaryKey" json:"category_no"`
	GroupNo    uint      `gorm:"column:group_no;not null;uniqueIndex:uni_pin_categories_group_name" json:"group_no"`
	Name       string    `gorm:"column:category_name;size:64;not null;uniqueIndex:uni_pin_categories_group_name" json:"category_name"`
	IsActive   int       `gorm:"column:is_active;default:1" json:"is_active"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Category) TableName() string { return "pin_categories" }

// PostCategory links a post to a category. The composite primary key keeps
// (post, category) pairs unique.
type PostCategory struct {
	PostNo     uint `gorm:"column:post_no;primaryKey" json:"post_no"`
	CategoryNo uint `gorm:"column:category_no;primaryKey" json:"category_no"`
}

func (PostCategory) TableName() string { return "pin_post_categories" }

// PinCategory links a pin to a category, same uniqueness rule as PostCategory.
type PinCategory struct {
	PinNo      uint `gorm:"column:pin_no;primaryKey" json:"pin_no"`
	CategoryNo uint `gorm:"column:category_no;primaryKey" json:"category_no"`
}

func (PinCategory) TableName() string { return "pin_question_categories" }
