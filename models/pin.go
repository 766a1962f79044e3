package models

import "time"

// Pin is a positioned question anchored to a point on a post image.
// Coordinates are normalized to the displayed image.
type Pin struct {
	PinNo          uint      `gorm:"column:pin_no;primaryKey" json:"pin_no"`
	PostNo         uint      `gorm:"column:post_no;index;not null" json:"post_no"`
	ImageNo        uint      `gorm:"column:image_no;not null" json:"image_no"`
	UserNo         uint      `gorm:"column:user_no;not null" json:"user_no"`
	X              float64   `gorm:"column:x;not null" json:"x"`
	Y              float64   `gorm:"column:y;not null" json:"y"`
	Question       string    `gorm:"column:question_content;type:text;not null" json:"question_content"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (Pin) TableName() string { return "pin_questions" }
