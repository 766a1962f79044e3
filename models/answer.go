package models

import "time"

// Answer is a reply attached to a pin.
type Answer struct {
	AnswerNo       uint      `gorm:"column:answer_no;primaryKey" json:"answer_no"`
	PinNo          uint      `gorm:"column:pin_no;index;not null" json:"pin_no"`
	UserNo         uint      `gorm:"column:user_no;index;not null" json:"user_no"`
	Content        string    `gorm:"column:answer_content;type:text;not null" json:"answer_content"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (Answer) TableName() string { return "pin_answers" }
