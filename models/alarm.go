package models

import "time"

// Alarm notifies a post owner that someone answered a pin on their post.
// Self-answers never produce one.
type Alarm struct {
	AlarmNo        uint      `gorm:"column:alarm_no;primaryKey" json:"alarm_no"`
	UserNo         uint      `gorm:"column:user_no;index;not null" json:"user_no"`
	AnswerNo       uint      `gorm:"column:answer_no;not null" json:"answer_no"`
	IsRead         int       `gorm:"column:is_read;default:0" json:"is_read"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (Alarm) TableName() string { return "pin_alarms" }
