package models

import "time"

// QnaQuestion is a standalone support-board question, unrelated to pins.
type QnaQuestion struct {
	QuestionNo     uint      `gorm:"column:question_no;primaryKey" json:"question_no"`
	UserNo         uint      `gorm:"column:user_no;index;not null" json:"user_no"`
	Title          string    `gorm:"column:question_title;size:255;not null" json:"question_title"`
	Content        string    `gorm:"column:question_content;type:text;not null" json:"question_content"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (QnaQuestion) TableName() string { return "pin_qna_questions" }

// QnaAnswer holds at most one reply per question in the current board.
type QnaAnswer struct {
	AnswerNo       uint      `gorm:"column:answer_no;primaryKey" json:"answer_no"`
	QuestionNo     uint      `gorm:"column:question_no;index;not null" json:"question_no"`
	UserNo         uint      `gorm:"column:user_no;not null" json:"user_no"`
	Content        string    `gorm:"column:answer_content;type:text;not null" json:"answer_content"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

func (QnaAnswer) TableName() string { return "pin_qna_answers" }
