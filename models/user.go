package models

import "time"

// Grade levels a user can hold. Anything else normalizes to GradeGeneral.
const (
	GradeGeneral = "GENERAL"
	GradeBasic   = "BASIC"
	GradePro     = "PRO"
)

// Roles assigned at signup. Only USER is created through the API.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a platform member. Passwords are stored as bcrypt hashes only.
type User struct {
	UserNo         uint      `gorm:"column:user_no;primaryKey" json:"user_no"`
	UserID         string    `gorm:"column:user_id;size:64;not null;uniqueIndex:uni_pin_users_user_id" json:"user_id"`
	Password       string    `gorm:"column:user_pw;size:255;not null" json:"-"`
	Nickname       string    `gorm:"column:user_nickname;size:64;not null" json:"user_nickname"`
	Intro          *string   `gorm:"column:user_intro;size:255" json:"user_intro"`
	Image          *string   `gorm:"column:user_image;size:512" json:"user_image"`
	Banner         *string   `gorm:"column:user_banner;size:512" json:"user_banner"`
	Grade          string    `gorm:"column:user_grade;size:16;default:'GENERAL'" json:"user_grade"`
	Role           string    `gorm:"column:user_role;size:16;default:'USER'" json:"user_role"`
	CreateDatetime time.Time `gorm:"column:create_datetime;autoCreateTime" json:"create_datetime"`
}

// TableName keeps the legacy table naming.
func (User) TableName() string { return "pin_users" }

// NormalizeGrade maps unknown grade values to GENERAL.
func NormalizeGrade(grade string) string {
	switch grade {
	case GradeGeneral, GradeBasic, GradePro:
		return grade
	default:
		return GradeGeneral
	}
}
