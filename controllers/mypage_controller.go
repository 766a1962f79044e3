package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// MypageController serves the authenticated user's own dashboard data.
type MypageController struct {
	db *gorm.DB
}

// NewMypageController creates a MypageController.
func NewMypageController(db *gorm.DB) *MypageController {
	return &MypageController{db: db}
}

// Profile returns the caller's profile row.
func (m *MypageController) Profile(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := m.db.First(&user, userNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorf("mypage profile: load user: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	utils.OK(ctx, user)
}

// UpdateProfile carries the same contract as PUT /api/users/profile.
func (m *MypageController) UpdateProfile(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	applyProfileUpdate(ctx, m.db, userNo, req)
}

type myDesignRow struct {
	PostNo         uint      `json:"post_no"`
	UserNo         uint      `json:"user_no"`
	PostTitle      string    `json:"post_title"`
	PostContent    string    `json:"post_content"`
	ViewCount      int       `json:"view_count"`
	LikeCount      int       `json:"like_count"`
	DislikeCount   int       `json:"dislike_count"`
	CreateDatetime time.Time `json:"create_datetime"`
	ImagePath      *string   `json:"image_path"`
}

// Designs lists the caller's uploaded posts with their first image as
// thumbnail, newest first.
func (m *MypageController) Designs(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := parsePositive(ctx.Query("limit"), 20)
	offset := parseNonNegative(ctx.Query("offset"), 0)

	var rows []myDesignRow
	err := m.db.Table("pin_posts p").
		Select(`p.post_no, p.user_no, p.post_title, p.post_content,
			p.view_count, p.like_count, p.dislike_count, p.create_datetime,
			(SELECT image_path FROM pin_post_images
			 WHERE post_no = p.post_no ORDER BY image_no ASC LIMIT 1) AS image_path`).
		Where("p.user_no = ?", userNo).
		Order("p.post_no DESC").
		Limit(limit).Offset(offset).
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("mypage designs: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list designs")
		return
	}

	if rows == nil {
		rows = []myDesignRow{}
	}
	utils.OK(ctx, gin.H{"items": rows, "limit": limit, "offset": offset})
}

type myFeedbackRow struct {
	AnswerNo        uint      `json:"answer_no"`
	PinNo           uint      `json:"pin_no"`
	AnswerContent   string    `json:"answer_content"`
	AnswerDatetime  time.Time `json:"answer_datetime"`
	PostNo          uint      `json:"post_no"`
	ImageNo         uint      `json:"image_no"`
	QuestionContent string    `json:"question_content"`
	PostTitle       string    `json:"post_title"`
	ImagePath       *string   `json:"image_path"`
}

// Feedback lists every answer the caller left, joined with the pin's
// question, the post title and the image it was pinned on.
func (m *MypageController) Feedback(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var rows []myFeedbackRow
	err := m.db.Table("pin_answers a").
		Select(`a.answer_no, a.pin_no, a.answer_content,
			a.create_datetime AS answer_datetime,
			q.post_no, q.image_no, q.question_content,
			p.post_title, img.image_path`).
		Joins("JOIN pin_questions q ON a.pin_no = q.pin_no").
		Joins("JOIN pin_posts p ON q.post_no = p.post_no").
		Joins("LEFT JOIN pin_post_images img ON q.image_no = img.image_no").
		Where("a.user_no = ?", userNo).
		Order("a.answer_no DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("mypage feedback: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	if rows == nil {
		rows = []myFeedbackRow{}
	}
	utils.OK(ctx, rows)
}

func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return def
}

func parseNonNegative(raw string, def int) int {
	if raw == "" {
		return def
	}
	if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
		return n
	}
	return def
}
