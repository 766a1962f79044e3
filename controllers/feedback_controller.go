package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// FeedbackController lets users manage the answers they left on other
// people's designs. Ownership is enforced inside the WHERE clause: a
// mismatch surfaces as zero rows affected and answers 404.
type FeedbackController struct {
	db *gorm.DB
}

// NewFeedbackController creates a FeedbackController.
func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{db: db}
}

type feedbackRow struct {
	AnswerNo        uint      `json:"answer_no"`
	AnswerContent   string    `json:"answer_content"`
	AnswerDatetime  time.Time `json:"answer_datetime"`
	PinNo           uint      `json:"pin_no"`
	QuestionContent string    `json:"question_content"`
	PostNo          uint      `json:"post_no"`
	PostTitle       string    `json:"post_title"`
	ImagePath       *string   `json:"image_path"`
}

// List returns every feedback answer the caller wrote, newest first.
func (f *FeedbackController) List(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var rows []feedbackRow
	err := f.db.Table("pin_answers a").
		Select(`a.answer_no, a.answer_content,
			a.create_datetime AS answer_datetime,
			q.pin_no, q.question_content, q.post_no,
			p.post_title, img.image_path`).
		Joins("JOIN pin_questions q ON a.pin_no = q.pin_no").
		Joins("JOIN pin_posts p ON q.post_no = p.post_no").
		Joins("LEFT JOIN pin_post_images img ON q.image_no = img.image_no").
		Where("a.user_no = ?", userNo).
		Order("a.answer_no DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("feedback list: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	if rows == nil {
		rows = []feedbackRow{}
	}
	utils.OK(ctx, rows)
}

type feedbackDetailRow struct {
	AnswerNo        uint      `json:"answer_no"`
	AnswerContent   string    `json:"answer_content"`
	AnswerDatetime  time.Time `json:"answer_datetime"`
	PinNo           uint      `json:"pin_no"`
	QuestionContent string    `json:"question_content"`
	PostNo          uint      `json:"post_no"`
	PostTitle       string    `json:"post_title"`
	PostContent     string    `json:"post_content"`
	ImagePath       *string   `json:"image_path"`
}

// Detail returns one of the caller's feedback answers.
func (f *FeedbackController) Detail(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var row feedbackDetailRow
	err := f.db.Table("pin_answers a").
		Select(`a.answer_no, a.answer_content,
			a.create_datetime AS answer_datetime,
			q.pin_no, q.question_content, q.post_no,
			p.post_title, p.post_content, img.image_path`).
		Joins("JOIN pin_questions q ON a.pin_no = q.pin_no").
		Joins("JOIN pin_posts p ON q.post_no = p.post_no").
		Joins("LEFT JOIN pin_post_images img ON q.image_no = img.image_no").
		Where("a.answer_no = ? AND a.user_no = ?", ctx.Param("answerNo"), userNo).
		Take(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(ctx, http.StatusNotFound, "feedback not found")
			return
		}
		utils.Sugar.Errorf("feedback detail: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load feedback")
		return
	}

	utils.OK(ctx, row)
}

// Update edits one of the caller's feedback answers.
func (f *FeedbackController) Update(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		AnswerContent string `json:"answer_content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AnswerContent) == "" {
		utils.Fail(ctx, http.StatusBadRequest, "answer content is required")
		return
	}

	res := f.db.Model(&models.Answer{}).
		Where("answer_no = ? AND user_no = ?", ctx.Param("answerNo"), userNo).
		Update("answer_content", utils.Sanitize(strings.TrimSpace(req.AnswerContent)))
	if res.Error != nil {
		utils.Sugar.Errorf("feedback update: %v", res.Error)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update feedback")
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(ctx, http.StatusNotFound, "feedback not found")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}

// Delete removes one of the caller's feedback answers.
func (f *FeedbackController) Delete(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	res := f.db.Where("answer_no = ? AND user_no = ?", ctx.Param("answerNo"), userNo).
		Delete(&models.Answer{})
	if res.Error != nil {
		utils.Sugar.Errorf("feedback delete: %v", res.Error)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to delete feedback")
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(ctx, http.StatusNotFound, "feedback not found")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}
