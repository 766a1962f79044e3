package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// PinController manages positioned questions and their answers.
type PinController struct {
	db *gorm.DB
}

// NewPinController creates a PinController.
func NewPinController(db *gorm.DB) *PinController {
	return &PinController{db: db}
}

// Create inserts a pin and its category link in one transaction. The issue
// name must resolve to an existing category.
func (p *PinController) Create(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		PostNo   uint     `json:"postNo"`
		ImageNo  uint     `json:"imageNo"`
		X        *float64 `json:"x"`
		Y        *float64 `json:"y"`
		Question string   `json:"question"`
		Issue    string   `json:"issue"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.PostNo == 0 || req.ImageNo == 0 || req.X == nil || req.Y == nil ||
		strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Issue) == "" {
		utils.Fail(ctx, http.StatusBadRequest, "missing pin data")
		return
	}

	pin := models.Pin{
		PostNo:   req.PostNo,
		ImageNo:  req.ImageNo,
		UserNo:   userNo,
		X:        *req.X,
		Y:        *req.Y,
		Question: utils.Sanitize(strings.TrimSpace(req.Question)),
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pin).Error; err != nil {
			return err
		}

		var categoryNo uint
		if err := tx.Model(&models.Category{}).
			Where("category_name = ?", req.Issue).
			Limit(1).
			Pluck("category_no", &categoryNo).Error; err != nil {
			return err
		}
		if categoryNo == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Create(&models.PinCategory{PinNo: pin.PinNo, CategoryNo: categoryNo}).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Fail(ctx, http.StatusInternalServerError, "category lookup failed")
			return
		}
		utils.Sugar.Errorf("pin create: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save pin")
		return
	}

	utils.InvalidateByPrefix(postsListCacheKey)

	utils.OK(ctx, gin.H{"success": true, "pinNo": pin.PinNo})
}

type pinAnswerRow struct {
	AnswerNo       uint      `json:"answer_no"`
	PinNo          uint      `json:"pin_no"`
	UserNo         uint      `json:"user_no"`
	AnswerContent  string    `json:"answer_content"`
	CreateDatetime time.Time `json:"create_datetime"`
	Nickname       string    `json:"user_nickname"`
}

// ListAnswers returns a pin's answers with author nicknames, oldest first.
func (p *PinController) ListAnswers(ctx *gin.Context) {
	pinNo := ctx.Param("pinNo")

	var rows []pinAnswerRow
	err := p.db.Table("pin_answers a").
		Select(`a.answer_no, a.pin_no, a.user_no, a.answer_content,
			a.create_datetime, u.user_nickname AS nickname`).
		Joins("JOIN pin_users u ON a.user_no = u.user_no").
		Where("a.pin_no = ?", pinNo).
		Order("a.create_datetime ASC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("pin answers: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list answers")
		return
	}

	if rows == nil {
		rows = []pinAnswerRow{}
	}
	utils.OK(ctx, rows)
}

// CreateAnswer stores an answer on a pin, then dispatches the owner alarm
// as a detached best-effort task. The alarm never affects this response.
func (p *PinController) CreateAnswer(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	pinNoParam := ctx.Param("pinNo")
	pinNo64, err := strconv.ParseUint(pinNoParam, 10, 64)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid pin number")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		utils.Fail(ctx, http.StatusBadRequest, "content is required")
		return
	}

	answer := models.Answer{
		PinNo:   uint(pinNo64),
		UserNo:  userNo,
		Content: utils.Sanitize(strings.TrimSpace(req.Content)),
	}
	if err := p.db.Create(&answer).Error; err != nil {
		utils.Sugar.Errorf("answer create: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save answer")
		return
	}

	go dispatchAnswerAlarm(p.db, answer.PinNo, answer.AnswerNo, userNo)

	utils.OK(ctx, gin.H{"success": true})
}
