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

// QnaController serves the standalone support board.
type QnaController struct {
	db *gorm.DB
}

// NewQnaController creates a QnaController.
func NewQnaController(db *gorm.DB) *QnaController {
	return &QnaController{db: db}
}

// CreateQuestion stores a support question and answers 201.
func (q *QnaController) CreateQuestion(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		utils.Fail(ctx, http.StatusBadRequest, "title and content are required")
		return
	}

	question := models.QnaQuestion{
		UserNo:  userNo,
		Title:   strings.TrimSpace(req.Title),
		Content: utils.Sanitize(strings.TrimSpace(req.Content)),
	}
	if err := q.db.Create(&question).Error; err != nil {
		utils.Sugar.Errorf("qna create: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save question")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":     "question created",
		"question_no": question.QuestionNo,
	})
}

type qnaRow struct {
	No     uint      `json:"no"`
	Title  string    `json:"title"`
	Author string    `json:"author"`
	Date   time.Time `json:"date"`
	Answer *string   `json:"answer"`
}

// ListQuestions returns all support questions with their reply, if any,
// newest first. A question without a reply carries a null answer.
func (q *QnaController) ListQuestions(ctx *gin.Context) {
	var rows []qnaRow
	err := q.db.Table("pin_qna_questions qq").
		Select(`qq.question_no AS no, qq.question_title AS title,
			u.user_nickname AS author, qq.create_datetime AS date,
			qa.answer_content AS answer`).
		Joins("JOIN pin_users u ON qq.user_no = u.user_no").
		Joins("LEFT JOIN pin_qna_answers qa ON qq.question_no = qa.question_no").
		Order("qq.question_no DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("qna list: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list questions")
		return
	}

	if rows == nil {
		rows = []qnaRow{}
	}
	utils.OK(ctx, rows)
}
