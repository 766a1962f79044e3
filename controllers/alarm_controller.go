package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// AlarmController serves the notification inbox.
type AlarmController struct {
	db *gorm.DB
}

// NewAlarmController creates an AlarmController.
func NewAlarmController(db *gorm.DB) *AlarmController {
	return &AlarmController{db: db}
}

// dispatchAnswerAlarm notifies the post owner that their pin was answered.
// Runs detached from the answer request: every failure is logged and
// swallowed, and a self-answer produces no alarm.
func dispatchAnswerAlarm(db *gorm.DB, pinNo, answerNo, writerNo uint) {
	defer func() {
		if r := recover(); r != nil {
			utils.Sugar.Errorf("alarm dispatch: panic: %v", r)
		}
	}()

	var ownerNo uint
	err := db.Table("pin_questions q").
		Joins("JOIN pin_posts p ON q.post_no = p.post_no").
		Where("q.pin_no = ?", pinNo).
		Limit(1).
		Pluck("p.user_no", &ownerNo).Error
	if err != nil || ownerNo == 0 {
		if err != nil {
			utils.Sugar.Warnf("alarm dispatch: owner lookup pin=%d: %v", pinNo, err)
		}
		return
	}
	if ownerNo == writerNo {
		return
	}

	alarm := models.Alarm{UserNo: ownerNo, AnswerNo: answerNo}
	if err := db.Create(&alarm).Error; err != nil {
		utils.Sugar.Warnf("alarm dispatch: insert pin=%d answer=%d: %v", pinNo, answerNo, err)
	}
}

type alarmRow struct {
	AlarmNo        uint      `json:"alarm_no"`
	IsRead         int       `json:"is_read"`
	CreateDatetime time.Time `json:"create_datetime"`
	AnswerContent  string    `json:"answer_content"`
}

// List returns the caller's alarms with the triggering answer, newest first.
func (a *AlarmController) List(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var rows []alarmRow
	err := a.db.Table("pin_alarms al").
		Select("al.alarm_no, al.is_read, al.create_datetime, ans.answer_content").
		Joins("JOIN pin_answers ans ON al.answer_no = ans.answer_no").
		Where("al.user_no = ?", userNo).
		Order("al.create_datetime DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("alarm list: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list alarms")
		return
	}

	if rows == nil {
		rows = []alarmRow{}
	}
	utils.OK(ctx, rows)
}

// MarkRead flags one of the caller's alarms as read.
func (a *AlarmController) MarkRead(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := a.db.Model(&models.Alarm{}).
		Where("alarm_no = ? AND user_no = ?", ctx.Param("alarmNo"), userNo).
		Update("is_read", 1).Error
	if err != nil {
		utils.Sugar.Errorf("alarm read: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update alarm")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}
