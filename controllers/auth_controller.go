package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// AuthController handles signup, login and session introspection.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Signup registers a local account with bcrypt hashing. Uniqueness of the
// external id is enforced by the unique index; a duplicate-key error from
// the insert maps to 409 so concurrent signups cannot both succeed.
func (a *AuthController) Signup(ctx *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		Password string `json:"user_pw" binding:"required"`
		Nickname string `json:"user_nickname" binding:"required"`
		Intro    string `json:"user_intro"`
		Grade    string `json:"user_grade"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "user id, password and nickname are required")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Sugar.Errorf("signup: hash password: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "signup failed")
		return
	}

	user := models.User{
		UserID:   strings.TrimSpace(req.UserID),
		Password: hashed,
		Nickname: req.Nickname,
		Grade:    models.NormalizeGrade(req.Grade),
		Role:     models.RoleUser,
	}
	if intro := strings.TrimSpace(req.Intro); intro != "" {
		user.Intro = &intro
	}

	if err := a.db.Create(&user).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.Fail(ctx, http.StatusConflict, "user id already in use")
			return
		}
		utils.Sugar.Errorf("signup: insert user: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "signup failed")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}

// Login verifies credentials and issues a 24h session token. Unknown id and
// wrong password return the identical response so account existence does
// not leak.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		Password string `json:"user_pw" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "user id and password are required")
		return
	}

	var user models.User
	if err := a.db.Where("user_id = ?", req.UserID).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Errorf("login: load user: %v", err)
			utils.Fail(ctx, http.StatusInternalServerError, "login failed")
			return
		}
		utils.Fail(ctx, http.StatusUnauthorized, "invalid user id or password")
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, "invalid user id or password")
		return
	}

	token, err := utils.GenerateToken(user.UserNo, user.Role, user.Grade)
	if err != nil {
		utils.Sugar.Errorf("login: generate token: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.OK(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"user_no":       user.UserNo,
			"user_id":       user.UserID,
			"user_nickname": user.Nickname,
			"user_grade":    user.Grade,
			"user_role":     user.Role,
		},
	})
}

// Me returns the authenticated user's profile row.
func (a *AuthController) Me(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, userNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorf("me: load user: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	utils.OK(ctx, user)
}
