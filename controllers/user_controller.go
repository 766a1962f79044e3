package controllers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/config"
	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// UserController manages the /api/users profile surface.
type UserController struct {
	db *gorm.DB
}

// NewUserController creates a UserController.
func NewUserController(db *gorm.DB) *UserController {
	return &UserController{db: db}
}

// Me returns the caller's profile row.
func (u *UserController) Me(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user models.User
	if err := u.db.First(&user, userNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorf("users me: load user: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	utils.OK(ctx, user)
}

type profileUpdateRequest struct {
	Nickname  string `json:"user_nickname"`
	Intro     string `json:"user_intro"`
	Grade     string `json:"user_grade"`
	CurrentPw string `json:"current_pw"`
	NewPw     string `json:"new_pw"`
}

// UpdateProfile updates nickname/intro/grade and optionally changes the
// password. The current password is verified before any field is written;
// a failed verification leaves the profile untouched.
func (u *UserController) UpdateProfile(ctx *gin.Context) {
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

	applyProfileUpdate(ctx, u.db, userNo, req)
}

// applyProfileUpdate is shared by the /api/users and /api/mypage profile
// endpoints, which carry the same contract.
func applyProfileUpdate(ctx *gin.Context, db *gorm.DB, userNo uint, req profileUpdateRequest) {
	nickname := strings.TrimSpace(req.Nickname)
	if nickname == "" {
		utils.Fail(ctx, http.StatusBadRequest, "nickname is required")
		return
	}

	var user models.User
	if err := db.First(&user, userNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "user not found")
			return
		}
		utils.Sugar.Errorf("profile update: load user: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load user")
		return
	}

	// Verify the current password before any write is issued.
	newHash := ""
	if req.NewPw != "" {
		if req.CurrentPw == "" {
			utils.Fail(ctx, http.StatusBadRequest, "current password is required")
			return
		}
		if !utils.CheckPassword(user.Password, req.CurrentPw) {
			utils.Fail(ctx, http.StatusUnauthorized, "current password does not match")
			return
		}
		var err error
		newHash, err = utils.HashPassword(req.NewPw)
		if err != nil {
			utils.Sugar.Errorf("profile update: hash password: %v", err)
			utils.Fail(ctx, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}

	intro := utils.Sanitize(strings.TrimSpace(req.Intro))
	updates := map[string]interface{}{
		"user_nickname": nickname,
		"user_intro":    intro,
		"user_grade":    models.NormalizeGrade(req.Grade),
	}
	if newHash != "" {
		updates["user_pw"] = newHash
	}

	if err := db.Model(&models.User{}).Where("user_no = ?", userNo).Updates(updates).Error; err != nil {
		utils.Sugar.Errorf("profile update: save: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update profile")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}

// UpdateAvatar stores an uploaded avatar image and records its public path.
func (u *UserController) UpdateAvatar(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("avatar")
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	savedPath, err := saveImage(file, header, config.Get().UploadDir, "/uploads")
	if err != nil {
		if errors.Is(err, errNotAnImage) || errors.Is(err, errTooLarge) {
			utils.Fail(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.Sugar.Errorf("avatar upload: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save avatar")
		return
	}

	if err := u.db.Model(&models.User{}).Where("user_no = ?", userNo).
		Update("user_image", savedPath).Error; err != nil {
		utils.Sugar.Errorf("avatar upload: save path: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save avatar")
		return
	}

	utils.OK(ctx, gin.H{"success": true, "user_image": savedPath})
}

// DeleteMe removes the caller's account. Hard delete; removal is final.
func (u *UserController) DeleteMe(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := u.db.Delete(&models.User{}, userNo).Error; err != nil {
		utils.Sugar.Errorf("delete account: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to delete account")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}

var (
	errNotAnImage = errors.New("only image files can be uploaded")
	errTooLarge   = errors.New("file size exceeds 5MB")
)

const maxImageSize = 5 * 1024 * 1024

// saveImage writes a multipart image to disk under dir with a uuid filename
// and returns the public URL path beneath urlPrefix.
func saveImage(file multipart.File, header *multipart.FileHeader, dir, urlPrefix string) (string, error) {
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", errNotAnImage
	}
	if header.Size > maxImageSize {
		return "", errTooLarge
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(header.Filename)
	name := uuid.NewString() + ext
	dst := filepath.Join(dir, name)

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	// Enforce the size limit with a limited reader in case the declared
	// header size lies.
	lr := &io.LimitedReader{R: file, N: maxImageSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > maxImageSize {
		os.Remove(dst)
		return "", errTooLarge
	}

	return urlPrefix + "/" + name, nil
}
