package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pinglab/pingboard/config"
	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// UploadController handles design uploads: one post, one image, and the
// category links resolved from the submitted issue names.
type UploadController struct {
	db *gorm.DB
}

// NewUploadController creates an UploadController.
func NewUploadController(db *gorm.DB) *UploadController {
	return &UploadController{db: db}
}

// Create accepts a multipart upload (image, title, desc, issues JSON array)
// and inserts post, image and category links in a single transaction so a
// mid-sequence failure cannot leave an orphaned post. Issue names without a
// matching category are silently dropped.
func (u *UploadController) Create(ctx *gin.Context) {
	userNo, ok := getUserNo(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("image")
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "no image uploaded")
		return
	}
	defer file.Close()

	title := utils.Sanitize(strings.TrimSpace(ctx.PostForm("title")))
	desc := utils.Sanitize(ctx.PostForm("desc"))

	var issues []string
	if raw := ctx.PostForm("issues"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &issues); err != nil {
			utils.Sugar.Warnf("upload: malformed issues field: %v", err)
			issues = nil
		}
	}

	cfg := config.Get()
	imagePath, err := saveImage(file, header, filepath.Join(cfg.UploadDir, "designs"), "/uploads/designs")
	if err != nil {
		if errors.Is(err, errNotAnImage) || errors.Is(err, errTooLarge) {
			utils.Fail(ctx, http.StatusBadRequest, err.Error())
			return
		}
		utils.Sugar.Errorf("upload: store image: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to store image")
		return
	}

	post := models.Post{UserNo: userNo, Title: title, Content: desc}
	image := models.PostImage{ImagePath: imagePath, OrderIndex: 1}

	err = u.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}

		image.PostNo = post.PostNo
		if err := tx.Create(&image).Error; err != nil {
			return err
		}

		if len(issues) == 0 {
			return nil
		}

		var categoryNos []uint
		if err := tx.Model(&models.Category{}).
			Where("category_name IN ?", issues).
			Pluck("category_no", &categoryNos).Error; err != nil {
			return err
		}
		if len(categoryNos) == 0 {
			return nil
		}

		links := make([]models.PostCategory, 0, len(categoryNos))
		for _, no := range uniqueUint(categoryNos) {
			links = append(links, models.PostCategory{PostNo: post.PostNo, CategoryNo: no})
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
	})
	if err != nil {
		// The blob was already written; a rolled-back post must not
		// leave it orphaned on disk.
		os.Remove(filepath.Join(cfg.UploadDir, "designs", filepath.Base(imagePath)))
		utils.Sugar.Errorf("upload: transaction: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to save post")
		return
	}

	utils.InvalidateByPrefix(postsListCacheKey)

	utils.OK(ctx, gin.H{
		"postNo":    post.PostNo,
		"imageNo":   image.ImageNo,
		"imagePath": imagePath,
	})
}

// uniqueUint removes duplicate values from a slice of uints.
func uniqueUint(slice []uint) []uint {
	seen := make(map[uint]bool, len(slice))
	list := make([]uint, 0, len(slice))
	for _, v := range slice {
		if !seen[v] {
			seen[v] = true
			list = append(list, v)
		}
	}
	return list
}
