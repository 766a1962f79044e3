package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/utils"
)

// AdminCategoryController manages the problem-type taxonomy: listing with
// live usage counts, create/update/status, and the merge transaction.
type AdminCategoryController struct {
	db *gorm.DB
}

// NewAdminCategoryController creates an AdminCategoryController.
func NewAdminCategoryController(db *gorm.DB) *AdminCategoryController {
	return &AdminCategoryController{db: db}
}

type adminCategoryRow struct {
	CategoryNo   uint      `json:"category_no"`
	CategoryName string    `json:"category_name"`
	GroupNo      uint      `json:"group_no"`
	GroupName    string    `json:"group_name"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     int       `json:"is_active"`
	UsageCount   int       `json:"usage_count"`
}

// List returns categories with a correlated usage count against the post
// junction table, computed at read time and never cached.
func (a *AdminCategoryController) List(ctx *gin.Context) {
	groupNo := strings.TrimSpace(ctx.DefaultQuery("groupNo", "all"))
	status := strings.TrimSpace(ctx.DefaultQuery("status", "all"))

	query := a.db.Table("pin_categories c").
		Select(`c.category_no, c.category_name, c.group_no, g.group_name,
			c.created_at, c.is_active,
			(SELECT COUNT(*) FROM pin_post_categories pc
			 WHERE pc.category_no = c.category_no) AS usage_count`).
		Joins("JOIN pin_category_groups g ON c.group_no = g.group_no")

	if groupNo != "all" {
		query = query.Where("c.group_no = ?", groupNo)
	}
	switch status {
	case "active":
		query = query.Where("c.is_active = 1")
	case "inactive":
		query = query.Where("c.is_active = 0")
	}

	var rows []adminCategoryRow
	if err := query.Order("c.created_at DESC, c.category_no DESC").Scan(&rows).Error; err != nil {
		utils.Sugar.Errorf("admin categories list: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list categories")
		return
	}

	if rows == nil {
		rows = []adminCategoryRow{}
	}
	utils.OK(ctx, rows)
}

// Create inserts a category. The (group, name) unique index is the
// authoritative duplicate guard; its violation maps to 409.
func (a *AdminCategoryController) Create(ctx *gin.Context) {
	var req struct {
		GroupNo uint   `json:"group_no"`
		Name    string `json:"category_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "group_no and category_name are required")
		return
	}

	name := strings.TrimSpace(req.Name)
	if req.GroupNo == 0 || name == "" {
		utils.Fail(ctx, http.StatusBadRequest, "group_no and category_name are required")
		return
	}

	category := models.Category{GroupNo: req.GroupNo, Name: name, IsActive: 1}
	if err := a.db.Create(&category).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.Fail(ctx, http.StatusConflict, "category already exists")
			return
		}
		utils.Sugar.Errorf("admin categories create: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to create category")
		return
	}

	utils.InvalidateByPrefix(categoryTreeCacheKey)

	utils.OK(ctx, gin.H{"success": true, "category_no": category.CategoryNo})
}

// Update renames a category or moves it to another group. Colliding with a
// different category's (group, name) answers 409.
func (a *AdminCategoryController) Update(ctx *gin.Context) {
	categoryNo, err := strconv.ParseUint(ctx.Param("categoryNo"), 10, 64)
	if err != nil || categoryNo == 0 {
		utils.Fail(ctx, http.StatusBadRequest, "invalid category number")
		return
	}

	var req struct {
		GroupNo uint   `json:"group_no"`
		Name    string `json:"category_name"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "group_no and category_name are required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if req.GroupNo == 0 || name == "" {
		utils.Fail(ctx, http.StatusBadRequest, "group_no and category_name are required")
		return
	}

	var existing models.Category
	if err := a.db.First(&existing, categoryNo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Fail(ctx, http.StatusNotFound, "category not found")
			return
		}
		utils.Sugar.Errorf("admin categories update: load: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update category")
		return
	}

	err = a.db.Model(&models.Category{}).
		Where("category_no = ?", categoryNo).
		Updates(map[string]interface{}{"group_no": req.GroupNo, "category_name": name}).Error
	if err != nil {
		if utils.IsDuplicateKey(err) {
			utils.Fail(ctx, http.StatusConflict, "category already exists")
			return
		}
		utils.Sugar.Errorf("admin categories update: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update category")
		return
	}

	utils.InvalidateByPrefix(categoryTreeCacheKey)

	utils.OK(ctx, gin.H{"success": true})
}

// SetStatus toggles a category's active flag. Zero rows affected means the
// category does not exist.
func (a *AdminCategoryController) SetStatus(ctx *gin.Context) {
	categoryNo, err := strconv.ParseUint(ctx.Param("categoryNo"), 10, 64)
	if err != nil || categoryNo == 0 {
		utils.Fail(ctx, http.StatusBadRequest, "invalid category number")
		return
	}

	var req struct {
		IsActive *int `json:"is_active"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil || req.IsActive == nil ||
		(*req.IsActive != 0 && *req.IsActive != 1) {
		utils.Fail(ctx, http.StatusBadRequest, "is_active must be 0 or 1")
		return
	}

	res := a.db.Model(&models.Category{}).
		Where("category_no = ?", categoryNo).
		Update("is_active", *req.IsActive)
	if res.Error != nil {
		utils.Sugar.Errorf("admin categories status: %v", res.Error)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to update status")
		return
	}
	if res.RowsAffected == 0 {
		utils.Fail(ctx, http.StatusNotFound, "category not found")
		return
	}

	utils.InvalidateByPrefix(categoryTreeCacheKey)

	utils.OK(ctx, gin.H{"success": true, "is_active": *req.IsActive})
}

// Merge folds one category's usages into another inside a single
// transaction. Both categories must share a group and the target must be
// active. Post and pin links are copied with insert-if-absent semantics,
// the source links are removed, and the source is deactivated but kept.
// Any failing step rolls the whole transaction back.
func (a *AdminCategoryController) Merge(ctx *gin.Context) {
	var req struct {
		FromCategoryNo uint `json:"from_category_no"`
		ToCategoryNo   uint `json:"to_category_no"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil ||
		req.FromCategoryNo == 0 || req.ToCategoryNo == 0 ||
		req.FromCategoryNo == req.ToCategoryNo {
		utils.Fail(ctx, http.StatusBadRequest, "invalid merge request")
		return
	}

	var mergeErr mergeValidationError
	err := a.db.Transaction(func(tx *gorm.DB) error {
		var cats []models.Category
		if err := tx.Where("category_no IN ?", []uint{req.FromCategoryNo, req.ToCategoryNo}).
			Find(&cats).Error; err != nil {
			return err
		}
		if len(cats) != 2 {
			return mergeValidationError("category not found")
		}

		var from, to *models.Category
		for i := range cats {
			switch cats[i].CategoryNo {
			case req.FromCategoryNo:
				from = &cats[i]
			case req.ToCategoryNo:
				to = &cats[i]
			}
		}
		if from == nil || to == nil {
			return mergeValidationError("category not found")
		}
		if from.GroupNo != to.GroupNo {
			return mergeValidationError("categories must share a group")
		}
		if to.IsActive != 1 {
			return mergeValidationError("merge target must be active")
		}

		// Copy post links, skipping pairs the target already has.
		if err := tx.Exec(`INSERT IGNORE INTO pin_post_categories (post_no, category_no)
			SELECT post_no, ? FROM pin_post_categories WHERE category_no = ?`,
			req.ToCategoryNo, req.FromCategoryNo).Error; err != nil {
			return err
		}
		if err := tx.Where("category_no = ?", req.FromCategoryNo).
			Delete(&models.PostCategory{}).Error; err != nil {
			return err
		}

		// Same treatment for pin links.
		if err := tx.Exec(`INSERT IGNORE INTO pin_question_categories (pin_no, category_no)
			SELECT pin_no, ? FROM pin_question_categories WHERE category_no = ?`,
			req.ToCategoryNo, req.FromCategoryNo).Error; err != nil {
			return err
		}
		if err := tx.Where("category_no = ?", req.FromCategoryNo).
			Delete(&models.PinCategory{}).Error; err != nil {
			return err
		}

		// Retire the source: history stays addressable, new links do not.
		return tx.Model(&models.Category{}).
			Where("category_no = ?", req.FromCategoryNo).
			Update("is_active", 0).Error
	})
	if err != nil {
		if errors.As(err, &mergeErr) {
			utils.Fail(ctx, http.StatusBadRequest, string(mergeErr))
			return
		}
		utils.Sugar.Errorf("admin categories merge: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "merge failed")
		return
	}

	utils.InvalidateByPrefix(categoryTreeCacheKey)
	utils.InvalidateByPrefix(postsListCacheKey)

	utils.OK(ctx, gin.H{"success": true, "message": "merge complete"})
}

// mergeValidationError marks merge precondition failures that answer 400
// instead of 500. Returning it from the transaction closure triggers the
// rollback like any other error.
type mergeValidationError string

func (e mergeValidationError) Error() string { return string(e) }
