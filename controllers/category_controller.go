package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/utils"
)

const categoryTreeCacheKey = "cache:categories:tree"

// CategoryController serves the public category taxonomy.
type CategoryController struct {
	db *gorm.DB
}

// NewCategoryController creates a CategoryController.
func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// Tree returns active categories grouped by theme name, e.g.
// {"Layout": ["Spacing", "Alignment"], ...}. Cached in Redis and
// invalidated by admin category writes.
func (c *CategoryController) Tree(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(categoryTreeCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var rows []struct {
		GroupName    string
		CategoryName string
	}
	err := c.db.Table("pin_category_groups g").
		Select("g.group_name, c.category_name").
		Joins("JOIN pin_categories c ON g.group_no = c.group_no").
		Where("c.is_active = 1").
		Order("g.group_no, c.category_no").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("category tree: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load categories")
		return
	}

	tree := map[string][]string{}
	for _, r := range rows {
		tree[r.GroupName] = append(tree[r.GroupName], r.CategoryName)
	}

	utils.CacheSetJSON(categoryTreeCacheKey, tree, time.Hour)
	utils.OK(ctx, tree)
}
