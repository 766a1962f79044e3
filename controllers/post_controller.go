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

const postsListCacheKey = "cache:posts:list"

// PostController serves the public gallery listing and the view counter.
type PostController struct {
	db *gorm.DB
}

// NewPostController creates a PostController.
func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

type postSummary struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MainType    string    `json:"mainType"`
	SubType     string    `json:"subType"`
	ImagePath   string    `json:"imagePath"`
	ViewCount   int       `json:"viewCount"`
	Pins        int       `json:"pins"`
	CreatedAt   time.Time `json:"createdAt"`
}

// List returns post summaries joined with taxonomy, first image and pin
// count. Only posts that carry an image, at least one pin and a category
// tag appear, matching the upload flow's guarantees. The unsearched
// listing is cached in Redis and invalidated by uploads and merges.
func (p *PostController) List(ctx *gin.Context) {
	q := strings.TrimSpace(ctx.Query("q"))

	if q == "" {
		if b, ok := utils.CacheGetBytes(postsListCacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	query := p.db.Table("pin_posts p").
		Select(`p.post_no AS id,
			p.post_title AS title,
			p.post_content AS description,
			g.group_name AS main_type,
			c.category_name AS sub_type,
			img.image_path,
			p.view_count,
			COUNT(DISTINCT pq.pin_no) AS pins,
			p.create_datetime AS created_at`).
		Joins("JOIN pin_post_images img ON img.post_no = p.post_no AND img.order_index = 1").
		Joins("JOIN pin_questions pq ON pq.post_no = p.post_no").
		Joins("JOIN pin_post_categories pc ON pc.post_no = p.post_no").
		Joins("JOIN pin_categories c ON c.category_no = pc.category_no").
		Joins("JOIN pin_category_groups g ON g.group_no = c.group_no")

	if q != "" {
		like := "%" + q + "%"
		query = query.Where(`p.post_title LIKE ? OR EXISTS (
			SELECT 1 FROM pin_post_categories pc2
			JOIN pin_categories c2 ON c2.category_no = pc2.category_no
			WHERE pc2.post_no = p.post_no AND c2.category_name LIKE ?)`, like, like)
	}

	var rows []postSummary
	err := query.Group("p.post_no, g.group_no, c.category_no").
		Order("p.create_datetime DESC").
		Scan(&rows).Error
	if err != nil {
		utils.Sugar.Errorf("posts list: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to list posts")
		return
	}
	if rows == nil {
		rows = []postSummary{}
	}

	if q == "" {
		utils.CacheSetJSON(postsListCacheKey, rows, 5*time.Minute)
	}
	utils.OK(ctx, rows)
}

// IncrementView bumps the post's view counter.
func (p *PostController) IncrementView(ctx *gin.Context) {
	id := ctx.Param("id")

	err := p.db.Model(&models.Post{}).
		Where("post_no = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		utils.Sugar.Errorf("increment view: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to increment view count")
		return
	}

	utils.OK(ctx, gin.H{"success": true})
}
