package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/utils"
)

// DesignController serves the public detail view of an uploaded design.
type DesignController struct {
	db *gorm.DB
}

// NewDesignController creates a DesignController.
func NewDesignController(db *gorm.DB) *DesignController {
	return &DesignController{db: db}
}

type designPost struct {
	PostNo      uint    `json:"post_no"`
	PostTitle   string  `json:"post_title"`
	PostContent string  `json:"post_content"`
	Nickname    string  `json:"user_nickname"`
	UserImage   *string `json:"user_image"`
}

type designPin struct {
	PinNo    uint    `json:"pin_no"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Question string  `json:"question"`
}

// Detail returns the post, its first image and all pins placed on it.
// A post without an image is not presentable and answers 404 like a
// missing post.
func (d *DesignController) Detail(ctx *gin.Context) {
	postNo := ctx.Param("postNo")

	var post designPost
	err := d.db.Table("pin_posts p").
		Select("p.post_no, p.post_title, p.post_content, u.user_nickname, u.user_image").
		Joins("JOIN pin_users u ON u.user_no = p.user_no").
		Where("p.post_no = ?", postNo).
		Take(&post).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.Sugar.Errorf("design detail: load post: %v", err)
		}
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return
	}

	var image struct {
		ImageNo   uint
		ImagePath string
	}
	err = d.db.Table("pin_post_images").
		Select("image_no, image_path").
		Where("post_no = ?", postNo).
		Order("image_no ASC").
		Take(&image).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.Sugar.Errorf("design detail: load image: %v", err)
		}
		utils.Fail(ctx, http.StatusNotFound, "image not found")
		return
	}

	var pins []designPin
	err = d.db.Table("pin_questions").
		Select("pin_no, x, y, question_content AS question").
		Where("post_no = ?", postNo).
		Scan(&pins).Error
	if err != nil {
		utils.Sugar.Errorf("design detail: load pins: %v", err)
		utils.Fail(ctx, http.StatusInternalServerError, "failed to load pins")
		return
	}
	if pins == nil {
		pins = []designPin{}
	}

	utils.OK(ctx, gin.H{
		"post":     post,
		"imageUrl": image.ImagePath,
		"pins":     pins,
	})
}
