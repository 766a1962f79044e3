package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pinglab/pingboard/config"
	"github.com/pinglab/pingboard/controllers"
	"github.com/pinglab/pingboard/middleware"
	"github.com/pinglab/pingboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Access log goes to its own rolling file, separate from the app log.
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/uploads", cfg.UploadDir)

	healthHandler := func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	r.GET("/", healthHandler)
	r.GET("/health", healthHandler)

	authController := controllers.NewAuthController(db)
	userController := controllers.NewUserController(db)
	mypageController := controllers.NewMypageController(db)
	postController := controllers.NewPostController(db)
	uploadController := controllers.NewUploadController(db)
	designController := controllers.NewDesignController(db)
	pinController := controllers.NewPinController(db)
	feedbackController := controllers.NewFeedbackController(db)
	alarmController := controllers.NewAlarmController(db)
	categoryController := controllers.NewCategoryController(db)
	adminCategoryController := controllers.NewAdminCategoryController(db)
	qnaController := controllers.NewQnaController(db)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/signup", authController.Signup)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// The users group accepts the token from a cookie as well, for the
	// image-form pages that cannot set an Authorization header.
	usersGroup := api.Group("/users")
	usersGroup.Use(middleware.AuthRequiredWithCookie())
	usersGroup.GET("/me", userController.Me)
	usersGroup.PUT("/profile", userController.UpdateProfile)
	usersGroup.PUT("/profile/avatar", userController.UpdateAvatar)
	usersGroup.DELETE("/me", userController.DeleteMe)

	mypageGroup := api.Group("/mypage")
	mypageGroup.Use(middleware.AuthRequired())
	mypageGroup.GET("", mypageController.Profile)
	mypageGroup.PUT("/profile", mypageController.UpdateProfile)
	mypageGroup.GET("/designs", mypageController.Designs)
	mypageGroup.GET("/feedback", mypageController.Feedback)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.List)
	postsGroup.POST("", middleware.AuthRequired(), uploadController.Create)
	postsGroup.POST("/:id/view", postController.IncrementView)

	api.GET("/designs/:postNo", designController.Detail)

	pinsGroup := api.Group("/pins")
	pinsGroup.POST("", middleware.AuthRequired(), pinController.Create)
	pinsGroup.GET("/:pinNo/answers", pinController.ListAnswers)
	pinsGroup.POST("/:pinNo/answers", middleware.AuthRequired(), pinController.CreateAnswer)

	feedbackGroup := api.Group("/feedback")
	feedbackGroup.Use(middleware.AuthRequired())
	feedbackGroup.GET("", feedbackController.List)
	feedbackGroup.GET("/:answerNo", feedbackController.Detail)
	feedbackGroup.PUT("/:answerNo", feedbackController.Update)
	feedbackGroup.DELETE("/:answerNo", feedbackController.Delete)

	alarmsGroup := api.Group("/alarms")
	alarmsGroup.Use(middleware.AuthRequired())
	alarmsGroup.GET("", alarmController.List)
	alarmsGroup.PUT("/:alarmNo/read", alarmController.MarkRead)

	api.GET("/categories", categoryController.Tree)

	adminGroup := r.Group("/admin/categories")
	adminGroup.GET("", adminCategoryController.List)
	adminGroup.POST("", adminCategoryController.Create)
	adminGroup.POST("/merge", adminCategoryController.Merge)
	adminGroup.PUT("/:categoryNo", adminCategoryController.Update)
	adminGroup.PATCH("/:categoryNo/status", adminCategoryController.SetStatus)

	qnaGroup := r.Group("/qna/questions")
	qnaGroup.GET("", qnaController.ListQuestions)
	qnaGroup.POST("", middleware.AuthRequired(), qnaController.CreateQuestion)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Fail(ctx, http.StatusNotFound, "not found")
			return
		}
		ctx.Status(http.StatusNotFound)
	})

	return r
}
