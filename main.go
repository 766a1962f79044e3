package main

import (
	"github.com/pinglab/pingboard/config"
	"github.com/pinglab/pingboard/models"
	"github.com/pinglab/pingboard/routes"
	"github.com/pinglab/pingboard/utils"
)

func main() {
	cfg := config.Load()

	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Post{},
		&models.PostImage{},
		&models.CategoryGroup{},
		&models.Category{},
		&models.PostCategory{},
		&models.Pin{},
		&models.PinCategory{},
		&models.Answer{},
		&models.Alarm{},
		&models.QnaQuestion{},
		&models.QnaAnswer{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
