package delivery

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func NewRouter(products *ProductHandler, categories *CategoryHandler, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	api := router.Group("/api/v1")
	products.RegisterRoutes(api)
	categories.RegisterRoutes(api)

	return router
}
