package delivery

import (
	"net/http"
	"strconv"

	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CategoryHandler struct {
	useCase usecase.CategoryUseCase
	cache   CachePolicy
	log     *logrus.Logger
}

func NewCategoryHandler(uc usecase.CategoryUseCase, cache CachePolicy, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		useCase: uc,
		cache:   cache,
		log:     logger,
	}
}

func (h *CategoryHandler) RegisterRoutes(router gin.IRouter) {
	categories := router.Group("/categories")
	{
		categories.GET("", CacheFor(h.cache.ListSeconds), h.ListCategories)
		categories.GET("/:id", CacheFor(h.cache.DetailSeconds), h.GetCategoryByID)
	}
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid category ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	category, err := h.useCase.GetCategoryByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get category by ID %d: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve category: "+clientMessage(err))
		return
	}
	SuccessResponse(c, http.StatusOK, "Category retrieved successfully", category)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.useCase.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list categories: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve categories: "+clientMessage(err))
		return
	}
	SuccessResponse(c, http.StatusOK, "Categories retrieved successfully", categories)
}
