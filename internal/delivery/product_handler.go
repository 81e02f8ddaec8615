package delivery

import (
	"fmt"
	"net/http"
	"strconv"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CachePolicy holds the max-age values, in seconds, for cacheable reads.
type CachePolicy struct {
	ListSeconds   int
	DetailSeconds int
}

type createProductRequest struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  int             `json:"category_id"`
	ImageURL    string          `json:"image_url"`
}

func (r createProductRequest) toDomain() *domain.Product {
	return &domain.Product{
		Name:        r.Name,
		SKU:         r.SKU,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
	}
}

type ProductHandler struct {
	useCase usecase.ProductUseCase
	cache   CachePolicy
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, cache CachePolicy, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		cache:   cache,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter) {
	products := router.Group("/products")
	{
		products.GET("", CacheFor(h.cache.ListSeconds), h.ListProducts)
		products.GET("/:id", CacheFor(h.cache.DetailSeconds), h.GetProductByID)
		products.POST("", NoStore(), h.CreateProduct)
		products.GET("/searchProductByCategory/:categoryId", CacheFor(h.cache.DetailSeconds), h.SearchByCategory)
		products.GET("/searchProductByNameDescription/:searchTerm", CacheFor(h.cache.DetailSeconds), h.SearchByTerm)
		products.PATCH("/buyProduct/:name/:quantity", NoStore(), h.BuyProduct)
	}
}

func (h *ProductHandler) fail(c *gin.Context, action string, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("Failed to %s: %v", action, err)
	} else {
		h.log.Warnf("Failed to %s: %v", action, err)
	}
	ErrorResponse(c, status, "Failed to "+action+": "+clientMessage(err))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for create product: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateProduct(c.Request.Context(), req.toDomain())
	if err != nil {
		h.fail(c, "create product", err)
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.FullPath(), created.ID))
	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return
	}

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "retrieve product", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, "retrieve products", err)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) SearchByCategory(c *gin.Context) {
	idStr := c.Param("categoryId")
	categoryID, err := strconv.Atoi(idStr)
	if err != nil {
		h.log.Warnf("Invalid category ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid category ID format")
		return
	}

	products, err := h.useCase.SearchByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.fail(c, "search products by category", err)
		return
	}
	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", products)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) SearchByTerm(c *gin.Context) {
	term := c.Param("searchTerm")

	products, err := h.useCase.SearchByTerm(c.Request.Context(), term)
	if err != nil {
		h.fail(c, "search products", err)
		return
	}
	if len(products) == 0 {
		SuccessResponse(c, http.StatusOK, "No products found matching criteria", products)
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) BuyProduct(c *gin.Context) {
	name := c.Param("name")
	quantityStr := c.Param("quantity")
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil {
		h.log.Warnf("Invalid quantity parameter: %s", quantityStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid quantity format")
		return
	}

	result, err := h.useCase.BuyProduct(c.Request.Context(), name, quantity)
	if err != nil {
		h.fail(c, "buy product", err)
		return
	}

	units := "units"
	if quantity == 1 {
		units = "unit"
	}
	SuccessResponse(c, http.StatusOK, fmt.Sprintf("Purchased %d %s of product '%s'", quantity, units, name), result)
}
