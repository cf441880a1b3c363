package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ridloal/mini-store/internal/platform/auth"
	"github.com/ridloal/mini-store/internal/platform/httperr"
	"github.com/ridloal/mini-store/internal/product/domain"
	"github.com/ridloal/mini-store/internal/product/service"
)

type ProductHandler struct {
	catalog  service.CatalogService
	verifier auth.Verifier
}

func NewProductHandler(cs service.CatalogService, v auth.Verifier) *ProductHandler {
	return &ProductHandler{catalog: cs, verifier: v}
}

func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := []gin.HandlerFunc{auth.RequireAuth(h.verifier), auth.RequireRole(auth.RoleAdmin)}

	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/", h.ListProducts)
		productRoutes.GET("/search", h.SearchProducts)
		productRoutes.GET("/:id", h.GetProduct)

		admin := productRoutes.Group("", adminOnly...)
		admin.POST("", h.CreateProduct)
		admin.POST("/reindex", h.Reindex)
		admin.PUT("/:id", h.UpdateProduct)
		admin.DELETE("/:id", h.DeleteProduct)
	}

	externalRoutes := router.Group("/external/products")
	{
		externalRoutes.GET("", h.ListExternalProducts)
		externalRoutes.POST("/import", append(adminOnly, h.ImportExternalProduct)...)
	}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.catalog.SearchProducts(c.Request.Context(), c.Query("query"))
	if err != nil {
		httperr.Respond(c, err, "Failed to search products")
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req domain.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	product, err := h.catalog.CreateProduct(c.Request.Context(), req)
	if err != nil {
		httperr.Respond(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req domain.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		httperr.Respond(c, err, "Failed to update product")
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		httperr.Respond(c, err, "Failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) Reindex(c *gin.Context) {
	result, err := h.catalog.Reindex(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, "Failed to rebuild search index")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) ListExternalProducts(c *gin.Context) {
	listings, err := h.catalog.ListExternalProducts(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err, "Failed to retrieve external products")
		return
	}
	c.JSON(http.StatusOK, listings)
}

func (h *ProductHandler) ImportExternalProduct(c *gin.Context) {
	var req domain.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	product, err := h.catalog.ImportExternalProduct(c.Request.Context(), req.ExternalID)
	if err != nil {
		httperr.Respond(c, err, "Failed to import external product")
		return
	}
	c.JSON(http.StatusCreated, product)
}
