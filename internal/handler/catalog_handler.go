package handler

import (
	"net/http"

	"backend/internal/catalog"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	services := router.Group("/api/services")
	{
		services.GET("", h.ListServices)
		services.GET("/:slug", h.GetService)
	}
}

// ListServices returns every attestable coupon and gift-card brand
// @Summary      List services
// @Tags         services
// @Produce      json
// @Success      200  {object}  response.Response{data=[]catalog.Service}
// @Router       /api/services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, catalog.All()))
}

// GetService resolves a slug to its service
// @Summary      Get service by slug
// @Tags         services
// @Produce      json
// @Param        slug  path      string  true  "Service Slug"
// @Success      200   {object}  response.Response{data=catalog.Service}
// @Failure      404   {object}  response.Response
// @Router       /api/services/{slug} [get]
func (h *CatalogHandler) GetService(c *gin.Context) {
	svc, ok := catalog.FindBySlug(c.Param("slug"))
	if !ok {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Unknown service"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, svc))
}
