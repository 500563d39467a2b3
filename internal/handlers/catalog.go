package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mountainthreads/rental-ops/internal/catalog"
	"github.com/mountainthreads/rental-ops/internal/dto"
	apierrors "github.com/mountainthreads/rental-ops/internal/errors"
)

// CatalogHandler serves the static option lists and size charts.
type CatalogHandler struct {
	catalog dto.CatalogDTO
}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{catalog: dto.NewCatalogDTO()}
}

// GetCatalog returns every option list.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

// GetSizeGuide returns the chart for a clothing type and garment.
func (h *CatalogHandler) GetSizeGuide(c *gin.Context) {
	guide, ok := catalog.LookupSizeGuide(
		catalog.ClothingType(c.Param("clothingType")),
		catalog.GuideItem(c.Param("item")),
	)
	if !ok {
		apierrors.NotFound(c, "Size guide not found")
		return
	}
	c.JSON(http.StatusOK, guide)
}
