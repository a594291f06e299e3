package api

import (
	"net/http"

	"github.com/dkraev/lingobook/internal/catalog"
	"github.com/dkraev/lingobook/internal/domain"
	"github.com/gin-gonic/gin"
)

// CatalogHandler serves the static service and city data the booking wizard
// renders.
type CatalogHandler struct {
	catalog *catalog.Catalog
}

type serviceResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	BaseRate    int64  `json:"base_rate"`
	Description string `json:"description"`
}

type cityResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Providers []string `json:"providers"`
}

func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) Register(router *gin.RouterGroup) {
	router.GET("/services", h.services)
	router.GET("/cities", h.cities)
}

func (h *CatalogHandler) services(c *gin.Context) {
	services := h.catalog.Services()
	out := make([]serviceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, toServiceResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) cities(c *gin.Context) {
	cities := h.catalog.Cities()
	out := make([]cityResponse, 0, len(cities))
	for _, city := range cities {
		out = append(out, cityResponse{ID: city.ID, Name: city.Name, Providers: city.Providers})
	}
	c.JSON(http.StatusOK, out)
}

func toServiceResponse(s domain.Service) serviceResponse {
	return serviceResponse{ID: s.ID, Name: s.Name, BaseRate: s.BaseRate, Description: s.Description}
}
