package handlers

import (
	"net/http"

	"salonbook/services/catalog"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves catalogue, schedule and time block administration.
type CatalogHandler struct {
	Service catalog.CatalogService
}

func NewCatalogHandler(s catalog.CatalogService) *CatalogHandler {
	return &CatalogHandler{Service: s}
}

func (h *CatalogHandler) ListServicesHandler(c *gin.Context) {
	services, err := h.Service.ListServices(c.Request.Context(), businessID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func (h *CatalogHandler) CreateServiceHandler(c *gin.Context) {
	var input catalog.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.Service.CreateService(c.Request.Context(), businessID(c), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func (h *CatalogHandler) UpdateServiceHandler(c *gin.Context) {
	var input catalog.ServiceInput
	if !bindJSON(c, &input) {
		return
	}
	svc, err := h.Service.UpdateService(c.Request.Context(), businessID(c), c.Param("id"), input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, svc)
}

func (h *CatalogHandler) DeleteServiceHandler(c *gin.Context) {
	if err := h.Service.DeleteService(c.Request.Context(), businessID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CatalogHandler) GetWorkConfigHandler(c *gin.Context) {
	cfg, err := h.Service.GetWorkConfig(c.Request.Context(), businessID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *CatalogHandler) PutWorkConfigHandler(c *gin.Context) {
	var input catalog.WorkConfigInput
	if !bindJSON(c, &input) {
		return
	}
	cfg, err := h.Service.PutWorkConfig(c.Request.Context(), businessID(c), input, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// ListTimeBlocksHandler lists every block, or with ?date only those
// active on that day.
func (h *CatalogHandler) ListTimeBlocksHandler(c *gin.Context) {
	ctx, biz := c.Request.Context(), businessID(c)
	if date := c.Query("date"); date != "" {
		blocks, err := h.Service.ActiveBlocks(ctx, biz, date)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, blocks)
		return
	}
	blocks, err := h.Service.ListTimeBlocks(ctx, biz)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, blocks)
}

func (h *CatalogHandler) CreateTimeBlockHandler(c *gin.Context) {
	var input catalog.TimeBlockInput
	if !bindJSON(c, &input) {
		return
	}
	block, err := h.Service.CreateTimeBlock(c.Request.Context(), businessID(c), input, actorID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *CatalogHandler) DeleteTimeBlockHandler(c *gin.Context) {
	if err := h.Service.DeleteTimeBlock(c.Request.Context(), businessID(c), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
