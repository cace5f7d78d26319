package handlers

import (
	"errors"

	"github.com/billerops/ticketbridge/internal/services"
	"github.com/billerops/ticketbridge/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MappingHandler struct {
	mappingService *services.MappingService
}

func NewMappingHandler(db *gorm.DB) *MappingHandler {
	return &MappingHandler{
		mappingService: services.NewMappingService(db),
	}
}

// List returns paginated ticket mappings
// GET /api/v1/mappings
func (h *MappingHandler) List(c *gin.Context) {
	var req services.MappingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.mappingService.List(&req)
	if err != nil {
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, resp)
}

// GetByTicketKey returns the mapping for a single ticket
// GET /api/v1/mappings/:ticketKey
func (h *MappingHandler) GetByTicketKey(c *gin.Context) {
	mapping, err := h.mappingService.GetByTicketKey(c.Param("ticketKey"))
	if err != nil {
		if errors.Is(err, services.ErrMappingNotFound) {
			response.Error(c, response.NewNotFound("ticket mapping not found"))
			return
		}
		response.ServerError(c, err.Error())
		return
	}

	response.Success(c, mapping)
}
