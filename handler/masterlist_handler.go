package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
	"github.com/gigavenvidere/ggv-oppgjor/service"
)

type MasterListHandler struct {
	settlementService *service.SettlementService
	log               zerolog.Logger
}

func NewMasterListHandler(settlementService *service.SettlementService, log zerolog.Logger) *MasterListHandler {
	return &MasterListHandler{
		settlementService: settlementService,
		log:               log.With().Str("component", "masterlist_handler").Logger(),
	}
}

// GetMasterList handles GET /master-list
func (h *MasterListHandler) GetMasterList(c *gin.Context) {
	list, err := h.settlementService.MasterList(c.Request.Context())
	if err != nil {
		sendServiceError(c, h.log, "Failed to load master list", err)
		return
	}
	c.JSON(http.StatusOK, dto.MasterListResponse{Organizations: list})
}

// ReplaceMasterList handles PUT /master-list
func (h *MasterListHandler) ReplaceMasterList(c *gin.Context) {
	request, ok := h.bind(c)
	if !ok {
		return
	}

	list, err := h.settlementService.ReplaceMasterList(c.Request.Context(), request.Organizations)
	if err != nil {
		sendServiceError(c, h.log, "Failed to save master list", err)
		return
	}
	c.JSON(http.StatusOK, dto.MasterListResponse{Organizations: list})
}

// AddOrganizations handles POST /master-list/organizations
func (h *MasterListHandler) AddOrganizations(c *gin.Context) {
	request, ok := h.bind(c)
	if !ok {
		return
	}
	if len(request.Organizations) == 0 {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "No organizations provided", nil)
		return
	}

	list, added, err := h.settlementService.AddOrganizations(c.Request.Context(), request.Organizations)
	if err != nil {
		sendServiceError(c, h.log, "Failed to add organizations", err)
		return
	}
	c.JSON(http.StatusOK, dto.MasterListResponse{Organizations: list, Added: added})
}

// RemoveOrganization handles DELETE /master-list/organizations/:name
func (h *MasterListHandler) RemoveOrganization(c *gin.Context) {
	name := c.Param("name")

	list, removed, err := h.settlementService.RemoveOrganization(c.Request.Context(), name)
	if err != nil {
		sendServiceError(c, h.log, "Failed to remove organization", err)
		return
	}
	if !removed {
		sendError(c, h.log, http.StatusNotFound, "NOT_FOUND", dto.ErrNotFound.Error()+": "+name, nil)
		return
	}
	c.JSON(http.StatusOK, dto.MasterListResponse{Organizations: list})
}

func (h *MasterListHandler) bind(c *gin.Context) (*dto.MasterListRequest, bool) {
	var request dto.MasterListRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return nil, false
	}
	if err := request.Validate(); err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return nil, false
	}
	return &request, true
}
