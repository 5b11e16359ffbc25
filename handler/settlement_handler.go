package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gigavenvidere/ggv-oppgjor/dto"
	"github.com/gigavenvidere/ggv-oppgjor/service"
)

type SettlementHandler struct {
	settlementService *service.SettlementService
	maxFileSize       int64
	log               zerolog.Logger
}

func NewSettlementHandler(settlementService *service.SettlementService, maxFileSize int64, log zerolog.Logger) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
		maxFileSize:       maxFileSize,
		log:               log.With().Str("component", "settlement_handler").Logger(),
	}
}

// ExtractSettlement handles POST /settlements/extract
func (h *SettlementHandler) ExtractSettlement(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	response, err := h.settlementService.ProcessDocument(c.Request.Context(), filename, data)
	if err != nil {
		sendServiceError(c, h.log, "Failed to process settlement", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExtractText handles POST /settlements/extract-text
func (h *SettlementHandler) ExtractText(c *gin.Context) {
	var request dto.ExtractTextRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return
	}
	if err := request.Validate(); err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	response, err := h.settlementService.ProcessText(c.Request.Context(), request.Text)
	if err != nil {
		sendServiceError(c, h.log, "Failed to process settlement", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ExportSettlement handles POST /settlements/export?format=csv|tsv|xlsx
func (h *SettlementHandler) ExportSettlement(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), err)
		return
	}

	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	out, err := h.settlementService.Export(c.Request.Context(), filename, data, format)
	if err != nil {
		sendServiceError(c, h.log, "Failed to export settlement", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, service.ExportFilename, format))
	c.Data(http.StatusOK, format.ContentType(), out)
}

// readUpload validates and reads the multipart "file" field. On failure the
// error response has already been written.
func (h *SettlementHandler) readUpload(c *gin.Context) (string, []byte, bool) {
	header, err := c.FormFile("file")
	if err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "No file provided", err)
		return "", nil, false
	}

	request := &dto.SettlementUploadRequest{File: header}
	if err := request.Validate(h.maxFileSize); err != nil {
		sendServiceError(c, h.log, err.Error(), err)
		return "", nil, false
	}

	f, err := header.Open()
	if err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "Failed to open upload", err)
		return "", nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		sendError(c, h.log, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read upload", err)
		return "", nil, false
	}

	h.log.Debug().
		Str("request_id", RequestIDFromContext(c)).
		Str("file", header.Filename).
		Int64("size", header.Size).
		Msg("received settlement upload")
	return header.Filename, data, true
}
