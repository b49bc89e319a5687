package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kzl/storefront-api/internal/dto"
	"github.com/kzl/storefront-api/internal/repository"
	"github.com/kzl/storefront-api/internal/service"
)

type ReportHandler struct {
	reportService *service.ReportService
	auditRepo     repository.AuditRepository
}

func NewReportHandler(reportService *service.ReportService, auditRepo repository.AuditRepository) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditRepo: auditRepo}
}

func (h *ReportHandler) ConfirmedSales(c *gin.Context) {
	var req dto.OrderReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.reportService.ConfirmedSales(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrBadReportRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report date range"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReportHandler) AuditLogs(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 || limit > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	logs, err := h.auditRepo.ListByEntity(c.Request.Context(), c.Query("entity_id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}
