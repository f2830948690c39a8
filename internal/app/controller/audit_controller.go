package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuditController struct {
	auditService service.AuditService
}

func NewAuditController(auditService service.AuditService) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// List returns audit entries, newest first
// GET /api/v1/audit-logs?action=&actor=&from=&to=&limit=&offset=
func (ctrl *AuditController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.AuditFilter{
		Action: model.AuditAction(c.Query("action")),
		Actor:  c.Query("actor"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Parameter from harus berformat YYYY-MM-DD")
			return
		}
		filter.From = from
	}
	if toStr := c.Query("to"); toStr != "" {
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Parameter to harus berformat YYYY-MM-DD")
			return
		}
		// Inclusive end of day.
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = limit
		}
	}
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			filter.Offset = offset
		}
	}

	entries, err := ctrl.auditService.List(filter)
	if err != nil {
		log.Error("Failed to list audit entries", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
