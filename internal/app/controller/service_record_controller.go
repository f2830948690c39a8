package controller

import (
	"errors"
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

type ServiceRecordController struct {
	recordService service.ServiceRecordService
}

func NewServiceRecordController(recordService service.ServiceRecordService) *ServiceRecordController {
	return &ServiceRecordController{
		recordService: recordService,
	}
}

type ServiceRecordRequest struct {
	BusinessID        uint                     `json:"business_id" binding:"required"`
	ServiceType       model.ServiceType        `json:"service_type" binding:"required"`
	DocumentNumber    string                   `json:"document_number"`
	DocumentURL       string                   `json:"document_url"`
	SupplementURL     string                   `json:"supplement_url"`
	CertificateStatus *model.CertificateStatus `json:"certificate_status"`
	FacilitationYear  int                      `json:"facilitation_year" binding:"required"`
	TestDate          *time.Time               `json:"test_date"`
}

func (req *ServiceRecordRequest) toInput() service.ServiceRecordInput {
	return service.ServiceRecordInput{
		BusinessID:        req.BusinessID,
		ServiceType:       req.ServiceType,
		DocumentNumber:    req.DocumentNumber,
		DocumentURL:       req.DocumentURL,
		SupplementURL:     req.SupplementURL,
		CertificateStatus: req.CertificateStatus,
		FacilitationYear:  req.FacilitationYear,
		TestDate:          req.TestDate,
	}
}

// List returns records with optional filters
// GET /api/v1/services?business_id=&service_type=&year=
func (ctrl *ServiceRecordController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ServiceRecordFilter{
		ServiceType: model.ServiceType(c.Query("service_type")),
	}
	if idStr := c.Query("business_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Parameter business_id tidak valid")
			return
		}
		filter.BusinessID = uint(id)
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Parameter tahun tidak valid")
			return
		}
		filter.Year = year
	}

	records, err := ctrl.recordService.List(filter)
	if err != nil {
		log.Error("Failed to list service records", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": records,
		"count":    len(records),
	})
}

// ListDeleted returns binned records
// GET /api/v1/services/deleted
func (ctrl *ServiceRecordController) ListDeleted(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	records, err := ctrl.recordService.ListDeleted()
	if err != nil {
		log.Error("Failed to list deleted service records", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": records,
		"count":    len(records),
	})
}

// Get returns one record
// GET /api/v1/services/:id
func (ctrl *ServiceRecordController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, err := ctrl.recordService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrServiceRecordNotFound) {
			apperrors.NotFound(c, apperrors.ServiceRecordNotFound, "Catatan layanan tidak ditemukan")
			return
		}
		log.Error("Failed to fetch service record", err, map[string]interface{}{
			"record_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": record,
	})
}

// Create records a facilitation service
// POST /api/v1/services
func (ctrl *ServiceRecordController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data layanan tidak lengkap")
		return
	}

	record, err := ctrl.recordService.Create(req.toInput(), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidServiceType):
			apperrors.BadRequest(c, apperrors.ServiceInvalidType, "Jenis layanan tidak dikenal")
		case errors.Is(err, service.ErrInvalidCertStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status sertifikat tidak dikenal")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.RegistryNotFound, "Data IKM tidak ditemukan")
		default:
			log.Error("Failed to create service record", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"service": record,
	})
}

// Update edits a record's service details
// PUT /api/v1/services/:id
func (ctrl *ServiceRecordController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req ServiceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data layanan tidak lengkap")
		return
	}

	record, err := ctrl.recordService.Update(id, req.toInput(), actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrServiceRecordNotFound):
			apperrors.NotFound(c, apperrors.ServiceRecordNotFound, "Catatan layanan tidak ditemukan")
		case errors.Is(err, service.ErrInvalidServiceType):
			apperrors.BadRequest(c, apperrors.ServiceInvalidType, "Jenis layanan tidak dikenal")
		case errors.Is(err, service.ErrInvalidCertStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status sertifikat tidak dikenal")
		default:
			log.Error("Failed to update service record", err, map[string]interface{}{
				"record_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"service": record,
	})
}

// Delete moves a record to the recycle bin
// DELETE /api/v1/services/:id
func (ctrl *ServiceRecordController) Delete(c *gin.Context) {
	ctrl.lifecycle(c, "delete")
}

// Restore brings a binned record back
// POST /api/v1/services/:id/restore
func (ctrl *ServiceRecordController) Restore(c *gin.Context) {
	ctrl.lifecycle(c, "restore")
}

// Purge removes a record permanently
// DELETE /api/v1/services/:id/purge
func (ctrl *ServiceRecordController) Purge(c *gin.Context) {
	ctrl.lifecycle(c, "purge")
}

func (ctrl *ServiceRecordController) lifecycle(c *gin.Context, op string) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := actorFromContext(c)
	var err error
	switch op {
	case "delete":
		err = ctrl.recordService.SoftDelete(id, actor)
	case "restore":
		err = ctrl.recordService.Restore(id, actor)
	case "purge":
		err = ctrl.recordService.Purge(id, actor)
	}

	if err != nil {
		if errors.Is(err, service.ErrServiceRecordNotFound) {
			apperrors.NotFound(c, apperrors.ServiceRecordNotFound, "Catatan layanan tidak ditemukan")
			return
		}
		log.Error("Service record lifecycle operation failed", err, map[string]interface{}{
			"record_id": id,
			"op":        op,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Berhasil",
	})
}
