package controller

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type ExportController struct {
	businessService service.BusinessService
	recordService   service.ServiceRecordService
}

func NewExportController(businessService service.BusinessService, recordService service.ServiceRecordService) *ExportController {
	return &ExportController{
		businessService: businessService,
		recordService:   recordService,
	}
}

// ExportBusinesses streams the active registry as an xlsx workbook. The
// column layout matches the import template, so an export round-trips as a
// valid import.
// GET /api/v1/businesses/export?search=
func (ctrl *ExportController) ExportBusinesses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businesses, err := ctrl.businessService.List(repository.BusinessFilter{
		Search: c.Query("search"),
	})
	if err != nil {
		log.Error("Failed to load businesses for export", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"no_nib", "nik", "nama_lengkap", "nama_usaha", "alamat", "no_hp"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		log.Error("Failed to write export header", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	for i, business := range businesses {
		row := []interface{}{
			business.NIB,
			business.NIK,
			business.OwnerName,
			business.BusinessName,
			business.Address,
			business.Phone,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Error("Failed to write export row", err, map[string]interface{}{
				"row": i + 2,
			})
			apperrors.InternalError(c, "")
			return
		}
	}

	streamWorkbook(c, f, fmt.Sprintf("data-ikm-%s.xlsx", time.Now().Format("2006-01-02")))

	log.Info("Registry exported", map[string]interface{}{
		"rows": len(businesses),
	})
}

// ExportServiceRecords streams service records matching the list filters.
// GET /api/v1/services/export?business_id=&service_type=&year=
func (ctrl *ExportController) ExportServiceRecords(c *gin.Context) {
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
		log.Error("Failed to load service records for export", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := []interface{}{"jenis_layanan", "nomor_dokumen", "tahun_fasilitasi", "status_sertifikat", "tanggal_uji", "tautan_dokumen"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		log.Error("Failed to write export header", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	for i, record := range records {
		status := ""
		if record.CertificateStatus != nil {
			status = string(*record.CertificateStatus)
		}
		testDate := ""
		if record.TestDate != nil {
			testDate = record.TestDate.Format("2006-01-02")
		}
		row := []interface{}{
			string(record.ServiceType),
			record.DocumentNumber,
			record.FacilitationYear,
			status,
			testDate,
			record.DocumentURL,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Error("Failed to write export row", err, map[string]interface{}{
				"row": i + 2,
			})
			apperrors.InternalError(c, "")
			return
		}
	}

	streamWorkbook(c, f, fmt.Sprintf("layanan-ikm-%s.xlsx", time.Now().Format("2006-01-02")))

	log.Info("Service records exported", map[string]interface{}{
		"rows": len(records),
	})
}

func streamWorkbook(c *gin.Context, f *excelize.File, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to stream export", err, nil)
		return
	}
	c.Status(http.StatusOK)
}
