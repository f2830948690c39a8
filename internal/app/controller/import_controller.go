package controller

import (
	"errors"
	"net/http"

	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Uploads larger than this are rejected before parsing.
const maxImportFileSize = 10 << 20 // 10MB

type ImportController struct {
	importService service.ImportService
}

func NewImportController(importService service.ImportService) *ImportController {
	return &ImportController{
		importService: importService,
	}
}

type CommitImportRequest struct {
	Rows []service.ImportRow `json:"rows" binding:"required"`
}

// Reconcile parses an uploaded xlsx and partitions its rows against the
// active registry. Nothing is written; the operator reviews the plan first.
// POST /api/v1/imports/reconcile (multipart: file, check_nik)
func (ctrl *ImportController) Reconcile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ImportEmptyFile, "Berkas impor wajib diunggah")
		return
	}
	if fileHeader.Size > maxImportFileSize {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Ukuran berkas melebihi batas 10MB")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err, nil)
		apperrors.InternalError(c, "")
		return
	}
	defer file.Close()

	rows, err := ctrl.importService.ParseSheet(file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptySheet):
			apperrors.BadRequest(c, apperrors.ImportEmptyFile, "Berkas tidak berisi data")
		case errors.Is(err, service.ErrMissingHeader):
			apperrors.BadRequest(c, apperrors.ImportMissingHeader, "Kolom no_nib tidak ditemukan pada berkas")
		default:
			log.Warn("Failed to parse import sheet", map[string]interface{}{
				"filename": fileHeader.Filename,
				"error":    err.Error(),
			})
			apperrors.BadRequest(c, apperrors.ImportInvalidSheet, "Berkas tidak dapat dibaca. Pastikan format xlsx sesuai templat")
		}
		return
	}

	plan, err := ctrl.importService.Reconcile(rows, service.ImportOptions{
		CheckNIK: c.PostForm("check_nik") == "true",
	})
	if err != nil {
		log.Error("Failed to reconcile import batch", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":       plan,
		"total":      len(rows),
		"to_insert":  len(plan.ToInsert),
		"duplicates": len(plan.Duplicates),
	})
}

// Commit inserts the confirmed rows as one all-or-nothing batch
// POST /api/v1/imports/commit
func (ctrl *ImportController) Commit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CommitImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Daftar baris impor tidak valid")
		return
	}

	actor := actorFromContext(c)
	count, err := ctrl.importService.Commit(req.Rows, actor)
	if err != nil {
		log.Error("Import commit failed", err, map[string]interface{}{
			"rows": len(req.Rows),
		})
		// The whole batch rolled back. A constraint rejection usually means
		// another actor registered one of these identifiers after reconcile.
		if apperrors.IsDuplicateKey(err) {
			info := apperrors.ParseError(err, "business")
			apperrors.RespondWithError(c, http.StatusConflict, info.Code,
				info.Message+". Impor dibatalkan, tidak ada baris yang disimpan")
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ImportCommitFailed,
			"Impor gagal, tidak ada baris yang disimpan. Silakan coba lagi")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"inserted": count,
	})
}
