package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dinperin/simikm-backend/internal/app/model"
	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type TrainingController struct {
	trainingService service.TrainingService
}

func NewTrainingController(trainingService service.TrainingService) *TrainingController {
	return &TrainingController{
		trainingService: trainingService,
	}
}

type TrainingRequest struct {
	Title       string               `json:"title" binding:"required"`
	Schedule    string               `json:"schedule"`
	Year        int                  `json:"year" binding:"required"`
	Quota       int                  `json:"quota" binding:"required,gt=0"`
	Status      model.TrainingStatus `json:"status"`
	Description string               `json:"description"`
}

type EnrollRequest struct {
	BusinessID uint `json:"business_id" binding:"required"`
}

// List returns activities with optional filters
// GET /api/v1/trainings?year=&status=&search=
func (ctrl *TrainingController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.TrainingFilter{
		Status: model.TrainingStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Parameter tahun tidak valid")
			return
		}
		filter.Year = year
	}

	activities, err := ctrl.trainingService.List(filter)
	if err != nil {
		log.Error("Failed to list trainings", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainings": activities,
		"count":     len(activities),
	})
}

// ListDeleted returns binned activities
// GET /api/v1/trainings/deleted
func (ctrl *TrainingController) ListDeleted(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	activities, err := ctrl.trainingService.ListDeleted()
	if err != nil {
		log.Error("Failed to list deleted trainings", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trainings": activities,
		"count":     len(activities),
	})
}

// Get returns one activity
// GET /api/v1/trainings/:id
func (ctrl *TrainingController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	activity, err := ctrl.trainingService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			apperrors.NotFound(c, apperrors.TrainingNotFound, "Kegiatan pelatihan tidak ditemukan")
			return
		}
		log.Error("Failed to fetch training", err, map[string]interface{}{
			"training_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"training": activity,
	})
}

// Create adds an activity
// POST /api/v1/trainings
func (ctrl *TrainingController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data kegiatan tidak lengkap")
		return
	}

	activity, err := ctrl.trainingService.Create(service.TrainingInput{
		Title:       req.Title,
		Schedule:    req.Schedule,
		Year:        req.Year,
		Quota:       req.Quota,
		Status:      req.Status,
		Description: req.Description,
	}, actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status kegiatan tidak dikenal")
			return
		}
		log.Error("Failed to create training", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"training": activity,
	})
}

// Update edits an activity
// PUT /api/v1/trainings/:id
func (ctrl *TrainingController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req TrainingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data kegiatan tidak lengkap")
		return
	}

	activity, err := ctrl.trainingService.Update(id, service.TrainingInput{
		Title:       req.Title,
		Schedule:    req.Schedule,
		Year:        req.Year,
		Quota:       req.Quota,
		Status:      req.Status,
		Description: req.Description,
	}, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			apperrors.NotFound(c, apperrors.TrainingNotFound, "Kegiatan pelatihan tidak ditemukan")
		case errors.Is(err, service.ErrInvalidStatus):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Status kegiatan tidak dikenal")
		default:
			log.Error("Failed to update training", err, map[string]interface{}{
				"training_id": id,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"training": activity,
	})
}

// Delete moves an activity to the recycle bin, roster intact
// DELETE /api/v1/trainings/:id
func (ctrl *TrainingController) Delete(c *gin.Context) {
	ctrl.lifecycle(c, "delete")
}

// Restore brings a binned activity back
// POST /api/v1/trainings/:id/restore
func (ctrl *TrainingController) Restore(c *gin.Context) {
	ctrl.lifecycle(c, "restore")
}

// Purge removes an activity and its roster permanently
// DELETE /api/v1/trainings/:id/purge
func (ctrl *TrainingController) Purge(c *gin.Context) {
	ctrl.lifecycle(c, "purge")
}

func (ctrl *TrainingController) lifecycle(c *gin.Context, op string) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := actorFromContext(c)
	var err error
	switch op {
	case "delete":
		err = ctrl.trainingService.SoftDelete(id, actor)
	case "restore":
		err = ctrl.trainingService.Restore(id, actor)
	case "purge":
		err = ctrl.trainingService.Purge(id, actor)
	}

	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			apperrors.NotFound(c, apperrors.TrainingNotFound, "Kegiatan pelatihan tidak ditemukan")
			return
		}
		log.Error("Training lifecycle operation failed", err, map[string]interface{}{
			"training_id": id,
			"op":          op,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Berhasil",
	})
}

// Roster lists the participants of an activity
// GET /api/v1/trainings/:id/enrollments
func (ctrl *TrainingController) Roster(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	enrollments, err := ctrl.trainingService.Roster(id)
	if err != nil {
		if errors.Is(err, service.ErrTrainingNotFound) {
			apperrors.NotFound(c, apperrors.TrainingNotFound, "Kegiatan pelatihan tidak ditemukan")
			return
		}
		log.Error("Failed to fetch roster", err, map[string]interface{}{
			"training_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"count":       len(enrollments),
	})
}

// Enroll adds a business to the roster
// POST /api/v1/trainings/:id/enrollments
func (ctrl *TrainingController) Enroll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "ID IKM wajib diisi")
		return
	}

	enrollment, err := ctrl.trainingService.Enroll(id, req.BusinessID, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainingNotFound):
			apperrors.NotFound(c, apperrors.TrainingNotFound, "Kegiatan pelatihan tidak ditemukan")
		case errors.Is(err, service.ErrBusinessNotFound):
			apperrors.NotFound(c, apperrors.RegistryNotFound, "Data IKM tidak ditemukan")
		case errors.Is(err, service.ErrQuotaExceeded):
			apperrors.Conflict(c, apperrors.TrainingQuotaExceeded, "Kuota peserta sudah penuh")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			apperrors.Conflict(c, apperrors.TrainingAlreadyEnrolled, "IKM sudah terdaftar pada kegiatan ini")
		default:
			log.Error("Failed to enroll business", err, map[string]interface{}{
				"training_id": id,
				"business_id": req.BusinessID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"enrollment": enrollment,
	})
}

// Unenroll removes a participant, freeing the slot
// DELETE /api/v1/enrollments/:id
func (ctrl *TrainingController) Unenroll(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.trainingService.Unenroll(id, actorFromContext(c)); err != nil {
		if errors.Is(err, service.ErrEnrollmentNotFound) {
			apperrors.NotFound(c, apperrors.EnrollmentNotFound, "Data peserta tidak ditemukan")
			return
		}
		log.Error("Failed to unenroll", err, map[string]interface{}{
			"enrollment_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Berhasil",
	})
}
