package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dinperin/simikm-backend/internal/app/repository"
	"github.com/dinperin/simikm-backend/internal/app/service"
	apperrors "github.com/dinperin/simikm-backend/internal/errors"
	"github.com/dinperin/simikm-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type BusinessController struct {
	businessService service.BusinessService
}

func NewBusinessController(businessService service.BusinessService) *BusinessController {
	return &BusinessController{
		businessService: businessService,
	}
}

type RegisterBusinessRequest struct {
	NIB          string `json:"no_nib" binding:"required"`
	NIK          string `json:"nik" binding:"required"`
	OwnerName    string `json:"nama_lengkap" binding:"required"`
	BusinessName string `json:"nama_usaha" binding:"required"`
	Address      string `json:"alamat" binding:"required"`
	Phone        string `json:"no_hp"`
}

type UpdateBusinessRequest struct {
	OwnerName    string `json:"nama_lengkap" binding:"required"`
	BusinessName string `json:"nama_usaha" binding:"required"`
	Address      string `json:"alamat" binding:"required"`
	Phone        string `json:"no_hp"`
}

// parseIDParam reads the :id path segment.
func parseIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "ID tidak valid")
		return 0, false
	}
	return uint(id), true
}

// actorFromContext resolves the audit actor: the authenticated staff member
// on protected routes, the fixed public identity on the intake form.
func actorFromContext(c *gin.Context) service.Actor {
	if actor, ok := middleware.GetActor(c); ok {
		return actor
	}
	return service.PublicActor
}

// Register creates a business record
// POST /api/v1/registrations (public intake)
// POST /api/v1/businesses (staff)
func (ctrl *BusinessController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data pendaftaran tidak lengkap")
		return
	}

	business, err := ctrl.businessService.Create(service.CreateBusinessInput{
		NIB:          req.NIB,
		NIK:          req.NIK,
		OwnerName:    req.OwnerName,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
	}, actorFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNIB):
			apperrors.RespondWithValidationError(c, map[string]string{
				"no_nib": "NIB harus terdiri dari 13 digit angka",
			})
		case errors.Is(err, service.ErrInvalidNIK):
			apperrors.RespondWithValidationError(c, map[string]string{
				"nik": "NIK harus terdiri dari 16 digit angka",
			})
		case errors.Is(err, service.ErrNIBRegistered):
			apperrors.Conflict(c, apperrors.RegistryNIBExists, "NIB sudah terdaftar")
		case errors.Is(err, service.ErrNIKRegistered):
			apperrors.Conflict(c, apperrors.RegistryNIKExists, "NIK sudah terdaftar")
		default:
			log.Error("Failed to register business", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"business": business,
	})
}

// List returns active businesses, newest first
// GET /api/v1/businesses?search=
func (ctrl *BusinessController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.BusinessFilter{
		Search: c.Query("search"),
	}

	businesses, err := ctrl.businessService.List(filter)
	if err != nil {
		log.Error("Failed to list businesses", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// ListDeleted returns binned businesses, most recently binned first
// GET /api/v1/businesses/deleted
func (ctrl *BusinessController) ListDeleted(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	businesses, err := ctrl.businessService.ListDeleted(repository.BusinessFilter{
		Search: c.Query("search"),
	})
	if err != nil {
		log.Error("Failed to list deleted businesses", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// Get returns one active business
// GET /api/v1/businesses/:id
func (ctrl *BusinessController) Get(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	business, err := ctrl.businessService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.RegistryNotFound, "Data IKM tidak ditemukan")
			return
		}
		log.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// Update edits the non-identity fields
// PUT /api/v1/businesses/:id
func (ctrl *BusinessController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Data perubahan tidak lengkap")
		return
	}

	business, err := ctrl.businessService.Update(id, service.UpdateBusinessInput{
		OwnerName:    req.OwnerName,
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Phone:        req.Phone,
	}, actorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.RegistryNotFound, "Data IKM tidak ditemukan")
			return
		}
		log.Error("Failed to update business", err, map[string]interface{}{
			"business_id": id,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"business": business,
	})
}

// Delete moves a business to the recycle bin
// DELETE /api/v1/businesses/:id
func (ctrl *BusinessController) Delete(c *gin.Context) {
	ctrl.lifecycle(c, "delete")
}

// Restore brings a binned business back
// POST /api/v1/businesses/:id/restore
func (ctrl *BusinessController) Restore(c *gin.Context) {
	ctrl.lifecycle(c, "restore")
}

// Purge removes a business permanently
// DELETE /api/v1/businesses/:id/purge
func (ctrl *BusinessController) Purge(c *gin.Context) {
	ctrl.lifecycle(c, "purge")
}

func (ctrl *BusinessController) lifecycle(c *gin.Context, op string) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	actor := actorFromContext(c)
	var err error
	switch op {
	case "delete":
		err = ctrl.businessService.SoftDelete(id, actor)
	case "restore":
		err = ctrl.businessService.Restore(id, actor)
	case "purge":
		err = ctrl.businessService.Purge(id, actor)
	}

	if err != nil {
		if errors.Is(err, service.ErrBusinessNotFound) {
			apperrors.NotFound(c, apperrors.RegistryNotFound, "Data IKM tidak ditemukan")
			return
		}
		log.Error("Business lifecycle operation failed", err, map[string]interface{}{
			"business_id": id,
			"op":          op,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Berhasil",
	})
}

// CheckConflict answers the interactive duplicate probe used by the intake
// form while the citizen types
// GET /api/v1/businesses/check?field=nib&value=...
func (ctrl *BusinessController) CheckConflict(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	field := c.Query("field")
	value := c.Query("value")
	if field == "" || value == "" {
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Parameter field dan value wajib diisi")
		return
	}

	conflict, err := ctrl.businessService.CheckConflict(field, value)
	if err != nil {
		if errors.Is(err, service.ErrUnknownField) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Field pemeriksaan tidak dikenal")
			return
		}
		log.Error("Conflict check failed", err, map[string]interface{}{
			"field": field,
		})
		apperrors.InternalError(c, "")
		return
	}

	if conflict == nil {
		c.JSON(http.StatusOK, gin.H{
			"available": true,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"available":     false,
		"business_name": conflict.BusinessName,
	})
}
