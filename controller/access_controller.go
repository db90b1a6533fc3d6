// controller/access_controller.go
package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	"github.com/dev-rajatverma/doorward/model"
	"github.com/dev-rajatverma/doorward/service"
	"github.com/dev-rajatverma/doorward/util"
	helper_util "github.com/dev-rajatverma/doorward/util/helper"
)

type AccessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) *AccessController {
	return &AccessController{
		accessService: accessService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.POST("/grant", ac.Grant)
		access.POST("/block", ac.Block)
		access.POST("/revoke", ac.Revoke)
	}
	enroll := r.Group("/enroll")
	{
		enroll.POST("/card", ac.EnrollAuthMethod)
		enroll.POST("/biometric", ac.EnrollBiometric)
	}
	subjects := r.Group("/subjects")
	{
		subjects.GET("/:id/access", ac.SubjectAccess)
		subjects.GET("/:id/audit", ac.AuditTrail)
	}
}

// Grant endpoint
func (ac *AccessController) Grant(c *gin.Context) {
	ac.runOperation(c, ac.accessService.Grant)
}

// Block endpoint
func (ac *AccessController) Block(c *gin.Context) {
	ac.runOperation(c, ac.accessService.Block)
}

// Revoke endpoint
func (ac *AccessController) Revoke(c *gin.Context) {
	ac.runOperation(c, ac.accessService.Revoke)
}

// EnrollAuthMethod endpoint
func (ac *AccessController) EnrollAuthMethod(c *gin.Context) {
	ac.runOperation(c, ac.accessService.EnrollAuthMethod)
}

type operationFunc func(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error)

func (ac *AccessController) runOperation(c *gin.Context, op operationFunc) {
	var req model.AccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access request", doorward_errors.ErrInvalidIntentData)
		return
	}
	actorID, err := util.GetActorIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", doorward_errors.ErrUnauthorized)
		return
	}

	result, err := op(c, req, actorID)
	if err != nil {
		ac.respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// EnrollBiometric endpoint
func (ac *AccessController) EnrollBiometric(c *gin.Context) {
	var req model.BiometricEnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid enrollment request", doorward_errors.ErrInvalidIntentData)
		return
	}
	actorID, err := util.GetActorIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", doorward_errors.ErrUnauthorized)
		return
	}

	result, err := ac.accessService.EnrollBiometric(c, req, actorID)
	if err != nil {
		ac.respondOperationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// SubjectAccess endpoint
func (ac *AccessController) SubjectAccess(c *gin.Context) {
	subjectID := c.Param("id")

	terminals, err := ac.accessService.SubjectAccess(c, subjectID)
	if err != nil {
		if errors.Is(err, doorward_errors.ErrSubjectNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Subject not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to read subject access", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject_id": subjectID, "terminals": terminals})
}

// AuditTrail endpoint
func (ac *AccessController) AuditTrail(c *gin.Context) {
	subjectID := c.Param("id")

	from := time.Now().Add(-24 * time.Hour)
	to := time.Now()
	if v := c.Query("from"); v != "" {
		parsed, err := helper_util.ParseTime(v)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' timestamp", err)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := helper_util.ParseTime(v)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' timestamp", err)
			return
		}
		to = parsed
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	entries, err := ac.accessService.AuditTrail(c, subjectID, from, to)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to query audit trail", err)
		return
	}

	c.JSON(http.StatusOK, helper_util.PageSlice(entries, limit, offset))
}

func (ac *AccessController) respondOperationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, doorward_errors.ErrSubjectNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Subject not found", err)
	case errors.Is(err, doorward_errors.ErrZoneNotFound):
		util.RespondWithError(c, http.StatusNotFound, "Terminal group not found", err)
	case errors.Is(err, doorward_errors.ErrInvalidIntentData):
		util.RespondWithError(c, http.StatusBadRequest, "Invalid request data", err)
	case errors.Is(err, doorward_errors.ErrSubjectBusy):
		util.RespondWithError(c, http.StatusConflict, "Another operation is in progress for this subject", err)
	default:
		util.RespondWithError(c, http.StatusInternalServerError, "Operation failed", doorward_errors.ErrInternalServer)
	}
}
