package handler

import (
	"errors"
	"net/http"

	"github.com/Shakeel7G/clock-it/internal/apierror"
	"github.com/Shakeel7G/clock-it/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors to HTTP status codes. Unknown errors go
// through the error-handler middleware and come back as a generic 500.
func respondError(c *gin.Context, err error) {
	var locked *service.LockedError
	switch {
	case errors.As(err, &locked):
		c.JSON(http.StatusLocked, apierror.New(locked.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	case errors.Is(err, service.ErrTokenExpired),
		errors.Is(err, service.ErrTokenMalformed),
		errors.Is(err, service.ErrWrongPurpose),
		errors.Is(err, service.ErrQRExpired):
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid or expired token"))
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSelfDeletion),
		errors.Is(err, service.ErrInvalidOrExpired):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrQRAlreadyUsed),
		errors.Is(err, service.ErrAlreadyRecorded):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrQRNotFound),
		errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
