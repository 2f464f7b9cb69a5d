package handler

import (
	"net/http"

	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/middleware"
	"github.com/Shakeel7G/clock-it/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct {
	svc      service.AuthService
	recovery service.RecoveryService
}

func NewAuthHandler(svc service.AuthService, recovery service.RecoveryService) *AuthHandler {
	return &AuthHandler{svc: svc, recovery: recovery}
}

// Register godoc
// @Summary Register a new account
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Authenticate and obtain an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Failure 423 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ForgotPassword always answers with the same generic ack so the endpoint
// cannot be used to enumerate accounts.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.recovery.RequestReset(c.Request.Context(), req.Email, req.BackupEmail); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "If that email exists, a reset link was sent."})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.recovery.PerformReset(c.Request.Context(), req.Email, req.Token, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "Password reset successful."})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "Password updated successfully."})
}

// Unlock clears an account's lockout state. Admin only (enforced by the route).
func (h *AuthHandler) Unlock(c *gin.Context) {
	var req dto.UnlockAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Unlock(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "Account unlocked successfully."})
}

// claimsAccountID extracts the authenticated account id from the JWT claims.
// Writes the error response itself when the claims are unusable.
func claimsAccountID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		respondError(c, service.ErrAccountNotFound)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.AccountID)
	if err != nil {
		respondError(c, service.ErrAccountNotFound)
		return uuid.Nil, false
	}
	return id, true
}
