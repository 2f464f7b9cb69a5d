package handler

import (
	"net/http"

	"github.com/Shakeel7G/clock-it/internal/apierror"
	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountsHandler serves profile self-service and admin user management.
type AccountsHandler struct{ svc service.AuthService }

func NewAccountsHandler(svc service.AuthService) *AccountsHandler {
	return &AccountsHandler{svc: svc}
}

func (h *AccountsHandler) Profile(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	if err := h.svc.UpdateProfile(c.Request.Context(), accountID, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "Profile updated successfully."})
}

func (h *AccountsHandler) List(c *gin.Context) {
	resp, err := h.svc.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid account id"))
		return
	}
	resp, err := h.svc.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AccountsHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid account id"))
		return
	}
	requesterID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteAccount(c.Request.Context(), id, requesterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.Ack{Message: "Account deleted successfully."})
}
