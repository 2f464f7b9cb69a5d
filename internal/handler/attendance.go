package handler

import (
	"net/http"

	"github.com/Shakeel7G/clock-it/internal/apierror"
	"github.com/Shakeel7G/clock-it/internal/service"

	"github.com/gin-gonic/gin"
)

// AttendanceHandler serves QR issuance, the public scan endpoint, and
// attendance history.
type AttendanceHandler struct {
	attendance service.AttendanceService
	qr         service.QRService
}

func NewAttendanceHandler(attendance service.AttendanceService, qr service.QRService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance, qr: qr}
}

// IssueQR godoc
// @Summary Issue a time-boxed attendance QR code for the caller
// @Tags attendance
// @Produce json
// @Success 200 {object} dto.QRIssueResponse
// @Router /v1/attendance/qr [get]
func (h *AttendanceHandler) IssueQR(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	resp, err := h.qr.Issue(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Scan godoc
// @Summary Record attendance by presenting a scan token
// @Tags attendance
// @Produce json
// @Param token query string true "Scan token"
// @Success 200 {object} dto.ScanResponse
// @Failure 401 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/attendance/scan [get]
func (h *AttendanceHandler) Scan(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, apierror.New("no token provided"))
		return
	}
	resp, err := h.attendance.Scan(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) MyAttendance(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	resp, err := h.attendance.MyHistory(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAll returns every attendance record. Admin only (enforced by the route).
func (h *AttendanceHandler) ListAll(c *gin.Context) {
	resp, err := h.attendance.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) QRHistory(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	resp, err := h.qr.History(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AttendanceHandler) ActiveQR(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	resp, err := h.qr.Active(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
