package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/model"
	"github.com/Shakeel7G/clock-it/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAttendanceService struct {
	scanResp *dto.ScanResponse
	scanErr  error
}

func (s *stubAttendanceService) Scan(context.Context, string) (*dto.ScanResponse, error) {
	return s.scanResp, s.scanErr
}

func (s *stubAttendanceService) Record(context.Context, uuid.UUID, time.Time) (*model.AttendanceRecord, error) {
	return nil, nil
}

func (s *stubAttendanceService) MyHistory(context.Context, uuid.UUID) (*dto.AttendanceListResponse, error) {
	return &dto.AttendanceListResponse{}, nil
}

func (s *stubAttendanceService) All(context.Context) (*dto.AttendanceListResponse, error) {
	return &dto.AttendanceListResponse{}, nil
}

type stubQRService struct{}

func (stubQRService) Issue(context.Context, uuid.UUID) (*dto.QRIssueResponse, error) {
	return &dto.QRIssueResponse{}, nil
}

func (stubQRService) MarkUsed(context.Context, string) (*model.QRRecord, error) { return nil, nil }

func (stubQRService) History(context.Context, uuid.UUID) ([]dto.QRRecordResponse, error) {
	return nil, nil
}

func (stubQRService) Active(context.Context, uuid.UUID) (*dto.QRRecordResponse, error) {
	return nil, service.ErrQRNotFound
}

func newScanRouter(attendance service.AttendanceService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAttendanceHandler(attendance, stubQRService{})
	r := gin.New()
	r.GET("/v1/attendance/scan", h.Scan)
	return r
}

func getScan(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestScanMissingToken(t *testing.T) {
	r := newScanRouter(&stubAttendanceService{})
	w := getScan(t, r, "/v1/attendance/scan")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", service.ErrTokenExpired, http.StatusUnauthorized},
		{"malformed token", service.ErrTokenMalformed, http.StatusUnauthorized},
		{"wrong purpose", service.ErrWrongPurpose, http.StatusUnauthorized},
		{"expired qr", service.ErrQRExpired, http.StatusUnauthorized},
		{"unknown qr", service.ErrQRNotFound, http.StatusNotFound},
		{"already used", service.ErrQRAlreadyUsed, http.StatusConflict},
		{"already recorded today", service.ErrAlreadyRecorded, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newScanRouter(&stubAttendanceService{scanErr: tc.err})
			w := getScan(t, r, "/v1/attendance/scan?token=some-token")
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestScanSuccess(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	r := newScanRouter(&stubAttendanceService{scanResp: &dto.ScanResponse{
		AccountID: uuid.NewString(),
		Timestamp: ts,
		Date:      "2026-03-15",
	}})

	w := getScan(t, r, "/v1/attendance/scan?token=some-token")
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.ScanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "2026-03-15", got.Date)
}
