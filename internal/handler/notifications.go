package handler

import (
	"net/http"

	"github.com/Shakeel7G/clock-it/internal/dto"
	"github.com/Shakeel7G/clock-it/internal/repository"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler reads straight from the repository — the listing has no
// business rules worth a service layer.
type NotificationsHandler struct{ repo repository.NotificationRepository }

func NewNotificationsHandler(repo repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

func (h *NotificationsHandler) List(c *gin.Context) {
	accountID, ok := claimsAccountID(c)
	if !ok {
		return
	}
	notes, err := h.repo.ListByAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]dto.NotificationResponse, 0, len(notes))
	for i := range notes {
		out = append(out, dto.NotificationResponse{
			ID:        notes[i].ID.String(),
			Title:     notes[i].Title,
			Message:   notes[i].Message,
			CreatedAt: notes[i].CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}
