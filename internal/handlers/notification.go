package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-assignment-api/internal/errors"
	"github.com/yukikurage/task-assignment-api/internal/middleware"
	"github.com/yukikurage/task-assignment-api/internal/notify"
	"github.com/yukikurage/task-assignment-api/internal/services"
)

// NotificationHandler lets a manager check that assignment mail is deliverable
type NotificationHandler struct {
	authService *services.AuthService
	notifier    notify.Notifier
	timeout     time.Duration
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(authService *services.AuthService, notifier notify.Notifier, timeout time.Duration) *NotificationHandler {
	return &NotificationHandler{
		authService: authService,
		notifier:    notifier,
		timeout:     timeout,
	}
}

// SendTest sends a sample assignment email to the calling manager and waits for the outcome.
// Unlike task creation, a delivery failure is reported to the caller.
func (h *NotificationHandler) SendTest(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	if !caller.IsManager() {
		apierrors.Forbidden(c, "Access denied. Managers only.")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), caller.UserID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, err.Error())
			return
		}
		_ = c.Error(err)
		apierrors.InternalError(c, "")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result := h.notifier.NotifyAssigned(ctx, notify.Assignment{
		RecipientEmail: user.Email,
		RecipientName:  user.Name,
		TaskTitle:      "Test notification",
		AssignerName:   user.Name,
	})
	if !result.Success {
		if result.Err != nil {
			_ = c.Error(result.Err)
		}
		apierrors.BadGateway(c, "Failed to send test email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Test email sent to " + user.Email,
		"messageId": result.MessageID,
	})
}
