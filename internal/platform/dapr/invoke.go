package dapr

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/donelist/donelist-api/internal/platform/logger"
)

// notificationAppID is the Dapr app ID of the downstream notification service.
const notificationAppID = "notification-service"

// Invoke calls a method on another service through the sidecar's service
// invocation building block and returns the raw response body.
func (c *Client) Invoke(ctx context.Context, appID, method string, data interface{}) (json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	url := fmt.Sprintf("%s/v1.0/invoke/%s/method/%s", c.baseURL, appID, method)

	status, body, err := c.post(ctx, url, data)
	if err != nil {
		log.Warn("service invocation failed",
			slog.String("app_id", appID),
			slog.String("method", method),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("invoking %s/%s: %w", appID, method, err)
	}

	if status != http.StatusOK {
		return nil, fmt.Errorf("invoking %s/%s: unexpected status %d", appID, method, status)
	}

	return body, nil
}

// NotifyReminder invokes the notification service to deliver a reminder for
// a task. Delivery is best-effort; a failure is logged and reported as false.
func (c *Client) NotifyReminder(ctx context.Context, taskID int64, userID, title, message string) bool {
	log := logger.FromContextOrDefault(ctx, c.logger)

	_, err := c.Invoke(ctx, notificationAppID, "send-notification", map[string]interface{}{
		"task_id": taskID,
		"user_id": userID,
		"title":   title,
		"message": message,
	})
	if err != nil {
		log.Warn("reminder notification not delivered",
			slog.Int64("task_id", taskID),
			slog.String("error", err.Error()))
		return false
	}

	return true
}
