package dapr

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/donelist/donelist-api/internal/platform/logger"
)

// ReminderJobName derives the job name for a task's reminder. One job exists
// per task and owner, so rescheduling a reminder overwrites the previous job
// rather than stacking a second one.
func ReminderJobName(taskID int64, userID string) string {
	return fmt.Sprintf("reminder-%d-%s", taskID, userID)
}

// jobSpec is the body of the alpha jobs API.
type jobSpec struct {
	Schedule string      `json:"schedule"`
	Data     interface{} `json:"data"`
}

// reminderJobData is what the sidecar hands back to the job callback.
type reminderJobData struct {
	TaskID int64  `json:"task_id"`
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
}

// ScheduleJob schedules a named job via the sidecar's alpha jobs API.
// schedule is a cron expression or an ISO 8601 timestamp; data is delivered
// to the job callback when the job fires. Reports whether the sidecar
// accepted the job.
func (c *Client) ScheduleJob(ctx context.Context, name, schedule string, data interface{}) bool {
	log := logger.FromContextOrDefault(ctx, c.logger)

	url := fmt.Sprintf("%s/v1.0-alpha1/jobs/%s", c.baseURL, name)

	status, _, err := c.post(ctx, url, jobSpec{Schedule: schedule, Data: data})
	if err != nil {
		log.Warn("jobs API not available, job not scheduled",
			slog.String("job_name", name),
			slog.String("error", err.Error()))
		return false
	}

	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
		return true
	default:
		log.Warn("sidecar rejected job",
			slog.String("job_name", name),
			slog.Int("status", status))
		return false
	}
}

// ScheduleReminder schedules a one-shot reminder job for a task, to fire at
// remindAt. The job name is derived from the task and owner so a second call
// replaces the pending job.
func (c *Client) ScheduleReminder(ctx context.Context, taskID int64, userID, title string, remindAt time.Time) bool {
	return c.ScheduleJob(
		ctx,
		ReminderJobName(taskID, userID),
		remindAt.UTC().Format(time.RFC3339),
		reminderJobData{
			TaskID: taskID,
			UserID: userID,
			Title:  title,
			Type:   "reminder",
		},
	)
}

// DeleteJob removes a scheduled job. Deleting a job that does not exist is
// reported as false but is harmless.
func (c *Client) DeleteJob(ctx context.Context, name string) bool {
	log := logger.FromContextOrDefault(ctx, c.logger)

	url := fmt.Sprintf("%s/v1.0-alpha1/jobs/%s", c.baseURL, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("jobs API not available, job not deleted",
			slog.String("job_name", name),
			slog.String("error", err.Error()))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent
}

// DeleteReminder removes the pending reminder job for a task, if any.
func (c *Client) DeleteReminder(ctx context.Context, taskID int64, userID string) bool {
	return c.DeleteJob(ctx, ReminderJobName(taskID, userID))
}
