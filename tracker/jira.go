// Package tracker writes agreed estimates back to the external issue tracker.
package tracker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type jiraErrorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// JiraClient updates the story-points field of an issue over the Jira REST
// API. It is only invoked on an explicit facilitator apply action.
type JiraClient struct {
	httpClient       *resty.Client
	storyPointsField string
	log              *zap.Logger
}

func NewJiraClient(baseURL, email, apiToken, storyPointsField string, log *zap.Logger) *JiraClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(5 * time.Second).
		SetBasicAuth(email, apiToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &JiraClient{
		httpClient:       client,
		storyPointsField: storyPointsField,
		log:              log,
	}
}

// UpdateItemEstimate writes the estimate to the issue. Numeric card values go
// into the story-points field; non-numeric values ("?", "coffee") are not
// meaningful upstream and are rejected before any request is made. Sub-tasks
// carry no story-points field in most Jira setups, so they are skipped with a
// log line instead of failing the apply.
func (c *JiraClient) UpdateItemEstimate(ctx context.Context, itemKey, value, itemType string) error {
	points, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("estimate %q is not numeric", value)
	}
	if itemType == "sub-task" {
		c.log.Info("skipping tracker update for sub-task", zap.String("item_key", itemKey))
		return nil
	}

	body := map[string]any{
		"fields": map[string]any{
			c.storyPointsField: points,
		},
	}

	var apiErr jiraErrorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&apiErr).
		Put("/rest/api/2/issue/" + itemKey)
	if err != nil {
		c.log.Error("jira update failed",
			zap.String("item_key", itemKey),
			zap.Error(err),
		)
		return fmt.Errorf("failed to call jira: %w", err)
	}
	if resp.IsError() {
		c.log.Error("jira returned error",
			zap.String("item_key", itemKey),
			zap.Int("status_code", resp.StatusCode()),
			zap.Strings("messages", apiErr.ErrorMessages),
		)
		return fmt.Errorf("jira error for %s (status %d)", itemKey, resp.StatusCode())
	}

	c.log.Info("estimate written to jira",
		zap.String("item_key", itemKey),
		zap.Float64("points", points),
	)
	return nil
}
