// Package luis is a thin client for the LUIS authoring REST API.
package luis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "luis-provisioner/internal/common/errors"
	"luis-provisioner/internal/common/metrics"
)

const (
	authoringPath = "/luis/authoring/v3.0-preview"
	keyHeader     = "Ocp-Apim-Subscription-Key"
)

type AuthoringClient struct {
	key        string
	baseURL    string
	httpClient *http.Client
}

func NewAuthoringClient(endpoint, key string, timeout time.Duration) *AuthoringClient {
	return &AuthoringClient{
		key:     key,
		baseURL: strings.TrimRight(endpoint, "/") + authoringPath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AddApp creates an application and returns its id.
func (c *AuthoringClient) AddApp(ctx context.Context, app ApplicationCreateObject) (string, error) {
	var id string
	if err := c.do(ctx, "apps.add", http.MethodPost, "/apps/", app, &id, http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}
	return id, nil
}

func (c *AuthoringClient) AddIntent(ctx context.Context, appID, version string, intent ModelCreateObject) (string, error) {
	var id string
	if err := c.do(ctx, "model.addIntent", http.MethodPost, versionPath(appID, version, "intents"), intent, &id, http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}
	return id, nil
}

func (c *AuthoringClient) AddEntity(ctx context.Context, appID, version string, entity ModelCreateObject) (string, error) {
	var id string
	if err := c.do(ctx, "model.addEntity", http.MethodPost, versionPath(appID, version, "entities"), entity, &id, http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}
	return id, nil
}

// BatchExamples submits labeled examples in one request. Per-item failures
// are reported in the result, not as an error.
func (c *AuthoringClient) BatchExamples(ctx context.Context, appID, version string, examples []ExampleLabelObject) ([]BatchLabelExample, error) {
	var out []BatchLabelExample
	if err := c.do(ctx, "examples.batch", http.MethodPost, versionPath(appID, version, "examples"), examples, &out, http.StatusCreated, http.StatusOK, http.StatusMultiStatus); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthoringClient) TrainVersion(ctx context.Context, appID, version string) (*EnqueueTrainingResponse, error) {
	var out EnqueueTrainingResponse
	if err := c.do(ctx, "train.trainVersion", http.MethodPost, versionPath(appID, version, "train"), nil, &out, http.StatusAccepted, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *AuthoringClient) GetTrainingStatus(ctx context.Context, appID, version string) ([]ModelTrainingInfo, error) {
	var out []ModelTrainingInfo
	if err := c.do(ctx, "train.getStatus", http.MethodGet, versionPath(appID, version, "train"), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AuthoringClient) Publish(ctx context.Context, appID string, obj ApplicationPublishObject) (*ProductionOrStagingEndpointInfo, error) {
	var out ProductionOrStagingEndpointInfo
	path := fmt.Sprintf("/apps/%s/publish", url.PathEscape(appID))
	if err := c.do(ctx, "apps.publish", http.MethodPost, path, obj, &out, http.StatusCreated, http.StatusOK, http.StatusMultiStatus); err != nil {
		return nil, err
	}
	return &out, nil
}

func versionPath(appID, version, resource string) string {
	return fmt.Sprintf("/apps/%s/versions/%s/%s", url.PathEscape(appID), url.PathEscape(version), resource)
}

func (c *AuthoringClient) do(ctx context.Context, operation, method, path string, payload, out interface{}, okStatuses ...int) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.AuthoringRequests.WithLabelValues(operation, status).Inc()
		metrics.AuthoringRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", operation, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(keyHeader, c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return apperrors.NewAuthoringTimeoutError(operation, err)
		}
		return apperrors.NewAuthoringRequestFailedError(operation, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewAuthoringRequestFailedError(operation, fmt.Errorf("failed to read response body: %w", err))
	}

	status = strconv.Itoa(resp.StatusCode)
	if !containsStatus(okStatuses, resp.StatusCode) {
		return apperrors.FromHTTPStatus(operation, resp.StatusCode, string(respBody))
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		// ids are sometimes returned as a bare GUID rather than a JSON string
		if s, ok := out.(*string); ok {
			*s = strings.Trim(strings.TrimSpace(string(respBody)), `"`)
			return nil
		}
		return fmt.Errorf("failed to unmarshal %s response: %w", operation, err)
	}

	return nil
}

func containsStatus(statuses []int, code int) bool {
	for _, s := range statuses {
		if s == code {
			return true
		}
	}
	return false
}
