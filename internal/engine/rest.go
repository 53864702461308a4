package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/model"
)

// RESTClient implements Client against the gateway REST API
// (POST /v2/deployments, GET /v2/topology).
type RESTClient struct {
	httpClient *http.Client
	logger     zerolog.Logger
	tokens     *tokenSource
}

// NewRESTClient creates a client with the given per-request timeout.
// The orchestrator imposes no timeout of its own; this is the only
// deadline on deploy and topology calls.
func NewRESTClient(logger zerolog.Logger, timeout time.Duration) *RESTClient {
	httpClient := &http.Client{Timeout: timeout}
	return &RESTClient{
		httpClient: httpClient,
		logger:     logger.With().Str("component", "engine-client").Logger(),
		tokens:     newTokenSource(httpClient),
	}
}

// Deploy uploads the saved document as a deployment resource. Engine
// rejections come back as an unsuccessful DeploymentResult; only
// request-construction failures surface as errors.
func (c *RESTClient) Deploy(ctx context.Context, doc model.SavedDocument, cfg model.DeploymentConfig) (model.DeploymentResult, error) {
	base := baseURL(cfg.Endpoint)
	if base == "" {
		return model.DeploymentResult{}, fmt.Errorf("endpoint %s has no contact point", cfg.Endpoint.ID)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("resources", doc.Name)
	if err != nil {
		return model.DeploymentResult{}, fmt.Errorf("build deploy request: %w", err)
	}
	if _, err := part.Write(doc.Contents); err != nil {
		return model.DeploymentResult{}, fmt.Errorf("build deploy request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return model.DeploymentResult{}, fmt.Errorf("build deploy request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/v2/deployments", &body)
	if err != nil {
		return model.DeploymentResult{}, fmt.Errorf("build deploy request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := c.authorize(ctx, req, cfg.Endpoint); err != nil {
		return failureResult(16, err.Error()), nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("endpoint", cfg.Endpoint.ID).Msg("deploy request failed")
		return failureResult(transportErrorCode(err), err.Error()), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return failureResult(13, err.Error()), nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result := failureResult(codeFromHTTPStatus(resp.StatusCode), http.StatusText(resp.StatusCode))
		var engineErr struct {
			Title  string `json:"title"`
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &engineErr) == nil && engineErr.Detail != "" {
			result.Response.Message = engineErr.Detail
			result.Response.Details = data
		}
		return result, nil
	}

	var deployed struct {
		DeploymentKey string `json:"deploymentKey"`
		Deployments   []struct {
			ProcessDefinition struct {
				ProcessDefinitionID string `json:"processDefinitionId"`
				Version             int    `json:"processDefinitionVersion"`
			} `json:"processDefinition"`
		} `json:"deployments"`
	}
	if err := json.Unmarshal(data, &deployed); err != nil {
		return failureResult(13, fmt.Sprintf("parse deploy response: %v", err)), nil
	}

	result := model.DeploymentResult{
		Success:  true,
		Response: model.DeploymentResponse{Key: deployed.DeploymentKey},
	}
	for _, d := range deployed.Deployments {
		result.Response.Deployments = append(result.Response.Deployments, model.DeployedArtifact{
			ID:      d.ProcessDefinition.ProcessDefinitionID,
			Version: d.ProcessDefinition.Version,
		})
	}
	return result, nil
}

// GatewayVersion queries the cluster topology for the gateway's
// reported version string.
func (c *RESTClient) GatewayVersion(ctx context.Context, endpoint model.Endpoint) (string, error) {
	base := baseURL(endpoint)
	if base == "" {
		return "", fmt.Errorf("endpoint %s has no contact point", endpoint.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/v2/topology", nil)
	if err != nil {
		return "", fmt.Errorf("build topology request: %w", err)
	}
	if err := c.authorize(ctx, req, endpoint); err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("query topology: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("query topology: %s", resp.Status)
	}

	var topology struct {
		GatewayVersion string `json:"gatewayVersion"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&topology); err != nil {
		return "", fmt.Errorf("parse topology response: %w", err)
	}
	return topology.GatewayVersion, nil
}

func (c *RESTClient) authorize(ctx context.Context, req *http.Request, endpoint model.Endpoint) error {
	token, err := c.tokens.token(ctx, endpoint)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func failureResult(code int, message string) model.DeploymentResult {
	return model.DeploymentResult{
		Success:  false,
		Response: model.DeploymentResponse{Code: code, Message: message},
	}
}

// codeFromHTTPStatus folds HTTP rejections into the numeric code
// table used for error classification.
func codeFromHTTPStatus(status int) int {
	switch status {
	case http.StatusBadRequest:
		return 3
	case http.StatusUnauthorized:
		return 16
	case http.StatusForbidden:
		return 7
	case http.StatusNotFound:
		return 5
	case http.StatusConflict:
		return 6
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return 4
	case http.StatusTooManyRequests:
		return 8
	case http.StatusNotImplemented:
		return 12
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return 14
	default:
		return 2
	}
}

// transportErrorCode classifies errors from the HTTP transport layer.
// Timeouts (including context deadlines) map to deadline-exceeded,
// everything else to unavailable.
func transportErrorCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return 4
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return 4
	}
	return 14
}
